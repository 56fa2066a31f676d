package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/skillgap/internal/catalog"
	"github.com/jonathan/skillgap/internal/embedding"
	"github.com/jonathan/skillgap/internal/jobs"
	"github.com/jonathan/skillgap/internal/logging"
	"github.com/jonathan/skillgap/internal/server/middleware"
	"github.com/jonathan/skillgap/internal/server/ratelimit"
	"github.com/jonathan/skillgap/internal/service"
	"github.com/jonathan/skillgap/internal/skills"
	"github.com/jonathan/skillgap/internal/types"
)

func newTestService(store jobs.Store) *service.Service {
	if store == nil {
		store = jobs.NewFileStore([]jobs.Requirement{
			{Title: "Data Scientist", Skills: []string{"Python", "SQL", "Machine Learning"}},
			{Title: "Data Engineer", Skills: []string{"Python", "SQL", "Docker"}},
		})
	}
	return service.NewWithDeps(service.Deps{
		Aliases: skills.NewAliasTable([]skills.Alias{
			{Raw: "py", Canonical: "Python"},
			{Raw: "python", Canonical: "Python"},
			{Raw: "sql", Canonical: "SQL"},
			{Raw: "docker", Canonical: "Docker"},
		}),
		Catalog: catalog.New([]types.Course{
			{Skill: "SQL", Course: "SQL for Data Science", Platform: "Coursera", URL: "https://example.com/sql"},
			{Skill: "Docker", Course: "Docker Mastery", Platform: "Udemy", URL: "https://example.com/docker"},
		}),
		Store:    store,
		Embedder: embedding.NewNgramEmbedder(0),
		Logger:   logging.Discard(),
	})
}

func newTestServer(t *testing.T, rl *ratelimit.Config) http.Handler {
	t.Helper()
	if rl == nil {
		rl = &ratelimit.Config{Enabled: false}
	}
	s := New(newTestService(nil), Config{RateLimit: rl, Logger: logging.Discard()})
	t.Cleanup(s.Close)
	return s.Handler()
}

func do(t *testing.T, h http.Handler, req *http.Request) *httptest.ResponseRecorder {
	t.Helper()
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func postJSON(path, body string) *http.Request {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	return req
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v), w.Body.String())
	return v
}

func TestHealthEndpoint(t *testing.T) {
	h := newTestServer(t, nil)

	w := do(t, h, httptest.NewRequest(http.MethodGet, "/health", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.NotEmpty(t, w.Header().Get(middleware.RequestIDHeader))

	resp := decode[map[string]any](t, w)
	assert.Equal(t, "ok", resp["status"])
	assert.EqualValues(t, 2, resp["courses"])
}

func TestRecommendations(t *testing.T) {
	h := newTestServer(t, nil)

	w := do(t, h, postJSON("/recommendations", `{"job_title": "Data Engineer", "skills": ["py"]}`))
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	a := decode[types.Analysis](t, w)
	assert.Equal(t, "Data Engineer", a.JobTitle)
	assert.Equal(t, []string{"SQL", "Docker"}, a.Gap)
	assert.InDelta(t, 33.33, a.MatchPercentage, 0.01)
	require.Len(t, a.Recommendations, 2)
	assert.Equal(t, "SQL for Data Science", a.Recommendations[0].Course.Course)
}

func TestRecommendations_ResolvesTypo(t *testing.T) {
	h := newTestServer(t, nil)

	w := do(t, h, postJSON("/recommendations", `{"job_title": "Data Scientst", "skills": ["python", "sql"]}`))
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	a := decode[types.Analysis](t, w)
	assert.Equal(t, "Data Scientist", a.JobTitle)
	assert.Equal(t, "Data Scientst", a.RequestedTitle)
	assert.NotEmpty(t, a.Suggestions)
	assert.Equal(t, []string{"Machine Learning"}, a.Gap)
}

func TestRecommendations_UnknownTitle(t *testing.T) {
	h := newTestServer(t, nil)

	w := do(t, h, postJSON("/recommendations", `{"job_title": "Pastry Chef", "skills": []}`))
	require.Equal(t, http.StatusNotFound, w.Code)

	resp := decode[NotFoundResponse](t, w)
	assert.Equal(t, "Pastry Chef", resp.JobTitle)
	assert.NotNil(t, resp.Suggestions)
}

func TestRecommendations_BadRequests(t *testing.T) {
	h := newTestServer(t, nil)

	tests := []struct {
		name string
		body string
		want string
	}{
		{"invalid json", `{"job_title":`, "Invalid request body"},
		{"missing title", `{"skills": ["py"]}`, "job_title"},
		{"blank title", `{"job_title": "   "}`, "job_title"},
		{"top_n too large", `{"job_title": "Data Engineer", "top_n": 500}`, "top_n"},
		{"skill too long", `{"job_title": "Data Engineer", "skills": ["` + strings.Repeat("x", 101) + `"]}`, "skills[0]"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := do(t, h, postJSON("/recommendations", tt.body))
			assert.Equal(t, http.StatusBadRequest, w.Code)
			assert.Contains(t, decode[map[string]string](t, w)["error"], tt.want)
		})
	}
}

type failingStore struct{}

func (failingStore) RequiredSkills(context.Context, string) ([]string, bool, error) {
	return nil, false, errors.New("connection refused")
}

func (failingStore) Titles(context.Context) ([]string, error) {
	return nil, errors.New("connection refused")
}

func TestRecommendations_StoreFailureHidesDetails(t *testing.T) {
	s := New(newTestService(failingStore{}), Config{RateLimit: &ratelimit.Config{}, Logger: logging.Discard()})
	defer s.Close()

	w := do(t, s.Handler(), postJSON("/recommendations", `{"job_title": "Data Engineer"}`))
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, "internal server error", decode[map[string]string](t, w)["error"])
}

func uploadRequest(t *testing.T, field, filename string, content []byte) *http.Request {
	t.Helper()
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	part, err := mw.CreateFormFile(field, filename)
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/resumes/skills", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

func TestResumeSkills(t *testing.T) {
	h := newTestServer(t, nil)

	w := do(t, h, uploadRequest(t, "file", "resume.txt", []byte("Skills: Python, SQL, Docker")))
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	resp := decode[SkillsResponse](t, w)
	assert.Equal(t, "resume.txt", resp.Filename)
	assert.Subset(t, resp.Skills, []string{"Python", "SQL", "Docker"})
}

func TestResumeSkills_UnsupportedFormat(t *testing.T) {
	h := newTestServer(t, nil)

	w := do(t, h, uploadRequest(t, "file", "photo.png", []byte{0x89, 'P', 'N', 'G'}))
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, decode[map[string]string](t, w)["error"], "unsupported file format: .png")
}

func TestResumeSkills_MissingFile(t *testing.T) {
	h := newTestServer(t, nil)

	w := do(t, h, uploadRequest(t, "document", "resume.txt", []byte("Python")))
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, decode[map[string]string](t, w)["error"], "file")
}

func TestResumeSkills_NotMultipart(t *testing.T) {
	h := newTestServer(t, nil)

	w := do(t, h, postJSON("/resumes/skills", `{}`))
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestSimilarTitles(t *testing.T) {
	h := newTestServer(t, nil)

	w := do(t, h, httptest.NewRequest(http.MethodGet, "/titles/similar?q=data+scientst", nil))
	require.Equal(t, http.StatusOK, w.Code)

	resp := decode[SimilarTitlesResponse](t, w)
	require.NotEmpty(t, resp.Matches)
	assert.Equal(t, "Data Scientist", resp.Matches[0].Title)

	w = do(t, h, httptest.NewRequest(http.MethodGet, "/titles/similar?q=zzzz", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"matches":[]`)

	w = do(t, h, httptest.NewRequest(http.MethodGet, "/titles/similar", nil))
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestNormalizeSkill(t *testing.T) {
	h := newTestServer(t, nil)

	w := do(t, h, httptest.NewRequest(http.MethodGet, "/skills/normalize?skill=PY", nil))
	require.Equal(t, http.StatusOK, w.Code)

	res := decode[skills.NormalizeResult](t, w)
	assert.Equal(t, "Python", res.Name)
	assert.Equal(t, skills.MethodAlias, res.Method)

	w = do(t, h, httptest.NewRequest(http.MethodGet, "/skills/normalize?skill=", nil))
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCORSPreflight(t *testing.T) {
	h := newTestServer(t, nil)

	w := do(t, h, httptest.NewRequest(http.MethodOptions, "/recommendations", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
	assert.Contains(t, w.Header().Get("Access-Control-Allow-Methods"), "POST")
}

func TestRateLimit(t *testing.T) {
	h := newTestServer(t, &ratelimit.Config{
		Enabled:       true,
		DefaultLimit:  100,
		DefaultWindow: time.Minute,
		Rules: []ratelimit.Rule{
			{Method: "GET", Path: "/skills/normalize", Limit: 1, Window: time.Minute},
		},
	})

	w := do(t, h, httptest.NewRequest(http.MethodGet, "/skills/normalize?skill=py", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "1", w.Header().Get("X-RateLimit-Limit"))

	w = do(t, h, httptest.NewRequest(http.MethodGet, "/skills/normalize?skill=py", nil))
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.NotEmpty(t, w.Header().Get("Retry-After"))
	assert.Equal(t, "rate_limit_exceeded", decode[map[string]any](t, w)["error"])

	w = do(t, h, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestMethodNotAllowed(t *testing.T) {
	h := newTestServer(t, nil)

	w := do(t, h, httptest.NewRequest(http.MethodGet, "/recommendations", nil))
	assert.Equal(t, http.StatusMethodNotAllowed, w.Code)
}
