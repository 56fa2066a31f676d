package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/jonathan/skillgap/internal/ingestion"
	"github.com/jonathan/skillgap/internal/types"
)

// RecommendationRequest is the body of POST /recommendations
type RecommendationRequest struct {
	JobTitle string   `json:"job_title" validate:"required,max=200"`
	Skills   []string `json:"skills" validate:"max=200,dive,max=100"`
	TopN     int      `json:"top_n,omitempty" validate:"gte=0,lte=50"`
}

// NotFoundResponse is returned when no requirements exist for a job title
type NotFoundResponse struct {
	Error       string             `json:"error"`
	JobTitle    string             `json:"job_title"`
	Suggestions []types.TitleMatch `json:"suggestions"`
}

// SkillsResponse is the response for POST /resumes/skills
type SkillsResponse struct {
	Filename string   `json:"filename"`
	Skills   []string `json:"skills"`
}

// SimilarTitlesResponse is the response for GET /titles/similar
type SimilarTitlesResponse struct {
	Query   string             `json:"query"`
	Matches []types.TitleMatch `json:"matches"`
}

// handleHealth returns server health status
func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	s.jsonResponse(w, http.StatusOK, map[string]any{
		"status":  "ok",
		"courses": s.svc.Catalog().Len(),
		"aliases": s.svc.Aliases().Len(),
	})
}

// handleRecommendations analyzes a skill list against a job title
func (s *Server) handleRecommendations(w http.ResponseWriter, r *http.Request) {
	var req RecommendationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}
	req.JobTitle = strings.TrimSpace(req.JobTitle)
	if err := s.validate.Struct(req); err != nil {
		s.failure(w, r, validationError(err))
		return
	}

	analysis, err := s.svc.Analyze(r.Context(), req.JobTitle, req.Skills, req.TopN)
	if err != nil {
		s.failure(w, r, err)
		return
	}
	if !analysis.Found() {
		suggestions := analysis.Suggestions
		if suggestions == nil {
			suggestions = []types.TitleMatch{}
		}
		s.jsonResponse(w, http.StatusNotFound, NotFoundResponse{
			Error:       "no requirements found for job title",
			JobTitle:    req.JobTitle,
			Suggestions: suggestions,
		})
		return
	}
	s.jsonResponse(w, http.StatusOK, analysis)
}

// handleResumeSkills extracts known skills from an uploaded resume
func (s *Server) handleResumeSkills(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, s.maxUploadBytes)
	if err := r.ParseMultipartForm(s.maxUploadBytes); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			s.failure(w, r, err)
			return
		}
		s.errorResponse(w, http.StatusBadRequest, "Invalid multipart form: "+err.Error())
		return
	}
	defer func() { _ = r.MultipartForm.RemoveAll() }()

	file, header, err := r.FormFile("file")
	if err != nil {
		s.failure(w, r, &ErrValidation{Field: "file", Message: "required"})
		return
	}
	defer func() { _ = file.Close() }()

	ext := strings.ToLower(filepath.Ext(header.Filename))
	if !ingestion.IsSupported(ext) {
		s.failure(w, r, &ingestion.UnsupportedFormatError{Ext: ext})
		return
	}

	path, err := spool(file, ext)
	if err != nil {
		s.failure(w, r, err)
		return
	}
	defer func() { _ = os.Remove(path) }()

	found, err := s.svc.ExtractResumeSkills(r.Context(), path, ext)
	if err != nil {
		s.failure(w, r, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, SkillsResponse{Filename: filepath.Base(header.Filename), Skills: found})
}

// spool copies an upload to a temporary file with the given extension.
func spool(src io.Reader, ext string) (string, error) {
	tmp, err := os.CreateTemp("", "resume-*"+ext)
	if err != nil {
		return "", fmt.Errorf("failed to create temp file: %w", err)
	}
	if _, err := io.Copy(tmp, src); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmp.Name())
		return "", fmt.Errorf("failed to store upload: %w", err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmp.Name())
		return "", fmt.Errorf("failed to store upload: %w", err)
	}
	return tmp.Name(), nil
}

// handleSimilarTitles lists known job titles close to ?q=
func (s *Server) handleSimilarTitles(w http.ResponseWriter, r *http.Request) {
	query := strings.TrimSpace(r.URL.Query().Get("q"))
	if query == "" {
		s.failure(w, r, &ErrValidation{Field: "q", Message: "required"})
		return
	}

	matches, err := s.svc.SimilarTitles(r.Context(), query)
	if err != nil {
		s.failure(w, r, err)
		return
	}
	if matches == nil {
		matches = []types.TitleMatch{}
	}
	s.jsonResponse(w, http.StatusOK, SimilarTitlesResponse{Query: query, Matches: matches})
}

// handleNormalizeSkill maps ?skill= to its canonical name
func (s *Server) handleNormalizeSkill(w http.ResponseWriter, r *http.Request) {
	skill := strings.TrimSpace(r.URL.Query().Get("skill"))
	if skill == "" {
		s.failure(w, r, &ErrValidation{Field: "skill", Message: "required"})
		return
	}
	s.jsonResponse(w, http.StatusOK, s.svc.NormalizeSkill(r.Context(), skill))
}

// validationError converts the first validator failure to an ErrValidation.
func validationError(err error) error {
	var fieldErrs validator.ValidationErrors
	if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
		fe := fieldErrs[0]
		return &ErrValidation{Field: fe.Field(), Message: fe.Tag()}
	}
	return &ErrValidation{Field: "request", Message: "invalid"}
}
