package jobs

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleRequirements = `[
	{"title": "Data Scientist", "skills": ["Python", "SQL", "Machine Learning"]},
	{"title": "DevOps Engineer", "skills": ["Docker", "Kubernetes", "Linux"]},
	{"title": "data scientist", "skills": ["Python", "Statistics"]},
	{"title": "Frontend Developer", "skills": []}
]`

func TestFileStore_RequiredSkills(t *testing.T) {
	reqs, err := ParseRequirements([]byte(sampleRequirements))
	require.NoError(t, err)
	store := NewFileStore(reqs)
	ctx := context.Background()

	skills, found, err := store.RequiredSkills(ctx, "  DEVOPS engineer ")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, []string{"Docker", "Kubernetes", "Linux"}, skills)

	skills, found, err = store.RequiredSkills(ctx, "Data Scientist")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, []string{"Python", "Statistics"}, skills, "later entry wins")

	skills, found, err = store.RequiredSkills(ctx, "Frontend Developer")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Empty(t, skills)

	_, found, err = store.RequiredSkills(ctx, "Astronaut")
	require.NoError(t, err)
	assert.False(t, found)
}

func TestFileStore_Titles(t *testing.T) {
	reqs, err := ParseRequirements([]byte(sampleRequirements))
	require.NoError(t, err)
	store := NewFileStore(reqs)

	titles, err := store.Titles(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"Data Scientist", "DevOps Engineer", "Frontend Developer"}, titles)

	titles[0] = "mutated"
	again, _ := store.Titles(context.Background())
	assert.Equal(t, "Data Scientist", again[0])

	assert.Len(t, store.Requirements(), 3)
}

func TestLoadFileStore(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "job_requirements.json")
	require.NoError(t, os.WriteFile(path, []byte(sampleRequirements), 0644))

	store, err := LoadFileStore(path)
	require.NoError(t, err)
	_, found, _ := store.RequiredSkills(context.Background(), "devops engineer")
	assert.True(t, found)

	_, err = LoadFileStore(filepath.Join(dir, "missing.json"))
	assert.ErrorContains(t, err, "failed to read job requirements")

	bad := filepath.Join(dir, "bad.json")
	require.NoError(t, os.WriteFile(bad, []byte(`[{"title": "X", "skills": "Go"}]`), 0644))
	_, err = LoadFileStore(bad)
	assert.ErrorContains(t, err, "invalid job requirements")
}
