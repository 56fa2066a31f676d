// Package jobs provides job requirement lookup and job title resolution.
package jobs

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/jonathan/skillgap/internal/schemas"
	schemafiles "github.com/jonathan/skillgap/schemas"
)

// Requirement lists the skills required for a job title, in store order.
type Requirement struct {
	Title  string   `json:"title"`
	Skills []string `json:"skills"`
}

// TitleLister lists the distinct job titles known to a store.
type TitleLister interface {
	Titles(ctx context.Context) ([]string, error)
}

// Store looks up job requirements. Title matching is exact but
// case-insensitive. found is false for an unknown title.
type Store interface {
	TitleLister
	RequiredSkills(ctx context.Context, title string) (skills []string, found bool, err error)
}

// FileStore is an in-memory Store loaded from a JSON file.
type FileStore struct {
	titles []string
	skills map[string][]string // lowercased title -> skills
}

// NewFileStore builds a store from requirements. A repeated title (ignoring
// case) keeps its first spelling and position and takes the last skills.
func NewFileStore(reqs []Requirement) *FileStore {
	s := &FileStore{skills: make(map[string][]string, len(reqs))}
	for _, r := range reqs {
		title := strings.TrimSpace(r.Title)
		key := strings.ToLower(title)
		if key == "" {
			continue
		}
		if _, exists := s.skills[key]; !exists {
			s.titles = append(s.titles, title)
		}
		s.skills[key] = append([]string(nil), r.Skills...)
	}
	return s
}

// LoadFileStore reads a JSON array of {"title", "skills"} objects.
func LoadFileStore(path string) (*FileStore, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read job requirements %s: %w", path, err)
	}
	reqs, err := ParseRequirements(data)
	if err != nil {
		return nil, fmt.Errorf("invalid job requirements %s: %w", path, err)
	}
	return NewFileStore(reqs), nil
}

// ParseRequirements validates and decodes a job requirements document.
func ParseRequirements(data []byte) ([]Requirement, error) {
	if err := schemas.Validate(schemafiles.JobRequirements, data); err != nil {
		return nil, err
	}
	var reqs []Requirement
	if err := json.Unmarshal(data, &reqs); err != nil {
		return nil, err
	}
	return reqs, nil
}

// RequiredSkills implements Store.
func (s *FileStore) RequiredSkills(_ context.Context, title string) ([]string, bool, error) {
	skills, ok := s.skills[strings.ToLower(strings.TrimSpace(title))]
	if !ok {
		return nil, false, nil
	}
	return append([]string(nil), skills...), true, nil
}

// Titles implements TitleLister, in file order.
func (s *FileStore) Titles(context.Context) ([]string, error) {
	return append([]string(nil), s.titles...), nil
}

// Requirements returns every requirement in file order.
func (s *FileStore) Requirements() []Requirement {
	out := make([]Requirement, 0, len(s.titles))
	for _, t := range s.titles {
		out = append(out, Requirement{Title: t, Skills: s.skills[strings.ToLower(t)]})
	}
	return out
}
