package db

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/jonathan/skillgap/internal/jobs"
)

// RequirementStore implements jobs.Store on the job_requirements table.
type RequirementStore struct {
	db *DB
}

// NewRequirementStore creates a RequirementStore.
func NewRequirementStore(db *DB) *RequirementStore {
	return &RequirementStore{db: db}
}

var _ jobs.Store = (*RequirementStore)(nil)

// RequiredSkills returns the skills for title, matched case-insensitively.
func (s *RequirementStore) RequiredSkills(ctx context.Context, title string) ([]string, bool, error) {
	var skills []string
	err := s.db.pool.QueryRow(ctx,
		`SELECT skills FROM job_requirements WHERE LOWER(title) = LOWER($1)`,
		strings.TrimSpace(title),
	).Scan(&skills)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to get job requirements: %w", err)
	}
	return skills, true, nil
}

// Titles returns every job title in insertion order.
func (s *RequirementStore) Titles(ctx context.Context) ([]string, error) {
	rows, err := s.db.pool.Query(ctx, `SELECT title FROM job_requirements ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("failed to list job titles: %w", err)
	}
	titles, err := pgx.CollectRows(rows, pgx.RowTo[string])
	if err != nil {
		return nil, fmt.Errorf("failed to scan job titles: %w", err)
	}
	return titles, nil
}

// UpsertRequirement stores a requirement, replacing the skills of an existing
// title (matched case-insensitively). The stored spelling is kept.
func (s *RequirementStore) UpsertRequirement(ctx context.Context, req jobs.Requirement) error {
	return upsert(ctx, s.db.pool, req)
}

// ImportRequirements upserts every requirement in one transaction and returns
// the number written.
func (s *RequirementStore) ImportRequirements(ctx context.Context, reqs []jobs.Requirement) (int, error) {
	err := pgx.BeginFunc(ctx, s.db.pool, func(tx pgx.Tx) error {
		for _, req := range reqs {
			if err := upsert(ctx, tx, req); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return len(reqs), nil
}

// DeleteRequirement removes a title. It reports whether a row was deleted.
func (s *RequirementStore) DeleteRequirement(ctx context.Context, title string) (bool, error) {
	tag, err := s.db.pool.Exec(ctx,
		`DELETE FROM job_requirements WHERE LOWER(title) = LOWER($1)`,
		strings.TrimSpace(title),
	)
	if err != nil {
		return false, fmt.Errorf("failed to delete job requirements: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}

type execer interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

func upsert(ctx context.Context, ex execer, req jobs.Requirement) error {
	title := strings.TrimSpace(req.Title)
	if title == "" {
		return fmt.Errorf("job requirement has an empty title")
	}
	skills := req.Skills
	if skills == nil {
		skills = []string{}
	}

	_, err := ex.Exec(ctx,
		`INSERT INTO job_requirements (title, skills)
		 VALUES ($1, $2)
		 ON CONFLICT (LOWER(title)) DO UPDATE SET skills = EXCLUDED.skills, updated_at = NOW()`,
		title, skills,
	)
	if err != nil {
		return fmt.Errorf("failed to save job requirements for %q: %w", title, err)
	}
	return nil
}
