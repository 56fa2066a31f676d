// Package service wires the reference data and matching components into a
// single object shared by the CLI and the HTTP server.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/jonathan/skillgap/internal/catalog"
	"github.com/jonathan/skillgap/internal/config"
	"github.com/jonathan/skillgap/internal/db"
	"github.com/jonathan/skillgap/internal/embedding"
	"github.com/jonathan/skillgap/internal/ingestion"
	"github.com/jonathan/skillgap/internal/jobs"
	"github.com/jonathan/skillgap/internal/parsing"
	"github.com/jonathan/skillgap/internal/ranking"
	"github.com/jonathan/skillgap/internal/skills"
	"github.com/jonathan/skillgap/internal/types"
)

// Deps are the already-loaded components a Service is built from.
type Deps struct {
	Aliases  *skills.AliasTable
	Catalog  *catalog.Catalog
	Store    jobs.Store
	Embedder embedding.Embedder
	Logger   *slog.Logger

	NormalizeThreshold float64
	TitleThreshold     float64
	CandidateThreshold float64
	TitleTopN          int
	TopN               int
}

// Service holds the loaded reference data and the components built on it.
// It is safe for concurrent use once constructed.
type Service struct {
	logger     *slog.Logger
	aliases    *skills.AliasTable
	catalog    *catalog.Catalog
	store      jobs.Store
	embedder   embedding.Embedder
	normalizer *skills.Normalizer
	matcher    *skills.Matcher
	resolver   *jobs.Resolver
	engine     *ranking.Engine
	extractor  *ingestion.Extractor
	topN       int

	database *db.DB
}

// New loads every data source named by cfg and builds a Service. Missing data
// files are all reported together before anything is loaded.
func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*Service, error) {
	if logger == nil {
		logger = slog.Default()
	}

	cfg.ResolvePaths()
	if err := cfg.VerifyPaths(); err != nil {
		return nil, err
	}

	aliases, err := skills.LoadAliases(cfg.AliasesPath)
	if err != nil {
		return nil, &StartupError{Stage: "aliases", Cause: err}
	}
	logger.Info("skill aliases loaded", "path", cfg.AliasesPath, "aliases", aliases.Len())

	courses, err := catalog.Load(ctx, cfg.CatalogSource, catalog.Options{
		SFTP: catalog.SFTPOptions{
			Password:       os.Getenv("SFTP_PASSWORD"),
			KnownHostsPath: os.Getenv("SFTP_KNOWN_HOSTS"),
		},
		Logger: logger,
	})
	if err != nil {
		return nil, &StartupError{Stage: "catalog", Cause: err}
	}

	var (
		store    jobs.Store
		database *db.DB
	)
	if cfg.DatabaseURL != "" {
		database, err = db.Connect(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, &StartupError{Stage: "requirements", Cause: err}
		}
		store = db.NewRequirementStore(database)
		logger.Info("job requirements backed by database")
	} else {
		fs, err := jobs.LoadFileStore(cfg.RequirementsPath)
		if err != nil {
			return nil, &StartupError{Stage: "requirements", Cause: err}
		}
		store = fs
		logger.Info("job requirements loaded", "path", cfg.RequirementsPath, "titles", len(fs.Requirements()))
	}

	emb, err := embedding.New(cfg, logger)
	if err != nil {
		if database != nil {
			database.Close()
		}
		return nil, &StartupError{Stage: "embedding", Cause: err}
	}

	svc := NewWithDeps(Deps{
		Aliases:            aliases,
		Catalog:            courses,
		Store:              store,
		Embedder:           emb,
		Logger:             logger,
		NormalizeThreshold: cfg.Thresholds.Normalize,
		TitleThreshold:     cfg.Thresholds.Title,
		CandidateThreshold: cfg.Thresholds.Candidate,
		TitleTopN:          cfg.TitleTopN,
		TopN:               cfg.TopN,
	})
	svc.database = database
	return svc, nil
}

// NewWithDeps builds a Service from already-loaded components. Zero
// thresholds and limits select the package defaults.
func NewWithDeps(d Deps) *Service {
	logger := d.Logger
	if logger == nil {
		logger = slog.Default()
	}
	if d.Catalog == nil {
		d.Catalog = catalog.New(nil)
	}
	if d.Store == nil {
		d.Store = jobs.NewFileStore(nil)
	}

	normalizer := skills.NewNormalizer(d.Aliases, d.Embedder, d.NormalizeThreshold, logger)
	return &Service{
		logger:     logger,
		aliases:    d.Aliases,
		catalog:    d.Catalog,
		store:      d.Store,
		embedder:   d.Embedder,
		normalizer: normalizer,
		matcher:    skills.NewMatcher(normalizer, d.Embedder, d.CandidateThreshold, logger),
		resolver:   jobs.NewResolver(d.Store, d.Embedder, d.TitleThreshold, d.TitleTopN),
		engine:     ranking.NewEngine(normalizer, d.Catalog, logger),
		extractor:  ingestion.NewExtractor(logger),
		topN:       d.TopN,
	}
}

// Catalog returns the loaded course catalog.
func (s *Service) Catalog() *catalog.Catalog {
	return s.catalog
}

// Aliases returns the loaded alias table.
func (s *Service) Aliases() *skills.AliasTable {
	return s.aliases
}

// LookupResult is the outcome of finding requirements for a job title.
type LookupResult struct {
	Title       string             `json:"title"`
	Skills      []string           `json:"skills"`
	Suggestions []types.TitleMatch `json:"suggestions,omitempty"`
	Resolved    bool               `json:"resolved"`
}

// Found reports whether requirements were found.
func (r LookupResult) Found() bool {
	return r.Title != ""
}

// LookupRequirements returns the required skills for title. An exact
// (case-insensitive) hit is returned directly. Otherwise the closest known
// title above the similarity threshold is used and Resolved is set. An
// unknown title yields an empty result, not an error.
func (s *Service) LookupRequirements(ctx context.Context, title string) (LookupResult, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return LookupResult{}, ErrEmptyJobTitle
	}

	skillList, ok, err := s.store.RequiredSkills(ctx, title)
	if err != nil {
		return LookupResult{}, fmt.Errorf("failed to look up job requirements: %w", err)
	}
	if ok {
		return LookupResult{Title: title, Skills: skillList}, nil
	}

	suggestions, err := s.resolver.Resolve(ctx, title)
	if err != nil {
		// a failed resolution degrades to "not found"
		s.logger.WarnContext(ctx, "job title resolution failed", "title", title, "error", err)
		return LookupResult{}, nil
	}
	if len(suggestions) == 0 {
		return LookupResult{}, nil
	}

	best := suggestions[0].Title
	skillList, ok, err = s.store.RequiredSkills(ctx, best)
	if err != nil {
		return LookupResult{}, fmt.Errorf("failed to look up job requirements: %w", err)
	}
	if !ok {
		return LookupResult{Suggestions: suggestions}, nil
	}

	s.logger.InfoContext(ctx, "job title resolved", "query", title, "title", best,
		"similarity", suggestions[0].Similarity)
	return LookupResult{Title: best, Skills: skillList, Suggestions: suggestions, Resolved: true}, nil
}

// Analyze compares currentSkills against the requirements for title and
// recommends up to topN courses. A non-positive topN uses the configured
// default. When no requirements are found the returned Analysis has an empty
// JobTitle and carries any suggestions.
func (s *Service) Analyze(ctx context.Context, title string, currentSkills []string, topN int) (*types.Analysis, error) {
	lookup, err := s.LookupRequirements(ctx, title)
	if err != nil {
		return nil, err
	}

	analysis := &types.Analysis{
		RequestedTitle: strings.TrimSpace(title),
		JobTitle:       lookup.Title,
		Suggestions:    lookup.Suggestions,
	}
	if !lookup.Found() {
		return analysis, nil
	}

	if topN <= 0 {
		topN = s.topN
	}
	res := s.engine.Evaluate(ctx, lookup.Skills, currentSkills, topN)

	analysis.RequiredSkills = lookup.Skills
	analysis.NormalizedRequired = res.Required
	analysis.NormalizedCurrent = res.Current
	analysis.Gap = res.Gap
	analysis.MatchPercentage = res.MatchPercentage
	analysis.Recommendations = res.Recommendations
	return analysis, nil
}

// ExtractResumeSkills extracts text from the document at path and returns
// the canonical skills found in it. ext overrides the format taken from the
// file name. A document without text yields an empty slice.
func (s *Service) ExtractResumeSkills(ctx context.Context, path, ext string) ([]string, error) {
	text, err := s.extractor.ExtractText(path, ext)
	if err != nil {
		return nil, err
	}
	if text == "" {
		return []string{}, nil
	}

	candidates, err := parsing.ExtractCandidates(ctx, text)
	if err != nil {
		return nil, fmt.Errorf("failed to extract skill candidates: %w", err)
	}

	found := s.matcher.Match(ctx, candidates)
	s.logger.InfoContext(ctx, "resume skills extracted", "candidates", len(candidates), "skills", len(found))
	return found, nil
}

// SimilarTitles returns known job titles close to query, best first.
func (s *Service) SimilarTitles(ctx context.Context, query string) ([]types.TitleMatch, error) {
	return s.resolver.Resolve(ctx, query)
}

// NormalizeSkill maps raw to its canonical skill name.
func (s *Service) NormalizeSkill(ctx context.Context, raw string) skills.NormalizeResult {
	return s.normalizer.Resolve(ctx, raw)
}

// Close releases the embedder and the database connection, if any.
func (s *Service) Close() error {
	var errs []error
	if s.embedder != nil {
		if err := embedding.Close(s.embedder); err != nil {
			errs = append(errs, err)
		}
	}
	if s.database != nil {
		s.database.Close()
	}
	return errors.Join(errs...)
}
