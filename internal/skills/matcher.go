package skills

import (
	"context"
	"log/slog"
	"sort"
	"strings"

	"github.com/jonathan/skillgap/internal/embedding"
)

// DefaultCandidateThreshold is the similarity a candidate phrase must exceed to
// match a known skill
const DefaultCandidateThreshold = 0.6

// Matcher maps candidate phrases from resume text to canonical skill names.
type Matcher struct {
	normalizer *Normalizer
	embedder   embedding.Embedder
	threshold  float64
	logger     *slog.Logger
}

// NewMatcher creates a Matcher. A non-positive threshold selects the default.
func NewMatcher(normalizer *Normalizer, embedder embedding.Embedder, threshold float64, logger *slog.Logger) *Matcher {
	if threshold <= 0 {
		threshold = DefaultCandidateThreshold
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Matcher{
		normalizer: normalizer,
		embedder:   embedder,
		threshold:  threshold,
		logger:     logger.With("component", "matcher"),
	}
}

// Match returns the sorted, deduplicated canonical skills found among
// candidates. Candidates equal (ignoring case) to a known skill are normalized
// directly; the rest are compared to the known skills by embedding in a single
// batch. An embedding failure only disables the semantic pass.
func (m *Matcher) Match(ctx context.Context, candidates []string) []string {
	known := m.normalizer.Aliases().KnownSkills()
	knownLower := make(map[string]bool, len(known))
	for _, k := range known {
		knownLower[strings.ToLower(k)] = true
	}

	matched := make(map[string]bool)
	add := func(name string) {
		if name != "" {
			matched[name] = true
		}
	}

	var remaining []string
	for _, c := range candidates {
		if strings.TrimSpace(c) == "" {
			continue
		}
		if knownLower[strings.ToLower(c)] {
			add(m.normalizer.Normalize(ctx, c))
			continue
		}
		remaining = append(remaining, c)
	}

	if len(remaining) > 0 && len(known) > 0 && m.embedder != nil {
		for _, k := range m.semanticMatches(ctx, remaining, known) {
			add(m.normalizer.Normalize(ctx, k))
		}
	}

	out := make([]string, 0, len(matched))
	for name := range matched {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// semanticMatches returns, for each candidate with a close enough known skill,
// that known skill.
func (m *Matcher) semanticMatches(ctx context.Context, candidates, known []string) []string {
	vectors, err := m.embedder.Embed(ctx, append(append([]string(nil), candidates...), known...))
	if err == nil && len(vectors) != len(candidates)+len(known) {
		err = &embedding.ResponseError{Backend: "matcher", Message: "vector count mismatch", Want: len(candidates) + len(known), Got: len(vectors)}
	}
	if err != nil {
		m.logger.WarnContext(ctx, "semantic skill matching failed", "candidates", len(candidates), "error", err)
		return nil
	}

	knownVectors := vectors[len(candidates):]
	var out []string
	for i := range candidates {
		best := embedding.ArgMax(embedding.Similarities(vectors[i], knownVectors), m.threshold)
		if best >= 0 {
			m.logger.DebugContext(ctx, "semantic match", "candidate", candidates[i], "skill", known[best])
			out = append(out, known[best])
		}
	}
	return out
}
