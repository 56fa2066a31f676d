// Package ranking computes skill gaps and ranks catalog courses that fill them.
package ranking

import (
	"context"
	"log/slog"
	"sort"

	"github.com/jonathan/skillgap/internal/catalog"
	"github.com/jonathan/skillgap/internal/skills"
	"github.com/jonathan/skillgap/internal/types"
)

// DefaultTopN is the number of courses returned when no limit is given
const DefaultTopN = 5

// baseRelevance is the score of a gap-filling course unrelated to any held skill
const baseRelevance = 1.0

// Engine compares required and held skills and recommends courses.
type Engine struct {
	normalizer *skills.Normalizer
	catalog    *catalog.Catalog
	logger     *slog.Logger
}

// NewEngine creates an Engine over the given catalog.
func NewEngine(normalizer *skills.Normalizer, courses *catalog.Catalog, logger *slog.Logger) *Engine {
	if logger == nil {
		logger = slog.Default()
	}
	return &Engine{normalizer: normalizer, catalog: courses, logger: logger.With("component", "ranking")}
}

// Result is the outcome of comparing required and held skills.
type Result struct {
	Required        []string // normalized, first-occurrence order
	Current         []string // normalized, first-occurrence order
	Gap             []string // required skills not held, in required order
	MatchPercentage float64
	Recommendations []types.Recommendation
}

// Evaluate normalizes both skill lists and computes the gap, the match
// percentage and up to topN course recommendations.
func (e *Engine) Evaluate(ctx context.Context, required, current []string, topN int) Result {
	req := skills.Unique(e.normalizer.NormalizeAll(ctx, required))
	cur := skills.Unique(e.normalizer.NormalizeAll(ctx, current))

	res := Result{
		Required: req,
		Current:  cur,
		Gap:      difference(req, cur),
	}
	res.MatchPercentage = matchPercentage(req, cur)
	res.Recommendations = e.rank(req, cur, res.Gap, topN)

	e.logger.DebugContext(ctx, "evaluated skills",
		"required", len(req), "current", len(cur), "gap", len(res.Gap),
		"recommendations", len(res.Recommendations))
	return res
}

// MatchPercentage returns the share of required skills the user holds, in
// percent. No required skills is 0.
func (e *Engine) MatchPercentage(ctx context.Context, required, current []string) float64 {
	req := skills.Unique(e.normalizer.NormalizeAll(ctx, required))
	cur := skills.Unique(e.normalizer.NormalizeAll(ctx, current))
	return matchPercentage(req, cur)
}

// Recommend returns up to topN catalog courses teaching a missing skill, most
// relevant first. A non-positive topN selects DefaultTopN.
func (e *Engine) Recommend(ctx context.Context, required, current []string, topN int) []types.Recommendation {
	req := skills.Unique(e.normalizer.NormalizeAll(ctx, required))
	cur := skills.Unique(e.normalizer.NormalizeAll(ctx, current))
	return e.rank(req, cur, difference(req, cur), topN)
}

func (e *Engine) rank(req, cur, gap []string, topN int) []types.Recommendation {
	if topN <= 0 {
		topN = DefaultTopN
	}
	recs := []types.Recommendation{}
	if len(gap) == 0 {
		return recs
	}

	// Vectorize exactly the skills involved in this request
	docs := skills.Unique(append(append([]string(nil), req...), cur...))
	rows := TFIDF(docs)
	rowOf := make(map[string][]float64, len(docs))
	for i, d := range docs {
		rowOf[d] = rows[i]
	}

	missing := skills.Set(gap)
	for _, course := range e.catalog.Courses() {
		if !missing[course.Skill] {
			continue
		}
		score := baseRelevance
		if len(cur) > 0 {
			var sum float64
			for _, c := range cur {
				sum += dot(rowOf[course.Skill], rowOf[c])
			}
			score += sum / float64(len(cur))
		}
		recs = append(recs, types.Recommendation{Course: course, RelevanceScore: score})
	}

	sort.SliceStable(recs, func(i, j int) bool {
		return recs[i].RelevanceScore > recs[j].RelevanceScore
	})
	if len(recs) > topN {
		recs = recs[:topN]
	}
	return recs
}

func matchPercentage(req, cur []string) float64 {
	if len(req) == 0 {
		return 0
	}
	held := skills.Set(cur)
	var n int
	for _, r := range req {
		if held[r] {
			n++
		}
	}
	return float64(n) / float64(len(req)) * 100
}

// difference returns the items of a not in b, keeping a's order.
func difference(a, b []string) []string {
	exclude := skills.Set(b)
	out := []string{}
	for _, s := range a {
		if !exclude[s] {
			out = append(out, s)
		}
	}
	return out
}
