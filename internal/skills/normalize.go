package skills

import (
	"context"
	"log/slog"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/jonathan/skillgap/internal/embedding"
)

// DefaultNormalizeThreshold is the similarity a semantic alias match must exceed
const DefaultNormalizeThreshold = 0.7

// Method records how a skill name was produced.
type Method string

// Normalization methods
const (
	MethodAlias    Method = "alias"
	MethodSemantic Method = "semantic"
	MethodFallback Method = "fallback"
)

// NormalizeResult is the outcome of normalizing one raw skill string.
// Err is set when the semantic step failed and the fallback was used instead.
type NormalizeResult struct {
	Name       string  `json:"name"`
	Method     Method  `json:"method"`
	Matched    string  `json:"matched,omitempty"`
	Similarity float64 `json:"similarity,omitempty"`
	Err        error   `json:"-"`
}

// Normalizer maps raw skill strings to canonical names using the alias table
// and, when there is no exact alias, the nearest alias key by embedding.
type Normalizer struct {
	aliases   *AliasTable
	embedder  embedding.Embedder
	threshold float64
	logger    *slog.Logger
}

// NewNormalizer creates a Normalizer. A non-positive threshold selects the default.
func NewNormalizer(aliases *AliasTable, embedder embedding.Embedder, threshold float64, logger *slog.Logger) *Normalizer {
	if threshold <= 0 {
		threshold = DefaultNormalizeThreshold
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Normalizer{
		aliases:   aliases,
		embedder:  embedder,
		threshold: threshold,
		logger:    logger.With("component", "normalizer"),
	}
}

// Aliases returns the alias table.
func (n *Normalizer) Aliases() *AliasTable {
	return n.aliases
}

// Normalize returns the canonical name for raw. It never fails; see Resolve.
func (n *Normalizer) Normalize(ctx context.Context, raw string) string {
	return n.Resolve(ctx, raw).Name
}

// Resolve normalizes raw and reports which path produced the name.
func (n *Normalizer) Resolve(ctx context.Context, raw string) NormalizeResult {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return NormalizeResult{Method: MethodFallback}
	}

	key := strings.ToLower(trimmed)
	if canonical, ok := n.aliases.Lookup(key); ok {
		return NormalizeResult{Name: canonical, Method: MethodAlias, Matched: key, Similarity: 1}
	}

	fallback := NormalizeResult{Name: titleCase(trimmed), Method: MethodFallback}

	keys := n.aliases.Keys()
	if len(keys) == 0 || n.embedder == nil {
		return fallback
	}

	vectors, err := n.embedder.Embed(ctx, append([]string{key}, keys...))
	if err == nil && len(vectors) != len(keys)+1 {
		err = &embedding.ResponseError{Backend: "normalizer", Message: "vector count mismatch", Want: len(keys) + 1, Got: len(vectors)}
	}
	if err != nil {
		n.logger.WarnContext(ctx, "semantic normalization failed, using fallback", "skill", trimmed, "error", err)
		fallback.Err = err
		return fallback
	}

	scores := embedding.Similarities(vectors[0], vectors[1:])
	best := embedding.ArgMax(scores, n.threshold)
	if best < 0 {
		return fallback
	}

	canonical, _ := n.aliases.Lookup(keys[best])
	return NormalizeResult{
		Name:       canonical,
		Method:     MethodSemantic,
		Matched:    keys[best],
		Similarity: scores[best],
	}
}

// NormalizeAll normalizes each raw string, preserving order.
func (n *Normalizer) NormalizeAll(ctx context.Context, raws []string) []string {
	out := make([]string, len(raws))
	for i, raw := range raws {
		out[i] = n.Normalize(ctx, raw)
	}
	return out
}

// Unique returns names without duplicates or empty strings, keeping the first
// occurrence order.
func Unique(names []string) []string {
	seen := make(map[string]bool, len(names))
	out := make([]string, 0, len(names))
	for _, name := range names {
		if name == "" || seen[name] {
			continue
		}
		seen[name] = true
		out = append(out, name)
	}
	return out
}

// Set returns names as a membership set, ignoring empty strings.
func Set(names []string) map[string]bool {
	set := make(map[string]bool, len(names))
	for _, name := range names {
		if name != "" {
			set[name] = true
		}
	}
	return set
}

// titleCase upper-cases the first letter of each word. The Caser is not safe
// for concurrent use, so one is created per call.
func titleCase(s string) string {
	return cases.Title(language.English).String(s)
}
