// Package parsing extracts candidate skill phrases from free text.
package parsing

import (
	"context"
	"regexp"
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/sync/errgroup"
)

// MaxPhraseTokens is the longest phrase kept by the phrase strategy
const MaxPhraseTokens = 4

// minCandidateLen is the shortest candidate kept, in characters
const minCandidateLen = 3

// Technical tokens that punctuation splitting would break apart
var skillPatterns = []*regexp.Regexp{
	regexp.MustCompile(`\b[a-z]+\+\+`),       // c++
	regexp.MustCompile(`\b[a-z]+#`),          // c#, f#
	regexp.MustCompile(`\b[a-z]+\.js\b`),     // node.js, react.js
	regexp.MustCompile(`\b[a-z]+\.[a-z]+\b`), // asp.net, vue.js
}

// ExtractCandidates returns the deduplicated, sorted phrases in text that may
// name a skill. Two strategies run concurrently and their results are unioned:
// stop-word delimited phrases of at most MaxPhraseTokens words (longer runs
// contribute single words), and pattern
// matches for technical tokens such as "c++" or "node.js". Candidates made only
// of stop words, or shorter than three characters, are dropped.
func ExtractCandidates(ctx context.Context, text string) ([]string, error) {
	lowered := strings.ToLower(text)

	var phrases, patterns []string
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		phrases, err = extractPhrases(gctx, lowered)
		return err
	})
	g.Go(func() error {
		var err error
		patterns, err = extractPatterns(gctx, lowered)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	seen := make(map[string]bool, len(phrases)+len(patterns))
	out := make([]string, 0, len(phrases)+len(patterns))
	for _, group := range [][]string{phrases, patterns} {
		for _, c := range group {
			if seen[c] || !keepCandidate(c) {
				continue
			}
			seen[c] = true
			out = append(out, c)
		}
	}
	sort.Strings(out)
	return out, nil
}

// extractPhrases splits text into clauses at line breaks and punctuation and
// returns the maximal runs of non-stop-words in each clause. A run longer than
// MaxPhraseTokens yields its words one by one.
func extractPhrases(ctx context.Context, text string) ([]string, error) {
	var out []string
	for _, line := range strings.Split(text, "\n") {
		for _, clause := range strings.FieldsFunc(line, isPunct) {
			if err := ctx.Err(); err != nil {
				return nil, err
			}

			var run []string
			flush := func() {
				if len(run) <= MaxPhraseTokens {
					if len(run) > 0 {
						out = append(out, strings.Join(run, " "))
					}
				} else {
					out = append(out, run...)
				}
				run = run[:0]
			}

			for _, word := range strings.Fields(clause) {
				if IsStopWord(word) {
					flush()
					continue
				}
				run = append(run, word)
			}
			flush()
		}
	}
	return out, nil
}

func extractPatterns(ctx context.Context, text string) ([]string, error) {
	var out []string
	for _, re := range skillPatterns {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		out = append(out, re.FindAllString(text, -1)...)
	}
	return out, nil
}

// isPunct reports whether r separates clauses. Letters, digits, the underscore
// and whitespace do not.
func isPunct(r rune) bool {
	return !unicode.IsLetter(r) && !unicode.IsDigit(r) && !unicode.IsSpace(r) && r != '_'
}

func keepCandidate(c string) bool {
	if utf8.RuneCountInString(c) < minCandidateLen {
		return false
	}
	for _, tok := range strings.Fields(c) {
		if !IsStopWord(tok) {
			return true
		}
	}
	return false
}
