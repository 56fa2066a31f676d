package ranking

import (
	"math"
	"strings"
	"unicode/utf8"

	"github.com/blevesearch/bleve/v2/analysis/tokenizer/unicode"
)

// minTermRunes drops single-character terms.
const minTermRunes = 2

var tokenizer = unicode.NewUnicodeTokenizer()

// terms returns the lowercased word tokens of doc.
func terms(doc string) []string {
	stream := tokenizer.Tokenize([]byte(strings.ToLower(doc)))
	out := make([]string, 0, len(stream))
	for _, tok := range stream {
		term := string(tok.Term)
		if utf8.RuneCountInString(term) >= minTermRunes {
			out = append(out, term)
		}
	}
	return out
}

// TFIDF fits a TF-IDF model on docs and returns one L2-normalized row per
// doc. Term frequencies are raw counts and the idf is smoothed:
// ln((1+n)/(1+df)) + 1. A doc without terms gets a zero row.
func TFIDF(docs []string) [][]float64 {
	vocab := make(map[string]int)
	counts := make([]map[int]float64, len(docs))
	var df []float64

	for i, doc := range docs {
		counts[i] = make(map[int]float64)
		for _, term := range terms(doc) {
			idx, ok := vocab[term]
			if !ok {
				idx = len(vocab)
				vocab[term] = idx
				df = append(df, 0)
			}
			if counts[i][idx] == 0 {
				df[idx]++
			}
			counts[i][idx]++
		}
	}

	n := float64(len(docs))
	idf := make([]float64, len(df))
	for j, d := range df {
		idf[j] = math.Log((1+n)/(1+d)) + 1
	}

	rows := make([][]float64, len(docs))
	for i := range docs {
		row := make([]float64, len(vocab))
		var norm float64
		for j, c := range counts[i] {
			row[j] = c * idf[j]
			norm += row[j] * row[j]
		}
		if norm > 0 {
			norm = math.Sqrt(norm)
			for j := range row {
				row[j] /= norm
			}
		}
		rows[i] = row
	}
	return rows
}

// dot is the linear kernel of two rows of the same model.
func dot(a, b []float64) float64 {
	var sum float64
	for i := range a {
		sum += a[i] * b[i]
	}
	return sum
}
