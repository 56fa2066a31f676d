package parsing

import (
	"strings"
	"sync"

	"github.com/blevesearch/bleve/v2/analysis"
	"github.com/blevesearch/bleve/v2/analysis/lang/en"
)

var (
	stopWordsOnce sync.Once
	stopWords     analysis.TokenMap
)

// englishStopWords returns the English stop word list shipped with bleve.
func englishStopWords() analysis.TokenMap {
	stopWordsOnce.Do(func() {
		stopWords = analysis.NewTokenMap()
		// The list is compiled into bleve; a load error would be a bleve bug.
		if err := stopWords.LoadBytes(en.EnglishStopWords); err != nil {
			panic("parsing: loading english stop words: " + err.Error())
		}
	})
	return stopWords
}

// IsStopWord reports whether word is an English stop word.
func IsStopWord(word string) bool {
	return englishStopWords()[strings.ToLower(word)]
}
