package observability

import (
	"bytes"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"

	"github.com/jonathan/skillgap/internal/types"
)

func TestPrintAnalysis(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	p.PrintAnalysis(&types.Analysis{
		RequestedTitle:     "data enginer",
		JobTitle:           "Data Engineer",
		NormalizedRequired: []string{"Python", "SQL", "Docker"},
		NormalizedCurrent:  []string{"Python"},
		Gap:                []string{"SQL", "Docker"},
		MatchPercentage:    100.0 / 3,
		Recommendations: []types.Recommendation{
			{Course: types.Course{Skill: "SQL", Course: "SQL for Data Science", Platform: "Coursera", Rating: "4.7", URL: "https://example.com/sql"}, RelevanceScore: 1},
		},
	})
	output := buf.String()

	assert.Contains(t, output, "SKILL GAP ANALYSIS")
	assert.Contains(t, output, "Data Engineer")
	assert.Contains(t, output, `closest match for "data enginer"`)
	assert.Contains(t, output, "33.3% (1 of 3 required skills)")
	assert.Contains(t, output, "• Docker")
	assert.Contains(t, output, "RECOMMENDED COURSES")
	assert.Contains(t, output, "SQL for Data Science")
	assert.Contains(t, output, "Rating:     4.7")
	assert.NotContains(t, output, "Instructor:")
}

func TestPrintAnalysis_Qualified(t *testing.T) {
	var buf bytes.Buffer
	NewPrinter(&buf).PrintAnalysis(&types.Analysis{
		RequestedTitle:     "Data Engineer",
		JobTitle:           "Data Engineer",
		NormalizedRequired: []string{"SQL"},
		Gap:                []string{},
		MatchPercentage:    100,
	})
	output := buf.String()

	assert.Contains(t, output, "every required skill")
	assert.NotContains(t, output, "closest match")
	assert.NotContains(t, output, "RECOMMENDED COURSES")
}

func TestPrintAnalysis_NotFound(t *testing.T) {
	var buf bytes.Buffer
	NewPrinter(&buf).PrintAnalysis(&types.Analysis{
		RequestedTitle: "Chef",
		Suggestions:    []types.TitleMatch{{Title: "Chief Engineer", Similarity: 0.71}},
	})
	output := buf.String()

	assert.Contains(t, output, "JOB NOT FOUND")
	assert.Contains(t, output, "Did you mean")
	assert.Contains(t, output, "Chief Engineer (0.71)")
}

func TestPrintAnalysis_Nil(t *testing.T) {
	var buf bytes.Buffer
	NewPrinter(&buf).PrintAnalysis(nil)
	assert.Empty(t, buf.String())
}

func TestPrintSkills(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	p.PrintSkills("RESUME SKILLS", []string{"Docker", "Python"})
	assert.Contains(t, buf.String(), "Found 2 skills")
	assert.Contains(t, buf.String(), "• Python")

	buf.Reset()
	p.PrintSkills("RESUME SKILLS", nil)
	assert.Contains(t, buf.String(), "No known skills found.")
}

func TestPrintTitleMatches(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	p.PrintTitleMatches("data scientst", []types.TitleMatch{{Title: "Data Scientist", Similarity: 0.8}})
	assert.Contains(t, buf.String(), "1. Data Scientist (0.80)")

	buf.Reset()
	p.PrintTitleMatches("zzz", nil)
	assert.Contains(t, buf.String(), "No similar job titles.")
}

func TestPrintBox_LineWidth(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	p.printBox("TITLE", strings.Repeat("é", 200)+"\nshort")

	for _, line := range strings.Split(strings.TrimSuffix(buf.String(), "\n"), "\n") {
		assert.Equal(t, boxWidth, utf8.RuneCountInString(line), line)
	}
	assert.Contains(t, buf.String(), "...")
}

func TestBar(t *testing.T) {
	assert.Equal(t, "["+strings.Repeat("░", barWidth)+"]", bar(0))
	assert.Equal(t, "["+strings.Repeat("█", barWidth)+"]", bar(100))
	assert.Equal(t, "["+strings.Repeat("█", 10)+strings.Repeat("░", 20)+"]", bar(100.0/3))
}
