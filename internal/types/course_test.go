package types

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecommendation_JSONFlattensCourse(t *testing.T) {
	rec := Recommendation{
		Course: Course{
			Skill:    "SQL",
			Course:   "SQL for Data Science",
			Platform: "Coursera",
			Level:    "Beginner",
			URL:      "https://example.com/sql",
		},
		RelevanceScore: 1.25,
	}

	data, err := json.Marshal(rec)
	require.NoError(t, err)

	var raw map[string]any
	require.NoError(t, json.Unmarshal(data, &raw))

	assert.Equal(t, "SQL", raw["skill"])
	assert.Equal(t, "SQL for Data Science", raw["course"])
	assert.Equal(t, 1.25, raw["relevance_score"])
	assert.NotContains(t, raw, "Course", "embedded course must be inlined")
	assert.NotContains(t, raw, "instructor", "empty optional fields are omitted")
}

func TestAnalysis_FoundAndQualified(t *testing.T) {
	var missing *Analysis
	assert.False(t, missing.Found())
	assert.False(t, missing.Qualified())

	unknown := &Analysis{RequestedTitle: "Astronaut"}
	assert.False(t, unknown.Found())
	assert.False(t, unknown.Qualified())

	withGap := &Analysis{JobTitle: "Data Scientist", Gap: []string{"SQL"}}
	assert.True(t, withGap.Found())
	assert.False(t, withGap.Qualified())

	done := &Analysis{JobTitle: "Data Scientist"}
	assert.True(t, done.Qualified())
}
