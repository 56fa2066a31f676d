// Package types provides type definitions for structured data used throughout the skill-gap recommender.
//
//nolint:revive // types is a standard Go package name pattern
package types

// Course is one row of the course catalog. Values are kept verbatim from the
// catalog source so they can be rendered as-is.
type Course struct {
	Skill      string `json:"skill"`
	Course     string `json:"course"`
	Platform   string `json:"platform"`
	Instructor string `json:"instructor,omitempty"`
	Level      string `json:"level,omitempty"`
	Duration   string `json:"duration,omitempty"`
	Enrolled   string `json:"enrolled,omitempty"`
	Rating     string `json:"rating,omitempty"`
	URL        string `json:"url"`
}

// Recommendation is a catalog course selected for a skill gap, with its
// per-request relevance score.
type Recommendation struct {
	Course
	RelevanceScore float64 `json:"relevance_score"`
}
