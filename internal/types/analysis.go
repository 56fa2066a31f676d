package types

// TitleMatch is a known job title that is semantically close to a query.
type TitleMatch struct {
	Title      string  `json:"title"`
	Similarity float64 `json:"similarity"`
}

// Analysis is the full result of comparing a user's skills against a job.
type Analysis struct {
	RequestedTitle     string           `json:"requested_title"`
	JobTitle           string           `json:"job_title"`
	Suggestions        []TitleMatch     `json:"suggestions,omitempty"`
	RequiredSkills     []string         `json:"required_skills"`
	NormalizedRequired []string         `json:"normalized_required"`
	NormalizedCurrent  []string         `json:"normalized_current"`
	Gap                []string         `json:"gap"`
	MatchPercentage    float64          `json:"match_percentage"`
	Recommendations    []Recommendation `json:"recommendations"`
}

// Found reports whether requirements were found for the requested job.
func (a *Analysis) Found() bool {
	return a != nil && a.JobTitle != ""
}

// Qualified reports whether the user already covers every required skill.
func (a *Analysis) Qualified() bool {
	return a.Found() && len(a.Gap) == 0
}
