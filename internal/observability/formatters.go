// Package observability provides formatted output utilities for the CLI.
package observability

import (
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/jonathan/skillgap/internal/types"
)

const (
	// boxWidth is the default width for formatted output boxes
	boxWidth = 64
	// barWidth is the number of cells in the match progress bar
	barWidth = 30
)

// Printer handles formatted output for CLI commands
type Printer struct {
	out io.Writer
}

// NewPrinter creates a new Printer that writes to the given writer
func NewPrinter(out io.Writer) *Printer {
	return &Printer{out: out}
}

// printBox prints a formatted box with a title and content
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) printBox(title string, content string) {
	border := strings.Repeat("─", boxWidth-2)
	fmt.Fprintf(p.out, "┌%s┐\n", border)
	fmt.Fprintf(p.out, "│ %s │\n", pad(title))
	fmt.Fprintf(p.out, "├%s┤\n", border)
	for _, line := range strings.Split(content, "\n") {
		fmt.Fprintf(p.out, "│ %s │\n", pad(line))
	}
	fmt.Fprintf(p.out, "└%s┘\n", border)
}

// pad truncates or right-pads s to the box content width, counting runes.
func pad(s string) string {
	width := boxWidth - 4
	n := utf8.RuneCountInString(s)
	if n > width {
		return string([]rune(s)[:width-3]) + "..."
	}
	return s + strings.Repeat(" ", width-n)
}

// bar renders pct (0-100) as a fixed-width bar.
func bar(pct float64) string {
	filled := int(pct/100*barWidth + 0.5)
	filled = max(0, min(barWidth, filled))
	return "[" + strings.Repeat("█", filled) + strings.Repeat("░", barWidth-filled) + "]"
}

// PrintAnalysis outputs the match summary, the skill gap and the recommended courses.
func (p *Printer) PrintAnalysis(a *types.Analysis) {
	if a == nil {
		return
	}
	if !a.Found() {
		p.PrintNotFound(a.RequestedTitle, a.Suggestions)
		return
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "Job:      %s\n", a.JobTitle)
	if !strings.EqualFold(a.JobTitle, a.RequestedTitle) && a.RequestedTitle != "" {
		fmt.Fprintf(&sb, "          (closest match for %q)\n", a.RequestedTitle)
	}
	held := len(a.NormalizedRequired) - len(a.Gap)
	fmt.Fprintf(&sb, "Match:    %.1f%% (%d of %d required skills)\n", a.MatchPercentage, held, len(a.NormalizedRequired))
	sb.WriteString(bar(a.MatchPercentage) + "\n")

	if len(a.Gap) == 0 {
		sb.WriteString("\nYou already have every required skill.")
	} else {
		sb.WriteString("\nMissing skills:\n")
		for _, skill := range a.Gap {
			fmt.Fprintf(&sb, "  • %s\n", skill)
		}
	}
	p.printBox("SKILL GAP ANALYSIS", strings.TrimSuffix(sb.String(), "\n"))

	p.PrintRecommendations(a.Recommendations)
}

// PrintRecommendations outputs one card per course with catalog fields verbatim.
func (p *Printer) PrintRecommendations(recs []types.Recommendation) {
	if len(recs) == 0 {
		return
	}

	var sb strings.Builder
	for i, rec := range recs {
		fmt.Fprintf(&sb, "#%d  %s\n", i+1, rec.Course.Course)
		fmt.Fprintf(&sb, "    Skill:      %s\n", rec.Skill)
		fmt.Fprintf(&sb, "    Platform:   %s\n", rec.Platform)
		optional := []struct{ label, value string }{
			{"Instructor", rec.Instructor},
			{"Level", rec.Level},
			{"Duration", rec.Duration},
			{"Rating", rec.Rating},
			{"Enrolled", rec.Enrolled},
			{"URL", rec.URL},
		}
		for _, f := range optional {
			if f.value != "" {
				fmt.Fprintf(&sb, "    %-11s %s\n", f.label+":", f.value)
			}
		}
		fmt.Fprintf(&sb, "    Relevance:  %.2f", rec.RelevanceScore)
		if i < len(recs)-1 {
			sb.WriteString("\n\n")
		}
	}
	p.printBox("RECOMMENDED COURSES", sb.String())
}

// PrintNotFound reports a job title with no requirements and any near matches.
func (p *Printer) PrintNotFound(title string, suggestions []types.TitleMatch) {
	var sb strings.Builder
	fmt.Fprintf(&sb, "No requirements found for %q.", title)
	if len(suggestions) > 0 {
		sb.WriteString("\n\nDid you mean:\n")
		sb.WriteString(formatTitleMatches(suggestions))
	}
	p.printBox("JOB NOT FOUND", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintSkills outputs a list of skills under title.
func (p *Printer) PrintSkills(title string, skills []string) {
	var sb strings.Builder
	if len(skills) == 0 {
		sb.WriteString("No known skills found.")
	} else {
		fmt.Fprintf(&sb, "Found %d skills:\n\n", len(skills))
		for _, s := range skills {
			fmt.Fprintf(&sb, "  • %s\n", s)
		}
	}
	p.printBox(title, strings.TrimSuffix(sb.String(), "\n"))
}

// PrintTitleMatches outputs job titles similar to query with their scores.
func (p *Printer) PrintTitleMatches(query string, matches []types.TitleMatch) {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Query: %s\n\n", query)
	if len(matches) == 0 {
		sb.WriteString("No similar job titles.")
	} else {
		sb.WriteString(formatTitleMatches(matches))
	}
	p.printBox("SIMILAR JOB TITLES", strings.TrimSuffix(sb.String(), "\n"))
}

func formatTitleMatches(matches []types.TitleMatch) string {
	var sb strings.Builder
	for i, m := range matches {
		fmt.Fprintf(&sb, "  %d. %s (%.2f)\n", i+1, m.Title, m.Similarity)
	}
	return sb.String()
}
