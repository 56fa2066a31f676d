package catalog

import (
	"encoding/csv"
	"errors"
	"io"
	"strings"

	"github.com/jonathan/skillgap/internal/types"
)

// Columns of the catalog CSV header. Only skill and course are required.
var Columns = []string{"skill", "course", "platform", "instructor", "level", "duration", "enrolled", "rating", "url"}

// Parse reads a catalog CSV with a header row. Columns are matched by name in
// any order and unknown columns are ignored. Rows without a skill are skipped.
func Parse(r io.Reader) (*Catalog, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, &ParseError{Message: "empty file"}
	}
	if err != nil {
		return nil, &ParseError{Line: 1, Message: "invalid header", Cause: err}
	}

	index := make(map[string]int, len(header))
	for i, name := range header {
		name = strings.ToLower(strings.TrimSpace(strings.TrimPrefix(name, "\ufeff")))
		if _, dup := index[name]; !dup {
			index[name] = i
		}
	}
	for _, required := range []string{"skill", "course"} {
		if _, ok := index[required]; !ok {
			return nil, &ParseError{Line: 1, Message: "missing column " + required}
		}
	}

	var courses []types.Course
	for {
		record, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			var line int
			var csvErr *csv.ParseError
			if errors.As(err, &csvErr) {
				line = csvErr.StartLine
			}
			return nil, &ParseError{Line: line, Message: "invalid row", Cause: err}
		}

		field := func(name string) string {
			i, ok := index[name]
			if !ok || i >= len(record) {
				return ""
			}
			return strings.TrimSpace(record[i])
		}

		course := types.Course{
			Skill:      field("skill"),
			Course:     field("course"),
			Platform:   field("platform"),
			Instructor: field("instructor"),
			Level:      field("level"),
			Duration:   field("duration"),
			Enrolled:   field("enrolled"),
			Rating:     field("rating"),
			URL:        field("url"),
		}
		if course.Skill == "" {
			continue
		}
		courses = append(courses, course)
	}

	return &Catalog{courses: courses}, nil
}
