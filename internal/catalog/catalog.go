// Package catalog loads the course catalog used for recommendations.
package catalog

import (
	"github.com/jonathan/skillgap/internal/types"
)

// Catalog is a read-only list of courses in source order.
type Catalog struct {
	courses []types.Course
}

// New creates a Catalog from courses.
func New(courses []types.Course) *Catalog {
	return &Catalog{courses: append([]types.Course(nil), courses...)}
}

// Courses returns the courses in source order. The slice must not be modified.
func (c *Catalog) Courses() []types.Course {
	if c == nil {
		return nil
	}
	return c.courses
}

// Len returns the number of courses.
func (c *Catalog) Len() int {
	if c == nil {
		return 0
	}
	return len(c.courses)
}

// BySkill returns the courses teaching skill, in source order.
func (c *Catalog) BySkill(skill string) []types.Course {
	var out []types.Course
	for _, course := range c.Courses() {
		if course.Skill == skill {
			out = append(out, course)
		}
	}
	return out
}

// Skills returns the distinct skills taught, in first-appearance order.
func (c *Catalog) Skills() []string {
	seen := make(map[string]bool)
	var out []string
	for _, course := range c.Courses() {
		if !seen[course.Skill] {
			seen[course.Skill] = true
			out = append(out, course.Skill)
		}
	}
	return out
}
