package models

import "fmt"

// CourseField names an editable attribute of a course record.
type CourseField string

const (
	CourseFieldName        CourseField = "name"
	CourseFieldCreditHours CourseField = "credit_hours"
	CourseFieldGrade       CourseField = "grade"
)

// Course is one row of the entry form. Unset credit hours are nil and an unset grade is empty.
type Course struct {
	Name        string      `json:"name"`
	CreditHours *int        `json:"credit_hours"`
	Grade       LetterGrade `json:"grade"`
}

// Complete reports whether the course has both credit hours and a grade.
func (c Course) Complete() bool {
	return c.CreditHours != nil && *c.CreditHours >= 0 && c.Grade.Valid()
}

// Label returns the display name, falling back to the 1-based position.
func (c Course) Label(index int) string {
	if c.Name != "" {
		return c.Name
	}
	return fmt.Sprintf("Course %d", index+1)
}

// Credits returns the credit hours or zero when unset.
func (c Course) Credits() int {
	if c.CreditHours == nil {
		return 0
	}
	return *c.CreditHours
}

// CourseLine is one line of the results breakdown.
type CourseLine struct {
	Position      int         `json:"position" csv:"position"`
	Name          string      `json:"name" csv:"course"`
	CreditHours   int         `json:"credit_hours" csv:"credit_hours"`
	Grade         LetterGrade `json:"grade" csv:"grade"`
	QualityPoints string      `json:"quality_points" csv:"quality_points"`
}

// GPAResult is the rendered outcome of a calculation.
type GPAResult struct {
	GPA                float64      `json:"gpa"`
	Display            string       `json:"gpa_display"`
	TotalCredits       int          `json:"total_credits"`
	TotalQualityPoints string       `json:"total_quality_points"`
	Scale              string       `json:"scale"`
	Courses            []CourseLine `json:"courses"`
}

// IntPtr is a small helper for optional credit hours.
func IntPtr(v int) *int {
	return &v
}
