package dto

import (
	"bytes"
	"encoding/json"
	"time"

	"github.com/noah-isme/gpa-calculator/internal/models"
)

// RawValue keeps the literal text of a JSON scalar so that numbers and strings
// ("3", 3, "abc") reach the form validation unchanged.
type RawValue string

// UnmarshalJSON implements json.Unmarshaler.
func (v *RawValue) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if bytes.Equal(trimmed, []byte("null")) {
		*v = ""
		return nil
	}
	if len(trimmed) > 0 && trimmed[0] == '"' {
		var s string
		if err := json.Unmarshal(trimmed, &s); err != nil {
			return err
		}
		*v = RawValue(s)
		return nil
	}
	*v = RawValue(trimmed)
	return nil
}

// CourseCountRequest captures POST /sessions/:id/count.
type CourseCountRequest struct {
	NumCourses RawValue `json:"num_courses"`
}

// UpdateCourseRequest captures PATCH /sessions/:id/courses/:index.
type UpdateCourseRequest struct {
	Field models.CourseField `json:"field" validate:"required,oneof=name credit_hours grade"`
	Value RawValue           `json:"value"`
}

// CourseInput carries every field of one course as submitted by the HTML form.
type CourseInput struct {
	Name        string `json:"name"`
	CreditHours string `json:"credit_hours"`
	Grade       string `json:"grade"`
}

// SaveCoursesRequest replaces all course fields at once.
type SaveCoursesRequest struct {
	Courses []CourseInput `json:"courses" validate:"required,min=1,dive"`
}

// CourseView is one course as seen by a client.
type CourseView struct {
	Index       int                `json:"index"`
	Label       string             `json:"label"`
	Name        string             `json:"name"`
	CreditHours *int               `json:"credit_hours"`
	Grade       models.LetterGrade `json:"grade"`
	Complete    bool               `json:"complete"`
}

// SessionResponse exposes the current step and what the client may do next.
type SessionResponse struct {
	ID           string            `json:"id"`
	State        models.FlowState  `json:"state"`
	NumCourses   int               `json:"num_courses"`
	Courses      []CourseView      `json:"courses"`
	CanCalculate bool              `json:"can_calculate"`
	Result       *models.GPAResult `json:"result,omitempty"`
	ExpiresAt    *time.Time        `json:"expires_at,omitempty"`
}

// GradeScaleResponse lists the selector options of the entry form.
type GradeScaleResponse struct {
	Scale       string              `json:"scale"`
	Grades      []models.GradePoint `json:"grades"`
	CreditHours []int               `json:"credit_hours"`
}
