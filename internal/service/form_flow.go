package service

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/noah-isme/gpa-calculator/internal/models"
	appErrors "github.com/noah-isme/gpa-calculator/pkg/errors"
)

// FormFlow sequences COUNT_ENTRY -> COURSE_ENTRY -> RESULTS over a session.
// Every rejected operation leaves the session untouched.
type FormFlow struct {
	maxCourses int
}

// NewFormFlow constructs a flow. A non-positive maxCourses removes the upper bound.
func NewFormFlow(maxCourses int) *FormFlow {
	return &FormFlow{maxCourses: maxCourses}
}

// ParseCourseCount accepts a base-10 integer >= 1.
func ParseCourseCount(raw string) (int, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return 0, appErrors.Clone(appErrors.ErrValidation, "number of courses is required")
	}
	n, err := strconv.Atoi(trimmed)
	if err != nil {
		return 0, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "number of courses must be a whole number")
	}
	if n < 1 {
		return 0, appErrors.Clone(appErrors.ErrValidation, "number of courses must be at least 1")
	}
	return n, nil
}

// CanContinue reports whether the count entry would be accepted.
func (f *FormFlow) CanContinue(raw string) bool {
	n, err := ParseCourseCount(raw)
	return err == nil && f.withinLimit(n)
}

// SubmitCount allocates n empty courses and moves to COURSE_ENTRY.
func (f *FormFlow) SubmitCount(s *models.Session, raw string) error {
	if s.State != models.FlowStateCountEntry {
		return transitionError(s.State, "submit course count")
	}
	n, err := ParseCourseCount(raw)
	if err != nil {
		return err
	}
	if !f.withinLimit(n) {
		return appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("number of courses must be at most %d", f.maxCourses))
	}
	s.NumCourses = n
	s.Courses = make([]models.Course, n)
	s.State = models.FlowStateCourseEntry
	return nil
}

// UpdateCourse replaces one field of the course at index. An empty value unsets
// credit hours or grade.
func (f *FormFlow) UpdateCourse(s *models.Session, index int, field models.CourseField, value string) error {
	if s.State != models.FlowStateCourseEntry {
		return transitionError(s.State, "update course")
	}
	if index < 0 || index >= len(s.Courses) {
		return appErrors.Clone(appErrors.ErrCourseIndex, fmt.Sprintf("course index %d out of range [0,%d)", index, len(s.Courses)))
	}
	updated, err := applyField(s.Courses[index], field, value)
	if err != nil {
		return err
	}
	s.Courses[index] = updated
	return nil
}

// CanCalculate reports whether every course is complete.
func CanCalculate(s *models.Session) bool {
	if s.State != models.FlowStateCourseEntry || len(s.Courses) == 0 {
		return false
	}
	for _, course := range s.Courses {
		if !course.Complete() {
			return false
		}
	}
	return true
}

// Calculate freezes the course list and moves to RESULTS.
func (f *FormFlow) Calculate(s *models.Session) error {
	if s.State != models.FlowStateCourseEntry {
		return transitionError(s.State, "calculate")
	}
	if len(s.Courses) == 0 {
		return appErrors.Clone(appErrors.ErrIncompleteCourses, "no courses to calculate")
	}
	if missing := incompletePositions(s.Courses); len(missing) > 0 {
		return appErrors.Clone(appErrors.ErrIncompleteCourses, fmt.Sprintf("courses missing credit hours or grade: %s", joinInts(missing)))
	}
	s.State = models.FlowStateResults
	return nil
}

// Result computes the GPA view of a session in RESULTS.
func (f *FormFlow) Result(s *models.Session) (*models.GPAResult, error) {
	if s.State != models.FlowStateResults {
		return nil, transitionError(s.State, "view results")
	}
	return Summarize(s.Courses), nil
}

// Reset clears the count and courses and returns to COUNT_ENTRY.
func (f *FormFlow) Reset(s *models.Session) {
	s.NumCourses = 0
	s.Courses = nil
	s.State = models.FlowStateCountEntry
}

func (f *FormFlow) withinLimit(n int) bool {
	return f.maxCourses <= 0 || n <= f.maxCourses
}

func applyField(course models.Course, field models.CourseField, value string) (models.Course, error) {
	switch field {
	case models.CourseFieldName:
		course.Name = strings.TrimSpace(value)
	case models.CourseFieldCreditHours:
		credits, err := parseCreditHours(value)
		if err != nil {
			return course, err
		}
		course.CreditHours = credits
	case models.CourseFieldGrade:
		grade := models.LetterGrade(strings.ToUpper(strings.TrimSpace(value)))
		if grade != "" && !grade.Valid() {
			return course, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("unknown grade %q", value))
		}
		course.Grade = grade
	default:
		return course, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("unknown course field %q", field))
	}
	return course, nil
}

func parseCreditHours(value string) (*int, error) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return nil, nil
	}
	credits, err := strconv.Atoi(trimmed)
	if err != nil || !models.ValidCreditHours(credits) {
		return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("credit hours must be one of %s", joinInts(models.CreditHourOptions())))
	}
	return models.IntPtr(credits), nil
}

func incompletePositions(courses []models.Course) []int {
	var missing []int
	for i, course := range courses {
		if !course.Complete() {
			missing = append(missing, i+1)
		}
	}
	return missing
}

func transitionError(state models.FlowState, op string) error {
	return appErrors.Clone(appErrors.ErrInvalidTransition, fmt.Sprintf("cannot %s during %s", op, state))
}

func joinInts(values []int) string {
	parts := make([]string, len(values))
	for i, v := range values {
		parts[i] = strconv.Itoa(v)
	}
	return strings.Join(parts, ", ")
}
