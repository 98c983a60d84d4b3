package models

import "time"

// FlowState enumerates the steps of the entry form.
type FlowState string

const (
	FlowStateCountEntry  FlowState = "COUNT_ENTRY"
	FlowStateCourseEntry FlowState = "COURSE_ENTRY"
	FlowStateResults     FlowState = "RESULTS"
)

// Session holds one user's progress through the form.
type Session struct {
	ID         string    `json:"id"`
	State      FlowState `json:"state"`
	NumCourses int       `json:"num_courses"`
	Courses    []Course  `json:"courses"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// NewSession returns a session at the count entry step.
func NewSession(id string, now time.Time) *Session {
	return &Session{ID: id, State: FlowStateCountEntry, CreatedAt: now, UpdatedAt: now}
}

// Clone deep-copies the session so callers can mutate without touching stored state.
func (s *Session) Clone() *Session {
	if s == nil {
		return nil
	}
	clone := *s
	if s.Courses != nil {
		clone.Courses = make([]Course, len(s.Courses))
		for i, course := range s.Courses {
			if course.CreditHours != nil {
				course.CreditHours = IntPtr(*course.CreditHours)
			}
			clone.Courses[i] = course
		}
	}
	return &clone
}
