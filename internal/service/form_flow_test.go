package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/gpa-calculator/internal/models"
	appErrors "github.com/noah-isme/gpa-calculator/pkg/errors"
)

func newFlowSession() *models.Session {
	return models.NewSession("s-1", time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC))
}

func TestParseCourseCount(t *testing.T) {
	for _, raw := range []string{"0", "-1", "abc", "", "1.5", "  ", "2e1"} {
		_, err := ParseCourseCount(raw)
		assert.True(t, appErrors.Is(err, appErrors.ErrValidation), "expected %q to be rejected", raw)
	}
	for raw, want := range map[string]int{"1": 1, "2": 2, "100": 100, " 7 ": 7} {
		n, err := ParseCourseCount(raw)
		require.NoError(t, err, raw)
		assert.Equal(t, want, n)
	}
}

func TestSubmitCountAllocatesEmptyCourses(t *testing.T) {
	flow := NewFormFlow(100)
	s := newFlowSession()

	require.NoError(t, flow.SubmitCount(s, "3"))
	assert.Equal(t, models.FlowStateCourseEntry, s.State)
	assert.Equal(t, 3, s.NumCourses)
	require.Len(t, s.Courses, 3)
	for _, c := range s.Courses {
		assert.Equal(t, models.Course{}, c)
	}
}

func TestSubmitCountRejectedLeavesStateUnchanged(t *testing.T) {
	flow := NewFormFlow(100)
	for _, raw := range []string{"0", "-1", "abc", "", "1.5", "101"} {
		s := newFlowSession()
		err := flow.SubmitCount(s, raw)
		require.Error(t, err, raw)
		assert.Equal(t, models.FlowStateCountEntry, s.State)
		assert.Zero(t, s.NumCourses)
		assert.Nil(t, s.Courses)
	}
	assert.True(t, flow.CanContinue("100"))
	assert.False(t, flow.CanContinue("101"))
	assert.True(t, NewFormFlow(0).CanContinue("5000"))
}

func TestSubmitCountOnlyFromCountEntry(t *testing.T) {
	flow := NewFormFlow(0)
	s := newFlowSession()
	require.NoError(t, flow.SubmitCount(s, "2"))

	err := flow.SubmitCount(s, "5")
	assert.True(t, appErrors.Is(err, appErrors.ErrInvalidTransition))
	assert.Len(t, s.Courses, 2)
}

func TestUpdateCourseReplacesSingleField(t *testing.T) {
	flow := NewFormFlow(0)
	s := newFlowSession()
	require.NoError(t, flow.SubmitCount(s, "2"))

	require.NoError(t, flow.UpdateCourse(s, 0, models.CourseFieldName, "  Physics "))
	require.NoError(t, flow.UpdateCourse(s, 0, models.CourseFieldCreditHours, "3"))
	require.NoError(t, flow.UpdateCourse(s, 0, models.CourseFieldGrade, "b+"))

	assert.Equal(t, models.Course{Name: "Physics", CreditHours: models.IntPtr(3), Grade: models.GradeBPlus}, s.Courses[0])
	assert.Equal(t, models.Course{}, s.Courses[1])

	require.NoError(t, flow.UpdateCourse(s, 0, models.CourseFieldGrade, ""))
	assert.Equal(t, models.LetterGrade(""), s.Courses[0].Grade)
	assert.Equal(t, 3, *s.Courses[0].CreditHours)
}

func TestUpdateCourseValidation(t *testing.T) {
	flow := NewFormFlow(0)
	s := newFlowSession()
	require.NoError(t, flow.SubmitCount(s, "1"))

	assert.True(t, appErrors.Is(flow.UpdateCourse(s, 1, models.CourseFieldName, "x"), appErrors.ErrCourseIndex))
	assert.True(t, appErrors.Is(flow.UpdateCourse(s, -1, models.CourseFieldName, "x"), appErrors.ErrCourseIndex))
	assert.True(t, appErrors.Is(flow.UpdateCourse(s, 0, models.CourseFieldCreditHours, "4"), appErrors.ErrValidation))
	assert.True(t, appErrors.Is(flow.UpdateCourse(s, 0, models.CourseFieldCreditHours, "1.5"), appErrors.ErrValidation))
	assert.True(t, appErrors.Is(flow.UpdateCourse(s, 0, models.CourseFieldGrade, "A+"), appErrors.ErrValidation))
	assert.True(t, appErrors.Is(flow.UpdateCourse(s, 0, "instructor", "x"), appErrors.ErrValidation))
	assert.Equal(t, models.Course{}, s.Courses[0])
}

func TestUpdateCourseOutsideCourseEntry(t *testing.T) {
	flow := NewFormFlow(0)
	s := newFlowSession()
	err := flow.UpdateCourse(s, 0, models.CourseFieldName, "x")
	assert.True(t, appErrors.Is(err, appErrors.ErrInvalidTransition))
}

func TestCalculateRequiresCompleteCourses(t *testing.T) {
	flow := NewFormFlow(0)
	s := newFlowSession()
	require.NoError(t, flow.SubmitCount(s, "2"))
	require.NoError(t, flow.UpdateCourse(s, 0, models.CourseFieldCreditHours, "3"))
	require.NoError(t, flow.UpdateCourse(s, 0, models.CourseFieldGrade, "A"))
	require.NoError(t, flow.UpdateCourse(s, 1, models.CourseFieldCreditHours, "3"))

	assert.False(t, CanCalculate(s))
	err := flow.Calculate(s)
	assert.True(t, appErrors.Is(err, appErrors.ErrIncompleteCourses))
	assert.Contains(t, err.Error(), "2")
	assert.Equal(t, models.FlowStateCourseEntry, s.State)

	require.NoError(t, flow.UpdateCourse(s, 1, models.CourseFieldGrade, "B"))
	assert.True(t, CanCalculate(s))
	require.NoError(t, flow.Calculate(s))
	assert.Equal(t, models.FlowStateResults, s.State)
	assert.False(t, CanCalculate(s))

	result, err := flow.Result(s)
	require.NoError(t, err)
	assert.Equal(t, "3.50", result.Display)
	assert.Equal(t, "Course 1", result.Courses[0].Name)

	err = flow.UpdateCourse(s, 0, models.CourseFieldGrade, "F")
	assert.True(t, appErrors.Is(err, appErrors.ErrInvalidTransition))
}

func TestZeroCreditCoursesAreComplete(t *testing.T) {
	flow := NewFormFlow(0)
	s := newFlowSession()
	require.NoError(t, flow.SubmitCount(s, "1"))
	require.NoError(t, flow.UpdateCourse(s, 0, models.CourseFieldCreditHours, "0"))
	require.NoError(t, flow.UpdateCourse(s, 0, models.CourseFieldGrade, "A"))
	require.NoError(t, flow.Calculate(s))

	result, err := flow.Result(s)
	require.NoError(t, err)
	assert.Equal(t, "0.00", result.Display)
}

func TestResultOnlyInResults(t *testing.T) {
	_, err := NewFormFlow(0).Result(newFlowSession())
	assert.True(t, appErrors.Is(err, appErrors.ErrInvalidTransition))
}

func TestResetFromAnyStateAndReplay(t *testing.T) {
	flow := NewFormFlow(0)
	run := func(s *models.Session) *models.GPAResult {
		require.NoError(t, flow.SubmitCount(s, "2"))
		require.NoError(t, flow.UpdateCourse(s, 0, models.CourseFieldCreditHours, "2"))
		require.NoError(t, flow.UpdateCourse(s, 0, models.CourseFieldGrade, "A-"))
		require.NoError(t, flow.UpdateCourse(s, 1, models.CourseFieldCreditHours, "1"))
		require.NoError(t, flow.UpdateCourse(s, 1, models.CourseFieldGrade, "C+"))
		require.NoError(t, flow.Calculate(s))
		result, err := flow.Result(s)
		require.NoError(t, err)
		return result
	}

	s := newFlowSession()
	first := run(s)
	flow.Reset(s)
	assert.Equal(t, models.FlowStateCountEntry, s.State)
	assert.Zero(t, s.NumCourses)
	assert.Nil(t, s.Courses)

	second := run(s)
	assert.Equal(t, first, second)

	require.NoError(t, flow.SubmitCount(newFlowSession(), "1"))
	mid := newFlowSession()
	require.NoError(t, flow.SubmitCount(mid, "4"))
	flow.Reset(mid)
	assert.Equal(t, models.FlowStateCountEntry, mid.State)
}
