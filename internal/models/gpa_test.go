package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGradeScaleOrderAndValues(t *testing.T) {
	scale := GradeScale()
	require.Len(t, scale, 11)
	assert.Equal(t, GradePoint{Grade: GradeA, Points: 4.00}, scale[0])
	assert.Equal(t, GradePoint{Grade: GradeAMinus, Points: 3.67}, scale[1])
	assert.Equal(t, GradePoint{Grade: GradeCPlus, Points: 2.33}, scale[5])
	assert.Equal(t, GradePoint{Grade: GradeF, Points: 0}, scale[10])

	scale[0].Points = 0
	again := GradeScale()
	assert.Equal(t, 4.00, again[0].Points)
}

func TestGradeValidity(t *testing.T) {
	assert.True(t, GradeDPlus.Valid())
	assert.False(t, LetterGrade("A+").Valid())
	assert.False(t, LetterGrade("").Valid())
}

func TestCreditHourOptions(t *testing.T) {
	options := CreditHourOptions()
	assert.Equal(t, []int{0, 1, 2, 3}, options)
	options[0] = 9
	assert.Equal(t, 0, CreditHourOptions()[0])
	assert.True(t, ValidCreditHours(3))
	assert.False(t, ValidCreditHours(4))
	assert.False(t, ValidCreditHours(-1))
}

func TestCourseCompleteAndLabel(t *testing.T) {
	assert.False(t, Course{}.Complete())
	assert.False(t, Course{CreditHours: IntPtr(3)}.Complete())
	assert.False(t, Course{Grade: GradeA}.Complete())
	assert.True(t, Course{CreditHours: IntPtr(0), Grade: GradeF}.Complete())

	assert.Equal(t, "Course 3", Course{}.Label(2))
	assert.Equal(t, "Physics", Course{Name: "Physics"}.Label(2))
}

func TestSessionCloneIsDeep(t *testing.T) {
	s := NewSession("id", time.Unix(0, 0))
	s.Courses = []Course{{CreditHours: IntPtr(2), Grade: GradeB}}

	clone := s.Clone()
	*clone.Courses[0].CreditHours = 3
	clone.Courses[0].Grade = GradeC

	assert.Equal(t, 2, *s.Courses[0].CreditHours)
	assert.Equal(t, GradeB, s.Courses[0].Grade)
	assert.Equal(t, FlowStateCountEntry, s.State)
}
