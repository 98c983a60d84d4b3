package service

import (
	"fmt"

	"github.com/noah-isme/gpa-calculator/internal/models"
)

// CalculateGPA returns the credit-weighted grade point average of the complete
// courses, rounded half-up to two decimals. Incomplete courses are skipped and a
// zero credit total yields 0.
func CalculateGPA(courses []models.Course) float64 {
	points, credits := accumulate(courses)
	return float64(averageHundredths(points, credits)) / 100
}

// FormatGPA renders a GPA with exactly two decimals.
func FormatGPA(gpa float64) string {
	return fmt.Sprintf("%.2f", gpa)
}

// Summarize builds the results view for a course list.
func Summarize(courses []models.Course) *models.GPAResult {
	points, credits := accumulate(courses)
	gpa := float64(averageHundredths(points, credits)) / 100

	result := &models.GPAResult{
		GPA:                gpa,
		Display:            FormatGPA(gpa),
		TotalCredits:       credits,
		TotalQualityPoints: formatHundredths(points),
		Scale:              models.GradeScaleName,
		Courses:            make([]models.CourseLine, 0, len(courses)),
	}
	for i, course := range courses {
		line := models.CourseLine{
			Position:    i + 1,
			Name:        course.Label(i),
			CreditHours: course.Credits(),
			Grade:       course.Grade,
		}
		if hundredths, ok := models.GradeHundredths(course.Grade); ok && course.Complete() {
			line.QualityPoints = formatHundredths(*course.CreditHours * hundredths)
		}
		result.Courses = append(result.Courses, line)
	}
	return result
}

// accumulate sums credit-weighted points in hundredths. Integer sums keep the
// result independent of course order.
func accumulate(courses []models.Course) (points, credits int) {
	for _, course := range courses {
		if !course.Complete() {
			continue
		}
		hundredths, _ := models.GradeHundredths(course.Grade)
		points += *course.CreditHours * hundredths
		credits += *course.CreditHours
	}
	return points, credits
}

// averageHundredths is round-half-up(points / credits) for non-negative operands.
func averageHundredths(points, credits int) int {
	if credits == 0 {
		return 0
	}
	return (2*points + credits) / (2 * credits)
}

func formatHundredths(v int) string {
	return fmt.Sprintf("%d.%02d", v/100, v%100)
}
