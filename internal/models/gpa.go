package models

// LetterGrade is one key of the fixed grade scale.
type LetterGrade string

const (
	GradeA      LetterGrade = "A"
	GradeAMinus LetterGrade = "A-"
	GradeBPlus  LetterGrade = "B+"
	GradeB      LetterGrade = "B"
	GradeBMinus LetterGrade = "B-"
	GradeCPlus  LetterGrade = "C+"
	GradeC      LetterGrade = "C"
	GradeCMinus LetterGrade = "C-"
	GradeDPlus  LetterGrade = "D+"
	GradeD      LetterGrade = "D"
	GradeF      LetterGrade = "F"
)

// GradeScaleName labels the grading system the table follows.
const GradeScaleName = "BUKC"

// Points are stored in hundredths so that weighted sums stay exact.
var gradeScale = [...]struct {
	grade      LetterGrade
	hundredths int
}{
	{GradeA, 400},
	{GradeAMinus, 367},
	{GradeBPlus, 333},
	{GradeB, 300},
	{GradeBMinus, 267},
	{GradeCPlus, 233},
	{GradeC, 200},
	{GradeCMinus, 167},
	{GradeDPlus, 133},
	{GradeD, 100},
	{GradeF, 0},
}

var creditHourOptions = [...]int{0, 1, 2, 3}

// GradePoint pairs a letter grade with its point value.
type GradePoint struct {
	Grade  LetterGrade `json:"grade"`
	Points float64     `json:"points"`
}

// GradeScale returns a copy of the grade table in selector order.
func GradeScale() []GradePoint {
	out := make([]GradePoint, len(gradeScale))
	for i, entry := range gradeScale {
		out[i] = GradePoint{Grade: entry.grade, Points: float64(entry.hundredths) / 100}
	}
	return out
}

// GradeHundredths returns the point value of g in hundredths of a grade point.
func GradeHundredths(g LetterGrade) (int, bool) {
	for _, entry := range gradeScale {
		if entry.grade == g {
			return entry.hundredths, true
		}
	}
	return 0, false
}

// Valid reports whether g is a key of the grade scale.
func (g LetterGrade) Valid() bool {
	_, ok := GradeHundredths(g)
	return ok
}

// CreditHourOptions lists the credit values offered by the guided entry form.
func CreditHourOptions() []int {
	out := make([]int, len(creditHourOptions))
	copy(out, creditHourOptions[:])
	return out
}

// ValidCreditHours reports whether v is selectable in the guided entry form.
func ValidCreditHours(v int) bool {
	for _, option := range creditHourOptions {
		if option == v {
			return true
		}
	}
	return false
}
