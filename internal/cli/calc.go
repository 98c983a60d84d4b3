package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/noah-isme/gpa-calculator/internal/models"
	"github.com/noah-isme/gpa-calculator/internal/service"
	"github.com/noah-isme/gpa-calculator/pkg/export"
)

// maxCredits caps one course so credit-weighted sums stay far from int overflow.
const maxCredits = 1000

// courseRecord is one row of a --file CSV.
type courseRecord struct {
	Name        string `csv:"name"`
	CreditHours string `csv:"credit_hours"`
	Grade       string `csv:"grade"`
}

type calcOptions struct {
	courses []string
	file    string
	format  string
}

func newCalcCmd() *cobra.Command {
	opts := &calcOptions{}
	cmd := &cobra.Command{
		Use:   "calc",
		Short: "Calculate a GPA from flags or a CSV file",
		Long: `Computes the credit-weighted GPA of the given courses.

Each --course is "name:credits:grade" or "credits:grade", e.g.
  gpa-calculator calc --course "Calculus:3:A" --course "3:B"

A --file CSV needs the header row name,credit_hours,grade.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCalc(cmd.OutOrStdout(), opts)
		},
	}
	cmd.Flags().StringArrayVarP(&opts.courses, "course", "c", nil, `course as "name:credits:grade" or "credits:grade" (repeatable)`)
	cmd.Flags().StringVarP(&opts.file, "file", "f", "", "CSV file with name,credit_hours,grade columns")
	cmd.Flags().StringVar(&opts.format, "format", "text", "output format: text or json")
	return cmd
}

func runCalc(out io.Writer, opts *calcOptions) error {
	if opts.format != "text" && opts.format != "json" {
		return fmt.Errorf("unknown format %q (want text or json)", opts.format)
	}

	var courses []models.Course
	for _, raw := range opts.courses {
		course, err := parseCourseFlag(raw)
		if err != nil {
			return err
		}
		courses = append(courses, course)
	}
	if opts.file != "" {
		data, err := os.ReadFile(opts.file)
		if err != nil {
			return fmt.Errorf("read %s: %w", opts.file, err)
		}
		fromFile, err := parseCourseCSV(data)
		if err != nil {
			return err
		}
		courses = append(courses, fromFile...)
	}
	if len(courses) == 0 {
		return fmt.Errorf("no courses given; use --course or --file")
	}

	result := service.Summarize(courses)
	if opts.format == "json" {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(result)
	}
	return writeText(out, result)
}

func parseCourseFlag(raw string) (models.Course, error) {
	parts := strings.Split(raw, ":")
	if len(parts) < 2 {
		return models.Course{}, fmt.Errorf("invalid course %q: want name:credits:grade or credits:grade", raw)
	}
	grade := parts[len(parts)-1]
	credits := parts[len(parts)-2]
	name := strings.Join(parts[:len(parts)-2], ":")
	course, err := buildCourse(name, credits, grade)
	if err != nil {
		return models.Course{}, fmt.Errorf("invalid course %q: %w", raw, err)
	}
	return course, nil
}

func parseCourseCSV(data []byte) ([]models.Course, error) {
	var records []courseRecord
	if err := export.NewCSVExporter().Decode(data, &records); err != nil {
		return nil, err
	}
	courses := make([]models.Course, 0, len(records))
	for i, rec := range records {
		course, err := buildCourse(rec.Name, rec.CreditHours, rec.Grade)
		if err != nil {
			return nil, fmt.Errorf("csv row %d: %w", i+1, err)
		}
		courses = append(courses, course)
	}
	return courses, nil
}

// buildCourse accepts 0..maxCredits credit hours; only the form restricts it to the selector options.
func buildCourse(name, credits, grade string) (models.Course, error) {
	n, err := strconv.Atoi(strings.TrimSpace(credits))
	if err != nil || n < 0 || n > maxCredits {
		return models.Course{}, fmt.Errorf("credit hours must be a whole number between 0 and %d, got %q", maxCredits, credits)
	}
	letter := models.LetterGrade(strings.ToUpper(strings.TrimSpace(grade)))
	if !letter.Valid() {
		return models.Course{}, fmt.Errorf("unknown grade %q", grade)
	}
	return models.Course{Name: strings.TrimSpace(name), CreditHours: models.IntPtr(n), Grade: letter}, nil
}

func writeText(out io.Writer, result *models.GPAResult) error {
	var b strings.Builder
	fmt.Fprintf(&b, "GPA: %s\n", result.Display)
	fmt.Fprintf(&b, "Total credits: %d\n", result.TotalCredits)
	b.WriteString("Course Breakdown:\n")
	for _, line := range result.Courses {
		fmt.Fprintf(&b, "  %s: %d credits - Grade: %s\n", line.Name, line.CreditHours, line.Grade)
	}
	fmt.Fprintf(&b, "Based on %s Grade System\n", result.Scale)
	_, err := io.WriteString(out, b.String())
	return err
}
