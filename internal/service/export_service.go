package service

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/noah-isme/gpa-calculator/internal/models"
	appErrors "github.com/noah-isme/gpa-calculator/pkg/errors"
	"github.com/noah-isme/gpa-calculator/pkg/export"
)

// ExportFormat selects the download encoding.
type ExportFormat string

const (
	ExportFormatCSV ExportFormat = "csv"
	ExportFormatPDF ExportFormat = "pdf"
)

// ExportFile is a rendered download.
type ExportFile struct {
	Filename    string
	ContentType string
	Data        []byte
}

type resultReader interface {
	Result(ctx context.Context, id string) (*models.GPAResult, error)
}

type csvRenderer interface {
	Render(records interface{}) ([]byte, error)
}

type pdfRenderer interface {
	Render(doc export.Document) ([]byte, error)
}

// exportRow is one CSV line; the trailing summary row carries the GPA.
type exportRow struct {
	Position      string `csv:"position"`
	Course        string `csv:"course"`
	CreditHours   string `csv:"credit_hours"`
	Grade         string `csv:"grade"`
	QualityPoints string `csv:"quality_points"`
	GPA           string `csv:"gpa"`
}

var pdfHeaders = []string{"#", "Course", "Credits", "Grade", "Quality Points"}

// ExportService renders calculated results as CSV or PDF.
type ExportService struct {
	results resultReader
	csv     csvRenderer
	pdf     pdfRenderer
	logger  *zap.Logger
}

// NewExportService constructs an ExportService.
func NewExportService(results resultReader, csv csvRenderer, pdf pdfRenderer, logger *zap.Logger) *ExportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ExportService{results: results, csv: csv, pdf: pdf, logger: logger}
}

// ParseExportFormat normalises a requested format, defaulting to CSV.
func ParseExportFormat(raw string) (ExportFormat, error) {
	switch ExportFormat(strings.ToLower(strings.TrimSpace(raw))) {
	case "", ExportFormatCSV:
		return ExportFormatCSV, nil
	case ExportFormatPDF:
		return ExportFormatPDF, nil
	default:
		return "", appErrors.Clone(appErrors.ErrUnsupportedFormat, fmt.Sprintf("unsupported export format %q", raw))
	}
}

// Export renders the result of session id.
func (s *ExportService) Export(ctx context.Context, id string, format ExportFormat) (*ExportFile, error) {
	result, err := s.results.Result(ctx, id)
	if err != nil {
		return nil, err
	}
	file, err := s.Render(result, format)
	if err != nil {
		s.logger.Error("export failed", zap.String("session_id", id), zap.String("format", string(format)), zap.Error(err))
		return nil, err
	}
	return file, nil
}

// Render encodes a result in the requested format.
func (s *ExportService) Render(result *models.GPAResult, format ExportFormat) (*ExportFile, error) {
	switch format {
	case ExportFormatCSV:
		data, err := s.csv.Render(csvRows(result))
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render csv")
		}
		return &ExportFile{Filename: "gpa-report.csv", ContentType: "text/csv", Data: data}, nil
	case ExportFormatPDF:
		data, err := s.pdf.Render(pdfDocument(result))
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render pdf")
		}
		return &ExportFile{Filename: "gpa-report.pdf", ContentType: "application/pdf", Data: data}, nil
	default:
		return nil, appErrors.Clone(appErrors.ErrUnsupportedFormat, fmt.Sprintf("unsupported export format %q", format))
	}
}

func csvRows(result *models.GPAResult) []exportRow {
	rows := make([]exportRow, 0, len(result.Courses)+1)
	for _, line := range result.Courses {
		rows = append(rows, exportRow{
			Position:      strconv.Itoa(line.Position),
			Course:        csvSafe(line.Name),
			CreditHours:   strconv.Itoa(line.CreditHours),
			Grade:         string(line.Grade),
			QualityPoints: line.QualityPoints,
		})
	}
	rows = append(rows, exportRow{
		Course:        "Total",
		CreditHours:   strconv.Itoa(result.TotalCredits),
		QualityPoints: result.TotalQualityPoints,
		GPA:           result.Display,
	})
	return rows
}

// csvSafe keeps spreadsheet programs from evaluating free-text cells as formulas.
func csvSafe(v string) string {
	if v != "" && strings.ContainsRune("=+-@\t\r", rune(v[0])) {
		return "'" + v
	}
	return v
}

func pdfDocument(result *models.GPAResult) export.Document {
	rows := make([]map[string]string, 0, len(result.Courses))
	for _, line := range result.Courses {
		rows = append(rows, map[string]string{
			"#":              strconv.Itoa(line.Position),
			"Course":         line.Name,
			"Credits":        strconv.Itoa(line.CreditHours),
			"Grade":          string(line.Grade),
			"Quality Points": line.QualityPoints,
		})
	}
	return export.Document{
		Title:     "GPA Report",
		Highlight: "GPA " + result.Display,
		Table:     export.Dataset{Headers: pdfHeaders, Rows: rows},
		Footer: []string{
			fmt.Sprintf("Total credits: %d  Quality points: %s", result.TotalCredits, result.TotalQualityPoints),
			fmt.Sprintf("Based on %s Grade System", result.Scale),
		},
	}
}
