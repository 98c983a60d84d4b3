package export

import (
	"fmt"
	"reflect"

	"github.com/gocarina/gocsv"
)

// CSVExporter renders slices of csv-tagged structs into CSV bytes.
type CSVExporter struct{}

// NewCSVExporter builds a CSV exporter.
func NewCSVExporter() *CSVExporter {
	return &CSVExporter{}
}

// Render produces CSV encoded bytes for records, which must be a slice of structs.
func (e *CSVExporter) Render(records interface{}) ([]byte, error) {
	v := reflect.ValueOf(records)
	if v.Kind() != reflect.Slice {
		return nil, fmt.Errorf("csv requires a slice of records, got %T", records)
	}
	out, err := gocsv.MarshalBytes(records)
	if err != nil {
		return nil, fmt.Errorf("marshal csv: %w", err)
	}
	return out, nil
}

// Decode parses CSV bytes with a header row into out, a pointer to a slice of structs.
func (e *CSVExporter) Decode(data []byte, out interface{}) error {
	if err := gocsv.UnmarshalBytes(data, out); err != nil {
		return fmt.Errorf("unmarshal csv: %w", err)
	}
	return nil
}
