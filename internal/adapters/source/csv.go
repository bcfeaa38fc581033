package source

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"

	"github.com/okian/riichi/internal/domain/model"
)

// ParseCSV reads a CSV game log with a header row.
func ParseCSV(r io.Reader) ([]model.GameRow, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true
	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read csv: %w", err)
	}
	return Table(records)
}

// CSVFile loads the game log from a local CSV file.
type CSVFile struct {
	path string
}

// NewCSVFile returns a loader for the CSV file at path.
func NewCSVFile(path string) *CSVFile {
	return &CSVFile{path: path}
}

// Load reads and maps the whole file.
func (c *CSVFile) Load(ctx context.Context) ([]model.GameRow, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	f, err := os.Open(c.path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", c.path, err)
	}
	defer f.Close()
	return ParseCSV(f)
}
