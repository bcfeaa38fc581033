package source

import (
	"context"
	"fmt"
	"io"
	"os"
	"slices"

	"github.com/okian/riichi/internal/domain/model"
	"github.com/xuri/excelize/v2"
)

// ParseXLSX reads a workbook and maps the named sheet, or the first sheet
// when sheet is empty.
func ParseXLSX(r io.Reader, sheet string) ([]model.GameRow, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("open xlsx: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, ErrEmpty
	}
	if sheet == "" {
		sheet = sheets[0]
	} else if !slices.Contains(sheets, sheet) {
		return nil, fmt.Errorf("%w: %q", ErrSheetNotFound, sheet)
	}

	records, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("read sheet %q: %w", sheet, err)
	}
	return Table(records)
}

// XLSXFile loads the game log from a local workbook.
type XLSXFile struct {
	path  string
	sheet string
}

// NewXLSXFile returns a loader for one sheet of the workbook at path.
func NewXLSXFile(path, sheet string) *XLSXFile {
	return &XLSXFile{path: path, sheet: sheet}
}

// Load reads and maps the configured sheet.
func (x *XLSXFile) Load(ctx context.Context) ([]model.GameRow, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	f, err := os.Open(x.path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", x.path, err)
	}
	defer f.Close()
	return ParseXLSX(f, x.sheet)
}
