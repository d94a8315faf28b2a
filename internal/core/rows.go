package core

// rows.go reads tabular files into Rows.
//
// Two formats are supported, selected by file extension:
//   - .csv (and anything that is not a spreadsheet): comma-separated text decoded through
//     the configured TextDecoder
//   - .xlsx: the first worksheet of a spreadsheet
//
// Blank rows are dropped here so the parser never sees them.

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/JonMunkholm/volumereport/internal/logging"
)

// SupportedExtensions lists the file extensions accepted by directory discovery.
var SupportedExtensions = []string{".csv", ".xlsx"}

// ReadRows reads every non-blank row of a tabular file, including the header row.
// The file is opened, fully read and closed before returning. Spreadsheet date cells
// in columns the specs declare as FieldTimestamp are rendered in ReadingTimeLayout.
func ReadRows(ctx context.Context, path string, dec TextDecoder, specs []FieldSpec) ([]Row, error) {
	if strings.EqualFold(filepath.Ext(path), ".xlsx") {
		return readSpreadsheetRows(ctx, path, specs)
	}
	return readDelimitedRows(ctx, path, dec)
}

func readDelimitedRows(ctx context.Context, path string, dec TextDecoder) ([]Row, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	counter := dec.Wrap(f)
	reader := csv.NewReader(counter)
	reader.FieldsPerRecord = -1 // Column counts are checked per row by the validator
	reader.LazyQuotes = true
	reader.TrimLeadingSpace = true

	var rows []Row
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", path, err)
		}
		if isBlankRow(record) {
			continue
		}
		line, _ := reader.FieldPos(0)
		rows = append(rows, Row{Line: line, Cells: record})
	}

	logging.FromContext(ctx).Debug("delimited file read",
		"path", path,
		"encoding", dec.Name(),
		"bytes", counter.BytesRead,
		"rows", len(rows),
	)
	return rows, nil
}

func readSpreadsheetRows(ctx context.Context, path string, specs []FieldSpec) ([]Row, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("read %s: workbook has no sheets", path)
	}

	// Raw values keep date cells as serial numbers instead of their display format
	records, err := f.GetRows(sheets[0], excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("read %s: sheet %q: %w", path, sheets[0], err)
	}

	date1904 := false
	if props, err := f.GetWorkbookProps(); err == nil && props.Date1904 != nil {
		date1904 = *props.Date1904
	}

	// GetRows drops trailing empty cells; pad so short rows match delimited input
	width := 0
	for _, record := range records {
		width = max(width, len(record))
	}

	var rows []Row
	for i, record := range records {
		if isBlankRow(record) {
			continue
		}
		cells := make([]string, width)
		copy(cells, record)
		if i > 0 {
			formatDateCells(cells, specs, date1904)
		}
		rows = append(rows, Row{Line: i + 1, Cells: cells})
	}

	logging.FromContext(ctx).Debug("spreadsheet read",
		"path", path,
		"sheet", sheets[0],
		"rows", len(rows),
	)
	return rows, nil
}

// formatDateCells rewrites numeric date serials in timestamp columns as
// ReadingTimeLayout text. Cells stored as text are left for the validator.
func formatDateCells(cells []string, specs []FieldSpec, date1904 bool) {
	for i, spec := range specs {
		if spec.Type != FieldTimestamp || i >= len(cells) {
			continue
		}
		serial, err := strconv.ParseFloat(strings.TrimSpace(cells[i]), 64)
		if err != nil {
			continue
		}
		t, err := excelize.ExcelDateToTime(serial, date1904)
		if err != nil {
			continue
		}
		cells[i] = t.Round(time.Minute).Format(ReadingTimeLayout)
	}
}
