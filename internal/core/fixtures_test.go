package core

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/xuri/excelize/v2"
)

const (
	deviceHeader = "Device Id,Device Name,Location\n"
	dataHeader   = "Device Id,Date,Volume\n"
)

// writeFile writes content to name inside dir and returns the path.
func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

// writeWorkbook writes rows to the first sheet of a new .xlsx file.
func writeWorkbook(t *testing.T, dir, name string, rows [][]any) string {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()

	sheet := f.GetSheetName(0)
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			t.Fatalf("cell name: %v", err)
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			t.Fatalf("set row %d: %v", i+1, err)
		}
	}

	path := filepath.Join(dir, name)
	if err := f.SaveAs(path); err != nil {
		t.Fatalf("save %s: %v", name, err)
	}
	return path
}

// utf8Decoder returns the default decoder.
func utf8Decoder(t *testing.T) TextDecoder {
	t.Helper()
	dec, err := NewTextDecoder("utf-8")
	if err != nil {
		t.Fatalf("NewTextDecoder() error = %v", err)
	}
	return dec
}
