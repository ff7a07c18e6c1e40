package importer

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/xuri/excelize/v2"
)

// ─── DetectCSVDelimiter Tests ──────────────────────────────

func TestDetectCSVDelimiter(t *testing.T) {
	tests := []struct {
		name string
		data string
		want rune
	}{
		{"comma", "Tier,Label\n0,0.4\n1,0.6\n", ','},
		{"semicolon", "Tier;Label\n0;0.4\n1;0.6\n", ';'},
		{"tab", "Tier\tLabel\n0\t0.4\n1\t0.6\n", '\t'},
		{"pipe", "Tier|Label\n0|0.4\n1|0.6\n", '|'},
		{"single column", "0.4\n0.6\n", ','},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DetectCSVDelimiter([]byte(tt.data)); got != tt.want {
				t.Errorf("expected %q, got %q", tt.want, got)
			}
		})
	}
}

// ─── DetectColumns Tests ───────────────────────────────────

func TestDetectColumns_Headers(t *testing.T) {
	mapping, isHeader := DetectColumns([]string{"Nozzle Size", "TIER"})
	if !isHeader {
		t.Fatal("expected header to be detected")
	}
	if mapping.Label != 0 || mapping.Tier != 1 {
		t.Errorf("expected label 0 and tier 1, got %+v", mapping)
	}
}

func TestDetectColumns_NoHeader(t *testing.T) {
	mapping, isHeader := DetectColumns([]string{"0.4"})
	if isHeader {
		t.Error("expected no header for a data row")
	}
	if mapping.Label != 0 || mapping.Tier != -1 {
		t.Errorf("expected positional mapping, got %+v", mapping)
	}
}

// ─── CSV Tests ─────────────────────────────────────────────

func TestImportCSVFromReader_InOrder(t *testing.T) {
	result := ImportCSVFromReader(strings.NewReader("Label\n0.4\n\n0.6\n0.8\n"), ',')

	if len(result.Errors) > 0 {
		t.Fatalf("unexpected errors: %v", result.Errors)
	}
	want := []string{"0.4", "0.6", "0.8"}
	if strings.Join(result.Labels, ",") != strings.Join(want, ",") {
		t.Errorf("expected %v, got %v", want, result.Labels)
	}
	if !result.OK() {
		t.Error("expected OK result")
	}
}

func TestImportCSVFromReader_WithoutHeader(t *testing.T) {
	result := ImportCSVFromReader(strings.NewReader("0.25\n0.4\n"), ',')

	if len(result.Errors) > 0 {
		t.Fatalf("unexpected errors: %v", result.Errors)
	}
	if len(result.Labels) != 2 || result.Labels[0] != "0.25" {
		t.Errorf("expected [0.25 0.4], got %v", result.Labels)
	}
	if len(result.Warnings) != 0 {
		t.Errorf("expected no warnings, got %v", result.Warnings)
	}
}

func TestImportCSVFromReader_ByTier(t *testing.T) {
	result := ImportCSVFromReader(strings.NewReader("tier;label\n2;0.8\n0;0.4\n1;0.6\n"), ';')

	if len(result.Errors) > 0 {
		t.Fatalf("unexpected errors: %v", result.Errors)
	}
	if strings.Join(result.Labels, ",") != "0.4,0.6,0.8" {
		t.Errorf("expected labels sorted by tier, got %v", result.Labels)
	}
}

func TestImportCSVFromReader_TierProblems(t *testing.T) {
	tests := []struct {
		name string
		data string
		want string
	}{
		{"duplicate", "tier,label\n0,a\n0,b\n", "Tier 0 already labelled 'a'"},
		{"gap", "tier,label\n0,a\n2,b\n", "Tier 1 has no label"},
		{"invalid", "tier,label\nx,a\n", "Invalid tier 'x'"},
		{"negative", "tier,label\n-1,a\n", "Invalid tier '-1'"},
		{"missing label", "tier,label\n0,\n", "Line 2: Missing label"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := ImportCSVFromReader(strings.NewReader(tt.data), ',')
			if result.OK() {
				t.Fatal("expected a failed import")
			}
			found := false
			for _, e := range result.Errors {
				if strings.Contains(e, tt.want) {
					found = true
				}
			}
			if !found {
				t.Errorf("expected error containing %q, got %v", tt.want, result.Errors)
			}
		})
	}
}

func TestImportCSVFromReader_HeaderWithoutLabel(t *testing.T) {
	result := ImportCSVFromReader(strings.NewReader("tier\n0\n"), ',')
	if len(result.Errors) == 0 {
		t.Fatal("expected error for header without a label column")
	}
}

func TestImportCSVFromReader_OnlyHeader(t *testing.T) {
	result := ImportCSVFromReader(strings.NewReader("label\n"), ',')
	if len(result.Errors) == 0 || result.Errors[0] != "No data rows found" {
		t.Errorf("expected 'No data rows found', got %v", result.Errors)
	}
}

func TestImportCSV_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "labels.csv")
	if err := os.WriteFile(path, []byte("No|Nozzle\n0|0.4 mm\n1|0.6 mm\n"), 0644); err != nil {
		t.Fatalf("failed to write test file: %v", err)
	}

	result := Import(path)

	if len(result.Errors) > 0 {
		t.Fatalf("unexpected errors: %v", result.Errors)
	}
	if strings.Join(result.Labels, ",") != "0.4 mm,0.6 mm" {
		t.Errorf("unexpected labels %v", result.Labels)
	}
	if len(result.Warnings) == 0 || result.Warnings[0] != "Detected pipe delimiter" {
		t.Errorf("expected pipe delimiter warning, got %v", result.Warnings)
	}
}

func TestImportCSV_FileNotFound(t *testing.T) {
	if result := ImportCSV("/nonexistent/path/labels.csv"); len(result.Errors) == 0 {
		t.Error("expected error for nonexistent file")
	}
}

func TestImportCSV_EmptyFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.csv")
	if err := os.WriteFile(path, []byte("  \n"), 0644); err != nil {
		t.Fatalf("failed to write test file: %v", err)
	}
	if result := ImportCSV(path); len(result.Errors) == 0 {
		t.Error("expected error for empty file")
	}
}

// ─── Excel Import Tests ────────────────────────────────────

func createTestExcel(t *testing.T, rows [][]interface{}) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "labels.xlsx")

	f := excelize.NewFile()
	sheet := f.GetSheetName(0)

	for i, row := range rows {
		for j, cell := range row {
			cellRef, err := excelize.CoordinatesToCellName(j+1, i+1)
			if err != nil {
				t.Fatalf("failed to create cell reference: %v", err)
			}
			if err := f.SetCellValue(sheet, cellRef, cell); err != nil {
				t.Fatalf("failed to set cell value: %v", err)
			}
		}
	}

	if err := f.SaveAs(path); err != nil {
		t.Fatalf("failed to save Excel file: %v", err)
	}
	return path
}

func TestImportExcel_WithHeaders(t *testing.T) {
	path := createTestExcel(t, [][]interface{}{
		{"Tier", "Size"},
		{1, "0.6"},
		{0, "0.4"},
	})

	result := Import(path)

	if len(result.Errors) > 0 {
		t.Fatalf("unexpected errors: %v", result.Errors)
	}
	if strings.Join(result.Labels, ",") != "0.4,0.6" {
		t.Errorf("unexpected labels %v", result.Labels)
	}
}

func TestImportExcel_BadRow(t *testing.T) {
	path := createTestExcel(t, [][]interface{}{
		{"Label"},
		{"0.4"},
		{""},
		{"0.8"},
	})

	result := ImportExcel(path)

	if len(result.Labels) != 2 {
		t.Errorf("expected 2 labels, got %v", result.Labels)
	}
}

func TestImportExcel_FileNotFound(t *testing.T) {
	if result := ImportExcel("/nonexistent/labels.xlsx"); len(result.Errors) == 0 {
		t.Error("expected error for nonexistent file")
	}
}
