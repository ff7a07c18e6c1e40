// Package importer reads tier label lists from CSV and Excel files.
// It supports automatic delimiter detection, optional tier columns, and
// case-insensitive header recognition.
package importer

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"
)

// ImportResult holds the results of an import operation. Labels are ordered
// bottom tier first.
type ImportResult struct {
	Labels   []string
	Errors   []string
	Warnings []string
}

// OK reports whether the import produced labels without errors.
func (r ImportResult) OK() bool {
	return len(r.Errors) == 0 && len(r.Labels) > 0
}

// ColumnMapping maps semantic column roles to their indices in the data.
type ColumnMapping struct {
	Label int
	Tier  int
}

// headerAliases maps canonical column names to their accepted aliases (all lowercase).
var headerAliases = map[string][]string{
	"label": {"label", "name", "text", "size", "nozzle", "nozzle size", "value"},
	"tier":  {"tier", "index", "level", "layer", "#", "no", "position"},
}

// DetectCSVDelimiter reads the file content and determines the most likely CSV delimiter.
// It tries comma, semicolon, tab, and pipe. The delimiter that produces the most
// consistent (non-one) column count across lines wins.
func DetectCSVDelimiter(data []byte) rune {
	candidates := []rune{',', ';', '\t', '|'}
	bestDelimiter := ','
	bestScore := 0

	for _, delim := range candidates {
		reader := csv.NewReader(bytes.NewReader(data))
		reader.Comma = delim
		reader.LazyQuotes = true
		reader.FieldsPerRecord = -1

		records, err := reader.ReadAll()
		if err != nil || len(records) < 1 {
			continue
		}

		firstCols := len(records[0])
		if firstCols < 2 {
			continue
		}

		score := 0
		for _, row := range records {
			if len(row) == firstCols {
				score++
			}
		}

		weighted := score*10 + firstCols
		if weighted > bestScore {
			bestScore = weighted
			bestDelimiter = delim
		}
	}

	return bestDelimiter
}

// DetectColumns examines a header row and returns a ColumnMapping.
// Returns the mapping and true if a header was detected, or a positional
// mapping (label in the first column, no tier column) and false otherwise.
func DetectColumns(row []string) (ColumnMapping, bool) {
	mapping := ColumnMapping{Label: -1, Tier: -1}

	isHeader := false
	for i, cell := range row {
		normalized := strings.ToLower(strings.TrimSpace(cell))
		for role, aliases := range headerAliases {
			for _, alias := range aliases {
				if normalized != alias {
					continue
				}
				isHeader = true
				switch role {
				case "label":
					if mapping.Label == -1 {
						mapping.Label = i
					}
				case "tier":
					if mapping.Tier == -1 {
						mapping.Tier = i
					}
				}
			}
		}
	}

	if !isHeader {
		return ColumnMapping{Label: 0, Tier: -1}, false
	}
	return mapping, true
}

func getCell(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}

func isEmptyRow(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}

// Import reads a label list, choosing the reader by file extension.
func Import(path string) ImportResult {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx", ".xlsm", ".xls":
		return ImportExcel(path)
	default:
		return ImportCSV(path)
	}
}

// ImportCSV imports labels from a CSV file.
// It automatically detects the delimiter and maps columns by header names.
func ImportCSV(path string) ImportResult {
	result := ImportResult{}

	data, err := os.ReadFile(path)
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("Cannot open file: %v", err))
		return result
	}

	if len(bytes.TrimSpace(data)) == 0 {
		result.Errors = append(result.Errors, "File is empty")
		return result
	}

	delimiter := DetectCSVDelimiter(data)
	var warnings []string
	if delimiter != ',' {
		delimName := map[rune]string{';': "semicolon", '\t': "tab", '|': "pipe"}[delimiter]
		warnings = append(warnings, fmt.Sprintf("Detected %s delimiter", delimName))
	}

	return importFromReader(bytes.NewReader(data), delimiter, warnings)
}

// ImportCSVFromReader imports labels from a CSV reader with a specific delimiter.
func ImportCSVFromReader(reader io.Reader, delimiter rune) ImportResult {
	return importFromReader(reader, delimiter, nil)
}

func importFromReader(reader io.Reader, delimiter rune, warnings []string) ImportResult {
	csvReader := csv.NewReader(reader)
	csvReader.Comma = delimiter
	csvReader.LazyQuotes = true
	csvReader.FieldsPerRecord = -1

	records, err := csvReader.ReadAll()
	if err != nil {
		return ImportResult{Errors: []string{fmt.Sprintf("Cannot read CSV: %v", err)}}
	}
	if len(records) == 0 {
		return ImportResult{Errors: []string{"File is empty"}}
	}
	return importFromRows(records, "Line", warnings)
}

// ImportExcel imports labels from the first sheet of an Excel file.
func ImportExcel(path string) ImportResult {
	result := ImportResult{}

	f, err := excelize.OpenFile(path)
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("Cannot open Excel file: %v", err))
		return result
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		result.Errors = append(result.Errors, "Excel file has no sheets")
		return result
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("Cannot read Excel data: %v", err))
		return result
	}
	if len(rows) == 0 {
		result.Errors = append(result.Errors, "Sheet is empty")
		return result
	}

	return importFromRows(rows, "Row", nil)
}

// importFromRows is the shared import logic for both CSV and Excel data.
// With a tier column the labels are placed by tier number, which must run
// 0..N-1 without gaps or repeats; otherwise rows are taken in order.
func importFromRows(rows [][]string, rowPrefix string, initialWarnings []string) ImportResult {
	result := ImportResult{Warnings: initialWarnings}

	mapping, hasHeader := DetectColumns(rows[0])
	startRow := 0
	if hasHeader {
		startRow = 1
		result.Warnings = append(result.Warnings, "Detected header row, skipping")
		if mapping.Label == -1 {
			result.Errors = append(result.Errors, "Required columns not found in header: Label")
			return result
		}
	}

	byTier := map[int]string{}
	for i := startRow; i < len(rows); i++ {
		row := rows[i]
		if isEmptyRow(row) {
			continue
		}
		rowLabel := fmt.Sprintf("%s %d", rowPrefix, i+1)

		label := getCell(row, mapping.Label)
		if label == "" {
			result.Errors = append(result.Errors, fmt.Sprintf("%s: Missing label", rowLabel))
			continue
		}
		if mapping.Tier == -1 {
			result.Labels = append(result.Labels, label)
			continue
		}

		tierStr := getCell(row, mapping.Tier)
		tier, err := strconv.Atoi(tierStr)
		if err != nil || tier < 0 {
			result.Errors = append(result.Errors, fmt.Sprintf("%s: Invalid tier '%s'", rowLabel, tierStr))
			continue
		}
		if prev, dup := byTier[tier]; dup {
			result.Errors = append(result.Errors, fmt.Sprintf("%s: Tier %d already labelled '%s'", rowLabel, tier, prev))
			continue
		}
		byTier[tier] = label
	}

	if mapping.Tier != -1 && len(byTier) > 0 {
		for t := 0; t < len(byTier); t++ {
			label, ok := byTier[t]
			if !ok {
				result.Errors = append(result.Errors, fmt.Sprintf("Tier %d has no label", t))
				continue
			}
			result.Labels = append(result.Labels, label)
		}
	}

	if len(result.Labels) == 0 && len(result.Errors) == 0 {
		result.Errors = append(result.Errors, "No data rows found")
	}
	return result
}
