package export

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/piwi3910/nozzletray/internal/model"
	"github.com/piwi3910/nozzletray/internal/tray"
)

// Sheet names of the XLSX schedule.
const (
	SheetTiers     = "Tiers"
	SheetHoles     = "Holes"
	SheetClearance = "Clearance"
)

// ExportSchedule writes an XLSX workbook describing the stack: one row per
// tier, the hole arrays of the family and every clearance slot.
func ExportSchedule(path string, stack *tray.Stack) error {
	if stack == nil || len(stack.Tiers) == 0 {
		return fmt.Errorf("no tiers to export")
	}

	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), SheetTiers); err != nil {
		return fmt.Errorf("failed to name sheet: %w", err)
	}
	for _, name := range []string{SheetHoles, SheetClearance} {
		if _, err := f.NewSheet(name); err != nil {
			return fmt.Errorf("failed to add sheet %s: %w", name, err)
		}
	}

	header, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"DDEBF7"}},
	})
	if err != nil {
		return fmt.Errorf("failed to create header style: %w", err)
	}

	sheets := map[string][][]interface{}{
		SheetTiers:     tierRows(stack),
		SheetHoles:     holeRows(stack.Config),
		SheetClearance: clearanceRows(stack),
	}
	for _, name := range []string{SheetTiers, SheetHoles, SheetClearance} {
		if err := writeRows(f, name, sheets[name], header); err != nil {
			return err
		}
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("failed to write schedule: %w", err)
	}
	return nil
}

func writeRows(f *excelize.File, sheet string, rows [][]interface{}, headerStyle int) error {
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return fmt.Errorf("failed to address row %d: %w", i+1, err)
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return fmt.Errorf("failed to write %s row %d: %w", sheet, i+1, err)
		}
	}
	if len(rows) == 0 {
		return nil
	}
	last, err := excelize.CoordinatesToCellName(len(rows[0]), 1)
	if err != nil {
		return fmt.Errorf("failed to address header: %w", err)
	}
	if err := f.SetCellStyle(sheet, "A1", last, headerStyle); err != nil {
		return fmt.Errorf("failed to style %s header: %w", sheet, err)
	}
	lastCol, _, _ := excelize.SplitCellName(last)
	return f.SetColWidth(sheet, "A", lastCol, 14)
}

func tierRows(stack *tray.Stack) [][]interface{} {
	rows := [][]interface{}{{
		"Tier", "Label", "Z base", "Handle X", "Handle top",
		"Thread holes", "Tip holes", "Clearance cuts", "Status",
	}}
	for _, s := range stack.Summary() {
		status := "ok"
		if s.Error != "" {
			status = s.Error
		} else if len(s.Warnings) > 0 {
			status = fmt.Sprintf("%d warning(s)", len(s.Warnings))
		}
		rows = append(rows, []interface{}{
			s.Tier, s.Label, stack.Tiers[s.Tier].Spec.ZBase, s.HandleX, s.HandleTop,
			s.ThreadHoles, s.TipHoles, s.ClearanceCuts, status,
		})
	}
	return rows
}

func holeRows(cfg model.TrayFamilyConfig) [][]interface{} {
	rows := [][]interface{}{{
		"Array", "Face", "Diameter", "Depth", "Columns", "Rows",
		"Pitch X", "Pitch Y", "Offset X", "Offset Y", "Mouth chamfer",
	}}
	for _, h := range []struct {
		name, face string
		a          model.HoleArray
	}{
		{"thread", "top", cfg.ThreadHoles},
		{"tip", "bottom", cfg.TipHoles},
	} {
		rows = append(rows, []interface{}{
			h.name, h.face, h.a.Diameter, h.a.Depth, h.a.CountX, h.a.CountY,
			h.a.PitchX, h.a.PitchY, h.a.OffsetX, h.a.OffsetY, h.a.MouthChamfer,
		})
	}
	return rows
}

func clearanceRows(stack *tray.Stack) [][]interface{} {
	rows := [][]interface{}{{
		"Tier", "For tier", "Min X", "Min Y", "Min Z", "Max X", "Max Y", "Max Z", "Chamfer",
	}}
	for _, r := range stack.Tiers {
		for _, s := range r.Layout.Slots {
			rows = append(rows, []interface{}{
				r.Spec.Index, s.Tier,
				s.Box.Min.X, s.Box.Min.Y, s.Box.Min.Z,
				s.Box.Max.X, s.Box.Max.Y, s.Box.Max.Z,
				s.Chamfer,
			})
		}
	}
	return rows
}
