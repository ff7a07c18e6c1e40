// Package export writes generated tray stacks to files: STL meshes, DXF plan
// views, PDF drawing sheets, QR-coded tier tags and an XLSX schedule.
package export

import (
	"fmt"
	"math"

	"github.com/go-pdf/fpdf"

	"github.com/piwi3910/nozzletray/internal/model"
	"github.com/piwi3910/nozzletray/internal/tray"
)

// tierColor represents an RGB color for a tier.
type tierColor struct {
	R, G, B int
}

// tierColors gives each tier of a stack its own fill.
var tierColors = []tierColor{
	{R: 76, G: 175, B: 80},  // green
	{R: 33, G: 150, B: 243}, // blue
	{R: 255, G: 152, B: 0},  // orange
	{R: 156, G: 39, B: 176}, // purple
	{R: 0, G: 188, B: 212},  // cyan
	{R: 244, G: 67, B: 54},  // red
	{R: 255, G: 235, B: 59}, // yellow
	{R: 121, G: 85, B: 72},  // brown
}

// Page layout constants (A4 landscape in mm).
const (
	pageWidth    = 297.0
	pageHeight   = 210.0
	marginLeft   = 15.0
	marginRight  = 15.0
	marginTop    = 15.0
	marginBottom = 15.0
	headerHeight = 12.0
	drawAreaTop  = marginTop + headerHeight + 8.0
	viewGap      = 20.0
)

// ExportPDF writes a drawing set: one page per tier with a plan view and a
// side elevation, followed by a summary page.
func ExportPDF(path string, stack *tray.Stack) error {
	if stack == nil || len(stack.Tiers) == 0 {
		return fmt.Errorf("no tiers to export")
	}

	pdf := fpdf.New("L", "mm", "A4", "")
	pdf.SetAutoPageBreak(false, marginBottom)
	summary := stack.Summary()

	for i, r := range stack.Tiers {
		pdf.AddPage()
		renderTierPage(pdf, stack.Config, r.Layout, summary[i])
	}

	pdf.AddPage()
	renderSummaryPage(pdf, stack.Config, summary)

	if err := pdf.OutputFileAndClose(path); err != nil {
		return fmt.Errorf("failed to write PDF: %w", err)
	}
	return nil
}

// renderTierPage draws one tier: plan view on the left, elevation on the right.
func renderTierPage(pdf *fpdf.Fpdf, cfg model.TrayFamilyConfig, l tray.TierLayout, sum tray.TierSummary) {
	pdf.SetFont("Helvetica", "B", 14)
	pdf.SetTextColor(0, 0, 0)
	pdf.SetXY(marginLeft, marginTop)
	title := fmt.Sprintf("%s - Tier %d: label %q", cfg.Name, l.Spec.Index, l.Spec.Label)
	pdf.CellFormat(pageWidth-marginLeft-marginRight, headerHeight, title, "", 0, "L", false, 0, "")

	pdf.SetFont("Helvetica", "", 10)
	pdf.SetXY(marginLeft, marginTop+headerHeight)
	stats := fmt.Sprintf("Body z %.1f-%.1f mm | Handle x %.2f mm, top %.1f mm | Holes %d + %d | Clearance slots %d",
		l.Body.Min.Z, l.Body.Max.Z, l.Spec.HandleX, l.Spec.HandleTop(), len(l.ThreadHoles), len(l.TipHoles), len(l.Slots))
	pdf.CellFormat(pageWidth-marginLeft-marginRight, 5, stats, "", 0, "L", false, 0, "")

	drawWidth := (pageWidth - marginLeft - marginRight - viewGap) / 2
	drawHeight := pageHeight - drawAreaTop - marginBottom - 10

	drawPlanView(pdf, cfg, l, marginLeft, drawAreaTop, drawWidth, drawHeight)
	drawElevation(pdf, cfg, l, marginLeft+drawWidth+viewGap, drawAreaTop, drawWidth, drawHeight)

	if sum.Error != "" || len(sum.Warnings) > 0 {
		y := pageHeight - marginBottom - 4
		pdf.SetFont("Helvetica", "B", 9)
		if sum.Error != "" {
			pdf.SetTextColor(200, 0, 0)
			pdf.SetXY(marginLeft, y)
			pdf.CellFormat(pageWidth-marginLeft-marginRight, 4, "FAILED: "+sum.Error, "", 0, "L", false, 0, "")
		} else {
			pdf.SetTextColor(150, 100, 0)
			for _, w := range sum.Warnings {
				pdf.SetXY(marginLeft, y)
				pdf.CellFormat(pageWidth-marginLeft-marginRight, 4, "Warning: "+w, "", 0, "L", false, 0, "")
				y -= 4
			}
		}
		pdf.SetTextColor(0, 0, 0)
	}
}

// drawPlanView draws the tier seen from above. Page Y grows downward, so
// world Y is flipped.
func drawPlanView(pdf *fpdf.Fpdf, cfg model.TrayFamilyConfig, l tray.TierLayout, x, y, w, h float64) {
	scale := math.Min(w/cfg.Length, h/cfg.Width)
	canvasW := cfg.Length * scale
	canvasH := cfg.Width * scale
	ox := x + (w-canvasW)/2
	oy := y

	px := func(wx float64) float64 { return ox + wx*scale }
	py := func(wy float64) float64 { return oy + (cfg.Width-wy)*scale }

	pdf.SetFont("Helvetica", "B", 9)
	pdf.SetXY(x, y-6)
	pdf.CellFormat(w, 5, "Plan (top)", "", 0, "C", false, 0, "")

	// Body
	pdf.SetFillColor(235, 235, 235)
	pdf.SetDrawColor(60, 60, 60)
	pdf.SetLineWidth(0.5)
	pdf.Rect(ox, oy, canvasW, canvasH, "FD")

	// Clearance slots of lower tiers
	for _, s := range l.Slots {
		sx, sy := px(s.Box.Min.X), py(s.Box.Max.Y)
		sw, sh := (s.Box.Max.X-s.Box.Min.X)*scale, (s.Box.Max.Y-s.Box.Min.Y)*scale
		pdf.SetFillColor(255, 200, 200)
		pdf.SetDrawColor(200, 0, 0)
		pdf.SetLineWidth(0.3)
		pdf.Rect(sx, sy, sw, sh, "FD")
		drawHatchPattern(pdf, sx, sy, sw, sh)
	}

	// Tip holes (bottom face) dashed, thread holes (top face) solid
	pdf.SetDrawColor(120, 120, 120)
	pdf.SetLineWidth(0.2)
	pdf.SetDashPattern([]float64{1, 1}, 0)
	for _, c := range l.TipHoles {
		pdf.Circle(px(c.X), py(c.Y), cfg.TipHoles.Radius()*scale, "D")
		if cfg.TipHoles.MouthChamfer > 0 {
			pdf.Circle(px(c.X), py(c.Y), cfg.TipHoles.MouthRadius()*scale, "D")
		}
	}
	pdf.SetDashPattern([]float64{}, 0)
	pdf.SetDrawColor(30, 30, 30)
	pdf.SetLineWidth(0.3)
	for _, c := range l.ThreadHoles {
		pdf.Circle(px(c.X), py(c.Y), cfg.ThreadHoles.Radius()*scale, "D")
	}

	// Handle and grip
	col := tierColors[l.Spec.Index%len(tierColors)]
	pdf.SetFillColor(col.R, col.G, col.B)
	pdf.SetDrawColor(30, 30, 30)
	grip := l.GripBox()
	pdf.Rect(px(grip.Min.X), py(grip.Max.Y), (grip.Max.X-grip.Min.X)*scale, (grip.Max.Y-grip.Min.Y)*scale, "D")
	pdf.Rect(px(l.Handle.Min.X), py(l.Handle.Max.Y), (l.Handle.Max.X-l.Handle.Min.X)*scale, (l.Handle.Max.Y-l.Handle.Min.Y)*scale, "FD")

	// Label
	pdf.SetFont("Helvetica", "B", 7)
	lw := pdf.GetStringWidth(l.Spec.Label)
	pdf.SetXY(px(l.LabelCenter.X)-lw/2, py(l.LabelCenter.Y)-2)
	pdf.CellFormat(lw, 4, l.Spec.Label, "", 0, "C", false, 0, "")

	drawDimensionAnnotations(pdf, cfg.Length, cfg.Width, ox, oy, canvasW, canvasH)
}

// drawElevation draws the whole stack from the front (XZ) with the tier's
// body and handle filled.
func drawElevation(pdf *fpdf.Fpdf, cfg model.TrayFamilyConfig, l tray.TierLayout, x, y, w, h float64) {
	height := cfg.TopOfStack() + cfg.Overshoot
	scale := math.Min(w/cfg.Length, h/height)
	canvasW := cfg.Length * scale
	canvasH := height * scale
	ox := x + (w-canvasW)/2
	oy := y

	px := func(wx float64) float64 { return ox + wx*scale }
	pz := func(wz float64) float64 { return oy + (height-wz)*scale }

	pdf.SetFont("Helvetica", "B", 9)
	pdf.SetXY(x, y-6)
	pdf.CellFormat(w, 5, "Elevation (front)", "", 0, "C", false, 0, "")

	// Other tiers as outlines
	pdf.SetDrawColor(170, 170, 170)
	pdf.SetLineWidth(0.2)
	for t := 0; t < cfg.TierCount; t++ {
		if t == l.Spec.Index {
			continue
		}
		z := float64(t) * cfg.HeightPerTier
		pdf.Rect(px(0), pz(z+cfg.HeightPerTier), canvasW, cfg.HeightPerTier*scale, "D")
	}

	col := tierColors[l.Spec.Index%len(tierColors)]
	pdf.SetFillColor(col.R, col.G, col.B)
	pdf.SetDrawColor(30, 30, 30)
	pdf.SetLineWidth(0.4)
	pdf.Rect(px(l.Body.Min.X), pz(l.Body.Max.Z), (l.Body.Max.X-l.Body.Min.X)*scale, (l.Body.Max.Z-l.Body.Min.Z)*scale, "FD")
	pdf.Rect(px(l.Handle.Min.X), pz(l.Handle.Max.Z), (l.Handle.Max.X-l.Handle.Min.X)*scale, (l.Handle.Max.Z-l.Handle.Min.Z)*scale, "FD")

	// Slots seen from the front
	pdf.SetDrawColor(200, 0, 0)
	pdf.SetLineWidth(0.2)
	for _, s := range l.Slots {
		pdf.Rect(px(s.Box.Min.X), pz(l.Body.Max.Z), (s.Box.Max.X-s.Box.Min.X)*scale, (l.Body.Max.Z-l.Body.Min.Z)*scale, "D")
	}

	// Top of stack
	pdf.SetDashPattern([]float64{2, 1}, 0)
	pdf.SetDrawColor(0, 0, 200)
	pdf.Line(px(0)-3, pz(cfg.TopOfStack()), px(cfg.Length)+3, pz(cfg.TopOfStack()))
	pdf.SetDashPattern([]float64{}, 0)

	drawDimensionAnnotations(pdf, cfg.Length, height, ox, oy, canvasW, canvasH)
}

// drawHatchPattern draws diagonal lines inside a rectangle to mark removed material.
func drawHatchPattern(pdf *fpdf.Fpdf, x, y, w, h float64) {
	pdf.SetDrawColor(200, 0, 0)
	pdf.SetLineWidth(0.15)

	spacing := 1.5
	maxDist := w + h

	for d := spacing; d < maxDist; d += spacing {
		x1 := x + math.Max(0, d-h)
		y1 := y + math.Min(h, d)
		x2 := x + math.Min(w, d)
		y2 := y + math.Max(0, d-w)

		pdf.Line(x1, y1, x2, y2)
	}
}

// drawDimensionAnnotations labels the overall width and height outside a view.
func drawDimensionAnnotations(pdf *fpdf.Fpdf, width, height, offsetX, offsetY, canvasW, canvasH float64) {
	pdf.SetFont("Helvetica", "", 8)
	pdf.SetTextColor(80, 80, 80)

	widthLabel := fmt.Sprintf("%.1f mm", width)
	wLabelW := pdf.GetStringWidth(widthLabel)
	pdf.SetXY(offsetX+(canvasW-wLabelW)/2, offsetY+canvasH+1)
	pdf.CellFormat(wLabelW, 4, widthLabel, "", 0, "C", false, 0, "")

	heightLabel := fmt.Sprintf("%.1f mm", height)
	pdf.TransformBegin()
	pdf.TransformRotate(90, offsetX-3, offsetY+canvasH/2)
	hLabelW := pdf.GetStringWidth(heightLabel)
	pdf.SetXY(offsetX-3-hLabelW/2, offsetY+canvasH/2-2)
	pdf.CellFormat(hLabelW, 4, heightLabel, "", 0, "C", false, 0, "")
	pdf.TransformEnd()

	pdf.SetTextColor(0, 0, 0)
}

// renderSummaryPage draws the family parameters and the tier table.
func renderSummaryPage(pdf *fpdf.Fpdf, cfg model.TrayFamilyConfig, summary []tray.TierSummary) {
	pdf.SetFont("Helvetica", "B", 16)
	pdf.SetXY(marginLeft, marginTop)
	pdf.CellFormat(pageWidth-marginLeft-marginRight, 10, "Tray Stack Summary: "+cfg.Name, "", 0, "L", false, 0, "")

	pdf.SetDrawColor(0, 0, 0)
	pdf.SetLineWidth(0.5)
	pdf.Line(marginLeft, marginTop+12, pageWidth-marginRight, marginTop+12)

	y := marginTop + 18

	pdf.SetFont("Helvetica", "B", 12)
	pdf.SetXY(marginLeft, y)
	pdf.CellFormat(100, 7, "Family", "", 0, "L", false, 0, "")
	y += 9

	items := []struct {
		label string
		value string
	}{
		{"Footprint", fmt.Sprintf("%.1f x %.1f mm", cfg.Length, cfg.Width)},
		{"Tiers", fmt.Sprintf("%d x %.1f mm", cfg.TierCount, cfg.HeightPerTier)},
		{"Handle", fmt.Sprintf("%.1f x %.1f mm, chamfer %.2f", cfg.HandleWidth, cfg.HandleDepth, cfg.ChamferRadius)},
		{"Handle Spacing", fmt.Sprintf("outer %.2f mm, inner %.3f mm", cfg.OuterMargin, cfg.InnerSpacing())},
		{"Clearance", fmt.Sprintf("%.2f mm (+%.2f mm in Y)", cfg.Clearance, cfg.ClearanceExtraY)},
		{"Thread Holes", holeDescription(cfg.ThreadHoles)},
		{"Tip Holes", holeDescription(cfg.TipHoles)},
	}

	pdf.SetFont("Helvetica", "", 10)
	for _, item := range items {
		pdf.SetXY(marginLeft+5, y)
		pdf.CellFormat(45, 6, item.label+":", "", 0, "L", false, 0, "")
		pdf.SetFont("Helvetica", "B", 10)
		pdf.CellFormat(120, 6, item.value, "", 0, "L", false, 0, "")
		pdf.SetFont("Helvetica", "", 10)
		y += 7
	}

	y += 5
	pdf.SetFont("Helvetica", "B", 12)
	pdf.SetXY(marginLeft, y)
	pdf.CellFormat(100, 7, "Tiers", "", 0, "L", false, 0, "")
	y += 9

	colWidths := []float64{15, 25, 30, 30, 30, 30, 25, 82}
	headers := []string{"Tier", "Label", "Handle X", "Handle Top", "Thread", "Tip", "Slots", "Status"}

	pdf.SetFont("Helvetica", "B", 9)
	pdf.SetFillColor(230, 230, 230)
	xPos := marginLeft
	for i, header := range headers {
		pdf.SetXY(xPos, y)
		pdf.CellFormat(colWidths[i], 6, header, "1", 0, "C", true, 0, "")
		xPos += colWidths[i]
	}
	y += 6

	pdf.SetFont("Helvetica", "", 9)
	for i, s := range summary {
		status := "ok"
		switch {
		case s.Error != "":
			status = "failed"
		case len(s.Warnings) > 0:
			status = fmt.Sprintf("%d warning(s)", len(s.Warnings))
		}
		row := []string{
			fmt.Sprintf("%d", s.Tier),
			s.Label,
			fmt.Sprintf("%.3f", s.HandleX),
			fmt.Sprintf("%.1f", s.HandleTop),
			fmt.Sprintf("%d", s.ThreadHoles),
			fmt.Sprintf("%d", s.TipHoles),
			fmt.Sprintf("%d", s.ClearanceCuts),
			status,
		}

		if i%2 == 0 {
			pdf.SetFillColor(245, 245, 245)
		} else {
			pdf.SetFillColor(255, 255, 255)
		}

		xPos = marginLeft
		for j, cell := range row {
			pdf.SetXY(xPos, y)
			pdf.CellFormat(colWidths[j], 6, cell, "1", 0, "C", true, 0, "")
			xPos += colWidths[j]
		}
		y += 6
	}

	pdf.SetFont("Helvetica", "I", 8)
	pdf.SetTextColor(120, 120, 120)
	pdf.SetXY(marginLeft, pageHeight-marginBottom)
	pdf.CellFormat(pageWidth-marginLeft-marginRight, 4, "Generated by nozzletray - stackable nozzle tray generator", "", 0, "C", false, 0, "")
	pdf.SetTextColor(0, 0, 0)
}

func holeDescription(a model.HoleArray) string {
	return fmt.Sprintf("%d x %d, dia %.1f mm, depth %.1f mm, pitch %.2f mm", a.CountX, a.CountY, a.Diameter, a.Depth, a.PitchX)
}
