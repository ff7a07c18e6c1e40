package export

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/go-pdf/fpdf"
	qrcode "github.com/skip2/go-qrcode"

	"github.com/piwi3910/nozzletray/internal/tray"
)

// TagInfo holds the data encoded into each tier tag's QR code.
type TagInfo struct {
	Family    string  `json:"family"`
	Tier      int     `json:"tier"`
	Label     string  `json:"label"`
	ZBase     float64 `json:"z_base_mm"`
	HandleX   float64 `json:"handle_x_mm"`
	HandleTop float64 `json:"handle_top_mm"`
	RunID     string  `json:"run_id,omitempty"`
}

// Tag layout constants for Avery 5160-compatible labels (3 columns, 10 rows per page).
// Each label cell is approximately 66.7mm x 25.4mm on US Letter paper.
const (
	tagMarginTop  = 12.7 // mm
	tagMarginLeft = 4.8  // mm
	tagWidth      = 66.7 // mm per label
	tagHeight     = 25.4 // mm per label
	tagCols       = 3
	tagRows       = 10
	tagsPerPage   = tagCols * tagRows
	qrSize        = 20.0 // QR code size in mm
	tagPadding    = 2.0  // mm internal padding
)

// ExportTags writes a sheet of QR-coded tags, one per built tier, for
// sticking on the printed trays or their storage box.
func ExportTags(path string, stack *tray.Stack, runID string) error {
	tags := CollectTagInfos(stack, runID)
	if len(tags) == 0 {
		return fmt.Errorf("no built tiers to generate tags for")
	}

	pdf := fpdf.New("P", "mm", "Letter", "")
	pdf.SetAutoPageBreak(false, 0)

	for i, tag := range tags {
		if i%tagsPerPage == 0 {
			pdf.AddPage()
		}

		pos := i % tagsPerPage
		x := tagMarginLeft + float64(pos%tagCols)*tagWidth
		y := tagMarginTop + float64(pos/tagCols)*tagHeight

		if err := renderTag(pdf, x, y, tag); err != nil {
			return fmt.Errorf("failed to render tag for tier %d: %w", tag.Tier, err)
		}
	}

	if err := pdf.OutputFileAndClose(path); err != nil {
		return fmt.Errorf("failed to write tags: %w", err)
	}
	return nil
}

// renderTag draws a single tag at the given position.
func renderTag(pdf *fpdf.Fpdf, x, y float64, info TagInfo) error {
	pdf.SetDrawColor(200, 200, 200)
	pdf.SetLineWidth(0.1)
	pdf.Rect(x, y, tagWidth, tagHeight, "D")

	qrData, err := json.Marshal(info)
	if err != nil {
		return fmt.Errorf("failed to marshal tag info: %w", err)
	}
	qrPNG, err := qrcode.Encode(string(qrData), qrcode.Medium, 256)
	if err != nil {
		return fmt.Errorf("failed to generate QR code: %w", err)
	}

	imgName := fmt.Sprintf("qr_%s_%d", info.Family, info.Tier)
	pdf.RegisterImageOptionsReader(imgName, fpdf.ImageOptions{ImageType: "PNG"}, bytes.NewReader(qrPNG))

	qrX := x + tagWidth - qrSize - tagPadding
	qrY := y + (tagHeight-qrSize)/2
	pdf.ImageOptions(imgName, qrX, qrY, qrSize, qrSize, false, fpdf.ImageOptions{ImageType: "PNG"}, 0, "")

	textX := x + tagPadding
	textW := tagWidth - qrSize - 3*tagPadding

	pdf.SetFont("Helvetica", "B", 12)
	pdf.SetTextColor(0, 0, 0)
	pdf.SetXY(textX, y+tagPadding)
	label := info.Label
	if pdf.GetStringWidth(label) > textW {
		for len(label) > 0 && pdf.GetStringWidth(label+"...") > textW {
			label = label[:len(label)-1]
		}
		label += "..."
	}
	pdf.CellFormat(textW, 5.5, label, "", 1, "L", false, 0, "")

	pdf.SetFont("Helvetica", "", 7)
	pdf.SetXY(textX, y+tagPadding+7)
	pdf.CellFormat(textW, 3.5, fmt.Sprintf("%s, tier %d", info.Family, info.Tier), "", 1, "L", false, 0, "")

	pdf.SetFont("Helvetica", "", 6)
	pdf.SetTextColor(100, 100, 100)
	pdf.SetXY(textX, y+tagPadding+11)
	pdf.CellFormat(textW, 3, fmt.Sprintf("z %.1f mm, handle @ x %.2f", info.ZBase, info.HandleX), "", 1, "L", false, 0, "")

	pdf.SetTextColor(0, 0, 0)
	return nil
}

// CollectTagInfos returns the tag data of every built tier.
func CollectTagInfos(stack *tray.Stack, runID string) []TagInfo {
	if stack == nil {
		return nil
	}
	var tags []TagInfo
	for _, r := range stack.Tiers {
		if r.Err != nil {
			continue
		}
		tags = append(tags, TagInfo{
			Family:    stack.Config.Name,
			Tier:      r.Spec.Index,
			Label:     r.Spec.Label,
			ZBase:     r.Spec.ZBase,
			HandleX:   r.Spec.HandleX,
			HandleTop: r.Spec.HandleTop(),
			RunID:     runID,
		})
	}
	return tags
}
