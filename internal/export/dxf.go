package export

import (
	"fmt"
	"math"

	"github.com/yofu/dxf"
	"github.com/yofu/dxf/color"
	"github.com/yofu/dxf/drawing"
	"github.com/yofu/dxf/table"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/piwi3910/nozzletray/internal/model"
	"github.com/piwi3910/nozzletray/internal/tray"
)

// DXF layer names used in tier plan views.
const (
	LayerOutline   = "OUTLINE"
	LayerThread    = "THREAD_HOLES"
	LayerTip       = "TIP_HOLES"
	LayerHandle    = "HANDLE"
	LayerGrip      = "GRIP"
	LayerClearance = "CLEARANCE"
	LayerLabel     = "LABEL"
)

// ExportDXF writes the plan view (XY, mm) of one tier. Tip holes sit on the
// bottom face and use a hidden line type; a chamfered mouth adds an outer ring.
func ExportDXF(path string, cfg model.TrayFamilyConfig, l tray.TierLayout) error {
	d := dxf.NewDrawing()

	layers := []struct {
		name string
		cl   color.ColorNumber
		lt   *table.LineType
	}{
		{LayerOutline, dxf.DefaultColor, dxf.DefaultLineType},
		{LayerThread, color.Cyan, dxf.DefaultLineType},
		{LayerTip, color.Blue, table.LT_HIDDEN},
		{LayerHandle, color.Green, dxf.DefaultLineType},
		{LayerGrip, color.Yellow, dxf.DefaultLineType},
		{LayerClearance, color.Red, dxf.DefaultLineType},
		{LayerLabel, color.Magenta, dxf.DefaultLineType},
	}
	for _, layer := range layers {
		if _, err := d.AddLayer(layer.name, layer.cl, layer.lt, false); err != nil {
			return fmt.Errorf("failed to add layer %s: %w", layer.name, err)
		}
	}

	w := &dxfWriter{d: d}
	w.layer(LayerOutline)
	w.chamferedRect(l.Body, cfg.BodyChamfer, true)

	w.layer(LayerThread)
	for _, c := range l.ThreadHoles {
		w.circle(c.X, c.Y, l.Body.Max.Z, cfg.ThreadHoles.Radius())
	}
	w.layer(LayerTip)
	for _, c := range l.TipHoles {
		w.circle(c.X, c.Y, l.Body.Min.Z, cfg.TipHoles.Radius())
		if cfg.TipHoles.MouthChamfer > 0 {
			w.circle(c.X, c.Y, l.Body.Min.Z, cfg.TipHoles.MouthRadius())
		}
	}

	w.layer(LayerClearance)
	for _, s := range l.Slots {
		w.chamferedRect(s.Box, s.Chamfer, false)
	}

	w.layer(LayerHandle)
	w.chamferedRect(l.Handle, cfg.ChamferRadius, false)
	w.layer(LayerGrip)
	w.rect(l.GripBox())

	w.layer(LayerLabel)
	if w.err == nil {
		_, w.err = d.Text(l.Spec.Label, l.LabelCenter.X, l.LabelCenter.Y, l.Handle.Max.Z, cfg.Label.FontHeight)
	}

	if w.err != nil {
		return fmt.Errorf("failed to draw tier %d: %w", l.Spec.Index, w.err)
	}
	if err := d.SaveAs(path); err != nil {
		return fmt.Errorf("failed to write DXF: %w", err)
	}
	return nil
}

// dxfWriter keeps the first drawing error so call sites stay linear.
type dxfWriter struct {
	d   *drawing.Drawing
	err error
}

func (w *dxfWriter) layer(name string) {
	if w.err == nil {
		w.err = w.d.ChangeLayer(name)
	}
}

func (w *dxfWriter) line(x1, y1, x2, y2, z float64) {
	if w.err == nil {
		_, w.err = w.d.Line(x1, y1, z, x2, y2, z)
	}
}

func (w *dxfWriter) circle(x, y, z, r float64) {
	if w.err == nil {
		_, w.err = w.d.Circle(x, y, z, r)
	}
}

func (w *dxfWriter) rect(b r3.Box) {
	w.chamferedRect(b, 0, false)
}

// chamferedRect draws the XY outline of b at its top. A positive chamfer
// cuts the two +Y corners, or all four when all is set.
func (w *dxfWriter) chamferedRect(b r3.Box, chamfer float64, all bool) {
	x0, y0, x1, y1, z := b.Min.X, b.Min.Y, b.Max.X, b.Max.Y, b.Max.Z
	c := math.Max(chamfer, 0)
	lo := 0.0
	if all {
		lo = c
	}
	pts := [][2]float64{
		{x0 + lo, y0}, {x1 - lo, y0},
		{x1, y0 + lo}, {x1, y1 - c},
		{x1 - c, y1}, {x0 + c, y1},
		{x0, y1 - c}, {x0, y0 + lo},
	}
	for i := range pts {
		p, q := pts[i], pts[(i+1)%len(pts)]
		if p == q {
			continue
		}
		w.line(p[0], p[1], q[0], q[1], z)
	}
}
