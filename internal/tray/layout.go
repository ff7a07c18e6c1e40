package tray

import (
	"gonum.org/v1/gonum/spatial/r2"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/piwi3910/nozzletray/internal/kernel"
	"github.com/piwi3910/nozzletray/internal/model"
)

// Slot is the clearance volume a lower tier's handle sweeps through a tier.
type Slot struct {
	Tier    int     `json:"tier"` // the lower tier whose handle passes
	Box     r3.Box  `json:"box"`
	Chamfer float64 `json:"chamfer"` // on the two vertical edges at the slot's back
}

// TierLayout is the analytic geometry of one tier. Builders and exporters
// both read it, so drawings always match the solids.
type TierLayout struct {
	Spec model.TierSpec `json:"spec"`

	Body r3.Box `json:"body"`

	// Hole centers in world XY.
	ThreadHoles []r2.Vec `json:"thread_holes"`
	TipHoles    []r2.Vec `json:"tip_holes"`

	Handle r3.Box `json:"handle"`

	// Grip is the ramp profile in world (Y, Z); it is swept over GripX.
	Grip  []r2.Vec   `json:"grip"`
	GripX [2]float64 `json:"grip_x"`

	LabelCenter r2.Vec `json:"label_center"` // world XY on the handle top

	Slots []Slot `json:"slots"`
}

// Bounds returns the box enclosing body, handle and grip.
func (l TierLayout) Bounds() r3.Box {
	return kernel.Union(l.Body, kernel.Union(l.Handle, l.GripBox()))
}

// GripBox returns the bounding box of the swept grip.
func (l TierLayout) GripBox() r3.Box {
	b := r3.Box{
		Min: r3.Vec{X: l.GripX[0], Y: l.Grip[0].X, Z: l.Grip[0].Y},
		Max: r3.Vec{X: l.GripX[1], Y: l.Grip[0].X, Z: l.Grip[0].Y},
	}
	for _, p := range l.Grip[1:] {
		b = kernel.Union(b, r3.Box{Min: r3.Vec{X: l.GripX[0], Y: p.X, Z: p.Y}, Max: r3.Vec{X: l.GripX[1], Y: p.X, Z: p.Y}})
	}
	return b
}

// Layout derives the geometry of tier t from cfg alone.
func Layout(cfg model.TrayFamilyConfig, t int) TierLayout {
	spec := cfg.Tier(t)
	body := bodyBox(cfg, t)
	center := kernel.Center(body)

	l := TierLayout{
		Spec:        spec,
		Body:        body,
		ThreadHoles: worldCenters(cfg.ThreadHoles, center),
		TipHoles:    worldCenters(cfg.TipHoles, center),
		Handle:      handleBox(cfg, spec),
		Grip:        gripProfile(cfg, spec),
		GripX:       gripSpan(cfg, spec),
		LabelCenter: labelCenter(cfg, spec),
	}
	for i := 0; i < t; i++ {
		l.Slots = append(l.Slots, Slot{
			Tier:    i,
			Box:     slotBox(cfg, i),
			Chamfer: slotChamfer(cfg),
		})
	}
	return l
}

// Layouts returns the layout of every tier, bottom first.
func Layouts(cfg model.TrayFamilyConfig) []TierLayout {
	out := make([]TierLayout, cfg.TierCount)
	for t := range out {
		out[t] = Layout(cfg, t)
	}
	return out
}

func bodyBox(cfg model.TrayFamilyConfig, t int) r3.Box {
	return kernel.BoxAt(
		r3.Vec{Z: float64(t) * cfg.HeightPerTier},
		r3.Vec{X: cfg.Length, Y: cfg.Width, Z: cfg.HeightPerTier},
	)
}

// worldCenters maps a grid onto the XY plane around the body center. Top and
// bottom faces share the same frame, so one mapping serves both.
func worldCenters(a model.HoleArray, center r3.Vec) []r2.Vec {
	local := model.GridCenters(a)
	out := make([]r2.Vec, len(local))
	for i, c := range local {
		out[i] = r2.Vec{X: center.X + c.X, Y: center.Y + c.Y}
	}
	return out
}

func handleBox(cfg model.TrayFamilyConfig, spec model.TierSpec) r3.Box {
	return kernel.BoxAt(
		r3.Vec{X: spec.HandleX, Z: spec.ZBase},
		r3.Vec{X: cfg.HandleWidth, Y: cfg.HandleDepth, Z: spec.HandleHeight},
	)
}

// gripProfile returns the ramp triangle in world (Y, Z): it hangs off the
// handle's back face with its flat top TopMargin below the handle top.
func gripProfile(cfg model.TrayFamilyConfig, spec model.TierSpec) []r2.Vec {
	top := spec.HandleTop() - cfg.Grip.TopMargin
	back := cfg.HandleDepth
	return []r2.Vec{
		{X: back, Y: top - cfg.GripRise()},
		{X: back + cfg.Grip.Protrusion, Y: top},
		{X: back, Y: top},
	}
}

func gripSpan(cfg model.TrayFamilyConfig, spec model.TierSpec) [2]float64 {
	return [2]float64{
		spec.HandleX + cfg.Grip.Inset,
		spec.HandleX + cfg.HandleWidth - cfg.Grip.Inset,
	}
}

func labelCenter(cfg model.TrayFamilyConfig, spec model.TierSpec) r2.Vec {
	return r2.Vec{X: spec.HandleX + cfg.HandleWidth/2, Y: cfg.HandleDepth / 2}
}

// slotBox is the volume tier i's handle needs while rising through every
// tier above it: Δ wider on both sides, Δ (plus any extra) deeper, up to the
// top of the stack.
func slotBox(cfg model.TrayFamilyConfig, i int) r3.Box {
	return kernel.BoxAt(
		r3.Vec{X: cfg.HandleX(i) - cfg.Clearance, Z: float64(i) * cfg.HeightPerTier},
		r3.Vec{
			X: cfg.HandleWidth + 2*cfg.Clearance,
			Y: cfg.SlotDepth(),
			Z: float64(cfg.TierCount-i) * cfg.HeightPerTier,
		},
	)
}

func slotChamfer(cfg model.TrayFamilyConfig) float64 {
	return cfg.ChamferRadius + cfg.Clearance
}
