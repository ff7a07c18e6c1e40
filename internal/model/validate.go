package model

import (
	"fmt"
	"strings"

	"github.com/piwi3910/nozzletray/internal/errors"
)

// Validate checks every configuration precondition the generator relies on.
// It returns a CONFIGURATION error listing all problems, or nil.
func (c TrayFamilyConfig) Validate() error {
	var problems []string
	add := func(format string, args ...any) {
		problems = append(problems, fmt.Sprintf(format, args...))
	}

	if c.TierCount < 1 {
		add("tier_count must be at least 1, got %d", c.TierCount)
	}
	for _, d := range []struct {
		name  string
		value float64
	}{
		{"length", c.Length},
		{"width", c.Width},
		{"height_per_tier", c.HeightPerTier},
		{"handle_width", c.HandleWidth},
		{"handle_depth", c.HandleDepth},
		{"overshoot", c.Overshoot},
	} {
		if d.value <= 0 {
			add("%s must be positive, got %g", d.name, d.value)
		}
	}
	for _, d := range []struct {
		name  string
		value float64
	}{
		{"outer_margin", c.OuterMargin},
		{"chamfer_radius", c.ChamferRadius},
		{"body_chamfer", c.BodyChamfer},
		{"clearance", c.Clearance},
		{"clearance_extra_y", c.ClearanceExtraY},
	} {
		if d.value < 0 {
			add("%s must not be negative, got %g", d.name, d.value)
		}
	}
	// Everything below divides or compares against these; stop early.
	if len(problems) > 0 {
		return c.problemsError(problems)
	}

	c.validateHandles(add)
	c.validateHoles(add)
	c.validateGrip(add)
	c.validateLabels(add)

	if len(problems) > 0 {
		return c.problemsError(problems)
	}
	return nil
}

func (c TrayFamilyConfig) problemsError(problems []string) error {
	name := c.Name
	if name == "" {
		name = "unnamed"
	}
	return errors.Configuration("invalid tray family %q: %s", name, strings.Join(problems, "; "))
}

func (c TrayFamilyConfig) validateHandles(add func(string, ...any)) {
	used := c.HandleWidth*float64(c.TierCount) + 2*c.OuterMargin
	if used > c.Length {
		add("handles need %.3f mm but length is %.3f: inner spacing %.3f is negative",
			used, c.Length, c.InnerSpacing())
	} else if c.TierCount > 1 && c.InnerSpacing() < c.Clearance {
		add("inner spacing %.3f is below clearance %.3f: slots would cut neighbouring handles",
			c.InnerSpacing(), c.Clearance)
	}
	if 2*c.ChamferRadius >= min(c.HandleWidth, c.HandleDepth) {
		add("chamfer_radius %.3f is too large for a %.3f x %.3f handle",
			c.ChamferRadius, c.HandleWidth, c.HandleDepth)
	}
	if 2*c.BodyChamfer >= min(c.Length, c.Width) {
		add("body_chamfer %.3f is too large for the body", c.BodyChamfer)
	}
	if c.SlotDepth() >= c.Width {
		add("clearance slot depth %.3f reaches through the body width %.3f", c.SlotDepth(), c.Width)
	}
}

func (c TrayFamilyConfig) validateHoles(add func(string, ...any)) {
	for _, h := range []struct {
		name  string
		array HoleArray
	}{
		{"thread_holes", c.ThreadHoles},
		{"tip_holes", c.TipHoles},
	} {
		a := h.array
		if a.Diameter <= 0 || a.Depth <= 0 {
			add("%s: diameter and depth must be positive", h.name)
			continue
		}
		if a.CountX < 1 || a.CountY < 1 {
			add("%s: counts must be at least 1, got %d x %d", h.name, a.CountX, a.CountY)
			continue
		}
		if (a.CountX > 1 && a.PitchX < a.Diameter) || (a.CountY > 1 && a.PitchY < a.Diameter) {
			add("%s: pitch %.3f x %.3f is smaller than the diameter %.3f", h.name, a.PitchX, a.PitchY, a.Diameter)
		}
		if !GridFits(a, c.Length, c.Width) {
			min, max := GridExtent(a)
			add("%s: grid spans (%.3f, %.3f)-(%.3f, %.3f) which exceeds the %.3f x %.3f face",
				h.name, min.X, min.Y, max.X, max.Y, c.Length, c.Width)
		} else if min, _ := GridExtent(a); min.Y+c.Width/2 < c.SlotDepth() {
			add("%s: grid reaches into the handle strip (y < %.3f)", h.name, c.SlotDepth())
		}
		if a.MouthChamfer < 0 || a.MouthChamfer >= a.Radius() || a.MouthChamfer >= a.Depth {
			add("%s: mouth_chamfer %.3f must be below the radius and the depth", h.name, a.MouthChamfer)
		}
	}
	if total := c.ThreadHoles.Depth + c.TipHoles.Depth; total >= c.HeightPerTier {
		add("thread and tip holes meet inside the body: depths %.3f + %.3f >= height %.3f",
			c.ThreadHoles.Depth, c.TipHoles.Depth, c.HeightPerTier)
	}
}

func (c TrayFamilyConfig) validateGrip(add func(string, ...any)) {
	g := c.Grip
	rise := c.GripRise()
	if rise <= 0 {
		add("grip rise %.3f must be positive", rise)
	}
	if g.Protrusion <= 0 {
		add("grip protrusion %.3f must be positive", g.Protrusion)
	}
	if g.Inset < 0 || 2*g.Inset >= c.HandleWidth {
		add("grip inset %.3f leaves no width on a %.3f handle", g.Inset, c.HandleWidth)
	}
	if g.TopMargin < 0 {
		add("grip top_margin %.3f must not be negative", g.TopMargin)
	}
	if g.TopMargin+rise > c.Overshoot {
		add("grip spans %.3f below the handle top but only %.3f stands above the stack",
			g.TopMargin+rise, c.Overshoot)
	}
	if c.HandleDepth+g.Protrusion > c.Width {
		add("grip protrusion %.3f runs past the tray width", g.Protrusion)
	}
}

func (c TrayFamilyConfig) validateLabels(add func(string, ...any)) {
	l := c.Label
	switch l.Mode {
	case LabelModeNumeric:
		if l.Step <= 0 {
			add("numeric labels need a positive step, got %g", l.Step)
		}
		if l.Precision < 0 {
			add("numeric labels need a non-negative precision, got %d", l.Precision)
		}
	case LabelModeList:
		if len(c.Labels) < c.TierCount {
			add("label list has %d entries for %d tiers", len(c.Labels), c.TierCount)
		}
	default:
		add("unknown label mode %q", l.Mode)
	}
	if l.FontHeight <= 0 || l.Depth <= 0 {
		add("label font_height and depth must be positive")
	} else if l.Depth >= c.Overshoot+c.HeightPerTier {
		add("label depth %.3f is deeper than the shortest handle", l.Depth)
	}
}
