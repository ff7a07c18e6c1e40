package model

// HoleArray describes a rectangular grid of blind holes drilled into one face
// of the tray body. Offsets move the grid center away from the face center.
type HoleArray struct {
	Diameter     float64 `json:"diameter" toml:"diameter" yaml:"diameter"`
	Depth        float64 `json:"depth" toml:"depth" yaml:"depth"`
	CountX       int     `json:"count_x" toml:"count_x" yaml:"count_x"`
	CountY       int     `json:"count_y" toml:"count_y" yaml:"count_y"`
	PitchX       float64 `json:"pitch_x" toml:"pitch_x" yaml:"pitch_x"`
	PitchY       float64 `json:"pitch_y" toml:"pitch_y" yaml:"pitch_y"`
	OffsetX      float64 `json:"offset_x" toml:"offset_x" yaml:"offset_x"`
	OffsetY      float64 `json:"offset_y" toml:"offset_y" yaml:"offset_y"`
	MouthChamfer float64 `json:"mouth_chamfer,omitempty" toml:"mouth_chamfer,omitempty" yaml:"mouth_chamfer,omitempty"` // 45° lead-in at the hole mouth, 0 = none
}

// Radius returns half the hole diameter.
func (h HoleArray) Radius() float64 {
	return h.Diameter / 2
}

// MouthRadius is the radius of the hole's footprint on the face, including
// the lead-in chamfer.
func (h HoleArray) MouthRadius() float64 {
	return h.Radius() + h.MouthChamfer
}

// Count returns the number of holes in the grid.
func (h HoleArray) Count() int {
	return h.CountX * h.CountY
}

// GripConfig shapes the triangular finger ramp on the back of each handle.
// The ramp hangs from the handle top: its upper edge sits TopMargin below the
// top and it falls Rise millimetres. A zero Rise is derived as
// Overshoot - TopMargin so the ramp fills exactly the part of the handle that
// stands proud of the assembled stack.
type GripConfig struct {
	Rise       float64 `json:"rise" toml:"rise" yaml:"rise"`
	Protrusion float64 `json:"protrusion" toml:"protrusion" yaml:"protrusion"` // how far the ramp stands off the handle's back face
	Inset      float64 `json:"inset" toml:"inset" yaml:"inset"`                // held back from each side of the handle
	TopMargin  float64 `json:"top_margin" toml:"top_margin" yaml:"top_margin"`
}

// LabelMode selects how tier labels are produced.
type LabelMode string

const (
	LabelModeNumeric LabelMode = "numeric" // computed calibration value per tier
	LabelModeList    LabelMode = "list"    // caller-supplied strings
)

// LabelConfig holds the label strategy and the engraving parameters.
type LabelConfig struct {
	Mode LabelMode `json:"mode" toml:"mode" yaml:"mode"`

	// Numeric mode
	Step      float64 `json:"step,omitempty" toml:"step,omitempty" yaml:"step,omitempty"`
	Threshold int     `json:"threshold,omitempty" toml:"threshold,omitempty" yaml:"threshold,omitempty"`
	Precision int     `json:"precision,omitempty" toml:"precision,omitempty" yaml:"precision,omitempty"`

	// Engraving
	FontHeight float64 `json:"font_height" toml:"font_height" yaml:"font_height"`
	Depth      float64 `json:"depth" toml:"depth" yaml:"depth"`
}

// TrayFamilyConfig is the read-only description of one family of stackable
// nozzle trays. All lengths are in mm.
type TrayFamilyConfig struct {
	Name string `json:"name" toml:"name" yaml:"name"`

	Length        float64 `json:"length" toml:"length" yaml:"length"`                            // footprint along X
	Width         float64 `json:"width" toml:"width" yaml:"width"`                               // footprint along Y
	HeightPerTier float64 `json:"height_per_tier" toml:"height_per_tier" yaml:"height_per_tier"` // body height of one tier
	TierCount     int     `json:"tier_count" toml:"tier_count" yaml:"tier_count"`
	BodyChamfer   float64 `json:"body_chamfer" toml:"body_chamfer" yaml:"body_chamfer"` // vertical body edges

	HandleWidth     float64 `json:"handle_width" toml:"handle_width" yaml:"handle_width"`
	HandleDepth     float64 `json:"handle_depth" toml:"handle_depth" yaml:"handle_depth"`
	OuterMargin     float64 `json:"outer_margin" toml:"outer_margin" yaml:"outer_margin"`
	ChamferRadius   float64 `json:"chamfer_radius" toml:"chamfer_radius" yaml:"chamfer_radius"`
	Overshoot       float64 `json:"overshoot" toml:"overshoot" yaml:"overshoot"` // handle height above the assembled stack
	Clearance       float64 `json:"clearance" toml:"clearance" yaml:"clearance"`
	ClearanceExtraY float64 `json:"clearance_extra_y,omitempty" toml:"clearance_extra_y,omitempty" yaml:"clearance_extra_y,omitempty"`

	ThreadHoles HoleArray   `json:"thread_holes" toml:"thread_holes" yaml:"thread_holes"`
	TipHoles    HoleArray   `json:"tip_holes" toml:"tip_holes" yaml:"tip_holes"`
	Grip        GripConfig  `json:"grip" toml:"grip" yaml:"grip"`
	Label       LabelConfig `json:"label" toml:"label" yaml:"label"`
	Labels      []string    `json:"labels,omitempty" toml:"labels,omitempty" yaml:"labels,omitempty"`
}

// InnerSpacing returns the gap between neighbouring handles:
// ((L - 2*Mo) - Wh*N) / (N-1). A single-tier family has no neighbours and
// reports zero.
func (c TrayFamilyConfig) InnerSpacing() float64 {
	if c.TierCount <= 1 {
		return 0
	}
	return ((c.Length - 2*c.OuterMargin) - c.HandleWidth*float64(c.TierCount)) / float64(c.TierCount-1)
}

// TopOfStack returns the Z of the highest tier's top face.
func (c TrayFamilyConfig) TopOfStack() float64 {
	return float64(c.TierCount) * c.HeightPerTier
}

// GripRise returns the configured rise, or the derived one when unset.
func (c TrayFamilyConfig) GripRise() float64 {
	if c.Grip.Rise > 0 {
		return c.Grip.Rise
	}
	return c.Overshoot - c.Grip.TopMargin
}

// SlotDepth returns the Y extent of a clearance slot.
func (c TrayFamilyConfig) SlotDepth() float64 {
	return c.HandleDepth + c.Clearance + c.ClearanceExtraY
}
