package model

// TierSpec holds the values derived for one tier of a family. It is computed
// on demand and never mutated.
type TierSpec struct {
	Index        int     `json:"tier"`
	ZBase        float64 `json:"z_base"`        // bottom of the tier body
	HandleX      float64 `json:"handle_x"`      // left edge of the tier's handle
	HandleHeight float64 `json:"handle_height"` // from ZBase to the handle top
	Label        string  `json:"label"`
}

// HandleTop returns the Z of the handle's top face.
func (t TierSpec) HandleTop() float64 {
	return t.ZBase + t.HandleHeight
}

// Tier derives the TierSpec for tier index t.
func (c TrayFamilyConfig) Tier(t int) TierSpec {
	zBase := float64(t) * c.HeightPerTier
	return TierSpec{
		Index:        t,
		ZBase:        zBase,
		HandleX:      c.HandleX(t),
		HandleHeight: (c.TopOfStack() - zBase) + c.Overshoot,
		Label:        c.LabelStrategy().Label(t),
	}
}

// HandleX returns Mo + t*(Wh + Si), the handle offset of tier t.
func (c TrayFamilyConfig) HandleX(t int) float64 {
	return c.OuterMargin + float64(t)*(c.HandleWidth+c.InnerSpacing())
}

// Tiers returns the specs of every tier, bottom first.
func (c TrayFamilyConfig) Tiers() []TierSpec {
	tiers := make([]TierSpec, 0, c.TierCount)
	for t := 0; t < c.TierCount; t++ {
		tiers = append(tiers, c.Tier(t))
	}
	return tiers
}
