package model

import "sort"

// Footprint shared by the built-in families: a 41 x 46 mm body carrying a
// 4 x 4 nozzle grid at 9.5 mm pitch.
const (
	trayLength  = 41.0
	trayWidth   = 46.0
	nozzlePitch = 38.0 / 4
)

// Built-in family names.
const (
	FamilyCalibration = "calibration"
	FamilyNozzleSizes = "nozzle-sizes"
)

func threadHoles(depth float64) HoleArray {
	return HoleArray{
		Diameter: 6.2,
		Depth:    depth,
		CountX:   4,
		CountY:   4,
		PitchX:   nozzlePitch,
		PitchY:   nozzlePitch,
		OffsetY:  (trayWidth - trayLength) / 2,
	}
}

func tipHoles(depth float64) HoleArray {
	return HoleArray{
		Diameter:     8.2,
		Depth:        depth,
		CountX:       4,
		CountY:       4,
		PitchX:       nozzlePitch,
		PitchY:       nozzlePitch,
		MouthChamfer: 0.999,
	}
}

// CalibrationFamily returns the four-tier family whose handles carry computed
// calibration values.
func CalibrationFamily() TrayFamilyConfig {
	return TrayFamilyConfig{
		Name:          FamilyCalibration,
		Length:        trayLength,
		Width:         trayWidth,
		HeightPerTier: 10,
		TierCount:     4,
		BodyChamfer:   0.6,
		HandleWidth:   6,
		HandleDepth:   3,
		OuterMargin:   4,
		ChamferRadius: 0.4,
		Overshoot:     5,
		Clearance:     0.2,
		ThreadHoles:   threadHoles(6.0),
		TipHoles:      tipHoles(3.5),
		Grip: GripConfig{
			Protrusion: 3,
			Inset:      0.4,
		},
		Label: LabelConfig{
			Mode:       LabelModeNumeric,
			Step:       0.2,
			Threshold:  1,
			Precision:  2,
			FontHeight: 3,
			Depth:      0.6,
		},
	}
}

// NozzleSizesFamily returns the three-tier family labelled with an explicit
// list of nozzle sizes.
func NozzleSizesFamily() TrayFamilyConfig {
	return TrayFamilyConfig{
		Name:            FamilyNozzleSizes,
		Length:          trayLength,
		Width:           trayWidth,
		HeightPerTier:   12,
		TierCount:       3,
		BodyChamfer:     0.6,
		HandleWidth:     8,
		HandleDepth:     3,
		OuterMargin:     4,
		ChamferRadius:   0.4,
		Overshoot:       5,
		Clearance:       0.2,
		ClearanceExtraY: 0.2,
		ThreadHoles:     threadHoles(7.5),
		TipHoles:        tipHoles(4),
		Grip: GripConfig{
			Rise:       4,
			Protrusion: 2.5,
			Inset:      0.4,
			TopMargin:  0.5,
		},
		Label: LabelConfig{
			Mode:       LabelModeList,
			FontHeight: 3,
			Depth:      0.6,
		},
		Labels: []string{"0.4", "0.6", "0.8"},
	}
}

var families = map[string]func() TrayFamilyConfig{
	FamilyCalibration: CalibrationFamily,
	FamilyNozzleSizes: NozzleSizesFamily,
}

// Family returns a fresh copy of the named built-in family.
func Family(name string) (TrayFamilyConfig, bool) {
	fn, ok := families[name]
	if !ok {
		return TrayFamilyConfig{}, false
	}
	return fn(), true
}

// FamilyNames lists the built-in families in sorted order.
func FamilyNames() []string {
	names := make([]string, 0, len(families))
	for name := range families {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// DefaultFamily returns the family used when no config is given.
func DefaultFamily() TrayFamilyConfig {
	return CalibrationFamily()
}
