package model

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/piwi3910/nozzletray/internal/errors"
)

const eps = 1e-9

func TestInnerSpacing_CalibrationScenario(t *testing.T) {
	cfg := CalibrationFamily()
	cfg.HeightPerTier = 10

	// Si = ((41-2*4) - 6*4) / (4-1) = 9/3
	assert.InDelta(t, 3.0, cfg.InnerSpacing(), eps)
	// handleX(3) = 4 + 3*(6+3)
	assert.InDelta(t, 31.0, cfg.HandleX(3), eps)
}

func TestInnerSpacing_SingleTier(t *testing.T) {
	cfg := CalibrationFamily()
	cfg.TierCount = 1
	assert.Equal(t, 0.0, cfg.InnerSpacing())
	assert.Equal(t, cfg.OuterMargin, cfg.HandleX(0))
}

func TestHandleXStrictlyIncreasing(t *testing.T) {
	for _, name := range FamilyNames() {
		cfg, ok := Family(name)
		require.True(t, ok)
		tiers := cfg.Tiers()
		for i := 1; i < len(tiers); i++ {
			step := tiers[i].HandleX - tiers[i-1].HandleX
			assert.InDelta(t, cfg.HandleWidth+cfg.InnerSpacing(), step, eps, "%s tier %d", name, i)
			assert.GreaterOrEqual(t, step, cfg.HandleWidth, "%s handles %d and %d overlap", name, i-1, i)
		}
	}
}

func TestTierSpecDerivation(t *testing.T) {
	cfg := CalibrationFamily()
	tiers := cfg.Tiers()
	require.Len(t, tiers, 4)

	for i, spec := range tiers {
		assert.Equal(t, i, spec.Index)
		assert.InDelta(t, float64(i)*10, spec.ZBase, eps)
		// Every handle ends the same overshoot above the stack.
		assert.InDelta(t, 45.0, spec.HandleTop(), eps)
	}
	// Matches (40 - 10t) + 5 from the first trays.
	assert.InDelta(t, 45.0, tiers[0].HandleHeight, eps)
	assert.InDelta(t, 15.0, tiers[3].HandleHeight, eps)
}

func TestNumericLabels(t *testing.T) {
	labels := NumericLabels{Step: 0.2, Threshold: 1, Precision: 2}

	// The tier+1 / tier+2 split is intentional: 0.4 is never produced.
	assert.Equal(t, "0.2", labels.Label(0))
	assert.Equal(t, "0.6", labels.Label(1))
	assert.Equal(t, "0.8", labels.Label(2))
	assert.Equal(t, "1.0", labels.Label(3))
}

func TestNumericLabelsRounding(t *testing.T) {
	labels := NumericLabels{Step: 0.25, Threshold: 0, Precision: 1}
	assert.Equal(t, "0.5", labels.Label(0))
	assert.Equal(t, "0.8", labels.Label(1)) // 0.75 rounds half away from zero
}

func TestListLabels(t *testing.T) {
	labels := ListLabels{"A", "B"}
	assert.Equal(t, "A", labels.Label(0))
	assert.Equal(t, "B", labels.Label(1))
	assert.Equal(t, "", labels.Label(2))
	assert.Equal(t, "", labels.Label(-1))
}

func TestLabelStrategySelection(t *testing.T) {
	assert.IsType(t, NumericLabels{}, CalibrationFamily().LabelStrategy())
	assert.IsType(t, ListLabels{}, NozzleSizesFamily().LabelStrategy())

	tiers := NozzleSizesFamily().Tiers()
	assert.Equal(t, "0.4", tiers[0].Label)
	assert.Equal(t, "0.8", tiers[2].Label)
}

func TestGridCenters(t *testing.T) {
	a := HoleArray{CountX: 4, CountY: 4, PitchX: 9.5, PitchY: 9.5, OffsetY: 2.5, Diameter: 6.2}
	centers := GridCenters(a)
	require.Len(t, centers, 16)

	assert.InDelta(t, -14.25, centers[0].X, eps)
	assert.InDelta(t, 2.5-14.25, centers[0].Y, eps)
	assert.InDelta(t, 14.25, centers[15].X, eps)
	assert.InDelta(t, 2.5+14.25, centers[15].Y, eps)

	var sumX, sumY float64
	for _, c := range centers {
		sumX += c.X
		sumY += c.Y
	}
	assert.InDelta(t, 0, sumX/16, eps)
	assert.InDelta(t, 2.5, sumY/16, eps)
}

func TestGridFits(t *testing.T) {
	a := HoleArray{CountX: 2, CountY: 1, PitchX: 10, Diameter: 4}
	// Footprint spans x in [-7, 7], y in [-2, 2].
	assert.True(t, GridFits(a, 14, 4))
	assert.False(t, GridFits(a, 13.9, 4))
	assert.False(t, GridFits(a, 14, 3.9))
}

func TestBuiltInFamiliesAreValid(t *testing.T) {
	for _, name := range FamilyNames() {
		cfg, ok := Family(name)
		require.True(t, ok, name)
		assert.NoError(t, cfg.Validate(), name)
	}
	_, ok := Family("missing")
	assert.False(t, ok)
	assert.Equal(t, FamilyCalibration, DefaultFamily().Name)
}

func TestValidate_NegativeInnerSpacing(t *testing.T) {
	cfg := CalibrationFamily()
	cfg.HandleWidth = 9 // 9*4 + 8 = 44 > 41

	require.Less(t, cfg.InnerSpacing(), 0.0)
	err := cfg.Validate()
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrCodeConfiguration))
	assert.Contains(t, err.Error(), "inner spacing")
}

func TestValidate_Problems(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*TrayFamilyConfig)
		want   string
	}{
		{"zero tiers", func(c *TrayFamilyConfig) { c.TierCount = 0 }, "tier_count"},
		{"negative length", func(c *TrayFamilyConfig) { c.Length = -1 }, "length must be positive"},
		{"spacing below clearance", func(c *TrayFamilyConfig) { c.HandleWidth = 8.2 }, "below clearance"}, // Si = 0.2/3
		{"grid outside face", func(c *TrayFamilyConfig) { c.ThreadHoles.PitchX = 12 }, "exceeds"},
		{"grid in handle strip", func(c *TrayFamilyConfig) { c.TipHoles.OffsetY = -2 }, "handle strip"},
		{"holes meet", func(c *TrayFamilyConfig) { c.ThreadHoles.Depth = 7.5; c.TipHoles.Depth = 5 }, "meet inside the body"},
		{"mouth chamfer", func(c *TrayFamilyConfig) { c.TipHoles.MouthChamfer = 5 }, "mouth_chamfer"},
		{"short label list", func(c *TrayFamilyConfig) {
			c.Label.Mode = LabelModeList
			c.Labels = []string{"a", "b"}
		}, "label list has 2 entries for 4 tiers"},
		{"unknown label mode", func(c *TrayFamilyConfig) { c.Label.Mode = "roman" }, "unknown label mode"},
		{"grip too tall", func(c *TrayFamilyConfig) { c.Grip.Rise = 6 }, "stands above the stack"},
		{"grip inset", func(c *TrayFamilyConfig) { c.Grip.Inset = 3 }, "grip inset"},
		{"handle chamfer", func(c *TrayFamilyConfig) { c.ChamferRadius = 1.5 }, "chamfer_radius"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := CalibrationFamily()
			tt.mutate(&cfg)
			err := cfg.Validate()
			require.Error(t, err)
			assert.True(t, errors.Is(err, errors.ErrCodeConfiguration))
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestValidate_ReportsAllProblems(t *testing.T) {
	cfg := CalibrationFamily()
	cfg.Label.Mode = "roman"
	cfg.Grip.Protrusion = 0

	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown label mode")
	assert.Contains(t, err.Error(), "grip protrusion")
}

func TestGripRiseDerived(t *testing.T) {
	cfg := CalibrationFamily()
	assert.InDelta(t, cfg.Overshoot, cfg.GripRise(), eps)

	cfg.Grip.TopMargin = 0.5
	assert.InDelta(t, 4.5, cfg.GripRise(), eps)

	cfg.Grip.Rise = 2
	assert.InDelta(t, 2, cfg.GripRise(), eps)
}

func TestSlotDepth(t *testing.T) {
	assert.InDelta(t, 3.2, CalibrationFamily().SlotDepth(), eps)
	assert.InDelta(t, 3.4, NozzleSizesFamily().SlotDepth(), eps)
	assert.False(t, math.IsNaN(NozzleSizesFamily().InnerSpacing()))
}
