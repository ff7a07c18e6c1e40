package model

import (
	"strconv"
	"strings"

	"gonum.org/v1/gonum/floats/scalar"
)

// LabelStrategy produces the engraved text for a tier.
type LabelStrategy interface {
	Label(tier int) string
}

// NumericLabels generates calibration values: Step * m rounded to Precision
// decimals, where m is tier+1 below Threshold and tier+2 from Threshold on.
// With Step 0.2 and Threshold 1 that gives 0.2, 0.6, 0.8, 1.0; the skipped
// 0.4 is how the first trays were labelled and is kept as is.
type NumericLabels struct {
	Step      float64
	Threshold int
	Precision int
}

func (n NumericLabels) Label(tier int) string {
	m := tier + 2
	if tier < n.Threshold {
		m = tier + 1
	}
	return formatDecimal(scalar.Round(n.Step*float64(m), n.Precision))
}

// formatDecimal prints v with the shortest representation, keeping at least
// one fractional digit so whole values read "1.0" rather than "1".
func formatDecimal(v float64) string {
	s := strconv.FormatFloat(v, 'f', -1, 64)
	if !strings.ContainsAny(s, ".eE") {
		s += ".0"
	}
	return s
}

// ListLabels hands out caller-supplied labels by tier index.
type ListLabels []string

func (l ListLabels) Label(tier int) string {
	if tier < 0 || tier >= len(l) {
		return ""
	}
	return l[tier]
}

// LabelStrategy returns the strategy selected by the label mode.
func (c TrayFamilyConfig) LabelStrategy() LabelStrategy {
	if c.Label.Mode == LabelModeNumeric {
		return NumericLabels{Step: c.Label.Step, Threshold: c.Label.Threshold, Precision: c.Label.Precision}
	}
	return ListLabels(c.Labels)
}
