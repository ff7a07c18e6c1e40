package tray

import (
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/piwi3910/nozzletray/internal/kernel"
)

// TierSummary condenses one tier for tables, manifests and comparisons.
type TierSummary struct {
	Tier          int      `json:"tier"`
	Label         string   `json:"label"`
	HandleX       float64  `json:"handle_x"`
	HandleTop     float64  `json:"handle_top"`
	Bounds        r3.Box   `json:"bounds"`
	ThreadHoles   int      `json:"thread_holes"`
	TipHoles      int      `json:"tip_holes"`
	ClearanceCuts int      `json:"clearance_cuts"`
	Features      int      `json:"features"`
	Warnings      []string `json:"warnings,omitempty"`
	Error         string   `json:"error,omitempty"`
}

// Summary returns one TierSummary per tier. Built tiers report what the
// kernel recorded; failed tiers fall back to the layout.
func (s *Stack) Summary() []TierSummary {
	out := make([]TierSummary, len(s.Tiers))
	for i, r := range s.Tiers {
		sum := TierSummary{
			Tier:          r.Spec.Index,
			Label:         r.Spec.Label,
			HandleX:       r.Spec.HandleX,
			HandleTop:     r.Spec.HandleTop(),
			Bounds:        r.Layout.Bounds(),
			ClearanceCuts: len(r.Layout.Slots),
			Warnings:      r.Warnings,
		}
		if r.Err != nil {
			sum.Error = r.Err.Error()
		} else {
			features := r.Solid.Features()
			sum.Bounds = r.Solid.Bounds()
			sum.ThreadHoles = drilled(features, kernel.PosZ)
			sum.TipHoles = drilled(features, kernel.NegZ)
			sum.Features = len(features)
		}
		out[i] = sum
	}
	return out
}
