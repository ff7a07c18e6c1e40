package tray

import (
	"fmt"

	"github.com/piwi3910/nozzletray/internal/kernel"
	"github.com/piwi3910/nozzletray/internal/model"
)

// ClearanceCutter opens the slots lower tiers' handles pass through.
type ClearanceCutter struct {
	k   kernel.Kernel
	cfg model.TrayFamilyConfig
}

// NewClearanceCutter creates a ClearanceCutter for cfg.
func NewClearanceCutter(k kernel.Kernel, cfg model.TrayFamilyConfig) *ClearanceCutter {
	return &ClearanceCutter{k: k, cfg: cfg}
}

// Volume returns the slot swept by tier lower's handle from its own base to
// the top of the stack. Its back edges carry the handle chamfer plus the
// clearance, so the slot is the handle's cross-section grown by Δ.
func (c *ClearanceCutter) Volume(lower int) (kernel.Solid, error) {
	if lower < 0 || lower >= c.cfg.TierCount {
		return nil, fmt.Errorf("tier %d is not part of a %d-tier stack", lower, c.cfg.TierCount)
	}
	slot, err := boxFrom(c.k, slotBox(c.cfg, lower))
	if err != nil {
		return nil, err
	}
	if d := slotChamfer(c.cfg); d > 0 {
		return chamferVertical(c.k, slot, kernel.PosY, d)
	}
	return slot, nil
}

// Cut removes tier lower's slot from tray, the solid of tier t.
func (c *ClearanceCutter) Cut(tray kernel.Solid, t, lower int) (kernel.Solid, error) {
	if lower >= t {
		return nil, fmt.Errorf("tier %d has no clearance for tier %d above it", t, lower)
	}
	slot, err := c.Volume(lower)
	if err != nil {
		return nil, err
	}
	return c.k.Cut(tray, slot)
}
