package tray

import (
	"github.com/charmbracelet/log"

	"github.com/piwi3910/nozzletray/internal/errors"
	"github.com/piwi3910/nozzletray/internal/kernel"
	"github.com/piwi3910/nozzletray/internal/model"
)

// TierAssembler runs the build pipeline for one tier:
// body, thread holes, tip holes, handle, union, clearance slots.
type TierAssembler struct {
	k       kernel.Kernel
	cfg     model.TrayFamilyConfig
	handles *HandleBuilder
	cutter  *ClearanceCutter
	logger  *log.Logger
}

// NewTierAssembler creates a TierAssembler for cfg. cfg must be valid.
func NewTierAssembler(k kernel.Kernel, cfg model.TrayFamilyConfig, logger *log.Logger) *TierAssembler {
	return &TierAssembler{
		k:       k,
		cfg:     cfg,
		handles: NewHandleBuilder(k, cfg, logger),
		cutter:  NewClearanceCutter(k, cfg),
		logger:  logger,
	}
}

// Assemble builds tier t. The error, if any, is a *errors.GeometryError.
func (a *TierAssembler) Assemble(t int) (kernel.Solid, []string, error) {
	spec := a.cfg.Tier(t)
	fail := func(step string, err error) (kernel.Solid, []string, error) {
		a.logger.Debug("tier failed", "tier", t, "step", step, "err", err)
		return nil, nil, errors.Geometry(t, step, err)
	}

	body, err := a.body(t)
	if err != nil {
		return fail(StepBody, err)
	}
	if body, err = PlaceHoleArray(a.k, body, kernel.PosZ, a.cfg.ThreadHoles); err != nil {
		return fail(StepThreadHoles, err)
	}
	if body, err = PlaceHoleArray(a.k, body, kernel.NegZ, a.cfg.TipHoles); err != nil {
		return fail(StepTipHoles, err)
	}

	handle, warnings, err := a.handles.Build(spec)
	if err != nil {
		a.logger.Debug("tier failed", "tier", t, "err", err)
		return nil, nil, err
	}
	tray, err := a.k.Union(body, handle)
	if err != nil {
		return fail(StepAttachHandle, err)
	}

	for i := 0; i < t; i++ {
		if tray, err = a.cutter.Cut(tray, t, i); err != nil {
			return fail(StepClearance(i), err)
		}
	}

	b := tray.Bounds()
	a.logger.Debug("tier assembled", "tier", t, "label", spec.Label, "min", b.Min, "max", b.Max, "slots", t)
	return tray, warnings, nil
}

// body is the tier's block with its vertical edges chamfered.
func (a *TierAssembler) body(t int) (kernel.Solid, error) {
	body, err := boxFrom(a.k, bodyBox(a.cfg, t))
	if err != nil || a.cfg.BodyChamfer <= 0 {
		return body, err
	}
	var edges []kernel.Edge
	for _, d := range []kernel.Direction{kernel.PosY, kernel.NegY} {
		face, err := body.Face(d)
		if err != nil {
			return nil, err
		}
		edges = append(edges, body.Edges(face, kernel.AxisZ)...)
	}
	return a.k.Chamfer(body, edges, a.cfg.BodyChamfer)
}
