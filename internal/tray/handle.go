package tray

import (
	"fmt"

	"github.com/charmbracelet/log"
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/piwi3910/nozzletray/internal/errors"
	"github.com/piwi3910/nozzletray/internal/kernel"
	"github.com/piwi3910/nozzletray/internal/model"
)

// Pipeline steps named in GeometryError.
const (
	StepBody         = "body"
	StepThreadHoles  = "thread-holes"
	StepTipHoles     = "tip-holes"
	StepHandle       = "handle"
	StepGrip         = "grip"
	StepLabel        = "label"
	StepAttachHandle = "attach-handle"
)

// StepClearance names the cut of lower tier i's slot.
func StepClearance(i int) string {
	return fmt.Sprintf("clearance[%d]", i)
}

// faceTolerance absorbs rounding when a profile point sits on a face edge.
const faceTolerance = 1e-9

// HandleBuilder builds the pull handle of a tier: a chamfered post, a grip
// ramp on its back and the tier label engraved in its top.
type HandleBuilder struct {
	k      kernel.Kernel
	cfg    model.TrayFamilyConfig
	logger *log.Logger
}

// NewHandleBuilder creates a HandleBuilder for cfg.
func NewHandleBuilder(k kernel.Kernel, cfg model.TrayFamilyConfig, logger *log.Logger) *HandleBuilder {
	return &HandleBuilder{k: k, cfg: cfg, logger: logger}
}

// Build returns (post ∪ grip) − label for spec. Soft problems, such as a
// label wider than the handle, come back as warnings. Errors are
// *errors.GeometryError.
func (h *HandleBuilder) Build(spec model.TierSpec) (kernel.Solid, []string, error) {
	fail := func(step string, err error) (kernel.Solid, []string, error) {
		return nil, nil, errors.Geometry(spec.Index, step, err)
	}

	post, err := boxFrom(h.k, handleBox(h.cfg, spec))
	if err != nil {
		return fail(StepHandle, err)
	}
	if h.cfg.ChamferRadius > 0 {
		post, err = chamferVertical(h.k, post, kernel.PosY, h.cfg.ChamferRadius)
		if err != nil {
			return fail(StepHandle, err)
		}
	}

	grip, err := h.grip(post, spec)
	if err != nil {
		return fail(StepGrip, err)
	}
	handle, err := h.k.Union(post, grip)
	if err != nil {
		return fail(StepGrip, err)
	}

	warnings := h.checkLabelWidth(spec)
	label, err := h.label(post, spec)
	if err != nil {
		return fail(StepLabel, err)
	}
	handle, err = h.k.Cut(handle, label)
	if err != nil {
		return fail(StepLabel, err)
	}

	h.logger.Debug("handle built", "tier", spec.Index, "x", spec.HandleX, "top", spec.HandleTop(), "label", spec.Label)
	return handle, warnings, nil
}

// grip extrudes the ramp profile from the post's -X face, held back by the
// inset on both sides.
func (h *HandleBuilder) grip(post kernel.Solid, spec model.TierSpec) (kernel.Solid, error) {
	face, err := post.Face(kernel.NegX)
	if err != nil {
		return nil, err
	}
	profile, err := profileOnFace(face, gripProfile(h.cfg, spec))
	if err != nil {
		return nil, err
	}
	return h.k.Extrude(face, profile, h.cfg.Grip.Inset, h.cfg.HandleWidth-2*h.cfg.Grip.Inset)
}

// profileOnFace converts a world (Y, Z) profile into the coordinates of an X
// face. The profile may stand off the face along U (the ramp hangs behind
// the post) but it must start on the face and stay within its height.
func profileOnFace(face kernel.Face, world []r2.Vec) ([]r2.Vec, error) {
	local := make([]r2.Vec, len(world))
	minU := 0.0
	for i, p := range world {
		local[i] = r2.Vec{X: p.X - face.Center.Y, Y: p.Y - face.Center.Z}
		if local[i].Y < -face.Height/2-faceTolerance || local[i].Y > face.Height/2+faceTolerance {
			return nil, fmt.Errorf("grip point z=%.3f is outside the handle face", p.Y)
		}
		if i == 0 || local[i].X < minU {
			minU = local[i].X
		}
	}
	if minU < -face.Width/2-faceTolerance || minU > face.Width/2+faceTolerance {
		return nil, fmt.Errorf("grip profile does not start on the handle face")
	}
	return local, nil
}

// label builds the engraving tool on the post's top face.
func (h *HandleBuilder) label(post kernel.Solid, spec model.TierSpec) (kernel.Solid, error) {
	top, err := post.Face(kernel.PosZ)
	if err != nil {
		return nil, err
	}
	c := labelCenter(h.cfg, spec)
	center := r2.Vec{X: c.X - top.Center.X, Y: c.Y - top.Center.Y}
	return h.k.Text(top, center, spec.Label, h.cfg.Label.FontHeight, h.cfg.Label.Depth)
}

func (h *HandleBuilder) checkLabelWidth(spec model.TierSpec) []string {
	width := h.k.MeasureText(spec.Label, h.cfg.Label.FontHeight)
	if width <= h.cfg.HandleWidth {
		return nil
	}
	msg := fmt.Sprintf("label %q is %.2f mm wide but the handle is %.2f mm", spec.Label, width, h.cfg.HandleWidth)
	h.logger.Warn("label does not fit", "tier", spec.Index, "label", spec.Label, "width", width)
	return []string{msg}
}
