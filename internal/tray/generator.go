package tray

import (
	"context"
	"io"
	"runtime"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/errgroup"

	"github.com/piwi3910/nozzletray/internal/errors"
	"github.com/piwi3910/nozzletray/internal/kernel"
	"github.com/piwi3910/nozzletray/internal/model"
)

// Generator produces every tier of a family.
type Generator struct {
	k        kernel.Kernel
	logger   *log.Logger
	parallel bool
}

// Option configures a Generator.
type Option func(*Generator)

// WithLogger sets the logger. The default discards everything.
func WithLogger(l *log.Logger) Option {
	return func(g *Generator) {
		if l != nil {
			g.logger = l
		}
	}
}

// WithParallel builds tiers on separate goroutines when the kernel allows it.
func WithParallel(parallel bool) Option {
	return func(g *Generator) {
		g.parallel = parallel
	}
}

// New creates a Generator on kernel k.
func New(k kernel.Kernel, opts ...Option) *Generator {
	g := &Generator{
		k:      k,
		logger: log.New(io.Discard),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Generate validates cfg and builds its tiers in order 0..N-1. An invalid
// config returns a CONFIGURATION error before any kernel call. A tier the
// kernel rejects is recorded in its TierResult and the other tiers are still
// built; see Stack.Err. The returned error is otherwise only ctx's.
func (g *Generator) Generate(ctx context.Context, cfg model.TrayFamilyConfig) (*Stack, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	stack := &Stack{
		Config: cfg,
		Tiers:  make([]TierResult, cfg.TierCount),
	}
	for t := range stack.Tiers {
		stack.Tiers[t] = TierResult{Spec: cfg.Tier(t), Layout: Layout(cfg, t)}
	}

	assembler := NewTierAssembler(g.k, cfg, g.logger)
	build := func(t int) {
		r := &stack.Tiers[t]
		r.Solid, r.Warnings, r.Err = assembler.Assemble(t)
	}

	parallel := g.parallel && g.k.Concurrent() && cfg.TierCount > 1
	g.logger.Info("generating stack", "family", cfg.Name, "tiers", cfg.TierCount, "parallel", parallel)

	if parallel {
		eg, ctx := errgroup.WithContext(ctx)
		eg.SetLimit(runtime.GOMAXPROCS(0))
		for t := range stack.Tiers {
			eg.Go(func() error {
				if err := ctx.Err(); err != nil {
					return err
				}
				build(t)
				return nil
			})
		}
		if err := eg.Wait(); err != nil {
			return nil, err
		}
	} else {
		for t := range stack.Tiers {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			build(t)
		}
	}

	if failed := stack.Failed(); len(failed) > 0 {
		g.logger.Warn("some tiers failed", "family", cfg.Name, "failed", failed)
	} else {
		g.logger.Info("stack generated", "family", cfg.Name, "tiers", cfg.TierCount)
	}
	return stack, nil
}

// TierResult is the outcome of building one tier.
type TierResult struct {
	Spec     model.TierSpec
	Layout   TierLayout
	Solid    kernel.Solid // nil when Err is set
	Warnings []string
	Err      error
}

// Stack is the generated family, indexed by tier.
type Stack struct {
	Config model.TrayFamilyConfig
	Tiers  []TierResult
}

// Solids returns the solids of the tiers that were built, in tier order.
func (s *Stack) Solids() []kernel.Solid {
	var out []kernel.Solid
	for _, r := range s.Tiers {
		if r.Err == nil {
			out = append(out, r.Solid)
		}
	}
	return out
}

// Failed returns the indices of tiers that could not be built.
func (s *Stack) Failed() []int {
	var out []int
	for _, r := range s.Tiers {
		if r.Err != nil {
			out = append(out, r.Spec.Index)
		}
	}
	return out
}

// Err joins the errors of all failed tiers, or returns nil.
func (s *Stack) Err() error {
	var errs []error
	for _, r := range s.Tiers {
		if r.Err != nil {
			errs = append(errs, r.Err)
		}
	}
	return errors.Join(errs...)
}

// Warnings returns every tier warning, in tier order.
func (s *Stack) Warnings() []string {
	var out []string
	for _, r := range s.Tiers {
		out = append(out, r.Warnings...)
	}
	return out
}
