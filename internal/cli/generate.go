package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"github.com/piwi3910/nozzletray/internal/errors"
	"github.com/piwi3910/nozzletray/internal/export"
	"github.com/piwi3910/nozzletray/internal/kernel"
	"github.com/piwi3910/nozzletray/internal/kernel/csg"
	"github.com/piwi3910/nozzletray/internal/project"
	"github.com/piwi3910/nozzletray/internal/tray"
)

// Output formats accepted by --formats.
const (
	formatSTL  = "stl"
	formatDXF  = "dxf"
	formatPDF  = "pdf"
	formatTags = "tags"
	formatXLSX = "xlsx"
)

var allFormats = []string{formatSTL, formatDXF, formatPDF, formatTags, formatXLSX}

type generateOptions struct {
	familyFlags
	out        string
	formats    string
	resolution float64
	serial     bool
}

func (c *CLI) generateCommand() *cobra.Command {
	var opts generateOptions

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Build every tier of a family and export it",
		Long: `Generate validates the family, builds each tier and writes the selected outputs
into the output directory together with a manifest.json describing the run.

A tier the geometry kernel rejects is reported and the remaining tiers are
still exported; the command then exits with an error.`,
		Example: `  nozzletray generate -f calibration -o out
  nozzletray generate -c family.toml --labels sizes.csv --formats stl,pdf`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runGenerate(cmd, opts)
		},
	}

	opts.register(cmd)
	cmd.Flags().StringVarP(&opts.out, "out", "o", "out", "output directory")
	cmd.Flags().StringVar(&opts.formats, "formats", strings.Join(allFormats, ","), "comma-separated outputs: "+strings.Join(allFormats, ", "))
	cmd.Flags().Float64Var(&opts.resolution, "resolution", export.DefaultSTLResolution, "STL mesh cell size in mm")
	cmd.Flags().BoolVar(&opts.serial, "serial", false, "build tiers one after another")

	return cmd
}

func parseFormats(s string) ([]string, error) {
	var formats []string
	for _, f := range strings.Split(s, ",") {
		f = strings.ToLower(strings.TrimSpace(f))
		if f == "" {
			continue
		}
		if !slices.Contains(allFormats, f) {
			return nil, errors.New(errors.ErrCodeInvalidInput, "unknown format %q (want %s)", f, strings.Join(allFormats, ", "))
		}
		if !slices.Contains(formats, f) {
			formats = append(formats, f)
		}
	}
	if len(formats) == 0 {
		return nil, errors.New(errors.ErrCodeInvalidInput, "no output format selected")
	}
	return formats, nil
}

func (c *CLI) runGenerate(cmd *cobra.Command, opts generateOptions) error {
	ctx := cmd.Context()
	logger := loggerFromContext(ctx)
	w := cmd.OutOrStdout()

	formats, err := parseFormats(opts.formats)
	if err != nil {
		return err
	}
	cfg, warnings, err := opts.resolve(logger)
	if err != nil {
		return err
	}
	for _, warning := range warnings {
		logger.Debug(warning)
	}

	k := csg.New()
	prog := newProgress(logger)
	stack, err := tray.New(k, tray.WithLogger(logger), tray.WithParallel(!opts.serial)).Generate(ctx, cfg)
	if err != nil {
		return err
	}
	prog.done(fmt.Sprintf("Built %d of %d tiers", len(stack.Solids()), cfg.TierCount))

	manifest := project.NewRunManifest(stack)
	if err := writeOutputs(cmd, opts, formats, k, stack, &manifest); err != nil {
		return err
	}
	manifestPath := filepath.Join(opts.out, project.ManifestFile)
	if err := project.WriteManifest(manifestPath, manifest); err != nil {
		return errors.Wrap(errors.ErrCodeIO, err, "cannot write manifest")
	}

	printTitle(w, "%s: %d tiers", cfg.Name, cfg.TierCount)
	for _, o := range manifest.Outputs {
		printFile(w, o.Path)
	}
	printFile(w, manifestPath)
	for _, warning := range stack.Warnings() {
		printWarning(w, "%s", warning)
	}
	for _, t := range stack.Failed() {
		printError(w, "%s", stack.Tiers[t].Err)
	}

	if err := stack.Err(); err != nil {
		return err
	}
	printSuccess(w, "run %s", manifest.RunID)
	return nil
}

// writeOutputs runs the selected exporters and records each file.
func writeOutputs(cmd *cobra.Command, opts generateOptions, formats []string, k kernel.Kernel, stack *tray.Stack, m *project.RunManifest) error {
	ctx := cmd.Context()
	logger := loggerFromContext(ctx)
	base := export.BaseName(stack.Config.Name)
	if err := os.MkdirAll(opts.out, 0755); err != nil {
		return errors.Wrap(errors.ErrCodeIO, err, "cannot create %s", opts.out)
	}

	for _, format := range formats {
		if err := ctx.Err(); err != nil {
			return err
		}
		prog := newProgress(logger)

		switch format {
		case formatSTL:
			if len(stack.Solids()) == 0 {
				continue
			}
			paths, err := export.ExportSTL(k, opts.out, stack, opts.resolution)
			for _, p := range paths {
				m.Add(project.OutputSTL, p, tierOf(stack, p))
			}
			if err != nil {
				return errors.Wrap(errors.ErrCodeIO, err, "cannot export STL")
			}
		case formatDXF:
			for _, r := range stack.Tiers {
				path := filepath.Join(opts.out, fmt.Sprintf("%s_tier%d.dxf", base, r.Spec.Index))
				if err := export.ExportDXF(path, stack.Config, r.Layout); err != nil {
					return errors.Wrap(errors.ErrCodeIO, err, "cannot export DXF")
				}
				m.Add(project.OutputDXF, path, r.Spec.Index)
			}
		case formatPDF:
			path := filepath.Join(opts.out, base+"_drawings.pdf")
			if err := export.ExportPDF(path, stack); err != nil {
				return errors.Wrap(errors.ErrCodeIO, err, "cannot export PDF")
			}
			m.Add(project.OutputPDF, path, -1)
		case formatTags:
			if len(stack.Solids()) == 0 {
				continue
			}
			path := filepath.Join(opts.out, base+"_tags.pdf")
			if err := export.ExportTags(path, stack, m.RunID); err != nil {
				return errors.Wrap(errors.ErrCodeIO, err, "cannot export tags")
			}
			m.Add(project.OutputTags, path, -1)
		case formatXLSX:
			path := filepath.Join(opts.out, base+"_schedule.xlsx")
			if err := export.ExportSchedule(path, stack); err != nil {
				return errors.Wrap(errors.ErrCodeIO, err, "cannot export schedule")
			}
			m.Add(project.OutputSchedule, path, -1)
		}
		prog.done("Wrote " + format)
	}
	return nil
}

// tierOf maps an STL path back to its tier.
func tierOf(stack *tray.Stack, path string) int {
	for _, r := range stack.Tiers {
		if filepath.Base(path) == export.STLFileName(stack.Config.Name, r.Spec.Index) {
			return r.Spec.Index
		}
	}
	return -1
}
