// Package cli implements the nozzletray command-line interface.
//
// Commands:
//   - generate: build every tier of a family and export STL, DXF, PDF, tags and an XLSX schedule
//   - inspect: validate a family and print its analytic tier layout
//   - init: write a built-in family to a config file for editing
//   - families: list the built-in families
//
// All commands support --verbose (-v) for debug-level logging. The logger is
// passed through context.Context.
package cli

import (
	"fmt"
	"io"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/piwi3910/nozzletray/internal/errors"
	"github.com/piwi3910/nozzletray/internal/importer"
	"github.com/piwi3910/nozzletray/internal/model"
	"github.com/piwi3910/nozzletray/internal/project"
)

const appName = "nozzletray"

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// SetVersion sets the values printed by --version.
func SetVersion(v, c, d string) {
	version, commit, date = v, c, d
}

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger
}

// New creates a CLI logging to w at level.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{Logger: newLogger(w, level)}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:           appName,
		Short:         "Generate stackable 3D-printable nozzle trays",
		Long:          `nozzletray builds families of stackable nozzle trays: every tier carries a grid of thread and tip holes, a labelled lifting handle and clearance slots for the handles of the tiers below.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cmd.SetContext(withLogger(cmd.Context(), c.Logger))
			return nil
		},
	}
	root.SetVersionTemplate(fmt.Sprintf("%s %s\ncommit: %s\nbuilt: %s\n", appName, version, commit, date))

	root.AddCommand(c.generateCommand())
	root.AddCommand(c.inspectCommand())
	root.AddCommand(c.initCommand())
	root.AddCommand(c.familiesCommand())

	return root
}

// familyFlags selects the TrayFamilyConfig a command works on.
type familyFlags struct {
	family string
	config string
	labels string
	tiers  int
}

func (f *familyFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.family, "family", "f", "", "built-in family (see 'nozzletray families')")
	cmd.Flags().StringVarP(&f.config, "config", "c", "", "family config file (.json, .toml, .yaml); defaults to ~/.nozzletray/family.toml when present")
	cmd.Flags().StringVar(&f.labels, "labels", "", "CSV or XLSX file with one label per tier")
	cmd.Flags().IntVar(&f.tiers, "tiers", 0, "override the tier count")
	cmd.MarkFlagsMutuallyExclusive("family", "config")
}

// resolve loads the selected config and applies the overrides. It returns
// import warnings; the config is not validated.
func (f *familyFlags) resolve(logger *log.Logger) (model.TrayFamilyConfig, []string, error) {
	var cfg model.TrayFamilyConfig
	switch {
	case f.config != "":
		var err error
		cfg, err = project.LoadFamilyConfig(f.config)
		if err != nil {
			return cfg, nil, errors.Wrap(errors.ErrCodeIO, err, "cannot load %s", f.config)
		}
		logger.Debug("loaded config", "path", f.config, "family", cfg.Name)
	case f.family != "":
		var ok bool
		cfg, ok = model.Family(f.family)
		if !ok {
			return cfg, nil, errors.New(errors.ErrCodeInvalidInput, "unknown family %q", f.family)
		}
	default:
		var err error
		cfg, err = project.LoadDefaultFamilyConfig()
		if err != nil {
			return cfg, nil, errors.Wrap(errors.ErrCodeIO, err, "cannot load %s", project.DefaultConfigPath())
		}
	}

	if f.tiers < 0 {
		return cfg, nil, errors.New(errors.ErrCodeInvalidInput, "--tiers must be positive")
	}
	if f.tiers > 0 {
		cfg.TierCount = f.tiers
	}

	var warnings []string
	if f.labels != "" {
		result := importer.Import(f.labels)
		if !result.OK() {
			return cfg, result.Warnings, errors.New(errors.ErrCodeInvalidInput, "cannot import labels from %s: %s", f.labels, joinProblems(result.Errors))
		}
		cfg.Label.Mode = model.LabelModeList
		cfg.Labels = result.Labels
		warnings = result.Warnings
		logger.Debug("imported labels", "path", f.labels, "count", len(result.Labels))
	}
	return cfg, warnings, nil
}

func joinProblems(problems []string) string {
	switch len(problems) {
	case 0:
		return "no labels found"
	case 1:
		return problems[0]
	default:
		return fmt.Sprintf("%s (and %d more)", problems[0], len(problems)-1)
	}
}
