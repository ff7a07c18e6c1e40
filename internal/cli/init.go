package cli

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/piwi3910/nozzletray/internal/errors"
	"github.com/piwi3910/nozzletray/internal/model"
	"github.com/piwi3910/nozzletray/internal/project"
)

func (c *CLI) initCommand() *cobra.Command {
	var (
		family string
		force  bool
	)

	cmd := &cobra.Command{
		Use:   "init [path]",
		Short: "Write a built-in family to a config file",
		Long: `Init writes a built-in family to a config file so it can be edited and passed
to generate with --config. The format follows the extension (.json, .toml,
.yaml). Without a path the file goes to ` + "`~/.nozzletray/family.toml`" + `, which
generate and inspect read when neither --family nor --config is given.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := project.DefaultConfigPath()
			if len(args) == 1 {
				path = args[0]
			}

			cfg, ok := model.Family(family)
			if !ok {
				return errors.New(errors.ErrCodeInvalidInput, "unknown family %q", family)
			}
			if _, err := project.FormatOf(path); err != nil {
				return errors.Wrap(errors.ErrCodeInvalidInput, err, "cannot write %s", path)
			}
			if _, err := os.Stat(path); err == nil && !force {
				return errors.New(errors.ErrCodeInvalidInput, "%s already exists (use --force to overwrite)", path)
			}

			if err := project.SaveFamilyConfig(path, cfg); err != nil {
				return errors.Wrap(errors.ErrCodeIO, err, "cannot write %s", path)
			}
			loggerFromContext(cmd.Context()).Debug("wrote config", "path", path, "family", cfg.Name)
			printSuccess(cmd.OutOrStdout(), "wrote %s family to %s", cfg.Name, path)
			return nil
		},
	}

	cmd.Flags().StringVarP(&family, "family", "f", model.DefaultFamily().Name, "built-in family to start from")
	cmd.Flags().BoolVar(&force, "force", false, "overwrite an existing file")
	return cmd
}
