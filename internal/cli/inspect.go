package cli

import (
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
	"gonum.org/v1/gonum/floats/scalar"

	"github.com/piwi3910/nozzletray/internal/model"
	"github.com/piwi3910/nozzletray/internal/tray"
)

func (c *CLI) inspectCommand() *cobra.Command {
	var (
		flags  familyFlags
		asJSON bool
	)

	cmd := &cobra.Command{
		Use:   "inspect",
		Short: "Validate a family and show its tier layout",
		Long: `Inspect validates the family and prints the values derived for every tier
without building any geometry.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := loggerFromContext(cmd.Context())
			cfg, warnings, err := flags.resolve(logger)
			if err != nil {
				return err
			}
			for _, warning := range warnings {
				logger.Debug(warning)
			}
			if err := cfg.Validate(); err != nil {
				return err
			}

			if asJSON {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(tray.Layouts(cfg))
			}
			printInspection(cmd, cfg)
			return nil
		},
	}

	flags.register(cmd)
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the tier layouts as JSON")
	return cmd
}

func printInspection(cmd *cobra.Command, cfg model.TrayFamilyConfig) {
	w := cmd.OutOrStdout()

	printTitle(w, "%s", cfg.Name)
	printKeyValue(w, "footprint", fmt.Sprintf("%s x %s mm", mm(cfg.Length), mm(cfg.Width)))
	printKeyValue(w, "tiers", fmt.Sprintf("%d x %s mm", cfg.TierCount, mm(cfg.HeightPerTier)))
	printKeyValue(w, "handle", fmt.Sprintf("%s x %s mm", mm(cfg.HandleWidth), mm(cfg.HandleDepth)))
	printKeyValue(w, "inner spacing", mm(cfg.InnerSpacing())+" mm")
	printKeyValue(w, "stack top", mm(cfg.TopOfStack())+" mm")
	printKeyValue(w, "grip rise", mm(cfg.GripRise())+" mm")
	printKeyValue(w, "thread holes", fmt.Sprintf("%d, dia %s, depth %s", cfg.ThreadHoles.Count(), mm(cfg.ThreadHoles.Diameter), mm(cfg.ThreadHoles.Depth)))
	printKeyValue(w, "tip holes", fmt.Sprintf("%d, dia %s, depth %s", cfg.TipHoles.Count(), mm(cfg.TipHoles.Diameter), mm(cfg.TipHoles.Depth)))
	fmt.Fprintln(w)

	var rows [][]string
	for _, l := range tray.Layouts(cfg) {
		rows = append(rows, []string{
			strconv.Itoa(l.Spec.Index),
			l.Spec.Label,
			mm(l.Spec.ZBase),
			mm(l.Spec.HandleX),
			mm(l.Spec.HandleTop()),
			strconv.Itoa(len(l.Slots)),
		})
	}
	fmt.Fprintln(w, renderTable([]string{"Tier", "Label", "Z base", "Handle X", "Handle top", "Slots"}, rows))
}

// mm formats a length rounded to three decimals.
func mm(v float64) string {
	return strconv.FormatFloat(scalar.Round(v, 3), 'f', -1, 64)
}
