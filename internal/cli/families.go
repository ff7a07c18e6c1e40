package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/piwi3910/nozzletray/internal/model"
)

func (c *CLI) familiesCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "families",
		Short: "List the built-in families",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var rows [][]string
			for _, name := range model.FamilyNames() {
				cfg, _ := model.Family(name)
				rows = append(rows, []string{
					name,
					strconv.Itoa(cfg.TierCount),
					mm(cfg.HeightPerTier),
					mm(cfg.HandleWidth),
					string(cfg.Label.Mode),
					labelPreview(cfg),
				})
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderTable([]string{"Family", "Tiers", "Height", "Handle", "Labels", "Preview"}, rows))
			return nil
		},
	}
}

// labelPreview lists the labels of the first tiers.
func labelPreview(cfg model.TrayFamilyConfig) string {
	const shown = 4
	labels := cfg.LabelStrategy()
	preview := ""
	for t := 0; t < cfg.TierCount && t < shown; t++ {
		if t > 0 {
			preview += " "
		}
		preview += labels.Label(t)
	}
	if cfg.TierCount > shown {
		preview += " ..."
	}
	return preview
}
