package cli

import (
	"encoding/json"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/matzehuels/waterfall/pkg/layout"
	"github.com/matzehuels/waterfall/pkg/pipeline"
	"github.com/matzehuels/waterfall/pkg/waterfall"
)

// stepsCommand creates the steps command, which prints the running totals
// of a dataset without rendering it.
func (c *CLI) stepsCommand() *cobra.Command {
	var (
		x, y        string
		interactive bool
		asJSON      bool
		noCache     bool
	)

	cmd := &cobra.Command{
		Use:   "steps [file]",
		Short: "Show the running-total steps of a dataset",
		Example: `  waterfall steps examples/earnings.json
  waterfall steps data.toml -i
  waterfall steps data.json --json | jq '.[-1].end'`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			ds, err := loadDataset(args[0])
			if err != nil {
				return err
			}

			runner, err := c.newRunner(ctx, noCache)
			if err != nil {
				return err
			}
			defer runner.Close()

			steps, hit, err := runner.ComputeStepsWithCacheInfo(ctx, ds, pipeline.Options{X: x, Y: y, Logger: c.Logger})
			if err != nil {
				return err
			}

			switch {
			case asJSON:
				enc := json.NewEncoder(c.Out)
				enc.SetIndent("", "  ")
				return enc.Encode(steps)
			case interactive:
				_, err := tea.NewProgram(NewStepListModel(ds.Label, steps), tea.WithContext(ctx)).Run()
				return err
			default:
				out := c.status()
				if len(ds.Data) == 0 {
					out.warning("Dataset has no points; only the Total step is shown")
				}
				fmt.Fprintln(c.Out, stepsTable(steps, 0, len(steps), -1))
				out.keyValue("Total", layout.FormatValue(waterfall.Sum(steps)))
				out.stats(len(ds.Data), len(steps), hit)
				return nil
			}
		},
	}

	cmd.Flags().StringVar(&x, "x", "", "category field name (default: dataset x)")
	cmd.Flags().StringVar(&y, "y", "", "value field name (default: dataset y)")
	cmd.Flags().BoolVarP(&interactive, "interactive", "i", false, "browse steps interactively")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print steps as JSON")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")
	cmd.MarkFlagsMutuallyExclusive("interactive", "json")

	return cmd
}
