package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/adiprasetya/hppcalc/internal/cli"
	"github.com/adiprasetya/hppcalc/internal/engine"
	"github.com/adiprasetya/hppcalc/internal/model"
)

// scenarioFile is the JSON shape read by `hppcalc scenario`.
type scenarioFile struct {
	Base      model.CostInput   `json:"base"`
	Scenarios []engine.Scenario `json:"scenarios"`
}

func scenarioCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "scenario <file>",
		Short: "Batch what-if calculations from a JSON file",
		Long: `Evaluate named scenarios against a base cost input. Each scenario lists
partial overrides; scenarios succeed or fail independently.

File format:
  {
    "base": {"direct_materials": "500000", "direct_labor": "300000",
             "manufacturing_overhead": "200000", "other_costs": "0",
             "total_units": 100},
    "scenarios": [
      {"name": "double volume", "overrides": {"total_units": 200}}
    ]
  }`,
		Args: cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			data, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("failed to read scenario file: %w", err)
			}

			var file scenarioFile
			if err := json.Unmarshal(data, &file); err != nil {
				return fmt.Errorf("invalid scenario file: %w", err)
			}
			if len(file.Scenarios) == 0 {
				return fmt.Errorf("scenario file %s lists no scenarios", args[0])
			}

			results := newEngine().CalculateScenarios(file.Base, file.Scenarios)

			var b strings.Builder
			b.WriteString(cli.TitleStyle.Render("Scenario Results"))
			b.WriteString("\n")

			w := tabwriter.NewWriter(&b, 0, 0, 2, ' ', 0)
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\n",
				cli.BoldStyle.Render("Scenario"),
				cli.BoldStyle.Render("Total HPP"),
				cli.BoldStyle.Render("Per Unit"),
				cli.BoldStyle.Render("Status"))
			for _, r := range results {
				if r.Err != nil {
					fmt.Fprintf(w, "%s\t-\t-\t%s\n", r.Name,
						cli.ErrorStyle.Render(cli.IconError+" "+r.Err.Error()))
					continue
				}
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\n",
					r.Name,
					cli.FormatRupiah(r.Result.TotalHPP),
					cli.FormatRupiah(r.Result.HPPPerUnit),
					cli.SuccessStyle.Render(cli.IconSuccess))
			}
			_ = w.Flush()

			fmt.Print(b.String())
			return nil
		},
	}
	return cmd
}
