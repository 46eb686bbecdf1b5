package main

import (
	"errors"
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/adiprasetya/hppcalc/internal/cli"
	"github.com/adiprasetya/hppcalc/internal/engine"
	"github.com/adiprasetya/hppcalc/internal/model"
	"github.com/adiprasetya/hppcalc/internal/validate"
)

func breakevenCmd() *cobra.Command {
	var (
		materials string
		labor     string
		overhead  string
		other     string
		units     string
		price     string
	)

	cmd := &cobra.Command{
		Use:   "breakeven",
		Short: "Break-even analysis at a selling price",
		Long: `Compute profit per unit, contribution margin and break-even volume for
the given costs at a selling price per unit. Manufacturing overhead counts
as fixed cost; the remaining categories spread over units as variable cost.`,
		RunE: func(_ *cobra.Command, _ []string) error {
			raw := map[model.CostField]any{
				model.FieldDirectMaterials:       materials,
				model.FieldDirectLabor:           labor,
				model.FieldManufacturingOverhead: overhead,
				model.FieldOtherCosts:            other,
				model.FieldTotalUnits:            units,
			}

			input, vr, err := parseCostInput(raw)
			if err != nil {
				fmt.Print(renderValidationErrors(vr))
				return err
			}

			sellingPrice, err := validate.ParseAmount(price)
			if err != nil {
				return fmt.Errorf("invalid selling price %q: %w", price, err)
			}

			analysis, err := newEngine().BreakEven(input, sellingPrice)
			if err != nil {
				var rejection *engine.RejectionError
				if errors.As(err, &rejection) {
					fmt.Print(renderValidationErrors(rejection.Result))
				}
				return err
			}

			fmt.Print(renderWarnings(vr))
			fmt.Print(renderBreakEven(analysis))
			return nil
		},
	}

	cmd.Flags().StringVar(&materials, "materials", "", "direct materials cost (required)")
	cmd.Flags().StringVar(&labor, "labor", "", "direct labor cost (required)")
	cmd.Flags().StringVar(&overhead, "overhead", "", "manufacturing overhead cost (required)")
	cmd.Flags().StringVar(&other, "other", "0", "other costs (optional)")
	cmd.Flags().StringVar(&units, "units", "1", "total units produced")
	cmd.Flags().StringVar(&price, "price", "", "selling price per unit (required)")
	_ = cmd.MarkFlagRequired("materials")
	_ = cmd.MarkFlagRequired("labor")
	_ = cmd.MarkFlagRequired("overhead")
	_ = cmd.MarkFlagRequired("price")

	return cmd
}

func renderBreakEven(a *engine.BreakEvenAnalysis) string {
	var b strings.Builder
	b.WriteString(cli.TitleStyle.Render("Break-Even Analysis"))
	b.WriteString("\n")

	w := tabwriter.NewWriter(&b, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "Selling price per unit\t%s\n", cli.FormatRupiah(a.SellingPricePerUnit))
	fmt.Fprintf(w, "HPP per unit\t%s\n", cli.FormatRupiah(a.HPPPerUnit))
	fmt.Fprintf(w, "Profit per unit\t%s\n", cli.FormatRupiah(a.ProfitPerUnit))
	fmt.Fprintf(w, "Profit margin\t%s\n", cli.FormatPercent(a.ProfitMargin))
	fmt.Fprintf(w, "Fixed costs (overhead)\t%s\n", cli.FormatRupiah(a.FixedCosts))
	fmt.Fprintf(w, "Variable cost per unit\t%s\n", cli.FormatRupiah(a.VariableCostPerUnit))
	fmt.Fprintf(w, "Contribution margin\t%s\n", cli.FormatRupiah(a.ContributionMargin))
	_ = w.Flush()

	if a.BreakEvenUnits > 0 {
		b.WriteString(cli.SuccessStyle.Render(
			fmt.Sprintf("%s Break-even at %d units", cli.IconArrow, a.BreakEvenUnits)))
	} else {
		b.WriteString(cli.WarningStyle.Render(
			cli.IconWarning + " No break-even volume: contribution margin does not recover fixed cost"))
	}
	b.WriteString("\n")
	return b.String()
}
