package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/adiprasetya/hppcalc/internal/cli"
	"github.com/adiprasetya/hppcalc/internal/common"
	"github.com/adiprasetya/hppcalc/internal/engine"
	"github.com/adiprasetya/hppcalc/internal/model"
	"github.com/adiprasetya/hppcalc/internal/validate"
)

func calculateCmd() *cobra.Command {
	var (
		materials string
		labor     string
		overhead  string
		other     string
		units     string
		name      string
		noSave    bool
	)

	cmd := &cobra.Command{
		Use:   "calculate",
		Short: "Calculate HPP from cost components",
		Long: `Calculate Cost of Goods Sold from the four cost components and a unit
count. Amounts accept plain numbers or Rupiah formatting ("1.500.000,50").`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

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

			eng := newEngine()
			result, err := eng.Calculate(input)
			if err != nil {
				var rejection *engine.RejectionError
				if errors.As(err, &rejection) {
					fmt.Print(renderValidationErrors(rejection.Result))
				}
				return err
			}

			fmt.Print(renderWarnings(vr))
			fmt.Print(renderResult(result))

			if noSave {
				return nil
			}
			return saveCalculation(ctx, name, input, result)
		},
	}

	cmd.Flags().StringVar(&materials, "materials", "", "direct materials cost (required)")
	cmd.Flags().StringVar(&labor, "labor", "", "direct labor cost (required)")
	cmd.Flags().StringVar(&overhead, "overhead", "", "manufacturing overhead cost (required)")
	cmd.Flags().StringVar(&other, "other", "0", "other costs (optional)")
	cmd.Flags().StringVar(&units, "units", "1", "total units produced")
	cmd.Flags().StringVar(&name, "name", "", "name for the saved history entry")
	cmd.Flags().BoolVar(&noSave, "no-save", false, "skip saving to history")
	_ = cmd.MarkFlagRequired("materials")
	_ = cmd.MarkFlagRequired("labor")
	_ = cmd.MarkFlagRequired("overhead")

	return cmd
}

// parseCostInput validates the raw field values and converts them into a
// CostInput. The returned ValidationResult carries warnings even on success.
func parseCostInput(raw map[model.CostField]any) (model.CostInput, model.ValidationResult, error) {
	validator := validate.New(validate.DefaultConfig())
	vr := validator.ValidateHPPData(raw)
	if !vr.Valid() {
		return model.CostInput{}, vr, common.NewUserError(
			fmt.Sprintf("invalid input: %d validation error(s)", len(vr.Errors)), nil)
	}

	var input model.CostInput
	var err error
	if input.DirectMaterials, err = validate.ParseAmount(raw[model.FieldDirectMaterials]); err != nil {
		return model.CostInput{}, vr, err
	}
	if input.DirectLabor, err = validate.ParseAmount(raw[model.FieldDirectLabor]); err != nil {
		return model.CostInput{}, vr, err
	}
	if input.ManufacturingOverhead, err = validate.ParseAmount(raw[model.FieldManufacturingOverhead]); err != nil {
		return model.CostInput{}, vr, err
	}
	if !validate.IsEmpty(raw[model.FieldOtherCosts]) {
		if input.OtherCosts, err = validate.ParseAmount(raw[model.FieldOtherCosts]); err != nil {
			return model.CostInput{}, vr, err
		}
	}
	if input.TotalUnits, err = validate.ParseUnits(raw[model.FieldTotalUnits]); err != nil {
		return model.CostInput{}, vr, err
	}
	return input, vr, nil
}

// renderResult draws the breakdown table.
func renderResult(result *model.HPPResult) string {
	var b strings.Builder
	b.WriteString(cli.TitleStyle.Render("HPP Breakdown"))
	b.WriteString("\n")

	w := tabwriter.NewWriter(&b, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "%s\t%s\t%s\n",
		cli.BoldStyle.Render("Category"),
		cli.BoldStyle.Render("Amount"),
		cli.BoldStyle.Render("Share"))
	fmt.Fprintf(w, "%s\t%s\t%s\n",
		strings.Repeat("-", 24), strings.Repeat("-", 18), strings.Repeat("-", 6))
	for _, entry := range result.Breakdown {
		fmt.Fprintf(w, "%s\t%s\t%s\n",
			entry.Label,
			cli.FormatRupiah(entry.Amount),
			cli.FormatPercent(entry.Percentage))
	}
	fmt.Fprintf(w, "%s\t%s\t\n",
		cli.TotalStyle.Render("Total HPP"),
		cli.TotalStyle.Render(cli.FormatRupiah(result.TotalHPP)))
	fmt.Fprintf(w, "%s\t%s\t\n",
		cli.TotalStyle.Render(fmt.Sprintf("HPP per unit (%d units)", result.TotalUnits)),
		cli.TotalStyle.Render(cli.FormatRupiah(result.HPPPerUnit)))
	_ = w.Flush()

	return b.String()
}

// saveCalculation appends the result to the persisted history through the
// state container.
func saveCalculation(ctx context.Context, name string, input model.CostInput, result *model.HPPResult) error {
	store := initStore(ctx)
	defer func() { _ = store.Close() }()

	container, err := newContainer(ctx, store)
	if err != nil {
		return err
	}
	defer func() { _ = container.Destroy(ctx) }()

	record := model.CalculationRecord{
		ID:        uuid.NewString(),
		Name:      name,
		Timestamp: result.Timestamp,
		Input:     input,
		Result:    result,
	}
	if err := container.AppendCalculation(ctx, record); err != nil {
		return fmt.Errorf("failed to record calculation: %w", err)
	}

	fmt.Fprintln(os.Stdout, cli.SubtleStyle.Render(
		fmt.Sprintf("%s saved to history (%s)", cli.IconSuccess, shortID(record.ID))))
	return nil
}
