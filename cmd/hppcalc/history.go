package main

import (
	"context"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/adiprasetya/hppcalc/internal/cli"
	"github.com/adiprasetya/hppcalc/internal/model"
	"github.com/adiprasetya/hppcalc/internal/service"
)

func historyCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Manage the calculation history",
	}

	cmd.AddCommand(historyListCmd())
	cmd.AddCommand(historyShowCmd())
	cmd.AddCommand(historyClearCmd())

	return cmd
}

func historyListCmd() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List saved calculations, newest first",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			store := initStore(ctx)
			defer func() { _ = store.Close() }()

			records, err := store.GetCalculations(ctx, limit)
			if err != nil {
				return fmt.Errorf("failed to load history: %w", err)
			}

			if len(records) == 0 {
				fmt.Println(cli.SubtleStyle.Render("No saved calculations. Run 'hppcalc calculate' to create one."))
				return nil
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			defer func() { _ = w.Flush() }()

			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
				cli.BoldStyle.Render("ID"),
				cli.BoldStyle.Render("When"),
				cli.BoldStyle.Render("Name"),
				cli.BoldStyle.Render("Total HPP"),
				cli.BoldStyle.Render("Per Unit"))
			for _, rec := range records {
				name := rec.Name
				if name == "" {
					name = cli.SubtleStyle.Render("(unnamed)")
				}
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
					shortID(rec.ID),
					rec.Timestamp.Local().Format("2006-01-02 15:04"),
					name,
					cli.FormatRupiah(rec.Result.TotalHPP),
					cli.FormatRupiah(rec.Result.HPPPerUnit))
			}
			return nil
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 0, "maximum entries to list (default: the history cap)")
	return cmd
}

func historyShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Show one saved calculation in full",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			store := initStore(ctx)
			defer func() { _ = store.Close() }()

			record, err := findRecord(ctx, store, args[0])
			if err != nil {
				return err
			}

			if record.Name != "" {
				fmt.Println(cli.TitleStyle.Render(record.Name))
			}
			fmt.Println(cli.SubtleStyle.Render(
				fmt.Sprintf("%s %s", record.ID, record.Timestamp.Local().Format("2006-01-02 15:04:05"))))
			fmt.Print(renderResult(record.Result))
			return nil
		},
	}
}

// shortID abbreviates an ID for list output. Imported records may carry
// IDs of any non-empty length, so short ones print in full.
func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

// findRecord resolves a full ID or a unique short prefix to one record.
func findRecord(ctx context.Context, store service.Store, idArg string) (*model.CalculationRecord, error) {
	if record, err := store.GetCalculationByID(ctx, idArg); err == nil {
		return record, nil
	}

	records, err := store.GetCalculations(ctx, 0)
	if err != nil {
		return nil, fmt.Errorf("failed to load history: %w", err)
	}

	var match *model.CalculationRecord
	for i := range records {
		if strings.HasPrefix(records[i].ID, idArg) {
			if match != nil {
				return nil, fmt.Errorf("id prefix %q is ambiguous", idArg)
			}
			match = &records[i]
		}
	}
	if match == nil {
		return nil, fmt.Errorf("no calculation with id %q", idArg)
	}
	return match, nil
}

func historyClearCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Remove all saved calculations",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			store := initStore(ctx)
			defer func() { _ = store.Close() }()

			count, err := store.CountCalculations(ctx)
			if err != nil {
				return fmt.Errorf("failed to count calculations: %w", err)
			}
			if err := store.ClearCalculations(ctx); err != nil {
				return fmt.Errorf("failed to clear history: %w", err)
			}

			fmt.Println(cli.SuccessStyle.Render(
				fmt.Sprintf("%s cleared %d calculation(s)", cli.IconSuccess, count)))
			return nil
		},
	}
}
