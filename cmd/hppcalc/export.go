package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/adiprasetya/hppcalc/internal/cli"
	"github.com/adiprasetya/hppcalc/internal/common"
)

func exportCmd() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export the full state tree to JSON",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			store := initStore(ctx)
			defer func() { _ = store.Close() }()

			container, err := newContainer(ctx, store)
			if err != nil {
				return err
			}
			defer func() { _ = container.Destroy(ctx) }()

			data, err := container.Export()
			if err != nil {
				return err
			}

			if output == "" || output == "-" {
				fmt.Println(string(data))
				return nil
			}
			if err := os.WriteFile(output, data, 0600); err != nil {
				return fmt.Errorf("failed to write export: %w", err)
			}
			fmt.Println(cli.SuccessStyle.Render(
				fmt.Sprintf("%s exported state to %s", cli.IconSuccess, output)))
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: stdout)")
	return cmd
}

func importCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "import <file>",
		Short: "Import a previously exported state tree",
		Long: `Replace the state tree with an exported payload. A malformed file is
rejected and the existing state is left untouched.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			data, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("failed to read import file: %w", err)
			}

			store := initStore(ctx)
			defer func() { _ = store.Close() }()

			container, err := newContainer(ctx, store)
			if err != nil {
				return err
			}
			defer func() { _ = container.Destroy(ctx) }()

			if err := container.Import(ctx, data); err != nil {
				if errors.Is(err, common.ErrInvalidImport) {
					fmt.Println(cli.ErrorStyle.Render(
						fmt.Sprintf("%s import rejected, state unchanged: %v", cli.IconError, err)))
				}
				return err
			}

			snapshot := container.Snapshot()
			fmt.Println(cli.SuccessStyle.Render(
				fmt.Sprintf("%s imported state with %d history entr(ies)",
					cli.IconSuccess, len(snapshot.History.Calculations))))
			return nil
		},
	}
}
