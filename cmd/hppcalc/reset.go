package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/adiprasetya/hppcalc/internal/cli"
)

func resetCmd() *cobra.Command {
	var keepSettings bool

	cmd := &cobra.Command{
		Use:   "reset",
		Short: "Reset application state to defaults",
		Long: `Clear the form, current result, history and change log. Preferences are
reset too unless --keep-settings is given.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			store := initStore(ctx)
			defer func() { _ = store.Close() }()

			container, err := newContainer(ctx, store)
			if err != nil {
				return err
			}
			defer func() { _ = container.Destroy(ctx) }()

			if err := container.Reset(ctx, keepSettings); err != nil {
				return fmt.Errorf("failed to reset state: %w", err)
			}

			msg := "state reset to defaults"
			if keepSettings {
				msg = "state reset to defaults (settings kept)"
			}
			fmt.Println(cli.SuccessStyle.Render(
				fmt.Sprintf("%s %s", cli.IconSuccess, msg)))
			return nil
		},
	}

	cmd.Flags().BoolVar(&keepSettings, "keep-settings", false, "keep current preferences")
	return cmd
}
