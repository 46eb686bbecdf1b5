package main

import (
	"fmt"
	"os"
	"strconv"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/adiprasetya/hppcalc/internal/cli"
	"github.com/adiprasetya/hppcalc/internal/model"
	"github.com/adiprasetya/hppcalc/internal/state"
)

func prefsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "prefs",
		Short: "Manage preferences",
	}

	cmd.AddCommand(prefsGetCmd())
	cmd.AddCommand(prefsSetCmd())

	return cmd
}

func prefsGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get",
		Short: "Show current preferences",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			store := initStore(ctx)
			defer func() { _ = store.Close() }()

			container, err := newContainer(ctx, store)
			if err != nil {
				return err
			}
			defer func() { _ = container.Destroy(ctx) }()

			prefs := container.Snapshot().Settings

			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			defer func() { _ = w.Flush() }()
			fmt.Fprintf(w, "theme\t%s\n", prefs.Theme)
			fmt.Fprintf(w, "language\t%s\n", prefs.Language)
			fmt.Fprintf(w, "auto-save\t%t\n", prefs.AutoSave)
			fmt.Fprintf(w, "auto-calculate\t%t\n", prefs.AutoCalculate)
			fmt.Fprintf(w, "notifications\t%t\n", prefs.Notifications)
			fmt.Fprintf(w, "show-tooltips\t%t\n", prefs.ShowTooltips)
			fmt.Fprintf(w, "show-animations\t%t\n", prefs.ShowAnimations)
			return nil
		},
	}
}

func prefsSetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "set <key> <value>",
		Short: "Set one preference",
		Long: `Set a preference. Keys: theme, language, auto-save, auto-calculate,
notifications, show-tooltips, show-animations.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			key, value := args[0], args[1]

			store := initStore(ctx)
			defer func() { _ = store.Close() }()

			container, err := newContainer(ctx, store)
			if err != nil {
				return err
			}
			defer func() { _ = container.Destroy(ctx) }()

			prefs := container.Snapshot().Settings
			if err := applyPreference(&prefs, key, value); err != nil {
				return err
			}

			if err := container.Set(state.PathSettings, prefs, state.SourceUser); err != nil {
				return err
			}
			if err := container.Save(ctx); err != nil {
				return err
			}

			fmt.Println(cli.SuccessStyle.Render(
				fmt.Sprintf("%s %s = %s", cli.IconSuccess, key, value)))
			return nil
		},
	}
}

func applyPreference(prefs *model.Preferences, key, value string) error {
	parseBool := func() (bool, error) {
		b, err := strconv.ParseBool(value)
		if err != nil {
			return false, fmt.Errorf("preference %s expects true/false, got %q", key, value)
		}
		return b, nil
	}

	switch key {
	case "theme":
		if value != "light" && value != "dark" {
			return fmt.Errorf("theme must be light or dark, got %q", value)
		}
		prefs.Theme = value
	case "language":
		prefs.Language = value
	case "auto-save":
		b, err := parseBool()
		if err != nil {
			return err
		}
		prefs.AutoSave = b
	case "auto-calculate":
		b, err := parseBool()
		if err != nil {
			return err
		}
		prefs.AutoCalculate = b
	case "notifications":
		b, err := parseBool()
		if err != nil {
			return err
		}
		prefs.Notifications = b
	case "show-tooltips":
		b, err := parseBool()
		if err != nil {
			return err
		}
		prefs.ShowTooltips = b
	case "show-animations":
		b, err := parseBool()
		if err != nil {
			return err
		}
		prefs.ShowAnimations = b
	default:
		return fmt.Errorf("unknown preference %q", key)
	}
	return nil
}
