package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/viper"

	"github.com/adiprasetya/hppcalc/internal/cli"
	"github.com/adiprasetya/hppcalc/internal/common"
	"github.com/adiprasetya/hppcalc/internal/config"
	"github.com/adiprasetya/hppcalc/internal/engine"
	"github.com/adiprasetya/hppcalc/internal/model"
	"github.com/adiprasetya/hppcalc/internal/service"
	"github.com/adiprasetya/hppcalc/internal/state"
	"github.com/adiprasetya/hppcalc/internal/storage"
	"github.com/adiprasetya/hppcalc/internal/validate"
)

// initStore opens the local database, falling back to an in-memory store
// when the backing store is unavailable. Persistence failure is recoverable:
// the calculator keeps working, history just won't survive the session.
func initStore(ctx context.Context) service.Store {
	dbPath := viper.GetString("database.path")
	if dbPath == "" {
		dbPath = config.DefaultDatabasePath()
	}
	dbPath = config.ExpandPath(dbPath)

	store, err := storage.NewSQLiteStore(dbPath, storage.DefaultHistoryCap)
	if err != nil {
		common.LogError(fmt.Errorf("%w: %v", common.ErrStoreUnavailable, err),
			"operating memory-only", common.Fields{"path": dbPath})
		fmt.Fprintln(os.Stderr, cli.WarningStyle.Render(
			cli.IconWarning+" storage unavailable; results will not be saved"))
		return storage.NewMemoryStore(storage.DefaultHistoryCap)
	}

	if err := store.Migrate(ctx); err != nil {
		common.LogError(fmt.Errorf("%w: %v", common.ErrStoreUnavailable, err),
			"migration failed, operating memory-only", common.Fields{"path": dbPath})
		_ = store.Close()
		return storage.NewMemoryStore(storage.DefaultHistoryCap)
	}

	common.LogInfo("database opened", common.Fields{"path": dbPath, "cap": store.HistoryCap()})
	return store
}

// newEngine builds the calculation engine with the default validator.
func newEngine() *engine.Engine {
	return engine.New(validate.New(validate.DefaultConfig()), engine.DefaultConfig())
}

// newContainer builds and initializes the session's state container around
// an open store. The container is constructed once here and passed to
// whatever needs it.
func newContainer(ctx context.Context, store service.Store) (*state.Container, error) {
	container := state.New(store, state.NewTickerScheduler(), state.Options{
		Version: version,
	})
	if err := container.Init(ctx); err != nil {
		return nil, fmt.Errorf("failed to initialize state: %w", err)
	}
	return container, nil
}

// renderValidationErrors prints field-level validation outcomes, one line
// per field, first error only.
func renderValidationErrors(result model.ValidationResult) string {
	var b strings.Builder
	seen := make(map[model.CostField]bool)
	for _, fe := range result.Errors {
		if seen[fe.Field] {
			continue
		}
		seen[fe.Field] = true
		b.WriteString(cli.ErrorStyle.Render(
			fmt.Sprintf("%s %s: %s", cli.IconError, fe.Field.Label(), fe.Message)))
		b.WriteString("\n")
	}
	return b.String()
}

// renderWarnings prints non-blocking validation warnings.
func renderWarnings(result model.ValidationResult) string {
	var b strings.Builder
	for _, w := range result.Warnings {
		b.WriteString(cli.WarningStyle.Render(
			fmt.Sprintf("%s %s", cli.IconWarning, w.Message)))
		b.WriteString("\n")
	}
	return b.String()
}
