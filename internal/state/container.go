package state

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/adiprasetya/hppcalc/internal/common"
	"github.com/adiprasetya/hppcalc/internal/model"
	"github.com/adiprasetya/hppcalc/internal/service"
)

// DefaultSaveInterval is the periodic auto-save interval.
const DefaultSaveInterval = 30 * time.Second

// Options configures a Container.
type Options struct {
	Now          func() time.Time
	Version      string
	Retry        service.RetryOptions
	SaveInterval time.Duration
	HistoryCap   int
	ChangeLogCap int
}

// Container owns the application state tree for one session. It is
// constructed once at startup and passed to all dependents; there is no
// package-level instance. All mutations go through Set/Update so that
// equality gating, the change log, subscriber notification, and persistence
// stay consistent.
type Container struct {
	store      service.Store
	sched      Scheduler
	now        func() time.Time
	subs       map[Handle]*subscription
	log        *changeLog
	version    string
	retry      service.RetryOptions
	interval   time.Duration
	state      State
	nextHandle Handle
	mu         sync.RWMutex
	dirty      bool
	loading    bool
	destroyed  bool
}

// New creates a container with the default tree. Call Init to merge stored
// data and arm the auto-save task.
func New(store service.Store, sched Scheduler, opts Options) *Container {
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	interval := opts.SaveInterval
	if interval <= 0 {
		interval = DefaultSaveInterval
	}
	c := &Container{
		store:    store,
		sched:    sched,
		now:      now,
		subs:     make(map[Handle]*subscription),
		log:      newChangeLog(opts.ChangeLogCap),
		version:  opts.Version,
		retry:    opts.Retry,
		interval: interval,
		state:    defaultState(opts.Version, now()),
	}
	if opts.HistoryCap > 0 {
		c.state.History.Cap = opts.HistoryCap
	}
	return c
}

// Init merges stored preferences and calculation history into the tree
// (tagged SourceStorageLoad so observers can tell it from user edits) and
// arms the periodic auto-save. A failing store is recoverable: the container
// keeps operating memory-only. The loading flag suppresses auto-save
// re-entrancy during the merge itself.
func (c *Container) Init(ctx context.Context) error {
	c.mu.Lock()
	c.loading = true
	limit := c.state.History.Cap
	c.mu.Unlock()

	changes := make(map[Path]any)

	prefs, err := c.store.GetPreferences(ctx)
	switch {
	case err == nil:
		changes[PathSettings] = *prefs
		changes[PathUITheme] = prefs.Theme
		changes[PathUILanguage] = prefs.Language
	case errors.Is(err, common.ErrNotFound):
		// First run; defaults stand.
	default:
		common.LogError(err, "preferences unavailable, using defaults", nil)
	}

	records, err := c.store.GetCalculations(ctx, limit)
	if err != nil {
		common.LogError(err, "calculation history unavailable, starting empty", nil)
	} else if len(records) > 0 {
		changes[PathHistoryCalculations] = records
	}

	if err := c.Update(changes, SourceStorageLoad); err != nil {
		return fmt.Errorf("failed to merge stored state: %w", err)
	}
	if err := c.Set(PathAppInitialized, true, SourceSystem); err != nil {
		return err
	}

	c.mu.Lock()
	c.loading = false
	c.dirty = false
	c.mu.Unlock()

	c.broadcast(Event{Kind: EventInitialized, Source: SourceSystem, Time: c.now()})

	if c.sched != nil {
		c.sched.Every(c.interval, c.autoSaveTick)
	}

	slog.Debug("state container initialized",
		"preferences_loaded", prefs != nil,
		"history_entries", len(records))
	return nil
}

// Get returns the current value at a declared path.
func (c *Container) Get(path Path) (any, error) {
	acc, ok := accessors[path]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownPath, path)
	}
	c.mu.RLock()
	defer c.mu.RUnlock()
	return acc.get(&c.state), nil
}

// Snapshot returns a deep-independent copy of the full tree.
func (c *Container) Snapshot() State {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.state.clone()
}

// Set overwrites the value at a path. A write whose new value equals the old
// one is a no-op: no change record, no subscriber notification, no save.
func (c *Container) Set(path Path, value any, source string) error {
	return c.apply([]write{{path: path, value: value}}, source, false)
}

// Update applies multiple path writes as one logical batch: broadcast
// subscribers see one batch event followed by the per-path change events.
// Per-path equality no-ops still apply.
func (c *Container) Update(changes map[Path]any, source string) error {
	writes := make([]write, 0, len(changes))
	for path, value := range changes {
		writes = append(writes, write{path: path, value: value})
	}
	// Deterministic application order.
	sort.Slice(writes, func(i, j int) bool { return writes[i].path < writes[j].path })
	return c.apply(writes, source, true)
}

type write struct {
	value any
	path  Path
}

// apply commits a set of writes under one lock acquisition, then notifies.
// Observers never see a half-applied batch.
func (c *Container) apply(writes []write, source string, batch bool) error {
	// Reject unknown paths before mutating anything.
	for _, w := range writes {
		if _, ok := accessors[w.path]; !ok {
			return fmt.Errorf("%w: %s", ErrUnknownPath, w.path)
		}
	}

	var events []Event

	c.mu.Lock()
	now := c.now()
	for _, w := range writes {
		acc := accessors[w.path]
		old := acc.get(&c.state)
		if acc.equal(old, w.value) {
			continue
		}
		if err := acc.set(&c.state, w.value); err != nil {
			c.mu.Unlock()
			return err
		}
		c.log.append(ChangeRecord{Time: now, Path: w.path, Old: old, New: w.value, Source: source})
		c.dirty = true
		events = append(events, Event{
			Kind: EventChange, Path: w.path, Value: w.value, Source: source, Time: now,
		})
	}
	autoSave := len(events) > 0 && c.state.Settings.AutoSave && !c.loading
	c.mu.Unlock()

	if len(events) == 0 {
		return nil
	}

	if batch {
		c.broadcast(Event{Kind: EventBatch, Source: source, Time: now})
	}
	for _, ev := range events {
		c.dispatch(ev)
	}

	if autoSave {
		go func() {
			if err := c.Save(context.Background()); err != nil {
				common.LogError(err, "auto-save failed; state kept in memory", nil)
			}
		}()
	}
	return nil
}

// Subscribe registers a callback for committed changes at one path. With the
// Immediate option the callback also runs synchronously with the current
// value before any future change.
func (c *Container) Subscribe(path Path, fn func(any), opts ...SubscribeOption) Handle {
	sub := &subscription{path: path, fn: fn}
	for _, opt := range opts {
		opt(sub)
	}

	c.mu.Lock()
	c.nextHandle++
	handle := c.nextHandle
	c.subs[handle] = sub
	var current any
	if sub.immediate {
		if acc, ok := accessors[path]; ok {
			current = acc.get(&c.state)
		}
	}
	c.mu.Unlock()

	if sub.immediate {
		fn(current)
	}
	return handle
}

// SubscribeAll registers a broadcast callback receiving every event,
// including batch and lifecycle events.
func (c *Container) SubscribeAll(fn func(Event)) Handle {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.nextHandle++
	handle := c.nextHandle
	c.subs[handle] = &subscription{allFn: fn}
	return handle
}

// Unsubscribe removes exactly the registration identified by the handle.
func (c *Container) Unsubscribe(handle Handle) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.subs, handle)
}

// dispatch delivers a change event to path-scoped and broadcast subscribers.
// Callbacks run on the mutating goroutine, after the lock is released.
func (c *Container) dispatch(ev Event) {
	c.mu.RLock()
	var pathFns []func(any)
	var allFns []func(Event)
	for _, sub := range c.subs {
		switch {
		case sub.allFn != nil:
			allFns = append(allFns, sub.allFn)
		case sub.path == ev.Path:
			pathFns = append(pathFns, sub.fn)
		}
	}
	c.mu.RUnlock()

	for _, fn := range pathFns {
		fn(ev.Value)
	}
	for _, fn := range allFns {
		fn(ev)
	}
}

// broadcast delivers a lifecycle or batch event to broadcast subscribers
// only.
func (c *Container) broadcast(ev Event) {
	c.mu.RLock()
	var allFns []func(Event)
	for _, sub := range c.subs {
		if sub.allFn != nil {
			allFns = append(allFns, sub.allFn)
		}
	}
	c.mu.RUnlock()

	for _, fn := range allFns {
		fn(ev)
	}
}

// AppendCalculation prepends a record to the bounded history (evicting from
// the tail past the cap), makes its result current, and persists the record.
// A persistence failure is logged and does not fail the append.
func (c *Container) AppendCalculation(ctx context.Context, record model.CalculationRecord) error {
	if err := record.Validate(); err != nil {
		return err
	}

	c.mu.RLock()
	limit := c.state.History.Cap
	existing := c.state.History.Calculations
	c.mu.RUnlock()
	if limit < 1 {
		limit = DefaultHistoryCap
	}

	records := make([]model.CalculationRecord, 0, len(existing)+1)
	records = append(records, record)
	records = append(records, existing...)
	if len(records) > limit {
		records = records[:limit]
	}

	if err := c.Update(map[Path]any{
		PathHistoryCalculations: records,
		PathCalculationCurrent:  record.Result,
	}, SourceCalculation); err != nil {
		return err
	}

	if err := common.WithRetry(ctx, func() error {
		return c.store.SaveCalculation(ctx, &record)
	}, c.retry); err != nil {
		common.LogError(err, "failed to persist calculation; kept in memory", common.Fields{"id": record.ID})
	}
	return nil
}

// ClearHistory removes all history entries from the tree and the store.
func (c *Container) ClearHistory(ctx context.Context) error {
	if err := c.Set(PathHistoryCalculations, nil, SourceUser); err != nil {
		return err
	}
	if err := c.store.ClearCalculations(ctx); err != nil {
		common.LogError(err, "failed to clear stored calculations", nil)
	}
	return nil
}

// Save persists the preferences namespace. History records are persisted
// individually at append time; each save re-reads current state, so the last
// writer wins.
func (c *Container) Save(ctx context.Context) error {
	c.mu.RLock()
	prefs := c.state.Settings
	c.mu.RUnlock()

	if err := common.WithRetry(ctx, func() error {
		return c.store.SavePreferences(ctx, &prefs)
	}, c.retry); err != nil {
		return fmt.Errorf("failed to persist preferences: %w", err)
	}

	c.mu.Lock()
	c.dirty = false
	c.mu.Unlock()
	return nil
}

// Dirty reports whether unsaved changes are outstanding.
func (c *Container) Dirty() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.dirty
}

// autoSaveTick is the periodic scheduler task: save when dirty and enabled.
func (c *Container) autoSaveTick() {
	c.mu.RLock()
	pending := c.dirty && c.state.Settings.AutoSave && !c.loading && !c.destroyed
	c.mu.RUnlock()
	if !pending {
		return
	}
	if err := c.Save(context.Background()); err != nil {
		common.LogError(err, "periodic save failed; will retry next interval", nil)
	}
}

// Reset restores the default tree (optionally preserving the current
// settings), clears the change log and stored history, and persists
// immediately.
func (c *Container) Reset(ctx context.Context, preserveSettings bool) error {
	c.mu.Lock()
	settings := c.state.Settings
	fresh := defaultState(c.version, c.now())
	fresh.App.Initialized = c.state.App.Initialized
	fresh.App.SessionStart = c.state.App.SessionStart
	if preserveSettings {
		fresh.Settings = settings
		fresh.UI.Theme = settings.Theme
		fresh.UI.Language = settings.Language
	}
	c.state = fresh
	c.log.clear()
	c.dirty = true
	now := c.now()
	c.mu.Unlock()

	c.broadcast(Event{Kind: EventReset, Source: SourceReset, Time: now})

	if err := c.store.ClearCalculations(ctx); err != nil {
		common.LogError(err, "failed to clear stored calculations on reset", nil)
	}
	if err := c.Save(ctx); err != nil {
		common.LogError(err, "failed to persist reset state", nil)
	}
	return nil
}

// ChangeLog returns a copy of the bounded mutation log, oldest first.
func (c *Container) ChangeLog() []ChangeRecord {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.log.list()
}

// Destroy stops the auto-save task and performs a final save when changes
// are outstanding.
func (c *Container) Destroy(ctx context.Context) error {
	c.mu.Lock()
	if c.destroyed {
		c.mu.Unlock()
		return nil
	}
	c.destroyed = true
	pending := c.dirty
	c.mu.Unlock()

	if c.sched != nil {
		c.sched.Stop()
	}
	if pending {
		return c.Save(ctx)
	}
	return nil
}

// ExportVersion tags export payloads for forward compatibility checks.
const ExportVersion = "1"

// ExportPayload is the serialized form of the full tree plus the change log.
type ExportPayload struct {
	ExportedAt time.Time      `json:"exported_at"`
	Version    string         `json:"version"`
	State      State          `json:"state"`
	ChangeLog  []ChangeRecord `json:"change_log"`
}

// Export serializes the full state tree and change log.
func (c *Container) Export() ([]byte, error) {
	c.mu.RLock()
	payload := ExportPayload{
		ExportedAt: c.now(),
		Version:    ExportVersion,
		State:      c.state.clone(),
		ChangeLog:  c.log.list(),
	}
	c.mu.RUnlock()

	data, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to encode state export: %w", err)
	}
	return data, nil
}

// Import replaces the tree with an exported payload merged over fresh
// defaults (missing keys fall back rather than leaving holes) and replaces
// the change log wholesale, then persists. A malformed payload is a typed
// failure that leaves the prior state untouched.
func (c *Container) Import(ctx context.Context, data []byte) error {
	payload := ExportPayload{State: defaultState(c.version, c.now())}
	if err := json.Unmarshal(data, &payload); err != nil {
		return fmt.Errorf("%w: %v", common.ErrInvalidImport, err)
	}
	if payload.Version == "" {
		return fmt.Errorf("%w: missing version tag", common.ErrInvalidImport)
	}
	if payload.Version != ExportVersion {
		return fmt.Errorf("%w: unsupported version %q", common.ErrInvalidImport, payload.Version)
	}

	c.mu.Lock()
	sessionStart := c.state.App.SessionStart
	c.state = payload.State
	c.state.App.SessionStart = sessionStart
	c.log.replace(payload.ChangeLog)
	c.dirty = true
	now := c.now()
	records := append([]model.CalculationRecord(nil), c.state.History.Calculations...)
	c.mu.Unlock()

	c.broadcast(Event{Kind: EventImported, Source: SourceImport, Time: now})

	for i := range records {
		if err := c.store.SaveCalculation(ctx, &records[i]); err != nil {
			common.LogError(err, "failed to persist imported calculation", common.Fields{"id": records[i].ID})
		}
	}
	if err := c.Save(ctx); err != nil {
		common.LogError(err, "failed to persist imported state", nil)
	}
	return nil
}
