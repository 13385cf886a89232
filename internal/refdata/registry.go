package refdata

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/alextesy/market-pulse/internal/model"
)

// Config holds ticker registry configuration.
type Config struct {
	ReconcileInterval  time.Duration
	InitialLoadTimeout time.Duration
}

// DefaultConfig returns sensible defaults.
func DefaultConfig() Config {
	return Config{
		ReconcileInterval:  15 * time.Minute,
		InitialLoadTimeout: time.Minute,
	}
}

// Source supplies the reference set. Satisfied by *store.Store.
type Source interface {
	LoadTickers(ctx context.Context) ([]model.Ticker, error)
}

// Registry is an in-memory read model of the ticker table. It answers
// symbol lookups for the linker without touching the database on the hot
// path and reconciles against the source in the background.
type Registry struct {
	cfg    Config
	source Source
	logger *slog.Logger

	mu      sync.RWMutex
	tickers map[string]model.Ticker

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// New creates a Registry over a source.
func New(cfg Config, source Source, logger *slog.Logger) *Registry {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.ReconcileInterval <= 0 {
		cfg = DefaultConfig()
	}
	return &Registry{
		cfg:     cfg,
		source:  source,
		logger:  logger,
		tickers: make(map[string]model.Ticker),
	}
}

// Start performs a blocking initial load, then begins background
// reconciliation.
func (r *Registry) Start(ctx context.Context) error {
	r.ctx, r.cancel = context.WithCancel(ctx)

	loadCtx, cancel := context.WithTimeout(r.ctx, r.cfg.InitialLoadTimeout)
	defer cancel()
	if err := r.reload(loadCtx); err != nil {
		r.cancel()
		return fmt.Errorf("initial ticker load: %w", err)
	}

	r.wg.Add(1)
	go func() {
		defer r.wg.Done()
		r.reconcileLoop(r.ctx)
	}()

	r.logger.Info("ticker registry started", "tickers", r.Len())
	return nil
}

// Stop gracefully shuts down.
func (r *Registry) Stop(ctx context.Context) error {
	if r.cancel != nil {
		r.cancel()
	}

	done := make(chan struct{})
	go func() {
		r.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		r.logger.Info("ticker registry stopped")
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Lookup returns the reference row for a symbol.
func (r *Registry) Lookup(symbol string) (model.Ticker, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	tk, ok := r.tickers[symbol]
	return tk, ok
}

// All returns a copy of the current reference set.
func (r *Registry) All() []model.Ticker {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]model.Ticker, 0, len(r.tickers))
	for _, tk := range r.tickers {
		out = append(out, tk)
	}
	return out
}

// Len returns the number of known symbols.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.tickers)
}

// reload replaces the whole in-memory set from the source.
func (r *Registry) reload(ctx context.Context) error {
	tickers, err := r.source.LoadTickers(ctx)
	if err != nil {
		return err
	}

	next := make(map[string]model.Ticker, len(tickers))
	for _, tk := range tickers {
		next[tk.Symbol] = tk
	}

	r.mu.Lock()
	r.tickers = next
	r.mu.Unlock()
	return nil
}

// reconcileLoop periodically refreshes the set. A failed refresh keeps the
// previous set and retries on the next tick.
func (r *Registry) reconcileLoop(ctx context.Context) {
	ticker := time.NewTicker(r.cfg.ReconcileInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := r.reload(ctx); err != nil {
				r.logger.Warn("ticker reconcile failed", "error", err)
				continue
			}
			r.logger.Debug("ticker registry reconciled", "tickers", r.Len())
		}
	}
}
