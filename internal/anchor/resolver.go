package anchor

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
)

// Resolver hands out the frozen root anchor.
//
// Thread-safety model:
//   - Resolve(): safe from any goroutine; after the first successful call it
//     is a single atomic load.
//   - Writes (first freeze, Reset) are serialized by an internal mutex.
type Resolver struct {
	store   Store
	mu      sync.Mutex
	current atomic.Pointer[RootAnchor]
}

// NewResolver creates a resolver over store. A nil store uses a MemoryStore.
func NewResolver(store Store) *Resolver {
	if store == nil {
		store = NewMemoryStore()
	}
	return &Resolver{store: store}
}

// Resolve returns the frozen anchor, computing and freezing it first if the
// store holds none.
//
// Once frozen the inputs are ignored: the same anchor is returned even if
// rootHz or a4Hz change. Store failures never prevent a usable anchor; the
// computed anchor is returned together with the error, and it is held in
// memory so later calls stay stable.
func (r *Resolver) Resolve(ctx context.Context, rootHz, a4Hz float64, pref Preference) (RootAnchor, error) {
	if a := r.current.Load(); a != nil {
		return *a, nil
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if a := r.current.Load(); a != nil {
		return *a, nil
	}

	rec, err := r.store.Load(ctx)
	if err != nil {
		// Hold the computed anchor anyway; a store outage must not let the
		// next root change move it.
		a := Compute(rootHz, a4Hz, pref)
		r.current.Store(&a)
		slog.Warn("anchor store unavailable, holding computed anchor in memory", "anchor", a.Name().String(), "error", err)
		return a, fmt.Errorf("load anchor: %w", err)
	}
	if rec.Frozen {
		a := rec.Anchor()
		r.current.Store(&a)
		slog.Debug("anchor restored", "anchor", a.Name().String(), "fifths", a.FifthsFromC, "diatonic", a.DiatonicNumber)
		return a, nil
	}

	a := Compute(rootHz, a4Hz, pref)
	r.current.Store(&a)
	slog.Info("anchor frozen", "anchor", a.Name().String(), "root_hz", rootHz, "a4_hz", a4Hz, "preference", pref.String())

	if err := r.store.Save(ctx, Record{Fifths: a.FifthsFromC, Diatonic: a.DiatonicNumber, Frozen: true}); err != nil {
		return a, fmt.Errorf("freeze anchor: %w", err)
	}
	return a, nil
}

// Freeze stores a caller-chosen anchor (for example a root typed as a note
// name) and makes it current, replacing any previous anchor.
func (r *Resolver) Freeze(ctx context.Context, a RootAnchor) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.current.Store(&a)
	if err := r.store.Save(ctx, Record{Fifths: a.FifthsFromC, Diatonic: a.DiatonicNumber, Frozen: true}); err != nil {
		return fmt.Errorf("freeze anchor: %w", err)
	}
	return nil
}

// Current returns the in-memory anchor without consulting the store.
func (r *Resolver) Current() (RootAnchor, bool) {
	if a := r.current.Load(); a != nil {
		return *a, true
	}
	return RootAnchor{}, false
}

// Reset clears the frozen anchor in memory and in the store.
// Debug and test use only.
func (r *Resolver) Reset(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.current.Store(nil)
	if err := r.store.Reset(ctx); err != nil {
		return fmt.Errorf("reset anchor: %w", err)
	}
	slog.Info("anchor reset")
	return nil
}
