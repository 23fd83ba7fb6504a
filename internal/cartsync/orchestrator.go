// Package cartsync reconciles the local cart with the authoritative server cart.
//
// One cycle per login: local items are merged up first, then the server's
// copy is pulled down and taken verbatim. Every remote failure degrades to
// "local cart still works"; nothing here returns an error to the caller.
package cartsync

import (
	"context"
	"sync"
	"time"

	"taja-cart/internal/auth"
	"taja-cart/internal/cart"
	"taja-cart/internal/logger"
	"taja-cart/internal/metrics"
	"taja-cart/internal/remote"

	"go.uber.org/zap"
)

// Phase is the orchestrator's position in the sync cycle.
type Phase int

const (
	PhaseIdle Phase = iota
	PhaseMerging
	PhaseHydrating
)

func (p Phase) String() string {
	switch p {
	case PhaseMerging:
		return "merging"
	case PhaseHydrating:
		return "hydrating"
	default:
		return "idle"
	}
}

// Orchestrator runs the merge-then-hydrate cycle at most once per login
// session. The session is keyed by the token's fingerprint, not the raw
// string, so a re-issued token for the same login does not retrigger it.
type Orchestrator struct {
	store  *cart.Store
	remote remote.Service
	stats  metrics.SyncStats

	mu      sync.Mutex
	phase   Phase
	session string // fingerprint of the token currently synced; "" when logged out
	token   string // raw token of the active session, for post-login mirroring
	gen     uint64 // bumped on every new session; stale cycles detect it changed
}

func NewOrchestrator(store *cart.Store, svc remote.Service) *Orchestrator {
	return &Orchestrator{store: store, remote: svc}
}

// Phase reports the current cycle position.
func (o *Orchestrator) Phase() Phase {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.phase
}

// Stats exposes cycle outcome counters.
func (o *Orchestrator) Stats() *metrics.SyncStats {
	return &o.stats
}

// ActiveToken returns the raw token of the current login session, or ""
// when logged out.
func (o *Orchestrator) ActiveToken() string {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.token
}

// Observe is called whenever the authentication token may have changed: on
// login, logout, and app start. An empty token resets the session so the
// next login syncs again. A token already synced this session is a no-op.
//
// The call blocks for the duration of the cycle; suspension only happens
// inside the two network calls. A newer Observe superseding an in-flight
// cycle makes the older cycle drop its hydration write.
func (o *Orchestrator) Observe(ctx context.Context, token string) {
	if token == "" {
		o.mu.Lock()
		o.session = ""
		o.token = ""
		o.phase = PhaseIdle
		o.gen++
		o.mu.Unlock()
		return
	}

	if auth.Expired(token, time.Now()) {
		logger.L().Debug("skipping cart sync for expired token")
		return
	}

	fp := auth.Fingerprint(token)

	o.mu.Lock()
	if fp == o.session {
		o.mu.Unlock()
		return
	}
	o.gen++
	myGen := o.gen
	o.session = fp
	o.token = token
	o.phase = PhaseMerging
	o.mu.Unlock()

	log := logger.L()

	// Merge before hydrate so items placed before login are pushed up
	// before the authoritative pull overwrites local state. A failed merge
	// must not block hydration.
	if local := o.store.Items(); len(local) > 0 {
		payload := make([]remote.MergeItem, 0, len(local))
		for _, it := range local {
			payload = append(payload, remote.MergeItem{
				ProductID: it.ProductID,
				Quantity:  it.Quantity,
			})
		}

		if err := o.remote.MergeCart(ctx, token, payload); err != nil {
			o.stats.MergeFailures.Inc()
			log.Warn("cart merge failed, continuing to hydrate",
				zap.Int("local_items", len(payload)),
				zap.Error(err),
			)
		} else {
			o.stats.Merges.Inc()
		}
	}

	o.mu.Lock()
	if o.gen != myGen {
		o.mu.Unlock()
		return
	}
	o.phase = PhaseHydrating
	o.mu.Unlock()

	timer := metrics.StartTimer()
	fetched, err := o.remote.GetCart(ctx, token)

	o.mu.Lock()
	defer o.mu.Unlock()

	if o.gen != myGen {
		// A newer login superseded this cycle while the fetch was in
		// flight; its state wins.
		o.stats.StaleDiscards.Inc()
		log.Debug("discarding stale cart hydration response")
		return
	}

	o.phase = PhaseIdle

	if err != nil {
		// Last known good state wins; never clear on a failed fetch.
		o.stats.HydrateFailure.Inc()
		log.Warn("cart hydration failed, keeping local state", zap.Error(err))
		return
	}
	o.stats.Hydrations.Inc()

	items := make([]cart.Item, 0, len(fetched))
	for _, f := range fetched {
		items = append(items, cart.Item{
			ProductID: f.ProductID,
			Title:     f.Title,
			UnitPrice: f.Price,
			Images:    imageList(f.Image),
			Quantity:  f.Quantity,
		})
	}
	o.store.Replace(items)

	log.Info("cart hydrated from server",
		zap.Int("items", len(items)),
		zap.Duration("fetch_duration", timer.Duration()),
	)
}

func imageList(image string) []string {
	if image == "" {
		return nil
	}
	return []string{image}
}
