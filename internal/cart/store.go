package cart

import (
	"context"
	"sync"

	"taja-cart/internal/logger"

	"go.uber.org/zap"
)

// Snapshot persists the cart across process restarts. Implementations live in
// internal/storage. A nil Snapshot disables persistence.
type Snapshot interface {
	Load(ctx context.Context) ([]Item, error)
	Save(ctx context.Context, items []Item) error
	Clear(ctx context.Context) error
}

// Store is the single source of truth for the shopping cart during a session.
// All surfaces (product pages, cart widget, checkout, the sync orchestrator)
// read and mutate through it exclusively.
//
// Mutations are serialized through an internal mutex so interleaved callers
// always observe the result of sequential application. Store operations never
// fail: persistence errors are logged and the in-memory state stays correct.
type Store struct {
	mu    sync.RWMutex
	items []Item
	open  bool
	snap  Snapshot
}

// NewStore builds a store, rehydrating from snap when one is given. A load
// failure is non-fatal; the store simply starts empty.
func NewStore(snap Snapshot) *Store {
	s := &Store{snap: snap}

	if snap != nil {
		items, err := snap.Load(context.Background())
		if err != nil {
			logger.L().Warn("failed to load cart snapshot, starting empty", zap.Error(err))
		} else {
			s.items = sanitize(items)
		}
	}

	return s
}

// Add inserts the given product, or increments its quantity when the same
// ProductID is already present. Quantities below 1 are treated as 1. The
// Quantity field of item is ignored; qty is authoritative.
//
// Add is deliberately not idempotent: adding the same product twice with
// qty 1 yields quantity 2. Callers needing "ensure present" must check
// Contains first.
func (s *Store) Add(item Item, qty int) {
	if qty < 1 {
		qty = 1
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.items {
		if s.items[i].ProductID == item.ProductID {
			s.items[i].Quantity += qty
			s.persistLocked()
			return
		}
	}

	item.Quantity = qty
	s.items = append(s.items, item)
	s.persistLocked()
}

// UpdateQuantity sets the absolute quantity for an existing item. A quantity
// of zero or less removes the item. Unknown ProductIDs are a no-op.
func (s *Store) UpdateQuantity(productID string, qty int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.items {
		if s.items[i].ProductID != productID {
			continue
		}
		if qty <= 0 {
			s.items = append(s.items[:i], s.items[i+1:]...)
		} else {
			s.items[i].Quantity = qty
		}
		s.persistLocked()
		return
	}
}

// Remove deletes the item if present; a no-op otherwise.
func (s *Store) Remove(productID string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.items {
		if s.items[i].ProductID == productID {
			s.items = append(s.items[:i], s.items[i+1:]...)
			s.persistLocked()
			return
		}
	}
}

// Clear empties the cart.
func (s *Store) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.items = nil
	if s.snap != nil {
		if err := s.snap.Clear(context.Background()); err != nil {
			logger.L().Warn("failed to clear cart snapshot", zap.Error(err))
		}
	}
}

// Replace substitutes the whole item list in one step. Used by hydration:
// the server's quantities are taken verbatim, never summed with local state.
// Lines with a non-positive quantity or a duplicate ProductID are dropped to
// keep the store's invariants.
func (s *Store) Replace(items []Item) {
	cleaned := sanitize(items)

	s.mu.Lock()
	defer s.mu.Unlock()

	s.items = cleaned
	s.persistLocked()
}

// Items returns a copy of the current lines in insertion order.
func (s *Store) Items() []Item {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]Item, len(s.items))
	copy(out, s.items)
	return out
}

// Quantity returns the current quantity for the product, 0 when absent.
func (s *Store) Quantity(productID string) int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for i := range s.items {
		if s.items[i].ProductID == productID {
			return s.items[i].Quantity
		}
	}
	return 0
}

// Contains reports whether the product is already in the cart.
func (s *Store) Contains(productID string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for i := range s.items {
		if s.items[i].ProductID == productID {
			return true
		}
	}
	return false
}

// TotalItems returns the sum of quantities across all lines.
func (s *Store) TotalItems() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	total := 0
	for i := range s.items {
		total += s.items[i].Quantity
	}
	return total
}

// TotalPrice returns the sum of unit price times quantity across all lines,
// in minor currency units.
func (s *Store) TotalPrice() int64 {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var total int64
	for i := range s.items {
		total += s.items[i].UnitPrice * int64(s.items[i].Quantity)
	}
	return total
}

// Toggle flips the cart drawer's visibility flag.
func (s *Store) Toggle() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.open = !s.open
}

// SetOpen sets the cart drawer's visibility flag.
func (s *Store) SetOpen(open bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.open = open
}

// IsOpen reports the cart drawer's visibility flag. Purely a UI concern.
func (s *Store) IsOpen() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.open
}

// persistLocked writes the current items to the snapshot. Callers must hold
// s.mu. Failures are logged and swallowed: the in-memory cart stays usable
// even when the durable write is lost.
func (s *Store) persistLocked() {
	if s.snap == nil {
		return
	}

	items := make([]Item, len(s.items))
	copy(items, s.items)

	if err := s.snap.Save(context.Background(), items); err != nil {
		logger.L().Warn("failed to persist cart snapshot", zap.Error(err))
	}
}

// sanitize copies items, dropping lines that would violate the store's
// invariants (duplicate ProductID, quantity below 1).
func sanitize(items []Item) []Item {
	if len(items) == 0 {
		return nil
	}

	seen := make(map[string]struct{}, len(items))
	out := make([]Item, 0, len(items))
	for _, it := range items {
		if it.Quantity < 1 {
			continue
		}
		if _, dup := seen[it.ProductID]; dup {
			continue
		}
		seen[it.ProductID] = struct{}{}
		out = append(out, it)
	}
	return out
}
