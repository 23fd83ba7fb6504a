package cartsync

import (
	"context"

	"taja-cart/internal/cart"
	"taja-cart/internal/logger"
	"taja-cart/internal/remote"

	"go.uber.org/zap"
)

// Mirror is the mutation surface UI code uses once sync is in place. Every
// mutation applies to the local store first; when a login session is active
// the same mutation is pushed to the server cart best-effort. A failed push
// is logged and swallowed, the local cart stays the optimistic truth until
// the next hydration.
type Mirror struct {
	store  *cart.Store
	remote remote.Service
	orch   *Orchestrator
}

func NewMirror(store *cart.Store, svc remote.Service, orch *Orchestrator) *Mirror {
	return &Mirror{store: store, remote: svc, orch: orch}
}

func (m *Mirror) Add(ctx context.Context, item cart.Item, qty int) {
	m.store.Add(item, qty)

	token := m.orch.ActiveToken()
	if token == "" {
		return
	}

	// Push the resulting absolute quantity so the server converges on the
	// local view regardless of its own add semantics.
	total := m.store.Quantity(item.ProductID)
	if err := m.remote.AddOrUpdateItem(ctx, token, item.ProductID, total); err != nil {
		logger.FromCtx(ctx).Warn("failed to push cart add to server",
			zap.String("product_id", item.ProductID),
			zap.Error(err),
		)
	}
}

func (m *Mirror) UpdateQuantity(ctx context.Context, productID string, qty int) {
	m.store.UpdateQuantity(productID, qty)

	token := m.orch.ActiveToken()
	if token == "" {
		return
	}

	var err error
	if qty <= 0 {
		err = m.remote.RemoveItem(ctx, token, productID)
	} else {
		err = m.remote.UpdateItem(ctx, token, productID, qty)
	}
	if err != nil {
		logger.FromCtx(ctx).Warn("failed to push cart update to server",
			zap.String("product_id", productID),
			zap.Int("quantity", qty),
			zap.Error(err),
		)
	}
}

func (m *Mirror) Remove(ctx context.Context, productID string) {
	m.store.Remove(productID)

	token := m.orch.ActiveToken()
	if token == "" {
		return
	}

	if err := m.remote.RemoveItem(ctx, token, productID); err != nil {
		logger.FromCtx(ctx).Warn("failed to push cart removal to server",
			zap.String("product_id", productID),
			zap.Error(err),
		)
	}
}

func (m *Mirror) Clear(ctx context.Context) {
	m.store.Clear()

	token := m.orch.ActiveToken()
	if token == "" {
		return
	}

	if err := m.remote.ClearCart(ctx, token); err != nil {
		logger.FromCtx(ctx).Warn("failed to push cart clear to server", zap.Error(err))
	}
}
