package remote

import "context"

// Item is one cart line as the server reports it.
type Item struct {
	ProductID string
	Title     string
	Price     int64
	Image     string
	Quantity  int
}

// MergeItem is the minimal payload for pushing a local line into the server
// cart. Conflict resolution for overlapping products is the server's policy.
type MergeItem struct {
	ProductID string `json:"product"`
	Quantity  int    `json:"quantity"`
}

// Service is the client contract for the cart API. Every call is a network
// request and may fail; callers must treat failures as non-fatal to the
// local cart.
type Service interface {
	GetCart(ctx context.Context, token string) ([]Item, error)
	MergeCart(ctx context.Context, token string, items []MergeItem) error
	AddOrUpdateItem(ctx context.Context, token, productID string, quantity int) error
	UpdateItem(ctx context.Context, token, productID string, quantity int) error
	RemoveItem(ctx context.Context, token, productID string) error
	ClearCart(ctx context.Context, token string) error
}
