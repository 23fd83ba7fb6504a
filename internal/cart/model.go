package cart

// Item is a single product line in the cart. Title, price and seller fields
// are snapshots taken when the product was added to the cart; they are never
// re-fetched from the catalog.
type Item struct {
	ProductID  string   `json:"product_id"`
	Title      string   `json:"title"`
	UnitPrice  int64    `json:"unit_price"`
	Images     []string `json:"images"`
	SellerName string   `json:"seller_name"`
	ShopSlug   string   `json:"shop_slug"`
	Quantity   int      `json:"quantity"`
}

// PrimaryImage returns the first image reference, or "" when none exist.
func (i Item) PrimaryImage() string {
	if len(i.Images) == 0 {
		return ""
	}
	return i.Images[0]
}
