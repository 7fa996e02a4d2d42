package domain

// CartProduct is the product snapshot embedded in a cart line item.
type CartProduct struct {
	ID       int64   `json:"id"`
	Name     string  `json:"name"`
	Price    float64 `json:"price"`
	ImageURL string  `json:"image_url,omitempty"`
	Stock    int     `json:"stock,omitempty"`
}

// CartItem is a single line item in the cart. The ID is server-assigned; the
// collection is always refetched wholesale from the backend, never patched
// locally, so concurrent stock or price changes cannot drift the client copy.
type CartItem struct {
	ID        int64       `json:"id"`
	ProductID int64       `json:"product_id"`
	Quantity  int         `json:"quantity"`
	Product   CartProduct `json:"product"`
}

// ItemCount returns the total quantity across the given items.
// Recomputed on every call; never cached apart from the item collection.
func ItemCount(items []CartItem) int {
	var count int
	for _, item := range items {
		count += item.Quantity
	}
	return count
}

// Total returns the sum of price × quantity across the given items.
// Recomputed on every call; never cached apart from the item collection.
func Total(items []CartItem) float64 {
	var total float64
	for _, item := range items {
		total += item.Product.Price * float64(item.Quantity)
	}
	return total
}
