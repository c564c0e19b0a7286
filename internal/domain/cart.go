package domain

// CartItem is a single line in a shopping cart. Items are created by the cart
// service on add-to-cart, mutated only through confirmed quantity updates,
// and destroyed on removal or when quantity would fall below 1.
type CartItem struct {
	ID              string  `json:"id"`
	Product         Product `json:"product"`
	Size            string  `json:"size"`
	Quantity        int     `json:"quantity"`
	Price           int64   `json:"price"`
	DiscountedPrice int64   `json:"discounted_price"`
	DiscountPercent int     `json:"discount_percent"`
}
