package domain

// Address is a shipping address attached to an order.
type Address struct {
	FullName string `json:"full_name"`
	Street   string `json:"street"`
	City     string `json:"city"`
	State    string `json:"state"`
	ZipCode  string `json:"zip_code"`
	Phone    string `json:"phone"`
}

// Order is an immutable snapshot fetched once per order identifier.
// OrderItems are cart-item snapshots taken at checkout time.
type Order struct {
	ID                   string     `json:"id"`
	ShippingAddress      Address    `json:"shipping_address"`
	OrderItems           []CartItem `json:"order_items"`
	TotalPrice           int64      `json:"total_price"`
	TotalDiscountedPrice int64      `json:"total_discounted_price"`
}

// PriceBreakdown is the derived summary shown alongside an order.
// Discount is computed from the order totals rather than displayed from a
// fixed figure. DeliveryCharge stays nil until the order service reports
// one; callers must render it as unavailable, not as zero or free.
type PriceBreakdown struct {
	Price          int64  `json:"price"`
	Discount       int64  `json:"discount"`
	Total          int64  `json:"total"`
	DeliveryCharge *int64 `json:"delivery_charge,omitempty"`
}

// Breakdown derives the price summary from the order totals.
func (o *Order) Breakdown() PriceBreakdown {
	return PriceBreakdown{
		Price:    o.TotalPrice,
		Discount: o.TotalPrice - o.TotalDiscountedPrice,
		Total:    o.TotalDiscountedPrice,
	}
}
