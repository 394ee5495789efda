package domain

const (
	StatusPending    = "PENDING"
	StatusConfirmed  = "CONFIRMED"
	StatusProcessing = "PROCESSING"
	StatusShipped    = "SHIPPED"
	StatusDelivered  = "DELIVERED"
	StatusCancelled  = "CANCELLED"
	StatusReturned   = "RETURNED"
)

// ValidStatus reports whether s is one of the enumerated order statuses.
func ValidStatus(s string) bool {
	switch s {
	case StatusPending, StatusConfirmed, StatusProcessing,
		StatusShipped, StatusDelivered, StatusCancelled, StatusReturned:
		return true
	}
	return false
}

// TerminalStatus reports whether s admits no further transitions.
func TerminalStatus(s string) bool {
	switch s {
	case StatusDelivered, StatusCancelled, StatusReturned:
		return true
	}
	return false
}

// Order is an immutable-after-creation purchase snapshot. Monetary fields
// are frozen at checkout; only status and the two date stamps change later.
type Order struct {
	ID              string  `db:"id" json:"id"`
	OrderNumber     string  `db:"order_number" json:"order_number"`
	UserID          string  `db:"user_id" json:"user_id"`
	Status          string  `db:"status" json:"status"`
	Subtotal        float64 `db:"subtotal" json:"subtotal"`
	ShippingCost    float64 `db:"shipping_cost" json:"shipping_cost"`
	TaxAmount       float64 `db:"tax_amount" json:"tax_amount"`
	TotalAmount     float64 `db:"total_amount" json:"total_amount"`
	ShippingAddress string  `db:"shipping_address" json:"shipping_address"`
	ShippingPhone   string  `db:"shipping_phone" json:"shipping_phone"`
	Notes           string  `db:"notes" json:"notes,omitempty"`
	OrderDate       string  `db:"order_date" json:"order_date"`
	ShippedDate     string  `db:"shipped_date" json:"shipped_date,omitempty"`
	DeliveredDate   string  `db:"delivered_date" json:"delivered_date,omitempty"`
}

type OrderItem struct {
	OrderID   string  `db:"order_id" json:"-"`
	ProductID string  `db:"product_id" json:"product_id"`
	Name      string  `db:"name" json:"name"`
	Qty       int     `db:"qty" json:"quantity"`
	// price at order time, not the live catalog price
	UnitPrice  float64 `db:"unit_price" json:"unit_price"`
	TotalPrice float64 `db:"total_price" json:"total_price"`
}
