package domain

type Category struct {
	ID          string `db:"id" json:"id"`
	Name        string `db:"name" json:"name"`
	Description string `db:"description" json:"description"`
	CreatedAt   string `db:"created_at" json:"created_at"`
	UpdatedAt   string `db:"updated_at" json:"updated_at"`
}

type Supplier struct {
	ID        string `db:"id" json:"id"`
	Name      string `db:"name" json:"name"`
	Email     string `db:"email" json:"email"`
	Phone     string `db:"phone" json:"phone"`
	Address   string `db:"address" json:"address"`
	CreatedAt string `db:"created_at" json:"created_at"`
	UpdatedAt string `db:"updated_at" json:"updated_at"`
}

type Product struct {
	ID          string  `db:"id" json:"id"`
	CategoryID  string  `db:"category_id" json:"category_id"`
	Name        string  `db:"name" json:"name"`
	Description string  `db:"description" json:"description"`
	SKU         string  `db:"sku" json:"sku"`
	Price       float64 `db:"price" json:"price"`
	Active      bool    `db:"active" json:"is_active"`
	CreatedAt   string  `db:"created_at" json:"created_at"`
	UpdatedAt   string  `db:"updated_at" json:"updated_at"`
}

// Inventory is the per-product stock ledger row. reserved never exceeds
// on_hand; only the ledger operations in repos mutate these counters.
type Inventory struct {
	ProductID    string `db:"product_id" json:"product_id"`
	OnHand       int    `db:"on_hand" json:"on_hand"`
	Reserved     int    `db:"reserved" json:"reserved"`
	ReorderLevel int    `db:"reorder_level" json:"reorder_level"`
	UpdatedAt    string `db:"updated_at" json:"updated_at"`
}

// Available is the quantity sellable right now.
func (i Inventory) Available() int { return i.OnHand - i.Reserved }

type Availability struct {
	Status    string `json:"status"` // IN_STOCK | LOW_STOCK | OUT_OF_STOCK
	Available int    `json:"available"`
}
