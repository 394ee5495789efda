package repos

import (
	"github.com/jmoiron/sqlx"

	"stockroom/internal/domain"
)

type OrderRepo struct{ DB *sqlx.DB }

func NewOrderRepo(db *sqlx.DB) *OrderRepo { return &OrderRepo{DB: db} }

// Insert writes a new order header. order_date is stamped by the store once
// and never updated afterwards.
func (r *OrderRepo) Insert(ext sqlx.Ext, o *domain.Order) error {
	_, err := ext.Exec(`
	  INSERT INTO orders
	    (id, order_number, user_id, status, subtotal, shipping_cost, tax_amount,
	     total_amount, shipping_address, shipping_phone, notes, order_date)
	  VALUES (?,?,?,?,?,?,?,?,?,?,?,CURRENT_TIMESTAMP)
	`, o.ID, o.OrderNumber, o.UserID, o.Status, o.Subtotal, o.ShippingCost,
		o.TaxAmount, o.TotalAmount, o.ShippingAddress, o.ShippingPhone, o.Notes)
	return err
}

func (r *OrderRepo) InsertItem(ext sqlx.Ext, orderID, productID string, qty int, unitPrice float64) error {
	_, err := ext.Exec(`
	  INSERT INTO order_items(order_id, product_id, qty, unit_price)
	  VALUES(?, ?, ?, ?)
	`, orderID, productID, qty, unitPrice)
	return err
}

func (r *OrderRepo) Get(ext sqlx.Ext, orderID string) (domain.Order, error) {
	var o domain.Order
	err := sqlx.Get(ext, &o, `
		SELECT id, order_number, user_id, status, subtotal, shipping_cost, tax_amount,
		       total_amount, shipping_address, shipping_phone, COALESCE(notes,'') AS notes,
		       order_date, COALESCE(shipped_date,'') AS shipped_date,
		       COALESCE(delivered_date,'') AS delivered_date
		FROM orders WHERE id = ?
	`, orderID)
	return o, err
}

func (r *OrderRepo) Items(ext sqlx.Ext, orderID string) ([]domain.OrderItem, error) {
	var items []domain.OrderItem
	err := sqlx.Select(ext, &items, `
		SELECT oi.order_id, oi.product_id, p.name, oi.qty, oi.unit_price,
		       (oi.qty * oi.unit_price) AS total_price
		FROM order_items oi
		JOIN products p ON p.id = oi.product_id
		WHERE oi.order_id = ?
		ORDER BY p.name
	`, orderID)
	return items, err
}

func (r *OrderRepo) SetStatus(ext sqlx.Ext, orderID, status string) error {
	_, err := ext.Exec(`UPDATE orders SET status = ? WHERE id = ?`, status, orderID)
	return err
}

// StampShipped records the first time an order ships; re-shipping after a
// detour through an earlier status keeps the original date.
func (r *OrderRepo) StampShipped(ext sqlx.Ext, orderID string) error {
	_, err := ext.Exec(`
		UPDATE orders SET shipped_date = COALESCE(shipped_date, CURRENT_TIMESTAMP) WHERE id = ?
	`, orderID)
	return err
}

func (r *OrderRepo) StampDelivered(ext sqlx.Ext, orderID string) error {
	_, err := ext.Exec(`
		UPDATE orders SET delivered_date = COALESCE(delivered_date, CURRENT_TIMESTAMP) WHERE id = ?
	`, orderID)
	return err
}

func (r *OrderRepo) ListByUser(userID string) ([]domain.Order, error) {
	var out []domain.Order
	err := r.DB.Select(&out, `
		SELECT id, order_number, user_id, status, subtotal, shipping_cost, tax_amount,
		       total_amount, shipping_address, shipping_phone, COALESCE(notes,'') AS notes,
		       order_date, COALESCE(shipped_date,'') AS shipped_date,
		       COALESCE(delivered_date,'') AS delivered_date
		FROM orders
		WHERE user_id = ?
		ORDER BY datetime(order_date) DESC
	`, userID)
	return out, err
}

// ListLatest returns recent orders, optionally filtered by status (admin).
func (r *OrderRepo) ListLatest(status string, limit int) ([]domain.Order, error) {
	if limit <= 0 {
		limit = 100
	}
	q := `
		SELECT id, order_number, user_id, status, subtotal, shipping_cost, tax_amount,
		       total_amount, shipping_address, shipping_phone, COALESCE(notes,'') AS notes,
		       order_date, COALESCE(shipped_date,'') AS shipped_date,
		       COALESCE(delivered_date,'') AS delivered_date
		FROM orders`
	args := []any{}
	if status != "" {
		q += ` WHERE status = ?`
		args = append(args, status)
	}
	q += ` ORDER BY datetime(order_date) DESC LIMIT ?`
	args = append(args, limit)

	var out []domain.Order
	err := r.DB.Select(&out, q, args...)
	return out, err
}

type UserOrderStats struct {
	TotalOrders     int     `db:"total_orders" json:"total_orders"`
	PendingOrders   int     `db:"pending_orders" json:"pending_orders"`
	CompletedOrders int     `db:"completed_orders" json:"completed_orders"`
	TotalSpent      float64 `db:"total_spent" json:"total_spent"`
}

func (r *OrderRepo) StatsForUser(userID string) (UserOrderStats, error) {
	var s UserOrderStats
	err := r.DB.Get(&s, `
		SELECT COUNT(*) AS total_orders,
		       COALESCE(SUM(CASE WHEN status = 'PENDING'   THEN 1 ELSE 0 END),0) AS pending_orders,
		       COALESCE(SUM(CASE WHEN status = 'DELIVERED' THEN 1 ELSE 0 END),0) AS completed_orders,
		       COALESCE(SUM(total_amount),0) AS total_spent
		FROM orders WHERE user_id = ?
	`, userID)
	return s, err
}

type AdminStats struct {
	TotalOrders    int     `db:"total_orders" json:"total_orders"`
	PendingOrders  int     `db:"pending_orders" json:"pending_orders"`
	TotalRevenue   float64 `db:"total_revenue" json:"total_revenue"`
	TotalUsers     int     `db:"total_users" json:"total_users"`
	ActiveProducts int     `db:"active_products" json:"active_products"`
	LowStock       int     `json:"low_stock_products"`
}

func (r *OrderRepo) StatsForAdmin() (AdminStats, error) {
	var s AdminStats
	err := r.DB.Get(&s, `
		SELECT (SELECT COUNT(*) FROM orders)                            AS total_orders,
		       (SELECT COUNT(*) FROM orders WHERE status = 'PENDING')   AS pending_orders,
		       (SELECT COALESCE(SUM(total_amount),0) FROM orders)       AS total_revenue,
		       (SELECT COUNT(*) FROM users)                             AS total_users,
		       (SELECT COUNT(*) FROM products WHERE active = 1)         AS active_products
	`)
	return s, err
}
