package repos

import (
	"database/sql"

	"github.com/jmoiron/sqlx"
)

type CartRepo struct{ DB *sqlx.DB }

func NewCartRepo(db *sqlx.DB) *CartRepo { return &CartRepo{DB: db} }

// CartLine joins a cart item with the live product row. Price is the
// product's current price, never a stored copy, so the cart total always
// reflects catalog changes made after the item was added.
type CartLine struct {
	ProductID string  `db:"product_id" json:"product_id"`
	Name      string  `db:"name" json:"name"`
	SKU       string  `db:"sku" json:"sku"`
	Qty       int     `db:"qty" json:"quantity"`
	Price     float64 `db:"price" json:"price"`
	Subtotal  float64 `db:"subtotal" json:"total_price"`
}

// ID returns the id of the user's cart. Carts are created together with the
// user, so a missing cart is an error rather than a trigger to create one.
func (r *CartRepo) ID(ext sqlx.Ext, userID string) (string, error) {
	var cartID string
	err := sqlx.Get(ext, &cartID, `SELECT id FROM carts WHERE user_id = ?`, userID)
	return cartID, err
}

func (r *CartRepo) Lines(ext sqlx.Ext, cartID string) ([]CartLine, error) {
	lines := []CartLine{}
	err := sqlx.Select(ext, &lines, `
	  SELECT ci.product_id, p.name, p.sku, ci.qty, p.price,
	         (ci.qty * p.price) AS subtotal
	  FROM cart_items ci JOIN products p ON p.id = ci.product_id
	  WHERE ci.cart_id = ?
	  ORDER BY p.name
	`, cartID)
	return lines, err
}

// LineQty returns the quantity of an existing line, 0 if the product is not
// in the cart.
func (r *CartRepo) LineQty(ext sqlx.Ext, cartID, productID string) (int, error) {
	var qty int
	err := sqlx.Get(ext, &qty, `
		SELECT qty FROM cart_items WHERE cart_id = ? AND product_id = ?
	`, cartID, productID)
	if err == sql.ErrNoRows {
		return 0, nil
	}
	return qty, err
}

func (r *CartRepo) SetLine(ext sqlx.Ext, cartID, productID string, qty int) error {
	_, err := ext.Exec(`
		INSERT INTO cart_items(cart_id, product_id, qty, created_at)
		VALUES(?, ?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(cart_id, product_id) DO UPDATE
		SET qty = excluded.qty, updated_at = CURRENT_TIMESTAMP
	`, cartID, productID, qty)
	return err
}

func (r *CartRepo) RemoveLine(ext sqlx.Ext, cartID, productID string) error {
	_, err := ext.Exec(`DELETE FROM cart_items WHERE cart_id = ? AND product_id = ?`, cartID, productID)
	return err
}

func (r *CartRepo) Clear(ext sqlx.Ext, cartID string) error {
	_, err := ext.Exec(`DELETE FROM cart_items WHERE cart_id = ?`, cartID)
	return err
}
