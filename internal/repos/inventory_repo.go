package repos

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
)

// Ledger errors. ErrInsufficientStock is a user-facing condition; ErrInvariant
// means a caller asked the ledger to do something that could never be valid
// (release or commit beyond what is reserved) and indicates a logic bug.
var (
	ErrInsufficientStock = errors.New("insufficient stock")
	ErrInvariant         = errors.New("inventory invariant violation")
)

type InventoryRepo struct{ DB *sqlx.DB }

func NewInventoryRepo(db *sqlx.DB) *InventoryRepo { return &InventoryRepo{DB: db} }

// Reserve claims qty units of stock for an in-flight order. The guarded
// UPDATE only matches while enough unreserved stock exists, so two
// concurrent checkouts cannot both claim the same units; a failed reserve
// leaves the counters untouched. ext is the caller's transaction.
func (r *InventoryRepo) Reserve(ext sqlx.Ext, productID string, qty int) error {
	if qty < 1 {
		return fmt.Errorf("%w: reserve %d of %s", ErrInvariant, qty, productID)
	}
	res, err := ext.Exec(`
		UPDATE inventory
		SET reserved = reserved + ?, updated_at = CURRENT_TIMESTAMP
		WHERE product_id = ? AND on_hand - reserved >= ?
	`, qty, productID, qty)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("%w: product %s (want %d)", ErrInsufficientStock, productID, qty)
	}
	return nil
}

// Release returns qty reserved units to the available pool (order cancelled
// or returned before fulfillment).
func (r *InventoryRepo) Release(ext sqlx.Ext, productID string, qty int) error {
	if qty < 1 {
		return fmt.Errorf("%w: release %d of %s", ErrInvariant, qty, productID)
	}
	res, err := ext.Exec(`
		UPDATE inventory
		SET reserved = reserved - ?, updated_at = CURRENT_TIMESTAMP
		WHERE product_id = ? AND reserved >= ?
	`, qty, productID, qty)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("%w: release %d of %s exceeds reserved", ErrInvariant, qty, productID)
	}
	return nil
}

// Commit removes qty delivered units from both on_hand and reserved: the
// stock physically left the warehouse and is no longer promised to anyone.
func (r *InventoryRepo) Commit(ext sqlx.Ext, productID string, qty int) error {
	if qty < 1 {
		return fmt.Errorf("%w: commit %d of %s", ErrInvariant, qty, productID)
	}
	res, err := ext.Exec(`
		UPDATE inventory
		SET on_hand = on_hand - ?, reserved = reserved - ?, updated_at = CURRENT_TIMESTAMP
		WHERE product_id = ? AND reserved >= ? AND on_hand >= ?
	`, qty, qty, productID, qty, qty)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("%w: commit %d of %s exceeds reserved stock", ErrInvariant, qty, productID)
	}
	return nil
}

// Available returns on_hand - reserved. A product without a ledger row has
// nothing to sell.
func (r *InventoryRepo) Available(ext sqlx.Ext, productID string) (int, error) {
	var avail int
	err := sqlx.Get(ext, &avail, `
		SELECT on_hand - reserved FROM inventory WHERE product_id = ?
	`, productID)
	if err == sql.ErrNoRows {
		return 0, nil
	}
	return avail, err
}

// Row used by the admin inventory page
type InventoryRow struct {
	ProductID    string `db:"product_id" json:"product_id"`
	Name         string `db:"name" json:"name"`
	SKU          string `db:"sku" json:"sku"`
	OnHand       int    `db:"on_hand" json:"on_hand"`
	Reserved     int    `db:"reserved" json:"reserved"`
	Available    int    `db:"available" json:"available"`
	ReorderLevel int    `db:"reorder_level" json:"reorder_level"`
}

func (r *InventoryRepo) ListAll() ([]InventoryRow, error) {
	var rows []InventoryRow
	err := r.DB.Select(&rows, `
		SELECT i.product_id, p.name, p.sku, i.on_hand, i.reserved,
		       (i.on_hand - i.reserved) AS available, i.reorder_level
		FROM inventory i
		JOIN products p ON p.id = i.product_id
		ORDER BY p.name
	`)
	return rows, err
}

// Counts returns the raw ledger row for a product.
func (r *InventoryRepo) Counts(productID string) (onHand, reserved, reorderLevel int, err error) {
	var row struct {
		OnHand       int `db:"on_hand"`
		Reserved     int `db:"reserved"`
		ReorderLevel int `db:"reorder_level"`
	}
	err = r.DB.Get(&row, `SELECT on_hand, reserved, reorder_level FROM inventory WHERE product_id = ?`, productID)
	return row.OnHand, row.Reserved, row.ReorderLevel, err
}

// SetStock sets on_hand and reorder level for a product, creating the ledger
// row if needed. The table CHECK rejects an on_hand below current reserved.
func (r *InventoryRepo) SetStock(productID string, onHand, reorderLevel int) error {
	_, err := r.DB.Exec(`
		INSERT INTO inventory(product_id, on_hand, reserved, reorder_level, updated_at)
		VALUES (?, ?, 0, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(product_id) DO UPDATE
		SET on_hand = excluded.on_hand, reorder_level = excluded.reorder_level,
		    updated_at = CURRENT_TIMESTAMP
	`, productID, onHand, reorderLevel)
	return err
}

// LowStockCount counts products whose available quantity fell to or below
// their reorder level (dashboard metric).
func (r *InventoryRepo) LowStockCount() (int, error) {
	var n int
	err := r.DB.Get(&n, `
		SELECT COUNT(*) FROM inventory
		WHERE on_hand - reserved <= reorder_level AND reorder_level > 0
	`)
	return n, err
}
