package repos

import (
	"github.com/jmoiron/sqlx"

	"stockroom/internal/domain"
)

type SupplierRepo struct{ DB *sqlx.DB }

func NewSupplierRepo(db *sqlx.DB) *SupplierRepo { return &SupplierRepo{DB: db} }

func (r *SupplierRepo) List() ([]domain.Supplier, error) {
	var out []domain.Supplier
	err := r.DB.Select(&out, `
	  SELECT id, name, email, phone, COALESCE(address,'') AS address,
	         created_at, COALESCE(updated_at,'') AS updated_at
	  FROM suppliers
	  ORDER BY name
	`)
	return out, err
}

func (r *SupplierRepo) Insert(s *domain.Supplier) error {
	_, err := r.DB.Exec(`
	  INSERT INTO suppliers(id, name, email, phone, address)
	  VALUES(?,?,?,?,?)
	`, s.ID, s.Name, s.Email, s.Phone, s.Address)
	return err
}

// ProductSupplierRow lists a product's sourcing options for the detail page.
type ProductSupplierRow struct {
	SupplierID    string  `db:"supplier_id" json:"supplier_id"`
	Name          string  `db:"name" json:"name"`
	SupplierPrice float64 `db:"supplier_price" json:"supplier_price"`
	IsPrimary     bool    `db:"is_primary" json:"is_primary"`
}

func (r *SupplierRepo) ListForProduct(productID string) ([]ProductSupplierRow, error) {
	rows := []ProductSupplierRow{}
	err := r.DB.Select(&rows, `
	  SELECT ps.supplier_id, s.name, ps.supplier_price, ps.is_primary
	  FROM product_suppliers ps
	  JOIN suppliers s ON s.id = ps.supplier_id
	  WHERE ps.product_id = ?
	  ORDER BY ps.is_primary DESC, s.name
	`, productID)
	return rows, err
}

func (r *SupplierRepo) LinkProduct(productID, supplierID string, price float64, primary bool) error {
	p := 0
	if primary {
		p = 1
	}
	_, err := r.DB.Exec(`
	  INSERT INTO product_suppliers(product_id, supplier_id, supplier_price, is_primary)
	  VALUES(?,?,?,?)
	  ON CONFLICT(product_id, supplier_id) DO UPDATE
	  SET supplier_price = excluded.supplier_price, is_primary = excluded.is_primary
	`, productID, supplierID, price, p)
	return err
}
