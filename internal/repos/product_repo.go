package repos

import (
	"github.com/jmoiron/sqlx"

	"stockroom/internal/domain"
)

type ProductRepo struct{ DB *sqlx.DB }

func NewProductRepo(db *sqlx.DB) *ProductRepo { return &ProductRepo{DB: db} }

func (r *ProductRepo) Get(id string) (domain.Product, error) {
	var p domain.Product
	err := r.DB.Get(&p, `
	  SELECT id, category_id, name, COALESCE(description,'') AS description, sku, price,
	         active, created_at, COALESCE(updated_at,'') AS updated_at
	  FROM products
	  WHERE id = ?
	`, id)
	return p, err
}

// List returns active products, optionally narrowed by a name search and a
// category id.
func (r *ProductRepo) List(search, categoryID string, limit, offset int) ([]domain.Product, error) {
	where := `active = 1`
	args := []any{}
	if search != "" {
		where += ` AND LOWER(name) LIKE ?`
		args = append(args, "%"+search+"%")
	}
	if categoryID != "" {
		where += ` AND category_id = ?`
		args = append(args, categoryID)
	}

	q := `
	  SELECT id, category_id, name, COALESCE(description,'') AS description, sku, price,
	         active, created_at, COALESCE(updated_at,'') AS updated_at
	  FROM products
	  WHERE ` + where + `
	  ORDER BY name
	  LIMIT ? OFFSET ?`
	args = append(args, limit, offset)

	var out []domain.Product
	err := r.DB.Select(&out, q, args...)
	return out, err
}

func (r *ProductRepo) Insert(p *domain.Product) error {
	active := 0
	if p.Active {
		active = 1
	}
	_, err := r.DB.Exec(`
	  INSERT INTO products(id, category_id, name, description, sku, price, active)
	  VALUES(?,?,?,?,?,?,?)
	`, p.ID, p.CategoryID, p.Name, p.Description, p.SKU, p.Price, active)
	return err
}
