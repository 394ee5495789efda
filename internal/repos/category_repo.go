package repos

import (
	"github.com/jmoiron/sqlx"

	"stockroom/internal/domain"
)

type CategoryRepo struct{ DB *sqlx.DB }

func NewCategoryRepo(db *sqlx.DB) *CategoryRepo { return &CategoryRepo{DB: db} }

func (r *CategoryRepo) List() ([]domain.Category, error) {
	var out []domain.Category
	err := r.DB.Select(&out, `
	  SELECT id, name, COALESCE(description,'') AS description,
	         created_at, COALESCE(updated_at,'') AS updated_at
	  FROM categories
	  ORDER BY name
	`)
	return out, err
}
