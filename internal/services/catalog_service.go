package services

import (
	"stockroom/internal/domain"
	"stockroom/internal/repos"
)

type CatalogService struct {
	Cats      *repos.CategoryRepo
	Prods     *repos.ProductRepo
	Suppliers *repos.SupplierRepo
}

func NewCatalogService(cats *repos.CategoryRepo, prods *repos.ProductRepo, sups *repos.SupplierRepo) *CatalogService {
	return &CatalogService{Cats: cats, Prods: prods, Suppliers: sups}
}

func (s *CatalogService) ListCategories() ([]domain.Category, error) {
	return s.Cats.List()
}

func (s *CatalogService) ListProducts(search, categoryID string, page, pageSize int) ([]domain.Product, error) {
	if page < 1 {
		page = 1
	}
	if pageSize <= 0 {
		pageSize = 20
	}
	offset := (page - 1) * pageSize
	return s.Prods.List(search, categoryID, pageSize, offset)
}

func (s *CatalogService) GetProduct(id string) (domain.Product, error) {
	return s.Prods.Get(id)
}

func (s *CatalogService) ProductSuppliers(productID string) ([]repos.ProductSupplierRow, error) {
	return s.Suppliers.ListForProduct(productID)
}

func (s *CatalogService) ListSuppliers() ([]domain.Supplier, error) {
	return s.Suppliers.List()
}
