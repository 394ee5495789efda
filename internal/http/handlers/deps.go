package handlers

import (
	"github.com/jmoiron/sqlx"

	"stockroom/internal/repos"
	"stockroom/internal/services"
)

type Deps struct {
	CatalogHandler   *CatalogHandler
	InventoryHandler *InventoryHandler
	CartHandler      *CartHandler
	OrderHandler     *OrderHandler
	AdminHandler     *AdminHandler
}

func NewDeps(db *sqlx.DB, auth *services.AuthService) *Deps {
	catRepo := repos.NewCategoryRepo(db)
	prodRepo := repos.NewProductRepo(db)
	supRepo := repos.NewSupplierRepo(db)
	invRepo := repos.NewInventoryRepo(db)
	cartRepo := repos.NewCartRepo(db)
	orderRepo := repos.NewOrderRepo(db)

	catalogSvc := services.NewCatalogService(catRepo, prodRepo, supRepo)
	invSvc := services.NewInventoryService(invRepo)
	cartSvc := services.NewCartService(db, cartRepo, prodRepo, invRepo)
	orderSvc := services.NewOrderService(db, cartRepo, invRepo, orderRepo)
	statsSvc := services.NewStatsService(orderRepo, invRepo)

	return &Deps{
		CatalogHandler:   &CatalogHandler{Catalog: catalogSvc, Inv: invSvc},
		InventoryHandler: &InventoryHandler{Inv: invSvc},
		CartHandler:      &CartHandler{Cart: cartSvc},
		OrderHandler:     &OrderHandler{Cart: cartSvc, Order: orderSvc, Stats: statsSvc},
		AdminHandler: &AdminHandler{
			Order: orderSvc, Stats: statsSvc, Catalog: catalogSvc,
			InvRepo: invRepo, ProdRepo: prodRepo, SupRepo: supRepo,
		},
	}
}
