package services_test

import (
	"database/sql"
	"errors"
	"math"
	"testing"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite" // pure-Go SQLite driver

	"stockroom/internal/repos"
	"stockroom/internal/services"
)

func memdb(t *testing.T) *sqlx.DB {
	t.Helper()
	db, err := repos.OpenDB(":memory:")
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	// :memory: gives each connection its own database
	db.SetMaxOpenConns(1)
	return db
}

func newCartService(db *sqlx.DB) (*services.CartService, *repos.InventoryRepo) {
	inv := repos.NewInventoryRepo(db)
	return services.NewCartService(db, repos.NewCartRepo(db), repos.NewProductRepo(db), inv), inv
}

func about(a, b float64) bool { return math.Abs(a-b) < 0.001 }

func TestCartAddCapsAtAvailable(t *testing.T) {
	db := memdb(t)
	cartSvc, _ := newCartService(db)

	// chair-ergo has only 4 on hand
	res, err := cartSvc.Add("u-dana", "chair-ergo", 6)
	if err != nil {
		t.Fatal(err)
	}
	if res.Qty != 4 || !res.Capped {
		t.Fatalf("want capped at 4, got %+v", res)
	}

	// adding more cannot push the line past availability
	res, err = cartSvc.Add("u-dana", "chair-ergo", 1)
	if err != nil {
		t.Fatal(err)
	}
	if res.Qty != 4 || !res.Capped {
		t.Fatalf("line should stay at 4, got %+v", res)
	}
}

func TestCartAddRejectsOutOfStock(t *testing.T) {
	db := memdb(t)
	cartSvc, inv := newCartService(db)

	// another order holds every chair
	if err := inv.Reserve(db, "chair-ergo", 4); err != nil {
		t.Fatal(err)
	}
	_, err := cartSvc.Add("u-dana", "chair-ergo", 1)
	if !errors.Is(err, services.ErrOutOfStock) {
		t.Fatalf("want ErrOutOfStock, got %v", err)
	}
}

func TestCartTotalFollowsCatalogPrice(t *testing.T) {
	db := memdb(t)
	cartSvc, _ := newCartService(db)

	if _, err := cartSvc.Add("u-dana", "paper-a4", 10); err != nil {
		t.Fatal(err)
	}
	cv, err := cartSvc.View("u-dana")
	if err != nil {
		t.Fatal(err)
	}
	if !about(cv.Total, 64.90) { // 10 x 6.49
		t.Fatalf("want 64.90, got %.2f", cv.Total)
	}

	// cart totals are derived from the live catalog price, not a snapshot
	if _, err := db.Exec(`UPDATE products SET price = 5.00 WHERE id = 'paper-a4'`); err != nil {
		t.Fatal(err)
	}
	cv, err = cartSvc.View("u-dana")
	if err != nil {
		t.Fatal(err)
	}
	if !about(cv.Total, 50.00) {
		t.Fatalf("want 50.00 after price change, got %.2f", cv.Total)
	}
}

func TestCartUpdateOnlyTouchesExistingLines(t *testing.T) {
	db := memdb(t)
	cartSvc, _ := newCartService(db)

	// delisted but still stocked
	if _, err := db.Exec(`UPDATE products SET active = 0 WHERE id = 'paper-a4'`); err != nil {
		t.Fatal(err)
	}
	_, err := cartSvc.Update("u-dana", "paper-a4", 2)
	if !errors.Is(err, sql.ErrNoRows) {
		t.Fatalf("want ErrNoRows for a product not in the cart, got %v", err)
	}
	cv, err := cartSvc.View("u-dana")
	if err != nil {
		t.Fatal(err)
	}
	if len(cv.Items) != 0 {
		t.Fatalf("update must not create lines, got %+v", cv.Items)
	}
}

func TestCartUpdateZeroRemovesLine(t *testing.T) {
	db := memdb(t)
	cartSvc, _ := newCartService(db)

	if _, err := cartSvc.Add("u-dana", "paper-a4", 3); err != nil {
		t.Fatal(err)
	}
	if _, err := cartSvc.Update("u-dana", "paper-a4", 0); err != nil {
		t.Fatal(err)
	}
	cv, err := cartSvc.View("u-dana")
	if err != nil {
		t.Fatal(err)
	}
	if len(cv.Items) != 0 {
		t.Fatalf("want empty cart, got %+v", cv.Items)
	}
}
