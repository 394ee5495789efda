package handlers_test

import (
	"encoding/json"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	_ "modernc.org/sqlite" // pure-Go SQLite driver

	"stockroom/internal/http/handlers"
	"stockroom/internal/repos"
	"stockroom/internal/services"
)

func availApp(t *testing.T) (*fiber.App, *repos.InventoryRepo) {
	t.Helper()
	db, err := repos.OpenDB(":memory:")
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	db.SetMaxOpenConns(1)

	inv := repos.NewInventoryRepo(db)
	h := &handlers.InventoryHandler{Inv: services.NewInventoryService(inv)}
	app := fiber.New()
	app.Get("/api/v1/availability", h.Check)
	return app, inv
}

func TestAvailabilityStatuses(t *testing.T) {
	app, inv := availApp(t)

	check := func(productID, wantStatus string, wantAvail int) {
		t.Helper()
		resp, err := app.Test(httptest.NewRequest("GET", "/api/v1/availability?productId="+productID, nil))
		if err != nil {
			t.Fatalf("request failed: %v", err)
		}
		if resp.StatusCode != 200 {
			t.Fatalf("want 200, got %d", resp.StatusCode)
		}
		var got struct {
			Status    string `json:"status"`
			Available int    `json:"available"`
		}
		if err := json.NewDecoder(resp.Body).Decode(&got); err != nil {
			t.Fatal(err)
		}
		if got.Status != wantStatus || got.Available != wantAvail {
			t.Fatalf("%s: want %s(%d), got %s(%d)", productID, wantStatus, wantAvail, got.Status, got.Available)
		}
	}

	// seeded keyboard: 25 on hand, reorder level 5
	check("kb-mech-87", "IN_STOCK", 25)

	// reservations move it to LOW_STOCK once available <= reorder level
	if err := inv.Reserve(inv.DB, "kb-mech-87", 21); err != nil {
		t.Fatal(err)
	}
	check("kb-mech-87", "LOW_STOCK", 4)

	// a product nobody ever stocked reads as out of stock, not as an error
	check("never-stocked", "OUT_OF_STOCK", 0)
}

func TestAvailabilityRejectsBadParam(t *testing.T) {
	app, _ := availApp(t)

	resp, err := app.Test(httptest.NewRequest("GET", "/api/v1/availability", nil))
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	if resp.StatusCode != fiber.StatusBadRequest {
		t.Fatalf("want 400, got %d", resp.StatusCode)
	}
}
