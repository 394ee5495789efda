package handlers_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	html "github.com/gofiber/template/html/v2"
	"github.com/stretchr/testify/require"

	"stockroom/internal/http/handlers"
	"stockroom/internal/repos"
	"stockroom/internal/services"
)

// apiApp wires the JSON API the same way main does, minus the throttles.
func apiApp(t *testing.T) *fiber.App {
	t.Helper()
	db, err := repos.OpenDB(":memory:")
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	db.SetMaxOpenConns(1)

	userRepo := repos.NewUserRepo(db)
	authSvc := &services.AuthService{Users: userRepo}
	authH := &handlers.AuthHandler{Auth: authSvc}
	deps := handlers.NewDeps(db, authSvc)

	// bind sessions directly; the login handler has its own tests
	require.NoError(t, userRepo.BindSession("sid-dana", "u-dana"))
	require.NoError(t, userRepo.BindSession("sid-admin", "u-admin"))

	engine := html.New("../../web/templates", ".html")
	app := fiber.New(fiber.Config{Views: engine})
	api := app.Group("/api/v1")
	api.Get("/cart", handlers.RequireUser(authSvc), deps.CartHandler.APIShow)
	api.Post("/cart/items", handlers.RequireUser(authSvc), deps.CartHandler.APIAddItem)
	api.Post("/orders", handlers.RequireUser(authSvc), deps.OrderHandler.APICreate)
	api.Get("/orders", handlers.RequireUser(authSvc), deps.OrderHandler.APIList)
	api.Get("/profile", handlers.RequireUser(authSvc), authH.APIProfile)
	api.Patch("/profile", handlers.RequireUser(authSvc), authH.APIUpdateProfile)
	api.Patch("/admin/orders/:id/status", handlers.RequireAdmin(authSvc), deps.AdminHandler.APIUpdateOrderStatus)
	return app
}

func doJSON(t *testing.T, app *fiber.App, method, target, sid, body string) (int, map[string]any) {
	t.Helper()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if sid != "" {
		req.AddCookie(&http.Cookie{Name: "sid", Value: sid})
	}
	resp, err := app.Test(req)
	require.NoError(t, err)
	var out map[string]any
	_ = json.NewDecoder(resp.Body).Decode(&out)
	return resp.StatusCode, out
}

func TestAPICartCheckoutAndStatus(t *testing.T) {
	app := apiApp(t)

	// add two keyboards
	code, body := doJSON(t, app, "POST", "/api/v1/cart/items", "sid-dana",
		`{"product_id":"kb-mech-87","quantity":2}`)
	require.Equal(t, fiber.StatusCreated, code)
	require.Equal(t, float64(2), body["quantity"])
	require.Equal(t, false, body["capped"])

	// the cart reflects it
	code, body = doJSON(t, app, "GET", "/api/v1/cart", "sid-dana", "")
	require.Equal(t, 200, code)
	require.Equal(t, float64(1), body["total_items"])

	// checkout into a PENDING order
	code, body = doJSON(t, app, "POST", "/api/v1/orders", "sid-dana",
		`{"shipping_address":"8125 Paint Branch Dr","shipping_phone":"301-555-0142","shipping_cost":5,"tax_amount":0}`)
	require.Equal(t, fiber.StatusCreated, code)
	orderID, _ := body["id"].(string)
	require.NotEmpty(t, orderID)
	require.Equal(t, "PENDING", body["status"])

	// a plain user cannot drive the state machine
	code, _ = doJSON(t, app, "PATCH", "/api/v1/admin/orders/"+orderID+"/status", "sid-dana",
		`{"status":"SHIPPED"}`)
	require.Equal(t, fiber.StatusForbidden, code)

	// the admin can
	code, body = doJSON(t, app, "PATCH", "/api/v1/admin/orders/"+orderID+"/status", "sid-admin",
		`{"status":"CONFIRMED"}`)
	require.Equal(t, 200, code)
	require.Equal(t, "CONFIRMED", body["status"])

	// an unknown status is rejected at the API surface
	code, body = doJSON(t, app, "PATCH", "/api/v1/admin/orders/"+orderID+"/status", "sid-admin",
		`{"status":"TELEPORTED"}`)
	require.Equal(t, fiber.StatusBadRequest, code)
	require.NotEmpty(t, body["error"])
}

func TestAPIProfilePatchKeepsOmittedFields(t *testing.T) {
	app := apiApp(t)

	code, body := doJSON(t, app, "PATCH", "/api/v1/profile", "sid-dana",
		`{"phone":"301-555-0199","address":"2 Elm St, Laurel MD"}`)
	require.Equal(t, 200, code)
	require.Equal(t, "Dana", body["name"]) // untouched
	require.Equal(t, "301-555-0199", body["phone"])
	require.Equal(t, "2 Elm St, Laurel MD", body["address"])

	// a later read sees the saved values
	code, body = doJSON(t, app, "GET", "/api/v1/profile", "sid-dana", "")
	require.Equal(t, 200, code)
	require.Equal(t, "301-555-0199", body["phone"])
	require.Equal(t, "2 Elm St, Laurel MD", body["address"])

	// garbage is rejected before it reaches the row
	code, body = doJSON(t, app, "PATCH", "/api/v1/profile", "sid-dana",
		`{"phone":"not-a-number"}`)
	require.Equal(t, fiber.StatusBadRequest, code)
	require.NotEmpty(t, body["error"])
}

func TestAPIRequiresSession(t *testing.T) {
	app := apiApp(t)

	// no session: redirected to the login page rather than served
	code, _ := doJSON(t, app, "GET", "/api/v1/cart", "", "")
	require.Equal(t, fiber.StatusFound, code)
}
