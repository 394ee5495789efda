package handlers_test

import (
	"io"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	html "github.com/gofiber/template/html/v2"

	applog "stockroom/internal/log"
)

func surfaceApp() *fiber.App {
	engine := html.New("../../web/templates", ".html")
	app := fiber.New(fiber.Config{
		Views: engine,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			applog.Error(c, "server.error", err, nil)
			if rerr := c.Status(fiber.StatusInternalServerError).Render("notfound", fiber.Map{
				"Message": "Something went wrong. Please try again.",
			}); rerr != nil {
				return c.Status(fiber.StatusInternalServerError).SendString("Something went wrong. Please try again.")
			}
			return nil
		},
	})
	app.Use(requestid.New())
	app.Get("/boom", func(c *fiber.Ctx) error {
		return fiber.NewError(fiber.StatusInternalServerError, "sqlite I/O error at /var/lib/stockroom.db")
	})
	app.Use(func(c *fiber.Ctx) error {
		return c.Status(404).Render("notfound", fiber.Map{"Message": "Page not found"})
	})
	return app
}

func TestInternalErrorsStayInternal(t *testing.T) {
	app := surfaceApp()

	resp, err := app.Test(httptest.NewRequest("GET", "/boom", nil))
	if err != nil {
		t.Fatalf("test request failed: %v", err)
	}
	if resp.StatusCode != fiber.StatusInternalServerError {
		t.Fatalf("want 500, got %d", resp.StatusCode)
	}
	b, _ := io.ReadAll(resp.Body)
	page := string(b)
	if !strings.Contains(page, "Something went wrong") {
		t.Fatalf("friendly message missing: %s", page)
	}
	// nothing about the store or file paths may reach the user
	if strings.Contains(page, "sqlite") || strings.Contains(page, "/var/lib") {
		t.Fatalf("internal details leaked: %s", page)
	}
}

func TestUnknownRouteRendersNotFound(t *testing.T) {
	app := surfaceApp()

	resp, err := app.Test(httptest.NewRequest("GET", "/no/such/page", nil))
	if err != nil {
		t.Fatalf("test request failed: %v", err)
	}
	if resp.StatusCode != 404 {
		t.Fatalf("want 404, got %d", resp.StatusCode)
	}
	b, _ := io.ReadAll(resp.Body)
	if !strings.Contains(string(b), "Page not found") {
		t.Fatalf("not-found page missing message: %s", string(b))
	}
}
