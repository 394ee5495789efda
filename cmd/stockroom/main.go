package main

import (
	"io"
	"log"
	"os"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/csrf"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	html "github.com/gofiber/template/html/v2"

	"stockroom/internal/config"
	"stockroom/internal/http/handlers"
	applog "stockroom/internal/log"
	"stockroom/internal/repos"
	"stockroom/internal/services"
)

func main() {
	cfg := config.Load()

	// Optional file logging
	if cfg.LogFile != "" {
		f, err := os.OpenFile(cfg.LogFile, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
		if err != nil {
			log.Printf("[warn] could not open log file %s: %v", cfg.LogFile, err)
		} else {
			log.SetOutput(io.MultiWriter(os.Stdout, f))
		}
	}

	db, err := repos.OpenDB(cfg.DBDSN)
	if err != nil {
		log.Fatal(err)
	}

	// Auth wiring
	userRepo := repos.NewUserRepo(db)
	authSvc := &services.AuthService{Users: userRepo}
	authH := &handlers.AuthHandler{Auth: authSvc}

	// Templates & app
	engine := html.New("./web/templates", ".html")

	app := fiber.New(fiber.Config{
		Views: engine,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			applog.Error(c, "server.error", err, nil)
			// Avoid leaking internals; best-effort render
			if rerr := c.Status(fiber.StatusInternalServerError).Render("notfound", fiber.Map{
				"Message": "Something went wrong. Please try again.",
			}); rerr != nil {
				return c.Status(fiber.StatusInternalServerError).SendString("Something went wrong. Please try again.")
			}
			return nil
		},
	})
	// Global body size guard
	app.Server().MaxRequestBodySize = 1 << 20 // 1 MiB

	// ---------- Middlewares ----------
	app.Use(requestid.New())
	app.Use(logger.New())
	app.Use(helmet.New())
	// Attach user to context if logged in (for templates/headers)
	app.Use(func(c *fiber.Ctx) error {
		if sid := c.Cookies("sid"); sid != "" {
			if u, err := authSvc.CurrentUser(sid); err == nil && u != nil {
				c.Locals("user", u)
			}
		}
		return c.Next()
	})
	app.Use(limiter.New(limiter.Config{
		Max:        120,
		Expiration: time.Minute,
	}))
	app.Use(csrf.New(csrf.Config{
		KeyLookup:      "form:csrf",
		CookieName:     "csrf_",
		CookieSameSite: "Lax",
		CookieSecure:   false, // set true behind HTTPS
		Next: func(c *fiber.Ctx) bool {
			// The JSON API is session-cookie + same-site; forms carry the token.
			return strings.HasPrefix(c.Path(), "/api/v1/")
		},
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			applog.Security(c, "csrf.fail", map[string]any{"form": c.FormValue("csrf")})
			return c.Status(fiber.StatusForbidden).Render("notfound", fiber.Map{"Message": "Security check failed. Please refresh and try again."})
		},
	}))
	app.Use(func(c *fiber.Ctx) error {
		if tok := c.Locals("csrf"); tok != nil {
			c.Locals("CSRFToken", tok.(string))
		}
		return c.Next()
	})

	// ---------- App handlers ----------
	deps := handlers.NewDeps(db, authSvc)

	// Public pages
	app.Get("/", deps.CatalogHandler.Home)
	app.Get("/products", deps.CatalogHandler.Products)
	app.Get("/product/:id", deps.CatalogHandler.Detail)

	// Cart & checkout (login required; carts belong to users)
	app.Get("/cart", handlers.RequireUser(authSvc), deps.CartHandler.View)
	app.Post("/cart", handlers.RequireUser(authSvc), deps.CartHandler.Add)
	app.Post("/cart/update", handlers.RequireUser(authSvc), deps.CartHandler.Update)
	app.Post("/cart/remove", handlers.RequireUser(authSvc), deps.CartHandler.Remove)
	app.Get("/checkout", handlers.RequireUser(authSvc), deps.OrderHandler.CheckoutForm)
	app.Post("/orders", handlers.RequireUser(authSvc), deps.OrderHandler.Place)
	app.Get("/order/:id", handlers.RequireUser(authSvc), deps.OrderHandler.View)
	app.Get("/orders", handlers.RequireUser(authSvc), deps.OrderHandler.History)

	// Auth routes (login throttled)
	app.Get("/login", authH.LoginForm)
	app.Post("/login", limiter.New(limiter.Config{
		Max:        5,
		Expiration: 10 * time.Minute,
		LimitReached: func(c *fiber.Ctx) error {
			applog.Security(c, "rate.login.hit", nil)
			return c.Status(fiber.StatusTooManyRequests).Render("login", fiber.Map{"Err": "Too many attempts. Please try again later."})
		},
	}), authH.Login)
	app.Get("/register", authH.RegisterForm)
	app.Post("/register", authH.Register)
	app.Post("/logout", authH.Logout)
	app.Get("/profile", handlers.RequireUser(authSvc), authH.ProfileForm)
	app.Post("/profile", handlers.RequireUser(authSvc), authH.ProfileSave)

	// ---------- JSON API ----------
	api := app.Group("/api/v1")
	api.Get("/products", deps.CatalogHandler.APIProducts)
	api.Get("/products/:id", deps.CatalogHandler.APIProduct)
	api.Get("/categories", deps.CatalogHandler.APICategories)
	api.Get("/availability", limiter.New(limiter.Config{
		Max:        15,
		Expiration: 30 * time.Second,
		KeyGenerator: func(c *fiber.Ctx) string {
			return c.IP() + "|avail"
		},
		LimitReached: func(c *fiber.Ctx) error {
			applog.Security(c, "rate.availability.hit", nil)
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{"error": "rate limit exceeded, retry soon"})
		},
	}), deps.InventoryHandler.Check)

	api.Get("/profile", handlers.RequireUser(authSvc), authH.APIProfile)
	api.Patch("/profile", handlers.RequireUser(authSvc), authH.APIUpdateProfile)

	api.Get("/cart", handlers.RequireUser(authSvc), deps.CartHandler.APIShow)
	api.Post("/cart/items", handlers.RequireUser(authSvc), deps.CartHandler.APIAddItem)
	api.Patch("/cart/items/:productId", handlers.RequireUser(authSvc), deps.CartHandler.APIUpdateItem)
	api.Delete("/cart/items/:productId", handlers.RequireUser(authSvc), deps.CartHandler.APIRemoveItem)
	api.Delete("/cart", handlers.RequireUser(authSvc), deps.CartHandler.APIClear)

	api.Post("/orders", handlers.RequireUser(authSvc), deps.OrderHandler.APICreate)
	api.Get("/orders", handlers.RequireUser(authSvc), deps.OrderHandler.APIList)
	api.Get("/orders/stats", handlers.RequireUser(authSvc), deps.OrderHandler.APIStats)
	api.Get("/orders/:id", handlers.RequireUser(authSvc), deps.OrderHandler.APIGet)

	apiAdmin := api.Group("/admin", handlers.RequireAdmin(authSvc))
	apiAdmin.Get("/orders", deps.AdminHandler.APIOrders)
	apiAdmin.Patch("/orders/:id/status", deps.AdminHandler.APIUpdateOrderStatus)
	apiAdmin.Get("/dashboard", deps.AdminHandler.APIDashboard)

	// ---------- Admin pages ----------
	admin := app.Group("/admin", handlers.RequireAdmin(authSvc))
	admin.Get("/", deps.AdminHandler.Dashboard)
	admin.Get("/orders", deps.AdminHandler.OrdersPage)
	admin.Post("/orders/:id/status", deps.AdminHandler.UpdateOrderStatus)
	admin.Get("/inventory", deps.AdminHandler.Inventory)
	admin.Post("/inventory", deps.AdminHandler.UpdateInventory)
	admin.Get("/products", deps.AdminHandler.ProductsPage)
	admin.Post("/products", deps.AdminHandler.CreateProduct)
	admin.Get("/suppliers", deps.AdminHandler.SuppliersPage)
	admin.Post("/suppliers", deps.AdminHandler.CreateSupplier)

	// Health & 404
	app.Get("/healthz", func(c *fiber.Ctx) error { return c.JSON(fiber.Map{"ok": true}) })
	app.Use(func(c *fiber.Ctx) error {
		return c.Status(404).Render("notfound", fiber.Map{"Message": "Page not found"})
	})

	log.Fatal(app.Listen(":" + cfg.Port))
}
