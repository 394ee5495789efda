package handlers

import (
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"stockroom/internal/domain"
	applog "stockroom/internal/log"
	"stockroom/internal/repos"
	"stockroom/internal/services"
	"stockroom/internal/validate"
)

type AdminHandler struct {
	Order   *services.OrderService
	Stats   *services.StatsService
	Catalog *services.CatalogService

	InvRepo  *repos.InventoryRepo
	ProdRepo *repos.ProductRepo
	SupRepo  *repos.SupplierRepo
}

// GET /admin
func (h *AdminHandler) Dashboard(c *fiber.Ctx) error {
	stats, err := h.Stats.ForAdmin()
	if err != nil {
		applog.Error(c, "admin.dashboard.fail", err, nil)
		return c.Status(500).Render("notfound", fiber.Map{"Message": "Could not load dashboard"})
	}
	return render(c, "admin_dashboard", fiber.Map{"Stats": stats})
}

// GET /admin/orders
func (h *AdminHandler) OrdersPage(c *fiber.Ctx) error {
	status := strings.ToUpper(strings.TrimSpace(c.Query("status")))
	if status != "" && !domain.ValidStatus(status) {
		return c.Status(400).SendString("invalid status filter")
	}
	ords, err := h.Order.Orders.ListLatest(status, 100)
	if err != nil {
		applog.Error(c, "admin.orders.list.fail", err, nil)
		return c.Status(500).Render("notfound", fiber.Map{"Message": "Could not load orders"})
	}
	return render(c, "admin_orders", fiber.Map{"Orders": ords, "Status": status})
}

// POST /admin/orders/:id/status — drives the order state machine.
func (h *AdminHandler) UpdateOrderStatus(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("id"))
	status := strings.ToUpper(strings.TrimSpace(c.FormValue("status")))
	if !ok || status == "" {
		return c.Status(400).SendString("missing id or status")
	}
	o, err := h.Order.UpdateStatus(id, status)
	if err != nil {
		return respondError(c, "admin.orders.update.fail", err)
	}
	applog.Audit(c, "admin.orders.update", map[string]any{"order_id": id, "status": o.Status})
	return c.Redirect("/admin/orders")
}

// GET /admin/inventory
func (h *AdminHandler) Inventory(c *fiber.Ctx) error {
	rows, err := h.InvRepo.ListAll()
	if err != nil {
		applog.Error(c, "admin.inventory.list.fail", err, nil)
		return c.Status(500).Render("notfound", fiber.Map{"Message": "Could not load inventory"})
	}
	return render(c, "admin_inventory", fiber.Map{"Rows": rows})
}

// POST /admin/inventory — set on_hand / reorder level. Rejected by the store
// if it would drop on_hand below the currently reserved quantity.
func (h *AdminHandler) UpdateInventory(c *fiber.Ctx) error {
	pid, okID := validate.ID(c.FormValue("product_id"))
	onHand, errQ := strconv.Atoi(c.FormValue("on_hand"))
	reorder, errR := strconv.Atoi(c.FormValue("reorder_level"))
	if !okID || errQ != nil || errR != nil || onHand < 0 || reorder < 0 {
		return c.Status(400).SendString("invalid input")
	}
	if err := h.InvRepo.SetStock(pid, onHand, reorder); err != nil {
		applog.Error(c, "admin.inventory.save.fail", err, map[string]any{"product": pid, "on_hand": onHand})
		return c.Status(400).SendString("could not save inventory")
	}
	applog.Audit(c, "admin.inventory.save", map[string]any{"product": pid, "on_hand": onHand, "reorder": reorder})
	return c.Redirect("/admin/inventory")
}

// GET /admin/products
func (h *AdminHandler) ProductsPage(c *fiber.Ctx) error {
	products, err := h.ProdRepo.List("", "", 200, 0)
	if err != nil {
		applog.Error(c, "admin.products.list.fail", err, nil)
		return c.Status(500).Render("notfound", fiber.Map{"Message": "Could not load products"})
	}
	cats, _ := h.Catalog.ListCategories()
	sups, _ := h.Catalog.ListSuppliers()
	return render(c, "admin_products", fiber.Map{"Products": products, "Categories": cats, "Suppliers": sups})
}

// POST /admin/products
func (h *AdminHandler) CreateProduct(c *fiber.Ctx) error {
	name, okN := validate.Name(c.FormValue("name"))
	catID, okC := validate.ID(c.FormValue("category_id"))
	sku, okS := validate.ID(c.FormValue("sku"))
	price, okP := validate.Money(c.FormValue("price"))
	if !okN || !okC || !okS || !okP || price <= 0 {
		return c.Status(400).SendString("invalid input")
	}
	p := &domain.Product{
		ID:          "p-" + uuid.NewString(),
		CategoryID:  catID,
		Name:        name,
		Description: c.FormValue("description"),
		SKU:         sku,
		Price:       price,
		Active:      true,
	}
	if err := h.ProdRepo.Insert(p); err != nil {
		applog.Error(c, "admin.products.create.fail", err, map[string]any{"sku": sku})
		return c.Status(400).SendString("could not create product")
	}
	// New products start with an empty ledger row so availability reads 0
	// instead of missing.
	if err := h.InvRepo.SetStock(p.ID, 0, 0); err != nil {
		applog.Error(c, "admin.products.ledger.fail", err, map[string]any{"product": p.ID})
	}
	// Optional sourcing link, recorded as the primary supplier.
	if supID, ok := validate.ID(c.FormValue("supplier_id")); ok {
		cost, okC := validate.Money(c.FormValue("supplier_price"))
		if !okC {
			cost = 0
		}
		if err := h.SupRepo.LinkProduct(p.ID, supID, cost, true); err != nil {
			applog.Error(c, "admin.products.supplier.fail", err, map[string]any{"product": p.ID, "supplier": supID})
		}
	}
	applog.Audit(c, "admin.products.create", map[string]any{"product": p.ID, "sku": sku})
	return c.Redirect("/admin/products")
}

// GET /admin/suppliers
func (h *AdminHandler) SuppliersPage(c *fiber.Ctx) error {
	sups, err := h.Catalog.ListSuppliers()
	if err != nil {
		applog.Error(c, "admin.suppliers.list.fail", err, nil)
		return c.Status(500).Render("notfound", fiber.Map{"Message": "Could not load suppliers"})
	}
	return render(c, "admin_suppliers", fiber.Map{"Suppliers": sups})
}

// POST /admin/suppliers
func (h *AdminHandler) CreateSupplier(c *fiber.Ctx) error {
	name, okN := validate.Name(c.FormValue("name"))
	email, okE := validate.Email(c.FormValue("email"))
	phone, okP := validate.Phone(c.FormValue("phone"))
	if !okN || !okE || !okP {
		return c.Status(400).SendString("invalid input")
	}
	s := &domain.Supplier{
		ID:      "sup-" + uuid.NewString(),
		Name:    name,
		Email:   email,
		Phone:   phone,
		Address: c.FormValue("address"),
	}
	if err := h.SupRepo.Insert(s); err != nil {
		applog.Error(c, "admin.suppliers.create.fail", err, nil)
		return c.Status(400).SendString("could not create supplier")
	}
	applog.Audit(c, "admin.suppliers.create", map[string]any{"supplier": s.ID})
	return c.Redirect("/admin/suppliers")
}

// ---------- JSON API ----------

func (h *AdminHandler) APIOrders(c *fiber.Ctx) error {
	status := strings.ToUpper(strings.TrimSpace(c.Query("status")))
	if status != "" && !domain.ValidStatus(status) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid status filter"})
	}
	ords, err := h.Order.Orders.ListLatest(status, c.QueryInt("limit", 100))
	if err != nil {
		return respondError(c, "api.admin.orders", err)
	}
	return c.JSON(ords)
}

func (h *AdminHandler) APIUpdateOrderStatus(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid order id"})
	}
	var req struct {
		Status string `json:"status"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "bad request body"})
	}
	o, err := h.Order.UpdateStatus(id, strings.ToUpper(strings.TrimSpace(req.Status)))
	if err != nil {
		return respondError(c, "api.admin.orders.status", err)
	}
	applog.Audit(c, "admin.orders.update", map[string]any{"order_id": id, "status": o.Status})
	return c.JSON(o)
}

func (h *AdminHandler) APIDashboard(c *fiber.Ctx) error {
	stats, err := h.Stats.ForAdmin()
	if err != nil {
		return respondError(c, "api.admin.dashboard", err)
	}
	return c.JSON(stats)
}
