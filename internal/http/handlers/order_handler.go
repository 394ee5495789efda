package handlers

import (
	"github.com/gofiber/fiber/v2"

	applog "stockroom/internal/log"
	"stockroom/internal/services"
	"stockroom/internal/validate"
)

type OrderHandler struct {
	Cart  *services.CartService
	Order *services.OrderService
	Stats *services.StatsService
}

// ---------- Pages ----------

func (h *OrderHandler) CheckoutForm(c *fiber.Ctx) error {
	u := currentUser(c)
	cv, err := h.Cart.View(u.ID)
	if err != nil {
		applog.Error(c, "checkout.load", err, nil)
		return c.Status(fiber.StatusInternalServerError).Render("notfound", fiber.Map{"Message": "Could not load your cart"})
	}
	return render(c, "checkout", fiber.Map{"Cart": cv})
}

func (h *OrderHandler) Place(c *fiber.Ctx) error {
	u := currentUser(c)

	address, ok := validate.Address(c.FormValue("address"))
	if !ok {
		applog.Security(c, "validation.fail", map[string]any{"field": "address"})
		return c.Status(fiber.StatusBadRequest).SendString("invalid shipping address")
	}
	phone, ok := validate.Phone(c.FormValue("phone"))
	if !ok {
		applog.Security(c, "validation.fail", map[string]any{"field": "phone"})
		return c.Status(fiber.StatusBadRequest).SendString("invalid phone number")
	}
	shipping, okS := validate.Money(c.FormValue("shipping_cost"))
	tax, okT := validate.Money(c.FormValue("tax_amount"))
	if !okS || !okT {
		return c.Status(fiber.StatusBadRequest).SendString("invalid amount")
	}

	o, err := h.Order.Checkout(u.ID, services.CheckoutInput{
		ShippingAddress: address,
		ShippingPhone:   phone,
		ShippingCost:    shipping,
		TaxAmount:       tax,
		Notes:           c.FormValue("notes"),
	})
	if err != nil {
		applog.Security(c, "order.place.fail", map[string]any{"error": err.Error()})
		return c.Status(fiber.StatusBadRequest).SendString("Could not place order. Please review quantities and try again.")
	}
	applog.Audit(c, "order.place", map[string]any{
		"order_id": o.ID, "order_number": o.OrderNumber, "total": o.TotalAmount,
	})
	return c.Redirect("/order/" + o.ID)
}

func (h *OrderHandler) View(c *fiber.Ctx) error {
	oid, ok := validate.ID(c.Params("id"))
	if !ok {
		return c.Status(fiber.StatusNotFound).Render("notfound", fiber.Map{"Message": "Order not found"})
	}
	o, items, err := h.Order.Get(oid)
	if err != nil {
		return c.Status(fiber.StatusNotFound).Render("notfound", fiber.Map{"Message": "Order not found"})
	}

	// Ownership check: the buyer or an admin.
	u := currentUser(c)
	if u == nil || (u.ID != o.UserID && u.Role != "ADMIN") {
		applog.Security(c, "access.denied.order", map[string]any{"order_id": oid})
		return c.Status(fiber.StatusNotFound).Render("notfound", fiber.Map{"Message": "Order not found"})
	}
	return render(c, "order", fiber.Map{"Order": o, "Items": items})
}

func (h *OrderHandler) History(c *fiber.Ctx) error {
	u := currentUser(c)
	orders, err := h.Order.ListForUser(u.ID)
	if err != nil {
		applog.Error(c, "orders.history.fail", err, nil)
		return c.Status(fiber.StatusInternalServerError).Render("notfound", fiber.Map{"Message": "Could not load orders"})
	}
	return render(c, "order_history", fiber.Map{"Orders": orders})
}

// ---------- JSON API ----------

type checkoutReq struct {
	ShippingAddress string  `json:"shipping_address"`
	ShippingPhone   string  `json:"shipping_phone"`
	ShippingCost    float64 `json:"shipping_cost"`
	TaxAmount       float64 `json:"tax_amount"`
	Notes           string  `json:"notes"`
}

func (h *OrderHandler) APICreate(c *fiber.Ctx) error {
	u := currentUser(c)
	var req checkoutReq
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "bad request body"})
	}
	if _, ok := validate.Address(req.ShippingAddress); !ok {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid shipping_address"})
	}
	if _, ok := validate.Phone(req.ShippingPhone); !ok {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid shipping_phone"})
	}
	if req.ShippingCost < 0 || req.TaxAmount < 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "amounts must be non-negative"})
	}

	o, err := h.Order.Checkout(u.ID, services.CheckoutInput{
		ShippingAddress: req.ShippingAddress,
		ShippingPhone:   req.ShippingPhone,
		ShippingCost:    req.ShippingCost,
		TaxAmount:       req.TaxAmount,
		Notes:           req.Notes,
	})
	if err != nil {
		return respondError(c, "api.orders.create", err)
	}
	applog.Audit(c, "order.place", map[string]any{
		"order_id": o.ID, "order_number": o.OrderNumber, "total": o.TotalAmount,
	})
	return c.Status(fiber.StatusCreated).JSON(o)
}

func (h *OrderHandler) APIList(c *fiber.Ctx) error {
	u := currentUser(c)
	orders, err := h.Order.ListForUser(u.ID)
	if err != nil {
		return respondError(c, "api.orders.list", err)
	}
	return c.JSON(orders)
}

func (h *OrderHandler) APIGet(c *fiber.Ctx) error {
	oid, ok := validate.ID(c.Params("id"))
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid order id"})
	}
	o, items, err := h.Order.Get(oid)
	if err != nil {
		return respondError(c, "api.orders.get", err)
	}
	u := currentUser(c)
	if u.ID != o.UserID && u.Role != "ADMIN" {
		applog.Security(c, "access.denied.order", map[string]any{"order_id": oid})
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "not found"})
	}
	return c.JSON(fiber.Map{"order": o, "items": items})
}

func (h *OrderHandler) APIStats(c *fiber.Ctx) error {
	u := currentUser(c)
	stats, err := h.Stats.ForUser(u.ID)
	if err != nil {
		return respondError(c, "api.orders.stats", err)
	}
	return c.JSON(stats)
}
