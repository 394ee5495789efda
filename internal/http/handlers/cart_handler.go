package handlers

import (
	"github.com/gofiber/fiber/v2"

	"stockroom/internal/domain"
	applog "stockroom/internal/log"
	"stockroom/internal/services"
	"stockroom/internal/validate"
)

type CartHandler struct {
	Cart *services.CartService
}

func currentUser(c *fiber.Ctx) *domain.User {
	u, _ := c.Locals("user").(*domain.User)
	return u
}

// ---------- Pages ----------

func (h *CartHandler) View(c *fiber.Ctx) error {
	u := currentUser(c)
	cv, err := h.Cart.View(u.ID)
	if err != nil {
		applog.Error(c, "cart.view.fail", err, nil)
		return c.Status(500).Render("notfound", fiber.Map{"Message": "Could not load your cart"})
	}
	return render(c, "cart", fiber.Map{"Cart": cv})
}

func (h *CartHandler) Add(c *fiber.Ctx) error {
	u := currentUser(c)
	productID, ok := validate.ID(c.FormValue("productId"))
	if !ok {
		return c.Status(400).SendString("missing productId")
	}
	qty := validate.Qty(c.FormValue("qty"))

	res, err := h.Cart.Add(u.ID, productID, qty)
	if err != nil {
		return respondError(c, "cart.add.fail", err)
	}
	if res.Capped {
		applog.Info(c, "cart.add.capped", map[string]any{"product": productID, "qty": res.Qty})
	}
	return c.Redirect("/cart")
}

func (h *CartHandler) Update(c *fiber.Ctx) error {
	u := currentUser(c)
	productID, ok := validate.ID(c.FormValue("productId"))
	if !ok {
		return c.Status(400).SendString("missing productId")
	}
	qty := 0
	if s := c.FormValue("qty"); s != "" && s != "0" {
		qty = validate.Qty(s)
	}
	if _, err := h.Cart.Update(u.ID, productID, qty); err != nil {
		return respondError(c, "cart.update.fail", err)
	}
	return c.Redirect("/cart")
}

func (h *CartHandler) Remove(c *fiber.Ctx) error {
	u := currentUser(c)
	productID, ok := validate.ID(c.FormValue("productId"))
	if !ok {
		return c.Status(400).SendString("missing productId")
	}
	if err := h.Cart.Remove(u.ID, productID); err != nil {
		return respondError(c, "cart.remove.fail", err)
	}
	return c.Redirect("/cart")
}

// ---------- JSON API ----------

func (h *CartHandler) APIShow(c *fiber.Ctx) error {
	u := currentUser(c)
	cv, err := h.Cart.View(u.ID)
	if err != nil {
		return respondError(c, "api.cart.show", err)
	}
	return c.JSON(fiber.Map{
		"items": cv.Items, "total_items": len(cv.Items), "total_price": cv.Total,
	})
}

type cartItemReq struct {
	ProductID string `json:"product_id"`
	Quantity  int    `json:"quantity"`
}

func (h *CartHandler) APIAddItem(c *fiber.Ctx) error {
	u := currentUser(c)
	var req cartItemReq
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "bad request body"})
	}
	if _, ok := validate.ID(req.ProductID); !ok {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid product_id"})
	}

	res, err := h.Cart.Add(u.ID, req.ProductID, req.Quantity)
	if err != nil {
		return respondError(c, "api.cart.add", err)
	}
	applog.Audit(c, "cart.add", map[string]any{"product": req.ProductID, "qty": res.Qty, "capped": res.Capped})
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"quantity": res.Qty, "capped": res.Capped})
}

func (h *CartHandler) APIUpdateItem(c *fiber.Ctx) error {
	u := currentUser(c)
	productID, ok := validate.ID(c.Params("productId"))
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid product id"})
	}
	var req cartItemReq
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "bad request body"})
	}

	res, err := h.Cart.Update(u.ID, productID, req.Quantity)
	if err != nil {
		return respondError(c, "api.cart.update", err)
	}
	return c.JSON(fiber.Map{"quantity": res.Qty, "capped": res.Capped})
}

func (h *CartHandler) APIRemoveItem(c *fiber.Ctx) error {
	u := currentUser(c)
	productID, ok := validate.ID(c.Params("productId"))
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid product id"})
	}
	if err := h.Cart.Remove(u.ID, productID); err != nil {
		return respondError(c, "api.cart.remove", err)
	}
	return c.JSON(fiber.Map{"message": "item removed"})
}

func (h *CartHandler) APIClear(c *fiber.Ctx) error {
	u := currentUser(c)
	if err := h.Cart.Clear(u.ID); err != nil {
		return respondError(c, "api.cart.clear", err)
	}
	return c.JSON(fiber.Map{"message": "cart cleared"})
}
