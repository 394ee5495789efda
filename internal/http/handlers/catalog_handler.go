package handlers

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"stockroom/internal/log"
	"stockroom/internal/services"
	"stockroom/internal/validate"
)

type CatalogHandler struct {
	Catalog *services.CatalogService
	Inv     *services.InventoryService
}

func (h *CatalogHandler) Home(c *fiber.Ctx) error {
	cats, err := h.Catalog.ListCategories()
	if err != nil {
		return c.Status(500).SendString(err.Error())
	}
	return render(c, "home", fiber.Map{"Categories": cats})
}

// Products lists active products with optional search and category filter.
func (h *CatalogHandler) Products(c *fiber.Ctx) error {
	q := strings.TrimSpace(c.Query("q"))
	if q != "" {
		valid, ok := validate.Q(q)
		if !ok {
			log.Security(c, "validation.fail", map[string]any{"field": "q", "value": q})
			return c.Status(fiber.StatusBadRequest).Render("products", fiber.Map{
				"Products": []any{}, "Err": "Enter a valid keyword (letters/numbers only)",
			})
		}
		q = strings.ToLower(valid)
	}
	category := strings.TrimSpace(c.Query("category"))
	if category != "" {
		if _, ok := validate.ID(category); !ok {
			log.Security(c, "validation.fail", map[string]any{"field": "category"})
			return c.Status(fiber.StatusBadRequest).Render("products", fiber.Map{
				"Products": []any{}, "Err": "Invalid category",
			})
		}
	}

	products, err := h.Catalog.ListProducts(q, category, 1, 20)
	if err != nil {
		log.Error(c, "catalog.list.fail", err, nil)
		return c.Status(500).Render("notfound", fiber.Map{"Message": "Could not load products. Please retry."})
	}
	return render(c, "products", fiber.Map{
		"Q": q, "CategoryID": category, "Products": products, "Count": len(products),
	})
}

func (h *CatalogHandler) Detail(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		log.Security(c, "validation.fail", map[string]any{"field": "product"})
		return c.Status(404).Render("notfound", fiber.Map{"Message": "This item is no longer available"})
	}
	p, err := h.Catalog.GetProduct(id)
	if err != nil || p.ID == "" || !p.Active {
		return c.Status(404).Render("notfound", fiber.Map{"Message": "This item is no longer available"})
	}
	avail, err := h.Inv.CheckAvailability(id)
	if err != nil {
		log.Error(c, "catalog.detail.fail", err, nil)
		return c.Status(500).Render("notfound", fiber.Map{"Message": "Could not load product"})
	}
	sups, _ := h.Catalog.ProductSuppliers(id)
	return render(c, "product", fiber.Map{"P": p, "Avail": avail, "Suppliers": sups})
}

// ---------- JSON API ----------

func (h *CatalogHandler) APIProducts(c *fiber.Ctx) error {
	q := strings.ToLower(strings.TrimSpace(c.Query("search")))
	category := strings.TrimSpace(c.Query("category"))
	products, err := h.Catalog.ListProducts(q, category, c.QueryInt("page", 1), c.QueryInt("page_size", 20))
	if err != nil {
		return respondError(c, "api.products.list", err)
	}
	out := make([]fiber.Map, 0, len(products))
	for _, p := range products {
		out = append(out, fiber.Map{
			"id": p.ID, "name": p.Name, "category": p.CategoryID,
			"price": p.Price, "sku": p.SKU, "is_active": p.Active,
		})
	}
	return c.JSON(out)
}

func (h *CatalogHandler) APIProduct(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid product id"})
	}
	p, err := h.Catalog.GetProduct(id)
	if err != nil {
		return respondError(c, "api.products.get", err)
	}
	avail, err := h.Inv.CheckAvailability(id)
	if err != nil {
		return respondError(c, "api.products.get", err)
	}
	return c.JSON(fiber.Map{
		"id": p.ID, "name": p.Name, "category": p.CategoryID,
		"description": p.Description, "price": p.Price, "sku": p.SKU,
		"is_active": p.Active, "availability": avail,
	})
}

func (h *CatalogHandler) APICategories(c *fiber.Ctx) error {
	cats, err := h.Catalog.ListCategories()
	if err != nil {
		return respondError(c, "api.categories.list", err)
	}
	return c.JSON(cats)
}
