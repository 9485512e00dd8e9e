package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/gofiber/fiber/v2"

	applog "storeledger/internal/log"
	"storeledger/internal/services"
	"storeledger/internal/validate"
)

type InventoryHandler struct {
	Inv *services.InventoryService
}

// GET /inventory
func (h *InventoryHandler) Page(c *fiber.Ctx) error {
	search := ""
	if raw := c.Query("search"); strings.TrimSpace(raw) != "" {
		q, ok := validate.Q(raw)
		if !ok {
			applog.Security(c, "validation.fail", map[string]any{"field": "search"})
			setFlash(c, "danger", "Enter a valid search term.")
			return c.Redirect("/inventory")
		}
		search = q
	}
	pg, err := h.Inv.Page(services.InventoryQuery{
		Page:      validate.Page(c.Query("page")),
		Search:    search,
		SortBy:    c.Query("sort_by"),
		SortOrder: c.Query("sort_order"),
	})
	if err != nil {
		applog.Error(c, "inventory.list.fail", err, nil)
		setFlash(c, "danger", "Error loading inventory. Please try again.")
		return c.Redirect("/dashboard")
	}
	return render(c, "inventory", fiber.Map{"Inv": pg})
}

func productForm(c *fiber.Ctx) services.ProductForm {
	return services.ProductForm{
		Brand:         c.FormValue("brand"),
		Product:       c.FormValue("product"),
		Category:      c.FormValue("category"),
		NewCategory:   c.FormValue("new_category"),
		Stock:         c.FormValue("stock"),
		MRP:           c.FormValue("mrp"),
		PurchaseRate:  c.FormValue("purchase_rate"),
		WholesaleRate: c.FormValue("wholesale_rate"),
		RetailRate:    c.FormValue("retail_rate"),
		HotelRate:     c.FormValue("hotel_rate"),
	}
}

// formError turns a service error into the flash text shown on /inventory.
func formError(err error) string {
	switch {
	case errors.Is(err, services.ErrDuplicateProduct):
		return "Error: A product with similar BRAND and PRODUCT details might already exist."
	case errors.Is(err, services.ErrInvalidRequest), errors.Is(err, services.ErrNotFound):
		return "Error: " + err.Error()
	}
	return "An error occurred while saving the product."
}

// POST /inventory/add
func (h *InventoryHandler) Add(c *fiber.Ctx) error {
	f := productForm(c)
	id, err := h.Inv.Add(f)
	if err != nil {
		applog.Info(c, "inventory.add.fail", map[string]any{"brand": f.Brand, "product": f.Product, "reason": err.Error()})
		setFlash(c, "danger", formError(err))
		return c.Redirect("/inventory")
	}
	applog.Audit(c, "inventory.add", map[string]any{"id": id, "brand": f.Brand, "product": f.Product, "stock": f.Stock})
	setFlash(c, "success", "Product added successfully!")
	return c.Redirect("/inventory")
}

// POST /inventory/edit/:id
func (h *InventoryHandler) Edit(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		applog.Security(c, "validation.fail", map[string]any{"field": "id"})
		setFlash(c, "danger", "Error updating product: invalid id.")
		return c.Redirect("/inventory")
	}
	f := productForm(c)
	if err := h.Inv.Update(int64(id), f); err != nil {
		applog.Info(c, "inventory.edit.fail", map[string]any{"id": id, "reason": err.Error()})
		setFlash(c, "danger", formError(err))
		return c.Redirect("/inventory")
	}
	applog.Audit(c, "inventory.edit", map[string]any{"id": id, "brand": f.Brand, "product": f.Product, "stock": f.Stock})
	setFlash(c, "success", fmt.Sprintf("Product ID %d updated successfully!", id))
	return c.Redirect("/inventory")
}

type deleteBody struct {
	IDs         []json.Number `json:"ids"`
	CurrentPage json.Number   `json:"current_page"`
}

// POST /api/inventory/delete
func (h *InventoryHandler) Delete(c *fiber.Ctx) error {
	var body deleteBody
	if err := c.BodyParser(&body); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"status": "error", "message": "Invalid JSON data provided."})
	}
	ids := make([]int64, 0, len(body.IDs))
	for _, raw := range body.IDs {
		id, err := raw.Int64()
		if err != nil || id <= 0 {
			applog.Security(c, "validation.fail", map[string]any{"field": "ids"})
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"status": "error", "message": "Invalid product id"})
		}
		ids = append(ids, id)
	}
	page := 1
	if body.CurrentPage != "" {
		if n, err := body.CurrentPage.Int64(); err == nil {
			page = int(n)
		}
	}

	redirect, n, err := h.Inv.Delete(ids, page)
	if err != nil {
		if errors.Is(err, services.ErrInvalidRequest) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"status": "error", "message": "No IDs provided"})
		}
		applog.Error(c, "inventory.delete.fail", err, map[string]any{"ids": ids})
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"status": "error", "message": "Could not delete products"})
	}
	applog.Audit(c, "inventory.delete", map[string]any{"ids": ids, "deleted": n})
	setFlash(c, "success", fmt.Sprintf("Successfully deleted %d product(s).", n))
	return c.JSON(fiber.Map{"status": "success", "redirect_page": redirect})
}

// GET /api/inventory/:id
func (h *InventoryHandler) Row(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"status": "error", "message": "Product not found"})
	}
	row, err := h.Inv.Row(int64(id))
	if err != nil {
		if errors.Is(err, services.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"status": "error", "message": "Product not found"})
		}
		applog.Error(c, "inventory.row.fail", err, map[string]any{"id": id})
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"status": "error", "message": "Database error"})
	}
	return c.JSON(row)
}

// GET /api/categories
func (h *InventoryHandler) Categories(c *fiber.Ctx) error {
	cats, err := h.Inv.Categories()
	if err != nil {
		applog.Error(c, "inventory.categories.fail", err, nil)
		return c.Status(fiber.StatusInternalServerError).JSON([]string{})
	}
	return c.JSON(cats)
}

// GET /api/inventory/low_stock_all
func (h *InventoryHandler) LowStockAll(c *fiber.Ctx) error {
	rows, err := h.Inv.LowStockAll()
	if err != nil {
		applog.Error(c, "inventory.low_stock.fail", err, nil)
		return c.Status(fiber.StatusInternalServerError).JSON([]any{})
	}
	return c.JSON(rows)
}
