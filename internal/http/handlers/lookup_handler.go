package handlers

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"

	applog "storeledger/internal/log"
	"storeledger/internal/services"
	"storeledger/internal/validate"
)

// LookupHandler serves the billing page autocomplete.
type LookupHandler struct {
	Catalog *services.CatalogService
}

func lookupTerm(c *fiber.Ctx) (string, bool) {
	raw := c.Query("term")
	if strings.TrimSpace(raw) == "" {
		return "", true
	}
	q, ok := validate.Q(raw)
	if !ok {
		applog.Security(c, "validation.fail", map[string]any{"field": "term"})
	}
	return q, ok
}

// GET /api/customers?term=
func (h *LookupHandler) Customers(c *fiber.Ctx) error {
	term, ok := lookupTerm(c)
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid search term"})
	}
	out, err := h.Catalog.SuggestCustomers(term)
	if err != nil {
		applog.Error(c, "lookup.customers.fail", err, nil)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to query database."})
	}
	return c.JSON(out)
}

// GET /api/products?term=&customer_type=
func (h *LookupHandler) Products(c *fiber.Ctx) error {
	term, ok := lookupTerm(c)
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid search term"})
	}
	out, err := h.Catalog.SuggestProducts(term, c.Query("customer_type"))
	if err != nil {
		if errors.Is(err, services.ErrInvalidRequest) {
			applog.Security(c, "validation.fail", map[string]any{"field": "customer_type"})
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
		}
		applog.Error(c, "lookup.products.fail", err, nil)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to query database."})
	}
	return c.JSON(out)
}
