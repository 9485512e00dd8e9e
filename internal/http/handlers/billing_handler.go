package handlers

import (
	"errors"
	"fmt"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"

	applog "storeledger/internal/log"
	"storeledger/internal/services"
	"storeledger/internal/validate"
)

type BillingHandler struct {
	Billing *services.BillingService
}

type billItemBody struct {
	ProductID int64           `json:"product_id"`
	Name      string          `json:"name"`
	Quantity  int             `json:"quantity"`
	Price     decimal.Decimal `json:"price"`
}

type billBody struct {
	CustomerName  string          `json:"customer_name"`
	Phone         string          `json:"phone"`
	CustomerType  string          `json:"customer_type"`
	PaymentMethod string          `json:"payment_method"`
	Products      []billItemBody  `json:"products"`
	Subtotal      decimal.Decimal `json:"subtotal"`
	Tax           decimal.Decimal `json:"tax"`
	Discount      decimal.Decimal `json:"discount"`
	Total         decimal.Decimal `json:"total"`
}

// GET /billing
func (h *BillingHandler) Page(c *fiber.Ctx) error {
	return render(c, "billing", fiber.Map{})
}

// POST /api/bill/save
func (h *BillingHandler) Save(c *fiber.Ctx) error {
	var body billBody
	if err := c.BodyParser(&body); err != nil {
		applog.Security(c, "validation.fail", map[string]any{"field": "body"})
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid JSON data provided."})
	}
	if strings.TrimSpace(body.CustomerName) != "" {
		if _, ok := validate.Name(body.CustomerName); !ok {
			applog.Security(c, "validation.fail", map[string]any{"field": "customer_name"})
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Customer name is too long."})
		}
	}
	if body.Phone != "" {
		if _, ok := validate.Phone(body.Phone); !ok {
			applog.Security(c, "validation.fail", map[string]any{"field": "phone"})
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Enter a valid phone number."})
		}
	}

	req := services.BillRequest{
		CustomerName:  body.CustomerName,
		Phone:         body.Phone,
		CustomerType:  body.CustomerType,
		PaymentMethod: body.PaymentMethod,
		Subtotal:      body.Subtotal,
		Tax:           body.Tax,
		Discount:      body.Discount,
		Total:         body.Total,
	}
	for _, p := range body.Products {
		req.Items = append(req.Items, services.LineItem{
			ProductID: p.ProductID,
			Name:      p.Name,
			Quantity:  p.Quantity,
			Price:     p.Price,
		})
	}

	rc, err := h.Billing.Save(c.UserContext(), req)
	if err != nil {
		status, msg := billError(err)
		if status == fiber.StatusInternalServerError {
			applog.Error(c, "bill.save.fail", err, map[string]any{"phone": req.Phone})
		} else {
			applog.Info(c, "bill.save.rejected", map[string]any{"phone": req.Phone, "reason": err.Error()})
		}
		return c.Status(status).JSON(fiber.Map{"error": msg})
	}

	applog.Audit(c, "bill.save", map[string]any{
		"bill_id":      rc.BillID,
		"customer_id":  rc.CustomerID,
		"new_customer": rc.NewCustomer,
		"items":        rc.TotalItems,
		"total":        rc.TotalAmount.StringFixed(2),
		"status":       string(rc.Status),
	})
	return c.JSON(fiber.Map{
		"message":       fmt.Sprintf("Bill #%d saved successfully.", rc.BillID),
		"bill_id":       rc.BillID,
		"total_amount":  rc.TotalAmount.Round(2).InexactFloat64(),
		"profit_earned": rc.ProfitEarned.Round(2).InexactFloat64(),
	})
}

// billError maps a billing failure onto a status and a client-safe message.
func billError(err error) (int, string) {
	switch {
	case errors.Is(err, services.ErrInvalidRequest):
		return fiber.StatusBadRequest, err.Error()
	case errors.Is(err, services.ErrProductNotFound):
		return fiber.StatusNotFound, err.Error()
	case errors.Is(err, services.ErrInsufficientStock), errors.Is(err, services.ErrCustomerConflict):
		return fiber.StatusConflict, err.Error()
	}
	return fiber.StatusInternalServerError, "Database transaction failed. No changes were saved."
}
