package handlers

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"

	applog "storeledger/internal/log"
	"storeledger/internal/services"
	"storeledger/internal/validate"
)

type ReportHandler struct {
	Reports *services.ReportService
}

// GET / and GET /dashboard
func (h *ReportHandler) Dashboard(c *fiber.Ctx) error {
	d, err := h.Reports.Dashboard()
	if err != nil {
		applog.Error(c, "dashboard.fail", err, nil)
		return renderError(c, fiber.StatusInternalServerError, "Could not load the dashboard")
	}
	return render(c, "dashboard", fiber.Map{"D": d})
}

// GET /reports
func (h *ReportHandler) Hub(c *fiber.Ctx) error {
	return render(c, "reports", fiber.Map{})
}

// reportSearch validates the optional ?search= filter; ok=false means the
// handler already redirected.
func reportSearch(c *fiber.Ctx, back string) (string, bool, error) {
	raw := c.Query("search")
	if strings.TrimSpace(raw) == "" {
		return "", true, nil
	}
	q, ok := validate.Q(raw)
	if !ok {
		applog.Security(c, "validation.fail", map[string]any{"field": "search"})
		setFlash(c, "danger", "Enter a valid search term.")
		return "", false, c.Redirect(back)
	}
	return q, true, nil
}

// GET /reports/customer
func (h *ReportHandler) Customers(c *fiber.Ctx) error {
	search, ok, err := reportSearch(c, "/reports/customer")
	if !ok {
		return err
	}
	rep, err := h.Reports.CustomerReport(validate.Page(c.Query("page")), search)
	if err != nil {
		applog.Error(c, "report.customer.fail", err, nil)
		setFlash(c, "danger", "Error loading customer report.")
		return c.Redirect("/dashboard")
	}
	return render(c, "customer_report", fiber.Map{"R": rep})
}

// GET /reports/order_history
func (h *ReportHandler) OrderHistory(c *fiber.Ctx) error {
	search, ok, err := reportSearch(c, "/reports/order_history")
	if !ok {
		return err
	}
	hist, err := h.Reports.OrderHistory(validate.Page(c.Query("page")), search)
	if err != nil {
		applog.Error(c, "report.orders.fail", err, nil)
		setFlash(c, "danger", "Error loading order history.")
		return c.Redirect("/dashboard")
	}
	return render(c, "order_history", fiber.Map{"H": hist})
}

// GET /bill/:id
func (h *ReportHandler) Bill(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return renderError(c, fiber.StatusNotFound, "Bill not found")
	}
	b, items, err := h.Reports.Bill(int64(id))
	if err != nil {
		if errors.Is(err, services.ErrNotFound) {
			return renderError(c, fiber.StatusNotFound, "Bill not found")
		}
		applog.Error(c, "bill.view.fail", err, map[string]any{"bill_id": id})
		setFlash(c, "danger", "Error loading bill.")
		return c.Redirect("/reports/order_history")
	}
	return render(c, "bill", fiber.Map{"Bill": b, "Items": items})
}
