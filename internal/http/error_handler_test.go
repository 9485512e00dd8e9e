package handlers_test

import (
	"errors"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/requestid"

	"storeledger/internal/http/handlers"
	applog "storeledger/internal/log"
)

func newErrorApp() *fiber.App {
	app := fiber.New(fiber.Config{
		Views: handlers.NewViews(templateDir),
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			code := fiber.StatusInternalServerError
			var fe *fiber.Error
			if errors.As(err, &fe) && fe.Code < 500 {
				code = fe.Code
			}
			applog.Error(c, "server.error", err, nil)
			if strings.HasPrefix(c.Path(), "/api/") {
				return c.Status(code).JSON(fiber.Map{"error": "Something went wrong. Please try again."})
			}
			if rerr := c.Status(code).Render("notfound", fiber.Map{
				"Message": "Something went wrong. Please try again.",
			}); rerr != nil {
				return c.Status(code).SendString("Something went wrong. Please try again.")
			}
			return nil
		},
	})
	app.Use(requestid.New())
	app.Get("/err", func(c *fiber.Ctx) error {
		return fiber.NewError(fiber.StatusInternalServerError, "db timeout: secret trace")
	})
	app.Get("/api/err", func(c *fiber.Ctx) error {
		return errors.New("sqlite: database is locked")
	})
	return app
}

func TestErrorHandlerFriendlyMessage(t *testing.T) {
	app := newErrorApp()

	var body string
	entries := captureLogs(t, func() {
		resp, err := app.Test(httptest.NewRequest("GET", "/err", nil))
		if err != nil {
			t.Fatalf("test request failed: %v", err)
		}
		if resp.StatusCode != fiber.StatusInternalServerError {
			t.Fatalf("expected 500, got %d", resp.StatusCode)
		}
		body = readBody(t, resp)
	})
	if !strings.Contains(body, "Something went wrong") {
		t.Fatalf("friendly message missing; body=%s", body)
	}
	if strings.Contains(body, "db timeout") || strings.Contains(body, "secret") {
		t.Fatalf("internal details leaked to user; body=%s", body)
	}
	if _, ok := findLog(entries, "server.error"); !ok {
		t.Fatal("server.error not logged")
	}
}

func TestErrorHandlerAPIReturnsJSON(t *testing.T) {
	app := newErrorApp()
	resp, err := app.Test(httptest.NewRequest("GET", "/api/err", nil))
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != fiber.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", resp.StatusCode)
	}
	var out map[string]string
	decodeJSON(t, resp, &out)
	if strings.Contains(out["error"], "locked") {
		t.Fatalf("internal details leaked: %v", out)
	}
}
