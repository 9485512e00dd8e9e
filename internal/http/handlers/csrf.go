package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/csrf"
)

// CSRFHeader carries the token on fetch() calls from the billing and
// inventory pages; HTML forms post it as the "csrf" field.
const CSRFHeader = "X-CSRF-Token"

var csrfFromForm = csrf.CsrfFromForm("csrf")

// CSRFExtractor reads the token from the header first, then the form.
func CSRFExtractor(c *fiber.Ctx) (string, error) {
	if tok := c.Get(CSRFHeader); tok != "" {
		return tok, nil
	}
	return csrfFromForm(c)
}
