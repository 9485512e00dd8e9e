package handlers_test

import (
	"bytes"
	"encoding/json"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/csrf"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/jmoiron/sqlx"

	"storeledger/internal/http/handlers"
	"storeledger/internal/repos"
	"storeledger/internal/services"
)

const templateDir = "../../web/templates"

type testApp struct {
	app   *fiber.App
	db    *sqlx.DB
	users *repos.UserRepo
	auth  *services.AuthService
}

// newTestApp wires the same routes and middleware as cmd/storeledger,
// minus the global rate limiter and request logger.
func newTestApp(t *testing.T) *testApp {
	t.Helper()
	db, err := repos.OpenDB(":memory:")
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	userRepo := repos.NewUserRepo(db)
	authSvc := &services.AuthService{Users: userRepo}
	authH := &handlers.AuthHandler{Auth: authSvc}

	app := fiber.New(fiber.Config{Views: handlers.NewViews(templateDir)})
	app.Server().MaxRequestBodySize = 1 << 20
	app.Use(requestid.New())
	app.Use(func(c *fiber.Ctx) error {
		if sid := c.Cookies("sid"); sid != "" {
			if u, err := authSvc.CurrentUser(sid); err == nil && u != nil {
				c.Locals("user", u)
			}
		}
		return c.Next()
	})
	app.Use(csrf.New(csrf.Config{
		Extractor:      handlers.CSRFExtractor,
		ContextKey:     "csrf",
		CookieName:     "csrf_",
		CookieSameSite: "Lax",
	}))
	app.Use(func(c *fiber.Ctx) error {
		if tok, ok := c.Locals("csrf").(string); ok {
			c.Locals("CSRFToken", tok)
		}
		return c.Next()
	})

	app.Get("/login", authH.LoginForm)
	app.Post("/login", authH.Login)
	app.Post("/logout", authH.Logout)

	deps := handlers.NewDeps(db)
	user := handlers.RequireUser(authSvc)
	admin := handlers.RequireAdmin(authSvc)

	app.Get("/dashboard", user, deps.ReportHandler.Dashboard)
	app.Get("/billing", user, deps.BillingHandler.Page)
	app.Get("/inventory", user, deps.InventoryHandler.Page)
	app.Post("/inventory/add", admin, deps.InventoryHandler.Add)
	app.Post("/inventory/edit/:id", admin, deps.InventoryHandler.Edit)
	app.Get("/reports", user, deps.ReportHandler.Hub)
	app.Get("/reports/customer", user, deps.ReportHandler.Customers)
	app.Get("/reports/order_history", user, deps.ReportHandler.OrderHistory)
	app.Get("/bill/:id", user, deps.ReportHandler.Bill)

	api := app.Group("/api", user)
	api.Get("/customers", deps.LookupHandler.Customers)
	api.Get("/products", deps.LookupHandler.Products)
	api.Post("/bill/save", deps.BillingHandler.Save)
	api.Get("/categories", deps.InventoryHandler.Categories)
	api.Get("/inventory/low_stock_all", deps.InventoryHandler.LowStockAll)
	api.Get("/inventory/:id", deps.InventoryHandler.Row)
	api.Post("/inventory/delete", admin, deps.InventoryHandler.Delete)

	if err := userRepo.BindSession("sid-admin", "u-admin"); err != nil {
		t.Fatalf("bind admin session: %v", err)
	}
	if err := userRepo.BindSession("sid-cashier", "u-cashier"); err != nil {
		t.Fatalf("bind cashier session: %v", err)
	}
	return &testApp{app: app, db: db, users: userRepo, auth: authSvc}
}

func extractCookie(resp *http.Response, name string) string {
	for _, c := range resp.Cookies() {
		if c.Name == name {
			return c.Value
		}
	}
	return ""
}

// csrfToken fetches the login form to obtain a fresh CSRF cookie.
func (ta *testApp) csrfToken(t *testing.T) string {
	t.Helper()
	resp, err := ta.app.Test(httptest.NewRequest("GET", "/login", nil))
	if err != nil {
		t.Fatal(err)
	}
	tok := extractCookie(resp, "csrf_")
	if tok == "" {
		t.Fatal("csrf token missing")
	}
	return tok
}

func (ta *testApp) get(t *testing.T, path, sid string) *http.Response {
	t.Helper()
	req := httptest.NewRequest("GET", path, nil)
	if sid != "" {
		req.AddCookie(&http.Cookie{Name: "sid", Value: sid})
	}
	resp, err := ta.app.Test(req)
	if err != nil {
		t.Fatal(err)
	}
	return resp
}

func (ta *testApp) postJSON(t *testing.T, path, sid, tok string, body any) *http.Response {
	t.Helper()
	b, err := json.Marshal(body)
	if err != nil {
		t.Fatal(err)
	}
	req := httptest.NewRequest("POST", path, bytes.NewReader(b))
	req.Header.Set("Content-Type", "application/json")
	if tok != "" {
		req.Header.Set(handlers.CSRFHeader, tok)
		req.AddCookie(&http.Cookie{Name: "csrf_", Value: tok})
	}
	if sid != "" {
		req.AddCookie(&http.Cookie{Name: "sid", Value: sid})
	}
	resp, err := ta.app.Test(req)
	if err != nil {
		t.Fatal(err)
	}
	return resp
}

func (ta *testApp) postForm(t *testing.T, path, sid, tok, form string) *http.Response {
	t.Helper()
	req := httptest.NewRequest("POST", path, strings.NewReader("csrf="+tok+"&"+form))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.AddCookie(&http.Cookie{Name: "csrf_", Value: tok})
	if sid != "" {
		req.AddCookie(&http.Cookie{Name: "sid", Value: sid})
	}
	resp, err := ta.app.Test(req)
	if err != nil {
		t.Fatal(err)
	}
	return resp
}

func decodeJSON(t *testing.T, resp *http.Response, v any) {
	t.Helper()
	b, _ := io.ReadAll(resp.Body)
	if err := json.Unmarshal(b, v); err != nil {
		t.Fatalf("decode %q: %v", b, err)
	}
}

type logEntry struct {
	Level  string         `json:"level"`
	Action string         `json:"action"`
	UserID string         `json:"user_id"`
	Fields map[string]any `json:"fields"`
}

type lockedBuf struct {
	b  bytes.Buffer
	mu sync.Mutex
}

func (l *lockedBuf) Write(p []byte) (int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.b.Write(p)
}

func captureLogs(t *testing.T, fn func()) []logEntry {
	t.Helper()
	var buf lockedBuf
	oldW := log.Writer()
	oldFlags := log.Flags()
	log.SetOutput(&buf)
	log.SetFlags(0)
	defer func() {
		log.SetOutput(oldW)
		log.SetFlags(oldFlags)
	}()

	fn()

	var entries []logEntry
	for _, line := range strings.Split(strings.TrimSpace(buf.b.String()), "\n") {
		var e logEntry
		if err := json.Unmarshal([]byte(strings.TrimSpace(line)), &e); err == nil {
			entries = append(entries, e)
		}
	}
	return entries
}

func findLog(entries []logEntry, action string) (logEntry, bool) {
	for _, e := range entries {
		if e.Action == action {
			return e, true
		}
	}
	return logEntry{}, false
}

func readBody(t *testing.T, resp *http.Response) string {
	t.Helper()
	b, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatal(err)
	}
	return string(b)
}
