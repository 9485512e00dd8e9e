package main

import (
	"errors"
	"io"
	"log"
	"os"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/csrf"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/requestid"

	"storeledger/internal/config"
	"storeledger/internal/http/handlers"
	applog "storeledger/internal/log"
	"storeledger/internal/repos"
	"storeledger/internal/services"
)

func main() {
	cfg := config.Load()

	// Optional file logging
	if cfg.LogFile != "" {
		f, err := os.OpenFile(cfg.LogFile, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
		if err != nil {
			log.Printf("[warn] could not open log file %s: %v", cfg.LogFile, err)
		} else {
			defer f.Close()
			log.SetOutput(io.MultiWriter(os.Stdout, f))
		}
	}

	db, err := repos.OpenDB(cfg.DBDSN)
	if err != nil {
		log.Fatal(err)
	}
	defer db.Close()

	// Auth wiring
	userRepo := repos.NewUserRepo(db)
	authSvc := &services.AuthService{Users: userRepo, Idle: cfg.SessionIdle}
	n, err := authSvc.Prune()
	applog.Sys("session.prune", err, map[string]any{"deleted": n})
	authH := &handlers.AuthHandler{Auth: authSvc, CookieSecure: cfg.CookieSecure}

	// Templates & app
	engine := handlers.NewViews(cfg.TemplateDir)

	app := fiber.New(fiber.Config{
		Views: engine,
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
			// Avoid leaking internals; best-effort render
			if rerr := c.Status(code).Render("notfound", fiber.Map{
				"Message": "Something went wrong. Please try again.",
			}); rerr != nil {
				return c.Status(code).SendString("Something went wrong. Please try again.")
			}
			return nil
		},
	})
	// Global body size guard
	app.Server().MaxRequestBodySize = 1 << 20 // 1 MiB

	// ---------- Middlewares ----------
	app.Use(requestid.New())
	app.Use(logger.New())
	app.Use(helmet.New())
	// Attach operator to context if logged in (for templates/headers)
	app.Use(func(c *fiber.Ctx) error {
		if sid := c.Cookies("sid"); sid != "" {
			if u, err := authSvc.CurrentUser(sid); err == nil && u != nil {
				c.Locals("user", u)
			}
		}
		return c.Next()
	})
	app.Use(limiter.New(limiter.Config{
		Max:        120,
		Expiration: time.Minute,
		Next: func(c *fiber.Ctx) bool {
			return strings.HasPrefix(c.Path(), "/static/")
		},
	}))
	app.Use(csrf.New(csrf.Config{
		Extractor:      handlers.CSRFExtractor,
		ContextKey:     "csrf",
		CookieName:     "csrf_",
		CookieSameSite: "Lax",
		CookieSecure:   cfg.CookieSecure,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			applog.Security(c, "csrf.fail", nil)
			if strings.HasPrefix(c.Path(), "/api/") {
				return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "Security check failed. Please refresh and try again."})
			}
			return c.Status(fiber.StatusForbidden).Render("notfound", fiber.Map{"Message": "Security check failed. Please refresh and try again."})
		},
	}))
	app.Use(func(c *fiber.Ctx) error {
		if tok, ok := c.Locals("csrf").(string); ok {
			c.Locals("CSRFToken", tok)
		}
		return c.Next()
	})

	// ---------- Static assets ----------
	log.Printf("[static] /static -> %s", cfg.StaticDir)
	app.Static("/static", cfg.StaticDir)

	// Public routes
	app.Get("/healthz", func(c *fiber.Ctx) error { return c.JSON(fiber.Map{"ok": true}) })
	app.Get("/login", authH.LoginForm)
	app.Post("/login", limiter.New(limiter.Config{
		Max:        5,
		Expiration: 10 * time.Minute,
		LimitReached: func(c *fiber.Ctx) error {
			applog.Security(c, "rate.login.hit", nil)
			return c.Status(fiber.StatusTooManyRequests).Render("login", fiber.Map{"Err": "Too many attempts. Please try again later."})
		},
	}), authH.Login)
	app.Post("/logout", authH.Logout)

	// ---------- App handlers ----------
	deps := handlers.NewDeps(db)
	user := handlers.RequireUser(authSvc)
	admin := handlers.RequireAdmin(authSvc)

	app.Get("/", user, func(c *fiber.Ctx) error { return c.Redirect("/dashboard") })
	app.Get("/dashboard", user, deps.ReportHandler.Dashboard)
	app.Get("/billing", user, deps.BillingHandler.Page)

	app.Get("/inventory", user, deps.InventoryHandler.Page)
	app.Post("/inventory/add", admin, deps.InventoryHandler.Add)
	app.Post("/inventory/edit/:id", admin, deps.InventoryHandler.Edit)

	app.Get("/reports", user, deps.ReportHandler.Hub)
	app.Get("/reports/customer", user, deps.ReportHandler.Customers)
	app.Get("/reports/order_history", user, deps.ReportHandler.OrderHistory)
	app.Get("/bill/:id", user, deps.ReportHandler.Bill)

	// API
	api := app.Group("/api", cors.New(cors.Config{AllowOrigins: cfg.CORSOrigins}), user)
	api.Get("/customers", deps.LookupHandler.Customers)
	api.Get("/products", deps.LookupHandler.Products)
	api.Post("/bill/save", deps.BillingHandler.Save)
	api.Get("/categories", deps.InventoryHandler.Categories)
	api.Get("/inventory/low_stock_all", deps.InventoryHandler.LowStockAll)
	api.Get("/inventory/:id", deps.InventoryHandler.Row)
	api.Post("/inventory/delete", admin, deps.InventoryHandler.Delete)

	// 404
	app.Use(func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusNotFound).Render("notfound", fiber.Map{"Message": "Page not found"})
	})

	log.Fatal(app.Listen(":" + cfg.Port))
}
