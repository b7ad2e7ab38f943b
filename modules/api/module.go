package api

import (
	"context"
	"fmt"
	"log"

	"github.com/go-monolith/mono"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/jaevor/go-nanoid"

	cartmod "github.com/Lingikaushikreddy/ALEESABETHNIC-WEAR/modules/cart"
	catalogmod "github.com/Lingikaushikreddy/ALEESABETHNIC-WEAR/modules/catalog"
	checkoutmod "github.com/Lingikaushikreddy/ALEESABETHNIC-WEAR/modules/checkout"
	identitymod "github.com/Lingikaushikreddy/ALEESABETHNIC-WEAR/modules/identity"
)

const sessionKeyLength = 24

// Module is the HTTP surface of the storefront.
type Module struct {
	app  *fiber.App
	port int

	identityContainer mono.ServiceContainer
	identityAdapter   identitymod.IdentityPort

	identity *identitymod.Module
	catalog  *catalogmod.Module
	cart     *cartmod.Module
	checkout *checkoutmod.Module
}

// Compile-time interface checks.
var _ mono.Module = (*Module)(nil)
var _ mono.DependentModule = (*Module)(nil)
var _ mono.HealthCheckableModule = (*Module)(nil)

// NewModule creates an API module listening on the given port.
func NewModule(port int) *Module {
	return &Module{port: port}
}

// Name returns the module name.
func (m *Module) Name() string {
	return "api"
}

// Dependencies returns the list of module dependencies.
func (m *Module) Dependencies() []string {
	return []string{"identity"}
}

// SetDependencyServiceContainer receives service containers from dependencies.
func (m *Module) SetDependencyServiceContainer(dependency string, container mono.ServiceContainer) {
	if dependency == "identity" {
		m.identityContainer = container
		m.identityAdapter = identitymod.NewIdentityAdapter(container)
	}
}

// SetIdentityModule wires the identity module.
func (m *Module) SetIdentityModule(mod *identitymod.Module) { m.identity = mod }

// SetCatalogModule wires the catalog module.
func (m *Module) SetCatalogModule(mod *catalogmod.Module) { m.catalog = mod }

// SetCartModule wires the cart module.
func (m *Module) SetCartModule(mod *cartmod.Module) { m.cart = mod }

// SetCheckoutModule wires the checkout module.
func (m *Module) SetCheckoutModule(mod *checkoutmod.Module) { m.checkout = mod }

// Start builds the Fiber app and begins serving.
func (m *Module) Start(_ context.Context) error {
	if m.identityContainer == nil {
		return fmt.Errorf("identity dependency not set")
	}
	if m.identity == nil || m.catalog == nil || m.cart == nil || m.checkout == nil {
		return fmt.Errorf("feature modules not wired")
	}

	newSessionKey, err := nanoid.Standard(sessionKeyLength)
	if err != nil {
		return fmt.Errorf("create session key generator: %w", err)
	}

	m.app = fiber.New(fiber.Config{
		AppName:               "Aleesab Storefront API",
		DisableStartupMessage: true,
		ErrorHandler:          customErrorHandler,
	})

	m.app.Use(recover.New())
	m.app.Use(logger.New(logger.Config{
		Format: "[${time}] ${status} - ${latency} ${method} ${path}\n",
	}))
	m.app.Use(cors.New(cors.Config{
		AllowHeaders: "Origin, Content-Type, Accept, Authorization, " + SessionHeader,
	}))

	m.setupRoutes(newSessionKey)

	go func() {
		addr := fmt.Sprintf(":%d", m.port)
		if err := m.app.Listen(addr); err != nil {
			log.Printf("[api] HTTP server error: %v", err)
		}
	}()

	log.Printf("[api] HTTP server started on :%d", m.port)
	return nil
}

// Stop shuts down the HTTP server.
func (m *Module) Stop(_ context.Context) error {
	if m.app == nil {
		return nil
	}
	log.Println("[api] Shutting down HTTP server...")
	return m.app.Shutdown()
}

// Health returns the health status of the module.
func (m *Module) Health(_ context.Context) mono.HealthStatus {
	return mono.HealthStatus{
		Healthy: m.app != nil,
		Message: "operational",
		Details: map[string]any{"port": m.port},
	}
}

// GetApp returns the Fiber app (for testing).
func (m *Module) GetApp() *fiber.App {
	return m.app
}

func (m *Module) setupRoutes(newSessionKey func() string) {
	handlers := NewHandlers(
		m.identity.GetService(),
		m.catalog.GetService(),
		m.cart.GetService(),
		m.checkout.GetService(),
	)

	api := m.app.Group("/api")
	api.Use(SessionMiddleware(newSessionKey))

	api.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "healthy"})
	})

	// Public catalog
	api.Get("/categories", handlers.ListCategories)
	api.Post("/categories", RequireAuth(m.identityAdapter), RequireAdmin(), handlers.CreateCategory)
	api.Get("/categories/:slug", handlers.GetCategory)
	api.Get("/products", handlers.ListProducts)
	api.Get("/products/:slug", handlers.GetProduct)
	api.Get("/search", handlers.Search)

	// Auth
	auth := api.Group("/auth")
	auth.Post("/register", handlers.Register)
	auth.Post("/login", handlers.Login)
	auth.Post("/refresh", handlers.Refresh)
	auth.Post("/logout", handlers.Logout)
	auth.Get("/me", RequireAuth(m.identityAdapter), handlers.Me)

	// Cart: works for guests (session key) and logged-in users alike.
	cart := api.Group("/cart", OptionalAuth(m.identityAdapter))
	cart.Get("/", handlers.GetCart)
	cart.Post("/items", handlers.AddItem)
	cart.Patch("/items/:id", handlers.UpdateItem)
	cart.Delete("/items/:id", handlers.RemoveItem)
	cart.Delete("/", handlers.ClearCart)

	// Authenticated storefront
	authed := api.Group("", RequireAuth(m.identityAdapter))
	authed.Get("/addresses", handlers.ListAddresses)
	authed.Post("/addresses", handlers.CreateAddress)
	authed.Put("/addresses/:id", handlers.UpdateAddress)
	authed.Delete("/addresses/:id", handlers.DeleteAddress)
	authed.Post("/addresses/:id/default", handlers.SetDefaultAddress)
	authed.Post("/orders/validate", handlers.ValidateCheckout)
	authed.Post("/orders", handlers.CreateOrder)
	authed.Get("/orders", handlers.ListOrders)
	authed.Get("/orders/:id", handlers.GetOrder)

	// Admin surface behind a single role gate.
	admin := api.Group("/admin", RequireAuth(m.identityAdapter), RequireAdmin())
	admin.Get("/orders", handlers.AdminListOrders)
	admin.Patch("/orders/:id", handlers.AdminUpdateOrder)
	admin.Get("/stats", handlers.AdminStats)
	admin.Get("/products", handlers.AdminListProducts)
	admin.Post("/products", handlers.AdminCreateProduct)
	admin.Patch("/products/:id", handlers.AdminUpdateProduct)
	admin.Delete("/products/:id", handlers.AdminDeleteProduct)
}

// customErrorHandler handles errors escaping the routing layer.
func customErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	message := "Internal Server Error"

	if e, ok := err.(*fiber.Error); ok {
		code = e.Code
		message = e.Message
	}

	return c.Status(code).JSON(ErrorResponse{
		Error:   "server_error",
		Message: message,
	})
}
