package http

import (
	"github.com/gofiber/fiber/v2"

	appanalytics "github.com/margiesol/mew-bad/internal/application/analytics"
	"github.com/margiesol/mew-bad/internal/application/auth"
	"github.com/margiesol/mew-bad/internal/application/billing"
	"github.com/margiesol/mew-bad/internal/application/usecase"
	"github.com/margiesol/mew-bad/internal/domain/entity"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	AuthUC      *auth.AuthUseCase
	UserUC      *usecase.UserUseCase
	InvoiceUC   *billing.InvoiceUseCase
	RecordUC    *billing.RecordUseCase
	PaymentUC   *billing.PaymentUseCase
	InvoicePDF  *billing.PDFUseCase
	CustomerUC  *billing.CustomerUseCase
	AgentUC     *usecase.AgentUseCase
	BankUC      *usecase.BankUseCase
	ProductUC   *usecase.ProductUseCase
	ProfileUC   *usecase.ProfileUseCase
	DashboardUC *appanalytics.DashboardUseCase
	JWTSecret   string
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	// Auth (público)
	authHandler := NewAuthHandler(deps.AuthUC, deps.UserUC)
	authGroup := api.Group("/auth")
	authGroup.Post("/register", authHandler.Register)
	authGroup.Post("/login", authHandler.Login)

	// Rutas protegidas (requieren Bearer Token)
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret))

	account := protected.Group("/account")
	account.Get("/", authHandler.Me)
	account.Put("/password", authHandler.ChangePassword)
	account.Delete("/", authHandler.DeleteAccount)

	users := protected.Group("/users", RequireRole(entity.RoleAdmin))
	users.Get("/", authHandler.ListUsers)
	users.Delete("/:id", authHandler.DeleteUser)

	// Facturas
	invoiceHandler := NewInvoiceHandler(deps.InvoiceUC, deps.InvoicePDF)
	invoices := protected.Group("/invoices")
	invoices.Post("/", invoiceHandler.Create)
	invoices.Get("/", invoiceHandler.List)
	invoices.Get("/:id", invoiceHandler.GetByID)
	invoices.Put("/:id", invoiceHandler.Update)
	invoices.Delete("/:id", invoiceHandler.Delete)
	invoices.Post("/:id/recompute", invoiceHandler.Recompute)
	invoices.Get("/:id/pdf", invoiceHandler.DownloadPDF)

	// Pedidos y devoluciones comparten handler; cambia el tipo de renglón.
	for path, kind := range map[string]string{"orders": entity.LineKindOrder, "returns": entity.LineKindReturn} {
		h := NewRecordHandler(deps.RecordUC, kind)
		g := invoices.Group("/:id/" + path)
		g.Post("/", h.Add)
		g.Get("/", h.List)
		g.Put("/:recordID", h.Update)
		g.Delete("/:recordID", h.Delete)
	}

	paymentHandler := NewPaymentHandler(deps.PaymentUC)
	payments := invoices.Group("/:id/payments")
	payments.Post("/", paymentHandler.Add)
	payments.Get("/", paymentHandler.List)
	payments.Put("/:paymentID", paymentHandler.Update)
	payments.Delete("/:paymentID", paymentHandler.Delete)
	payments.Patch("/:paymentID/cheque-status", paymentHandler.SetChequeStatus)

	// Catálogos
	customerHandler := NewCustomerHandler(deps.CustomerUC)
	customers := protected.Group("/customers")
	customers.Post("/", customerHandler.Create)
	customers.Get("/", customerHandler.List)
	customers.Get("/:id", customerHandler.GetByID)
	customers.Put("/:id", customerHandler.Update)
	customers.Delete("/:id", customerHandler.Delete)

	agentHandler := NewAgentHandler(deps.AgentUC)
	agents := protected.Group("/agents")
	agents.Post("/", agentHandler.Create)
	agents.Get("/", agentHandler.List)
	agents.Get("/:id", agentHandler.GetByID)
	agents.Put("/:id", agentHandler.Update)
	agents.Delete("/:id", agentHandler.Delete)

	bankHandler := NewBankHandler(deps.BankUC)
	banks := protected.Group("/banks")
	banks.Post("/", bankHandler.Create)
	banks.Get("/", bankHandler.List)
	banks.Get("/:id", bankHandler.GetByID)
	banks.Put("/:id", bankHandler.Update)
	banks.Delete("/:id", bankHandler.Delete)

	productHandler := NewProductHandler(deps.ProductUC)
	products := protected.Group("/products")
	products.Post("/", productHandler.Create)
	products.Get("/", productHandler.List)
	products.Get("/:id", productHandler.GetByID)
	products.Put("/:id", productHandler.Update)
	products.Delete("/:id", productHandler.Delete)

	profileHandler := NewProfileHandler(deps.ProfileUC)
	protected.Get("/profiles/next-codes", profileHandler.NextCodes)

	dashboardHandler := NewDashboardHandler(deps.DashboardUC)
	protected.Get("/dashboard/summary", dashboardHandler.GetSummary)
}
