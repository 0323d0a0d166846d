package handler

import (
	"github.com/gofiber/fiber/v2"

	"babyboss-sales/internal/middleware"
	"babyboss-sales/internal/model"
	"babyboss-sales/internal/repository"
)

// Handlers groups every HTTP handler of the API.
type Handlers struct {
	Auth     *AuthHandler
	User     *UserHandler
	Role     *RoleHandler
	Customer *CustomerHandler
	Order    *OrderHandler
	Report   *ReportHandler
	Sync     *SyncHandler
}

// RegisterRoutes mounts the /api/v1 routes on app.
func RegisterRoutes(app *fiber.App, h *Handlers, userRepo repository.UserRepository) {
	api := app.Group("/api/v1")
	requireAuth := middleware.RequireAuth(userRepo)

	// ============ PUBLIC ROUTES ============
	auth := api.Group("/auth")
	auth.Post("/login", h.Auth.Login)
	auth.Post("/validate-token", h.Auth.ValidateToken)
	auth.Post("/heartbeat", requireAuth, h.Auth.Heartbeat)
	auth.Post("/change-password", requireAuth, h.Auth.ChangePassword)

	// ============ PROTECTED ROUTES ============
	protected := api.Group("", requireAuth)

	// Reference data
	protected.Get("/catalog", h.Order.GetCatalog)
	protected.Get("/roles", h.Role.GetRoles)
	protected.Get("/privileges", h.Role.GetPrivileges)
	protected.Get("/branches", h.Role.GetBranches)

	// Customers
	protected.Get("/customers", middleware.RequirePrivilege(model.PrivCustomerView), h.Customer.GetCustomers)
	protected.Get("/customers/:id", middleware.RequirePrivilege(model.PrivCustomerView), h.Customer.GetCustomer)
	protected.Get("/customers/:id/first-order", middleware.RequirePrivilege(model.PrivOrderCreate), h.Order.IsFirstOrder)
	protected.Post("/customers", middleware.RequirePrivilege(model.PrivCustomerCreate), h.Customer.CreateCustomer)
	protected.Put("/customers/:id", middleware.RequirePrivilege(model.PrivCustomerUpdate), h.Customer.UpdateCustomer)

	// Orders
	protected.Post("/orders/quote", middleware.RequirePrivilege(model.PrivOrderCreate), h.Order.Quote)
	protected.Post("/orders", middleware.RequirePrivilege(model.PrivOrderCreate), h.Order.CreateOrder)
	protected.Get("/orders/:id", middleware.RequirePrivilege(model.PrivOrderView), h.Order.GetOrder)

	// Reports
	reports := protected.Group("/reports")
	reports.Get("/filters", middleware.RequireAnyPrivilege(model.PrivReportView, model.PrivReportAnalysis), h.User.FilterOptions)
	reports.Get("/overview", middleware.RequirePrivilege(model.PrivReportView), h.Report.Overview)
	reports.Get("/analysis", middleware.RequirePrivilege(model.PrivReportAnalysis), h.Report.Analysis)
	reports.Get("/total-sales", middleware.RequirePrivilege(model.PrivReportView), h.Report.TotalSales)
	reports.Get("/sales-log", middleware.RequirePrivilege(model.PrivReportView), h.Report.SalesLog)
	reports.Get("/sales-log/export", middleware.RequirePrivilege(model.PrivReportExport), h.Report.ExportSalesLog)
	reports.Get("/customers", middleware.RequirePrivilege(model.PrivReportView), h.Report.Customers)
	reports.Get("/customers/export", middleware.RequirePrivilege(model.PrivReportExport), h.Report.ExportCustomers)

	// User Management Routes
	protected.Get("/users", middleware.RequirePrivilege(model.PrivUserView), h.User.GetUsers)
	protected.Get("/users/:id", middleware.RequirePrivilege(model.PrivUserView), h.User.GetUser)
	protected.Post("/users", middleware.RequirePrivilege(model.PrivUserCreate), h.User.CreateUser)
	protected.Put("/users/:id", middleware.RequirePrivilege(model.PrivUserUpdate), h.User.UpdateUser)

	// Sheet sync
	sync := protected.Group("/sync", middleware.RequirePrivilege(model.PrivSyncManage))
	sync.Get("/status", h.Sync.Status)
	sync.Post("/pull", h.Sync.Pull)
	sync.Post("/flush", h.Sync.Flush)
	sync.Post("/retry", h.Sync.Retry)
}
