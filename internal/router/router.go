// Package router initializes the HTTP router (using Echo).
//
// It registers the middlewares and defines the API route groups,
// mapping specific paths to their corresponding handlers
package router

import (
	"net/http"

	"github.com/Jarolccis/agreements-core-api/internal/domain"
	"github.com/Jarolccis/agreements-core-api/internal/handler"
	"github.com/Jarolccis/agreements-core-api/internal/middleware"
	"github.com/labstack/echo/v4"
)

// uploadRateLimit caps bulk-upload submissions per client IP per second.
const uploadRateLimit = 2

// Setup wires the middleware chain and registers every route group.
func Setup(e *echo.Echo, m *middleware.Middlewares, h *handler.Handlers) {
	e.Use(middleware.RequestID())
	e.Use(m.Tracing.NewRelicMiddleware())
	e.Use(m.ContextEnhancer.EnhanceContext())
	e.Use(m.Tracing.EnhanceTracing())
	e.Use(m.Global.CORS())
	e.Use(m.Global.RequestLogger())
	e.Use(m.Global.Recover())
	e.Use(m.Global.Secure())
	e.HTTPErrorHandler = m.Global.GlobalErrorHandler

	registerSystemRoutes(e, h)

	api := e.Group("/api/v1", m.Auth.RequireAuth)

	stores := api.Group("/stores", m.Auth.RequireRoles(domain.RoleAccessAgreements))
	stores.GET("", handler.Handle(h.Stores.Handler, h.Stores.GetActiveStores, http.StatusOK))
	stores.GET("/:id", handler.Handle(h.Stores.Handler, h.Stores.GetStoreByID, http.StatusOK))

	modules := api.Group("/modules", m.Auth.RequireRoles(domain.RoleAccessProcesses))
	modules.GET("", handler.Handle(h.Modules.Handler, h.Modules.GetActiveModules, http.StatusOK))
	modules.GET("/users/emails", handler.Handle(h.Modules.Handler, h.Modules.GetActiveModuleUserEmails, http.StatusOK))
	modules.GET("/:id/users", handler.Handle(h.Modules.Handler, h.Modules.GetModuleUsers, http.StatusOK))

	lookup := api.Group("/lookup", m.Auth.RequireRoles(domain.RoleAccessAgreements))
	lookup.GET("/categories/:code/values", handler.Handle(h.Lookups.Handler, h.Lookups.GetCategoryValues, http.StatusOK))
	lookup.GET("/categories/:code/values/:option_key", handler.Handle(h.Lookups.Handler, h.Lookups.GetCategoryValue, http.StatusOK))

	agreements := api.Group("/agreements")
	agreements.POST("", handler.Handle(h.Agreements.Handler, h.Agreements.CreateAgreement, http.StatusCreated),
		m.Auth.RequireRoles(domain.RoleCreateAgreements))
	agreements.POST("/search", handler.Handle(h.Agreements.Handler, h.Agreements.SearchAgreements, http.StatusOK),
		m.Auth.RequireRoles(domain.RoleAccessAgreements))
	agreements.GET("/:id", handler.Handle(h.Agreements.Handler, h.Agreements.GetAgreement, http.StatusOK),
		m.Auth.RequireRoles(domain.RoleAccessAgreements))
	agreements.PUT("/:id", handler.Handle(h.Agreements.Handler, h.Agreements.UpdateAgreement, http.StatusOK),
		m.Auth.RequireRoles(domain.RoleModifyAgreements))

	bulkUpload := agreements.Group("/bulk-upload")
	bulkUpload.POST("", handler.Handle(h.BulkUpload.Handler, h.BulkUpload.UploadDocument, http.StatusCreated),
		m.Auth.RequireRoles(domain.RoleBulkUploadAgreements), m.RateLimit.Limit(uploadRateLimit))
	bulkUpload.GET("/template", handler.Handle(h.BulkUpload.Handler, h.BulkUpload.GetTemplate, http.StatusOK),
		m.Auth.RequireRoles(domain.RoleAccessBulkUploadAgreements))
	bulkUpload.GET("/documents/:id", handler.Handle(h.BulkUpload.Handler, h.BulkUpload.GetDocument, http.StatusOK),
		m.Auth.RequireRoles(domain.RoleAccessBulkUploadAgreements))
	bulkUpload.GET("/documents/:id/rows", handler.Handle(h.BulkUpload.Handler, h.BulkUpload.GetDocumentRows, http.StatusOK),
		m.Auth.RequireRoles(domain.RoleAccessBulkUploadAgreements))
	bulkUpload.POST("/documents/:id/resolve", handler.Handle(h.BulkUpload.Handler, h.BulkUpload.ResolveDocument, http.StatusOK),
		m.Auth.RequireRoles(domain.RoleBulkUploadAgreements))

	masterData := api.Group("/master-data", m.Auth.RequireRoles(domain.RoleAccessAgreements))
	masterData.GET("/divisions", handler.Handle(h.MasterData.Handler, h.MasterData.GetDivisions, http.StatusOK))

	skus := api.Group("/skus", m.Auth.RequireRoles(domain.RoleAccessAgreements))
	skus.POST("/codes", handler.Handle(h.SKUs.Handler, h.SKUs.GetSKUsByCodes, http.StatusOK))
}
