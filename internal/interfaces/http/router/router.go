// Package router wires handlers and middleware into a gin engine
package router

import (
	"github.com/gin-gonic/gin"
	"github.com/paragon/backend/internal/domain/identity"
	"github.com/paragon/backend/internal/infrastructure/logger"
	"github.com/paragon/backend/internal/interfaces/http/handler"
	"github.com/paragon/backend/internal/interfaces/http/middleware"
	"go.uber.org/zap"
)

// DefaultMaxBodyBytes caps request bodies when the config leaves it unset
const DefaultMaxBodyBytes = 1 << 20

// Handlers are the HTTP handlers served by the API
type Handlers struct {
	System  *handler.SystemHandler
	Auth    *handler.AuthHandler
	Tenant  *handler.TenantHandler
	Finance *handler.FinanceHandler
}

// Config holds the router settings
type Config struct {
	Mode           string
	TrustedProxies []string
	MaxBodyBytes   int64
}

// New builds the gin engine with every route of API v1
func New(cfg Config, h Handlers, verifier middleware.TokenVerifier, log *zap.Logger) (*gin.Engine, error) {
	if cfg.Mode != "" {
		gin.SetMode(cfg.Mode)
	}
	if err := middleware.SetupValidator(); err != nil {
		return nil, err
	}
	if cfg.MaxBodyBytes <= 0 {
		cfg.MaxBodyBytes = DefaultMaxBodyBytes
	}

	engine := gin.New()
	if err := engine.SetTrustedProxies(cfg.TrustedProxies); err != nil {
		return nil, err
	}
	engine.Use(
		middleware.RequestID(),
		logger.Recovery(log),
		logger.GinMiddleware(log),
		middleware.Secure(),
		middleware.BodyLimit(cfg.MaxBodyBytes),
	)

	engine.GET("/health", h.System.Health)
	engine.GET("/ready", h.System.Ready)

	api := engine.Group("/api/v1")
	api.POST("/auth/login", h.Auth.Login)

	secured := api.Group("")
	secured.Use(middleware.JWTAuth(verifier, log))

	authGroup := secured.Group("/auth")
	authGroup.POST("/logout", h.Auth.Logout)
	authGroup.GET("/me", h.Auth.Me)

	tenants := secured.Group("/tenants")
	tenants.GET("", middleware.RequirePermission(identity.ResourceTenants, identity.ActionRead), h.Tenant.List)
	tenants.POST("", middleware.RequirePermission(identity.ResourceTenants, identity.ActionCreate), h.Tenant.Create)
	tenants.GET("/:id", middleware.RequirePermission(identity.ResourceTenants, identity.ActionRead), h.Tenant.Get)
	tenants.PUT("/:id", middleware.RequirePermission(identity.ResourceTenants, identity.ActionUpdate), h.Tenant.Update)
	tenants.DELETE("/:id", middleware.RequirePermission(identity.ResourceTenants, identity.ActionDelete), h.Tenant.Delete)

	finance := secured.Group("/finance")
	finance.GET("/invoices", h.Finance.ListInvoices)
	finance.GET("/invoices/late", h.Finance.ListLate)
	finance.POST("/invoices", h.Finance.CreateInvoice)
	finance.GET("/invoices/:id", h.Finance.GetInvoice)
	finance.DELETE("/invoices/:id", h.Finance.DeleteInvoice)
	finance.POST("/invoices/:id/payments", h.Finance.RecordPayment)
	finance.GET("/payments", h.Finance.ListPayments)
	finance.GET("/summary", h.Finance.Summary)
	finance.GET("/timeseries", h.Finance.Timeseries)
	finance.GET("/export/:report", h.Finance.Export)

	return engine, nil
}
