// Package bootstrap assembles repositories, services and HTTP handlers over
// one opened store. The server binary and the operator CLI share it.
package bootstrap

import (
	"github.com/gin-gonic/gin"
	financeapp "github.com/paragon/backend/internal/application/finance"
	identityapp "github.com/paragon/backend/internal/application/identity"
	maintenanceapp "github.com/paragon/backend/internal/application/maintenance"
	propertyapp "github.com/paragon/backend/internal/application/property"
	seedapp "github.com/paragon/backend/internal/application/seed"
	tenancyapp "github.com/paragon/backend/internal/application/tenancy"
	"github.com/paragon/backend/internal/domain/shared"
	"github.com/paragon/backend/internal/infrastructure/auth"
	"github.com/paragon/backend/internal/infrastructure/config"
	"github.com/paragon/backend/internal/infrastructure/persistence"
	"github.com/paragon/backend/internal/interfaces/http/handler"
	"github.com/paragon/backend/internal/interfaces/http/router"
	"go.uber.org/zap"
)

// Container holds every application service bound to a single store
type Container struct {
	DB          *persistence.Database
	Clock       shared.Clock
	Users       *identityapp.UserService
	Auth        *identityapp.AuthService
	Property    *propertyapp.Service
	Tenancy     *tenancyapp.Service
	Finance     *financeapp.Service
	Maintenance *maintenanceapp.Service
	Seed        *seedapp.Service

	log *zap.Logger
}

// New wires the services. A nil clock means the system clock.
func New(cfg *config.Config, db *persistence.Database, log *zap.Logger, clock shared.Clock) *Container {
	if log == nil {
		log = zap.NewNop()
	}
	if clock == nil {
		clock = shared.SystemClock
	}
	gdb := db.DB

	locationRepo := persistence.NewGormLocationRepository(gdb)
	apartmentRepo := persistence.NewGormApartmentRepository(gdb)
	tenantRepo := persistence.NewGormTenantRepository(gdb)
	leaseRepo := persistence.NewGormLeaseRepository(gdb)
	invoiceRepo := persistence.NewGormInvoiceRepository(gdb)
	paymentRepo := persistence.NewGormPaymentRepository(gdb)
	reportRepo := persistence.NewGormFinanceReportRepository(gdb)
	userRepo := persistence.NewGormUserRepository(gdb)

	users := identityapp.NewUserService(userRepo, log.Named("users"))
	jwtService := auth.NewJWTService(cfg.JWT)

	return &Container{
		DB:       db,
		Clock:    clock,
		Users:    users,
		Auth:     identityapp.NewAuthService(users, jwtService, auth.NewRevocationList(), log.Named("auth")),
		Property: propertyapp.NewService(locationRepo, apartmentRepo, log.Named("property")),
		Tenancy: tenancyapp.NewService(tenantRepo, leaseRepo,
			persistence.NewGormTenancyUnitOfWork(gdb), log.Named("tenancy"), clock),
		Finance: financeapp.NewService(invoiceRepo, paymentRepo, reportRepo, tenantRepo,
			persistence.NewGormFinanceUnitOfWork(gdb), log.Named("finance"),
			financeapp.WithClock(clock),
			financeapp.WithPageSize(cfg.Finance.PageSize),
		),
		Maintenance: maintenanceapp.NewService(
			persistence.NewGormMaintenanceRepository(gdb),
			persistence.NewGormComplaintRepository(gdb),
			apartmentRepo, log.Named("maintenance"), clock),
		Seed: seedapp.NewService(persistence.NewGormSeedUnitOfWork(gdb), log.Named("seed"), clock),
		log:  log,
	}
}

// Handlers builds the HTTP handlers over the container's services
func (c *Container) Handlers() router.Handlers {
	return router.Handlers{
		System:  handler.NewSystemHandler(c.DB),
		Auth:    handler.NewAuthHandler(c.Auth),
		Tenant:  handler.NewTenantHandler(c.Tenancy),
		Finance: handler.NewFinanceHandler(c.Finance, c.Clock),
	}
}

// Engine builds the gin engine serving the API
func (c *Container) Engine(cfg *config.Config) (*gin.Engine, error) {
	mode := gin.DebugMode
	switch cfg.App.Env {
	case "production":
		mode = gin.ReleaseMode
	case "test":
		mode = gin.TestMode
	}
	return router.New(router.Config{
		Mode:           mode,
		TrustedProxies: cfg.HTTP.TrustedProxies,
		MaxBodyBytes:   cfg.HTTP.MaxBodyBytes,
	}, c.Handlers(), c.Auth, c.log)
}
