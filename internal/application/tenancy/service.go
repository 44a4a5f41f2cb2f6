package tenancy

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/paragon/backend/internal/domain/identity"
	"github.com/paragon/backend/internal/domain/shared"
	"github.com/paragon/backend/internal/domain/tenancy"
	"github.com/paragon/backend/internal/domain/validation"
	"go.uber.org/zap"
)

// Service manages tenants and their lease agreements
type Service struct {
	tenants  tenancy.TenantRepository
	leases   tenancy.LeaseRepository
	uow      tenancy.UnitOfWork
	logger   *zap.Logger
	clock    shared.Clock
	pageSize int
}

// NewService creates a new tenancy Service
func NewService(
	tenants tenancy.TenantRepository,
	leases tenancy.LeaseRepository,
	uow tenancy.UnitOfWork,
	logger *zap.Logger,
	clock shared.Clock,
) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	if clock == nil {
		clock = shared.SystemClock
	}
	return &Service{
		tenants:  tenants,
		leases:   leases,
		uow:      uow,
		logger:   logger,
		clock:    clock,
		pageSize: shared.DefaultPageSize,
	}
}

func (s *Service) today() time.Time {
	return shared.Today(s.clock)
}

func (s *Service) page(f shared.Filter) shared.Filter {
	if f.PageSize == 0 {
		f.PageSize = s.pageSize
	}
	return f
}

// apply copies input onto t, parsing the optional typed fields
func apply(t *tenancy.Tenant, in TenantInput) error {
	t.Name = in.Name
	t.NINumber = in.NINumber
	t.Email = in.Email
	t.Phone = in.Phone
	t.Occupation = in.Occupation
	t.Pets = in.Pets
	t.RightToRent = in.RightToRent
	t.CreditCheck = tenancy.CreditCheck(strings.TrimSpace(in.CreditCheck))

	t.DateOfBirth = nil
	if strings.TrimSpace(in.DateOfBirth) != "" {
		dob, r := validation.ParseDate(in.DateOfBirth)
		if err := r.Err("date_of_birth"); err != nil {
			return err
		}
		t.DateOfBirth = &dob
	}
	t.AnnualSalary = nil
	if strings.TrimSpace(in.AnnualSalary) != "" {
		salary, r := validation.ParseAmount(in.AnnualSalary, false)
		if err := r.Err("annual_salary"); err != nil {
			return err
		}
		t.AnnualSalary = &salary
	}
	t.Normalize()
	return nil
}

// CreateTenant validates and registers a tenant
func (s *Service) CreateTenant(ctx context.Context, scope identity.Scope, in TenantInput) (*tenancy.Tenant, error) {
	if err := scope.Require(identity.ResourceTenants, identity.ActionCreate); err != nil {
		return nil, err
	}
	tenant := &tenancy.Tenant{}
	if err := apply(tenant, in); err != nil {
		return nil, err
	}
	if err := tenant.Validate(s.today()); err != nil {
		return nil, err
	}
	if err := s.tenants.Create(ctx, tenant); err != nil {
		return nil, err
	}
	s.logger.Info("Tenant registered", zap.Int64("tenant_id", tenant.ID), zap.String("user", scope.Username))
	return tenant, nil
}

// GetTenant returns one tenant
func (s *Service) GetTenant(ctx context.Context, scope identity.Scope, id int64) (*tenancy.Tenant, error) {
	if err := scope.Require(identity.ResourceTenants, identity.ActionRead); err != nil {
		return nil, err
	}
	return s.tenants.FindByID(ctx, id)
}

// UpdateTenant replaces a tenant's details
func (s *Service) UpdateTenant(ctx context.Context, scope identity.Scope, id int64, in TenantInput) (*tenancy.Tenant, error) {
	if err := scope.Require(identity.ResourceTenants, identity.ActionUpdate); err != nil {
		return nil, err
	}
	tenant, err := s.tenants.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := apply(tenant, in); err != nil {
		return nil, err
	}
	if err := tenant.Validate(s.today()); err != nil {
		return nil, err
	}
	if err := s.tenants.Update(ctx, tenant); err != nil {
		return nil, err
	}
	return tenant, nil
}

// DeleteTenant removes a tenant nothing refers to any more
func (s *Service) DeleteTenant(ctx context.Context, scope identity.Scope, id int64) error {
	if err := scope.Require(identity.ResourceTenants, identity.ActionDelete); err != nil {
		return err
	}
	return s.tenants.Delete(ctx, id)
}

// ListTenants lists tenants by name
func (s *Service) ListTenants(ctx context.Context, scope identity.Scope, filter TenantFilter) (shared.Paginated[tenancy.Tenant], error) {
	if err := scope.Require(identity.ResourceTenants, identity.ActionRead); err != nil {
		return shared.Paginated[tenancy.Tenant]{}, err
	}
	location, err := scope.ResolveLocation(filter.LocationID)
	if err != nil {
		return shared.Paginated[tenancy.Tenant]{}, err
	}
	return s.tenants.FindAll(ctx, tenancy.TenantFilter{
		Filter:     s.page(filter.Filter),
		LocationID: location,
		Search:     filter.Search,
	})
}

// CreateLease lets a vacant apartment and marks it occupied, in one transaction
func (s *Service) CreateLease(ctx context.Context, scope identity.Scope, req CreateLeaseRequest) (*tenancy.Lease, error) {
	if err := scope.Require(identity.ResourceLeases, identity.ActionCreate); err != nil {
		return nil, err
	}
	start, r := validation.ParseDate(req.StartDate)
	if err := r.Err("start_date"); err != nil {
		return nil, err
	}
	end, r := validation.ParseDate(req.EndDate)
	if err := r.Err("end_date"); err != nil {
		return nil, err
	}

	var lease *tenancy.Lease
	err := s.uow.Execute(ctx, func(repos tenancy.Repositories) error {
		apartment, err := repos.Apartments().FindByID(ctx, req.ApartmentID)
		if err != nil {
			return err
		}
		if !scope.CanAccessLocation(apartment.LocationID) {
			return shared.NewForbiddenError(fmt.Sprintf("no access to location %d", apartment.LocationID))
		}
		if _, err := repos.Tenants().FindByID(ctx, req.TenantID); err != nil {
			return err
		}

		current, err := repos.Leases().FindActiveByApartment(ctx, apartment.ID)
		switch {
		case err == nil:
			return shared.NewDomainError(shared.CodeInvalidState,
				fmt.Sprintf("apartment %d already has active lease %d", apartment.ID, current.ID))
		case !errors.Is(err, shared.ErrNotFound):
			return err
		}
		if apartment.Occupied {
			return shared.NewDomainError(shared.CodeInvalidState,
				fmt.Sprintf("apartment %d is marked occupied", apartment.ID))
		}

		rent := apartment.MonthlyRent
		if strings.TrimSpace(req.MonthlyRent) != "" {
			var r validation.Result
			if rent, r = validation.ParseAmount(req.MonthlyRent, false); !r.Valid {
				return r.Err("monthly_rent")
			}
		}
		if lease, err = tenancy.NewLease(req.TenantID, apartment.ID, start, end, rent); err != nil {
			return err
		}
		if err := repos.Leases().Create(ctx, lease); err != nil {
			return err
		}
		return repos.Apartments().SetOccupied(ctx, apartment.ID, true)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("Lease created",
		zap.Int64("lease_id", lease.ID),
		zap.Int64("tenant_id", lease.TenantID),
		zap.Int64("apartment_id", lease.ApartmentID),
		zap.String("user", scope.Username))
	return lease, nil
}

// TerminateLease ends an active lease and frees its apartment, in one transaction
func (s *Service) TerminateLease(ctx context.Context, scope identity.Scope, id int64) (*tenancy.Lease, error) {
	if err := scope.Require(identity.ResourceLeases, identity.ActionUpdate); err != nil {
		return nil, err
	}

	var lease *tenancy.Lease
	err := s.uow.Execute(ctx, func(repos tenancy.Repositories) error {
		var err error
		if lease, err = repos.Leases().FindByID(ctx, id); err != nil {
			return err
		}
		if err := lease.Terminate(); err != nil {
			return err
		}
		if err := repos.Leases().Update(ctx, lease); err != nil {
			return err
		}
		return repos.Apartments().SetOccupied(ctx, lease.ApartmentID, false)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("Lease terminated", zap.Int64("lease_id", id), zap.String("user", scope.Username))
	return lease, nil
}

// GetLease returns one lease
func (s *Service) GetLease(ctx context.Context, scope identity.Scope, id int64) (*tenancy.Lease, error) {
	if err := scope.Require(identity.ResourceLeases, identity.ActionRead); err != nil {
		return nil, err
	}
	return s.leases.FindByID(ctx, id)
}

// ListLeases lists leases
func (s *Service) ListLeases(ctx context.Context, scope identity.Scope, filter LeaseFilter) (shared.Paginated[tenancy.Lease], error) {
	if err := scope.Require(identity.ResourceLeases, identity.ActionRead); err != nil {
		return shared.Paginated[tenancy.Lease]{}, err
	}
	location, err := scope.ResolveLocation(filter.LocationID)
	if err != nil {
		return shared.Paginated[tenancy.Lease]{}, err
	}
	return s.leases.FindAll(ctx, tenancy.LeaseFilter{
		Filter:      s.page(filter.Filter),
		LocationID:  location,
		TenantID:    filter.TenantID,
		ApartmentID: filter.ApartmentID,
		Active:      filter.Active,
	})
}

// LeaseStatistics counts active, expiring and expired leases as of asOf,
// today when empty
func (s *Service) LeaseStatistics(ctx context.Context, scope identity.Scope, locationID *int64, asOf string) (*tenancy.LeaseStats, error) {
	if err := scope.Require(identity.ResourceLeases, identity.ActionRead); err != nil {
		return nil, err
	}
	location, err := scope.ResolveLocation(locationID)
	if err != nil {
		return nil, err
	}
	day := s.today()
	if strings.TrimSpace(asOf) != "" {
		var r validation.Result
		if day, r = validation.ParseDate(asOf); !r.Valid {
			return nil, r.Err("as_of")
		}
	}
	return s.leases.Statistics(ctx, location, day)
}
