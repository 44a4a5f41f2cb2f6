// Package maintenance holds the maintenance request and complaint use cases
package maintenance

import (
	"context"
	"strings"
	"time"

	"github.com/paragon/backend/internal/domain/identity"
	"github.com/paragon/backend/internal/domain/maintenance"
	"github.com/paragon/backend/internal/domain/property"
	"github.com/paragon/backend/internal/domain/shared"
	"github.com/paragon/backend/internal/domain/validation"
	"go.uber.org/zap"
)

// ReportRequest logs a new issue. ReportedDate defaults to today.
type ReportRequest struct {
	ApartmentID   int64
	TenantID      int64
	Description   string
	Priority      int
	ReportedDate  string
	ScheduledDate string
}

// RequestFilter selects maintenance requests for listing
type RequestFilter struct {
	shared.Filter
	LocationID *int64
	Completed  *bool
	Priority   *int
}

// Service manages maintenance requests and tenant complaints
type Service struct {
	requests   maintenance.RequestRepository
	complaints maintenance.ComplaintRepository
	apartments property.ApartmentRepository
	logger     *zap.Logger
	clock      shared.Clock
}

// NewService creates a new maintenance Service
func NewService(
	requests maintenance.RequestRepository,
	complaints maintenance.ComplaintRepository,
	apartments property.ApartmentRepository,
	logger *zap.Logger,
	clock shared.Clock,
) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	if clock == nil {
		clock = shared.SystemClock
	}
	return &Service{requests: requests, complaints: complaints, apartments: apartments, logger: logger, clock: clock}
}

func (s *Service) today() time.Time {
	return shared.Today(s.clock)
}

func optionalDate(field, raw string) (*time.Time, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, nil
	}
	d, r := validation.ParseDate(raw)
	if err := r.Err(field); err != nil {
		return nil, err
	}
	return &d, nil
}

// view loads a request and checks the caller may see its location
func (s *Service) view(ctx context.Context, scope identity.Scope, id int64) (*maintenance.RequestView, error) {
	v, err := s.requests.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !scope.CanAccessLocation(v.LocationID) {
		return nil, shared.NewForbiddenError("no access to this location")
	}
	return v, nil
}

// Report logs a maintenance request for an apartment
func (s *Service) Report(ctx context.Context, scope identity.Scope, req ReportRequest) (*maintenance.Request, error) {
	if err := scope.Require(identity.ResourceMaintenance, identity.ActionCreate); err != nil {
		return nil, err
	}
	reported := s.today()
	if d, err := optionalDate("reported_date", req.ReportedDate); err != nil {
		return nil, err
	} else if d != nil {
		reported = *d
	}
	scheduled, err := optionalDate("scheduled_date", req.ScheduledDate)
	if err != nil {
		return nil, err
	}

	request, err := maintenance.NewRequest(req.ApartmentID, req.TenantID, req.Description, req.Priority, reported)
	if err != nil {
		return nil, err
	}
	request.ScheduledDate = scheduled

	apartment, err := s.apartments.FindByID(ctx, req.ApartmentID)
	if err != nil {
		return nil, err
	}
	if !scope.CanAccessLocation(apartment.LocationID) {
		return nil, shared.NewForbiddenError("no access to this location")
	}
	if err := s.requests.Create(ctx, request); err != nil {
		return nil, err
	}
	s.logger.Info("Maintenance request logged",
		zap.Int64("request_id", request.ID),
		zap.Int("priority", request.Priority),
		zap.String("user", scope.Username))
	return request, nil
}

// Get returns one request with its apartment and tenant
func (s *Service) Get(ctx context.Context, scope identity.Scope, id int64) (*maintenance.RequestView, error) {
	if err := scope.Require(identity.ResourceMaintenance, identity.ActionRead); err != nil {
		return nil, err
	}
	return s.view(ctx, scope, id)
}

// Schedule sets or clears the visit date of a request
func (s *Service) Schedule(ctx context.Context, scope identity.Scope, id int64, date string) (*maintenance.Request, error) {
	if err := scope.Require(identity.ResourceMaintenance, identity.ActionUpdate); err != nil {
		return nil, err
	}
	scheduled, err := optionalDate("scheduled_date", date)
	if err != nil {
		return nil, err
	}
	v, err := s.view(ctx, scope, id)
	if err != nil {
		return nil, err
	}
	request := v.Request
	request.ScheduledDate = scheduled
	if err := s.requests.Update(ctx, &request); err != nil {
		return nil, err
	}
	return &request, nil
}

// MarkCompleted closes a request, recording its cost when given
func (s *Service) MarkCompleted(ctx context.Context, scope identity.Scope, id int64, cost string) (*maintenance.Request, error) {
	if err := scope.Require(identity.ResourceMaintenance, identity.ActionUpdate); err != nil {
		return nil, err
	}
	v, err := s.view(ctx, scope, id)
	if err != nil {
		return nil, err
	}
	request := v.Request
	if strings.TrimSpace(cost) == "" {
		err = request.Complete(nil)
	} else {
		amount, r := validation.ParseAmount(cost, false)
		if !r.Valid {
			return nil, r.Err("cost")
		}
		err = request.Complete(&amount)
	}
	if err != nil {
		return nil, err
	}
	if err := s.requests.Update(ctx, &request); err != nil {
		return nil, err
	}
	s.logger.Info("Maintenance request completed", zap.Int64("request_id", id), zap.String("user", scope.Username))
	return &request, nil
}

// Delete removes a request
func (s *Service) Delete(ctx context.Context, scope identity.Scope, id int64) error {
	if err := scope.Require(identity.ResourceMaintenance, identity.ActionDelete); err != nil {
		return err
	}
	if _, err := s.view(ctx, scope, id); err != nil {
		return err
	}
	return s.requests.Delete(ctx, id)
}

// List lists requests, most urgent first
func (s *Service) List(ctx context.Context, scope identity.Scope, filter RequestFilter) (shared.Paginated[maintenance.RequestView], error) {
	if err := scope.Require(identity.ResourceMaintenance, identity.ActionRead); err != nil {
		return shared.Paginated[maintenance.RequestView]{}, err
	}
	location, err := scope.ResolveLocation(filter.LocationID)
	if err != nil {
		return shared.Paginated[maintenance.RequestView]{}, err
	}
	return s.requests.FindAll(ctx, maintenance.RequestFilter{
		Filter:     filter.Filter,
		LocationID: location,
		Completed:  filter.Completed,
		Priority:   filter.Priority,
	})
}

// Scheduled lists pending requests with a visit on or after from, today when empty
func (s *Service) Scheduled(ctx context.Context, scope identity.Scope, locationID *int64, from string) ([]maintenance.RequestView, error) {
	if err := scope.Require(identity.ResourceMaintenance, identity.ActionRead); err != nil {
		return nil, err
	}
	location, err := scope.ResolveLocation(locationID)
	if err != nil {
		return nil, err
	}
	day := s.today()
	if d, err := optionalDate("from", from); err != nil {
		return nil, err
	} else if d != nil {
		day = *d
	}
	return s.requests.FindScheduled(ctx, location, day)
}

// Stats summarises the maintenance workload
func (s *Service) Stats(ctx context.Context, scope identity.Scope, locationID *int64) (*maintenance.Stats, error) {
	if err := scope.Require(identity.ResourceMaintenance, identity.ActionRead); err != nil {
		return nil, err
	}
	location, err := scope.ResolveLocation(locationID)
	if err != nil {
		return nil, err
	}
	return s.requests.Stats(ctx, location)
}

// FileComplaint records a tenant complaint dated today
func (s *Service) FileComplaint(ctx context.Context, scope identity.Scope, tenantID int64, description string) (*maintenance.Complaint, error) {
	if err := scope.Require(identity.ResourceComplaints, identity.ActionCreate); err != nil {
		return nil, err
	}
	complaint, err := maintenance.NewComplaint(tenantID, description, s.today())
	if err != nil {
		return nil, err
	}
	if err := s.complaints.Create(ctx, complaint); err != nil {
		return nil, err
	}
	return complaint, nil
}

// ResolveComplaint marks a complaint resolved
func (s *Service) ResolveComplaint(ctx context.Context, scope identity.Scope, id int64) (*maintenance.Complaint, error) {
	if err := scope.Require(identity.ResourceComplaints, identity.ActionUpdate); err != nil {
		return nil, err
	}
	complaint, err := s.complaints.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	complaint.Resolved = true
	if err := s.complaints.Update(ctx, complaint); err != nil {
		return nil, err
	}
	return complaint, nil
}

// ListComplaints lists complaints, newest first
func (s *Service) ListComplaints(ctx context.Context, scope identity.Scope, filter maintenance.ComplaintFilter) (shared.Paginated[maintenance.Complaint], error) {
	if err := scope.Require(identity.ResourceComplaints, identity.ActionRead); err != nil {
		return shared.Paginated[maintenance.Complaint]{}, err
	}
	return s.complaints.FindAll(ctx, filter)
}
