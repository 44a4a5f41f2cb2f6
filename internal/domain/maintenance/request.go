package maintenance

import (
	"strings"
	"time"

	"github.com/paragon/backend/internal/domain/shared"
	"github.com/paragon/backend/internal/domain/validation"
	"github.com/shopspring/decimal"
)

// HighPriority is the lowest priority counted as urgent
const HighPriority = 4

// Request is a reported maintenance issue in an apartment
type Request struct {
	shared.BaseEntity
	ApartmentID   int64
	TenantID      int64
	Description   string
	Priority      int
	ReportedDate  time.Time
	ScheduledDate *time.Time
	Completed     bool
	Cost          *decimal.Decimal
}

// NewRequest creates a pending request
func NewRequest(apartmentID, tenantID int64, description string, priority int, reported time.Time) (*Request, error) {
	r := &Request{
		ApartmentID:  apartmentID,
		TenantID:     tenantID,
		Description:  strings.TrimSpace(description),
		Priority:     priority,
		ReportedDate: shared.DateOf(reported),
	}
	if err := r.Validate(); err != nil {
		return nil, err
	}
	return r, nil
}

// Validate checks the request fields
func (r *Request) Validate() error {
	if r.ApartmentID <= 0 {
		return shared.NewValidationError("apartment_id", "apartment is required")
	}
	if r.TenantID <= 0 {
		return shared.NewValidationError("tenant_id", "tenant is required")
	}
	checks := []validation.Check{
		validation.Field("description", validation.Required(r.Description)),
		validation.Field("priority", validation.Priority(r.Priority)),
	}
	if r.Cost != nil {
		checks = append(checks, validation.Field("cost", validation.CheckAmount(*r.Cost, false)))
	}
	return validation.First(checks...)
}

// Complete marks the work done, recording its cost when known
func (r *Request) Complete(cost *decimal.Decimal) error {
	if cost != nil {
		if err := validation.CheckAmount(*cost, false).Err("cost"); err != nil {
			return err
		}
		r.Cost = cost
	}
	r.Completed = true
	return nil
}

// RequestView is a request enriched with its apartment, location and tenant
type RequestView struct {
	Request
	TenantName       string
	ApartmentAddress string
	LocationID       int64
	City             string
}

// Stats summarises maintenance workload. AverageCost covers completed
// requests with a recorded cost and is nil when there are none.
type Stats struct {
	Total               int64            `json:"total_requests"`
	Pending             int64            `json:"pending_requests"`
	Completed           int64            `json:"completed_requests"`
	AverageCost         *decimal.Decimal `json:"avg_cost"`
	HighPriorityPending int64            `json:"high_priority_pending"`
}
