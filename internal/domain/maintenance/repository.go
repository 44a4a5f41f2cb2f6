package maintenance

import (
	"context"
	"time"

	"github.com/paragon/backend/internal/domain/shared"
)

// RequestFilter contains filter options for querying maintenance requests
type RequestFilter struct {
	shared.Filter
	LocationID *int64
	Completed  *bool
	Priority   *int
}

// RequestRepository defines the interface for maintenance persistence
type RequestRepository interface {
	Create(ctx context.Context, request *Request) error
	FindByID(ctx context.Context, id int64) (*RequestView, error)
	// FindAll orders by priority desc, reported date desc, id desc
	FindAll(ctx context.Context, filter RequestFilter) (shared.Paginated[RequestView], error)
	// FindScheduled lists pending requests scheduled on or after from, soonest first
	FindScheduled(ctx context.Context, locationID *int64, from time.Time) ([]RequestView, error)
	Update(ctx context.Context, request *Request) error
	Delete(ctx context.Context, id int64) error
	DeleteAll(ctx context.Context) (int64, error)
	Stats(ctx context.Context, locationID *int64) (*Stats, error)
}

// ComplaintFilter contains filter options for querying complaints
type ComplaintFilter struct {
	shared.Filter
	TenantID *int64
	Resolved *bool
}

// ComplaintRepository defines the interface for complaint persistence
type ComplaintRepository interface {
	Create(ctx context.Context, complaint *Complaint) error
	FindByID(ctx context.Context, id int64) (*Complaint, error)
	FindAll(ctx context.Context, filter ComplaintFilter) (shared.Paginated[Complaint], error)
	Update(ctx context.Context, complaint *Complaint) error
	Delete(ctx context.Context, id int64) error
}
