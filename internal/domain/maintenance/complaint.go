package maintenance

import (
	"strings"
	"time"

	"github.com/paragon/backend/internal/domain/shared"
	"github.com/paragon/backend/internal/domain/validation"
)

// Complaint is a grievance raised by a tenant
type Complaint struct {
	shared.BaseEntity
	TenantID      int64
	Description   string
	DateSubmitted time.Time
	Resolved      bool
}

// NewComplaint creates an unresolved complaint
func NewComplaint(tenantID int64, description string, submitted time.Time) (*Complaint, error) {
	c := &Complaint{
		TenantID:      tenantID,
		Description:   strings.TrimSpace(description),
		DateSubmitted: shared.DateOf(submitted),
	}
	if c.TenantID <= 0 {
		return nil, shared.NewValidationError("tenant_id", "tenant is required")
	}
	if err := validation.Required(c.Description).Err("description"); err != nil {
		return nil, err
	}
	return c, nil
}
