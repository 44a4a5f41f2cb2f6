package persistence

import (
	"context"
	"time"

	"github.com/paragon/backend/internal/domain/finance"
	"github.com/paragon/backend/internal/domain/shared"
	"github.com/paragon/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// invoiceViewColumns are the columns of the invoice listing join
const invoiceViewColumns = "i.*, t.name AS tenant_name, l.location_id AS location_id, l.city AS city"

// GormInvoiceRepository implements InvoiceRepository using GORM
type GormInvoiceRepository struct {
	db *gorm.DB
}

// NewGormInvoiceRepository creates a new GormInvoiceRepository
func NewGormInvoiceRepository(db *gorm.DB) *GormInvoiceRepository {
	return &GormInvoiceRepository{db: db}
}

// Create creates a new invoice
func (r *GormInvoiceRepository) Create(ctx context.Context, invoice *finance.Invoice) error {
	model := models.InvoiceModelFromDomain(invoice)
	if err := r.db.WithContext(ctx).Create(model).Error; err != nil {
		return translateError(err)
	}
	invoice.ID = model.ID
	return nil
}

// FindByID finds an invoice by ID
func (r *GormInvoiceRepository) FindByID(ctx context.Context, id int64) (*finance.Invoice, error) {
	var model models.InvoiceModel
	if err := r.db.WithContext(ctx).First(&model, "invoice_id = ?", id).Error; err != nil {
		return nil, findError(err, "invoice", id)
	}
	return model.ToDomain(), nil
}

// invoiceView starts the invoice listing join
func (r *GormInvoiceRepository) invoiceView(ctx context.Context, locationID *int64) *gorm.DB {
	return r.db.WithContext(ctx).
		Table("invoices i").
		Joins("JOIN tenants t ON t.tenant_id = i.tenant_id").
		Joins(activeLeaseJoins).
		Scopes(locationScope("l.location_id", locationID))
}

// FindAll returns invoices joined with tenant and location, latest due first
func (r *GormInvoiceRepository) FindAll(ctx context.Context, filter finance.InvoiceFilter) (shared.Paginated[finance.InvoiceView], error) {
	filter.Filter = filter.Normalize()
	query := r.invoiceView(ctx, filter.LocationID).
		Scopes(
			eqScope("i.tenant_id", filter.TenantID),
			eqScope("i.paid", filter.Paid),
		)
	return r.list(query, filter.Filter, "i.due_date DESC, i.invoice_id DESC")
}

// FindLate returns unpaid invoices due strictly before AsOf, oldest due first
func (r *GormInvoiceRepository) FindLate(ctx context.Context, filter finance.LateFilter) (shared.Paginated[finance.InvoiceView], error) {
	filter.Filter = filter.Normalize()
	query := r.invoiceView(ctx, filter.LocationID).
		Where("i.paid = 0 AND i.due_date < ?", dateArg(filter.AsOf))
	return r.list(query, filter.Filter, "i.due_date ASC, i.invoice_id ASC")
}

func (r *GormInvoiceRepository) list(query *gorm.DB, filter shared.Filter, natural string) (shared.Paginated[finance.InvoiceView], error) {
	var total int64
	if err := query.Count(&total).Error; err != nil {
		return shared.Paginated[finance.InvoiceView]{}, translateError(err)
	}

	var rows []models.InvoiceViewRow
	query = orderBy(query.Select(invoiceViewColumns), filter.OrderBy, filter.OrderDir, InvoiceSortFields, natural)
	query = paginate(query, filter.Offset(), filter.PageSize)
	if err := query.Scan(&rows).Error; err != nil {
		return shared.Paginated[finance.InvoiceView]{}, translateError(err)
	}

	views := make([]finance.InvoiceView, len(rows))
	for i := range rows {
		views[i] = rows[i].ToDomain()
	}
	return shared.NewPaginated(views, total, filter.Page, filter.PageSize), nil
}

// Update updates an existing invoice
func (r *GormInvoiceRepository) Update(ctx context.Context, invoice *finance.Invoice) error {
	model := models.InvoiceModelFromDomain(invoice)
	result := r.db.WithContext(ctx).
		Model(&models.InvoiceModel{}).
		Where("invoice_id = ?", invoice.ID).
		Select("tenant_id", "amount_due", "due_date", "issue_date", "paid").
		Updates(model)
	if result.Error != nil {
		return translateError(result.Error)
	}
	if result.RowsAffected == 0 {
		return notFound("invoice", invoice.ID)
	}
	return nil
}

// MarkPaid sets the paid flag
func (r *GormInvoiceRepository) MarkPaid(ctx context.Context, id int64) error {
	result := r.db.WithContext(ctx).
		Model(&models.InvoiceModel{}).
		Where("invoice_id = ?", id).
		Update("paid", true)
	if result.Error != nil {
		return translateError(result.Error)
	}
	if result.RowsAffected == 0 {
		return notFound("invoice", id)
	}
	return nil
}

// Delete deletes an invoice. A recorded payment makes the store refuse.
func (r *GormInvoiceRepository) Delete(ctx context.Context, id int64) error {
	result := r.db.WithContext(ctx).Delete(&models.InvoiceModel{}, "invoice_id = ?", id)
	if result.Error != nil {
		return translateError(result.Error)
	}
	if result.RowsAffected == 0 {
		return notFound("invoice", id)
	}
	return nil
}

// DeleteAll removes every invoice. Payments must be removed first.
func (r *GormInvoiceRepository) DeleteAll(ctx context.Context) (int64, error) {
	result := r.db.WithContext(ctx).Where("1 = 1").Delete(&models.InvoiceModel{})
	if result.Error != nil {
		return 0, translateError(result.Error)
	}
	return result.RowsAffected, nil
}

// GormPaymentRepository implements PaymentRepository using GORM
type GormPaymentRepository struct {
	db *gorm.DB
}

// NewGormPaymentRepository creates a new GormPaymentRepository
func NewGormPaymentRepository(db *gorm.DB) *GormPaymentRepository {
	return &GormPaymentRepository{db: db}
}

// Create records a payment
func (r *GormPaymentRepository) Create(ctx context.Context, payment *finance.Payment) error {
	model := models.PaymentModelFromDomain(payment)
	if err := r.db.WithContext(ctx).Create(model).Error; err != nil {
		return translateError(err)
	}
	payment.ID = model.ID
	return nil
}

// FindByID finds a payment by ID
func (r *GormPaymentRepository) FindByID(ctx context.Context, id int64) (*finance.Payment, error) {
	var model models.PaymentModel
	if err := r.db.WithContext(ctx).First(&model, "payment_id = ?", id).Error; err != nil {
		return nil, findError(err, "payment", id)
	}
	return model.ToDomain(), nil
}

// ExistsForInvoice reports whether any payment references the invoice
func (r *GormPaymentRepository) ExistsForInvoice(ctx context.Context, invoiceID int64) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.PaymentModel{}).
		Where("invoice_id = ?", invoiceID).
		Count(&count).Error; err != nil {
		return false, translateError(err)
	}
	return count > 0, nil
}

// FindAll returns payments joined with tenant and location, latest first
func (r *GormPaymentRepository) FindAll(ctx context.Context, filter finance.PaymentFilter) (shared.Paginated[finance.PaymentView], error) {
	filter.Filter = filter.Normalize()
	query := r.db.WithContext(ctx).
		Table("payments p").
		Joins("JOIN invoices i ON i.invoice_id = p.invoice_id").
		Joins("JOIN tenants t ON t.tenant_id = i.tenant_id").
		Joins(activeLeaseJoins).
		Scopes(
			locationScope("l.location_id", filter.LocationID),
			eqScope("p.invoice_id", filter.InvoiceID),
		)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return shared.Paginated[finance.PaymentView]{}, translateError(err)
	}

	var rows []models.PaymentViewRow
	query = orderBy(query.Select("p.*, t.name AS tenant_name, l.location_id AS location_id, l.city AS city"),
		filter.OrderBy, filter.OrderDir, PaymentSortFields, "p.payment_date DESC, p.payment_id DESC")
	query = paginate(query, filter.Offset(), filter.PageSize)
	if err := query.Scan(&rows).Error; err != nil {
		return shared.Paginated[finance.PaymentView]{}, translateError(err)
	}

	views := make([]finance.PaymentView, len(rows))
	for i := range rows {
		views[i] = rows[i].ToDomain()
	}
	return shared.NewPaginated(views, total, filter.Page, filter.PageSize), nil
}

// DeleteAll removes every payment
func (r *GormPaymentRepository) DeleteAll(ctx context.Context) (int64, error) {
	result := r.db.WithContext(ctx).Where("1 = 1").Delete(&models.PaymentModel{})
	if result.Error != nil {
		return 0, translateError(result.Error)
	}
	return result.RowsAffected, nil
}

// dateArg renders a date query argument
func dateArg(t time.Time) string {
	return shared.FormatDate(t)
}

// Ensure the finance repositories implement their ports
var (
	_ finance.InvoiceRepository = (*GormInvoiceRepository)(nil)
	_ finance.PaymentRepository = (*GormPaymentRepository)(nil)
)
