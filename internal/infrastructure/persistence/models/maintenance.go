package models

import (
	"github.com/paragon/backend/internal/domain/maintenance"
	"github.com/paragon/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// MaintenanceRequestModel is the persistence model for the maintenance Request entity.
type MaintenanceRequestModel struct {
	ID            int64               `gorm:"column:request_id;primaryKey;autoIncrement"`
	ApartmentID   int64               `gorm:"column:apartment_id;not null"`
	TenantID      int64               `gorm:"column:tenant_id;not null"`
	Description   string              `gorm:"column:issue_description;not null"`
	Priority      int                 `gorm:"column:priority_level;not null"`
	ReportedDate  string              `gorm:"column:reported_date;not null"`
	ScheduledDate *string             `gorm:"column:scheduled_date"`
	Completed     bool                `gorm:"column:completed;not null"`
	Cost          decimal.NullDecimal `gorm:"column:cost"`
}

// TableName returns the table name for GORM
func (MaintenanceRequestModel) TableName() string {
	return "maintenance_requests"
}

// ToDomain converts the persistence model to a domain Request entity.
func (m *MaintenanceRequestModel) ToDomain() *maintenance.Request {
	r := &maintenance.Request{
		BaseEntity:    shared.BaseEntity{ID: m.ID},
		ApartmentID:   m.ApartmentID,
		TenantID:      m.TenantID,
		Description:   m.Description,
		Priority:      m.Priority,
		ReportedDate:  fromDate(m.ReportedDate),
		ScheduledDate: fromDatePtr(m.ScheduledDate),
		Completed:     m.Completed,
	}
	if m.Cost.Valid {
		cost := m.Cost.Decimal
		r.Cost = &cost
	}
	return r
}

// FromDomain populates the persistence model from a domain Request entity.
func (m *MaintenanceRequestModel) FromDomain(r *maintenance.Request) {
	m.ID = r.ID
	m.ApartmentID = r.ApartmentID
	m.TenantID = r.TenantID
	m.Description = r.Description
	m.Priority = r.Priority
	m.ReportedDate = toDate(r.ReportedDate)
	m.ScheduledDate = toDatePtr(r.ScheduledDate)
	m.Completed = r.Completed
	m.Cost = decimal.NullDecimal{}
	if r.Cost != nil {
		m.Cost = decimal.NewNullDecimal(*r.Cost)
	}
}

// MaintenanceRequestModelFromDomain creates a new persistence model from a domain Request entity.
func MaintenanceRequestModelFromDomain(r *maintenance.Request) *MaintenanceRequestModel {
	m := &MaintenanceRequestModel{}
	m.FromDomain(r)
	return m
}

// MaintenanceRequestViewRow is one row of the maintenance listing join
type MaintenanceRequestViewRow struct {
	MaintenanceRequestModel
	TenantName       string `gorm:"column:tenant_name"`
	ApartmentAddress string `gorm:"column:apartment_address"`
	LocationID       int64  `gorm:"column:location_id"`
	City             string `gorm:"column:city"`
}

// ToDomain converts the joined row to a domain RequestView.
func (r *MaintenanceRequestViewRow) ToDomain() maintenance.RequestView {
	return maintenance.RequestView{
		Request:          *r.MaintenanceRequestModel.ToDomain(),
		TenantName:       r.TenantName,
		ApartmentAddress: r.ApartmentAddress,
		LocationID:       r.LocationID,
		City:             r.City,
	}
}

// ComplaintModel is the persistence model for the Complaint domain entity.
type ComplaintModel struct {
	ID            int64  `gorm:"column:complaint_id;primaryKey;autoIncrement"`
	TenantID      int64  `gorm:"column:tenant_id;not null"`
	Description   string `gorm:"column:description;not null"`
	DateSubmitted string `gorm:"column:date_submitted;not null"`
	Resolved      bool   `gorm:"column:resolved;not null"`
}

// TableName returns the table name for GORM
func (ComplaintModel) TableName() string {
	return "complaint"
}

// ToDomain converts the persistence model to a domain Complaint entity.
func (m *ComplaintModel) ToDomain() *maintenance.Complaint {
	return &maintenance.Complaint{
		BaseEntity:    shared.BaseEntity{ID: m.ID},
		TenantID:      m.TenantID,
		Description:   m.Description,
		DateSubmitted: fromDate(m.DateSubmitted),
		Resolved:      m.Resolved,
	}
}

// FromDomain populates the persistence model from a domain Complaint entity.
func (m *ComplaintModel) FromDomain(c *maintenance.Complaint) {
	m.ID = c.ID
	m.TenantID = c.TenantID
	m.Description = c.Description
	m.DateSubmitted = toDate(c.DateSubmitted)
	m.Resolved = c.Resolved
}

// ComplaintModelFromDomain creates a new persistence model from a domain Complaint entity.
func ComplaintModelFromDomain(c *maintenance.Complaint) *ComplaintModel {
	m := &ComplaintModel{}
	m.FromDomain(c)
	return m
}
