package models

import (
	"github.com/paragon/backend/internal/domain/shared"
	"github.com/paragon/backend/internal/domain/tenancy"
	"github.com/shopspring/decimal"
)

// TenantModel is the persistence model for the Tenant domain entity.
type TenantModel struct {
	ID           int64               `gorm:"column:tenant_id;primaryKey;autoIncrement"`
	Name         string              `gorm:"column:name;not null"`
	DateOfBirth  *string             `gorm:"column:date_of_birth"`
	NINumber     string              `gorm:"column:ni_number;not null;uniqueIndex"`
	Email        string              `gorm:"column:email;not null;uniqueIndex"`
	Phone        string              `gorm:"column:phone;not null"`
	Occupation   *string             `gorm:"column:occupation"`
	AnnualSalary decimal.NullDecimal `gorm:"column:annual_salary"`
	Pets         bool                `gorm:"column:pets;not null"`
	RightToRent  bool                `gorm:"column:right_to_rent;not null"`
	CreditCheck  string              `gorm:"column:credit_check;not null;default:'Pending'"`
}

// TableName returns the table name for GORM
func (TenantModel) TableName() string {
	return "tenants"
}

// ToDomain converts the persistence model to a domain Tenant entity.
func (m *TenantModel) ToDomain() *tenancy.Tenant {
	t := &tenancy.Tenant{
		BaseEntity:  shared.BaseEntity{ID: m.ID},
		Name:        m.Name,
		NINumber:    m.NINumber,
		Email:       m.Email,
		Phone:       m.Phone,
		DateOfBirth: fromDatePtr(m.DateOfBirth),
		Pets:        m.Pets,
		RightToRent: m.RightToRent,
		CreditCheck: tenancy.CreditCheck(m.CreditCheck),
	}
	if m.Occupation != nil {
		t.Occupation = *m.Occupation
	}
	if m.AnnualSalary.Valid {
		salary := m.AnnualSalary.Decimal
		t.AnnualSalary = &salary
	}
	return t
}

// FromDomain populates the persistence model from a domain Tenant entity.
func (m *TenantModel) FromDomain(t *tenancy.Tenant) {
	m.ID = t.ID
	m.Name = t.Name
	m.DateOfBirth = toDatePtr(t.DateOfBirth)
	m.NINumber = t.NINumber
	m.Email = t.Email
	m.Phone = t.Phone
	m.Occupation = nil
	if t.Occupation != "" {
		occupation := t.Occupation
		m.Occupation = &occupation
	}
	m.AnnualSalary = decimal.NullDecimal{}
	if t.AnnualSalary != nil {
		m.AnnualSalary = decimal.NewNullDecimal(*t.AnnualSalary)
	}
	m.Pets = t.Pets
	m.RightToRent = t.RightToRent
	m.CreditCheck = string(t.CreditCheck)
}

// TenantModelFromDomain creates a new persistence model from a domain Tenant entity.
func TenantModelFromDomain(t *tenancy.Tenant) *TenantModel {
	m := &TenantModel{}
	m.FromDomain(t)
	return m
}

// LeaseModel is the persistence model for the Lease domain entity.
type LeaseModel struct {
	ID          int64           `gorm:"column:lease_id;primaryKey;autoIncrement"`
	TenantID    int64           `gorm:"column:tenant_id;not null"`
	ApartmentID int64           `gorm:"column:apartment_id;not null"`
	StartDate   string          `gorm:"column:start_date;not null"`
	EndDate     string          `gorm:"column:end_date;not null"`
	MonthlyRent decimal.Decimal `gorm:"column:monthly_rent;not null"`
	Active      bool            `gorm:"column:active;not null"`
}

// TableName returns the table name for GORM
func (LeaseModel) TableName() string {
	return "lease_agreements"
}

// ToDomain converts the persistence model to a domain Lease entity.
func (m *LeaseModel) ToDomain() *tenancy.Lease {
	return &tenancy.Lease{
		BaseEntity:  shared.BaseEntity{ID: m.ID},
		TenantID:    m.TenantID,
		ApartmentID: m.ApartmentID,
		StartDate:   fromDate(m.StartDate),
		EndDate:     fromDate(m.EndDate),
		MonthlyRent: m.MonthlyRent,
		Active:      m.Active,
	}
}

// FromDomain populates the persistence model from a domain Lease entity.
func (m *LeaseModel) FromDomain(l *tenancy.Lease) {
	m.ID = l.ID
	m.TenantID = l.TenantID
	m.ApartmentID = l.ApartmentID
	m.StartDate = toDate(l.StartDate)
	m.EndDate = toDate(l.EndDate)
	m.MonthlyRent = l.MonthlyRent
	m.Active = l.Active
}

// LeaseModelFromDomain creates a new persistence model from a domain Lease entity.
func LeaseModelFromDomain(l *tenancy.Lease) *LeaseModel {
	m := &LeaseModel{}
	m.FromDomain(l)
	return m
}
