package models

import (
	"github.com/paragon/backend/internal/domain/property"
	"github.com/paragon/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// LocationModel is the persistence model for the Location domain entity.
type LocationModel struct {
	ID      int64   `gorm:"column:location_id;primaryKey;autoIncrement"`
	City    string  `gorm:"column:city;not null;uniqueIndex"`
	Address *string `gorm:"column:address;uniqueIndex"`
}

// TableName returns the table name for GORM
func (LocationModel) TableName() string {
	return "locations"
}

// ToDomain converts the persistence model to a domain Location entity.
func (m *LocationModel) ToDomain() *property.Location {
	l := &property.Location{
		BaseEntity: shared.BaseEntity{ID: m.ID},
		City:       m.City,
	}
	if m.Address != nil {
		l.Address = *m.Address
	}
	return l
}

// FromDomain populates the persistence model from a domain Location entity.
func (m *LocationModel) FromDomain(l *property.Location) {
	m.ID = l.ID
	m.City = l.City
	m.Address = nil
	if l.Address != "" {
		addr := l.Address
		m.Address = &addr
	}
}

// LocationModelFromDomain creates a new persistence model from a domain Location entity.
func LocationModelFromDomain(l *property.Location) *LocationModel {
	m := &LocationModel{}
	m.FromDomain(l)
	return m
}

// ApartmentModel is the persistence model for the Apartment domain entity.
type ApartmentModel struct {
	ID          int64           `gorm:"column:apartment_id;primaryKey;autoIncrement"`
	LocationID  int64           `gorm:"column:location_id;not null"`
	Address     string          `gorm:"column:apartment_address;not null"`
	Beds        int             `gorm:"column:number_of_beds;not null"`
	MonthlyRent decimal.Decimal `gorm:"column:monthly_rent;not null"`
	Occupied    bool            `gorm:"column:occupied;not null"`
}

// TableName returns the table name for GORM
func (ApartmentModel) TableName() string {
	return "apartments"
}

// ToDomain converts the persistence model to a domain Apartment entity.
func (m *ApartmentModel) ToDomain() *property.Apartment {
	return &property.Apartment{
		BaseEntity:  shared.BaseEntity{ID: m.ID},
		LocationID:  m.LocationID,
		Address:     m.Address,
		Beds:        m.Beds,
		MonthlyRent: m.MonthlyRent,
		Occupied:    m.Occupied,
	}
}

// FromDomain populates the persistence model from a domain Apartment entity.
func (m *ApartmentModel) FromDomain(a *property.Apartment) {
	m.ID = a.ID
	m.LocationID = a.LocationID
	m.Address = a.Address
	m.Beds = a.Beds
	m.MonthlyRent = a.MonthlyRent
	m.Occupied = a.Occupied
}

// ApartmentModelFromDomain creates a new persistence model from a domain Apartment entity.
func ApartmentModelFromDomain(a *property.Apartment) *ApartmentModel {
	m := &ApartmentModel{}
	m.FromDomain(a)
	return m
}
