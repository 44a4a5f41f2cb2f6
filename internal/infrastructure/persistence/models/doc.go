// Package models contains GORM-specific persistence models that map to database tables.
// These models are separate from domain entities to keep the domain layer pure and free
// from ORM concerns.
//
// Key Principles:
// 1. Domain entities carry no GORM tags and no storage concerns
// 2. Persistence models hold the column mappings of the SQLite schema
// 3. Mappers convert between domain entities and persistence models
// 4. Repositories use persistence models for database operations
//
// Storage conventions follow the schema in migration/sql: calendar dates are
// TEXT in YYYY-MM-DD form, money is REAL read back through decimal.Decimal,
// and flags are INTEGER 0/1.
//
// Structure:
// - base.go: date helpers shared by every model
// - identity.go: users
// - property.go: locations and apartments
// - tenancy.go: tenants and lease agreements
// - finance.go: invoices, payments and their joined views
// - maintenance.go: maintenance requests and complaints
package models
