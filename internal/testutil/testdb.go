// Package testutil provides common test utilities for the Paragon backend.
package testutil

import (
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/paragon/backend/internal/domain/identity"
	"github.com/paragon/backend/internal/infrastructure/config"
	"github.com/paragon/backend/internal/infrastructure/migration"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// TestDB is a private store migrated with the production schema
type TestDB struct {
	DB    *gorm.DB
	SqlDB *sql.DB
	t     *testing.T
}

// NewTestDB opens a fresh in-memory store and applies every migration.
// Password hashing is switched to the minimum bcrypt cost.
func NewTestDB(t *testing.T) *TestDB {
	t.Helper()
	return openTestDB(t, config.MemoryDatabasePath, 1)
}

// NewFileTestDB is NewTestDB over a temporary file with maxOpenConns
// connections, for tests that need callers racing on separate connections.
func NewFileTestDB(t *testing.T, maxOpenConns int) *TestDB {
	t.Helper()
	return openTestDB(t, filepath.Join(t.TempDir(), "paragon.db"), maxOpenConns)
}

func openTestDB(t *testing.T, path string, maxOpenConns int) *TestDB {
	t.Helper()
	identity.PasswordCost = bcrypt.MinCost

	cfg := &config.DatabaseConfig{Path: path}
	db, err := gorm.Open(sqlite.Open(cfg.DSN()), &gorm.Config{
		Logger:                 logger.Default.LogMode(logger.Silent),
		SkipDefaultTransaction: true,
	})
	require.NoError(t, err, "Failed to open test database")

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(maxOpenConns)
	sqlDB.SetMaxIdleConns(maxOpenConns)
	sqlDB.SetConnMaxLifetime(0)
	sqlDB.SetConnMaxIdleTime(0)

	require.NoError(t, migration.Apply(sqlDB, nil), "Failed to migrate test database")

	tdb := &TestDB{DB: db, SqlDB: sqlDB, t: t}
	t.Cleanup(func() { _ = sqlDB.Close() })
	return tdb
}

// Exec runs a statement and fails the test on error
func (d *TestDB) Exec(query string, args ...any) {
	d.t.Helper()
	require.NoError(d.t, d.DB.Exec(query, args...).Error, query)
}

// InsertID runs an INSERT and returns the new row id. Both statements run
// on the same pooled connection, last_insert_rowid is per connection.
func (d *TestDB) InsertID(query string, args ...any) int64 {
	d.t.Helper()
	var id int64
	err := d.DB.Connection(func(conn *gorm.DB) error {
		if err := conn.Exec(query, args...).Error; err != nil {
			return err
		}
		return conn.Raw("SELECT last_insert_rowid()").Scan(&id).Error
	})
	require.NoError(d.t, err, query)
	return id
}

// Count returns the number of rows in table
func (d *TestDB) Count(table string) int64 {
	d.t.Helper()
	var n int64
	require.NoError(d.t, d.DB.Table(table).Count(&n).Error)
	return n
}

// Fixture ids created by Seed
type Fixture struct {
	Bristol, London         int64
	BristolFlat, LondonFlat int64
	SpareFlat               int64
	Alice, Bob, Carol       int64
	AliceLease, BobLease    int64
}

// Seed creates two locations with one leased apartment each, a vacant
// apartment in Bristol and three tenants: Alice leases in Bristol, Bob in
// London and Carol has no active lease.
func (d *TestDB) Seed() Fixture {
	d.t.Helper()
	var f Fixture
	f.Bristol = d.InsertID(`INSERT INTO locations (city, address) VALUES ('Bristol', '12 Broadmead, Bristol')`)
	f.London = d.InsertID(`INSERT INTO locations (city, address) VALUES ('London', '18 Rupert St, London')`)
	f.BristolFlat = d.InsertID(`INSERT INTO apartments (location_id, apartment_address, number_of_beds, monthly_rent, occupied)
		VALUES (?, 'Flat 1, Broadmead', 2, 950, 1)`, f.Bristol)
	f.LondonFlat = d.InsertID(`INSERT INTO apartments (location_id, apartment_address, number_of_beds, monthly_rent, occupied)
		VALUES (?, 'Flat 9, Rupert St', 1, 1400, 1)`, f.London)
	f.SpareFlat = d.InsertID(`INSERT INTO apartments (location_id, apartment_address, number_of_beds, monthly_rent, occupied)
		VALUES (?, 'Flat 2, Broadmead', 3, 1100, 0)`, f.Bristol)
	f.Alice = d.Tenant("Alice Smith", "AB123456C", "alice@example.com")
	f.Bob = d.Tenant("Bob Jones", "CE654321A", "bob@example.com")
	f.Carol = d.Tenant("Carol White", "JT334455B", "carol@example.com")
	f.AliceLease = d.InsertID(`INSERT INTO lease_agreements (tenant_id, apartment_id, start_date, end_date, monthly_rent, active)
		VALUES (?, ?, '2025-01-01', '2026-12-31', 950, 1)`, f.Alice, f.BristolFlat)
	f.BobLease = d.InsertID(`INSERT INTO lease_agreements (tenant_id, apartment_id, start_date, end_date, monthly_rent, active)
		VALUES (?, ?, '2025-06-01', '2026-05-31', 1400, 1)`, f.Bob, f.LondonFlat)
	return f
}

// Tenant inserts a tenant with a valid phone number
func (d *TestDB) Tenant(name, ni, email string) int64 {
	d.t.Helper()
	return d.InsertID(`INSERT INTO tenants (name, ni_number, email, phone, credit_check) VALUES (?, ?, ?, '07123456789', 'Passed')`,
		name, ni, email)
}

// Invoice inserts an invoice and returns its id
func (d *TestDB) Invoice(tenantID int64, amount string, due, issue string, paid bool) int64 {
	d.t.Helper()
	return d.InsertID(`INSERT INTO invoices (tenant_id, amount_due, due_date, issue_date, paid) VALUES (?, ?, ?, ?, ?)`,
		tenantID, amount, due, issue, paid)
}

// Payment inserts a payment and returns its id
func (d *TestDB) Payment(invoiceID, tenantID int64, amount, date string) int64 {
	d.t.Helper()
	return d.InsertID(`INSERT INTO payments (invoice_id, tenant_id, payment_date, amount) VALUES (?, ?, ?, ?)`,
		invoiceID, tenantID, date, amount)
}

// Close closes the store, used to exercise connection errors
func (d *TestDB) Close() {
	d.t.Helper()
	require.NoError(d.t, d.SqlDB.Close())
}
