package router_test

import (
	"context"
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	appidentity "github.com/paragon/backend/internal/application/identity"
	"github.com/paragon/backend/internal/bootstrap"
	"github.com/paragon/backend/internal/domain/finance"
	"github.com/paragon/backend/internal/domain/identity"
	"github.com/paragon/backend/internal/domain/shared"
	"github.com/paragon/backend/internal/infrastructure/config"
	"github.com/paragon/backend/internal/infrastructure/persistence"
	"github.com/paragon/backend/internal/interfaces/http/dto"
	"github.com/paragon/backend/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fixedToday = shared.MustParseDate("2026-03-10")

type apiEnv struct {
	db     *testutil.TestDB
	f      testutil.Fixture
	engine *gin.Engine
}

func newAPIEnv(t *testing.T) *apiEnv {
	t.Helper()
	db := testutil.NewTestDB(t)
	f := db.Seed()

	cfg := &config.Config{
		App:     config.AppConfig{Name: "paragon-test", Env: "test"},
		JWT:     config.JWTConfig{Secret: "router-test-secret-of-sufficient-length", Issuer: "paragon-test", AccessTokenExpiration: time.Hour},
		Finance: config.FinanceConfig{PageSize: 25},
	}
	c := bootstrap.New(cfg, &persistence.Database{DB: db.DB}, nil, func() time.Time { return fixedToday })

	ctx := context.Background()
	accounts := []appidentity.CreateUserRequest{
		{Username: "manager", Password: "secret123", Role: "manager"},
		{Username: "finance", Password: "secret123", Role: "finance"},
		{Username: "desk", Password: "secret123", Role: "frontdesk", LocationID: &f.Bristol},
		{Username: "fixer", Password: "secret123", Role: "maintenance", LocationID: &f.Bristol},
	}
	for _, req := range accounts {
		_, err := c.Users.CreateUser(ctx, identity.SystemScope(), req)
		require.NoError(t, err, req.Username)
	}

	engine, err := c.Engine(cfg)
	require.NoError(t, err)
	return &apiEnv{db: db, f: f, engine: engine}
}

func (e *apiEnv) login(t *testing.T, username string) string {
	t.Helper()
	w := testutil.Request(t, e.engine, http.MethodPost, "/api/v1/auth/login",
		map[string]string{"username": username, "password": "secret123"}, "")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	result := testutil.DecodeData[appidentity.LoginResult](t, w)
	require.NotEmpty(t, result.AccessToken)
	return result.AccessToken
}

func TestRouter_System(t *testing.T) {
	env := newAPIEnv(t)

	w := testutil.Request(t, env.engine, http.MethodGet, "/health", nil, "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))

	w = testutil.Request(t, env.engine, http.MethodGet, "/ready", nil, "")
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRouter_Auth(t *testing.T) {
	env := newAPIEnv(t)

	t.Run("wrong password is unauthorized", func(t *testing.T) {
		w := testutil.Request(t, env.engine, http.MethodPost, "/api/v1/auth/login",
			map[string]string{"username": "manager", "password": "nope1234"}, "")
		testutil.AssertError(t, w, http.StatusUnauthorized, shared.CodeUnauthorized)
	})

	t.Run("missing fields are rejected before the service", func(t *testing.T) {
		w := testutil.Request(t, env.engine, http.MethodPost, "/api/v1/auth/login",
			map[string]string{"username": "manager"}, "")
		testutil.AssertError(t, w, http.StatusBadRequest, shared.CodeValidation)
	})

	t.Run("secured routes need a token", func(t *testing.T) {
		w := testutil.Request(t, env.engine, http.MethodGet, "/api/v1/tenants", nil, "")
		testutil.AssertError(t, w, http.StatusUnauthorized, shared.CodeUnauthorized)

		w = testutil.Request(t, env.engine, http.MethodGet, "/api/v1/tenants", nil, "not-a-token")
		testutil.AssertError(t, w, http.StatusUnauthorized, shared.CodeUnauthorized)
	})

	t.Run("me returns the session and logout revokes it", func(t *testing.T) {
		token := env.login(t, "desk")

		w := testutil.Request(t, env.engine, http.MethodGet, "/api/v1/auth/me", nil, token)
		require.Equal(t, http.StatusOK, w.Code)
		me := testutil.DecodeData[appidentity.UserInfo](t, w)
		assert.Equal(t, "desk", me.Username)
		assert.Equal(t, identity.RoleFrontDesk, me.Role)
		require.NotNil(t, me.LocationID)
		assert.Equal(t, env.f.Bristol, *me.LocationID)

		w = testutil.Request(t, env.engine, http.MethodPost, "/api/v1/auth/logout", nil, token)
		assert.Equal(t, http.StatusNoContent, w.Code)

		w = testutil.Request(t, env.engine, http.MethodGet, "/api/v1/auth/me", nil, token)
		testutil.AssertError(t, w, http.StatusUnauthorized, shared.CodeUnauthorized)
	})
}

func TestRouter_Tenants(t *testing.T) {
	env := newAPIEnv(t)
	manager := env.login(t, "manager")
	desk := env.login(t, "desk")
	fixer := env.login(t, "fixer")

	newTenant := map[string]any{
		"name":          "Dan Brown",
		"ni_number":     "AB654321D",
		"email":         "dan@example.com",
		"phone":         "07 123 456 780",
		"date_of_birth": "1990-04-01",
		"credit_check":  "Passed",
	}

	t.Run("manager lists every tenant", func(t *testing.T) {
		w := testutil.Request(t, env.engine, http.MethodGet, "/api/v1/tenants", nil, manager)
		require.Equal(t, http.StatusOK, w.Code)
		resp := testutil.Decode(t, w)
		require.NotNil(t, resp.Meta)
		assert.Equal(t, int64(3), resp.Meta.Total)
	})

	t.Run("front desk only sees its location", func(t *testing.T) {
		w := testutil.Request(t, env.engine, http.MethodGet, "/api/v1/tenants", nil, desk)
		require.Equal(t, http.StatusOK, w.Code)
		tenants := testutil.DecodeData[[]dto.TenantResponse](t, w)
		require.Len(t, tenants, 1)
		assert.Equal(t, "Alice Smith", tenants[0].Name)

		w = testutil.Request(t, env.engine, http.MethodGet,
			fmt.Sprintf("/api/v1/tenants?location_id=%d", env.f.London), nil, desk)
		testutil.AssertError(t, w, http.StatusForbidden, shared.CodeForbidden)
	})

	t.Run("front desk registers a tenant", func(t *testing.T) {
		w := testutil.Request(t, env.engine, http.MethodPost, "/api/v1/tenants", newTenant, desk)
		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
		created := testutil.DecodeData[dto.TenantResponse](t, w)
		assert.NotZero(t, created.ID)
		assert.Equal(t, "07123456780", created.Phone)

		w = testutil.Request(t, env.engine, http.MethodGet, fmt.Sprintf("/api/v1/tenants/%d", created.ID), nil, desk)
		require.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("duplicate email is a conflict", func(t *testing.T) {
		dup := map[string]any{}
		for k, v := range newTenant {
			dup[k] = v
		}
		dup["ni_number"] = "CE112233A"
		w := testutil.Request(t, env.engine, http.MethodPost, "/api/v1/tenants", dup, manager)
		testutil.AssertError(t, w, http.StatusConflict, shared.CodeConstraintViolation)
	})

	t.Run("domain validation names the field", func(t *testing.T) {
		bad := map[string]any{}
		for k, v := range newTenant {
			bad[k] = v
		}
		bad["email"] = "erin@example.com"
		bad["ni_number"] = "DA123456A"
		w := testutil.Request(t, env.engine, http.MethodPost, "/api/v1/tenants", bad, manager)
		testutil.AssertError(t, w, http.StatusBadRequest, shared.CodeValidation)
		assert.Equal(t, "ni_number", testutil.Decode(t, w).Error.Field)
	})

	t.Run("maintenance staff cannot register tenants", func(t *testing.T) {
		w := testutil.Request(t, env.engine, http.MethodPost, "/api/v1/tenants", newTenant, fixer)
		testutil.AssertError(t, w, http.StatusForbidden, shared.CodeForbidden)
	})

	t.Run("front desk cannot delete tenants", func(t *testing.T) {
		w := testutil.Request(t, env.engine, http.MethodDelete, fmt.Sprintf("/api/v1/tenants/%d", env.f.Carol), nil, desk)
		testutil.AssertError(t, w, http.StatusForbidden, shared.CodeForbidden)
	})

	t.Run("unknown tenant is not found", func(t *testing.T) {
		w := testutil.Request(t, env.engine, http.MethodGet, "/api/v1/tenants/9999", nil, manager)
		testutil.AssertError(t, w, http.StatusNotFound, shared.CodeNotFound)
	})

	t.Run("non numeric id is a bad request", func(t *testing.T) {
		w := testutil.Request(t, env.engine, http.MethodGet, "/api/v1/tenants/abc", nil, manager)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestRouter_Finance(t *testing.T) {
	env := newAPIEnv(t)
	accountant := env.login(t, "finance")
	desk := env.login(t, "desk")

	var invoiceID int64

	t.Run("finance issues an invoice", func(t *testing.T) {
		w := testutil.Request(t, env.engine, http.MethodPost, "/api/v1/finance/invoices", map[string]any{
			"tenant_id":  env.f.Alice,
			"amount_due": "950.00",
			"due_date":   "2026-04-01",
		}, accountant)
		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
		invoice := testutil.DecodeData[dto.InvoiceResponse](t, w)
		invoiceID = invoice.ID
		assert.Equal(t, "950.00", invoice.AmountDue)
		assert.Equal(t, "2026-03-10", invoice.IssueDate)
		assert.False(t, invoice.Paid)
	})

	t.Run("malformed due date is rejected at binding", func(t *testing.T) {
		w := testutil.Request(t, env.engine, http.MethodPost, "/api/v1/finance/invoices", map[string]any{
			"tenant_id":  env.f.Alice,
			"amount_due": "950.00",
			"due_date":   "2026-13-40",
		}, accountant)
		testutil.AssertError(t, w, http.StatusBadRequest, shared.CodeValidation)
	})

	t.Run("front desk cannot issue invoices", func(t *testing.T) {
		w := testutil.Request(t, env.engine, http.MethodPost, "/api/v1/finance/invoices", map[string]any{
			"tenant_id":  env.f.Alice,
			"amount_due": "950.00",
			"due_date":   "2026-04-01",
		}, desk)
		testutil.AssertError(t, w, http.StatusForbidden, shared.CodeForbidden)
	})

	t.Run("payment settles the invoice once", func(t *testing.T) {
		require.NotZero(t, invoiceID)
		path := fmt.Sprintf("/api/v1/finance/invoices/%d/payments", invoiceID)
		body := map[string]any{"tenant_id": env.f.Alice, "amount": "950.00", "payment_date": "2026-03-12"}

		w := testutil.Request(t, env.engine, http.MethodPost, path, body, accountant)
		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
		payment := testutil.DecodeData[dto.PaymentResponse](t, w)
		assert.Equal(t, invoiceID, payment.InvoiceID)

		w = testutil.Request(t, env.engine, http.MethodPost, path, body, accountant)
		testutil.AssertError(t, w, http.StatusUnprocessableEntity, finance.CodeAlreadyPaid)

		w = testutil.Request(t, env.engine, http.MethodGet, fmt.Sprintf("/api/v1/finance/invoices/%d", invoiceID), nil, accountant)
		require.Equal(t, http.StatusOK, w.Code)
		assert.True(t, testutil.DecodeData[dto.InvoiceResponse](t, w).Paid)
	})

	t.Run("payment from another tenant is invalid", func(t *testing.T) {
		id := env.db.Invoice(env.f.Alice, "100.00", "2026-02-01", "2026-01-01", false)
		w := testutil.Request(t, env.engine, http.MethodPost, fmt.Sprintf("/api/v1/finance/invoices/%d/payments", id),
			map[string]any{"tenant_id": env.f.Bob, "amount": "100.00"}, accountant)
		testutil.AssertError(t, w, http.StatusBadRequest, shared.CodeValidation)
	})

	t.Run("late invoices are listed per location", func(t *testing.T) {
		env.db.Invoice(env.f.Bob, "1400.00", "2026-01-01", "2025-12-01", false)

		w := testutil.Request(t, env.engine, http.MethodGet, "/api/v1/finance/invoices/late", nil, accountant)
		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, int64(2), testutil.Decode(t, w).Meta.Total)

		w = testutil.Request(t, env.engine, http.MethodGet, "/api/v1/finance/invoices/late", nil, desk)
		require.Equal(t, http.StatusOK, w.Code)
		late := testutil.DecodeData[[]dto.InvoiceResponse](t, w)
		require.Len(t, late, 1)
		assert.Equal(t, env.f.Alice, late[0].TenantID)
	})

	t.Run("summary requires report access", func(t *testing.T) {
		w := testutil.Request(t, env.engine, http.MethodGet, "/api/v1/finance/summary", nil, accountant)
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())

		w = testutil.Request(t, env.engine, http.MethodGet, "/api/v1/finance/summary", nil, desk)
		testutil.AssertError(t, w, http.StatusForbidden, shared.CodeForbidden)
	})

	t.Run("timeseries rejects unknown grouping", func(t *testing.T) {
		w := testutil.Request(t, env.engine, http.MethodGet,
			"/api/v1/finance/timeseries?start_date=2026-01-01&end_date=2026-03-31&grouping=day", nil, accountant)
		testutil.AssertError(t, w, http.StatusBadRequest, shared.CodeValidation)

		w = testutil.Request(t, env.engine, http.MethodGet,
			"/api/v1/finance/timeseries?start_date=2026-01-01&end_date=2026-03-31&grouping=month", nil, accountant)
		assert.Equal(t, http.StatusOK, w.Code, w.Body.String())
	})

	t.Run("export streams a workbook", func(t *testing.T) {
		w := testutil.Request(t, env.engine, http.MethodGet, "/api/v1/finance/export/invoices", nil, accountant)
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		assert.Contains(t, w.Header().Get("Content-Disposition"), ".xlsx")
		assert.NotZero(t, w.Body.Len())

		w = testutil.Request(t, env.engine, http.MethodGet, "/api/v1/finance/export/nonsense", nil, accountant)
		testutil.AssertError(t, w, http.StatusBadRequest, shared.CodeValidation)
	})
}
