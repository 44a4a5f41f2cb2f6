package dto

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/paragon/backend/internal/domain/finance"
	"github.com/paragon/backend/internal/domain/shared"
	"github.com/stretchr/testify/assert"
)

func TestFromError(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
		code   string
	}{
		{"constraint", shared.NewConstraintViolation("UNIQUE constraint failed: tenants.email"), http.StatusConflict, shared.CodeConstraintViolation},
		{"validation", shared.NewValidationError("amount", "amount must be greater than zero"), http.StatusBadRequest, shared.CodeValidation},
		{"not found", shared.NewNotFoundError("invoice", 9), http.StatusNotFound, shared.CodeNotFound},
		{"already paid", finance.NewAlreadyPaidError(3), http.StatusUnprocessableEntity, finance.CodeAlreadyPaid},
		{"duplicate payment", finance.NewDuplicatePaymentError(3), http.StatusUnprocessableEntity, finance.CodeDuplicatePayment},
		{"forbidden", shared.NewForbiddenError("no"), http.StatusForbidden, shared.CodeForbidden},
		{"unauthorized", shared.ErrUnauthorized, http.StatusUnauthorized, shared.CodeUnauthorized},
		{"connection", shared.NewConnectionError("unable to open database file"), http.StatusServiceUnavailable, shared.CodeConnection},
		{"wrapped", fmt.Errorf("record payment: %w", finance.NewAlreadyPaidError(1)), http.StatusUnprocessableEntity, finance.CodeAlreadyPaid},
		{"plain", errors.New("boom"), http.StatusInternalServerError, ErrCodeInternal},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, resp := FromError(tt.err, "req-1")
			assert.Equal(t, tt.status, status)
			assert.False(t, resp.Success)
			assert.Equal(t, tt.code, resp.Error.Code)
			assert.Equal(t, "req-1", resp.Error.RequestID)
		})
	}
}

func TestFromError_KeepsStoreMessageAndField(t *testing.T) {
	_, resp := FromError(shared.NewConstraintViolation("UNIQUE constraint failed: tenants.email"), "")
	assert.Equal(t, "UNIQUE constraint failed: tenants.email", resp.Error.Message)

	_, resp = FromError(shared.NewValidationError("due_date", "date must be in YYYY-MM-DD format"), "")
	assert.Equal(t, "due_date", resp.Error.Field)
}

func TestNewPageResponse(t *testing.T) {
	page := shared.NewPaginated([]int{1, 2, 3}, 7, 2, 3)
	resp := NewPageResponse(page, func(v *int) string { return fmt.Sprint(*v * 10) })
	assert.Equal(t, []string{"10", "20", "30"}, resp.Data)
	assert.Equal(t, &Meta{Total: 7, Page: 2, PageSize: 3, TotalPages: 3}, resp.Meta)
}
