package dto

import (
	"github.com/paragon/backend/internal/domain/shared"
	"github.com/paragon/backend/internal/domain/tenancy"
)

// TenantRequest is the body of tenant create and update. Formats are
// checked again by the domain; binding only rejects obviously wrong shapes.
type TenantRequest struct {
	Name         string `json:"name" binding:"required,max=100"`
	NINumber     string `json:"ni_number" binding:"required"`
	Email        string `json:"email" binding:"required,email"`
	Phone        string `json:"phone" binding:"required"`
	DateOfBirth  string `json:"date_of_birth"`
	Occupation   string `json:"occupation" binding:"max=100"`
	AnnualSalary string `json:"annual_salary"`
	Pets         bool   `json:"pets"`
	RightToRent  bool   `json:"right_to_rent"`
	CreditCheck  string `json:"credit_check" binding:"omitempty,oneof=Pending Passed Failed"`
}

// TenantListRequest is the query of GET /tenants
type TenantListRequest struct {
	ListRequest
	LocationID *int64 `form:"location_id" binding:"omitempty,min=1"`
	Search     string `form:"search" binding:"max=100"`
}

// TenantResponse is a tenant as returned by the API
type TenantResponse struct {
	ID           int64   `json:"tenant_id"`
	Name         string  `json:"name"`
	NINumber     string  `json:"ni_number"`
	Email        string  `json:"email"`
	Phone        string  `json:"phone"`
	DateOfBirth  *string `json:"date_of_birth,omitempty"`
	Occupation   string  `json:"occupation,omitempty"`
	AnnualSalary *string `json:"annual_salary,omitempty"`
	Pets         bool    `json:"pets"`
	RightToRent  bool    `json:"right_to_rent"`
	CreditCheck  string  `json:"credit_check"`
}

// ToTenantResponse converts a domain tenant
func ToTenantResponse(t *tenancy.Tenant) TenantResponse {
	resp := TenantResponse{
		ID:          t.ID,
		Name:        t.Name,
		NINumber:    t.NINumber,
		Email:       t.Email,
		Phone:       t.Phone,
		Occupation:  t.Occupation,
		Pets:        t.Pets,
		RightToRent: t.RightToRent,
		CreditCheck: string(t.CreditCheck),
	}
	if t.DateOfBirth != nil {
		dob := shared.FormatDate(*t.DateOfBirth)
		resp.DateOfBirth = &dob
	}
	if t.AnnualSalary != nil {
		salary := t.AnnualSalary.StringFixed(2)
		resp.AnnualSalary = &salary
	}
	return resp
}
