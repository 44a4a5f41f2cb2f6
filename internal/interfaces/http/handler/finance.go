package handler

import (
	"bytes"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	appfinance "github.com/paragon/backend/internal/application/finance"
	"github.com/paragon/backend/internal/domain/shared"
	"github.com/paragon/backend/internal/interfaces/http/dto"
	"github.com/paragon/backend/internal/interfaces/http/middleware"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// FinanceHandler serves invoices, payments and finance reports
type FinanceHandler struct {
	BaseHandler
	finance *appfinance.Service
	clock   shared.Clock
}

// NewFinanceHandler creates a new FinanceHandler
func NewFinanceHandler(finance *appfinance.Service, clock shared.Clock) *FinanceHandler {
	if clock == nil {
		clock = shared.SystemClock
	}
	return &FinanceHandler{finance: finance, clock: clock}
}

// ListInvoices lists invoices newest due date first
func (h *FinanceHandler) ListInvoices(c *gin.Context) {
	var req dto.InvoiceListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.BadRequest(c, err)
		return
	}
	page, err := h.finance.ListInvoices(c.Request.Context(), middleware.GetScope(c), appfinance.InvoiceFilter{
		Filter:     req.Filter(),
		LocationID: req.LocationID,
		TenantID:   req.TenantID,
		Paid:       req.Paid,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewPageResponse(page, dto.ToInvoiceViewResponse))
}

// ListLate lists unpaid invoices past their due date
func (h *FinanceHandler) ListLate(c *gin.Context) {
	var req dto.LateListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.BadRequest(c, err)
		return
	}
	page, err := h.finance.ListLateUnpaid(c.Request.Context(), middleware.GetScope(c), appfinance.LateFilter{
		Filter:     req.Filter(),
		LocationID: req.LocationID,
		AsOf:       req.AsOf,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewPageResponse(page, dto.ToInvoiceViewResponse))
}

// GetInvoice returns one invoice
func (h *FinanceHandler) GetInvoice(c *gin.Context) {
	id, ok := h.bindID(c)
	if !ok {
		return
	}
	invoice, err := h.finance.GetInvoice(c.Request.Context(), middleware.GetScope(c), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, dto.ToInvoiceResponse(invoice))
}

// CreateInvoice issues an invoice to a tenant
func (h *FinanceHandler) CreateInvoice(c *gin.Context) {
	var req dto.CreateInvoiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err)
		return
	}
	invoice, err := h.finance.CreateInvoice(c.Request.Context(), middleware.GetScope(c), appfinance.CreateInvoiceRequest{
		TenantID:  req.TenantID,
		AmountDue: req.AmountDue,
		DueDate:   req.DueDate,
		IssueDate: req.IssueDate,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, dto.ToInvoiceResponse(invoice))
}

// DeleteInvoice removes an invoice without payments
func (h *FinanceHandler) DeleteInvoice(c *gin.Context) {
	id, ok := h.bindID(c)
	if !ok {
		return
	}
	if err := h.finance.DeleteInvoice(c.Request.Context(), middleware.GetScope(c), id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// RecordPayment settles the invoice in the path
func (h *FinanceHandler) RecordPayment(c *gin.Context) {
	id, ok := h.bindID(c)
	if !ok {
		return
	}
	var req dto.RecordPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err)
		return
	}
	payment, err := h.finance.RecordPayment(c.Request.Context(), middleware.GetScope(c), appfinance.RecordPaymentRequest{
		InvoiceID:   id,
		TenantID:    req.TenantID,
		Amount:      req.Amount,
		PaymentDate: req.PaymentDate,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, dto.ToPaymentResponse(payment))
}

// ListPayments lists payments newest first
func (h *FinanceHandler) ListPayments(c *gin.Context) {
	var req dto.PaymentListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.BadRequest(c, err)
		return
	}
	page, err := h.finance.ListPayments(c.Request.Context(), middleware.GetScope(c), appfinance.PaymentFilter{
		Filter:     req.Filter(),
		LocationID: req.LocationID,
		InvoiceID:  req.InvoiceID,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewPageResponse(page, dto.ToPaymentViewResponse))
}

// Summary returns the financial summary
func (h *FinanceHandler) Summary(c *gin.Context) {
	var req dto.SummaryRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.BadRequest(c, err)
		return
	}
	summary, err := h.finance.FinancialSummary(c.Request.Context(), middleware.GetScope(c), appfinance.SummaryFilter{
		LocationID: req.LocationID,
		AsOf:       req.AsOf,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, summary)
}

// Timeseries returns invoiced and collected amounts per period
func (h *FinanceHandler) Timeseries(c *gin.Context) {
	var req dto.TimeseriesRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.BadRequest(c, err)
		return
	}
	series, err := h.finance.CollectedTimeseries(c.Request.Context(), middleware.GetScope(c), appfinance.TimeseriesFilter{
		LocationID: req.LocationID,
		Start:      req.Start,
		End:        req.End,
		Grouping:   req.Grouping,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, series)
}

// Export streams a report as an xlsx download
func (h *FinanceHandler) Export(c *gin.Context) {
	report, err := appfinance.ParseReport(c.Param("report"))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	var req dto.SummaryRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.BadRequest(c, err)
		return
	}

	var buf bytes.Buffer
	err = h.finance.Export(c.Request.Context(), middleware.GetScope(c), appfinance.ExportRequest{
		Report:     report,
		LocationID: req.LocationID,
		AsOf:       req.AsOf,
	}, &buf)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	name := fmt.Sprintf("%s-%s.xlsx", report, shared.FormatDate(h.clock()))
	c.Header("Content-Disposition", `attachment; filename="`+name+`"`)
	c.Data(http.StatusOK, xlsxContentType, buf.Bytes())
}
