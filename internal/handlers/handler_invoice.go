package handlers

import (
	"fmt"
	"log/slog"
	"net/http"
	"time"

	portssvc "github.com/SscSPs/invoice_management_app/internal/core/ports/services"
	"github.com/SscSPs/invoice_management_app/internal/dto"
	"github.com/SscSPs/invoice_management_app/internal/middleware"
	"github.com/gin-gonic/gin"
)

// invoiceHandler handles HTTP requests related to invoices.
type invoiceHandler struct {
	invoiceService portssvc.InvoiceSvcFacade
	numbering      portssvc.NumberingSvc
}

func newInvoiceHandler(is portssvc.InvoiceSvcFacade, ns portssvc.NumberingSvc) *invoiceHandler {
	return &invoiceHandler{invoiceService: is, numbering: ns}
}

// registerInvoiceRoutes registers all invoice-related routes.
func registerInvoiceRoutes(rg *gin.RouterGroup, invoiceService portssvc.InvoiceSvcFacade, numbering portssvc.NumberingSvc) {
	h := newInvoiceHandler(invoiceService, numbering)

	invoices := rg.Group("/invoices")
	{
		invoices.POST("", h.createInvoice)
		invoices.GET("", h.listInvoices)
		invoices.GET("/next-number", h.nextNumber)
		invoices.GET("/:id", h.getInvoice)
		invoices.PUT("/:id", h.updateInvoice)
		invoices.PATCH("/:id/status", h.updateInvoiceStatus)
		invoices.DELETE("/:id", h.deleteInvoice)
		invoices.GET("/:id/pdf", h.downloadInvoicePDF)
	}
}

// createInvoice godoc
// @Summary Create an invoice
// @Description Validates the request, assigns the next invoice number and stores the invoice atomically.
// @Tags invoices
// @Accept json
// @Produce json
// @Param invoice body dto.CreateInvoiceRequest true "Invoice details"
// @Success 201 {object} dto.Response{data=dto.InvoiceResponse}
// @Failure 400 {object} dto.Response "Missing client or items, unknown product, invalid line"
// @Failure 401 {object} dto.Response
// @Failure 404 {object} dto.Response "Client not found"
// @Failure 500 {object} dto.Response "Saved but not confirmed"
// @Security BearerAuth
// @Router /invoices [post]
func (h *invoiceHandler) createInvoice(c *gin.Context) {
	var req dto.CreateInvoiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	invoice, err := h.invoiceService.CreateInvoice(c.Request.Context(), caller(c), req)
	if err != nil {
		respondError(c, err, "Failed to create invoice")
		return
	}
	c.JSON(http.StatusCreated, dto.OK(dto.ToInvoiceResponse(invoice)))
}

// listInvoices godoc
// @Summary List invoices
// @Description Newest first. Non-admins only see their own invoices.
// @Tags invoices
// @Produce json
// @Param status query string false "Filter by status" Enums(draft, sent, paid, cancelled)
// @Param limit query int false "Page size" default(50)
// @Param nextToken query string false "Token from the previous page"
// @Success 200 {object} dto.Response{data=dto.ListInvoicesResponse}
// @Failure 400 {object} dto.Response
// @Security BearerAuth
// @Router /invoices [get]
func (h *invoiceHandler) listInvoices(c *gin.Context) {
	var params dto.ListInvoicesParams
	if err := c.ShouldBindQuery(&params); err != nil {
		respondBindError(c, err)
		return
	}

	invoices, next, err := h.invoiceService.ListInvoices(c.Request.Context(), caller(c), params)
	if err != nil {
		respondError(c, err, "Failed to list invoices")
		return
	}
	c.JSON(http.StatusOK, dto.OK(dto.ToListInvoicesResponse(invoices, next)))
}

// nextNumber godoc
// @Summary Preview the next invoice number
// @Description The number is not reserved; a concurrent creation may take it.
// @Tags invoices
// @Produce json
// @Success 200 {object} dto.Response
// @Security BearerAuth
// @Router /invoices/next-number [get]
func (h *invoiceHandler) nextNumber(c *gin.Context) {
	identity := caller(c)
	number, err := h.numbering.PeekNextNumber(c.Request.Context(), identity.UserID, time.Now())
	if err != nil {
		respondError(c, err, "Failed to compute next invoice number")
		return
	}
	c.JSON(http.StatusOK, dto.OK(gin.H{"invoiceNumber": number}))
}

// getInvoice godoc
// @Summary Get an invoice
// @Tags invoices
// @Produce json
// @Param id path string true "Invoice ID"
// @Success 200 {object} dto.Response{data=dto.InvoiceResponse}
// @Failure 404 {object} dto.Response
// @Security BearerAuth
// @Router /invoices/{id} [get]
func (h *invoiceHandler) getInvoice(c *gin.Context) {
	invoice, err := h.invoiceService.GetInvoice(c.Request.Context(), caller(c), c.Param("id"))
	if err != nil {
		respondError(c, err, "Failed to retrieve invoice")
		return
	}
	c.JSON(http.StatusOK, dto.OK(dto.ToInvoiceResponse(invoice)))
}

// updateInvoice godoc
// @Summary Update an invoice
// @Description Partial update. The invoice number never changes.
// @Tags invoices
// @Accept json
// @Produce json
// @Param id path string true "Invoice ID"
// @Param invoice body dto.UpdateInvoiceRequest true "Fields to update"
// @Success 200 {object} dto.Response{data=dto.InvoiceResponse}
// @Failure 400 {object} dto.Response
// @Failure 404 {object} dto.Response
// @Security BearerAuth
// @Router /invoices/{id} [put]
func (h *invoiceHandler) updateInvoice(c *gin.Context) {
	var req dto.UpdateInvoiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	invoice, err := h.invoiceService.UpdateInvoice(c.Request.Context(), caller(c), c.Param("id"), req)
	if err != nil {
		respondError(c, err, "Failed to update invoice")
		return
	}
	c.JSON(http.StatusOK, dto.OK(dto.ToInvoiceResponse(invoice)))
}

// updateInvoiceStatus godoc
// @Summary Change an invoice's status
// @Description Any of draft, sent, paid or cancelled may follow any other.
// @Tags invoices
// @Accept json
// @Produce json
// @Param id path string true "Invoice ID"
// @Param status body dto.UpdateInvoiceStatusRequest true "Target status"
// @Success 200 {object} dto.Response{data=dto.InvoiceResponse}
// @Failure 400 {object} dto.Response
// @Failure 404 {object} dto.Response
// @Security BearerAuth
// @Router /invoices/{id}/status [patch]
func (h *invoiceHandler) updateInvoiceStatus(c *gin.Context) {
	var req dto.UpdateInvoiceStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	invoice, err := h.invoiceService.UpdateInvoiceStatus(c.Request.Context(), caller(c), c.Param("id"), req.Status)
	if err != nil {
		respondError(c, err, "Failed to update invoice status")
		return
	}
	c.JSON(http.StatusOK, dto.OK(dto.ToInvoiceResponse(invoice)))
}

// deleteInvoice godoc
// @Summary Delete an invoice
// @Tags invoices
// @Produce json
// @Param id path string true "Invoice ID"
// @Success 200 {object} dto.Response
// @Failure 404 {object} dto.Response
// @Security BearerAuth
// @Router /invoices/{id} [delete]
func (h *invoiceHandler) deleteInvoice(c *gin.Context) {
	if err := h.invoiceService.DeleteInvoice(c.Request.Context(), caller(c), c.Param("id")); err != nil {
		respondError(c, err, "Failed to delete invoice")
		return
	}
	c.JSON(http.StatusOK, dto.OKMessage("Invoice deleted"))
}

// downloadInvoicePDF godoc
// @Summary Download an invoice as PDF
// @Tags invoices
// @Produce application/pdf
// @Param id path string true "Invoice ID"
// @Success 200 {file} binary
// @Failure 404 {object} dto.Response
// @Failure 500 {object} dto.Response
// @Security BearerAuth
// @Router /invoices/{id}/pdf [get]
func (h *invoiceHandler) downloadInvoicePDF(c *gin.Context) {
	pdf, filename, err := h.invoiceService.RenderInvoicePDF(c.Request.Context(), caller(c), c.Param("id"))
	if err != nil {
		respondError(c, err, "Failed to generate invoice PDF")
		return
	}

	middleware.GetLoggerFromCtx(c.Request.Context()).Info("Invoice PDF served", slog.String("filename", filename))
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%s", filename))
	c.Data(http.StatusOK, "application/pdf", pdf)
}
