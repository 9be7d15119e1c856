package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/billingapp/billing_backend/internal/apperrors"
	"github.com/billingapp/billing_backend/internal/core/domain"
	portssvc "github.com/billingapp/billing_backend/internal/core/ports/services"
	"github.com/billingapp/billing_backend/internal/dto"
	"github.com/billingapp/billing_backend/internal/middleware"
	"github.com/gin-gonic/gin"
)

// invoiceHandler handles HTTP requests related to invoices.
type invoiceHandler struct {
	invoiceService portssvc.InvoiceSvcFacade
}

// newInvoiceHandler creates a new invoiceHandler.
func newInvoiceHandler(is portssvc.InvoiceSvcFacade) *invoiceHandler {
	return &invoiceHandler{
		invoiceService: is,
	}
}

// registerInvoiceRoutes registers routes related to invoices.
func registerInvoiceRoutes(rg *gin.RouterGroup, invoiceService portssvc.InvoiceSvcFacade) {
	h := newInvoiceHandler(invoiceService)

	invoices := rg.Group("/invoices")
	{
		invoices.POST("", h.createInvoice)
		invoices.GET("/:invoiceID", h.getInvoice)
		invoices.POST("/:invoiceID/lines", h.addInvoiceLine)
		invoices.PUT("/:invoiceID/discount", h.setInvoiceDiscount)
		invoices.PUT("/:invoiceID/tax", h.setInvoiceTax)
		invoices.POST("/:invoiceID/issue", h.issueInvoice)
		invoices.POST("/:invoiceID/void", h.voidInvoice)
		invoices.POST("/:invoiceID/pay", h.markInvoicePaid)
	}
}

// respondWithInvoice converts the domain invoice to its DTO and writes it.
// Computing the total can fail for a negative result; that surfaces as 422.
func respondWithInvoice(c *gin.Context, logger *slog.Logger, status int, invoice *domain.Invoice) {
	resp, err := dto.ToInvoiceResponse(invoice)
	if err != nil {
		respondInvoiceError(c, logger, err)
		return
	}
	c.JSON(status, resp)
}

// respondInvoiceError translates domain/application errors into HTTP responses.
func respondInvoiceError(c *gin.Context, logger *slog.Logger, err error) {
	switch {
	case errors.Is(err, apperrors.ErrNotFound):
		logger.Warn("Invoice not found")
		c.JSON(http.StatusNotFound, gin.H{"error": "Invoice not found"})
	case errors.Is(err, apperrors.ErrDuplicate):
		logger.Warn("Invoice already exists")
		c.JSON(http.StatusConflict, gin.H{"error": "Invoice with this ID already exists"})
	case errors.Is(err, apperrors.ErrInvoiceOperation),
		errors.Is(err, apperrors.ErrNegativeMoney):
		logger.Warn("Invoice operation rejected", slog.String("error", err.Error()))
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
	case errors.Is(err, apperrors.ErrCurrencyMismatch),
		errors.Is(err, apperrors.ErrInvoiceCurrencyMismatch),
		errors.Is(err, apperrors.ErrInvalidInvoiceLine),
		errors.Is(err, apperrors.ErrInvalidQuantity),
		errors.Is(err, apperrors.ErrInvalidMoney),
		errors.Is(err, apperrors.ErrValidation):
		logger.Warn("Invoice request validation failed", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		logger.Error("Invoice operation failed", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
	}
}

// createInvoice godoc
// @Summary Create a new invoice
// @Description Creates a new draft invoice in the given currency. The invoice ID is optional; a UUID is assigned when omitted.
// @Tags invoices
// @Accept  json
// @Produce  json
// @Param   invoice body dto.CreateInvoiceRequest true "Invoice details"
// @Success 201 {object} dto.InvoiceResponse
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 409 {object} map[string]string "Invoice ID already exists"
// @Router /invoices [post]
func (h *invoiceHandler) createInvoice(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.CreateInvoiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for CreateInvoice", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	logger.Info("Received request to create invoice", slog.String("currency_code", req.CurrencyCode))

	invoice, err := h.invoiceService.CreateInvoice(c.Request.Context(), req)
	if err != nil {
		respondInvoiceError(c, logger, err)
		return
	}

	logger.Info("Invoice created successfully", slog.String("invoice_id", invoice.InvoiceID()))
	respondWithInvoice(c, logger, http.StatusCreated, invoice)
}

// getInvoice godoc
// @Summary Get an invoice by ID
// @Description Retrieves an invoice with its lines, discount, tax and computed subtotal/total
// @Tags invoices
// @Produce  json
// @Param   invoiceID path string true "Invoice ID"
// @Success 200 {object} dto.InvoiceResponse
// @Failure 404 {object} map[string]string "Invoice not found"
// @Failure 422 {object} map[string]string "Invoice total is negative"
// @Router /invoices/{invoiceID} [get]
func (h *invoiceHandler) getInvoice(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	invoiceID := c.Param("invoiceID")
	logger = logger.With(slog.String("invoice_id", invoiceID))

	invoice, err := h.invoiceService.GetInvoiceByID(c.Request.Context(), invoiceID)
	if err != nil {
		respondInvoiceError(c, logger, err)
		return
	}

	respondWithInvoice(c, logger, http.StatusOK, invoice)
}

// addInvoiceLine godoc
// @Summary Add a line to a draft invoice
// @Description Appends a billable line (description, unit price, quantity) to a draft invoice
// @Tags invoices
// @Accept  json
// @Produce  json
// @Param   invoiceID path string true "Invoice ID"
// @Param   line body dto.AddInvoiceLineRequest true "Line details"
// @Success 200 {object} dto.InvoiceResponse
// @Failure 400 {object} map[string]string "Invalid line"
// @Failure 404 {object} map[string]string "Invoice not found"
// @Failure 422 {object} map[string]string "Invoice is not a draft"
// @Router /invoices/{invoiceID}/lines [post]
func (h *invoiceHandler) addInvoiceLine(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	invoiceID := c.Param("invoiceID")
	logger = logger.With(slog.String("invoice_id", invoiceID))

	var req dto.AddInvoiceLineRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for AddInvoiceLine", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	logger.Info("Received request to add invoice line", slog.String("description", req.Description))

	invoice, err := h.invoiceService.AddInvoiceLine(c.Request.Context(), invoiceID, req)
	if err != nil {
		respondInvoiceError(c, logger, err)
		return
	}

	respondWithInvoice(c, logger, http.StatusOK, invoice)
}

// setInvoiceDiscount godoc
// @Summary Set the discount on a draft invoice
// @Description Sets or replaces the fixed-amount discount; last write wins while the invoice is a draft
// @Tags invoices
// @Accept  json
// @Produce  json
// @Param   invoiceID path string true "Invoice ID"
// @Param   discount body dto.SetAmountRequest true "Discount amount"
// @Success 200 {object} dto.InvoiceResponse
// @Failure 404 {object} map[string]string "Invoice not found"
// @Failure 422 {object} map[string]string "Invoice is not a draft"
// @Router /invoices/{invoiceID}/discount [put]
func (h *invoiceHandler) setInvoiceDiscount(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	invoiceID := c.Param("invoiceID")
	logger = logger.With(slog.String("invoice_id", invoiceID))

	var req dto.SetAmountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for SetInvoiceDiscount", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	invoice, err := h.invoiceService.SetInvoiceDiscount(c.Request.Context(), invoiceID, req)
	if err != nil {
		respondInvoiceError(c, logger, err)
		return
	}

	respondWithInvoice(c, logger, http.StatusOK, invoice)
}

// setInvoiceTax godoc
// @Summary Set the tax on a draft invoice
// @Description Sets or replaces the fixed-amount tax; last write wins while the invoice is a draft
// @Tags invoices
// @Accept  json
// @Produce  json
// @Param   invoiceID path string true "Invoice ID"
// @Param   tax body dto.SetAmountRequest true "Tax amount"
// @Success 200 {object} dto.InvoiceResponse
// @Failure 404 {object} map[string]string "Invoice not found"
// @Failure 422 {object} map[string]string "Invoice is not a draft"
// @Router /invoices/{invoiceID}/tax [put]
func (h *invoiceHandler) setInvoiceTax(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	invoiceID := c.Param("invoiceID")
	logger = logger.With(slog.String("invoice_id", invoiceID))

	var req dto.SetAmountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for SetInvoiceTax", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	invoice, err := h.invoiceService.SetInvoiceTax(c.Request.Context(), invoiceID, req)
	if err != nil {
		respondInvoiceError(c, logger, err)
		return
	}

	respondWithInvoice(c, logger, http.StatusOK, invoice)
}

// issueInvoice godoc
// @Summary Issue a draft invoice
// @Description Transitions a draft invoice with at least one line to issued and stamps issuedAt
// @Tags invoices
// @Produce  json
// @Param   invoiceID path string true "Invoice ID"
// @Success 200 {object} dto.InvoiceResponse
// @Failure 404 {object} map[string]string "Invoice not found"
// @Failure 422 {object} map[string]string "Invoice cannot be issued"
// @Router /invoices/{invoiceID}/issue [post]
func (h *invoiceHandler) issueInvoice(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	invoiceID := c.Param("invoiceID")
	logger = logger.With(slog.String("invoice_id", invoiceID))
	logger.Info("Received request to issue invoice")

	invoice, err := h.invoiceService.IssueInvoice(c.Request.Context(), invoiceID)
	if err != nil {
		respondInvoiceError(c, logger, err)
		return
	}

	logger.Info("Invoice issued successfully")
	respondWithInvoice(c, logger, http.StatusOK, invoice)
}

// voidInvoice godoc
// @Summary Void an invoice
// @Description Voids a draft or issued invoice. Retrying with the same idempotency key is a no-op; a paid invoice cannot be voided.
// @Tags invoices
// @Accept  json
// @Produce  json
// @Param   invoiceID path string true "Invoice ID"
// @Param   request body dto.IdempotentOperationRequest true "Idempotency key"
// @Success 200 {object} dto.InvoiceResponse
// @Failure 404 {object} map[string]string "Invoice not found"
// @Failure 422 {object} map[string]string "Invoice cannot be voided"
// @Router /invoices/{invoiceID}/void [post]
func (h *invoiceHandler) voidInvoice(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	invoiceID := c.Param("invoiceID")
	logger = logger.With(slog.String("invoice_id", invoiceID))

	var req dto.IdempotentOperationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for VoidInvoice", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	logger.Info("Received request to void invoice")

	invoice, err := h.invoiceService.VoidInvoice(c.Request.Context(), invoiceID, req)
	if err != nil {
		respondInvoiceError(c, logger, err)
		return
	}

	logger.Info("Invoice voided successfully")
	respondWithInvoice(c, logger, http.StatusOK, invoice)
}

// markInvoicePaid godoc
// @Summary Mark an issued invoice as paid
// @Description Marks an issued invoice as paid. Retrying with the same idempotency key is a no-op.
// @Tags invoices
// @Accept  json
// @Produce  json
// @Param   invoiceID path string true "Invoice ID"
// @Param   request body dto.IdempotentOperationRequest true "Idempotency key"
// @Success 200 {object} dto.InvoiceResponse
// @Failure 404 {object} map[string]string "Invoice not found"
// @Failure 422 {object} map[string]string "Invoice cannot be paid"
// @Router /invoices/{invoiceID}/pay [post]
func (h *invoiceHandler) markInvoicePaid(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	invoiceID := c.Param("invoiceID")
	logger = logger.With(slog.String("invoice_id", invoiceID))

	var req dto.IdempotentOperationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for MarkInvoicePaid", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	logger.Info("Received request to mark invoice paid")

	invoice, err := h.invoiceService.MarkInvoicePaid(c.Request.Context(), invoiceID, req)
	if err != nil {
		respondInvoiceError(c, logger, err)
		return
	}

	logger.Info("Invoice marked as paid successfully")
	respondWithInvoice(c, logger, http.StatusOK, invoice)
}
