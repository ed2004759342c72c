package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"github.com/ramanbajpai7/AcctAI/internal/domain"
	"github.com/ramanbajpai7/AcctAI/internal/gst"
	"github.com/ramanbajpai7/AcctAI/pkg/response"
)

// GSTHandler serves the stateless validation and calculation
// endpoints; there is no service layer behind it.
type GSTHandler struct{}

func NewGSTHandler() *GSTHandler {
	return &GSTHandler{}
}

type ValidateGSTINRequest struct {
	GSTIN string `json:"gstin" binding:"required"`
}

type ValidatePANRequest struct {
	PAN string `json:"pan" binding:"required"`
}

type CalculateGSTRequest struct {
	Amount     float64 `json:"amount" binding:"required,gt=0"`
	Rate       float64 `json:"rate" binding:"gte=0"`
	InterState bool    `json:"inter_state"`
}

type ValidateInvoiceRequest struct {
	BaseAmount     float64  `json:"base_amount" binding:"required,gt=0"`
	GSTRate        float64  `json:"gst_rate" binding:"gte=0"`
	CGST           *float64 `json:"cgst"`
	SGST           *float64 `json:"sgst"`
	IGST           *float64 `json:"igst"`
	TotalAmount    float64  `json:"total_amount" binding:"required,gt=0"`
	SupplierGSTIN  string   `json:"supplier_gstin" binding:"required"`
	RecipientGSTIN string   `json:"recipient_gstin"`
}

// ValidateGSTIN godoc
// @Summary Validate a GSTIN
// @Description Check a GSTIN structurally and decompose it into state, PAN and entity type
// @Tags gst
// @Accept json
// @Produce json
// @Param request body ValidateGSTINRequest true "GSTIN to validate"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Router /api/v1/gst/validate-gstin [post]
func (h *GSTHandler) ValidateGSTIN(c *gin.Context) {
	var req ValidateGSTINRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationError(c, err.Error())
		return
	}

	result := gst.ValidateGSTIN(req.GSTIN)
	response.Success(c, http.StatusOK, "GSTIN validated", result)
}

// ValidatePAN godoc
// @Summary Validate a PAN
// @Description Check a PAN against the standard structure
// @Tags gst
// @Accept json
// @Produce json
// @Param request body ValidatePANRequest true "PAN to validate"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Router /api/v1/gst/validate-pan [post]
func (h *GSTHandler) ValidatePAN(c *gin.Context) {
	var req ValidatePANRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationError(c, err.Error())
		return
	}

	result := gst.ValidatePAN(req.PAN)
	response.Success(c, http.StatusOK, "PAN validated", result)
}

// CalculateGST godoc
// @Summary Calculate GST on a base amount
// @Description Compute the CGST/SGST or IGST split for a tax-exclusive amount
// @Tags gst
// @Accept json
// @Produce json
// @Param request body CalculateGSTRequest true "Calculation input"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Router /api/v1/gst/calculate [post]
func (h *GSTHandler) CalculateGST(c *gin.Context) {
	var req CalculateGSTRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationError(c, err.Error())
		return
	}

	breakdown := gst.CalculateGST(
		decimal.NewFromFloat(req.Amount),
		decimal.NewFromFloat(req.Rate),
		req.InterState,
	)
	response.Success(c, http.StatusOK, "GST calculated", breakdown)
}

// ReverseCalculateGST godoc
// @Summary Extract GST from an inclusive amount
// @Description Recover the base amount and tax split from a GST-inclusive total
// @Tags gst
// @Accept json
// @Produce json
// @Param request body CalculateGSTRequest true "Calculation input (amount is GST-inclusive)"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Router /api/v1/gst/reverse-calculate [post]
func (h *GSTHandler) ReverseCalculateGST(c *gin.Context) {
	var req CalculateGSTRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationError(c, err.Error())
		return
	}

	breakdown := gst.ReverseCalculateGST(
		decimal.NewFromFloat(req.Amount),
		decimal.NewFromFloat(req.Rate),
		req.InterState,
	)
	response.Success(c, http.StatusOK, "GST extracted", breakdown)
}

// ValidateInvoice godoc
// @Summary Validate an invoice's GST arithmetic
// @Description Check declared tax components against the expected split for the invoice's rate and supply type
// @Tags gst
// @Accept json
// @Produce json
// @Param request body ValidateInvoiceRequest true "Invoice to validate"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Router /api/v1/gst/validate-invoice [post]
func (h *GSTHandler) ValidateInvoice(c *gin.Context) {
	var req ValidateInvoiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationError(c, err.Error())
		return
	}

	invoice := domain.Invoice{
		BaseAmount:     decimal.NewFromFloat(req.BaseAmount),
		GSTRate:        decimal.NewFromFloat(req.GSTRate),
		CGST:           optionalDecimal(req.CGST),
		SGST:           optionalDecimal(req.SGST),
		IGST:           optionalDecimal(req.IGST),
		TotalAmount:    decimal.NewFromFloat(req.TotalAmount),
		SupplierGSTIN:  req.SupplierGSTIN,
		RecipientGSTIN: req.RecipientGSTIN,
	}

	result := gst.ValidateInvoiceGST(invoice)
	response.Success(c, http.StatusOK, "Invoice validated", result)
}

// GetRates godoc
// @Summary List standard GST rate slabs
// @Tags gst
// @Produce json
// @Success 200 {object} response.Response
// @Router /api/v1/gst/rates [get]
func (h *GSTHandler) GetRates(c *gin.Context) {
	response.Success(c, http.StatusOK, "GST rates retrieved", gst.Rates)
}

func optionalDecimal(f *float64) *decimal.Decimal {
	if f == nil {
		return nil
	}
	d := decimal.NewFromFloat(*f)
	return &d
}
