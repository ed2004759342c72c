package handler

import (
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"github.com/ramanbajpai7/AcctAI/internal/domain"
	"github.com/ramanbajpai7/AcctAI/internal/service"
	"github.com/ramanbajpai7/AcctAI/pkg/logger"
	"github.com/ramanbajpai7/AcctAI/pkg/response"
)

type StatementHandler struct {
	service service.ImportService
}

func NewStatementHandler(service service.ImportService) *StatementHandler {
	return &StatementHandler{service: service}
}

type GetTransactionsByDateRangeRequest struct {
	StartDate string `form:"start_date" binding:"required"`
	EndDate   string `form:"end_date" binding:"required"`
}

type UpdateTransactionRequest struct {
	Description *string  `json:"description"`
	Reference   *string  `json:"reference"`
	Ledger      *string  `json:"ledger"`
	Amount      *float64 `json:"amount"`
	Direction   *string  `json:"direction"`
}

// ImportStatement godoc
// @Summary Import a bank statement
// @Description Parse an uploaded bank statement (CSV, XLS or XLSX) and store the transactions under a new batch
// @Tags statements
// @Accept multipart/form-data
// @Produce json
// @Param file formData file true "Bank statement file"
// @Success 201 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 422 {object} response.Response
// @Failure 500 {object} response.Response
// @Router /api/v1/statements/import [post]
func (h *StatementHandler) ImportStatement(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		response.BadRequest(c, "File is required", "Upload the statement under the 'file' form field")
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		logger.GetLogger().WithError(err).Error("Failed to open uploaded file")
		response.InternalError(c, "Failed to read uploaded file", err.Error())
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		logger.GetLogger().WithError(err).Error("Failed to read uploaded file")
		response.InternalError(c, "Failed to read uploaded file", err.Error())
		return
	}

	summary, err := h.service.Import(fileHeader.Filename, data)
	if err != nil {
		logger.GetLogger().WithError(err).WithField("file", fileHeader.Filename).Warn("Statement import failed")
		response.UnprocessableFile(c, err.Error())
		return
	}

	response.Success(c, http.StatusCreated, "Statement imported successfully", summary)
}

// GetBatch godoc
// @Summary Get transactions by batch
// @Description Get all transactions imported under a batch ID
// @Tags statements
// @Produce json
// @Param batch_id path string true "Batch ID"
// @Success 200 {object} response.Response
// @Failure 500 {object} response.Response
// @Router /api/v1/statements/{batch_id} [get]
func (h *StatementHandler) GetBatch(c *gin.Context) {
	batchID := c.Param("batch_id")

	transactions, err := h.service.GetBatch(batchID)
	if err != nil {
		logger.GetLogger().WithError(err).WithField("batch_id", batchID).Error("Failed to get batch")
		response.InternalError(c, "Failed to get batch", err.Error())
		return
	}

	response.Success(c, http.StatusOK, "Transactions retrieved successfully", transactions)
}

// GetTransactionsByDateRange godoc
// @Summary Get transactions by date range
// @Description Get all imported transactions within a date range
// @Tags statements
// @Produce json
// @Param start_date query string true "Start date (RFC3339 format)"
// @Param end_date query string true "End date (RFC3339 format)"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 500 {object} response.Response
// @Router /api/v1/statements [get]
func (h *StatementHandler) GetTransactionsByDateRange(c *gin.Context) {
	var req GetTransactionsByDateRangeRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.ValidationError(c, err.Error())
		return
	}

	startDate, err := time.Parse(time.RFC3339, req.StartDate)
	if err != nil {
		response.BadRequest(c, "Invalid start_date format", "Use RFC3339 format")
		return
	}

	endDate, err := time.Parse(time.RFC3339, req.EndDate)
	if err != nil {
		response.BadRequest(c, "Invalid end_date format", "Use RFC3339 format")
		return
	}

	transactions, err := h.service.GetByDateRange(startDate, endDate)
	if err != nil {
		logger.GetLogger().WithError(err).Error("Failed to get transactions")
		response.InternalError(c, "Failed to get transactions", err.Error())
		return
	}

	response.Success(c, http.StatusOK, "Transactions retrieved successfully", transactions)
}

// UpdateTransaction godoc
// @Summary Update a transaction
// @Description Apply a partial update to an imported transaction; only the fields present in the body change
// @Tags statements
// @Accept json
// @Produce json
// @Param id path int true "Transaction ID"
// @Param update body UpdateTransactionRequest true "Fields to update"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 404 {object} response.Response
// @Failure 500 {object} response.Response
// @Router /api/v1/statements/transactions/{id} [patch]
func (h *StatementHandler) UpdateTransaction(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid transaction ID", "ID must be an integer")
		return
	}

	var req UpdateTransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationError(c, err.Error())
		return
	}

	update := domain.BankTransactionUpdate{
		Description: req.Description,
		Reference:   req.Reference,
		Ledger:      req.Ledger,
	}
	if req.Amount != nil {
		amount := decimal.NewFromFloat(*req.Amount)
		update.Amount = &amount
	}
	if req.Direction != nil {
		direction := domain.Direction(*req.Direction)
		update.Direction = &direction
	}

	if err := h.service.UpdateTransaction(id, update); err != nil {
		logger.GetLogger().WithError(err).WithField("id", id).Error("Failed to update transaction")
		if err.Error() == "bank transaction not found" {
			response.NotFound(c, "Transaction not found")
			return
		}
		response.BadRequest(c, "Failed to update transaction", err.Error())
		return
	}

	response.Success(c, http.StatusOK, "Transaction updated successfully", nil)
}
