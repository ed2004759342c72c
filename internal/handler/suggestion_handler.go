package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"github.com/ramanbajpai7/AcctAI/internal/ai"
	"github.com/ramanbajpai7/AcctAI/internal/domain"
	"github.com/ramanbajpai7/AcctAI/internal/service"
	"github.com/ramanbajpai7/AcctAI/pkg/logger"
	"github.com/ramanbajpai7/AcctAI/pkg/response"
)

type SuggestionHandler struct {
	service service.SuggestionService
}

func NewSuggestionHandler(service service.SuggestionService) *SuggestionHandler {
	return &SuggestionHandler{service: service}
}

type SuggestLedgerRequest struct {
	Description      string   `json:"description" binding:"required"`
	Amount           float64  `json:"amount" binding:"required,gt=0"`
	Direction        string   `json:"direction" binding:"required,oneof=debit credit"`
	AvailableLedgers []string `json:"available_ledgers"`
}

// SuggestLedger godoc
// @Summary Suggest ledger accounts for a transaction
// @Description Classify a bank transaction into candidate ledger accounts, falling back across providers
// @Tags ai
// @Accept json
// @Produce json
// @Param request body SuggestLedgerRequest true "Transaction to classify"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 500 {object} response.Response
// @Router /api/v1/ai/suggest-ledger [post]
func (h *SuggestionHandler) SuggestLedger(c *gin.Context) {
	var req SuggestLedgerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationError(c, err.Error())
		return
	}

	result, err := h.service.SuggestLedger(c.Request.Context(), ai.Request{
		Description:      req.Description,
		Amount:           decimal.NewFromFloat(req.Amount),
		Direction:        domain.Direction(req.Direction),
		AvailableLedgers: req.AvailableLedgers,
	})
	if err != nil {
		logger.GetLogger().WithError(err).Error("Ledger suggestion failed")
		response.InternalError(c, "Failed to suggest ledger", err.Error())
		return
	}

	response.Success(c, http.StatusOK, "Ledger suggestions generated", result)
}

// SuggestForBatch godoc
// @Summary Suggest ledgers for every transaction in a batch
// @Tags ai
// @Produce json
// @Param batch_id path string true "Batch ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Failure 500 {object} response.Response
// @Router /api/v1/ai/suggest-ledger/batch/{batch_id} [post]
func (h *SuggestionHandler) SuggestForBatch(c *gin.Context) {
	batchID := c.Param("batch_id")

	results, err := h.service.SuggestForBatch(c.Request.Context(), batchID)
	if err != nil {
		logger.GetLogger().WithError(err).WithField("batch_id", batchID).Error("Batch suggestion failed")
		response.InternalError(c, "Failed to suggest ledgers for batch", err.Error())
		return
	}

	response.Success(c, http.StatusOK, "Ledger suggestions generated", results)
}
