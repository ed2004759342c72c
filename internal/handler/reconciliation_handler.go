package handler

import (
	"encoding/json"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"github.com/ramanbajpai7/AcctAI/internal/domain"
	"github.com/ramanbajpai7/AcctAI/internal/service"
	"github.com/ramanbajpai7/AcctAI/pkg/logger"
	"github.com/ramanbajpai7/AcctAI/pkg/response"
)

type ReconciliationHandler struct {
	service service.ReconciliationService
}

func NewReconciliationHandler(service service.ReconciliationService) *ReconciliationHandler {
	return &ReconciliationHandler{service: service}
}

// ReconcileRequest carries the two record sets. Books and portal each
// come as structured records or as raw source bytes; the raw form wins
// when both are present. Omitting tolerance uses the ₹1 default; an
// explicit 0 requests exact matching.
type ReconcileRequest struct {
	GSTRType     string             `json:"gstr_type" binding:"required"`
	Period       string             `json:"period" binding:"required"`
	Books        []domain.GSTRecord `json:"books"`
	BooksCSV     string             `json:"books_csv"`
	Portal       []domain.GSTRecord `json:"portal"`
	PortalExport json.RawMessage    `json:"portal_export"`
	Tolerance    *float64           `json:"tolerance"`
}

// Reconcile godoc
// @Summary Run a GSTR reconciliation
// @Description Compare books invoices against a portal export and report mismatches under a persisted job
// @Tags reconciliation
// @Accept json
// @Produce json
// @Param request body ReconcileRequest true "Reconciliation input"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 500 {object} response.Response
// @Router /api/v1/gstr/reconcile [post]
func (h *ReconciliationHandler) Reconcile(c *gin.Context) {
	var req ReconcileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationError(c, err.Error())
		return
	}

	serviceReq := service.ReconciliationRequest{
		GSTRType:     domain.GSTRType(req.GSTRType),
		Period:       req.Period,
		Books:        req.Books,
		BooksCSV:     []byte(req.BooksCSV),
		Portal:       req.Portal,
		PortalExport: []byte(req.PortalExport),
	}
	if req.Tolerance != nil {
		tolerance := decimal.NewFromFloat(*req.Tolerance)
		serviceReq.Tolerance = &tolerance
	}

	report, jobID, err := h.service.Reconcile(serviceReq)
	if err != nil {
		logger.GetLogger().WithError(err).Error("Reconciliation failed")
		response.BadRequest(c, "Reconciliation failed", err.Error())
		return
	}

	response.Success(c, http.StatusOK, "Reconciliation completed", gin.H{
		"job_id": jobID,
		"report": report,
	})
}

// GetJobStatus godoc
// @Summary Get reconciliation job status
// @Tags reconciliation
// @Produce json
// @Param job_id path string true "Job ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /api/v1/gstr/jobs/{job_id} [get]
func (h *ReconciliationHandler) GetJobStatus(c *gin.Context) {
	jobID := c.Param("job_id")

	job, err := h.service.GetJob(jobID)
	if err != nil {
		logger.GetLogger().WithError(err).WithField("job_id", jobID).Error("Job not found")
		response.NotFound(c, "Reconciliation job not found")
		return
	}

	response.Success(c, http.StatusOK, "Job retrieved successfully", job)
}

// GetJobMismatches godoc
// @Summary Get mismatches for a reconciliation job
// @Description Mismatches are returned in the order the engine reported them
// @Tags reconciliation
// @Produce json
// @Param job_id path string true "Job ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Failure 500 {object} response.Response
// @Router /api/v1/gstr/jobs/{job_id}/mismatches [get]
func (h *ReconciliationHandler) GetJobMismatches(c *gin.Context) {
	jobID := c.Param("job_id")

	mismatches, err := h.service.GetMismatches(jobID)
	if err != nil {
		logger.GetLogger().WithError(err).WithField("job_id", jobID).Error("Failed to get mismatches")
		response.NotFound(c, "Reconciliation job not found")
		return
	}

	response.Success(c, http.StatusOK, "Mismatches retrieved successfully", mismatches)
}
