package service

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/ramanbajpai7/AcctAI/internal/domain"
	"github.com/ramanbajpai7/AcctAI/internal/matcher"
	"github.com/ramanbajpai7/AcctAI/internal/parser"
	"github.com/ramanbajpai7/AcctAI/internal/repository"
	"github.com/ramanbajpai7/AcctAI/pkg/logger"
)

// ReconciliationRequest carries both record sets. Portal records come
// either pre-parsed or as the raw portal JSON export; books records
// come pre-parsed or as a books register CSV. A nil Tolerance means the
// engine default; an explicit zero requests exact matching.
type ReconciliationRequest struct {
	GSTRType     domain.GSTRType
	Period       string
	Books        []domain.GSTRecord
	BooksCSV     []byte
	Portal       []domain.GSTRecord
	PortalExport []byte
	Tolerance    *decimal.Decimal
}

type ReconciliationService interface {
	Reconcile(req ReconciliationRequest) (*domain.ReconciliationReport, string, error)
	GetJob(jobID string) (*domain.ReconciliationJob, error)
	GetMismatches(jobID string) ([]domain.ReconciliationMismatch, error)
}

type reconciliationService struct {
	repo repository.ReconciliationRepository
}

func NewReconciliationService(repo repository.ReconciliationRepository) ReconciliationService {
	return &reconciliationService{repo: repo}
}

// Reconcile runs the engine over the two record sets under a persisted
// job, and returns the report plus the job ID. Result persistence is
// best-effort: a storage failure is logged, not surfaced, since the
// report is already computed.
func (s *reconciliationService) Reconcile(req ReconciliationRequest) (*domain.ReconciliationReport, string, error) {
	if err := validateRequest(&req); err != nil {
		return nil, "", err
	}

	jobID := uuid.New().String()
	job := &domain.ReconciliationJob{
		JobID:         jobID,
		GSTRType:      req.GSTRType,
		Period:        req.Period,
		Status:        domain.Processing,
		TaxDifference: decimal.Zero,
	}
	if err := s.repo.CreateJob(job); err != nil {
		return nil, "", fmt.Errorf("failed to create job: %w", err)
	}

	logger.GetLogger().WithField("job_id", jobID).Info("Starting reconciliation job")

	books := req.Books
	if len(req.BooksCSV) > 0 {
		parsed, err := parser.ParseBooksCSV(req.BooksCSV)
		if err != nil {
			s.failJob(job, err.Error())
			return nil, jobID, fmt.Errorf("failed to parse books register: %w", err)
		}
		books = parsed
	}

	portal := req.Portal
	if len(req.PortalExport) > 0 {
		parsed, err := parser.ParseGSTRExport(req.PortalExport, req.GSTRType)
		if err != nil {
			s.failJob(job, err.Error())
			return nil, jobID, fmt.Errorf("failed to parse portal export: %w", err)
		}
		portal = parsed
	}

	tolerance := matcher.DefaultTolerance
	if req.Tolerance != nil {
		tolerance = *req.Tolerance
	}
	engine := matcher.NewEngine(tolerance)
	report := engine.Reconcile(books, portal, req.GSTRType, req.Period)

	if err := s.repo.BulkCreateMismatches(jobID, report.Mismatches); err != nil {
		logger.GetLogger().WithError(err).Error("Failed to save mismatches")
	}

	job.Status = domain.Completed
	job.TotalProcessed = len(books) + len(portal)
	job.MatchedCount = report.Summary.MatchedCount
	job.MismatchCount = report.Summary.MismatchCount
	job.MissingInBooks = report.Summary.MissingInBooks
	job.MissingInPortal = report.Summary.MissingInPortal
	job.TaxDifference = report.Summary.TaxDifference
	if err := s.repo.UpdateJob(job); err != nil {
		logger.GetLogger().WithError(err).Error("Failed to update job")
	}

	logger.GetLogger().WithField("job_id", jobID).Info("Reconciliation job completed")

	return &report, jobID, nil
}

func (s *reconciliationService) GetJob(jobID string) (*domain.ReconciliationJob, error) {
	return s.repo.GetJobByID(jobID)
}

func (s *reconciliationService) GetMismatches(jobID string) ([]domain.ReconciliationMismatch, error) {
	if _, err := s.repo.GetJobByID(jobID); err != nil {
		return nil, err
	}
	return s.repo.GetMismatchesByJobID(jobID)
}

func (s *reconciliationService) failJob(job *domain.ReconciliationJob, message string) {
	job.Status = domain.Failed
	job.ErrorMessage = &message
	if err := s.repo.UpdateJob(job); err != nil {
		logger.GetLogger().WithError(err).Error("Failed to mark job as failed")
	}
}

func validateRequest(req *ReconciliationRequest) error {
	switch req.GSTRType {
	case domain.GSTR1, domain.GSTR2A, domain.GSTR2B, domain.GSTR3B:
	default:
		return fmt.Errorf("invalid GSTR type: %s", req.GSTRType)
	}
	if req.Period == "" {
		return fmt.Errorf("period is required")
	}
	if len(req.Books) == 0 && len(req.BooksCSV) == 0 {
		return fmt.Errorf("books records are required")
	}
	if len(req.Portal) == 0 && len(req.PortalExport) == 0 {
		return fmt.Errorf("portal records are required")
	}
	return nil
}
