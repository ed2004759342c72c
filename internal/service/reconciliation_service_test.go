package service_test

import (
	"fmt"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/ramanbajpai7/AcctAI/internal/domain"
	"github.com/ramanbajpai7/AcctAI/internal/service"
)

type fakeReconRepo struct {
	jobs       map[string]*domain.ReconciliationJob
	mismatches map[string][]domain.ReconciliationMismatch
}

func newFakeReconRepo() *fakeReconRepo {
	return &fakeReconRepo{
		jobs:       make(map[string]*domain.ReconciliationJob),
		mismatches: make(map[string][]domain.ReconciliationMismatch),
	}
}

func (r *fakeReconRepo) CreateJob(job *domain.ReconciliationJob) error {
	copied := *job
	r.jobs[job.JobID] = &copied
	return nil
}

func (r *fakeReconRepo) UpdateJob(job *domain.ReconciliationJob) error {
	copied := *job
	r.jobs[job.JobID] = &copied
	return nil
}

func (r *fakeReconRepo) GetJobByID(jobID string) (*domain.ReconciliationJob, error) {
	job, ok := r.jobs[jobID]
	if !ok {
		return nil, fmt.Errorf("reconciliation job not found")
	}
	return job, nil
}

func (r *fakeReconRepo) BulkCreateMismatches(jobID string, mismatches []domain.ReconciliationMismatch) error {
	r.mismatches[jobID] = mismatches
	return nil
}

func (r *fakeReconRepo) GetMismatchesByJobID(jobID string) ([]domain.ReconciliationMismatch, error) {
	return r.mismatches[jobID], nil
}

func gstRecord(invoiceNumber, total string) domain.GSTRecord {
	return domain.GSTRecord{
		InvoiceNumber: invoiceNumber,
		TaxableValue:  decimal.RequireFromString(total),
		TotalValue:    decimal.RequireFromString(total),
	}
}

func TestReconciliationService_Reconcile(t *testing.T) {
	repo := newFakeReconRepo()
	svc := service.NewReconciliationService(repo)

	report, jobID, err := svc.Reconcile(service.ReconciliationRequest{
		GSTRType: domain.GSTR1,
		Period:   "012024",
		Books:    []domain.GSTRecord{gstRecord("INV-1", "1180"), gstRecord("INV-2", "2360")},
		Portal:   []domain.GSTRecord{gstRecord("INV-1", "1180")},
	})

	assert.NoError(t, err)
	assert.NotEmpty(t, jobID)
	assert.Equal(t, 1, report.Summary.MatchedCount)
	assert.Equal(t, 1, report.Summary.MissingInPortal)

	job, err := svc.GetJob(jobID)
	assert.NoError(t, err)
	assert.Equal(t, domain.Completed, job.Status)
	assert.Equal(t, 3, job.TotalProcessed)
	assert.Equal(t, 1, job.MatchedCount)

	mismatches, err := svc.GetMismatches(jobID)
	assert.NoError(t, err)
	assert.Len(t, mismatches, 1)
	assert.Equal(t, domain.MissingInPortal, mismatches[0].Kind)
}

func TestReconciliationService_Reconcile_FromRawSources(t *testing.T) {
	repo := newFakeReconRepo()
	svc := service.NewReconciliationService(repo)

	booksCSV := "Invoice No,Taxable Value,CGST,SGST,IGST,Cess,Total\nINV-1,1000,90,90,0,0,1180\n"
	portalExport := `{"b2b": [{"ctin": "29AABCU9603R1ZM", "inv": [
		{"inum": "INV-1", "idt": "15-01-2024", "val": 1180, "itms": [
			{"itm_det": {"txval": 1000, "camt": 90, "samt": 90, "iamt": 0, "csamt": 0}}
		]}
	]}]}`

	report, _, err := svc.Reconcile(service.ReconciliationRequest{
		GSTRType:     domain.GSTR1,
		Period:       "012024",
		BooksCSV:     []byte(booksCSV),
		PortalExport: []byte(portalExport),
	})

	assert.NoError(t, err)
	assert.Equal(t, 1, report.Summary.MatchedCount)
	assert.Empty(t, report.Mismatches)
}

func TestReconciliationService_Reconcile_ExplicitZeroTolerance(t *testing.T) {
	repo := newFakeReconRepo()
	svc := service.NewReconciliationService(repo)

	books := []domain.GSTRecord{{
		InvoiceNumber: "INV-1",
		TaxableValue:  decimal.RequireFromString("1000"),
		CGST:          decimal.RequireFromString("90.50"),
		SGST:          decimal.RequireFromString("90"),
		TotalValue:    decimal.RequireFromString("1180.50"),
	}}
	portal := []domain.GSTRecord{{
		InvoiceNumber: "INV-1",
		TaxableValue:  decimal.RequireFromString("1000"),
		CGST:          decimal.RequireFromString("90"),
		SGST:          decimal.RequireFromString("90"),
		TotalValue:    decimal.RequireFromString("1180"),
	}}

	// Under the default ₹1 tolerance the ₹0.50 delta matches.
	report, _, err := svc.Reconcile(service.ReconciliationRequest{
		GSTRType: domain.GSTR1,
		Period:   "012024",
		Books:    books,
		Portal:   portal,
	})
	assert.NoError(t, err)
	assert.Equal(t, 1, report.Summary.MatchedCount)

	// An explicit zero tolerance asks for exact matching and flags it.
	zero := decimal.Zero
	report, _, err = svc.Reconcile(service.ReconciliationRequest{
		GSTRType:  domain.GSTR1,
		Period:    "012024",
		Books:     books,
		Portal:    portal,
		Tolerance: &zero,
	})
	assert.NoError(t, err)
	assert.Equal(t, 0, report.Summary.MatchedCount)
	assert.Len(t, report.Mismatches, 1)
}

func TestReconciliationService_Reconcile_BadPortalExportFailsJob(t *testing.T) {
	repo := newFakeReconRepo()
	svc := service.NewReconciliationService(repo)

	_, jobID, err := svc.Reconcile(service.ReconciliationRequest{
		GSTRType:     domain.GSTR2B,
		Period:       "022024",
		Books:        []domain.GSTRecord{gstRecord("INV-1", "1180")},
		PortalExport: []byte("{broken"),
	})

	assert.Error(t, err)
	assert.NotEmpty(t, jobID)

	job, getErr := svc.GetJob(jobID)
	assert.NoError(t, getErr)
	assert.Equal(t, domain.Failed, job.Status)
	assert.NotNil(t, job.ErrorMessage)
}

func TestReconciliationService_Reconcile_Validation(t *testing.T) {
	svc := service.NewReconciliationService(newFakeReconRepo())

	_, _, err := svc.Reconcile(service.ReconciliationRequest{
		GSTRType: domain.GSTRType("GSTR-9"),
		Period:   "012024",
		Books:    []domain.GSTRecord{gstRecord("INV-1", "1180")},
		Portal:   []domain.GSTRecord{gstRecord("INV-1", "1180")},
	})
	assert.Error(t, err)

	_, _, err = svc.Reconcile(service.ReconciliationRequest{
		GSTRType: domain.GSTR1,
		Books:    []domain.GSTRecord{gstRecord("INV-1", "1180")},
		Portal:   []domain.GSTRecord{gstRecord("INV-1", "1180")},
	})
	assert.Error(t, err)

	_, _, err = svc.Reconcile(service.ReconciliationRequest{
		GSTRType: domain.GSTR1,
		Period:   "012024",
		Portal:   []domain.GSTRecord{gstRecord("INV-1", "1180")},
	})
	assert.Error(t, err)
}

func TestReconciliationService_GetMismatches_UnknownJob(t *testing.T) {
	svc := service.NewReconciliationService(newFakeReconRepo())
	_, err := svc.GetMismatches("no-such-job")
	assert.Error(t, err)
}
