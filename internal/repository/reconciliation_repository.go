package repository

import (
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/ramanbajpai7/AcctAI/internal/domain"
	"github.com/ramanbajpai7/AcctAI/pkg/logger"
)

type ReconciliationRepository interface {
	CreateJob(job *domain.ReconciliationJob) error
	UpdateJob(job *domain.ReconciliationJob) error
	GetJobByID(jobID string) (*domain.ReconciliationJob, error)
	BulkCreateMismatches(jobID string, mismatches []domain.ReconciliationMismatch) error
	GetMismatchesByJobID(jobID string) ([]domain.ReconciliationMismatch, error)
}

type reconciliationRepository struct {
	db *sql.DB
}

func NewReconciliationRepository(db *sql.DB) ReconciliationRepository {
	return &reconciliationRepository{db: db}
}

func (r *reconciliationRepository) CreateJob(job *domain.ReconciliationJob) error {
	query := `
		INSERT INTO reconciliation_jobs (job_id, gstr_type, period, status, total_processed,
			matched_count, mismatch_count, missing_in_books, missing_in_portal, tax_difference)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id, created_at, updated_at
	`

	err := r.db.QueryRow(
		query,
		job.JobID,
		job.GSTRType,
		job.Period,
		job.Status,
		job.TotalProcessed,
		job.MatchedCount,
		job.MismatchCount,
		job.MissingInBooks,
		job.MissingInPortal,
		job.TaxDifference,
	).Scan(&job.ID, &job.CreatedAt, &job.UpdatedAt)

	if err != nil {
		logger.GetLogger().WithError(err).Error("Failed to create reconciliation job")
		return err
	}

	return nil
}

func (r *reconciliationRepository) UpdateJob(job *domain.ReconciliationJob) error {
	query := `
		UPDATE reconciliation_jobs
		SET status = $1, total_processed = $2, matched_count = $3, mismatch_count = $4,
			missing_in_books = $5, missing_in_portal = $6, tax_difference = $7,
			error_message = $8, updated_at = NOW()
		WHERE job_id = $9
	`

	_, err := r.db.Exec(
		query,
		job.Status,
		job.TotalProcessed,
		job.MatchedCount,
		job.MismatchCount,
		job.MissingInBooks,
		job.MissingInPortal,
		job.TaxDifference,
		job.ErrorMessage,
		job.JobID,
	)

	if err != nil {
		logger.GetLogger().WithError(err).WithField("job_id", job.JobID).Error("Failed to update reconciliation job")
		return err
	}

	return nil
}

func (r *reconciliationRepository) GetJobByID(jobID string) (*domain.ReconciliationJob, error) {
	query := `
		SELECT id, job_id, gstr_type, period, status, total_processed, matched_count,
			mismatch_count, missing_in_books, missing_in_portal, tax_difference,
			error_message, created_at, updated_at
		FROM reconciliation_jobs
		WHERE job_id = $1
	`

	var job domain.ReconciliationJob
	err := r.db.QueryRow(query, jobID).Scan(
		&job.ID,
		&job.JobID,
		&job.GSTRType,
		&job.Period,
		&job.Status,
		&job.TotalProcessed,
		&job.MatchedCount,
		&job.MismatchCount,
		&job.MissingInBooks,
		&job.MissingInPortal,
		&job.TaxDifference,
		&job.ErrorMessage,
		&job.CreatedAt,
		&job.UpdatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("reconciliation job not found")
	}
	if err != nil {
		logger.GetLogger().WithError(err).Error("Failed to get reconciliation job")
		return nil, err
	}

	return &job, nil
}

// Mismatch record snapshots are stored as jsonb so the full engine
// output survives a round trip without a wide column-per-field table.
func (r *reconciliationRepository) BulkCreateMismatches(jobID string, mismatches []domain.ReconciliationMismatch) error {
	if len(mismatches) == 0 {
		return nil
	}

	tx, err := r.db.Begin()
	if err != nil {
		logger.GetLogger().WithError(err).Error("Failed to begin transaction")
		return err
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(`
		INSERT INTO reconciliation_mismatches (job_id, kind, invoice_number, severity, suggestion,
			books_record, portal_record, difference, position)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`)
	if err != nil {
		logger.GetLogger().WithError(err).Error("Failed to prepare statement")
		return err
	}
	defer stmt.Close()

	for i, mismatch := range mismatches {
		booksJSON, err := marshalNullable(mismatch.Books)
		if err != nil {
			return err
		}
		portalJSON, err := marshalNullable(mismatch.Portal)
		if err != nil {
			return err
		}
		differenceJSON, err := marshalNullable(mismatch.Difference)
		if err != nil {
			return err
		}

		_, err = stmt.Exec(
			jobID,
			mismatch.Kind,
			mismatch.InvoiceNumber,
			mismatch.Severity,
			mismatch.Suggestion,
			booksJSON,
			portalJSON,
			differenceJSON,
			i,
		)
		if err != nil {
			logger.GetLogger().WithError(err).WithField("invoice_number", mismatch.InvoiceNumber).
				Error("Failed to insert mismatch")
			continue
		}
	}

	if err := tx.Commit(); err != nil {
		logger.GetLogger().WithError(err).Error("Failed to commit transaction")
		return err
	}

	return nil
}

func (r *reconciliationRepository) GetMismatchesByJobID(jobID string) ([]domain.ReconciliationMismatch, error) {
	query := `
		SELECT kind, invoice_number, severity, suggestion, books_record, portal_record, difference
		FROM reconciliation_mismatches
		WHERE job_id = $1
		ORDER BY position
	`

	rows, err := r.db.Query(query, jobID)
	if err != nil {
		logger.GetLogger().WithError(err).Error("Failed to query mismatches")
		return nil, err
	}
	defer rows.Close()

	var mismatches []domain.ReconciliationMismatch
	for rows.Next() {
		var (
			mismatch       domain.ReconciliationMismatch
			booksJSON      []byte
			portalJSON     []byte
			differenceJSON []byte
		)
		err := rows.Scan(
			&mismatch.Kind,
			&mismatch.InvoiceNumber,
			&mismatch.Severity,
			&mismatch.Suggestion,
			&booksJSON,
			&portalJSON,
			&differenceJSON,
		)
		if err != nil {
			logger.GetLogger().WithError(err).Error("Failed to scan mismatch")
			continue
		}
		if err := unmarshalNullable(booksJSON, &mismatch.Books); err != nil {
			return nil, err
		}
		if err := unmarshalNullable(portalJSON, &mismatch.Portal); err != nil {
			return nil, err
		}
		if err := unmarshalNullable(differenceJSON, &mismatch.Difference); err != nil {
			return nil, err
		}
		mismatches = append(mismatches, mismatch)
	}

	return mismatches, rows.Err()
}

func marshalNullable(v interface{}) ([]byte, error) {
	switch value := v.(type) {
	case *domain.GSTRecord:
		if value == nil {
			return nil, nil
		}
	case *domain.TaxDifference:
		if value == nil {
			return nil, nil
		}
	}
	return json.Marshal(v)
}

func unmarshalNullable(data []byte, target interface{}) error {
	if len(data) == 0 {
		return nil
	}
	return json.Unmarshal(data, target)
}
