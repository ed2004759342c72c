package repository

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/ramanbajpai7/AcctAI/internal/domain"
	"github.com/ramanbajpai7/AcctAI/pkg/logger"
)

type BankTransactionRepository interface {
	BulkCreate(transactions []domain.BankTransaction) error
	GetByBatchID(batchID string) ([]domain.BankTransaction, error)
	GetByDateRange(startDate, endDate time.Time) ([]domain.BankTransaction, error)
	Update(id int, update domain.BankTransactionUpdate) error
}

type bankTransactionRepository struct {
	db *sql.DB
}

func NewBankTransactionRepository(db *sql.DB) BankTransactionRepository {
	return &bankTransactionRepository{db: db}
}

func (r *bankTransactionRepository) BulkCreate(transactions []domain.BankTransaction) error {
	if len(transactions) == 0 {
		return nil
	}

	tx, err := r.db.Begin()
	if err != nil {
		logger.GetLogger().WithError(err).Error("Failed to begin transaction")
		return err
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(`
		INSERT INTO bank_transactions (batch_id, txn_date, description, reference, amount, direction, balance, ledger)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`)
	if err != nil {
		logger.GetLogger().WithError(err).Error("Failed to prepare statement")
		return err
	}
	defer stmt.Close()

	for _, txn := range transactions {
		_, err = stmt.Exec(
			txn.BatchID,
			txn.Date,
			txn.Description,
			nullString(txn.Reference),
			txn.Amount,
			txn.Direction,
			nullDecimal(txn.Balance),
			nullStringPtr(txn.Ledger),
		)
		if err != nil {
			logger.GetLogger().WithError(err).WithField("batch_id", txn.BatchID).Error("Failed to insert bank transaction")
			continue
		}
	}

	if err := tx.Commit(); err != nil {
		logger.GetLogger().WithError(err).Error("Failed to commit transaction")
		return err
	}

	return nil
}

func (r *bankTransactionRepository) GetByBatchID(batchID string) ([]domain.BankTransaction, error) {
	query := `
		SELECT id, batch_id, txn_date, description, reference, amount, direction, balance, ledger, created_at, updated_at
		FROM bank_transactions
		WHERE batch_id = $1
		ORDER BY id
	`
	rows, err := r.db.Query(query, batchID)
	if err != nil {
		logger.GetLogger().WithError(err).Error("Failed to query bank transactions")
		return nil, err
	}
	defer rows.Close()

	return scanBankTransactions(rows)
}

func (r *bankTransactionRepository) GetByDateRange(startDate, endDate time.Time) ([]domain.BankTransaction, error) {
	query := `
		SELECT id, batch_id, txn_date, description, reference, amount, direction, balance, ledger, created_at, updated_at
		FROM bank_transactions
		WHERE txn_date >= $1 AND txn_date <= $2
		ORDER BY txn_date, id
	`
	rows, err := r.db.Query(query, startDate, endDate)
	if err != nil {
		logger.GetLogger().WithError(err).Error("Failed to query bank transactions")
		return nil, err
	}
	defer rows.Close()

	return scanBankTransactions(rows)
}

// Update applies only the fields present in the update, building the
// SET clause from non-nil members.
func (r *bankTransactionRepository) Update(id int, update domain.BankTransactionUpdate) error {
	setClauses := make([]string, 0, 6)
	args := make([]interface{}, 0, 6)

	addClause := func(column string, value interface{}) {
		args = append(args, value)
		setClauses = append(setClauses, fmt.Sprintf("%s = $%d", column, len(args)))
	}

	if update.Description != nil {
		addClause("description", *update.Description)
	}
	if update.Reference != nil {
		addClause("reference", *update.Reference)
	}
	if update.Ledger != nil {
		addClause("ledger", *update.Ledger)
	}
	if update.Amount != nil {
		addClause("amount", *update.Amount)
	}
	if update.Direction != nil {
		addClause("direction", *update.Direction)
	}

	if len(setClauses) == 0 {
		return nil
	}

	addClause("updated_at", time.Now())
	args = append(args, id)
	query := fmt.Sprintf(
		"UPDATE bank_transactions SET %s WHERE id = $%d",
		strings.Join(setClauses, ", "), len(args),
	)

	result, err := r.db.Exec(query, args...)
	if err != nil {
		logger.GetLogger().WithError(err).WithField("id", id).Error("Failed to update bank transaction")
		return err
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return fmt.Errorf("bank transaction not found")
	}

	return nil
}

func scanBankTransactions(rows *sql.Rows) ([]domain.BankTransaction, error) {
	var transactions []domain.BankTransaction
	for rows.Next() {
		var (
			txn       domain.BankTransaction
			reference sql.NullString
			balance   decimal.NullDecimal
			ledger    sql.NullString
		)
		err := rows.Scan(
			&txn.ID,
			&txn.BatchID,
			&txn.Date,
			&txn.Description,
			&reference,
			&txn.Amount,
			&txn.Direction,
			&balance,
			&ledger,
			&txn.CreatedAt,
			&txn.UpdatedAt,
		)
		if err != nil {
			logger.GetLogger().WithError(err).Error("Failed to scan bank transaction")
			continue
		}
		if reference.Valid {
			txn.Reference = reference.String
		}
		if balance.Valid {
			b := balance.Decimal
			txn.Balance = &b
		}
		if ledger.Valid {
			l := ledger.String
			txn.Ledger = &l
		}
		transactions = append(transactions, txn)
	}

	return transactions, rows.Err()
}

func nullString(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}

func nullStringPtr(s *string) interface{} {
	if s == nil {
		return nil
	}
	return *s
}

func nullDecimal(d *decimal.Decimal) interface{} {
	if d == nil {
		return nil
	}
	return *d
}
