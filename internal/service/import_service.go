package service

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/ramanbajpai7/AcctAI/internal/domain"
	"github.com/ramanbajpai7/AcctAI/internal/parser"
	"github.com/ramanbajpai7/AcctAI/internal/repository"
	"github.com/ramanbajpai7/AcctAI/pkg/logger"
)

// ImportSummary reports one statement upload: the batch the rows were
// stored under plus the parse outcome.
type ImportSummary struct {
	BatchID      string                     `json:"batch_id"`
	FileName     string                     `json:"file_name"`
	Count        int                        `json:"count"`
	StartDate    *time.Time                 `json:"start_date,omitempty"`
	EndDate      *time.Time                 `json:"end_date,omitempty"`
	Transactions []domain.ParsedTransaction `json:"transactions"`
}

type ImportService interface {
	Import(fileName string, data []byte) (*ImportSummary, error)
	GetBatch(batchID string) ([]domain.BankTransaction, error)
	GetByDateRange(startDate, endDate time.Time) ([]domain.BankTransaction, error)
	UpdateTransaction(id int, update domain.BankTransactionUpdate) error
}

const defaultBatchSize = 10000

type importService struct {
	repo      repository.BankTransactionRepository
	batchSize int
}

func NewImportService(repo repository.BankTransactionRepository, batchSize int) ImportService {
	if batchSize <= 0 {
		batchSize = defaultBatchSize
	}
	return &importService{repo: repo, batchSize: batchSize}
}

// Import parses an uploaded statement and persists the rows under a
// fresh batch ID. A structural parse failure is returned as an error
// carrying the parser's message; nothing is persisted in that case.
func (s *importService) Import(fileName string, data []byte) (*ImportSummary, error) {
	format, err := formatFromFileName(fileName)
	if err != nil {
		return nil, err
	}

	result := parser.ParseStatement(data, format)
	if !result.Success {
		return nil, fmt.Errorf("failed to parse %s: %s", fileName, result.Error)
	}

	batchID := uuid.New().String()

	transactions := make([]domain.BankTransaction, len(result.Transactions))
	for i, txn := range result.Transactions {
		transactions[i] = domain.BankTransaction{
			BatchID:     batchID,
			Date:        txn.Date,
			Description: txn.Description,
			Reference:   txn.Reference,
			Amount:      txn.Amount,
			Direction:   txn.Direction,
			Balance:     txn.Balance,
		}
	}

	// Large statements are persisted in batches so one prepared
	// transaction never carries an unbounded row count.
	for start := 0; start < len(transactions); start += s.batchSize {
		end := start + s.batchSize
		if end > len(transactions) {
			end = len(transactions)
		}
		if err := s.repo.BulkCreate(transactions[start:end]); err != nil {
			return nil, fmt.Errorf("failed to store transactions: %w", err)
		}
	}

	logger.GetLogger().WithFields(map[string]interface{}{
		"batch_id": batchID,
		"file":     fileName,
		"count":    len(transactions),
	}).Info("Statement imported")

	return &ImportSummary{
		BatchID:      batchID,
		FileName:     fileName,
		Count:        len(result.Transactions),
		StartDate:    result.StartDate,
		EndDate:      result.EndDate,
		Transactions: result.Transactions,
	}, nil
}

func (s *importService) GetBatch(batchID string) ([]domain.BankTransaction, error) {
	if batchID == "" {
		return nil, fmt.Errorf("batch ID cannot be empty")
	}
	return s.repo.GetByBatchID(batchID)
}

func (s *importService) GetByDateRange(startDate, endDate time.Time) ([]domain.BankTransaction, error) {
	if startDate.After(endDate) {
		return nil, fmt.Errorf("start date cannot be after end date")
	}
	return s.repo.GetByDateRange(startDate, endDate)
}

func (s *importService) UpdateTransaction(id int, update domain.BankTransactionUpdate) error {
	if update.Direction != nil && *update.Direction != domain.Debit && *update.Direction != domain.Credit {
		return fmt.Errorf("invalid direction: %s", *update.Direction)
	}
	if update.Amount != nil && !update.Amount.IsPositive() {
		return fmt.Errorf("amount must be positive")
	}
	return s.repo.Update(id, update)
}

// formatFromFileName maps the upload extension onto a parser format.
// Anything other than .csv/.xls/.xlsx is rejected here, before the
// bytes reach the parser.
func formatFromFileName(fileName string) (parser.Format, error) {
	switch strings.ToLower(filepath.Ext(fileName)) {
	case ".csv":
		return parser.FormatCSV, nil
	case ".xls", ".xlsx":
		return parser.FormatSpreadsheet, nil
	default:
		return "", fmt.Errorf("unsupported file type: %s (use .csv, .xls or .xlsx)", fileName)
	}
}
