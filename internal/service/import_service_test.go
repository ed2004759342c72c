package service_test

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/ramanbajpai7/AcctAI/internal/domain"
	"github.com/ramanbajpai7/AcctAI/internal/service"
)

type fakeTxRepo struct {
	created   []domain.BankTransaction
	bulkCalls int
	updates   map[int]domain.BankTransactionUpdate
}

func newFakeTxRepo() *fakeTxRepo {
	return &fakeTxRepo{updates: make(map[int]domain.BankTransactionUpdate)}
}

func (r *fakeTxRepo) BulkCreate(transactions []domain.BankTransaction) error {
	r.bulkCalls++
	r.created = append(r.created, transactions...)
	return nil
}

func (r *fakeTxRepo) GetByBatchID(batchID string) ([]domain.BankTransaction, error) {
	var out []domain.BankTransaction
	for _, txn := range r.created {
		if txn.BatchID == batchID {
			out = append(out, txn)
		}
	}
	return out, nil
}

func (r *fakeTxRepo) GetByDateRange(startDate, endDate time.Time) ([]domain.BankTransaction, error) {
	var out []domain.BankTransaction
	for _, txn := range r.created {
		if !txn.Date.Before(startDate) && !txn.Date.After(endDate) {
			out = append(out, txn)
		}
	}
	return out, nil
}

func (r *fakeTxRepo) Update(id int, update domain.BankTransactionUpdate) error {
	r.updates[id] = update
	return nil
}

func TestImportService_Import(t *testing.T) {
	repo := newFakeTxRepo()
	svc := service.NewImportService(repo, 0)

	csv := `Date,Particulars,Debit,Credit
01/04/2024,UPI-SWIGGY,450.00,
02/04/2024,NEFT SALARY,,50000.00
`
	summary, err := svc.Import("statement.csv", []byte(csv))

	assert.NoError(t, err)
	assert.Equal(t, 2, summary.Count)
	assert.NotEmpty(t, summary.BatchID)
	assert.Len(t, repo.created, 2)
	assert.Equal(t, summary.BatchID, repo.created[0].BatchID)
	assert.Equal(t, domain.Debit, repo.created[0].Direction)
}

func TestImportService_Import_PersistsInBatches(t *testing.T) {
	repo := newFakeTxRepo()
	svc := service.NewImportService(repo, 2)

	csv := `Date,Particulars,Debit,Credit
01/04/2024,ROW ONE,100.00,
02/04/2024,ROW TWO,200.00,
03/04/2024,ROW THREE,300.00,
`
	summary, err := svc.Import("statement.csv", []byte(csv))

	assert.NoError(t, err)
	assert.Equal(t, 3, summary.Count)
	assert.Len(t, repo.created, 3)
	assert.Equal(t, 2, repo.bulkCalls, "three rows with batch size 2 need two inserts")
}

func TestImportService_Import_UnsupportedExtension(t *testing.T) {
	svc := service.NewImportService(newFakeTxRepo(), 0)

	_, err := svc.Import("statement.pdf", []byte("x"))

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported file type")
}

func TestImportService_Import_ParseFailureStoresNothing(t *testing.T) {
	repo := newFakeTxRepo()
	svc := service.NewImportService(repo, 0)

	_, err := svc.Import("statement.csv", []byte("Particulars,Amount\nno dates,100\n"))

	assert.Error(t, err)
	assert.Empty(t, repo.created)
}

func TestImportService_GetBatch_EmptyID(t *testing.T) {
	svc := service.NewImportService(newFakeTxRepo(), 0)
	_, err := svc.GetBatch("")
	assert.Error(t, err)
}

func TestImportService_GetByDateRange_Inverted(t *testing.T) {
	svc := service.NewImportService(newFakeTxRepo(), 0)
	_, err := svc.GetByDateRange(time.Now(), time.Now().Add(-time.Hour))
	assert.Error(t, err)
}

func TestImportService_UpdateTransaction_Validation(t *testing.T) {
	repo := newFakeTxRepo()
	svc := service.NewImportService(repo, 0)

	bad := domain.Direction("sideways")
	err := svc.UpdateTransaction(1, domain.BankTransactionUpdate{Direction: &bad})
	assert.Error(t, err)

	negative := decimal.NewFromInt(-5)
	err = svc.UpdateTransaction(1, domain.BankTransactionUpdate{Amount: &negative})
	assert.Error(t, err)

	ledger := "Food & Refreshment"
	err = svc.UpdateTransaction(1, domain.BankTransactionUpdate{Ledger: &ledger})
	assert.NoError(t, err)
	assert.Contains(t, repo.updates, 1)
}
