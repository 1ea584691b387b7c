package postgres

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"testing"
	"time"

	"cloud.google.com/go/civil"
	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sheikh-saqib/haulage-ledger/internal/models"
)

var columns = []string{"id", "journal_id", "entry_date", "description", "debit", "credit", "account_id", "account_type", "category"}

func newMockStore(t *testing.T) (*PostgresLedgerStore, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewPostgresLedgerStore(db), mock
}

func testJournal() models.Journal {
	date := civil.Date{Year: 2024, Month: 4, Day: 9}
	return models.Journal{
		ID:             "JV-1",
		IdempotencyKey: "form-1",
		PostedAt:       time.Date(2024, 4, 9, 10, 0, 0, 0, time.UTC),
		Entries: []models.LedgerEntry{
			{ID: "e1", JournalID: "JV-1", Date: date, Description: "SOLAR", Debit: decimal.NewFromInt(500), Credit: decimal.Zero,
				AccountID: "BEBAN BBM", AccountType: models.AccountTypeExpense, Category: models.CategoryFuel},
			{ID: "e2", JournalID: "JV-1", Date: date, Description: "SOLAR", Debit: decimal.Zero, Credit: decimal.NewFromInt(500),
				AccountID: "KAS & BANK", AccountType: models.AccountTypeAsset, Category: models.CategoryCapital},
		},
	}
}

func TestAppendJournal_WritesAllLegsInOneTransaction(t *testing.T) {
	store, mock := newMockStore(t)
	j := testJournal()

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO journals")).
		WithArgs("JV-1", "form-1", j.PostedAt).
		WillReturnResult(sqlmock.NewResult(0, 1))
	for _, e := range j.Entries {
		mock.ExpectExec(regexp.QuoteMeta("INSERT INTO ledger_entries")).
			WithArgs(e.ID, "JV-1", "2024-04-09", "SOLAR", sqlmock.AnyArg(), sqlmock.AnyArg(), e.AccountID, string(e.AccountType), string(e.Category)).
			WillReturnResult(sqlmock.NewResult(0, 1))
	}
	mock.ExpectCommit()

	require.NoError(t, store.AppendJournal(context.Background(), j))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAppendJournal_RollsBackOnEntryFailure(t *testing.T) {
	store, mock := newMockStore(t)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO journals")).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO ledger_entries")).WillReturnError(errors.New("disk full"))
	mock.ExpectRollback()

	err := store.AppendJournal(context.Background(), testJournal())
	require.ErrorContains(t, err, "disk full")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAppendJournal_DuplicateIdempotencyKey(t *testing.T) {
	store, mock := newMockStore(t)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO journals")).
		WillReturnError(&pq.Error{Code: uniqueViolation})
	mock.ExpectRollback()

	err := store.AppendJournal(context.Background(), testJournal())
	require.ErrorIs(t, err, ErrDuplicateIdempotencyKey)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetEntriesByAccount_ScansRows(t *testing.T) {
	store, mock := newMockStore(t)

	rows := sqlmock.NewRows(columns).
		AddRow("e1", "JV-1", time.Date(2024, 4, 9, 0, 0, 0, 0, time.UTC), "SOLAR", "500.00", "0.00", "BEBAN BBM", "EXPENSE", "BBM")
	mock.ExpectQuery(regexp.QuoteMeta("FROM ledger_entries WHERE account_id = $1")).
		WithArgs("BEBAN BBM").
		WillReturnRows(rows)

	entries, err := store.GetEntriesByAccount(context.Background(), "BEBAN BBM")
	require.NoError(t, err)
	require.Len(t, entries, 1)

	e := entries[0]
	assert.Equal(t, civil.Date{Year: 2024, Month: 4, Day: 9}, e.Date)
	assert.True(t, e.Debit.Equal(decimal.NewFromInt(500)))
	assert.True(t, e.Credit.IsZero())
	assert.Equal(t, models.AccountTypeExpense, e.AccountType)
	assert.Equal(t, models.CategoryFuel, e.Category)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSnapshot_VersionIsEntryCount(t *testing.T) {
	store, mock := newMockStore(t)

	day := time.Date(2024, 4, 9, 0, 0, 0, 0, time.UTC)
	rows := sqlmock.NewRows(columns).
		AddRow("e1", "JV-1", day, "SOLAR", "500.00", "0.00", "BEBAN BBM", "EXPENSE", "BBM").
		AddRow("e2", "JV-1", day, "SOLAR", "0.00", "500.00", "KAS & BANK", "ASSET", "CASH")

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("FROM ledger_entries ORDER BY seq")).WillReturnRows(rows)
	mock.ExpectCommit()

	snap, err := store.Snapshot(context.Background())
	require.NoError(t, err)
	assert.Equal(t, uint64(2), snap.Version)
	assert.Equal(t, "JV-1", snap.Epoch)
	require.Len(t, snap.Entries, 2)
	assert.Equal(t, "KAS & BANK", snap.Entries[1].AccountID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestJournalByIdempotencyKey(t *testing.T) {
	t.Run("found", func(t *testing.T) {
		store, mock := newMockStore(t)
		postedAt := time.Date(2024, 4, 9, 10, 0, 0, 0, time.UTC)
		day := time.Date(2024, 4, 9, 0, 0, 0, 0, time.UTC)

		mock.ExpectQuery(regexp.QuoteMeta("FROM journals WHERE idempotency_key = $1")).
			WithArgs("form-1").
			WillReturnRows(sqlmock.NewRows([]string{"id", "posted_at"}).AddRow("JV-1", postedAt))
		mock.ExpectQuery(regexp.QuoteMeta("FROM ledger_entries WHERE journal_id = $1")).
			WithArgs("JV-1").
			WillReturnRows(sqlmock.NewRows(columns).
				AddRow("e1", "JV-1", day, "SOLAR", "500.00", "0.00", "BEBAN BBM", "EXPENSE", "BBM").
				AddRow("e2", "JV-1", day, "SOLAR", "0.00", "500.00", "KAS & BANK", "ASSET", "CASH"))

		j, ok, err := store.JournalByIdempotencyKey(context.Background(), "form-1")
		require.NoError(t, err)
		require.True(t, ok)
		assert.Equal(t, "JV-1", j.ID)
		assert.Equal(t, "form-1", j.IdempotencyKey)
		assert.Len(t, j.Entries, 2)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("missing", func(t *testing.T) {
		store, mock := newMockStore(t)
		mock.ExpectQuery(regexp.QuoteMeta("FROM journals WHERE idempotency_key = $1")).
			WithArgs("nope").
			WillReturnError(sql.ErrNoRows)

		_, ok, err := store.JournalByIdempotencyKey(context.Background(), "nope")
		require.NoError(t, err)
		assert.False(t, ok)
	})
}

func TestMigrate(t *testing.T) {
	store, mock := newMockStore(t)
	mock.ExpectExec(regexp.QuoteMeta("CREATE TABLE IF NOT EXISTS journals")).
		WillReturnResult(sqlmock.NewResult(0, 0))

	require.NoError(t, store.Migrate(context.Background()))
	assert.NoError(t, mock.ExpectationsWereMet())
}
