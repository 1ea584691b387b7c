package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"cloud.google.com/go/civil"
	"github.com/lib/pq"

	"github.com/sheikh-saqib/haulage-ledger/internal/interfaces"
	"github.com/sheikh-saqib/haulage-ledger/internal/models"
)

// ErrDuplicateIdempotencyKey is returned when another writer already posted
// a journal under the same idempotency key.
var ErrDuplicateIdempotencyKey = errors.New("idempotency key already used")

const uniqueViolation = "23505"

const schema = `
CREATE TABLE IF NOT EXISTS journals (
	id              TEXT PRIMARY KEY,
	idempotency_key TEXT UNIQUE,
	posted_at       TIMESTAMPTZ NOT NULL
);
CREATE TABLE IF NOT EXISTS ledger_entries (
	seq          BIGSERIAL PRIMARY KEY,
	id           TEXT NOT NULL UNIQUE,
	journal_id   TEXT NOT NULL REFERENCES journals(id),
	entry_date   DATE NOT NULL,
	description  TEXT NOT NULL,
	debit        NUMERIC(20,2) NOT NULL CHECK (debit >= 0),
	credit       NUMERIC(20,2) NOT NULL CHECK (credit >= 0),
	account_id   TEXT NOT NULL,
	account_type TEXT NOT NULL,
	category     TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS ledger_entries_account_idx ON ledger_entries (account_id);
CREATE INDEX IF NOT EXISTS ledger_entries_journal_idx ON ledger_entries (journal_id);
`

const entryColumns = `id, journal_id, entry_date, description, debit, credit, account_id, account_type, category`

type PostgresLedgerStore struct {
	db *sql.DB
}

// Open connects through lib/pq and verifies the connection.
func Open(ctx context.Context, dsn string) (*sql.DB, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(time.Hour)

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}
	return db, nil
}

func NewPostgresLedgerStore(db *sql.DB) *PostgresLedgerStore {
	return &PostgresLedgerStore{
		db: db,
	}
}

// Migrate creates the ledger tables if they do not exist.
func (p *PostgresLedgerStore) Migrate(ctx context.Context) error {
	if _, err := p.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("migrate ledger schema: %w", err)
	}
	return nil
}

func (p *PostgresLedgerStore) saveJournal(ctx context.Context, journal models.Journal, dbTx *sql.Tx) error {
	const query = `INSERT INTO journals (id, idempotency_key, posted_at) VALUES ($1, $2, $3)`

	key := sql.NullString{String: journal.IdempotencyKey, Valid: journal.IdempotencyKey != ""}
	_, err := dbTx.ExecContext(ctx, query, journal.ID, key, journal.PostedAt)
	return err
}

func (p *PostgresLedgerStore) saveEntry(ctx context.Context, entry models.LedgerEntry, dbTx *sql.Tx) error {
	const query = `INSERT INTO ledger_entries (` + entryColumns + `)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`

	_, err := dbTx.ExecContext(ctx, query,
		entry.ID,
		entry.JournalID,
		entry.Date.String(),
		entry.Description,
		entry.Debit,
		entry.Credit,
		entry.AccountID,
		string(entry.AccountType),
		string(entry.Category),
	)
	return err
}

// AppendJournal writes the journal row and all of its legs in one transaction.
func (p *PostgresLedgerStore) AppendJournal(ctx context.Context, journal models.Journal) (err error) {
	dbTx, err := p.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin append: %w", err)
	}

	defer func() {
		if err != nil {
			dbTx.Rollback()
		}
	}()

	if err = p.saveJournal(ctx, journal, dbTx); err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
			return fmt.Errorf("journal %s: %w", journal.ID, ErrDuplicateIdempotencyKey)
		}
		return fmt.Errorf("insert journal %s: %w", journal.ID, err)
	}

	for _, entry := range journal.Entries {
		if err = p.saveEntry(ctx, entry, dbTx); err != nil {
			return fmt.Errorf("insert entry %s: %w", entry.ID, err)
		}
	}
	if err = dbTx.Commit(); err != nil {
		return fmt.Errorf("commit journal %s: %w", journal.ID, err)
	}
	return nil
}

func (p *PostgresLedgerStore) JournalByIdempotencyKey(ctx context.Context, key string) (models.Journal, bool, error) {
	const query = `SELECT id, posted_at FROM journals WHERE idempotency_key = $1 LIMIT 1`

	journal := models.Journal{IdempotencyKey: key}
	err := p.db.QueryRowContext(ctx, query, key).Scan(&journal.ID, &journal.PostedAt)
	if err == sql.ErrNoRows {
		return models.Journal{}, false, nil
	}
	if err != nil {
		return models.Journal{}, false, fmt.Errorf("lookup idempotency key: %w", err)
	}

	rows, err := p.db.QueryContext(ctx,
		`SELECT `+entryColumns+` FROM ledger_entries WHERE journal_id = $1 ORDER BY seq`, journal.ID)
	if err != nil {
		return models.Journal{}, false, fmt.Errorf("load journal %s: %w", journal.ID, err)
	}
	defer rows.Close()

	journal.Entries, err = scanEntries(rows)
	if err != nil {
		return models.Journal{}, false, err
	}
	return journal, true, nil
}

func (p *PostgresLedgerStore) GetEntriesByAccount(ctx context.Context, accountID string) ([]models.LedgerEntry, error) {
	rows, err := p.db.QueryContext(ctx,
		`SELECT `+entryColumns+` FROM ledger_entries WHERE account_id = $1 ORDER BY seq`, accountID)
	if err != nil {
		return nil, fmt.Errorf("query account %s: %w", accountID, err)
	}
	defer rows.Close()

	return scanEntries(rows)
}

// Snapshot reads every entry in insertion order inside a read-only
// repeatable-read transaction. The ledger is append-only, so the row count
// doubles as the version and the first journal id names the history.
func (p *PostgresLedgerStore) Snapshot(ctx context.Context) (interfaces.Snapshot, error) {
	dbTx, err := p.db.BeginTx(ctx, &sql.TxOptions{Isolation: sql.LevelRepeatableRead, ReadOnly: true})
	if err != nil {
		return interfaces.Snapshot{}, fmt.Errorf("begin snapshot: %w", err)
	}
	defer dbTx.Rollback()

	rows, err := dbTx.QueryContext(ctx, `SELECT `+entryColumns+` FROM ledger_entries ORDER BY seq`)
	if err != nil {
		return interfaces.Snapshot{}, fmt.Errorf("query ledger: %w", err)
	}
	entries, err := scanEntries(rows)
	rows.Close()
	if err != nil {
		return interfaces.Snapshot{}, err
	}
	if err := dbTx.Commit(); err != nil {
		return interfaces.Snapshot{}, fmt.Errorf("commit snapshot: %w", err)
	}

	snap := interfaces.Snapshot{
		Version: uint64(len(entries)),
		Entries: entries,
	}
	if len(entries) > 0 {
		snap.Epoch = entries[0].JournalID
	}
	return snap, nil
}

func scanEntries(rows *sql.Rows) ([]models.LedgerEntry, error) {
	entries := make([]models.LedgerEntry, 0)
	for rows.Next() {
		var (
			entry       models.LedgerEntry
			date        time.Time
			accountType string
			category    string
		)
		if err := rows.Scan(
			&entry.ID,
			&entry.JournalID,
			&date,
			&entry.Description,
			&entry.Debit,
			&entry.Credit,
			&entry.AccountID,
			&accountType,
			&category,
		); err != nil {
			return nil, fmt.Errorf("scan ledger entry: %w", err)
		}
		entry.Date = civil.DateOf(date)
		entry.AccountType = models.AccountType(accountType)
		entry.Category = models.Category(category)
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate ledger entries: %w", err)
	}
	return entries, nil
}

var _ interfaces.LedgerStore = (*PostgresLedgerStore)(nil)
