package interfaces

import (
	"context"

	"github.com/sheikh-saqib/haulage-ledger/internal/models"
)

// Snapshot is a consistent read of the whole ledger.
// Epoch names the ledger history the entries belong to and Version grows
// with every appended entry, so an equal (Epoch, Version) pair means equal
// entries.
type Snapshot struct {
	Epoch   string
	Version uint64
	Entries []models.LedgerEntry
}

type LedgerStore interface {
	AppendJournal(ctx context.Context, journal models.Journal) error
	JournalByIdempotencyKey(ctx context.Context, key string) (models.Journal, bool, error)
	GetEntriesByAccount(ctx context.Context, accountID string) ([]models.LedgerEntry, error)
	Snapshot(ctx context.Context) (Snapshot, error)
}
