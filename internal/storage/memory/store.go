package memory

import (
	"context"
	"sync"

	"github.com/oklog/ulid/v2"

	"github.com/sheikh-saqib/haulage-ledger/internal/interfaces"
	"github.com/sheikh-saqib/haulage-ledger/internal/models"
)

// MemoryLedgerStore is an in-memory implementation of interfaces.LedgerStore.
// It keeps the session's ledger in insertion order and is safe for concurrent use.
type MemoryLedgerStore struct {
	epoch string // unique per store, a restart starts a new history

	mu          sync.RWMutex              // guards everything below
	entries     []models.LedgerEntry      // append-only, insertion order
	journals    map[string]models.Journal // journal id -> journal
	idempotency map[string]string         // idempotency key -> journal id
}

// NewMemoryLedgerStore creates an empty store.
func NewMemoryLedgerStore() *MemoryLedgerStore {
	return &MemoryLedgerStore{
		epoch:       ulid.Make().String(),
		entries:     make([]models.LedgerEntry, 0),
		journals:    make(map[string]models.Journal),
		idempotency: make(map[string]string),
	}
}

// AppendJournal appends all legs of the journal in one step.
func (m *MemoryLedgerStore) AppendJournal(ctx context.Context, journal models.Journal) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	m.entries = append(m.entries, journal.Entries...)
	m.journals[journal.ID] = copyJournal(journal)
	if journal.IdempotencyKey != "" {
		m.idempotency[journal.IdempotencyKey] = journal.ID
	}
	return nil
}

func (m *MemoryLedgerStore) JournalByIdempotencyKey(ctx context.Context, key string) (models.Journal, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	id, ok := m.idempotency[key]
	if !ok {
		return models.Journal{}, false, nil
	}
	return copyJournal(m.journals[id]), true, nil
}

func (m *MemoryLedgerStore) GetEntriesByAccount(ctx context.Context, accountID string) ([]models.LedgerEntry, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var result []models.LedgerEntry
	for _, e := range m.entries {
		if e.AccountID == accountID {
			result = append(result, e)
		}
	}
	return result, nil
}

// Snapshot returns a copy of all entries so callers can't modify internal state.
func (m *MemoryLedgerStore) Snapshot(ctx context.Context) (interfaces.Snapshot, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	copied := make([]models.LedgerEntry, len(m.entries))
	copy(copied, m.entries)
	return interfaces.Snapshot{
		Epoch:   m.epoch,
		Version: uint64(len(m.entries)),
		Entries: copied,
	}, nil
}

func copyJournal(j models.Journal) models.Journal {
	entries := make([]models.LedgerEntry, len(j.Entries))
	copy(entries, j.Entries)
	j.Entries = entries
	return j
}

// Compile-time check: ensure MemoryLedgerStore implements LedgerStore interface
var _ interfaces.LedgerStore = (*MemoryLedgerStore)(nil)
