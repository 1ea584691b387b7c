package models

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// Journal groups the legs of one balanced transaction.
// It is not stored on its own; entries carry the journal id.
type Journal struct {
	ID             string        `json:"id"`
	IdempotencyKey string        `json:"idempotency_key,omitempty"`
	Entries        []LedgerEntry `json:"entries"`
	PostedAt       time.Time     `json:"posted_at"`
}

// Totals returns the debit and credit sums over the journal's legs.
func (j Journal) Totals() (debit, credit decimal.Decimal) {
	debit, credit = decimal.Zero, decimal.Zero
	for _, e := range j.Entries {
		debit = debit.Add(e.Debit)
		credit = credit.Add(e.Credit)
	}
	return debit, credit
}

// Validate ensures the journal has at least two valid legs stamped with its
// id and that debits equal credits.
func (j Journal) Validate() error {
	if len(j.Entries) < 2 {
		return fmt.Errorf("journal %s has %d legs, need at least 2", j.ID, len(j.Entries))
	}
	for _, e := range j.Entries {
		if e.JournalID != j.ID {
			return fmt.Errorf("entry %s belongs to journal %s, not %s", e.ID, e.JournalID, j.ID)
		}
		if err := e.Validate(); err != nil {
			return fmt.Errorf("entry %s: %w", e.ID, err)
		}
	}
	debit, credit := j.Totals()
	if !debit.Equal(credit) {
		return fmt.Errorf("journal %s unbalanced: debit %s, credit %s", j.ID, debit, credit)
	}
	return nil
}
