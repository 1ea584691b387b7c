package models

import (
	"errors"

	"cloud.google.com/go/civil"
	"github.com/shopspring/decimal"
)

// LedgerEntry is one leg of a double-entry posting.
// Entries are immutable once appended; corrections are posted as new journals.
type LedgerEntry struct {
	ID          string          `json:"id"`           // unique identifier
	Date        civil.Date      `json:"date"`         // calendar day, no timezone
	Description string          `json:"description"`  // free text, upper-cased on posting
	Debit       decimal.Decimal `json:"debit"`        // non-negative
	Credit      decimal.Decimal `json:"credit"`       // non-negative
	AccountID   string          `json:"account_id"`   // upper-cased account name
	AccountType AccountType     `json:"account_type"` // decides the sign convention
	Category    Category        `json:"category"`     // business activity tag
	JournalID   string          `json:"journal_id"`   // shared by all legs of one journal
}

// Net returns debit minus credit.
func (e LedgerEntry) Net() decimal.Decimal {
	return e.Debit.Sub(e.Credit)
}

// IsDebit reports whether the leg carries a debit amount.
func (e LedgerEntry) IsDebit() bool {
	return e.Debit.IsPositive()
}

// Validate checks the single-leg invariant: a positive debit xor a positive credit.
func (e LedgerEntry) Validate() error {
	if e.Debit.IsNegative() || e.Credit.IsNegative() {
		return errors.New("ledger entry amounts must not be negative")
	}
	if e.Debit.IsPositive() == e.Credit.IsPositive() {
		return errors.New("ledger entry must carry exactly one of debit or credit")
	}
	if e.JournalID == "" {
		return errors.New("ledger entry has no journal id")
	}
	return nil
}
