package events

import (
	"time"

	"cloud.google.com/go/civil"
	"github.com/shopspring/decimal"
)

type JournalPosted struct {
	JournalID     string          `json:"journal_id"`
	Flow          string          `json:"flow"`
	Category      string          `json:"category"`
	DebitAccount  string          `json:"debit_account"`
	CreditAccount string          `json:"credit_account"`
	Amount        decimal.Decimal `json:"amount"`
	Date          civil.Date      `json:"date"`
	OccurredAt    time.Time       `json:"occurred_at"`
}

func (e JournalPosted) PartitionKey() string {
	return e.JournalID
}
