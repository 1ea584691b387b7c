package reports

import (
	"time"

	"cloud.google.com/go/civil"
	"github.com/shopspring/decimal"

	"github.com/sheikh-saqib/haulage-ledger/internal/ledger"
	"github.com/sheikh-saqib/haulage-ledger/internal/models"
)

func day(y, m, d int) civil.Date {
	return civil.Date{Year: y, Month: time.Month(m), Day: d}
}

func amt(n int64) decimal.Decimal {
	return decimal.NewFromInt(n)
}

// pair builds the two legs the poster would write for one movement.
func pair(journalID string, date civil.Date, flow models.FlowDirection, account string, typ models.AccountType, amount int64) []models.LedgerEntry {
	cash := models.LedgerEntry{
		ID: journalID + "-cash", JournalID: journalID, Date: date,
		AccountID: ledger.CashAccountID, AccountType: models.AccountTypeAsset, Category: models.CategoryCapital,
		Debit: decimal.Zero, Credit: decimal.Zero,
	}
	counter := models.LedgerEntry{
		ID: journalID + "-counter", JournalID: journalID, Date: date,
		AccountID: account, AccountType: typ,
		Debit: decimal.Zero, Credit: decimal.Zero,
	}
	if flow == models.FlowIn {
		cash.Debit = amt(amount)
		counter.Credit = amt(amount)
		return []models.LedgerEntry{cash, counter}
	}
	counter.Debit = amt(amount)
	cash.Credit = amt(amount)
	return []models.LedgerEntry{counter, cash}
}

func concat(groups ...[]models.LedgerEntry) []models.LedgerEntry {
	var out []models.LedgerEntry
	for _, g := range groups {
		out = append(out, g...)
	}
	return out
}
