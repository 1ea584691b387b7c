package reports

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/sheikh-saqib/haulage-ledger/internal/ledger"
	"github.com/sheikh-saqib/haulage-ledger/internal/models"
)

// StatementRow is a ledger leg together with the account balance after it.
type StatementRow struct {
	models.LedgerEntry
	RunningBalance decimal.Decimal `json:"running_balance"`
}

// Statement is the account statement, most recent row first.
type Statement struct {
	AccountID     string          `json:"account_id"`
	Rows          []StatementRow  `json:"rows"`
	EndingBalance decimal.Decimal `json:"ending_balance"`
}

// BuildStatement builds the cash and bank statement.
func BuildStatement(entries []models.LedgerEntry) Statement {
	return BuildAccountStatement(entries, ledger.CashAccountID)
}

// BuildAccountStatement keeps the legs on accountID, orders them by date
// (insertion order breaks ties), folds balance += debit - credit and then
// reverses the rows for display.
func BuildAccountStatement(entries []models.LedgerEntry, accountID string) Statement {
	rows := make([]StatementRow, 0)
	for _, e := range entries {
		if e.AccountID == accountID {
			rows = append(rows, StatementRow{LedgerEntry: e})
		}
	}
	sort.SliceStable(rows, func(i, j int) bool {
		return rows[i].Date.Before(rows[j].Date)
	})

	balance := decimal.Zero
	for i := range rows {
		balance = balance.Add(rows[i].Net())
		rows[i].RunningBalance = balance
	}

	for i, j := 0, len(rows)-1; i < j; i, j = i+1, j-1 {
		rows[i], rows[j] = rows[j], rows[i]
	}

	return Statement{
		AccountID:     accountID,
		Rows:          rows,
		EndingBalance: balance,
	}
}
