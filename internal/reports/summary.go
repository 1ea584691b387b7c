package reports

import (
	"github.com/shopspring/decimal"

	"github.com/sheikh-saqib/haulage-ledger/internal/models"
)

var hundred = decimal.NewFromInt(100)

// Summary holds the dashboard headline figures.
type Summary struct {
	Revenue       decimal.Decimal `json:"revenue"`
	Expense       decimal.Decimal `json:"expense"`
	Margin        decimal.Decimal `json:"margin"`
	MarginPercent decimal.Decimal `json:"margin_percent"`
	Trips         int             `json:"trips"`
	Distance      decimal.Decimal `json:"distance"`
}

// Summarize computes the dashboard figures from the ledger and trip logs.
// Trips without an end odometer reading add no distance.
func Summarize(entries []models.LedgerEntry, trips []models.TripLog) Summary {
	s := Summary{
		Revenue:  decimal.Zero,
		Expense:  decimal.Zero,
		Distance: decimal.Zero,
		Trips:    len(trips),
	}
	for _, e := range entries {
		switch e.AccountType {
		case models.AccountTypeRevenue:
			s.Revenue = s.Revenue.Sub(e.Net())
		case models.AccountTypeExpense:
			s.Expense = s.Expense.Add(e.Net())
		}
	}
	for _, t := range trips {
		s.Distance = s.Distance.Add(t.Distance())
	}

	s.Margin = s.Revenue.Sub(s.Expense)
	s.MarginPercent = percent(s.Margin, s.Revenue)
	return s
}

// percent returns part/whole*100 rounded to two places, or zero when whole
// is zero.
func percent(part, whole decimal.Decimal) decimal.Decimal {
	if whole.IsZero() {
		return decimal.Zero
	}
	return part.Div(whole).Mul(hundred).Round(2)
}
