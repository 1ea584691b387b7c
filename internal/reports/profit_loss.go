package reports

import (
	"fmt"
	"time"

	"cloud.google.com/go/civil"
	"github.com/shopspring/decimal"

	"github.com/sheikh-saqib/haulage-ledger/internal/models"
)

// RollupMonths is the length of the trailing profit and loss window.
const RollupMonths = 12

// DefaultDailyWindow is the length of the dashboard performance window.
const DefaultDailyWindow = 7

var monthLabels = [...]string{"Jan", "Feb", "Mar", "Apr", "Mei", "Jun", "Jul", "Agu", "Sep", "Okt", "Nov", "Des"}

// MonthBucket is the profit and loss of one calendar month.
type MonthBucket struct {
	Year    int             `json:"year"`
	Month   time.Month      `json:"month"`
	Label   string          `json:"label"`
	Revenue decimal.Decimal `json:"revenue"`
	Expense decimal.Decimal `json:"expense"`
	Profit  decimal.Decimal `json:"profit"`
}

// DayBucket is the revenue and expense of one calendar day.
type DayBucket struct {
	Date    civil.Date      `json:"date"`
	Revenue decimal.Decimal `json:"revenue"`
	Expense decimal.Decimal `json:"expense"`
}

// monthIndex counts months since year 0 so that month arithmetic never
// goes through a clock or a timezone.
func monthIndex(year int, month time.Month) int {
	return year*12 + int(month) - 1
}

// Rollup buckets revenue and expense into the twelve calendar months ending
// with the month of asOf, oldest first. Empty months are zero, never omitted.
func Rollup(entries []models.LedgerEntry, asOf civil.Date) []MonthBucket {
	last := monthIndex(asOf.Year, asOf.Month)
	first := last - (RollupMonths - 1)

	buckets := make([]MonthBucket, RollupMonths)
	for i := range buckets {
		idx := first + i
		year, month := idx/12, time.Month(idx%12+1)
		buckets[i] = MonthBucket{
			Year:    year,
			Month:   month,
			Label:   fmt.Sprintf("%s %d", monthLabels[month-1], year),
			Revenue: decimal.Zero,
			Expense: decimal.Zero,
		}
	}

	for _, e := range entries {
		i := monthIndex(e.Date.Year, e.Date.Month) - first
		if i < 0 || i >= RollupMonths {
			continue
		}
		switch e.AccountType {
		case models.AccountTypeRevenue:
			buckets[i].Revenue = buckets[i].Revenue.Sub(e.Net())
		case models.AccountTypeExpense:
			buckets[i].Expense = buckets[i].Expense.Add(e.Net())
		}
	}

	for i := range buckets {
		buckets[i].Profit = buckets[i].Revenue.Sub(buckets[i].Expense)
	}
	return buckets
}

// DailyRollup buckets revenue and expense into the trailing days ending on
// asOf, oldest first. A non-positive window falls back to DefaultDailyWindow.
func DailyRollup(entries []models.LedgerEntry, asOf civil.Date, days int) []DayBucket {
	if days <= 0 {
		days = DefaultDailyWindow
	}
	start := asOf.AddDays(-(days - 1))

	buckets := make([]DayBucket, days)
	for i := range buckets {
		buckets[i] = DayBucket{
			Date:    start.AddDays(i),
			Revenue: decimal.Zero,
			Expense: decimal.Zero,
		}
	}

	for _, e := range entries {
		i := e.Date.DaysSince(start)
		if i < 0 || i >= days {
			continue
		}
		switch e.AccountType {
		case models.AccountTypeRevenue:
			buckets[i].Revenue = buckets[i].Revenue.Sub(e.Net())
		case models.AccountTypeExpense:
			buckets[i].Expense = buckets[i].Expense.Add(e.Net())
		}
	}
	return buckets
}
