package reports

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/sheikh-saqib/haulage-ledger/internal/models"
)

// GeneralJournal is the grouped journal view with its footer totals.
type GeneralJournal struct {
	Journals    [][]models.LedgerEntry `json:"journals"`
	TotalDebit  decimal.Decimal        `json:"total_debit"`
	TotalCredit decimal.Decimal        `json:"total_credit"`
}

// GroupJournals groups legs by journal id. Legs keep their original order
// inside a group. Groups are ordered by the date of their first leg, newest
// first; among groups on the same day the later-posted one comes first.
func GroupJournals(entries []models.LedgerEntry) [][]models.LedgerEntry {
	index := make(map[string]int)
	groups := make([][]models.LedgerEntry, 0)
	for _, e := range entries {
		i, ok := index[e.JournalID]
		if !ok {
			i = len(groups)
			index[e.JournalID] = i
			groups = append(groups, nil)
		}
		groups[i] = append(groups[i], e)
	}

	order := make([]int, len(groups))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		da, db := groups[order[a]][0].Date, groups[order[b]][0].Date
		if da != db {
			return da.After(db)
		}
		return order[a] > order[b]
	})

	sorted := make([][]models.LedgerEntry, len(groups))
	for i, g := range order {
		sorted[i] = groups[g]
	}
	return sorted
}

// BuildGeneralJournal groups the entries and totals every debit and credit.
func BuildGeneralJournal(entries []models.LedgerEntry) GeneralJournal {
	debit, credit := decimal.Zero, decimal.Zero
	for _, e := range entries {
		debit = debit.Add(e.Debit)
		credit = credit.Add(e.Credit)
	}
	return GeneralJournal{
		Journals:    GroupJournals(entries),
		TotalDebit:  debit,
		TotalCredit: credit,
	}
}
