package reports

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sheikh-saqib/haulage-ledger/internal/ledger"
	"github.com/sheikh-saqib/haulage-ledger/internal/models"
)

func TestBuildStatement_RunningBalanceNewestFirst(t *testing.T) {
	entries := concat(
		pair("JV-1", day(2024, 1, 5), models.FlowIn, "MODAL DISETOR", models.AccountTypeEquity, 1000),
		pair("JV-2", day(2024, 1, 6), models.FlowOut, "BEBAN BBM", models.AccountTypeExpense, 300),
	)

	s := BuildStatement(entries)
	assert.Equal(t, ledger.CashAccountID, s.AccountID)
	require.Len(t, s.Rows, 2)
	assert.Equal(t, "JV-2", s.Rows[0].JournalID)
	assert.Equal(t, "700", s.Rows[0].RunningBalance.String())
	assert.Equal(t, "JV-1", s.Rows[1].JournalID)
	assert.Equal(t, "1000", s.Rows[1].RunningBalance.String())
	assert.Equal(t, "700", s.EndingBalance.String())
}

func TestBuildStatement_BackdatedEntryFoldsInDateOrder(t *testing.T) {
	entries := concat(
		pair("JV-1", day(2024, 2, 10), models.FlowOut, "BEBAN BBM", models.AccountTypeExpense, 200),
		pair("JV-2", day(2024, 2, 1), models.FlowIn, "MODAL DISETOR", models.AccountTypeEquity, 500),
		pair("JV-3", day(2024, 2, 10), models.FlowOut, "BEBAN GAJI", models.AccountTypeExpense, 100),
	)

	s := BuildStatement(entries)
	require.Len(t, s.Rows, 3)

	ids := []string{s.Rows[0].JournalID, s.Rows[1].JournalID, s.Rows[2].JournalID}
	assert.Equal(t, []string{"JV-3", "JV-1", "JV-2"}, ids)
	assert.Equal(t, "200", s.Rows[0].RunningBalance.String())
	assert.Equal(t, "300", s.Rows[1].RunningBalance.String())
	assert.Equal(t, "500", s.Rows[2].RunningBalance.String())
}

func TestBuildStatement_Empty(t *testing.T) {
	s := BuildStatement(nil)
	assert.NotNil(t, s.Rows)
	assert.Empty(t, s.Rows)
	assert.True(t, s.EndingBalance.IsZero())
}

func TestBuildAccountStatement_OtherAccount(t *testing.T) {
	entries := concat(
		pair("JV-1", day(2024, 1, 5), models.FlowOut, "BEBAN BBM", models.AccountTypeExpense, 300),
		pair("JV-2", day(2024, 1, 6), models.FlowOut, "BEBAN GAJI", models.AccountTypeExpense, 50),
	)

	s := BuildAccountStatement(entries, "BEBAN BBM")
	require.Len(t, s.Rows, 1)
	assert.Equal(t, "300", s.EndingBalance.String())
}
