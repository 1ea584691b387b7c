package reports

import (
	"github.com/shopspring/decimal"

	"github.com/sheikh-saqib/haulage-ledger/internal/models"
)

// AccountBalance is the derived balance of one account, signed by the
// account type's convention.
type AccountBalance struct {
	AccountID string             `json:"account_id"`
	Type      models.AccountType `json:"type"`
	Balance   decimal.Decimal    `json:"balance"`
}

// BalanceSheet is the trial balance and balance sheet of an unclosed book.
type BalanceSheet struct {
	// Accounts holds every asset, liability and equity account, zero
	// balances included, in first-posted order.
	Accounts []AccountBalance `json:"accounts"`

	Assets      []AccountBalance `json:"assets"`
	Liabilities []AccountBalance `json:"liabilities"`
	Equity      []AccountBalance `json:"equity"`

	TotalRevenue decimal.Decimal `json:"total_revenue"`
	TotalExpense decimal.Decimal `json:"total_expense"`
	ProfitLoss   decimal.Decimal `json:"profit_loss"`

	TotalAssets      decimal.Decimal `json:"total_assets"`
	TotalLiabilities decimal.Decimal `json:"total_liabilities"`

	// TotalEquity is the equity accounts plus ProfitLoss.
	TotalEquity decimal.Decimal `json:"total_equity"`

	TotalDebit  decimal.Decimal `json:"total_debit"`
	TotalCredit decimal.Decimal `json:"total_credit"`
}

// Balanced reports whether assets equal liabilities plus equity.
func (b BalanceSheet) Balanced() bool {
	return b.TotalAssets.Equal(b.TotalLiabilities.Add(b.TotalEquity))
}

type accountKey struct {
	id  string
	typ models.AccountType
}

// Aggregate sums the entries per account and per account type. Accounts are
// keyed by id and type, so the same name used under two types stays two
// accounts. Revenue and expense legs feed ProfitLoss, which is folded into
// TotalEquity. Zero-balance accounts are left out of the three listings.
func Aggregate(entries []models.LedgerEntry) BalanceSheet {
	sheet := BalanceSheet{
		Accounts:         make([]AccountBalance, 0),
		Assets:           make([]AccountBalance, 0),
		Liabilities:      make([]AccountBalance, 0),
		Equity:           make([]AccountBalance, 0),
		TotalRevenue:     decimal.Zero,
		TotalExpense:     decimal.Zero,
		TotalAssets:      decimal.Zero,
		TotalLiabilities: decimal.Zero,
		TotalDebit:       decimal.Zero,
		TotalCredit:      decimal.Zero,
	}

	index := make(map[accountKey]int)
	for _, e := range entries {
		sheet.TotalDebit = sheet.TotalDebit.Add(e.Debit)
		sheet.TotalCredit = sheet.TotalCredit.Add(e.Credit)

		switch e.AccountType {
		case models.AccountTypeRevenue:
			sheet.TotalRevenue = sheet.TotalRevenue.Sub(e.Net())
			continue
		case models.AccountTypeExpense:
			sheet.TotalExpense = sheet.TotalExpense.Add(e.Net())
			continue
		case models.AccountTypeAsset, models.AccountTypeLiability, models.AccountTypeEquity:
		default:
			continue
		}

		key := accountKey{id: e.AccountID, typ: e.AccountType}
		i, ok := index[key]
		if !ok {
			i = len(sheet.Accounts)
			index[key] = i
			sheet.Accounts = append(sheet.Accounts, AccountBalance{
				AccountID: e.AccountID,
				Type:      e.AccountType,
				Balance:   decimal.Zero,
			})
		}
		if e.AccountType == models.AccountTypeAsset {
			sheet.Accounts[i].Balance = sheet.Accounts[i].Balance.Add(e.Net())
		} else {
			sheet.Accounts[i].Balance = sheet.Accounts[i].Balance.Sub(e.Net())
		}
	}

	equityAccounts := decimal.Zero
	for _, acc := range sheet.Accounts {
		if acc.Balance.IsZero() {
			continue
		}
		switch acc.Type {
		case models.AccountTypeAsset:
			sheet.Assets = append(sheet.Assets, acc)
			sheet.TotalAssets = sheet.TotalAssets.Add(acc.Balance)
		case models.AccountTypeLiability:
			sheet.Liabilities = append(sheet.Liabilities, acc)
			sheet.TotalLiabilities = sheet.TotalLiabilities.Add(acc.Balance)
		case models.AccountTypeEquity:
			sheet.Equity = append(sheet.Equity, acc)
			equityAccounts = equityAccounts.Add(acc.Balance)
		}
	}

	sheet.ProfitLoss = sheet.TotalRevenue.Sub(sheet.TotalExpense)
	sheet.TotalEquity = equityAccounts.Add(sheet.ProfitLoss)
	return sheet
}
