package ledger

import (
	"fmt"

	"github.com/sheikh-saqib/haulage-ledger/internal/models"
)

// CashAccountID is the reserved cash/bank control account. Every journal
// has exactly one leg on it.
const CashAccountID = "KAS & BANK"

// AccountMapping is the default counter-account for a category.
type AccountMapping struct {
	Category models.Category    `json:"category"`
	Label    string             `json:"label"`
	Account  string             `json:"account"`
	Type     models.AccountType `json:"type"`
}

var chartOfAccounts = []AccountMapping{
	{models.CategoryInvoice, "Penagihan Client (Revenue)", "PIUTANG USAHA", models.AccountTypeRevenue},
	{models.CategoryFuel, "Bahan Bakar (BBM)", "BEBAN BBM", models.AccountTypeExpense},
	{models.CategoryMaintenance, "Perbaikan & Suku Cadang", "BEBAN PEMELIHARAAN", models.AccountTypeExpense},
	{models.CategoryPayroll, "Gaji, Upah & Komisi", "BEBAN GAJI", models.AccountTypeExpense},
	{models.CategoryPermits, "Pajak STNK / KIR / Izin", "BEBAN PERIZINAN", models.AccountTypeExpense},
	{models.CategoryInsurance, "Asuransi Armada", "BEBAN ASURANSI", models.AccountTypeExpense},
	{models.CategoryCapital, "Setoran Modal Pemilik", "MODAL DISETOR", models.AccountTypeEquity},
	{models.CategoryOtherIncome, "Pendapatan Lain-lain", "PENDAPATAN LAIN", models.AccountTypeRevenue},
	{models.CategoryStationery, "Alat Tulis & Kantor", "BEBAN ATK", models.AccountTypeExpense},
	{models.CategoryUtilities, "Utilitas (Listrik/Air)", "BEBAN UTILITAS", models.AccountTypeExpense},
	{models.CategoryOfficeRent, "Sewa Kantor/Mess", "BEBAN SEWA", models.AccountTypeExpense},
	{models.CategoryTax, "PPh / PPN Perusahaan", "HUTANG PAJAK", models.AccountTypeLiability},
	{models.CategoryOtherCost, "Biaya Operasional Lainnya", "BEBAN LAIN-LAIN", models.AccountTypeExpense},
	{models.CategoryBankLoan, "Pinjaman Bank", "HUTANG BANK", models.AccountTypeLiability},
	{models.CategoryBankInterest, "Bunga Pinjaman Bank", "BEBAN BUNGA BANK", models.AccountTypeExpense},
	{models.CategoryDepreciation, "Penyusutan Armada", "BEBAN PENYUSUTAN", models.AccountTypeExpense},
}

// ValidateChart checks that every category has exactly one mapping with a
// valid account type, and that no mapping points at the cash account.
func ValidateChart(chart []AccountMapping) error {
	seen := make(map[models.Category]int, len(chart))
	for _, m := range chart {
		if !m.Category.Valid() {
			return fmt.Errorf("chart maps unknown category %q", m.Category)
		}
		if !m.Type.Valid() {
			return fmt.Errorf("category %s maps to unknown account type %q", m.Category, m.Type)
		}
		if m.Account == "" || m.Account == CashAccountID {
			return fmt.Errorf("category %s has invalid default account %q", m.Category, m.Account)
		}
		seen[m.Category]++
	}
	for _, c := range models.Categories {
		switch seen[c] {
		case 1:
		case 0:
			return fmt.Errorf("category %s has no account mapping", c)
		default:
			return fmt.Errorf("category %s has %d account mappings", c, seen[c])
		}
	}
	return nil
}

// Chart returns a copy of the category table in display order.
func Chart() []AccountMapping {
	out := make([]AccountMapping, len(chartOfAccounts))
	copy(out, chartOfAccounts)
	return out
}

// LookupCategory returns the mapping for a category.
func LookupCategory(c models.Category) (AccountMapping, bool) {
	for _, m := range chartOfAccounts {
		if m.Category == c {
			return m, true
		}
	}
	return AccountMapping{}, false
}

// CategoriesFor lists the categories offered for a flow: money in comes from
// revenue or equity, money out goes to expenses or liabilities.
func CategoriesFor(flow models.FlowDirection) []AccountMapping {
	var out []AccountMapping
	for _, m := range chartOfAccounts {
		switch {
		case flow == models.FlowIn && (m.Type == models.AccountTypeRevenue || m.Type == models.AccountTypeEquity):
			out = append(out, m)
		case flow == models.FlowOut && (m.Type == models.AccountTypeExpense || m.Type == models.AccountTypeLiability):
			out = append(out, m)
		}
	}
	return out
}

func init() {
	if err := ValidateChart(chartOfAccounts); err != nil {
		panic(err)
	}
}
