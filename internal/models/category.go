package models

import "fmt"

// Category tags an entry with the business activity it records.
type Category string

const (
	CategoryInvoice      Category = "INVOICE"
	CategoryFuel         Category = "BBM"
	CategoryMaintenance  Category = "MAINTENANCE"
	CategoryPayroll      Category = "GAJI"
	CategoryPermits      Category = "PERIZINAN"
	CategoryInsurance    Category = "ASURANSI"
	CategoryCapital      Category = "CASH"
	CategoryOtherIncome  Category = "REVENUE"
	CategoryStationery   Category = "ATK"
	CategoryUtilities    Category = "LISTRIK_AIR"
	CategoryOfficeRent   Category = "SEWA_KANTOR"
	CategoryTax          Category = "PAJAK"
	CategoryOtherCost    Category = "BIAYA_LAIN"
	CategoryBankLoan     Category = "BANK"
	CategoryBankInterest Category = "BUNGA_BANK"
	CategoryDepreciation Category = "PENYUSUTAN"
)

// Categories is the closed set of categories, in form display order.
var Categories = []Category{
	CategoryInvoice,
	CategoryFuel,
	CategoryMaintenance,
	CategoryPayroll,
	CategoryPermits,
	CategoryInsurance,
	CategoryCapital,
	CategoryOtherIncome,
	CategoryStationery,
	CategoryUtilities,
	CategoryOfficeRent,
	CategoryTax,
	CategoryOtherCost,
	CategoryBankLoan,
	CategoryBankInterest,
	CategoryDepreciation,
}

func (c Category) Valid() bool {
	for _, known := range Categories {
		if c == known {
			return true
		}
	}
	return false
}

func ParseCategory(s string) (Category, error) {
	c := Category(s)
	if !c.Valid() {
		return "", fmt.Errorf("unknown category %q", s)
	}
	return c, nil
}
