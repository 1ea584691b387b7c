package export

import (
	"fmt"
	"io"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"

	"github.com/sheikh-saqib/haulage-ledger/internal/reports"
)

const (
	SheetStatement    = "Rekening Koran"
	SheetJournal      = "Jurnal Umum"
	SheetBalanceSheet = "Neraca"
	SheetProfitLoss   = "Laba Rugi"

	defaultSheet = "Sheet1"
)

// WriteWorkbook renders the report bundle as an XLSX workbook with one sheet
// per report.
func WriteWorkbook(w io.Writer, company string, b reports.Bundle) error {
	f := excelize.NewFile()
	defer f.Close()

	writers := []struct {
		sheet string
		fill  func(*excelize.File, string, reports.Bundle) error
	}{
		{SheetStatement, writeStatement},
		{SheetJournal, writeJournal},
		{SheetBalanceSheet, writeBalanceSheet},
		{SheetProfitLoss, writeProfitLoss},
	}

	for i, sw := range writers {
		if i == 0 {
			if err := f.SetSheetName(defaultSheet, sw.sheet); err != nil {
				return fmt.Errorf("rename sheet %s: %w", sw.sheet, err)
			}
		} else if _, err := f.NewSheet(sw.sheet); err != nil {
			return fmt.Errorf("create sheet %s: %w", sw.sheet, err)
		}
		if err := setRow(f, sw.sheet, 1, company, fmt.Sprintf("per %s", b.AsOf.String())); err != nil {
			return err
		}
		if err := sw.fill(f, sw.sheet, b); err != nil {
			return fmt.Errorf("fill sheet %s: %w", sw.sheet, err)
		}
	}
	if err := f.Write(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}

func setRow(f *excelize.File, sheet string, row int, values ...any) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return err
	}
	return f.SetSheetRow(sheet, cell, &values)
}

func amount(d decimal.Decimal) float64 {
	return d.InexactFloat64()
}

func writeStatement(f *excelize.File, sheet string, b reports.Bundle) error {
	if err := setRow(f, sheet, 3, "Tanggal", "Keterangan", "Debit", "Kredit", "Saldo"); err != nil {
		return err
	}
	row := 4
	for _, r := range b.Statement.Rows {
		if err := setRow(f, sheet, row,
			r.Date.String(), r.Description, amount(r.Debit), amount(r.Credit), amount(r.RunningBalance)); err != nil {
			return err
		}
		row++
	}
	if len(b.Statement.Rows) == 0 {
		if err := setRow(f, sheet, row, "Belum ada transaksi"); err != nil {
			return err
		}
		row++
	}
	if err := setRow(f, sheet, row+1, "Saldo Akhir", "", "", "", amount(b.Statement.EndingBalance)); err != nil {
		return err
	}
	return f.SetColWidth(sheet, "B", "B", 40)
}

func writeJournal(f *excelize.File, sheet string, b reports.Bundle) error {
	if err := setRow(f, sheet, 3, "Tanggal", "No. Jurnal", "Keterangan", "Akun", "Debit", "Kredit"); err != nil {
		return err
	}
	row := 4
	for _, group := range b.GeneralJournal.Journals {
		for _, e := range group {
			if err := setRow(f, sheet, row,
				e.Date.String(), e.JournalID, e.Description, e.AccountID, amount(e.Debit), amount(e.Credit)); err != nil {
				return err
			}
			row++
		}
	}
	if err := setRow(f, sheet, row+1, "Total", "", "", "",
		amount(b.GeneralJournal.TotalDebit), amount(b.GeneralJournal.TotalCredit)); err != nil {
		return err
	}
	return f.SetColWidth(sheet, "C", "C", 40)
}

func writeBalanceSheet(f *excelize.File, sheet string, b reports.Bundle) error {
	bs := b.BalanceSheet
	row := 3
	section := func(title string, accounts []reports.AccountBalance, total decimal.Decimal) error {
		if err := setRow(f, sheet, row, title); err != nil {
			return err
		}
		row++
		for _, acc := range accounts {
			if err := setRow(f, sheet, row, acc.AccountID, amount(acc.Balance)); err != nil {
				return err
			}
			row++
		}
		if err := setRow(f, sheet, row, "Total "+title, amount(total)); err != nil {
			return err
		}
		row += 2
		return nil
	}

	if err := section("Aset", bs.Assets, bs.TotalAssets); err != nil {
		return err
	}
	if err := section("Kewajiban", bs.Liabilities, bs.TotalLiabilities); err != nil {
		return err
	}
	equity := append([]reports.AccountBalance{}, bs.Equity...)
	equity = append(equity, reports.AccountBalance{AccountID: "LABA/RUGI BERJALAN", Balance: bs.ProfitLoss})
	if err := section("Ekuitas", equity, bs.TotalEquity); err != nil {
		return err
	}
	if err := setRow(f, sheet, row, "Total Kewajiban & Ekuitas", amount(bs.TotalLiabilities.Add(bs.TotalEquity))); err != nil {
		return err
	}
	return f.SetColWidth(sheet, "A", "A", 32)
}

func writeProfitLoss(f *excelize.File, sheet string, b reports.Bundle) error {
	if err := setRow(f, sheet, 3, "Bulan / Periode", "Pendapatan", "Beban", "Laba / Rugi Bersih"); err != nil {
		return err
	}
	row := 4
	for _, m := range b.ProfitLoss {
		if err := setRow(f, sheet, row, m.Label, amount(m.Revenue), amount(m.Expense), amount(m.Profit)); err != nil {
			return err
		}
		row++
	}
	return f.SetColWidth(sheet, "A", "A", 20)
}
