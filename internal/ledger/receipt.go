package ledger

import (
	"strings"

	"cloud.google.com/go/civil"
	"github.com/shopspring/decimal"

	"github.com/sheikh-saqib/haulage-ledger/internal/models"
)

// ReceiptScan is the structured result of an external receipt OCR call.
type ReceiptScan struct {
	Date     string          `json:"date"` // YYYY-MM-DD, may be empty
	Amount   decimal.Decimal `json:"amount"`
	Vendor   string          `json:"vendor"`
	Category string          `json:"category"`
}

// FromReceiptScan pre-fills an outgoing posting from a scanned receipt.
// Missing or malformed fields fall back to today and BIAYA_LAIN; the amount
// is passed through untouched so the poster still rejects non-positive values.
func FromReceiptScan(scan ReceiptScan, today civil.Date) models.PostingRequest {
	date, err := civil.ParseDate(strings.TrimSpace(scan.Date))
	if err != nil || !date.IsValid() {
		date = today
	}

	category := models.Category(strings.ToUpper(strings.TrimSpace(scan.Category)))
	if !category.Valid() {
		category = models.CategoryOtherCost
	}

	vendor := normalize(scan.Vendor)
	label := vendor
	if label == "" {
		label = "UNKNOWN VENDOR"
	}

	return models.PostingRequest{
		Flow:        models.FlowOut,
		Date:        date,
		Description: "INVOICE: " + label,
		Amount:      scan.Amount,
		Category:    category,
		AccountID:   vendor,
	}
}
