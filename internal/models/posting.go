package models

import (
	"fmt"
	"strings"

	"cloud.google.com/go/civil"
	"github.com/shopspring/decimal"
)

// FlowDirection says whether cash comes in or goes out.
type FlowDirection string

const (
	FlowIn  FlowDirection = "IN"
	FlowOut FlowDirection = "OUT"
)

func (f FlowDirection) Valid() bool {
	return f == FlowIn || f == FlowOut
}

func ParseFlowDirection(s string) (FlowDirection, error) {
	f := FlowDirection(strings.ToUpper(strings.TrimSpace(s)))
	if !f.Valid() {
		return "", fmt.Errorf("unknown flow direction %q", s)
	}
	return f, nil
}

// PostingRequest is the intent to record one cash movement.
// The poster turns it into a balanced pair of ledger entries.
type PostingRequest struct {
	IdempotencyKey string          // optional; replays return the original journal
	Flow           FlowDirection   // IN debits cash, OUT credits cash
	Date           civil.Date      // calendar day of the movement
	Description    string          // free text
	Amount         decimal.Decimal // must be positive
	Category       Category        // picks the default counter-account
	AccountID      string          // optional counter-account override
}
