package ledger

import "errors"

var (
	ErrInvalidAmount     = errors.New("amount must be positive")
	ErrInvalidFlow       = errors.New("flow must be IN or OUT")
	ErrUnknownCategory   = errors.New("unknown category")
	ErrInvalidDate       = errors.New("invalid posting date")
	ErrReservedAccount   = errors.New("cash account cannot be used as counter-account")
	ErrUnbalancedJournal = errors.New("journal is not balanced")
)

// IsValidation reports whether err is a rejected posting request rather
// than a storage failure.
func IsValidation(err error) bool {
	return errors.Is(err, ErrInvalidAmount) ||
		errors.Is(err, ErrInvalidFlow) ||
		errors.Is(err, ErrUnknownCategory) ||
		errors.Is(err, ErrInvalidDate) ||
		errors.Is(err, ErrReservedAccount)
}
