package interfaces

import "context"

// ReportCache memoizes computed reports. Keys carry the snapshot version,
// so an entry can never outlive the ledger state it was computed from.
type ReportCache interface {
	Get(ctx context.Context, key string, dst any) (bool, error)
	Set(ctx context.Context, key string, value any) error
}
