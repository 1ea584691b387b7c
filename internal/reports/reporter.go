package reports

import (
	"context"
	"fmt"

	"cloud.google.com/go/civil"
	"github.com/sirupsen/logrus"

	"github.com/sheikh-saqib/haulage-ledger/internal/interfaces"
)

// Reporter serves the read-side projections of the current ledger. Results
// are memoized under keys that embed the snapshot epoch and version, so a
// cached report always matches the entries it was computed from, even when
// several stores share one cache.
type Reporter struct {
	store  interfaces.LedgerStore
	cache  interfaces.ReportCache // optional
	logger *logrus.Logger
}

func NewReporter(store interfaces.LedgerStore, cache interfaces.ReportCache, logger *logrus.Logger) *Reporter {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &Reporter{
		store:  store,
		cache:  cache,
		logger: logger,
	}
}

// Bundle is every finance report computed from one snapshot.
type Bundle struct {
	Version        uint64         `json:"version"`
	AsOf           civil.Date     `json:"as_of"`
	Statement      Statement      `json:"statement"`
	GeneralJournal GeneralJournal `json:"general_journal"`
	BalanceSheet   BalanceSheet   `json:"balance_sheet"`
	ProfitLoss     []MonthBucket  `json:"profit_loss"`
}

func (r *Reporter) Statement(ctx context.Context) (Statement, error) {
	snap, err := r.store.Snapshot(ctx)
	if err != nil {
		return Statement{}, fmt.Errorf("statement: %w", err)
	}
	return memo(ctx, r, cacheKey("statement", snap), func() Statement {
		return BuildStatement(snap.Entries)
	}), nil
}

func (r *Reporter) GeneralJournal(ctx context.Context) (GeneralJournal, error) {
	snap, err := r.store.Snapshot(ctx)
	if err != nil {
		return GeneralJournal{}, fmt.Errorf("general journal: %w", err)
	}
	return memo(ctx, r, cacheKey("journal", snap), func() GeneralJournal {
		return BuildGeneralJournal(snap.Entries)
	}), nil
}

func (r *Reporter) BalanceSheet(ctx context.Context) (BalanceSheet, error) {
	snap, err := r.store.Snapshot(ctx)
	if err != nil {
		return BalanceSheet{}, fmt.Errorf("balance sheet: %w", err)
	}
	return memo(ctx, r, cacheKey("balance-sheet", snap), func() BalanceSheet {
		return Aggregate(snap.Entries)
	}), nil
}

func (r *Reporter) ProfitLoss(ctx context.Context, asOf civil.Date) ([]MonthBucket, error) {
	snap, err := r.store.Snapshot(ctx)
	if err != nil {
		return nil, fmt.Errorf("profit and loss: %w", err)
	}
	return memo(ctx, r, cacheKey("profit-loss", snap, asOf.String()), func() []MonthBucket {
		return Rollup(snap.Entries, asOf)
	}), nil
}

func (r *Reporter) Daily(ctx context.Context, asOf civil.Date, days int) ([]DayBucket, error) {
	snap, err := r.store.Snapshot(ctx)
	if err != nil {
		return nil, fmt.Errorf("daily rollup: %w", err)
	}
	key := cacheKey("daily", snap, asOf.String(), fmt.Sprint(days))
	return memo(ctx, r, key, func() []DayBucket {
		return DailyRollup(snap.Entries, asOf, days)
	}), nil
}

// Bundle computes all four finance reports from a single snapshot.
func (r *Reporter) Bundle(ctx context.Context, asOf civil.Date) (Bundle, error) {
	snap, err := r.store.Snapshot(ctx)
	if err != nil {
		return Bundle{}, fmt.Errorf("report bundle: %w", err)
	}
	return memo(ctx, r, cacheKey("bundle", snap, asOf.String()), func() Bundle {
		return Bundle{
			Version:        snap.Version,
			AsOf:           asOf,
			Statement:      BuildStatement(snap.Entries),
			GeneralJournal: BuildGeneralJournal(snap.Entries),
			BalanceSheet:   Aggregate(snap.Entries),
			ProfitLoss:     Rollup(snap.Entries, asOf),
		}
	}), nil
}

func cacheKey(report string, snap interfaces.Snapshot, params ...string) string {
	key := fmt.Sprintf("report:%s:%s:%d", report, snap.Epoch, snap.Version)
	for _, p := range params {
		key += ":" + p
	}
	return key
}

// memo returns the cached value for key or computes and stores it. Cache
// failures fall back to computing.
func memo[T any](ctx context.Context, r *Reporter, key string, compute func() T) T {
	if r.cache == nil {
		return compute()
	}

	var cached T
	hit, err := r.cache.Get(ctx, key, &cached)
	if err != nil {
		r.logger.WithField("key", key).WithError(err).Warn("report cache read failed")
	}
	if hit && err == nil {
		return cached
	}

	value := compute()
	if err := r.cache.Set(ctx, key, value); err != nil {
		r.logger.WithField("key", key).WithError(err).Warn("report cache write failed")
	}
	return value
}
