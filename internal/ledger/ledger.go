package ledger

import (
	"context"
	"crypto/rand"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/oklog/ulid/v2"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/sheikh-saqib/haulage-ledger/internal/interfaces"
	"github.com/sheikh-saqib/haulage-ledger/internal/models"
	"github.com/sheikh-saqib/haulage-ledger/internal/models/events"
)

// DefaultTopic is where JournalPosted events go when no topic is configured.
const DefaultTopic = "journal_posted"

// AmountScale is the number of decimal places an amount may carry.
const AmountScale = 2

// Ledger is the only writer of ledger entries. It turns posting requests
// into balanced journals and appends them to the store.
type Ledger struct {
	store     interfaces.LedgerStore
	publisher interfaces.EventPublisher // optional
	topic     string
	logger    *logrus.Logger
	now       func() time.Time

	// mu serializes posts; every journal touches the cash account.
	mu      sync.Mutex
	entropy io.Reader
}

type Option func(*Ledger)

// WithPublisher sends a JournalPosted event for every new journal.
func WithPublisher(p interfaces.EventPublisher, topic string) Option {
	return func(l *Ledger) {
		l.publisher = p
		if topic != "" {
			l.topic = topic
		}
	}
}

func WithLogger(logger *logrus.Logger) Option {
	return func(l *Ledger) { l.logger = logger }
}

// WithClock overrides the time source used for journal ids and PostedAt.
func WithClock(now func() time.Time) Option {
	return func(l *Ledger) { l.now = now }
}

// NewLedger creates a Ledger on top of any LedgerStore implementation.
func NewLedger(store interfaces.LedgerStore, opts ...Option) *Ledger {
	l := &Ledger{
		store:   store,
		topic:   DefaultTopic,
		logger:  logrus.StandardLogger(),
		now:     time.Now,
		entropy: ulid.Monotonic(rand.Reader, 0),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// PostJournal validates req and appends two balanced legs: the cash account
// on one side and the counter-account on the other. IN debits cash, OUT
// credits it. Nothing is appended when validation fails. The event is
// published after the poster lock is released.
func (l *Ledger) PostJournal(ctx context.Context, req models.PostingRequest) (models.Journal, error) {
	mapping, err := l.validate(req)
	if err != nil {
		l.logger.WithFields(logrus.Fields{
			"flow":     req.Flow,
			"category": req.Category,
			"amount":   req.Amount.String(),
		}).WithError(err).Warn("posting rejected")
		return models.Journal{}, err
	}

	counterAccount := mapping.Account
	if override := normalize(req.AccountID); override != "" {
		if override == CashAccountID {
			return models.Journal{}, fmt.Errorf("account %q: %w", override, ErrReservedAccount)
		}
		counterAccount = override
	}

	journal, replayed, err := l.appendLocked(ctx, req, mapping, counterAccount)
	if err != nil {
		return models.Journal{}, err
	}
	if replayed {
		return journal, nil
	}

	l.logger.WithFields(logrus.Fields{
		"journal_id": journal.ID,
		"flow":       req.Flow,
		"category":   req.Category,
		"account":    counterAccount,
		"amount":     req.Amount.String(),
	}).Info("journal posted")

	l.publish(ctx, req, journal)
	return journal, nil
}

// appendLocked builds and appends the journal under the poster lock. It
// reports replayed when the idempotency key already names a journal.
func (l *Ledger) appendLocked(ctx context.Context, req models.PostingRequest, mapping AccountMapping, counterAccount string) (journal models.Journal, replayed bool, err error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if req.IdempotencyKey != "" {
		existing, ok, err := l.store.JournalByIdempotencyKey(ctx, req.IdempotencyKey)
		if err != nil {
			return models.Journal{}, false, fmt.Errorf("check idempotency key: %w", err)
		}
		if ok {
			return existing, true, nil
		}
	}

	postedAt := l.now()
	journalID := "JV-" + ulid.MustNew(ulid.Timestamp(postedAt), l.entropy).String()
	description := normalize(req.Description)

	cash := models.LedgerEntry{
		ID:          uuid.NewString(),
		Date:        req.Date,
		Description: description,
		Debit:       decimal.Zero,
		Credit:      decimal.Zero,
		AccountID:   CashAccountID,
		AccountType: models.AccountTypeAsset,
		Category:    models.CategoryCapital,
		JournalID:   journalID,
	}
	counter := models.LedgerEntry{
		ID:          uuid.NewString(),
		Date:        req.Date,
		Description: description,
		Debit:       decimal.Zero,
		Credit:      decimal.Zero,
		AccountID:   counterAccount,
		AccountType: mapping.Type,
		Category:    req.Category,
		JournalID:   journalID,
	}

	// debit leg first, credit leg second
	var entries []models.LedgerEntry
	if req.Flow == models.FlowIn {
		cash.Debit = req.Amount
		counter.Credit = req.Amount
		entries = []models.LedgerEntry{cash, counter}
	} else {
		counter.Debit = req.Amount
		cash.Credit = req.Amount
		entries = []models.LedgerEntry{counter, cash}
	}

	journal = models.Journal{
		ID:             journalID,
		IdempotencyKey: req.IdempotencyKey,
		Entries:        entries,
		PostedAt:       postedAt,
	}
	if err := journal.Validate(); err != nil {
		return models.Journal{}, false, fmt.Errorf("%w: %v", ErrUnbalancedJournal, err)
	}

	if err := l.store.AppendJournal(ctx, journal); err != nil {
		if req.IdempotencyKey != "" {
			if existing, ok, lookupErr := l.store.JournalByIdempotencyKey(ctx, req.IdempotencyKey); lookupErr == nil && ok {
				return existing, true, nil
			}
		}
		return models.Journal{}, false, fmt.Errorf("append journal %s: %w", journalID, err)
	}
	return journal, false, nil
}

func (l *Ledger) validate(req models.PostingRequest) (AccountMapping, error) {
	if !req.Flow.Valid() {
		return AccountMapping{}, fmt.Errorf("flow %q: %w", req.Flow, ErrInvalidFlow)
	}
	if !req.Amount.IsPositive() {
		return AccountMapping{}, fmt.Errorf("amount %s: %w", req.Amount, ErrInvalidAmount)
	}
	if !req.Amount.Equal(req.Amount.Round(AmountScale)) {
		return AccountMapping{}, fmt.Errorf("amount %s has more than %d decimal places: %w", req.Amount, AmountScale, ErrInvalidAmount)
	}
	if !req.Date.IsValid() {
		return AccountMapping{}, fmt.Errorf("date %s: %w", req.Date, ErrInvalidDate)
	}
	mapping, ok := LookupCategory(req.Category)
	if !ok {
		return AccountMapping{}, fmt.Errorf("category %q: %w", req.Category, ErrUnknownCategory)
	}
	return mapping, nil
}

// publish is best effort. Failures are logged and never undo the post.
func (l *Ledger) publish(ctx context.Context, req models.PostingRequest, journal models.Journal) {
	if l.publisher == nil {
		return
	}
	event := events.JournalPosted{
		JournalID:     journal.ID,
		Flow:          string(req.Flow),
		Category:      string(req.Category),
		DebitAccount:  journal.Entries[0].AccountID,
		CreditAccount: journal.Entries[1].AccountID,
		Amount:        req.Amount,
		Date:          req.Date,
		OccurredAt:    journal.PostedAt,
	}
	if err := l.publisher.Publish(ctx, l.topic, event); err != nil {
		l.logger.WithFields(logrus.Fields{
			"journal_id": journal.ID,
			"topic":      l.topic,
		}).WithError(err).Error("publish journal event")
	}
}

// GetBalance folds every entry on the account using the sign convention of
// each leg's account type.
func (l *Ledger) GetBalance(ctx context.Context, accountID string) (decimal.Decimal, error) {
	ledgerEntries, err := l.store.GetEntriesByAccount(ctx, normalize(accountID))
	if err != nil {
		return decimal.Zero, err
	}

	balance := decimal.Zero
	for _, entry := range ledgerEntries {
		if entry.AccountType.DebitNormal() {
			balance = balance.Add(entry.Net())
		} else {
			balance = balance.Sub(entry.Net())
		}
	}
	return balance, nil
}

func (l *Ledger) GetLedgerEntries(ctx context.Context) ([]models.LedgerEntry, error) {
	snapshot, err := l.store.Snapshot(ctx)
	if err != nil {
		return []models.LedgerEntry{}, err
	}
	return snapshot.Entries, nil
}

func normalize(s string) string {
	return strings.ToUpper(strings.TrimSpace(s))
}
