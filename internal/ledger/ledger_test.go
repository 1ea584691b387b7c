package ledger

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"cloud.google.com/go/civil"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sheikh-saqib/haulage-ledger/internal/models"
	"github.com/sheikh-saqib/haulage-ledger/internal/models/events"
	"github.com/sheikh-saqib/haulage-ledger/internal/storage/memory"
)

type recordingPublisher struct {
	mu     sync.Mutex
	topics []string
	events []any
	err    error
}

func (p *recordingPublisher) Publish(_ context.Context, topic string, event any) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.topics = append(p.topics, topic)
	p.events = append(p.events, event)
	return p.err
}

// blockingPublisher holds its first Publish call until release is closed.
type blockingPublisher struct {
	calls   int32
	entered chan struct{}
	release chan struct{}
}

func (p *blockingPublisher) Publish(ctx context.Context, _ string, _ any) error {
	if atomic.AddInt32(&p.calls, 1) == 1 {
		close(p.entered)
		select {
		case <-p.release:
		case <-ctx.Done():
		}
	}
	return nil
}

func quietLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(&bytes.Buffer{})
	return logger
}

func newTestLedger(opts ...Option) (*Ledger, *memory.MemoryLedgerStore) {
	store := memory.NewMemoryLedgerStore()
	opts = append([]Option{WithLogger(quietLogger())}, opts...)
	return NewLedger(store, opts...), store
}

var march1 = civil.Date{Year: 2024, Month: time.March, Day: 1}

func request(flow models.FlowDirection, category models.Category, amount int64) models.PostingRequest {
	return models.PostingRequest{
		Flow:        flow,
		Date:        march1,
		Description: "test posting",
		Amount:      decimal.NewFromInt(amount),
		Category:    category,
	}
}

func TestPostJournal_InDebitsCash(t *testing.T) {
	l, _ := newTestLedger()

	journal, err := l.PostJournal(context.Background(), request(models.FlowIn, models.CategoryInvoice, 5000000))
	require.NoError(t, err)
	require.Len(t, journal.Entries, 2)

	debit, credit := journal.Entries[0], journal.Entries[1]
	assert.Equal(t, CashAccountID, debit.AccountID)
	assert.Equal(t, models.AccountTypeAsset, debit.AccountType)
	assert.Equal(t, models.CategoryCapital, debit.Category)
	assert.True(t, debit.Debit.Equal(decimal.NewFromInt(5000000)))
	assert.True(t, debit.Credit.IsZero())

	assert.Equal(t, "PIUTANG USAHA", credit.AccountID)
	assert.Equal(t, models.AccountTypeRevenue, credit.AccountType)
	assert.Equal(t, models.CategoryInvoice, credit.Category)
	assert.True(t, credit.Credit.Equal(decimal.NewFromInt(5000000)))

	assert.Equal(t, journal.ID, debit.JournalID)
	assert.Equal(t, journal.ID, credit.JournalID)
	assert.Regexp(t, `^JV-[0-9A-Z]{26}$`, journal.ID)
	assert.Equal(t, "TEST POSTING", debit.Description)
	assert.NotEqual(t, debit.ID, credit.ID)
}

func TestPostJournal_OutCreditsCash(t *testing.T) {
	l, _ := newTestLedger()

	journal, err := l.PostJournal(context.Background(), request(models.FlowOut, models.CategoryFuel, 750000))
	require.NoError(t, err)

	debit, credit := journal.Entries[0], journal.Entries[1]
	assert.Equal(t, "BEBAN BBM", debit.AccountID)
	assert.Equal(t, models.AccountTypeExpense, debit.AccountType)
	assert.True(t, debit.Debit.Equal(decimal.NewFromInt(750000)))

	assert.Equal(t, CashAccountID, credit.AccountID)
	assert.True(t, credit.Credit.Equal(decimal.NewFromInt(750000)))
}

func TestPostJournal_OverrideIsUpperCased(t *testing.T) {
	l, _ := newTestLedger()

	req := request(models.FlowOut, models.CategoryFuel, 100)
	req.AccountID = "  spbu pertamina "
	journal, err := l.PostJournal(context.Background(), req)
	require.NoError(t, err)

	assert.Equal(t, "SPBU PERTAMINA", journal.Entries[0].AccountID)
	assert.Equal(t, models.AccountTypeExpense, journal.Entries[0].AccountType)
}

func TestPostJournal_RejectsInvalidRequests(t *testing.T) {
	cases := []struct {
		name    string
		mutate  func(*models.PostingRequest)
		wantErr error
	}{
		{"zero amount", func(r *models.PostingRequest) { r.Amount = decimal.Zero }, ErrInvalidAmount},
		{"sub-cent amount", func(r *models.PostingRequest) { r.Amount = decimal.RequireFromString("0.001") }, ErrInvalidAmount},
		{"three decimals", func(r *models.PostingRequest) { r.Amount = decimal.RequireFromString("10.126") }, ErrInvalidAmount},
		{"negative amount", func(r *models.PostingRequest) { r.Amount = decimal.NewFromInt(-10) }, ErrInvalidAmount},
		{"bad flow", func(r *models.PostingRequest) { r.Flow = "SIDEWAYS" }, ErrInvalidFlow},
		{"unknown category", func(r *models.PostingRequest) { r.Category = "LOTTERY" }, ErrUnknownCategory},
		{"invalid date", func(r *models.PostingRequest) { r.Date = civil.Date{Year: 2024, Month: 2, Day: 30} }, ErrInvalidDate},
		{"cash override", func(r *models.PostingRequest) { r.AccountID = "kas & bank" }, ErrReservedAccount},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			l, store := newTestLedger()
			req := request(models.FlowOut, models.CategoryFuel, 100)
			tc.mutate(&req)

			_, err := l.PostJournal(context.Background(), req)
			require.ErrorIs(t, err, tc.wantErr)
			assert.True(t, IsValidation(err))

			snap, err := store.Snapshot(context.Background())
			require.NoError(t, err)
			assert.Empty(t, snap.Entries)
		})
	}
}

func TestPostJournal_IdempotencyKeyReplaysJournal(t *testing.T) {
	l, store := newTestLedger()
	ctx := context.Background()

	req := request(models.FlowIn, models.CategoryCapital, 1000)
	req.IdempotencyKey = "form-42"

	first, err := l.PostJournal(ctx, req)
	require.NoError(t, err)
	second, err := l.PostJournal(ctx, req)
	require.NoError(t, err)

	assert.Equal(t, first.ID, second.ID)
	snap, err := store.Snapshot(ctx)
	require.NoError(t, err)
	assert.Len(t, snap.Entries, 2)
}

func TestPostJournal_KeepsLedgerBalanced(t *testing.T) {
	l, store := newTestLedger()
	ctx := context.Background()

	for i, category := range models.Categories {
		flow := models.FlowOut
		if i%2 == 0 {
			flow = models.FlowIn
		}
		_, err := l.PostJournal(ctx, request(flow, category, int64(1000*(i+1))))
		require.NoError(t, err, "category %s", category)
	}

	snap, err := store.Snapshot(ctx)
	require.NoError(t, err)
	require.Len(t, snap.Entries, 2*len(models.Categories))

	debit, credit := decimal.Zero, decimal.Zero
	for _, e := range snap.Entries {
		require.NoError(t, e.Validate())
		debit = debit.Add(e.Debit)
		credit = credit.Add(e.Credit)
	}
	assert.True(t, debit.Equal(credit), "debit %s credit %s", debit, credit)
}

func TestPostJournal_ConcurrentPostsAreAllRecorded(t *testing.T) {
	l, store := newTestLedger()
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			req := request(models.FlowIn, models.CategoryInvoice, 100)
			req.IdempotencyKey = fmt.Sprintf("key-%d", i%10)
			_, err := l.PostJournal(ctx, req)
			assert.NoError(t, err)
		}(i)
	}
	wg.Wait()

	snap, err := store.Snapshot(ctx)
	require.NoError(t, err)
	assert.Len(t, snap.Entries, 20)
}

func TestPostJournal_PublishesEvent(t *testing.T) {
	pub := &recordingPublisher{}
	l, _ := newTestLedger(WithPublisher(pub, "ledger.journals"))

	journal, err := l.PostJournal(context.Background(), request(models.FlowOut, models.CategoryPayroll, 300))
	require.NoError(t, err)

	require.Len(t, pub.events, 1)
	assert.Equal(t, "ledger.journals", pub.topics[0])
	event, ok := pub.events[0].(events.JournalPosted)
	require.True(t, ok)
	assert.Equal(t, journal.ID, event.JournalID)
	assert.Equal(t, "BEBAN GAJI", event.DebitAccount)
	assert.Equal(t, CashAccountID, event.CreditAccount)
	assert.Equal(t, journal.ID, event.PartitionKey())
}

func TestPostJournal_PublisherFailureKeepsJournal(t *testing.T) {
	pub := &recordingPublisher{err: errors.New("broker down")}
	l, store := newTestLedger(WithPublisher(pub, ""))

	_, err := l.PostJournal(context.Background(), request(models.FlowOut, models.CategoryPayroll, 300))
	require.NoError(t, err)

	assert.Equal(t, DefaultTopic, pub.topics[0])
	snap, err := store.Snapshot(context.Background())
	require.NoError(t, err)
	assert.Len(t, snap.Entries, 2)
}

func TestPostJournal_AcceptsCents(t *testing.T) {
	l, _ := newTestLedger()

	req := request(models.FlowIn, models.CategoryInvoice, 0)
	req.Amount = decimal.RequireFromString("10.500")
	journal, err := l.PostJournal(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, "10.5", journal.Entries[0].Debit.String())
}

func TestPostJournal_SlowPublisherDoesNotBlockPosts(t *testing.T) {
	pub := &blockingPublisher{entered: make(chan struct{}), release: make(chan struct{})}
	l, store := newTestLedger(WithPublisher(pub, ""))
	ctx := context.Background()

	firstDone := make(chan error, 1)
	go func() {
		_, err := l.PostJournal(ctx, request(models.FlowIn, models.CategoryInvoice, 100))
		firstDone <- err
	}()
	<-pub.entered

	secondDone := make(chan error, 1)
	go func() {
		_, err := l.PostJournal(ctx, request(models.FlowOut, models.CategoryFuel, 40))
		secondDone <- err
	}()

	select {
	case err := <-secondDone:
		require.NoError(t, err)
	case <-time.After(2 * time.Second):
		close(pub.release)
		t.Fatal("second post waited for the first post's publish")
	}

	close(pub.release)
	require.NoError(t, <-firstDone)

	snap, err := store.Snapshot(ctx)
	require.NoError(t, err)
	assert.Len(t, snap.Entries, 4)
}

func TestPostJournal_UsesClock(t *testing.T) {
	at := time.Date(2024, time.March, 1, 8, 30, 0, 0, time.UTC)
	l, _ := newTestLedger(WithClock(func() time.Time { return at }))

	journal, err := l.PostJournal(context.Background(), request(models.FlowIn, models.CategoryInvoice, 1))
	require.NoError(t, err)
	assert.True(t, journal.PostedAt.Equal(at))
}

func TestGetBalance(t *testing.T) {
	l, _ := newTestLedger()
	ctx := context.Background()

	_, err := l.PostJournal(ctx, request(models.FlowIn, models.CategoryCapital, 1000))
	require.NoError(t, err)
	_, err = l.PostJournal(ctx, request(models.FlowOut, models.CategoryFuel, 300))
	require.NoError(t, err)

	cash, err := l.GetBalance(ctx, "kas & bank")
	require.NoError(t, err)
	assert.Equal(t, "700", cash.String())

	fuel, err := l.GetBalance(ctx, "BEBAN BBM")
	require.NoError(t, err)
	assert.Equal(t, "300", fuel.String())

	capital, err := l.GetBalance(ctx, "MODAL DISETOR")
	require.NoError(t, err)
	assert.Equal(t, "1000", capital.String())

	unknown, err := l.GetBalance(ctx, "NOBODY")
	require.NoError(t, err)
	assert.True(t, unknown.IsZero())
}

func TestGetLedgerEntries_InsertionOrder(t *testing.T) {
	l, _ := newTestLedger()
	ctx := context.Background()

	first, err := l.PostJournal(ctx, request(models.FlowIn, models.CategoryCapital, 1000))
	require.NoError(t, err)
	second, err := l.PostJournal(ctx, request(models.FlowOut, models.CategoryFuel, 300))
	require.NoError(t, err)

	entries, err := l.GetLedgerEntries(ctx)
	require.NoError(t, err)
	require.Len(t, entries, 4)
	assert.Equal(t, first.ID, entries[0].JournalID)
	assert.Equal(t, first.ID, entries[1].JournalID)
	assert.Equal(t, second.ID, entries[2].JournalID)
	assert.Equal(t, second.ID, entries[3].JournalID)
}
