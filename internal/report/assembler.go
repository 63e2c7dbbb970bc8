package report

import (
	"context"
	"fmt"
	"sort"
	"time"

	"fintrack/internal/core"
)

type (
	// Store is the slice of the transaction store the assembler consumes.
	Store interface {
		TransactionsByDate(ctx context.Context, userID, date string) ([]core.Transaction, error)
		TransactionsByRange(ctx context.Context, userID, start, end string) ([]core.Transaction, error)
		TransactionsByPrefix(ctx context.Context, userID, prefix string) ([]core.Transaction, error)
	}

	// Report is the boundary artifact handed to serialization and export
	// collaborators. Renderers format what is here; they never recompute
	// totals. Annual reports carry Months instead of the flat Transactions
	// list.
	Report struct {
		Kind  PeriodKind
		Label string
		Totals
		Transactions []core.Transaction
		Months       []MonthBucket
	}

	// Assembler resolves the period, queries the store and aggregates.
	// It is stateless per invocation; concurrent use is fine.
	Assembler struct {
		store Store
		now   func() time.Time
	}
)

// Option configures an Assembler.
type Option func(*Assembler)

// WithClock overrides the "today" reference used when a request omits its
// anchor. Tests pin it; production uses time.Now.
func WithClock(now func() time.Time) Option {
	return func(a *Assembler) { a.now = now }
}

func NewAssembler(store Store, opts ...Option) *Assembler {
	a := &Assembler{store: store, now: time.Now}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Daily builds a one-day report. Same-day entries come back in insertion
// order (newest first), the store's tie-break for a single date.
func (a *Assembler) Daily(ctx context.Context, userID, anchor string) (*Report, error) {
	p, err := ResolveDaily(anchor, a.now())
	if err != nil {
		return nil, err
	}
	txs, err := a.store.TransactionsByDate(ctx, userID, p.Start)
	if err != nil {
		return nil, unavailable(err)
	}
	return flatReport(p, txs)
}

// Weekly builds a Monday-to-Sunday report around the anchor.
func (a *Assembler) Weekly(ctx context.Context, userID, anchor string) (*Report, error) {
	p, err := ResolveWeekly(anchor, a.now())
	if err != nil {
		return nil, err
	}
	txs, err := a.store.TransactionsByRange(ctx, userID, p.Start, p.End)
	if err != nil {
		return nil, unavailable(err)
	}
	return flatReport(p, txs)
}

// Monthly builds a report for one YYYY-MM prefix.
func (a *Assembler) Monthly(ctx context.Context, userID, anchor string) (*Report, error) {
	p, err := ResolveMonthly(anchor, a.now())
	if err != nil {
		return nil, err
	}
	txs, err := a.store.TransactionsByPrefix(ctx, userID, p.Prefix)
	if err != nil {
		return nil, unavailable(err)
	}
	return flatReport(p, txs)
}

// Annual builds a year report with a per-month breakdown. Month buckets are
// emitted in ascending chronological order regardless of how the store
// ordered its rows.
func (a *Assembler) Annual(ctx context.Context, userID, anchor string) (*Report, error) {
	p, err := ResolveAnnual(anchor, a.now())
	if err != nil {
		return nil, err
	}
	txs, err := a.store.TransactionsByPrefix(ctx, userID, p.Prefix)
	if err != nil {
		return nil, unavailable(err)
	}
	totals, months, err := AggregateAnnual(txs)
	if err != nil {
		return nil, err
	}
	sort.Slice(months, func(i, j int) bool { return months[i].Month < months[j].Month })
	return &Report{Kind: p.Kind, Label: p.Label, Totals: totals, Months: months}, nil
}

func flatReport(p Period, txs []core.Transaction) (*Report, error) {
	totals, err := AggregateFlat(txs)
	if err != nil {
		return nil, err
	}
	return &Report{Kind: p.Kind, Label: p.Label, Totals: totals, Transactions: txs}, nil
}

func unavailable(err error) error {
	return fmt.Errorf("%w: %v", ErrReportUnavailable, err)
}
