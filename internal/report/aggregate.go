package report

import (
	"fmt"

	"fintrack/internal/core"
)

type (
	// Totals is a flat aggregate over a set of transactions. Balance is
	// always Credits - Debits, computed in integer cents.
	Totals struct {
		Credits core.Money `json:"totalCredits"`
		Debits  core.Money `json:"totalDebits"`
		Balance core.Money `json:"balance"`
	}

	// MonthBucket is one month's slice of an annual report.
	MonthBucket struct {
		Month string `json:"month"`
		Totals
		Transactions []core.Transaction `json:"transactions"`
	}
)

// AggregateFlat reduces transactions to credit/debit totals and the net
// balance. The input slice is not reordered; display order is the caller's
// concern. A transaction with an unknown kind fails the whole aggregation.
func AggregateFlat(txs []core.Transaction) (Totals, error) {
	var credits, debits int64
	for _, t := range txs {
		switch t.Kind {
		case core.Credit:
			credits += t.Amount.Cents
		case core.Debit:
			debits += t.Amount.Cents
		default:
			return Totals{}, fmt.Errorf("%w: %q (transaction %s)", ErrUnknownTransactionKind, t.Kind, t.ID)
		}
	}
	return Totals{
		Credits: core.Money{Cents: credits},
		Debits:  core.Money{Cents: debits},
		Balance: core.Money{Cents: credits - debits},
	}, nil
}

// AggregateAnnual partitions transactions by the YYYY-MM prefix of their
// date and computes per-month and grand totals. Every transaction lands in
// exactly one bucket. Buckets come back in first-occurrence order, which
// follows the input ordering; callers wanting chronological order sort the
// buckets themselves.
func AggregateAnnual(txs []core.Transaction) (Totals, []MonthBucket, error) {
	grand, err := AggregateFlat(txs)
	if err != nil {
		return Totals{}, nil, err
	}

	byMonth := make(map[string]int)
	var buckets []MonthBucket
	for _, t := range txs {
		key := monthKey(t.Date)
		i, ok := byMonth[key]
		if !ok {
			i = len(buckets)
			byMonth[key] = i
			buckets = append(buckets, MonthBucket{Month: key})
		}
		buckets[i].Transactions = append(buckets[i].Transactions, t)
	}

	for i := range buckets {
		totals, err := AggregateFlat(buckets[i].Transactions)
		if err != nil {
			return Totals{}, nil, err
		}
		buckets[i].Totals = totals
	}
	return grand, buckets, nil
}

// monthKey takes the first seven characters of a date string. Shorter
// (malformed) dates bucket under what is there, matching the prefix
// semantics of the queries that feed this.
func monthKey(date string) string {
	if len(date) < 7 {
		return date
	}
	return date[:7]
}
