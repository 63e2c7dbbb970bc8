// Package report turns a user's transaction ledger into time-bucketed
// financial summaries: daily, weekly, monthly, and annual with a per-month
// breakdown.
package report

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"fintrack/internal/core"
)

const (
	Daily   PeriodKind = "daily"
	Weekly  PeriodKind = "weekly"
	Monthly PeriodKind = "monthly"
	Annual  PeriodKind = "annual"
)

var (
	// ErrInvalidPeriodAnchor marks a caller-supplied date, month or year
	// that cannot be parsed. A client error, never retried.
	ErrInvalidPeriodAnchor = errors.New("invalid period anchor")

	// ErrUnknownTransactionKind marks a stored record whose kind is neither
	// debit nor credit. The whole aggregation fails rather than miscount.
	ErrUnknownTransactionKind = errors.New("unknown transaction kind")

	// ErrReportUnavailable wraps store failures. Transient; callers may
	// retry.
	ErrReportUnavailable = errors.New("report unavailable")
)

type (
	PeriodKind string

	// Period is the resolved query window for one report request. Daily and
	// weekly periods carry a closed [Start, End] date range; monthly and
	// annual periods match by string prefix on the transaction date.
	Period struct {
		Kind   PeriodKind
		Start  string
		End    string
		Prefix string
		Label  string
	}
)

// ResolveDaily maps an optional YYYY-MM-DD anchor to a single-day period.
// An empty anchor means the day of now.
func ResolveDaily(anchor string, now time.Time) (Period, error) {
	day, err := anchorDate(anchor, now)
	if err != nil {
		return Period{}, err
	}
	d := day.Format(core.DateLayout)
	return Period{Kind: Daily, Start: d, End: d, Label: d}, nil
}

// ResolveWeekly maps an optional anchor to the Monday-to-Sunday window
// containing it. Sunday belongs to the week that started the preceding
// Monday.
func ResolveWeekly(anchor string, now time.Time) (Period, error) {
	day, err := anchorDate(anchor, now)
	if err != nil {
		return Period{}, err
	}
	dow := int(day.Weekday()) // Sunday = 0
	offset := 1 - dow
	if dow == 0 {
		offset = -6
	}
	start := day.AddDate(0, 0, offset)
	end := start.AddDate(0, 0, 6)
	s := start.Format(core.DateLayout)
	e := end.Format(core.DateLayout)
	return Period{Kind: Weekly, Start: s, End: e, Label: s + " to " + e}, nil
}

// ResolveMonthly maps an optional YYYY-MM anchor to a month period. The
// match is a string prefix on the transaction date, kept deliberately: a
// malformed date that happens to start with the prefix is still counted.
func ResolveMonthly(anchor string, now time.Time) (Period, error) {
	month := anchor
	if month == "" {
		month = now.Format("2006-01")
	} else if _, err := time.Parse("2006-01", month); err != nil {
		return Period{}, fmt.Errorf("%w: %q", ErrInvalidPeriodAnchor, anchor)
	}
	return Period{Kind: Monthly, Prefix: month, Label: month}, nil
}

// ResolveAnnual maps an optional four-digit year anchor to a year period
// (prefix match, like monthly).
func ResolveAnnual(anchor string, now time.Time) (Period, error) {
	year := anchor
	if year == "" {
		year = now.Format("2006")
	} else {
		y, err := strconv.Atoi(year)
		if err != nil || y < 1000 || y > 9999 {
			return Period{}, fmt.Errorf("%w: %q", ErrInvalidPeriodAnchor, anchor)
		}
	}
	return Period{Kind: Annual, Prefix: year, Label: year}, nil
}

func anchorDate(anchor string, now time.Time) (time.Time, error) {
	if anchor == "" {
		return now, nil
	}
	t, err := time.Parse(core.DateLayout, anchor)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidPeriodAnchor, anchor)
	}
	return t, nil
}
