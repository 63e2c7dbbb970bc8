package core

import (
	"context"
	"errors"
	"time"
)

// ErrNotFound is returned by stores when a record does not exist or does
// not belong to the requesting user.
var ErrNotFound = errors.New("not found")

// Ports for the persistence backends. Both the embedded SQLite store and
// the Postgres store implement all three; business logic only ever sees
// these interfaces.
type (
	// TransactionStore persists ledger entries and answers the period
	// queries the report assembler needs. Result ordering is part of the
	// contract: the by-date query orders by insertion time (newest first,
	// the same-day tie-break), every other query orders by date descending.
	TransactionStore interface {
		CreateTransaction(ctx context.Context, t Transaction) error
		TransactionsByUser(ctx context.Context, userID string) ([]Transaction, error)
		TransactionByID(ctx context.Context, userID, id string) (Transaction, error)
		DeleteTransaction(ctx context.Context, userID, id string) error

		// TransactionsByDate returns entries for one exact date, newest
		// insertion first.
		TransactionsByDate(ctx context.Context, userID, date string) ([]Transaction, error)
		// TransactionsByRange returns entries with start <= date <= end,
		// date descending.
		TransactionsByRange(ctx context.Context, userID, start, end string) ([]Transaction, error)
		// TransactionsByPrefix returns entries whose date string begins
		// with prefix, date descending. This is a deliberate string-prefix
		// match, not a calendar range.
		TransactionsByPrefix(ctx context.Context, userID, prefix string) ([]Transaction, error)
	}

	UserStore interface {
		CreateUser(ctx context.Context, u User) error
		UserByEmail(ctx context.Context, email string) (User, error)
		UserByID(ctx context.Context, id string) (User, error)
		MarkVerified(ctx context.Context, userID string) error
		// UpdatePassword replaces the stored password hash. Used when an
		// unverified signup is retried with new credentials.
		UpdatePassword(ctx context.Context, userID, passwordHash string) error
		// VerifiedUsers lists accounts eligible for scheduled report
		// snapshots.
		VerifiedUsers(ctx context.Context) ([]User, error)
	}

	// OTPStore holds short-lived email verification codes.
	OTPStore interface {
		SaveOTP(ctx context.Context, email, code string, expiresAt time.Time) error
		// ConsumeOTP deletes and returns true when a non-expired code
		// matches.
		ConsumeOTP(ctx context.Context, email, code string) (bool, error)
		PurgeExpiredOTPs(ctx context.Context) (int64, error)
	}

	// Store is the full backend surface the factory hands out.
	Store interface {
		TransactionStore
		UserStore
		OTPStore
	}
)
