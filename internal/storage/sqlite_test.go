package storage

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"fintrack/internal/core"
)

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	s, err := NewSQLiteStore(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func seedUser(t *testing.T, s *SQLiteStore, id string) {
	t.Helper()
	u := core.User{
		ID:           id,
		Email:        id + "@example.com",
		Name:         "Test " + id,
		PasswordHash: "x",
		CreatedAt:    time.Now().UTC(),
	}
	if err := s.CreateUser(context.Background(), u); err != nil {
		t.Fatalf("seed user: %v", err)
	}
}

func seedTx(t *testing.T, s *SQLiteStore, userID, id, date string, kind core.Kind, cents int64, createdAt time.Time) {
	t.Helper()
	err := s.CreateTransaction(context.Background(), core.Transaction{
		ID:            id,
		UserID:        userID,
		Kind:          kind,
		Amount:        core.Money{Cents: cents},
		Description:   "seed",
		PaymentMethod: core.DefaultPaymentMethod,
		Date:          date,
		CreatedAt:     createdAt,
	})
	if err != nil {
		t.Fatalf("seed transaction %s: %v", id, err)
	}
}

func TestTransactionCRUD(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	seedUser(t, s, "u1")
	seedTx(t, s, "u1", "t1", "2024-03-15", core.Debit, 500, time.Now().UTC())

	got, err := s.TransactionByID(ctx, "u1", "t1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Kind != core.Debit || got.Amount.Cents != 500 || got.Date != "2024-03-15" {
		t.Fatalf("got %+v", got)
	}
	if got.PaymentMethod != "cash" {
		t.Fatalf("payment method %q", got.PaymentMethod)
	}

	// Another user must not see or delete it.
	if _, err := s.TransactionByID(ctx, "u2", "t1"); !errors.Is(err, core.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if err := s.DeleteTransaction(ctx, "u2", "t1"); !errors.Is(err, core.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	if err := s.DeleteTransaction(ctx, "u1", "t1"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := s.TransactionByID(ctx, "u1", "t1"); !errors.Is(err, core.ErrNotFound) {
		t.Fatalf("expected ErrNotFound after delete, got %v", err)
	}
}

func TestTransactionsByDateOrder(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	seedUser(t, s, "u1")

	base := time.Date(2024, 3, 20, 8, 0, 0, 0, time.UTC)
	seedTx(t, s, "u1", "first", "2024-03-20", core.Credit, 100, base)
	seedTx(t, s, "u1", "second", "2024-03-20", core.Debit, 200, base.Add(time.Hour))
	seedTx(t, s, "u1", "other-day", "2024-03-21", core.Credit, 300, base)

	got, err := s.TransactionsByDate(ctx, "u1", "2024-03-20")
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("got %d rows, want 2", len(got))
	}
	if got[0].ID != "second" || got[1].ID != "first" {
		t.Fatalf("expected newest insertion first, got %s then %s", got[0].ID, got[1].ID)
	}
}

func TestTransactionsByRange(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	seedUser(t, s, "u1")

	now := time.Now().UTC()
	seedTx(t, s, "u1", "mon", "2024-01-01", core.Credit, 1, now)
	seedTx(t, s, "u1", "sun", "2024-01-07", core.Credit, 2, now)
	seedTx(t, s, "u1", "next", "2024-01-08", core.Credit, 3, now)

	got, err := s.TransactionsByRange(ctx, "u1", "2024-01-01", "2024-01-07")
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("got %d rows, want 2", len(got))
	}
	if got[0].ID != "sun" || got[1].ID != "mon" {
		t.Fatalf("expected date descending, got %s then %s", got[0].ID, got[1].ID)
	}
}

func TestTransactionsByPrefix(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	seedUser(t, s, "u1")
	seedUser(t, s, "u2")

	now := time.Now().UTC()
	seedTx(t, s, "u1", "march", "2024-03-15", core.Credit, 1, now)
	seedTx(t, s, "u1", "april", "2024-04-01", core.Credit, 2, now)
	seedTx(t, s, "u2", "other-user", "2024-03-10", core.Credit, 3, now)

	got, err := s.TransactionsByPrefix(ctx, "u1", "2024-03")
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	if len(got) != 1 || got[0].ID != "march" {
		t.Fatalf("got %+v", got)
	}

	got, err = s.TransactionsByPrefix(ctx, "u1", "2024")
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("annual prefix: got %d rows, want 2", len(got))
	}
}

func TestUserLifecycle(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	seedUser(t, s, "u1")

	u, err := s.UserByEmail(ctx, "u1@example.com")
	if err != nil {
		t.Fatalf("by email: %v", err)
	}
	if u.Verified {
		t.Fatalf("new user should be unverified")
	}

	if err := s.MarkVerified(ctx, u.ID); err != nil {
		t.Fatalf("mark verified: %v", err)
	}
	u, err = s.UserByID(ctx, "u1")
	if err != nil {
		t.Fatalf("by id: %v", err)
	}
	if !u.Verified {
		t.Fatalf("expected verified user")
	}

	if err := s.UpdatePassword(ctx, "u1", "new-hash"); err != nil {
		t.Fatalf("update password: %v", err)
	}
	u, err = s.UserByID(ctx, "u1")
	if err != nil {
		t.Fatalf("by id: %v", err)
	}
	if u.PasswordHash != "new-hash" {
		t.Fatalf("password hash = %q", u.PasswordHash)
	}
	if err := s.UpdatePassword(ctx, "ghost", "x"); !errors.Is(err, core.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	if _, err := s.UserByEmail(ctx, "nobody@example.com"); !errors.Is(err, core.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	seedUser(t, s, "u2")
	verified, err := s.VerifiedUsers(ctx)
	if err != nil {
		t.Fatalf("verified users: %v", err)
	}
	if len(verified) != 1 || verified[0].ID != "u1" {
		t.Fatalf("verified users = %+v, want only u1", verified)
	}
}

func TestOTPFlow(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	if err := s.SaveOTP(ctx, "a@b.c", "123456", time.Now().Add(time.Minute)); err != nil {
		t.Fatalf("save: %v", err)
	}

	ok, err := s.ConsumeOTP(ctx, "a@b.c", "000000")
	if err != nil || ok {
		t.Fatalf("wrong code should not consume: %v %v", ok, err)
	}
	ok, err = s.ConsumeOTP(ctx, "a@b.c", "123456")
	if err != nil || !ok {
		t.Fatalf("expected consume: %v %v", ok, err)
	}
	// A code is single use.
	ok, _ = s.ConsumeOTP(ctx, "a@b.c", "123456")
	if ok {
		t.Fatalf("code consumed twice")
	}

	if err := s.SaveOTP(ctx, "a@b.c", "999999", time.Now().Add(-time.Minute)); err != nil {
		t.Fatalf("save expired: %v", err)
	}
	if ok, _ := s.ConsumeOTP(ctx, "a@b.c", "999999"); ok {
		t.Fatalf("expired code must not verify")
	}
	n, err := s.PurgeExpiredOTPs(ctx)
	if err != nil {
		t.Fatalf("purge: %v", err)
	}
	if n != 1 {
		t.Fatalf("purged %d, want 1", n)
	}
}
