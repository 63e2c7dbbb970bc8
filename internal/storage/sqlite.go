// Package storage provides the embedded SQLite persistence backend.
package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"fintrack/internal/core"

	_ "modernc.org/sqlite"
)

// SQLiteStore implements core.Store on the embedded database. The zero
// value is not usable; construct via NewSQLiteStore.
type SQLiteStore struct {
	db *sql.DB
}

var _ core.Store = (*SQLiteStore)(nil)

func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

func (s *SQLiteStore) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

const txColumns = "id, user_id, type, amount_cents, description, category, payment_method, date, created_at"

func (s *SQLiteStore) CreateTransaction(ctx context.Context, t core.Transaction) error {
	_, err := s.db.ExecContext(ctx,
		"INSERT INTO transactions ("+txColumns+") VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)",
		t.ID, t.UserID, string(t.Kind), t.Amount.Cents, t.Description,
		nullable(t.Category), t.PaymentMethod, t.Date, t.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert transaction: %w", err)
	}

	slog.InfoContext(ctx, "Transaction saved",
		"id", t.ID,
		"user_id", t.UserID,
		"type", string(t.Kind),
		"amount_cents", t.Amount.Cents,
		"date", t.Date)
	return nil
}

func (s *SQLiteStore) TransactionsByUser(ctx context.Context, userID string) ([]core.Transaction, error) {
	return s.queryTransactions(ctx,
		"SELECT "+txColumns+" FROM transactions WHERE user_id = ? ORDER BY date DESC",
		userID)
}

func (s *SQLiteStore) TransactionByID(ctx context.Context, userID, id string) (core.Transaction, error) {
	row := s.db.QueryRowContext(ctx,
		"SELECT "+txColumns+" FROM transactions WHERE id = ? AND user_id = ?",
		id, userID)
	t, err := scanTransaction(row)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Transaction{}, core.ErrNotFound
	}
	if err != nil {
		return core.Transaction{}, fmt.Errorf("get transaction: %w", err)
	}
	return t, nil
}

func (s *SQLiteStore) DeleteTransaction(ctx context.Context, userID, id string) error {
	res, err := s.db.ExecContext(ctx,
		"DELETE FROM transactions WHERE id = ? AND user_id = ?", id, userID)
	if err != nil {
		return fmt.Errorf("delete transaction: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete transaction: %w", err)
	}
	if n == 0 {
		return core.ErrNotFound
	}
	return nil
}

func (s *SQLiteStore) TransactionsByDate(ctx context.Context, userID, date string) ([]core.Transaction, error) {
	return s.queryTransactions(ctx,
		"SELECT "+txColumns+" FROM transactions WHERE user_id = ? AND date = ? ORDER BY created_at DESC",
		userID, date)
}

func (s *SQLiteStore) TransactionsByRange(ctx context.Context, userID, start, end string) ([]core.Transaction, error) {
	return s.queryTransactions(ctx,
		"SELECT "+txColumns+" FROM transactions WHERE user_id = ? AND date >= ? AND date <= ? ORDER BY date DESC",
		userID, start, end)
}

func (s *SQLiteStore) TransactionsByPrefix(ctx context.Context, userID, prefix string) ([]core.Transaction, error) {
	return s.queryTransactions(ctx,
		"SELECT "+txColumns+" FROM transactions WHERE user_id = ? AND date LIKE ? ORDER BY date DESC",
		userID, prefix+"%")
}

func (s *SQLiteStore) CreateUser(ctx context.Context, u core.User) error {
	_, err := s.db.ExecContext(ctx,
		"INSERT INTO users (id, email, name, password_hash, is_verified, created_at) VALUES (?, ?, ?, ?, ?, ?)",
		u.ID, u.Email, u.Name, u.PasswordHash, boolToInt(u.Verified), u.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert user: %w", err)
	}
	return nil
}

func (s *SQLiteStore) UserByEmail(ctx context.Context, email string) (core.User, error) {
	return s.scanUser(s.db.QueryRowContext(ctx,
		"SELECT id, email, name, password_hash, is_verified, created_at FROM users WHERE email = ?",
		email))
}

func (s *SQLiteStore) UserByID(ctx context.Context, id string) (core.User, error) {
	return s.scanUser(s.db.QueryRowContext(ctx,
		"SELECT id, email, name, password_hash, is_verified, created_at FROM users WHERE id = ?",
		id))
}

func (s *SQLiteStore) MarkVerified(ctx context.Context, userID string) error {
	res, err := s.db.ExecContext(ctx,
		"UPDATE users SET is_verified = 1 WHERE id = ?", userID)
	if err != nil {
		return fmt.Errorf("mark verified: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return core.ErrNotFound
	}
	return nil
}

func (s *SQLiteStore) UpdatePassword(ctx context.Context, userID, passwordHash string) error {
	res, err := s.db.ExecContext(ctx,
		"UPDATE users SET password_hash = ? WHERE id = ?", passwordHash, userID)
	if err != nil {
		return fmt.Errorf("update password: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return core.ErrNotFound
	}
	return nil
}

func (s *SQLiteStore) VerifiedUsers(ctx context.Context) ([]core.User, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT id, email, name, password_hash, is_verified, created_at FROM users WHERE is_verified = 1 ORDER BY created_at")
	if err != nil {
		return nil, fmt.Errorf("query verified users: %w", err)
	}
	defer rows.Close()

	var out []core.User
	for rows.Next() {
		var u core.User
		var verified int64
		if err := rows.Scan(&u.ID, &u.Email, &u.Name, &u.PasswordHash, &verified, &u.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan user: %w", err)
		}
		u.Verified = verified != 0
		out = append(out, u)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate users: %w", err)
	}
	return out, nil
}

func (s *SQLiteStore) SaveOTP(ctx context.Context, email, code string, expiresAt time.Time) error {
	_, err := s.db.ExecContext(ctx,
		"INSERT INTO otp_verifications (email, otp, expires_at, created_at) VALUES (?, ?, ?, ?)",
		email, code, expiresAt, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("save otp: %w", err)
	}
	return nil
}

func (s *SQLiteStore) ConsumeOTP(ctx context.Context, email, code string) (bool, error) {
	res, err := s.db.ExecContext(ctx,
		"DELETE FROM otp_verifications WHERE email = ? AND otp = ? AND expires_at > ?",
		email, code, time.Now().UTC())
	if err != nil {
		return false, fmt.Errorf("consume otp: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("consume otp: %w", err)
	}
	return n > 0, nil
}

func (s *SQLiteStore) PurgeExpiredOTPs(ctx context.Context) (int64, error) {
	res, err := s.db.ExecContext(ctx,
		"DELETE FROM otp_verifications WHERE expires_at <= ?", time.Now().UTC())
	if err != nil {
		return 0, fmt.Errorf("purge otps: %w", err)
	}
	return res.RowsAffected()
}

func (s *SQLiteStore) queryTransactions(ctx context.Context, query string, args ...any) ([]core.Transaction, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query transactions: %w", err)
	}
	defer rows.Close()

	var out []core.Transaction
	for rows.Next() {
		t, err := scanTransaction(rows)
		if err != nil {
			return nil, fmt.Errorf("scan transaction: %w", err)
		}
		out = append(out, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate transactions: %w", err)
	}
	return out, nil
}

func (s *SQLiteStore) scanUser(row *sql.Row) (core.User, error) {
	var u core.User
	var verified int64
	err := row.Scan(&u.ID, &u.Email, &u.Name, &u.PasswordHash, &verified, &u.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return core.User{}, core.ErrNotFound
	}
	if err != nil {
		return core.User{}, fmt.Errorf("scan user: %w", err)
	}
	u.Verified = verified != 0
	return u, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTransaction(row rowScanner) (core.Transaction, error) {
	var t core.Transaction
	var category sql.NullString
	var kind string
	err := row.Scan(&t.ID, &t.UserID, &kind, &t.Amount.Cents, &t.Description,
		&category, &t.PaymentMethod, &t.Date, &t.CreatedAt)
	if err != nil {
		return core.Transaction{}, err
	}
	t.Kind = core.Kind(kind)
	t.Category = category.String
	return t, nil
}

func nullable(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

func boolToInt(b bool) int64 {
	if b {
		return 1
	}
	return 0
}
