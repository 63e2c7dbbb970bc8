// Package postgres provides the client/server persistence backend. It
// mirrors the embedded SQLite store query for query; business logic never
// notices which one it got.
package postgres

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"time"

	"fintrack/internal/core"

	"github.com/golang-migrate/migrate/v4"
	pgmigrate "github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	_ "github.com/lib/pq"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// Store implements core.Store on Postgres.
type Store struct {
	db *sql.DB
}

var _ core.Store = (*Store)(nil)

func New(dsn string) (*Store, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("open postgres database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := runMigrations(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &Store{db: db}, nil
}

func runMigrations(db *sql.DB) error {
	driver, err := pgmigrate.WithInstance(db, &pgmigrate.Config{})
	if err != nil {
		return fmt.Errorf("create postgres driver: %w", err)
	}

	d, err := iofs.New(migrationsFS, "migrations")
	if err != nil {
		return fmt.Errorf("create iofs source: %w", err)
	}

	m, err := migrate.NewWithInstance("iofs", d, "postgres", driver)
	if err != nil {
		return fmt.Errorf("create migrate instance: %w", err)
	}

	if err := m.Up(); err != nil && err != migrate.ErrNoChange {
		return fmt.Errorf("run migrations: %w", err)
	}
	return nil
}

func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

const txColumns = "id, user_id, type, amount_cents, description, category, payment_method, date, created_at"

func (s *Store) CreateTransaction(ctx context.Context, t core.Transaction) error {
	_, err := s.db.ExecContext(ctx,
		"INSERT INTO transactions ("+txColumns+") VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)",
		t.ID, t.UserID, string(t.Kind), t.Amount.Cents, t.Description,
		nullable(t.Category), t.PaymentMethod, t.Date, t.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert transaction: %w", err)
	}
	return nil
}

func (s *Store) TransactionsByUser(ctx context.Context, userID string) ([]core.Transaction, error) {
	return s.queryTransactions(ctx,
		"SELECT "+txColumns+" FROM transactions WHERE user_id = $1 ORDER BY date DESC",
		userID)
}

func (s *Store) TransactionByID(ctx context.Context, userID, id string) (core.Transaction, error) {
	row := s.db.QueryRowContext(ctx,
		"SELECT "+txColumns+" FROM transactions WHERE id = $1 AND user_id = $2",
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

func (s *Store) DeleteTransaction(ctx context.Context, userID, id string) error {
	res, err := s.db.ExecContext(ctx,
		"DELETE FROM transactions WHERE id = $1 AND user_id = $2", id, userID)
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

func (s *Store) TransactionsByDate(ctx context.Context, userID, date string) ([]core.Transaction, error) {
	return s.queryTransactions(ctx,
		"SELECT "+txColumns+" FROM transactions WHERE user_id = $1 AND date = $2 ORDER BY created_at DESC",
		userID, date)
}

func (s *Store) TransactionsByRange(ctx context.Context, userID, start, end string) ([]core.Transaction, error) {
	return s.queryTransactions(ctx,
		"SELECT "+txColumns+" FROM transactions WHERE user_id = $1 AND date >= $2 AND date <= $3 ORDER BY date DESC",
		userID, start, end)
}

func (s *Store) TransactionsByPrefix(ctx context.Context, userID, prefix string) ([]core.Transaction, error) {
	return s.queryTransactions(ctx,
		"SELECT "+txColumns+" FROM transactions WHERE user_id = $1 AND date LIKE $2 ORDER BY date DESC",
		userID, prefix+"%")
}

func (s *Store) CreateUser(ctx context.Context, u core.User) error {
	_, err := s.db.ExecContext(ctx,
		"INSERT INTO users (id, email, name, password_hash, is_verified, created_at) VALUES ($1, $2, $3, $4, $5, $6)",
		u.ID, u.Email, u.Name, u.PasswordHash, u.Verified, u.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert user: %w", err)
	}
	return nil
}

func (s *Store) UserByEmail(ctx context.Context, email string) (core.User, error) {
	return scanUser(s.db.QueryRowContext(ctx,
		"SELECT id, email, name, password_hash, is_verified, created_at FROM users WHERE email = $1",
		email))
}

func (s *Store) UserByID(ctx context.Context, id string) (core.User, error) {
	return scanUser(s.db.QueryRowContext(ctx,
		"SELECT id, email, name, password_hash, is_verified, created_at FROM users WHERE id = $1",
		id))
}

func (s *Store) MarkVerified(ctx context.Context, userID string) error {
	res, err := s.db.ExecContext(ctx,
		"UPDATE users SET is_verified = TRUE WHERE id = $1", userID)
	if err != nil {
		return fmt.Errorf("mark verified: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return core.ErrNotFound
	}
	return nil
}

func (s *Store) UpdatePassword(ctx context.Context, userID, passwordHash string) error {
	res, err := s.db.ExecContext(ctx,
		"UPDATE users SET password_hash = $1 WHERE id = $2", passwordHash, userID)
	if err != nil {
		return fmt.Errorf("update password: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return core.ErrNotFound
	}
	return nil
}

func (s *Store) VerifiedUsers(ctx context.Context) ([]core.User, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT id, email, name, password_hash, is_verified, created_at FROM users WHERE is_verified = TRUE ORDER BY created_at")
	if err != nil {
		return nil, fmt.Errorf("query verified users: %w", err)
	}
	defer rows.Close()

	var out []core.User
	for rows.Next() {
		var u core.User
		if err := rows.Scan(&u.ID, &u.Email, &u.Name, &u.PasswordHash, &u.Verified, &u.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan user: %w", err)
		}
		out = append(out, u)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate users: %w", err)
	}
	return out, nil
}

func (s *Store) SaveOTP(ctx context.Context, email, code string, expiresAt time.Time) error {
	_, err := s.db.ExecContext(ctx,
		"INSERT INTO otp_verifications (email, otp, expires_at, created_at) VALUES ($1, $2, $3, $4)",
		email, code, expiresAt, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("save otp: %w", err)
	}
	return nil
}

func (s *Store) ConsumeOTP(ctx context.Context, email, code string) (bool, error) {
	res, err := s.db.ExecContext(ctx,
		"DELETE FROM otp_verifications WHERE email = $1 AND otp = $2 AND expires_at > $3",
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

func (s *Store) PurgeExpiredOTPs(ctx context.Context) (int64, error) {
	res, err := s.db.ExecContext(ctx,
		"DELETE FROM otp_verifications WHERE expires_at <= $1", time.Now().UTC())
	if err != nil {
		return 0, fmt.Errorf("purge otps: %w", err)
	}
	return res.RowsAffected()
}

func (s *Store) queryTransactions(ctx context.Context, query string, args ...any) ([]core.Transaction, error) {
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

func scanUser(row *sql.Row) (core.User, error) {
	var u core.User
	err := row.Scan(&u.ID, &u.Email, &u.Name, &u.PasswordHash, &u.Verified, &u.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return core.User{}, core.ErrNotFound
	}
	if err != nil {
		return core.User{}, fmt.Errorf("scan user: %w", err)
	}
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
