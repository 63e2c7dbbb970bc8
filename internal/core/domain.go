package core

import (
	"errors"
	"strings"
	"time"
)

const (
	// DateLayout is the calendar-date form used for transaction bucketing.
	// Transactions carry the business date as a plain string so that report
	// queries can match on it directly.
	DateLayout = "2006-01-02"

	// DefaultPaymentMethod is applied when a transaction omits the method.
	DefaultPaymentMethod = "cash"
)

const (
	Debit  Kind = "debit"
	Credit Kind = "credit"
)

type (
	// Kind tells whether a transaction decreases (debit) or increases
	// (credit) the user's balance.
	Kind string

	// Transaction is a single ledger entry owned by one user. Date is the
	// business date used for all report bucketing; CreatedAt is only a
	// tie-break for same-day ordering.
	Transaction struct {
		ID            string    `json:"id"`
		UserID        string    `json:"user_id"`
		Kind          Kind      `json:"type"`
		Amount        Money     `json:"amount"`
		Description   string    `json:"description"`
		Category      string    `json:"category,omitempty"`
		PaymentMethod string    `json:"payment_method"`
		Date          string    `json:"date"`
		CreatedAt     time.Time `json:"created_at"`
	}

	// User is an account holder. PasswordHash is a bcrypt hash, never the
	// raw password.
	User struct {
		ID           string    `json:"id"`
		Email        string    `json:"email"`
		Name         string    `json:"name"`
		PasswordHash string    `json:"-"`
		Verified     bool      `json:"is_verified"`
		CreatedAt    time.Time `json:"created_at"`
	}
)

var (
	ErrInvalidKind      = errors.New("invalid transaction kind")
	ErrInvalidDate      = errors.New("invalid date")
	ErrInvalidAmount    = errors.New("invalid amount")
	ErrEmptyDescription = errors.New("empty description")
	ErrEmptyEmail       = errors.New("empty email")
	ErrEmptyName        = errors.New("empty name")
)

// ParseKind validates and normalizes a transaction kind string.
func ParseKind(s string) (Kind, error) {
	switch Kind(strings.ToLower(strings.TrimSpace(s))) {
	case Debit:
		return Debit, nil
	case Credit:
		return Credit, nil
	default:
		return "", ErrInvalidKind
	}
}

// IsValid reports whether the kind is one of the two known values.
func (k Kind) IsValid() bool {
	return k == Debit || k == Credit
}

func (t Transaction) Validate() error {
	if !t.Kind.IsValid() {
		return ErrInvalidKind
	}
	if _, err := time.Parse(DateLayout, t.Date); err != nil {
		return ErrInvalidDate
	}
	if err := t.Amount.Validate(); err != nil {
		return err
	}
	if len(strings.TrimSpace(t.Description)) == 0 {
		return ErrEmptyDescription
	}
	if len(t.Description) > 200 {
		return errors.New("description too long (max 200 characters)")
	}
	return nil
}

// Normalize trims free-text fields and fills defaults that the storage
// layer expects to be present.
func (t *Transaction) Normalize() {
	t.Description = strings.TrimSpace(t.Description)
	t.Category = strings.TrimSpace(t.Category)
	t.PaymentMethod = strings.TrimSpace(t.PaymentMethod)
	if t.PaymentMethod == "" {
		t.PaymentMethod = DefaultPaymentMethod
	}
}

func (u User) Validate() error {
	if strings.TrimSpace(u.Email) == "" || !strings.Contains(u.Email, "@") {
		return ErrEmptyEmail
	}
	if strings.TrimSpace(u.Name) == "" {
		return ErrEmptyName
	}
	return nil
}
