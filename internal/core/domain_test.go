package core

import (
	"testing"
)

func TestParseKind(t *testing.T) {
	cases := []struct {
		in   string
		want Kind
		ok   bool
	}{
		{"debit", Debit, true},
		{"credit", Credit, true},
		{"DEBIT", Debit, true},
		{" credit ", Credit, true},
		{"transfer", "", false},
		{"", "", false},
	}
	for i, tc := range cases {
		got, err := ParseKind(tc.in)
		if tc.ok && (err != nil || got != tc.want) {
			t.Fatalf("case %d (%q): got %q, %v", i, tc.in, got, err)
		}
		if !tc.ok && err == nil {
			t.Fatalf("case %d (%q): expected error", i, tc.in)
		}
	}
}

func TestTransactionValidate(t *testing.T) {
	good := Transaction{
		Kind:        Debit,
		Amount:      Money{Cents: 100},
		Description: "coffee",
		Date:        "2024-03-15",
	}
	if err := good.Validate(); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}

	bads := []Transaction{
		{Kind: "loan", Amount: Money{Cents: 1}, Description: "a", Date: "2024-03-15"},
		{Kind: Debit, Amount: Money{Cents: 0}, Description: "a", Date: "2024-03-15"},
		{Kind: Debit, Amount: Money{Cents: 1}, Description: "", Date: "2024-03-15"},
		{Kind: Debit, Amount: Money{Cents: 1}, Description: "a", Date: "15-03-2024"},
		{Kind: Debit, Amount: Money{Cents: 1}, Description: "a", Date: "2024-03-32"},
	}
	for i, x := range bads {
		if err := x.Validate(); err == nil {
			t.Fatalf("case %d expected error", i)
		}
	}
}

func TestTransactionNormalize(t *testing.T) {
	x := Transaction{Description: "  lunch  ", PaymentMethod: ""}
	x.Normalize()
	if x.Description != "lunch" {
		t.Fatalf("description %q", x.Description)
	}
	if x.PaymentMethod != DefaultPaymentMethod {
		t.Fatalf("payment method %q, want %q", x.PaymentMethod, DefaultPaymentMethod)
	}

	x = Transaction{PaymentMethod: "upi"}
	x.Normalize()
	if x.PaymentMethod != "upi" {
		t.Fatalf("explicit payment method overwritten: %q", x.PaymentMethod)
	}
}

func TestUserValidate(t *testing.T) {
	good := User{Email: "a@b.c", Name: "A"}
	if err := good.Validate(); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}
	if err := (User{Email: "", Name: "A"}).Validate(); err == nil {
		t.Fatalf("expected error for empty email")
	}
	if err := (User{Email: "nope", Name: "A"}).Validate(); err == nil {
		t.Fatalf("expected error for mail without @")
	}
	if err := (User{Email: "a@b.c", Name: " "}).Validate(); err == nil {
		t.Fatalf("expected error for empty name")
	}
}
