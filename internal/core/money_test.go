package core

import (
	"encoding/json"
	"testing"
)

func TestParseDecimalToCents(t *testing.T) {
	cases := []struct {
		in    string
		cents int64
		ok    bool
	}{
		{"12.34", 1234, true},
		{"12,34", 1234, true},
		{"12", 1200, true},
		{"0.01", 1, true},
		{".50", 50, true},
		{"12.345", 1234, true}, // rounds down
		{"12.346", 1235, true}, // rounds up
		{"12.3", 1230, true},
		{"", 0, false},
		{"0", 0, false},
		{"0.00", 0, false},
		{"-5", 0, false},
		{"+5", 0, false},
		{"1.2.3", 0, false},
		{"abc", 0, false},
		{"12x", 0, false},
	}
	for i, tc := range cases {
		got, err := ParseDecimalToCents(tc.in)
		if tc.ok && (err != nil || got != tc.cents) {
			t.Fatalf("case %d (%q): got %d, %v; want %d", i, tc.in, got, err, tc.cents)
		}
		if !tc.ok && err == nil {
			t.Fatalf("case %d (%q): expected error", i, tc.in)
		}
	}
}

func TestMoneyString(t *testing.T) {
	cases := []struct {
		cents int64
		want  string
	}{
		{1234, "12.34"},
		{100, "1.00"},
		{5, "0.05"},
		{0, "0.00"},
		{-1234, "-12.34"},
		{-5, "-0.05"},
	}
	for i, tc := range cases {
		if got := (Money{Cents: tc.cents}).String(); got != tc.want {
			t.Fatalf("case %d: got %q, want %q", i, got, tc.want)
		}
	}
}

func TestMoneyJSONRoundTrip(t *testing.T) {
	b, err := json.Marshal(Money{Cents: 1234})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(b) != "12.34" {
		t.Fatalf("marshalled to %s, want a bare JSON number 12.34", b)
	}

	var m Money
	if err := json.Unmarshal([]byte(`"56,78"`), &m); err != nil {
		t.Fatalf("unmarshal quoted: %v", err)
	}
	if m.Cents != 5678 {
		t.Fatalf("cents = %d, want 5678", m.Cents)
	}
	if err := json.Unmarshal([]byte(`99.99`), &m); err != nil {
		t.Fatalf("unmarshal number: %v", err)
	}
	if m.Cents != 9999 {
		t.Fatalf("cents = %d, want 9999", m.Cents)
	}
}

func TestMoneyValidate(t *testing.T) {
	if err := (Money{Cents: 1}).Validate(); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}
	if err := (Money{Cents: 0}).Validate(); err == nil {
		t.Fatalf("expected error for zero")
	}
	if err := (Money{Cents: -10}).Validate(); err == nil {
		t.Fatalf("expected error for negative")
	}
}
