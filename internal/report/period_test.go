package report

import (
	"errors"
	"testing"
	"time"
)

var testNow = time.Date(2024, 5, 15, 10, 30, 0, 0, time.UTC) // a Wednesday

func TestResolveDaily(t *testing.T) {
	cases := []struct {
		anchor string
		label  string
		ok     bool
	}{
		{"2024-01-03", "2024-01-03", true},
		{"", "2024-05-15", true}, // falls back to now
		{"2024-13-01", "", false},
		{"not-a-date", "", false},
		{"2024/01/03", "", false},
	}
	for i, tc := range cases {
		p, err := ResolveDaily(tc.anchor, testNow)
		if !tc.ok {
			if !errors.Is(err, ErrInvalidPeriodAnchor) {
				t.Fatalf("case %d: expected ErrInvalidPeriodAnchor, got %v", i, err)
			}
			continue
		}
		if err != nil {
			t.Fatalf("case %d: unexpected error %v", i, err)
		}
		if p.Label != tc.label || p.Start != tc.label || p.End != tc.label {
			t.Fatalf("case %d: got %+v, want label/start/end %q", i, p, tc.label)
		}
	}
}

func TestResolveWeekly(t *testing.T) {
	cases := []struct {
		anchor string
		start  string
		end    string
	}{
		// Wednesday resolves to the surrounding Monday..Sunday window.
		{"2024-01-03", "2024-01-01", "2024-01-07"},
		// Sunday still belongs to the week that started the preceding Monday.
		{"2024-01-07", "2024-01-01", "2024-01-07"},
		// Monday is its own week start.
		{"2024-01-01", "2024-01-01", "2024-01-07"},
		// Saturday.
		{"2024-01-06", "2024-01-01", "2024-01-07"},
		// Window crossing a month boundary.
		{"2024-02-01", "2024-01-29", "2024-02-04"},
	}
	for i, tc := range cases {
		p, err := ResolveWeekly(tc.anchor, testNow)
		if err != nil {
			t.Fatalf("case %d: unexpected error %v", i, err)
		}
		if p.Start != tc.start || p.End != tc.end {
			t.Fatalf("case %d: got [%s, %s], want [%s, %s]", i, p.Start, p.End, tc.start, tc.end)
		}
		wantLabel := tc.start + " to " + tc.end
		if p.Label != wantLabel {
			t.Fatalf("case %d: label %q, want %q", i, p.Label, wantLabel)
		}
	}

	if _, err := ResolveWeekly("garbage", testNow); !errors.Is(err, ErrInvalidPeriodAnchor) {
		t.Fatalf("expected ErrInvalidPeriodAnchor, got %v", err)
	}
}

func TestResolveMonthly(t *testing.T) {
	p, err := ResolveMonthly("2025-03", testNow)
	if err != nil {
		t.Fatalf("unexpected error %v", err)
	}
	if p.Prefix != "2025-03" || p.Label != "2025-03" {
		t.Fatalf("got %+v", p)
	}

	p, err = ResolveMonthly("", testNow)
	if err != nil {
		t.Fatalf("unexpected error %v", err)
	}
	if p.Prefix != "2024-05" {
		t.Fatalf("default prefix %q, want 2024-05", p.Prefix)
	}

	for _, bad := range []string{"2025-13", "2025", "march", "2025-3"} {
		if _, err := ResolveMonthly(bad, testNow); !errors.Is(err, ErrInvalidPeriodAnchor) {
			t.Fatalf("anchor %q: expected ErrInvalidPeriodAnchor, got %v", bad, err)
		}
	}
}

func TestResolveAnnual(t *testing.T) {
	p, err := ResolveAnnual("2023", testNow)
	if err != nil {
		t.Fatalf("unexpected error %v", err)
	}
	if p.Prefix != "2023" || p.Label != "2023" {
		t.Fatalf("got %+v", p)
	}

	p, err = ResolveAnnual("", testNow)
	if err != nil {
		t.Fatalf("unexpected error %v", err)
	}
	if p.Prefix != "2024" {
		t.Fatalf("default prefix %q, want 2024", p.Prefix)
	}

	for _, bad := range []string{"23", "20244", "year", "-500"} {
		if _, err := ResolveAnnual(bad, testNow); !errors.Is(err, ErrInvalidPeriodAnchor) {
			t.Fatalf("anchor %q: expected ErrInvalidPeriodAnchor, got %v", bad, err)
		}
	}
}
