package http

import (
	"net/http/httptest"
	"testing"
	"time"
)

func TestClientAddr(t *testing.T) {
	tests := []struct {
		name       string
		xff        string
		realIP     string
		remoteAddr string
		trustProxy bool
		want       string
	}{
		{
			name:       "spoofed header ignored without proxy trust",
			xff:        "6.6.6.6",
			remoteAddr: "192.0.2.1:1234",
			want:       "192.0.2.1",
		},
		{
			name:       "forwarded-for honored behind trusted proxy",
			xff:        "203.0.113.9, 10.0.0.1",
			remoteAddr: "10.0.0.1:5678",
			trustProxy: true,
			want:       "203.0.113.9",
		},
		{
			name:       "real-ip fallback behind trusted proxy",
			realIP:     "203.0.113.9",
			remoteAddr: "10.0.0.1:5678",
			trustProxy: true,
			want:       "203.0.113.9",
		},
		{
			name:       "remote addr when trusted proxy sets nothing",
			remoteAddr: "192.0.2.1:1234",
			trustProxy: true,
			want:       "192.0.2.1",
		},
		{
			name:       "remote addr without port kept as is",
			remoteAddr: "192.0.2.1",
			want:       "192.0.2.1",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest("GET", "/", nil)
			r.RemoteAddr = tt.remoteAddr
			if tt.xff != "" {
				r.Header.Set("X-Forwarded-For", tt.xff)
			}
			if tt.realIP != "" {
				r.Header.Set("X-Real-IP", tt.realIP)
			}
			if got := clientAddr(r, tt.trustProxy); got != tt.want {
				t.Fatalf("clientAddr() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestReportCacheKey(t *testing.T) {
	day1 := time.Date(2024, 5, 10, 23, 59, 0, 0, time.UTC)
	day2 := time.Date(2024, 5, 11, 0, 1, 0, 0, time.UTC)

	// An explicit anchor keys the cache regardless of the clock.
	if a, b := reportCacheKey("u1", "daily", "2024-05-10", day1), reportCacheKey("u1", "daily", "2024-05-10", day2); a != b {
		t.Fatalf("anchored key changed across midnight: %q vs %q", a, b)
	}

	// Anchorless requests resolve to the current period, so yesterday's
	// report is not served after the date rolls over.
	if a, b := reportCacheKey("u1", "daily", "", day1), reportCacheKey("u1", "daily", "", day2); a == b {
		t.Fatalf("anchorless daily key did not roll over: %q", a)
	}
	if got := reportCacheKey("u1", "monthly", "", day1); got != "u1/monthly/2024-05" {
		t.Fatalf("monthly key = %q", got)
	}
	if got := reportCacheKey("u1", "annual", "", day1); got != "u1/annual/2024" {
		t.Fatalf("annual key = %q", got)
	}
	if got := reportCacheKey("u1", "weekly", "", day1); got != "u1/weekly/2024-05-10" {
		t.Fatalf("weekly key = %q", got)
	}
}
