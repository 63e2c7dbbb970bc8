package auth

import (
	"errors"
	"testing"
	"time"
)

func TestPasswordHashRoundTrip(t *testing.T) {
	m := NewManager("secret", time.Hour)

	hash, err := m.HashPassword("correct horse battery")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	if hash == "correct horse battery" {
		t.Fatalf("hash equals plaintext")
	}
	if err := m.CheckPassword(hash, "correct horse battery"); err != nil {
		t.Fatalf("check: %v", err)
	}
	if err := m.CheckPassword(hash, "wrong"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestHashPasswordTooShort(t *testing.T) {
	m := NewManager("secret", time.Hour)
	if _, err := m.HashPassword("short"); err == nil {
		t.Fatalf("expected error for short password")
	}
}

func TestTokenRoundTrip(t *testing.T) {
	m := NewManager("secret", time.Hour)

	token, err := m.IssueToken("user-42")
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	userID, err := m.VerifyToken(token)
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if userID != "user-42" {
		t.Fatalf("subject = %q, want user-42", userID)
	}
}

func TestTokenRejections(t *testing.T) {
	m := NewManager("secret", time.Hour)
	other := NewManager("other-secret", time.Hour)
	expired := NewManager("secret", -time.Hour)

	good, _ := m.IssueToken("u1")
	foreign, _ := other.IssueToken("u1")
	stale, _ := expired.IssueToken("u1")

	cases := []struct {
		name  string
		token string
	}{
		{"garbage", "not.a.token"},
		{"wrong secret", foreign},
		{"expired", stale},
		{"truncated", good[:len(good)-5]},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := m.VerifyToken(tc.token); !errors.Is(err, ErrInvalidToken) {
				t.Fatalf("expected ErrInvalidToken, got %v", err)
			}
		})
	}
}

func TestGenerateOTP(t *testing.T) {
	seen := map[string]bool{}
	for i := 0; i < 20; i++ {
		code, err := GenerateOTP()
		if err != nil {
			t.Fatalf("generate: %v", err)
		}
		if len(code) != 6 {
			t.Fatalf("code %q is not six digits", code)
		}
		for _, r := range code {
			if r < '0' || r > '9' {
				t.Fatalf("code %q contains non-digit", code)
			}
		}
		seen[code] = true
	}
	if len(seen) < 2 {
		t.Fatalf("codes look constant")
	}
}
