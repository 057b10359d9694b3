package token

import (
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// mint creates a signed HS256 token with the given expiry.
func mint(t *testing.T, expiry time.Time) string {
	t.Helper()

	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		ExpiresAt: jwt.NewNumericDate(expiry),
		IssuedAt:  jwt.NewNumericDate(expiry.Add(-time.Hour)),
	})
	signed, err := tok.SignedString([]byte("test-secret"))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return signed
}

func TestDecode(t *testing.T) {
	t.Run("valid token", func(t *testing.T) {
		expiry := time.Date(2026, 3, 14, 9, 26, 53, 0, time.UTC)
		got, err := Decode(mint(t, expiry))
		if err != nil {
			t.Fatalf("Decode() error = %v", err)
		}
		if !got.Equal(expiry) {
			t.Errorf("Decode() = %v, want %v", got, expiry)
		}
	})

	t.Run("garbage token", func(t *testing.T) {
		_, err := Decode("not-a-jwt")
		if !errors.Is(err, ErrMalformed) {
			t.Errorf("Decode() error = %v, want ErrMalformed", err)
		}
	})

	t.Run("empty token", func(t *testing.T) {
		_, err := Decode("")
		if !errors.Is(err, ErrMalformed) {
			t.Errorf("Decode() error = %v, want ErrMalformed", err)
		}
	})

	t.Run("missing exp claim", func(t *testing.T) {
		tok := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
			Subject: "42",
		})
		signed, err := tok.SignedString([]byte("test-secret"))
		if err != nil {
			t.Fatalf("sign token: %v", err)
		}

		if _, err := Decode(signed); !errors.Is(err, ErrMalformed) {
			t.Errorf("Decode() error = %v, want ErrMalformed", err)
		}
	})
}

func TestIsExpired(t *testing.T) {
	expiry := time.Date(2026, 6, 1, 12, 0, 0, 0, time.UTC)
	credential := mint(t, expiry)

	tests := []struct {
		name string
		now  time.Time
		want bool
	}{
		{"well before expiry", expiry.Add(-time.Hour), false},
		{"one second before expiry", expiry.Add(-time.Second), false},
		{"exactly at expiry", expiry, true},
		{"one second after expiry", expiry.Add(time.Second), true},
		{"well after expiry", expiry.Add(24 * time.Hour), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsExpired(credential, tt.now); got != tt.want {
				t.Errorf("IsExpired() at %v = %v, want %v", tt.now, got, tt.want)
			}
		})
	}

	t.Run("malformed token is always expired", func(t *testing.T) {
		if !IsExpired("garbage", time.Time{}) {
			t.Error("IsExpired() for malformed token = false, want true")
		}
	})
}
