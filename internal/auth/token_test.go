package auth_test

import (
	"errors"
	"testing"
	"time"

	"github.com/abzalkhan/taskboard/internal/auth"
	"github.com/abzalkhan/taskboard/internal/domain"
	"github.com/golang-jwt/jwt/v5"
)

const testTokenKey = "token-test-secret-at-least-32-ch!"

func TestIssueAndVerify_Roundtrip(t *testing.T) {
	m := auth.NewTokenManager([]byte(testTokenKey), time.Hour)

	signed, err := m.Issue("user-1", "ann@example.com")
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	claims, err := m.Verify(signed)
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if claims.Subject != "user-1" {
		t.Errorf("subject = %q, want %q", claims.Subject, "user-1")
	}
	if claims.Email != "ann@example.com" {
		t.Errorf("email = %q, want %q", claims.Email, "ann@example.com")
	}
}

func TestVerify_SameTokenResolvesSameIdentityTwice(t *testing.T) {
	m := auth.NewTokenManager([]byte(testTokenKey), time.Hour)

	signed, err := m.Issue("user-1", "ann@example.com")
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	first, err := m.Verify(signed)
	if err != nil {
		t.Fatalf("first verify: %v", err)
	}
	second, err := m.Verify(signed)
	if err != nil {
		t.Fatalf("second verify: %v", err)
	}
	if first.Subject != second.Subject || first.Email != second.Email {
		t.Errorf("verification is not idempotent: %+v vs %+v", first, second)
	}
}

func TestVerify_ExpiredToken(t *testing.T) {
	m := auth.NewTokenManager([]byte(testTokenKey), -time.Minute)

	signed, err := m.Issue("user-1", "ann@example.com")
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	if _, err := m.Verify(signed); !errors.Is(err, domain.ErrTokenInvalid) {
		t.Errorf("err = %v, want ErrTokenInvalid", err)
	}
}

func TestVerify_WrongKey(t *testing.T) {
	m := auth.NewTokenManager([]byte(testTokenKey), time.Hour)
	other := auth.NewTokenManager([]byte("different-key-that-is-32-chars!!"), time.Hour)

	signed, err := other.Issue("user-1", "ann@example.com")
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	if _, err := m.Verify(signed); !errors.Is(err, domain.ErrTokenInvalid) {
		t.Errorf("err = %v, want ErrTokenInvalid", err)
	}
}

func TestVerify_Malformed(t *testing.T) {
	m := auth.NewTokenManager([]byte(testTokenKey), time.Hour)

	if _, err := m.Verify("not.a.jwt"); !errors.Is(err, domain.ErrTokenInvalid) {
		t.Errorf("err = %v, want ErrTokenInvalid", err)
	}
}

func TestVerify_MissingSubject(t *testing.T) {
	m := auth.NewTokenManager([]byte(testTokenKey), time.Hour)

	// Hand-roll a token with valid signature and expiry but no sub claim.
	now := time.Now()
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"email": "ann@example.com",
		"iat":   now.Unix(),
		"exp":   now.Add(time.Hour).Unix(),
	})
	signed, err := tok.SignedString([]byte(testTokenKey))
	if err != nil {
		t.Fatalf("sign: %v", err)
	}

	if _, err := m.Verify(signed); !errors.Is(err, domain.ErrTokenInvalid) {
		t.Errorf("err = %v, want ErrTokenInvalid", err)
	}
}

func TestVerify_MissingExpiry(t *testing.T) {
	m := auth.NewTokenManager([]byte(testTokenKey), time.Hour)

	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": "user-1",
	})
	signed, err := tok.SignedString([]byte(testTokenKey))
	if err != nil {
		t.Fatalf("sign: %v", err)
	}

	if _, err := m.Verify(signed); !errors.Is(err, domain.ErrTokenInvalid) {
		t.Errorf("err = %v, want ErrTokenInvalid", err)
	}
}
