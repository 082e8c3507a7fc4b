package jwt

import (
	"context"
	"net/http/httptest"
	"testing"
	"time"

	jwtlib "github.com/golang-jwt/jwt/v5"

	"github.com/rekurs-dev/rekurs/pkg/auth"
)

const testSecret = "test-signing-secret"

func signToken(t *testing.T, secret string, claims jwtlib.MapClaims) string {
	t.Helper()
	token := jwtlib.NewWithClaims(jwtlib.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(secret))
	if err != nil {
		t.Fatalf("signing token: %v", err)
	}
	return signed
}

func authenticate(t *testing.T, a *Authenticator, token string) auth.Result {
	t.Helper()
	req := httptest.NewRequest("POST", "/v1/queries", nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	return a.Authenticate(context.Background(), req)
}

func TestAuthenticate_ValidToken(t *testing.T) {
	a := New(Config{Secret: testSecret})

	token := signToken(t, testSecret, jwtlib.MapClaims{
		"sub":   "alice",
		"scope": "read write",
		"exp":   time.Now().Add(time.Hour).Unix(),
	})

	result := authenticate(t, a, token)
	if result.Decision != auth.Yes {
		t.Fatalf("expected Yes, got %v (err: %v)", result.Decision, result.Err)
	}
	if result.Identity.Subject != "alice" {
		t.Errorf("expected alice, got %q", result.Identity.Subject)
	}
	if len(result.Identity.Scopes) != 2 || result.Identity.Scopes[0] != "read" {
		t.Errorf("unexpected scopes: %v", result.Identity.Scopes)
	}
}

func TestAuthenticate_WrongSecret(t *testing.T) {
	a := New(Config{Secret: testSecret})

	token := signToken(t, "different-secret", jwtlib.MapClaims{
		"sub": "alice",
		"exp": time.Now().Add(time.Hour).Unix(),
	})

	result := authenticate(t, a, token)
	if result.Decision != auth.No {
		t.Errorf("expected No for bad signature, got %v", result.Decision)
	}
}

func TestAuthenticate_ExpiredToken(t *testing.T) {
	a := New(Config{Secret: testSecret})

	token := signToken(t, testSecret, jwtlib.MapClaims{
		"sub": "alice",
		"exp": time.Now().Add(-time.Hour).Unix(),
	})

	result := authenticate(t, a, token)
	if result.Decision != auth.No {
		t.Errorf("expected No for expired token, got %v", result.Decision)
	}
}

func TestAuthenticate_IssuerValidated(t *testing.T) {
	a := New(Config{Secret: testSecret, Issuer: "rekurs"})

	good := signToken(t, testSecret, jwtlib.MapClaims{
		"sub": "alice",
		"iss": "rekurs",
		"exp": time.Now().Add(time.Hour).Unix(),
	})
	if result := authenticate(t, a, good); result.Decision != auth.Yes {
		t.Errorf("expected Yes for matching issuer, got %v (err: %v)", result.Decision, result.Err)
	}

	bad := signToken(t, testSecret, jwtlib.MapClaims{
		"sub": "alice",
		"iss": "someone-else",
		"exp": time.Now().Add(time.Hour).Unix(),
	})
	if result := authenticate(t, a, bad); result.Decision != auth.No {
		t.Errorf("expected No for wrong issuer, got %v", result.Decision)
	}
}

func TestAuthenticate_MissingSubject(t *testing.T) {
	a := New(Config{Secret: testSecret})

	token := signToken(t, testSecret, jwtlib.MapClaims{
		"exp": time.Now().Add(time.Hour).Unix(),
	})

	result := authenticate(t, a, token)
	if result.Decision != auth.No {
		t.Errorf("expected No for missing sub, got %v", result.Decision)
	}
}

func TestAuthenticate_ScopesFromArray(t *testing.T) {
	a := New(Config{Secret: testSecret})

	token := signToken(t, testSecret, jwtlib.MapClaims{
		"sub":   "alice",
		"scope": []string{"admin", "query"},
		"exp":   time.Now().Add(time.Hour).Unix(),
	})

	result := authenticate(t, a, token)
	if result.Decision != auth.Yes {
		t.Fatalf("expected Yes, got %v (err: %v)", result.Decision, result.Err)
	}
	if len(result.Identity.Scopes) != 2 || result.Identity.Scopes[1] != "query" {
		t.Errorf("unexpected scopes: %v", result.Identity.Scopes)
	}
}

func TestAuthenticate_NoHeaderAbstains(t *testing.T) {
	a := New(Config{Secret: testSecret})

	result := authenticate(t, a, "")
	if result.Decision != auth.Abstain {
		t.Errorf("expected Abstain, got %v", result.Decision)
	}
}

func TestAuthenticate_GarbageToken(t *testing.T) {
	a := New(Config{Secret: testSecret})

	result := authenticate(t, a, "not.a.jwt")
	if result.Decision != auth.No {
		t.Errorf("expected No, got %v", result.Decision)
	}
}
