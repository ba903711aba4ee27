package auth

import (
	"errors"
	"testing"
	"time"

	appErrors "fitreminder/internal/pkg/errors"

	"github.com/golang-jwt/jwt/v5"
)

func TestIssueAndVerify(t *testing.T) {
	t.Parallel()
	v := NewTokenVerifier("secret")

	token, err := v.Issue("42", "user", time.Hour)
	if err != nil {
		t.Fatalf("issue token: %v", err)
	}

	id, err := v.Verify(token)
	if err != nil {
		t.Fatalf("verify token: %v", err)
	}
	if id.UserID != "42" || id.Role != "user" {
		t.Fatalf("unexpected identity: %+v", id)
	}
}

func TestVerifyNumericUserID(t *testing.T) {
	t.Parallel()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"userId": 7,
		"exp":    time.Now().Add(time.Hour).Unix(),
	})
	signed, err := token.SignedString([]byte("secret"))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}

	id, err := NewTokenVerifier("secret").Verify(signed)
	if err != nil {
		t.Fatalf("verify token: %v", err)
	}
	if id.UserID != "7" {
		t.Fatalf("got userID %q, want %q", id.UserID, "7")
	}
}

func TestVerifyRejects(t *testing.T) {
	t.Parallel()
	good := NewTokenVerifier("secret")
	other := NewTokenVerifier("other")

	expired, err := good.Issue("1", "", -time.Minute)
	if err != nil {
		t.Fatalf("issue expired token: %v", err)
	}
	wrongKey, err := other.Issue("1", "", time.Hour)
	if err != nil {
		t.Fatalf("issue foreign token: %v", err)
	}
	noUser, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"exp": time.Now().Add(time.Hour).Unix(),
	}).SignedString([]byte("secret"))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}

	cases := map[string]string{
		"expired":         expired,
		"wrong key":       wrongKey,
		"no user":         noUser,
		"fractional user": signNumericUserID(t, 1.5),
		"imprecise user":  signNumericUserID(t, 1<<60),
		"garbage":         "not-a-token",
	}
	for name, token := range cases {
		if _, err := good.Verify(token); !errors.Is(err, appErrors.ErrUnauthorized) {
			t.Fatalf("%s: got %v, want ErrUnauthorized", name, err)
		}
	}
}

func signNumericUserID(t *testing.T, id float64) string {
	t.Helper()
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"userId": id,
		"exp":    time.Now().Add(time.Hour).Unix(),
	}).SignedString([]byte("secret"))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return signed
}
