package auth

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"time"

	appErrors "fitreminder/internal/pkg/errors"

	"github.com/golang-jwt/jwt/v5"
)

// maxExactUserID is the largest integer a JSON number carries without loss.
const maxExactUserID = 1 << 53

// Claims is the payload issued by the account service. The mobile client
// forwards the token unchanged; userId may be encoded as a string or a number.
type Claims struct {
	UserID interface{} `json:"userId"`
	Role   string      `json:"role,omitempty"`
	jwt.RegisteredClaims
}

// Identity is the authenticated caller extracted from a token.
type Identity struct {
	UserID string
	Role   string
}

// TokenVerifier validates HS256 bearer tokens.
type TokenVerifier struct {
	secret []byte
}

// NewTokenVerifier creates a verifier for tokens signed with secret.
func NewTokenVerifier(secret string) *TokenVerifier {
	return &TokenVerifier{secret: []byte(secret)}
}

// Verify parses and validates a token string and returns the caller identity.
// Every rejection wraps ErrUnauthorized.
func (v *TokenVerifier) Verify(tokenString string) (*Identity, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		// Ensure that the token's signing method is HMAC.
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return v.secret, nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", appErrors.ErrUnauthorized, err)
	}
	if !token.Valid {
		return nil, fmt.Errorf("%w: invalid token", appErrors.ErrUnauthorized)
	}

	userID, err := normalizeUserID(claims.UserID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", appErrors.ErrUnauthorized, err)
	}
	return &Identity{UserID: userID, Role: claims.Role}, nil
}

// Issue signs a token for userID. The service never hands tokens to clients;
// this exists for tooling and tests.
func (v *TokenVerifier) Issue(userID, role string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := Claims{
		UserID: userID,
		Role:   role,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(v.secret)
}

func normalizeUserID(raw interface{}) (string, error) {
	switch id := raw.(type) {
	case string:
		if id == "" {
			return "", errors.New("token does not contain a valid 'userId' claim")
		}
		return id, nil
	case float64:
		if id != math.Trunc(id) || math.Abs(id) > maxExactUserID {
			return "", fmt.Errorf("numeric 'userId' claim %v is not an exact integer", id)
		}
		return strconv.FormatInt(int64(id), 10), nil
	case nil:
		return "", errors.New("token does not contain a 'userId' claim")
	default:
		return "", fmt.Errorf("unsupported 'userId' claim type %T", raw)
	}
}
