package auth // auth implements token issuance/verification and password hashing

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5" // JWT library for creating and parsing signed tokens

	"github.com/autospa/carwash-booking/internal/model"
)

// TokenTTL is the fixed lifetime of an issued token. Tokens are stateless:
// nothing is persisted server-side and there is no revocation, so validity
// is purely a function of the signature and this expiry window.
const TokenTTL = 24 * time.Hour

// Verification failure kinds. Callers treat all three the same way (reject
// with 401) but they stay distinguishable for logging and tests.
var (
	ErrTokenMalformed = errors.New("token malformed")
	ErrTokenExpired   = errors.New("token expired")
	ErrTokenSignature = errors.New("token signature invalid")
)

// Identity is the decoded subject of a verified token. Beyond the subject
// id and role it must be treated as untrusted input: anything else a
// handler needs is re-read from the store.
type Identity struct {
	UserID uint64
	Role   model.Role
}

// TokenService signs and verifies HS256 identity assertions. The signing
// secret is injected at construction; business logic never reads it from
// the environment directly.
type TokenService struct {
	secret []byte
	ttl    time.Duration
}

// NewTokenService builds a TokenService around the given signing secret.
func NewTokenService(secret string) *TokenService {
	return &TokenService{secret: []byte(secret), ttl: TokenTTL}
}

// Issue produces a signed JWT for the given user. The claims carry the
// subject (sub), role, issued-at (iat) and expiry (exp, issued-at + 24h).
// The expiry time is returned alongside the token so handlers can include
// it in the login response.
func (s *TokenService) Issue(userID uint64, role model.Role) (string, time.Time, error) {
	now := time.Now().UTC()
	exp := now.Add(s.ttl)
	claims := jwt.MapClaims{
		"sub":  userID,
		"role": string(role),
		"iat":  now.Unix(),
		"exp":  exp.Unix(),
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := t.SignedString(s.secret)
	if err != nil {
		return "", time.Time{}, err
	}
	return signed, exp, nil
}

// Verify parses and validates a token string and returns the identity it
// asserts. Failures map onto exactly one of ErrTokenMalformed,
// ErrTokenExpired or ErrTokenSignature. Tokens signed with a non-HMAC
// method are rejected as signature failures.
func (s *TokenService) Verify(raw string) (Identity, error) {
	tok, err := jwt.Parse(raw, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrTokenSignatureInvalid
		}
		return s.secret, nil
	})
	if err != nil {
		switch {
		case errors.Is(err, jwt.ErrTokenExpired):
			return Identity{}, ErrTokenExpired
		case errors.Is(err, jwt.ErrTokenSignatureInvalid):
			return Identity{}, ErrTokenSignature
		default:
			return Identity{}, ErrTokenMalformed
		}
	}
	claims, ok := tok.Claims.(jwt.MapClaims)
	if !ok || !tok.Valid {
		return Identity{}, ErrTokenMalformed
	}
	// Numeric claims decode as float64.
	sub, ok := claims["sub"].(float64)
	if !ok || sub <= 0 {
		return Identity{}, ErrTokenMalformed
	}
	roleStr, _ := claims["role"].(string)
	role, ok := model.ParseRole(roleStr)
	if !ok {
		return Identity{}, ErrTokenMalformed
	}
	return Identity{UserID: uint64(sub), Role: role}, nil
}
