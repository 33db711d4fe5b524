package auth

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/flado/awareness/internal/common"
)

// tokenLeeway absorbs small clock drift between the issuing and verifying
// hosts when checking expiry.
const tokenLeeway = 30 * time.Second

// TokenService issues and verifies signed session tokens. The signing secret
// is process-wide, loaded once at cold start and never rotated at runtime.
type TokenService struct {
	secret   []byte
	validity time.Duration
}

func NewTokenService(secret []byte, validity time.Duration) *TokenService {
	return &TokenService{secret: secret, validity: validity}
}

// Issue produces an HS256-signed token whose only claim of consequence is the
// subject identifier. Expiry is absolute from issuance; there is no refresh.
func (s *TokenService) Issue(subjectID string) (string, error) {
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   subjectID,
		ID:        uuid.NewString(),
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(s.validity)),
	})
	return token.SignedString(s.secret)
}

// Verify returns the subject identifier carried by a token. A bad signature,
// malformed structure, or expired token all fail with common.ErrInvalidToken;
// validity is determined purely by signature and expiry, there is no
// server-side session state.
func (s *TokenService) Verify(tokenString string) (string, error) {
	claims := &jwt.RegisteredClaims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, common.ErrInvalidToken
		}
		return s.secret, nil
	}, jwt.WithLeeway(tokenLeeway))
	if err != nil || !token.Valid {
		return "", common.ErrInvalidToken
	}

	if claims.Subject == "" {
		return "", common.ErrInvalidToken
	}
	return claims.Subject, nil
}
