package auth

import "strings"

// Decision is the outcome of authorizing one inbound protected request.
// There are exactly two terminal outcomes: allow with a subject, or deny.
type Decision struct {
	Allowed   bool
	SubjectID string
}

// Authorizer verifies a bearer token per request. It is stateless and
// side-effect-free beyond the token verification, so a single instance is
// safe to share across concurrent invocations.
type Authorizer struct {
	tokens *TokenService
}

func NewAuthorizer(tokens *TokenService) *Authorizer {
	return &Authorizer{tokens: tokens}
}

// Authorize derives an access decision from a raw bearer token. A missing
// token is treated identically to an invalid one: deny.
func (a *Authorizer) Authorize(token string) Decision {
	if token == "" {
		return Decision{}
	}
	subject, err := a.tokens.Verify(token)
	if err != nil {
		return Decision{}
	}
	return Decision{Allowed: true, SubjectID: subject}
}

// BearerFromHeader extracts the token from an Authorization header value.
// Both "Bearer <token>" and a bare token are accepted, matching what API
// Gateway forwards to a TOKEN authorizer.
func BearerFromHeader(header string) string {
	header = strings.TrimSpace(header)
	if len(header) >= 7 && strings.EqualFold(header[:7], "Bearer ") {
		return strings.TrimSpace(header[7:])
	}
	return header
}
