// Package models holds the persisted record types of the backend.
package models

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
	"time"
)

// User is one registered person, stored as a single DynamoDB item keyed by ID.
//
// The lifecycle is two-state: a record without an activated timestamp is
// pending, a record with one is active. There is no deletion path.
type User struct {
	ID        string `json:"id" dynamodbav:"id"`
	Email     string `json:"email" dynamodbav:"email"`
	FirstName string `json:"firstName" dynamodbav:"firstName"`
	LastName  string `json:"lastName,omitempty" dynamodbav:"lastName,omitempty"`

	// PasswordHash is only populated when the caller explicitly asked the
	// directory to include it (the login path).
	PasswordHash string `json:"-" dynamodbav:"passwordHash,omitempty"`

	// VerifyToken authorizes the activation transition. Generated once at
	// creation, never rotated.
	VerifyToken string `json:"-" dynamodbav:"verifyToken,omitempty"`

	Activated *time.Time `json:"activated,omitempty" dynamodbav:"activated,omitempty"`
	Created   time.Time  `json:"created" dynamodbav:"created"`
}

// DeriveID computes the user identifier from an email address. It is a pure
// function of the normalized email, so duplicate registration surfaces as a
// key collision without a secondary index. The digest is stable and
// collision-resistant but not a secret and not a security boundary.
func DeriveID(email string) string {
	normalized := strings.ToLower(strings.TrimSpace(email))
	sum := sha256.Sum256([]byte(normalized))
	return hex.EncodeToString(sum[:])
}

// IsActivated reports whether the account left the pending state.
func (u *User) IsActivated() bool {
	return u.Activated != nil
}

// Redacted returns a copy safe to hand to an external caller. The rule is
// "clear every secret-bearing field", not a fixed field list: new secret
// fields must be cleared here too.
func (u *User) Redacted() *User {
	c := *u
	c.PasswordHash = ""
	c.VerifyToken = ""
	return &c
}
