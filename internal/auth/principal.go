// Package auth implements credential verification, bearer token issuance
// and per-request identity resolution.
package auth

import "github.com/nikolaslacerda/book-store-manager/internal/users"

// Principal is the authenticated caller's identity for the duration of a
// single request. It is built fresh from the stored user on every request
// and never cached.
type Principal struct {
	Username     string
	PasswordHash string
	Authorities  []string
}

// NewPrincipal derives a Principal from a stored user record.
func NewPrincipal(user *users.User) *Principal {
	return &Principal{
		Username:     user.Username,
		PasswordHash: user.Password,
		Authorities:  []string{user.Role.Authority()},
	}
}
