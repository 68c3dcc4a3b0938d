// Studyvibe - Study Resource Catalog
// Copyright 2026 Studyvibe Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/studyvibe/studyvibe

package auth

import (
	"crypto/subtle"
	"errors"

	"golang.org/x/crypto/bcrypt"
)

var (
	// ErrInvalidCredentials is returned for both an unknown admin ID
	// and a wrong password. The two cases are indistinguishable to the
	// caller so responses cannot leak which field was wrong.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrNotConfigured is returned when no admin credentials are set.
	ErrNotConfigured = errors.New("admin credentials not configured")
)

// Authenticator verifies the single configured admin account.
type Authenticator struct {
	adminID string
	pwdHash []byte
}

// NewAuthenticator creates an Authenticator for the configured admin.
// adminID and pwdHash (a bcrypt hash) may be empty, in which case every
// Authenticate call fails with ErrNotConfigured.
func NewAuthenticator(adminID, pwdHash string) *Authenticator {
	return &Authenticator{
		adminID: adminID,
		pwdHash: []byte(pwdHash),
	}
}

// Configured reports whether admin credentials are present.
func (a *Authenticator) Configured() bool {
	return a.adminID != "" && len(a.pwdHash) > 0
}

// Authenticate checks the supplied ID and password against the
// configured admin account. A wrong ID still runs a bcrypt comparison
// so the two failure modes take comparable time.
func (a *Authenticator) Authenticate(id, password string) error {
	if !a.Configured() {
		return ErrNotConfigured
	}

	idMatch := subtle.ConstantTimeCompare([]byte(id), []byte(a.adminID)) == 1

	err := bcrypt.CompareHashAndPassword(a.pwdHash, []byte(password))
	if !idMatch || err != nil {
		return ErrInvalidCredentials
	}
	return nil
}

// HashPassword generates a bcrypt hash for the given password using
// the default cost. Used by the passwd subcommand.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}
