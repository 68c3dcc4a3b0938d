// Studyvibe - Study Resource Catalog
// Copyright 2026 Studyvibe Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/studyvibe/studyvibe

package auth

import (
	"errors"
	"strings"
	"testing"

	"golang.org/x/crypto/bcrypt"
)

func testHash(t *testing.T, password string) string {
	t.Helper()
	h, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		t.Fatal(err)
	}
	return string(h)
}

func TestAuthenticate(t *testing.T) {
	a := NewAuthenticator("admin", testHash(t, "correct-horse"))

	if err := a.Authenticate("admin", "correct-horse"); err != nil {
		t.Errorf("valid credentials rejected: %v", err)
	}
}

func TestAuthenticateFailuresAreIdentical(t *testing.T) {
	a := NewAuthenticator("admin", testHash(t, "correct-horse"))

	wrongPwd := a.Authenticate("admin", "wrong")
	wrongID := a.Authenticate("intruder", "correct-horse")
	bothWrong := a.Authenticate("intruder", "wrong")

	for _, err := range []error{wrongPwd, wrongID, bothWrong} {
		if !errors.Is(err, ErrInvalidCredentials) {
			t.Errorf("expected ErrInvalidCredentials, got %v", err)
		}
	}

	// The error text must not reveal which field was wrong.
	if wrongPwd.Error() != wrongID.Error() {
		t.Error("failure messages differ between wrong ID and wrong password")
	}
}

func TestAuthenticateNotConfigured(t *testing.T) {
	for _, a := range []*Authenticator{
		NewAuthenticator("", ""),
		NewAuthenticator("admin", ""),
		NewAuthenticator("", testHash(t, "pw")),
	} {
		if err := a.Authenticate("admin", "pw"); !errors.Is(err, ErrNotConfigured) {
			t.Errorf("expected ErrNotConfigured, got %v", err)
		}
	}
}

func TestHashPassword(t *testing.T) {
	hash, err := HashPassword("secret-password")
	if err != nil {
		t.Fatalf("HashPassword(): %v", err)
	}
	if !strings.HasPrefix(hash, "$2a$") {
		t.Errorf("hash %q is not a bcrypt hash", hash)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte("secret-password")); err != nil {
		t.Errorf("generated hash does not verify: %v", err)
	}
}
