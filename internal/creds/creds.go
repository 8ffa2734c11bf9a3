// ABOUTME: Credential and project resolution for chost commands
// ABOUTME: Handles COHOST_* environment variables and flag overrides

package creds

import (
	"errors"
	"os"
	"strings"
)

// Credentials is what a login needs.
type Credentials struct {
	Email    string
	Password string
}

// Resolve reads credentials from $COHOST_EMAIL and $COHOST_PASSWORD.
func Resolve() (Credentials, error) {
	email := os.Getenv("COHOST_EMAIL")
	if email == "" {
		return Credentials{}, errors.New("COHOST_EMAIL is not set")
	}
	password := os.Getenv("COHOST_PASSWORD")
	if password == "" {
		return Credentials{}, errors.New("COHOST_PASSWORD is not set")
	}
	return Credentials{Email: email, Password: password}, nil
}

// Project returns the project handle to post as.
// If override is provided (the --project flag), uses that.
// Otherwise $COHOST_PROJECT, then the configured default.
func Project(override, configured string) string {
	if override != "" {
		return override
	}
	if env := os.Getenv("COHOST_PROJECT"); env != "" {
		return env
	}
	return configured
}

// SplitEmail splits an email address into local part and domain.
func SplitEmail(email string) (local, domain string) {
	parts := strings.SplitN(email, "@", 2)
	if len(parts) == 2 {
		return parts[0], parts[1]
	}
	return email, ""
}
