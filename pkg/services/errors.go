package services

import (
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"
)

var (
	// ErrNotFound covers unknown ids and records owned by someone else, so
	// callers cannot probe for other users' data.
	ErrNotFound = errors.New("not found")

	// ErrForbidden is a role mismatch, e.g. a customer posting a food item.
	ErrForbidden = errors.New("not allowed for this account")

	// ErrSelfOrder is returned when a chef tries to order their own item.
	ErrSelfOrder = errors.New("you cannot order your own food item")

	// ErrInvalidCredentials does not say whether the email or the password
	// was wrong.
	ErrInvalidCredentials = errors.New("invalid email or password")
)

// ValidationError carries every user-correctable problem found in a
// submission.
type ValidationError struct {
	Messages []string
}

func (e *ValidationError) Error() string {
	return strings.Join(e.Messages, "; ")
}

// fieldErrors collects messages; Err returns nil when nothing was added.
type fieldErrors []string

func (f *fieldErrors) add(msg string) {
	*f = append(*f, msg)
}

// maxLen adds "<label> must be at most n characters." when s is longer than
// its column allows.
func (f *fieldErrors) maxLen(s string, n int, label string) {
	if utf8.RuneCountInString(s) > n {
		f.add(fmt.Sprintf("%s must be at most %d characters.", label, n))
	}
}

func (f fieldErrors) Err() error {
	if len(f) == 0 {
		return nil
	}
	return &ValidationError{Messages: append([]string(nil), f...)}
}

// ValidationMessages returns the messages of a *ValidationError, or nil.
func ValidationMessages(err error) []string {
	var verr *ValidationError
	if errors.As(err, &verr) {
		return verr.Messages
	}
	return nil
}
