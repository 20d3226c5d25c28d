package services

import (
	"errors"
	"fmt"
	"strings"
	"unicode"

	passwordvalidator "github.com/wagslane/go-password-validator"
)

// PasswordChecker is one rule of a password policy. Check returns nil when
// the password passes. attrs are user attributes (name, email) the password
// should not resemble.
type PasswordChecker interface {
	Check(password string, attrs []string) error
}

// PasswordPolicy runs every checker and reports each failure separately.
type PasswordPolicy []PasswordChecker

// Validate returns one message per failing checker.
func (p PasswordPolicy) Validate(password string, attrs ...string) []string {
	var msgs []string
	for _, checker := range p {
		if err := checker.Check(password, attrs); err != nil {
			msgs = append(msgs, err.Error())
		}
	}
	return msgs
}

// DefaultPasswordPolicy mirrors the usual web-framework defaults plus an
// entropy floor.
func DefaultPasswordPolicy() PasswordPolicy {
	return PasswordPolicy{
		MinLengthChecker{Min: 8},
		SimilarityChecker{MaxRatio: 0.7},
		CommonPasswordChecker{},
		NumericChecker{},
		EntropyChecker{MinBits: 45},
	}
}

type MinLengthChecker struct {
	Min int
}

func (m MinLengthChecker) Check(password string, _ []string) error {
	if len([]rune(password)) < m.Min {
		return fmt.Errorf("This password is too short. It must contain at least %d characters.", m.Min)
	}
	return nil
}

// SimilarityChecker rejects passwords too close to the user's own details.
type SimilarityChecker struct {
	MaxRatio float64
}

func (s SimilarityChecker) Check(password string, attrs []string) error {
	pw := strings.ToLower(password)
	if pw == "" {
		return nil
	}
	for _, attr := range attrs {
		for _, part := range attributeParts(attr) {
			if len(part) < 3 {
				continue
			}
			if strings.Contains(pw, part) || similarity(pw, part) >= s.MaxRatio {
				return errors.New("The password is too similar to your personal details.")
			}
		}
	}
	return nil
}

// attributeParts splits "Asha Rao" or "asha.rao@example.com" into the whole
// value and its words.
func attributeParts(attr string) []string {
	attr = strings.ToLower(strings.TrimSpace(attr))
	if attr == "" {
		return nil
	}
	parts := []string{attr}
	if at := strings.IndexByte(attr, '@'); at > 0 {
		parts = append(parts, attr[:at])
	}
	parts = append(parts, strings.FieldsFunc(attr, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})...)
	return parts
}

// similarity is 2*L/(len(a)+len(b)) where L is the longest common substring.
func similarity(a, b string) float64 {
	ra, rb := []rune(a), []rune(b)
	if len(ra) == 0 || len(rb) == 0 {
		return 0
	}
	best := 0
	prev := make([]int, len(rb)+1)
	for i := 1; i <= len(ra); i++ {
		cur := make([]int, len(rb)+1)
		for j := 1; j <= len(rb); j++ {
			if ra[i-1] == rb[j-1] {
				cur[j] = prev[j-1] + 1
				if cur[j] > best {
					best = cur[j]
				}
			}
		}
		prev = cur
	}
	return 2 * float64(best) / float64(len(ra)+len(rb))
}

var commonPasswords = map[string]struct{}{
	"password": {}, "password1": {}, "password123": {}, "12345678": {}, "123456789": {},
	"1234567890": {}, "qwertyuiop": {}, "qwerty123": {}, "iloveyou": {}, "sunshine": {},
	"princess": {}, "football": {}, "baseball": {}, "welcome1": {}, "letmein1": {},
	"admin123": {}, "abc12345": {}, "11111111": {}, "00000000": {}, "passw0rd": {},
	"trustno1": {}, "superman": {}, "starwars": {}, "whatever": {}, "computer": {},
}

type CommonPasswordChecker struct{}

func (CommonPasswordChecker) Check(password string, _ []string) error {
	if _, ok := commonPasswords[strings.ToLower(password)]; ok {
		return errors.New("This password is too common.")
	}
	return nil
}

type NumericChecker struct{}

func (NumericChecker) Check(password string, _ []string) error {
	if password == "" {
		return nil
	}
	for _, r := range password {
		if !unicode.IsDigit(r) {
			return nil
		}
	}
	return errors.New("This password is entirely numeric.")
}

// EntropyChecker enforces a minimum complexity measured in bits.
type EntropyChecker struct {
	MinBits float64
}

func (e EntropyChecker) Check(password string, _ []string) error {
	if password == "" {
		return nil
	}
	if err := passwordvalidator.Validate(password, e.MinBits); err != nil {
		return fmt.Errorf("This password is too weak: %s.", strings.TrimSuffix(err.Error(), "."))
	}
	return nil
}
