package relay

import (
	"crypto/rand"
	"fmt"
	"strings"

	"relay/internal/pkg/errs"
)

const (
	// ConfirmationCodeLength is the number of characters in a confirmation code.
	ConfirmationCodeLength = 6

	// confirmationCodeAlphabet excludes characters that are easy to misread
	// when relayed verbally or typed from a screen (0/O, 1/I/L).
	confirmationCodeAlphabet = "ABCDEFGHJKMNPQRSTUVWXYZ23456789"
)

// ConfirmationCode is the short secret the outgoing courier relays out-of-band
// so the receiving courier can prove physical receipt of the parcel.
//
// Codes are human-enterable and only need to be unique among the currently
// open (unconfirmed) segments of a parcel, not globally across all time.
type ConfirmationCode string

// NewConfirmationCode generates a random confirmation code using crypto/rand.
func NewConfirmationCode() (ConfirmationCode, error) {
	buf := make([]byte, ConfirmationCodeLength)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("generate confirmation code: %w", err)
	}

	chars := make([]byte, ConfirmationCodeLength)
	for i, b := range buf {
		chars[i] = confirmationCodeAlphabet[int(b)%len(confirmationCodeAlphabet)]
	}

	return ConfirmationCode(chars), nil
}

// ConfirmationCodeFromString parses a code as typed by a courier.
// Input is upper-cased and trimmed before validation.
func ConfirmationCodeFromString(s string) (ConfirmationCode, error) {
	code := ConfirmationCode(strings.ToUpper(strings.TrimSpace(s)))
	if err := code.Validate(); err != nil {
		return "", err
	}
	return code, nil
}

// Validate checks the code length and alphabet.
func (c ConfirmationCode) Validate() error {
	if len(c) != ConfirmationCodeLength {
		return errs.NewValueIsInvalidErrorWithCause("confirmation code",
			fmt.Errorf("code must be %d characters", ConfirmationCodeLength))
	}

	for _, r := range c {
		if !strings.ContainsRune(confirmationCodeAlphabet, r) {
			return errs.NewValueIsInvalidErrorWithCause("confirmation code",
				fmt.Errorf("code contains an invalid character"))
		}
	}

	return nil
}

// Matches reports whether the typed input matches this code, ignoring case
// and surrounding whitespace.
func (c ConfirmationCode) Matches(typed string) bool {
	return string(c) == strings.ToUpper(strings.TrimSpace(typed))
}

// String returns the code text.
func (c ConfirmationCode) String() string {
	return string(c)
}
