// Package seq normalizes and validates protein sequences in one-letter code.
package seq

import (
	"fmt"
	"strings"
	"unicode"
)

// MaxLength is the longest sequence accepted for a prediction request.
const MaxLength = 4000

// Standard one-letter aminoacid codes plus the B, Z, J, X ambiguity codes.
const alphabet = "ARNDCQEGHILKMFPSTWYVBZJX"

// Kind classifies a sequence validation failure.
type Kind string

const (
	Empty        Kind = "empty"
	InvalidToken Kind = "invalid-token"
	TooLong      Kind = "too-long"
)

// ValidationError describes why a sequence was rejected.
// Position and Token are only set for InvalidToken failures.
type ValidationError struct {
	Kind     Kind
	Position int // 1-indexed position of the offending token
	Token    rune
}

func (e *ValidationError) Error() string {
	switch e.Kind {
	case InvalidToken:
		return fmt.Sprintf("invalid token %q at position %d", e.Token, e.Position)
	case TooLong:
		return fmt.Sprintf("sequence too long (>%d)", MaxLength)
	}
	return "empty sequence"
}

// Clean normalizes raw input into an uppercase sequence with all whitespace
// and invisible separators removed, then validates it. Already-normalized
// valid sequences pass through unchanged.
func Clean(raw string) (string, error) {
	s := normalize(raw)
	if s == "" {
		return "", &ValidationError{Kind: Empty}
	}
	for i, r := range []rune(s) {
		if !strings.ContainsRune(alphabet, r) {
			return "", &ValidationError{Kind: InvalidToken, Position: i + 1, Token: r}
		}
	}
	if len(s) > MaxLength {
		return "", &ValidationError{Kind: TooLong}
	}
	return s, nil
}

// normalize uppercases and strips whitespace plus the invisible characters
// commonly carried along when a sequence is pasted from a web page.
func normalize(raw string) string {
	var b strings.Builder
	b.Grow(len(raw))
	for _, r := range raw {
		switch r {
		case ' ', '​', '‌', '‍':
			continue
		}
		if unicode.IsSpace(r) {
			continue
		}
		b.WriteRune(unicode.ToUpper(r))
	}
	return b.String()
}
