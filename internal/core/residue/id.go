// Package residue defines residue identifiers, immutable residue selections,
// and advisory hotspot suggestions.
package residue

import (
	"strconv"
	"strings"
)

// ID identifies a single residue by chain and residue number. The zero value
// is the invalid ID; valid IDs are only produced by Parse and New.
type ID struct {
	Chain  string
	Number int
}

// New returns the ID for chain and number, or false when the chain is not
// made of ASCII letters or the number is not positive.
func New(chain string, number int) (ID, bool) {
	if !isLetters(chain) || number < 1 {
		return ID{}, false
	}
	return ID{Chain: chain, Number: number}, true
}

// Parse parses the canonical "<chain>:<number>" form. Only letter(s):digits
// is accepted; anything else yields the invalid ID and false.
func Parse(s string) (ID, bool) {
	chain, digits, ok := strings.Cut(s, ":")
	if !ok || !isDigits(digits) {
		return ID{}, false
	}

	n, err := strconv.Atoi(digits)
	if err != nil {
		return ID{}, false
	}

	return New(chain, n)
}

// Format returns the canonical string form for chain and number.
func Format(chain string, number int) string {
	return chain + ":" + strconv.Itoa(number)
}

// String implements fmt.Stringer using the canonical form.
func (id ID) String() string {
	if !id.IsValid() {
		return ""
	}
	return Format(id.Chain, id.Number)
}

// IsValid reports whether id was produced by a successful Parse or New.
func (id ID) IsValid() bool {
	return id.Chain != "" && id.Number > 0
}

// MarshalText implements encoding.TextMarshaler.
func (id ID) MarshalText() ([]byte, error) {
	return []byte(id.String()), nil
}

func isLetters(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		c := s[i]
		if (c < 'a' || c > 'z') && (c < 'A' || c > 'Z') {
			return false
		}
	}
	return true
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}
