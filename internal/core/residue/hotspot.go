package residue

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// Suggestion is a named, advisory group of residues proposed by an external
// source. It is never edited by the selection engine.
type Suggestion struct {
	Name     string
	Residues []ID
}

// SuggestionInput is the loose shape suggestions arrive in.
type SuggestionInput struct {
	Name     string   `json:"name" yaml:"name"`
	Residues []string `json:"residues" yaml:"residues"`
}

// ParseSuggestions converts raw suggestion groups, dropping malformed residue
// strings. Groups left without residues are kept so callers can still list
// them by name.
func ParseSuggestions(groups []SuggestionInput) []Suggestion {
	out := make([]Suggestion, 0, len(groups))
	for _, g := range groups {
		s := Suggestion{Name: g.Name}
		for _, raw := range g.Residues {
			if id, ok := Parse(raw); ok {
				s.Residues = append(s.Residues, id)
			}
		}
		out = append(out, s)
	}
	return out
}

// SuggestedSet flattens suggestions into a lookup set.
func SuggestedSet(suggestions []Suggestion) map[ID]struct{} {
	set := make(map[ID]struct{})
	for _, s := range suggestions {
		for _, id := range s.Residues {
			set[id] = struct{}{}
		}
	}
	return set
}

var looseResidue = regexp.MustCompile(`([A-Za-z])\s*[:\-_/]?\s*(\d+)`)

// Normalize leniently parses hotspot strings handed in from outside, such as
// "A:10", "B20", "A-30" or "a_5". A bare number is assigned to defaultChain
// when one is given. Chains are upper-cased.
func Normalize(raw, defaultChain string) (ID, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ID{}, false
	}

	var chain, digits string
	switch m := looseResidue.FindStringSubmatch(raw); {
	case m != nil:
		chain, digits = m[1], m[2]
	case isDigits(raw) && defaultChain != "":
		chain, digits = defaultChain, raw
	default:
		return ID{}, false
	}

	n, err := strconv.Atoi(digits)
	if err != nil {
		return ID{}, false
	}
	return New(strings.ToUpper(chain), n)
}

// NormalizeAll applies Normalize to every entry and drops failures and
// duplicates.
func NormalizeAll(raw []string, defaultChain string) []ID {
	ids := make([]ID, 0, len(raw))
	for _, r := range raw {
		if id, ok := Normalize(r, defaultChain); ok {
			ids = append(ids, id)
		}
	}
	return NewSelection(ids...).IDs()
}

// ToolFormat names an output format accepted by downstream design tools.
type ToolFormat string

const (
	FormatColon   ToolFormat = "colon"   // A:10,A:11
	FormatCompact ToolFormat = "compact" // A10,A11 (ProteinMPNN, mBER)
	FormatRFD3    ToolFormat = "rfd3"    // {"A10":"ALL"}
)

// ToolFormats lists the supported formats.
func ToolFormats() []ToolFormat {
	return []ToolFormat{FormatColon, FormatCompact, FormatRFD3}
}

// ParseToolFormat validates a format name.
func ParseToolFormat(s string) (ToolFormat, error) {
	for _, f := range ToolFormats() {
		if string(f) == s {
			return f, nil
		}
	}
	return "", fmt.Errorf("unknown format %q", s)
}

// FormatFor renders ids for a downstream tool. atoms is only used by
// FormatRFD3 and defaults to "ALL". An empty ids list renders as "".
func FormatFor(format ToolFormat, ids []ID, atoms string) (string, error) {
	if len(ids) == 0 {
		return "", nil
	}

	switch format {
	case FormatColon:
		parts := make([]string, len(ids))
		for i, id := range ids {
			parts[i] = id.String()
		}
		return strings.Join(parts, ","), nil
	case FormatCompact:
		parts := make([]string, len(ids))
		for i, id := range ids {
			parts[i] = compact(id)
		}
		return strings.Join(parts, ","), nil
	case FormatRFD3:
		atoms = strings.TrimSpace(atoms)
		if atoms == "" {
			atoms = "ALL"
		}
		sel := make(map[string]string, len(ids))
		for _, id := range ids {
			sel[compact(id)] = atoms
		}
		b, err := json.Marshal(sel)
		if err != nil {
			return "", fmt.Errorf("marshal rfd3 selection: %w", err)
		}
		return string(b), nil
	default:
		return "", fmt.Errorf("unknown format %q", format)
	}
}

func compact(id ID) string {
	return strings.ToUpper(id.Chain) + strconv.Itoa(id.Number)
}
