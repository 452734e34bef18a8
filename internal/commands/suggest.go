package commands

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/colonyops/hotspot/internal/core/residue"
	"github.com/colonyops/hotspot/internal/core/validate"
)

// splitResidues splits flag values on commas and whitespace.
func splitResidues(values []string) []string {
	var out []string
	for _, v := range values {
		out = append(out, strings.FieldsFunc(v, func(r rune) bool {
			return r == ',' || r == ' ' || r == '\t'
		})...)
	}
	return out
}

// parseSuggestFlags reads --suggest values of the form "name=A:1,A:2". The
// CLI may split a value on its commas; pieces without a name continue the
// previous group.
func parseSuggestFlags(values []string) ([]residue.SuggestionInput, error) {
	var groups []residue.SuggestionInput
	for _, v := range values {
		name, rest, named := strings.Cut(v, "=")
		if named {
			groups = append(groups, residue.SuggestionInput{Name: strings.TrimSpace(name)})
		} else {
			if len(groups) == 0 {
				return nil, fmt.Errorf("--suggest %q: expected name=RESIDUES", v)
			}
			rest = v
		}
		last := &groups[len(groups)-1]
		last.Residues = append(last.Residues, splitResidues([]string{rest})...)
	}
	return groups, nil
}

// buildSuggestions merges flag and file input, validates it and converts it.
func buildSuggestions(flagValues []string, fromFile []residue.SuggestionInput) ([]residue.Suggestion, error) {
	groups, err := parseSuggestFlags(flagValues)
	if err != nil {
		return nil, err
	}
	groups = append(groups, fromFile...)

	if err := validate.Suggestions(groups); err != nil {
		return nil, fmt.Errorf("invalid suggestions: %w", err)
	}
	return residue.ParseSuggestions(groups), nil
}

// parseSelection turns raw residue strings into a selection, accepting the
// loose forms handled by residue.Normalize. Unparseable values are errors.
func parseSelection(raw []string, defaultChain string) (residue.Selection, error) {
	var ids []residue.ID
	for _, s := range splitResidues(raw) {
		id, ok := parseResidue(s, defaultChain)
		if !ok {
			return residue.Selection{}, fmt.Errorf("%q is not a residue", s)
		}
		ids = append(ids, id)
	}
	return residue.NewSelection(ids...), nil
}

// parseResidue keeps chain case where it can: PDB chain IDs are case
// sensitive, so "a:5" and a bare "5" on chain a must stay on chain a.
// Loose forms go through residue.Normalize, which upper-cases, and are
// mapped back onto defaultChain when only the case differs.
func parseResidue(s, defaultChain string) (residue.ID, bool) {
	if id, ok := residue.Parse(s); ok {
		return id, true
	}
	if n, err := strconv.Atoi(s); err == nil {
		return residue.New(defaultChain, n)
	}

	id, ok := residue.Normalize(s, defaultChain)
	if ok && id.Chain != defaultChain && strings.EqualFold(id.Chain, defaultChain) {
		return residue.New(defaultChain, id.Number)
	}
	return id, ok
}
