// Package validate provides shared validation functions for user supplied
// residue input.
package validate

import (
	"fmt"
	"strings"

	"github.com/hay-kot/criterio"

	"github.com/colonyops/hotspot/internal/core/residue"
)

// SuggestionName validates a suggestion name is non-empty after trimming whitespace.
func SuggestionName(name string) error {
	if strings.TrimSpace(name) == "" {
		return fmt.Errorf("name is required")
	}
	return nil
}

// ResidueString validates a strict "<chain>:<number>" string.
func ResidueString(s string) error {
	if _, ok := residue.Parse(s); !ok {
		return fmt.Errorf("%q is not a residue id like A:42", s)
	}
	return nil
}

// Chain validates a chain identifier.
func Chain(chain string) error {
	if _, ok := residue.New(chain, 1); !ok {
		return fmt.Errorf("%q is not a chain identifier", chain)
	}
	return nil
}

// ChainField returns a criterio validator for chain identifiers.
func ChainField(field, chain string) error {
	return criterio.Run(field, chain, Chain)
}

// Suggestions checks every group has a unique name and only well formed
// residue strings.
func Suggestions(groups []residue.SuggestionInput) error {
	var errs criterio.FieldErrorsBuilder
	seen := make(map[string]bool, len(groups))

	for i, g := range groups {
		field := fmt.Sprintf("suggestions[%d]", i)

		if err := SuggestionName(g.Name); err != nil {
			errs = errs.Append(field+".name", err)
			continue
		}
		if seen[g.Name] {
			errs = errs.Append(field+".name", fmt.Errorf("duplicate name %q", g.Name))
			continue
		}
		seen[g.Name] = true

		if len(g.Residues) == 0 {
			errs = errs.Append(field+".residues", fmt.Errorf("array is empty"))
			continue
		}
		for j, r := range g.Residues {
			if err := ResidueString(r); err != nil {
				errs = errs.Append(fmt.Sprintf("%s.residues[%d]", field, j), err)
			}
		}
	}

	return errs.ToError()
}
