package commands

import (
	"fmt"
	"os"

	"github.com/urfave/cli/v3"

	"github.com/colonyops/hotspot/internal/core/residue"
	"github.com/colonyops/hotspot/internal/core/validate"
	"github.com/colonyops/hotspot/internal/hotspot"
	"github.com/colonyops/hotspot/pkg/iojson"
)

// targetFlags are the structure and canonical source flags shared by
// commands that work on one chain.
type targetFlags struct {
	pdb     string
	chain   string
	segment int
	uniprot string
	fasta   string
}

func (t *targetFlags) flags(withSource bool) []cli.Flag {
	flags := []cli.Flag{
		&cli.StringFlag{
			Name:        "pdb",
			Aliases:     []string{"p"},
			Usage:       "structure file (PDB format, .gz accepted)",
			Destination: &t.pdb,
			TakesFile:   true,
		},
		&cli.StringFlag{
			Name:        "chain",
			Aliases:     []string{"c"},
			Usage:       "chain to display (default: first chain)",
			Destination: &t.chain,
		},
		&cli.IntFlag{
			Name:        "segment",
			Usage:       "0-based index of the chain segment when the chain has gaps",
			Destination: &t.segment,
		},
	}
	if !withSource {
		return flags
	}
	return append(flags,
		&cli.StringFlag{
			Name:        "uniprot",
			Aliases:     []string{"u"},
			Usage:       "UniProt accession of the canonical sequence",
			Sources:     cli.EnvVars("HOTSPOT_UNIPROT"),
			Destination: &t.uniprot,
		},
		&cli.StringFlag{
			Name:        "fasta",
			Usage:       "read the canonical sequence from a FASTA file instead of UniProt",
			Destination: &t.fasta,
			TakesFile:   true,
		},
	)
}

func (t *targetFlags) validate() error {
	if t.pdb == "" {
		return fmt.Errorf("--pdb is required")
	}
	if t.chain != "" {
		if err := validate.ChainField("chain", t.chain); err != nil {
			return err
		}
	}
	if t.segment < 0 {
		return fmt.Errorf("--segment must not be negative")
	}
	return nil
}

func (t *targetFlags) load() (hotspot.Target, error) {
	return hotspot.LoadTarget(t.pdb, t.chain, t.segment)
}

// toolFormat resolves the output format from a flag, falling back to the
// configured default.
func toolFormat(flag string, app *hotspot.App) (residue.ToolFormat, error) {
	if flag == "" {
		return app.Config.ToolFormat(), nil
	}
	f, err := residue.ParseToolFormat(flag)
	if err != nil {
		return "", fmt.Errorf("--format: %w", err)
	}
	return f, nil
}

// selectionOutput is the JSON shape of a printed selection.
type selectionOutput struct {
	Format    residue.ToolFormat `json:"format"`
	Residues  []string           `json:"residues"`
	Formatted string             `json:"formatted"`
}

func writeSelection(c *cli.Command, sel residue.Selection, format residue.ToolFormat, atoms string, asJSON bool) error {
	formatted, err := residue.FormatFor(format, sel.IDs(), atoms)
	if err != nil {
		return err
	}

	if asJSON {
		residues := sel.Strings()
		if residues == nil {
			residues = []string{}
		}
		return iojson.WriteWith(c.Root().Writer, os.Stderr, selectionOutput{
			Format:    format,
			Residues:  residues,
			Formatted: formatted,
		})
	}

	_, err = fmt.Fprintln(c.Root().Writer, formatted)
	return err
}
