package commands

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/urfave/cli/v3"

	"github.com/colonyops/hotspot/internal/core/logging"
	"github.com/colonyops/hotspot/internal/hotspot"
	"github.com/colonyops/hotspot/pkg/iojson"
)

type MapCmd struct {
	flags *Flags
	app   *hotspot.App

	// flags
	target     targetFlags
	jsonOutput bool
}

// NewMapCmd creates a new map command
func NewMapCmd(flags *Flags, app *hotspot.App) *MapCmd {
	return &MapCmd{flags: flags, app: app}
}

// Register adds the map command to the application
func (cmd *MapCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:      "map",
		Usage:     "Show where a chain sits in its canonical sequence",
		UsageText: "hotspot map --pdb FILE [--chain A] (--uniprot ACC | --fasta FILE) [--json]",
		Description: `Locates the structure's chain segment in the canonical sequence and
prints the canonical range and the offset between residue numbers and
canonical indices.`,
		Flags: append(cmd.target.flags(true), &cli.BoolFlag{
			Name:        "json",
			Usage:       "output as JSON",
			Destination: &cmd.jsonOutput,
		}),
		Action: cmd.run,
	})

	return app
}

func (cmd *MapCmd) run(ctx context.Context, c *cli.Command) error {
	if err := cmd.target.validate(); err != nil {
		return err
	}

	target, err := cmd.target.load()
	if err != nil {
		return err
	}
	ctx = logging.WithScope(ctx, logging.Scope{Target: target.Path, Chain: target.Chain})

	src, accession, err := cmd.app.SourceFor(cmd.target.uniprot, cmd.target.fasta)
	if err != nil {
		return err
	}
	if src == nil {
		return fmt.Errorf("either --uniprot or --fasta is required")
	}
	ctx = logging.WithScope(ctx, logging.Scope{Accession: accession})

	entry, err := src.Fetch(ctx, accession)
	if err != nil {
		return fmt.Errorf("fetch %s: %w", accession, err)
	}

	report := hotspot.BuildMapReport(target.Window(), entry)

	if cmd.jsonOutput {
		return iojson.WriteWith(c.Root().Writer, os.Stderr, report)
	}

	w := tabwriter.NewWriter(c.Root().Writer, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintf(w, "chain\t%s\n", report.Chain)
	_, _ = fmt.Fprintf(w, "accession\t%s (%d aa)\n", report.Accession, report.CanonicalLength)
	_, _ = fmt.Fprintf(w, "structure\t%d-%d (%d aa)\n", report.StartNumber, report.EndNumber, report.WindowLength)
	if report.Found {
		_, _ = fmt.Fprintf(w, "canonical\t%d-%d\n", report.CanonicalStart, report.CanonicalEnd)
		_, _ = fmt.Fprintf(w, "offset\t%+d\n", report.Offset)
	} else {
		_, _ = fmt.Fprintf(w, "canonical\tnot found\n")
	}
	if err := w.Flush(); err != nil {
		return err
	}

	if !report.Found {
		return fmt.Errorf("chain %s sequence not found in %s", report.Chain, report.Accession)
	}
	return nil
}
