package commands

import (
	"context"
	"fmt"
	"os"

	"github.com/urfave/cli/v3"

	"github.com/colonyops/hotspot/internal/core/canonical"
	"github.com/colonyops/hotspot/internal/core/fasta"
	"github.com/colonyops/hotspot/internal/hotspot"
	"github.com/colonyops/hotspot/internal/integration/uniprot"
	"github.com/colonyops/hotspot/pkg/iojson"
)

type FetchCmd struct {
	flags *Flags
	app   *hotspot.App

	// flags
	refresh    bool
	jsonOutput bool
}

// NewFetchCmd creates a new fetch command
func NewFetchCmd(flags *Flags, app *hotspot.App) *FetchCmd {
	return &FetchCmd{flags: flags, app: app}
}

// Register adds the fetch command to the application
func (cmd *FetchCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:      "fetch",
		Usage:     "Fetch a canonical sequence from UniProt",
		UsageText: "hotspot fetch [--refresh] [--json] ACCESSION...",
		Description: `Prints canonical sequences as FASTA. Sequences are read through the
local cache; --refresh skips it and stores the fresh copy.`,
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:        "refresh",
				Usage:       "bypass the cache",
				Destination: &cmd.refresh,
			},
			&cli.BoolFlag{
				Name:        "json",
				Usage:       "output as JSON",
				Destination: &cmd.jsonOutput,
			},
		},
		Action: cmd.run,
	})

	return app
}

func (cmd *FetchCmd) run(ctx context.Context, c *cli.Command) error {
	args := c.Args().Slice()
	if len(args) == 0 {
		return fmt.Errorf("at least one accession is required")
	}

	accessions := make([]string, 0, len(args))
	for _, a := range args {
		acc, err := uniprot.NormalizeAccession(a)
		if err != nil {
			return err
		}
		accessions = append(accessions, acc)
	}

	entries := make([]canonical.Entry, 0, len(accessions))
	for _, acc := range accessions {
		var (
			e   canonical.Entry
			err error
		)
		if cmd.refresh {
			e, err = cmd.app.Canonical.Refresh(ctx, acc)
		} else {
			e, err = cmd.app.Canonical.Fetch(ctx, acc)
		}
		if err != nil {
			return fmt.Errorf("fetch %s: %w", acc, err)
		}
		entries = append(entries, e)
	}

	if cmd.jsonOutput {
		return iojson.WriteWith(c.Root().Writer, os.Stderr, entries)
	}

	for _, e := range entries {
		id := e.EntryID
		if id == "" {
			id = e.Accession
		}
		if err := fasta.Write(c.Root().Writer, fasta.Record{ID: id, Description: e.Description, Sequence: e.Sequence}); err != nil {
			return err
		}
	}
	return nil
}
