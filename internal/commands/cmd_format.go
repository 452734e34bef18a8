package commands

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/colonyops/hotspot/internal/core/residue"
	"github.com/colonyops/hotspot/internal/hotspot"
)

type FormatCmd struct {
	flags *Flags
	app   *hotspot.App

	// flags
	chain      string
	format     string
	jsonOutput bool
}

// NewFormatCmd creates a new format command
func NewFormatCmd(flags *Flags, app *hotspot.App) *FormatCmd {
	return &FormatCmd{flags: flags, app: app}
}

// Register adds the format command to the application
func (cmd *FormatCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:      "format",
		Usage:     "Normalize hotspot residues and print them for a design tool",
		UsageText: "hotspot format [--chain A] [--format rfd3] RESIDUE...",
		Description: `Accepts loosely written residues such as A:10, B20, a-30 or bare
numbers (assigned to --chain), drops duplicates and prints them in the
requested format. Unparseable entries are skipped.`,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "chain",
				Aliases:     []string{"c"},
				Usage:       "chain assigned to bare residue numbers",
				Destination: &cmd.chain,
			},
			&cli.StringFlag{
				Name:        "format",
				Aliases:     []string{"f"},
				Usage:       "output format (colon, compact, rfd3); defaults to hotspots.format",
				Destination: &cmd.format,
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

func (cmd *FormatCmd) run(_ context.Context, c *cli.Command) error {
	format, err := toolFormat(cmd.format, cmd.app)
	if err != nil {
		return err
	}

	args := c.Args().Slice()
	if len(args) == 0 {
		return fmt.Errorf("at least one residue is required")
	}

	ids := residue.NormalizeAll(splitResidues(args), cmd.chain)
	return writeSelection(c, residue.NewSelection(ids...), format, cmd.app.Config.Hotspots.RFD3Atoms, cmd.jsonOutput)
}
