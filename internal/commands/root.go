package commands

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/colonyops/hotspot/internal/hotspot"
)

// NewRoot builds the hotspot command tree without lifecycle hooks. app may
// be an empty App that is populated later in a Before hook; commands only
// dereference it when they run.
func NewRoot(flags *Flags, app *hotspot.App) *cli.Command {
	root := &cli.Command{
		Name:      "hotspot",
		Usage:     "Pick hotspot residues on a protein structure",
		UsageText: "hotspot [global options] [command] [command options]",
		Description: `Hotspot displays one chain of a structure as a wrapped sequence and lets
you select residues with the mouse, in the structure's own numbering or in
the canonical UniProt numbering.

Run 'hotspot --pdb FILE' to open the picker.
Run 'hotspot map' to see where a chain sits in its canonical sequence.`,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "log-level",
				Usage:       "log level (debug, info, warn, error, fatal, panic)",
				Sources:     cli.EnvVars("HOTSPOT_LOG_LEVEL"),
				Value:       "info",
				Destination: &flags.LogLevel,
			},
			&cli.StringFlag{
				Name:        "log-file",
				Usage:       "path to log file (defaults to <data-dir>/hotspot.log)",
				Sources:     cli.EnvVars("HOTSPOT_LOG_FILE"),
				Destination: &flags.LogFile,
			},
			&cli.StringFlag{
				Name:        "config",
				Usage:       "path to config file",
				Sources:     cli.EnvVars("HOTSPOT_CONFIG"),
				Value:       DefaultConfigPath(),
				Destination: &flags.ConfigPath,
			},
			&cli.StringFlag{
				Name:        "data-dir",
				Usage:       "path to data directory",
				Sources:     cli.EnvVars("HOTSPOT_DATA_DIR"),
				Value:       DefaultDataDir(),
				Destination: &flags.DataDir,
			},
		},
	}

	pickCmd := NewPickCmd(flags, app)

	root = pickCmd.Register(root)
	root = NewMapCmd(flags, app).Register(root)
	root = NewFormatCmd(flags, app).Register(root)
	root = NewFetchCmd(flags, app).Register(root)
	root = NewCacheCmd(flags, app).Register(root)
	root = NewDoctorCmd(flags, app).Register(root)
	root = NewConfigValidateCmd(flags).Register(root)

	// Register picker flags on root command
	root.Flags = append(root.Flags, pickCmd.Flags()...)

	// Set the picker as default action when no subcommand is provided
	root.Action = func(ctx context.Context, c *cli.Command) error {
		if c.Args().Len() > 0 {
			return fmt.Errorf("unknown command %q. Run 'hotspot --help' for usage", c.Args().First())
		}
		return pickCmd.Run(ctx, c)
	}

	return root
}
