package commands

import (
	"context"
	"fmt"
	"os"

	tea "charm.land/bubbletea/v2"
	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v3"

	"github.com/colonyops/hotspot/internal/core/canonical"
	"github.com/colonyops/hotspot/internal/core/logging"
	"github.com/colonyops/hotspot/internal/core/residue"
	"github.com/colonyops/hotspot/internal/core/seqmap"
	"github.com/colonyops/hotspot/internal/hotspot"
	"github.com/colonyops/hotspot/internal/tui"
	"github.com/colonyops/hotspot/pkg/iojson"
	"github.com/colonyops/hotspot/pkg/profiler"
)

type PickCmd struct {
	flags *Flags
	app   *hotspot.App

	// flags
	target      targetFlags
	selected    []string
	suggest     []string
	suggestFile iojson.FileReader[[]residue.SuggestionInput]
	canonical   bool
	format      string
	jsonOutput  bool
}

// NewPickCmd creates a new pick command
func NewPickCmd(flags *Flags, app *hotspot.App) *PickCmd {
	return &PickCmd{
		flags: flags,
		app:   app,
		suggestFile: iojson.FileReader[[]residue.SuggestionInput]{
			Name:     "suggest-file",
			Usage:    `JSON file of suggestion groups: [{"name": "...", "residues": ["A:1"]}] ("-" for stdin)`,
			Optional: true,
		},
	}
}

// Flags returns the pick flags for registration on the root command.
func (cmd *PickCmd) Flags() []cli.Flag {
	flags := cmd.target.flags(true)
	return append(flags,
		&cli.StringSliceFlag{
			Name:        "selected",
			Usage:       "residues selected on start (A:10, B20, ...)",
			Destination: &cmd.selected,
		},
		&cli.StringSliceFlag{
			Name:        "suggest",
			Usage:       "suggested hotspot group as name=A:1,A:2 (repeatable)",
			Destination: &cmd.suggest,
		},
		cmd.suggestFile.Flag(),
		&cli.BoolFlag{
			Name:        "canonical",
			Usage:       "start in canonical numbering",
			Destination: &cmd.canonical,
		},
		&cli.StringFlag{
			Name:        "format",
			Usage:       "output format (colon, compact, rfd3); defaults to hotspots.format",
			Destination: &cmd.format,
		},
		&cli.BoolFlag{
			Name:        "json",
			Usage:       "print the accepted selection as JSON",
			Destination: &cmd.jsonOutput,
		},
		&cli.IntFlag{
			Name:        "profiler-port",
			Usage:       "serve pprof on 127.0.0.1:PORT while the picker runs (0 disables)",
			Sources:     cli.EnvVars("HOTSPOT_PROFILER_PORT"),
			Destination: &cmd.flags.ProfilerPort,
		},
	)
}

// Register adds the pick command to the application
func (cmd *PickCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:      "pick",
		Usage:     "Select hotspot residues interactively",
		UsageText: "hotspot pick --pdb FILE [--chain A] [--uniprot ACC | --fasta FILE] [options]",
		Description: `Opens the residue picker for one chain of a structure.

Click a residue to toggle it, drag across residues to add the whole range.
Press m to switch between the structure's own numbering and the canonical
sequence; only the part of the canonical sequence observed in the structure
can be selected. Press enter to print the selection, q to quit without it.`,
		Flags:  cmd.Flags(),
		Action: cmd.Run,
	})

	return app
}

// Run executes the picker. Exported for use as the default command.
func (cmd *PickCmd) Run(ctx context.Context, c *cli.Command) error {
	if cmd.target.pdb == "" {
		return cli.ShowRootCommandHelp(c)
	}
	if err := cmd.target.validate(); err != nil {
		return err
	}

	format, err := toolFormat(cmd.format, cmd.app)
	if err != nil {
		return err
	}

	target, err := cmd.target.load()
	if err != nil {
		return err
	}
	ctx = logging.WithScope(ctx, logging.Scope{Target: target.Path, Chain: target.Chain})

	initial, err := parseSelection(cmd.selected, target.Chain)
	if err != nil {
		return fmt.Errorf("--selected: %w", err)
	}

	fromFile, err := cmd.suggestFile.Read()
	if err != nil {
		return fmt.Errorf("--suggest-file: %w", err)
	}
	suggestions, err := buildSuggestions(cmd.suggest, fromFile)
	if err != nil {
		return err
	}

	src, accession, err := cmd.app.SourceFor(cmd.target.uniprot, cmd.target.fasta)
	if err != nil {
		return err
	}
	var loader *canonical.Loader
	if src != nil {
		loader = canonical.NewLoader(src)
		ctx = logging.WithScope(ctx, logging.Scope{Accession: accession})
	}

	mode := seqmap.ModeLocal
	if cmd.canonical {
		mode = seqmap.ModeCanonical
	}

	if port := cmd.flags.ProfilerPort; port > 0 {
		prof := profiler.New(port)
		if err := prof.Start(ctx); err != nil {
			return fmt.Errorf("start profiler: %w", err)
		}
		defer func() {
			if err := prof.Shutdown(context.Background()); err != nil {
				log.Error().Err(err).Msg("failed to shutdown profiler server")
			}
		}()
	}

	log.Debug().Ctx(ctx).Int("selected", initial.Len()).Msg("opening picker")

	m := tui.New(ctx, tui.Options{
		Target:      target.Path,
		Window:      target.Window(),
		Accession:   accession,
		Loader:      loader,
		Selection:   initial,
		Suggestions: suggestions,
		RowWidth:    cmd.app.Config.Layout.RowWidth,
		GroupSize:   cmd.app.Config.Layout.GroupSize,
		Mode:        mode,
		Bus:         cmd.app.Bus,
	})

	if _, err := tea.NewProgram(m, tea.WithContext(ctx)).Run(); err != nil {
		return fmt.Errorf("run picker: %w", err)
	}

	selection, accepted := m.Result()
	if !accepted {
		fmt.Fprintln(os.Stderr, "No selection made")
		return nil
	}

	return writeSelection(c, selection, format, cmd.app.Config.Hotspots.RFD3Atoms, cmd.jsonOutput)
}
