package commands

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/urfave/cli/v3"

	"github.com/colonyops/hotspot/internal/core/canonical"
	"github.com/colonyops/hotspot/internal/hotspot"
	"github.com/colonyops/hotspot/pkg/iojson"
)

type CacheCmd struct {
	flags *Flags
	app   *hotspot.App

	// flags
	jsonOutput bool
	olderThan  time.Duration
}

// NewCacheCmd creates a new cache command
func NewCacheCmd(flags *Flags, app *hotspot.App) *CacheCmd {
	return &CacheCmd{flags: flags, app: app}
}

// Register adds the cache command to the application
func (cmd *CacheCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:  "cache",
		Usage: "Inspect and manage the canonical sequence cache",
		Commands: []*cli.Command{
			{
				Name:    "ls",
				Aliases: []string{"list"},
				Usage:   "List cached sequences and remembered misses",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:        "json",
						Usage:       "output as JSON",
						Destination: &cmd.jsonOutput,
					},
				},
				Action: cmd.runList,
			},
			{
				Name:  "prune",
				Usage: "Remove stale sequences and expired entries",
				Flags: []cli.Flag{
					&cli.DurationFlag{
						Name:        "older-than",
						Usage:       "remove sequences fetched longer ago than this (default: cache.ttl)",
						Destination: &cmd.olderThan,
					},
					&cli.BoolFlag{
						Name:        "json",
						Usage:       "output as JSON",
						Destination: &cmd.jsonOutput,
					},
				},
				Action: cmd.runPrune,
			},
			{
				Name:      "rm",
				Usage:     "Remove accessions from the cache",
				UsageText: "hotspot cache rm ACCESSION...",
				Action:    cmd.runRemove,
			},
		},
	})

	return app
}

type cacheListing struct {
	Sequences []cachedSequence `json:"sequences"`
	Misses    []canonical.Miss `json:"misses"`
}

type cachedSequence struct {
	Accession   string    `json:"accession"`
	EntryID     string    `json:"entry_id,omitempty"`
	Length      int       `json:"length"`
	FetchedAt   time.Time `json:"fetched_at"`
	Description string    `json:"description,omitempty"`
}

func (cmd *CacheCmd) runList(ctx context.Context, c *cli.Command) error {
	entries, err := cmd.app.Sequences.List(ctx)
	if err != nil {
		return err
	}
	misses, err := cmd.app.Canonical.Misses(ctx)
	if err != nil {
		return err
	}

	out := cacheListing{
		Sequences: make([]cachedSequence, 0, len(entries)),
		Misses:    misses,
	}
	if out.Misses == nil {
		out.Misses = []canonical.Miss{}
	}
	for _, e := range entries {
		out.Sequences = append(out.Sequences, cachedSequence{
			Accession:   e.Accession,
			EntryID:     e.EntryID,
			Length:      len(e.Sequence),
			FetchedAt:   e.FetchedAt,
			Description: e.Description,
		})
	}

	if cmd.jsonOutput {
		return iojson.WriteWith(c.Root().Writer, os.Stderr, out)
	}

	w := c.Root().Writer
	if len(out.Sequences) == 0 && len(out.Misses) == 0 {
		_, _ = fmt.Fprintln(w, "cache is empty")
		return nil
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	if len(out.Sequences) > 0 {
		_, _ = fmt.Fprintln(tw, "ACCESSION\tLENGTH\tFETCHED\tDESCRIPTION")
		for _, s := range out.Sequences {
			_, _ = fmt.Fprintf(tw, "%s\t%d\t%s\t%s\n", s.Accession, s.Length, s.FetchedAt.Format(time.DateTime), s.Description)
		}
	}
	if len(out.Misses) > 0 {
		if len(out.Sequences) > 0 {
			_, _ = fmt.Fprintln(tw)
		}
		_, _ = fmt.Fprintln(tw, "MISS\tEXPIRES\tREASON")
		for _, m := range out.Misses {
			expires := "never"
			if m.ExpiresAt != nil {
				expires = m.ExpiresAt.Format(time.DateTime)
			}
			_, _ = fmt.Fprintf(tw, "%s\t%s\t%s\n", m.Accession, expires, m.Reason)
		}
	}
	return tw.Flush()
}

func (cmd *CacheCmd) runPrune(ctx context.Context, c *cli.Command) error {
	res, err := cmd.app.Prune(ctx, cmd.olderThan)
	if err != nil {
		return err
	}

	if cmd.jsonOutput {
		return iojson.WriteWith(c.Root().Writer, os.Stderr, res)
	}

	_, err = fmt.Fprintf(c.Root().Writer, "removed %d sequence(s), %d expired entry(ies)\n", res.Sequences, res.Expired)
	return err
}

func (cmd *CacheCmd) runRemove(ctx context.Context, c *cli.Command) error {
	args := c.Args().Slice()
	if len(args) == 0 {
		return fmt.Errorf("at least one accession is required")
	}

	for _, acc := range args {
		removed, err := cmd.app.Forget(ctx, acc)
		if err != nil {
			return err
		}
		if !removed {
			_, _ = fmt.Fprintf(os.Stderr, "%s: not cached\n", acc)
			continue
		}
		_, _ = fmt.Fprintf(c.Root().Writer, "removed %s\n", acc)
	}
	return nil
}
