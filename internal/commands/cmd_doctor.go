package commands

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/colonyops/hotspot/internal/core/doctor"
	"github.com/colonyops/hotspot/internal/core/styles"
	"github.com/colonyops/hotspot/internal/hotspot"
	"github.com/colonyops/hotspot/pkg/iojson"
)

type DoctorCmd struct {
	flags   *Flags
	app     *hotspot.App
	format  string
	autofix bool
	offline bool
}

func NewDoctorCmd(flags *Flags, app *hotspot.App) *DoctorCmd {
	return &DoctorCmd{flags: flags, app: app}
}

func (cmd *DoctorCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:      "doctor",
		Usage:     "Check the config, the sequence cache and UniProt access",
		UsageText: "hotspot doctor [--autofix] [--offline] [--format text|json]",
		Description: "Validates the configuration, confirms the cache database schema, counts cached\n" +
			"sequences and remembered misses, and fetches a small UniProt entry.\n" +
			"Exits non-zero when any check fails.",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "format",
				Usage:       "output format (text, json)",
				Value:       "text",
				Destination: &cmd.format,
			},
			&cli.BoolFlag{
				Name:        "autofix",
				Usage:       "prune stale cached sequences",
				Destination: &cmd.autofix,
			},
			&cli.BoolFlag{
				Name:        "offline",
				Usage:       "skip the UniProt check",
				Destination: &cmd.offline,
			},
		},
		Action: cmd.run,
	})
	return app
}

func (cmd *DoctorCmd) run(ctx context.Context, c *cli.Command) error {
	rep := cmd.app.RunChecks(ctx, cmd.flags.ConfigPath, hotspot.DoctorOptions{
		Autofix: cmd.autofix,
		Offline: cmd.offline,
	})

	switch cmd.format {
	case "json":
		return iojson.WriteWith(c.Root().Writer, os.Stderr, rep)
	case "text", "":
		writeDoctorText(os.Stderr, rep, cmd.autofix)
	default:
		return fmt.Errorf("unknown format %q", cmd.format)
	}

	if !rep.Healthy {
		return cli.Exit("", 1)
	}
	return nil
}

var statusMarks = map[doctor.Status]func() string{
	doctor.StatusPass: func() string { return styles.TextSuccessStyle.Render("ok") },
	doctor.StatusWarn: func() string { return styles.TextWarningStyle.Render("!!") },
	doctor.StatusFail: func() string { return styles.TextErrorStyle.Render("xx") },
}

func writeDoctorText(w io.Writer, rep doctor.Report, autofix bool) {
	width := 0
	for _, r := range rep.Checks {
		for _, item := range r.Items {
			width = max(width, len(item.Label))
		}
	}

	for _, r := range rep.Checks {
		_, _ = fmt.Fprintln(w, styles.HeaderStyle.Render(r.Name))
		for _, item := range r.Items {
			mark := "  "
			if fn, ok := statusMarks[item.Status]; ok {
				mark = fn()
			}
			line := fmt.Sprintf("  %s %-*s", mark, width, item.Label)
			if item.Detail != "" {
				line += "  " + styles.TextMutedStyle.Render(item.Detail)
			}
			_, _ = fmt.Fprintln(w, strings.TrimRight(line, " "))
		}
	}

	_, _ = fmt.Fprintln(w)
	_, _ = fmt.Fprintf(w, "%d ok, %d warnings, %d failed\n", rep.Passed, rep.Warned, rep.Failed)

	if !autofix && rep.Fixable > 0 {
		_, _ = fmt.Fprintln(w, styles.TextMutedStyle.Render(
			fmt.Sprintf("%d issue(s) can be repaired with: hotspot doctor --autofix", rep.Fixable)))
	}
}
