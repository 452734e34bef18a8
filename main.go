package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime/debug"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v3"

	"github.com/colonyops/hotspot/internal/commands"
	"github.com/colonyops/hotspot/internal/core/config"
	"github.com/colonyops/hotspot/internal/core/eventbus"
	"github.com/colonyops/hotspot/internal/core/logging"
	"github.com/colonyops/hotspot/internal/core/styles"
	"github.com/colonyops/hotspot/internal/data/db"
	"github.com/colonyops/hotspot/internal/data/stores"
	"github.com/colonyops/hotspot/internal/hotspot"
	"github.com/colonyops/hotspot/internal/hotspot/sweep"
	"github.com/colonyops/hotspot/pkg/logutils"
)

var (
	// Build information. Populated at build-time via -ldflags flag.
	// When installed via `go install module@version`, init() populates
	// these from runtime/debug.BuildInfo instead.
	version = "dev"
	commit  = "HEAD"
	date    = "now"
)

func build() string {
	v, c, d := version, commit, date

	// When installed via `go install module@version`, ldflags aren't set
	// so version remains "dev". Fall back to runtime/debug.BuildInfo which
	// Go populates automatically with the module version and VCS metadata.
	if v == "dev" {
		if info, ok := debug.ReadBuildInfo(); ok {
			if mv := info.Main.Version; mv != "" && mv != "(devel)" {
				v = mv
			}
			for _, s := range info.Settings {
				switch s.Key {
				case "vcs.revision":
					c = s.Value
				case "vcs.time":
					d = s.Value
				}
			}
		}
	}

	short := c
	if len(c) > 7 {
		short = c[:7]
	}

	return fmt.Sprintf("%s (%s) %s", v, short, d)
}

func main() {
	ctx := context.Background()

	var (
		logCloser   func()
		hotspotApp  = &hotspot.App{}
		database    *db.DB
		sweepCancel context.CancelFunc
	)

	flags := &commands.Flags{}

	app := commands.NewRoot(flags, hotspotApp)
	app.Version = build()
	app.Before = func(ctx context.Context, c *cli.Command) (context.Context, error) {
		// Always log to a file; the picker owns the terminal.
		logFile := flags.LogFile
		if logFile == "" {
			logFile = filepath.Join(flags.DataDir, "hotspot.log")
		}

		logger, closer, err := logutils.New(logutils.Options{
			Level: flags.LogLevel,
			File:  logFile,
			Hooks: []zerolog.Hook{logging.ContextHook{}},
		})
		if err != nil {
			return ctx, fmt.Errorf("setup logger: %w", err)
		}
		log.Logger = logger
		logCloser = closer

		cfg, err := config.Load(flags.ConfigPath, flags.DataDir)
		if err != nil {
			return ctx, fmt.Errorf("load config: %w", err)
		}
		flags.Config = cfg

		// Apply configured theme (validation ensures name is valid)
		palette, _ := styles.GetPalette(cfg.TUI.Theme)
		styles.SetTheme(palette)

		var recovered bool
		database, recovered, err = stores.OpenOrRecover(ctx, cfg.DataDir, db.DefaultOpenOptions())
		if err != nil {
			return ctx, fmt.Errorf("open database: %w", err)
		}
		if recovered {
			fmt.Fprintln(os.Stderr, styles.TextWarningStyle.Render("cache database "+database.Path()+" was corrupt and has been reset"))
		}

		bus := eventbus.New()
		eventbus.NewNotificationRouter(bus).Register()
		eventbus.RegisterDebugLogger(bus, logging.Component("eventbus"))

		// Populate the pre-allocated App struct (commands already hold a pointer to it)
		*hotspotApp = *hotspot.NewApp(cfg, database, bus, "hotspot/"+version)

		// Start background cache sweep goroutine
		sweepCtx, cancel := context.WithCancel(context.Background())
		sweepCancel = cancel
		go sweep.Start(sweepCtx, 5*time.Minute, hotspotApp.SweepTasks()...)

		return ctx, nil
	}
	app.After = func(ctx context.Context, c *cli.Command) error {
		// Stop background sweep
		if sweepCancel != nil {
			sweepCancel()
		}

		// Close database connection
		if database != nil {
			if err := database.Close(); err != nil {
				log.Error().Err(err).Msg("failed to close database")
				return err
			}
		}

		// Close log file
		if logCloser != nil {
			logCloser()
		}
		return nil
	}

	exitCode := 0
	runErr := app.Run(ctx, os.Args)
	if runErr != nil {
		fmt.Println()
		fmt.Println(runErr.Error())
		exitCode = 1
	}

	os.Exit(exitCode)
}
