package commands

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/hay-kot/criterio"
	"github.com/urfave/cli/v3"

	"github.com/colonyops/hotspot/internal/core/config"
	"github.com/colonyops/hotspot/internal/core/styles"
	"github.com/colonyops/hotspot/pkg/iojson"
)

type ConfigValidateCmd struct {
	flags  *Flags
	format string
}

// NewConfigValidateCmd creates a new config validate command.
func NewConfigValidateCmd(flags *Flags) *ConfigValidateCmd {
	return &ConfigValidateCmd{flags: flags}
}

// Register adds the config validate command to the application.
func (cmd *ConfigValidateCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:  "config",
		Usage: "Configuration management commands",
		Commands: []*cli.Command{
			{
				Name:        "validate",
				Usage:       "Validate configuration file",
				UsageText:   "hotspot config validate [options]",
				Description: "Validates the configuration file, checking layout, UniProt settings, cache durations and the data directory.",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:        "format",
						Usage:       "output format (text, json)",
						Value:       "text",
						Destination: &cmd.format,
					},
				},
				Action: cmd.run,
			},
		},
	})

	return app
}

// validationError is one failed field.
type validationError struct {
	Field   string `json:"field,omitempty"`
	Message string `json:"message"`
}

type validationReport struct {
	Valid    bool                       `json:"valid"`
	Errors   []validationError          `json:"errors,omitempty"`
	Warnings []config.ValidationWarning `json:"warnings,omitempty"`
}

func buildValidationReport(cfg *config.Config, configPath string) validationReport {
	report := validationReport{Warnings: cfg.Warnings()}

	err := cfg.ValidateDeep(configPath)
	if err == nil {
		report.Valid = true
		return report
	}

	var fieldErrs criterio.FieldErrors
	if errors.As(err, &fieldErrs) {
		for _, fe := range fieldErrs {
			report.Errors = append(report.Errors, validationError{Field: fe.Field, Message: fe.Err.Error()})
		}
		return report
	}

	report.Errors = append(report.Errors, validationError{Message: err.Error()})
	return report
}

func (cmd *ConfigValidateCmd) run(_ context.Context, c *cli.Command) error {
	report := buildValidationReport(cmd.flags.Config, cmd.flags.ConfigPath)

	if cmd.format == "json" {
		if err := iojson.WriteWith(c.Root().Writer, c.Root().ErrWriter, report); err != nil {
			return err
		}
	} else {
		writeValidationText(c.Root().Writer, report)
	}

	if !report.Valid {
		return cli.Exit("", 1)
	}
	return nil
}

func writeValidationText(w io.Writer, report validationReport) {
	var (
		ok   = styles.TextSuccessStyle.Render
		warn = styles.TextWarningStyle.Render
		bad  = styles.TextErrorStyle.Render
	)

	for _, wn := range report.Warnings {
		_, _ = fmt.Fprintf(w, "%s %s: %s\n", warn("!"), wn.Category, wn.Message)
		if wn.Item != "" {
			_, _ = fmt.Fprintf(w, "  Item: %s\n", wn.Item)
		}
	}

	for _, e := range report.Errors {
		if e.Field != "" {
			_, _ = fmt.Fprintf(w, "%s %s: %s\n", bad("✗"), e.Field, e.Message)
		} else {
			_, _ = fmt.Fprintf(w, "%s %s\n", bad("✗"), e.Message)
		}
	}

	_, _ = fmt.Fprintln(w)
	if report.Valid {
		_, _ = fmt.Fprintf(w, "%s Configuration is valid\n", ok("✓"))
		return
	}
	_, _ = fmt.Fprintf(w, "%s %d error(s) found\n", bad("✗"), len(report.Errors))
}
