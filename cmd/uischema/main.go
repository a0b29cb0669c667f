package main

import (
	"io"
	"log"
	"os"

	"github.com/urfave/cli/v2"
)

const (
	quietFlag       = "quiet"
	strictFlag      = "strict"
	uniqueIDsFlag   = "unique-ids"
	indentFlag      = "indent"
	compactFlag     = "compact"
	uniqueFlag      = "unique"
	dataFlag        = "data"
	platformFlag    = "platform"
	sourceFlag      = "source"
	mappingsFlag    = "mappings"
	sanitizeFlag    = "sanitize"
	interactiveFlag = "interactive"
	pruneFlag       = "prune"
	formatFlag      = "format"
	templatesFlag   = "templates"
)

var decodeFlags = []cli.Flag{
	&cli.BoolFlag{
		Name:  strictFlag,
		Usage: "Also check documents against the bundled JSON Schema",
	},
	&cli.BoolFlag{
		Name:  uniqueIDsFlag,
		Usage: "Reject schemas that reuse a component id",
	},
}

func newApp(stdout, stderr io.Writer) *cli.App {
	app := cli.NewApp()
	app.Name = "uischema"
	app.Usage = "Validate, inspect, bind and adapt UI schema documents."
	app.Writer = stdout
	app.ErrWriter = stderr
	app.Flags = []cli.Flag{
		&cli.BoolFlag{
			Name:    quietFlag,
			Aliases: []string{"q"},
			Usage:   "Make the logger quiet.",
		},
	}
	app.Commands = []*cli.Command{
		{
			Name:      "validate",
			Aliases:   []string{"v"},
			Usage:     "Validate one or more schema files (JSON or YAML)",
			ArgsUsage: "FILE...",
			Flags:     decodeFlags,
			Action:    validateAction,
		},
		{
			Name:      "format",
			Aliases:   []string{"f"},
			Usage:     "Re-serialize a schema file as canonical JSON",
			ArgsUsage: "FILE",
			Flags: append([]cli.Flag{
				&cli.IntFlag{
					Name:  indentFlag,
					Value: 2,
					Usage: "Spaces per indentation level",
				},
				&cli.BoolFlag{
					Name:  compactFlag,
					Usage: "Emit single-line JSON",
				},
			}, decodeFlags...),
			Action: formatAction,
		},
		{
			Name:      "fields",
			Usage:     "List the data bindings a schema uses",
			ArgsUsage: "FILE",
			Flags: append([]cli.Flag{
				&cli.BoolFlag{
					Name:  uniqueFlag,
					Usage: "Print distinct binding paths, one per line",
				},
				&cli.StringFlag{
					Name:  formatFlag,
					Value: "json",
					Usage: "Output format: json or markdown",
				},
				&cli.StringFlag{
					Name:  templatesFlag,
					Usage: "Directory of report templates replacing the bundled ones",
				},
			}, decodeFlags...),
			Action: fieldsAction,
		},
		{
			Name:      "resolve",
			Aliases:   []string{"r"},
			Usage:     "Bind a data file into a schema and optionally adapt it",
			ArgsUsage: "FILE",
			Flags: append([]cli.Flag{
				&cli.StringFlag{
					Name:    dataFlag,
					Aliases: []string{"d"},
					Usage:   "JSON or YAML file holding the data context",
				},
				&cli.StringFlag{
					Name:    platformFlag,
					Aliases: []string{"p"},
					Usage:   "Target platform; empty keeps authoring names",
				},
				&cli.StringFlag{
					Name:  sanitizeFlag,
					Value: "none",
					Usage: "Filter substituted values: none, strict or inline",
				},
				&cli.BoolFlag{
					Name:  pruneFlag,
					Usage: "Drop components whose condition is false for the data",
				},
				&cli.StringFlag{
					Name:  mappingsFlag,
					Usage: "Directory of platform mapping tables replacing the bundled ones",
				},
			}, decodeFlags...),
			Action: resolveAction,
		},
		{
			Name:      "adapt",
			Aliases:   []string{"a"},
			Usage:     "Rename props, styles and events for a target platform",
			ArgsUsage: "FILE",
			Flags: append([]cli.Flag{
				&cli.StringFlag{
					Name:    platformFlag,
					Aliases: []string{"p"},
					Usage:   "Target platform",
				},
				&cli.StringFlag{
					Name:  sourceFlag,
					Value: "web",
					Usage: "Platform the schema is written for",
				},
				&cli.StringFlag{
					Name:  mappingsFlag,
					Usage: "Directory of platform mapping tables replacing the bundled ones",
				},
				&cli.BoolFlag{
					Name:    interactiveFlag,
					Aliases: []string{"i"},
					Usage:   "Prompt for the target platform when --platform is not set",
				},
			}, decodeFlags...),
			Action: adaptAction,
		},
	}
	return app
}

// newLogger writes diagnostics to stderr unless --quiet is set.
func newLogger(ctx *cli.Context) *log.Logger {
	if ctx.Bool(quietFlag) {
		return log.New(io.Discard, "", 0)
	}
	return log.New(ctx.App.ErrWriter, "uischema: ", 0)
}

func main() {
	app := newApp(os.Stdout, os.Stderr)
	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}
