package main

import (
	"context"
	"errors"

	"github.com/urfave/cli/v3"
)

// ServeOptions are command-line overrides for the server.
type ServeOptions struct {
	ConfigPath string
	Port       int
	DevMode    bool
	DataDir    string
	NoBrowser  bool
}

// ExportOptions select the dashboard written by the export command. Zero
// period fields mean the current week or month.
type ExportOptions struct {
	ConfigPath string
	Dashboard  string
	Year       int
	Week       int
	Month      int
	Out        string
}

// Applicator is the application behind the commands.
type Applicator interface {
	Serve(ctx context.Context, opts ServeOptions) error
	Import(ctx context.Context, cfgPath, panel, strategy string, files []string) error
	Watch(ctx context.Context, cfgPath, dir, panel string) error
	Export(ctx context.Context, opts ExportOptions) error
	Migrate(ctx context.Context, cfgPath string) error
}

// BuildCLI creates the command tree. Without a subcommand the server runs.
func BuildCLI(app Applicator) *cli.Command {
	configFlag := &cli.StringFlag{
		Name:    "config",
		Aliases: []string{"c"},
		Usage:   "path to config.toml (default: next to the executable)",
	}
	panelFlag := &cli.StringFlag{
		Name:    "panel",
		Aliases: []string{"p"},
		Value:   "auto",
		Usage:   "record families to read: recruitment, sales, board or auto",
	}
	serveFlags := []cli.Flag{
		configFlag,
		&cli.IntFlag{Name: "port", Usage: "listen port, used when config.toml sets none"},
		&cli.BoolFlag{Name: "dev", Usage: "development mode"},
		&cli.StringFlag{Name: "data-dir", Usage: "data directory, overrides the configuration"},
		&cli.BoolFlag{Name: "no-browser", Usage: "do not open a browser"},
	}
	serve := func(ctx context.Context, c *cli.Command) error {
		return app.Serve(ctx, ServeOptions{
			ConfigPath: c.String("config"),
			Port:       c.Int("port"),
			DevMode:    c.Bool("dev"),
			DataDir:    c.String("data-dir"),
			NoBrowser:  c.Bool("no-browser"),
		})
	}

	serveCmd := &cli.Command{
		Name:   "serve",
		Usage:  "Run the dashboard HTTP server",
		Flags:  serveFlags,
		Action: serve,
	}

	importCmd := &cli.Command{
		Name:      "import",
		Usage:     "Import spreadsheets into the database",
		ArgsUsage: "FILE...",
		Flags: []cli.Flag{
			configFlag,
			panelFlag,
			&cli.StringFlag{Name: "strategy", Aliases: []string{"s"}, Usage: "extraction strategy: fixed or assisted"},
		},
		Action: func(ctx context.Context, c *cli.Command) error {
			files := c.Args().Slice()
			if len(files) == 0 {
				return errors.New("at least one file is required")
			}
			return app.Import(ctx, c.String("config"), c.String("panel"), c.String("strategy"), files)
		},
	}

	watchCmd := &cli.Command{
		Name:  "watch",
		Usage: "Import spreadsheets dropped into the inbox directory",
		Flags: []cli.Flag{
			configFlag,
			&cli.StringFlag{Name: "dir", Aliases: []string{"d"}, Usage: "inbox directory (default: <data>/inbox)"},
			&cli.StringFlag{Name: "panel", Aliases: []string{"p"}, Usage: "record families to read, overrides import.watch_panel"},
		},
		Action: func(ctx context.Context, c *cli.Command) error {
			return app.Watch(ctx, c.String("config"), c.String("dir"), c.String("panel"))
		},
	}

	exportCmd := &cli.Command{
		Name:      "export",
		Usage:     "Write a dashboard to an xlsx workbook",
		ArgsUsage: "recruitment|sales|board",
		Flags: []cli.Flag{
			configFlag,
			&cli.IntFlag{Name: "year", Usage: "year (default: current)"},
			&cli.IntFlag{Name: "week", Usage: "ISO week of a department dashboard (default: current)"},
			&cli.IntFlag{Name: "month", Usage: "month of the board dashboard (default: current)"},
			&cli.StringFlag{Name: "out", Aliases: []string{"o"}, Usage: "output file (default: kpi-<dashboard>-<period>.xlsx)"},
		},
		Action: func(ctx context.Context, c *cli.Command) error {
			if c.Args().Len() != 1 {
				return errors.New("exactly one dashboard is required")
			}
			return app.Export(ctx, ExportOptions{
				ConfigPath: c.String("config"),
				Dashboard:  c.Args().First(),
				Year:       c.Int("year"),
				Week:       c.Int("week"),
				Month:      c.Int("month"),
				Out:        c.String("out"),
			})
		},
	}

	migrateCmd := &cli.Command{
		Name:  "migrate",
		Usage: "Apply pending database migrations and exit",
		Flags: []cli.Flag{configFlag},
		Action: func(ctx context.Context, c *cli.Command) error {
			return app.Migrate(ctx, c.String("config"))
		},
	}

	return &cli.Command{
		Name:     "kpiboard",
		Usage:    "KPI dashboard for recruitment, sales and board reporting",
		Flags:    serveFlags,
		Action:   serve,
		Commands: []*cli.Command{serveCmd, importCmd, watchCmd, exportCmd, migrateCmd},
	}
}
