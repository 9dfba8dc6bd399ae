package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/pflag"
)

// Exit codes returned by Main.
const (
	ExitOK      = 0
	ExitFailure = 1
	ExitUsage   = 2
)

type command struct {
	name    string
	args    string // positional arguments, for usage
	summary string
	nargs   int
	flags   func(fs *pflag.FlagSet)
	run     func(ctx context.Context, app *Application, fs *pflag.FlagSet, args []string) error
}

var commands = []command{
	{
		name:    "migrate",
		summary: "create or upgrade the schema",
		run: func(ctx context.Context, app *Application, _ *pflag.FlagSet, _ []string) error {
			return app.Migrate(ctx)
		},
	},
	{
		name:    "generate",
		summary: "write a deterministic synthetic dataset",
		flags: func(fs *pflag.FlagSet) {
			fs.Uint64("seed", 0, "random seed")
			fs.Int("users", 0, "number of users")
			fs.String("start", "", "start of the observation window (YYYY-MM-DD)")
			fs.String("end", "", "end of the observation window (YYYY-MM-DD)")
			fs.Int("ato", 0, "account takeover scenarios to plant")
			fs.Float64("noise", 0, "probability that a row gets one corrupted cell")
			fs.Bool("orphans", false, "let noise break foreign keys (turns enforcement off)")
			fs.Uint32("argon2-memory", 0, "argon2id memory in KiB")
			fs.Uint32("argon2-iterations", 0, "argon2id iterations")
		},
		run: func(ctx context.Context, app *Application, _ *pflag.FlagSet, _ []string) error {
			return app.Generate(ctx)
		},
	},
	{
		name:    "validate",
		summary: "run the data-quality checks; exits 1 when any fails",
		flags: func(fs *pflag.FlagSet) {
			fs.Int("max-samples", 0, "violations kept per check")
		},
		run: func(ctx context.Context, app *Application, _ *pflag.FlagSet, _ []string) error {
			return app.Validate(ctx)
		},
	},
	{
		name:    "show",
		args:    "<table>",
		summary: "print raw rows of a table",
		nargs:   1,
		flags: func(fs *pflag.FlagSet) {
			fs.Int("limit", 20, "rows to print (0 for all)")
			fs.Int("offset", 0, "rows to skip")
		},
		run: func(ctx context.Context, app *Application, fs *pflag.FlagSet, args []string) error {
			limit, _ := fs.GetInt("limit")
			offset, _ := fs.GetInt("offset")
			return app.Show(ctx, args[0], limit, offset)
		},
	},
	{
		name:    "cast",
		args:    "<table> <column> <int|bool|time>",
		summary: "cast a column and summarise the result",
		nargs:   3,
		flags: func(fs *pflag.FlagSet) {
			fs.Bool("coerce", false, "map unparseable values to null instead of failing")
		},
		run: func(ctx context.Context, app *Application, fs *pflag.FlagSet, args []string) error {
			coerce, _ := fs.GetBool("coerce")
			return app.Cast(ctx, args[0], args[1], args[2], coerce)
		},
	},
	{
		name:    "analyze",
		args:    "[ato|mfa|sessions|all]",
		summary: "run the teaching analyses",
		nargs:   -1,
		flags: func(fs *pflag.FlagSet) {
			fs.Duration("ato-window", 0, "window around a completed reset")
			fs.Int("ato-min-failures", 0, "smallest failed-login burst that counts")
		},
		run: func(ctx context.Context, app *Application, _ *pflag.FlagSet, args []string) error {
			which := "all"
			if len(args) > 0 {
				which = args[0]
			}
			return app.Analyze(ctx, which)
		},
	},
	{
		name:    "export-csv",
		args:    "<dir>",
		summary: "write one CSV file per table",
		nargs:   1,
		run: func(ctx context.Context, app *Application, _ *pflag.FlagSet, args []string) error {
			return app.ExportCSV(ctx, args[0])
		},
	},
	{
		name:    "export-postgres",
		summary: "bulk copy the tables into PostgreSQL",
		flags: func(fs *pflag.FlagSet) {
			fs.String("dsn", "", "PostgreSQL connection string")
			fs.Bool("replace", false, "drop existing tables first; without it a non-empty table fails the export")
		},
		run: func(ctx context.Context, app *Application, _ *pflag.FlagSet, _ []string) error {
			return app.ExportPostgres(ctx)
		},
	},
	{
		name:    "publish",
		summary: "upload the database file to S3",
		flags: func(fs *pflag.FlagSet) {
			fs.String("bucket", "", "destination bucket")
			fs.String("prefix", "", "object key prefix")
			fs.String("region", "", "AWS region")
			fs.String("endpoint", "", "S3-compatible endpoint such as MinIO")
			fs.Bool("create-bucket", false, "create the bucket when missing")
		},
		run: func(ctx context.Context, app *Application, _ *pflag.FlagSet, _ []string) error {
			return app.Publish(ctx)
		},
	},
	{
		name:    "serve",
		summary: "serve the read-only API",
		flags: func(fs *pflag.FlagSet) {
			fs.Int("port", 0, "listen port")
			fs.Duration("revalidate-interval", 0, "how often the served report is refreshed")
			fs.Int("max-samples", 0, "violations kept per check")
			fs.Duration("ato-window", 0, "window around a completed reset")
			fs.Int("ato-min-failures", 0, "smallest failed-login burst that counts")
		},
		run: func(_ context.Context, app *Application, _ *pflag.FlagSet, _ []string) error {
			return app.Serve()
		},
	},
}

func globalFlags(fs *pflag.FlagSet) {
	fs.String("config", "", "config file (default ./authlab.yaml when present)")
	fs.String("database", "", "SQLite database file")
	fs.Bool("foreign-keys", true, "enforce foreign keys")
	fs.String("signing-key", "", "dataset signing key (PEM)")
	fs.String("log-level", "", "debug, info, warn or error")
	fs.String("log-format", "", "json or text")
}

func usage(w io.Writer) {
	fmt.Fprintln(w, "usage: authlab <command> [flags] [args]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "commands:")
	for _, c := range commands {
		name := c.name
		if c.args != "" {
			name += " " + c.args
		}
		fmt.Fprintf(w, "  %-40s %s\n", name, c.summary)
	}
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Run 'authlab <command> --help' for the flags of a command.")
}

func lookup(name string) (command, bool) {
	for _, c := range commands {
		if c.name == name {
			return c, true
		}
	}
	return command{}, false
}

// Main runs the authlab command line and returns the process exit code.
func Main(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	if len(args) == 0 || args[0] == "-h" || args[0] == "--help" || args[0] == "help" {
		usage(stderr)
		if len(args) == 0 {
			return ExitUsage
		}
		return ExitOK
	}

	cmd, ok := lookup(args[0])
	if !ok {
		fmt.Fprintf(stderr, "authlab: unknown command %q\n\n", args[0])
		usage(stderr)
		return ExitUsage
	}

	fs := pflag.NewFlagSet("authlab "+cmd.name, pflag.ContinueOnError)
	fs.SetOutput(stderr)
	globalFlags(fs)
	if cmd.flags != nil {
		cmd.flags(fs)
	}
	if err := fs.Parse(args[1:]); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return ExitOK
		}
		return ExitUsage
	}

	rest := fs.Args()
	switch {
	case cmd.nargs >= 0 && len(rest) != cmd.nargs:
		fmt.Fprintf(stderr, "usage: authlab %s %s\n", cmd.name, strings.TrimSpace(cmd.args))
		return ExitUsage
	case cmd.nargs < 0 && len(rest) > 1:
		fmt.Fprintf(stderr, "usage: authlab %s %s\n", cmd.name, cmd.args)
		return ExitUsage
	}

	cfg, err := LoadConfig(fs)
	if err != nil {
		fmt.Fprintf(stderr, "authlab: %v\n", err)
		return ExitUsage
	}

	app := New(cfg, stdout, stderr)
	defer func() {
		if err := app.Close(); err != nil {
			app.logger.Error("error closing database", "error", err)
		}
	}()

	if err := cmd.run(ctx, app, fs, rest); err != nil {
		app.logger.Error("command failed", "command", cmd.name, "error", err)
		fmt.Fprintf(stderr, "authlab %s: %v\n", cmd.name, err)
		return ExitFailure
	}
	return ExitOK
}
