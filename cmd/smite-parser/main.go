package main

import (
	"context"
	"database/sql"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"smite-parser/internal/config"
	"smite-parser/internal/constants"
	fxmodules "smite-parser/internal/fx"
	"smite-parser/internal/logger"
	"smite-parser/internal/service"

	"github.com/rs/zerolog"
	"go.uber.org/fx"
)

const (
	exitSuccess = 0
	exitFailure = 1
)

const usage = `usage: smite-parser <command> [flags] <arg>

commands:
  parse <log>            ingest a combat log (file path or http(s) URL)
  reprocess <log>        clear the match found in the log, then ingest it again
  regenerate <match_id>  rebuild player stats and the timeline of a stored match
  info [match_id]        list stored matches, or describe one
  query <sql_file>       run a SQL query against the store (--out writes CSV)
`

// overrides are command-line values that win over the environment.
type overrides struct {
	dbPath    string
	dbDriver  string
	batchSize int
	strict    bool
	logLevel  string
	csvOut    string
}

func (o overrides) apply(cfg *config.Config) (*config.Config, error) {
	out := *cfg
	if o.dbPath != "" {
		out.DBPath = o.dbPath
	}
	if o.dbDriver != "" {
		out.DBDriver = o.dbDriver
	}
	if o.batchSize > 0 {
		out.BatchSize = o.batchSize
	}
	if o.strict {
		out.SkipMalformed = false
	}
	if o.logLevel != "" {
		level, err := zerolog.ParseLevel(o.logLevel)
		if err != nil {
			return nil, fmt.Errorf("invalid --log-level %q: %w", o.logLevel, err)
		}
		out.LogLevel = o.logLevel
		zerolog.SetGlobalLevel(level)
	}
	if err := out.Validate(); err != nil {
		return nil, err
	}
	return &out, nil
}

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	if len(args) == 0 {
		fmt.Fprint(stderr, usage)
		return exitFailure
	}
	cmd, args := args[0], args[1:]

	var o overrides
	fs := flag.NewFlagSet(cmd, flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.StringVar(&o.dbPath, "db", "", "path to the SQLite database (default $SMITE_DB_PATH)")
	fs.StringVar(&o.dbDriver, "driver", "", "database driver: sqlite3 or sqlite (default $SMITE_DB_DRIVER)")
	fs.IntVar(&o.batchSize, "batch-size", 0, "events per insert transaction (default $SMITE_BATCH_SIZE)")
	fs.BoolVar(&o.strict, "strict", false, "abort on the first malformed line or record")
	fs.StringVar(&o.logLevel, "log-level", "", "log level (default $SMITE_LOG_LEVEL)")
	fs.StringVar(&o.csvOut, "out", "", "query: write rows to this CSV file instead of stdout")
	fs.Usage = func() {
		fmt.Fprint(stderr, usage)
		fmt.Fprintln(stderr, "\nflags:")
		fs.PrintDefaults()
	}

	switch cmd {
	case "parse", "reprocess", "regenerate", "info", "query":
	case "-h", "--help", "help":
		fmt.Fprint(stdout, usage)
		return exitSuccess
	default:
		fmt.Fprintf(stderr, "error: unknown command %q\n\n%s", cmd, usage)
		return exitFailure
	}

	if err := fs.Parse(args); err != nil {
		return exitFailure
	}
	if cmd != "info" && fs.NArg() != 1 {
		fmt.Fprintf(stderr, "error: %s takes exactly one argument\n", cmd)
		return exitFailure
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var (
		ingest *service.IngestService
		report *service.ReportService
		log    zerolog.Logger
		sqlDB  *sql.DB
	)
	app := fx.New(
		fxmodules.Core,
		fx.Decorate(func(zerolog.Logger) zerolog.Logger { return logger.NewFor(os.Stderr) }),
		fx.Decorate(o.apply),
		fx.NopLogger,
		fx.Populate(&ingest, &report, &log, &sqlDB),
	)
	if err := app.Err(); err != nil {
		fmt.Fprintf(stderr, "error: %v\n", err)
		return exitFailure
	}

	startCtx, cancel := context.WithTimeout(ctx, constants.ShutdownTimeout)
	defer cancel()
	if err := app.Start(startCtx); err != nil {
		fmt.Fprintf(stderr, "error: %v\n", err)
		return exitFailure
	}
	defer func() {
		stopCtx, cancel := context.WithTimeout(context.Background(), constants.ShutdownTimeout)
		defer cancel()
		_ = app.Stop(stopCtx)
		if err := sqlDB.Close(); err != nil {
			log.Warn().Err(err).Msg("error closing database connection")
		}
	}()

	var err error
	switch cmd {
	case "parse":
		err = parse(ctx, ingest, fs.Arg(0), service.Options{}, stdout)
	case "reprocess":
		err = parse(ctx, ingest, fs.Arg(0), service.Options{Reprocess: true}, stdout)
	case "regenerate":
		err = regenerate(ctx, ingest, fs.Arg(0), stdout)
	case "info":
		if fs.NArg() == 0 {
			err = listMatches(ctx, report, stdout)
		} else {
			err = describeMatch(ctx, report, fs.Arg(0), stdout)
		}
	case "query":
		err = runQuery(ctx, sqlDB, fs.Arg(0), o.csvOut, stdout)
	}
	if err != nil {
		log.Error().Err(err).Str("command", cmd).Msg("command failed")
		if errors.Is(err, service.ErrMatchExists) {
			fmt.Fprintln(stderr, "hint: use reprocess to replace the stored match")
		}
		return exitFailure
	}
	return exitSuccess
}
