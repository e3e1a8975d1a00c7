package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rxtech-lab/argo-advisor/internal/advisor"
	"github.com/rxtech-lab/argo-advisor/internal/api"
	"github.com/rxtech-lab/argo-advisor/internal/command"
	"github.com/rxtech-lab/argo-advisor/internal/config"
	"github.com/rxtech-lab/argo-advisor/internal/ledger"
	"github.com/rxtech-lab/argo-advisor/internal/ledger/duckdb"
	"github.com/rxtech-lab/argo-advisor/internal/logger"
	"github.com/rxtech-lab/argo-advisor/internal/metrics"
	"github.com/rxtech-lab/argo-advisor/internal/version"
	"github.com/rxtech-lab/argo-advisor/pkg/errors"
	"github.com/urfave/cli/v3"
	"go.uber.org/zap"
)

// newApp builds the advisorbot command tree writing to stdout and stderr.
func newApp(stdout, stderr io.Writer) *cli.Command {
	return &cli.Command{
		Name:      "advisorbot",
		Usage:     "Query a recorded order book as it evolves over time",
		Writer:    stdout,
		ErrWriter: stderr,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to a YAML config file",
			},
			&cli.StringFlag{
				Name:    "data",
				Aliases: []string{"d"},
				Usage:   "Path to the order book CSV file",
			},
			&cli.StringFlag{
				Name:  "backend",
				Usage: fmt.Sprintf("Order source (%s or %s)", config.BackendMemory, config.BackendDuckDB),
			},
			&cli.StringFlag{
				Name:  "log-level",
				Usage: "Log level (debug, info, warn, error)",
			},
			&cli.BoolFlag{
				Name:  "progress",
				Usage: "Show a progress bar while loading",
			},
		},
		Action: replAction,
		Commands: []*cli.Command{
			{
				Name:   "repl",
				Usage:  "Interactive prompt (default)",
				Action: replAction,
			},
			{
				Name:      "exec",
				Usage:     "Run commands separated by ';' and print their output",
				ArgsUsage: "<command>[; <command>...]",
				Action:    execAction,
			},
			{
				Name:   "serve",
				Usage:  "Serve queries over HTTP",
				Action: serveAction,
			},
			{
				Name:      "sql",
				Usage:     "Run a read-only SQL query against the orders table",
				ArgsUsage: "<query>",
				Action:    sqlAction,
			},
			{
				Name:   "schema",
				Usage:  "Print the config JSON schema",
				Action: schemaAction,
			},
			{
				Name:  "version",
				Usage: "Print the advisorbot version",
				Action: func(_ context.Context, cmd *cli.Command) error {
					_, err := fmt.Fprintln(cmd.Root().Writer, version.GetVersion())

					return err
				},
			},
		},
	}
}

// app holds everything a query command needs.
type app struct {
	config     *config.Config
	logger     *logger.Logger
	ledger     *ledger.Ledger
	metrics    *metrics.Registry
	session    *advisor.Session
	dispatcher *command.Dispatcher
	duckdb     *duckdb.Source
	closers    []io.Closer
}

func (a *app) Close() {
	for _, c := range a.closers {
		_ = c.Close()
	}

	_ = a.logger.Sync()
}

// sqlSource returns the DuckDB mirror opened for the duckdb backend, or opens
// one over the ledger when the session runs in memory.
func (a *app) sqlSource() (*duckdb.Source, error) {
	if a.duckdb != nil {
		return a.duckdb, nil
	}

	db, err := duckdb.NewSource(a.ledger, a.logger)
	if err != nil {
		return nil, err
	}

	a.duckdb = db
	a.closers = append(a.closers, db)

	return db, nil
}

func loadConfig(cmd *cli.Command) (*config.Config, error) {
	cfg, err := config.Load(cmd.String("config"))
	if err != nil {
		return nil, err
	}

	if cmd.IsSet("data") {
		cfg.DataPath = cmd.String("data")
	}

	if cmd.IsSet("backend") {
		cfg.Backend = config.Backend(cmd.String("backend"))
	}

	if cmd.IsSet("log-level") {
		cfg.LogLevel = cmd.String("log-level")
	}

	if cmd.IsSet("progress") {
		cfg.ShowProgress = cmd.Bool("progress")
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func setup(cmd *cli.Command) (*app, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, err
	}

	log, err := logger.NewLogger(cfg.LogLevel)
	if err != nil {
		return nil, err
	}

	opts := []ledger.Option{ledger.WithLogger(log)}
	if cfg.ShowProgress {
		opts = append(opts, ledger.WithProgress(cmd.Root().ErrWriter))
	}

	l, err := ledger.Load(cfg.DataPath, opts...)
	if err != nil {
		return nil, err
	}

	a := &app{
		config:  cfg,
		logger:  log,
		ledger:  l,
		metrics: metrics.New(),
	}
	a.metrics.SetLedger(l.Len(), l.Skipped())

	var source advisor.OrderSource = l

	if cfg.Backend == config.BackendDuckDB {
		db, err := duckdb.NewSource(l, log)
		if err != nil {
			a.Close()

			return nil, err
		}

		a.duckdb = db
		a.closers = append(a.closers, db)
		source = db
	}

	session, err := advisor.NewSession(advisor.New(l, source, log))
	if err != nil {
		a.Close()

		return nil, err
	}

	a.session = session
	a.dispatcher = command.New(session, command.WithLogger(log), command.WithMetrics(a.metrics))

	log.Debug("Session ready",
		zap.String("backend", string(cfg.Backend)),
		zap.String("start", session.CurrentTime()),
	)

	return a, nil
}

func replAction(ctx context.Context, cmd *cli.Command) error {
	a, err := setup(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	p := tea.NewProgram(NewModel(a.dispatcher), tea.WithContext(ctx), tea.WithOutput(cmd.Root().Writer))
	_, err = p.Run()

	return err
}

func execAction(_ context.Context, cmd *cli.Command) error {
	a, err := setup(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	out := cmd.Root().Writer
	errOut := cmd.Root().ErrWriter

	var firstErr error

	for _, line := range strings.Split(strings.Join(cmd.Args().Slice(), " "), ";") {
		if strings.TrimSpace(line) == "" {
			continue
		}

		lines, err := a.dispatcher.Execute(line)
		writeLines(out, lines)

		if command.IsExit(err) {
			break
		}

		if err != nil {
			writeLines(errOut, command.ErrorLines(err))

			if firstErr == nil {
				firstErr = err
			}
		}
	}

	return firstErr
}

func serveAction(ctx context.Context, cmd *cli.Command) error {
	a, err := setup(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	server := api.NewServer(a.config.ListenAddr, a.session, api.WithLogger(a.logger), api.WithMetrics(a.metrics))

	return server.Start(ctx)
}

func sqlAction(_ context.Context, cmd *cli.Command) error {
	query := strings.Join(cmd.Args().Slice(), " ")
	if strings.TrimSpace(query) == "" {
		return errors.New(errors.ErrCodeInvalidParameter, "sql requires a query")
	}

	a, err := setup(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	db, err := a.sqlSource()
	if err != nil {
		return err
	}

	results, err := db.ExecuteSQL(query)
	if err != nil {
		return err
	}

	encoder := json.NewEncoder(cmd.Root().Writer)
	for _, row := range results {
		if err := encoder.Encode(row.Values); err != nil {
			return err
		}
	}

	return nil
}

func schemaAction(_ context.Context, cmd *cli.Command) error {
	schema, err := config.GenerateSchemaJSON()
	if err != nil {
		return err
	}

	_, err = fmt.Fprintln(cmd.Root().Writer, schema)

	return err
}

func writeLines(w io.Writer, lines []string) {
	for _, line := range lines {
		fmt.Fprintln(w, line)
	}
}
