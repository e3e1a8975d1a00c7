// Package command parses advisorbot command lines and runs them against a
// session, returning the lines to display.
package command

import (
	stderrors "errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/rxtech-lab/argo-advisor/internal/advisor"
	"github.com/rxtech-lab/argo-advisor/internal/logger"
	"github.com/rxtech-lab/argo-advisor/internal/metrics"
	"github.com/rxtech-lab/argo-advisor/internal/types"
	"github.com/rxtech-lab/argo-advisor/pkg/errors"
	"go.uber.org/zap"
)

// ErrExit is returned by the exit command. Callers stop reading input when they see it.
var ErrExit = stderrors.New("exit requested")

// IsExit reports whether err ends the session.
func IsExit(err error) bool {
	return stderrors.Is(err, ErrExit)
}

// Command describes one dispatcher command.
type Command struct {
	Name        string
	Usage       string
	Description string
}

// Commands lists every command in help order.
var Commands = []Command{
	{Name: "avg", Usage: "avg <product> <bid/ask> <timesteps>", Description: "average bid or ask price of a product over the last timesteps"},
	{Name: "exit", Usage: "exit", Description: "exit advisorbot"},
	{Name: "help", Usage: "help [command]", Description: "list all commands, or show help for one command"},
	{Name: "list", Usage: "list <bid/ask>", Description: "list every bid or ask at the current time step"},
	{Name: "max", Usage: "max <product> <bid/ask>", Description: "maximum bid or ask for a product at the current time step"},
	{Name: "min", Usage: "min <product> <bid/ask>", Description: "minimum bid or ask for a product at the current time step"},
	{Name: "predict", Usage: "predict <min/max> <product> <bid/ask>", Description: "predict the next time step's min or max bid or ask for a product"},
	{Name: "prod", Usage: "prod", Description: "list available products"},
	{Name: "step", Usage: "step", Description: "move to the next time step"},
	{Name: "time", Usage: "time", Description: "state the current time step"},
}

type handler func(args []string) ([]string, error)

// Dispatcher runs command lines against one session.
type Dispatcher struct {
	session  *advisor.Session
	logger   *logger.Logger
	metrics  *metrics.Registry
	handlers map[string]handler
}

// Option configures a Dispatcher.
type Option func(*Dispatcher)

// WithLogger logs each failed command at debug.
func WithLogger(l *logger.Logger) Option {
	return func(d *Dispatcher) {
		d.logger = l
	}
}

// WithMetrics records each command as a query.
func WithMetrics(m *metrics.Registry) Option {
	return func(d *Dispatcher) {
		d.metrics = m
	}
}

// New creates a dispatcher for session.
func New(session *advisor.Session, opts ...Option) *Dispatcher {
	d := &Dispatcher{
		session: session,
		logger:  logger.NewNopLogger(),
	}

	for _, opt := range opts {
		opt(d)
	}

	d.handlers = map[string]handler{
		"help":    d.help,
		"prod":    d.products,
		"min":     d.extreme,
		"max":     d.extreme,
		"avg":     d.average,
		"predict": d.predict,
		"time":    d.currentTime,
		"step":    d.advance,
		"list":    d.list,
		"exit":    d.exit,
	}

	return d
}

// Execute runs one command line. Tokens are separated by whitespace.
func (d *Dispatcher) Execute(line string) ([]string, error) {
	args := strings.Fields(line)
	if len(args) == 0 {
		return nil, errors.New(errors.ErrCodeUnknownCommand, "empty input, no command specified")
	}

	h, ok := d.handlers[args[0]]
	if !ok {
		return nil, errors.Newf(errors.ErrCodeUnknownCommand, "invalid command: %q", args[0])
	}

	start := time.Now()
	lines, err := h(args)

	if d.metrics != nil && !IsExit(err) {
		d.metrics.ObserveQuery(args[0], start, err)
	}

	if err != nil && !IsExit(err) {
		d.logger.Debug("Command failed", zap.String("command", line), zap.Error(err))
	}

	return lines, err
}

// HelpLines returns the command overview printed by help.
func HelpLines() []string {
	lines := []string{"The available commands are:", "---------------------------"}
	for _, c := range Commands {
		lines = append(lines, c.Name)
	}

	return append(lines, "---------------------------")
}

func (d *Dispatcher) help(args []string) ([]string, error) {
	if len(args) == 1 {
		return HelpLines(), nil
	}

	for _, c := range Commands {
		if c.Name == args[1] {
			return []string{c.Usage + " -> " + c.Description}, nil
		}
	}

	return nil, errors.Newf(errors.ErrCodeInvalidParameter, "invalid argument to 'help': %s (unknown command)", args[1])
}

func (d *Dispatcher) products(_ []string) ([]string, error) {
	return []string{strings.Join(d.session.ListProducts(), ",")}, nil
}

func (d *Dispatcher) extreme(args []string) ([]string, error) {
	if len(args) < 3 {
		return nil, errors.Newf(errors.ErrCodeInvalidParameter, "invalid arguments to '%s', usage: %s <product> <bid/ask>", args[0], args[0])
	}

	kind, err := types.ParseExtreme(args[0])
	if err != nil {
		return nil, err
	}

	product, side := args[1], args[2]

	price, err := d.session.Extreme(kind, product, side)
	if err != nil {
		return nil, err
	}

	return []string{fmt.Sprintf("The %s %s for %s is %s", kind, side, product, price)}, nil
}

func (d *Dispatcher) average(args []string) ([]string, error) {
	if len(args) < 4 {
		return nil, errors.New(errors.ErrCodeInvalidParameter, "invalid arguments to 'avg', usage: avg <product> <bid/ask> <timesteps>")
	}

	product, side := args[1], args[2]

	steps, err := strconv.Atoi(args[3])
	if err != nil {
		return nil, errors.Wrapf(errors.ErrCodeInvalidParameter, err, "bad value for 'timesteps' when calling 'avg': %s", args[3])
	}

	avg, effective, err := d.session.WindowedAverage(product, side, steps)
	if err != nil {
		return nil, err
	}

	var lines []string

	switch {
	case effective == steps:
	case steps < 1:
		lines = append(lines,
			fmt.Sprintf("number of timesteps (%d) is too small.", steps),
			fmt.Sprintf("the minimum amount of %d timesteps will be used.", effective),
		)
	default:
		lines = append(lines,
			fmt.Sprintf("number of timesteps (%d) is too far back.", steps),
			fmt.Sprintf("current step is %d, therefore the maximum amount of %d timesteps will be used.", effective, effective),
		)
	}

	return append(lines, fmt.Sprintf("The average %s %s price over the last %d timesteps was %s", product, side, effective, avg)), nil
}

func (d *Dispatcher) predict(args []string) ([]string, error) {
	if len(args) < 4 {
		return nil, errors.New(errors.ErrCodeInvalidParameter, "invalid arguments to 'predict', usage: predict <min/max> <product> <bid/ask>")
	}

	kind, err := types.ParseExtreme(args[1])
	if err != nil {
		return nil, err
	}

	product, side := args[2], args[3]

	price, err := d.session.ForecastExtreme(kind, product, side)
	if err != nil {
		return nil, err
	}

	return []string{fmt.Sprintf("The predicted %s %s price of %s for the next time step is %s", kind, side, product, price)}, nil
}

func (d *Dispatcher) currentTime(_ []string) ([]string, error) {
	return []string{d.session.CurrentTime()}, nil
}

func (d *Dispatcher) advance(_ []string) ([]string, error) {
	ts, err := d.session.AdvanceTime()
	if err != nil {
		return nil, err
	}

	return []string{"now at " + ts}, nil
}

func (d *Dispatcher) list(args []string) ([]string, error) {
	if len(args) < 2 {
		return nil, errors.New(errors.ErrCodeInvalidParameter, "invalid argument for list <bid/ask>")
	}

	side := args[1]
	now := d.session.CurrentTime()

	orders, err := d.session.OrdersAtCurrentTime(side)
	if err != nil {
		return nil, err
	}

	if len(orders) == 0 {
		return []string{fmt.Sprintf("No %ss found for current time step: (%s).", side, now)}, nil
	}

	lines := make([]string, 0, len(orders)+1)
	lines = append(lines, fmt.Sprintf("%ss for current time step (%s):", side, now))

	for _, o := range orders {
		lines = append(lines, o.String())
	}

	return lines, nil
}

func (d *Dispatcher) exit(_ []string) ([]string, error) {
	return []string{"Exiting."}, ErrExit
}

// ErrorLines renders a failed command for display. Unknown commands are
// followed by the command overview.
func ErrorLines(err error) []string {
	message := err.Error()

	var coded *errors.Error
	if errors.As(err, &coded) {
		message = coded.Message
		if coded.Cause != nil {
			message += ": " + coded.Cause.Error()
		}
	}

	lines := []string{message}
	if errors.HasCode(err, errors.ErrCodeUnknownCommand) {
		lines = append(lines, HelpLines()...)
	}

	return lines
}
