// Package cli implements the interactive session driver: read a query,
// run it, render the answer, repeat until the quit sentinel.
package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/briandowns/spinner"
	"github.com/rs/zerolog"

	"github.com/cexll/mcpchat/pkg/agent"
)

const quitSentinel = "quit"

// QueryRunner is the orchestration surface the driver drives. Satisfied by
// *agent.Orchestrator.
type QueryRunner interface {
	Query(ctx context.Context, input string) (*agent.Result, error)
}

// Driver owns the terminal loop. Queries run strictly sequentially; a query
// in flight cannot be aborted, the only exit point is the sentinel between
// queries.
type Driver struct {
	runner  QueryRunner
	in      io.Reader
	out     io.Writer
	errOut  io.Writer
	spin    *spinner.Spinner
	logger  zerolog.Logger
	prompt  string
	greeter string
}

// DriverOption customizes a Driver.
type DriverOption func(*Driver)

// WithStreams overrides the default stdin/stdout/stderr wiring.
func WithStreams(in io.Reader, out, errOut io.Writer) DriverOption {
	return func(d *Driver) {
		d.in = in
		d.out = out
		d.errOut = errOut
	}
}

// WithSpinner enables the cosmetic busy indicator. It writes to the error
// stream so answers on stdout stay clean.
func WithSpinner(enabled bool) DriverOption {
	return func(d *Driver) {
		if !enabled {
			d.spin = nil
			return
		}
		d.spin = spinner.New(spinner.CharSets[14], 120*time.Millisecond, spinner.WithWriter(d.errOut))
	}
}

// WithDriverLogger attaches a structured logger.
func WithDriverLogger(logger zerolog.Logger) DriverOption {
	return func(d *Driver) { d.logger = logger }
}

// NewDriver builds a driver over the given runner. Apply WithStreams before
// WithSpinner so the spinner picks up the right writer.
func NewDriver(runner QueryRunner, opts ...DriverOption) *Driver {
	d := &Driver{
		runner:  runner,
		in:      os.Stdin,
		out:     os.Stdout,
		errOut:  os.Stderr,
		logger:  zerolog.Nop(),
		prompt:  "> ",
		greeter: "Type a query, or 'quit' to exit.",
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Run processes queries until the quit sentinel or input EOF. Gateway errors
// abort only the query that raised them: they render as one inline error
// line and the loop moves on. Returns nil on sentinel or EOF.
func (d *Driver) Run(ctx context.Context) error {
	fmt.Fprintln(d.out, d.greeter)
	fmt.Fprint(d.out, d.prompt)

	scanner := bufio.NewScanner(d.in)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		switch {
		case line == "":
			// Nothing to do.
		case strings.EqualFold(line, quitSentinel):
			d.logger.Info().Msg("session terminated by sentinel")
			return nil
		default:
			if result, err := d.runQuery(ctx, line); err != nil {
				fmt.Fprintf(d.errOut, "error: %v\n", err)
			} else if result.Output != "" {
				fmt.Fprintln(d.out, result.Output)
			}
		}
		fmt.Fprint(d.out, d.prompt)
	}
	return scanner.Err()
}

// runQuery wraps one orchestration run in the busy indicator, stopping it on
// every exit path.
func (d *Driver) runQuery(ctx context.Context, input string) (*agent.Result, error) {
	if d.spin != nil {
		d.spin.Start()
		defer d.spin.Stop()
	}
	return d.runner.Query(ctx, input)
}
