// Package console is a line-oriented front end for a panel.Panel. Lines are
// read on their own goroutine and executed on the event loop.
package console

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sort"

	"github.com/adrg/strutil"
	"github.com/adrg/strutil/metrics"
	"github.com/mattn/go-shellwords"
	"github.com/muesli/termenv"

	"material-scene/panel"
)

var (
	ErrUnknownCommand = errors.New("unknown command")
	ErrUsage          = errors.New("usage")
)

// Prompt is printed before each line is read.
const Prompt = "> "

type Console struct {
	panel    *panel.Panel
	out      *termenv.Output
	log      *slog.Logger
	commands map[string]*command

	profile *termenv.Profile
}

type Option func(*Console)

func WithLogger(log *slog.Logger) Option {
	return func(c *Console) {
		if log != nil {
			c.log = log
		}
	}
}

// WithProfile forces a color profile instead of detecting one from w.
func WithProfile(p termenv.Profile) Option {
	return func(c *Console) { c.profile = &p }
}

// New creates a console editing p and writing to w.
func New(p *panel.Panel, w io.Writer, opts ...Option) *Console {
	c := &Console{
		panel:    p,
		log:      slog.Default(),
		commands: builtins(),
	}
	for _, opt := range opts {
		opt(c)
	}
	var outOpts []termenv.OutputOption
	if c.profile != nil {
		outOpts = append(outOpts, termenv.WithProfile(*c.profile))
	}
	c.out = termenv.NewOutput(w, outOpts...)
	return c
}

// Exec parses and runs one command line. It must run on the goroutine that
// owns the panel.
func (c *Console) Exec(line string) error {
	args, err := shellwords.Parse(line)
	if err != nil {
		return fmt.Errorf("parse %q: %w", line, err)
	}
	if len(args) == 0 {
		return nil
	}
	cmd, ok := c.commands[args[0]]
	if !ok {
		return c.unknownCommand(args[0])
	}
	if n := len(args) - 1; n < cmd.min || n > cmd.max {
		return fmt.Errorf("%w: %s", ErrUsage, cmd.usage)
	}
	c.log.Debug("console command", "cmd", args[0], "args", args[1:])
	return cmd.run(c, args[1:])
}

// Run reads lines from in until EOF or ctx is done. Each line is handed to
// post and Run waits for it to finish before reading the next one, so
// output stays in order.
func (c *Console) Run(ctx context.Context, in io.Reader, post func(func())) error {
	lines := make(chan string)
	readErr := make(chan error, 1)
	go func() {
		sc := bufio.NewScanner(in)
		for sc.Scan() {
			select {
			case lines <- sc.Text():
			case <-ctx.Done():
				return
			}
		}
		readErr <- sc.Err()
		close(lines)
	}()

	c.prompt()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case line, ok := <-lines:
			if !ok {
				return <-readErr
			}
			done := make(chan error, 1)
			post(func() { done <- c.Exec(line) })
			select {
			case err := <-done:
				if err != nil {
					c.printError(err)
				}
			case <-ctx.Done():
				return ctx.Err()
			}
			c.prompt()
		}
	}
}

func (c *Console) prompt() {
	fmt.Fprint(c.out, c.out.String(Prompt).Faint().String())
}

func (c *Console) printError(err error) {
	fmt.Fprintln(c.out, c.out.String("error: "+err.Error()).Foreground(c.out.Color("1")).String())
}

// control resolves path or explains what the closest known path is.
func (c *Console) control(path string) (panel.Control, error) {
	if ctl := c.panel.Find(path); ctl != nil {
		return ctl, nil
	}
	if s := suggest(path, c.panel.Paths()); s != "" {
		return nil, fmt.Errorf("%w: %q, did you mean %q?", panel.ErrControlNotFound, path, s)
	}
	return nil, fmt.Errorf("%w: %q", panel.ErrControlNotFound, path)
}

func (c *Console) unknownCommand(name string) error {
	names := make([]string, 0, len(c.commands))
	for n := range c.commands {
		names = append(names, n)
	}
	sort.Strings(names)
	if s := suggest(name, names); s != "" {
		return fmt.Errorf("%w %q, did you mean %q?", ErrUnknownCommand, name, s)
	}
	return fmt.Errorf("%w %q", ErrUnknownCommand, name)
}

// suggest returns the candidate most similar to word, or "" when nothing is
// close enough to be a likely typo.
func suggest(word string, candidates []string) string {
	lev := metrics.NewLevenshtein()
	best, score := "", 0.0
	for _, cand := range candidates {
		if s := strutil.Similarity(word, cand, lev); s > score {
			best, score = cand, s
		}
	}
	if score < 0.6 {
		return ""
	}
	return best
}
