package console

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/formatters"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/alecthomas/chroma/v2/styles"
	"github.com/mitchellh/go-homedir"
	"github.com/muesli/termenv"

	"material-scene/panel"
)

type command struct {
	usage    string
	help     string
	min, max int
	run      func(c *Console, args []string) error
}

func builtins() map[string]*command {
	return map[string]*command{
		"ls": {
			usage: "ls [prefix]", help: "list controls and their values",
			max: 1, run: (*Console).list,
		},
		"get": {
			usage: "get <path>", help: "print a control's value",
			min: 1, max: 1, run: (*Console).get,
		},
		"set": {
			usage: "set <path> <value>", help: "commit a value and render",
			min: 2, max: 2, run: (*Console).set,
		},
		"drag": {
			usage: "drag <path> <value>", help: "record an intermediate value without rendering",
			min: 2, max: 2, run: (*Console).drag,
		},
		"finish": {
			usage: "finish <path>", help: "apply the last dragged value and render",
			min: 1, max: 1, run: (*Console).finish,
		},
		"undo": {
			usage: "undo", help: "revert the last committed edit",
			run: func(c *Console, _ []string) error { return c.step(c.panel.Undo, "undo") },
		},
		"redo": {
			usage: "redo", help: "re-apply the last undone edit",
			run: func(c *Console, _ []string) error { return c.step(c.panel.Redo, "redo") },
		},
		"history": {
			usage: "history", help: "list committed edits, oldest first",
			run: (*Console).history,
		},
		"save": {
			usage: "save <file>", help: "write all values to a TOML preset",
			min: 1, max: 1, run: (*Console).save,
		},
		"load": {
			usage: "load <file>", help: "apply a TOML preset",
			min: 1, max: 1, run: (*Console).load,
		},
		"show": {
			usage: "show <file>", help: "print a preset file with highlighting",
			min: 1, max: 1, run: (*Console).show,
		},
		"help": {
			usage: "help", help: "list commands",
			run: (*Console).help,
		},
	}
}

func (c *Console) list(args []string) error {
	prefix := ""
	if len(args) == 1 {
		prefix = strings.Trim(args[0], "/")
	}
	n := 0
	c.panel.Walk(func(path string, ctl panel.Control) {
		if !strings.HasPrefix(path, prefix) {
			return
		}
		n++
		name := c.out.String(path).Bold().String()
		desc := c.out.String(ctl.Describe()).Faint().String()
		fmt.Fprintf(c.out, "%s  %s\n", name, desc)
	})
	if n == 0 && prefix != "" {
		_, err := c.control(prefix)
		return err
	}
	return nil
}

func (c *Console) get(args []string) error {
	ctl, err := c.control(args[0])
	if err != nil {
		return err
	}
	fmt.Fprintf(c.out, "%v\n", ctl.Value())
	return nil
}

func (c *Console) set(args []string) error {
	ctl, err := c.control(args[0])
	if err != nil {
		return err
	}
	if err := ctl.Commit(args[1]); err != nil {
		return err
	}
	c.printValue(ctl)
	return nil
}

func (c *Console) drag(args []string) error {
	ctl, err := c.control(args[0])
	if err != nil {
		return err
	}
	return ctl.Input(args[1])
}

func (c *Console) finish(args []string) error {
	ctl, err := c.control(args[0])
	if err != nil {
		return err
	}
	if !ctl.Pending() {
		fmt.Fprintln(c.out, "nothing pending")
		return nil
	}
	ctl.Finish()
	c.printValue(ctl)
	return nil
}

func (c *Console) step(fn func() bool, what string) error {
	if !fn() {
		fmt.Fprintf(c.out, "nothing to %s\n", what)
	}
	return nil
}

func (c *Console) history(_ []string) error {
	for i, d := range c.panel.History().Descriptions() {
		fmt.Fprintf(c.out, "%3d  %s\n", i+1, d)
	}
	return nil
}

func (c *Console) save(args []string) error {
	path, err := homedir.Expand(args[0])
	if err != nil {
		return err
	}
	if err := c.panel.SavePreset(path); err != nil {
		return err
	}
	fmt.Fprintf(c.out, "saved %s\n", path)
	return nil
}

func (c *Console) load(args []string) error {
	path, err := homedir.Expand(args[0])
	if err != nil {
		return err
	}
	return c.panel.LoadPreset(path)
}

func (c *Console) show(args []string) error {
	path, err := homedir.Expand(args[0])
	if err != nil {
		return err
	}
	src, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	lexer := lexers.Get("toml")
	if lexer == nil {
		lexer = lexers.Fallback
	}
	lexer = chroma.Coalesce(lexer)
	formatter := formatters.Get(formatterName(c.out.Profile))
	style := styles.Get("monokai")

	it, err := lexer.Tokenise(nil, string(src))
	if err != nil {
		return fmt.Errorf("highlight %s: %w", path, err)
	}
	return formatter.Format(c.out, style, it)
}

func (c *Console) help(_ []string) error {
	names := make([]string, 0, len(c.commands))
	for n := range c.commands {
		names = append(names, n)
	}
	sort.Strings(names)
	for _, n := range names {
		cmd := c.commands[n]
		fmt.Fprintf(c.out, "%-22s %s\n", cmd.usage, c.out.String(cmd.help).Faint().String())
	}
	return nil
}

func (c *Console) printValue(ctl panel.Control) {
	fmt.Fprintf(c.out, "%s = %v\n", c.out.String(ctl.Path()).Bold().String(), ctl.Value())
}

// formatterName picks the chroma terminal formatter matching profile.
func formatterName(p termenv.Profile) string {
	switch p {
	case termenv.TrueColor:
		return "terminal16m"
	case termenv.ANSI256:
		return "terminal256"
	case termenv.ANSI:
		return "terminal16"
	}
	return "noop"
}
