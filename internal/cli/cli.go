// Package cli implements the outlining command: it loads files into an
// in-memory host, runs a collapse action and prints or shows the result.
package cli

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/gdamore/tcell/v2"
	"github.com/lestrrat-go/pdebug"
	"github.com/peco/outlining"
	"github.com/peco/outlining/config"
	"github.com/peco/outlining/internal/memhost"
	"github.com/peco/outlining/internal/sig"
	"github.com/peco/outlining/internal/termview"
	"github.com/peco/outlining/internal/util"
	"github.com/pkg/errors"
)

var (
	ErrNoFiles        = errors.New("no files given")
	ErrSignalReceived = errors.New("received signal")
)

// CLI holds what a run needs from the process. The zero value is not
// usable; use New.
type CLI struct {
	Version string
	Stdout  io.Writer
	Stderr  io.Writer
	// ScreenFunc opens the terminal for --show.
	ScreenFunc func() (tcell.Screen, error)
	// SignalFunc creates the signal watcher used while showing views.
	SignalFunc func() *sig.Handler

	config  config.Config
	options CLIOptions
	host    *memhost.Host
	views   []*memhost.View
}

// New creates a CLI writing to the process' standard streams.
func New(version string) *CLI {
	return &CLI{
		Version:    version,
		Stdout:     os.Stdout,
		Stderr:     os.Stderr,
		ScreenFunc: tcell.NewScreen,
		SignalFunc: func() *sig.Handler { return sig.New(nil) },
	}
}

// Run executes one invocation. The returned error carries the exit status
// (see util.GetExitStatus); nil means success.
func (c *CLI) Run(ctx context.Context, args []string) error {
	if pdebug.Enabled {
		g := pdebug.Marker("CLI.Run")
		defer g.End()
	}

	c.options = CLIOptions{}
	files, err := c.options.parse(args, c.Stderr)
	if err != nil {
		return util.WithExitStatus(err, 1)
	}

	if c.options.OptHelp {
		c.Stdout.Write(c.options.help())
		return nil
	}

	if c.options.OptVersion {
		fmt.Fprintf(c.Stdout, "outlining version %s\n", c.Version)
		return nil
	}

	if c.options.OptList {
		for _, name := range outlining.ActionNames() {
			fmt.Fprintln(c.Stdout, name)
		}
		return nil
	}

	if len(files) == 0 {
		c.Stderr.Write(c.options.help())
		return util.WithExitStatus(ErrNoFiles, 1)
	}

	if err := c.setupConfig(); err != nil {
		return util.WithExitStatus(err, 1)
	}

	name, err := c.actionName()
	if err != nil {
		return util.WithExitStatus(err, 1)
	}

	if err := c.load(files); err != nil {
		return util.WithExitStatus(err, 1)
	}

	rep := outlining.NewWriterReporter(c.Stderr, "outlining: ")
	pkg := outlining.NewPackage(
		outlining.WithBatchSize(c.config.BatchSize),
		outlining.WithCenterMargin(c.config.CenterMargin),
	)
	if err := pkg.Initialize(ctx, c.host.Services(rep)); err != nil {
		return util.WithExitStatus(err, 1)
	}
	if err := pkg.Execute(name); err != nil {
		return util.WithExitStatus(err, 1)
	}

	if c.options.OptShow {
		if err := c.show(ctx); err != nil {
			return err
		}
	} else {
		for _, v := range c.views {
			if err := v.Render(c.Stdout, c.config.Marker); err != nil {
				return util.WithExitStatus(errors.Wrap(err, "failed to print view"), 1)
			}
		}
	}

	if n := rep.Count(); n > 0 {
		return util.WithExitStatus(errors.Errorf("%d error(s) reported", n), 1)
	}
	return nil
}

// setupConfig reads the rcfile, if any, and applies the command line
// overrides on top of it.
func (c *CLI) setupConfig() error {
	if err := c.config.Init(); err != nil {
		return errors.Wrap(err, "failed to initialize config")
	}

	rcfile := c.options.OptRcfile
	if rcfile == "" {
		if file, err := config.LocateRcfile(config.DefaultConfigLocator); err == nil {
			rcfile = file
		}
	}
	if rcfile != "" {
		if err := c.config.ReadFilename(rcfile); err != nil {
			return errors.Wrapf(err, "failed to read config file %s", rcfile)
		}
	}

	if v := c.options.OptBatchSize; v > 0 {
		c.config.BatchSize = v
	}
	if v := c.options.OptMargin; v >= 0 {
		c.config.CenterMargin = v
	}
	if v := c.options.OptHeight; v > 0 {
		c.config.ViewHeight = v
	}
	if v := c.options.OptMarker; v != "" {
		c.config.Marker = v
	}
	if c.options.OptAll {
		c.config.Scope = config.ScopeAll
	}

	for key, name := range c.config.Keymap {
		if _, ok := outlining.LookupAction(name); !ok {
			return errors.Wrapf(outlining.ErrActionNotFound, "keymap %q -> %q", key, name)
		}
	}

	return c.config.Validate()
}

// actionName picks the action to run: --command, then --key, then the
// configured Action, then the scope.
func (c *CLI) actionName() (string, error) {
	var name string
	switch {
	case c.options.OptCommand != "":
		name = c.options.OptCommand
	case c.options.OptKey != "":
		bound, ok := c.config.Keymap[c.options.OptKey]
		if !ok {
			return "", errors.Errorf("no action bound to key %q", c.options.OptKey)
		}
		name = bound
	case c.config.Action != "" && !c.options.OptAll:
		name = c.config.Action
	case c.config.Scope == config.ScopeAll:
		name = outlining.ActionCollapseEverythingElseInAllWindows
	default:
		name = outlining.ActionCollapseEverythingElse
	}

	if _, ok := outlining.LookupAction(name); !ok {
		return "", errors.Wrapf(outlining.ErrActionNotFound, "%q", name)
	}
	return name, nil
}

func (c *CLI) load(files []string) error {
	if len(c.options.OptCaret) > len(files) {
		return errors.Errorf("%d caret(s) given for %d file(s)", len(c.options.OptCaret), len(files))
	}

	c.host = memhost.New()
	c.views = c.views[:0]
	for i, file := range files {
		buf, err := os.ReadFile(file)
		if err != nil {
			return errors.Wrapf(err, "failed to read %s", file)
		}

		v := c.host.Open(file, string(buf))
		v.SetHeight(c.config.ViewHeight)
		if i < len(c.options.OptCaret) {
			line, col, err := parseCaret(c.options.OptCaret[i])
			if err != nil {
				return err
			}
			if err := v.SetCaretPos(line, col); err != nil {
				return errors.Wrapf(err, "%s: caret %s", file, c.options.OptCaret[i])
			}
		}
		c.views = append(c.views, v)
	}

	if a := c.options.OptActive; a > 0 {
		if a > len(c.views) {
			return errors.Errorf("--active %d out of range (1-%d)", a, len(c.views))
		}
		c.host.Activate(c.views[a-1])
	}
	return nil
}

func (c *CLI) show(ctx context.Context) error {
	screen, err := c.ScreenFunc()
	if err != nil {
		return util.WithExitStatus(errors.Wrap(err, "failed to create screen"), 1)
	}
	if err := screen.Init(); err != nil {
		return util.WithExitStatus(errors.Wrap(err, "failed to initialize screen"), 1)
	}
	defer screen.Fini()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	h := c.SignalFunc()
	go h.Loop(ctx, cancel)

	err = termview.Show(ctx, screen, c.views, c.config.Marker)
	if s := h.Received(); s != nil {
		return util.WithExitStatus(errors.Wrapf(ErrSignalReceived, "%s", s), sig.Status(s))
	}
	if err != nil {
		return util.WithExitStatus(errors.Wrap(err, "failed to show views"), 1)
	}
	return nil
}
