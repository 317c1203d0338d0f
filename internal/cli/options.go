package cli

import (
	"bytes"
	"fmt"
	"io"
	"reflect"
	"strconv"
	"strings"

	"github.com/jessevdk/go-flags"
	"github.com/pkg/errors"
)

// CLIOptions are the command line options of the outlining binary.
type CLIOptions struct {
	OptHelp      bool     `short:"h" long:"help" description:"show this help message and exit"`
	OptVersion   bool     `long:"version" description:"print the version and exit"`
	OptRcfile    string   `long:"rcfile" description:"path to the settings file"`
	OptCaret     []string `long:"caret" description:"caret position LINE:COL (1 based) of the next FILE.\nrepeat once per file, in file order"`
	OptActive    int      `long:"active" description:"1 based index of the FILE whose view is active (default 1)"`
	OptAll       bool     `long:"all" description:"collapse every document window, not just the active view"`
	OptCommand   string   `long:"command" description:"name of the action to run (see --list-actions)"`
	OptKey       string   `long:"key" description:"run the action the Keymap binds to this key label"`
	OptList      bool     `long:"list-actions" description:"print the action names and exit"`
	OptBatchSize int      `long:"batch-size" short:"b" description:"number of windows fetched per enumeration step"`
	OptMargin    int      `long:"margin" default:"-1" description:"lines kept above the caret when re-centering"`
	OptHeight    int      `long:"height" description:"number of lines a view displays"`
	OptMarker    string   `long:"marker" description:"text appended to collapsed region headers"`
	OptShow      bool     `long:"show" description:"show the views in the terminal instead of printing them"`
}

func (options *CLIOptions) parse(s []string, stderr io.Writer) ([]string, error) {
	p := flags.NewParser(options, flags.PrintErrors)
	args, err := p.ParseArgs(s)
	if err != nil {
		stderr.Write(options.help())
		return nil, errors.Wrap(err, "invalid command line options")
	}

	if err := options.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid command line arguments")
	}

	return args, nil
}

// Validate checks option values that do not depend on the files given.
func (options CLIOptions) Validate() error {
	if options.OptBatchSize < 0 {
		return errors.Errorf("invalid batch size %d", options.OptBatchSize)
	}
	if options.OptHeight < 0 {
		return errors.Errorf("invalid height %d", options.OptHeight)
	}
	if options.OptActive < 0 {
		return errors.Errorf("invalid active index %d", options.OptActive)
	}
	if options.OptAll && options.OptCommand != "" {
		return errors.New("--all and --command are mutually exclusive")
	}
	for _, c := range options.OptCaret {
		if _, _, err := parseCaret(c); err != nil {
			return err
		}
	}
	return nil
}

// parseCaret converts "LINE:COL" (1 based) into 0 based coordinates.
func parseCaret(s string) (int, int, error) {
	ls, cs, ok := strings.Cut(s, ":")
	if !ok {
		return 0, 0, errors.Errorf("invalid caret %q: expected LINE:COL", s)
	}
	line, err := strconv.Atoi(ls)
	if err != nil || line < 1 {
		return 0, 0, errors.Errorf("invalid caret %q: bad line", s)
	}
	col, err := strconv.Atoi(cs)
	if err != nil || col < 1 {
		return 0, 0, errors.Errorf("invalid caret %q: bad column", s)
	}
	return line - 1, col - 1, nil
}

func (options CLIOptions) help() []byte {
	buf := bytes.Buffer{}

	fmt.Fprintf(&buf, `
Usage: outlining [options] FILE...

Options:
`)

	t := reflect.TypeOf(options)
	for i := 0; i < t.NumField(); i++ {
		tag := t.Field(i).Tag
		if tag.Get("long") == "" {
			continue
		}

		var o string
		if s := tag.Get("short"); s != "" {
			o = fmt.Sprintf("-%s, --%s", tag.Get("short"), tag.Get("long"))
		} else {
			o = fmt.Sprintf("--%s", tag.Get("long"))
		}

		desc := strings.ReplaceAll(tag.Get("description"), "\n", "\n"+strings.Repeat(" ", 24))
		fmt.Fprintf(
			&buf,
			"  %-21s %s\n",
			o,
			desc,
		)
	}

	return buf.Bytes()
}
