package outlining

import (
	"fmt"

	"github.com/lestrrat-go/pdebug"
	"github.com/peco/outlining/enum"
	"github.com/pkg/errors"
)

// WithBatchSize sets how many windows are requested per enumeration fetch.
func WithBatchSize(n int) Option {
	return func(o *options) {
		o.batchSize = n
	}
}

// WithCenterMargin sets the margin passed to View.CenterLines.
func WithCenterMargin(n int) Option {
	return func(o *options) {
		o.centerMargin = n
	}
}

// WithCommand overrides the host command used to collapse a view.
func WithCommand(cmd Command) Option {
	return func(o *options) {
		o.command = cmd
	}
}

func buildOptions(list []Option) options {
	o := options{
		batchSize:    enum.DefaultBatchSize,
		centerMargin: DefaultCenterMargin,
		command:      CmdCollapseAllOutlining,
	}
	for _, opt := range list {
		opt(&o)
	}
	return o
}

// New creates a Collapser bound to the given host services.
func New(svc Services, list ...Option) (*Collapser, error) {
	var missing []string
	if svc.Dispatcher == nil {
		missing = append(missing, "Dispatcher")
	}
	if svc.TextManager == nil && svc.Shell == nil {
		missing = append(missing, "TextManager or Shell")
	}
	if len(missing) > 0 {
		return nil, &ConfigurationError{Missing: missing}
	}

	o := buildOptions(list)
	if o.batchSize < 1 {
		return nil, errors.Wrapf(enum.ErrInvalidCapacity, "invalid batch size %d", o.batchSize)
	}
	if o.centerMargin < 0 {
		return nil, errors.Errorf("invalid center margin %d", o.centerMargin)
	}

	reporter := svc.Reporter
	if reporter == nil {
		reporter = nullReporter{}
	}

	return &Collapser{
		batchSize:    o.batchSize,
		centerMargin: o.centerMargin,
		command:      o.command,
		dispatcher:   svc.Dispatcher,
		reporter:     reporter,
		shell:        svc.Shell,
		textManager:  svc.TextManager,
	}, nil
}

// CollapseActiveView collapses everything except the caret's region in
// the focused view. Failures are published to the reporter and returned in
// the report.
func (c *Collapser) CollapseActiveView() *Report {
	if pdebug.Enabled {
		g := pdebug.Marker("Collapser.CollapseActiveView")
		defer g.End()
	}

	rep := &Report{}
	defer rep.Publish(c.reporter)

	if c.textManager == nil {
		rep.Err = &ConfigurationError{Missing: []string{"TextManager"}}
		return rep
	}

	res := Result{Index: 0}
	v, err := c.activeView()
	if err == nil && v == nil {
		err = ErrNoActiveView
	}
	if err != nil {
		res.Err = &PerViewFailure{Index: 0, Step: StepResolve, Err: errors.Wrap(err, "failed to get active view")}
		rep.Results = append(rep.Results, res)
		return rep
	}

	rep.Results = append(rep.Results, c.collapseView(0, v))
	return rep
}

// CollapseAllViews does the same as CollapseActiveView for every open
// document window. A failing view does not stop the others.
func (c *Collapser) CollapseAllViews() (rep *Report) {
	if pdebug.Enabled {
		g := pdebug.Marker("Collapser.CollapseAllViews (batch size %d)", c.batchSize)
		defer g.End()
	}

	rep = &Report{}
	defer rep.Publish(c.reporter)

	var i int
	defer func() {
		if r := recover(); r != nil {
			rep.Err = errors.Errorf("window enumeration panicked after %d window(s): %v", i, r)
		}
	}()

	if c.shell == nil {
		rep.Err = &ConfigurationError{Missing: []string{"Shell"}}
		return rep
	}

	src, err := c.shell.DocumentWindows()
	if err != nil {
		rep.Err = errors.Wrap(err, "failed to enumerate document windows")
		return rep
	}

	it, err := enum.New(src, c.batchSize)
	if err != nil {
		rep.Err = errors.Wrap(err, "failed to enumerate document windows")
		return rep
	}

	for w := range it.All() {
		rep.Results = append(rep.Results, c.collapseWindow(i, w))
		i++
	}

	if err := it.Err(); err != nil {
		rep.Err = errors.Wrapf(err, "window enumeration stopped after %d window(s)", i)
	}
	return rep
}

// activeView resolves the focused view, turning a host panic into an error.
func (c *Collapser) activeView() (v View, err error) {
	defer func() {
		if r := recover(); r != nil {
			v, err = nil, errors.Errorf("panic: %v", r)
		}
	}()
	return c.textManager.ActiveView()
}

func (c *Collapser) collapseWindow(i int, w Window) (res Result) {
	res.Index = i
	defer func() {
		if r := recover(); r != nil {
			res.Err = &PerViewFailure{Index: i, Step: StepResolve, Err: errors.Errorf("panic: %v", r)}
		}
	}()

	if w == nil {
		res.Err = &PerViewFailure{Index: i, Step: StepResolve, Err: errors.New("nil window")}
		return res
	}

	v, err := w.TextView()
	if err == nil && v == nil {
		err = errors.New("window has no text view")
	}
	if err != nil {
		res.Err = &PerViewFailure{Index: i, Step: StepResolve, Err: errors.Wrap(err, "failed to resolve text view")}
		return res
	}

	return c.collapseView(i, v)
}

// collapseView runs snapshot, collapse-all and restore against v. The
// collapse step is best effort: whatever it does, the caret is restored.
func (c *Collapser) collapseView(i int, v View) (res Result) {
	res.Index = i

	var failure *PerViewFailure
	step := StepSnapshot
	defer func() {
		if r := recover(); r != nil {
			failure = failure.add(step, errors.Errorf("panic: %v", r))
		}
		if failure != nil {
			failure.Index = i
			res.Err = failure
		}
	}()

	caret, err := snapshotCaret(v)
	if err != nil {
		failure = failure.add(StepSnapshot, err)
		return res
	}
	res.Caret = caret

	if pdebug.Enabled {
		pdebug.Printf("view #%d: caret at %s, executing %s", i, caret, c.command)
	}

	step = StepCollapse
	if err := c.exec(v); err != nil {
		if pdebug.Enabled {
			pdebug.Printf("view #%d: %s failed: %s", i, c.command, err)
		}
		failure = failure.add(StepCollapse, err)
	}

	step = StepRestore
	if err := restoreCaret(v, caret, c.centerMargin); err != nil {
		failure = failure.add(StepRestore, err)
	}
	return res
}

// exec runs the collapse command, turning a panic into an error so the
// restore step still runs.
func (c *Collapser) exec(v View) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = errors.Errorf("panic: %v", r)
		}
	}()

	if err := c.dispatcher.Exec(c.command, v); err != nil {
		return errors.Wrapf(err, "failed to execute %s", c.command)
	}
	return nil
}

// String describes the result in a single line.
func (r Result) String() string {
	if r.Err != nil {
		return r.Err.Error()
	}
	return fmt.Sprintf("view #%d: restored caret to %s", r.Index, r.Caret)
}
