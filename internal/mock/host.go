package mock

import (
	"context"

	"github.com/peco/outlining"
	"github.com/peco/outlining/enum"
)

// View is a scripted text view. Collapsing through Dispatcher moves its
// caret to Scramble so tests can tell whether the caret was restored.
type View struct {
	*Interceptor
	Name     string
	Line     int
	Column   int
	Scramble outlining.Position

	CaretErr  error
	SetErr    error
	CenterErr error
}

func NewView(name string, line, col int) *View {
	return &View{
		Interceptor: NewInterceptor(),
		Name:        name,
		Line:        line,
		Column:      col,
	}
}

func (v *View) CaretPos() (int, int, error) {
	v.Record("CaretPos", nil)
	if v.CaretErr != nil {
		return 0, 0, v.CaretErr
	}
	return v.Line, v.Column, nil
}

func (v *View) SetCaretPos(line, col int) error {
	v.Record("SetCaretPos", []any{line, col})
	if v.SetErr != nil {
		return v.SetErr
	}
	v.Line, v.Column = line, col
	return nil
}

func (v *View) CenterLines(line, margin int) error {
	v.Record("CenterLines", []any{line, margin})
	return v.CenterErr
}

// Window wraps a View, or fails to resolve with Err.
type Window struct {
	View *View
	Err  error
}

func (w Window) TextView() (outlining.View, error) {
	if w.Err != nil {
		return nil, w.Err
	}
	return w.View, nil
}

// Dispatcher executes commands against mock views. Fail and Panic select
// views by name that should error or panic.
type Dispatcher struct {
	*Interceptor
	Fail  map[string]error
	Panic map[string]bool
}

func NewDispatcher() *Dispatcher {
	return &Dispatcher{
		Interceptor: NewInterceptor(),
		Fail:        map[string]error{},
		Panic:       map[string]bool{},
	}
}

func (d *Dispatcher) Exec(cmd outlining.Command, target outlining.View) error {
	v := target.(*View)
	d.Record("Exec", []any{cmd, v.Name})
	v.Record("Exec", []any{cmd})
	if d.Panic[v.Name] {
		panic("exec exploded for " + v.Name)
	}
	v.Line, v.Column = v.Scramble.Line, v.Scramble.Column
	if err := d.Fail[v.Name]; err != nil {
		return err
	}
	return nil
}

// TextManager returns Active as the active view. A non-empty Panic makes
// ActiveView panic with it.
type TextManager struct {
	Active outlining.View
	Err    error
	Panic  string
}

func (tm TextManager) ActiveView() (outlining.View, error) {
	if tm.Panic != "" {
		panic(tm.Panic)
	}
	return tm.Active, tm.Err
}

// Shell enumerates Windows in batches. MaxBatch caps the batch size the
// shell honors; Overflow makes it report one more item than requested.
// With Panic set, DocumentWindows panics when PanicAt is 0, otherwise the
// source panics on fetch number PanicAt.
type Shell struct {
	Windows  []outlining.Window
	MaxBatch int
	Overflow bool
	Err      error
	Fetches  int
	Panic    string
	PanicAt  int
}

func (s *Shell) DocumentWindows() (enum.Source[outlining.Window], error) {
	if s.Panic != "" && s.PanicAt == 0 {
		panic(s.Panic)
	}
	if s.Err != nil {
		return nil, s.Err
	}
	var offset int
	return enum.SourceFunc[outlining.Window](func(buf []outlining.Window) (int, error) {
		s.Fetches++
		if s.Panic != "" && s.Fetches == s.PanicAt {
			panic(s.Panic)
		}
		if s.Overflow {
			return len(buf) + 1, nil
		}
		n := len(buf)
		if s.MaxBatch > 0 && n > s.MaxBatch {
			n = s.MaxBatch
		}
		n = copy(buf[:n], s.Windows[offset:])
		offset += n
		return n, nil
	}), nil
}

// Reporter collects reported messages.
type Reporter struct {
	Messages []string
}

func (r *Reporter) ReportError(msg string) {
	r.Messages = append(r.Messages, msg)
}

// MainThread records switches and optionally fails them.
type MainThread struct {
	Switched int
	Err      error
}

func (m *MainThread) SwitchToMainThread(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.Switched++
	return m.Err
}
