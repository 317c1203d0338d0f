package memhost

import (
	"fmt"
	"unicode/utf8"

	"github.com/lestrrat-go/pdebug"
	"github.com/peco/outlining"
	"github.com/peco/outlining/enum"
	"github.com/pkg/errors"
)

// DefaultViewHeight is the number of lines a view shows at once.
const DefaultViewHeight = 20

// View is a text view over a Document.
type View struct {
	doc    *Document
	line   int
	col    int
	top    int
	height int
}

// NewView creates a view over doc with the caret at the first line.
func NewView(doc *Document) *View {
	return &View{doc: doc, height: DefaultViewHeight}
}

func (v *View) Document() *Document {
	return v.doc
}

// Top returns the first line shown by the view.
func (v *View) Top() int {
	return v.top
}

// Height returns the number of visible rows.
func (v *View) Height() int {
	return v.height
}

// SetHeight changes the number of visible rows.
func (v *View) SetHeight(h int) {
	if h < 1 {
		h = 1
	}
	v.height = h
}

// CaretPos returns the caret line and column. Columns count runes.
func (v *View) CaretPos() (int, int, error) {
	return v.line, v.col, nil
}

func (v *View) SetCaretPos(line, col int) error {
	if line < 0 || line >= v.doc.LineCount() {
		return &outlining.StatusError{Op: fmt.Sprintf("SetCaretPos(%d, %d)", line, col), Code: outlining.StatusInvalidArg}
	}
	if col < 0 || col > utf8.RuneCountInString(v.doc.Line(line)) {
		return &outlining.StatusError{Op: fmt.Sprintf("SetCaretPos(%d, %d)", line, col), Code: outlining.StatusInvalidArg}
	}
	v.line, v.col = line, col
	return nil
}

// CenterLines scrolls so that line is shown with margin rows above it when
// there is room for them.
func (v *View) CenterLines(line, margin int) error {
	if line < 0 || line >= v.doc.LineCount() {
		return &outlining.StatusError{Op: fmt.Sprintf("CenterLines(%d)", line), Code: outlining.StatusInvalidArg}
	}

	visible := v.doc.VisibleLines()
	row := 0
	for i, n := range visible {
		if n >= line {
			row = i
			break
		}
	}

	if margin > v.height/2 {
		margin = v.height / 2
	}
	first := row - margin
	if first < 0 {
		first = 0
	}
	v.top = visible[first]
	return nil
}

// Window is a document window holding one view.
type Window struct {
	view *View
	err  error
}

// TextView returns the window's view, or the error it was created with.
func (w *Window) TextView() (outlining.View, error) {
	if w.err != nil {
		return nil, w.err
	}
	return w.view, nil
}

// View returns the concrete view.
func (w *Window) View() *View {
	return w.view
}

// Host owns documents, windows and the active view.
type Host struct {
	windows []*Window
	active  *View
}

func New() *Host {
	return &Host{}
}

// Open creates a document and a window for it, and returns the view. The
// first view opened becomes active.
func (h *Host) Open(name, text string) *View {
	v := NewView(NewDocument(name, text))
	h.windows = append(h.windows, &Window{view: v})
	if h.active == nil {
		h.active = v
	}
	return v
}

// OpenBroken adds a window whose text view cannot be resolved.
func (h *Host) OpenBroken(err error) {
	h.windows = append(h.windows, &Window{err: err})
}

// Windows returns the open windows.
func (h *Host) Windows() []*Window {
	return h.windows
}

// Activate makes v the active view.
func (h *Host) Activate(v *View) {
	h.active = v
}

func (h *Host) ActiveView() (outlining.View, error) {
	if h.active == nil {
		return nil, outlining.ErrNoActiveView
	}
	return h.active, nil
}

func (h *Host) DocumentWindows() (enum.Source[outlining.Window], error) {
	return &windowEnum{host: h}, nil
}

// Exec runs cmd against target. Only views created by this host are
// accepted.
func (h *Host) Exec(cmd outlining.Command, target outlining.View) error {
	v, ok := target.(*View)
	if !ok {
		return errors.Wrapf(&outlining.StatusError{Op: string(cmd), Code: outlining.StatusInvalidArg}, "foreign view %T", target)
	}

	switch cmd {
	case outlining.CmdCollapseAllOutlining:
		if pdebug.Enabled {
			pdebug.Printf("memhost: collapsing %s around line %d", v.doc.Name(), v.line)
		}
		v.doc.CollapseAll(v.line)
		// The layout changed, so the host puts the caret at the start
		// of its line and scrolls back to the top.
		v.col = 0
		v.top = 0
		return nil
	case CmdExpandAllOutlining:
		v.doc.ExpandAll()
		return nil
	default:
		return &outlining.StatusError{Op: string(cmd), Code: outlining.StatusNotSupported}
	}
}

// CmdExpandAllOutlining undoes a collapse.
const CmdExpandAllOutlining outlining.Command = "Edit.ExpandAllOutlining"

// Services returns the collaborators backed by h.
func (h *Host) Services(rep outlining.Reporter) outlining.Services {
	return outlining.Services{
		TextManager: h,
		Shell:       h,
		Dispatcher:  h,
		Reporter:    rep,
	}
}

// windowEnum hands out the host's windows in batches and can be reset.
type windowEnum struct {
	host   *Host
	offset int
}

func (e *windowEnum) Next(buf []outlining.Window) (int, error) {
	var n int
	for n < len(buf) && e.offset < len(e.host.windows) {
		buf[n] = e.host.windows[e.offset]
		n++
		e.offset++
	}
	return n, nil
}

func (e *windowEnum) Reset() error {
	e.offset = 0
	return nil
}
