package outlining

import (
	"context"

	"github.com/peco/outlining/enum"
)

// Command names a host editor command. The host decides what it does;
// this package only asks for it to be executed against a view.
type Command string

// CmdCollapseAllOutlining is Edit > Outlining > Collapse All. Hosts expand
// the region holding the caret, and its ancestors, right after collapsing.
const CmdCollapseAllOutlining Command = "Edit.CollapseAllOutlining"

// DefaultCenterMargin is the number of lines kept around the caret line
// when the view is re-centered after collapsing.
const DefaultCenterMargin = 10

// Status is a host status code. StatusOK is never reported as an error.
type Status int

const (
	StatusOK           Status = 0
	StatusFail         Status = 1
	StatusNotSupported Status = 2
	StatusInvalidArg   Status = 3
)

// Position is a zero-based caret location.
type Position struct {
	Line   int
	Column int
}

// View is an editor text view borrowed from the host. Views must not be
// kept past the invocation that obtained them.
type View interface {
	CaretPos() (line, column int, err error)
	SetCaretPos(line, column int) error
	CenterLines(line, margin int) error
}

// Window is a document window frame. TextView resolves the text view that
// was last active inside it.
type Window interface {
	TextView() (View, error)
}

// TextManager gives access to the view that currently has focus.
type TextManager interface {
	ActiveView() (View, error)
}

// Shell enumerates open document windows through a batch handle.
type Shell interface {
	DocumentWindows() (enum.Source[Window], error)
}

// Dispatcher executes host commands against a view.
type Dispatcher interface {
	Exec(cmd Command, target View) error
}

// Reporter surfaces failures to the user.
type Reporter interface {
	ReportError(msg string)
}

// ReporterFunc is a Reporter that is just a callback.
type ReporterFunc func(string)

// MainThreadSwitcher moves the caller onto the thread that owns the
// editor's views.
type MainThreadSwitcher interface {
	SwitchToMainThread(context.Context) error
}

// Services bundles the host collaborators. Dispatcher is always required,
// and at least one of TextManager and Shell must be present.
type Services struct {
	TextManager TextManager
	Shell       Shell
	Dispatcher  Dispatcher
	Reporter    Reporter
	MainThread  MainThreadSwitcher
}

// Collapser collapses everything but the caret's region, one view at a
// time. It holds no per-invocation state.
type Collapser struct {
	batchSize    int
	centerMargin int
	command      Command
	dispatcher   Dispatcher
	reporter     Reporter
	shell        Shell
	textManager  TextManager
}

// Option configures a Collapser or a Package.
type Option func(*options)

type options struct {
	batchSize    int
	centerMargin int
	command      Command
}

// Step identifies where a per-view failure happened.
type Step string

const (
	StepResolve  Step = "resolve"
	StepSnapshot Step = "snapshot"
	StepCollapse Step = "collapse"
	StepRestore  Step = "restore"
)

// Result is the outcome of processing one view.
type Result struct {
	// Index is the position of the view in the enumeration, 0 for the
	// active view.
	Index int
	// Caret is the snapshot taken before collapsing. Valid only when the
	// snapshot step succeeded.
	Caret Position
	// Err is a *PerViewFailure, or nil.
	Err error
}

// Report collects per-view results of one invocation. Err holds a failure
// that stopped the whole operation, such as a broken window enumeration.
type Report struct {
	Results []Result
	Err     error
}

// Action is something a Package can execute by name.
type Action interface {
	Execute(*Collapser) *Report
}

// ActionFunc is an Action that is basically just a callback.
type ActionFunc func(*Collapser) *Report

type packageState int

const (
	stateUninitialized packageState = iota
	stateReady
	stateInert
)

// Package owns the registered commands and the collapser they run
// against. It mirrors the host's command lifecycle: it is initialized once,
// and if a required service is missing it stays inert.
type Package struct {
	options   []Option
	state     packageState
	collapser *Collapser
	reporter  Reporter
	initErr   error
}
