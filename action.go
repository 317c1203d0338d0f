package outlining

import (
	"slices"
	"strings"
)

// Names of the built-in actions.
const (
	ActionCollapseEverythingElse             = "outlining.CollapseEverythingElse"
	ActionCollapseEverythingElseInAllWindows = "outlining.CollapseEverythingElseInAllWindows"
)

// ActionCommandID is the numeric menu command ID hosts bind to
// ActionCollapseEverythingElse.
const ActionCommandID = 0x0100

var commandIDs = map[int]string{
	ActionCommandID: ActionCollapseEverythingElse,
}

// This is the global map of canonical action name to actions
var nameToActions map[string]Action

// Execute fulfills the Action interface for ActionFunc
func (a ActionFunc) Execute(c *Collapser) *Report {
	return a(c)
}

// Register registers `a` into the global action registry by the name
// `name`. Names without a dot get the "outlining." prefix.
func (a ActionFunc) Register(name string) {
	if !strings.Contains(name, ".") {
		name = "outlining." + name
	}
	nameToActions[name] = a
}

func init() {
	nameToActions = map[string]Action{}

	ActionFunc(doCollapseEverythingElse).Register("CollapseEverythingElse")
	ActionFunc(doCollapseEverythingElseInAllWindows).Register("CollapseEverythingElseInAllWindows")
}

// LookupAction returns the registered action called name.
func LookupAction(name string) (Action, bool) {
	a, ok := nameToActions[name]
	return a, ok
}

// ActionForCommandID maps a numeric menu command ID to an action name.
func ActionForCommandID(id int) (string, bool) {
	name, ok := commandIDs[id]
	return name, ok
}

// ActionNames returns the registered action names, sorted.
func ActionNames() []string {
	names := make([]string, 0, len(nameToActions))
	for n := range nameToActions {
		names = append(names, n)
	}
	slices.Sort(names)
	return names
}

func doCollapseEverythingElse(c *Collapser) *Report {
	return c.CollapseActiveView()
}

func doCollapseEverythingElseInAllWindows(c *Collapser) *Report {
	return c.CollapseAllViews()
}
