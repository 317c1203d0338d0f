package outlining

import (
	"context"

	"github.com/lestrrat-go/pdebug"
	"github.com/pkg/errors"
)

// NewPackage creates an uninitialized Package. The options are applied to
// the Collapser built by Initialize.
func NewPackage(list ...Option) *Package {
	return &Package{
		options:  list,
		reporter: nullReporter{},
	}
}

// Initialize acquires the host services. It may be called from any
// goroutine; when svc.MainThread is set it switches to the UI thread before
// touching anything else.
//
// If a required service is missing the package becomes inert: the error is
// reported once and returned, and every later Execute does nothing.
func (p *Package) Initialize(ctx context.Context, svc Services) error {
	if pdebug.Enabled {
		g := pdebug.Marker("Package.Initialize")
		defer g.End()
	}

	if p.state != stateUninitialized {
		return p.initErr
	}

	if err := ctx.Err(); err != nil {
		return errors.Wrap(err, "initialization canceled")
	}

	if svc.MainThread != nil {
		if err := svc.MainThread.SwitchToMainThread(ctx); err != nil {
			return errors.Wrap(err, "failed to switch to main thread")
		}
	}

	if svc.Reporter != nil {
		p.reporter = svc.Reporter
	}

	c, err := New(svc, p.options...)
	if err != nil {
		p.state = stateInert
		p.initErr = errors.Wrap(err, "collapse commands disabled")
		p.reporter.ReportError(p.initErr.Error())
		return p.initErr
	}

	p.collapser = c
	p.state = stateReady
	return nil
}

// Inert reports whether initialization failed and the commands are
// disabled.
func (p *Package) Inert() bool {
	return p.state == stateInert
}

// Execute runs the action registered as name. Failures while running are
// reported, not returned; the only errors are an unknown name or an
// uninitialized package.
func (p *Package) Execute(name string) error {
	a, ok := LookupAction(name)
	if !ok {
		return errors.Wrapf(ErrActionNotFound, "%q", name)
	}

	switch p.state {
	case stateInert:
		if pdebug.Enabled {
			pdebug.Printf("Package.Execute: %s ignored, package is inert", name)
		}
		return nil
	case stateUninitialized:
		return errors.New("package has not been initialized")
	}

	a.Execute(p.collapser)
	return nil
}

// ActionNames returns the names Execute accepts.
func (p *Package) ActionNames() []string {
	return ActionNames()
}
