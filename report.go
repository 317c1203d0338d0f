package outlining

import (
	"fmt"
	"io"
	"sync"
)

type nullReporter struct{}

func (nullReporter) ReportError(string) {}

// ReportError calls f(msg).
func (f ReporterFunc) ReportError(msg string) {
	f(msg)
}

// WriterReporter writes each reported message on its own line.
type WriterReporter struct {
	mutex  sync.Mutex
	out    io.Writer
	prefix string
	count  int
}

// NewWriterReporter creates a Reporter that writes to out, prefixing every
// message with prefix.
func NewWriterReporter(out io.Writer, prefix string) *WriterReporter {
	return &WriterReporter{out: out, prefix: prefix}
}

func (r *WriterReporter) ReportError(msg string) {
	r.mutex.Lock()
	defer r.mutex.Unlock()
	r.count++
	fmt.Fprintf(r.out, "%s%s\n", r.prefix, msg)
}

// Count returns the number of messages reported so far.
func (r *WriterReporter) Count() int {
	r.mutex.Lock()
	defer r.mutex.Unlock()
	return r.count
}

// Failures returns the results whose view could not be processed cleanly.
func (r *Report) Failures() []Result {
	var failed []Result
	for _, res := range r.Results {
		if res.Err != nil {
			failed = append(failed, res)
		}
	}
	return failed
}

// OK reports whether every view succeeded and the operation itself did
// not fail.
func (r *Report) OK() bool {
	return r.Err == nil && len(r.Failures()) == 0
}

// Publish sends one message per failed view, then one for the operation
// error if there is one.
func (r *Report) Publish(rep Reporter) {
	if rep == nil {
		return
	}
	for _, res := range r.Failures() {
		rep.ReportError(res.Err.Error())
	}
	if r.Err != nil {
		rep.ReportError(r.Err.Error())
	}
}
