// Package enum turns batch-fill enumeration handles into one-at-a-time
// iterators.
//
// A host handle fills a caller supplied buffer with up to len(buf) items per
// call and signals the end of the sequence by returning a zero count.
// Enumerator hides the buffer mechanics:
//
//	it, err := enum.New(src, enum.DefaultBatchSize)
//	if err != nil {
//		return err
//	}
//	for it.Next() {
//		v, _ := it.Current()
//		// use v before calling Next again
//	}
//	if err := it.Err(); err != nil {
//		return err
//	}
package enum

import (
	"iter"

	"github.com/lestrrat-go/pdebug"
	"github.com/pkg/errors"
)

// DefaultBatchSize is the number of items requested per fetch when the
// caller has no better idea.
const DefaultBatchSize = 5

var (
	ErrInvalidCapacity = errors.New("batch capacity must be at least 1")
	ErrNilSource       = errors.New("enumeration source must be non-nil")
	ErrNoCurrent       = errors.New("no current item: Next has not returned true")
	ErrBatchOverflow   = errors.New("source returned more items than requested")
	ErrUnsupported     = errors.New("source does not support reset")
)

// Source is a host owned batch enumeration handle. Next fills buf with up
// to len(buf) items and returns how many it wrote. A zero count means the
// sequence is exhausted.
type Source[T any] interface {
	Next(buf []T) (int, error)
}

// Resetter is implemented by sources that can rewind to the first item.
type Resetter interface {
	Reset() error
}

// SourceFunc adapts a plain function to Source.
type SourceFunc[T any] func([]T) (int, error)

// Next calls f(buf).
func (f SourceFunc[T]) Next(buf []T) (int, error) {
	return f(buf)
}

// Enumerator presents a Source as a forward-only sequence. It borrows the
// source and never closes it.
//
// The buffer is reused across fetches, so the value returned by Current is
// only meaningful until the next call to Next. Enumerator is not safe for
// concurrent use.
type Enumerator[T any] struct {
	src    Source[T]
	buf    []T
	filled int
	pos    int
	valid  bool
	done   bool
	err    error
	// pending holds an error that arrived together with a non-empty
	// batch. It is raised once that batch has been consumed.
	pending error
}

// New creates an Enumerator that requests capacity items per fetch.
func New[T any](src Source[T], capacity int) (*Enumerator[T], error) {
	if src == nil {
		return nil, ErrNilSource
	}
	if capacity < 1 {
		return nil, errors.Wrapf(ErrInvalidCapacity, "got %d", capacity)
	}

	return &Enumerator[T]{
		src: src,
		buf: make([]T, capacity),
		pos: -1,
	}, nil
}

// Cap returns the batch capacity.
func (e *Enumerator[T]) Cap() int {
	return len(e.buf)
}

// Next moves to the next item, fetching a new batch when the current one
// has been consumed. Once it returns false it keeps returning false, without
// touching the source, until Reset succeeds.
func (e *Enumerator[T]) Next() bool {
	if e.done {
		e.valid = false
		return false
	}

	if e.pos+1 < e.filled {
		e.pos++
		e.valid = true
		return true
	}

	if e.pending != nil {
		e.finish(e.pending)
		return false
	}

	n, err := e.src.Next(e.buf)
	if pdebug.Enabled {
		pdebug.Printf("enum: fetched %d item(s) (capacity %d, err %v)", n, len(e.buf), err)
	}

	if n < 0 || n > len(e.buf) {
		e.finish(errors.Wrapf(ErrBatchOverflow, "requested %d, source reported %d", len(e.buf), n))
		return false
	}

	if n == 0 {
		if err != nil {
			err = errors.Wrap(err, "failed to fetch next batch")
		}
		e.finish(err)
		return false
	}

	if err != nil {
		e.pending = errors.Wrap(err, "failed to fetch next batch")
	}

	e.filled = n
	e.pos = 0
	e.valid = true
	return true
}

func (e *Enumerator[T]) finish(err error) {
	e.done = true
	e.valid = false
	e.err = err
	e.pending = nil
	e.filled = 0
	e.pos = -1
	clear(e.buf)
}

// Current returns the item at the cursor. If the most recent call to Next
// did not return true, it returns the zero value and ErrNoCurrent.
func (e *Enumerator[T]) Current() (T, error) {
	if !e.valid || e.pos < 0 || e.pos >= e.filled {
		var zero T
		return zero, ErrNoCurrent
	}
	return e.buf[e.pos], nil
}

// Err returns the error that ended the enumeration, if any. Normal
// exhaustion is not an error.
func (e *Enumerator[T]) Err() error {
	return e.err
}

// Reset rewinds the underlying source and puts the cursor before the first
// item. Sources that do not implement Resetter yield ErrUnsupported and the
// enumerator is left as it was.
func (e *Enumerator[T]) Reset() error {
	r, ok := e.src.(Resetter)
	if !ok {
		return errors.Wrapf(ErrUnsupported, "%T", e.src)
	}

	if err := r.Reset(); err != nil {
		e.finish(errors.Wrap(err, "failed to reset source"))
		return e.err
	}

	e.done = false
	e.valid = false
	e.err = nil
	e.pending = nil
	e.filled = 0
	e.pos = -1
	clear(e.buf)
	return nil
}

// All returns the remaining items as a sequence. Check Err after the
// loop to tell exhaustion from failure.
func (e *Enumerator[T]) All() iter.Seq[T] {
	return func(yield func(T) bool) {
		for e.Next() {
			if !yield(e.buf[e.pos]) {
				return
			}
		}
	}
}
