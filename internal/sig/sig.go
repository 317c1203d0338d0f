// Package sig cancels a context when the process is told to stop.
package sig

import (
	"context"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/lestrrat-go/pdebug"
)

type ReceivedHandler interface {
	Handle(os.Signal)
}

type ReceivedHandlerFunc func(os.Signal)

// Handle calls the underlying function with the received signal.
func (s ReceivedHandlerFunc) Handle(sig os.Signal) {
	s(sig)
}

type Handler struct {
	onSignalReceived ReceivedHandler
	sigCh            chan os.Signal
	mu               sync.Mutex
	received         os.Signal
}

// New creates a signal handler for sigs (default: SIGTERM, SIGINT, SIGHUP).
// h may be nil.
func New(h ReceivedHandler, sigs ...os.Signal) *Handler {
	if len(sigs) == 0 {
		sigs = append(sigs, syscall.SIGTERM, syscall.SIGINT, syscall.SIGHUP)
	}

	ch := make(chan os.Signal, 1)
	signal.Notify(ch, sigs...)

	return &Handler{
		onSignalReceived: h,
		sigCh:            ch,
	}
}

// Received returns the signal that ended Loop, or nil.
func (h *Handler) Received() os.Signal {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.received
}

// Loop waits for a signal or for ctx to be done, then calls cancel and
// returns. A received signal is passed to the handler first.
func (h *Handler) Loop(ctx context.Context, cancel func()) error {
	defer cancel()
	defer signal.Stop(h.sigCh)

	select {
	case <-ctx.Done():
		return ctx.Err()
	case s := <-h.sigCh:
		if pdebug.Enabled {
			pdebug.Printf("sig.Loop: received %s", s)
		}
		h.mu.Lock()
		h.received = s
		h.mu.Unlock()
		if h.onSignalReceived != nil {
			h.onSignalReceived.Handle(s)
		}
		return nil
	}
}

// Status maps a received signal to the conventional shell exit status
// (128 + signal number). It returns 1 for signals without a number.
func Status(s os.Signal) int {
	if n, ok := s.(syscall.Signal); ok {
		return 128 + int(n)
	}
	return 1
}
