package mock

import "sync"

// Interceptor records calls by name so tests can inspect the order and
// arguments of host interactions.
type Interceptor struct {
	m      sync.Mutex
	Events map[string][]any
	log    []string
}

func NewInterceptor() *Interceptor {
	return &Interceptor{
		Events: make(map[string][]any),
	}
}

func (i *Interceptor) Reset() {
	i.m.Lock()
	defer i.m.Unlock()

	i.Events = make(map[string][]any)
	i.log = nil
}

func (i *Interceptor) Record(name string, args []any) {
	i.m.Lock()
	defer i.m.Unlock()

	i.Events[name] = append(i.Events[name], any(args))
	i.log = append(i.log, name)
}

// Count returns how many times name was recorded.
func (i *Interceptor) Count(name string) int {
	i.m.Lock()
	defer i.m.Unlock()
	return len(i.Events[name])
}

// Log returns every recorded call name in order.
func (i *Interceptor) Log() []string {
	i.m.Lock()
	defer i.m.Unlock()
	return append([]string(nil), i.log...)
}
