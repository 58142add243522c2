package resilience

import (
	"fmt"
	"sync"
)

// Group collapses concurrent calls sharing a key into one execution.
// The zero value is ready to use.
type Group[T any] struct {
	mu    sync.Mutex
	calls map[string]*flight[T]
}

type flight[T any] struct {
	done chan struct{}
	val  T
	err  error
	dups int
}

// Do runs fn once per key at a time. Callers that arrive while fn is running
// receive the same result and shared=true.
func (g *Group[T]) Do(key string, fn func() (T, error)) (val T, shared bool, err error) {
	g.mu.Lock()
	if g.calls == nil {
		g.calls = make(map[string]*flight[T])
	}
	if f, ok := g.calls[key]; ok {
		f.dups++
		g.mu.Unlock()
		<-f.done
		return f.val, true, f.err
	}

	f := &flight[T]{done: make(chan struct{})}
	g.calls[key] = f
	g.mu.Unlock()

	g.run(key, f, fn)

	return f.val, f.dups > 0, f.err
}

func (g *Group[T]) run(key string, f *flight[T], fn func() (T, error)) {
	defer func() {
		if r := recover(); r != nil {
			f.err = fmt.Errorf("singleflight %q panicked: %v", key, r)
		}
		g.mu.Lock()
		delete(g.calls, key)
		g.mu.Unlock()
		close(f.done)
	}()

	f.val, f.err = fn()
}
