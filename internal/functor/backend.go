package functor

import (
	"sort"
	"sync"

	"github.com/pkg/errors"

	"github.com/born-ml/braid/internal/backend/cpu"
	"github.com/born-ml/braid/internal/parallel"
	"github.com/born-ml/braid/internal/tensor"
)

// ErrUnknownBackend is returned by Lookup for unregistered names.
var ErrUnknownBackend = errors.New("unknown backend")

// Factory builds a backend for a parallel configuration.
type Factory func(cfg parallel.Config) tensor.Backend

var (
	mu       sync.Mutex
	stack    []tensor.Backend
	registry = map[string]Factory{
		"cpu": func(cfg parallel.Config) tensor.Backend { return cpu.NewWithConfig(cfg) },
	}
	fallback tensor.Backend = cpu.New()
)

// Register makes a backend available by name.
func Register(name string, factory Factory) {
	mu.Lock()
	defer mu.Unlock()
	registry[name] = factory
}

// Backends lists the registered backend names.
func Backends() []string {
	mu.Lock()
	defer mu.Unlock()
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Lookup builds the backend registered under name.
func Lookup(name string, cfg parallel.Config) (tensor.Backend, error) {
	mu.Lock()
	factory, ok := registry[name]
	mu.Unlock()
	if !ok {
		return nil, errors.Wrapf(ErrUnknownBackend, "%q", name)
	}
	return factory(cfg), nil
}

// Current returns the innermost backend installed by UseBackend, or the
// default CPU backend.
func Current() tensor.Backend {
	mu.Lock()
	defer mu.Unlock()
	if len(stack) == 0 {
		return fallback
	}
	return stack[len(stack)-1]
}

// UseBackend installs b until the returned function is called:
//
//	restore := functor.UseBackend(b)
//	defer restore()
//
// Evaluations that must not observe each other should set Functor.Backend
// instead.
func UseBackend(b tensor.Backend) (restore func()) {
	mu.Lock()
	defer mu.Unlock()
	stack = append(stack, b)
	depth := len(stack)
	var once sync.Once
	return func() {
		once.Do(func() {
			mu.Lock()
			defer mu.Unlock()
			if len(stack) >= depth {
				stack = stack[:depth-1]
			}
		})
	}
}
