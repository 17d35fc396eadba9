package warehouse

import (
	"context"
	"fmt"
	"slices"
	"sync"
)

// Options holds the connection settings handed to a backend factory.
type Options struct {
	// Connection is a PostgreSQL connection string or a SQLite file path.
	Connection string

	// Container is the docker container running psql. Empty runs psql on
	// the host.
	Container string

	// User and Database are passed to psql.
	User     string
	Database string
}

// Factory opens a backend.
type Factory func(ctx context.Context, opts Options) (Warehouse, error)

var (
	registry = make(map[string]Factory)
	mu       sync.RWMutex
)

// Register adds a backend to the registry.
func Register(name string, factory Factory) {
	mu.Lock()
	defer mu.Unlock()
	registry[name] = factory
}

// Open opens the named backend.
func Open(ctx context.Context, name string, opts Options) (Warehouse, error) {
	mu.RLock()
	factory, ok := registry[name]
	mu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("unknown backend: %s", name)
	}
	return factory(ctx, opts)
}

// List returns all registered backend names, sorted.
func List() []string {
	mu.RLock()
	defer mu.RUnlock()

	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}
