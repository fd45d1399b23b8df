package dialect

import (
	"fmt"
	"log/slog"
	"sort"
	"sync"
)

var (
	registryMu sync.RWMutex
	factories  = make(map[string]func(*slog.Logger) Adapter)
	instances  = make(map[string]Adapter)
)

// Register adds an adapter factory to the registry. Called by adapter
// implementations in their init() functions; registering the same name
// twice replaces the factory and drops any cached instance.
func Register(name string, factory func(*slog.Logger) Adapter) {
	registryMu.Lock()
	defer registryMu.Unlock()
	factories[name] = factory
	delete(instances, name)
}

// Get returns the shared adapter instance for the dialect identifier.
// Instances are built once with a discard logger and reused for the
// process lifetime; adapters are stateless, so the shared instance is
// safe for concurrent callers.
func Get(name string) (Adapter, error) {
	registryMu.RLock()
	if a, ok := instances[name]; ok {
		registryMu.RUnlock()
		return a, nil
	}
	registryMu.RUnlock()

	registryMu.Lock()
	defer registryMu.Unlock()
	if a, ok := instances[name]; ok {
		return a, nil
	}
	factory, ok := factories[name]
	if !ok {
		return nil, &UnsupportedDialectError{Name: name, Available: listLocked()}
	}
	a := factory(nil)
	instances[name] = a
	return a, nil
}

// New builds a fresh adapter instance with the given logger, for callers
// that want parse diagnostics routed somewhere visible. The logger may
// be nil.
func New(name string, logger *slog.Logger) (Adapter, error) {
	registryMu.RLock()
	factory, ok := factories[name]
	available := listLocked()
	registryMu.RUnlock()
	if !ok {
		return nil, &UnsupportedDialectError{Name: name, Available: available}
	}
	return factory(logger), nil
}

// List returns all registered dialect identifiers, sorted.
func List() []string {
	registryMu.RLock()
	defer registryMu.RUnlock()
	return listLocked()
}

// IsRegistered checks whether a dialect identifier has an adapter.
func IsRegistered(name string) bool {
	registryMu.RLock()
	defer registryMu.RUnlock()
	_, ok := factories[name]
	return ok
}

func listLocked() []string {
	names := make([]string, 0, len(factories))
	for name := range factories {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// UnsupportedDialectError is returned when no adapter is registered for
// the requested dialect identifier. Partial dialect coverage is
// expected, so callers surface this to the user rather than swallowing
// it.
type UnsupportedDialectError struct {
	Name      string
	Available []string
}

func (e *UnsupportedDialectError) Error() string {
	return fmt.Sprintf("unsupported dialect %q (available: %v)", e.Name, e.Available)
}
