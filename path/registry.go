package path

import (
	"sort"
	"sync"

	"github.com/c360/graphpath/errors"
)

// Registry is the process-scoped mapping from morphism name to its
// declared path fragment. It starts empty, entries are added on Declare
// and never removed, and redeclaration is rejected.
//
// Declaration is expected to be rare and write-once, so a single mutex
// serializes writers; readers see a consistent snapshot. Compilation of
// independent expressions may proceed concurrently against the same
// registry.
type Registry struct {
	mu        sync.RWMutex
	morphisms map[string]*Path
}

// NewRegistry returns an empty morphism registry.
func NewRegistry() *Registry {
	return &Registry{morphisms: make(map[string]*Path)}
}

// Declare stores the morphism under its name. The registry keeps a deep
// copy taken at declaration time and the original is frozen, so later
// builder calls on it are rejected rather than silently diverging from
// the declared fragment.
//
// Redeclaring an existing name fails with DuplicateMorphismError and
// leaves the original declaration untouched.
func (r *Registry) Declare(m *Path) error {
	if m == nil {
		return &errors.MalformedStepError{Op: "Declare", Reason: "morphism must not be nil"}
	}
	if m.kind != kindMorphism {
		return &errors.MalformedStepError{Op: "Declare", Reason: "only morphism expressions can be declared"}
	}
	if m.err != nil {
		return m.err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.morphisms[m.name]; exists {
		return &errors.DuplicateMorphismError{Name: m.name}
	}

	snapshot := m.clone()
	snapshot.frozen = true
	r.morphisms[m.name] = snapshot
	m.frozen = true
	return nil
}

// Resolve returns a copy of the morphism declared under name, or
// UnknownMorphismError if the name is absent.
func (r *Registry) Resolve(name string) (*Path, error) {
	m, err := r.lookup(name)
	if err != nil {
		return nil, err
	}
	return m.clone(), nil
}

// lookup returns the stored fragment without copying. Internal callers
// must treat the result as read-only.
func (r *Registry) lookup(name string) (*Path, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	m, exists := r.morphisms[name]
	if !exists {
		return nil, &errors.UnknownMorphismError{Name: name}
	}
	return m, nil
}

// Names returns the declared morphism names in sorted order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.morphisms))
	for name := range r.morphisms {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Len returns the number of declared morphisms.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.morphisms)
}
