package videobackend

import (
	"fmt"
	"sync"

	"github.com/hashicorp/go-multierror"
	"github.com/tauraamui/pixrecord/pkg/log"
	"github.com/tauraamui/xerror"
)

// Registry maps backend IDs to factories. Registration order is
// kept and is the default preference order of backends.
type Registry struct {
	mu        sync.Mutex
	ids       []string
	factories map[string]Factory
}

func NewRegistry() *Registry {
	return &Registry{factories: map[string]Factory{}}
}

// Register adds a factory under id. An id which is already known keeps
// its original factory, the duplicate is logged and reported.
func (r *Registry) Register(id string, f Factory) error {
	if len(id) == 0 || f == nil {
		err := xerror.Errorf("%w: empty id or nil factory", ErrUsage)
		log.Error(err.Error())
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.factories[id]; exists {
		err := xerror.Errorf("%w: %s", ErrDuplicate, id)
		log.Warn("record backend '%s' already registered, ignoring", id)
		return err
	}
	r.ids = append(r.ids, id)
	r.factories[id] = f
	return nil
}

// Replace overrides the factory registered under id, keeping its position.
func (r *Registry) Replace(id string, f Factory) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.factories[id]; !exists {
		r.ids = append(r.ids, id)
	}
	r.factories[id] = f
}

func (r *Registry) IDs() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string{}, r.ids...)
}

func (r *Registry) Has(id string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.factories[id]
	return ok
}

// Instantiate builds a new backend. Unknown ids, failing factories and
// panicking factories all come back as ErrUnavailable with a nil backend.
func (r *Registry) Instantiate(id string) (b Backend, err error) {
	r.mu.Lock()
	f, ok := r.factories[id]
	r.mu.Unlock()
	if !ok {
		err = xerror.Errorf("%w: %s", ErrUnavailable, id)
		log.Debug("record backend '%s' unknown", id)
		return nil, err
	}

	defer func() {
		if rec := recover(); rec != nil {
			b = nil
			err = xerror.Errorf("%w: %s: %v", ErrUnavailable, id, rec)
			log.Error("record backend '%s' panicked during construction: %v", id, rec)
		}
	}()

	b, err = f()
	if err != nil {
		log.Debug("record backend '%s' failed to initialise: %v", id, err)
		return nil, xerror.Errorf("%w: %s: %v", ErrUnavailable, id, err)
	}
	if b == nil {
		return nil, xerror.Errorf("%w: %s: factory returned nothing", ErrUnavailable, id)
	}
	return b, nil
}

// Loader is an explicit plugin loading step which registers
// factories into a registry.
type Loader interface {
	Load(*Registry) error
}

type LoaderFunc func(*Registry) error

func (f LoaderFunc) Load(r *Registry) error { return f(r) }

// Load runs every loader, one failing loader does not stop the rest.
func (r *Registry) Load(loaders ...Loader) error {
	var result *multierror.Error
	for i, l := range loaders {
		if l == nil {
			continue
		}
		if err := l.Load(r); err != nil {
			log.Error("record plugin loader #%d failed: %v", i, err)
			result = multierror.Append(result, fmt.Errorf("loader #%d: %w", i, err))
		}
	}
	return result.ErrorOrNil()
}
