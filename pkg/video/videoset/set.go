package videoset

import (
	"io"
	"sync"

	"github.com/hashicorp/go-multierror"
	"github.com/tauraamui/pixrecord/pkg/log"
	"github.com/tauraamui/pixrecord/pkg/video/videobackend"
	"github.com/tauraamui/xerror"
)

// Entry is one instantiated backend owned by a Set.
type Entry struct {
	ID      string
	Backend videobackend.Backend
}

// CodecEntry is one row of the codec catalog. Rows are not deduplicated,
// two backends offering the same codec name give two rows.
type CodecEntry struct {
	Index       int
	Codec       string
	BackendID   string
	Backend     videobackend.Backend
	Description string
	// Implicit rows stand for backends without codecs, the codec
	// name is the backend id and selecting it never calls SetCodec.
	Implicit bool
}

// Set owns the instantiated backends, the active subset of them and
// the codec selection made through the catalog.
type Set struct {
	mu       sync.Mutex
	registry *videobackend.Registry
	all      []Entry
	active   []Entry
	handle   *Entry
	codec    string
	implicit bool
	catalog  []CodecEntry
}

func New(reg *videobackend.Registry) *Set {
	return &Set{registry: reg}
}

// Add instantiates the backend id, or every registered backend when id
// is empty. Backends already present are skipped. It reports whether
// anything was added.
func (s *Set) Add(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.add(id)
}

// AddPreferred adds each preferred id in turn, followed by all the rest.
func (s *Set) AddPreferred(ids ...string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	added := false
	for _, id := range ids {
		if len(id) == 0 {
			continue
		}
		if s.add(id) {
			added = true
		}
	}
	if s.add("") {
		added = true
	}
	return added
}

func (s *Set) add(id string) bool {
	ids := []string{id}
	if len(id) == 0 {
		ids = s.registry.IDs()
	} else if !s.registry.Has(id) {
		log.Error("record backend '%s' is not known", id)
		return false
	}

	added := false
	for _, id := range ids {
		if s.has(id) {
			continue
		}
		b, err := s.registry.Instantiate(id)
		if err != nil {
			log.Warn("record backend '%s' DISABLED: %v", id, err)
			continue
		}
		log.Verbose(1, "record backend '%s' added", id)
		e := Entry{ID: id, Backend: b}
		s.all = append(s.all, e)
		s.active = append(s.active, e)
		added = true
	}
	return added
}

func (s *Set) has(id string) bool {
	for _, e := range s.all {
		if e.ID == id {
			return true
		}
	}
	return false
}

func (s *Set) All() []Entry {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Entry{}, s.all...)
}

// Active is the subset of backends that accepted the current codec,
// all backends when no codec is selected.
func (s *Set) Active() []Entry {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Entry{}, s.active...)
}

// Handle is the default backend of the active set, nil if none.
func (s *Set) Handle() *Entry {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.handle == nil {
		return nil
	}
	h := *s.handle
	return &h
}

// Codec is the selected codec name, empty when none is selected.
func (s *Set) Codec() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.codec
}

// Implicit reports whether the selected codec is a backend id standing
// in for a backend without codecs.
func (s *Set) Implicit() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.implicit
}

// RebuildCatalog flattens the codecs of the active set into the cached
// catalog and returns it.
func (s *Set) RebuildCatalog() []CodecEntry {
	s.mu.Lock()
	defer s.mu.Unlock()
	var rows []CodecEntry
	for _, e := range s.active {
		codecs := e.Backend.Codecs()
		if len(codecs) == 0 {
			rows = append(rows, CodecEntry{
				Index: len(rows), Codec: e.ID, BackendID: e.ID,
				Backend: e.Backend, Description: e.ID, Implicit: true,
			})
			continue
		}
		for _, c := range codecs {
			rows = append(rows, CodecEntry{
				Index: len(rows), Codec: c, BackendID: e.ID,
				Backend: e.Backend, Description: e.Backend.CodecDescription(c),
			})
		}
	}
	s.catalog = rows
	return append([]CodecEntry{}, rows...)
}

// Catalog returns the cached catalog without rebuilding it.
func (s *Set) Catalog() []CodecEntry {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]CodecEntry{}, s.catalog...)
}

// SelectByIndex selects the codec named by catalog row i.
func (s *Set) SelectByIndex(i int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if i < 0 || i >= len(s.catalog) {
		return xerror.Errorf("%w: catalog has no row %d", videobackend.ErrUnknownCodec, i)
	}
	return s.selectCodec(s.catalog[i].Codec)
}

// SelectByName offers name to every backend with a catalog row for it.
// The accepting backends become the active set.
func (s *Set) SelectByName(name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.selectCodec(name)
}

func (s *Set) selectCodec(name string) error {
	var candidates []CodecEntry
	for _, row := range s.catalog {
		if row.Codec == name {
			candidates = append(candidates, row)
		}
	}
	if len(candidates) == 0 {
		log.Error("codec '%s' not found", name)
		return xerror.Errorf("%w: %s", videobackend.ErrUnknownCodec, name)
	}

	var (
		accepted []Entry
		implicit bool
		result   *multierror.Error
	)
	for _, row := range candidates {
		if containsBackend(accepted, row.BackendID) {
			continue
		}
		if !row.Implicit {
			if err := row.Backend.SetCodec(name); err != nil {
				log.Verbose(1, "record backend '%s' rejected codec '%s': %v", row.BackendID, name, err)
				result = multierror.Append(result, err)
				continue
			}
		} else if len(accepted) == 0 {
			implicit = true
		}
		accepted = append(accepted, Entry{ID: row.BackendID, Backend: row.Backend})
	}

	if len(accepted) == 0 {
		s.handle = nil
		log.Error("no record backend accepted codec '%s'", name)
		return xerror.Errorf("%w: codec %s: %v", videobackend.ErrRejected, name, result.ErrorOrNil())
	}

	s.active = accepted
	s.handle = &s.active[0]
	s.codec = name
	s.implicit = implicit
	log.Verbose(1, "codec '%s' selected, default backend '%s'", name, s.handle.ID)
	return nil
}

func containsBackend(entries []Entry, id string) bool {
	for _, e := range entries {
		if e.ID == id {
			return true
		}
	}
	return false
}

// Reset makes every backend active again and forgets the codec selection.
func (s *Set) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.active = append([]Entry{}, s.all...)
	s.handle = nil
	s.codec = ""
	s.implicit = false
}

// Close tears down every instantiated backend.
func (s *Set) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	var result *multierror.Error
	for _, e := range s.all {
		if err := e.Backend.Stop(); err != nil {
			log.Debug("record backend '%s' stop on close: %v", e.ID, err)
		}
		if c, ok := e.Backend.(io.Closer); ok {
			if err := c.Close(); err != nil {
				result = multierror.Append(result, xerror.Errorf("closing %s: %w", e.ID, err))
			}
		}
	}
	s.all, s.active, s.handle, s.catalog = nil, nil, nil, nil
	s.codec, s.implicit = "", false
	return result.ErrorOrNil()
}
