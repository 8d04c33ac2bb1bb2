package videobackend

import (
	"path/filepath"
	"plugin"
	"sort"

	"github.com/hashicorp/go-multierror"
	"github.com/spf13/afero"
	"github.com/tauraamui/pixrecord/pkg/log"
	"github.com/tauraamui/xerror"
)

// RegisterSymbol is the function every record plugin shared object
// must export, with the signature func(*videobackend.Registry) error.
const RegisterSymbol = "RegisterRecordBackends"

type symbolLookup interface {
	Lookup(string) (plugin.Symbol, error)
}

var openPlugin = func(path string) (symbolLookup, error) {
	return plugin.Open(path)
}

// PluginDirLoader discovers record plugins (*.so) inside Dir and lets
// each of them register its backends, in lexical file order.
type PluginDirLoader struct {
	Dir string
	Fs  afero.Fs
}

func (l PluginDirLoader) Load(r *Registry) error {
	if len(l.Dir) == 0 {
		return nil
	}
	fsys := l.Fs
	if fsys == nil {
		fsys = fs
	}

	matches, err := afero.Glob(fsys, filepath.Join(l.Dir, "*.so"))
	if err != nil {
		return xerror.Errorf("unable to scan plugin dir %s: %w", l.Dir, err)
	}
	sort.Strings(matches)

	var result *multierror.Error
	for _, path := range matches {
		log.Debug("loading record plugin %s", path)
		if err := loadPlugin(r, path); err != nil {
			log.Warn("record plugin %s disabled: %v", path, err)
			result = multierror.Append(result, err)
		}
	}
	return result.ErrorOrNil()
}

func loadPlugin(r *Registry, path string) error {
	p, err := openPlugin(path)
	if err != nil {
		return xerror.Errorf("%w: %s: %v", ErrUnavailable, path, err)
	}
	sym, err := p.Lookup(RegisterSymbol)
	if err != nil {
		return xerror.Errorf("%w: %s: missing %s", ErrUnavailable, path, RegisterSymbol)
	}
	register, ok := sym.(func(*Registry) error)
	if !ok {
		return xerror.Errorf("%w: %s: %s has unexpected signature", ErrUnavailable, path, RegisterSymbol)
	}
	return register(r)
}
