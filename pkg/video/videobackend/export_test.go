package videobackend

import "plugin"

type PluginSymbols map[string]plugin.Symbol

func (s PluginSymbols) Lookup(name string) (plugin.Symbol, error) {
	if sym, ok := s[name]; ok {
		return sym, nil
	}
	return nil, ErrUnavailable
}

func OverloadOpenPlugin(f func(path string) (PluginSymbols, error)) func() {
	ref := openPlugin
	openPlugin = func(path string) (symbolLookup, error) {
		syms, err := f(path)
		if err != nil {
			return nil, err
		}
		return syms, nil
	}
	return func() { openPlugin = ref }
}
