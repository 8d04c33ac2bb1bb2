package videoprops

import (
	"fmt"
	"strconv"
	"strings"
)

type Kind int

const (
	UNSET Kind = iota
	NUMBER
	TEXT
	LIST
)

func (k Kind) String() string {
	switch k {
	case UNSET:
		return "unset"
	case NUMBER:
		return "number"
	case TEXT:
		return "text"
	case LIST:
		return "list"
	}
	return "unknown"
}

// Value is a tagged variant, only the field matching Kind is meaningful.
type Value struct {
	Kind Kind
	Num  float64
	Str  string
	List []Value
}

func Unset() Value             { return Value{Kind: UNSET} }
func Number(f float64) Value   { return Value{Kind: NUMBER, Num: f} }
func Text(s string) Value      { return Value{Kind: TEXT, Str: s} }
func List(vs ...Value) Value   { return Value{Kind: LIST, List: append([]Value{}, vs...)} }
func (v Value) IsUnset() bool  { return v.Kind == UNSET }
func (v Value) IsNumber() bool { return v.Kind == NUMBER }

// Token turns a single textual atom into a number when it parses as one.
func Token(s string) Value {
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return Number(f)
	}
	return Text(s)
}

// FromTokens builds the value for "set <key> <values...>": no tokens
// gives an unset value, one gives a scalar and more give a list.
func FromTokens(tokens ...string) Value {
	switch len(tokens) {
	case 0:
		return Unset()
	case 1:
		return Token(tokens[0])
	}
	vs := make([]Value, 0, len(tokens))
	for _, t := range tokens {
		vs = append(vs, Token(t))
	}
	return List(vs...)
}

// FromInterface converts decoded JSON values (float64, string, []interface{}, nil).
func FromInterface(i interface{}) (Value, error) {
	switch v := i.(type) {
	case nil:
		return Unset(), nil
	case float64:
		return Number(v), nil
	case int:
		return Number(float64(v)), nil
	case string:
		return Text(v), nil
	case bool:
		if v {
			return Number(1), nil
		}
		return Number(0), nil
	case []interface{}:
		vs := make([]Value, 0, len(v))
		for _, e := range v {
			ev, err := FromInterface(e)
			if err != nil {
				return Value{}, err
			}
			vs = append(vs, ev)
		}
		return List(vs...), nil
	}
	return Value{}, fmt.Errorf("unsupported property value type %T", i)
}

func (v Value) String() string {
	switch v.Kind {
	case NUMBER:
		return strconv.FormatFloat(v.Num, 'g', -1, 64)
	case TEXT:
		return v.Str
	case LIST:
		parts := make([]string, 0, len(v.List))
		for _, e := range v.List {
			parts = append(parts, e.String())
		}
		return strings.Join(parts, " ")
	}
	return ""
}

// Properties is an insertion ordered key/value bag handed to backends.
// It is not safe for concurrent use.
type Properties struct {
	keys   []string
	values map[string]Value
}

func New() *Properties {
	return &Properties{values: map[string]Value{}}
}

func (p *Properties) init() {
	if p.values == nil {
		p.values = map[string]Value{}
	}
}

// Set replaces whatever value and type the key had before.
func (p *Properties) Set(key string, v Value) {
	p.init()
	if _, ok := p.values[key]; !ok {
		p.keys = append(p.keys, key)
	}
	p.values[key] = v
}

func (p *Properties) Get(key string) (Value, bool) {
	if p == nil || p.values == nil {
		return Value{}, false
	}
	v, ok := p.values[key]
	return v, ok
}

// Type returns UNSET for missing keys as well as for unset values,
// use Get to tell them apart.
func (p *Properties) Type(key string) Kind {
	v, _ := p.Get(key)
	return v.Kind
}

func (p *Properties) Number(key string) (float64, bool) {
	v, ok := p.Get(key)
	if !ok || v.Kind != NUMBER {
		return 0, false
	}
	return v.Num, true
}

func (p *Properties) Text(key string) (string, bool) {
	v, ok := p.Get(key)
	if !ok || v.Kind != TEXT {
		return "", false
	}
	return v.Str, true
}

func (p *Properties) Keys() []string {
	if p == nil {
		return nil
	}
	return append([]string{}, p.keys...)
}

func (p *Properties) Len() int {
	if p == nil {
		return 0
	}
	return len(p.keys)
}

func (p *Properties) Erase(key string) {
	if p == nil || p.values == nil {
		return
	}
	if _, ok := p.values[key]; !ok {
		return
	}
	delete(p.values, key)
	for i, k := range p.keys {
		if k == key {
			p.keys = append(p.keys[:i], p.keys[i+1:]...)
			break
		}
	}
}

func (p *Properties) Clear() {
	p.keys = nil
	p.values = map[string]Value{}
}

func (p *Properties) Clone() *Properties {
	c := New()
	if p == nil {
		return c
	}
	for _, k := range p.keys {
		c.Set(k, p.values[k])
	}
	return c
}
