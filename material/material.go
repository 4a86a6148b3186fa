// Package material loads named sets of typed shader variables from INI,
// Wavefront MTL, TOML and YAML files and stores them in the molstream
// binary format.
package material

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/unkn0wn-root/molstream"
	"github.com/unkn0wn-root/molstream/hash"
)

var (
	tagName     = &molstream.Tag{Name: "material.name"}
	tagCount    = &molstream.Tag{Name: "material.count"}
	tagVarKey   = &molstream.Tag{Name: "variable.key", Attrs: map[string]string{"hash": "xxhash64"}}
	tagVarName  = &molstream.Tag{Name: "variable.name"}
	tagVarKind  = &molstream.Tag{Name: "variable.kind"}
	tagVarFloat = &molstream.Tag{Name: "variable.component"}
	tagVarInt   = &molstream.Tag{Name: "variable.int", Unit: "int32"}
	tagVarBool  = &molstream.Tag{Name: "variable.bool"}
	tagVarText  = &molstream.Tag{Name: "variable.text"}
)

// Material is a named set of variables keyed by the hash of the variable
// name. It does not know about the Manager that owns it.
type Material struct {
	Name string
	Hash hash.Hash

	vars  map[hash.Hash]Variable
	names map[hash.Hash]string
}

func New(name string) *Material {
	return &Material{
		Name:  name,
		Hash:  hash.Of(name),
		vars:  make(map[hash.Hash]Variable),
		names: make(map[hash.Hash]string),
	}
}

// Set stores v under key, replacing any earlier value.
func (m *Material) Set(key string, v Variable) {
	h := hash.Of(key)
	m.vars[h] = v
	m.names[h] = key
}

// SetHash stores v under a precomputed key hash whose name is unknown.
func (m *Material) SetHash(h hash.Hash, v Variable) {
	m.vars[h] = v
}

func (m *Material) Get(key string) (Variable, bool) { return m.Lookup(hash.Of(key)) }

func (m *Material) Lookup(h hash.Hash) (Variable, bool) {
	v, ok := m.vars[h]
	return v, ok
}

// KeyName returns the variable name recorded for h, if any.
func (m *Material) KeyName(h hash.Hash) string { return m.names[h] }

func (m *Material) Len() int { return len(m.vars) }

// Keys returns the variable hashes in ascending order.
func (m *Material) Keys() []hash.Hash {
	keys := make([]hash.Hash, 0, len(m.vars))
	for h := range m.vars {
		keys = append(keys, h)
	}
	sort.Sort(hash.Sorted(keys))
	return keys
}

// MarshalStream writes
//
//	name string | count int(32) | (key u64 | name string | kind u8 | value)*count
//
// with variables in ascending key order, so equal materials encode equally.
// Materials that cannot be read back (see check) are rejected before
// anything is written.
func (m *Material) MarshalStream(e *molstream.Encoder) error {
	if err := m.check(ErrInvalidData); err != nil {
		return err
	}
	if err := e.String(m.Name, tagName); err != nil {
		return err
	}
	keys := m.Keys()
	if err := e.Int(len(keys), 32, tagCount); err != nil {
		return err
	}
	for _, h := range keys {
		if err := writeVariable(e, h, m.names[h], m.vars[h]); err != nil {
			return err
		}
	}
	return nil
}

func (m *Material) UnmarshalStream(d *molstream.Decoder) error {
	name, err := d.String(tagName)
	if err != nil {
		return err
	}
	n, err := d.Int(32, tagCount)
	if err != nil {
		return err
	}
	if n < 0 {
		return fmt.Errorf("%w: material %q has %d variables", ErrInvalidData, name, n)
	}

	*m = *New(name)
	for i := 0; i < n; i++ {
		h, key, v, err := readVariable(d)
		if err != nil {
			return err
		}
		if key != "" && hash.Of(key) != h {
			return fmt.Errorf("%w: variable %q does not match key %s", ErrInvalidData, key, h)
		}
		m.vars[h] = v
		if key != "" {
			m.names[h] = key
		}
	}
	return nil
}

// check reports, wrapped in kind, the first name or value that the stream
// format cannot carry: text containing 0x00 or an int outside int32.
func (m *Material) check(kind error) error {
	if strings.IndexByte(m.Name, molstream.Terminator) >= 0 {
		return fmt.Errorf("%w: material name %q contains NUL", kind, m.Name)
	}
	for _, h := range m.Keys() {
		name, v := m.names[h], m.vars[h]
		if strings.IndexByte(name, molstream.Terminator) >= 0 {
			return fmt.Errorf("%w: variable name %q in %q contains NUL", kind, name, m.Name)
		}
		switch v.Kind {
		case KindString, KindTexture:
			if strings.IndexByte(v.Str, molstream.Terminator) >= 0 {
				return fmt.Errorf("%w: value of %q in %q contains NUL", kind, name, m.Name)
			}
		case KindInt:
			if int64(v.Int) < math.MinInt32 || int64(v.Int) > math.MaxInt32 {
				return fmt.Errorf("%w: %q in %q: integer %d out of 32-bit range", kind, name, m.Name, v.Int)
			}
		}
	}
	return nil
}

func writeVariable(e *molstream.Encoder, h hash.Hash, name string, v Variable) error {
	if err := e.Uint64(uint64(h), tagVarKey); err != nil {
		return err
	}
	if err := e.String(name, tagVarName); err != nil {
		return err
	}
	if err := e.Uint8(uint8(v.Kind), tagVarKind); err != nil {
		return err
	}
	switch v.Kind {
	case KindFloat, KindVec2, KindVec3, KindVec4:
		for i := 0; i < v.Kind.Components(); i++ {
			if err := e.Float32(v.Vec[i], tagVarFloat); err != nil {
				return err
			}
		}
		return nil
	case KindInt:
		return e.Int(v.Int, 32, tagVarInt)
	case KindBool:
		return e.Bool(v.Bool, tagVarBool)
	case KindString, KindTexture:
		return e.String(v.Str, tagVarText)
	default:
		return fmt.Errorf("%w: variable %q has kind %d", ErrInvalidData, name, v.Kind)
	}
}

func readVariable(d *molstream.Decoder) (hash.Hash, string, Variable, error) {
	var v Variable
	k, err := d.Uint64(tagVarKey)
	if err != nil {
		return 0, "", v, err
	}
	name, err := d.String(tagVarName)
	if err != nil {
		return 0, "", v, err
	}
	kind, err := d.Uint8(tagVarKind)
	if err != nil {
		return 0, "", v, err
	}
	v.Kind = VarKind(kind)
	if !v.Kind.valid() {
		return 0, "", v, fmt.Errorf("%w: variable %q has kind %d", ErrInvalidData, name, kind)
	}

	switch v.Kind {
	case KindInt:
		v.Int, err = d.Int(32, tagVarInt)
	case KindBool:
		v.Bool, err = d.Bool(tagVarBool)
	case KindString, KindTexture:
		v.Str, err = d.String(tagVarText)
	default:
		for i := 0; i < v.Kind.Components() && err == nil; i++ {
			v.Vec[i], err = d.Float32(tagVarFloat)
		}
	}
	return hash.Hash(k), name, v, err
}
