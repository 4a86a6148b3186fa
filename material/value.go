package material

import (
	"fmt"
	"math"
	"strings"

	"github.com/spf13/cast"
)

// parseValue classifies a textual value: a texture file name, 1 to 4
// numbers, true/false, or else a plain string.
func parseValue(s string) Variable {
	s = strings.TrimSpace(s)
	if isTextureName(s) {
		return TextureVar(s)
	}
	if c, ok := parseFloats(strings.Fields(s)); ok {
		if v, ok := vecVar(c); ok {
			return v
		}
	}
	switch strings.ToLower(s) {
	case "true":
		return BoolVar(true)
	case "false":
		return BoolVar(false)
	}
	return StringVar(s)
}

func parseFloats(fields []string) ([]float32, bool) {
	if len(fields) == 0 || len(fields) > 4 {
		return nil, false
	}
	out := make([]float32, len(fields))
	for i, f := range fields {
		if !looksNumeric(f) {
			return nil, false
		}
		v, err := cast.ToFloat32E(f)
		if err != nil {
			return nil, false
		}
		out[i] = v
	}
	return out, true
}

// looksNumeric keeps words like "inf" or "nan" out of float parsing.
func looksNumeric(s string) bool {
	s = strings.TrimLeft(s, "+-")
	return s != "" && (s[0] == '.' || (s[0] >= '0' && s[0] <= '9'))
}

// valueOf converts a decoded TOML or YAML value.
func valueOf(x any) (Variable, error) {
	switch t := x.(type) {
	case bool:
		return BoolVar(t), nil
	case string:
		return parseValue(t), nil
	case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64:
		i, err := cast.ToIntE(t)
		if err != nil {
			return Variable{}, err
		}
		if err := checkInt32(i); err != nil {
			return Variable{}, err
		}
		return IntVar(i), nil
	case float32, float64:
		f, err := cast.ToFloat32E(t)
		if err != nil {
			return Variable{}, err
		}
		return FloatVar(f), nil
	case []any:
		c := make([]float32, len(t))
		for i, e := range t {
			f, err := cast.ToFloat32E(e)
			if err != nil {
				return Variable{}, fmt.Errorf("vector component %d: %w", i, err)
			}
			c[i] = f
		}
		if v, ok := vecVar(c); ok {
			return v, nil
		}
		return Variable{}, fmt.Errorf("vector of %d components, want 1 to 4", len(t))
	default:
		return Variable{}, fmt.Errorf("unsupported value of type %T", x)
	}
}

func castInt(s string) (int, error) {
	i, err := cast.ToIntE(strings.TrimSpace(s))
	if err != nil {
		return 0, fmt.Errorf("%w: integer %q", ErrSyntax, s)
	}
	return i, checkInt32(i)
}

// checkInt32 rejects integers that do not survive the 32-bit stream encoding.
func checkInt32(i int) error {
	if int64(i) < math.MinInt32 || int64(i) > math.MaxInt32 {
		return fmt.Errorf("%w: integer %d out of 32-bit range", ErrSyntax, i)
	}
	return nil
}
