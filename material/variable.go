package material

import (
	"strconv"
	"strings"
)

// VarKind is the type of a material variable.
type VarKind uint8

const (
	KindFloat VarKind = iota + 1
	KindVec2
	KindVec3
	KindVec4
	KindInt
	KindBool
	KindString
	KindTexture // Str holds the texture name
)

var varKindNames = [...]string{
	KindFloat:   "float",
	KindVec2:    "vec2",
	KindVec3:    "vec3",
	KindVec4:    "vec4",
	KindInt:     "int",
	KindBool:    "bool",
	KindString:  "string",
	KindTexture: "texture",
}

func (k VarKind) String() string {
	if int(k) < len(varKindNames) && varKindNames[k] != "" {
		return varKindNames[k]
	}
	return "unknown"
}

func (k VarKind) valid() bool { return k >= KindFloat && k <= KindTexture }

// Components is the number of float32 components of k, 0 for non-float kinds.
func (k VarKind) Components() int {
	if k >= KindFloat && k <= KindVec4 {
		return int(k-KindFloat) + 1
	}
	return 0
}

// Variable is one tagged material value. Only the field matching Kind is
// meaningful; Variables are comparable with ==.
type Variable struct {
	Kind VarKind
	Vec  [4]float32
	Int  int
	Bool bool
	Str  string
}

func FloatVar(f float32) Variable         { return Variable{Kind: KindFloat, Vec: [4]float32{f}} }
func Vec2Var(x, y float32) Variable       { return Variable{Kind: KindVec2, Vec: [4]float32{x, y}} }
func Vec3Var(x, y, z float32) Variable    { return Variable{Kind: KindVec3, Vec: [4]float32{x, y, z}} }
func Vec4Var(x, y, z, w float32) Variable { return Variable{Kind: KindVec4, Vec: [4]float32{x, y, z, w}} }
func IntVar(i int) Variable               { return Variable{Kind: KindInt, Int: i} }
func BoolVar(b bool) Variable             { return Variable{Kind: KindBool, Bool: b} }
func StringVar(s string) Variable         { return Variable{Kind: KindString, Str: s} }
func TextureVar(name string) Variable     { return Variable{Kind: KindTexture, Str: name} }

// vecVar returns a Float or VecN for 1 to 4 components.
func vecVar(c []float32) (Variable, bool) {
	if len(c) < 1 || len(c) > 4 {
		return Variable{}, false
	}
	v := Variable{Kind: KindFloat + VarKind(len(c)-1)}
	copy(v.Vec[:], c)
	return v, true
}

// Float returns the first component.
func (v Variable) Float() float32 { return v.Vec[0] }

func (v Variable) String() string {
	switch {
	case v.Kind.Components() > 0:
		parts := make([]string, v.Kind.Components())
		for i := range parts {
			parts[i] = strconv.FormatFloat(float64(v.Vec[i]), 'g', -1, 32)
		}
		return v.Kind.String() + "(" + strings.Join(parts, " ") + ")"
	case v.Kind == KindInt:
		return "int(" + strconv.Itoa(v.Int) + ")"
	case v.Kind == KindBool:
		return "bool(" + strconv.FormatBool(v.Bool) + ")"
	case v.Kind == KindString, v.Kind == KindTexture:
		return v.Kind.String() + "(" + strconv.Quote(v.Str) + ")"
	default:
		return "unknown"
	}
}
