package material

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/goccy/go-yaml"
	"gopkg.in/ini.v1"
)

// Format names a material definition file syntax.
type Format string

const (
	FormatIni  Format = "ini"
	FormatMtl  Format = "mtl"
	FormatTOML Format = "toml"
	FormatYAML Format = "yaml"
)

var formatByExt = map[string]Format{
	".ini":  FormatIni,
	".mtl":  FormatMtl,
	".toml": FormatTOML,
	".yaml": FormatYAML,
	".yml":  FormatYAML,
}

func parse(r io.Reader, f Format, file string) ([]*Material, error) {
	var (
		ms  []*Material
		err error
	)
	switch f {
	case FormatIni:
		ms, err = parseIni(r, file)
	case FormatMtl:
		ms, err = parseMtl(r, file)
	case FormatTOML:
		ms, err = parseTOML(r, file)
	case FormatYAML:
		ms, err = parseYAML(r, file)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, f)
	}
	if err != nil {
		return nil, err
	}
	for _, m := range ms {
		if err := m.check(ErrSyntax); err != nil {
			return nil, &ParseError{File: file, Err: err}
		}
	}
	return ms, nil
}

// parseIni reads one material per section; keys are variable names.
// Keys outside any section are ignored.
func parseIni(r io.Reader, file string) ([]*Material, error) {
	cfg, err := ini.LoadSources(ini.LoadOptions{SpaceBeforeInlineComment: true}, io.NopCloser(r))
	if err != nil {
		return nil, &ParseError{File: file, Err: err}
	}
	var out []*Material
	for _, sec := range cfg.Sections() {
		if sec.Name() == ini.DefaultSection {
			continue
		}
		m := New(sec.Name())
		for _, k := range sec.Keys() {
			m.Set(k.Name(), parseValue(k.String()))
		}
		out = append(out, m)
	}
	return out, nil
}

var mtlNames = map[string]string{
	"Ka":       "ambientColor",
	"Kd":       "diffuseColor",
	"Ks":       "specularColor",
	"Ke":       "emissiveColor",
	"Ns":       "shininess",
	"Ni":       "refractiveIndex",
	"d":        "opacity",
	"illum":    "illuminationModel",
	"map_Ka":   "ambientTexture",
	"map_Kd":   "diffuseTexture",
	"map_Ks":   "specularTexture",
	"map_Ke":   "emissiveTexture",
	"map_d":    "opacityTexture",
	"map_Bump": "normalTexture",
	"map_bump": "normalTexture",
	"bump":     "normalTexture",
	"disp":     "displacementTexture",
}

// parseMtl reads Wavefront MTL. Known statements are renamed (Kd becomes
// diffuseColor, map_Kd becomes diffuseTexture and so on); unknown ones keep
// their keyword as variable name. Texture options such as "-bm 0.5" are
// skipped; the last field is the file name.
func parseMtl(r io.Reader, file string) ([]*Material, error) {
	var (
		out  []*Material
		cur  *Material
		line int
	)
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		line++
		text := strings.TrimSpace(sc.Text())
		if text == "" || text[0] == '#' {
			continue
		}
		fields := strings.Fields(text)
		kw, args := fields[0], fields[1:]

		if kw == "newmtl" {
			if len(args) == 0 {
				return nil, &ParseError{File: file, Line: line, Err: fmt.Errorf("%w: newmtl without name", ErrSyntax)}
			}
			cur = New(strings.Join(args, " "))
			out = append(out, cur)
			continue
		}
		if cur == nil {
			return nil, &ParseError{File: file, Line: line, Err: fmt.Errorf("%w: %q before newmtl", ErrSyntax, kw)}
		}
		if len(args) == 0 {
			return nil, &ParseError{File: file, Line: line, Err: fmt.Errorf("%w: %q without value", ErrSyntax, kw)}
		}

		name, ok := mtlNames[kw]
		if !ok {
			name = kw
		}
		switch {
		case kw == "illum":
			v, err := castInt(args[0])
			if err != nil {
				return nil, &ParseError{File: file, Line: line, Err: err}
			}
			cur.Set(name, IntVar(v))
		case kw == "Tr":
			// transparency is the inverse of d
			c, ok := parseFloats(args[:1])
			if !ok {
				return nil, &ParseError{File: file, Line: line, Err: fmt.Errorf("%w: Tr %q", ErrSyntax, args[0])}
			}
			cur.Set("opacity", FloatVar(1-c[0]))
		case strings.HasPrefix(kw, "map_") || kw == "bump" || kw == "disp":
			cur.Set(name, TextureVar(args[len(args)-1]))
		default:
			cur.Set(name, parseValue(strings.Join(args, " ")))
		}
	}
	if err := sc.Err(); err != nil {
		return nil, &ParseError{File: file, Line: line, Err: err}
	}
	return out, nil
}

// parseTOML reads one material per table.
func parseTOML(r io.Reader, file string) ([]*Material, error) {
	var doc map[string]map[string]any
	if _, err := toml.NewDecoder(r).Decode(&doc); err != nil {
		pe := &ParseError{File: file, Err: err}
		var terr toml.ParseError
		if errors.As(err, &terr) {
			pe.Line = terr.Position.Line
		}
		return nil, pe
	}
	return fromDoc(doc, file)
}

// parseYAML reads a mapping of material name to variable mapping.
func parseYAML(r io.Reader, file string) ([]*Material, error) {
	var doc map[string]map[string]any
	if err := yaml.NewDecoder(r).Decode(&doc); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, nil
		}
		return nil, &ParseError{File: file, Err: err}
	}
	return fromDoc(doc, file)
}

// fromDoc builds materials in name order so that repeated loads of the
// same file replace in the same order.
func fromDoc(doc map[string]map[string]any, file string) ([]*Material, error) {
	names := make([]string, 0, len(doc))
	for name := range doc {
		names = append(names, name)
	}
	sort.Strings(names)

	out := make([]*Material, 0, len(doc))
	for _, name := range names {
		m := New(name)
		for key, raw := range doc[name] {
			v, err := valueOf(raw)
			if err != nil {
				return nil, &ParseError{File: file, Err: fmt.Errorf("%s.%s: %w", name, key, err)}
			}
			m.Set(key, v)
		}
		out = append(out, m)
	}
	return out, nil
}
