package schema

import (
	"bytes"
	_ "embed"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/plotcraft/pkg/errors"
)

//go:embed catalog.toml
var builtinCatalog []byte

// Entry is one catalogue record: an attribute path plus its rule parameters.
//
// Parents expands the entry into one validator per parent, so attributes that
// every trace type shares are declared once. A dotted Name such as
// "marker.color" is split so that the leaf is "color" and "marker" joins the
// parent path.
type Entry struct {
	Parent   string   `toml:"parent"`
	Parents  []string `toml:"parents"`
	Name     string   `toml:"name"`
	Kind     Kind     `toml:"kind"`
	EditType string   `toml:"edit_type"`
	Role     string   `toml:"role"`

	Values  []any    `toml:"values"`
	NoBlank bool     `toml:"no_blank"`
	Strict  bool     `toml:"strict"`
	Min     *float64 `toml:"min"`
	Max     *float64 `toml:"max"`
	ArrayOK bool     `toml:"array_ok"`
	Scaled  bool     `toml:"scaled"`
	Flags   []string `toml:"flags"`
	Extras  []string `toml:"extras"`
	Base    string   `toml:"base"`
}

type catalogFile struct {
	Attributes []Entry `toml:"attribute"`
}

// Rule builds the rule described by the entry.
func (e Entry) Rule() (Rule, error) {
	switch e.Kind {
	case KindString:
		values := make([]string, 0, len(e.Values))
		for _, v := range e.Values {
			s, ok := v.(string)
			if !ok {
				return nil, fmt.Errorf("string value %v is not a string", v)
			}
			values = append(values, s)
		}
		return String{NoBlank: e.NoBlank, Strict: e.Strict, Values: values, ArrayOK: e.ArrayOK}, nil
	case KindEnumerated:
		if len(e.Values) == 0 {
			return nil, fmt.Errorf("enumerated attribute has no values")
		}
		return NewEnumerated(e.Values, e.ArrayOK)
	case KindNumber:
		return Number{Min: e.Min, Max: e.Max, ArrayOK: e.ArrayOK}, nil
	case KindInteger:
		return Integer{Min: e.Min, Max: e.Max, ArrayOK: e.ArrayOK}, nil
	case KindBoolean:
		return Boolean{}, nil
	case KindColor:
		return Color{ArrayOK: e.ArrayOK, Scaled: e.Scaled}, nil
	case KindColorScale:
		return ColorScale{}, nil
	case KindColorList:
		return ColorList{}, nil
	case KindArray:
		return Array{}, nil
	case KindDataArray:
		return DataArray{}, nil
	case KindAngle:
		return Angle{}, nil
	case KindFlaglist:
		if len(e.Flags) == 0 {
			return nil, fmt.Errorf("flaglist attribute has no flags")
		}
		return Flaglist{Flags: e.Flags, Extras: e.Extras, ArrayOK: e.ArrayOK}, nil
	case KindSubplotID:
		if e.Base == "" {
			return nil, fmt.Errorf("subplotid attribute has no base")
		}
		return SubplotID{Base: e.Base}, nil
	case KindAny:
		return Any{}, nil
	case "":
		return nil, fmt.Errorf("missing kind")
	default:
		return nil, fmt.Errorf("unknown kind %q", e.Kind)
	}
}

// Validators expands the entry into one validator per parent.
func (e Entry) Validators() ([]*Validator, error) {
	rule, err := e.Rule()
	if err != nil {
		return nil, err
	}
	parents := e.Parents
	if e.Parent != "" {
		parents = append([]string{e.Parent}, parents...)
	}
	if len(parents) == 0 {
		parents = []string{""}
	}
	out := make([]*Validator, 0, len(parents))
	for _, parent := range parents {
		name := e.Name
		if i := strings.LastIndexByte(name, '.'); i >= 0 {
			parent = joinPath(parent, name[:i])
			name = name[i+1:]
		}
		out = append(out, &Validator{
			Name:       name,
			ParentPath: parent,
			EditType:   e.EditType,
			Role:       e.Role,
			Rule:       rule,
		})
	}
	return out, nil
}

// Build creates a registry from catalogue entries.
func Build(entries []Entry) (*Registry, error) {
	reg := NewRegistry()
	for i, e := range entries {
		vs, err := e.Validators()
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidSpec, err, "catalogue entry %d (%s)", i, e.Name)
		}
		for _, v := range vs {
			if err := reg.Register(v); err != nil {
				return nil, err
			}
		}
	}
	return reg, nil
}

// Load reads a TOML catalogue and builds a registry from it.
// Keys the catalogue format does not know are rejected.
func Load(r io.Reader) (*Registry, error) {
	var f catalogFile
	md, err := toml.NewDecoder(r).Decode(&f)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "decode catalogue")
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return nil, errors.New(errors.ErrCodeInvalidSpec, "unknown catalogue keys: %v", undecoded)
	}
	return Build(f.Attributes)
}

var (
	defaultOnce     sync.Once
	defaultRegistry *Registry
)

// Default returns the registry built from the embedded catalogue.
// It is built on first use and shared afterward.
func Default() *Registry {
	defaultOnce.Do(func() {
		reg, err := Load(bytes.NewReader(builtinCatalog))
		if err != nil {
			panic(fmt.Sprintf("schema: embedded catalogue: %v", err))
		}
		defaultRegistry = reg
	})
	return defaultRegistry
}

func joinPath(parent, name string) string {
	if parent == "" {
		return name
	}
	return parent + "." + name
}
