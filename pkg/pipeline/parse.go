package pipeline

import (
	"encoding/json"
	stderrors "errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/matzehuels/plotcraft/pkg/errors"
	"github.com/matzehuels/plotcraft/pkg/frame"
)

// Spec formats, named by file extension.
const (
	SpecTOML = "toml"
	SpecYAML = "yaml"
	SpecJSON = "json"
)

// Spec is a chart description file:
//
//	chart = "bar"
//	data = "population.csv"
//	title = "Population"
//
//	[bindings]
//	x = "continent"
//	y = "pop"
//
//	[options]
//	barmode = "group"
//
// Bindings map roles to column names; options hold every other chart
// option by its snake_case name. Data paths are relative to the spec file.
// Small tables can be given inline under [columns] instead of Data.
type Spec struct {
	Chart       string           `toml:"chart" yaml:"chart" json:"chart" validate:"required"`
	Data        string           `toml:"data" yaml:"data" json:"data,omitempty" validate:"required_without=Columns"`
	Columns     map[string][]any `toml:"columns" yaml:"columns" json:"columns,omitempty"`
	ColumnOrder []string         `toml:"column_order" yaml:"column_order" json:"column_order,omitempty"`

	Title    string `toml:"title" yaml:"title" json:"title,omitempty" validate:"max=500"`
	Width    int    `toml:"width" yaml:"width" json:"width,omitempty" validate:"omitempty,min=10"`
	Height   int    `toml:"height" yaml:"height" json:"height,omitempty" validate:"omitempty,min=10"`
	Template string `toml:"template" yaml:"template" json:"template,omitempty"`

	Strict  bool     `toml:"strict" yaml:"strict" json:"strict,omitempty"`
	Formats []string `toml:"formats" yaml:"formats" json:"formats,omitempty" validate:"dive,oneof=json html"`

	Bindings map[string]any `toml:"bindings" yaml:"bindings" json:"bindings,omitempty"`
	Options  map[string]any `toml:"options" yaml:"options" json:"options,omitempty"`

	dir string
}

var specValidate = validator.New(validator.WithRequiredStructEnabled())

// LoadSpec reads a spec file. The format follows the extension: .toml,
// .yaml/.yml or .json.
func LoadSpec(path string) (*Spec, error) {
	format, err := specFormat(path)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "spec %s", path)
		}
		return nil, fmt.Errorf("open spec: %w", err)
	}
	defer f.Close()

	spec, err := ParseSpec(f, format)
	if err != nil {
		return nil, err
	}
	spec.dir = filepath.Dir(path)
	return spec, nil
}

func specFormat(path string) (string, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		return SpecTOML, nil
	case ".yaml", ".yml":
		return SpecYAML, nil
	case ".json":
		return SpecJSON, nil
	}
	return "", errors.New(errors.ErrCodeInvalidFormat, "unsupported spec file %s: want .toml, .yaml or .json", path)
}

// ParseSpec decodes and validates a spec. Keys the spec format does not
// know are rejected. Data paths are resolved against the working directory.
func ParseSpec(r io.Reader, format string) (*Spec, error) {
	var spec Spec
	if err := decodeSpec(r, format, &spec); err != nil {
		return nil, err
	}
	if err := spec.Validate(); err != nil {
		return nil, err
	}
	return &spec, nil
}

func decodeSpec(r io.Reader, format string, spec *Spec) error {
	switch format {
	case SpecTOML:
		md, err := toml.NewDecoder(r).Decode(spec)
		if err != nil {
			return errors.Wrap(errors.ErrCodeInvalidFormat, err, "decode spec")
		}
		if undecoded := md.Undecoded(); len(undecoded) > 0 {
			return errors.New(errors.ErrCodeInvalidSpec, "unknown spec key %q", undecoded[0].String())
		}
	case SpecYAML:
		dec := yaml.NewDecoder(r)
		dec.KnownFields(true)
		if err := dec.Decode(spec); err != nil && err != io.EOF {
			return errors.Wrap(errors.ErrCodeInvalidSpec, err, "decode spec")
		}
	case SpecJSON:
		dec := json.NewDecoder(r)
		dec.DisallowUnknownFields()
		if err := dec.Decode(spec); err != nil {
			return errors.Wrap(errors.ErrCodeInvalidSpec, err, "decode spec")
		}
	default:
		return errors.New(errors.ErrCodeInvalidFormat, "unsupported spec format %q", format)
	}
	return nil
}

// Validate checks the struct constraints of the spec.
func (s *Spec) Validate() error {
	err := specValidate.Struct(s)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if !stderrors.As(err, &fieldErrs) || len(fieldErrs) == 0 {
		return errors.Wrap(errors.ErrCodeInvalidSpec, err, "validate spec")
	}
	msgs := make([]string, len(fieldErrs))
	for i, fe := range fieldErrs {
		msgs[i] = describeFieldError(fe)
	}
	return errors.New(errors.ErrCodeInvalidSpec, "invalid spec: %s", strings.Join(msgs, "; "))
}

func describeFieldError(fe validator.FieldError) string {
	field := strings.ToLower(fe.Field())
	switch fe.Tag() {
	case "required":
		return field + " is required"
	case "required_without":
		return field + " or columns is required"
	case "min":
		return fmt.Sprintf("%s must be at least %s", field, fe.Param())
	case "max":
		return fmt.Sprintf("%s must be at most %s characters", field, fe.Param())
	case "oneof":
		return fmt.Sprintf("%s %v is not one of %s", field, fe.Value(), fe.Param())
	}
	return fmt.Sprintf("%s fails %s", field, fe.Tag())
}

// Params merges the top-level options, bindings and options into the
// parameter map a chart decodes. A key given twice fails with INVALID_SPEC.
func (s *Spec) Params() (map[string]any, error) {
	params := make(map[string]any, len(s.Bindings)+len(s.Options)+4)
	add := func(key string, v any) error {
		if _, dup := params[key]; dup {
			return errors.New(errors.ErrCodeInvalidSpec, "spec sets %q twice", key)
		}
		params[key] = v
		return nil
	}
	for k, v := range s.Bindings {
		if err := add(k, v); err != nil {
			return nil, err
		}
	}
	for k, v := range s.Options {
		if err := add(k, v); err != nil {
			return nil, err
		}
	}
	top := []struct {
		key string
		v   any
		set bool
	}{
		{"title", s.Title, s.Title != ""},
		{"width", s.Width, s.Width != 0},
		{"height", s.Height, s.Height != 0},
		{"template", s.Template, s.Template != ""},
	}
	for _, t := range top {
		if !t.set {
			continue
		}
		if err := add(t.key, t.v); err != nil {
			return nil, err
		}
	}
	return params, nil
}

// Frame loads the spec's data.
func (s *Spec) Frame() (*frame.Table, error) {
	if len(s.Columns) > 0 {
		tbl, err := frame.NewTable(s.Columns, s.ColumnOrder)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidSpec, err, "inline columns")
		}
		return tbl, nil
	}
	path := s.DataPath()
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "data %s", s.Data)
	}
	tbl, err := frame.ImportFile(path)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "load data")
	}
	return tbl, nil
}

// DataPath returns the data file path resolved against the spec's
// directory, or "" when the data is inline.
func (s *Spec) DataPath() string {
	if s.Data == "" || len(s.Columns) > 0 {
		return ""
	}
	if filepath.IsAbs(s.Data) || s.dir == "" {
		return s.Data
	}
	return filepath.Join(s.dir, s.Data)
}
