package schema

import (
	"sort"
	"strings"

	"github.com/matzehuels/plotcraft/pkg/errors"
)

type key struct {
	name   string
	parent string
}

// Registry indexes validators by (name, parent path) and by full path.
//
// A Registry is populated once and only read afterward. Register is not safe
// for concurrent use; all read methods are.
type Registry struct {
	byKey      map[key]*Validator
	byPath     map[string]*Validator
	containers map[string]bool
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		byKey:      make(map[key]*Validator),
		byPath:     make(map[string]*Validator),
		containers: make(map[string]bool),
	}
}

// Register adds a validator. Registering a second validator for a path that
// is already taken fails.
func (r *Registry) Register(v *Validator) error {
	if v == nil || v.Rule == nil {
		return errors.New(errors.ErrCodeInvalidInput, "validator has no rule")
	}
	if v.Name == "" {
		return errors.New(errors.ErrCodeInvalidInput, "validator under %q has no name", v.ParentPath)
	}
	path := v.Path()
	if _, dup := r.byPath[path]; dup {
		return errors.New(errors.ErrCodeInvalidSpec, "duplicate validator for %s", path)
	}
	r.byPath[path] = v
	r.byKey[key{v.Name, v.ParentPath}] = v
	for p := v.ParentPath; p != ""; p = parentOf(p) {
		r.containers[p] = true
	}
	return nil
}

// Lookup returns the validator for a leaf name under a parent path.
func (r *Registry) Lookup(name, parent string) (*Validator, bool) {
	v, ok := r.byKey[key{name, parent}]
	return v, ok
}

// LookupPath returns the validator for a full dotted path.
func (r *Registry) LookupPath(path string) (*Validator, bool) {
	v, ok := r.byPath[path]
	return v, ok
}

// Validate checks value against the validator registered for path.
// An unregistered path yields an UNKNOWN_ATTRIBUTE error.
func (r *Registry) Validate(path string, value any) (any, error) {
	v, ok := r.byPath[path]
	if !ok {
		return nil, errors.New(errors.ErrCodeUnknownAttribute, "no validator for attribute %q", path)
	}
	return v.Validate(value)
}

// Validators returns every registered validator sorted by path.
func (r *Registry) Validators() []*Validator {
	out := make([]*Validator, 0, len(r.byPath))
	for _, v := range r.byPath {
		out = append(out, v)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Path() < out[j].Path() })
	return out
}

// Under returns the validators whose path lies under prefix, sorted by path.
// An empty prefix returns everything.
func (r *Registry) Under(prefix string) []*Validator {
	if prefix == "" {
		return r.Validators()
	}
	var out []*Validator
	for _, v := range r.Validators() {
		p := v.Path()
		if p == prefix || strings.HasPrefix(p, prefix+".") {
			out = append(out, v)
		}
	}
	return out
}

// Len returns the number of registered validators.
func (r *Registry) Len() int { return len(r.byPath) }

// isContainer reports whether some registered path lies strictly below path.
func (r *Registry) isContainer(path string) bool {
	return r.containers[path]
}

func parentOf(path string) string {
	if i := strings.LastIndexByte(path, '.'); i >= 0 {
		return path[:i]
	}
	return ""
}
