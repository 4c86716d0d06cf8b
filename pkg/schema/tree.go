package schema

import (
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/matzehuels/plotcraft/pkg/errors"
)

// containerArrays maps plural container-array keys to the singular parent
// path their elements are validated under.
var containerArrays = map[string]string{
	"annotations": "annotation",
	"shapes":      "shape",
	"images":      "image",
	"sliders":     "slider",
	"steps":       "step",
	"updatemenus": "updatemenu",
	"buttons":     "button",
	"selections":  "selection",
	"dimensions":  "dimension",
}

// numberedSubplot matches layout keys for additional subplots such as
// "xaxis2" or "polar3"; they share the validators of the first subplot.
var numberedSubplot = regexp.MustCompile(`^(xaxis|yaxis|scene|polar|ternary|geo|map|mapbox|coloraxis|legend)[2-9]\d*$|^(xaxis|yaxis|scene|polar|ternary|geo|map|mapbox|coloraxis|legend)1\d+$`)

// WalkOptions configures ValidateTree.
type WalkOptions struct {
	// Strict reports leaves without a registered validator as violations.
	Strict bool
}

// ValidateTree validates every leaf of a nested configuration tree.
//
// root is the schema path of the tree itself: "layout" for a figure layout or
// the trace type ("scatter", "pie", ...) for a trace. The returned tree is a
// copy in which accepted values are replaced by their coerced form; rejected
// values are kept unchanged and reported.
//
// A value whose path has a validator is validated as a leaf even when it is
// a map. Lists of maps under a container-array key ("annotations") are walked
// element by element under the singular path ("layout.annotation"). Numbered
// subplots in a layout ("xaxis2") are validated as their first subplot.
func ValidateTree(r *Registry, root string, tree map[string]any, opts WalkOptions) (map[string]any, errors.Violations) {
	w := &walker{reg: r, opts: opts}
	out := w.walkMap(root, root, tree, true)
	return out, w.violations
}

type walker struct {
	reg        *Registry
	opts       WalkOptions
	violations errors.Violations
}

func (w *walker) walkMap(schemaPath, displayPath string, node map[string]any, top bool) map[string]any {
	out := make(map[string]any, len(node))
	for _, k := range sortedKeys(node) {
		v := node[k]
		// A trace's own type tag is not an attribute.
		if top && k == "type" && schemaPath != "layout" {
			out[k] = v
			continue
		}
		name := k
		if top && schemaPath == "layout" && numberedSubplot.MatchString(k) {
			name = strings.TrimRight(k, "0123456789")
		}
		childSchema := joinPath(schemaPath, name)
		childDisplay := joinPath(displayPath, k)

		if val, ok := w.reg.LookupPath(childSchema); ok {
			coerced, err := val.Validate(v)
			if err != nil {
				w.violations = append(w.violations, errors.Violation{
					Path:  childDisplay,
					Value: v,
					Rule:  "must be " + val.Describe(),
				})
				out[k] = v
				continue
			}
			out[k] = coerced
			continue
		}

		switch x := v.(type) {
		case map[string]any:
			if w.reg.isContainer(childSchema) {
				out[k] = w.walkMap(childSchema, childDisplay, x, false)
				continue
			}
		case []any:
			if singular, ok := containerArrays[k]; ok {
				elemSchema := joinPath(schemaPath, singular)
				if w.reg.isContainer(elemSchema) {
					out[k] = w.walkList(elemSchema, childDisplay, x)
					continue
				}
			}
		case []map[string]any:
			if singular, ok := containerArrays[k]; ok {
				elemSchema := joinPath(schemaPath, singular)
				if w.reg.isContainer(elemSchema) {
					items := make([]any, len(x))
					for i := range x {
						items[i] = x[i]
					}
					out[k] = w.walkList(elemSchema, childDisplay, items)
					continue
				}
			}
		}

		if w.opts.Strict {
			w.violations = append(w.violations, errors.Violation{
				Path:  childDisplay,
				Value: v,
				Rule:  "not a recognized attribute",
			})
		}
		out[k] = v
	}
	return out
}

func (w *walker) walkList(elemSchema, displayPath string, items []any) []any {
	out := make([]any, len(items))
	for i, item := range items {
		display := fmt.Sprintf("%s[%d]", displayPath, i)
		m, ok := item.(map[string]any)
		if !ok {
			w.violations = append(w.violations, errors.Violation{
				Path:  display,
				Value: item,
				Rule:  "must be an object",
			})
			out[i] = item
			continue
		}
		out[i] = w.walkMap(elemSchema, display, m, false)
	}
	return out
}

func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// =============================================================================
// Schema tree
// =============================================================================

// Node is one node of the catalogue rendered as a tree. Leaves carry their
// validator; containers carry only children.
type Node struct {
	Name      string
	Path      string
	Validator *Validator
	Children  []*Node
}

// IsLeaf reports whether the node has a validator.
func (n *Node) IsLeaf() bool { return n.Validator != nil }

// Walk calls fn for n and every descendant in depth-first order. Returning
// false from fn skips the node's children.
func (n *Node) Walk(fn func(*Node) bool) {
	if !fn(n) {
		return
	}
	for _, c := range n.Children {
		c.Walk(fn)
	}
}

// Tree builds the catalogue subtree rooted at root. An empty root returns a
// synthetic node whose children are the top-level containers ("layout" and
// each trace type). It returns false when nothing is registered under root.
func (r *Registry) Tree(root string) (*Node, bool) {
	top := &Node{Name: root, Path: root}
	if root != "" {
		top.Name = root[strings.LastIndexByte(root, '.')+1:]
	}
	if v, ok := r.byPath[root]; ok {
		top.Validator = v
		return top, true
	}

	index := map[string]*Node{root: top}
	var node func(path string) *Node
	node = func(path string) *Node {
		if n, ok := index[path]; ok {
			return n
		}
		parent := node(parentOf(path))
		n := &Node{Name: path[strings.LastIndexByte(path, '.')+1:], Path: path}
		parent.Children = append(parent.Children, n)
		index[path] = n
		return n
	}

	found := false
	for _, v := range r.Under(root) {
		found = true
		n := node(v.Path())
		n.Validator = v
	}
	if !found {
		return nil, false
	}
	top.Walk(func(n *Node) bool {
		sort.Slice(n.Children, func(i, j int) bool { return n.Children[i].Name < n.Children[j].Name })
		return true
	})
	return top, true
}
