package figure

import (
	"strings"

	"github.com/matzehuels/plotcraft/pkg/errors"
)

// mixedCategory labels a branch whose descendants have different discrete
// colors.
const mixedCategory = "(?)"

type hierNode struct {
	id, label, parent string
	level             int
	value             float64
	colorSum          float64
	weight            float64
	categories        map[string]bool
}

// hierarchy is the id/label/parent encoding of a path-defined tree.
type hierarchy struct {
	ids, labels, parents, values, colors []any
}

// buildHierarchy turns path columns (root level first) into a flat tree.
//
// Node ids join the path values with "/" ("Europe/France/Paris"). Every node
// carries the sum of the values of the rows below it, or the row count when
// values is nil. A numeric color column is averaged over the rows weighted by
// value; a discrete one keeps its category when all rows agree and becomes
// "(?)" otherwise. Leaves are listed first, then each level up to the roots.
func buildHierarchy(path []series, values, color *series) (hierarchy, error) {
	if len(path) == 0 {
		return hierarchy{}, nil
	}
	n := len(path[0].values)
	numericColor := color != nil && continuous(color.values)

	nodes := make(map[string]*hierNode)
	byLevel := make([][]*hierNode, len(path))

	for r := 0; r < n; r++ {
		depth := -1
		for l := range path {
			if path[l].values[r] == nil {
				continue
			}
			if depth != l-1 {
				return hierarchy{}, errors.New(errors.ErrCodeInvalidInput,
					"row %d: %s is set but %s above it is empty", r, path[l].name, path[l-1].name)
			}
			depth = l
		}
		if depth < 0 {
			continue
		}

		weight := 1.0
		if values != nil {
			f, ok := asFloat(values.values[r])
			if !ok {
				return hierarchy{}, errors.New(errors.ErrCodeInvalidInput,
					"row %d: value %v of %s is not a number", r, values.values[r], values.name)
			}
			weight = f
		}

		var parts []string
		parent := ""
		for l := 0; l <= depth; l++ {
			label := category(path[l].values[r])
			parts = append(parts, label)
			id := strings.Join(parts, "/")
			node, ok := nodes[id]
			if !ok {
				node = &hierNode{id: id, label: label, parent: parent, level: l, categories: map[string]bool{}}
				nodes[id] = node
				byLevel[l] = append(byLevel[l], node)
			}
			node.value += weight
			if color != nil {
				if numericColor {
					if c, ok := asFloat(color.values[r]); ok {
						node.colorSum += c * weight
						node.weight += weight
					}
				} else {
					node.categories[category(color.values[r])] = true
				}
			}
			parent = id
		}
	}

	var h hierarchy
	for l := len(byLevel) - 1; l >= 0; l-- {
		for _, node := range byLevel[l] {
			h.ids = append(h.ids, node.id)
			h.labels = append(h.labels, node.label)
			h.parents = append(h.parents, node.parent)
			h.values = append(h.values, node.value)
			if color == nil {
				continue
			}
			if numericColor {
				var c any
				if node.weight != 0 {
					c = node.colorSum / node.weight
				}
				h.colors = append(h.colors, c)
				continue
			}
			c := mixedCategory
			if len(node.categories) == 1 {
				for only := range node.categories {
					c = only
				}
			}
			h.colors = append(h.colors, c)
		}
	}
	return h, nil
}
