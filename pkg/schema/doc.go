// Package schema validates values in a figure's declarative configuration tree.
//
// Every configurable property of a figure is addressed by a dotted attribute
// path such as "layout.annotation.font.family" or "sankey.arrangement". Each
// path has exactly one [Validator]. A validator is plain data: a leaf name, the
// path of its owning container, an edit type tag and a [Rule].
//
// # Rules
//
// A [Rule] is one of a closed set of generic kinds:
//
//   - [String]: text, optionally non-blank, strict or restricted to values
//   - [Enumerated]: membership in a fixed set of values (not only strings)
//   - [Number] and [Integer]: numeric values within optional inclusive bounds
//   - [Boolean], [Angle], [Flaglist], [SubplotID], [Any]
//   - [Color], [ColorScale], [ColorList]
//   - [Array] and [DataArray]
//
// Rules are pure. Validating the same value twice yields the same result, and a
// rule never mutates the value it checks. A rejected value produces an
// *errors.Violation naming the attribute path, the value and the rule.
//
// # Catalogue
//
// Validators are loaded from a TOML catalogue rather than declared in code.
// The built-in catalogue is embedded in the binary and exposed through
// [Default]; custom catalogues can be loaded with [Load].
//
//	reg := schema.Default()
//	v, err := reg.Validate("sankey.arrangement", "snap")
//
// # Tree validation
//
// [ValidateTree] walks a nested map (a trace or a layout) and validates every
// leaf that has a registered validator, returning a coerced copy of the tree.
package schema
