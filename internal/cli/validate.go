package cli

import (
	"encoding/json"
	stderrors "errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/plotcraft/pkg/errors"
	"github.com/matzehuels/plotcraft/pkg/schema"
)

// validateCommand creates the validate command.
func (c *CLI) validateCommand() *cobra.Command {
	var raw bool

	cmd := &cobra.Command{
		Use:   "validate <attribute> <value>",
		Short: "Check a value against an attribute's validator",
		Long: `Check a single value against the catalogue validator for an attribute.

The value is parsed as JSON when possible, so numbers, booleans, lists and
objects can be given directly. Anything that is not valid JSON is taken as a
plain string.`,
		Example: `  plotcraft validate layout.barmode group
  plotcraft validate bar.marker.opacity 0.5
  plotcraft validate scatter.marker.color '["red", "#00ff00"]'`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			value := parseValue(args[1])
			if raw {
				value = args[1]
			}
			return c.runValidate(schema.Default(), args[0], value)
		},
	}

	cmd.Flags().BoolVar(&raw, "raw", false, "treat the value as a plain string")
	return cmd
}

func (c *CLI) runValidate(reg *schema.Registry, path string, value any) error {
	v, ok := reg.LookupPath(path)
	if !ok {
		return errors.New(errors.ErrCodeUnknownAttribute, "no validator for attribute %q", path)
	}

	coerced, err := reg.Validate(path, value)
	var violation *errors.Violation
	switch {
	case err == nil:
		printSuccess("%s accepts %s", StyleHighlight.Render(path), StyleValue.Render(formatJSON(coerced)))
		return nil
	case stderrors.As(err, &violation):
		printError("%s rejects %s", StyleHighlight.Render(path), StyleValue.Render(formatJSON(value)))
		printKeyValue("  expected", v.Describe())
		return err
	default:
		return err
	}
}

// parseValue decodes s as JSON, falling back to the string itself.
func parseValue(s string) any {
	trimmed := strings.TrimSpace(s)
	if trimmed == "" {
		return s
	}
	var v any
	if err := json.Unmarshal([]byte(trimmed), &v); err != nil {
		return s
	}
	return v
}

func formatJSON(v any) string {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Sprintf("%v", v)
	}
	return string(data)
}

func asViolations(err error, vs *errors.Violations) bool {
	return stderrors.As(err, vs)
}
