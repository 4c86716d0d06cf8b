package cli

import (
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/matzehuels/plotcraft/pkg/errors"
	"github.com/matzehuels/plotcraft/pkg/render"
	"github.com/matzehuels/plotcraft/pkg/schema"
)

// schemaCommand creates the schema command and its subcommands.
func (c *CLI) schemaCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "schema",
		Short: "Inspect the attribute catalogue",
	}

	cmd.AddCommand(c.schemaListCommand())
	cmd.AddCommand(c.schemaBrowseCommand())
	cmd.AddCommand(c.schemaGraphCommand())

	return cmd
}

func (c *CLI) schemaListCommand() *cobra.Command {
	var parent string

	cmd := &cobra.Command{
		Use:     "list",
		Short:   "List validators, optionally under a parent path",
		Example: `  plotcraft schema list --parent layout.xaxis`,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			vs := schema.Default().Under(parent)
			if len(vs) == 0 {
				return errors.New(errors.ErrCodeNotFound, "no attributes under %q", parent)
			}
			fmt.Fprintln(cmd.OutOrStdout(), validatorTable(vs))
			printDetail("%d attributes", len(vs))
			return nil
		},
	}

	cmd.Flags().StringVarP(&parent, "parent", "p", "", "only list attributes under this path")
	return cmd
}

func validatorTable(vs []*schema.Validator) string {
	rows := make([][]string, len(vs))
	for i, v := range vs {
		rows[i] = []string{v.Path(), string(v.Rule.Kind()), v.Describe()}
	}
	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("Attribute", "Kind", "Accepts").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == -1:
				return styleHeader
			case col == 0:
				return StyleHighlight
			case col == 1:
				return lipgloss.NewStyle().Foreground(colorGray)
			}
			return lipgloss.NewStyle()
		}).
		Render()
}

func (c *CLI) schemaBrowseCommand() *cobra.Command {
	var parent string

	cmd := &cobra.Command{
		Use:   "browse",
		Short: "Browse the catalogue interactively",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			vs := schema.Default().Under(parent)
			if len(vs) == 0 {
				return errors.New(errors.ErrCodeNotFound, "no attributes under %q", parent)
			}
			p := tea.NewProgram(NewSchemaBrowserModel(vs), tea.WithContext(cmd.Context()), tea.WithAltScreen())
			if _, err := p.Run(); err != nil {
				return fmt.Errorf("browse: %w", err)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&parent, "parent", "p", "", "start under this path")
	return cmd
}

func (c *CLI) schemaGraphCommand() *cobra.Command {
	var (
		root     string
		format   string
		output   string
		detailed bool
	)

	cmd := &cobra.Command{
		Use:   "graph",
		Short: "Draw the catalogue as a graph (Graphviz DOT or SVG)",
		Example: `  plotcraft schema graph --root layout.xaxis -o xaxis.svg
  plotcraft schema graph --root bar.marker -f dot`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			runner, err := c.newRunner(false)
			if err != nil {
				return err
			}
			defer runner.Close()

			spinner := newSpinnerWithContext(cmd.Context(), "Drawing catalogue graph...")
			spinner.Start()
			data, err := runner.SchemaGraph(cmd.Context(), root, format, detailed)
			if err != nil {
				spinner.StopWithError("Graph failed")
				return err
			}
			spinner.Stop()

			if output == "" {
				_, err := cmd.OutOrStdout().Write(data)
				return err
			}
			if err := os.WriteFile(output, data, 0o644); err != nil {
				return fmt.Errorf("write %s: %w", output, err)
			}
			printSuccess("Drew %s", StyleHighlight.Render(graphRootLabel(root)))
			printFile(output)
			return nil
		},
	}

	cmd.Flags().StringVar(&root, "root", "", "only draw attributes under this path")
	cmd.Flags().StringVarP(&format, "format", "f", render.FormatSVG, "output format: svg, dot")
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: stdout)")
	cmd.Flags().BoolVar(&detailed, "detailed", false, "label leaves with their rule")
	return cmd
}

func graphRootLabel(root string) string {
	if root == "" {
		return "full catalogue"
	}
	return root
}
