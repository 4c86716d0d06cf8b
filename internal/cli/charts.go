package cli

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/matzehuels/plotcraft/pkg/express"
)

func (c *CLI) chartsCommand() *cobra.Command {
	var hideDeprecated bool

	cmd := &cobra.Command{
		Use:   "charts",
		Short: "List the chart constructors",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprintln(cmd.OutOrStdout(), chartTable(express.Charts(), hideDeprecated))
			printNextStep("Plot one", "plotcraft plot <spec>")
			return nil
		},
	}

	cmd.Flags().BoolVar(&hideDeprecated, "hide-deprecated", false, "omit the deprecated mapbox charts")
	return cmd
}

func chartTable(charts []express.Chart, hideDeprecated bool) string {
	var rows [][]string
	var deprecated []bool
	for _, ch := range charts {
		if ch.Deprecated() && hideDeprecated {
			continue
		}
		note := ""
		if ch.Deprecated() {
			note = "deprecated, use " + ch.Replacement
		}
		rows = append(rows, []string{ch.Name, ch.TraceType, note})
		deprecated = append(deprecated, ch.Deprecated())
	}

	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("Chart", "Trace", "").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == -1:
				return styleHeader
			case deprecated[row]:
				return StyleWarning
			case col == 0:
				return StyleHighlight
			}
			return lipgloss.NewStyle().Foreground(colorGray)
		}).
		Render()
}
