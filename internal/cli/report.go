package cli

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"
)

// reportOpts holds the command-line flags for the report command.
type reportOpts struct {
	report string // captured report file instead of running emerge
	limit  int    // maximum rows to show (0 = all)
}

// newReportCmd creates the report command, which shows the dependee map
// extracted from the depclean report without analyzing any chain.
func newReportCmd() *cobra.Command {
	var opts reportOpts

	cmd := &cobra.Command{
		Use:   "report [pattern]",
		Short: "Show the dependee map extracted from the depclean report",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			cfg := configFromContext(ctx)

			m, err := loadMap(ctx, cfg, opts.report, false)
			if err != nil {
				return err
			}

			names := m.Packages()
			if len(args) > 0 {
				filtered, err := filterNames(names, args[0])
				if err != nil {
					return err
				}
				names = filtered
			}
			total := len(names)
			if opts.limit > 0 && len(names) > opts.limit {
				names = names[:opts.limit]
			}

			headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)
			t := table.New().
				Border(lipgloss.RoundedBorder()).
				BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
				Headers("Package", "Pulled in by").
				StyleFunc(func(row, col int) lipgloss.Style {
					if row == -1 {
						return headerStyle
					}
					if col == 0 {
						return StylePackage
					}
					return lipgloss.NewStyle().Foreground(colorGray)
				})

			for _, name := range names {
				t.Row(name, dependeeSummary(m.Dependees(name)))
			}

			fmt.Println(t.Render())
			if total > len(names) {
				printDetail("%d more packages, raise --limit to see them", total-len(names))
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&opts.report, "report", "r", "", "captured depclean report file (default: run emerge)")
	cmd.Flags().IntVar(&opts.limit, "limit", 40, "maximum rows to show (0 for all)")

	return cmd
}

// dependeeSummary joins dependee names, truncating long lists.
func dependeeSummary(deps []string) string {
	const max = 4
	if len(deps) <= max {
		return strings.Join(deps, ", ")
	}
	return fmt.Sprintf("%s, +%d more", strings.Join(deps[:max], ", "), len(deps)-max)
}
