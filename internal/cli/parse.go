package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/12357-314/gentoo-rdep-analyzer/pkg/parse"
	"github.com/12357-314/gentoo-rdep-analyzer/pkg/pms"
	"github.com/12357-314/gentoo-rdep-analyzer/pkg/tree"
	"github.com/12357-314/gentoo-rdep-analyzer/pkg/triggers"
)

// parseOpts holds the command-line flags for the parse command.
type parseOpts struct {
	pkgname  bool // reduce to the bare category/package name
	triggers bool // show the reorganized trigger tree instead of the syntax tree
}

// newParseCmd creates the parse command, a debug tool that prints the
// syntax tree the grammar produces for a dependency string.
func newParseCmd() *cobra.Command {
	var opts parseOpts

	cmd := &cobra.Command{
		Use:   "parse <depspec>",
		Short: "Print the syntax tree of a dependency specification",
		Long: `Parse a dependency-specification string with the PMS grammar and print
the resulting syntax tree. Useful for checking how a DEPEND fragment is
understood before trusting an analysis built on it.

Examples:
  rdep-analyzer parse '>=dev-libs/openssl-3.0:0=[static-libs(-)?]'
  rdep-analyzer parse 'ssl? ( dev-libs/openssl:0= )' --triggers
  rdep-analyzer parse '!!<sys-apps/portage-2.3' --pkgname`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			input := args[0]

			if opts.pkgname {
				fmt.Println(triggers.AtomPkgname(input))
				return nil
			}

			syntax := pms.Parse(input)
			if opts.triggers {
				printTriggerTree(triggers.Build(syntax, false), 0)
				return nil
			}
			printSyntaxTree(syntax, 0)
			return nil
		},
	}

	cmd.Flags().BoolVar(&opts.pkgname, "pkgname", false, "print only the bare category/package name")
	cmd.Flags().BoolVar(&opts.triggers, "triggers", false, "print the reorganized trigger tree")

	return cmd
}

// printSyntaxTree dumps a token tree with dim kinds and quoted texts.
func printSyntaxTree(n *tree.Node[parse.Token], depth int) {
	pad := strings.Repeat("  ", depth)
	fmt.Printf("%s%s %s\n",
		pad,
		StyleDim.Render(n.Data.Kind+":"),
		StyleValue.Render(fmt.Sprintf("%q", n.Data.Text)),
	)
	for _, c := range n.Children() {
		printSyntaxTree(c, depth+1)
	}
}

// printTriggerTree dumps a trigger tree with dim kinds.
func printTriggerTree(n *tree.Node[triggers.Entry], depth int) {
	pad := strings.Repeat("  ", depth)
	fmt.Printf("%s%s %s\n",
		pad,
		StyleDim.Render(n.Data.Kind+":"),
		StyleValue.Render(fmt.Sprintf("%q", n.Data.Text)),
	)
	for _, c := range n.Children() {
		printTriggerTree(c, depth+1)
	}
}
