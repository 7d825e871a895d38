package cli

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/goccy/go-graphviz"
	"github.com/spf13/cobra"

	"github.com/12357-314/gentoo-rdep-analyzer/pkg/rdeps"
)

// graphOpts holds the command-line flags for the graph command.
type graphOpts struct {
	report string // captured report file instead of running emerge
	output string // output path; extension selects DOT or SVG
}

// newGraphCmd creates the graph command, which exports a package's dependee
// chain as a Graphviz diagram.
func newGraphCmd() *cobra.Command {
	var opts graphOpts

	cmd := &cobra.Command{
		Use:   "graph [pattern]",
		Short: "Export the dependee chain as DOT or SVG",
		Long: `Walk the reverse-dependency chain of a package and write it as a
Graphviz graph. With no --output the DOT text goes to stdout; an .svg
output path renders through Graphviz directly.

Examples:
  rdep-analyzer graph openssl > openssl.dot
  rdep-analyzer graph openssl -o openssl.svg`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			cfg := configFromContext(ctx)

			pattern := ""
			if len(args) > 0 {
				pattern = args[0]
			}

			m, err := loadMap(ctx, cfg, opts.report, false)
			if err != nil {
				return err
			}
			name, err := selectPackage(m, pattern)
			if err != nil {
				return err
			}

			dot := chainDOT(m, name)
			if opts.output == "" || opts.output == "-" {
				fmt.Print(dot)
				return nil
			}

			data := []byte(dot)
			if strings.HasSuffix(opts.output, ".svg") {
				data, err = renderSVG(ctx, dot)
				if err != nil {
					return err
				}
			}
			if err := os.WriteFile(opts.output, data, 0644); err != nil {
				return err
			}
			printSuccess("Wrote dependee chain for %s", name)
			printFile(opts.output)
			return nil
		},
	}

	cmd.Flags().StringVarP(&opts.report, "report", "r", "", "captured depclean report file (default: run emerge)")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (.dot or .svg, stdout if empty)")

	return cmd
}

// chainDOT converts the dependee chain rooted at start into DOT. Edges
// point from dependee to dependency, so arrows read as "pulls in". Set
// nodes are dashed.
func chainDOT(m rdeps.Map, start string) string {
	var buf bytes.Buffer
	buf.WriteString("digraph rdeps {\n")
	buf.WriteString("  rankdir=RL;\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fillcolor=white];\n")
	buf.WriteString("\n")

	nodes := make(map[string]bool)
	edges := make(map[string]bool)
	ancestors := make(map[int]string)

	w := m.Walk(start)
	for lvl, ok := w.Next(); ok; lvl, ok = w.Next() {
		if !nodes[lvl.Name] {
			nodes[lvl.Name] = true
			attrs := ""
			if strings.HasPrefix(lvl.Name, rdeps.GroupPrefix) {
				attrs = " [style=\"rounded,filled,dashed\", fillcolor=lightgrey]"
			}
			fmt.Fprintf(&buf, "  %q%s;\n", lvl.Name, attrs)
		}
		ancestors[lvl.Depth] = lvl.Name
		if lvl.Depth > 0 {
			edge := fmt.Sprintf("  %q -> %q;\n", lvl.Name, ancestors[lvl.Depth-1])
			if !edges[edge] {
				edges[edge] = true
				buf.WriteString(edge)
			}
		}
	}

	buf.WriteString("}\n")
	return buf.String()
}

// renderSVG renders a DOT graph to SVG using Graphviz.
func renderSVG(ctx context.Context, dot string) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return buf.Bytes(), nil
}
