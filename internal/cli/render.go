package cli

import (
	"strings"

	"github.com/12357-314/gentoo-rdep-analyzer/pkg/rdeps"
	"github.com/12357-314/gentoo-rdep-analyzer/pkg/triggers"
)

// renderHop formats one chain hop as indented terminal lines: the package or
// set name at its chain depth, then for each dependency variable the trigger
// lines that pull in the previous hop. Set names render green, packages
// yellow, variable labels dim; trigger syntax stays uncolored so it can be
// copied verbatim.
func renderHop(h triggers.Hop, indent int) string {
	pad := strings.Repeat(" ", indent*h.Depth)

	name := StylePackage.Render(h.Name)
	if strings.HasPrefix(h.Name, rdeps.GroupPrefix) {
		name = StyleSet.Render(h.Name)
	}

	lines := []string{pad + name}
	if h.Err != nil {
		lines = append(lines, pad+"|  "+StyleDim.Render("- metadata unavailable"))
	}
	for _, v := range h.Vars {
		lines = append(lines, pad+"|  "+StyleDim.Render("- "+v.Name)+":")
		for _, tl := range triggers.Lines(v.Tree) {
			lines = append(lines, pad+"|"+strings.Repeat(" ", indent*tl.Depth+4)+tl.Text)
		}
	}
	return strings.Join(lines, "\n")
}
