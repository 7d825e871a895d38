// Package triggers explains why a package is installed.
//
// For every hop of a reverse-dependency chain it parses the dependee's
// dependency variables with the pms grammar, reorganizes the syntax tree
// into a trigger tree (groups and use-conditionals above the atoms they
// guard) and prunes that tree down to the paths ending in the package one
// hop closer to the start. What remains is exactly the syntax that pulls
// the dependency in: the USE queries, any-of alternatives and atoms.
package triggers

import (
	"context"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/12357-314/gentoo-rdep-analyzer/pkg/parse"
	"github.com/12357-314/gentoo-rdep-analyzer/pkg/pms"
	"github.com/12357-314/gentoo-rdep-analyzer/pkg/rdeps"
	"github.com/12357-314/gentoo-rdep-analyzer/pkg/tree"
)

// DepvarNames is the default set of dependency variables examined per hop,
// in query and report order.
var DepvarNames = []string{"DEPEND", "RDEPEND", "BDEPEND", "IDEPEND", "PDEPEND"}

// Trigger-tree node kinds not inherited from the grammar.
const (
	KindRoot    = "Root"
	KindPkgname = "Pkgname"
)

// Entry is the data of one trigger-tree node: a kind (group kind, DynamicUse,
// Root or Pkgname) and its display text.
type Entry struct {
	Kind string
	Text string
}

// VarTriggers pairs a dependency variable name with its pruned trigger tree.
type VarTriggers struct {
	Name string
	Tree *tree.Node[Entry]
}

// Hop is one level of an examined chain. Vars is nil for set names, for hops
// whose metadata could not be fetched (Err carries the cause) and for hops
// where no variable triggers the previous package.
type Hop struct {
	Depth int
	Name  string
	Vars  []VarTriggers
	Err   error
}

// Source supplies dependency-variable text for a package, one value per
// requested name, in order. Implementations typically shell out to portageq.
type Source interface {
	Depvars(ctx context.Context, pkg string, names []string) ([]string, error)
}

// tokenKind keys syntax-tree traversal by token kind.
func tokenKind(t parse.Token) any { return t.Kind }

// kids returns the children of n holding the given token kind. A single key
// step from a single node cannot fail.
func kids(n *tree.Node[parse.Token], kind string) []*tree.Node[parse.Token] {
	nodes, _ := n.Traverse([]any{kind}, tokenKind)
	return nodes
}

// AtomPkgname reduces a dependency atom to its bare category/package name,
// stripping blocks, gates, version, slot and USE parts. Set names pass
// through unchanged, and so does (trimmed) any text the grammar cannot make
// sense of.
func AtomPkgname(text string) string {
	if strings.HasPrefix(text, rdeps.GroupPrefix) {
		return text
	}
	root := pms.Parse(text)
	nodes, err := root.Traverse([]any{pms.KindAtom, pms.KindCatPkg, 0}, tokenKind)
	if err != nil || len(nodes) == 0 {
		return strings.TrimSpace(text)
	}
	return strings.TrimSpace(nodes[0].Data.Text)
}

// groupKinds is the sibling order for trigger groups: the most restrictive
// group forms come first, then use-conditionals, then plain atoms.
var groupKinds = []string{
	pms.KindMostOneOfGroup,
	pms.KindExactlyOneOfGroup,
	pms.KindAnyOfGroup,
	pms.KindAllOfGroup,
}

// Build reorganizes a parsed dependency-variable syntax tree into a trigger
// tree rooted at a KindRoot entry. Group nodes keep their trimmed source
// text, use-conditional nodes carry just their flag query, and each atom
// becomes a KindPkgname leaf holding either the bare category/package name
// or, with fullAtom, the atom's full source text.
func Build(syntax *tree.Node[parse.Token], fullAtom bool) *tree.Node[Entry] {
	root := tree.New(Entry{Kind: KindRoot, Text: strings.TrimSpace(syntax.Data.Text)})
	build(syntax, root, fullAtom)
	return root
}

func build(syntax *tree.Node[parse.Token], into *tree.Node[Entry], fullAtom bool) {
	for _, kind := range groupKinds {
		for _, group := range kids(syntax, kind) {
			node := tree.New(Entry{Kind: kind, Text: strings.TrimSpace(group.Data.Text)})
			into.AddChild(node)
			build(group, node, fullAtom)
		}
	}

	// Use-conditionals are labeled by their flag query, not their body.
	for _, cond := range kids(syntax, pms.KindDynamicUse) {
		text := ""
		if queries := kids(cond, pms.KindUseQuery); len(queries) > 0 {
			text = queries[0].Data.Text
		}
		node := tree.New(Entry{Kind: pms.KindDynamicUse, Text: text})
		into.AddChild(node)
		build(cond, node, fullAtom)
	}

	for _, a := range kids(syntax, pms.KindAtom) {
		text := a.Data.Text
		if !fullAtom {
			if catpkgs := kids(a, pms.KindCatPkg); len(catpkgs) > 0 {
				text = AtomPkgname(catpkgs[0].Data.Text)
			}
		}
		into.AddChild(tree.New(Entry{Kind: KindPkgname, Text: text}))
	}
}

// Prune removes, post order, every branch of a trigger tree that does not
// end in a KindPkgname leaf naming pkgname. It reports whether n itself
// survives; a false return means the caller should drop the whole tree.
func Prune(n *tree.Node[Entry], pkgname string) bool {
	var dropped []int
	for i, child := range n.Children() {
		if !Prune(child, pkgname) {
			dropped = append(dropped, i)
		}
	}
	n.RemoveChildren(dropped...)

	if n.Data.Kind == KindPkgname && AtomPkgname(n.Data.Text) == pkgname {
		return true
	}
	return len(n.Children()) > 0
}

// Line is one row of a rendered trigger tree.
type Line struct {
	Depth int
	Text  string
}

// Lines flattens a trigger tree for display. Root and all-of labels add
// nothing a reader wants, so their text is skipped while their children
// still indent one level deeper.
func Lines(t *tree.Node[Entry]) []Line {
	var out []Line
	flatten(t, 0, &out)
	return out
}

func flatten(t *tree.Node[Entry], depth int, out *[]Line) {
	if t.Data.Kind != KindRoot && t.Data.Kind != pms.KindAllOfGroup {
		*out = append(*out, Line{Depth: depth, Text: t.Data.Text})
	}
	for _, child := range t.Children() {
		flatten(child, depth+1, out)
	}
}

// Analyzer walks a dependee map and produces one [Hop] per chain level.
type Analyzer struct {
	Map    rdeps.Map
	Source Source

	// Depvars overrides DepvarNames when non-nil.
	Depvars []string

	// FullAtom keeps whole atom texts in trigger leaves instead of bare
	// category/package names.
	FullAtom bool

	// Log receives warnings about hops whose metadata could not be
	// fetched. Nil disables them.
	Log *log.Logger
}

func (a *Analyzer) depvarNames() []string {
	if a.Depvars != nil {
		return a.Depvars
	}
	return DepvarNames
}

// Examine walks the dependee chain starting at start and calls emit for
// every hop in depth-first order. The first hop carries the resolved
// category/package name of start itself. Set-name hops and hops whose
// dependency variables cannot be fetched are emitted bare; a fetch failure
// is recorded on the hop and the walk continues. Examine stops early only
// when ctx is done or emit returns an error.
func (a *Analyzer) Examine(ctx context.Context, start string, emit func(Hop) error) error {
	names := a.depvarNames()
	ancestors := make(map[int]string)

	w := a.Map.Walk(start)
	lvl, ok := w.Next()
	if !ok {
		return nil
	}
	resolved := AtomPkgname(lvl.Name)
	ancestors[lvl.Depth] = resolved
	if err := emit(Hop{Depth: lvl.Depth, Name: resolved}); err != nil {
		return err
	}

	for lvl, ok = w.Next(); ok; lvl, ok = w.Next() {
		if err := ctx.Err(); err != nil {
			return err
		}
		if strings.HasPrefix(lvl.Name, rdeps.GroupPrefix) {
			if err := emit(Hop{Depth: lvl.Depth, Name: lvl.Name}); err != nil {
				return err
			}
			continue
		}

		depvars, err := a.Source.Depvars(ctx, lvl.Name, names)
		if err != nil {
			if a.Log != nil {
				a.Log.Warn("dependency metadata unavailable", "pkg", lvl.Name, "err", err)
			}
			if err := emit(Hop{Depth: lvl.Depth, Name: lvl.Name, Err: err}); err != nil {
				return err
			}
			continue
		}

		ancestors[lvl.Depth] = AtomPkgname(lvl.Name)
		target := ancestors[lvl.Depth-1]

		var vars []VarTriggers
		for i, name := range names {
			if i >= len(depvars) {
				break
			}
			trig := Build(pms.Parse(depvars[i]), a.FullAtom)
			if !Prune(trig, target) {
				continue
			}
			vars = append(vars, VarTriggers{Name: name, Tree: trig})
		}
		if err := emit(Hop{Depth: lvl.Depth, Name: lvl.Name, Vars: vars}); err != nil {
			return err
		}
	}
	return nil
}

// ExamineAll drains Examine into a slice.
func (a *Analyzer) ExamineAll(ctx context.Context, start string) ([]Hop, error) {
	var hops []Hop
	err := a.Examine(ctx, start, func(h Hop) error {
		hops = append(hops, h)
		return nil
	})
	return hops, err
}
