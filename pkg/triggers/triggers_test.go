package triggers

import (
	"context"
	"errors"
	"slices"
	"testing"

	"github.com/12357-314/gentoo-rdep-analyzer/pkg/pms"
	"github.com/12357-314/gentoo-rdep-analyzer/pkg/rdeps"
	"github.com/12357-314/gentoo-rdep-analyzer/pkg/tree"
)

func TestAtomPkgname(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"cat/pkg", "cat/pkg"},
		{"cat/pkg-1.0", "cat/pkg"},
		{">=cat/pkg-1.0:slot/sub[use(+)=]", "cat/pkg"},
		{"!!<cat/pkg-2", "cat/pkg"},
		{"cat/pkg ", "cat/pkg"},
		// A bare name still parses as an atom without its category.
		{"pkg", "pkg"},
		// Set names pass through untouched.
		{"@world", "@world"},
		// Unparseable text falls back to its trimmed self.
		{")][ ((", ")][ (("},
		{"", ""},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := AtomPkgname(tt.input); got != tt.want {
				t.Errorf("AtomPkgname(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

// entryKinds returns the kinds of a node's children in order.
func entryKinds(n *tree.Node[Entry]) []string {
	var out []string
	for _, c := range n.Children() {
		out = append(out, c.Data.Kind)
	}
	return out
}

func TestBuild(t *testing.T) {
	depvar := "cat/a ssl? ( cat/b ) || ( cat/c cat/d ) ?? ( cat/e )"
	trig := Build(pms.Parse(depvar), false)

	if trig.Data.Kind != KindRoot {
		t.Fatalf("root kind = %q, want %q", trig.Data.Kind, KindRoot)
	}

	// Groups come first, most restrictive form leading, then the
	// use-conditional, then plain atoms.
	want := []string{pms.KindMostOneOfGroup, pms.KindAnyOfGroup, pms.KindDynamicUse, KindPkgname}
	if got := entryKinds(trig); !slices.Equal(got, want) {
		t.Fatalf("child kinds = %v, want %v", got, want)
	}

	children := trig.Children()
	if got := children[2].Data.Text; got != "ssl?" {
		t.Errorf("use-conditional text = %q, want the flag query", got)
	}
	if got := children[3].Data.Text; got != "cat/a" {
		t.Errorf("atom leaf = %q, want bare name cat/a", got)
	}

	condKids := children[2].Children()
	if len(condKids) != 1 || condKids[0].Data.Text != "cat/b" {
		t.Errorf("conditional children = %v, want single cat/b leaf", condKids)
	}

	anyKids := children[1].Children()
	if len(anyKids) != 2 || anyKids[0].Data.Text != "cat/c" || anyKids[1].Data.Text != "cat/d" {
		t.Errorf("any-of children = %v, want cat/c and cat/d", anyKids)
	}
}

func TestBuildFullAtom(t *testing.T) {
	input := ">=cat/a-1.0[use]"
	trig := Build(pms.Parse(input), true)

	kids := trig.Children()
	if len(kids) != 1 {
		t.Fatalf("got %d leaves, want 1", len(kids))
	}
	if kids[0].Data.Text != input {
		t.Errorf("leaf text = %q, want the full atom %q", kids[0].Data.Text, input)
	}
}

func countNodes(n *tree.Node[Entry]) int {
	total := 1
	for _, c := range n.Children() {
		total += countNodes(c)
	}
	return total
}

func TestPrune(t *testing.T) {
	t.Run("keeps only matching paths", func(t *testing.T) {
		trig := Build(pms.Parse("cat/pkgA-1.0 other/pkg"), false)
		before := countNodes(trig)

		if !Prune(trig, "cat/pkgA") {
			t.Fatal("Prune should report survival")
		}
		if after := countNodes(trig); after > before {
			t.Errorf("node count grew from %d to %d", before, after)
		}

		kids := trig.Children()
		if len(kids) != 1 || kids[0].Data.Text != "cat/pkgA" {
			t.Errorf("surviving leaves = %v, want just cat/pkgA", kids)
		}
	})

	t.Run("conditional survives through its leaf", func(t *testing.T) {
		trig := Build(pms.Parse("ssl? ( cat/a ) cat/b"), false)

		if !Prune(trig, "cat/a") {
			t.Fatal("Prune should report survival")
		}
		kids := trig.Children()
		if len(kids) != 1 || kids[0].Data.Kind != pms.KindDynamicUse {
			t.Fatalf("surviving children = %v, want the ssl? conditional", kids)
		}
		leaves := kids[0].Children()
		if len(leaves) != 1 || leaves[0].Data.Text != "cat/a" {
			t.Errorf("conditional leaves = %v, want cat/a", leaves)
		}
	})

	t.Run("no occurrence empties the tree", func(t *testing.T) {
		trig := Build(pms.Parse("cat/a cat/b"), false)

		if Prune(trig, "cat/zzz") {
			t.Error("Prune should report the tree does not survive")
		}
		if len(trig.Children()) != 0 {
			t.Errorf("children = %v, want none", trig.Children())
		}
	})

	t.Run("versioned leaf matches by bare name", func(t *testing.T) {
		trig := Build(pms.Parse(">=cat/a-1.0 cat/b"), true)
		if !Prune(trig, "cat/a") {
			t.Fatal("full-atom leaf should still match its bare name")
		}
		kids := trig.Children()
		if len(kids) != 1 || kids[0].Data.Text != ">=cat/a-1.0 " {
			t.Errorf("surviving leaves = %v, want the full >=cat/a-1.0 atom", kids)
		}
	})
}

func TestLines(t *testing.T) {
	trig := Build(pms.Parse("ssl? ( ( cat/a ) )"), false)

	got := Lines(trig)
	// Root and all-of labels are skipped but still indent their children.
	want := []Line{
		{Depth: 1, Text: "ssl?"},
		{Depth: 3, Text: "cat/a"},
	}
	if !slices.Equal(got, want) {
		t.Errorf("Lines() = %v, want %v", got, want)
	}
}

// fakeSource serves canned dependency variables and records what was asked.
type fakeSource struct {
	vars  map[string][]string
	errs  map[string]error
	names [][]string
}

func (f *fakeSource) Depvars(ctx context.Context, pkg string, names []string) ([]string, error) {
	f.names = append(f.names, names)
	if err := f.errs[pkg]; err != nil {
		return nil, err
	}
	return f.vars[pkg], nil
}

func chainMap() rdeps.Map {
	return rdeps.BuildMap([]string{
		"cat/pkgA-1.0 pulled in by:",
		"  cat2/pkgB-2.0",
		"cat2/pkgB-2.0 pulled in by:",
		"  cat3/pkgC-3.0",
		"  @world",
	})
}

func TestExamine(t *testing.T) {
	src := &fakeSource{vars: map[string][]string{
		"cat2/pkgB-2.0": {"", "cat/pkgA-1.0 other/pkg"},
		"cat3/pkgC-3.0": {"cat2/pkgB", ""},
	}}
	a := &Analyzer{
		Map:     chainMap(),
		Source:  src,
		Depvars: []string{"DEPEND", "RDEPEND"},
	}

	hops, err := a.ExamineAll(context.Background(), "cat/pkgA-1.0")
	if err != nil {
		t.Fatal(err)
	}
	if len(hops) != 4 {
		t.Fatalf("got %d hops, want 4: %v", len(hops), hops)
	}

	// The first hop is the start itself, reduced to its bare name.
	if hops[0].Depth != 0 || hops[0].Name != "cat/pkgA" || hops[0].Vars != nil {
		t.Errorf("hop 0 = %+v, want bare cat/pkgA", hops[0])
	}

	// pkgB's RDEPEND pulls in pkgA; the other atom is pruned away.
	h := hops[1]
	if h.Name != "cat2/pkgB-2.0" || len(h.Vars) != 1 || h.Vars[0].Name != "RDEPEND" {
		t.Fatalf("hop 1 = %+v, want a single RDEPEND trigger", h)
	}
	lines := Lines(h.Vars[0].Tree)
	if len(lines) != 1 || lines[0].Text != "cat/pkgA" {
		t.Errorf("hop 1 trigger lines = %v, want just cat/pkgA", lines)
	}

	// pkgC's DEPEND names pkgB, the hop one level closer to the start.
	h = hops[2]
	if h.Name != "cat3/pkgC-3.0" || len(h.Vars) != 1 || h.Vars[0].Name != "DEPEND" {
		t.Fatalf("hop 2 = %+v, want a single DEPEND trigger", h)
	}

	// Sets are emitted bare, without metadata queries.
	h = hops[3]
	if h.Name != "@world" || h.Vars != nil || h.Err != nil {
		t.Errorf("hop 3 = %+v, want bare @world", h)
	}

	for _, names := range src.names {
		if !slices.Equal(names, []string{"DEPEND", "RDEPEND"}) {
			t.Errorf("source asked for %v, want the configured variables", names)
		}
	}
}

// A fetch failure is recorded on its hop and must not stop the walk.
func TestExamineFetchError(t *testing.T) {
	boom := errors.New("portageq exploded")
	src := &fakeSource{
		vars: map[string][]string{
			"cat3/pkgC-3.0": {"cat2/pkgB"},
		},
		errs: map[string]error{"cat2/pkgB-2.0": boom},
	}
	a := &Analyzer{
		Map:     chainMap(),
		Source:  src,
		Depvars: []string{"RDEPEND"},
	}

	hops, err := a.ExamineAll(context.Background(), "cat/pkgA-1.0")
	if err != nil {
		t.Fatal(err)
	}
	if len(hops) != 4 {
		t.Fatalf("got %d hops, want 4: %v", len(hops), hops)
	}

	if !errors.Is(hops[1].Err, boom) || hops[1].Vars != nil {
		t.Errorf("hop 1 = %+v, want the fetch error and no triggers", hops[1])
	}

	// The failed hop never became an ancestor, so pkgC has nothing to
	// trigger against, but it is still visited.
	if hops[2].Name != "cat3/pkgC-3.0" || hops[2].Err != nil {
		t.Errorf("hop 2 = %+v, want a clean pkgC hop", hops[2])
	}
	if hops[2].Vars != nil {
		t.Errorf("hop 2 triggers = %v, want none without a resolved ancestor", hops[2].Vars)
	}
}

// A malformed dependency blob parses to nothing and must not abort the
// remaining hops.
func TestExamineMalformedDepvar(t *testing.T) {
	src := &fakeSource{vars: map[string][]string{
		"cat2/pkgB-2.0": {")][ (("},
		"cat3/pkgC-3.0": {"cat2/pkgB"},
	}}
	a := &Analyzer{
		Map:     chainMap(),
		Source:  src,
		Depvars: []string{"RDEPEND"},
	}

	hops, err := a.ExamineAll(context.Background(), "cat/pkgA-1.0")
	if err != nil {
		t.Fatal(err)
	}
	if len(hops) != 4 {
		t.Fatalf("got %d hops, want 4: %v", len(hops), hops)
	}
	if hops[1].Vars != nil || hops[1].Err != nil {
		t.Errorf("hop 1 = %+v, want no triggers and no error", hops[1])
	}
	// The malformed hop still resolved as an ancestor, so pkgC's clean
	// variable triggers against it.
	if len(hops[2].Vars) != 1 {
		t.Errorf("hop 2 triggers = %v, want the pkgB trigger", hops[2].Vars)
	}
}

func TestExamineEmitStops(t *testing.T) {
	src := &fakeSource{}
	a := &Analyzer{
		Map:     chainMap(),
		Source:  src,
		Depvars: []string{"RDEPEND"},
	}

	stop := errors.New("stop")
	count := 0
	err := a.Examine(context.Background(), "cat/pkgA-1.0", func(Hop) error {
		count++
		if count == 2 {
			return stop
		}
		return nil
	})
	if !errors.Is(err, stop) {
		t.Errorf("err = %v, want the emit error", err)
	}
	if count != 2 {
		t.Errorf("emit called %d times, want 2", count)
	}
}

func TestExamineCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	a := &Analyzer{
		Map:     chainMap(),
		Source:  &fakeSource{},
		Depvars: []string{"RDEPEND"},
	}

	_, err := a.ExamineAll(ctx, "cat/pkgA-1.0")
	if !errors.Is(err, context.Canceled) {
		t.Errorf("err = %v, want context.Canceled", err)
	}
}

func TestDepvarNamesDefault(t *testing.T) {
	src := &fakeSource{}
	a := &Analyzer{Map: chainMap(), Source: src}

	if _, err := a.ExamineAll(context.Background(), "cat/pkgA-1.0"); err != nil {
		t.Fatal(err)
	}
	if len(src.names) == 0 {
		t.Fatal("source was never queried")
	}
	if !slices.Equal(src.names[0], DepvarNames) {
		t.Errorf("queried %v, want DepvarNames", src.names[0])
	}
}
