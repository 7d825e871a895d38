// Package rdeps extracts the reverse-dependency structure from an emerge
// depclean report.
//
// The interesting part of `emerge --pretend --verbose --emptytree --depclean`
// output is the block listing, for every installed package, who pulls it in.
// [Section] isolates that block, [BuildMap] turns its indentation structure
// into a [Map] from package to ordered dependees, and [Map.Walk] iterates the
// transitive dependee chain depth first.
package rdeps

import "strings"

// GroupPrefix marks package-set identifiers such as @world or @system.
// Sets are roots of the dependency forest, not packages: they have no
// metadata to query and may legitimately appear on several chains, so the
// walk never deduplicates them.
const GroupPrefix = "@"

const (
	sectionStart = "pulled in by:"
	sectionEnd   = ">>>"
)

// Section filters raw report text down to the dependee listing: the lines
// from the first line ending in "pulled in by:" up to (excluding) the first
// subsequent line starting with ">>>". Blank lines are dropped. Returns nil
// when the report has no such section.
func Section(text string) []string {
	var lines []string
	started := false
	for _, line := range strings.Split(text, "\n") {
		if !started {
			started = strings.HasSuffix(line, sectionStart)
			if !started {
				continue
			}
		}
		if strings.HasPrefix(line, sectionEnd) {
			break
		}
		if strings.TrimSpace(line) == "" {
			continue
		}
		lines = append(lines, line)
	}
	return lines
}

// Map holds, for each package in the report, the ordered list of dependees
// that pull it in. Keys keep the order in which the report introduced them.
type Map struct {
	dependees map[string][]string
	order     []string
}

// BuildMap reconstructs the dependee forest from the section lines using
// their indentation: the first line and every line at or above the current
// parent's indentation start a new parent entry, a deeper line records its
// first word as one of the parent's dependees.
func BuildMap(lines []string) Map {
	m := Map{dependees: make(map[string][]string)}

	parentIndent := -1
	parent := ""
	for _, line := range lines {
		indent := len(line) - len(strings.TrimLeft(line, " \t"))
		name := firstWord(line)

		if parentIndent < 0 || indent <= parentIndent {
			parentIndent = indent
			parent = name
			continue
		}
		if _, ok := m.dependees[parent]; !ok {
			m.order = append(m.order, parent)
		}
		m.dependees[parent] = append(m.dependees[parent], name)
	}
	return m
}

func firstWord(line string) string {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return ""
	}
	return fields[0]
}

// Len returns the number of packages with recorded dependees.
func (m Map) Len() int { return len(m.dependees) }

// Packages returns the package names in report order.
func (m Map) Packages() []string { return m.order }

// Dependees returns the ordered dependees recorded for name, or nil.
func (m Map) Dependees(name string) []string { return m.dependees[name] }

// Level is one step of a dependee chain: the package or set name and its
// distance from the starting package.
type Level struct {
	Depth int
	Name  string
}

// Walker iterates a dependee chain depth first. Obtain one from [Map.Walk]
// and drain it with [Walker.Next].
type Walker struct {
	m     Map
	stack []frame
	seen  map[string]bool
}

type frame struct {
	name  string
	depth int
	check bool
}

// Walk starts a depth-first walk of the dependee chain rooted at name.
// Dependees are visited in report order; a concrete package already visited
// anywhere in the walk is skipped together with its subtree, while
// GroupPrefix set names repeat freely. The starting name itself is always
// emitted and never enters the seen set.
func (m Map) Walk(name string) *Walker {
	return &Walker{
		m:     m,
		stack: []frame{{name: name}},
		seen:  make(map[string]bool),
	}
}

// Next returns the next chain level in depth-first order. The second return
// is false once the walk is exhausted.
func (w *Walker) Next() (Level, bool) {
	for len(w.stack) > 0 {
		f := w.stack[len(w.stack)-1]
		w.stack = w.stack[:len(w.stack)-1]

		if f.check {
			if w.seen[f.name] {
				continue
			}
			if !strings.HasPrefix(f.name, GroupPrefix) {
				w.seen[f.name] = true
			}
		}

		deps := w.m.Dependees(f.name)
		for i := len(deps) - 1; i >= 0; i-- {
			w.stack = append(w.stack, frame{name: deps[i], depth: f.depth + 1, check: true})
		}
		return Level{Depth: f.depth, Name: f.name}, true
	}
	return Level{}, false
}

// Levels drains a fresh walk from name into a slice.
func (m Map) Levels(name string) []Level {
	var out []Level
	w := m.Walk(name)
	for lvl, ok := w.Next(); ok; lvl, ok = w.Next() {
		out = append(out, lvl)
	}
	return out
}
