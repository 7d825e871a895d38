// Package parse implements a cursor-based backtracking parse engine.
//
// A [Parser] scans a single input string with primitives for character-set
// matching ([Parser.Look]), bounded and unbounded repetition ([Parser.Read],
// [Parser.ReadAll]), exception-halted consumption ([Parser.ReadExcept]) and
// required matching with rollback ([Parser.Require], [Parser.RequireN]).
// Grammar rules are plain functions composed with the [Tag] combinator, which
// records a [Token] for every rule invocation that net-advances the cursor.
//
// The engine has no error values in the grammar layer: a rule either advances
// the cursor (and optionally emits a token), or leaves the cursor exactly
// where it started. Callers detect failure by the returned boolean or by
// comparing cursor positions.
//
// After parsing, [Parser.Tree] reassembles the flat token list into a nested
// syntax tree by span containment. This assumes a laminar grammar: any two
// recorded tokens are either disjoint or one fully contains the other.
package parse

import (
	"fmt"
	"slices"
	"strings"

	"github.com/12357-314/gentoo-rdep-analyzer/pkg/tree"
)

// Token is an immutable record of a recognized lexical unit.
// Start and End are byte offsets into the parser input, half-open, and
// Text == input[Start:End]. Kind names the grammar rule that produced it.
type Token struct {
	Start int
	End   int
	Text  string
	Kind  string
}

// String formats the token as "Kind: text (start,end)".
func (t Token) String() string {
	return fmt.Sprintf("%s: %s (%d,%d)", t.Kind, t.Text, t.Start, t.End)
}

// Rule is a grammar production. It either advances the parser's cursor,
// optionally emitting tokens, or leaves the cursor untouched.
type Rule func(*Parser)

// optionKind discriminates the closed set of [Option] variants.
type optionKind int

const (
	optChars optionKind = iota
	optRule
	optEnd
)

// Option is one alternative for [Parser.Look]: a literal character set, a
// rule invocation, or the end-of-input sentinel. The closed variant set keeps
// dispatch static instead of probing dynamic types.
type Option struct {
	kind optionKind
	set  string
	rule Rule
}

// Chars returns an option matching any single byte contained in set.
func Chars(set string) Option { return Option{kind: optChars, set: set} }

// Call returns an option that invokes the given rule.
func Call(r Rule) Option { return Option{kind: optRule, rule: r} }

// End returns the end-of-input sentinel option. It matches only when the
// cursor is at or past the end of the input, and advances the cursor past
// the last valid index when it does.
func End() Option { return Option{kind: optEnd} }

// Unbounded disables the match-count limit of [Parser.ReadN] and
// [Parser.RequireN].
const Unbounded = -1

// Parser is the mutable scan state over one input string.
// The cursor only ever increases, except on an explicit rollback to a
// previously pushed checkpoint; the token list is append-only during a
// successful rule and pruned on rollback. A Parser is not safe for
// concurrent use; parsing is otherwise a pure function of its input.
type Parser struct {
	input       string
	pos         int
	tokens      []Token
	checkpoints []int
}

// New creates a parser positioned at the start of input.
func New(input string) *Parser {
	return &Parser{input: input}
}

// Input returns the input string being scanned.
func (p *Parser) Input() string { return p.input }

// Pos returns the current cursor position.
func (p *Parser) Pos() int { return p.pos }

// Tokens returns a copy of the tokens recorded so far.
func (p *Parser) Tokens() []Token { return slices.Clone(p.tokens) }

// resetTo moves the cursor back to idx and drops every token ending past it.
func (p *Parser) resetTo(idx int) {
	p.pos = idx
	p.tokens = slices.DeleteFunc(p.tokens, func(t Token) bool { return t.End > idx })
}

// Look tries the options left to right and reports whether one of them
// advanced the cursor. The first advancing option wins; on failure the
// cursor is unchanged.
//
// A literal option at end of input aborts the whole attempt without trying
// the remaining options. The end-of-input sentinel advances the cursor past
// the last valid index. Both quirks are load-bearing for the grammar layer
// and are kept as observed in the original analyzer.
func (p *Parser) Look(opts ...Option) bool {
	before := p.pos
	for _, o := range opts {
		switch o.kind {
		case optRule:
			o.rule(p)
		case optEnd:
			if p.pos >= len(p.input) {
				p.pos++
			}
		case optChars:
			if p.pos >= len(p.input) {
				return false
			}
			if strings.IndexByte(o.set, p.input[p.pos]) >= 0 {
				p.pos++
			}
		}
		if p.pos > before {
			return true
		}
	}
	return false
}

// Read attempts a single match of the options and reports whether the
// cursor advanced.
func (p *Parser) Read(opts ...Option) bool {
	return p.scan(1, nil, opts)
}

// ReadAll matches the options repeatedly until none applies and reports
// whether the cursor advanced at all.
func (p *Parser) ReadAll(opts ...Option) bool {
	return p.scan(Unbounded, nil, opts)
}

// ReadN matches the options repeatedly, at most max times ([Unbounded] for
// no limit), and reports whether the cursor advanced at all.
func (p *Parser) ReadN(max int, opts ...Option) bool {
	return p.scan(max, nil, opts)
}

// ReadExcept is [Parser.ReadN] with a stop list: before each match attempt
// the exceptions are probed, and if one matches, consumption halts with the
// cursor restored to before the probe. This separates two syntax classes
// that would otherwise be consumed at once (e.g. a package name swallowing
// its trailing version).
func (p *Parser) ReadExcept(max int, exceptions []Option, opts ...Option) bool {
	return p.scan(max, exceptions, opts)
}

func (p *Parser) scan(max int, exceptions, opts []Option) bool {
	start := p.pos
	for count := 0; max == Unbounded || count < max; count++ {
		if len(exceptions) > 0 {
			before := p.pos
			if p.Look(exceptions...) {
				p.pos = before
				break
			}
		}
		if !p.Look(opts...) {
			break
		}
	}
	return p.pos > start
}

// Require attempts every option once, in order, and succeeds only if all of
// them matched. On failure the cursor is rolled back to the nearest enclosing
// checkpoint (or the pre-call cursor if none) and tokens ending past that
// point are discarded.
func (p *Parser) Require(opts ...Option) bool {
	return p.require(Unbounded, Unbounded, true, opts)
}

// RequireN is [Parser.Require] with explicit bounds: among the options
// attempted in order, at least min and at most max must have matched
// ([Unbounded] disables either bound).
func (p *Parser) RequireN(min, max int, opts ...Option) bool {
	return p.require(min, max, false, opts)
}

func (p *Parser) require(min, max int, all bool, opts []Option) bool {
	reset := p.pos
	if len(p.checkpoints) > 0 {
		reset = p.checkpoints[len(p.checkpoints)-1]
	}

	count := 0
	for _, o := range opts {
		if p.Look(o) {
			count++
		}
	}

	met := true
	switch {
	case all:
		met = count == len(opts)
	case min != Unbounded && count < min:
		met = false
	case max != Unbounded && count > max:
		met = false
	}
	if !met {
		p.resetTo(reset)
	}
	return met
}

// Tag wraps a rule so that a net cursor advance records a token spanning the
// consumed input with the given kind. The wrapper pushes the pre-call cursor
// onto the checkpoint stack for the duration of the rule, so a required-mode
// failure inside the rule (or any of its sub-rules without their own deeper
// checkpoint) unwinds the whole partially matched construct.
//
// An empty kind suppresses token emission but still participates in
// checkpointing.
//
// The end-of-input sentinel can leave the cursor one past the input; the
// token keeps that raw cursor as End while its text is truncated to the
// input.
func Tag(kind string, rule Rule) Rule {
	return func(p *Parser) {
		start := p.pos
		p.checkpoints = append(p.checkpoints, start)
		rule(p)
		p.checkpoints = p.checkpoints[:len(p.checkpoints)-1]
		if p.pos > start && kind != "" {
			p.tokens = append(p.tokens, Token{
				Start: start,
				End:   p.pos,
				Text:  p.input[start:min(p.pos, len(p.input))],
				Kind:  kind,
			})
		}
	}
}

// Tree assembles the recorded tokens into a nested syntax tree using span
// containment: tokens are ordered by ascending start and descending end (so a
// container precedes its contents at equal start), then attached below the
// deepest ancestor still containing them. Tokens recorded later sort before
// earlier ones at fully equal spans, which makes an outer rule's token the
// parent of an identical-span inner one.
//
// Returns the first root; the grammar's recursive design yields a single root
// for a full parse of one input. If no tokens were recorded, a placeholder
// node holding the zero Token is returned.
func (p *Parser) Tree() *tree.Node[Token] {
	toks := slices.Clone(p.tokens)
	slices.Reverse(toks)
	slices.SortStableFunc(toks, func(a, b Token) int {
		if a.Start != b.Start {
			return a.Start - b.Start
		}
		return b.End - a.End
	})

	var roots []*tree.Node[Token]
	var ancestry []*tree.Node[Token]
	for _, tok := range toks {
		node := tree.New(tok)
		for len(ancestry) > 0 && !spans(ancestry[len(ancestry)-1].Data, tok) {
			ancestry = ancestry[:len(ancestry)-1]
		}
		if len(ancestry) > 0 {
			ancestry[len(ancestry)-1].AddChild(node)
		} else {
			roots = append(roots, node)
		}
		ancestry = append(ancestry, node)
	}
	if len(roots) == 0 {
		return tree.New(Token{})
	}
	return roots[0]
}

// spans reports whether outer structurally contains inner.
func spans(outer, inner Token) bool {
	return inner.Start >= outer.Start && inner.End <= outer.End
}
