// Package pms implements the dependency-specification grammar from Gentoo's
// Package Manager Specification as composed rules over the parse engine.
//
// Each rule is a [parse.Rule] built with [parse.Tag], so a successful match
// leaves a token whose Kind is the rule's name; the token list reassembles
// into a syntax tree via span containment. The grammar is deliberately
// permissive where PMS is strict: it recognizes the shape of a dependency
// string without validating it (a malformed gate or stray suffix rolls back
// instead of erroring), which is what an analyzer of already-installed
// packages wants.
//
// Entry point for whole dependency variables is [Root] or the [Parse]
// convenience wrapper. Individual rules are reachable through [Rules] for
// tooling and tests.
package pms

import (
	"github.com/12357-314/gentoo-rdep-analyzer/pkg/parse"
	"github.com/12357-314/gentoo-rdep-analyzer/pkg/tree"
)

// Token kinds emitted by the grammar. Downstream consumers traverse syntax
// trees by these names, so they are part of the package's contract.
const (
	KindAlphaLower = "AlphaLower"
	KindAlphaUpper = "AlphaUpper"
	KindDigit      = "Digit"
	KindWhitespace = "Whitespace"
	KindAlpha      = "Alpha"
	KindAlphaDig   = "AlphaDig"

	KindUseName  = "UseName"
	KindUseNot   = "!Use"
	KindUseQmark = "Use?"
	KindUseQuery = "UseQuery"

	KindGt          = "gt"
	KindLt          = "lt"
	KindEq          = "eq"
	KindAx          = "ax"
	KindGtEq        = "gteq"
	KindLtEq        = "lteq"
	KindVersionGate = "VersionGate"

	KindBang        = "Bang"
	KindSoftBlock   = "SoftBlock"
	KindStrongBlock = "StrongBlock"
	KindBlock       = "Block"

	KindVersionSep           = "VersionSep"
	KindVersionMajor         = "VersionMajor"
	KindVersionDelimiter     = "VersionDelimiter"
	KindVersionWildcard      = "VersionWildcard"
	KindVersionMinor         = "VersionMinor"
	KindVersionNumber        = "VersionNumber"
	KindVersionLetter        = "VersionLetter"
	KindVersionReleaseSep    = "VersionReleaseSep"
	KindVersionReleasePrefix = "VersionReleasePrefix"
	KindVersionReleaseSuffix = "VersionReleaseSuffix"
	KindVerEnd               = "VerEnd"
	KindVersionRelease       = "VersionRelease"
	KindVersionRevision      = "VersionRevision"
	KindVersion              = "Version"

	KindPkgChar      = "PkgChar"
	KindPackageName  = "PackageName"
	KindCatPkgDelim  = "CatPkgDelim"
	KindCatChar      = "CatChar"
	KindCategoryName = "CategoryName"
	KindCatPkg       = "CatPkg"

	KindSlotSep    = "SlotSep"
	KindSlotChar   = "SlotChar"
	KindSlotOp     = "SlotOp"
	KindSlotBase   = "SlotBase"
	KindSubslotSep = "SubslotSep"
	KindSubslot    = "Subslot"
	KindSlot       = "Slot"

	KindUseDefaultOpen     = "UseDefaultOpen"
	KindUseDefaultClose    = "UseDefaultClose"
	KindUseDefault         = "UseDefault"
	KindUseDependencySep   = "UseDependencySep"
	KindUseDependencyNot   = "UseDependencyNot"
	KindUseDependencyNotIf = "UseDependencyNotIf"
	KindUseDependency      = "UseDependency"
	KindUseDependencyOpen  = "UseDependencyOpen"
	KindUseDependencyClose = "UseDependencyClose"
	KindUseDependencies    = "UseDependencies"

	KindAtom = "Atom"

	KindGroupOpen               = "GroupOpen"
	KindGroupClose              = "GroupClose"
	KindAllOfGroup              = "AllOfGroup"
	KindAnyOfGroupSymbol        = "AnyOfGroupSymbol"
	KindAnyOfGroup              = "AnyOfGroup"
	KindExactlyOneOfGroupSymbol = "ExactlyOneOfGroupSymbol"
	KindExactlyOneOfGroup       = "ExactlyOneOfGroup"
	KindMostOneOfGroupSymbol    = "MostOneOfGroupSymbol"
	KindMostOneOfGroup          = "MostOneOfGroup"
	KindDynamicUseOpen          = "DynamicUseOpen"
	KindDynamicUseClose         = "DynamicUseClose"
	KindDynamicUse              = "DynamicUse"

	KindRoot = "Root"
)

// Character classes.
var (
	alphaLower = parse.Tag(KindAlphaLower, func(p *parse.Parser) {
		p.Read(parse.Chars("abcdefghijklmnopqrstuvwxyz"))
	})

	alphaUpper = parse.Tag(KindAlphaUpper, func(p *parse.Parser) {
		p.Read(parse.Chars("ABCDEFGHIJKLMNOPQRSTUVWXYZ"))
	})

	digit = parse.Tag(KindDigit, func(p *parse.Parser) {
		p.Read(parse.Chars("1234567890"))
	})

	whitespace = parse.Tag(KindWhitespace, func(p *parse.Parser) {
		p.Read(parse.Chars("\n\t "))
	})

	alpha = parse.Tag(KindAlpha, func(p *parse.Parser) {
		p.Read(parse.Call(alphaLower), parse.Call(alphaUpper))
	})

	alphaDig = parse.Tag(KindAlphaDig, func(p *parse.Parser) {
		p.Read(parse.Call(alpha), parse.Call(digit))
	})
)

// USE flag names and queries.
var (
	// PMS 3.1.4: a USE flag name may contain [A-Za-z0-9+_@-] and must begin
	// with an alphanumeric character.
	useName = parse.Tag(KindUseName, func(p *parse.Parser) {
		if !p.Require(parse.Call(alphaDig)) {
			return
		}
		p.ReadAll(parse.Call(alphaDig), parse.Chars("+_@-"))
	})

	useNot = parse.Tag(KindUseNot, func(p *parse.Parser) {
		p.Read(parse.Chars("!"))
	})

	useQmark = parse.Tag(KindUseQmark, func(p *parse.Parser) {
		p.Read(parse.Chars("?"))
	})

	// useQuery is the `!`? flag-name `?` head of a use-conditional group.
	useQuery = parse.Tag(KindUseQuery, func(p *parse.Parser) {
		useNot(p)
		if !p.Require(parse.Call(useName)) {
			return
		}
		if !p.Require(parse.Call(useQmark)) {
			return
		}
	})
)

// Version gate operators, PMS 8.3.1. The two-character forms are tried first
// so that ">=" does not stop at ">".
var (
	gt = parse.Tag(KindGt, func(p *parse.Parser) { p.Read(parse.Chars(">")) })
	lt = parse.Tag(KindLt, func(p *parse.Parser) { p.Read(parse.Chars("<")) })
	eq = parse.Tag(KindEq, func(p *parse.Parser) { p.Read(parse.Chars("=")) })
	ax = parse.Tag(KindAx, func(p *parse.Parser) { p.Read(parse.Chars("~")) })

	gtEq = parse.Tag(KindGtEq, func(p *parse.Parser) {
		if !p.Require(parse.Call(gt), parse.Call(eq)) {
			return
		}
	})

	ltEq = parse.Tag(KindLtEq, func(p *parse.Parser) {
		if !p.Require(parse.Call(lt), parse.Call(eq)) {
			return
		}
	})

	verGate = parse.Tag(KindVersionGate, func(p *parse.Parser) {
		p.Read(
			parse.Call(gtEq), parse.Call(ltEq),
			parse.Call(gt), parse.Call(lt),
			parse.Call(eq), parse.Call(ax),
		)
	})
)

// Block operators, PMS 8.3.2: `!` is a weak block, `!!` a strong one.
var (
	bang = parse.Tag(KindBang, func(p *parse.Parser) { p.Read(parse.Chars("!")) })

	softBlock = parse.Tag(KindSoftBlock, func(p *parse.Parser) {
		p.Read(parse.Call(bang))
	})

	strongBlock = parse.Tag(KindStrongBlock, func(p *parse.Parser) {
		if !p.Require(parse.Call(bang), parse.Call(bang)) {
			return
		}
	})

	block = parse.Tag(KindBlock, func(p *parse.Parser) {
		p.Read(parse.Call(strongBlock), parse.Call(softBlock))
	})
)

// Version specifications, PMS 3.2. Inside an atom the version is introduced
// by a hyphen; the number part is digits with zero or more dot-prefixed
// digit groups, optionally a wildcard asterisk, a single letter, `_suffix`
// release parts and a `-r<digits>` revision.
var (
	verSep = parse.Tag(KindVersionSep, func(p *parse.Parser) {
		p.Read(parse.Chars("-"))
	})

	verMajor = parse.Tag(KindVersionMajor, func(p *parse.Parser) {
		p.ReadAll(parse.Call(digit))
	})

	verDelim = parse.Tag(KindVersionDelimiter, func(p *parse.Parser) {
		p.Read(parse.Chars("."))
	})

	verWildcard = parse.Tag(KindVersionWildcard, func(p *parse.Parser) {
		p.Read(parse.Chars("*"))
	})

	verMinor = parse.Tag(KindVersionMinor, func(p *parse.Parser) {
		if !p.Require(parse.Call(verDelim)) {
			return
		}
		p.ReadAll(parse.Call(digit))
	})

	verNumber = parse.Tag(KindVersionNumber, func(p *parse.Parser) {
		if !p.Require(parse.Call(verMajor)) {
			return
		}
		p.ReadAll(parse.Call(verMinor))
		verWildcard(p)
	})

	verLetter = parse.Tag(KindVersionLetter, func(p *parse.Parser) {
		alpha(p)
	})

	verReleaseSep = parse.Tag(KindVersionReleaseSep, func(p *parse.Parser) {
		p.Read(parse.Chars("_"))
	})

	verReleasePrefix = parse.Tag(KindVersionReleasePrefix, func(p *parse.Parser) {
		p.ReadAll(parse.Call(alpha))
	})

	verReleaseSuffix = parse.Tag(KindVersionReleaseSuffix, func(p *parse.Parser) {
		p.ReadAll(parse.Call(digit))
	})

	// verEnd recognizes what may legally follow a version. It is kept for
	// tooling but never required by version itself, so version parsing stays
	// permissive about what comes next.
	verEnd = parse.Tag(KindVerEnd, func(p *parse.Parser) {
		p.Read(parse.Chars(")"), parse.Call(whitespace), parse.End())
	})

	verRelease = parse.Tag(KindVersionRelease, func(p *parse.Parser) {
		if !p.Require(parse.Call(verReleaseSep), parse.Call(verReleasePrefix)) {
			return
		}
		verReleaseSuffix(p)
	})

	verRevision = parse.Tag(KindVersionRevision, func(p *parse.Parser) {
		if !p.Require(parse.Call(verSep), parse.Call(alpha)) {
			return
		}
		p.ReadAll(parse.Call(digit))
	})

	version = parse.Tag(KindVersion, func(p *parse.Parser) {
		if !p.Require(parse.Call(verSep), parse.Call(verNumber)) {
			return
		}
		verLetter(p)
		p.ReadAll(parse.Call(verRelease))
		verRevision(p)
	})
)

// Package, category and qualified package names, PMS 3.1.1 and 3.1.2.
var (
	// A well-formed version suffix halts name consumption, so that the name
	// of "pkg-1.0" is "pkg" while a bare trailing hyphen stays in the name.
	pkgChar = parse.Tag(KindPkgChar, func(p *parse.Parser) {
		p.ReadExcept(1,
			[]parse.Option{parse.Call(version)},
			parse.Chars("+_-"), parse.Call(alphaDig),
		)
	})

	pkgCharFirst = parse.Tag(KindPkgChar, func(p *parse.Parser) {
		p.Read(parse.Chars("_"), parse.Call(alphaDig))
	})

	pkgName = parse.Tag(KindPackageName, func(p *parse.Parser) {
		if !p.Require(parse.Call(pkgCharFirst)) {
			return
		}
		p.ReadAll(parse.Call(pkgChar))
	})

	catPkgDelim = parse.Tag(KindCatPkgDelim, func(p *parse.Parser) {
		p.Read(parse.Chars("/"))
	})

	catCharFirst = parse.Tag(KindCatChar, func(p *parse.Parser) {
		p.Read(parse.Chars("_"), parse.Call(alphaDig))
	})

	catChar = parse.Tag(KindCatChar, func(p *parse.Parser) {
		p.Read(parse.Chars("+_.-"), parse.Call(alphaDig))
	})

	catName = parse.Tag(KindCategoryName, func(p *parse.Parser) {
		if !p.Require(parse.Call(catCharFirst)) {
			return
		}
		p.ReadAll(parse.Call(catChar))
	})

	// The category prefix is not strictly enforced: a failed category/delim
	// pair rolls back and the bare package name is still consumed.
	catPkg = parse.Tag(KindCatPkg, func(p *parse.Parser) {
		p.Require(parse.Call(catName), parse.Call(catPkgDelim))
		pkgName(p)
	})
)

// Slot dependencies, PMS 8.3.3 and 3.1.3.
var (
	slotSep = parse.Tag(KindSlotSep, func(p *parse.Parser) {
		p.Read(parse.Chars(":"))
	})

	slotCharFirst = parse.Tag(KindSlotChar, func(p *parse.Parser) {
		p.Read(parse.Chars("_"), parse.Call(alphaDig))
	})

	slotChar = parse.Tag(KindSlotChar, func(p *parse.Parser) {
		p.Read(parse.Chars("+_.-"), parse.Call(alphaDig))
	})

	slotOp = parse.Tag(KindSlotOp, func(p *parse.Parser) {
		p.Read(parse.Chars("*="))
	})

	slotBase = parse.Tag(KindSlotBase, func(p *parse.Parser) {
		if !p.Require(parse.Call(slotCharFirst)) {
			return
		}
		p.ReadAll(parse.Call(slotChar))
	})

	subslotSep = parse.Tag(KindSubslotSep, func(p *parse.Parser) {
		p.Read(parse.Chars("/"))
	})

	subslot = parse.Tag(KindSubslot, func(p *parse.Parser) {
		if !p.Require(parse.Call(subslotSep)) {
			return
		}
		slotBase(p)
	})

	slot = parse.Tag(KindSlot, func(p *parse.Parser) {
		if !p.Require(parse.Call(slotSep)) {
			return
		}
		slotBase(p)
		subslot(p)
		slotOp(p)
	})
)

// 2-style and 4-style USE dependencies, PMS 8.3.4.
var (
	useDefaultOpen = parse.Tag(KindUseDefaultOpen, func(p *parse.Parser) {
		p.Read(parse.Chars("("))
	})

	useDefaultClose = parse.Tag(KindUseDefaultClose, func(p *parse.Parser) {
		p.Read(parse.Chars(")"))
	})

	useDefault = parse.Tag(KindUseDefault, func(p *parse.Parser) {
		if !p.Require(parse.Call(useDefaultOpen)) {
			return
		}
		p.Read(parse.Chars("+-"))
		if !p.Require(parse.Call(useDefaultClose)) {
			return
		}
	})

	useDepSep = parse.Tag(KindUseDependencySep, func(p *parse.Parser) {
		p.Read(parse.Chars(","))
	})

	useDepNot = parse.Tag(KindUseDependencyNot, func(p *parse.Parser) {
		p.Read(parse.Chars("-"))
	})

	useDepNotIf = parse.Tag(KindUseDependencyNotIf, func(p *parse.Parser) {
		p.Read(parse.Chars("!"))
	})

	// The trailing `=` of an [opt=] dependency shares the negation kind.
	// Long-standing quirk of the analyzer; consumers only look at the
	// enclosing UseDependency anyway.
	useDepEq = parse.Tag(KindUseDependencyNot, func(p *parse.Parser) {
		eq(p)
	})

	useDep = parse.Tag(KindUseDependency, func(p *parse.Parser) {
		useDepSep(p)
		p.Read(parse.Call(useDepNot), parse.Call(useDepNotIf))
		if !p.Require(parse.Call(useName)) {
			return
		}
		useDefault(p)
		p.Read(parse.Call(useDepEq), parse.Call(useQmark))
	})

	useDepsOpen = parse.Tag(KindUseDependencyOpen, func(p *parse.Parser) {
		p.Read(parse.Chars("["))
	})

	useDepsClose = parse.Tag(KindUseDependencyClose, func(p *parse.Parser) {
		p.Read(parse.Chars("]"))
	})

	useDeps = parse.Tag(KindUseDependencies, func(p *parse.Parser) {
		if !p.Require(parse.Call(useDepsOpen)) {
			return
		}
		p.ReadAll(parse.Call(useDep))
		if !p.Require(parse.Call(useDepsClose)) {
			return
		}
	})
)

// atom is a full package dependency specification: optional block and
// version gate, a qualified package name, then optional version, slot and
// USE dependency parts. Trailing whitespace is consumed so that sibling
// atoms in a list pack cleanly.
var atom = parse.Tag(KindAtom, func(p *parse.Parser) {
	block(p)
	verGate(p)
	if !p.Require(parse.Call(catPkg)) {
		return
	}
	version(p)
	slot(p)
	useDeps(p)
	p.ReadAll(parse.Call(whitespace))
})

var (
	groupOpen = parse.Tag(KindGroupOpen, func(p *parse.Parser) {
		p.Read(parse.Chars("("))
	})

	groupClose = parse.Tag(KindGroupClose, func(p *parse.Parser) {
		p.Read(parse.Chars(")"))
	})

	anyOfGroupSymbol = parse.Tag(KindAnyOfGroupSymbol, func(p *parse.Parser) {
		p.Require(parse.Chars("|"), parse.Chars("|"))
	})

	exactlyOneOfGroupSymbol = parse.Tag(KindExactlyOneOfGroupSymbol, func(p *parse.Parser) {
		p.Require(parse.Chars("^"), parse.Chars("^"))
	})

	mostOneOfGroupSymbol = parse.Tag(KindMostOneOfGroupSymbol, func(p *parse.Parser) {
		p.Require(parse.Chars("?"), parse.Chars("?"))
	})

	dynamicUseOpen = parse.Tag(KindDynamicUseOpen, func(p *parse.Parser) {
		p.Read(parse.Chars("("))
	})

	dynamicUseClose = parse.Tag(KindDynamicUseClose, func(p *parse.Parser) {
		p.Read(parse.Chars(")"))
	})
)

// Dependency groups, PMS 8.2. The group rules and metaGroupItem are
// mutually recursive, so they are wired up in init instead of at
// declaration. PMS requires whitespace between the pieces; the rules here
// merely allow it, which accepts a superset of well-formed input.
var (
	allOfGroup        parse.Rule
	anyOfGroup        parse.Rule
	exactlyOneOfGroup parse.Rule
	mostOneOfGroup    parse.Rule
	dynamicUse        parse.Rule
)

func init() {
	allOfGroup = parse.Tag(KindAllOfGroup, func(p *parse.Parser) {
		p.ReadAll(parse.Call(whitespace))
		if !p.Require(parse.Call(groupOpen)) {
			return
		}
		p.ReadAll(parse.Call(whitespace))
		p.ReadAll(parse.Call(metaGroupItem))
		p.ReadAll(parse.Call(whitespace))
		if !p.Require(parse.Call(groupClose)) {
			return
		}
		p.ReadAll(parse.Call(whitespace))
	})

	anyOfGroup = parse.Tag(KindAnyOfGroup, func(p *parse.Parser) {
		if !p.Require(parse.Call(anyOfGroupSymbol)) {
			return
		}
		groupBody(p)
	})

	exactlyOneOfGroup = parse.Tag(KindExactlyOneOfGroup, func(p *parse.Parser) {
		if !p.Require(parse.Call(exactlyOneOfGroupSymbol)) {
			return
		}
		groupBody(p)
	})

	mostOneOfGroup = parse.Tag(KindMostOneOfGroup, func(p *parse.Parser) {
		if !p.Require(parse.Call(mostOneOfGroupSymbol)) {
			return
		}
		groupBody(p)
	})

	dynamicUse = parse.Tag(KindDynamicUse, func(p *parse.Parser) {
		if !p.Require(parse.Call(useQuery)) {
			return
		}
		p.ReadAll(parse.Call(whitespace))
		if !p.Require(parse.Call(dynamicUseOpen)) {
			return
		}
		p.ReadAll(parse.Call(whitespace))
		p.ReadAll(parse.Call(metaGroupItem))
		p.ReadAll(parse.Call(whitespace))
		if !p.Require(parse.Call(dynamicUseClose)) {
			return
		}
		p.ReadAll(parse.Call(whitespace))
	})

	Rules = map[string]parse.Rule{
		KindAlphaLower:              alphaLower,
		KindAlphaUpper:              alphaUpper,
		KindDigit:                   digit,
		KindWhitespace:              whitespace,
		KindAlpha:                   alpha,
		KindAlphaDig:                alphaDig,
		KindUseName:                 useName,
		KindUseNot:                  useNot,
		KindUseQmark:                useQmark,
		KindUseQuery:                useQuery,
		KindGt:                      gt,
		KindLt:                      lt,
		KindEq:                      eq,
		KindAx:                      ax,
		KindGtEq:                    gtEq,
		KindLtEq:                    ltEq,
		KindVersionGate:             verGate,
		KindBang:                    bang,
		KindSoftBlock:               softBlock,
		KindStrongBlock:             strongBlock,
		KindBlock:                   block,
		KindVersionSep:              verSep,
		KindVersionMajor:            verMajor,
		KindVersionDelimiter:        verDelim,
		KindVersionWildcard:         verWildcard,
		KindVersionMinor:            verMinor,
		KindVersionNumber:           verNumber,
		KindVersionLetter:           verLetter,
		KindVersionReleaseSep:       verReleaseSep,
		KindVersionReleasePrefix:    verReleasePrefix,
		KindVersionReleaseSuffix:    verReleaseSuffix,
		KindVerEnd:                  verEnd,
		KindVersionRelease:          verRelease,
		KindVersionRevision:         verRevision,
		KindVersion:                 version,
		KindPkgChar:                 pkgChar,
		KindPackageName:             pkgName,
		KindCatPkgDelim:             catPkgDelim,
		KindCatChar:                 catChar,
		KindCategoryName:            catName,
		KindCatPkg:                  catPkg,
		KindSlotSep:                 slotSep,
		KindSlotChar:                slotChar,
		KindSlotOp:                  slotOp,
		KindSlotBase:                slotBase,
		KindSubslotSep:              subslotSep,
		KindSubslot:                 subslot,
		KindSlot:                    slot,
		KindUseDefaultOpen:          useDefaultOpen,
		KindUseDefaultClose:         useDefaultClose,
		KindUseDefault:              useDefault,
		KindUseDependencySep:        useDepSep,
		KindUseDependencyNot:        useDepNot,
		KindUseDependencyNotIf:      useDepNotIf,
		KindUseDependency:           useDep,
		KindUseDependencyOpen:       useDepsOpen,
		KindUseDependencyClose:      useDepsClose,
		KindUseDependencies:         useDeps,
		KindAtom:                    atom,
		KindGroupOpen:               groupOpen,
		KindGroupClose:              groupClose,
		KindAnyOfGroupSymbol:        anyOfGroupSymbol,
		KindExactlyOneOfGroupSymbol: exactlyOneOfGroupSymbol,
		KindMostOneOfGroupSymbol:    mostOneOfGroupSymbol,
		KindAllOfGroup:              allOfGroup,
		KindAnyOfGroup:              anyOfGroup,
		KindExactlyOneOfGroup:       exactlyOneOfGroup,
		KindMostOneOfGroup:          mostOneOfGroup,
		KindDynamicUseOpen:          dynamicUseOpen,
		KindDynamicUseClose:         dynamicUseClose,
		KindDynamicUse:              dynamicUse,
		KindRoot:                    Root,
	}
}

// groupBody is the shared tail of the symbol-prefixed groups: `(`, items,
// `)`, with optional whitespace throughout.
func groupBody(p *parse.Parser) {
	p.ReadAll(parse.Call(whitespace))
	if !p.Require(parse.Call(groupOpen)) {
		return
	}
	p.ReadAll(parse.Call(whitespace))
	p.ReadAll(parse.Call(metaGroupItem))
	p.ReadAll(parse.Call(whitespace))
	if !p.Require(parse.Call(groupClose)) {
		return
	}
	p.ReadAll(parse.Call(whitespace))
}

// metaGroupItem matches any single dependency item inside a group. Untagged:
// the item's own rule provides the token.
func metaGroupItem(p *parse.Parser) {
	p.Read(
		parse.Call(dynamicUse),
		parse.Call(allOfGroup),
		parse.Call(anyOfGroup),
		parse.Call(exactlyOneOfGroup),
		parse.Call(mostOneOfGroup),
		parse.Call(atom),
	)
}

// Root matches a whole dependency variable: any number of groups,
// use-conditionals and atoms.
var Root parse.Rule = parse.Tag(KindRoot, func(p *parse.Parser) {
	p.ReadAll(
		parse.Call(allOfGroup),
		parse.Call(anyOfGroup),
		parse.Call(exactlyOneOfGroup),
		parse.Call(mostOneOfGroup),
		parse.Call(dynamicUse),
		parse.Call(atom),
	)
})

// Rules maps each token kind to the rule emitting it, for tooling and
// tests. Kinds shared by sibling rules (PkgChar, CatChar, SlotChar,
// UseDependencyNot) map to the general variant.
var Rules map[string]parse.Rule

// Parse runs the full grammar over input and returns the assembled syntax
// tree. The returned root carries the Root token for a non-empty parse, or
// a placeholder zero token when nothing matched.
func Parse(input string) *tree.Node[parse.Token] {
	p := parse.New(input)
	Root(p)
	return p.Tree()
}
