// Package tree provides a generic ordered n-ary tree.
//
// A [Node] owns its children and keeps an ordered child list; the parent
// back-reference is non-owning and maintained exclusively by [Node.AddChild].
// The package exists to back both the parser's syntax trees and the trigger
// explanation trees, so it carries no domain knowledge of its own.
//
// Traversal uses a mixed path of keys and indices, see [Node.Traverse].
package tree

import (
	"errors"
	"fmt"
	"slices"
	"strings"
)

var (
	// ErrAmbiguousPath is returned by [Node.Traverse] when a keyed path step
	// is applied while more than one node is active. Keyed steps require a
	// unique node to branch from; disambiguate with an index step first.
	ErrAmbiguousPath = errors.New("ambiguous path, multiple options")

	// ErrIndexOutOfRange is returned by [Node.Traverse] when an index path
	// step does not fit the current result set.
	ErrIndexOutOfRange = errors.New("path index out of range")
)

// Node is a tree node holding a data value and an ordered list of children.
// The zero value is usable as an empty node with zero-value data; use [New]
// to create a node with data.
//
// A node appears as the child of at most one parent: AddChild reassigns the
// child's parent reference, and nothing else ever sets it.
type Node[T any] struct {
	Data T

	parent   *Node[T]
	children []*Node[T]
}

// New creates a node holding data, with no parent and no children.
func New[T any](data T) *Node[T] {
	return &Node[T]{Data: data}
}

// Parent returns the node's parent, or nil for a root.
// The reference is non-owning; it is set only by [Node.AddChild].
func (n *Node[T]) Parent() *Node[T] { return n.parent }

// Children returns the node's children in insertion order.
// The returned slice is the node's own backing slice - treat it as read-only.
func (n *Node[T]) Children() []*Node[T] { return n.children }

// AddChild appends child to the node's child list and points the child's
// parent reference at n. A child previously attached elsewhere is simply
// re-pointed; callers are responsible for removing it from its old parent.
func (n *Node[T]) AddChild(child *Node[T]) {
	child.parent = n
	n.children = append(n.children, child)
}

// RemoveChildren deletes the children at the given positions.
// Positions outside the child list are ignored; the relative order of the
// surviving children is preserved.
func (n *Node[T]) RemoveChildren(indices ...int) {
	if len(indices) == 0 {
		return
	}
	kept := n.children[:0]
	for i, c := range n.children {
		if slices.Contains(indices, i) {
			continue
		}
		kept = append(kept, c)
	}
	// Clear the tail so dropped children don't linger in the backing array.
	for i := len(kept); i < len(n.children); i++ {
		n.children[i] = nil
	}
	n.children = kept
}

// Traverse navigates the tree using a path of values, descending one level
// per path element, and returns the set of nodes reached.
//
// For each element:
//   - an int selects that position from the current result set, failing with
//     [ErrIndexOutOfRange] when out of bounds;
//   - any other value requires the current result set to hold exactly one
//     node (otherwise [ErrAmbiguousPath]); that node's children are grouped
//     by keyFn(child.Data) and the group equal to the element becomes the new
//     result set. A missing group terminates the traversal with an empty,
//     non-nil error-free result.
//
// The result is never nil; it may be empty.
func (n *Node[T]) Traverse(path []any, keyFn func(T) any) ([]*Node[T], error) {
	nodes := []*Node[T]{n}
	for _, step := range path {
		if idx, ok := step.(int); ok {
			if idx < 0 || idx >= len(nodes) {
				return nil, fmt.Errorf("%w: %d of %d", ErrIndexOutOfRange, idx, len(nodes))
			}
			nodes = []*Node[T]{nodes[idx]}
			continue
		}
		if len(nodes) != 1 {
			return nil, ErrAmbiguousPath
		}
		var matched []*Node[T]
		for _, child := range nodes[0].children {
			if keyFn(child.Data) == step {
				matched = append(matched, child)
			}
		}
		if len(matched) == 0 {
			return []*Node[T]{}, nil
		}
		nodes = matched
	}
	return nodes, nil
}

// String renders the tree as indented lines of each node's data, two spaces
// per depth level. Intended for debugging and test output.
func (n *Node[T]) String() string {
	var b strings.Builder
	n.write(&b, 0)
	return strings.TrimSuffix(b.String(), "\n")
}

func (n *Node[T]) write(b *strings.Builder, depth int) {
	fmt.Fprintf(b, "%s%v\n", strings.Repeat("  ", depth), n.Data)
	for _, c := range n.children {
		c.write(b, depth+1)
	}
}
