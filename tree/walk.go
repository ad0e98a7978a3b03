package tree

/*
License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2022 Norbert Pillmayer <norbert@pillmayer.com>

*/

import (
	"errors"

	"github.com/npillmayer/schuko/tracing"
)

// tracer traces with key 'styledom.tree'.
func tracer() tracing.Trace {
	return tracing.Select("styledom.tree")
}

// ErrEmptyTree is returned if a walk is started on a nil node.
var ErrEmptyTree = errors.New("cannot walk empty tree")

// SkipChildren may be returned by an Action to prevent a walk from
// descending into the children of the current node.
var SkipChildren = errors.New("skip children")

// Predicate is a function type to match against nodes of a tree.
type Predicate[T comparable] func(n *Node[T]) bool

// Action is a function type to operate on tree nodes. Returning a non-nil
// error other than SkipChildren stops the walk.
type Action[T comparable] func(n *Node[T], depth int) error

// Whatever is a predicate to match anything.
func Whatever[T comparable]() Predicate[T] {
	return func(*Node[T]) bool { return true }
}

// NodeIsLeaf is a predicate to match leafs of a tree.
func NodeIsLeaf[T comparable]() Predicate[T] {
	return func(n *Node[T]) bool { return n.ChildCount() == 0 }
}

// TopDown traverses the (sub-)tree starting at node in document order
// (pre-order), calling action for every node. Walking is synchronous;
// the tree must not be restructured by action, except for the children
// of the current node, which are read after action returns.
func TopDown[T comparable](node *Node[T], action Action[T]) error {
	if node == nil {
		return ErrEmptyTree
	}
	err := topDown(node, 0, action)
	if errors.Is(err, errStop) {
		return nil
	}
	return err
}

var errStop = errors.New("stop walking")

func topDown[T comparable](node *Node[T], depth int, action Action[T]) error {
	if err := action(node, depth); err != nil {
		if errors.Is(err, SkipChildren) {
			return nil
		}
		return err
	}
	for _, ch := range node.Children() {
		if err := topDown(ch, depth+1, action); err != nil {
			return err
		}
	}
	return nil
}

// DescendantsWith collects all proper descendants of node which match
// predicate, in document order.
func DescendantsWith[T comparable](node *Node[T], predicate Predicate[T]) []*Node[T] {
	var r []*Node[T]
	if node == nil {
		return r
	}
	_ = TopDown(node, func(n *Node[T], depth int) error {
		if depth > 0 && predicate(n) {
			r = append(r, n)
		}
		return nil
	})
	tracer().Debugf("tree: collected %d descendants", len(r))
	return r
}

// FirstDescendantWith returns the first proper descendant of node (in document
// order) matching predicate, or nil.
func FirstDescendantWith[T comparable](node *Node[T], predicate Predicate[T]) *Node[T] {
	var found *Node[T]
	if node == nil {
		return nil
	}
	_ = TopDown(node, func(n *Node[T], depth int) error {
		if depth > 0 && predicate(n) {
			found = n
			return errStop
		}
		return nil
	})
	return found
}

// AncestorWith returns the nearest proper ancestor of node matching predicate,
// or nil.
func AncestorWith[T comparable](node *Node[T], predicate Predicate[T]) *Node[T] {
	if node == nil {
		return nil
	}
	for p := node.Parent(); p != nil; p = p.Parent() {
		if predicate(p) {
			return p
		}
	}
	return nil
}
