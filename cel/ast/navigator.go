// Copyright 2018 The CUE Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package ast

import "fmt"

// Order selects pre-order or post-order traversal (spec.md §4.2).
type Order int

const (
	PreOrder Order = iota
	PostOrder
)

// MaxDepth is the default traversal recursion cap (spec.md §4.2, §5).
const MaxDepth = 500

// RecursionLimitError is returned by traversal functions when depth
// exceeds the navigator's configured cap.
type RecursionLimitError struct {
	Depth int
}

func (e *RecursionLimitError) Error() string {
	return fmt.Sprintf("ast: recursion limit exceeded at depth %d", e.Depth)
}

// Navigable wraps a single Expr with its precomputed structural metrics:
// depth, height, and the maximum node id anywhere in its subtree
// (spec.md §4.2, §8 "Height/max-id consistency").
type Navigable struct {
	node     Expr
	parent   *Navigable
	depthVal int
	maxDepth int

	heightVal int
	maxIDVal  ID
}

// Navigate builds a Navigable wrapper for root, computing height and
// max-id once (spec.md §4.2 "computed once at construction").
func Navigate(root Expr) (*Navigable, error) {
	return navigate(root, nil, 0, MaxDepth)
}

// NavigateWithLimit is Navigate with an explicit recursion cap, for
// callers that configured a non-default maxParseRecursionDepth
// (spec.md §6).
func NavigateWithLimit(root Expr, limit int) (*Navigable, error) {
	return navigate(root, nil, 0, limit)
}

func navigate(node Expr, parent *Navigable, depth, limit int) (*Navigable, error) {
	if depth > limit {
		return nil, &RecursionLimitError{Depth: depth}
	}
	n := &Navigable{node: node, parent: parent, depthVal: depth, maxIDVal: node.ID()}
	kids := children(node)
	maxHeight := -1
	for _, k := range kids {
		cn, err := navigate(k, n, depth+1, limit)
		if err != nil {
			return nil, err
		}
		if cn.heightVal > maxHeight {
			maxHeight = cn.heightVal
		}
		if cn.maxIDVal > n.maxIDVal {
			n.maxIDVal = cn.maxIDVal
		}
	}
	n.heightVal = maxHeight + 1 // leaf: maxHeight==-1 -> height 0
	return n, nil
}

// Node returns the wrapped expression.
func (n *Navigable) Node() Expr { return n.node }

// Parent returns the wrapper's parent, or nil at the root.
func (n *Navigable) Parent() *Navigable { return n.parent }

// Depth returns the node's depth; the root has depth 0.
func (n *Navigable) Depth() int { return n.depthVal }

// Height returns the node's height: 0 for a leaf, else
// 1+max(height(child)) (spec.md §4.2, §8).
func (n *Navigable) Height() int { return n.heightVal }

// MaxID returns the maximum node id in n's subtree, including n itself.
func (n *Navigable) MaxID() ID { return n.maxIDVal }

// Children returns n's immediate children, in the normative order for
// n's variant (spec.md §4.2 "Traversal order").
func (n *Navigable) Children() []*Navigable {
	kids := children(n.node)
	out := make([]*Navigable, len(kids))
	for i, k := range kids {
		// Each child is rebuilt by a fresh (uncached) navigate call,
		// which recomputes its height and max-id; the call is capped at
		// the default MaxDepth, not at a limit passed to
		// NavigateWithLimit.
		cn, _ := navigate(k, n, n.depthVal+1, MaxDepth)
		out[i] = cn
	}
	return out
}

// allNodes collects every Navigable in n's subtree (including n) in the
// given order (spec.md §4.2 "allNodes").
func (n *Navigable) allNodes(order Order, out *[]*Navigable) {
	if order == PreOrder {
		*out = append(*out, n)
	}
	for _, c := range n.Children() {
		c.allNodes(order, out)
	}
	if order == PostOrder {
		*out = append(*out, n)
	}
}

// AllNodes returns a lazy-in-spirit (eagerly built, restartable) sequence
// including self (spec.md §4.2).
func (n *Navigable) AllNodes(order Order) []*Navigable {
	var out []*Navigable
	n.allNodes(order, &out)
	return out
}

// Descendants returns AllNodes minus self (spec.md §4.2, §8 "descendants
// = allNodes \ {n}"). Self appears exactly once in AllNodes (first in
// pre-order, last in post-order), so removing that single pointer-equal
// entry suffices.
func (n *Navigable) Descendants(order Order) []*Navigable {
	all := n.AllNodes(order)
	out := make([]*Navigable, 0, len(all)-1)
	for _, x := range all {
		if x != n {
			out = append(out, x)
		}
	}
	return out
}

// children returns the immediate child expressions of e in the normative
// order from spec.md §4.2 "Traversal order":
//
//	Call: target (if present), then args left-to-right.
//	List: elements left-to-right.
//	Select: operand.
//	Struct/Map: entries left-to-right; for map entries key before value.
//	Comprehension: iterRange, accuInit, loopCondition, loopStep, result.
func children(e Expr) []Expr {
	switch x := e.(type) {
	case *Constant, *Ident, *NotSet:
		return nil
	case *Select:
		return []Expr{x.Operand}
	case *Call:
		var out []Expr
		if x.Target != nil {
			out = append(out, x.Target)
		}
		out = append(out, x.Args...)
		return out
	case *ListExpr:
		return append([]Expr(nil), x.Elements...)
	case *StructExpr:
		out := make([]Expr, 0, len(x.Fields))
		for _, f := range x.Fields {
			out = append(out, f.Value)
		}
		return out
	case *MapExpr:
		out := make([]Expr, 0, len(x.Entries)*2)
		for _, ent := range x.Entries {
			out = append(out, ent.Key, ent.Value)
		}
		return out
	case *Comprehension:
		return []Expr{x.IterRange, x.AccuInit, x.LoopCondition, x.LoopStep, x.Result}
	}
	return nil
}
