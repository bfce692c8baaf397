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

// Mutable-AST rewriting, grounded on cue/ast/astutil/apply.go's Cursor
// pattern: the immutable node-variant tree from expr.go is the only
// representation; a rewrite pass walks it with a Cursor that can Replace
// the current node, and "mutate then freeze" (Design Notes) just means
// Apply returns a brand new root built from the replacements, which the
// checker/interpreter then consume as an ordinary, frozen Expr tree.
package ast

// Cursor describes a node encountered during Apply. It exposes enough to
// replace the current node without disrupting the in-progress walk, the
// same scoped capability the teacher's astutil.Cursor offers (Replace;
// Delete/InsertBefore/InsertAfter have no CEL analogue since there is no
// struct-literal-like decl list to splice into, so they are omitted here
// rather than left to panic).
type Cursor interface {
	// Node returns the current node.
	Node() Expr
	// Parent returns the parent of the current node, or nil at the root.
	Parent() Cursor
	// Replace replaces the current node with n. A replacement made in pre
	// has its own children walked in place of the original node's; one
	// made in post is not walked.
	Replace(n Expr)
}

type cursor struct {
	parent  *cursor
	node    Expr
	replace func(Expr)
}

func (c *cursor) Node() Expr { return c.node }
func (c *cursor) Parent() Cursor {
	if c.parent == nil {
		return nil
	}
	return c.parent
}
func (c *cursor) Replace(n Expr) {
	c.node = n
	c.replace(n)
}

// Apply traverses expr recursively. If pre is non-nil it is called before
// a node's children are visited (pre-order); if it returns false, the
// node's children are skipped and post is not called for that node. If
// post is non-nil it is called after a node's children are visited
// (post-order); its return value is ignored, so traversal goes on to the
// node's remaining siblings either way (spec.md Design Notes "mutate()
// builder view").
func Apply(expr Expr, pre, post func(Cursor) bool) Expr {
	root := expr
	c := &cursor{node: expr, replace: func(n Expr) { root = n }}
	applyCursor(c, pre, post)
	return root
}

func applyCursor(c *cursor, pre, post func(Cursor) bool) bool {
	if pre != nil && !pre(c) {
		return true
	}
	rewriteChildren(c, pre, post)
	if post != nil {
		return post(c)
	}
	return true
}

func rewriteChildren(c *cursor, pre, post func(Cursor) bool) {
	switch x := c.node.(type) {
	case *Select:
		x.Operand = applyChild(c, x.Operand, pre, post)
	case *Call:
		if x.Target != nil {
			x.Target = applyChild(c, x.Target, pre, post)
		}
		for i := range x.Args {
			x.Args[i] = applyChild(c, x.Args[i], pre, post)
		}
	case *ListExpr:
		for i := range x.Elements {
			x.Elements[i] = applyChild(c, x.Elements[i], pre, post)
		}
	case *StructExpr:
		for i := range x.Fields {
			x.Fields[i].Value = applyChild(c, x.Fields[i].Value, pre, post)
		}
	case *MapExpr:
		for i := range x.Entries {
			x.Entries[i].Key = applyChild(c, x.Entries[i].Key, pre, post)
			x.Entries[i].Value = applyChild(c, x.Entries[i].Value, pre, post)
		}
	case *Comprehension:
		x.IterRange = applyChild(c, x.IterRange, pre, post)
		x.AccuInit = applyChild(c, x.AccuInit, pre, post)
		x.LoopCondition = applyChild(c, x.LoopCondition, pre, post)
		x.LoopStep = applyChild(c, x.LoopStep, pre, post)
		x.Result = applyChild(c, x.Result, pre, post)
	}
}

func applyChild(parent *cursor, child Expr, pre, post func(Cursor) bool) Expr {
	result := child
	cc := &cursor{parent: parent, node: child, replace: func(n Expr) { result = n }}
	applyCursor(cc, pre, post)
	return result
}
