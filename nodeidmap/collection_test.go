/*
 * mshape
 *
 * Copyright 2020 Matthias Ladkau. All rights reserved.
 *
 * This Source Code Form is subject to the terms of the MIT
 * License, If a copy of the MIT License was not distributed with this
 * file, You can obtain one at https://opensource.org/licenses/MIT.
 */

package nodeidmap

import (
	"testing"

	"github.com/krotik/mshape/ast"
)

func TestStartEndContextPromotesToAst(t *testing.T) {
	c := NewCollection()

	root := c.StartContext(ast.IfExpression, 0, false, 0)
	child := c.StartContext(ast.LiteralExpression, root.Id, true, 0)

	if _, err := c.EndContext(&ast.Node{Id: child.Id, Kind: ast.LiteralExpression, IsLeaf: true, Literal: "1"}); err != nil {
		t.Fatalf("EndContext(child): %v", err)
	}

	if _, ok := c.ContextNodeByID(child.Id); ok {
		t.Errorf("child context should have been removed on promotion")
	}
	n, ok := c.AstNode(child.Id)
	if !ok {
		t.Fatalf("expected child to be promoted to an ast node")
	}
	if n.AttributeIndex != 0 {
		t.Errorf("AttributeIndex = %d, want 0", n.AttributeIndex)
	}
	if !c.IsLeaf(child.Id) {
		t.Errorf("expected child to be recorded as a leaf")
	}

	parent, ok := c.Parent(child.Id)
	if !ok || parent != root.Id {
		t.Errorf("Parent(child) = (%d, %v), want (%d, true)", parent, ok, root.Id)
	}
	if got := c.Children(root.Id); len(got) != 1 || got[0] != child.Id {
		t.Errorf("Children(root) = %v, want [%d]", got, child.Id)
	}
}

func TestIncrementAttributeCounterSkipsSlot(t *testing.T) {
	c := NewCollection()
	root := c.StartContext(ast.IfExpression, 0, false, 0)

	c.IncrementAttributeCounter(root.Id) // condition slot skipped (absent)
	second := c.StartContext(ast.LiteralExpression, root.Id, true, 1)

	if second.AttributeIndex != 1 {
		t.Errorf("AttributeIndex = %d, want 1 (slot 0 skipped)", second.AttributeIndex)
	}
}

func TestDeleteContextCollapsesSingleChild(t *testing.T) {
	c := NewCollection()
	root := c.StartContext(ast.MetadataExpression, 0, false, 0)
	inner := c.StartContext(ast.ArithmeticExpression, root.Id, true, 0)
	leaf := c.StartContext(ast.LiteralExpression, inner.Id, true, 0)

	if _, err := c.EndContext(&ast.Node{Id: leaf.Id, Kind: ast.LiteralExpression, IsLeaf: true, Literal: "1"}); err != nil {
		t.Fatalf("EndContext(leaf): %v", err)
	}

	if err := c.DeleteContext(inner.Id); err != nil {
		t.Fatalf("DeleteContext(inner): %v", err)
	}

	if _, ok := c.ContextNodeByID(inner.Id); ok {
		t.Errorf("inner context should have been discarded")
	}
	parent, ok := c.Parent(leaf.Id)
	if !ok || parent != root.Id {
		t.Errorf("Parent(leaf) after collapse = (%d, %v), want (%d, true)", parent, ok, root.Id)
	}
	if got := c.Children(root.Id); len(got) != 1 || got[0] != leaf.Id {
		t.Errorf("Children(root) after collapse = %v, want [%d]", got, leaf.Id)
	}
}

func TestReparentUnderNewContext(t *testing.T) {
	c := NewCollection()
	root := c.StartContext(ast.RecursivePrimaryExpression, 0, false, 0)
	head := c.StartContext(ast.Identifier, root.Id, true, 0)

	if _, err := c.EndContext(&ast.Node{Id: head.Id, Kind: ast.Identifier, IsLeaf: true, Literal: "x", TokenRange: ast.TokenRange{Start: 0, End: 1}}); err != nil {
		t.Fatalf("EndContext(head): %v", err)
	}

	wrapper := c.StartContext(ast.RecursivePrimaryExpression, root.Id, true, 5)

	if err := c.ReparentUnderNewContext(head.Id, wrapper.Id); err != nil {
		t.Fatalf("ReparentUnderNewContext: %v", err)
	}

	if got := c.Children(root.Id); len(got) != 1 || got[0] != wrapper.Id {
		t.Errorf("Children(root) = %v, want [%d] (head spliced out)", got, wrapper.Id)
	}
	if got := c.Children(wrapper.Id); len(got) != 1 || got[0] != head.Id {
		t.Errorf("Children(wrapper) = %v, want [%d]", got, head.Id)
	}
	parent, ok := c.Parent(head.Id)
	if !ok || parent != wrapper.Id {
		t.Errorf("Parent(head) = (%d, %v), want (%d, true)", parent, ok, wrapper.Id)
	}

	wctx, _ := c.ContextNodeByID(wrapper.Id)
	if wctx.TokenIndexStart != 0 {
		t.Errorf("wrapper TokenIndexStart = %d, want widened to 0 (head's start)", wctx.TokenIndexStart)
	}

	headNode, _ := c.AstNode(head.Id)
	if headNode.AttributeIndex != 0 {
		t.Errorf("head AttributeIndex after reparent = %d, want 0", headNode.AttributeIndex)
	}
}

func TestReparentUnderNewContextWhenHeadIsRoot(t *testing.T) {
	c := NewCollection()

	head := c.StartContext(ast.Identifier, 0, false, 0)
	if _, err := c.EndContext(&ast.Node{Id: head.Id, Kind: ast.Identifier, IsLeaf: true, Literal: "x"}); err != nil {
		t.Fatalf("EndContext(head): %v", err)
	}

	// A parentless context opened while head is the root takes the root over.
	wrapper := c.StartContext(ast.RecursivePrimaryExpression, 0, false, 1)
	if rootId, ok := c.Root(); !ok || rootId != wrapper.Id {
		t.Fatalf("Root() = (%d, %v), want (%d, true)", rootId, ok, wrapper.Id)
	}

	if err := c.ReparentUnderNewContext(head.Id, wrapper.Id); err != nil {
		t.Fatalf("ReparentUnderNewContext: %v", err)
	}
	parent, ok := c.Parent(head.Id)
	if !ok || parent != wrapper.Id {
		t.Errorf("Parent(head) = (%d, %v), want (%d, true)", parent, ok, wrapper.Id)
	}
	if got := c.Children(wrapper.Id); len(got) != 1 || got[0] != head.Id {
		t.Errorf("Children(wrapper) = %v, want [%d]", got, head.Id)
	}

	// Collapsing the wrapper again hands the root back to head.
	if err := c.DeleteContext(wrapper.Id); err != nil {
		t.Fatalf("DeleteContext(wrapper): %v", err)
	}
	if rootId, ok := c.Root(); !ok || rootId != head.Id {
		t.Errorf("Root() after collapse = (%d, %v), want (%d, true)", rootId, ok, head.Id)
	}
	if _, ok := c.Parent(head.Id); ok {
		t.Errorf("head should have no parent after the collapse")
	}
}
