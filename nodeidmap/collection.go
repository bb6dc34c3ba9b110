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
	"sync"

	"github.com/krotik/common/errorutil"

	"github.com/krotik/mshape/ast"
)

// ContextNode mirrors an Ast node while it is still being built. It shares
// its id with the eventual Ast node (spec.md §3).
type ContextNode struct {
	Id               int
	Kind             ast.NodeKind
	ParentId         int // -1 for the root context
	AttributeIndex   int // slot within ParentId; reassigned with ParentId when DeleteContext splices this context into its collapsed parent's slot
	AttributeCounter int // next child slot this context will hand out
	TokenIndexStart  int
}

// NoParentID marks a context or node with no parent (the root).
const NoParentID = -1

const noParent = NoParentID

// Collection is the Node-Id Map: the bidirectional index over finished Ast
// nodes and in-progress Context nodes that both the parser and the
// inspection services consult (spec.md §3/§4.C).
//
// A Collection is built up by exactly one ParserState during one parse; it
// is safe for concurrent reads afterward, matching the ownership rules of
// spec.md §5.
type Collection struct {
	mu sync.RWMutex

	nextId  int
	rootId  int
	hasRoot bool

	astNodeById     map[int]*ast.Node
	contextNodeById map[int]*ContextNode
	childIdsById    map[int][]int
	parentIdById    map[int]int
	leafNodeIds     map[int]bool

	maybeRightMostLeaf *int
}

// NewCollection returns an empty Collection ready to back a new parse.
func NewCollection() *Collection {
	return &Collection{
		astNodeById:     map[int]*ast.Node{},
		contextNodeById: map[int]*ContextNode{},
		childIdsById:    map[int][]int{},
		parentIdById:    map[int]int{},
		leafNodeIds:     map[int]bool{},
	}
}

// StartContext opens a new context node as a child of parentId (or as the
// root, if there is no parent). It assigns the next id, wires the
// parent/child links, and records the tentative token start.
//
// A parentless context opened while a root already exists takes over as the
// root: this is the wrap-the-head case of spec.md §4.C/§4.D at the top level
// of a document, and the caller must immediately either re-parent the old
// root beneath the new context (ReparentUnderNewContext) or collapse the new
// context away again (DeleteContext restores the single child as root).
func (c *Collection) StartContext(kind ast.NodeKind, parentId int, hasParent bool, tokenStart int) *ContextNode {
	c.mu.Lock()
	defer c.mu.Unlock()

	id := c.nextId
	c.nextId++

	ctx := &ContextNode{
		Id:              id,
		Kind:            kind,
		ParentId:        noParent,
		TokenIndexStart: tokenStart,
	}

	if !hasParent {
		c.rootId = id
		c.hasRoot = true
	} else {
		parent, ok := c.contextNodeById[parentId]
		errorutil.AssertTrue(ok, "StartContext: parent context does not exist")

		ctx.ParentId = parentId
		ctx.AttributeIndex = parent.AttributeCounter
		parent.AttributeCounter++

		c.parentIdById[id] = parentId
		c.childIdsById[parentId] = append(c.childIdsById[parentId], id)
	}

	c.contextNodeById[id] = ctx

	return ctx
}

// IncrementAttributeCounter advances contextId's next-slot counter without
// creating a child, keeping later slot indices stable across an absent
// optional grammar element (spec.md §4.B).
func (c *Collection) IncrementAttributeCounter(contextId int) {
	c.mu.Lock()
	defer c.mu.Unlock()

	ctx, ok := c.contextNodeById[contextId]
	errorutil.AssertTrue(ok, "IncrementAttributeCounter: context does not exist")
	ctx.AttributeCounter++
}

// EndContext promotes the context with node.Id into the Ast map: the
// context entry is removed and node takes over its id, parent link, and
// child-list membership unchanged. node.AttributeIndex is overwritten from
// the context's recorded slot. Returns a Common Invariant Error if no
// context with that id is open.
func (c *Collection) EndContext(node *ast.Node) (*ContextNode, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	ctx, ok := c.contextNodeById[node.Id]
	if !ok {
		return nil, newError("EndContext: no open context with id %d", node.Id)
	}

	node.AttributeIndex = ctx.AttributeIndex

	delete(c.contextNodeById, node.Id)
	c.astNodeById[node.Id] = node

	if node.IsLeaf {
		c.leafNodeIds[node.Id] = true
		id := node.Id
		c.maybeRightMostLeaf = &id
	}

	return ctx, nil
}

// DeleteContext discards the context with contextId, which must have zero or
// one children. If it has one child, that child is spliced into contextId's
// former slot in its parent, inheriting contextId's AttributeIndex -- this
// implements the "metadata expression with no meta suffix" style collapse of
// spec.md §4.B.
func (c *Collection) DeleteContext(contextId int) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	ctx, ok := c.contextNodeById[contextId]
	if !ok {
		return newError("DeleteContext: no open context with id %d", contextId)
	}

	children := c.childIdsById[contextId]
	if len(children) > 1 {
		return newError("DeleteContext: context %d has %d children, expected 0 or 1", contextId, len(children))
	}

	parentChildren := c.childIdsById[ctx.ParentId]
	idx := indexOf(parentChildren, contextId)
	errorutil.AssertTrue(idx >= 0 || ctx.ParentId == noParent, "DeleteContext: context not found in parent's child list")

	if len(children) == 1 {
		childId := children[0]

		delete(c.parentIdById, childId)
		if ctx.ParentId != noParent {
			c.parentIdById[childId] = ctx.ParentId
		}
		if idx >= 0 {
			parentChildren[idx] = childId
		} else if ctx.ParentId == noParent {
			c.rootId = childId
		}

		if astNode, ok := c.astNodeById[childId]; ok {
			astNode.AttributeIndex = ctx.AttributeIndex
		} else if childCtx, ok := c.contextNodeById[childId]; ok {
			childCtx.AttributeIndex = ctx.AttributeIndex
			childCtx.ParentId = ctx.ParentId
		}
	} else if idx >= 0 {
		parentChildren = append(parentChildren[:idx], parentChildren[idx+1:]...)
	}

	if ctx.ParentId != noParent {
		c.childIdsById[ctx.ParentId] = parentChildren
	}

	delete(c.contextNodeById, contextId)
	delete(c.childIdsById, contextId)
	delete(c.parentIdById, contextId)

	return nil
}

// ReparentUnderNewContext performs the recursive-primary-expression tree
// surgery of spec.md §4.C/§4.D: headId (already a finished Ast node) becomes
// the sole, first child of newContextId, a context that opened after headId
// was parsed. newContextId's tentative token start widens to cover headId.
// A head with no parent was the root; StartContext has already handed the
// root over to newContextId, so there is no old child list to splice it from.
func (c *Collection) ReparentUnderNewContext(headId, newContextId int) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	newCtx, ok := c.contextNodeById[newContextId]
	if !ok {
		return newError("ReparentUnderNewContext: no open context with id %d", newContextId)
	}

	if oldParentId, hasOldParent := c.parentIdById[headId]; hasOldParent {
		oldSiblings := c.childIdsById[oldParentId]
		idx := indexOf(oldSiblings, headId)
		errorutil.AssertTrue(idx >= 0, "ReparentUnderNewContext: head not found in its parent's child list")
		c.childIdsById[oldParentId] = append(oldSiblings[:idx], oldSiblings[idx+1:]...)
	}

	c.parentIdById[headId] = newContextId
	c.childIdsById[newContextId] = []int{headId}

	head, ok := c.astNodeById[headId]
	errorutil.AssertTrue(ok, "ReparentUnderNewContext: head must already be a finished Ast node")
	head.AttributeIndex = 0
	if head.TokenRange.Start < newCtx.TokenIndexStart {
		newCtx.TokenIndexStart = head.TokenRange.Start
	}
	newCtx.AttributeCounter = 1

	return nil
}

// CollectionSnapshot is an opaque capture of a Collection's shape, produced
// by Snapshot and consumed by Restore. It backs the parser's fastStateBackup
// / applyFastStateBackup pair (spec.md §4.B): lookahead and the document-
// level retry rewind a Collection to exactly this shape by discarding every
// id minted after the snapshot and rolling back attribute counters on
// contexts that stayed open throughout.
type CollectionSnapshot struct {
	nextId   int
	counters map[int]int
}

// Snapshot captures the Collection's current shape.
func (c *Collection) Snapshot() CollectionSnapshot {
	c.mu.RLock()
	defer c.mu.RUnlock()

	counters := make(map[int]int, len(c.contextNodeById))
	for id, ctx := range c.contextNodeById {
		counters[id] = ctx.AttributeCounter
	}
	return CollectionSnapshot{nextId: c.nextId, counters: counters}
}

// Restore rewinds the Collection to the shape captured by s, discarding
// every node minted since and rolling back attribute counters on contexts
// that remain open.
func (c *Collection) Restore(s CollectionSnapshot) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for id := range c.contextNodeById {
		if id >= s.nextId {
			delete(c.contextNodeById, id)
			delete(c.parentIdById, id)
			delete(c.childIdsById, id)
		}
	}
	for id := range c.astNodeById {
		if id >= s.nextId {
			delete(c.astNodeById, id)
			delete(c.parentIdById, id)
			delete(c.childIdsById, id)
			delete(c.leafNodeIds, id)
		}
	}

	for pid, kids := range c.childIdsById {
		filtered := kids[:0]
		for _, k := range kids {
			if k < s.nextId {
				filtered = append(filtered, k)
			}
		}
		c.childIdsById[pid] = filtered
	}

	for id, ctx := range c.contextNodeById {
		if cnt, ok := s.counters[id]; ok {
			ctx.AttributeCounter = cnt
		}
	}

	c.nextId = s.nextId

	if c.hasRoot && c.rootId >= s.nextId {
		c.hasRoot = false
	}
	if c.maybeRightMostLeaf != nil && *c.maybeRightMostLeaf >= s.nextId {
		c.maybeRightMostLeaf = nil
	}
}

func indexOf(ids []int, id int) int {
	for i, v := range ids {
		if v == id {
			return i
		}
	}
	return -1
}

// AstNode returns the finished Ast node for id, if any.
func (c *Collection) AstNode(id int) (*ast.Node, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	n, ok := c.astNodeById[id]
	return n, ok
}

// ContextNodeByID returns the in-progress context for id, if any.
func (c *Collection) ContextNodeByID(id int) (*ContextNode, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	n, ok := c.contextNodeById[id]
	return n, ok
}

// Children returns the ordered child ids of id, which may be either an Ast
// or a Context node.
func (c *Collection) Children(id int) []int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	ids := c.childIdsById[id]
	out := make([]int, len(ids))
	copy(out, ids)
	return out
}

// Parent returns the parent id of id and whether id has one (the root has
// none).
func (c *Collection) Parent(id int) (int, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	p, ok := c.parentIdById[id]
	return p, ok
}

// Root returns the id of the root node, if a context tree has been started.
func (c *Collection) Root() (int, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.rootId, c.hasRoot
}

// IsLeaf reports whether id names a finished, leaf Ast node.
func (c *Collection) IsLeaf(id int) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.leafNodeIds[id]
}

// LeafNodeIds returns a snapshot copy of every leaf Ast node id.
func (c *Collection) LeafNodeIds() map[int]bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make(map[int]bool, len(c.leafNodeIds))
	for k := range c.leafNodeIds {
		out[k] = true
	}
	return out
}

// RightMostLeaf returns the id of the last leaf Ast node that finished, used
// by inspection to find the node under a cursor at end of input.
func (c *Collection) RightMostLeaf() (int, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.maybeRightMostLeaf == nil {
		return 0, false
	}
	return *c.maybeRightMostLeaf, true
}

// Kind returns the NodeKind of id, whether it is currently an Ast node or a
// Context node.
func (c *Collection) Kind(id int) (ast.NodeKind, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if n, ok := c.astNodeById[id]; ok {
		return n.Kind, true
	}
	if n, ok := c.contextNodeById[id]; ok {
		return n.Kind, true
	}
	return "", false
}

// XorNode builds an ast.XorNode for id, resolving whether it currently
// refers to an Ast or a Context node.
func (c *Collection) XorNode(id int) (ast.XorNode, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if _, ok := c.astNodeById[id]; ok {
		return ast.XorNode{Id: id, IsAst: true}, true
	}
	if _, ok := c.contextNodeById[id]; ok {
		return ast.XorNode{Id: id, IsAst: false}, true
	}
	return ast.XorNode{}, false
}
