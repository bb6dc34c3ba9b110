/*
 * mshape
 *
 * Copyright 2020 Matthias Ladkau. All rights reserved.
 *
 * This Source Code Form is subject to the terms of the MIT
 * License, If a copy of the MIT License was not distributed with this
 * file, You can obtain one at https://opensource.org/licenses/MIT.
 */

package inspect

import (
	"sync"

	"github.com/krotik/mshape/ast"
)

// ScopeItem is one name's binding within a scope: a tagged reference to
// the Ast-or-Context node that introduces it, plus whether that binding is
// allowed to refer to itself (spec.md §4.D "let" is mutually recursive: a
// let-bound name's own value expression can see every sibling binding,
// including itself).
type ScopeItem struct {
	XorNode     ast.XorNode
	IsRecursive bool
}

// ScopeItemByKey is the accumulated name->binding map for one target node,
// innermost-enclosing-scope bindings taking precedence over outer ones
// (spec.md §4.H).
type ScopeItemByKey map[string]ScopeItem

// TypeCache is the per-document memoization of spec.md §3's "Type/Scope
// caches": two id-keyed mappings, monotonic for the lifetime of a
// document (entries are only ever added, never removed or overwritten
// with a different value -- Testable Property 6). A TypeCache has a
// single owner; concurrent inspection calls sharing one must be
// serialized by the caller (spec.md §5).
type TypeCache struct {
	mu sync.Mutex

	ScopeById map[int]ScopeItemByKey
	TypeById  map[int]Type
}

// NewTypeCache returns an empty cache ready to back a new document's
// inspection calls.
func NewTypeCache() *TypeCache {
	return &TypeCache{
		ScopeById: map[int]ScopeItemByKey{},
		TypeById:  map[int]Type{},
	}
}

// given/delta split (spec.md §4.G): a computation reads from both given
// (everything carried in from before this call) and delta (everything
// this call has produced so far, kept isolated so a mid-call failure can
// be discarded without polluting given), and writes only to delta. On
// success the caller merges delta into given.

func (c *TypeCache) lookupScope(id int) (ScopeItemByKey, bool) {
	if c == nil {
		return nil, false
	}
	v, ok := c.ScopeById[id]
	return v, ok
}

func (c *TypeCache) lookupType(id int) (Type, bool) {
	if c == nil {
		return Type{}, false
	}
	v, ok := c.TypeById[id]
	return v, ok
}

func mergeDelta(given, delta *TypeCache) {
	given.mu.Lock()
	defer given.mu.Unlock()

	for id, items := range delta.ScopeById {
		if _, exists := given.ScopeById[id]; !exists {
			given.ScopeById[id] = items
		}
	}
	for id, typ := range delta.TypeById {
		if _, exists := given.TypeById[id]; !exists {
			given.TypeById[id] = typ
		}
	}
}
