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
	"github.com/krotik/mshape/ast"
	"github.com/krotik/mshape/nodeidmap"
)

// scopeItemsFor walks the ancestors of nodeId through nodeIdMap,
// accumulating name->ScopeItem bindings (spec.md §4.H: "walks ancestors
// ..., accumulating name -> scope-item bindings with shadowing (innermost
// wins)"). given/delta are consulted/populated per node id the same way
// TryScopeType/TryType split the cache (spec.md §4.G): a node's full
// scope, once computed, never needs recomputing for the life of the
// document.
func scopeItemsFor(nodeIdMap *nodeidmap.Collection, nodeId int, given, delta *TypeCache) (ScopeItemByKey, error) {
	if items, ok := given.lookupScope(nodeId); ok {
		return items, nil
	}
	if items, ok := delta.lookupScope(nodeId); ok {
		return items, nil
	}

	result := ScopeItemByKey{}

	childId := nodeId
	for {
		parentId, ok := nodeIdMap.Parent(childId)
		if !ok {
			break
		}

		kind, ok := nodeIdMap.Kind(parentId)
		if !ok {
			return nil, newError("scopeItemsFor: ancestor %d has no kind", parentId)
		}

		addAncestorBindings(nodeIdMap, parentId, kind, result)

		childId = parentId
	}

	delta.ScopeById[nodeId] = result
	return result, nil
}

// addAncestorBindings adds the bindings a single ancestor of kind
// introduces into its children's scope, skipping any name already present
// in result (outer-ancestor bindings never override an inner one -- the
// "innermost wins" rule; within one ancestor, later siblings overwrite
// earlier ones of the same name, which is the "positional" half of spec.md
// §4.H's shadowing rule).
func addAncestorBindings(nodeIdMap *nodeidmap.Collection, ancestorId int, kind ast.NodeKind, result ScopeItemByKey) {
	switch kind {
	case ast.LetExpression:
		addLetBindings(nodeIdMap, ancestorId, result)
	case ast.Section:
		addSectionBindings(nodeIdMap, ancestorId, result)
	case ast.FunctionExpression:
		addParameterBindings(nodeIdMap, ancestorId, result)
	case ast.EachExpression:
		addImplicitRowBinding(ancestorId, result)
	}
}

func setIfAbsent(result ScopeItemByKey, name string, item ScopeItem) {
	if _, exists := result[name]; !exists {
		result[name] = item
	}
}

// addLetBindings adds every variable a LetExpression declares. `let` is
// mutually recursive (spec.md §4.D names IdentifierPairedExpression as
// the member shape, and the language allows each binding's own value
// expression to reference any sibling, including itself), so every
// binding is marked IsRecursive and all of them are visible regardless of
// declaration order; a name repeated across siblings keeps its last
// (most positional) declaration.
func addLetBindings(nodeIdMap *nodeidmap.Collection, letId int, result ScopeItemByKey) {
	letNode, ok := nodeIdMap.AstNode(letId)
	if !ok || len(letNode.Attributes) < 2 {
		return
	}
	wrapperId := letNode.Attributes[1]

	local := ScopeItemByKey{}
	for _, csvId := range nodeIdMap.Children(wrapperId) {
		csvNode, ok := nodeIdMap.AstNode(csvId)
		if !ok || len(csvNode.Attributes) < 1 {
			continue
		}
		pairId := csvNode.Attributes[0]
		name, xn, ok := identifierPairedBinding(nodeIdMap, pairId)
		if !ok {
			continue
		}
		local[name] = ScopeItem{XorNode: xn, IsRecursive: true}
	}
	for name, item := range local {
		setIfAbsent(result, name, item)
	}
}

// addSectionBindings adds every member a Section declares (spec.md §4.D,
// readSection/readSectionMember): section members are likewise mutually
// visible to each other.
func addSectionBindings(nodeIdMap *nodeidmap.Collection, sectionId int, result ScopeItemByKey) {
	sectionNode, ok := nodeIdMap.AstNode(sectionId)
	if !ok {
		return
	}

	local := ScopeItemByKey{}
	for _, memberId := range sectionNode.Attributes[3:] {
		if memberId == ast.NoAttribute {
			continue
		}
		memberNode, ok := nodeIdMap.AstNode(memberId)
		if !ok || len(memberNode.Attributes) < 2 {
			continue
		}
		pairId := memberNode.Attributes[1]
		name, xn, ok := identifierPairedBinding(nodeIdMap, pairId)
		if !ok {
			continue
		}
		local[name] = ScopeItem{XorNode: xn, IsRecursive: true}
	}
	for name, item := range local {
		setIfAbsent(result, name, item)
	}
}

// addParameterBindings adds a FunctionExpression's declared parameters,
// which shadow everything outside the function but are not themselves
// recursive (a parameter's declaration carries no value expression to
// recurse into).
func addParameterBindings(nodeIdMap *nodeidmap.Collection, funcId int, result ScopeItemByKey) {
	funcNode, ok := nodeIdMap.AstNode(funcId)
	if !ok || len(funcNode.Attributes) < 1 {
		return
	}
	paramListId := funcNode.Attributes[0]
	paramListNode, ok := nodeIdMap.AstNode(paramListId)
	if !ok || len(paramListNode.Attributes) < 2 {
		return
	}

	// Attributes[0] is the opening '(' constant, Attributes[len-1] the
	// closing ')'; everything between is a Parameter.
	for _, paramId := range paramListNode.Attributes[1 : len(paramListNode.Attributes)-1] {
		paramNode, ok := nodeIdMap.AstNode(paramId)
		if !ok || len(paramNode.Attributes) < 2 {
			continue
		}
		nameId := paramNode.Attributes[1]
		nameNode, ok := nodeIdMap.AstNode(nameId)
		if !ok {
			continue
		}
		setIfAbsent(result, nameNode.Literal, ScopeItem{XorNode: ast.XorNode{Id: paramId, IsAst: true}})
	}
}

// addImplicitRowBinding adds the `_` implicit current-row binding an
// EachExpression introduces for its body (spec.md §4's "Supplemented
// Features" calls out EachExpression as implied by the `each` keyword;
// the implicit `_` parameter is the well-known shape of this construct in
// the source language this grammar models).
func addImplicitRowBinding(eachId int, result ScopeItemByKey) {
	setIfAbsent(result, "_", ScopeItem{XorNode: ast.XorNode{Id: eachId, IsAst: true}})
}

// identifierPairedBinding reads the `key '=' value` shape both
// IdentifierPairedExpression and GeneralizedIdentifierPairedExpression
// share (spec.md §4.D's key-value reader), returning the key's literal
// text and an XorNode for the bound value.
func identifierPairedBinding(nodeIdMap *nodeidmap.Collection, pairId int) (string, ast.XorNode, bool) {
	pairNode, ok := nodeIdMap.AstNode(pairId)
	if !ok || len(pairNode.Attributes) != 3 {
		return "", ast.XorNode{}, false
	}
	keyNode, ok := nodeIdMap.AstNode(pairNode.Attributes[0])
	if !ok {
		return "", ast.XorNode{}, false
	}
	valueId := pairNode.Attributes[2]
	return keyNode.Literal, ast.XorNode{Id: valueId, IsAst: true}, true
}
