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
	"sort"
	"strings"

	"github.com/krotik/mshape/ast"
	"github.com/krotik/mshape/locale"
	"github.com/krotik/mshape/nodeidmap"
)

// TryScopeType computes, for the scope visible at nodeId, the resolved
// Type of every binding in it (spec.md §6: "tryScopeType(...) -> Result
// <mapping name->Type, CommonError>"). cache may be nil, in which case the
// call is stateless; when non-nil it is grown in place with every entry
// this call produced, never shrunk or overwritten (Testable Property 6).
func TryScopeType(settings locale.Settings, nodeIdMap *nodeidmap.Collection, leafIds map[int]bool, nodeId int, cache *TypeCache) (map[string]Type, error) {
	given := cache
	if given == nil {
		given = NewTypeCache()
	}
	delta := NewTypeCache()

	items, err := scopeItemsFor(nodeIdMap, nodeId, given, delta)
	if err != nil {
		return nil, err
	}

	result := make(map[string]Type, len(items))
	for name, item := range items {
		typ, err := typeFor(nodeIdMap, item.XorNode, given, delta)
		if err != nil {
			return nil, err
		}
		result[name] = typ
	}

	mergeDelta(given, delta)
	return result, nil
}

// TryType computes the Type of a single XorNode (spec.md §6:
// "tryType(...) -> Result<Type, CommonError>"), consulting and growing
// cache the same way TryScopeType does.
func TryType(settings locale.Settings, nodeIdMap *nodeidmap.Collection, leafIds map[int]bool, xorNode ast.XorNode, cache *TypeCache) (Type, error) {
	given := cache
	if given == nil {
		given = NewTypeCache()
	}
	delta := NewTypeCache()

	typ, err := typeFor(nodeIdMap, xorNode, given, delta)
	if err != nil {
		return Type{}, err
	}

	mergeDelta(given, delta)
	return typ, nil
}

// primaryStartKeywords is the set of reserved words that can themselves
// begin a primary expression (spec.md §4.D's primary-expression dispatch
// table, restricted to the keyword-shaped alternatives -- identifiers,
// literals and punctuation-led shapes aren't keyword completions).
var primaryStartKeywords = []string{
	"if", "let", "each", "error", "try", "type", "true", "false", "not",
}

// expectedKeywordFor reports the single keyword a context of kind is
// waiting for next, given how many children it has already attached
// (spec.md §8's "if 1 t|" -> suggestion {then} only: the grammar reader's
// own next expected token is a far more precise signal than a generic
// keyword-prefix match once a construct has been committed to). The child
// count, not the context's attribute counter, is the stable signal: a
// failed keyword read and a collapsed expression wrapper both advance the
// counter without leaving a child behind.
func expectedKeywordFor(kind ast.NodeKind, childCount int) (string, bool) {
	switch kind {
	case ast.IfExpression:
		switch childCount {
		case 0:
			return "if", true
		case 2:
			return "then", true
		case 4:
			return "else", true
		}
	case ast.LetExpression:
		switch childCount {
		case 0:
			return "let", true
		case 2:
			return "in", true
		}
	case ast.ErrorHandlingExpression:
		switch childCount {
		case 0:
			return "try", true
		case 2:
			return "otherwise", true
		}
	case ast.EachExpression:
		if childCount == 0 {
			return "each", true
		}
	case ast.ErrorRaisingExpression:
		if childCount == 0 {
			return "error", true
		}
	case ast.Section:
		if childCount == 0 {
			return "section", true
		}
	case ast.FunctionType:
		switch childCount {
		case 0:
			return "function", true
		case 2:
			return "as", true
		}
	case ast.TableType:
		if childCount == 0 {
			return "table", true
		}
	case ast.TypePrimaryType:
		if childCount == 0 {
			return "type", true
		}
	}
	return "", false
}

// Autocomplete computes keyword/binding suggestions at nodeId (spec.md
// §4.H/§6/§8): the "autocomplete" inspection service named in §1 but not
// separately detailed in §4, built directly on the scope walker since that
// is exactly the data autocomplete needs. When nodeId is itself a still-
// open context waiting on a specific next keyword (e.g. an IfExpression
// that has read its condition and is now expecting "then"), that single
// keyword is the whole answer -- a partial token typed at that position
// was never committed to the tree in the first place (the reader deletes
// the failed Constant context), so there is no prefix to filter by.
// Otherwise nodeId is a leaf identifier under construction in an
// unconstrained primary-expression position, and candidates are every
// primary-start keyword plus every binding visible in scope, filtered by
// nodeId's own literal text as a case-insensitive prefix.
func Autocomplete(settings locale.Settings, nodeIdMap *nodeidmap.Collection, leafIds map[int]bool, nodeId int) ([]string, error) {
	if ctx, ok := nodeIdMap.ContextNodeByID(nodeId); ok {
		if kw, ok := expectedKeywordFor(ctx.Kind, len(nodeIdMap.Children(nodeId))); ok {
			return []string{kw}, nil
		}
	}

	prefix := ""
	if n, ok := nodeIdMap.AstNode(nodeId); ok {
		prefix = strings.ToLower(n.Literal)
	}

	items, err := scopeItemsFor(nodeIdMap, nodeId, NewTypeCache(), NewTypeCache())
	if err != nil {
		return nil, err
	}

	candidates := make([]string, 0, len(primaryStartKeywords)+len(items))
	candidates = append(candidates, primaryStartKeywords...)
	for name := range items {
		candidates = append(candidates, name)
	}

	var out []string
	for _, c := range candidates {
		if strings.HasPrefix(strings.ToLower(c), prefix) {
			out = append(out, c)
		}
	}
	sort.Strings(out)
	return out, nil
}
