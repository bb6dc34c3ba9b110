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
	"testing"

	"github.com/krotik/mshape/ast"
	"github.com/krotik/mshape/lexer"
	"github.com/krotik/mshape/locale"
	"github.com/krotik/mshape/parser"
)

func mustParse(t *testing.T, src string) *parser.Result {
	t.Helper()
	snap, err := lexer.Lex(src)
	if err != nil {
		t.Fatalf("lex(%q): %v", src, err)
	}
	res, err := parser.TryParse(locale.NewSettings(locale.EnUS), snap)
	if err != nil {
		t.Fatalf("parse(%q): %v", src, err)
	}
	return res
}

func findFirst(t *testing.T, res *parser.Result, kind ast.NodeKind) int {
	t.Helper()
	var found int
	var ok bool
	var walk func(id int)
	walk = func(id int) {
		if ok {
			return
		}
		if k, has := res.NodeIdMap.Kind(id); has && k == kind {
			found, ok = id, true
			return
		}
		for _, c := range res.NodeIdMap.Children(id) {
			walk(c)
		}
	}
	walk(res.Root.Id)
	if !ok {
		t.Fatalf("no %v node found in %q", kind, res.Root.Kind)
	}
	return found
}

func TestTryScopeTypeLetBindings(t *testing.T) {
	res := mustParse(t, "let a = 1, b = \"x\" in a")
	body := res.Root.Attributes[3]

	scope, err := TryScopeType(locale.NewSettings(locale.EnUS), res.NodeIdMap, res.LeafNodeIds, body, nil)
	if err != nil {
		t.Fatalf("TryScopeType: %v", err)
	}

	if got := scope["a"]; got.Kind != KindNumber {
		t.Errorf("scope[a] = %v, want Number", got)
	}
	if got := scope["b"]; got.Kind != KindText {
		t.Errorf("scope[b] = %v, want Text", got)
	}
}

func TestTryScopeTypeShadowing(t *testing.T) {
	res := mustParse(t, "let a = 1 in let a = \"x\" in a")
	innerLet := findFirst(t, res, ast.LetExpression) // outer Let is the root; find the nested one via its body
	// The root LetExpression's body (attr 3) is itself the nested LetExpression.
	innerLet = res.Root.Attributes[3]
	innerBody := mustAstNode(t, res, innerLet).Attributes[3]

	scope, err := TryScopeType(locale.NewSettings(locale.EnUS), res.NodeIdMap, res.LeafNodeIds, innerBody, nil)
	if err != nil {
		t.Fatalf("TryScopeType: %v", err)
	}
	if got := scope["a"]; got.Kind != KindText {
		t.Errorf("innermost 'a' should shadow outer: got %v, want Text", got)
	}
}

func mustAstNode(t *testing.T, res *parser.Result, id int) *ast.Node {
	t.Helper()
	n, ok := res.NodeIdMap.AstNode(id)
	if !ok {
		t.Fatalf("no ast node %d", id)
	}
	return n
}

func TestTryScopeTypeFunctionParameters(t *testing.T) {
	res := mustParse(t, "(x as number, y) => x")
	body := res.Root.Attributes[4]

	scope, err := TryScopeType(locale.NewSettings(locale.EnUS), res.NodeIdMap, res.LeafNodeIds, body, nil)
	if err != nil {
		t.Fatalf("TryScopeType: %v", err)
	}
	if got := scope["x"]; got.Kind != KindNumber {
		t.Errorf("scope[x] = %v, want Number", got)
	}
	if got := scope["y"]; got.Kind != KindAny || !got.IsNullable {
		t.Errorf("scope[y] = %v, want (Any, nullable)", got)
	}
}

func TestTryTypeLiteralKinds(t *testing.T) {
	cases := map[string]PrimitiveKind{
		`1`:     KindNumber,
		`1.5`:   KindNumber,
		`"hi"`:  KindText,
		`true`:  KindLogical,
		`false`: KindLogical,
	}
	for src, want := range cases {
		res := mustParse(t, src)
		typ, err := TryType(locale.NewSettings(locale.EnUS), res.NodeIdMap, res.LeafNodeIds, ast.XorNode{Id: res.Root.Id, IsAst: true}, nil)
		if err != nil {
			t.Fatalf("TryType(%q): %v", src, err)
		}
		if typ.Kind != want {
			t.Errorf("TryType(%q) = %v, want %v", src, typ.Kind, want)
		}
	}
}

func TestTryTypeIfBothArmsAgree(t *testing.T) {
	res := mustParse(t, "if true then 1 else 2")
	typ, err := TryType(locale.NewSettings(locale.EnUS), res.NodeIdMap, res.LeafNodeIds, ast.XorNode{Id: res.Root.Id, IsAst: true}, nil)
	if err != nil {
		t.Fatalf("TryType: %v", err)
	}
	if typ.Kind != KindNumber {
		t.Errorf("TryType(if/then/else) = %v, want Number", typ.Kind)
	}
}

func TestTryTypeIfArmsDisagreeIsUnknown(t *testing.T) {
	res := mustParse(t, `if true then 1 else "x"`)
	typ, err := TryType(locale.NewSettings(locale.EnUS), res.NodeIdMap, res.LeafNodeIds, ast.XorNode{Id: res.Root.Id, IsAst: true}, nil)
	if err != nil {
		t.Fatalf("TryType: %v", err)
	}
	if typ.Kind != KindUnknown {
		t.Errorf("TryType(mismatched if) = %v, want Unknown", typ.Kind)
	}
}

func TestTryTypeAsExpression(t *testing.T) {
	res := mustParse(t, "1 as nullable number")
	typ, err := TryType(locale.NewSettings(locale.EnUS), res.NodeIdMap, res.LeafNodeIds, ast.XorNode{Id: res.Root.Id, IsAst: true}, nil)
	if err != nil {
		t.Fatalf("TryType: %v", err)
	}
	if typ.Kind != KindNumber || !typ.IsNullable {
		t.Errorf("TryType(as nullable number) = %v, want (Number, nullable)", typ)
	}
}

func TestCacheMonotonicity(t *testing.T) {
	res := mustParse(t, "let a = 1 in a")
	body := res.Root.Attributes[3]
	cache := NewTypeCache()

	if _, err := TryScopeType(locale.NewSettings(locale.EnUS), res.NodeIdMap, res.LeafNodeIds, body, cache); err != nil {
		t.Fatalf("TryScopeType (1st): %v", err)
	}
	before := len(cache.ScopeById) + len(cache.TypeById)

	if _, err := TryScopeType(locale.NewSettings(locale.EnUS), res.NodeIdMap, res.LeafNodeIds, body, cache); err != nil {
		t.Fatalf("TryScopeType (2nd): %v", err)
	}
	after := len(cache.ScopeById) + len(cache.TypeById)

	if after < before {
		t.Errorf("cache shrank across calls: before=%d after=%d", before, after)
	}
}

func TestAutocompletePrimaryExpressionStart(t *testing.T) {
	res := mustParse(t, "t")
	out, err := Autocomplete(locale.NewSettings(locale.EnUS), res.NodeIdMap, res.LeafNodeIds, res.Root.Id)
	if err != nil {
		t.Fatalf("Autocomplete: %v", err)
	}
	want := []string{"true", "try", "type"}
	if !equalStrings(out, want) {
		t.Errorf("Autocomplete(%q) = %v, want %v", "t", out, want)
	}
}

func TestAutocompleteExpectedKeywordInPartialIf(t *testing.T) {
	snap, err := lexer.Lex("if 1 t")
	if err != nil {
		t.Fatalf("lex: %v", err)
	}
	_, parseErr := parser.TryParse(locale.NewSettings(locale.EnUS), snap)
	pe, ok := parseErr.(*parser.Error)
	if !ok {
		t.Fatalf("expected *parser.Error, got %T", parseErr)
	}

	rootId, hasRoot := pe.Context.Root()
	if !hasRoot {
		t.Fatalf("expected a partial context tree")
	}

	out, err := Autocomplete(locale.NewSettings(locale.EnUS), pe.Context, nil, rootId)
	if err != nil {
		t.Fatalf("Autocomplete: %v", err)
	}
	if !equalStrings(out, []string{"then"}) {
		t.Errorf("Autocomplete(partial if) = %v, want [then]", out)
	}
}

func equalStrings(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
