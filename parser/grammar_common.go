/*
 * mshape
 *
 * Copyright 2020 Matthias Ladkau. All rights reserved.
 *
 * This Source Code Form is subject to the terms of the MIT
 * License, If a copy of the MIT License was not distributed with this
 * file, You can obtain one at https://opensource.org/licenses/MIT.
 */

package parser

import (
	"github.com/krotik/mshape/ast"
	"github.com/krotik/mshape/lexer"
)

// readCsvArray implements the Csv-array reader of spec.md §4.D: it reads
// `value (',' value)*` with an optional trailing comma and wraps the result
// in an ArrayWrapper of Csv nodes, each carrying its own optional comma.
// terminator is the token kind that closes the surrounding construct, so an
// empty array (e.g. `()`, `[]`, `{}`) can be recognized without attempting a
// value read at all.
func readCsvArray(s *State, terminator lexer.TokenKind, readValue func(*State) (*ast.Node, error)) (*ast.Node, error) {
	wrapperCtx := s.StartContext(ast.ArrayWrapper)

	if s.IsKind(terminator) {
		return s.EndContext(wrapperCtx.Id, ast.ArrayWrapper, false, "", nil)
	}

	var elementIds []int
	for {
		csvCtx := s.StartContext(ast.Csv)

		value, err := readValue(s)
		if err != nil {
			s.DeleteContext(csvCtx.Id)
			s.DeleteContext(wrapperCtx.Id)
			return nil, err
		}

		commaNode, hasComma, err := s.MaybeReadTokenKindAsConstant(lexer.TokenComma)
		if err != nil {
			return nil, err
		}
		commaId := ast.NoAttribute
		if hasComma {
			commaId = commaNode.Id
		}

		csvNode, err := s.EndContext(csvCtx.Id, ast.Csv, false, "", []int{value.Id, commaId})
		if err != nil {
			return nil, err
		}
		elementIds = append(elementIds, csvNode.Id)

		if !hasComma {
			break
		}
	}

	return s.EndContext(wrapperCtx.Id, ast.ArrayWrapper, false, "", elementIds)
}

// readKeyValue implements the key-value reader of spec.md §4.D: `key '=' value`.
func readKeyValue(s *State, kind ast.NodeKind, readKey, readValue func(*State) (*ast.Node, error)) (*ast.Node, error) {
	ctx := s.StartContext(kind)

	key, err := readKey(s)
	if err != nil {
		s.DeleteContext(ctx.Id)
		return nil, err
	}

	eq, err := s.ReadTokenKindAsConstant(lexer.TokenEqual)
	if err != nil {
		return nil, err
	}

	value, err := readValue(s)
	if err != nil {
		return nil, err
	}

	return s.EndContext(ctx.Id, kind, false, "", []int{key.Id, eq.Id, value.Id})
}

// readWrapped implements the wrapped reader W(open, content, close,
// allowOptional) of spec.md §4.D.
func readWrapped(s *State, kind ast.NodeKind, open, closeKind lexer.TokenKind, readContent func(*State) (*ast.Node, error), allowOptional bool) (*ast.Node, error) {
	ctx := s.StartContext(kind)

	openConst, err := s.ReadTokenKindAsConstant(open)
	if err != nil {
		s.DeleteContext(ctx.Id)
		return nil, err
	}

	content, err := readContent(s)
	if err != nil {
		return nil, err
	}

	closeConst, err := s.ReadTokenKindAsConstant(closeKind)
	if err != nil {
		return nil, unterminatedError(s, closeKind)
	}

	attrs := []int{openConst.Id, content.Id, closeConst.Id}

	if allowOptional {
		qNode, hasQ, err := s.MaybeReadTokenKindAsConstant(lexer.TokenQuestionMark)
		if err != nil {
			return nil, err
		}
		qId := ast.NoAttribute
		if hasQ {
			qId = qNode.Id
		}
		attrs = append(attrs, qId)
	}

	return s.EndContext(ctx.Id, kind, false, "", attrs)
}

// isOnGeneralizedIdentifierToken reports whether the current token could
// contribute to a generalized identifier: any identifier-like or keyword
// token with no intervening whitespace from its predecessor (spec.md §4.D).
func isOnGeneralizedIdentifierToken(t lexer.Token) bool {
	return t.Kind == lexer.TokenIdentifier || t.Kind == lexer.TokenKeyword
}

func noWhitespaceBetween(end, start lexer.Position) bool {
	return end.CodeUnit == start.CodeUnit
}

func isAllDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// sliceSourceText reconstructs the literal text a generalized identifier
// spans by slicing the source between two token positions (spec.md §4.D).
func sliceSourceText(snap lexer.Snapshot, start, end lexer.Position) string {
	runes := []rune(snap.Text)
	lo, hi := start.CodeUnit, end.CodeUnit
	if lo < 0 {
		lo = 0
	}
	if hi > len(runes) {
		hi = len(runes)
	}
	if lo > hi {
		return ""
	}
	return string(runes[lo:hi])
}

// readGeneralizedIdentifier implements the Identifier-vs-generalized-
// identifier rule of spec.md §4.D: it scans while on a generalized-
// identifier-eligible token with no whitespace since the previous one, and
// reconstructs the literal from the source text, except that a generalized
// identifier consisting solely of digits is consumed as a single numeric
// token.
//
// spec.md §9 flags the digits-only special case as an under-specified
// limitation of the source grammar (it admits "1.a" but not other Unicode
// digit classes); this follows the documented rule rather than silently
// widening it.
func readGeneralizedIdentifier(s *State) (*ast.Node, error) {
	ctx := s.StartContext(ast.GeneralizedIdentifier)

	first := s.current()

	if first.Kind == lexer.TokenNumber && isAllDigits(first.Data) {
		s.ReadToken()
		return s.EndContext(ctx.Id, ast.GeneralizedIdentifier, true, first.Data, nil)
	}

	if !isOnGeneralizedIdentifierToken(first) {
		s.DeleteContext(ctx.Id)
		return nil, newError(s, ErrExpectedTokenKind, "identifier", kindName(first.Kind))
	}

	lastEnd := first.PositionEnd
	s.ReadToken()

	for isOnGeneralizedIdentifierToken(s.current()) && noWhitespaceBetween(lastEnd, s.current().PositionStart) {
		lastEnd = s.current().PositionEnd
		s.ReadToken()
	}

	literal := sliceSourceText(s.Snapshot, first.PositionStart, lastEnd)

	return s.EndContext(ctx.Id, ast.GeneralizedIdentifier, true, literal, nil)
}

// readIdentifier reads a (possibly @-quoted) simple identifier as a single
// leaf node. It also accepts the `#`-prefixed keywords in
// lexer.KeywordIdentifierNames as identifiers (spec.md §4.D's keyword-as-
// identifier handling): those names are reserved words everywhere else in
// the grammar but are ordinary identifiers in expression position.
func readIdentifier(s *State) (*ast.Node, error) {
	ctx := s.StartContext(ast.Identifier)

	prefix := ""
	if s.IsKind(lexer.TokenAt) {
		s.ReadToken()
		prefix = "@"
	}

	if t := s.current(); t.Kind == lexer.TokenKeyword && lexer.KeywordIdentifierNames[t.Data] {
		s.ReadToken()
		return s.EndContext(ctx.Id, ast.Identifier, true, prefix+t.Data, nil)
	}

	t, err := s.ReadTokenKind(lexer.TokenIdentifier)
	if err != nil {
		s.DeleteContext(ctx.Id)
		return nil, err
	}

	return s.EndContext(ctx.Id, ast.Identifier, true, prefix+t.Data, nil)
}
