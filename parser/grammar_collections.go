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

func readIdentifierPairedExpression(s *State) (*ast.Node, error) {
	return readKeyValue(s, ast.IdentifierPairedExpression, readIdentifier, ReadExpression)
}

func readGeneralizedIdentifierPairedExpression(s *State) (*ast.Node, error) {
	return readKeyValue(s, ast.GeneralizedIdentifierPairedExpression, readGeneralizedIdentifier, ReadExpression)
}

// readRecordExpression reads `[ generalized-identifier '=' expression, ... ]`.
func readRecordExpression(s *State) (*ast.Node, error) {
	return readWrapped(s, ast.RecordExpression, lexer.TokenLeftBracket, lexer.TokenRightBracket,
		func(s *State) (*ast.Node, error) {
			return readCsvArray(s, lexer.TokenRightBracket, readGeneralizedIdentifierPairedExpression)
		},
		false)
}

// readListExpression reads `{ expression, ... }`.
func readListExpression(s *State) (*ast.Node, error) {
	return readWrapped(s, ast.ListExpression, lexer.TokenLeftBrace, lexer.TokenRightBrace,
		func(s *State) (*ast.Node, error) { return readCsvArray(s, lexer.TokenRightBrace, ReadExpression) },
		false)
}

// readFieldSelectorInner reads the bracketed name inside a FieldProjection's
// list, e.g. the `[a]` in `x[[a], [b]]` -- no trailing '?', which belongs
// only to the projection as a whole.
func readFieldSelectorInner(s *State) (*ast.Node, error) {
	return readWrapped(s, ast.FieldSelector, lexer.TokenLeftBracket, lexer.TokenRightBracket, readGeneralizedIdentifier, false)
}

// readFieldSelector reads a standalone `[name]['?']` field selector, the
// shape the bracket-start disambiguator picks when exactly one generalized
// identifier appears with no following comma (spec.md §4.E).
func readFieldSelector(s *State) (*ast.Node, error) {
	return readWrapped(s, ast.FieldSelector, lexer.TokenLeftBracket, lexer.TokenRightBracket, readGeneralizedIdentifier, true)
}

// readFieldProjection reads a standalone `[[a], [b], ...]['?']` field
// projection.
func readFieldProjection(s *State) (*ast.Node, error) {
	return readWrapped(s, ast.FieldProjection, lexer.TokenLeftBracket, lexer.TokenRightBracket,
		func(s *State) (*ast.Node, error) {
			return readCsvArray(s, lexer.TokenRightBracket, readFieldSelectorInner)
		},
		true)
}

// readInvokeExpression reads the `'(' expression, ... ')'` call suffix of a
// recursive primary expression.
func readInvokeExpression(s *State) (*ast.Node, error) {
	return readWrapped(s, ast.InvokeExpression, lexer.TokenLeftParen, lexer.TokenRightParen,
		func(s *State) (*ast.Node, error) { return readCsvArray(s, lexer.TokenRightParen, ReadExpression) },
		false)
}

// readItemAccessExpression reads the `'{' expression '}' ['?']` item-access
// suffix.
func readItemAccessExpression(s *State) (*ast.Node, error) {
	return readWrapped(s, ast.ItemAccessExpression, lexer.TokenLeftBrace, lexer.TokenRightBrace, ReadExpression, true)
}
