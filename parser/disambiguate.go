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

import "github.com/krotik/mshape/lexer"

// disambiguateParenStart resolves the function-expression-vs-parenthesized-
// expression ambiguity of spec.md §4.E: both start with '('. It scans ahead
// to the matching ')' and checks whether 'as' or '=>' follows, then restores
// the cursor and context tree exactly as FastStateBackup captured them --
// the disambiguator must never leave a trace of its lookahead behind.
func disambiguateParenStart(s *State) bool {
	backup := s.FastStateBackup()
	defer s.ApplyFastStateBackup(backup)

	if !s.IsKind(lexer.TokenLeftParen) {
		return false
	}

	s.ReadToken()
	depth := 1
	for depth > 0 {
		t := s.current()
		if t.Kind == lexer.TokenEOF {
			return false
		}
		if t.Kind == lexer.TokenLeftParen {
			depth++
		} else if t.Kind == lexer.TokenRightParen {
			depth--
		}
		s.ReadToken()
	}

	if s.IsKind(lexer.TokenArrow) {
		return true
	}
	if !s.IsKeyword("as") {
		return false
	}

	// The matching ')' is followed by 'as': this is only a FunctionExpression
	// head if '=>' follows the as-clause's type too -- a plain parenthesized
	// expression can itself carry an 'as' suffix, e.g. "(x) as number". Consume
	// the nullable primitive type under its own saved state, then restore and
	// check what follows it.
	typeBackup := s.FastStateBackup()
	s.ReadToken()
	_, err := readNullablePrimitiveType(s)
	arrowFollows := err == nil && s.IsKind(lexer.TokenArrow)
	s.ApplyFastStateBackup(typeBackup)

	return arrowFollows
}

// bracketShape is the bracket-start disambiguator's verdict: which of the
// three '['-led productions to commit to (spec.md §4.E).
type bracketShape int

const (
	bracketRecord bracketShape = iota
	bracketFieldSelector
	bracketFieldProjection
)

// disambiguateBracketStart resolves the Record-vs-FieldSelection-vs-
// FieldProjection ambiguity: all three start with '['. An empty bracket or
// one followed eventually by '=' is a record; a nested '[' is a projection;
// a single generalized identifier with nothing else is a selector. Anything
// else falls back to "record" so the real reader produces a precise error.
func disambiguateBracketStart(s *State) bracketShape {
	backup := s.FastStateBackup()
	defer s.ApplyFastStateBackup(backup)

	if !s.IsKind(lexer.TokenLeftBracket) {
		return bracketRecord
	}
	s.ReadToken()

	if s.IsKind(lexer.TokenRightBracket) {
		return bracketRecord
	}
	if s.IsKind(lexer.TokenLeftBracket) {
		return bracketFieldProjection
	}
	if !isOnGeneralizedIdentifierToken(s.current()) {
		return bracketRecord
	}

	lastEnd := s.current().PositionEnd
	s.ReadToken()
	for isOnGeneralizedIdentifierToken(s.current()) && noWhitespaceBetween(lastEnd, s.current().PositionStart) {
		lastEnd = s.current().PositionEnd
		s.ReadToken()
	}

	if s.IsKind(lexer.TokenRightBracket) {
		return bracketFieldSelector
	}
	return bracketRecord
}
