/*
 * mshape
 *
 * Copyright 2020 Matthias Ladkau. All rights reserved.
 *
 * This Source Code Form is subject to the terms of the MIT
 * License, If a copy of the MIT License was not distributed with this
 * file, You can obtain one at https://opensource.org/licenses/MIT.
 */

/*
Package parser implements the recursive-descent grammar reader, the two
lookahead disambiguators, and the document driver described in spec.md §4.
It builds a github.com/krotik/mshape/ast tree while maintaining a parallel
context tree in a github.com/krotik/mshape/nodeidmap.Collection.
*/
package parser

import (
	"fmt"

	"github.com/krotik/mshape/lexer"
	"github.com/krotik/mshape/locale"
	"github.com/krotik/mshape/nodeidmap"
)

// ErrorKind is the closed set of parse-failure categories of spec.md §7.
type ErrorKind string

const (
	ErrCommonInvariant           ErrorKind = "CommonInvariant"
	ErrExpectedTokenKind         ErrorKind = "ExpectedTokenKind"
	ErrExpectedAnyTokenKind      ErrorKind = "ExpectedAnyTokenKind"
	ErrInvalidPrimitiveType      ErrorKind = "InvalidPrimitiveType"
	ErrUnusedTokensRemain        ErrorKind = "UnusedTokensRemain"
	ErrUnterminatedParentheses   ErrorKind = "UnterminatedParentheses"
	ErrUnterminatedBracket       ErrorKind = "UnterminatedBracket"
	ErrRequiredParameterAfterOpt ErrorKind = "RequiredParameterAfterOptional"
)

var errorKeys = map[ErrorKind]locale.ErrorKey{
	ErrCommonInvariant:           locale.KeyCommonInvariant,
	ErrExpectedTokenKind:         locale.KeyExpectedTokenKind,
	ErrExpectedAnyTokenKind:      locale.KeyExpectedAnyTokenKind,
	ErrInvalidPrimitiveType:      locale.KeyInvalidPrimitiveType,
	ErrUnusedTokensRemain:        locale.KeyUnusedTokensRemain,
	ErrUnterminatedParentheses:   locale.KeyUnterminatedParentheses,
	ErrUnterminatedBracket:       locale.KeyUnterminatedBracket,
	ErrRequiredParameterAfterOpt: locale.KeyRequiredParameterAfterOpt,
}

// Error is a parse failure: a category (Kind), the position it was detected
// at, how many tokens had been consumed when it happened (used by the
// document driver's tie-break, spec.md §4.F), and a reference to the
// (partial) context tree at the point of failure so tooling can inspect it.
type Error struct {
	Kind           ErrorKind
	Position       lexer.Position
	TokensConsumed int
	Context        *nodeidmap.Collection
	message        string
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s at line %d, col %d: %s",
		e.Kind, e.Position.LineNumber, e.Position.LineCodeUnit, e.message)
}

func newError(s *State, kind ErrorKind, args ...interface{}) *Error {
	tmpl := locale.Template(s.Settings.Locale, errorKeys[kind])
	return &Error{
		Kind:           kind,
		Position:       s.current().PositionStart,
		TokensConsumed: s.TokenIndex,
		Context:        s.Collection,
		message:        fmt.Sprintf(tmpl, args...),
	}
}

func commonInvariantError(s *State, detail string) *Error {
	return newError(s, ErrCommonInvariant, detail)
}

// unterminatedError reports a more specific error than a bare
// ExpectedTokenKind when a wrapped construct's closing delimiter is missing
// (spec.md §7): parens and brackets each get their own named category since
// "ran off the end of a ( or [" is a much more common mistake than a generic
// wrong-token one.
func unterminatedError(s *State, closeKind lexer.TokenKind) *Error {
	switch closeKind {
	case lexer.TokenRightParen:
		return newError(s, ErrUnterminatedParentheses)
	case lexer.TokenRightBracket:
		return newError(s, ErrUnterminatedBracket)
	default:
		return newError(s, ErrExpectedTokenKind, kindName(closeKind), kindName(s.current().Kind))
	}
}
