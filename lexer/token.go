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
Package lexer tokenizes formula language source text into an immutable Snapshot
of Tokens. The parser package treats the Snapshot as an external, read-only
collaborator: it never mutates a Token and only ever advances an index into it.
*/
package lexer

// TokenKind is the closed set of lexical categories the grammar reader
// dispatches on.
type TokenKind int

const (
	TokenEOF TokenKind = iota

	// Value tokens

	TokenIdentifier
	TokenNumber
	TokenTextLiteral
	TokenKeyword
	TokenUnknown

	// Punctuation / operators

	TokenLeftParen
	TokenRightParen
	TokenLeftBracket
	TokenRightBracket
	TokenLeftBrace
	TokenRightBrace
	TokenComma
	TokenSemicolon
	TokenAt
	TokenQuestionMark
	TokenEllipsis
	TokenDotDot
	TokenDot
	TokenArrow // =>
	TokenEqual
	TokenNotEqual
	TokenLessThan
	TokenLessThanOrEqual
	TokenGreaterThan
	TokenGreaterThanOrEqual
	TokenPlus
	TokenMinus
	TokenAmpersand
	TokenAsterisk
	TokenDivide
	TokenColon
)

// Keyword text recognized by the lexer and reported back as TokenKeyword
// tokens; the grammar reader matches on Token.Data for these, the same way
// parser/parser.go dispatched on LexTokenID for ECAL's fixed keyword set.
var Keywords = map[string]bool{
	"and": true, "or": true, "not": true, "if": true, "then": true,
	"else": true, "let": true, "in": true, "each": true, "error": true,
	"try": true, "otherwise": true, "meta": true, "as": true, "is": true,
	"true": true, "false": true, "type": true, "nullable": true,
	"table": true, "function": true, "section": true, "shared": true,
	"optional": true,
	"#sections": true, "#shared": true, "#binary": true, "#date": true,
	"#datetime": true, "#datetimezone": true, "#duration": true,
	"#table": true, "#time": true,
}

// KeywordIdentifierNames is the subset of Keywords that the grammar reader
// also accepts as a plain identifier in expression position (spec.md §4.D's
// keyword-as-identifier handling): these `#`-prefixed names denote section/
// shared/typed-literal markers elsewhere in the grammar but are themselves
// ordinary identifiers when read as a primary expression.
var KeywordIdentifierNames = map[string]bool{
	"#sections": true, "#shared": true, "#binary": true, "#date": true,
	"#datetime": true, "#datetimezone": true, "#duration": true,
	"#table": true, "#time": true,
}

// PrimitiveTypeNames is the closed whitelist primitive-type identifiers must
// come from (spec.md §4.D, "Primitive type").
var PrimitiveTypeNames = map[string]bool{
	"action": true, "any": true, "anynonnull": true, "binary": true,
	"date": true, "datetime": true, "datetimezone": true, "duration": true,
	"function": true, "list": true, "logical": true, "none": true,
	"number": true, "record": true, "table": true, "text": true, "time": true,
}

// Position is a single point in the source text, carried in both code-unit
// offset and line/column form so tooling can report either. The scanner
// counts one code unit per rune, so offsets are rune offsets.
type Position struct {
	CodeUnit     int
	LineNumber   int
	LineCodeUnit int
}

// Token is an immutable lexical unit. Index within a Snapshot's Tokens slice
// is a Token's identity for the parser's purposes.
type Token struct {
	Kind          TokenKind
	Data          string
	PositionStart Position
	PositionEnd   Position
}

// Snapshot is the whole-document, read-only view the parser consumes. It is
// produced once by Lex and never mutated afterward.
type Snapshot struct {
	Tokens []Token
	Text   string
}

// GraphemePositionStartFrom reports a human-facing position for a token. This
// toolkit's source text is assumed to contain no combining grapheme clusters
// that would make a code-unit offset misleading, so it is currently a direct
// passthrough of PositionStart; kept as its own method so callers that do
// need grapheme accounting have a single seam to extend.
func (s Snapshot) GraphemePositionStartFrom(t Token) Position {
	return t.PositionStart
}

// At returns the token at index i, or the final EOF token if i is beyond the
// end of the snapshot. The parser relies on this never panicking so it can
// freely probe one token past where it has read.
func (s Snapshot) At(i int) Token {
	if i < 0 || i >= len(s.Tokens) {
		return s.Tokens[len(s.Tokens)-1]
	}
	return s.Tokens[i]
}

// Len returns the number of tokens, including the trailing EOF token.
func (s Snapshot) Len() int {
	return len(s.Tokens)
}
