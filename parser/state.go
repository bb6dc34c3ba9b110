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
	"github.com/krotik/mshape/locale"
	"github.com/krotik/mshape/nodeidmap"
)

// State is the parser's mutable working set for one parse attempt: the
// token snapshot, a cursor into it, and the context-tree builder (spec.md
// §4.B). A State is exclusively owned by the invocation that created it; it
// is never shared between concurrent callers (spec.md §5).
type State struct {
	Snapshot lexer.Snapshot
	Settings locale.Settings

	TokenIndex int

	Collection        *nodeidmap.Collection
	currentContextId  int
	hasCurrentContext bool
}

// NewState starts a fresh parse attempt at token 0 with an empty context
// tree -- used both for the first attempt at a document and, on failure,
// for the document driver's retry with an alternate start production
// (spec.md §4.F, "resets to token 0 with a fresh context tree").
func NewState(snapshot lexer.Snapshot, settings locale.Settings) *State {
	return &State{
		Snapshot:         snapshot,
		Settings:         settings,
		Collection:       nodeidmap.NewCollection(),
		currentContextId: nodeidmap.NoParentID,
	}
}

func (s *State) current() lexer.Token {
	return s.Snapshot.At(s.TokenIndex)
}

// AtEnd reports whether the cursor is on the trailing EOF token.
func (s *State) AtEnd() bool {
	return s.current().Kind == lexer.TokenEOF
}

// Backup is an opaque capture of a State's position, used by the bounded
// lookahead of the disambiguators and by the document driver's retry
// (spec.md §4.B, "fastStateBackup").
type Backup struct {
	tokenIndex        int
	currentContextId  int
	hasCurrentContext bool
	collection        nodeidmap.CollectionSnapshot
}

// FastStateBackup captures the cursor, the current context, and the shape
// of the context tree.
func (s *State) FastStateBackup() Backup {
	return Backup{
		tokenIndex:        s.TokenIndex,
		currentContextId:  s.currentContextId,
		hasCurrentContext: s.hasCurrentContext,
		collection:        s.Collection.Snapshot(),
	}
}

// ApplyFastStateBackup rewinds the cursor and the context tree to b.
func (s *State) ApplyFastStateBackup(b Backup) {
	s.TokenIndex = b.tokenIndex
	s.currentContextId = b.currentContextId
	s.hasCurrentContext = b.hasCurrentContext
	s.Collection.Restore(b.collection)
}

// StartContext opens a new child context of kind under whatever context is
// currently open (or as the root, if none is), and makes it current.
func (s *State) StartContext(kind ast.NodeKind) *nodeidmap.ContextNode {
	ctx := s.Collection.StartContext(kind, s.currentContextId, s.hasCurrentContext, s.TokenIndex)
	s.currentContextId = ctx.Id
	s.hasCurrentContext = true
	return ctx
}

// EndContext closes the current context, which must match contextId,
// promoting it into an Ast node of the given kind. isLeaf/literal/attributes
// fill in the rest of the Node. The parent context (if any) becomes current
// again.
func (s *State) EndContext(contextId int, kind ast.NodeKind, isLeaf bool, literal string, attributes []int) (*ast.Node, error) {
	if contextId != s.currentContextId {
		return nil, commonInvariantError(s, "EndContext: closing id does not match the current context")
	}

	node := &ast.Node{
		Id:         contextId,
		Kind:       kind,
		IsLeaf:     isLeaf,
		Literal:    literal,
		Attributes: attributes,
	}

	ctx, err := s.Collection.EndContext(node)
	if err != nil {
		return nil, commonInvariantError(s, err.Error())
	}
	node.TokenRange = ast.TokenRange{Start: ctx.TokenIndexStart, End: s.TokenIndex}

	s.currentContextId = ctx.ParentId
	s.hasCurrentContext = ctx.ParentId != nodeidmap.NoParentID

	return node, nil
}

// DeleteContext discards the current context, which must match contextId
// and have at most one child, splicing that child into the parent.
func (s *State) DeleteContext(contextId int) error {
	if contextId != s.currentContextId {
		return commonInvariantError(s, "DeleteContext: closing id does not match the current context")
	}

	ctx, ok := s.Collection.ContextNodeByID(contextId)
	if !ok {
		return commonInvariantError(s, "DeleteContext: context does not exist")
	}

	if err := s.Collection.DeleteContext(contextId); err != nil {
		return commonInvariantError(s, err.Error())
	}

	s.currentContextId = ctx.ParentId
	s.hasCurrentContext = ctx.ParentId != nodeidmap.NoParentID

	return nil
}

// IncrementAttributeCounter advances the current context's next-slot
// counter without creating a child -- used when an optional grammar element
// is absent, so later slot indices stay stable (spec.md §4.B).
func (s *State) IncrementAttributeCounter() {
	s.Collection.IncrementAttributeCounter(s.currentContextId)
}

// ReadToken returns the current token's raw text and advances the cursor by
// one, without any kind checking.
func (s *State) ReadToken() string {
	t := s.current()
	if t.Kind != lexer.TokenEOF {
		s.TokenIndex++
	}
	return t.Data
}

// ReadTokenKind asserts the current token has the given kind, then advances
// past it and returns it. On mismatch it returns an ExpectedTokenKind error
// without advancing.
func (s *State) ReadTokenKind(kind lexer.TokenKind) (lexer.Token, error) {
	t := s.current()
	if t.Kind != kind {
		return lexer.Token{}, newError(s, ErrExpectedTokenKind, kindName(kind), kindName(t.Kind))
	}
	s.TokenIndex++
	return t, nil
}

// ReadAnyTokenKind asserts the current token's kind is one of kinds, then
// advances past it and returns it.
func (s *State) ReadAnyTokenKind(kinds ...lexer.TokenKind) (lexer.Token, error) {
	t := s.current()
	for _, k := range kinds {
		if t.Kind == k {
			s.TokenIndex++
			return t, nil
		}
	}
	return lexer.Token{}, newError(s, ErrExpectedAnyTokenKind, kindNames(kinds), kindName(t.Kind))
}

// ReadKeyword asserts the current token is the keyword word, then advances
// past it.
func (s *State) ReadKeyword(word string) error {
	t := s.current()
	if t.Kind != lexer.TokenKeyword || t.Data != word {
		return newError(s, ErrExpectedTokenKind, "keyword "+word, kindName(t.Kind))
	}
	s.TokenIndex++
	return nil
}

// IsKeyword reports whether the current token is the keyword word, without
// consuming it.
func (s *State) IsKeyword(word string) bool {
	t := s.current()
	return t.Kind == lexer.TokenKeyword && t.Data == word
}

// IsKind reports whether the current token has the given kind, without
// consuming it.
func (s *State) IsKind(kind lexer.TokenKind) bool {
	return s.current().Kind == kind
}

// ReadTokenKindAsConstant reads a token of the given kind and wraps it in a
// single-token Constant Ast node (spec.md §4.B).
func (s *State) ReadTokenKindAsConstant(kind lexer.TokenKind) (*ast.Node, error) {
	ctx := s.StartContext(ast.Constant)
	t, err := s.ReadTokenKind(kind)
	if err != nil {
		s.DeleteContext(ctx.Id)
		return nil, err
	}
	return s.EndContext(ctx.Id, ast.Constant, true, t.Data, nil)
}

// ReadKeywordAsConstant reads the keyword word and wraps it in a single-token
// Constant Ast node.
func (s *State) ReadKeywordAsConstant(word string) (*ast.Node, error) {
	ctx := s.StartContext(ast.Constant)
	if err := s.ReadKeyword(word); err != nil {
		s.DeleteContext(ctx.Id)
		return nil, err
	}
	return s.EndContext(ctx.Id, ast.Constant, true, word, nil)
}

// MaybeReadTokenKindAsConstant reads a Constant of the given kind if the
// current token matches; otherwise it advances the current context's
// attribute counter without creating a child and returns (nil, false).
func (s *State) MaybeReadTokenKindAsConstant(kind lexer.TokenKind) (*ast.Node, bool, error) {
	if !s.IsKind(kind) {
		s.IncrementAttributeCounter()
		return nil, false, nil
	}
	n, err := s.ReadTokenKindAsConstant(kind)
	return n, err == nil, err
}

// MaybeReadKeywordAsConstant reads a keyword Constant if the current token
// matches word; otherwise it advances the attribute counter and returns
// (nil, false).
func (s *State) MaybeReadKeywordAsConstant(word string) (*ast.Node, bool, error) {
	if !s.IsKeyword(word) {
		s.IncrementAttributeCounter()
		return nil, false, nil
	}
	n, err := s.ReadKeywordAsConstant(word)
	return n, err == nil, err
}

func kindName(k lexer.TokenKind) string {
	if name, ok := tokenKindNames[k]; ok {
		return name
	}
	return "unknown"
}

func kindNames(ks []lexer.TokenKind) string {
	out := ""
	for i, k := range ks {
		if i > 0 {
			out += ", "
		}
		out += kindName(k)
	}
	return out
}

var tokenKindNames = map[lexer.TokenKind]string{
	lexer.TokenEOF:                "end of input",
	lexer.TokenIdentifier:         "identifier",
	lexer.TokenNumber:             "number",
	lexer.TokenTextLiteral:        "text literal",
	lexer.TokenKeyword:            "keyword",
	lexer.TokenUnknown:            "unknown",
	lexer.TokenLeftParen:          "'('",
	lexer.TokenRightParen:         "')'",
	lexer.TokenLeftBracket:        "'['",
	lexer.TokenRightBracket:       "']'",
	lexer.TokenLeftBrace:          "'{'",
	lexer.TokenRightBrace:         "'}'",
	lexer.TokenComma:              "','",
	lexer.TokenSemicolon:          "';'",
	lexer.TokenAt:                 "'@'",
	lexer.TokenQuestionMark:       "'?'",
	lexer.TokenEllipsis:           "'...'",
	lexer.TokenDotDot:             "'..'",
	lexer.TokenDot:                "'.'",
	lexer.TokenArrow:              "'=>'",
	lexer.TokenEqual:              "'='",
	lexer.TokenNotEqual:           "'<>'",
	lexer.TokenLessThan:           "'<'",
	lexer.TokenLessThanOrEqual:    "'<='",
	lexer.TokenGreaterThan:        "'>'",
	lexer.TokenGreaterThanOrEqual: "'>='",
	lexer.TokenPlus:               "'+'",
	lexer.TokenMinus:              "'-'",
	lexer.TokenAmpersand:          "'&'",
	lexer.TokenAsterisk:           "'*'",
	lexer.TokenDivide:             "'/'",
	lexer.TokenColon:              "':'",
}
