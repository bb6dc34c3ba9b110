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

// foldBinary implements the "binary operator ladder" helper of spec.md
// §4.D: it reads `operand (Op operand)*` and folds left-associatively. Each
// fold wraps the already-parsed left operand in a freshly opened context of
// kind -- the wrapper's kind, and indeed its existence, is only known once
// an operator is actually seen, so the left operand is re-parented into it
// with the same tree surgery recursive primary expressions use (spec.md
// §4.C/§9).
func foldBinary(s *State, operand func(*State) (*ast.Node, error), kind ast.NodeKind, matchOp func(lexer.Token) bool) (*ast.Node, error) {
	left, err := operand(s)
	if err != nil {
		return nil, err
	}

	for matchOp(s.current()) {
		wrapperCtx := s.StartContext(kind)
		if err := s.Collection.ReparentUnderNewContext(left.Id, wrapperCtx.Id); err != nil {
			return nil, commonInvariantError(s, err.Error())
		}

		opNode, err := readOperatorConstant(s)
		if err != nil {
			return nil, err
		}

		right, err := operand(s)
		if err != nil {
			return nil, err
		}

		left, err = s.EndContext(wrapperCtx.Id, kind, false, "", []int{left.Id, opNode.Id, right.Id})
		if err != nil {
			return nil, err
		}
	}

	return left, nil
}

func readOperatorConstant(s *State) (*ast.Node, error) {
	t := s.current()
	if t.Kind == lexer.TokenKeyword {
		return s.ReadKeywordAsConstant(t.Data)
	}
	return s.ReadTokenKindAsConstant(t.Kind)
}

// maybeSuffix implements a single, optional Op-then-operand suffix: used for
// `is`, `as`, and `meta` (spec.md §4.D: "metadata ... right-associative,
// single optional suffix" -- `is`/`as` share the same one-shot shape).
func maybeSuffix(s *State, operand func(*State) (*ast.Node, error), kind ast.NodeKind, keyword string, readRight func(*State) (*ast.Node, error)) (*ast.Node, error) {
	left, err := operand(s)
	if err != nil {
		return nil, err
	}

	if !s.IsKeyword(keyword) {
		return left, nil
	}

	wrapperCtx := s.StartContext(kind)
	if err := s.Collection.ReparentUnderNewContext(left.Id, wrapperCtx.Id); err != nil {
		return nil, commonInvariantError(s, err.Error())
	}

	opNode, err := s.ReadKeywordAsConstant(keyword)
	if err != nil {
		return nil, err
	}

	right, err := readRight(s)
	if err != nil {
		return nil, err
	}

	return s.EndContext(wrapperCtx.Id, kind, false, "", []int{left.Id, opNode.Id, right.Id})
}

func isLogicalOp(t lexer.Token) bool {
	return t.Kind == lexer.TokenKeyword && (t.Data == "and" || t.Data == "or")
}

func isEqualityOp(t lexer.Token) bool {
	return t.Kind == lexer.TokenEqual || t.Kind == lexer.TokenNotEqual
}

func isRelationalOp(t lexer.Token) bool {
	switch t.Kind {
	case lexer.TokenLessThan, lexer.TokenLessThanOrEqual, lexer.TokenGreaterThan, lexer.TokenGreaterThanOrEqual:
		return true
	}
	return false
}

func isArithmeticOp(t lexer.Token) bool {
	switch t.Kind {
	case lexer.TokenPlus, lexer.TokenMinus, lexer.TokenAmpersand, lexer.TokenAsterisk, lexer.TokenDivide:
		return true
	}
	return false
}

// readLogicalExpression is the lowest-precedence level of the ladder.
func readLogicalExpression(s *State) (*ast.Node, error) {
	return foldBinary(s, readIsExpression, ast.LogicalExpression, isLogicalOp)
}

func readIsExpression(s *State) (*ast.Node, error) {
	return maybeSuffix(s, readAsExpression, ast.IsExpression, "is", readNullablePrimitiveType)
}

func readAsExpression(s *State) (*ast.Node, error) {
	return maybeSuffix(s, readEqualityExpression, ast.AsExpression, "as", readNullablePrimitiveType)
}

func readEqualityExpression(s *State) (*ast.Node, error) {
	return foldBinary(s, readRelationalExpression, ast.EqualityExpression, isEqualityOp)
}

func readRelationalExpression(s *State) (*ast.Node, error) {
	return foldBinary(s, readArithmeticExpression, ast.RelationalExpression, isRelationalOp)
}

func readArithmeticExpression(s *State) (*ast.Node, error) {
	return foldBinary(s, readMetadataExpression, ast.ArithmeticExpression, isArithmeticOp)
}

func readMetadataExpression(s *State) (*ast.Node, error) {
	return maybeSuffix(s, readUnaryExpression, ast.MetadataExpression, "meta", readUnaryExpression)
}

func isUnaryPrefix(t lexer.Token) bool {
	if t.Kind == lexer.TokenPlus || t.Kind == lexer.TokenMinus {
		return true
	}
	return t.Kind == lexer.TokenKeyword && t.Data == "not"
}

// readUnaryExpression reads a sequence of prefix `+`/`-`/`not` operators.
// Unlike the binary levels, the operator precedes its operand, so no tree
// surgery is needed: each prefix simply starts its own context before
// recursing for the next one.
func readUnaryExpression(s *State) (*ast.Node, error) {
	if !isUnaryPrefix(s.current()) {
		return readRecursivePrimaryExpression(s)
	}

	ctx := s.StartContext(ast.UnaryExpression)

	var opNode *ast.Node
	var err error
	if s.IsKeyword("not") {
		opNode, err = s.ReadKeywordAsConstant("not")
	} else {
		opNode, err = s.ReadTokenKindAsConstant(s.current().Kind)
	}
	if err != nil {
		s.DeleteContext(ctx.Id)
		return nil, err
	}

	operand, err := readUnaryExpression(s)
	if err != nil {
		return nil, err
	}

	return s.EndContext(ctx.Id, ast.UnaryExpression, false, "", []int{opNode.Id, operand.Id})
}

// ReadExpression is the grammar's top-level expression entry point (the head
// of the precedence ladder of spec.md §4.D).
func ReadExpression(s *State) (*ast.Node, error) {
	return readLogicalExpression(s)
}
