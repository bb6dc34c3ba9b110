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

func readLiteralExpression(s *State) (*ast.Node, error) {
	ctx := s.StartContext(ast.LiteralExpression)

	t := s.current()
	switch {
	case t.Kind == lexer.TokenNumber, t.Kind == lexer.TokenTextLiteral:
		s.ReadToken()
		return s.EndContext(ctx.Id, ast.LiteralExpression, true, t.Data, nil)
	case t.Kind == lexer.TokenKeyword && (t.Data == "true" || t.Data == "false"):
		s.ReadToken()
		return s.EndContext(ctx.Id, ast.LiteralExpression, true, t.Data, nil)
	default:
		s.DeleteContext(ctx.Id)
		return nil, newError(s, ErrExpectedTokenKind, "literal", kindName(t.Kind))
	}
}

func readNotImplementedExpression(s *State) (*ast.Node, error) {
	ctx := s.StartContext(ast.NotImplementedExpression)
	if _, err := s.ReadTokenKind(lexer.TokenEllipsis); err != nil {
		s.DeleteContext(ctx.Id)
		return nil, err
	}
	return s.EndContext(ctx.Id, ast.NotImplementedExpression, true, "...", nil)
}

func readIfExpression(s *State) (*ast.Node, error) {
	ctx := s.StartContext(ast.IfExpression)

	ifKw, err := s.ReadKeywordAsConstant("if")
	if err != nil {
		s.DeleteContext(ctx.Id)
		return nil, err
	}
	cond, err := ReadExpression(s)
	if err != nil {
		return nil, err
	}
	thenKw, err := s.ReadKeywordAsConstant("then")
	if err != nil {
		return nil, err
	}
	thenExpr, err := ReadExpression(s)
	if err != nil {
		return nil, err
	}
	elseKw, err := s.ReadKeywordAsConstant("else")
	if err != nil {
		return nil, err
	}
	elseExpr, err := ReadExpression(s)
	if err != nil {
		return nil, err
	}

	return s.EndContext(ctx.Id, ast.IfExpression, false, "",
		[]int{ifKw.Id, cond.Id, thenKw.Id, thenExpr.Id, elseKw.Id, elseExpr.Id})
}

func readLetExpression(s *State) (*ast.Node, error) {
	ctx := s.StartContext(ast.LetExpression)

	letKw, err := s.ReadKeywordAsConstant("let")
	if err != nil {
		s.DeleteContext(ctx.Id)
		return nil, err
	}

	vars, err := readCsvArray(s, lexer.TokenEOF, readIdentifierPairedExpression)
	if err != nil {
		return nil, err
	}

	inKw, err := s.ReadKeywordAsConstant("in")
	if err != nil {
		return nil, err
	}

	body, err := ReadExpression(s)
	if err != nil {
		return nil, err
	}

	return s.EndContext(ctx.Id, ast.LetExpression, false, "", []int{letKw.Id, vars.Id, inKw.Id, body.Id})
}

func readEachExpression(s *State) (*ast.Node, error) {
	ctx := s.StartContext(ast.EachExpression)

	kw, err := s.ReadKeywordAsConstant("each")
	if err != nil {
		s.DeleteContext(ctx.Id)
		return nil, err
	}
	body, err := ReadExpression(s)
	if err != nil {
		return nil, err
	}
	return s.EndContext(ctx.Id, ast.EachExpression, false, "", []int{kw.Id, body.Id})
}

func readErrorRaisingExpression(s *State) (*ast.Node, error) {
	ctx := s.StartContext(ast.ErrorRaisingExpression)

	kw, err := s.ReadKeywordAsConstant("error")
	if err != nil {
		s.DeleteContext(ctx.Id)
		return nil, err
	}
	body, err := ReadExpression(s)
	if err != nil {
		return nil, err
	}
	return s.EndContext(ctx.Id, ast.ErrorRaisingExpression, false, "", []int{kw.Id, body.Id})
}

func readErrorHandlingExpression(s *State) (*ast.Node, error) {
	ctx := s.StartContext(ast.ErrorHandlingExpression)

	tryKw, err := s.ReadKeywordAsConstant("try")
	if err != nil {
		s.DeleteContext(ctx.Id)
		return nil, err
	}
	protected, err := ReadExpression(s)
	if err != nil {
		return nil, err
	}

	otherwiseKw, hasOtherwise, err := s.MaybeReadKeywordAsConstant("otherwise")
	if err != nil {
		return nil, err
	}

	handlerId := ast.NoAttribute
	if hasOtherwise {
		handler, err := ReadExpression(s)
		if err != nil {
			return nil, err
		}
		handlerId = handler.Id
	} else {
		s.IncrementAttributeCounter()
	}

	otherwiseId := ast.NoAttribute
	if hasOtherwise {
		otherwiseId = otherwiseKw.Id
	}

	return s.EndContext(ctx.Id, ast.ErrorHandlingExpression, false, "",
		[]int{tryKw.Id, protected.Id, otherwiseId, handlerId})
}

// readFunctionExpression reads `parameter-list ['as' nullable-primitive-type] '=>' expression`.
// The caller is responsible for having already resolved the paren-start
// ambiguity (spec.md §4.E) before committing to this production.
func readFunctionExpression(s *State) (*ast.Node, error) {
	ctx := s.StartContext(ast.FunctionExpression)

	params, err := readParameterList(s, false)
	if err != nil {
		s.DeleteContext(ctx.Id)
		return nil, err
	}

	asKw, hasAs, err := s.MaybeReadKeywordAsConstant("as")
	if err != nil {
		return nil, err
	}

	retTypeId := ast.NoAttribute
	if hasAs {
		ret, err := readNullablePrimitiveType(s)
		if err != nil {
			return nil, err
		}
		retTypeId = ret.Id
	} else {
		s.IncrementAttributeCounter()
	}

	asId := ast.NoAttribute
	if hasAs {
		asId = asKw.Id
	}

	arrow, err := s.ReadTokenKindAsConstant(lexer.TokenArrow)
	if err != nil {
		return nil, err
	}

	body, err := ReadExpression(s)
	if err != nil {
		return nil, err
	}

	return s.EndContext(ctx.Id, ast.FunctionExpression, false, "",
		[]int{params.Id, asId, retTypeId, arrow.Id, body.Id})
}

// readPrimaryExpression dispatches on the current token to whichever
// primary-expression production applies, running the paren-start and
// bracket-start disambiguators where the grammar is locally ambiguous
// (spec.md §4.E).
func readPrimaryExpression(s *State) (*ast.Node, error) {
	t := s.current()

	switch {
	case t.Kind == lexer.TokenLeftParen:
		if disambiguateParenStart(s) {
			return readFunctionExpression(s)
		}
		return readWrapped(s, ast.ParenthesizedExpression, lexer.TokenLeftParen, lexer.TokenRightParen, ReadExpression, false)

	case t.Kind == lexer.TokenLeftBracket:
		switch disambiguateBracketStart(s) {
		case bracketFieldSelector:
			return readFieldSelector(s)
		case bracketFieldProjection:
			return readFieldProjection(s)
		default:
			return readRecordExpression(s)
		}

	case t.Kind == lexer.TokenLeftBrace:
		return readListExpression(s)

	case t.Kind == lexer.TokenEllipsis:
		return readNotImplementedExpression(s)

	case t.Kind == lexer.TokenNumber, t.Kind == lexer.TokenTextLiteral:
		return readLiteralExpression(s)

	case t.Kind == lexer.TokenKeyword:
		switch t.Data {
		case "if":
			return readIfExpression(s)
		case "let":
			return readLetExpression(s)
		case "each":
			return readEachExpression(s)
		case "error":
			return readErrorRaisingExpression(s)
		case "try":
			return readErrorHandlingExpression(s)
		case "type":
			return readTypeExpression(s)
		case "true", "false":
			return readLiteralExpression(s)
		default:
			// The #-prefixed keywords (#sections, #shared, #binary, ...) are
			// ordinary identifiers in expression position; readIdentifier
			// accepts exactly that reserved subset (lexer.KeywordIdentifierNames)
			// in addition to TokenIdentifier, so any other keyword reaching here
			// correctly falls through to its own ExpectedTokenKind error.
			return readIdentifier(s)
		}

	case t.Kind == lexer.TokenIdentifier, t.Kind == lexer.TokenAt:
		return readIdentifier(s)

	default:
		return nil, newError(s, ErrExpectedTokenKind, "primary expression", kindName(t.Kind))
	}
}

// readRecursivePrimaryExpression reads a primary expression and, when
// invoke/item-access/field-selection/field-projection suffixes follow, wraps
// it in a single RecursivePrimaryExpression holding the head plus the flat
// sequence of suffixes (spec.md §4.D). The wrapper's kind is only known after
// the head has been parsed, so the head is re-parented into it via the tree
// surgery of spec.md §4.C; when no suffix follows, the wrapper is collapsed
// away again and the head stands alone.
func readRecursivePrimaryExpression(s *State) (*ast.Node, error) {
	head, err := readPrimaryExpression(s)
	if err != nil {
		return nil, err
	}

	ctx := s.StartContext(ast.RecursivePrimaryExpression)
	if err := s.Collection.ReparentUnderNewContext(head.Id, ctx.Id); err != nil {
		return nil, commonInvariantError(s, err.Error())
	}

	attrs := []int{head.Id}

loop:
	for {
		var suffix *ast.Node

		switch {
		case s.IsKind(lexer.TokenLeftParen):
			suffix, err = readInvokeExpression(s)

		case s.IsKind(lexer.TokenLeftBrace):
			suffix, err = readItemAccessExpression(s)

		case s.IsKind(lexer.TokenLeftBracket):
			switch disambiguateBracketStart(s) {
			case bracketFieldSelector:
				suffix, err = readFieldSelector(s)
			case bracketFieldProjection:
				suffix, err = readFieldProjection(s)
			default:
				break loop
			}

		default:
			break loop
		}

		if err != nil {
			return nil, err
		}
		attrs = append(attrs, suffix.Id)
	}

	if len(attrs) == 1 {
		if err := s.DeleteContext(ctx.Id); err != nil {
			return nil, err
		}
		return head, nil
	}

	return s.EndContext(ctx.Id, ast.RecursivePrimaryExpression, false, "", attrs)
}
