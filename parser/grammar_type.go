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

// readPrimitiveType reads a single primitive-type name against the closed
// whitelist of spec.md §4.D. Keyword-shaped names ("table", "function") and
// plain-identifier-shaped ones ("text", "number", ...) are both accepted, but
// anything outside lexer.PrimitiveTypeNames is rejected.
func readPrimitiveType(s *State) (*ast.Node, error) {
	ctx := s.StartContext(ast.PrimitiveType)

	t := s.current()
	var name string
	switch t.Kind {
	case lexer.TokenIdentifier, lexer.TokenKeyword:
		name = t.Data
	default:
		s.DeleteContext(ctx.Id)
		return nil, newError(s, ErrExpectedTokenKind, "primitive type", kindName(t.Kind))
	}

	if !lexer.PrimitiveTypeNames[name] {
		s.DeleteContext(ctx.Id)
		return nil, newError(s, ErrInvalidPrimitiveType, name)
	}

	s.ReadToken()
	return s.EndContext(ctx.Id, ast.PrimitiveType, true, name, nil)
}

// readNullableType reads an optional `nullable` prefix before a type body.
// When `nullable` is absent the NullableType context is collapsed away via
// DeleteContext's single-child splice (the same mechanism documented on
// nodeidmap.Collection.DeleteContext for an absent metadata suffix), so a
// type with no `nullable` prefix is just its body, unwrapped.
func readNullableType(s *State, readBody func(*State) (*ast.Node, error)) (*ast.Node, error) {
	ctx := s.StartContext(ast.NullableType)

	if !s.IsKeyword("nullable") {
		body, err := readBody(s)
		if err != nil {
			s.DeleteContext(ctx.Id)
			return nil, err
		}
		if err := s.DeleteContext(ctx.Id); err != nil {
			return nil, err
		}
		return body, nil
	}

	kw, err := s.ReadKeywordAsConstant("nullable")
	if err != nil {
		return nil, err
	}

	body, err := readBody(s)
	if err != nil {
		return nil, err
	}

	return s.EndContext(ctx.Id, ast.NullableType, false, "", []int{kw.Id, body.Id})
}

func readNullablePrimitiveType(s *State) (*ast.Node, error) {
	return readNullableType(s, readPrimitiveType)
}

func readNullablePrimaryType(s *State) (*ast.Node, error) {
	return readNullableType(s, readPrimaryTypeBody)
}

// readPrimaryTypeBody dispatches on the current token to the non-nullable
// shapes a primary type can take (spec.md §4.D): record, list, function,
// table, or a bare primitive name.
func readPrimaryTypeBody(s *State) (*ast.Node, error) {
	switch {
	case s.IsKind(lexer.TokenLeftBracket):
		return readRecordType(s)
	case s.IsKind(lexer.TokenLeftBrace):
		return readListType(s)
	case s.IsKeyword("function"):
		return readFunctionType(s)
	case s.IsKeyword("table"):
		return readTableType(s)
	default:
		return readPrimitiveType(s)
	}
}

func readRecordType(s *State) (*ast.Node, error) {
	return readWrapped(s, ast.RecordType, lexer.TokenLeftBracket, lexer.TokenRightBracket, readFieldSpecificationList, false)
}

func readListType(s *State) (*ast.Node, error) {
	return readWrapped(s, ast.ListType, lexer.TokenLeftBrace, lexer.TokenRightBrace, readNullablePrimaryType, false)
}

func readTableType(s *State) (*ast.Node, error) {
	ctx := s.StartContext(ast.TableType)

	kw, err := s.ReadKeywordAsConstant("table")
	if err != nil {
		s.DeleteContext(ctx.Id)
		return nil, err
	}

	row, err := readRecordType(s)
	if err != nil {
		return nil, err
	}

	return s.EndContext(ctx.Id, ast.TableType, false, "", []int{kw.Id, row.Id})
}

func readFunctionType(s *State) (*ast.Node, error) {
	ctx := s.StartContext(ast.FunctionType)

	kw, err := s.ReadKeywordAsConstant("function")
	if err != nil {
		s.DeleteContext(ctx.Id)
		return nil, err
	}

	params, err := readParameterList(s, true)
	if err != nil {
		return nil, err
	}

	asKw, err := s.ReadKeywordAsConstant("as")
	if err != nil {
		return nil, err
	}

	ret, err := readNullablePrimitiveType(s)
	if err != nil {
		return nil, err
	}

	return s.EndContext(ctx.Id, ast.FunctionType, false, "", []int{kw.Id, params.Id, asKw.Id, ret.Id})
}

// readFieldSpecification reads `['optional'] generalized-identifier ['=' primary-type]`.
func readFieldSpecification(s *State) (*ast.Node, error) {
	ctx := s.StartContext(ast.FieldSpecification)

	optNode, hasOpt, err := s.MaybeReadKeywordAsConstant("optional")
	if err != nil {
		return nil, err
	}

	name, err := readGeneralizedIdentifier(s)
	if err != nil {
		return nil, err
	}

	eqNode, hasEq, err := s.MaybeReadTokenKindAsConstant(lexer.TokenEqual)
	if err != nil {
		return nil, err
	}

	typeId := ast.NoAttribute
	if hasEq {
		typ, err := readPrimaryTypeBody(s)
		if err != nil {
			return nil, err
		}
		typeId = typ.Id
	} else {
		s.IncrementAttributeCounter()
	}

	optId := ast.NoAttribute
	if hasOpt {
		optId = optNode.Id
	}
	eqId := ast.NoAttribute
	if hasEq {
		eqId = eqNode.Id
	}

	return s.EndContext(ctx.Id, ast.FieldSpecification, false, "", []int{optId, name.Id, eqId, typeId})
}

// readFieldSpecificationList reads the contents between a RecordType's
// brackets: a comma-separated run of field specifications, optionally
// terminated by a bare `...` marking the record type open (spec.md §4.D).
func readFieldSpecificationList(s *State) (*ast.Node, error) {
	ctx := s.StartContext(ast.FieldSpecificationList)

	var elementIds []int
	openId := ast.NoAttribute

	for !s.IsKind(lexer.TokenRightBracket) {
		if s.IsKind(lexer.TokenEllipsis) {
			openNode, err := s.ReadTokenKindAsConstant(lexer.TokenEllipsis)
			if err != nil {
				return nil, err
			}
			openId = openNode.Id
			break
		}

		fs, err := readFieldSpecification(s)
		if err != nil {
			return nil, err
		}
		elementIds = append(elementIds, fs.Id)

		if s.IsKind(lexer.TokenComma) {
			s.ReadToken()
			continue
		}
		break
	}

	attrs := append(elementIds, openId)
	return s.EndContext(ctx.Id, ast.FieldSpecificationList, false, "", attrs)
}

// readParameter reads one function parameter. useColon selects between the
// ':' type annotation a FunctionType's parameter-specification uses and the
// 'as' annotation a FunctionExpression's parameter uses (spec.md §4.D).
func readParameter(s *State, useColon bool) (*ast.Node, error) {
	ctx := s.StartContext(ast.Parameter)

	optNode, hasOpt, err := s.MaybeReadKeywordAsConstant("optional")
	if err != nil {
		return nil, err
	}

	name, err := readIdentifier(s)
	if err != nil {
		return nil, err
	}

	sepId := ast.NoAttribute
	typeId := ast.NoAttribute

	switch {
	case useColon && s.IsKind(lexer.TokenColon):
		sepNode, err := s.ReadTokenKindAsConstant(lexer.TokenColon)
		if err != nil {
			return nil, err
		}
		sepId = sepNode.Id
		typ, err := readPrimaryTypeBody(s)
		if err != nil {
			return nil, err
		}
		typeId = typ.Id
	case !useColon && s.IsKeyword("as"):
		sepNode, err := s.ReadKeywordAsConstant("as")
		if err != nil {
			return nil, err
		}
		sepId = sepNode.Id
		typ, err := readNullablePrimitiveType(s)
		if err != nil {
			return nil, err
		}
		typeId = typ.Id
	default:
		s.IncrementAttributeCounter()
		s.IncrementAttributeCounter()
	}

	optId := ast.NoAttribute
	if hasOpt {
		optId = optNode.Id
	}

	return s.EndContext(ctx.Id, ast.Parameter, false, "", []int{optId, name.Id, sepId, typeId})
}

// readParameterList reads a parenthesized, comma-separated parameter list and
// enforces spec.md §9's required-after-optional rule: once a parameter is
// marked optional, every parameter after it must be too.
func readParameterList(s *State, useColon bool) (*ast.Node, error) {
	ctx := s.StartContext(ast.ParameterList)

	open, err := s.ReadTokenKindAsConstant(lexer.TokenLeftParen)
	if err != nil {
		s.DeleteContext(ctx.Id)
		return nil, err
	}

	var paramIds []int
	seenOptional := false

	if !s.IsKind(lexer.TokenRightParen) {
		for {
			p, err := readParameter(s, useColon)
			if err != nil {
				return nil, err
			}

			isOptional := p.Attributes[0] != ast.NoAttribute
			if seenOptional && !isOptional {
				return nil, newError(s, ErrRequiredParameterAfterOpt)
			}
			if isOptional {
				seenOptional = true
			}

			paramIds = append(paramIds, p.Id)

			if s.IsKind(lexer.TokenComma) {
				s.ReadToken()
				continue
			}
			break
		}
	}

	closeTok, err := s.ReadTokenKindAsConstant(lexer.TokenRightParen)
	if err != nil {
		return nil, err
	}

	attrs := append([]int{open.Id}, paramIds...)
	attrs = append(attrs, closeTok.Id)

	return s.EndContext(ctx.Id, ast.ParameterList, false, "", attrs)
}

// readTypeExpression reads the `type` primary expression: the keyword
// followed by a (possibly nullable) primary type, falling back to a plain
// primary expression when the primary-type read fails (spec.md §4.D: "<type>
// itself attempts a primary-type read and on failure falls back to a primary
// expression"), e.g. `type MyCustomType` where `MyCustomType` is not one of
// the closed primitive-type names.
func readTypeExpression(s *State) (*ast.Node, error) {
	ctx := s.StartContext(ast.TypePrimaryType)

	kw, err := s.ReadKeywordAsConstant("type")
	if err != nil {
		s.DeleteContext(ctx.Id)
		return nil, err
	}

	typeBackup := s.FastStateBackup()
	body, typeErr := readNullablePrimaryType(s)
	if typeErr != nil {
		s.ApplyFastStateBackup(typeBackup)
		body, err = readPrimaryExpression(s)
		if err != nil {
			return nil, err
		}
	}

	return s.EndContext(ctx.Id, ast.TypePrimaryType, false, "", []int{kw.Id, body.Id})
}
