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
	"strings"

	"github.com/krotik/mshape/ast"
	"github.com/krotik/mshape/nodeidmap"
)

// typeFor is the per-ast-kind type analyzer of spec.md §4.H: "for each
// scope item not already typed, computes its type via a per-ast-kind
// analyzer". It is pure and never evaluates -- for anything it cannot
// resolve from syntax alone (an Invoke result, an unresolved Identifier,
// an If whose two arms have different types) it reports Unknown rather
// than guessing at a value (spec.md §1, Non-goals: "does not evaluate
// expressions").
func typeFor(nodeIdMap *nodeidmap.Collection, xn ast.XorNode, given, delta *TypeCache) (Type, error) {
	if t, ok := given.lookupType(xn.Id); ok {
		return t, nil
	}
	if t, ok := delta.lookupType(xn.Id); ok {
		return t, nil
	}

	typ, err := computeType(nodeIdMap, xn, given, delta)
	if err != nil {
		return Type{}, err
	}

	delta.TypeById[xn.Id] = typ
	return typ, nil
}

func computeType(nodeIdMap *nodeidmap.Collection, xn ast.XorNode, given, delta *TypeCache) (Type, error) {
	if !xn.IsAst {
		// A Context node is still being built; its shape (and therefore its
		// type) is not yet knowable.
		return Unknown, nil
	}

	node, ok := nodeIdMap.AstNode(xn.Id)
	if !ok {
		return Type{}, newError("computeType: no ast node %d", xn.Id)
	}

	switch node.Kind {
	case ast.LiteralExpression:
		return literalType(node.Literal), nil

	case ast.RecordExpression:
		return Type{Kind: KindRecord}, nil

	case ast.ListExpression:
		return Type{Kind: KindList}, nil

	case ast.FunctionExpression:
		return Type{Kind: KindFunction}, nil

	case ast.LogicalExpression, ast.IsExpression, ast.EqualityExpression, ast.RelationalExpression:
		return Type{Kind: KindLogical}, nil

	case ast.ArithmeticExpression:
		return Type{Kind: KindNumber}, nil

	case ast.UnaryExpression:
		return typeFor(nodeIdMap, ast.XorNode{Id: node.Attributes[1], IsAst: true}, given, delta)

	case ast.AsExpression:
		return typeFor(nodeIdMap, ast.XorNode{Id: node.Attributes[2], IsAst: true}, given, delta)

	case ast.MetadataExpression:
		return typeFor(nodeIdMap, ast.XorNode{Id: node.Attributes[0], IsAst: true}, given, delta)

	case ast.ParenthesizedExpression:
		return typeFor(nodeIdMap, ast.XorNode{Id: node.Attributes[1], IsAst: true}, given, delta)

	case ast.IfExpression:
		thenType, err := typeFor(nodeIdMap, ast.XorNode{Id: node.Attributes[3], IsAst: true}, given, delta)
		if err != nil {
			return Type{}, err
		}
		elseType, err := typeFor(nodeIdMap, ast.XorNode{Id: node.Attributes[5], IsAst: true}, given, delta)
		if err != nil {
			return Type{}, err
		}
		if thenType == elseType {
			return thenType, nil
		}
		return Unknown, nil

	case ast.Parameter:
		return parameterType(nodeIdMap, node, given, delta)

	case ast.NullableType:
		body, err := typeFor(nodeIdMap, ast.XorNode{Id: node.Attributes[1], IsAst: true}, given, delta)
		if err != nil {
			return Type{}, err
		}
		body.IsNullable = true
		return body, nil

	case ast.PrimitiveType:
		return primitiveTypeNodeType(nodeIdMap, xn.Id)

	case ast.RecordType:
		return Type{Kind: KindRecord}, nil

	case ast.ListType:
		return Type{Kind: KindList}, nil

	case ast.FunctionType:
		return Type{Kind: KindFunction}, nil

	case ast.TableType:
		return Type{Kind: KindTable}, nil

	default:
		return Unknown, nil
	}
}

// literalType resolves a LiteralExpression leaf's type from its raw text:
// the lexer reports true/false as TokenKeyword, numbers as TokenNumber,
// and quoted strings as TokenTextLiteral, but by the time the literal
// reaches the ast as a bare string those kinds are gone, so this re-derives
// the same distinction the token kind would have given directly.
func literalType(literal string) Type {
	switch literal {
	case "true", "false":
		return Type{Kind: KindLogical}
	}
	if isNumericLiteral(literal) {
		return Type{Kind: KindNumber}
	}
	return Type{Kind: KindText}
}

func isNumericLiteral(s string) bool {
	if s == "" {
		return false
	}
	seenDigit := false
	for _, r := range s {
		switch {
		case r >= '0' && r <= '9':
			seenDigit = true
		case r == '.':
		default:
			return false
		}
	}
	return seenDigit
}

func primitiveTypeNodeType(nodeIdMap *nodeidmap.Collection, id int) (Type, error) {
	node, ok := nodeIdMap.AstNode(id)
	if !ok {
		return Unknown, nil
	}
	name := strings.ToLower(node.Literal)
	if kind, ok := primitiveKindByName[name]; ok {
		return Type{Kind: kind}, nil
	}
	return Unknown, nil
}

// parameterType resolves a Parameter's declared type annotation, if any
// (the ':' form FunctionType uses or the 'as' form FunctionExpression
// uses -- spec.md §4.D's readParameter). A parameter with no annotation
// is Any, nullable, since nothing further can be said about it without
// evaluating a call site. The annotation can be any primary-type shape
// (record/list/function/table/primitive), not only a bare primitive name,
// so this recurses through the same analyzer rather than assuming
// PrimitiveType directly.
func parameterType(nodeIdMap *nodeidmap.Collection, node *ast.Node, given, delta *TypeCache) (Type, error) {
	typeId := node.Attributes[3]
	if typeId == ast.NoAttribute {
		return Type{Kind: KindAny, IsNullable: true}, nil
	}
	return typeFor(nodeIdMap, ast.XorNode{Id: typeId, IsAst: true}, given, delta)
}
