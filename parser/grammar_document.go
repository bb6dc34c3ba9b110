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

func isSectionMemberStart(s *State) bool {
	return s.IsKeyword("shared") || s.IsKind(lexer.TokenIdentifier)
}

// readSectionMember reads `['shared'] identifier '=' expression ';'`.
func readSectionMember(s *State) (*ast.Node, error) {
	ctx := s.StartContext(ast.SectionMember)

	sharedKw, hasShared, err := s.MaybeReadKeywordAsConstant("shared")
	if err != nil {
		return nil, err
	}

	member, err := readIdentifierPairedExpression(s)
	if err != nil {
		return nil, err
	}

	semi, err := s.ReadTokenKindAsConstant(lexer.TokenSemicolon)
	if err != nil {
		return nil, err
	}

	sharedId := ast.NoAttribute
	if hasShared {
		sharedId = sharedKw.Id
	}

	return s.EndContext(ctx.Id, ast.SectionMember, false, "", []int{sharedId, member.Id, semi.Id})
}

// readSection reads the section-document production: `'section' [identifier]
// ';' section-member*` (spec.md §4.F). This is the document driver's second
// attempt, tried after an expression-document fails.
func readSection(s *State) (*ast.Node, error) {
	ctx := s.StartContext(ast.Section)

	kw, err := s.ReadKeywordAsConstant("section")
	if err != nil {
		s.DeleteContext(ctx.Id)
		return nil, err
	}

	nameId := ast.NoAttribute
	if s.IsKind(lexer.TokenIdentifier) {
		name, err := readIdentifier(s)
		if err != nil {
			return nil, err
		}
		nameId = name.Id
	} else {
		s.IncrementAttributeCounter()
	}

	semi, err := s.ReadTokenKindAsConstant(lexer.TokenSemicolon)
	if err != nil {
		return nil, err
	}

	var memberIds []int
	for isSectionMemberStart(s) {
		m, err := readSectionMember(s)
		if err != nil {
			return nil, err
		}
		memberIds = append(memberIds, m.Id)
	}

	attrs := append([]int{kw.Id, nameId, semi.Id}, memberIds...)
	return s.EndContext(ctx.Id, ast.Section, false, "", attrs)
}
