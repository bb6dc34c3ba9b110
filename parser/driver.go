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

// Result is a finished parse: the document root, the node-id map that backs
// it, and a snapshot of every leaf node id (spec.md §4.F, the document
// driver's public shape).
type Result struct {
	Root        *ast.Node
	NodeIdMap   *nodeidmap.Collection
	LeafNodeIds map[int]bool
}

func readExpressionDocument(s *State) (*ast.Node, error) {
	root, err := ReadExpression(s)
	if err != nil {
		return nil, err
	}
	if !s.AtEnd() {
		return nil, newError(s, ErrUnusedTokensRemain)
	}
	return root, nil
}

func readSectionDocument(s *State) (*ast.Node, error) {
	root, err := readSection(s)
	if err != nil {
		return nil, err
	}
	if !s.AtEnd() {
		return nil, newError(s, ErrUnusedTokensRemain)
	}
	return root, nil
}

// TryParse is the grammar's public entry point (spec.md §4.F). It first
// tries the document as a bare expression; on failure it resets to a fresh
// context tree at token 0 and tries it as a section document. When both
// attempts fail, the one that consumed more tokens is reported, since it
// got further into a plausible parse; a tie is broken in favor of the
// section attempt (an Open Question resolved in DESIGN.md: section
// documents are the more structurally distinctive of the two, so a tied
// failure is more informative reported as a section-shaped one).
func TryParse(settings locale.Settings, snapshot lexer.Snapshot) (*Result, error) {
	exprState := NewState(snapshot, settings)
	exprRoot, exprErr := readExpressionDocument(exprState)
	if exprErr == nil {
		return &Result{Root: exprRoot, NodeIdMap: exprState.Collection, LeafNodeIds: exprState.Collection.LeafNodeIds()}, nil
	}

	sectionState := NewState(snapshot, settings)
	sectionRoot, sectionErr := readSectionDocument(sectionState)
	if sectionErr == nil {
		return &Result{Root: sectionRoot, NodeIdMap: sectionState.Collection, LeafNodeIds: sectionState.Collection.LeafNodeIds()}, nil
	}

	exprParseErr := exprErr.(*Error)
	sectionParseErr := sectionErr.(*Error)
	if sectionParseErr.TokensConsumed >= exprParseErr.TokensConsumed {
		return nil, sectionParseErr
	}
	return nil, exprParseErr
}
