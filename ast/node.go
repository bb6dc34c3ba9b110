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
Package ast defines the syntax tree data model: NodeKind, Node, and the
XorNode tagged reference used by inspection to operate over partial parses.
Every Node, once emitted, is immutable apart from its AttributeIndex; the
node-id map (package nodeidmap) is the only thing that ever mutates a tree's
shape, and it does so by rewriting id-indexed maps plus, when it moves a node
into another slot (context collapse, head re-parenting), that node's
AttributeIndex.
*/
package ast

import (
	"bytes"
	"fmt"

	"github.com/krotik/common/stringutil"
)

// NodeKind is the closed set of syntactic categories a Node can carry.
type NodeKind string

// The grammar's node kinds. Naming mirrors the grammar productions in
// spec.md §4.D rather than any particular lexical token.
const (
	Identifier                            NodeKind = "Identifier"
	GeneralizedIdentifier                 NodeKind = "GeneralizedIdentifier"
	LiteralExpression                     NodeKind = "LiteralExpression"
	IfExpression                          NodeKind = "IfExpression"
	LetExpression                         NodeKind = "LetExpression"
	InvokeExpression                      NodeKind = "InvokeExpression"
	RecordExpression                      NodeKind = "RecordExpression"
	ListExpression                        NodeKind = "ListExpression"
	ArithmeticExpression                  NodeKind = "ArithmeticExpression"
	LogicalExpression                     NodeKind = "LogicalExpression"
	IsExpression                          NodeKind = "IsExpression"
	AsExpression                          NodeKind = "AsExpression"
	EqualityExpression                    NodeKind = "EqualityExpression"
	RelationalExpression                  NodeKind = "RelationalExpression"
	MetadataExpression                    NodeKind = "MetadataExpression"
	UnaryExpression                       NodeKind = "UnaryExpression"
	RecursivePrimaryExpression            NodeKind = "RecursivePrimaryExpression"
	ItemAccessExpression                  NodeKind = "ItemAccessExpression"
	FieldSelector                         NodeKind = "FieldSelector"
	FieldProjection                       NodeKind = "FieldProjection"
	FunctionExpression                    NodeKind = "FunctionExpression"
	ParameterList                         NodeKind = "ParameterList"
	Parameter                             NodeKind = "Parameter"
	ErrorHandlingExpression               NodeKind = "ErrorHandlingExpression"
	ErrorRaisingExpression                NodeKind = "ErrorRaisingExpression"
	NotImplementedExpression              NodeKind = "NotImplementedExpression"
	EachExpression                        NodeKind = "EachExpression"
	ArrayWrapper                          NodeKind = "ArrayWrapper"
	Csv                                   NodeKind = "Csv"
	FieldSpecification                    NodeKind = "FieldSpecification"
	FieldSpecificationList                NodeKind = "FieldSpecificationList"
	RecordType                            NodeKind = "RecordType"
	ListType                              NodeKind = "ListType"
	FunctionType                          NodeKind = "FunctionType"
	NullableType                          NodeKind = "NullableType"
	TableType                             NodeKind = "TableType"
	PrimitiveType                         NodeKind = "PrimitiveType"
	TypePrimaryType                       NodeKind = "TypePrimaryType"
	Constant                              NodeKind = "Constant"
	Section                               NodeKind = "Section"
	SectionMember                         NodeKind = "SectionMember"
	IdentifierPairedExpression            NodeKind = "IdentifierPairedExpression"
	GeneralizedIdentifierPairedExpression NodeKind = "GeneralizedIdentifierPairedExpression"
	ParenthesizedExpression               NodeKind = "ParenthesizedExpression"
)

// NoAttribute marks an absent optional child slot within Node.Attributes
// (e.g. a Csv with no trailing comma).
const NoAttribute = -1

// TokenRange is the inclusive-start, exclusive-end slice of token indices a
// Node covers. Sibling ranges are disjoint and increasing (spec.md §3
// invariant 4); a parent's range is the union of its children's ranges.
type TokenRange struct {
	Start int
	End   int
}

// Node is a finished, immutable syntax tree node. Attributes holds this
// node's children by id, in attribute-slot order -- the same flat
// "Children []*ASTNode read positionally" idiom the teacher's parser package
// used for every node kind, generalized here from node pointers to node ids
// because ownership of node storage belongs to the node-id map, not the tree
// itself (spec.md §9, "ids are the only cross-references").
type Node struct {
	Id             int
	Kind           NodeKind
	IsLeaf         bool
	AttributeIndex int
	TokenRange     TokenRange
	Literal        string
	Attributes     []int
}

// String renders a Node (without resolving child ids, since Node has no
// access to the collection that owns them) for debugging.
func (n *Node) String() string {
	var buf bytes.Buffer
	n.levelString(0, &buf)
	return buf.String()
}

func (n *Node) levelString(indent int, buf *bytes.Buffer) {
	buf.WriteString(stringutil.GenerateRollingString(" ", indent*2))
	if n.IsLeaf {
		fmt.Fprintf(buf, "%v: %q", n.Kind, n.Literal)
	} else {
		fmt.Fprintf(buf, "%v (attrs=%v)", n.Kind, n.Attributes)
	}
	buf.WriteString("\n")
}

// XorNode is a tagged reference to either a finished Ast node or an
// in-progress Context node, both addressed by the same id space. Inspection
// uses XorNode so it can operate uniformly over complete and partial parses
// (spec.md §6).
type XorNode struct {
	Id    int
	IsAst bool
}
