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
Package inspect implements the type/scope inspection services of spec.md
§4.G/§4.H: a per-document TypeCache memoizing scope-by-node-id and
type-by-node-id, a scope walker that accumulates name->binding maps with
shadowing, a per-ast-kind type analyzer, and keyword/identifier
autocomplete. Every operation here is pure over an already-built
github.com/krotik/mshape/nodeidmap.Collection plus whatever is already in
the cache; nothing here mutates the parse tree.
*/
package inspect

// PrimitiveKind mirrors the closed primitive-type whitelist of spec.md
// §4.D's "Primitive type" production, plus the two kinds inspection needs
// that are not themselves grammar productions: Unknown (not yet resolved)
// and Null (the null literal).
type PrimitiveKind string

const (
	KindAction       PrimitiveKind = "Action"
	KindAny          PrimitiveKind = "Any"
	KindAnyNonNull   PrimitiveKind = "AnyNonNull"
	KindBinary       PrimitiveKind = "Binary"
	KindDate         PrimitiveKind = "Date"
	KindDateTime     PrimitiveKind = "DateTime"
	KindDateTimeZone PrimitiveKind = "DateTimeZone"
	KindDuration     PrimitiveKind = "Duration"
	KindFunction     PrimitiveKind = "Function"
	KindList         PrimitiveKind = "List"
	KindLogical      PrimitiveKind = "Logical"
	KindNone         PrimitiveKind = "None"
	KindNumber       PrimitiveKind = "Number"
	KindRecord       PrimitiveKind = "Record"
	KindTable        PrimitiveKind = "Table"
	KindText         PrimitiveKind = "Text"
	KindTime         PrimitiveKind = "Time"
	KindUnknown      PrimitiveKind = "Unknown"
	KindNull         PrimitiveKind = "Null"
)

// primitiveKindByName resolves the lexer.PrimitiveTypeNames whitelist
// (lower-case names) to their PrimitiveKind, used when a
// PrimitiveType ast node's literal needs turning into a Type.
var primitiveKindByName = map[string]PrimitiveKind{
	"action":       KindAction,
	"any":          KindAny,
	"anynonnull":   KindAnyNonNull,
	"binary":       KindBinary,
	"date":         KindDate,
	"datetime":     KindDateTime,
	"datetimezone": KindDateTimeZone,
	"duration":     KindDuration,
	"function":     KindFunction,
	"list":         KindList,
	"logical":      KindLogical,
	"none":         KindNone,
	"number":       KindNumber,
	"record":       KindRecord,
	"table":        KindTable,
	"text":         KindText,
	"time":         KindTime,
}

// Type is a resolved type: a primitive kind plus whether it was reached
// through a `nullable` prefix (spec.md §4.D's NullableType).
type Type struct {
	Kind       PrimitiveKind
	IsNullable bool
}

// Unknown is the type returned for anything the per-kind analyzer cannot
// resolve without evaluating the expression -- this toolkit never
// evaluates (spec.md §1, Non-goals), so Unknown is a legitimate, frequent
// answer, not an error.
var Unknown = Type{Kind: KindUnknown}
