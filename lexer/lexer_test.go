/*
 * mshape
 *
 * Copyright 2020 Matthias Ladkau. All rights reserved.
 *
 * This Source Code Form is subject to the terms of the MIT
 * License, If a copy of the MIT License was not distributed with this
 * file, You can obtain one at https://opensource.org/licenses/MIT.
 */

package lexer

import "testing"

func kinds(s Snapshot) []TokenKind {
	var ks []TokenKind
	for _, t := range s.Tokens {
		ks = append(ks, t.Kind)
	}
	return ks
}

func TestLexIfExpression(t *testing.T) {
	s, err := Lex("if 1 then 2 else 3")
	if err != nil {
		t.Fatalf("Lex returned error: %v", err)
	}

	want := []TokenKind{
		TokenKeyword, TokenNumber, TokenKeyword, TokenNumber,
		TokenKeyword, TokenNumber, TokenEOF,
	}
	got := kinds(s)
	if len(got) != len(want) {
		t.Fatalf("token count = %d, want %d (%v)", len(got), len(want), got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("token %d kind = %v, want %v", i, got[i], want[i])
		}
	}
}

func TestLexFunctionExpression(t *testing.T) {
	s, err := Lex("(x) => x + 1")
	if err != nil {
		t.Fatalf("Lex returned error: %v", err)
	}

	want := []TokenKind{
		TokenLeftParen, TokenIdentifier, TokenRightParen, TokenArrow,
		TokenIdentifier, TokenPlus, TokenNumber, TokenEOF,
	}
	got := kinds(s)
	if len(got) != len(want) {
		t.Fatalf("token count = %d, want %d (%v)", len(got), len(want), got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("token %d kind = %v, want %v", i, got[i], want[i])
		}
	}
}

func TestLexQuotedIdentifier(t *testing.T) {
	s, err := Lex(`@"my var"`)
	if err != nil {
		t.Fatalf("Lex returned error: %v", err)
	}
	if len(s.Tokens) != 2 {
		t.Fatalf("token count = %d, want 2 (%v)", len(s.Tokens), s.Tokens)
	}
	if s.Tokens[0].Kind != TokenIdentifier || s.Tokens[0].Data != "my var" {
		t.Errorf("token = %+v, want identifier 'my var'", s.Tokens[0])
	}
}

func TestLexUnterminatedTextLiteral(t *testing.T) {
	if _, err := Lex(`"abc`); err == nil {
		t.Fatalf("expected an error for an unterminated text literal")
	}
}

func TestLexHashPrefixedKeywords(t *testing.T) {
	for _, word := range []string{
		"#sections", "#shared", "#binary", "#date", "#datetime",
		"#datetimezone", "#duration", "#table", "#time",
	} {
		s, err := Lex(word)
		if err != nil {
			t.Fatalf("Lex(%q) returned error: %v", word, err)
		}
		if len(s.Tokens) != 2 {
			t.Fatalf("Lex(%q) token count = %d, want 2 (%v)", word, len(s.Tokens), s.Tokens)
		}
		if s.Tokens[0].Kind != TokenKeyword || s.Tokens[0].Data != word {
			t.Errorf("Lex(%q) token = %+v, want keyword %q", word, s.Tokens[0], word)
		}
		if s.Tokens[1].Kind != TokenEOF {
			t.Errorf("Lex(%q) second token = %+v, want EOF", word, s.Tokens[1])
		}
	}
}

func TestLexTokenPositions(t *testing.T) {
	s, err := Lex("[a = 1]")
	if err != nil {
		t.Fatalf("Lex returned error: %v", err)
	}

	// Each want entry is {start, end} in code units; the parser slices the
	// source text with these offsets to rebuild generalized identifiers, so
	// they must be exact.
	want := [][2]int{{0, 1}, {1, 2}, {3, 4}, {5, 6}, {6, 7}, {7, 7}}
	if len(s.Tokens) != len(want) {
		t.Fatalf("token count = %d, want %d (%v)", len(s.Tokens), len(want), s.Tokens)
	}
	for i, w := range want {
		got := [2]int{s.Tokens[i].PositionStart.CodeUnit, s.Tokens[i].PositionEnd.CodeUnit}
		if got != w {
			t.Errorf("token %d range = %v, want %v", i, got, w)
		}
	}
}

func TestLexLineTracking(t *testing.T) {
	s, err := Lex("a\nb")
	if err != nil {
		t.Fatalf("Lex returned error: %v", err)
	}
	if len(s.Tokens) != 3 {
		t.Fatalf("token count = %d, want 3 (%v)", len(s.Tokens), s.Tokens)
	}
	b := s.Tokens[1]
	if b.PositionStart.LineNumber != 2 || b.PositionStart.LineCodeUnit != 0 {
		t.Errorf("token b starts at line %d col %d, want line 2 col 0",
			b.PositionStart.LineNumber, b.PositionStart.LineCodeUnit)
	}
}

func TestLexAtPrefixedIdentifier(t *testing.T) {
	s, err := Lex("@foo")
	if err != nil {
		t.Fatalf("Lex returned error: %v", err)
	}
	want := []TokenKind{TokenAt, TokenIdentifier, TokenEOF}
	got := kinds(s)
	if len(got) != len(want) {
		t.Fatalf("token count = %d, want %d (%v)", len(got), len(want), got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("token %d kind = %v, want %v", i, got[i], want[i])
		}
	}
	if s.Tokens[1].Data != "foo" {
		t.Errorf("identifier data = %q, want %q", s.Tokens[1].Data, "foo")
	}
}

func TestLexEllipsisVsDotDot(t *testing.T) {
	s, err := Lex("a...b..c.d")
	if err != nil {
		t.Fatalf("Lex returned error: %v", err)
	}
	want := []TokenKind{
		TokenIdentifier, TokenEllipsis, TokenIdentifier, TokenDotDot,
		TokenIdentifier, TokenDot, TokenIdentifier, TokenEOF,
	}
	got := kinds(s)
	if len(got) != len(want) {
		t.Fatalf("token count = %d, want %d (%v)", len(got), len(want), got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("token %d kind = %v, want %v", i, got[i], want[i])
		}
	}
}
