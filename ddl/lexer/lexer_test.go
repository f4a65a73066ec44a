// Copyright 2026 The ddlcore Authors. All rights reserved.
// This source code is licensed under the Apache 2.0 license found
// in the LICENSE file in the root directory of this source tree.

package lexer_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"ddlcore.dev/ddlcore/ddl/lexer"
	"ddlcore.dev/ddlcore/ddl/token"
)

func allTokens(t *testing.T, src string) []token.Token {
	t.Helper()
	l := lexer.New(src)
	var toks []token.Token
	for {
		tok, err := l.Next()
		require.NoError(t, err)
		toks = append(toks, tok)
		if tok.Kind == token.EOF {
			return toks
		}
	}
}

func TestLexer_KeywordsAndIdents(t *testing.T) {
	toks := allTokens(t, "CREATE TABLE Users (")
	kinds := []token.Kind{token.CREATE, token.TABLE, token.IDENT, token.LPAREN, token.EOF}
	require.Len(t, toks, len(kinds))
	for i, k := range kinds {
		require.Equal(t, k, toks[i].Kind)
	}
	require.Equal(t, "Users", toks[2].Text)
}

func TestLexer_QuotedIdent(t *testing.T) {
	toks := allTokens(t, "`my-table`")
	require.Equal(t, token.IDENT, toks[0].Kind)
	require.Equal(t, "my-table", toks[0].Text)
	require.True(t, toks[0].Quoted)
}

func TestLexer_QuotedIdentCanContainKeyword(t *testing.T) {
	toks := allTokens(t, "`primary`")
	require.Equal(t, token.IDENT, toks[0].Kind)
	require.Equal(t, "primary", toks[0].Text)
}

func TestLexer_StringLiteralVariants(t *testing.T) {
	toks := allTokens(t, `'single' "double" '''triple single''' """triple double"""`)
	for _, tok := range toks[:4] {
		require.Equal(t, token.STRING, tok.Kind)
	}
	require.Equal(t, "single", toks[0].Text)
	require.Equal(t, "double", toks[1].Text)
	require.Equal(t, "triple single", toks[2].Text)
	require.Equal(t, "triple double", toks[3].Text)
}

func TestLexer_BytesPrefixes(t *testing.T) {
	for _, prefix := range []string{"b", "B", "rb", "Rb", "br", "BR"} {
		toks := allTokens(t, prefix+`'data'`)
		require.Equal(t, token.BYTES, toks[0].Kind, "prefix %q", prefix)
	}
}

func TestLexer_RawStringDoesNotDecodeEscapes(t *testing.T) {
	toks := allTokens(t, `r'a\nb'`)
	require.Equal(t, token.STRING, toks[0].Kind)
	require.Equal(t, `a\nb`, toks[0].Text)
}

func TestLexer_EscapeSequences(t *testing.T) {
	toks := allTokens(t, `'a\nb\tc\x41'`)
	require.Equal(t, "a\nb\tc\x41", toks[0].Text)
}

func TestLexer_UnclosedStringIsError(t *testing.T) {
	l := lexer.New(`'unterminated`)
	_, err := l.Next()
	require.Error(t, err)
}

func TestLexer_NewlineInSingleQuotedStringIsError(t *testing.T) {
	l := lexer.New("'line\nbreak'")
	_, err := l.Next()
	require.Error(t, err)
}

func TestLexer_Numbers(t *testing.T) {
	toks := allTokens(t, "123 0x7B 1.5 1e10 1.5e-3")
	require.Equal(t, token.INT, toks[0].Kind)
	require.Equal(t, token.INT, toks[1].Kind)
	require.Equal(t, "0x7B", toks[1].Text)
	require.Equal(t, token.FLOAT, toks[2].Kind)
	require.Equal(t, token.FLOAT, toks[3].Kind)
	require.Equal(t, token.FLOAT, toks[4].Kind)
}

func TestLexer_SmartQuoteRejected(t *testing.T) {
	l := lexer.New("“not a real quote”")
	_, err := l.Next()
	require.Error(t, err)
}

func TestLexer_CommentsSkipped(t *testing.T) {
	toks := allTokens(t, "CREATE -- a comment\nTABLE # also a comment\n/* block */ users")
	kinds := []token.Kind{token.CREATE, token.TABLE, token.IDENT, token.EOF}
	require.Len(t, toks, len(kinds))
	for i, k := range kinds {
		require.Equal(t, k, toks[i].Kind)
	}
}

func TestLexer_SeekRepositions(t *testing.T) {
	l := lexer.New("CREATE TABLE")
	tok, err := l.Next()
	require.NoError(t, err)
	require.Equal(t, token.CREATE, tok.Kind)
	rest := l.Rest()
	require.Equal(t, " TABLE", rest)
	l.Seek(l.Offset()+1, 1, 8)
	tok, err = l.Next()
	require.NoError(t, err)
	require.Equal(t, token.TABLE, tok.Kind)
}
