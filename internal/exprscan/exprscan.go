// Copyright 2026 The ddlcore Authors. All rights reserved.
// This source code is licensed under the Apache 2.0 license found
// in the LICENSE file in the root directory of this source tree.

// Package exprscan implements the balanced-paren, string-literal-aware
// scan used to capture generated-column, default, and CHECK expression
// text verbatim (spec Design Notes §9: "Captured expression text").
//
// The scan is the sole authority for where such an expression ends: it
// tracks paren depth and an inside-string state keyed by the delimiter
// shape in play, so a ')' inside a quoted string is never mistaken for
// the terminator.
package exprscan

import "ddlcore.dev/ddlcore/internal/errcode"

// Balanced scans src starting at the byte offset just after an opening
// '(' (depth already 1) and returns the verbatim body text (not including
// the outer parens), the byte offset of the matching ')' in src, and the
// line/column of the byte just past that ')'.
//
// line/col locate src[0] for error reporting.
func Balanced(src string, line, col int) (body string, end, endLine, endCol int, err error) {
	depth := 1
	i := 0
	n := len(src)
	curLine, curCol := line, col
	advance := func(b byte) {
		if b == '\n' {
			curLine++
			curCol = 1
		} else {
			curCol++
		}
	}
	for i < n {
		c := src[i]
		switch {
		case c == '\'' || c == '"':
			delim, width := quoteDelim(src[i:], c)
			j, derr := skipString(src, i+width, delim, curLine, curCol)
			if derr != nil {
				return "", 0, 0, 0, derr
			}
			for k := i; k < j; k++ {
				advance(src[k])
			}
			i = j
			continue
		case c == '(':
			depth++
		case c == ')':
			depth--
			if depth == 0 {
				advance(c)
				return src[:i], i, curLine, curCol, nil
			}
		}
		advance(c)
		i++
	}
	return "", 0, 0, 0, errcode.At(errcode.InvalidArgument, line, col, "Unbalanced parentheses in expression")
}

// quoteDelim identifies the delimiter (one of ', ", ''', """) starting at
// s and returns its literal spelling and byte width.
func quoteDelim(s string, c byte) (string, int) {
	triple := string(c) + string(c) + string(c)
	if len(s) >= 3 && s[:3] == triple {
		return triple, 3
	}
	return string(c), 1
}

// skipString advances past a string literal (already positioned just
// after the opening delimiter) and returns the offset just past the
// closing delimiter. It does not decode the literal, but it validates
// each escape sequence against the same table the lexer uses for
// ordinary string literals, so an illegal escape embedded in a captured
// expression is rejected here rather than silently carried through
// verbatim.
func skipString(src string, start int, delim string, line, col int) (int, error) {
	i := start
	n := len(src)
	dl := len(delim)
	for i < n {
		if src[i] == '\\' && i+1 < n {
			if !legalEscape(src[i+1]) {
				return 0, errcode.At(errcode.InvalidArgument, line, col, "Illegal escape sequence: \\%c", src[i+1])
			}
			i += 2
			continue
		}
		if i+dl <= n && src[i:i+dl] == delim {
			return i + dl, nil
		}
		i++
	}
	return 0, errcode.At(errcode.InvalidArgument, line, col, "Encountered an unclosed string literal while scanning expression")
}

// legalEscape mirrors ddl/lexer's decodeEscape switch: these are the only
// backslash escapes a string literal may contain.
func legalEscape(c byte) bool {
	switch c {
	case 'n', 'r', 't', 'a', 'b', 'f', 'v', '\\', '\'', '"', '`', '0', 'x', 'X', 'u', 'U':
		return true
	default:
		return false
	}
}
