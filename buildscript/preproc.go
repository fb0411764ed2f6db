// Copyright 2025 The Slnforge Authors
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package buildscript

import "strings"

// Preprocess collapses multi-line constructs into single logical lines so
// the interpreter can work line by line. Two constructs exist:
//
//	key = """          key = { a b
//	raw text           c }
//	"""
//
// Triple-quoted values become `key = "<content>"` with embedded newlines
// escaped as `\n` and backslashes as `\\`; the surrounding quotes keep
// trailing-comment stripping away from the content. Brace lists become
// `key = a,b,c`. Comment detection happens outside quote context only;
// text inside an accumulated value is kept verbatim.
func Preprocess(text string) string {
	lines := strings.Split(text, "\n")
	var out []string
	for i := 0; i < len(lines); i++ {
		line := strings.TrimRight(lines[i], "\r")
		key, rest, ok := assignPrefix(line)
		if !ok {
			out = append(out, line)
			continue
		}
		switch {
		case strings.HasPrefix(rest, `"""`):
			var collapsed string
			collapsed, i = collapseTripleQuote(lines, i, rest[3:])
			out = append(out, key+` = "`+collapsed+`"`)
		case strings.HasPrefix(rest, "{"):
			var collapsed string
			collapsed, i = collapseBraceList(lines, i, rest[1:])
			out = append(out, key+" = "+collapsed)
		default:
			out = append(out, line)
		}
	}
	return strings.Join(out, "\n")
}

// assignPrefix splits `key = rest` at the first top-level '='. The key may
// not contain quotes or comment markers.
func assignPrefix(line string) (key, rest string, ok bool) {
	eq := strings.IndexByte(line, '=')
	if eq < 0 {
		return "", "", false
	}
	key = strings.TrimSpace(line[:eq])
	if key == "" || strings.ContainsAny(key, `"#;{}`) {
		return "", "", false
	}
	return key, strings.TrimSpace(line[eq+1:]), true
}

func escapeValue(s string) string {
	return strings.ReplaceAll(s, `\`, `\\`)
}

// collapseTripleQuote accumulates lines until the closing `"""`, starting
// from first, the remainder of the opening line. It returns the escaped
// single-line content and the index of the closing line.
func collapseTripleQuote(lines []string, i int, first string) (string, int) {
	if end := strings.Index(first, `"""`); end >= 0 {
		return escapeValue(first[:end]), i
	}
	var parts []string
	if first != "" {
		parts = append(parts, escapeValue(first))
	}
	for i++; i < len(lines); i++ {
		line := strings.TrimRight(lines[i], "\r")
		if end := strings.Index(line, `"""`); end >= 0 {
			if chunk := line[:end]; chunk != "" {
				parts = append(parts, escapeValue(chunk))
			}
			break
		}
		parts = append(parts, escapeValue(line))
	}
	return strings.Join(parts, `\n`), i
}

// collapseBraceList accumulates whitespace separated tokens until a line
// whose last token is `}`. Comments are stripped before tokenizing.
func collapseBraceList(lines []string, i int, first string) (string, int) {
	var toks []string
	line := first
	for {
		line = stripComment(line)
		closed := false
		for _, tok := range strings.Fields(line) {
			if tok == "}" {
				closed = true
				break
			}
			if t := strings.TrimSuffix(tok, "}"); t != tok {
				// trailing token glued to the closing brace
				toks = append(toks, t)
				closed = true
				break
			}
			toks = append(toks, strings.TrimSuffix(tok, ","))
		}
		if closed {
			break
		}
		i++
		if i >= len(lines) {
			break
		}
		line = strings.TrimRight(lines[i], "\r")
	}
	return strings.Join(toks, ","), i
}

// stripComment removes a trailing #-comment, honoring double quotes.
func stripComment(line string) string {
	inQuote := false
	for i := 0; i < len(line); i++ {
		switch line[i] {
		case '"':
			inQuote = !inQuote
		case '#':
			if !inQuote {
				return line[:i]
			}
		}
	}
	return line
}
