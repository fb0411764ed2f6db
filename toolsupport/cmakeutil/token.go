// Copyright 2025 The Slnforge Authors
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package cmakeutil

import (
	"strings"

	"github.com/charmbracelet/log"
)

type tokKind int

const (
	tokWord tokKind = iota
	tokString
	tokLParen
	tokRParen
)

type token struct {
	kind tokKind
	val  string
	line int
}

// tokenize turns source text into a flat token stream: parentheses, quoted
// strings and bare words. `#` outside a string starts a line comment.
// Nesting is the interpreter's job, not the tokenizer's.
func tokenize(src string) []token {
	var toks []token
	line := 1
	for i := 0; i < len(src); {
		c := src[i]
		switch {
		case c == '\n':
			line++
			i++
		case c == ' ' || c == '\t' || c == '\r':
			i++
		case c == '#':
			for i < len(src) && src[i] != '\n' {
				i++
			}
		case c == '(':
			toks = append(toks, token{kind: tokLParen, val: "(", line: line})
			i++
		case c == ')':
			toks = append(toks, token{kind: tokRParen, val: ")", line: line})
			i++
		case c == '"':
			var sb strings.Builder
			start := line
			i++
			for i < len(src) && src[i] != '"' {
				if src[i] == '\\' && i+1 < len(src) {
					i++
					switch src[i] {
					case 'n':
						sb.WriteByte('\n')
					case 't':
						sb.WriteByte('\t')
					default: // \" and \\ keep the escaped char
						sb.WriteByte(src[i])
					}
					i++
					continue
				}
				if src[i] == '\n' {
					line++
				}
				sb.WriteByte(src[i])
				i++
			}
			if i >= len(src) {
				log.Warnf("line %d: unterminated string literal", start)
			} else {
				i++ // closing quote
			}
			toks = append(toks, token{kind: tokString, val: sb.String(), line: start})
		default:
			start := i
			for i < len(src) && !strings.ContainsRune(" \t\r\n()#\"", rune(src[i])) {
				i++
			}
			toks = append(toks, token{kind: tokWord, val: src[start:i], line: line})
		}
	}
	return toks
}

// command is one parsed `name(arg ...)` invocation.
type command struct {
	name string
	args []token
	line int
}

// parseCommands groups the token stream into commands. A malformed run is
// reported and skipped until the next plausible command start.
func parseCommands(toks []token) []command {
	var cmds []command
	for i := 0; i < len(toks); {
		if toks[i].kind != tokWord {
			log.Warnf("line %d: expected command name, got %q", toks[i].line, toks[i].val)
			i++
			continue
		}
		name := toks[i]
		if i+1 >= len(toks) || toks[i+1].kind != tokLParen {
			log.Warnf("line %d: expected ( after %q", name.line, name.val)
			i++
			continue
		}
		depth := 0
		j := i + 1
		for ; j < len(toks); j++ {
			switch toks[j].kind {
			case tokLParen:
				depth++
			case tokRParen:
				depth--
			}
			if depth == 0 {
				break
			}
		}
		if j >= len(toks) {
			log.Warnf("line %d: unmatched ( in %s", name.line, name.val)
			break
		}
		cmds = append(cmds, command{
			name: strings.ToLower(name.val),
			args: toks[i+2 : j],
			line: name.line,
		})
		i = j + 1
	}
	return cmds
}
