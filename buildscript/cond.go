// Copyright 2025 The Slnforge Authors
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package buildscript

import (
	"strings"

	"github.com/charmbracelet/log"
)

// condFrame is one entry of the interpreter's conditional stack. While a
// frame is not executing, nested opening braces are swallowed by counting
// them in ignoredBraceDepth so a later `}` does not mis-pop the stack.
type condFrame struct {
	executing         bool
	condMet           bool
	ignoredBraceDepth int
}

// executing reports whether every enclosing conditional frame is live.
func (p *Parser) executing() bool {
	for _, f := range p.conds {
		if !f.executing {
			return false
		}
	}
	return true
}

func (p *Parser) pushCond(condText string) {
	met := p.executing() && p.evalCond(condText)
	p.conds = append(p.conds, condFrame{
		executing: met,
		condMet:   met,
	})
}

// popBrace handles a bare `}`. It returns false when the conditional stack
// was already empty.
func (p *Parser) popBrace() bool {
	if len(p.conds) == 0 {
		return false
	}
	top := &p.conds[len(p.conds)-1]
	if top.ignoredBraceDepth > 0 {
		top.ignoredBraceDepth--
		return true
	}
	p.conds = p.conds[:len(p.conds)-1]
	return true
}

// evalCond evaluates a buildscript condition. Supported forms: `true`,
// `false`, a host platform keyword (windows, linux, macos), an
// exists(path) check and `!` negation. An unknown keyword is a warning
// and evaluates false.
func (p *Parser) evalCond(cond string) bool {
	cond = strings.TrimSpace(cond)
	if strings.HasPrefix(cond, "!") {
		return !p.evalCond(cond[1:])
	}
	switch strings.ToLower(cond) {
	case "true", "1":
		return true
	case "false", "0":
		return false
	case "windows", "linux", "macos", "darwin":
		name := strings.ToLower(cond)
		if name == "macos" {
			name = "darwin"
		}
		return name == p.hostOS
	}
	if inner, ok := callArg(cond, "exists"); ok {
		return p.fsys.Exists(p.resolvePath(inner))
	}
	log.Warnf("%s:%d: unknown condition %q, assuming false", p.fname, p.lineno, cond)
	return false
}

// callArg matches `name(arg)` and returns the trimmed, unquoted argument.
func callArg(s, name string) (string, bool) {
	if !strings.HasPrefix(s, name+"(") || !strings.HasSuffix(s, ")") {
		return "", false
	}
	return unquote(strings.TrimSpace(s[len(name)+1 : len(s)-1])), true
}
