// Copyright 2025 The Slnforge Authors
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package buildscript

import (
	"fmt"
	"strings"

	"github.com/slnforge/slnforge/model"
)

// pseudo-function directives understood by the interpreter
var callNames = []string{
	"file_properties",
	"set_file_properties",
	"target_link_libraries",
	"uses_pch",
}

// callName reports whether the line starts a pseudo-function call.
func callName(line string) (string, bool) {
	for _, name := range callNames {
		if strings.HasPrefix(line, name) {
			rest := strings.TrimSpace(line[len(name):])
			if strings.HasPrefix(rest, "(") {
				return name, true
			}
		}
	}
	return "", false
}

// parenBalance counts unmatched opening parentheses, ignoring quoted text.
func parenBalance(s string) int {
	depth := 0
	inQuote := false
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '"':
			inQuote = !inQuote
		case '(':
			if !inQuote {
				depth++
			}
		case ')':
			if !inQuote {
				depth--
			}
		}
	}
	return depth
}

// parseCall splits `name(a, b, ...)rest` into its parts.
func parseCall(line string) (name string, args []string, trailing string, err error) {
	open := strings.IndexByte(line, '(')
	if open < 0 {
		return "", nil, "", fmt.Errorf("malformed call %q", line)
	}
	name = strings.TrimSpace(line[:open])
	depth := 0
	inQuote := false
	for i := open; i < len(line); i++ {
		switch line[i] {
		case '"':
			inQuote = !inQuote
		case '(':
			if !inQuote {
				depth++
			}
		case ')':
			if !inQuote {
				depth--
			}
			if depth == 0 {
				return name, splitArgs(line[open+1 : i]), strings.TrimSpace(line[i+1:]), nil
			}
		}
	}
	return "", nil, "", fmt.Errorf("unmatched parentheses in %q", line)
}

// splitArgs splits on top-level commas, honoring quotes, parentheses and
// bracket lists.
func splitArgs(s string) []string {
	var args []string
	depth := 0
	inQuote := false
	start := 0
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '"':
			inQuote = !inQuote
		case '(', '[':
			if !inQuote {
				depth++
			}
		case ')', ']':
			if !inQuote {
				depth--
			}
		case ',':
			if !inQuote && depth == 0 {
				args = append(args, strings.TrimSpace(s[start:i]))
				start = i + 1
			}
		}
	}
	if last := strings.TrimSpace(s[start:]); last != "" {
		args = append(args, last)
	}
	return args
}

func (p *Parser) dispatchCall(line string) {
	name, args, trailing, err := parseCall(line)
	if err != nil {
		p.warnf("%v", err)
		return
	}
	switch name {
	case "target_link_libraries":
		if p.proj == nil {
			p.warnf("target_link_libraries outside a project")
			return
		}
		if len(args) == 0 {
			p.warnf("target_link_libraries needs at least one library")
			return
		}
		for _, a := range args {
			p.proj.AddDependency(unquote(a), model.Public)
		}
	case "file_properties":
		if trailing != "" && trailing != "{" {
			// `{...}` on the call line is a block opened and closed in
			// place; it must not leave a group pending.
			if strings.HasPrefix(trailing, "{") && strings.HasSuffix(trailing, "}") {
				if inner := strings.TrimSpace(trailing[1 : len(trailing)-1]); inner != "" {
					args = append(args, splitArgs(inner)...)
				}
				p.openGroup(args, 0)
			} else {
				p.warnf("unexpected text %q after file_properties", trailing)
			}
			return
		}
		p.openGroup(args, '}')
	case "set_file_properties":
		p.openGroup(args, 0)
	case "uses_pch":
		p.applyUsesPCH(args)
	default:
		p.warnf("unknown directive %q", name)
	}
}

// openGroupCall parses an unterminated set_file_properties( line whose
// settings follow on their own lines until a closing `)`.
func (p *Parser) openGroupCall(line string, close byte) {
	_, args, _, err := parseCall(line)
	if err != nil {
		p.warnf("%v", err)
		return
	}
	p.openGroup(args, close)
}

// openGroup selects the file group the following settings broadcast to.
// Arguments containing `=` are inline settings and apply immediately.
// close is 0 for a complete single-line call that opens no block.
func (p *Parser) openGroup(args []string, close byte) {
	if p.proj == nil {
		p.warnf("file group outside a project")
		return
	}
	var files []*model.SourceFile
	var settings []string
	for _, a := range args {
		if strings.ContainsRune(a, '=') {
			settings = append(settings, a)
			continue
		}
		files = append(files, p.proj.FileOrCreate(p.resolvePath(a)))
	}
	if len(files) == 0 {
		p.warnf("file group with no files")
		return
	}
	for _, s := range settings {
		key, value, _ := splitAssign(s)
		_, name, cfgKey := splitSettingKey(key)
		k := cfgKey
		if k == "" {
			k = model.AllConfigs
		}
		for _, f := range files {
			broadcastSetting(f, name, k, unquote(value))
		}
	}
	if close == 0 {
		return
	}
	p.group = files
	p.groupClose = close
	p.groupCondDepth = len(p.conds)
}

func (p *Parser) closeGroup() {
	p.group = nil
	p.groupClose = 0
}

// applyUsesPCH handles uses_pch(Mode, Header, [Output], [file list]).
// With a file list the setting triple goes to each listed file under the
// wildcard key; without one it applies to the current file, or to the
// project's wildcard configuration.
func (p *Parser) applyUsesPCH(args []string) {
	if p.proj == nil {
		p.warnf("uses_pch outside a project")
		return
	}
	if len(args) < 2 {
		p.warnf("uses_pch needs a mode and a header")
		return
	}
	mode, header := unquote(args[0]), unquote(args[1])
	output := ""
	var files []string
	for _, a := range args[2:] {
		if strings.HasPrefix(a, "[") && strings.HasSuffix(a, "]") {
			for _, f := range splitArgs(a[1 : len(a)-1]) {
				files = append(files, unquote(f))
			}
			continue
		}
		if output != "" {
			p.warnf("uses_pch: unexpected argument %q", a)
			return
		}
		output = unquote(a)
	}
	set := func(f *model.SourceFile) {
		f.Settings.Set(model.SettingPCHMode, model.AllConfigs, mode)
		f.Settings.Set(model.SettingPCHHeader, model.AllConfigs, header)
		if output != "" {
			f.Settings.Set(model.SettingPCHOutput, model.AllConfigs, output)
		}
	}
	switch {
	case len(files) > 0:
		for _, name := range files {
			set(p.proj.FileOrCreate(p.resolvePath(name)))
		}
	case p.file != nil:
		set(p.file)
	default:
		cfg := p.proj.ConfigOrCreate(model.AllConfigs)
		cfg.Compiler.PCHMode = mode
		cfg.Compiler.PCHHeader = header
		cfg.Compiler.PCHOutput = output
	}
}

// splitAssign splits `key = value` at the first unquoted '='.
func splitAssign(line string) (key, value string, ok bool) {
	inQuote := false
	for i := 0; i < len(line); i++ {
		switch line[i] {
		case '"':
			inQuote = !inQuote
		case '=':
			if !inQuote {
				return strings.TrimSpace(line[:i]), strings.TrimSpace(line[i+1:]), true
			}
		}
	}
	return "", "", false
}

// splitSettingKey decomposes the left side of an assignment into its
// optional file path prefix, the setting name and the optional
// configuration key suffix: `file.path:setting[Config|Platform]`.
func splitSettingKey(key string) (filePath, name, cfgKey string) {
	name = strings.TrimSpace(key)
	if i := strings.LastIndexByte(name, '['); i >= 0 && strings.HasSuffix(name, "]") {
		cfgKey = strings.TrimSpace(name[i+1 : len(name)-1])
		name = strings.TrimSpace(name[:i])
	}
	// a colon at offset 1 would be a drive letter, not a separator
	if i := strings.LastIndexByte(name, ':'); i > 1 {
		filePath = strings.TrimSpace(name[:i])
		name = strings.TrimSpace(name[i+1:])
	}
	return filePath, name, cfgKey
}

// splitList splits a comma (or semicolon) separated value into trimmed,
// unquoted items.
func splitList(value string) []string {
	var out []string
	for _, item := range strings.FieldsFunc(value, func(r rune) bool {
		return r == ',' || r == ';'
	}) {
		if item = unquote(strings.TrimSpace(item)); item != "" {
			out = append(out, item)
		}
	}
	return out
}

// unquote strips one pair of surrounding double quotes.
func unquote(s string) string {
	if len(s) >= 2 && s[0] == '"' && s[len(s)-1] == '"' {
		return s[1 : len(s)-1]
	}
	return s
}

// unescapeMultiline restores newlines and backslashes escaped by the
// preprocessor's triple-quote collapsing.
func unescapeMultiline(s string) string {
	var sb strings.Builder
	for i := 0; i < len(s); i++ {
		if s[i] == '\\' && i+1 < len(s) {
			switch s[i+1] {
			case 'n':
				sb.WriteByte('\n')
				i++
				continue
			case '\\':
				sb.WriteByte('\\')
				i++
				continue
			}
		}
		sb.WriteByte(s[i])
	}
	return sb.String()
}
