// Copyright 2025 The Slnforge Authors
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package cmakeutil

import "strings"

// commandDef is a user defined function or macro: the captured body plus
// its formal parameter list.
type commandDef struct {
	name    string
	params  []string
	body    []command
	isMacro bool
}

// scope is one variable/definition environment. add_subdirectory and
// function calls clone the whole scope; macros execute in the caller's.
type scope struct {
	vars   map[string]string
	funcs  map[string]*commandDef
	macros map[string]*commandDef
	dir    string // current source directory

	// parent is the enclosing scope, the target of set(... PARENT_SCOPE).
	parent *scope
}

func newScope(dir string) *scope {
	return &scope{
		vars:   map[string]string{},
		funcs:  map[string]*commandDef{},
		macros: map[string]*commandDef{},
		dir:    dir,
	}
}

// child clones s into a new scope whose PARENT_SCOPE writes land in s.
// Mutations inside the child stay invisible to s.
func (s *scope) child() *scope {
	c := newScope(s.dir)
	c.parent = s
	for k, v := range s.vars {
		c.vars[k] = v
	}
	for k, v := range s.funcs {
		c.funcs[k] = v
	}
	for k, v := range s.macros {
		c.macros[k] = v
	}
	return c
}

// lookup returns the value of a variable, or "" if unbound.
func (s *scope) lookup(name string) string {
	return s.vars[name]
}

func (s *scope) bound(name string) bool {
	_, ok := s.vars[name]
	return ok
}

// expand replaces ${NAME} references in a string, innermost first so
// nested references like ${${KIND}_FLAGS} resolve.
func (s *scope) expand(str string) string {
	for strings.Contains(str, "${") {
		open := -1
		replaced := false
		for i := 0; i < len(str); i++ {
			if i+1 < len(str) && str[i] == '$' && str[i+1] == '{' {
				open = i
				i++
				continue
			}
			if str[i] == '}' && open >= 0 {
				str = str[:open] + s.lookup(str[open+2:i]) + str[i+1:]
				replaced = true
				break
			}
		}
		if !replaced {
			break // unmatched ${, leave as is
		}
	}
	return str
}

// expandArgs expands variable references in the command's arguments.
// Unquoted words split on semicolons after expansion; quoted strings stay
// single arguments.
func (s *scope) expandArgs(args []token) []string {
	var out []string
	for _, t := range args {
		v := s.expand(t.val)
		if t.kind == tokString {
			out = append(out, v)
			continue
		}
		if !strings.Contains(v, ";") {
			if v != "" {
				out = append(out, v)
			}
			continue
		}
		for _, part := range strings.Split(v, ";") {
			if part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}
