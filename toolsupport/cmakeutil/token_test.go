// Copyright 2025 The Slnforge Authors
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package cmakeutil

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestTokenize(t *testing.T) {
	toks := tokenize("set(GREETING \"hello world\") # trailing comment\nadd_executable(app main.cpp)\n")
	var got []string
	for _, tok := range toks {
		got = append(got, tok.val)
	}
	want := []string{"set", "(", "GREETING", "hello world", ")", "add_executable", "(", "app", "main.cpp", ")"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("tokens (-want +got):\n%s", diff)
	}
	if toks[5].line != 2 {
		t.Errorf("add_executable on line %d, want 2", toks[5].line)
	}
}

func TestTokenize_StringEscapes(t *testing.T) {
	toks := tokenize(`message("a\"b\\c\td")`)
	if toks[2].kind != tokString {
		t.Fatalf("kind=%v, want string", toks[2].kind)
	}
	if got, want := toks[2].val, "a\"b\\c\td"; got != want {
		t.Errorf("val=%q, want %q", got, want)
	}
}

func TestParseCommands(t *testing.T) {
	cmds := parseCommands(tokenize(`
# configure
SET(X 1)
if(NOT (A STREQUAL B))
endif()
`))
	if len(cmds) != 3 {
		t.Fatalf("got %d commands, want 3", len(cmds))
	}
	if cmds[0].name != "set" {
		t.Errorf("name=%q, want set (lowercased)", cmds[0].name)
	}
	// nested parens stay inside the if args
	if got := len(cmds[1].args); got != 6 {
		t.Errorf("if has %d arg tokens, want 6", got)
	}
	if cmds[2].name != "endif" || len(cmds[2].args) != 0 {
		t.Errorf("cmds[2]=%v, want bare endif", cmds[2])
	}
}

func TestParseCommands_Malformed(t *testing.T) {
	// a dangling word before a valid command is reported and skipped
	cmds := parseCommands(tokenize("stray\nset(A 1)"))
	if len(cmds) != 1 || cmds[0].name != "set" {
		t.Fatalf("cmds=%v, want just set", cmds)
	}
}
