// Copyright 2025 The Slnforge Authors
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package main

import (
	"strings"
	"testing"
)

func TestApplicationCommands(t *testing.T) {
	app := application()
	want := map[string]bool{
		"generate": false,
		"convert":  false,
		"graph":    false,
		"version":  false,
	}
	for _, cmd := range app.Commands {
		name := strings.Fields(cmd.UsageLine)[0]
		if _, ok := want[name]; ok {
			want[name] = true
		}
	}
	for name, seen := range want {
		if !seen {
			t.Errorf("subcommand %q not registered", name)
		}
	}
}
