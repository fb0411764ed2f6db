// Copyright 2025 The Slnforge Authors
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package depgraph

import (
	"strings"
	"testing"

	"github.com/slnforge/slnforge/model"
)

func TestRender(t *testing.T) {
	sol := model.NewSolution("demo")
	sol.AddConfiguration("Debug")
	sol.AddPlatform("x64")
	core := sol.ProjectOrCreate("core")
	core.ConfigOrCreate("Debug|x64").Type = model.TargetStaticLibrary
	app := sol.ProjectOrCreate("app")
	app.ConfigOrCreate("Debug|x64").Type = model.TargetApplication
	app.AddDependency("core", model.Public)
	app.AddDependency("iface", model.Interface)
	app.AddLibrary("winmm.lib")

	text := string(Render(sol))

	for _, want := range []string{
		`digraph "demo" {`,
		`"app" [shape=box];`,
		`"core" [shape=folder];`,
		`"app" -> "core" [style=solid, label="PUBLIC"];`,
		`"app" -> "iface" [style=dashed, label="INTERFACE"];`,
		`"app" -> "winmm.lib" [color=gray];`,
	} {
		if !strings.Contains(text, want) {
			t.Errorf("dot output missing %q:\n%s", want, text)
		}
	}
}
