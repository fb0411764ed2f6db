// Copyright 2025 The Slnforge Authors
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package slnfile

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
	app := sol.ProjectOrCreate("app")
	app.AddDependency("core", model.Public)
	sol.StartupProject = "app"

	text := string(Render(sol))

	if !strings.Contains(text, "Microsoft Visual Studio Solution File, Format Version 12.00") {
		t.Error("missing format header")
	}
	appIdx := strings.Index(text, `"app", "app.vcxproj"`)
	coreIdx := strings.Index(text, `"core", "core.vcxproj"`)
	if appIdx < 0 || coreIdx < 0 {
		t.Fatalf("missing project entries:\n%s", text)
	}
	if appIdx > coreIdx {
		t.Error("startup project app not listed first")
	}
	depLine := "{" + strings.ToUpper(core.ID) + "} = {" + strings.ToUpper(core.ID) + "}"
	if !strings.Contains(text, depLine) {
		t.Error("missing dependency section entry")
	}
	if !strings.Contains(text, "\t\tDebug|x64 = Debug|x64\r\n") {
		t.Error("missing solution configuration entry")
	}
	activeCfg := "{" + strings.ToUpper(app.ID) + "}.Debug|x64.ActiveCfg = Debug|x64"
	if !strings.Contains(text, activeCfg) {
		t.Error("missing project configuration mapping")
	}
}
