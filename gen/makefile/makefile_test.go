// Copyright 2025 The Slnforge Authors
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package makefile

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
	coreCfg := core.ConfigOrCreate("Debug|x64")
	coreCfg.Type = model.TargetStaticLibrary
	core.FileOrCreate("core.cpp")

	app := sol.ProjectOrCreate("app")
	cfg := app.ConfigOrCreate("Debug|x64")
	cfg.Type = model.TargetApplication
	cfg.Compiler.Optimization = "Disabled"
	cfg.Compiler.Defines = []string{"DEBUG"}
	cfg.Compiler.IncludeDirs = []string{"include"}
	app.FileOrCreate("main.cpp")
	skipped := app.FileOrCreate("legacy.cpp")
	skipped.Settings.Set(model.SettingExcluded, model.AllConfigs, "true")
	app.AddDependency("core", model.Public)

	text := string(Render(sol, "Debug|x64"))

	for _, want := range []string{
		"all: libcore.a app",
		"APP_CXXFLAGS = -O0 -DDEBUG -Iinclude",
		"APP_OBJS = obj/app/main.o",
		"app: $(APP_OBJS) libcore.a",
		"$(AR) rcs $@ $(CORE_OBJS)",
	} {
		if !strings.Contains(text, want) {
			t.Errorf("makefile missing %q:\n%s", want, text)
		}
	}
	if strings.Contains(text, "legacy") {
		t.Error("excluded file still compiled")
	}
}

func TestRender_InterfaceNotLinked(t *testing.T) {
	sol := model.NewSolution("demo")
	sol.AddConfiguration("Release")
	sol.AddPlatform("x64")
	iface := sol.ProjectOrCreate("iface")
	iface.ConfigOrCreate("Release|x64").Type = model.TargetStaticLibrary
	app := sol.ProjectOrCreate("app")
	app.ConfigOrCreate("Release|x64").Type = model.TargetApplication
	app.FileOrCreate("main.cpp")
	app.AddDependency("iface", model.Interface)

	text := string(Render(sol, "Release|x64"))
	if strings.Contains(text, "app: $(APP_OBJS) libiface.a") {
		t.Error("interface dependency linked into app")
	}
}
