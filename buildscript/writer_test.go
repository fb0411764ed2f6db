// Copyright 2025 The Slnforge Authors
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package buildscript

import (
	"context"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/slnforge/slnforge/fsys"
	"github.com/slnforge/slnforge/model"
)

func TestWrite_RoundTrip(t *testing.T) {
	sol := model.NewSolution("demo")
	sol.AddConfiguration("Debug")
	sol.AddPlatform("x64")
	sol.StartupProject = "app"

	app := sol.ProjectOrCreate("app")
	app.FileOrCreate("/ws/main.cpp")
	pch := app.FileOrCreate("/ws/pch.cpp")
	pch.Settings.Set(model.SettingPCHMode, model.AllConfigs, "Create")
	app.AddLibrary("winmm.lib")
	wild := app.ConfigOrCreate(model.AllConfigs)
	wild.Compiler.Defines = []string{"COMMON"}
	cfg := app.ConfigOrCreate("Debug|x64")
	cfg.Type = model.TargetApplication
	cfg.Compiler.Optimization = "Disabled"
	cfg.PostBuildEvent.Command = "copy a b\ncopy c d"

	text := string(Write(sol))

	for _, want := range []string{
		"[solution]",
		"name = demo",
		"startup_project = app",
		"[project:app]",
		"sources = /ws/main.cpp, /ws/pch.cpp",
		"libraries = winmm.lib",
		"/ws/pch.cpp:pch_mode = Create",
		"[config:*]",
		"defines = COMMON",
		"[config:Debug|x64]",
		"type = exe",
		`postbuild = copy a b\ncopy c d`,
	} {
		if !strings.Contains(text, want) {
			t.Errorf("output missing %q:\n%s", want, text)
		}
	}

	fs := fsys.MemFS{Files: map[string]string{
		"/ws/build.bs": text,
		"/ws/main.cpp": "",
		"/ws/pch.cpp":  "",
	}}
	parser := NewParser(Options{FS: fs, HostOS: "windows"})
	got, err := parser.Load(context.Background(), "/ws/build.bs")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	proj, ok := got.Project("app")
	if !ok {
		t.Fatal("app not parsed back")
	}
	gotCfg, ok := proj.Config("Debug|x64")
	if !ok {
		t.Fatal("no Debug|x64 configuration parsed back")
	}
	if gotCfg.Type != model.TargetApplication || gotCfg.Compiler.Optimization != "Disabled" {
		t.Errorf("config parsed back wrong: %+v", gotCfg)
	}
	if gotCfg.PostBuildEvent.Command != "copy a b\ncopy c d" {
		t.Errorf("postbuild=%q", gotCfg.PostBuildEvent.Command)
	}
	gotWild, ok := proj.Config(model.AllConfigs)
	if !ok {
		t.Fatal("no wildcard configuration parsed back")
	}
	if diff := cmp.Diff([]string{"COMMON"}, gotWild.Compiler.Defines); diff != "" {
		t.Errorf("wildcard defines (-want +got):\n%s", diff)
	}
	f, ok := proj.File("/ws/pch.cpp")
	if !ok {
		t.Fatal("pch.cpp not parsed back")
	}
	if v, _ := f.Settings.Get(model.SettingPCHMode, "Debug|x64"); v != "Create" {
		t.Errorf("pch mode=%q, want Create via wildcard", v)
	}
}
