// Copyright 2025 The Slnforge Authors
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package frontend

import (
	"context"
	"testing"

	"github.com/slnforge/slnforge/fsys"
)

func TestLoad_SelectsByName(t *testing.T) {
	fs := fsys.MemFS{Files: map[string]string{
		"/bs/build.bs":       "[solution]\nname = scripted\nconfigurations = Debug\nplatforms = x64\n[project:app]\ntype = exe\n",
		"/cm/CMakeLists.txt": "project(cmaked)\nadd_executable(app main.cpp)\n",
	}}

	sol, err := Load(context.Background(), "/bs/build.bs", Options{FS: fs, HostOS: "windows"})
	if err != nil {
		t.Fatalf("Load buildscript: %v", err)
	}
	if sol.Name != "scripted" {
		t.Errorf("buildscript solution name=%q", sol.Name)
	}

	sol, err = Load(context.Background(), "/cm/CMakeLists.txt", Options{FS: fs, HostOS: "windows"})
	if err != nil {
		t.Fatalf("Load cmake: %v", err)
	}
	if sol.Name != "cmaked" {
		t.Errorf("cmake solution name=%q", sol.Name)
	}
}

// The loader runs the resolution pass, so every configuration key has a
// complete configuration.
func TestLoad_Resolves(t *testing.T) {
	fs := fsys.MemFS{Files: map[string]string{
		"/ws/build.bs": "[solution]\nconfigurations = Debug, Release\nplatforms = x64\n[project:app]\ntype = exe\n",
	}}
	sol, err := Load(context.Background(), "/ws/build.bs", Options{FS: fs, HostOS: "windows"})
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	app, _ := sol.Project("app")
	for _, key := range sol.ConfigKeys() {
		cfg, ok := app.Config(key)
		if !ok || cfg.Compiler.Optimization == "" {
			t.Errorf("%s: missing resolved configuration", key)
		}
	}

	raw, err := Load(context.Background(), "/ws/build.bs", Options{FS: fs, HostOS: "windows", SkipResolve: true})
	if err != nil {
		t.Fatalf("Load raw: %v", err)
	}
	rawApp, _ := raw.Project("app")
	if cfg, ok := rawApp.Config("Release|x64"); ok && cfg.Compiler.Optimization != "" {
		t.Error("SkipResolve still filled defaults")
	}
}
