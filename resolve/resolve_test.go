// Copyright 2025 The Slnforge Authors
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package resolve

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/slnforge/slnforge/model"
)

func newTestSolution() *model.Solution {
	sol := model.NewSolution("test")
	sol.AddConfiguration("Debug")
	sol.AddConfiguration("Release")
	sol.AddPlatform("x64")
	return sol
}

func TestSolution_ConfigCompleteness(t *testing.T) {
	sol := newTestSolution()
	app := sol.ProjectOrCreate("app")
	app.ConfigOrCreate("Debug|x64").Compiler.Optimization = "Disabled"

	Solution(sol, DefaultPolicy())

	for _, key := range sol.ConfigKeys() {
		cfg, ok := app.Config(key)
		if !ok {
			t.Fatalf("no configuration for %s", key)
		}
		if cfg.Compiler.Optimization == "" || cfg.Compiler.RuntimeLibrary == "" || cfg.Compiler.DebugInformationFormat == "" {
			t.Errorf("%s: incomplete configuration: %+v", key, cfg.Compiler)
		}
	}

	debug, _ := app.Config("Debug|x64")
	if debug.Compiler.Optimization != "Disabled" {
		t.Errorf("Debug optimization=%q, want explicit Disabled kept", debug.Compiler.Optimization)
	}
	if debug.Compiler.RuntimeLibrary != "MultiThreadedDebugDLL" {
		t.Errorf("Debug runtime=%q", debug.Compiler.RuntimeLibrary)
	}
	release, _ := app.Config("Release|x64")
	if release.Compiler.Optimization != "MaxSpeed" {
		t.Errorf("Release optimization=%q, want MaxSpeed default", release.Compiler.Optimization)
	}
	if release.Linker.EnableCOMDATFolding != "true" || release.Linker.OptimizeReferences != "true" {
		t.Errorf("Release linker defaults not applied: %+v", release.Linker)
	}
}

func TestSolution_WildcardShadowsPolicy(t *testing.T) {
	sol := newTestSolution()
	app := sol.ProjectOrCreate("app")
	wild := app.ConfigOrCreate(model.AllConfigs)
	wild.Compiler.Optimization = "MinSpace"
	wild.Compiler.Defines = []string{"COMMON"}

	Solution(sol, DefaultPolicy())

	for _, key := range sol.ConfigKeys() {
		cfg, _ := app.Config(key)
		if cfg.Compiler.Optimization != "MinSpace" {
			t.Errorf("%s: optimization=%q, want wildcard MinSpace", key, cfg.Compiler.Optimization)
		}
		if diff := cmp.Diff([]string{"COMMON"}, cfg.Compiler.Defines); diff != "" {
			t.Errorf("%s: defines (-want +got):\n%s", key, diff)
		}
	}
}

func TestSolution_ProjectDefinesPrepended(t *testing.T) {
	sol := newTestSolution()
	app := sol.ProjectOrCreate("app")
	app.Defines = []string{"GLOBAL", "NDEBUG"}
	app.ConfigOrCreate("Release|x64").Compiler.Defines = []string{"NDEBUG", "FAST"}

	Solution(sol, DefaultPolicy())

	release, _ := app.Config("Release|x64")
	if diff := cmp.Diff([]string{"GLOBAL", "NDEBUG", "FAST"}, release.Compiler.Defines); diff != "" {
		t.Errorf("release defines (-want +got):\n%s", diff)
	}
	debug, _ := app.Config("Debug|x64")
	if diff := cmp.Diff([]string{"GLOBAL", "NDEBUG"}, debug.Compiler.Defines); diff != "" {
		t.Errorf("debug defines (-want +got):\n%s", diff)
	}
}

func TestSolution_ReclassifiesProjectLibraries(t *testing.T) {
	sol := newTestSolution()
	sol.ProjectOrCreate("liba")
	app := sol.ProjectOrCreate("app")
	app.AddLibrary("liba.lib")
	app.AddLibrary("winmm.lib")

	Solution(sol, DefaultPolicy())

	wantDeps := []model.Dependency{{Target: "liba", Visibility: model.Public}}
	if diff := cmp.Diff(wantDeps, app.Dependencies); diff != "" {
		t.Errorf("dependencies (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"winmm.lib"}, app.Libraries); diff != "" {
		t.Errorf("libraries (-want +got):\n%s", diff)
	}
}

// A public chain a→b→c propagates c's includes all the way up; a private
// edge stops after one hop.
func TestSolution_TransitiveIncludePropagation(t *testing.T) {
	sol := newTestSolution()
	a := sol.ProjectOrCreate("a")
	b := sol.ProjectOrCreate("b")
	c := sol.ProjectOrCreate("c")
	d := sol.ProjectOrCreate("d")
	a.AddDependency("b", model.Public)
	b.AddDependency("c", model.Public)
	b.AddDependency("d", model.Private)
	b.ConfigOrCreate(model.AllConfigs).Compiler.IncludeDirs = []string{"/b/include"}
	c.ConfigOrCreate(model.AllConfigs).Compiler.IncludeDirs = []string{"/c/include"}
	d.ConfigOrCreate(model.AllConfigs).Compiler.IncludeDirs = []string{"/d/include"}

	Solution(sol, DefaultPolicy())

	aCfg, _ := a.Config("Debug|x64")
	if diff := cmp.Diff([]string{"/b/include", "/c/include"}, aCfg.Compiler.IncludeDirs); diff != "" {
		t.Errorf("a includes (-want +got):\n%s", diff)
	}
	bCfg, _ := b.Config("Debug|x64")
	want := []string{"/b/include", "/c/include", "/d/include"}
	if diff := cmp.Diff(want, bCfg.Compiler.IncludeDirs); diff != "" {
		t.Errorf("b includes (-want +got):\n%s", diff)
	}
}

func TestSolution_InterfaceIncludesPropagate(t *testing.T) {
	sol := newTestSolution()
	app := sol.ProjectOrCreate("app")
	iface := sol.ProjectOrCreate("iface")
	app.AddDependency("iface", model.Interface)
	iface.ConfigOrCreate(model.AllConfigs).Compiler.IncludeDirs = []string{"/iface/include"}

	Solution(sol, DefaultPolicy())

	cfg, _ := app.Config("Release|x64")
	if diff := cmp.Diff([]string{"/iface/include"}, cfg.Compiler.IncludeDirs); diff != "" {
		t.Errorf("includes (-want +got):\n%s", diff)
	}
}

func TestSolution_PropagationIsPerKey(t *testing.T) {
	sol := newTestSolution()
	app := sol.ProjectOrCreate("app")
	lib := sol.ProjectOrCreate("lib")
	app.AddDependency("lib", model.Public)
	lib.ConfigOrCreate("Debug|x64").Compiler.IncludeDirs = []string{"/lib/debug-include"}

	Solution(sol, DefaultPolicy())

	debug, _ := app.Config("Debug|x64")
	if diff := cmp.Diff([]string{"/lib/debug-include"}, debug.Compiler.IncludeDirs); diff != "" {
		t.Errorf("debug includes (-want +got):\n%s", diff)
	}
	release, _ := app.Config("Release|x64")
	if len(release.Compiler.IncludeDirs) != 0 {
		t.Errorf("release includes=%v, want none", release.Compiler.IncludeDirs)
	}
}

func TestSolution_DependencyCycleTerminates(t *testing.T) {
	sol := newTestSolution()
	a := sol.ProjectOrCreate("a")
	b := sol.ProjectOrCreate("b")
	a.AddDependency("b", model.Public)
	b.AddDependency("a", model.Public)
	a.ConfigOrCreate(model.AllConfigs).Compiler.IncludeDirs = []string{"/a/include"}
	b.ConfigOrCreate(model.AllConfigs).Compiler.IncludeDirs = []string{"/b/include"}

	Solution(sol, DefaultPolicy())

	aCfg, _ := a.Config("Debug|x64")
	if diff := cmp.Diff([]string{"/a/include", "/b/include"}, aCfg.Compiler.IncludeDirs); diff != "" {
		t.Errorf("a includes (-want +got):\n%s", diff)
	}
}
