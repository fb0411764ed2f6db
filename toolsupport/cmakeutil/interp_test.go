// Copyright 2025 The Slnforge Authors
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package cmakeutil

import (
	"context"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/slnforge/slnforge/fsys"
	"github.com/slnforge/slnforge/model"
)

func interpFiles(t *testing.T, files map[string]string) *model.Solution {
	t.Helper()
	ip := NewInterp(Options{
		FS:     fsys.MemFS{Files: files},
		HostOS: "windows",
	})
	sol, err := ip.Load(context.Background(), "/ws/CMakeLists.txt")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	return sol
}

func interpScript(t *testing.T, script string) *model.Solution {
	t.Helper()
	return interpFiles(t, map[string]string{"/ws/CMakeLists.txt": script})
}

func TestInterp_ProjectAndTargets(t *testing.T) {
	sol := interpScript(t, `
project(Demo)
add_executable(app main.cpp util.cpp)
add_library(core STATIC core.cpp)
add_library(plugin SHARED plugin.cpp)
add_library(headers INTERFACE)
`)
	if sol.Name != "Demo" {
		t.Errorf("solution name=%q, want Demo", sol.Name)
	}
	want := map[string]string{
		"app":     model.TargetApplication,
		"core":    model.TargetStaticLibrary,
		"plugin":  model.TargetDynamicLibrary,
		"headers": model.TargetUtility,
	}
	for name, typ := range want {
		proj, ok := sol.Project(name)
		if !ok {
			t.Fatalf("project %q not found", name)
		}
		cfg, _ := proj.Config(model.AllConfigs)
		if cfg == nil || cfg.Type != typ {
			t.Errorf("%s: type=%v, want %q", name, cfg, typ)
		}
	}
	app, _ := sol.Project("app")
	var paths []string
	for _, f := range app.Files {
		paths = append(paths, f.Path)
	}
	if diff := cmp.Diff([]string{"/ws/main.cpp", "/ws/util.cpp"}, paths); diff != "" {
		t.Errorf("app files (-want +got):\n%s", diff)
	}
}

func TestInterp_SetAndIf(t *testing.T) {
	sol := interpScript(t, `
project(Cond)
add_executable(app main.cpp)
set(ENABLE_TRACE ON)
if(ENABLE_TRACE)
  target_compile_definitions(app PRIVATE TRACE=1)
else()
  target_compile_definitions(app PRIVATE TRACE=0)
endif()
if(NOT ENABLE_TRACE)
  target_compile_definitions(app PRIVATE UNWANTED)
endif()
if(ENABLE_TRACE STREQUAL "ON")
  target_compile_definitions(app PRIVATE TRACE_ON)
endif()
`)
	app, _ := sol.Project("app")
	cfg, _ := app.Config(model.AllConfigs)
	want := []string{"TRACE=1", "TRACE_ON"}
	if diff := cmp.Diff(want, cfg.Compiler.Defines); diff != "" {
		t.Errorf("defines (-want +got):\n%s", diff)
	}
}

func TestInterp_ElseifChain(t *testing.T) {
	sol := interpScript(t, `
add_executable(app main.cpp)
set(MODE beta)
if(MODE STREQUAL alpha)
  target_compile_definitions(app PRIVATE ALPHA)
elseif(MODE STREQUAL beta)
  target_compile_definitions(app PRIVATE BETA)
else()
  target_compile_definitions(app PRIVATE OTHER)
endif()
`)
	app, _ := sol.Project("app")
	cfg, _ := app.Config(model.AllConfigs)
	if diff := cmp.Diff([]string{"BETA"}, cfg.Compiler.Defines); diff != "" {
		t.Errorf("defines (-want +got):\n%s", diff)
	}
}

func TestInterp_AddSubdirectoryParentScope(t *testing.T) {
	sol := interpFiles(t, map[string]string{
		"/ws/CMakeLists.txt": `
project(Top)
add_subdirectory(sub)
add_executable(app main.cpp)
if(SUB_READY)
  target_compile_definitions(app PRIVATE HAVE_SUB)
endif()
if(SUB_LOCAL)
  target_compile_definitions(app PRIVATE LEAKED)
endif()
`,
		"/ws/sub/CMakeLists.txt": `
add_library(core STATIC core.cpp)
set(SUB_READY 1 PARENT_SCOPE)
set(SUB_LOCAL 1)
`,
	})
	core, ok := sol.Project("core")
	if !ok {
		t.Fatal("subdirectory target core not registered")
	}
	if got := core.Files[0].Path; got != "/ws/sub/core.cpp" {
		t.Errorf("core source=%q, want /ws/sub/core.cpp", got)
	}
	app, _ := sol.Project("app")
	cfg, _ := app.Config(model.AllConfigs)
	if diff := cmp.Diff([]string{"HAVE_SUB"}, cfg.Compiler.Defines); diff != "" {
		t.Errorf("defines (-want +got):\n%s", diff)
	}
}

func TestInterp_FunctionScopeIsIsolated(t *testing.T) {
	sol := interpScript(t, `
add_executable(app main.cpp)
function(mark target)
  set(INSIDE 1)
  target_compile_definitions(${target} PRIVATE FROM_FUNC)
endfunction()
mark(app)
if(INSIDE)
  target_compile_definitions(app PRIVATE LEAKED)
endif()
`)
	app, _ := sol.Project("app")
	cfg, _ := app.Config(model.AllConfigs)
	if diff := cmp.Diff([]string{"FROM_FUNC"}, cfg.Compiler.Defines); diff != "" {
		t.Errorf("defines (-want +got):\n%s", diff)
	}
}

func TestInterp_MacroRunsInCallerScope(t *testing.T) {
	sol := interpScript(t, `
add_executable(app main.cpp)
macro(remember)
  set(SEEN 1)
endmacro()
remember()
if(SEEN)
  target_compile_definitions(app PRIVATE SEEN_SET)
endif()
`)
	app, _ := sol.Project("app")
	cfg, _ := app.Config(model.AllConfigs)
	if diff := cmp.Diff([]string{"SEEN_SET"}, cfg.Compiler.Defines); diff != "" {
		t.Errorf("defines (-want +got):\n%s", diff)
	}
}

func TestInterp_MacroRestoresShadowedParams(t *testing.T) {
	sol := interpScript(t, `
add_executable(app main.cpp)
set(name outer)
macro(shadow name)
endmacro()
shadow(inner)
if(name STREQUAL outer)
  target_compile_definitions(app PRIVATE RESTORED)
endif()
`)
	app, _ := sol.Project("app")
	cfg, _ := app.Config(model.AllConfigs)
	if diff := cmp.Diff([]string{"RESTORED"}, cfg.Compiler.Defines); diff != "" {
		t.Errorf("defines (-want +got):\n%s", diff)
	}
}

func TestInterp_ForeachForms(t *testing.T) {
	sol := interpScript(t, `
add_executable(app main.cpp)
foreach(n RANGE 1 3)
  target_compile_definitions(app PRIVATE "N${n}")
endforeach()
set(EXTRA a;b)
foreach(x IN LISTS EXTRA ITEMS c)
  target_compile_definitions(app PRIVATE "X_${x}")
endforeach()
foreach(bad RANGE one ten)
  target_compile_definitions(app PRIVATE NEVER)
endforeach()
`)
	app, _ := sol.Project("app")
	cfg, _ := app.Config(model.AllConfigs)
	want := []string{"N1", "N2", "N3", "X_a", "X_b", "X_c"}
	if diff := cmp.Diff(want, cfg.Compiler.Defines); diff != "" {
		t.Errorf("defines (-want +got):\n%s", diff)
	}
}

func TestInterp_WhileLoop(t *testing.T) {
	sol := interpScript(t, `
add_executable(app main.cpp)
set(again 1)
while(again)
  target_compile_definitions(app PRIVATE ONCE)
  set(again 0)
endwhile()
`)
	app, _ := sol.Project("app")
	cfg, _ := app.Config(model.AllConfigs)
	if diff := cmp.Diff([]string{"ONCE"}, cfg.Compiler.Defines); diff != "" {
		t.Errorf("defines (-want +got):\n%s", diff)
	}
}

func TestInterp_ConfigurationTypes(t *testing.T) {
	sol := interpScript(t, `
set(CMAKE_CONFIGURATION_TYPES "Debug;Release;Profile")
`)
	want := []string{"Debug", "Release", "Profile"}
	if diff := cmp.Diff(want, sol.Configurations); diff != "" {
		t.Errorf("configurations (-want +got):\n%s", diff)
	}
}

func TestInterp_LinkLibraryClassification(t *testing.T) {
	sol := interpScript(t, `
add_library(core STATIC core.cpp)
add_executable(app main.cpp)
target_link_libraries(app PRIVATE core winmm ../ext/foo.a dbghelp.lib)
`)
	app, _ := sol.Project("app")
	wantDeps := []model.Dependency{{Target: "core", Visibility: model.Private}}
	if diff := cmp.Diff(wantDeps, app.Dependencies); diff != "" {
		t.Errorf("dependencies (-want +got):\n%s", diff)
	}
	wantLibs := []string{"winmm.lib", "../ext/foo.a", "dbghelp.lib"}
	if diff := cmp.Diff(wantLibs, app.Libraries); diff != "" {
		t.Errorf("libraries (-want +got):\n%s", diff)
	}
}

func TestInterp_VisibilityStateMachine(t *testing.T) {
	sol := interpScript(t, `
add_library(core STATIC core.cpp)
add_library(util STATIC util.cpp)
add_library(iface INTERFACE)
add_executable(app main.cpp)
target_link_libraries(app core PRIVATE util INTERFACE iface)
`)
	app, _ := sol.Project("app")
	want := []model.Dependency{
		{Target: "core", Visibility: model.Public},
		{Target: "util", Visibility: model.Private},
		{Target: "iface", Visibility: model.Interface},
	}
	if diff := cmp.Diff(want, app.Dependencies); diff != "" {
		t.Errorf("dependencies (-want +got):\n%s", diff)
	}
}

func TestInterp_GenexPerConfiguration(t *testing.T) {
	sol := interpScript(t, `
add_executable(app main.cpp)
target_compile_options(app PRIVATE $<$<CONFIG:Debug>:/Od> /W4)
target_compile_definitions(app PRIVATE $<$<CONFIG:Release>:NDEBUG>)
`)
	app, _ := sol.Project("app")

	wild, _ := app.Config(model.AllConfigs)
	if diff := cmp.Diff([]string{"/W4"}, wild.Compiler.Options); diff != "" {
		t.Errorf("wildcard options (-want +got):\n%s", diff)
	}

	debug, ok := app.Config("Debug|x64")
	if !ok {
		t.Fatal("no Debug|x64 configuration")
	}
	if diff := cmp.Diff([]string{"/Od"}, debug.Compiler.Options); diff != "" {
		t.Errorf("debug options (-want +got):\n%s", diff)
	}

	release, ok := app.Config("Release|x64")
	if !ok {
		t.Fatal("no Release|x64 configuration")
	}
	if len(release.Compiler.Options) != 0 {
		t.Errorf("release options=%v, want none", release.Compiler.Options)
	}
	if diff := cmp.Diff([]string{"NDEBUG"}, release.Compiler.Defines); diff != "" {
		t.Errorf("release defines (-want +got):\n%s", diff)
	}
}

func TestInterp_IncludeDirectories(t *testing.T) {
	sol := interpScript(t, `
add_library(core STATIC core.cpp)
target_include_directories(core PUBLIC include "C:/sdk/include")
`)
	core, _ := sol.Project("core")
	cfg, _ := core.Config(model.AllConfigs)
	want := []string{"/ws/include", "C:/sdk/include"}
	if diff := cmp.Diff(want, cfg.Compiler.IncludeDirs); diff != "" {
		t.Errorf("include dirs (-want +got):\n%s", diff)
	}
}

func TestInterp_IncludeRunsInSameScope(t *testing.T) {
	sol := interpFiles(t, map[string]string{
		"/ws/CMakeLists.txt": `
include(vars.cmake)
add_executable(app main.cpp)
if(FROM_INCLUDE)
  target_compile_definitions(app PRIVATE INCLUDED)
endif()
`,
		"/ws/vars.cmake": `set(FROM_INCLUDE 1)`,
	})
	app, _ := sol.Project("app")
	cfg, _ := app.Config(model.AllConfigs)
	if diff := cmp.Diff([]string{"INCLUDED"}, cfg.Compiler.Defines); diff != "" {
		t.Errorf("defines (-want +got):\n%s", diff)
	}
}

func TestInterp_SetTargetProperties(t *testing.T) {
	sol := interpScript(t, `
add_executable(app main.cpp)
set_target_properties(app PROPERTIES OUTPUT_NAME demo)
`)
	app, _ := sol.Project("app")
	cfg, _ := app.Config(model.AllConfigs)
	if cfg.TargetName != "demo" {
		t.Errorf("TargetName=%q, want demo", cfg.TargetName)
	}
}

func TestInterp_NestedVarExpansion(t *testing.T) {
	sol := interpScript(t, `
add_executable(app main.cpp)
set(KIND DEBUG)
set(DEBUG_FLAGS /Zi)
target_compile_options(app PRIVATE ${${KIND}_FLAGS})
`)
	app, _ := sol.Project("app")
	cfg, _ := app.Config(model.AllConfigs)
	if diff := cmp.Diff([]string{"/Zi"}, cfg.Compiler.Options); diff != "" {
		t.Errorf("options (-want +got):\n%s", diff)
	}
}

func TestInterp_UnknownCommandsAndTargets(t *testing.T) {
	// unsupported commands and references to unknown targets are skipped
	sol := interpScript(t, `
install(TARGETS app DESTINATION bin)
target_compile_definitions(ghost PRIVATE X)
add_executable(app main.cpp)
`)
	if _, ok := sol.Project("app"); !ok {
		t.Fatal("app not created after recoverable errors")
	}
	if _, ok := sol.Project("ghost"); ok {
		t.Error("ghost should not exist")
	}
}

func TestInterp_MissingTopLevelIsFatal(t *testing.T) {
	ip := NewInterp(Options{FS: fsys.MemFS{Files: map[string]string{}}, HostOS: "windows"})
	if _, err := ip.Load(context.Background(), "/nope/CMakeLists.txt"); err == nil {
		t.Fatal("Load of missing file succeeded, want error")
	}
}
