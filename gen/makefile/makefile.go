// Copyright 2025 The Slnforge Authors
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

// Package makefile writes a GNU makefile rendering of one configuration
// key, mainly for building the same tree on POSIX hosts.
package makefile

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/slnforge/slnforge/model"
)

// Generator writes a Makefile for one configuration key.
type Generator struct {
	// Key selects the configuration to render. Empty means the first
	// key of the solution.
	Key string
}

func (*Generator) Name() string { return "makefile" }

func (g *Generator) Generate(ctx context.Context, sol *model.Solution, outDir string) error {
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return err
	}
	key := g.Key
	if key == "" {
		keys := sol.ConfigKeys()
		if len(keys) == 0 {
			return fmt.Errorf("solution %q has no configuration keys", sol.Name)
		}
		key = keys[0]
	}
	return os.WriteFile(filepath.Join(outDir, "Makefile"), Render(sol, key), 0o644)
}

// Render returns makefile text for one configuration key.
func Render(sol *model.Solution, key string) []byte {
	var sb strings.Builder
	fmt.Fprintf(&sb, "# %s (%s)\n", sol.Name, key)
	sb.WriteString("CXX ?= g++\nAR ?= ar\n\n")

	var targets []string
	for _, proj := range sol.Projects {
		if out := outputName(proj, key); out != "" {
			targets = append(targets, out)
		}
	}
	fmt.Fprintf(&sb, "all: %s\n", strings.Join(targets, " "))
	sb.WriteString("\n.PHONY: all clean\n\n")

	for _, proj := range sol.Projects {
		renderProject(&sb, sol, proj, key)
	}

	sb.WriteString("clean:\n\trm -rf obj " + strings.Join(targets, " ") + "\n")
	return []byte(sb.String())
}

func renderProject(sb *strings.Builder, sol *model.Solution, proj *model.Project, key string) {
	out := outputName(proj, key)
	if out == "" {
		return
	}
	cfg, ok := proj.Config(key)
	if !ok {
		cfg = &model.Configuration{}
	}
	upper := strings.ToUpper(proj.Name)

	var objs []string
	for _, f := range proj.Files {
		if f.Type != model.FileCompile {
			continue
		}
		if f.Setting(model.SettingExcluded, key, nil) == "true" {
			continue
		}
		base := strings.TrimSuffix(filepath.Base(f.Path), filepath.Ext(f.Path))
		objs = append(objs, fmt.Sprintf("obj/%s/%s.o", proj.Name, base))
	}
	fmt.Fprintf(sb, "%s_OBJS = %s\n", upper, strings.Join(objs, " "))
	fmt.Fprintf(sb, "%s_CXXFLAGS = %s\n", upper, strings.Join(compileFlags(cfg), " "))

	deps := dependencyOutputs(sol, proj, key)
	fmt.Fprintf(sb, "%s: $(%s_OBJS) %s\n", out, upper, strings.Join(deps, " "))
	switch cfg.Type {
	case model.TargetStaticLibrary:
		fmt.Fprintf(sb, "\t$(AR) rcs $@ $(%s_OBJS)\n", upper)
	default:
		libs := append(append([]string(nil), deps...), proj.Libraries...)
		libs = append(libs, cfg.Linker.Libraries...)
		fmt.Fprintf(sb, "\t$(CXX) -o $@ $(%s_OBJS) %s\n", upper, strings.Join(libs, " "))
	}
	sb.WriteString("\n")

	for _, f := range proj.Files {
		if f.Type != model.FileCompile {
			continue
		}
		if f.Setting(model.SettingExcluded, key, nil) == "true" {
			continue
		}
		base := strings.TrimSuffix(filepath.Base(f.Path), filepath.Ext(f.Path))
		fmt.Fprintf(sb, "obj/%s/%s.o: %s\n", proj.Name, base, f.Path)
		fmt.Fprintf(sb, "\t@mkdir -p obj/%s\n", proj.Name)
		fmt.Fprintf(sb, "\t$(CXX) $(%s_CXXFLAGS) -c -o $@ %s\n\n", upper, f.Path)
	}
}

// compileFlags maps the configuration's compile settings to GCC style
// flags. Settings without a sensible mapping are dropped.
func compileFlags(cfg *model.Configuration) []string {
	var flags []string
	switch cfg.Compiler.Optimization {
	case "Disabled":
		flags = append(flags, "-O0")
	case "MinSpace":
		flags = append(flags, "-Os")
	case "MaxSpeed", "Full":
		flags = append(flags, "-O2")
	}
	if cfg.Compiler.DebugInformationFormat != "" {
		flags = append(flags, "-g")
	}
	for _, d := range cfg.Compiler.Defines {
		flags = append(flags, "-D"+d)
	}
	for _, inc := range cfg.Compiler.IncludeDirs {
		flags = append(flags, "-I"+inc)
	}
	return flags
}

// outputName is the artifact a project produces for one key, or "" for
// targets that build nothing.
func outputName(proj *model.Project, key string) string {
	cfg, ok := proj.Config(key)
	if !ok {
		return ""
	}
	name := cfg.TargetName
	if name == "" {
		name = proj.Name
	}
	switch cfg.Type {
	case model.TargetStaticLibrary:
		return "lib" + name + ".a"
	case model.TargetDynamicLibrary:
		return "lib" + name + ".so"
	case model.TargetApplication:
		return name
	}
	return ""
}

// dependencyOutputs lists the linkable artifacts of a project's
// dependencies. INTERFACE edges contribute nothing to the link line.
func dependencyOutputs(sol *model.Solution, proj *model.Project, key string) []string {
	var out []string
	for _, dep := range proj.Dependencies {
		if dep.Visibility == model.Interface {
			continue
		}
		target, ok := sol.Project(dep.Target)
		if !ok {
			continue
		}
		if o := outputName(target, key); o != "" {
			out = append(out, o)
		}
	}
	return out
}
