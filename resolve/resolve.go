// Copyright 2025 The Slnforge Authors
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

// Package resolve normalizes a populated Solution after a front-end has
// finished: it fills policy defaults for every configuration key, applies
// deferred project-level definitions, reclassifies library references that
// turned out to name internal projects, and propagates include directories
// along the dependency graph.
package resolve

import (
	"path"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/slnforge/slnforge/model"
)

// Policy supplies the defaults filled into configurations that a front-end
// left unset. Defaults depend on the configuration name only, never on the
// platform.
type Policy struct {
	Debug   model.Configuration
	Release model.Configuration

	// IsDebug classifies a configuration name. Nil means a case
	// insensitive "debug" substring match.
	IsDebug func(name string) bool
}

// DefaultPolicy returns the Visual Studio style defaults: debug builds get
// no optimization, the debug runtime and edit-and-continue debug info;
// everything else gets speed optimization with function-level linking,
// COMDAT folding and reference elimination.
func DefaultPolicy() Policy {
	return Policy{
		Debug: model.Configuration{
			Compiler: model.Compiler{
				Optimization:           "Disabled",
				RuntimeLibrary:         "MultiThreadedDebugDLL",
				DebugInformationFormat: "EditAndContinue",
			},
			Linker: model.Linker{
				Incremental:       "true",
				GenerateDebugInfo: "true",
			},
		},
		Release: model.Configuration{
			Compiler: model.Compiler{
				Optimization:           "MaxSpeed",
				RuntimeLibrary:         "MultiThreadedDLL",
				DebugInformationFormat: "ProgramDatabase",
				FunctionLevelLinking:   "true",
			},
			Linker: model.Linker{
				Incremental:         "false",
				EnableCOMDATFolding: "true",
				OptimizeReferences:  "true",
			},
		},
	}
}

func (p Policy) isDebug(name string) bool {
	if p.IsDebug != nil {
		return p.IsDebug(name)
	}
	return strings.Contains(strings.ToLower(name), "debug")
}

// defaults returns the policy configuration for one configuration key.
func (p Policy) defaults(key string) *model.Configuration {
	name, _ := model.SplitConfigKey(key)
	if p.isDebug(name) {
		return &p.Debug
	}
	return &p.Release
}

// Solution runs the resolution pass in place. It only mutates: no Project
// is created or deleted, and already explicit settings win over defaults.
func Solution(sol *model.Solution, pol Policy) {
	keys := sol.ConfigKeys()
	for _, proj := range sol.Projects {
		completeConfigs(proj, keys, pol)
		applyProjectDefines(proj, keys)
	}
	for _, proj := range sol.Projects {
		reclassifyLibraries(sol, proj)
	}
	// Propagation reads the pre-propagation include lists so the result
	// does not depend on project order and a PRIVATE dependency's
	// includes cannot ride along an extra hop.
	snap := snapshotIncludes(sol, keys)
	for _, proj := range sol.Projects {
		propagateIncludes(sol, proj, keys, snap)
	}
}

func snapshotIncludes(sol *model.Solution, keys []string) map[string]map[string][]string {
	snap := make(map[string]map[string][]string, len(sol.Projects))
	for _, proj := range sol.Projects {
		m := map[string][]string{}
		for _, key := range keys {
			if cfg, ok := proj.Config(key); ok {
				m[key] = append([]string(nil), cfg.Compiler.IncludeDirs...)
			}
		}
		snap[proj.Name] = m
	}
	return snap
}

// completeConfigs gives proj a Configuration for every key: the wildcard
// entry is folded in first so explicit wildcard settings shadow policy
// defaults.
func completeConfigs(proj *model.Project, keys []string, pol Policy) {
	wild, hasWild := proj.Config(model.AllConfigs)
	for _, key := range keys {
		cfg := proj.ConfigOrCreate(key)
		if hasWild {
			cfg.Merge(wild)
		}
		cfg.Merge(pol.defaults(key))
	}
}

// applyProjectDefines pushes definitions that were recorded before all
// configuration keys were known onto every key, ahead of the per-key ones.
func applyProjectDefines(proj *model.Project, keys []string) {
	if len(proj.Defines) == 0 {
		return
	}
	for _, key := range keys {
		cfg := proj.ConfigOrCreate(key)
		cfg.Compiler.Defines = prependMissing(proj.Defines, cfg.Compiler.Defines)
	}
}

// reclassifyLibraries turns library references that name an existing
// project into dependency edges. This handles forward references declared
// before the target project existed.
func reclassifyLibraries(sol *model.Solution, proj *model.Project) {
	var kept []string
	for _, lib := range proj.Libraries {
		name := strings.TrimSuffix(path.Base(lib), path.Ext(lib))
		if _, ok := sol.Project(name); ok && name != proj.Name {
			log.Debugf("%s: library %q is project %q, adding dependency", proj.Name, lib, name)
			proj.AddDependency(name, model.Public)
			continue
		}
		kept = append(kept, lib)
	}
	proj.Libraries = kept
}

// propagateIncludes walks proj's dependency edges breadth-first and, per
// configuration key independently, appends each reachable dependency's
// include directories. Direct edges contribute regardless of visibility;
// beyond the first hop only non-PRIVATE edges are followed, so a PRIVATE
// dependency's includes stop at its immediate dependent.
func propagateIncludes(sol *model.Solution, proj *model.Project, keys []string, snap map[string]map[string][]string) {
	visited := map[string]bool{proj.Name: true}
	queue := append([]model.Dependency(nil), proj.Dependencies...)
	for len(queue) > 0 {
		edge := queue[0]
		queue = queue[1:]
		if visited[edge.Target] {
			continue
		}
		visited[edge.Target] = true
		dep, ok := sol.Project(edge.Target)
		if !ok {
			log.Warnf("%s: dependency %q is not a known project", proj.Name, edge.Target)
			continue
		}
		for _, key := range keys {
			dirs := snap[dep.Name][key]
			if len(dirs) == 0 {
				continue
			}
			cfg := proj.ConfigOrCreate(key)
			cfg.Compiler.IncludeDirs = appendMissing(cfg.Compiler.IncludeDirs, dirs)
		}
		for _, next := range dep.Dependencies {
			if next.Visibility != model.Private {
				queue = append(queue, next)
			}
		}
	}
}

func prependMissing(front, list []string) []string {
	have := map[string]bool{}
	for _, s := range list {
		have[s] = true
	}
	var out []string
	for _, s := range front {
		if !have[s] {
			out = append(out, s)
			have[s] = true
		}
	}
	return append(out, list...)
}

func appendMissing(list, extra []string) []string {
	have := map[string]bool{}
	for _, s := range list {
		have[s] = true
	}
	for _, s := range extra {
		if !have[s] {
			list = append(list, s)
			have[s] = true
		}
	}
	return list
}
