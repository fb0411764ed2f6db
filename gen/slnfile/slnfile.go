// Copyright 2025 The Slnforge Authors
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

// Package slnfile writes the Visual Studio solution text format tying the
// generated project files together.
package slnfile

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/slnforge/slnforge/model"
)

// cppProjectKind is the project-type guid solution files use for C++
// projects.
const cppProjectKind = "{8BC9CEB8-8B4A-11D0-8D11-00A0C91BC942}"

// Generator writes a .sln file referencing <project>.vcxproj files next
// to it.
type Generator struct{}

func (*Generator) Name() string { return "sln" }

func (g *Generator) Generate(ctx context.Context, sol *model.Solution, outDir string) error {
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return err
	}
	name := sol.Name
	if name == "" {
		name = "solution"
	}
	return os.WriteFile(filepath.Join(outDir, name+".sln"), Render(sol), 0o644)
}

// Render returns the solution file contents.
func Render(sol *model.Solution) []byte {
	var sb strings.Builder
	sb.WriteString("\r\nMicrosoft Visual Studio Solution File, Format Version 12.00\r\n")
	sb.WriteString("# Visual Studio Version 17\r\n")

	for _, proj := range orderedProjects(sol) {
		fmt.Fprintf(&sb, "Project(\"%s\") = \"%s\", \"%s.vcxproj\", \"%s\"\r\n",
			cppProjectKind, proj.DisplayName, proj.Name, guid(proj.ID))
		if deps := linkedDeps(sol, proj); len(deps) > 0 {
			sb.WriteString("\tProjectSection(ProjectDependencies) = postProject\r\n")
			for _, dep := range deps {
				fmt.Fprintf(&sb, "\t\t%s = %s\r\n", guid(dep.ID), guid(dep.ID))
			}
			sb.WriteString("\tEndProjectSection\r\n")
		}
		sb.WriteString("EndProject\r\n")
	}

	sb.WriteString("Global\r\n")
	sb.WriteString("\tGlobalSection(SolutionConfigurationPlatforms) = preSolution\r\n")
	for _, key := range sol.ConfigKeys() {
		fmt.Fprintf(&sb, "\t\t%s = %s\r\n", key, key)
	}
	sb.WriteString("\tEndGlobalSection\r\n")
	sb.WriteString("\tGlobalSection(ProjectConfigurationPlatforms) = postSolution\r\n")
	for _, proj := range sol.Projects {
		for _, key := range sol.ConfigKeys() {
			fmt.Fprintf(&sb, "\t\t%s.%s.ActiveCfg = %s\r\n", guid(proj.ID), key, key)
			fmt.Fprintf(&sb, "\t\t%s.%s.Build.0 = %s\r\n", guid(proj.ID), key, key)
		}
	}
	sb.WriteString("\tEndGlobalSection\r\n")
	sb.WriteString("EndGlobal\r\n")
	return []byte(sb.String())
}

// orderedProjects lists projects with the startup project first, matching
// how the IDE picks the default.
func orderedProjects(sol *model.Solution) []*model.Project {
	if sol.StartupProject == "" {
		return sol.Projects
	}
	startup, ok := sol.Project(sol.StartupProject)
	if !ok {
		return sol.Projects
	}
	out := []*model.Project{startup}
	for _, p := range sol.Projects {
		if p != startup {
			out = append(out, p)
		}
	}
	return out
}

// linkedDeps resolves a project's dependency edges to known projects.
// INTERFACE edges still order the build, so they are included.
func linkedDeps(sol *model.Solution, proj *model.Project) []*model.Project {
	var out []*model.Project
	for _, dep := range proj.Dependencies {
		if target, ok := sol.Project(dep.Target); ok {
			out = append(out, target)
		}
	}
	return out
}

func guid(id string) string {
	return "{" + strings.ToUpper(id) + "}"
}
