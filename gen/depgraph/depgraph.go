// Copyright 2025 The Slnforge Authors
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

// Package depgraph renders the project dependency graph as graphviz dot
// text.
package depgraph

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/slnforge/slnforge/model"
)

// Generator writes <solution>.dot under outDir.
type Generator struct{}

func (*Generator) Name() string { return "depgraph" }

func (g *Generator) Generate(ctx context.Context, sol *model.Solution, outDir string) error {
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return err
	}
	name := sol.Name
	if name == "" {
		name = "solution"
	}
	return os.WriteFile(filepath.Join(outDir, name+".dot"), Render(sol), 0o644)
}

// Render returns the dot text. Nodes are shaped by target type and edges
// styled by visibility: solid for PUBLIC, dotted for PRIVATE, dashed for
// INTERFACE.
func Render(sol *model.Solution) []byte {
	var sb strings.Builder
	fmt.Fprintf(&sb, "digraph %q {\n", sol.Name)
	sb.WriteString("  rankdir=LR;\n")
	for _, proj := range sol.Projects {
		fmt.Fprintf(&sb, "  %q [shape=%s];\n", proj.Name, nodeShape(proj))
	}
	for _, proj := range sol.Projects {
		for _, dep := range proj.Dependencies {
			fmt.Fprintf(&sb, "  %q -> %q [style=%s, label=%q];\n",
				proj.Name, dep.Target, edgeStyle(dep.Visibility), dep.Visibility)
		}
		for _, lib := range proj.Libraries {
			fmt.Fprintf(&sb, "  %q -> %q [color=gray];\n", proj.Name, lib)
		}
	}
	sb.WriteString("}\n")
	return []byte(sb.String())
}

func nodeShape(proj *model.Project) string {
	for _, cfg := range proj.Configs {
		switch cfg.Type {
		case model.TargetApplication:
			return "box"
		case model.TargetDynamicLibrary:
			return "component"
		case model.TargetStaticLibrary:
			return "folder"
		}
	}
	return "ellipse"
}

func edgeStyle(vis model.Visibility) string {
	switch vis {
	case model.Private:
		return "dotted"
	case model.Interface:
		return "dashed"
	}
	return "solid"
}
