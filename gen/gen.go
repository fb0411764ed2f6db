// Copyright 2025 The Slnforge Authors
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

// Package gen defines the output side: a Generator serializes a resolved
// Solution into build files of one flavor. Generators are looked up
// through an explicit Registry constructed at startup, not a process-wide
// table.
package gen

import (
	"context"
	"sort"

	"github.com/slnforge/slnforge/model"
)

// Generator writes one output flavor of a resolved Solution under outDir.
type Generator interface {
	// Name is the registry key, e.g. "vcxproj".
	Name() string
	// Generate writes the solution. outDir must already exist or be
	// creatable by the generator.
	Generate(ctx context.Context, sol *model.Solution, outDir string) error
}

// Registry maps generator names to implementations.
type Registry struct {
	gens map[string]Generator
}

// NewRegistry returns a registry holding the given generators.
func NewRegistry(gens ...Generator) *Registry {
	r := &Registry{gens: map[string]Generator{}}
	for _, g := range gens {
		r.gens[g.Name()] = g
	}
	return r
}

// Get returns the named generator.
func (r *Registry) Get(name string) (Generator, bool) {
	g, ok := r.gens[name]
	return g, ok
}

// Names lists the registered generator names, sorted.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.gens))
	for n := range r.gens {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}
