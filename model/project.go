// Copyright 2025 The Slnforge Authors
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package model

import "github.com/google/uuid"

// Visibility controls how a dependency's settings affect dependents.
type Visibility int

const (
	// Public dependencies are linked and their include directories
	// propagate transitively to dependents.
	Public Visibility = iota
	// Private dependencies are linked; their include directories reach
	// the direct dependent only.
	Private
	// Interface dependencies are never linked but their include
	// directories propagate to dependents.
	Interface
)

func (v Visibility) String() string {
	switch v {
	case Private:
		return "PRIVATE"
	case Interface:
		return "INTERFACE"
	}
	return "PUBLIC"
}

// ParseVisibility maps a visibility keyword to its Visibility.
func ParseVisibility(s string) (Visibility, bool) {
	switch s {
	case "PUBLIC":
		return Public, true
	case "PRIVATE":
		return Private, true
	case "INTERFACE":
		return Interface, true
	}
	return Public, false
}

// Dependency is an edge to another Project of the same Solution.
type Dependency struct {
	Target     string
	Visibility Visibility
}

// Project is one buildable target of a Solution.
type Project struct {
	Name        string
	DisplayName string
	ID          string

	Files        []*SourceFile
	Libraries    []string // raw library references, reclassified during resolution
	Dependencies []Dependency

	// Configs maps configuration key (or AllConfigs) to settings.
	Configs map[string]*Configuration

	// Defines holds project-level preprocessor definitions declared before
	// all configuration keys were known; the resolution pass applies them
	// to every key.
	Defines []string

	// Conditions are the buildscript condition texts active when the
	// project was declared.
	Conditions []string
}

func newProject(name string) *Project {
	return &Project{
		Name:        name,
		DisplayName: name,
		ID:          uuid.NewString(),
		Configs:     map[string]*Configuration{},
	}
}

// Config returns the Configuration stored under exactly key.
func (p *Project) Config(key string) (*Configuration, bool) {
	c, ok := p.Configs[key]
	return c, ok
}

// ConfigOrCreate returns the Configuration for key, creating it on first use.
func (p *Project) ConfigOrCreate(key string) *Configuration {
	if c, ok := p.Configs[key]; ok {
		return c
	}
	c := &Configuration{}
	p.Configs[key] = c
	return c
}

// File returns the SourceFile with the given normalized path.
func (p *Project) File(path string) (*SourceFile, bool) {
	for _, f := range p.Files {
		if f.Path == path {
			return f, true
		}
	}
	return nil, false
}

// FileOrCreate returns the SourceFile for path, creating it on first
// reference with a type derived from the path's extension.
func (p *Project) FileOrCreate(path string) *SourceFile {
	if f, ok := p.File(path); ok {
		return f
	}
	f := &SourceFile{Path: path, Type: FileTypeForPath(path)}
	p.Files = append(p.Files, f)
	return f
}

// AddDependency appends an edge unless an equal one exists.
func (p *Project) AddDependency(target string, vis Visibility) {
	for _, d := range p.Dependencies {
		if d.Target == target && d.Visibility == vis {
			return
		}
	}
	p.Dependencies = append(p.Dependencies, Dependency{Target: target, Visibility: vis})
}

// AddLibrary appends a raw library reference unless already present.
func (p *Project) AddLibrary(lib string) {
	for _, l := range p.Libraries {
		if l == lib {
			return
		}
	}
	p.Libraries = append(p.Libraries, lib)
}
