// Copyright 2025 The Slnforge Authors
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

// Package model holds the normalized, platform independent project model:
// a Solution of Projects, each with per-configuration settings indexed by
// configuration key ("Config|Platform") or the wildcard key "*". Both
// front-ends populate this model and the resolution pass finalizes it.
package model

import "github.com/google/uuid"

// Solution is the root of the model.
type Solution struct {
	Name string
	ID   string

	// Configurations and Platforms are ordered; their cross product forms
	// the solution's configuration keys.
	Configurations []string
	Platforms      []string

	Projects []*Project

	StartupProject string
}

// NewSolution returns an empty Solution with a fresh id.
func NewSolution(name string) *Solution {
	return &Solution{Name: name, ID: uuid.NewString()}
}

// ConfigKeys returns the cross product of configurations and platforms in
// declaration order.
func (s *Solution) ConfigKeys() []string {
	keys := make([]string, 0, len(s.Configurations)*len(s.Platforms))
	for _, c := range s.Configurations {
		for _, p := range s.Platforms {
			keys = append(keys, ConfigKey(c, p))
		}
	}
	return keys
}

// Project returns the project with the given name.
func (s *Solution) Project(name string) (*Project, bool) {
	for _, p := range s.Projects {
		if p.Name == name {
			return p, true
		}
	}
	return nil, false
}

// ProjectOrCreate returns the project with the given name, creating it on
// first reference.
func (s *Solution) ProjectOrCreate(name string) *Project {
	if p, ok := s.Project(name); ok {
		return p
	}
	p := newProject(name)
	s.Projects = append(s.Projects, p)
	return p
}

// AddConfiguration appends a configuration name unless already present.
func (s *Solution) AddConfiguration(name string) {
	s.Configurations = appendUnique(s.Configurations, name)
}

// AddPlatform appends a platform name unless already present.
func (s *Solution) AddPlatform(name string) {
	s.Platforms = appendUnique(s.Platforms, name)
}

func appendUnique(list []string, s string) []string {
	for _, e := range list {
		if e == s {
			return list
		}
	}
	return append(list, s)
}
