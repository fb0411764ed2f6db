// Copyright 2025 The Slnforge Authors
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

// Package frontend picks the parser for an input file by its name and
// returns the resolved Solution: CMakeLists.txt/*.cmake go through the
// cmake interpreter, *.vcxproj through the project reader, everything
// else through the buildscript parser.
package frontend

import (
	"context"
	"path/filepath"
	"strings"

	"github.com/slnforge/slnforge/buildscript"
	"github.com/slnforge/slnforge/fsys"
	"github.com/slnforge/slnforge/gen/vcxproj"
	"github.com/slnforge/slnforge/model"
	"github.com/slnforge/slnforge/resolve"
	"github.com/slnforge/slnforge/toolsupport/cmakeutil"
)

// Options configures loading. The zero value uses the host file system,
// host OS conditions and the default resolution policy.
type Options struct {
	FS     fsys.FS
	HostOS string

	// Configurations and Platforms seed the solution for front-ends that
	// do not declare their own (the cmake interpreter).
	Configurations []string
	Platforms      []string

	// Policy overrides the resolution defaults. Nil means
	// resolve.DefaultPolicy.
	Policy *resolve.Policy

	// SkipResolve returns the raw parsed model without the resolution
	// pass.
	SkipResolve bool
}

// Load parses fname and returns the Solution, resolved unless
// opts.SkipResolve is set.
func Load(ctx context.Context, fname string, opts Options) (*model.Solution, error) {
	fs := opts.FS
	if fs == nil {
		fs = fsys.OS()
	}

	var sol *model.Solution
	var err error
	base := strings.ToLower(filepath.Base(fname))
	switch {
	case base == "cmakelists.txt" || strings.HasSuffix(base, ".cmake"):
		ip := cmakeutil.NewInterp(cmakeutil.Options{
			FS:             fs,
			HostOS:         opts.HostOS,
			Configurations: opts.Configurations,
			Platforms:      opts.Platforms,
		})
		sol, err = ip.Load(ctx, fname)
	case strings.HasSuffix(base, ".vcxproj"):
		sol, err = vcxproj.Read(fs, fname)
	default:
		p := buildscript.NewParser(buildscript.Options{FS: fs, HostOS: opts.HostOS})
		sol, err = p.Load(ctx, fname)
	}
	if err != nil {
		return nil, err
	}

	for _, c := range opts.Configurations {
		sol.AddConfiguration(c)
	}
	for _, p := range opts.Platforms {
		sol.AddPlatform(p)
	}
	if !opts.SkipResolve {
		pol := resolve.DefaultPolicy()
		if opts.Policy != nil {
			pol = *opts.Policy
		}
		resolve.Solution(sol, pol)
	}
	return sol, nil
}
