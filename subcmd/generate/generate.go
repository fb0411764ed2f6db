// Copyright 2025 The Slnforge Authors
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

// Package generate provides the generate subcommand: parse an input
// script and write build files.
package generate

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/maruel/subcommands"

	"github.com/slnforge/slnforge/frontend"
	"github.com/slnforge/slnforge/gen"
	"github.com/slnforge/slnforge/gen/depgraph"
	"github.com/slnforge/slnforge/gen/makefile"
	"github.com/slnforge/slnforge/gen/slnfile"
	"github.com/slnforge/slnforge/gen/vcxproj"
)

func Cmd() *subcommands.Command {
	return &subcommands.Command{
		UsageLine: "generate [-format <names>] [-o <dir>] <input>",
		ShortDesc: "generate build files from an input script",
		LongDesc: `Parses the input (a buildscript, a CMakeLists.txt or a .vcxproj),
resolves the model and writes the requested output formats.`,
		CommandRun: func() subcommands.CommandRun {
			c := &run{}
			c.init()
			return c
		},
	}
}

type run struct {
	subcommands.CommandRunBase
	outDir    string
	formats   string
	toolset   string
	makeKey   string
	configs   string
	platforms string
}

func (c *run) init() {
	c.Flags.StringVar(&c.outDir, "o", ".", "output directory.")
	c.Flags.StringVar(&c.formats, "format", "vcxproj,sln", "comma separated output formats: vcxproj, sln, makefile, depgraph.")
	c.Flags.StringVar(&c.toolset, "toolset", "", "PlatformToolset for vcxproj output (default v143).")
	c.Flags.StringVar(&c.makeKey, "make-config", "", "configuration key rendered by the makefile generator (default: first key).")
	c.Flags.StringVar(&c.configs, "configurations", "", "comma separated configuration names to seed the solution with.")
	c.Flags.StringVar(&c.platforms, "platforms", "", "comma separated platform names to seed the solution with.")
}

func (c *run) Run(a subcommands.Application, args []string, env subcommands.Env) int {
	if len(args) != 1 {
		fmt.Fprintf(a.GetErr(), "%s: expected exactly one input file\n", a.GetName())
		return 2
	}
	ctx := context.Background()
	sol, err := frontend.Load(ctx, args[0], frontend.Options{
		Configurations: splitFlag(c.configs),
		Platforms:      splitFlag(c.platforms),
	})
	if err != nil {
		log.Errorf("loading %s: %v", args[0], err)
		return 1
	}

	reg := gen.NewRegistry(
		&vcxproj.Generator{Toolset: c.toolset},
		&slnfile.Generator{},
		&makefile.Generator{Key: c.makeKey},
		&depgraph.Generator{},
	)
	for _, name := range splitFlag(c.formats) {
		g, ok := reg.Get(name)
		if !ok {
			fmt.Fprintf(a.GetErr(), "unknown format %q (have: %s)\n", name, strings.Join(reg.Names(), ", "))
			return 2
		}
		if err := g.Generate(ctx, sol, c.outDir); err != nil {
			log.Errorf("%s: %v", name, err)
			return 1
		}
		log.Infof("wrote %s output to %s", name, c.outDir)
	}
	return 0
}

func splitFlag(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
