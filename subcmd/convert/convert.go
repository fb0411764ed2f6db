// Copyright 2025 The Slnforge Authors
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

// Package convert provides the convert subcommand: parse any supported
// input and re-emit it as a buildscript.
package convert

import (
	"context"
	"fmt"
	"os"

	"github.com/charmbracelet/log"
	"github.com/maruel/subcommands"

	"github.com/slnforge/slnforge/buildscript"
	"github.com/slnforge/slnforge/frontend"
)

func Cmd() *subcommands.Command {
	return &subcommands.Command{
		UsageLine: "convert [-o <file>] <input>",
		ShortDesc: "convert an input script to buildscript form",
		LongDesc: `Parses the input (a CMakeLists.txt, a .vcxproj or a buildscript) and
writes the equivalent buildscript. The model is not resolved first, so
the output carries only what the input declared.`,
		CommandRun: func() subcommands.CommandRun {
			c := &run{}
			c.init()
			return c
		},
	}
}

type run struct {
	subcommands.CommandRunBase
	out string
}

func (c *run) init() {
	c.Flags.StringVar(&c.out, "o", "", "output file. Empty means stdout.")
}

func (c *run) Run(a subcommands.Application, args []string, env subcommands.Env) int {
	if len(args) != 1 {
		fmt.Fprintf(a.GetErr(), "%s: expected exactly one input file\n", a.GetName())
		return 2
	}
	sol, err := frontend.Load(context.Background(), args[0], frontend.Options{SkipResolve: true})
	if err != nil {
		log.Errorf("loading %s: %v", args[0], err)
		return 1
	}
	data := buildscript.Write(sol)
	if c.out == "" {
		os.Stdout.Write(data)
		return 0
	}
	if err := os.WriteFile(c.out, data, 0o644); err != nil {
		log.Errorf("writing %s: %v", c.out, err)
		return 1
	}
	return 0
}
