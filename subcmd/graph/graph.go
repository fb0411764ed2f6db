// Copyright 2025 The Slnforge Authors
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

// Package graph provides the graph subcommand: print the project
// dependency graph as graphviz dot text.
package graph

import (
	"context"
	"fmt"
	"os"

	"github.com/charmbracelet/log"
	"github.com/maruel/subcommands"

	"github.com/slnforge/slnforge/frontend"
	"github.com/slnforge/slnforge/gen/depgraph"
)

func Cmd() *subcommands.Command {
	return &subcommands.Command{
		UsageLine: "graph [-o <file>] <input>",
		ShortDesc: "print the dependency graph as dot text",
		LongDesc:  "Parses and resolves the input, then prints the project dependency graph in graphviz dot form.",
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
	sol, err := frontend.Load(context.Background(), args[0], frontend.Options{})
	if err != nil {
		log.Errorf("loading %s: %v", args[0], err)
		return 1
	}
	data := depgraph.Render(sol)
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
