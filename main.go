// Copyright 2025 The Slnforge Authors
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

// Slnforge turns build descriptions (a line-oriented buildscript or a
// CMake subset) into Visual Studio solutions, makefiles and dependency
// reports.
package main

import (
	"os"

	"github.com/charmbracelet/log"
	"github.com/maruel/subcommands"

	"github.com/slnforge/slnforge/subcmd/convert"
	"github.com/slnforge/slnforge/subcmd/generate"
	"github.com/slnforge/slnforge/subcmd/graph"
	"github.com/slnforge/slnforge/subcmd/version"
)

const appVersion = "0.9.0"

func application() *subcommands.DefaultApplication {
	return &subcommands.DefaultApplication{
		Name:  "slnforge",
		Title: "slnforge is a build file generator.",
		Commands: []*subcommands.Command{
			generate.Cmd(),
			convert.Cmd(),
			graph.Cmd(),
			version.Cmd(appVersion),
			subcommands.CmdHelp,
		},
	}
}

func main() {
	log.SetReportTimestamp(false)
	if os.Getenv("SLNFORGE_DEBUG") != "" {
		log.SetLevel(log.DebugLevel)
	}
	os.Exit(subcommands.Run(application(), nil))
}
