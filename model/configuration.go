// Copyright 2025 The Slnforge Authors
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package model

import "strings"

// Target types a Configuration can build.
const (
	TargetApplication    = "Application"
	TargetStaticLibrary  = "StaticLibrary"
	TargetDynamicLibrary = "DynamicLibrary"
	TargetUtility        = "Utility"
)

// Configuration is one concrete build variant of a Project, owned by it and
// created lazily on first write to a configuration key.
//
// Tri-state switches (incremental linking, debug info, COMDAT folding etc.)
// are strings holding "", "true" or "false" so the resolution pass can tell
// unset apart from disabled.
type Configuration struct {
	Type            string
	OutputDir       string
	IntermediateDir string
	TargetName      string
	TargetExt       string

	Compiler         Compiler
	Linker           Linker
	Librarian        Librarian
	ResourceCompiler ResourceCompiler

	PreBuildEvent  BuildEvent
	PreLinkEvent   BuildEvent
	PostBuildEvent BuildEvent
}

// Compiler holds compile settings for one configuration.
type Compiler struct {
	Optimization           string
	RuntimeLibrary         string
	DebugInformationFormat string
	WarningLevel           string
	WarningsAsErrors       string
	FunctionLevelLinking   string
	LanguageStandard       string
	PCHMode                string
	PCHHeader              string
	PCHOutput              string
	Defines                []string
	IncludeDirs            []string
	Options                []string
}

// Linker holds link settings for one configuration.
type Linker struct {
	Subsystem            string
	Incremental          string
	GenerateDebugInfo    string
	OptimizeReferences   string
	EnableCOMDATFolding  string
	OutputFile           string
	ImportLibrary        string
	ModuleDefinitionFile string
	Libraries            []string
	LibraryDirs          []string
	Options              []string
}

// Librarian holds static library archiver settings.
type Librarian struct {
	OutputFile  string
	Libraries   []string
	LibraryDirs []string
	Options     []string
}

// ResourceCompiler holds resource compile settings.
type ResourceCompiler struct {
	Defines     []string
	IncludeDirs []string
	Options     []string
}

// BuildEvent is a pre/post build command.
type BuildEvent struct {
	Command string
	Message string
}

// Merge fills unset scalar fields of c from base and prepends base's list
// values, so wildcard-scope settings apply under configuration-specific ones.
func (c *Configuration) Merge(base *Configuration) {
	mergeStr(&c.Type, base.Type)
	mergeStr(&c.OutputDir, base.OutputDir)
	mergeStr(&c.IntermediateDir, base.IntermediateDir)
	mergeStr(&c.TargetName, base.TargetName)
	mergeStr(&c.TargetExt, base.TargetExt)

	mergeStr(&c.Compiler.Optimization, base.Compiler.Optimization)
	mergeStr(&c.Compiler.RuntimeLibrary, base.Compiler.RuntimeLibrary)
	mergeStr(&c.Compiler.DebugInformationFormat, base.Compiler.DebugInformationFormat)
	mergeStr(&c.Compiler.WarningLevel, base.Compiler.WarningLevel)
	mergeStr(&c.Compiler.WarningsAsErrors, base.Compiler.WarningsAsErrors)
	mergeStr(&c.Compiler.FunctionLevelLinking, base.Compiler.FunctionLevelLinking)
	mergeStr(&c.Compiler.LanguageStandard, base.Compiler.LanguageStandard)
	mergeStr(&c.Compiler.PCHMode, base.Compiler.PCHMode)
	mergeStr(&c.Compiler.PCHHeader, base.Compiler.PCHHeader)
	mergeStr(&c.Compiler.PCHOutput, base.Compiler.PCHOutput)
	c.Compiler.Defines = prependMissing(base.Compiler.Defines, c.Compiler.Defines)
	c.Compiler.IncludeDirs = prependMissing(base.Compiler.IncludeDirs, c.Compiler.IncludeDirs)
	c.Compiler.Options = prependMissing(base.Compiler.Options, c.Compiler.Options)

	mergeStr(&c.Linker.Subsystem, base.Linker.Subsystem)
	mergeStr(&c.Linker.Incremental, base.Linker.Incremental)
	mergeStr(&c.Linker.GenerateDebugInfo, base.Linker.GenerateDebugInfo)
	mergeStr(&c.Linker.OptimizeReferences, base.Linker.OptimizeReferences)
	mergeStr(&c.Linker.EnableCOMDATFolding, base.Linker.EnableCOMDATFolding)
	mergeStr(&c.Linker.OutputFile, base.Linker.OutputFile)
	mergeStr(&c.Linker.ImportLibrary, base.Linker.ImportLibrary)
	mergeStr(&c.Linker.ModuleDefinitionFile, base.Linker.ModuleDefinitionFile)
	c.Linker.Libraries = prependMissing(base.Linker.Libraries, c.Linker.Libraries)
	c.Linker.LibraryDirs = prependMissing(base.Linker.LibraryDirs, c.Linker.LibraryDirs)
	c.Linker.Options = prependMissing(base.Linker.Options, c.Linker.Options)

	mergeStr(&c.Librarian.OutputFile, base.Librarian.OutputFile)
	c.Librarian.Libraries = prependMissing(base.Librarian.Libraries, c.Librarian.Libraries)
	c.Librarian.LibraryDirs = prependMissing(base.Librarian.LibraryDirs, c.Librarian.LibraryDirs)
	c.Librarian.Options = prependMissing(base.Librarian.Options, c.Librarian.Options)

	c.ResourceCompiler.Defines = prependMissing(base.ResourceCompiler.Defines, c.ResourceCompiler.Defines)
	c.ResourceCompiler.IncludeDirs = prependMissing(base.ResourceCompiler.IncludeDirs, c.ResourceCompiler.IncludeDirs)
	c.ResourceCompiler.Options = prependMissing(base.ResourceCompiler.Options, c.ResourceCompiler.Options)

	mergeEvent(&c.PreBuildEvent, base.PreBuildEvent)
	mergeEvent(&c.PreLinkEvent, base.PreLinkEvent)
	mergeEvent(&c.PostBuildEvent, base.PostBuildEvent)
}

func mergeStr(dst *string, src string) {
	if *dst == "" {
		*dst = src
	}
}

func mergeEvent(dst *BuildEvent, src BuildEvent) {
	if dst.Command == "" {
		dst.Command = src.Command
		mergeStr(&dst.Message, src.Message)
	}
}

// prependMissing returns base followed by items, dropping base entries that
// items already contains.
func prependMissing(base, items []string) []string {
	if len(base) == 0 {
		return items
	}
	out := make([]string, 0, len(base)+len(items))
	for _, b := range base {
		seen := false
		for _, it := range items {
			if b == it {
				seen = true
				break
			}
		}
		if !seen {
			out = append(out, b)
		}
	}
	return append(out, items...)
}

// Setting returns the configuration-level value of a well known per-file
// setting name. It is the last tier of the per-file settings lookup.
func (c *Configuration) Setting(name string) string {
	switch name {
	case SettingPCHMode:
		return c.Compiler.PCHMode
	case SettingPCHHeader:
		return c.Compiler.PCHHeader
	case SettingPCHOutput:
		return c.Compiler.PCHOutput
	case SettingOptimization:
		return c.Compiler.Optimization
	case SettingDefines:
		return strings.Join(c.Compiler.Defines, ";")
	case SettingIncludes:
		return strings.Join(c.Compiler.IncludeDirs, ";")
	case SettingOptions:
		return strings.Join(c.Compiler.Options, " ")
	}
	return ""
}
