// Copyright 2025 The Slnforge Authors
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package buildscript

import (
	"fmt"
	"sort"
	"strings"

	"github.com/slnforge/slnforge/model"
)

// Write renders a Solution back into buildscript text that Load accepts.
// Dependency visibility other than PUBLIC is not expressible in the
// format and degrades to a plain dependency.
func Write(sol *model.Solution) []byte {
	var sb strings.Builder

	sb.WriteString("[solution]\n")
	writeSetting(&sb, "name", sol.Name)
	writeSetting(&sb, "configurations", strings.Join(sol.Configurations, ", "))
	writeSetting(&sb, "platforms", strings.Join(sol.Platforms, ", "))
	writeSetting(&sb, "startup_project", sol.StartupProject)
	sb.WriteString("\n")

	for _, proj := range sol.Projects {
		writeProject(&sb, proj)
	}
	return []byte(sb.String())
}

func writeProject(sb *strings.Builder, proj *model.Project) {
	fmt.Fprintf(sb, "[project:%s]\n", proj.Name)
	if proj.DisplayName != proj.Name {
		writeSetting(sb, "display_name", proj.DisplayName)
	}

	var sources, headers, others []string
	for _, f := range proj.Files {
		switch f.Type {
		case model.FileCompile:
			sources = append(sources, f.Path)
		case model.FileHeader:
			headers = append(headers, f.Path)
		default:
			others = append(others, f.Path)
		}
	}
	writeSetting(sb, "sources", strings.Join(sources, ", "))
	writeSetting(sb, "headers", strings.Join(headers, ", "))
	writeSetting(sb, "files", strings.Join(others, ", "))

	var deps []string
	for _, d := range proj.Dependencies {
		deps = append(deps, d.Target)
	}
	writeSetting(sb, "dependencies", strings.Join(deps, ", "))
	writeSetting(sb, "libraries", strings.Join(proj.Libraries, ", "))
	writeSetting(sb, "defines", strings.Join(proj.Defines, ", "))

	for _, f := range proj.Files {
		writeFileSettings(sb, f)
	}
	sb.WriteString("\n")

	for _, key := range configKeys(proj) {
		cfg := proj.Configs[key]
		fmt.Fprintf(sb, "[config:%s]\n", key)
		writeConfig(sb, cfg)
		sb.WriteString("\n")
	}
}

// configKeys orders a project's configuration keys with the wildcard
// first so later sections override it.
func configKeys(proj *model.Project) []string {
	var keys []string
	for key := range proj.Configs {
		if key != model.AllConfigs {
			keys = append(keys, key)
		}
	}
	sort.Strings(keys)
	if _, ok := proj.Configs[model.AllConfigs]; ok {
		keys = append([]string{model.AllConfigs}, keys...)
	}
	return keys
}

func writeConfig(sb *strings.Builder, cfg *model.Configuration) {
	writeSetting(sb, "type", scriptTargetType(cfg.Type))
	writeSetting(sb, "optimization", cfg.Compiler.Optimization)
	writeSetting(sb, "runtime_library", cfg.Compiler.RuntimeLibrary)
	writeSetting(sb, "debug_info", cfg.Compiler.DebugInformationFormat)
	writeSetting(sb, "warnings", cfg.Compiler.WarningLevel)
	writeSetting(sb, "warnings_as_errors", cfg.Compiler.WarningsAsErrors)
	writeSetting(sb, "std", cfg.Compiler.LanguageStandard)
	writeSetting(sb, "pch_mode", cfg.Compiler.PCHMode)
	writeSetting(sb, "pch_header", cfg.Compiler.PCHHeader)
	writeSetting(sb, "pch_output", cfg.Compiler.PCHOutput)
	writeSetting(sb, "defines", strings.Join(cfg.Compiler.Defines, ", "))
	writeSetting(sb, "includes", strings.Join(cfg.Compiler.IncludeDirs, ", "))
	writeSetting(sb, "options", strings.Join(cfg.Compiler.Options, ", "))
	writeSetting(sb, "libraries", strings.Join(cfg.Linker.Libraries, ", "))
	writeSetting(sb, "libdirs", strings.Join(cfg.Linker.LibraryDirs, ", "))
	writeSetting(sb, "link_options", strings.Join(cfg.Linker.Options, ", "))
	writeSetting(sb, "subsystem", cfg.Linker.Subsystem)
	writeSetting(sb, "incremental", cfg.Linker.Incremental)
	writeSetting(sb, "module_def", cfg.Linker.ModuleDefinitionFile)
	writeSetting(sb, "import_library", cfg.Linker.ImportLibrary)
	writeSetting(sb, "output_file", cfg.Linker.OutputFile)
	writeSetting(sb, "output_dir", cfg.OutputDir)
	writeSetting(sb, "intermediate_dir", cfg.IntermediateDir)
	writeSetting(sb, "target_name", cfg.TargetName)
	writeSetting(sb, "target_ext", cfg.TargetExt)
	writeSetting(sb, "prebuild", escapeMultiline(cfg.PreBuildEvent.Command))
	writeSetting(sb, "prelink", escapeMultiline(cfg.PreLinkEvent.Command))
	writeSetting(sb, "postbuild", escapeMultiline(cfg.PostBuildEvent.Command))
}

func writeFileSettings(sb *strings.Builder, f *model.SourceFile) {
	for _, name := range f.Settings.Names() {
		prop := f.Settings.Prop(name)
		keys := make([]string, 0, len(prop))
		for key := range prop {
			keys = append(keys, key)
		}
		sort.Strings(keys)
		for _, key := range keys {
			if key == model.AllConfigs {
				fmt.Fprintf(sb, "%s:%s = %s\n", f.Path, name, prop[key])
			} else {
				fmt.Fprintf(sb, "%s:%s[%s] = %s\n", f.Path, name, key, prop[key])
			}
		}
	}
}

func writeSetting(sb *strings.Builder, name, value string) {
	if value == "" {
		return
	}
	fmt.Fprintf(sb, "%s = %s\n", name, value)
}

// scriptTargetType is the inverse of parseTargetType.
func scriptTargetType(t string) string {
	switch t {
	case model.TargetApplication:
		return "exe"
	case model.TargetStaticLibrary:
		return "lib"
	case model.TargetDynamicLibrary:
		return "dll"
	case model.TargetUtility:
		return "utility"
	}
	return ""
}

// escapeMultiline is the inverse of unescapeMultiline.
func escapeMultiline(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	return strings.ReplaceAll(s, "\n", `\n`)
}
