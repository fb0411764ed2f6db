// Copyright 2025 The Slnforge Authors
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

// Package buildscript parses the native line-oriented buildscript format
// into a model.Solution. Parsing is a two step pipeline: Preprocess
// collapses multi-line values into logical lines, then the Parser's line
// driven state machine interprets each line against the current section,
// file and conditional context.
package buildscript

import (
	"context"
	"fmt"
	"path"
	"runtime"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/slnforge/slnforge/fsys"
	"github.com/slnforge/slnforge/model"
)

// Options configures a Parser. The zero value parses from the host file
// system for the host OS.
type Options struct {
	FS     fsys.FS
	HostOS string // runtime.GOOS when empty, used by platform conditions
}

// Parser interprets buildscript text into a Solution. A Parser is single
// use: Load may be called once.
type Parser struct {
	fsys   fsys.FS
	hostOS string

	sol       *model.Solution
	proj      *model.Project
	file      *model.SourceFile
	configKey string // selected by a [config:...] section

	conds     []condFrame
	condTexts []string // condition text per frame, for project records
	includes  []string // canonical path stack for cycle detection

	// active file group opened by file_properties / set_file_properties
	group          []*model.SourceFile
	groupClose     byte // '}' or ')'
	groupCondDepth int

	accum string // pending multi-line pseudo-function call

	fname  string
	dir    string
	lineno int
}

// NewParser returns a Parser with the given options.
func NewParser(opts Options) *Parser {
	p := &Parser{fsys: opts.FS, hostOS: opts.HostOS}
	if p.fsys == nil {
		p.fsys = fsys.OS()
	}
	if p.hostOS == "" {
		p.hostOS = runtime.GOOS
	}
	return p
}

// Load parses the buildscript at fname and returns the populated Solution.
// An unreadable top-level file is the only fatal error; everything else is
// reported as a warning and parsing continues.
func (p *Parser) Load(ctx context.Context, fname string) (*model.Solution, error) {
	full, err := p.fsys.Canonical(fname)
	if err != nil {
		return nil, fmt.Errorf("resolving %s: %w", fname, err)
	}
	data, err := p.fsys.ReadFile(full)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", fname, err)
	}
	name := strings.TrimSuffix(path.Base(full), path.Ext(full))
	p.sol = model.NewSolution(name)
	p.includes = append(p.includes, full)
	p.fname = fname
	p.dir = path.Dir(full)
	p.parseText(string(data))
	if len(p.conds) > 0 {
		log.Warnf("%s: %d unterminated if block(s) at end of input", p.fname, len(p.conds))
		p.conds = p.conds[:0]
		p.condTexts = p.condTexts[:0]
	}
	if p.group != nil {
		log.Warnf("%s: file group not closed at end of input", p.fname)
		p.closeGroup()
	}
	return p.sol, nil
}

func (p *Parser) parseText(text string) {
	lines := strings.Split(Preprocess(text), "\n")
	for i, line := range lines {
		p.lineno = i + 1
		p.parseLine(strings.TrimSpace(line))
	}
	// A call cannot span file boundaries.
	if p.accum != "" {
		p.warnf("unmatched parentheses in %q at end of input, discarding call", p.accum)
		p.accum = ""
	}
}

func (p *Parser) warnf(format string, args ...any) {
	log.Warnf("%s:%d: %s", p.fname, p.lineno, fmt.Sprintf(format, args...))
}

func (p *Parser) parseLine(line string) {
	line = strings.TrimSpace(stripComment(line))

	// A pending pseudo-function call accumulates lines until its
	// parentheses balance. A section header cannot belong to a call, so
	// hitting one means the parentheses never closed: drop the call and
	// keep parsing from the header.
	if p.accum != "" {
		if strings.HasPrefix(line, "[") && strings.HasSuffix(line, "]") {
			p.warnf("unmatched parentheses in %q, discarding call", p.accum)
			p.accum = ""
		} else {
			p.accum += " " + line
			if parenBalance(p.accum) <= 0 {
				call := p.accum
				p.accum = ""
				p.dispatchCall(call)
			}
			return
		}
	}

	if line == "" || line[0] == ';' {
		return
	}

	// Brace bookkeeping comes first so skipped blocks nest correctly.
	if line == "}" {
		if p.group != nil && p.groupClose == '}' && len(p.conds) == p.groupCondDepth {
			p.closeGroup()
			return
		}
		if !p.popBrace() {
			p.warnf("unmatched }")
		}
		return
	}
	if cond, ok := ifHeader(line); ok {
		if p.executing() {
			p.pushCond(cond)
			p.condTexts = append(p.condTexts, cond)
		} else {
			p.conds[len(p.conds)-1].ignoredBraceDepth++
		}
		return
	}
	if !p.executing() {
		if strings.HasSuffix(line, "{") {
			p.conds[len(p.conds)-1].ignoredBraceDepth++
		}
		return
	}
	// Drop condition texts of frames that were popped.
	if len(p.condTexts) > len(p.conds) {
		p.condTexts = p.condTexts[:len(p.conds)]
	}

	if line == ")" && p.group != nil && p.groupClose == ')' {
		p.closeGroup()
		return
	}
	if line == "{" {
		return // block opener of a call parsed on the previous line
	}

	if strings.HasPrefix(line, "[") && strings.HasSuffix(line, "]") {
		p.parseSection(line[1 : len(line)-1])
		return
	}

	if name, ok := callName(line); ok {
		if parenBalance(line) > 0 {
			if name == "set_file_properties" {
				// settings follow on their own lines until `)`
				p.openGroupCall(line+")", ')')
				return
			}
			p.accum = line
			return
		}
		p.dispatchCall(line)
		return
	}

	if key, value, ok := splitAssign(line); ok {
		p.parseAssign(key, value)
		return
	}

	p.warnf("malformed line %q", line)
}

// ifHeader matches `if (<cond>) {` and returns the condition text.
func ifHeader(line string) (string, bool) {
	rest, ok := strings.CutPrefix(line, "if")
	if !ok || rest == "" || (rest[0] != ' ' && rest[0] != '(') {
		return "", false
	}
	rest = strings.TrimSpace(rest)
	if !strings.HasSuffix(rest, "{") {
		return "", false
	}
	rest = strings.TrimSpace(strings.TrimSuffix(rest, "{"))
	if !strings.HasPrefix(rest, "(") || !strings.HasSuffix(rest, ")") {
		return "", false
	}
	return strings.TrimSpace(rest[1 : len(rest)-1]), true
}

func (p *Parser) parseSection(sec string) {
	kind, arg, _ := strings.Cut(sec, ":")
	switch strings.ToLower(strings.TrimSpace(kind)) {
	case "solution":
		p.proj, p.file, p.configKey = nil, nil, ""
	case "project":
		name := strings.TrimSpace(arg)
		if name == "" {
			p.warnf("project section without a name")
			return
		}
		p.proj = p.sol.ProjectOrCreate(name)
		p.proj.Conditions = append([]string(nil), p.condTexts...)
		p.file = nil
		p.configKey = ""
	case "file":
		if p.proj == nil {
			p.warnf("file section outside a project")
			return
		}
		p.file = p.proj.FileOrCreate(p.resolvePath(strings.TrimSpace(arg)))
	case "config":
		if strings.TrimSpace(arg) == model.AllConfigs {
			p.configKey = model.AllConfigs
			return
		}
		cfg, plat := model.SplitConfigKey(strings.TrimSpace(arg))
		if cfg == "" || plat == "" {
			p.warnf("config section needs Config|Platform, got %q", arg)
			return
		}
		// Republish the discovered configuration/platform immediately so
		// settings parsed later for other projects see the new key.
		p.sol.AddConfiguration(cfg)
		p.sol.AddPlatform(plat)
		p.configKey = model.ConfigKey(cfg, plat)
	default:
		p.warnf("unknown section [%s]", sec)
	}
}

func (p *Parser) parseAssign(key, value string) {
	filePath, name, cfgKey := splitSettingKey(key)

	if filePath == "" && cfgKey == "" && name == "include" {
		p.parseInclude(unquote(value))
		return
	}

	switch {
	case p.group != nil:
		// Inside a file group every assignment is a per-file setting.
		k := cfgKey
		if k == "" {
			k = model.AllConfigs
		}
		for _, f := range p.group {
			broadcastSetting(f, name, k, unquote(value))
		}
	case filePath != "":
		if p.proj == nil {
			p.warnf("file setting %q outside a project", key)
			return
		}
		f := p.proj.FileOrCreate(p.resolvePath(filePath))
		p.setFileSetting(f, name, cfgKey, value)
	case p.file != nil:
		p.setFileSetting(p.file, name, cfgKey, value)
	case cfgKey != "":
		p.applyPerConfig(name, cfgKey, value)
	case p.configKey != "":
		p.applyPerConfig(name, p.configKey, value)
	case p.proj != nil:
		p.applyProjectSetting(name, value)
	default:
		p.applySolutionSetting(name, value)
	}
}

func (p *Parser) setFileSetting(f *model.SourceFile, name, cfgKey, value string) {
	k := cfgKey
	if k == "" {
		k = p.configKey
	}
	if k == "" {
		k = model.AllConfigs
	}
	broadcastSetting(f, name, k, unquote(value))
}

func broadcastSetting(f *model.SourceFile, name, key, value string) {
	f.Settings.Set(name, key, value)
	if name == model.SettingCustomCommand {
		f.Type = model.FileCustomBuild
	}
}

// applyPerConfig writes a project setting under an explicit configuration
// key. A bare configuration name fans out across the known platforms.
func (p *Parser) applyPerConfig(name, cfgKey, value string) {
	if p.proj == nil {
		p.warnf("per-config setting %q outside a project", name)
		return
	}
	keys := []string{cfgKey}
	if cfgKey != model.AllConfigs && !strings.Contains(cfgKey, "|") {
		keys = keys[:0]
		for _, plat := range p.sol.Platforms {
			keys = append(keys, model.ConfigKey(cfgKey, plat))
		}
		if len(keys) == 0 {
			p.warnf("setting %q[%s]: no platforms known yet", name, cfgKey)
			return
		}
	}
	for _, k := range keys {
		if err := p.applyConfigSetting(p.proj.ConfigOrCreate(k), name, value); err != nil {
			p.warnf("%v", err)
			return
		}
	}
}

// Settings fanned out eagerly to every known configuration key at write
// time; later lookups need a real per-key value to mutate in place.
func eagerFanOut(name string) bool {
	switch name {
	case "defines", "type", "output_dir", "intermediate_dir":
		return true
	}
	return false
}

func (p *Parser) applyProjectSetting(name, value string) {
	proj := p.proj
	switch name {
	case "sources", "headers", "files":
		for _, pat := range splitList(value) {
			p.addSources(pat)
		}
		return
	case "dependencies", "deps":
		for _, dep := range splitList(value) {
			proj.AddDependency(dep, model.Public)
		}
		return
	case "libraries", "libs":
		for _, lib := range splitList(value) {
			proj.AddLibrary(lib)
		}
		return
	case "display_name":
		proj.DisplayName = unquote(value)
		return
	case "defines":
		proj.Defines = append(proj.Defines, splitList(value)...)
	}

	if eagerFanOut(name) {
		for _, key := range p.sol.ConfigKeys() {
			if err := p.applyConfigSetting(proj.ConfigOrCreate(key), name, value); err != nil {
				p.warnf("%v", err)
				return
			}
		}
		if name == "defines" {
			// carried by proj.Defines; the resolution pass applies them
			// to configuration keys discovered later
			return
		}
		// keep the wildcard copy too so late keys inherit it
	}
	if err := p.applyConfigSetting(proj.ConfigOrCreate(model.AllConfigs), name, value); err != nil {
		p.warnf("%v", err)
	}
}

func (p *Parser) applySolutionSetting(name, value string) {
	switch name {
	case "name":
		p.sol.Name = unquote(value)
	case "configurations":
		for _, c := range splitList(value) {
			p.sol.AddConfiguration(c)
		}
	case "platforms":
		for _, pl := range splitList(value) {
			p.sol.AddPlatform(pl)
		}
	case "startup_project":
		p.sol.StartupProject = unquote(value)
	default:
		p.warnf("unknown solution setting %q", name)
	}
}

// applyConfigSetting maps a setting name to its Configuration field.
func (p *Parser) applyConfigSetting(cfg *model.Configuration, name, value string) error {
	switch name {
	case "type":
		t, err := parseTargetType(unquote(value))
		if err != nil {
			return err
		}
		cfg.Type = t
	case "optimization":
		cfg.Compiler.Optimization = unquote(value)
	case "runtime_library":
		cfg.Compiler.RuntimeLibrary = unquote(value)
	case "debug_info":
		cfg.Compiler.DebugInformationFormat = unquote(value)
	case "warnings":
		cfg.Compiler.WarningLevel = unquote(value)
	case "warnings_as_errors":
		cfg.Compiler.WarningsAsErrors = unquote(value)
	case "std", "language_standard":
		cfg.Compiler.LanguageStandard = unquote(value)
	case "pch_mode":
		cfg.Compiler.PCHMode = unquote(value)
	case "pch_header":
		cfg.Compiler.PCHHeader = unquote(value)
	case "pch_output":
		cfg.Compiler.PCHOutput = unquote(value)
	case "defines":
		cfg.Compiler.Defines = append(cfg.Compiler.Defines, splitList(value)...)
	case "includes", "include_dirs":
		cfg.Compiler.IncludeDirs = append(cfg.Compiler.IncludeDirs, p.resolvePaths(splitList(value))...)
	case "options", "compiler_options":
		cfg.Compiler.Options = append(cfg.Compiler.Options, splitList(value)...)
	case "libraries", "libs":
		cfg.Linker.Libraries = append(cfg.Linker.Libraries, splitList(value)...)
	case "libdirs", "library_dirs":
		cfg.Linker.LibraryDirs = append(cfg.Linker.LibraryDirs, p.resolvePaths(splitList(value))...)
	case "link_options":
		cfg.Linker.Options = append(cfg.Linker.Options, splitList(value)...)
	case "subsystem":
		cfg.Linker.Subsystem = unquote(value)
	case "incremental":
		cfg.Linker.Incremental = unquote(value)
	case "module_def":
		cfg.Linker.ModuleDefinitionFile = unquote(value)
	case "import_library":
		cfg.Linker.ImportLibrary = unquote(value)
	case "output_file":
		cfg.Linker.OutputFile = unquote(value)
	case "output_dir":
		cfg.OutputDir = unquote(value)
	case "intermediate_dir":
		cfg.IntermediateDir = unquote(value)
	case "target_name":
		cfg.TargetName = unquote(value)
	case "target_ext":
		cfg.TargetExt = unquote(value)
	case "prebuild":
		cfg.PreBuildEvent.Command = unescapeMultiline(unquote(value))
	case "prelink":
		cfg.PreLinkEvent.Command = unescapeMultiline(unquote(value))
	case "postbuild":
		cfg.PostBuildEvent.Command = unescapeMultiline(unquote(value))
	default:
		return fmt.Errorf("unknown setting %q", name)
	}
	return nil
}

// addSources expands a source pattern and registers the matches.
func (p *Parser) addSources(pattern string) {
	pattern = unquote(pattern)
	if !strings.ContainsAny(pattern, "*?[") {
		p.proj.FileOrCreate(p.resolvePath(pattern))
		return
	}
	full := pattern
	if !path.IsAbs(strings.ReplaceAll(pattern, "\\", "/")) {
		full = path.Join(p.dir, pattern)
	}
	matches, err := fsys.Glob(p.fsys, full)
	if err != nil {
		p.warnf("expanding %q: %v", pattern, err)
		return
	}
	if len(matches) == 0 {
		p.warnf("pattern %q matched no files", pattern)
		return
	}
	for _, m := range matches {
		p.proj.FileOrCreate(p.resolvePath(m))
	}
}

func (p *Parser) parseInclude(name string) {
	full, err := p.fsys.Canonical(p.resolvePath(name))
	if err != nil {
		p.warnf("include %q: %v", name, err)
		return
	}
	for _, inc := range p.includes {
		if inc == full {
			p.warnf("circular include of %s, skipping", name)
			return
		}
	}
	data, err := p.fsys.ReadFile(full)
	if err != nil {
		p.warnf("cannot read include %q: %v", name, err)
		return
	}
	p.includes = append(p.includes, full)
	fname, dir, lineno := p.fname, p.dir, p.lineno
	p.fname = name
	p.dir = path.Dir(full)
	p.parseText(string(data))
	p.fname, p.dir, p.lineno = fname, dir, lineno
	p.includes = p.includes[:len(p.includes)-1]
}

// resolvePath normalizes a possibly relative path against the directory of
// the file being parsed.
func (p *Parser) resolvePath(name string) string {
	name = strings.ReplaceAll(unquote(name), "\\", "/")
	if !path.IsAbs(name) {
		name = path.Join(p.dir, name)
	}
	return path.Clean(name)
}

func (p *Parser) resolvePaths(names []string) []string {
	out := make([]string, 0, len(names))
	for _, n := range names {
		out = append(out, p.resolvePath(n))
	}
	return out
}

func parseTargetType(s string) (string, error) {
	switch strings.ToLower(s) {
	case "exe", "application", "console":
		return model.TargetApplication, nil
	case "lib", "static", "staticlibrary":
		return model.TargetStaticLibrary, nil
	case "dll", "shared", "dynamiclibrary":
		return model.TargetDynamicLibrary, nil
	case "utility", "none":
		return model.TargetUtility, nil
	}
	return "", fmt.Errorf("unknown target type %q", s)
}
