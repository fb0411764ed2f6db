// Copyright 2025 The Slnforge Authors
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package cmakeutil

import (
	"path"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/slnforge/slnforge/model"
)

// libExt is the extension synthesized onto bare library names.
const libExt = ".lib"

// builtin executes one supported command against the model. Unsupported
// commands are skipped; the subset is deliberate.
func (ip *Interp) builtin(c command, args []string, sc *scope) {
	switch c.name {
	case "cmake_minimum_required", "cmake_policy", "enable_testing", "include_guard", "enable_language":
		// accepted and ignored
	case "project":
		ip.cmdProject(c, args, sc)
	case "set":
		ip.cmdSet(c, args, sc)
	case "unset":
		if len(args) > 0 {
			delete(sc.vars, args[0])
		}
	case "option":
		if len(args) == 0 {
			log.Warnf("line %d: option needs a name", c.line)
			return
		}
		if !sc.bound(args[0]) {
			v := "OFF"
			if len(args) >= 3 {
				v = args[2]
			}
			sc.vars[args[0]] = v
		}
	case "list":
		ip.cmdList(c, args, sc)
	case "message":
		cmdMessage(args)
	case "include":
		ip.cmdInclude(c, args, sc)
	case "add_subdirectory":
		ip.cmdAddSubdirectory(c, args, sc)
	case "add_executable":
		ip.cmdAddTarget(c, args, sc, model.TargetApplication)
	case "add_library":
		ip.cmdAddTarget(c, args, sc, model.TargetStaticLibrary)
	case "target_sources":
		if proj := ip.target(c, args); proj != nil {
			visItems(args[1:], func(_ model.Visibility, item string) {
				proj.FileOrCreate(resolveAgainst(sc.dir, item))
			})
		}
	case "target_include_directories":
		if proj := ip.target(c, args); proj != nil {
			visItems(args[1:], func(_ model.Visibility, item string) {
				ip.applyItem(proj, item, func(cfg *model.Configuration, v string) {
					cfg.Compiler.IncludeDirs = append(cfg.Compiler.IncludeDirs, resolveAgainst(sc.dir, v))
				})
			})
		}
	case "target_compile_definitions":
		if proj := ip.target(c, args); proj != nil {
			visItems(args[1:], func(_ model.Visibility, item string) {
				ip.applyItem(proj, item, func(cfg *model.Configuration, v string) {
					cfg.Compiler.Defines = append(cfg.Compiler.Defines, strings.TrimPrefix(v, "-D"))
				})
			})
		}
	case "target_compile_options":
		if proj := ip.target(c, args); proj != nil {
			visItems(args[1:], func(_ model.Visibility, item string) {
				ip.applyItem(proj, item, func(cfg *model.Configuration, v string) {
					cfg.Compiler.Options = append(cfg.Compiler.Options, v)
				})
			})
		}
	case "target_link_options":
		if proj := ip.target(c, args); proj != nil {
			visItems(args[1:], func(_ model.Visibility, item string) {
				ip.applyItem(proj, item, func(cfg *model.Configuration, v string) {
					cfg.Linker.Options = append(cfg.Linker.Options, v)
				})
			})
		}
	case "target_link_directories":
		if proj := ip.target(c, args); proj != nil {
			visItems(args[1:], func(_ model.Visibility, item string) {
				ip.applyItem(proj, item, func(cfg *model.Configuration, v string) {
					cfg.Linker.LibraryDirs = append(cfg.Linker.LibraryDirs, resolveAgainst(sc.dir, v))
				})
			})
		}
	case "target_link_libraries":
		ip.cmdTargetLinkLibraries(c, args, sc)
	case "set_target_properties":
		ip.cmdSetTargetProperties(c, args)
	default:
		log.Debugf("line %d: ignoring unsupported command %q", c.line, c.name)
	}
}

func (ip *Interp) cmdProject(c command, args []string, sc *scope) {
	if len(args) == 0 {
		log.Warnf("line %d: project needs a name", c.line)
		return
	}
	if !sc.bound("PROJECT_NAME") || sc.parent == nil {
		ip.sol.Name = args[0]
	}
	sc.vars["PROJECT_NAME"] = args[0]
}

func (ip *Interp) cmdSet(c command, args []string, sc *scope) {
	if len(args) == 0 {
		log.Warnf("line %d: set needs a variable name", c.line)
		return
	}
	name, rest := args[0], args[1:]
	parentScope := false
	if n := len(rest); n > 0 && rest[n-1] == "PARENT_SCOPE" {
		parentScope = true
		rest = rest[:n-1]
	}
	for i, a := range rest {
		if a == "CACHE" {
			rest = rest[:i]
			break
		}
	}
	val := strings.Join(rest, ";")
	if parentScope {
		if sc.parent == nil {
			log.Warnf("line %d: set(%s ... PARENT_SCOPE) at top level", c.line, name)
			return
		}
		if len(rest) == 0 {
			delete(sc.parent.vars, name)
		} else {
			sc.parent.vars[name] = val
		}
		return
	}
	if len(rest) == 0 {
		delete(sc.vars, name)
		return
	}
	sc.vars[name] = val
	if name == "CMAKE_CONFIGURATION_TYPES" {
		ip.sol.Configurations = nil
		for _, cfg := range strings.Split(val, ";") {
			if cfg != "" {
				ip.sol.AddConfiguration(cfg)
			}
		}
	}
}

func (ip *Interp) cmdList(c command, args []string, sc *scope) {
	if len(args) < 2 {
		log.Warnf("line %d: malformed list()", c.line)
		return
	}
	switch args[0] {
	case "APPEND":
		name := args[1]
		items := args[2:]
		cur := sc.lookup(name)
		joined := strings.Join(items, ";")
		if cur == "" {
			sc.vars[name] = joined
		} else if joined != "" {
			sc.vars[name] = cur + ";" + joined
		}
	default:
		log.Debugf("line %d: ignoring unsupported list(%s)", c.line, args[0])
	}
}

func cmdMessage(args []string) {
	if len(args) == 0 {
		return
	}
	switch args[0] {
	case "STATUS", "VERBOSE", "DEBUG", "TRACE", "NOTICE":
		log.Infof("%s", strings.Join(args[1:], " "))
	case "WARNING", "AUTHOR_WARNING", "DEPRECATION":
		log.Warnf("%s", strings.Join(args[1:], " "))
	case "FATAL_ERROR", "SEND_ERROR":
		log.Errorf("%s", strings.Join(args[1:], " "))
	default:
		log.Infof("%s", strings.Join(args, " "))
	}
}

func (ip *Interp) cmdInclude(c command, args []string, sc *scope) {
	if len(args) == 0 {
		log.Warnf("line %d: include needs a file", c.line)
		return
	}
	name := resolveAgainst(sc.dir, args[0])
	data, err := ip.fsys.ReadFile(name)
	if err != nil {
		if len(args) > 1 && args[1] == "OPTIONAL" {
			return
		}
		log.Warnf("line %d: cannot read include %q: %v", c.line, args[0], err)
		return
	}
	// included scripts run in the current scope
	ip.run(parseCommands(tokenize(string(data))), sc)
}

// cmdAddSubdirectory executes the subdirectory's list file in a cloned
// scope; only PARENT_SCOPE writes reach back.
func (ip *Interp) cmdAddSubdirectory(c command, args []string, sc *scope) {
	if len(args) == 0 {
		log.Warnf("line %d: add_subdirectory needs a directory", c.line)
		return
	}
	dir := resolveAgainst(sc.dir, args[0])
	listfile := dir + "/CMakeLists.txt"
	data, err := ip.fsys.ReadFile(listfile)
	if err != nil {
		log.Warnf("line %d: cannot read %s: %v", c.line, listfile, err)
		return
	}
	child := sc.child()
	child.dir = dir
	child.vars["CMAKE_CURRENT_SOURCE_DIR"] = dir
	ip.run(parseCommands(tokenize(string(data))), child)
}

// target type keywords accepted (and consumed) by add_executable and
// add_library argument lists.
var targetKeywords = map[string]bool{
	"WIN32": true, "MACOSX_BUNDLE": true, "EXCLUDE_FROM_ALL": true,
	"STATIC": true, "SHARED": true, "MODULE": true, "INTERFACE": true, "OBJECT": true,
}

func (ip *Interp) cmdAddTarget(c command, args []string, sc *scope, typ string) {
	if len(args) == 0 {
		log.Warnf("line %d: %s needs a target name", c.line, c.name)
		return
	}
	proj := ip.sol.ProjectOrCreate(args[0])
	for _, a := range args[1:] {
		if targetKeywords[a] {
			switch a {
			case "SHARED", "MODULE":
				typ = model.TargetDynamicLibrary
			case "STATIC":
				typ = model.TargetStaticLibrary
			case "INTERFACE":
				typ = model.TargetUtility
			}
			continue
		}
		proj.FileOrCreate(resolveAgainst(sc.dir, a))
	}
	proj.ConfigOrCreate(model.AllConfigs).Type = typ
}

// cmdTargetLinkLibraries classifies each argument three ways: an internal
// project name becomes a dependency edge with the current visibility, a
// path shaped argument is an external library file, and a bare name gets
// the library extension synthesized before insertion.
func (ip *Interp) cmdTargetLinkLibraries(c command, args []string, sc *scope) {
	proj := ip.target(c, args)
	if proj == nil {
		return
	}
	visItems(args[1:], func(vis model.Visibility, item string) {
		if hasGenex(item) {
			ip.applyItem(proj, item, func(cfg *model.Configuration, v string) {
				cfg.Linker.Libraries = append(cfg.Linker.Libraries, externalLibrary(v))
			})
			return
		}
		if _, ok := ip.sol.Project(item); ok {
			proj.AddDependency(item, vis)
			return
		}
		proj.AddLibrary(externalLibrary(item))
	})
}

// externalLibrary normalizes an external library reference. Path shaped
// references are kept as written; bare names get libExt appended.
func externalLibrary(item string) string {
	if strings.ContainsAny(item, "/\\") {
		return item
	}
	if path.Ext(item) == "" {
		return item + libExt
	}
	return item
}

func (ip *Interp) cmdSetTargetProperties(c command, args []string) {
	propIdx := -1
	for i, a := range args {
		if a == "PROPERTIES" {
			propIdx = i
			break
		}
	}
	if propIdx < 0 || propIdx+1 >= len(args) {
		log.Warnf("line %d: set_target_properties without PROPERTIES", c.line)
		return
	}
	props := args[propIdx+1:]
	for _, name := range args[:propIdx] {
		proj, ok := ip.sol.Project(name)
		if !ok {
			log.Warnf("line %d: unknown target %q", c.line, name)
			continue
		}
		for i := 0; i+1 < len(props); i += 2 {
			switch props[i] {
			case "OUTPUT_NAME":
				proj.ConfigOrCreate(model.AllConfigs).TargetName = props[i+1]
			default:
				log.Debugf("line %d: ignoring target property %q", c.line, props[i])
			}
		}
	}
}

// target resolves the first argument of a target_* command.
func (ip *Interp) target(c command, args []string) *model.Project {
	if len(args) == 0 {
		log.Warnf("line %d: %s needs a target", c.line, c.name)
		return nil
	}
	proj, ok := ip.sol.Project(args[0])
	if !ok {
		log.Warnf("line %d: %s: unknown target %q", c.line, c.name, args[0])
		return nil
	}
	return proj
}

// visItems walks items after the target name through the visibility state
// machine: PUBLIC until a visibility keyword appears, then that keyword
// until the next one.
func visItems(args []string, fn func(vis model.Visibility, item string)) {
	vis := model.Public
	for _, a := range args {
		if v, ok := model.ParseVisibility(a); ok {
			vis = v
			continue
		}
		fn(vis, a)
	}
}

// applyItem writes one value either to the wildcard configuration or,
// when it contains a generator expression, once per configuration key
// with only the per-key result stored.
func (ip *Interp) applyItem(proj *model.Project, item string, apply func(cfg *model.Configuration, v string)) {
	if !hasGenex(item) {
		apply(proj.ConfigOrCreate(model.AllConfigs), item)
		return
	}
	for _, key := range ip.sol.ConfigKeys() {
		cfgName, plat := model.SplitConfigKey(key)
		v := evalGenex(item, genexKey{config: cfgName, platform: plat, platformID: ip.platformID()})
		if v != "" {
			apply(proj.ConfigOrCreate(key), v)
		}
	}
}

// resolveAgainst normalizes a possibly relative path against dir.
// Drive-letter paths count as absolute.
func resolveAgainst(dir, name string) string {
	name = strings.ReplaceAll(name, "\\", "/")
	if !path.IsAbs(name) && !(len(name) >= 2 && name[1] == ':') {
		name = path.Join(dir, name)
	}
	return path.Clean(name)
}
