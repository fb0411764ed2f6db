// Copyright 2025 The Slnforge Authors
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

// Package cmakeutil interprets the supported subset of the CMake command
// language into a model.Solution: variables and scoping, control flow,
// user defined functions and macros, target commands and generator
// expressions. It is no attempt at full CMake fidelity; unsupported
// commands are logged and skipped.
package cmakeutil

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

// Options configures an Interp. The zero value targets the host OS with
// Debug/Release configurations on x64.
type Options struct {
	FS             fsys.FS
	HostOS         string
	Configurations []string
	Platforms      []string
}

// Interp executes CMake scripts against a Solution.
type Interp struct {
	fsys   fsys.FS
	hostOS string
	sol    *model.Solution
}

// NewInterp returns an Interp with the given options.
func NewInterp(opts Options) *Interp {
	ip := &Interp{fsys: opts.FS, hostOS: opts.HostOS}
	if ip.fsys == nil {
		ip.fsys = fsys.OS()
	}
	if ip.hostOS == "" {
		ip.hostOS = runtime.GOOS
	}
	ip.sol = model.NewSolution("")
	for _, c := range opts.Configurations {
		ip.sol.AddConfiguration(c)
	}
	for _, p := range opts.Platforms {
		ip.sol.AddPlatform(p)
	}
	if len(ip.sol.Configurations) == 0 {
		ip.sol.AddConfiguration("Debug")
		ip.sol.AddConfiguration("Release")
	}
	if len(ip.sol.Platforms) == 0 {
		ip.sol.AddPlatform("x64")
	}
	return ip
}

// Load interprets the script at fname (typically a CMakeLists.txt) and
// returns the populated Solution. Only an unreadable top-level input is
// fatal.
func (ip *Interp) Load(ctx context.Context, fname string) (*model.Solution, error) {
	full, err := ip.fsys.Canonical(fname)
	if err != nil {
		return nil, fmt.Errorf("resolving %s: %w", fname, err)
	}
	data, err := ip.fsys.ReadFile(full)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", fname, err)
	}
	dir := path.Dir(full)
	if ip.sol.Name == "" {
		ip.sol.Name = path.Base(dir)
	}
	sc := newScope(dir)
	sc.vars["CMAKE_SOURCE_DIR"] = dir
	sc.vars["CMAKE_CURRENT_SOURCE_DIR"] = dir
	sc.vars["CMAKE_CONFIGURATION_TYPES"] = strings.Join(ip.sol.Configurations, ";")
	ip.run(parseCommands(tokenize(string(data))), sc)
	return ip.sol, nil
}

// platformID is the generator-expression PLATFORM_ID value of the host.
func (ip *Interp) platformID() string {
	switch ip.hostOS {
	case "windows":
		return "Windows"
	case "darwin":
		return "Darwin"
	case "linux":
		return "Linux"
	}
	return ip.hostOS
}

// blockEnd maps a flow opener to its terminator.
var blockEnd = map[string]string{
	"if":       "endif",
	"foreach":  "endforeach",
	"while":    "endwhile",
	"function": "endfunction",
	"macro":    "endmacro",
}

var blockClosers = map[string]bool{
	"endif":       true,
	"endforeach":  true,
	"endwhile":    true,
	"endfunction": true,
	"endmacro":    true,
}

// findMatch returns the index of the terminator matching the opener at i,
// counting every nested opener against its closer, or -1.
func findMatch(cmds []command, i int) int {
	depth := 0
	for j := i; j < len(cmds); j++ {
		if _, ok := blockEnd[cmds[j].name]; ok {
			depth++
		} else if blockClosers[cmds[j].name] {
			depth--
			if depth == 0 {
				return j
			}
		}
	}
	return -1
}

// condBlock is one condition→body segment of an if chain. A nil cond is
// the else block and always matches when reached.
type condBlock struct {
	cond []token
	body []command
}

// splitIfBlocks splits `if ... endif` (inclusive) into its blocks at the
// elseif/else commands of the outermost depth.
func splitIfBlocks(cmds []command) []condBlock {
	var blocks []condBlock
	cur := condBlock{cond: cmds[0].args}
	depth := 1
	start := 1
	for j := 1; j < len(cmds)-1; j++ {
		name := cmds[j].name
		if _, ok := blockEnd[name]; ok {
			depth++
			continue
		}
		if blockClosers[name] {
			depth--
			continue
		}
		if depth == 1 && (name == "elseif" || name == "else") {
			cur.body = cmds[start:j]
			blocks = append(blocks, cur)
			if name == "else" {
				cur = condBlock{}
			} else {
				cur = condBlock{cond: cmds[j].args}
			}
			start = j + 1
		}
	}
	cur.body = cmds[start : len(cmds)-1]
	return append(blocks, cur)
}

// while loops are cut off eventually so a condition that never turns
// false cannot hang the whole parse.
const maxWhileIterations = 100000

func (ip *Interp) run(cmds []command, sc *scope) {
	for i := 0; i < len(cmds); i++ {
		c := cmds[i]
		switch c.name {
		case "if":
			end := findMatch(cmds, i)
			if end < 0 {
				log.Warnf("line %d: if without endif", c.line)
				return
			}
			for _, b := range splitIfBlocks(cmds[i : end+1]) {
				if b.cond == nil || ip.evalCondition(sc.expandArgs(b.cond), sc) {
					ip.run(b.body, sc)
					break
				}
			}
			i = end
		case "foreach":
			end := findMatch(cmds, i)
			if end < 0 {
				log.Warnf("line %d: foreach without endforeach", c.line)
				return
			}
			ip.runForeach(c, cmds[i+1:end], sc)
			i = end
		case "while":
			end := findMatch(cmds, i)
			if end < 0 {
				log.Warnf("line %d: while without endwhile", c.line)
				return
			}
			body := cmds[i+1 : end]
			for n := 0; ip.evalCondition(sc.expandArgs(c.args), sc); n++ {
				if n >= maxWhileIterations {
					log.Warnf("line %d: while loop exceeded %d iterations, aborting", c.line, maxWhileIterations)
					break
				}
				ip.run(body, sc)
			}
			i = end
		case "function", "macro":
			end := findMatch(cmds, i)
			if end < 0 {
				log.Warnf("line %d: %s without end%s", c.line, c.name, c.name)
				return
			}
			args := sc.expandArgs(c.args)
			if len(args) == 0 {
				log.Warnf("line %d: %s needs a name", c.line, c.name)
			} else {
				def := &commandDef{
					name:    strings.ToLower(args[0]),
					params:  args[1:],
					body:    cmds[i+1 : end],
					isMacro: c.name == "macro",
				}
				if def.isMacro {
					sc.macros[def.name] = def
				} else {
					sc.funcs[def.name] = def
				}
			}
			i = end
		case "elseif", "else", "endif", "endforeach", "endwhile", "endfunction", "endmacro":
			log.Warnf("line %d: stray %s", c.line, c.name)
		default:
			ip.invoke(c, sc)
		}
	}
}

// runForeach executes a foreach body once per item with the loop variable
// rebound, restoring its previous binding afterwards.
func (ip *Interp) runForeach(c command, body []command, sc *scope) {
	args := sc.expandArgs(c.args)
	if len(args) == 0 {
		log.Warnf("line %d: foreach needs a loop variable", c.line)
		return
	}
	loopVar := args[0]
	items, ok := ip.foreachItems(c, args[1:], sc)
	if !ok {
		return
	}
	old, had := sc.vars[loopVar]
	for _, it := range items {
		sc.vars[loopVar] = it
		ip.run(body, sc)
	}
	if had {
		sc.vars[loopVar] = old
	} else {
		delete(sc.vars, loopVar)
	}
}

// foreachItems resolves the item list of the three foreach forms: explicit
// items, IN LISTS/ITEMS, and RANGE.
func (ip *Interp) foreachItems(c command, args []string, sc *scope) ([]string, bool) {
	if len(args) == 0 {
		return nil, true
	}
	switch args[0] {
	case "RANGE":
		nums, err := parseRange(args[1:])
		if err != nil {
			// the loop body is skipped entirely
			log.Warnf("line %d: foreach: %v", c.line, err)
			return nil, false
		}
		return nums, true
	case "IN":
		var items []string
		mode := ""
		for _, a := range args[1:] {
			switch a {
			case "LISTS", "ITEMS":
				mode = a
				continue
			}
			switch mode {
			case "LISTS":
				for _, part := range strings.Split(sc.lookup(a), ";") {
					if part != "" {
						items = append(items, part)
					}
				}
			case "ITEMS":
				items = append(items, a)
			default:
				log.Warnf("line %d: foreach: expected LISTS or ITEMS, got %q", c.line, a)
				return nil, false
			}
		}
		return items, true
	}
	return args, true
}

// invoke dispatches a command to a user definition or a builtin. Functions
// run in a cloned scope; macros run in the caller's.
func (ip *Interp) invoke(c command, sc *scope) {
	args := sc.expandArgs(c.args)
	if def, ok := sc.funcs[c.name]; ok {
		child := sc.child()
		bindParams(child.vars, def, args)
		ip.run(def.body, child)
		return
	}
	if def, ok := sc.macros[c.name]; ok {
		ip.expandMacro(def, args, sc)
		return
	}
	ip.builtin(c, args, sc)
}

// expandMacro binds the macro parameters in the caller's scope, runs the
// body there and then restores the bindings the call shadowed. Parameters
// that were unbound before the call stay bound afterwards; restoration is
// best effort.
func (ip *Interp) expandMacro(def *commandDef, args []string, sc *scope) {
	names := append(append([]string(nil), def.params...), "ARGN")
	saved := map[string]string{}
	existed := map[string]bool{}
	for _, n := range names {
		if v, ok := sc.vars[n]; ok {
			saved[n] = v
			existed[n] = true
		}
	}
	bindParams(sc.vars, def, args)
	ip.run(def.body, sc)
	for _, n := range names {
		if existed[n] {
			sc.vars[n] = saved[n]
		}
	}
}

// bindParams binds positional parameters and the aggregate ARGN.
func bindParams(vars map[string]string, def *commandDef, args []string) {
	for i, p := range def.params {
		if i < len(args) {
			vars[p] = args[i]
		} else {
			vars[p] = ""
		}
	}
	if len(args) > len(def.params) {
		vars["ARGN"] = strings.Join(args[len(def.params):], ";")
	} else {
		vars["ARGN"] = ""
	}
}

func parseRange(args []string) ([]string, error) {
	ints := make([]int, len(args))
	for i, a := range args {
		n := 0
		if _, err := fmt.Sscanf(a, "%d", &n); err != nil {
			return nil, fmt.Errorf("RANGE bound %q is not numeric", a)
		}
		ints[i] = n
	}
	start, stop, step := 0, 0, 1
	switch len(ints) {
	case 1:
		stop = ints[0]
	case 2:
		start, stop = ints[0], ints[1]
	case 3:
		start, stop, step = ints[0], ints[1], ints[2]
		if step <= 0 {
			return nil, fmt.Errorf("RANGE step %d is not positive", step)
		}
	default:
		return nil, fmt.Errorf("RANGE takes one to three bounds, got %d", len(ints))
	}
	var out []string
	for n := start; n <= stop; n += step {
		out = append(out, fmt.Sprintf("%d", n))
	}
	return out, nil
}
