// Copyright 2025 The Slnforge Authors
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package cmakeutil

import (
	"strconv"
	"strings"

	"github.com/charmbracelet/log"
)

// isFalseLiteral reports whether s is one of the constants the language
// treats as false.
func isFalseLiteral(s string) bool {
	switch strings.ToUpper(s) {
	case "", "FALSE", "OFF", "NO", "N", "0", "IGNORE", "NOTFOUND":
		return true
	}
	return strings.HasSuffix(strings.ToUpper(s), "-NOTFOUND")
}

func isTrueLiteral(s string) bool {
	switch strings.ToUpper(s) {
	case "TRUE", "ON", "YES", "Y":
		return true
	}
	if n, err := strconv.ParseFloat(s, 64); err == nil {
		return n != 0
	}
	return false
}

// evalCondition evaluates an if/while condition: literal booleans,
// variable truthiness, binary STREQUAL and unary NOT. Anything else is a
// warning and evaluates false.
func (ip *Interp) evalCondition(args []string, sc *scope) bool {
	if len(args) == 0 {
		return false
	}
	if args[0] == "NOT" {
		return !ip.evalCondition(args[1:], sc)
	}
	if len(args) == 3 && args[1] == "STREQUAL" {
		return resolveOperand(args[0], sc) == resolveOperand(args[2], sc)
	}
	if len(args) == 1 {
		a := args[0]
		if isTrueLiteral(a) {
			return true
		}
		if sc.bound(a) {
			// a bound variable is true unless its value is a false literal
			return !isFalseLiteral(sc.lookup(a))
		}
		// neither a recognized literal nor a bound variable
		return false
	}
	log.Warnf("unsupported condition %q, assuming false", strings.Join(args, " "))
	return false
}

// resolveOperand interprets a STREQUAL operand: a bound variable name
// resolves to its value, anything else is taken literally.
func resolveOperand(a string, sc *scope) string {
	if sc.bound(a) {
		return sc.lookup(a)
	}
	return a
}
