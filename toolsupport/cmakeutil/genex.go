// Copyright 2025 The Slnforge Authors
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package cmakeutil

import (
	"strings"

	"github.com/charmbracelet/log"
)

// genexKey is the evaluation context of a generator expression: one
// configuration key plus the host platform id. Because the model keeps one
// Configuration per key, any directive containing a generator expression is
// evaluated once per key and only the per-key result is stored.
type genexKey struct {
	config     string
	platform   string
	platformID string // host platform id, e.g. "Windows"
}

func hasGenex(s string) bool {
	return strings.Contains(s, "$<")
}

// evalGenex evaluates every $<...> expression in s for one configuration
// key. Unmatched delimiters leave the literal text unevaluated.
func evalGenex(s string, key genexKey) string {
	var sb strings.Builder
	for {
		i := strings.Index(s, "$<")
		if i < 0 {
			sb.WriteString(s)
			return sb.String()
		}
		sb.WriteString(s[:i])
		end := matchGenex(s, i)
		if end < 0 {
			log.Warnf("unmatched generator expression in %q", s)
			sb.WriteString(s[i:])
			return sb.String()
		}
		sb.WriteString(evalGenexBody(s[i+2:end], key))
		s = s[end+1:]
	}
}

// matchGenex returns the index of the `>` closing the `$<` at i, or -1.
// Nested expressions are honored with a depth counter.
func matchGenex(s string, i int) int {
	depth := 0
	for ; i < len(s); i++ {
		if s[i] == '$' && i+1 < len(s) && s[i+1] == '<' {
			depth++
			i++
			continue
		}
		if s[i] == '>' {
			depth--
			if depth == 0 {
				return i
			}
		}
	}
	return -1
}

// evalGenexBody evaluates the inside of one $<...>: a tag, optionally a
// `:` and an argument string.
func evalGenexBody(body string, key genexKey) string {
	tag, arg := splitGenexTag(body)

	// $<$<cond>:value> uses a nested expression as the tag.
	if strings.HasPrefix(tag, "$<") {
		if genexTrue(evalGenex(tag, key)) {
			return evalGenex(arg, key)
		}
		return ""
	}

	switch tag {
	case "1":
		return evalGenex(arg, key)
	case "0":
		return ""
	case "CONFIG":
		return genexBool(strings.EqualFold(evalGenex(arg, key), key.config))
	case "PLATFORM_ID":
		for _, id := range splitGenexArgs(arg) {
			if strings.EqualFold(evalGenex(id, key), key.platformID) {
				return "1"
			}
		}
		return "0"
	case "BUILD_INTERFACE":
		// this tool is always build-time
		return evalGenex(arg, key)
	case "INSTALL_INTERFACE":
		return ""
	case "AND":
		for _, sub := range splitGenexArgs(arg) {
			if !genexTrue(evalGenex(sub, key)) {
				return "0"
			}
		}
		return "1"
	case "OR":
		for _, sub := range splitGenexArgs(arg) {
			if genexTrue(evalGenex(sub, key)) {
				return "1"
			}
		}
		return "0"
	case "NOT":
		return genexBool(!genexTrue(evalGenex(arg, key)))
	}
	log.Warnf("unsupported generator expression $<%s>", body)
	return ""
}

// splitGenexTag splits a genex body at the first top-level colon.
func splitGenexTag(body string) (tag, arg string) {
	depth := 0
	for i := 0; i < len(body); i++ {
		switch {
		case body[i] == '$' && i+1 < len(body) && body[i+1] == '<':
			depth++
			i++
		case body[i] == '>':
			depth--
		case body[i] == ':' && depth == 0:
			return body[:i], body[i+1:]
		}
	}
	return body, ""
}

// splitGenexArgs splits on top-level commas, depth aware.
func splitGenexArgs(arg string) []string {
	var out []string
	depth := 0
	start := 0
	for i := 0; i < len(arg); i++ {
		switch {
		case arg[i] == '$' && i+1 < len(arg) && arg[i+1] == '<':
			depth++
			i++
		case arg[i] == '>':
			depth--
		case arg[i] == ',' && depth == 0:
			out = append(out, arg[start:i])
			start = i + 1
		}
	}
	return append(out, arg[start:])
}

func genexTrue(s string) bool {
	return s == "1" || strings.EqualFold(s, "true")
}

func genexBool(b bool) string {
	if b {
		return "1"
	}
	return "0"
}
