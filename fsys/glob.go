// Copyright 2025 The Slnforge Authors
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package fsys

import (
	"path"
	"strings"
)

// Glob expands a source pattern against fsys. `*` matches within a single
// path segment and `**` matches any number of directory segments. A pattern
// without wildcards returns itself if it exists. Results are slash separated
// and in directory enumeration order.
func Glob(fsys FS, pattern string) ([]string, error) {
	pattern = strings.ReplaceAll(pattern, "\\", "/")
	if !isWild(pattern) {
		if fsys.Exists(pattern) {
			return []string{pattern}, nil
		}
		return nil, nil
	}
	segs := strings.Split(pattern, "/")
	start := "."
	if segs[0] == "" { // absolute pattern
		start = "/"
		segs = segs[1:]
	}
	return glob(fsys, start, segs)
}

func isWild(pattern string) bool {
	return strings.ContainsAny(pattern, "*?[")
}

func glob(fsys FS, dir string, segs []string) ([]string, error) {
	if len(segs) == 0 {
		return nil, nil
	}
	seg, rest := segs[0], segs[1:]
	switch {
	case seg == "**":
		// `**` matches zero or more directories.
		matches, err := glob(fsys, dir, rest)
		if err != nil {
			return nil, err
		}
		ents, err := fsys.ReadDir(dir)
		if err != nil {
			return matches, nil
		}
		for _, e := range ents {
			if !e.IsDir {
				continue
			}
			sub, err := glob(fsys, join(dir, e.Name), segs)
			if err != nil {
				return nil, err
			}
			matches = append(matches, sub...)
		}
		return matches, nil
	case isWild(seg):
		ents, err := fsys.ReadDir(dir)
		if err != nil {
			return nil, nil
		}
		var matches []string
		for _, e := range ents {
			ok, err := path.Match(seg, e.Name)
			if err != nil {
				return nil, err
			}
			if !ok {
				continue
			}
			full := join(dir, e.Name)
			if len(rest) == 0 {
				if !e.IsDir {
					matches = append(matches, full)
				}
				continue
			}
			if e.IsDir {
				sub, err := glob(fsys, full, rest)
				if err != nil {
					return nil, err
				}
				matches = append(matches, sub...)
			}
		}
		return matches, nil
	default:
		full := join(dir, seg)
		if len(rest) == 0 {
			if fsys.Exists(full) {
				return []string{full}, nil
			}
			return nil, nil
		}
		return glob(fsys, full, rest)
	}
}

func join(dir, name string) string {
	if dir == "." {
		return name
	}
	if dir == "/" {
		return "/" + name
	}
	return dir + "/" + name
}
