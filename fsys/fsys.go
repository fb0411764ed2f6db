// Copyright 2025 The Slnforge Authors
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

// Package fsys provides the file system abstraction the front-ends parse
// through: content reads, existence checks, directory enumeration for
// wildcard expansion and canonicalization for include cycle detection.
package fsys

import (
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// DirEntry is one entry of a directory listing.
type DirEntry struct {
	Name  string
	IsDir bool
}

// FS is the file system surface used by the parsers and generators.
type FS interface {
	// ReadFile returns the contents of the named file.
	ReadFile(name string) ([]byte, error)
	// Exists reports whether the named file or directory exists.
	Exists(name string) bool
	// ReadDir lists a directory, non recursively.
	ReadDir(name string) ([]DirEntry, error)
	// Canonical returns a normalized absolute path for name, used for
	// path based identity and include cycle detection.
	Canonical(name string) (string, error)
}

// OS returns an FS backed by the host file system.
func OS() FS { return osFS{} }

type osFS struct{}

func (osFS) ReadFile(name string) ([]byte, error) {
	return os.ReadFile(name)
}

func (osFS) Exists(name string) bool {
	_, err := os.Stat(name)
	return err == nil
}

func (osFS) ReadDir(name string) ([]DirEntry, error) {
	ents, err := os.ReadDir(name)
	if err != nil {
		return nil, err
	}
	out := make([]DirEntry, 0, len(ents))
	for _, e := range ents {
		out = append(out, DirEntry{Name: e.Name(), IsDir: e.IsDir()})
	}
	return out, nil
}

func (osFS) Canonical(name string) (string, error) {
	abs, err := filepath.Abs(name)
	if err != nil {
		return "", err
	}
	if resolved, err := filepath.EvalSymlinks(abs); err == nil {
		abs = resolved
	}
	return filepath.ToSlash(abs), nil
}

// MemFS is an in-memory FS for tests. Paths use forward slashes.
type MemFS struct {
	// Files maps slash separated paths to contents.
	Files map[string]string
}

func (m MemFS) ReadFile(name string) ([]byte, error) {
	name = cleanPath(name)
	if c, ok := m.Files[name]; ok {
		return []byte(c), nil
	}
	return nil, &os.PathError{Op: "open", Path: name, Err: os.ErrNotExist}
}

func (m MemFS) Exists(name string) bool {
	name = cleanPath(name)
	if _, ok := m.Files[name]; ok {
		return true
	}
	prefix := name + "/"
	for p := range m.Files {
		if strings.HasPrefix(p, prefix) {
			return true
		}
	}
	return false
}

func (m MemFS) ReadDir(name string) ([]DirEntry, error) {
	name = cleanPath(name)
	prefix := name + "/"
	switch name {
	case ".":
		prefix = ""
	case "/":
		prefix = "/"
	}
	seen := map[string]bool{}
	var out []DirEntry
	for p := range m.Files {
		if !strings.HasPrefix(p, prefix) {
			continue
		}
		rest := p[len(prefix):]
		first, _, isDir := strings.Cut(rest, "/")
		if first == "" || seen[first] {
			continue
		}
		seen[first] = true
		out = append(out, DirEntry{Name: first, IsDir: isDir})
	}
	if len(out) == 0 && !m.Exists(name) {
		return nil, &os.PathError{Op: "readdir", Path: name, Err: os.ErrNotExist}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (m MemFS) Canonical(name string) (string, error) {
	return cleanPath(name), nil
}

func cleanPath(name string) string {
	return filepath.ToSlash(filepath.Clean(name))
}
