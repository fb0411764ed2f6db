// Copyright 2025 The Slnforge Authors
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package model

import (
	"path/filepath"
	"strings"
)

// FileType is the coarse build category of a source file.
type FileType int

const (
	FileOther FileType = iota
	FileCompile
	FileHeader
	FileResource
	FileCustomBuild
)

func (t FileType) String() string {
	switch t {
	case FileCompile:
		return "compile"
	case FileHeader:
		return "header"
	case FileResource:
		return "resource"
	case FileCustomBuild:
		return "custom-build"
	}
	return "other"
}

// FileTypeForPath categorizes a path by extension.
func FileTypeForPath(path string) FileType {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".c", ".cc", ".cpp", ".cxx", ".c++":
		return FileCompile
	case ".h", ".hh", ".hpp", ".hxx", ".inl", ".inc":
		return FileHeader
	case ".rc":
		return FileResource
	}
	return FileOther
}

// SourceFile is one file of a Project. Path is absolute and normalized so
// identity comparisons are path based, not string based.
type SourceFile struct {
	Path     string
	Type     FileType
	Settings FileSettings
}

// Setting looks up a per-file setting for a configuration key with the
// three-tier fallback: exact key, then the wildcard key, then the owning
// Configuration's value for well known names.
func (f *SourceFile) Setting(name, key string, cfg *Configuration) string {
	if v, ok := f.Settings.Get(name, key); ok {
		return v
	}
	if cfg != nil {
		return cfg.Setting(name)
	}
	return ""
}
