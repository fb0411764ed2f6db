// Copyright 2025 The Slnforge Authors
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package model

import (
	"sort"
	"strings"
)

// AllConfigs is the wildcard configuration key. A value stored under it
// applies to every configuration key that has no value of its own.
const AllConfigs = "*"

// ConfigKey returns the configuration key for a configuration/platform pair,
// e.g. ConfigKey("Debug", "x64") == "Debug|x64".
func ConfigKey(config, platform string) string {
	return config + "|" + platform
}

// SplitConfigKey splits a configuration key into its configuration and
// platform parts. A key without a platform part returns an empty platform.
func SplitConfigKey(key string) (config, platform string) {
	config, platform, _ = strings.Cut(key, "|")
	return config, platform
}

// KeyedString is a sparse string property keyed by configuration key.
// Lookups fall back from the exact key to AllConfigs.
type KeyedString map[string]string

// Get returns the value for key, falling back to the wildcard entry.
func (k KeyedString) Get(key string) (string, bool) {
	if v, ok := k[key]; ok {
		return v, true
	}
	v, ok := k[AllConfigs]
	return v, ok
}

// Set stores value under key, allocating the map on first use.
func (k *KeyedString) Set(key, value string) {
	if *k == nil {
		*k = KeyedString{}
	}
	(*k)[key] = value
}

// Well known per-file setting names. The buildscript front-end accepts
// arbitrary names; these are the ones with a fallback on Configuration.
const (
	SettingPCHMode       = "pch_mode"
	SettingPCHHeader     = "pch_header"
	SettingPCHOutput     = "pch_output"
	SettingDefines       = "defines"
	SettingIncludes      = "includes"
	SettingOptimization  = "optimization"
	SettingOptions       = "options"
	SettingObjectFile    = "object_file"
	SettingExcluded      = "excluded"
	SettingCustomCommand = "custom_command"
	SettingCustomOutputs = "custom_outputs"
	SettingCustomMessage = "custom_message"
)

// FileSettings holds per-file settings, each keyed by configuration key or
// AllConfigs. The zero value is ready to use.
type FileSettings struct {
	props map[string]KeyedString
}

// Set stores a value for the named setting under the given configuration key.
func (s *FileSettings) Set(name, key, value string) {
	if s.props == nil {
		s.props = map[string]KeyedString{}
	}
	p := s.props[name]
	p.Set(key, value)
	s.props[name] = p
}

// Get returns the value of the named setting for the given configuration
// key, falling back to the wildcard entry.
func (s *FileSettings) Get(name, key string) (string, bool) {
	p, ok := s.props[name]
	if !ok {
		return "", false
	}
	return p.Get(key)
}

// Prop returns the raw keyed values of the named setting, or nil.
func (s *FileSettings) Prop(name string) KeyedString {
	return s.props[name]
}

// Names returns the setting names with at least one value, sorted.
func (s *FileSettings) Names() []string {
	names := make([]string, 0, len(s.props))
	for name := range s.props {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Empty reports whether no setting has been stored.
func (s *FileSettings) Empty() bool {
	return len(s.props) == 0
}
