// Copyright 2025 The Slnforge Authors
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package cmakeutil

import "testing"

func TestEvalGenex(t *testing.T) {
	key := genexKey{config: "Debug", platform: "x64", platformID: "Windows"}
	for _, tc := range []struct {
		in   string
		want string
	}{
		{"plain", "plain"},
		{"$<CONFIG:Debug>", "1"},
		{"$<CONFIG:Release>", "0"},
		{"$<CONFIG:debug>", "1"}, // case insensitive
		{"$<$<CONFIG:Debug>:/Od>", "/Od"},
		{"$<$<CONFIG:Release>:/O2>", ""},
		{"$<PLATFORM_ID:Windows>", "1"},
		{"$<PLATFORM_ID:Linux,Darwin>", "0"},
		{"$<PLATFORM_ID:Linux,Windows>", "1"},
		{"$<$<PLATFORM_ID:Windows>:WIN32_LEAN_AND_MEAN>", "WIN32_LEAN_AND_MEAN"},
		{"$<1:kept>", "kept"},
		{"$<0:dropped>", ""},
		{"$<BUILD_INTERFACE:include>", "include"},
		{"$<INSTALL_INTERFACE:include>", ""},
		{"$<$<AND:$<CONFIG:Debug>,$<PLATFORM_ID:Windows>>:both>", "both"},
		{"$<$<OR:$<CONFIG:Release>,$<CONFIG:Debug>>:either>", "either"},
		{"$<$<NOT:$<CONFIG:Debug>>:inverted>", ""},
		{"$<$<NOT:$<CONFIG:Release>>:inverted>", "inverted"},
		{"pre$<$<CONFIG:Debug>:-mid->post", "pre-mid-post"},
		{"$<UNSUPPORTED:x>", ""},
		{"$<CONFIG:Debug", "$<CONFIG:Debug"}, // unmatched, kept literally
	} {
		if got := evalGenex(tc.in, key); got != tc.want {
			t.Errorf("evalGenex(%q)=%q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestHasGenex(t *testing.T) {
	if hasGenex("/W4") {
		t.Error("hasGenex(/W4)=true")
	}
	if !hasGenex("$<CONFIG:Debug>") {
		t.Error("hasGenex($<CONFIG:Debug>)=false")
	}
}
