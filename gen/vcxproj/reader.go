// Copyright 2025 The Slnforge Authors
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package vcxproj

import (
	"encoding/xml"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/slnforge/slnforge/fsys"
	"github.com/slnforge/slnforge/model"
)

// Read parses a .vcxproj back into a single-project Solution. It is the
// inverse of Generate for the settings the model carries; MSBuild
// machinery (imports, toolset selection) is not preserved.
func Read(fs fsys.FS, path string) (*model.Solution, error) {
	data, err := fs.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var rp rProject
	if err := xml.Unmarshal(data, &rp); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}

	name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	sol := model.NewSolution(name)
	proj := sol.ProjectOrCreate(name)

	for _, ig := range rp.ItemGroups {
		for _, pc := range ig.ProjectConfigurations {
			cfg, plat := model.SplitConfigKey(pc.Include)
			sol.AddConfiguration(cfg)
			sol.AddPlatform(plat)
		}
	}

	for _, pg := range rp.PropertyGroups {
		key := conditionKey(pg.Condition)
		if pg.ProjectGuid != "" {
			proj.ID = strings.ToLower(strings.Trim(pg.ProjectGuid, "{}"))
		}
		if pg.RootNamespace != "" {
			proj.Name = pg.RootNamespace
			proj.DisplayName = pg.RootNamespace
		}
		if key == "" {
			continue
		}
		cfg := proj.ConfigOrCreate(key)
		setIfPresent(&cfg.Type, pg.ConfigurationType)
		setIfPresent(&cfg.OutputDir, strings.TrimRight(pg.OutDir, `\/`))
		setIfPresent(&cfg.IntermediateDir, strings.TrimRight(pg.IntDir, `\/`))
		setIfPresent(&cfg.TargetName, pg.TargetName)
		setIfPresent(&cfg.TargetExt, pg.TargetExt)
		setIfPresent(&cfg.Linker.Incremental, pg.LinkIncremental)
	}

	for _, idg := range rp.ItemDefGroups {
		key := conditionKey(idg.Condition)
		if key == "" {
			key = model.AllConfigs
		}
		cfg := proj.ConfigOrCreate(key)
		if cl := idg.ClCompile; cl != nil {
			cfg.Compiler.Optimization = cl.Optimization
			cfg.Compiler.RuntimeLibrary = cl.RuntimeLibrary
			cfg.Compiler.DebugInformationFormat = cl.DebugInformationFormat
			cfg.Compiler.WarningLevel = cl.WarningLevel
			cfg.Compiler.WarningsAsErrors = cl.TreatWarningAsError
			cfg.Compiler.FunctionLevelLinking = cl.FunctionLevelLinking
			cfg.Compiler.LanguageStandard = cl.LanguageStandard
			cfg.Compiler.PCHMode = cl.PrecompiledHeader
			cfg.Compiler.PCHHeader = cl.PrecompiledHeaderFile
			cfg.Compiler.PCHOutput = cl.PrecompiledHeaderOutputFile
			cfg.Compiler.Defines = splitInherited(cl.PreprocessorDefinitions)
			cfg.Compiler.IncludeDirs = splitInherited(cl.AdditionalIncludeDirectories)
			cfg.Compiler.Options = strings.Fields(cl.AdditionalOptions)
		}
		if ln := idg.Link; ln != nil {
			cfg.Linker.Subsystem = ln.SubSystem
			cfg.Linker.GenerateDebugInfo = ln.GenerateDebugInformation
			cfg.Linker.OptimizeReferences = ln.OptimizeReferences
			cfg.Linker.EnableCOMDATFolding = ln.EnableCOMDATFolding
			cfg.Linker.OutputFile = ln.OutputFile
			cfg.Linker.ImportLibrary = ln.ImportLibrary
			cfg.Linker.ModuleDefinitionFile = ln.ModuleDefinitionFile
			cfg.Linker.Libraries = splitInherited(ln.AdditionalDependencies)
			cfg.Linker.LibraryDirs = splitInherited(ln.AdditionalLibraryDirectories)
			cfg.Linker.Options = strings.Fields(ln.AdditionalOptions)
		}
		if lb := idg.Lib; lb != nil {
			cfg.Librarian.OutputFile = lb.OutputFile
			cfg.Librarian.Libraries = splitInherited(lb.AdditionalDependencies)
			cfg.Librarian.LibraryDirs = splitInherited(lb.AdditionalLibraryDirectories)
			cfg.Librarian.Options = strings.Fields(lb.AdditionalOptions)
		}
		if ev := idg.PreBuildEvent; ev != nil {
			cfg.PreBuildEvent = model.BuildEvent{Command: ev.Command, Message: ev.Message}
		}
		if ev := idg.PreLinkEvent; ev != nil {
			cfg.PreLinkEvent = model.BuildEvent{Command: ev.Command, Message: ev.Message}
		}
		if ev := idg.PostBuildEvent; ev != nil {
			cfg.PostBuildEvent = model.BuildEvent{Command: ev.Command, Message: ev.Message}
		}
	}

	for _, ig := range rp.ItemGroups {
		readFileItems(proj, ig.Compiles, model.FileCompile)
		readFileItems(proj, ig.Headers, model.FileHeader)
		readFileItems(proj, ig.Resources, model.FileResource)
		readFileItems(proj, ig.Others, model.FileOther)
		for _, cb := range ig.CustomBuilds {
			f := proj.FileOrCreate(cb.Include)
			f.Type = model.FileCustomBuild
			readCondValues(f, model.SettingCustomCommand, cb.Command)
			readCondValues(f, model.SettingCustomOutputs, cb.Outputs)
			readCondValues(f, model.SettingCustomMessage, cb.Message)
		}
		for _, ref := range ig.ProjectReferences {
			target := strings.TrimSuffix(filepath.Base(ref.Include), filepath.Ext(ref.Include))
			vis := model.Public
			if ref.LinkLibraryDependencies == "false" {
				vis = model.Interface
			}
			proj.AddDependency(target, vis)
		}
	}
	return sol, nil
}

type rProject struct {
	XMLName        xml.Name         `xml:"Project"`
	ItemGroups     []rItemGroup     `xml:"ItemGroup"`
	PropertyGroups []rPropertyGroup `xml:"PropertyGroup"`
	ItemDefGroups  []rItemDefGroup  `xml:"ItemDefinitionGroup"`
}

type rItemGroup struct {
	Label                 string                  `xml:"Label,attr"`
	ProjectConfigurations []xProjectConfiguration `xml:"ProjectConfiguration"`
	Compiles              []rFileItem             `xml:"ClCompile"`
	Headers               []rFileItem             `xml:"ClInclude"`
	Resources             []rFileItem             `xml:"ResourceCompile"`
	CustomBuilds          []rCustomBuild          `xml:"CustomBuild"`
	Others                []rFileItem             `xml:"None"`
	ProjectReferences     []xProjectReference     `xml:"ProjectReference"`
}

type rPropertyGroup struct {
	Label             string `xml:"Label,attr"`
	Condition         string `xml:"Condition,attr"`
	ProjectGuid       string `xml:"ProjectGuid"`
	RootNamespace     string `xml:"RootNamespace"`
	ConfigurationType string `xml:"ConfigurationType"`
	OutDir            string `xml:"OutDir"`
	IntDir            string `xml:"IntDir"`
	TargetName        string `xml:"TargetName"`
	TargetExt         string `xml:"TargetExt"`
	LinkIncremental   string `xml:"LinkIncremental"`
}

type rItemDefGroup struct {
	Condition      string       `xml:"Condition,attr"`
	ClCompile      *xClCompile  `xml:"ClCompile"`
	Link           *xLink       `xml:"Link"`
	Lib            *xLib        `xml:"Lib"`
	PreBuildEvent  *xBuildEvent `xml:"PreBuildEvent"`
	PreLinkEvent   *xBuildEvent `xml:"PreLinkEvent"`
	PostBuildEvent *xBuildEvent `xml:"PostBuildEvent"`
}

type rFileItem struct {
	Include                     string       `xml:"Include,attr"`
	ExcludedFromBuild           []xCondValue `xml:"ExcludedFromBuild"`
	PrecompiledHeader           []xCondValue `xml:"PrecompiledHeader"`
	PrecompiledHeaderFile       []xCondValue `xml:"PrecompiledHeaderFile"`
	PrecompiledHeaderOutputFile []xCondValue `xml:"PrecompiledHeaderOutputFile"`
	ObjectFileName              []xCondValue `xml:"ObjectFileName"`
	AdditionalOptions           []xCondValue `xml:"AdditionalOptions"`
}

type rCustomBuild struct {
	Include string       `xml:"Include,attr"`
	Command []xCondValue `xml:"Command"`
	Outputs []xCondValue `xml:"Outputs"`
	Message []xCondValue `xml:"Message"`
}

func readFileItems(proj *model.Project, items []rFileItem, typ model.FileType) {
	for _, it := range items {
		f := proj.FileOrCreate(it.Include)
		f.Type = typ
		readCondValues(f, model.SettingExcluded, it.ExcludedFromBuild)
		readCondValues(f, model.SettingPCHMode, it.PrecompiledHeader)
		readCondValues(f, model.SettingPCHHeader, it.PrecompiledHeaderFile)
		readCondValues(f, model.SettingPCHOutput, it.PrecompiledHeaderOutputFile)
		readCondValues(f, model.SettingObjectFile, it.ObjectFileName)
		readCondValues(f, model.SettingOptions, it.AdditionalOptions)
	}
}

func readCondValues(f *model.SourceFile, name string, vals []xCondValue) {
	for _, v := range vals {
		key := conditionKey(v.Condition)
		if key == "" {
			key = model.AllConfigs
		}
		f.Settings.Set(name, key, strings.TrimSpace(v.Value))
	}
}

// conditionKey extracts "Debug|x64" from the MSBuild condition string, or
// "" if the condition has another shape.
func conditionKey(cond string) string {
	_, after, ok := strings.Cut(cond, "=='")
	if !ok {
		return ""
	}
	key, _, ok := strings.Cut(after, "'")
	if !ok {
		return ""
	}
	return key
}

func setIfPresent(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}

// splitInherited splits a semicolon list, dropping MSBuild %(...) inherit
// placeholders.
func splitInherited(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ";") {
		part = strings.TrimSpace(part)
		if part == "" || strings.HasPrefix(part, "%(") {
			continue
		}
		out = append(out, part)
	}
	return out
}
