// Copyright 2025 The Slnforge Authors
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

// Package vcxproj writes Visual Studio C++ project XML for a resolved
// Solution, one .vcxproj per Project, and reads such files back into the
// model.
package vcxproj

import (
	"context"
	"encoding/xml"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/slnforge/slnforge/model"
)

const msbuildNS = "http://schemas.microsoft.com/developer/msbuild/2003"

// Generator writes .vcxproj files.
type Generator struct {
	// Toolset is the PlatformToolset value. Empty means v143.
	Toolset string
}

func (g *Generator) Name() string { return "vcxproj" }

func (g *Generator) toolset() string {
	if g.Toolset != "" {
		return g.Toolset
	}
	return "v143"
}

// Generate writes one project file per Project under outDir, concurrently.
func (g *Generator) Generate(ctx context.Context, sol *model.Solution, outDir string) error {
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return err
	}
	eg, _ := errgroup.WithContext(ctx)
	for _, proj := range sol.Projects {
		proj := proj
		eg.Go(func() error {
			fname := filepath.Join(outDir, proj.Name+".vcxproj")
			data, err := g.marshal(sol, proj)
			if err != nil {
				return fmt.Errorf("rendering %s: %w", proj.Name, err)
			}
			return os.WriteFile(fname, data, 0o644)
		})
	}
	return eg.Wait()
}

type xProject struct {
	XMLName        xml.Name `xml:"Project"`
	DefaultTargets string   `xml:"DefaultTargets,attr"`
	Xmlns          string   `xml:"xmlns,attr"`
	Children       []any
}

type xProjectConfiguration struct {
	Include       string `xml:"Include,attr"`
	Configuration string `xml:"Configuration"`
	Platform      string `xml:"Platform"`
}

type xCondValue struct {
	Condition string `xml:"Condition,attr,omitempty"`
	Value     string `xml:",chardata"`
}

type xFileItem struct {
	Include                     string       `xml:"Include,attr"`
	ExcludedFromBuild           []xCondValue `xml:"ExcludedFromBuild,omitempty"`
	PrecompiledHeader           []xCondValue `xml:"PrecompiledHeader,omitempty"`
	PrecompiledHeaderFile       []xCondValue `xml:"PrecompiledHeaderFile,omitempty"`
	PrecompiledHeaderOutputFile []xCondValue `xml:"PrecompiledHeaderOutputFile,omitempty"`
	ObjectFileName              []xCondValue `xml:"ObjectFileName,omitempty"`
	PreprocessorDefinitions     []xCondValue `xml:"PreprocessorDefinitions,omitempty"`
	AdditionalOptions           []xCondValue `xml:"AdditionalOptions,omitempty"`
}

type xCustomBuild struct {
	Include string       `xml:"Include,attr"`
	Command []xCondValue `xml:"Command,omitempty"`
	Outputs []xCondValue `xml:"Outputs,omitempty"`
	Message []xCondValue `xml:"Message,omitempty"`
}

type xProjectReference struct {
	Include                 string `xml:"Include,attr"`
	Project                 string `xml:"Project"`
	LinkLibraryDependencies string `xml:"LinkLibraryDependencies,omitempty"`
}

type xItemGroup struct {
	XMLName               xml.Name                `xml:"ItemGroup"`
	Label                 string                  `xml:"Label,attr,omitempty"`
	ProjectConfigurations []xProjectConfiguration `xml:"ProjectConfiguration,omitempty"`
	Compiles              []xFileItem             `xml:"ClCompile,omitempty"`
	Headers               []xFileItem             `xml:"ClInclude,omitempty"`
	Resources             []xFileItem             `xml:"ResourceCompile,omitempty"`
	CustomBuilds          []xCustomBuild          `xml:"CustomBuild,omitempty"`
	Others                []xFileItem             `xml:"None,omitempty"`
	ProjectReferences     []xProjectReference     `xml:"ProjectReference,omitempty"`
}

type xGlobals struct {
	XMLName       xml.Name `xml:"PropertyGroup"`
	Label         string   `xml:"Label,attr"`
	ProjectGuid   string   `xml:"ProjectGuid"`
	RootNamespace string   `xml:"RootNamespace"`
	Keyword       string   `xml:"Keyword"`
}

type xConfigGroup struct {
	XMLName           xml.Name `xml:"PropertyGroup"`
	Condition         string   `xml:"Condition,attr"`
	Label             string   `xml:"Label,attr"`
	ConfigurationType string   `xml:"ConfigurationType"`
	PlatformToolset   string   `xml:"PlatformToolset"`
}

type xPathsGroup struct {
	XMLName         xml.Name `xml:"PropertyGroup"`
	Condition       string   `xml:"Condition,attr"`
	OutDir          string   `xml:"OutDir,omitempty"`
	IntDir          string   `xml:"IntDir,omitempty"`
	TargetName      string   `xml:"TargetName,omitempty"`
	TargetExt       string   `xml:"TargetExt,omitempty"`
	LinkIncremental string   `xml:"LinkIncremental,omitempty"`
}

type xImport struct {
	XMLName xml.Name `xml:"Import"`
	Project string   `xml:"Project,attr"`
}

type xClCompile struct {
	Optimization                 string `xml:"Optimization,omitempty"`
	RuntimeLibrary               string `xml:"RuntimeLibrary,omitempty"`
	DebugInformationFormat       string `xml:"DebugInformationFormat,omitempty"`
	WarningLevel                 string `xml:"WarningLevel,omitempty"`
	TreatWarningAsError          string `xml:"TreatWarningAsError,omitempty"`
	FunctionLevelLinking         string `xml:"FunctionLevelLinking,omitempty"`
	LanguageStandard             string `xml:"LanguageStandard,omitempty"`
	PrecompiledHeader            string `xml:"PrecompiledHeader,omitempty"`
	PrecompiledHeaderFile        string `xml:"PrecompiledHeaderFile,omitempty"`
	PrecompiledHeaderOutputFile  string `xml:"PrecompiledHeaderOutputFile,omitempty"`
	PreprocessorDefinitions      string `xml:"PreprocessorDefinitions,omitempty"`
	AdditionalIncludeDirectories string `xml:"AdditionalIncludeDirectories,omitempty"`
	AdditionalOptions            string `xml:"AdditionalOptions,omitempty"`
}

type xLink struct {
	SubSystem                    string `xml:"SubSystem,omitempty"`
	GenerateDebugInformation     string `xml:"GenerateDebugInformation,omitempty"`
	OptimizeReferences           string `xml:"OptimizeReferences,omitempty"`
	EnableCOMDATFolding          string `xml:"EnableCOMDATFolding,omitempty"`
	OutputFile                   string `xml:"OutputFile,omitempty"`
	ImportLibrary                string `xml:"ImportLibrary,omitempty"`
	ModuleDefinitionFile         string `xml:"ModuleDefinitionFile,omitempty"`
	AdditionalDependencies       string `xml:"AdditionalDependencies,omitempty"`
	AdditionalLibraryDirectories string `xml:"AdditionalLibraryDirectories,omitempty"`
	AdditionalOptions            string `xml:"AdditionalOptions,omitempty"`
}

type xLib struct {
	OutputFile                   string `xml:"OutputFile,omitempty"`
	AdditionalDependencies       string `xml:"AdditionalDependencies,omitempty"`
	AdditionalLibraryDirectories string `xml:"AdditionalLibraryDirectories,omitempty"`
	AdditionalOptions            string `xml:"AdditionalOptions,omitempty"`
}

type xResourceCompile struct {
	PreprocessorDefinitions      string `xml:"PreprocessorDefinitions,omitempty"`
	AdditionalIncludeDirectories string `xml:"AdditionalIncludeDirectories,omitempty"`
	AdditionalOptions            string `xml:"AdditionalOptions,omitempty"`
}

type xBuildEvent struct {
	Command string `xml:"Command,omitempty"`
	Message string `xml:"Message,omitempty"`
}

type xItemDefGroup struct {
	XMLName         xml.Name          `xml:"ItemDefinitionGroup"`
	Condition       string            `xml:"Condition,attr"`
	ClCompile       *xClCompile       `xml:"ClCompile,omitempty"`
	Link            *xLink            `xml:"Link,omitempty"`
	Lib             *xLib             `xml:"Lib,omitempty"`
	ResourceCompile *xResourceCompile `xml:"ResourceCompile,omitempty"`
	PreBuildEvent   *xBuildEvent      `xml:"PreBuildEvent,omitempty"`
	PreLinkEvent    *xBuildEvent      `xml:"PreLinkEvent,omitempty"`
	PostBuildEvent  *xBuildEvent      `xml:"PostBuildEvent,omitempty"`
}

// keyCondition is the MSBuild condition string selecting one key.
func keyCondition(key string) string {
	return fmt.Sprintf("'$(Configuration)|$(Platform)'=='%s'", key)
}

// guid formats a model id the way project files expect it.
func guid(id string) string {
	return "{" + strings.ToUpper(id) + "}"
}

func joinWith(items []string, inherit string) string {
	if len(items) == 0 {
		return ""
	}
	return strings.Join(items, ";") + ";" + inherit
}

func (g *Generator) marshal(sol *model.Solution, proj *model.Project) ([]byte, error) {
	keys := sol.ConfigKeys()

	p := xProject{DefaultTargets: "Build", Xmlns: msbuildNS}

	var pcs []xProjectConfiguration
	for _, key := range keys {
		cfg, plat := model.SplitConfigKey(key)
		pcs = append(pcs, xProjectConfiguration{Include: key, Configuration: cfg, Platform: plat})
	}
	p.Children = append(p.Children, xItemGroup{Label: "ProjectConfigurations", ProjectConfigurations: pcs})

	p.Children = append(p.Children, xGlobals{
		Label:         "Globals",
		ProjectGuid:   guid(proj.ID),
		RootNamespace: proj.Name,
		Keyword:       "Win32Proj",
	})
	p.Children = append(p.Children, xImport{Project: `$(VCTargetsPath)\Microsoft.Cpp.Default.props`})

	for _, key := range keys {
		cfg := config(proj, key)
		p.Children = append(p.Children, xConfigGroup{
			Condition:         keyCondition(key),
			Label:             "Configuration",
			ConfigurationType: cfg.Type,
			PlatformToolset:   g.toolset(),
		})
	}
	p.Children = append(p.Children, xImport{Project: `$(VCTargetsPath)\Microsoft.Cpp.props`})

	for _, key := range keys {
		cfg := config(proj, key)
		p.Children = append(p.Children, xPathsGroup{
			Condition:       keyCondition(key),
			OutDir:          trailingSlash(cfg.OutputDir),
			IntDir:          trailingSlash(cfg.IntermediateDir),
			TargetName:      cfg.TargetName,
			TargetExt:       cfg.TargetExt,
			LinkIncremental: cfg.Linker.Incremental,
		})
	}

	for _, key := range keys {
		p.Children = append(p.Children, g.itemDefGroup(key, proj, config(proj, key)))
	}

	p.Children = append(p.Children, fileGroups(sol, proj)...)

	if refs := projectReferences(sol, proj); len(refs) > 0 {
		p.Children = append(p.Children, xItemGroup{ProjectReferences: refs})
	}
	p.Children = append(p.Children, xImport{Project: `$(VCTargetsPath)\Microsoft.Cpp.targets`})

	body, err := xml.MarshalIndent(p, "", "  ")
	if err != nil {
		return nil, err
	}
	return append([]byte(xml.Header), append(body, '\n')...), nil
}

// config returns the project's configuration for key, or an empty one for
// a model that skipped resolution.
func config(proj *model.Project, key string) *model.Configuration {
	if cfg, ok := proj.Config(key); ok {
		return cfg
	}
	return &model.Configuration{}
}

func trailingSlash(dir string) string {
	if dir == "" || strings.HasSuffix(dir, `\`) || strings.HasSuffix(dir, "/") {
		return dir
	}
	return dir + `\`
}

func (g *Generator) itemDefGroup(key string, proj *model.Project, cfg *model.Configuration) xItemDefGroup {
	group := xItemDefGroup{Condition: keyCondition(key)}

	cl := &xClCompile{
		Optimization:                 cfg.Compiler.Optimization,
		RuntimeLibrary:               cfg.Compiler.RuntimeLibrary,
		DebugInformationFormat:       cfg.Compiler.DebugInformationFormat,
		WarningLevel:                 cfg.Compiler.WarningLevel,
		TreatWarningAsError:          cfg.Compiler.WarningsAsErrors,
		FunctionLevelLinking:         cfg.Compiler.FunctionLevelLinking,
		LanguageStandard:             cfg.Compiler.LanguageStandard,
		PrecompiledHeader:            pchMode(cfg.Compiler.PCHMode),
		PrecompiledHeaderFile:        cfg.Compiler.PCHHeader,
		PrecompiledHeaderOutputFile:  cfg.Compiler.PCHOutput,
		PreprocessorDefinitions:      joinWith(cfg.Compiler.Defines, "%(PreprocessorDefinitions)"),
		AdditionalIncludeDirectories: joinWith(cfg.Compiler.IncludeDirs, "%(AdditionalIncludeDirectories)"),
		AdditionalOptions:            strings.Join(cfg.Compiler.Options, " "),
	}
	group.ClCompile = cl

	switch cfg.Type {
	case model.TargetStaticLibrary:
		group.Lib = &xLib{
			OutputFile:                   cfg.Librarian.OutputFile,
			AdditionalDependencies:       joinWith(cfg.Librarian.Libraries, "%(AdditionalDependencies)"),
			AdditionalLibraryDirectories: joinWith(cfg.Librarian.LibraryDirs, "%(AdditionalLibraryDirectories)"),
			AdditionalOptions:            strings.Join(cfg.Librarian.Options, " "),
		}
	default:
		libs := linkInputs(proj, cfg)
		group.Link = &xLink{
			SubSystem:                    cfg.Linker.Subsystem,
			GenerateDebugInformation:     cfg.Linker.GenerateDebugInfo,
			OptimizeReferences:           cfg.Linker.OptimizeReferences,
			EnableCOMDATFolding:          cfg.Linker.EnableCOMDATFolding,
			OutputFile:                   cfg.Linker.OutputFile,
			ImportLibrary:                cfg.Linker.ImportLibrary,
			ModuleDefinitionFile:         cfg.Linker.ModuleDefinitionFile,
			AdditionalDependencies:       joinWith(libs, "%(AdditionalDependencies)"),
			AdditionalLibraryDirectories: joinWith(cfg.Linker.LibraryDirs, "%(AdditionalLibraryDirectories)"),
			AdditionalOptions:            strings.Join(cfg.Linker.Options, " "),
		}
	}

	if len(cfg.ResourceCompiler.Defines) > 0 || len(cfg.ResourceCompiler.IncludeDirs) > 0 || len(cfg.ResourceCompiler.Options) > 0 {
		group.ResourceCompile = &xResourceCompile{
			PreprocessorDefinitions:      joinWith(cfg.ResourceCompiler.Defines, "%(PreprocessorDefinitions)"),
			AdditionalIncludeDirectories: joinWith(cfg.ResourceCompiler.IncludeDirs, "%(AdditionalIncludeDirectories)"),
			AdditionalOptions:            strings.Join(cfg.ResourceCompiler.Options, " "),
		}
	}
	group.PreBuildEvent = buildEvent(cfg.PreBuildEvent)
	group.PreLinkEvent = buildEvent(cfg.PreLinkEvent)
	group.PostBuildEvent = buildEvent(cfg.PostBuildEvent)
	return group
}

// linkInputs is the external library list for one configuration: the
// project-wide references plus the per-configuration ones.
func linkInputs(proj *model.Project, cfg *model.Configuration) []string {
	out := append([]string(nil), proj.Libraries...)
	return append(out, cfg.Linker.Libraries...)
}

func buildEvent(ev model.BuildEvent) *xBuildEvent {
	if ev.Command == "" {
		return nil
	}
	return &xBuildEvent{Command: ev.Command, Message: ev.Message}
}

// pchMode maps the model's precompiled header mode to the project-file
// vocabulary.
func pchMode(mode string) string {
	switch strings.ToLower(mode) {
	case "":
		return ""
	case "use":
		return "Use"
	case "create":
		return "Create"
	case "off", "none", "notusing":
		return "NotUsing"
	}
	return mode
}

// fileGroups buckets the project's files by type, carrying per-file
// settings as conditioned child elements.
func fileGroups(sol *model.Solution, proj *model.Project) []any {
	keys := sol.ConfigKeys()
	var compiles, headers, resources, others []xFileItem
	var customs []xCustomBuild
	for _, f := range proj.Files {
		switch f.Type {
		case model.FileCompile:
			compiles = append(compiles, compileItem(f, keys))
		case model.FileHeader:
			headers = append(headers, xFileItem{Include: f.Path})
		case model.FileResource:
			resources = append(resources, xFileItem{Include: f.Path})
		case model.FileCustomBuild:
			customs = append(customs, customBuildItem(f, keys))
		default:
			others = append(others, xFileItem{Include: f.Path})
		}
	}
	var groups []any
	if len(compiles) > 0 {
		groups = append(groups, xItemGroup{Compiles: compiles})
	}
	if len(headers) > 0 {
		groups = append(groups, xItemGroup{Headers: headers})
	}
	if len(resources) > 0 {
		groups = append(groups, xItemGroup{Resources: resources})
	}
	if len(customs) > 0 {
		groups = append(groups, xItemGroup{CustomBuilds: customs})
	}
	if len(others) > 0 {
		groups = append(groups, xItemGroup{Others: others})
	}
	return groups
}

// perKey collects one per-file setting as conditioned values, collapsing a
// wildcard-only setting to a single unconditioned element.
func perKey(f *model.SourceFile, name string, keys []string, format func(string) string) []xCondValue {
	prop := f.Settings.Prop(name)
	if prop == nil {
		return nil
	}
	if format == nil {
		format = func(s string) string { return s }
	}
	if len(prop) == 1 {
		if v, ok := prop[model.AllConfigs]; ok {
			return []xCondValue{{Value: format(v)}}
		}
	}
	var out []xCondValue
	for _, key := range keys {
		if v, ok := prop.Get(key); ok {
			out = append(out, xCondValue{Condition: keyCondition(key), Value: format(v)})
		}
	}
	return out
}

func compileItem(f *model.SourceFile, keys []string) xFileItem {
	return xFileItem{
		Include:                     f.Path,
		ExcludedFromBuild:           perKey(f, model.SettingExcluded, keys, nil),
		PrecompiledHeader:           perKey(f, model.SettingPCHMode, keys, pchMode),
		PrecompiledHeaderFile:       perKey(f, model.SettingPCHHeader, keys, nil),
		PrecompiledHeaderOutputFile: perKey(f, model.SettingPCHOutput, keys, nil),
		ObjectFileName:              perKey(f, model.SettingObjectFile, keys, nil),
		PreprocessorDefinitions: perKey(f, model.SettingDefines, keys, func(s string) string {
			return s + ";%(PreprocessorDefinitions)"
		}),
		AdditionalOptions: perKey(f, model.SettingOptions, keys, nil),
	}
}

func customBuildItem(f *model.SourceFile, keys []string) xCustomBuild {
	return xCustomBuild{
		Include: f.Path,
		Command: perKey(f, model.SettingCustomCommand, keys, nil),
		Outputs: perKey(f, model.SettingCustomOutputs, keys, nil),
		Message: perKey(f, model.SettingCustomMessage, keys, nil),
	}
}

// projectReferences emits one reference per dependency edge that names a
// known project. INTERFACE edges are referenced but excluded from linking.
func projectReferences(sol *model.Solution, proj *model.Project) []xProjectReference {
	var refs []xProjectReference
	for _, dep := range proj.Dependencies {
		target, ok := sol.Project(dep.Target)
		if !ok {
			continue
		}
		ref := xProjectReference{
			Include: target.Name + ".vcxproj",
			Project: guid(target.ID),
		}
		if dep.Visibility == model.Interface {
			ref.LinkLibraryDependencies = "false"
		}
		refs = append(refs, ref)
	}
	return refs
}
