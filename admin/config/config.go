// Copyright 2026 The ddlcore Authors. All rights reserved.
// This source code is licensed under the Apache 2.0 license found
// in the LICENSE file in the root directory of this source tree.

// Package config loads the emulator's feature-gate record. Gates are a
// fixed record of booleans, never global state (Design Notes §9,
// "Configuration"): tests construct a Gates value directly, and a
// deployment loads one from an HCL file using the same
// github.com/hashicorp/hcl/v2 stack the teacher uses for its own
// project configuration.
package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/zclconf/go-cty/cty"
	"golang.org/x/mod/semver"

	"ddlcore.dev/ddlcore/ddl/parser"
)

// MinEngineVersion is the oldest engine_version this build understands.
// A config file naming an older version is rejected, since the gate
// combinations it may request could predate assumptions this build makes.
const MinEngineVersion = "v1.0"

// file is the gohcl-decoded shape of a gates configuration file.
type file struct {
	EngineVersion string `hcl:"engine_version,optional"`
	Gates         *gatesBlock `hcl:"gates,block"`
}

type gatesBlock struct {
	EnableStoredGeneratedColumns bool `hcl:"enable_stored_generated_columns,optional"`
	EnableColumnDefaultValues    bool `hcl:"enable_column_default_values,optional"`
	EnableCheckConstraint        bool `hcl:"enable_check_constraint,optional"`
}

// Config bundles the parsed feature gates with the engine version they
// were declared against.
type Config struct {
	Gates         parser.Gates
	EngineVersion string
}

// Load parses an HCL gates file such as:
//
//	gates {
//	  enable_stored_generated_columns = true
//	  enable_column_default_values    = true
//	  enable_check_constraint         = false
//	}
//	engine_version = "v1.2"
func Load(path string) (Config, error) {
	p := hclparse.NewParser()
	f, diags := p.ParseHCLFile(path)
	if diags.HasErrors() {
		return Config{}, diags
	}
	return decode(f, path)
}

// LoadBytes parses HCL gates configuration already in memory, primarily
// for tests that do not want to touch the filesystem.
func LoadBytes(src []byte, filename string) (Config, error) {
	p := hclparse.NewParser()
	f, diags := p.ParseHCL(src, filename)
	if diags.HasErrors() {
		return Config{}, diags
	}
	return decode(f, filename)
}

func decode(f *hcl.File, filename string) (Config, error) {
	var raw file
	if diags := gohcl.DecodeBody(f.Body, envContext(), &raw); diags.HasErrors() {
		return Config{}, diags
	}
	cfg := Config{EngineVersion: raw.EngineVersion}
	if raw.Gates != nil {
		cfg.Gates = toParserGates(*raw.Gates)
	}
	if cfg.EngineVersion == "" {
		return cfg, nil
	}
	v := normalizeVersion(cfg.EngineVersion)
	if !semver.IsValid(v) {
		return Config{}, fmt.Errorf("%s: invalid engine_version %q", filename, cfg.EngineVersion)
	}
	if semver.Compare(v, MinEngineVersion) < 0 {
		return Config{}, fmt.Errorf("%s: engine_version %q is older than the minimum supported %q", filename, cfg.EngineVersion, MinEngineVersion)
	}
	return cfg, nil
}

// envContext exposes the process environment to gate expressions as an
// "env" object, so a deployment can write e.g.
// enable_check_constraint = env.ENABLE_CHECK == "true"
// without the config package growing its own templating layer.
func envContext() *hcl.EvalContext {
	vals := map[string]cty.Value{}
	for _, kv := range os.Environ() {
		k, v, ok := strings.Cut(kv, "=")
		if !ok {
			continue
		}
		vals[k] = cty.StringVal(v)
	}
	return &hcl.EvalContext{
		Variables: map[string]cty.Value{
			"env": cty.ObjectVal(vals),
		},
	}
}

func toParserGates(b gatesBlock) parser.Gates {
	return parser.Gates{
		EnableStoredGeneratedColumns: b.EnableStoredGeneratedColumns,
		EnableColumnDefaultValues:    b.EnableColumnDefaultValues,
		EnableCheckConstraint:        b.EnableCheckConstraint,
	}
}

func normalizeVersion(v string) string {
	if len(v) > 0 && v[0] != 'v' {
		return "v" + v
	}
	return v
}
