// Copyright 2026 The ddlcore Authors. All rights reserved.
// This source code is licensed under the Apache 2.0 license found
// in the LICENSE file in the root directory of this source tree.

package config_test

import (
	"os"
	"testing"

	"github.com/stretchr/testify/require"

	"ddlcore.dev/ddlcore/admin/config"
)

func TestLoadBytes_DecodesGatesBlock(t *testing.T) {
	src := `
engine_version = "v1.2"
gates {
  enable_stored_generated_columns = true
  enable_column_default_values    = true
  enable_check_constraint         = false
}
`
	cfg, err := config.LoadBytes([]byte(src), "test.hcl")
	require.NoError(t, err)
	require.Equal(t, "v1.2", cfg.EngineVersion)
	require.True(t, cfg.Gates.EnableStoredGeneratedColumns)
	require.True(t, cfg.Gates.EnableColumnDefaultValues)
	require.False(t, cfg.Gates.EnableCheckConstraint)
}

func TestLoadBytes_NoGatesBlockYieldsZeroGates(t *testing.T) {
	cfg, err := config.LoadBytes([]byte(`engine_version = "v1.0"`), "test.hcl")
	require.NoError(t, err)
	require.False(t, cfg.Gates.EnableStoredGeneratedColumns)
	require.False(t, cfg.Gates.EnableColumnDefaultValues)
	require.False(t, cfg.Gates.EnableCheckConstraint)
}

func TestLoadBytes_NoEngineVersionSkipsSemverCheck(t *testing.T) {
	src := `
gates {
  enable_check_constraint = true
}
`
	cfg, err := config.LoadBytes([]byte(src), "test.hcl")
	require.NoError(t, err)
	require.Empty(t, cfg.EngineVersion)
	require.True(t, cfg.Gates.EnableCheckConstraint)
}

func TestLoadBytes_RejectsEngineVersionOlderThanMinimum(t *testing.T) {
	_, err := config.LoadBytes([]byte(`engine_version = "v0.1"`), "test.hcl")
	require.Error(t, err)
}

func TestLoadBytes_RejectsInvalidEngineVersion(t *testing.T) {
	_, err := config.LoadBytes([]byte(`engine_version = "not-a-version"`), "test.hcl")
	require.Error(t, err)
}

func TestLoadBytes_AcceptsVersionWithoutLeadingV(t *testing.T) {
	cfg, err := config.LoadBytes([]byte(`engine_version = "1.5"`), "test.hcl")
	require.NoError(t, err)
	require.Equal(t, "1.5", cfg.EngineVersion)
}

func TestLoadBytes_GateExpressionReadsEnvironment(t *testing.T) {
	require.NoError(t, os.Setenv("DDLCORE_TEST_ENABLE_CHECK", "true"))
	defer os.Unsetenv("DDLCORE_TEST_ENABLE_CHECK")

	src := `
gates {
  enable_check_constraint = env.DDLCORE_TEST_ENABLE_CHECK == "true"
}
`
	cfg, err := config.LoadBytes([]byte(src), "test.hcl")
	require.NoError(t, err)
	require.True(t, cfg.Gates.EnableCheckConstraint)
}

func TestLoad_ReadsFileFromDisk(t *testing.T) {
	dir := t.TempDir()
	path := dir + "/gates.hcl"
	require.NoError(t, os.WriteFile(path, []byte(`
gates {
  enable_stored_generated_columns = true
}
`), 0o644))

	cfg, err := config.Load(path)
	require.NoError(t, err)
	require.True(t, cfg.Gates.EnableStoredGeneratedColumns)
}

func TestLoad_MissingFileErrors(t *testing.T) {
	_, err := config.Load("/nonexistent/gates.hcl")
	require.Error(t, err)
}
