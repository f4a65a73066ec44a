// Copyright 2026 The ddlcore Authors. All rights reserved.
// This source code is licensed under the Apache 2.0 license found
// in the LICENSE file in the root directory of this source tree.

package main

import (
	"context"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"ddlcore.dev/ddlcore/admin"
	"ddlcore.dev/ddlcore/admin/config"
	"ddlcore.dev/ddlcore/ddl/parser"
)

type applyFlags struct {
	file       string
	database   string
	uri        string
	configPath string
}

func applyCmd() *cobra.Command {
	var f applyFlags
	cmd := &cobra.Command{
		Use:   "apply",
		Short: "Apply a semicolon-separated DDL file against a fresh in-memory database.",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runApply(cmd, f)
		},
	}
	cmd.Flags().StringVarP(&f.file, "file", "f", "", "path to a file containing DDL statements")
	cmd.Flags().StringVarP(&f.database, "database", "d", "mydb", "name of the database to create before applying")
	cmd.Flags().StringVar(&f.uri, "uri", "databases/ddladmin", "resource URI the database is tracked under")
	cmd.Flags().StringVar(&f.configPath, "config", "", "optional HCL feature-gate config file")
	cobra.CheckErr(cmd.MarkFlagRequired("file"))
	return cmd
}

func runApply(cmd *cobra.Command, f applyFlags) error {
	src, err := os.ReadFile(f.file)
	if err != nil {
		return err
	}
	gates := parser.Gates{
		EnableStoredGeneratedColumns: true,
		EnableColumnDefaultValues:    true,
		EnableCheckConstraint:        true,
	}
	if f.configPath != "" {
		cfg, err := config.Load(f.configPath)
		if err != nil {
			return err
		}
		gates = cfg.Gates
	}

	statements := splitStatements(string(src))
	db := admin.NewDatabase(f.uri, f.database)
	h, result, err := db.UpdateDDL(context.Background(), statements, gates, "")
	if err != nil {
		return err
	}
	cmd.Printf("operation %s: applied %d/%d statements\n", h.URI, result.AppliedCount, len(statements))
	if result.Err != nil {
		cmd.Printf("stopped early: %v\n", result.Err)
	}
	for _, t := range db.Schema.Tables {
		cmd.Printf("table %s (%d columns)\n", t.Name, len(t.Columns))
	}
	return nil
}

// splitStatements splits a DDL file into individual statements on
// semicolons. It is intentionally naive: callers feeding statements whose
// expression text contains a semicolon inside a string literal should
// invoke admin.Parse per statement directly instead.
func splitStatements(src string) []string {
	var out []string
	for _, stmt := range strings.Split(src, ";") {
		stmt = strings.TrimSpace(stmt)
		if stmt != "" {
			out = append(out, stmt)
		}
	}
	return out
}
