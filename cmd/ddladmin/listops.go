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
	"ddlcore.dev/ddlcore/ddl/parser"
)

type listOpsFlags struct {
	file     string
	database string
	uri      string
}

// listOpsCmd applies the statements in a file one blank-line-separated
// batch per operation, so the operation log has more than a single entry
// to show, then prints every tracked operation for the database.
func listOpsCmd() *cobra.Command {
	var f listOpsFlags
	cmd := &cobra.Command{
		Use:   "list-ops",
		Short: "Apply a DDL file as multiple operations and print the resulting operation log.",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runListOps(cmd, f)
		},
	}
	cmd.Flags().StringVarP(&f.file, "file", "f", "", "path to a file containing DDL statements")
	cmd.Flags().StringVarP(&f.database, "database", "d", "mydb", "name of the database to create before applying")
	cmd.Flags().StringVar(&f.uri, "uri", "databases/ddladmin", "resource URI the database is tracked under")
	cobra.CheckErr(cmd.MarkFlagRequired("file"))
	return cmd
}

func runListOps(cmd *cobra.Command, f listOpsFlags) error {
	src, err := os.ReadFile(f.file)
	if err != nil {
		return err
	}
	gates := parser.Gates{
		EnableStoredGeneratedColumns: true,
		EnableColumnDefaultValues:    true,
		EnableCheckConstraint:        true,
	}

	db := admin.NewDatabase(f.uri, f.database)
	ctx := context.Background()
	for _, batch := range strings.Split(string(src), "\n\n") {
		statements := splitStatements(batch)
		if len(statements) == 0 {
			continue
		}
		if _, _, err := db.UpdateDDL(ctx, statements, gates, ""); err != nil {
			return err
		}
	}

	for _, h := range db.Tracker.List(f.uri) {
		status := "done"
		if h.Err != nil {
			status = "failed: " + h.Err.Error()
		}
		cmd.Printf("%s: %s\n", h.URI, status)
	}
	return nil
}
