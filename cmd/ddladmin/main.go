// Copyright 2026 The ddlcore Authors. All rights reserved.
// This source code is licensed under the Apache 2.0 license found
// in the LICENSE file in the root directory of this source tree.

// Command ddladmin is a small CLI exercising the admin package in-process:
// apply a batch of DDL statements against an in-memory database and
// inspect the resulting operation log.
package main

import (
	"os"

	"github.com/spf13/cobra"
)

func main() {
	if err := rootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:          "ddladmin",
		Short:        "Apply DDL statements against an in-process database and inspect operations.",
		SilenceUsage: true,
	}
	cmd.AddCommand(applyCmd())
	cmd.AddCommand(listOpsCmd())
	return cmd
}
