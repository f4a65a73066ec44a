// Copyright 2026 The ddlcore Authors. All rights reserved.
// This source code is licensed under the Apache 2.0 license found
// in the LICENSE file in the root directory of this source tree.

// Package ddlprint renders a committed schema back to canonical DDL text.
// It exists solely to exercise the round-trip testable property named in
// spec §8 (parse(print(schema)) reproduces the same graph up to
// generated-name ordering); it is dev/test tooling, not one of the five
// core components.
package ddlprint

import (
	"fmt"
	"strings"

	"ddlcore.dev/ddlcore/schema"
)

// Database renders every user table of d as a sequence of CREATE TABLE
// statements, in declaration order. No CREATE INDEX statements are
// emitted, neither for user indexes nor for editor-managed backing
// indexes; Index renders a single user index.
func Database(d *schema.Database) string {
	var b strings.Builder
	for i, t := range d.Tables {
		if i > 0 {
			b.WriteString("\n")
		}
		Table(&b, t)
	}
	return b.String()
}

// Table writes a single CREATE TABLE statement for t to b.
func Table(b *strings.Builder, t *schema.Table) {
	fmt.Fprintf(b, "CREATE TABLE %s (\n", t.Name)
	for i, c := range t.Columns {
		b.WriteString("  ")
		column(b, c)
		if i < len(t.Columns)-1 || len(t.ForeignKeys) > 0 || len(t.Checks) > 0 {
			b.WriteString(",")
		}
		b.WriteString("\n")
	}
	for i, f := range t.ForeignKeys {
		b.WriteString("  ")
		foreignKey(b, f)
		if i < len(t.ForeignKeys)-1 || len(t.Checks) > 0 {
			b.WriteString(",")
		}
		b.WriteString("\n")
	}
	for i, c := range t.Checks {
		b.WriteString("  ")
		check(b, c)
		if i < len(t.Checks)-1 {
			b.WriteString(",")
		}
		b.WriteString("\n")
	}
	b.WriteString(") PRIMARY KEY (")
	keyPartList(b, t.PrimaryKey)
	b.WriteString(")")
	if t.InterleaveParent != nil {
		fmt.Fprintf(b, ",\n  INTERLEAVE IN PARENT %s", t.InterleaveParent.Name)
		if t.InterleaveOnDelete == schema.Cascade {
			b.WriteString(" ON DELETE CASCADE")
		}
	}
	if t.RowDeletionPolicy != nil {
		fmt.Fprintf(b, ",\n  ROW DELETION POLICY (OLDER_THAN(%s, INTERVAL %d DAY))",
			t.RowDeletionPolicy.Column.Name, t.RowDeletionPolicy.IntervalDays)
	}
	b.WriteString(";\n")
}

func column(b *strings.Builder, c *schema.Column) {
	fmt.Fprintf(b, "%s %s", c.Name, typeName(c.Type, c.MaxLength))
	if !c.Nullable {
		b.WriteString(" NOT NULL")
	}
	switch {
	case c.IsStoredGenerated:
		fmt.Fprintf(b, " AS (%s) STORED", c.Expression)
	case c.HasDefault:
		fmt.Fprintf(b, " DEFAULT (%s)", c.Expression)
	}
	if len(c.Options) > 0 {
		b.WriteString(" OPTIONS (")
		first := true
		for k, v := range c.Options {
			if !first {
				b.WriteString(", ")
			}
			first = false
			fmt.Fprintf(b, "%s=%s", k, optionValue(v))
		}
		b.WriteString(")")
	}
}

func optionValue(v schema.OptionValue) string {
	switch {
	case v.Null:
		return "null"
	case v.Bool:
		return "true"
	default:
		return "false"
	}
}

func typeName(t schema.Type, l *schema.Length) string {
	base := t.Scalar.String()
	if t.Scalar.HasLength() {
		if l == nil {
			base += "(MAX)"
		} else if l.Max {
			base += "(MAX)"
		} else {
			base += fmt.Sprintf("(%d)", l.Value)
		}
	}
	if t.IsArray {
		return "ARRAY<" + base + ">"
	}
	return base
}

func keyPartList(b *strings.Builder, parts []schema.KeyPart) {
	for i, p := range parts {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(p.Column)
		if p.Order == schema.Desc {
			b.WriteString(" DESC")
		}
	}
}

func foreignKey(b *strings.Builder, f *schema.ForeignKey) {
	fmt.Fprintf(b, "CONSTRAINT %s FOREIGN KEY (%s) REFERENCES %s (%s)",
		f.Name, columnNames(f.ReferencingColumns), f.ReferencedTable.Name, columnNames(f.ReferencedColumns))
}

func check(b *strings.Builder, c *schema.CheckConstraint) {
	fmt.Fprintf(b, "CONSTRAINT %s CHECK (%s)", c.Name, c.SQLText)
}

func columnNames(cols []*schema.Column) string {
	names := make([]string, len(cols))
	for i, c := range cols {
		names[i] = c.Name
	}
	return strings.Join(names, ", ")
}

// Index renders a single CREATE INDEX statement for ix, skipping it
// entirely if ix is editor-managed (it has no corresponding DDL text).
func Index(ix *schema.Index) string {
	if ix.Managed {
		return ""
	}
	var b strings.Builder
	b.WriteString("CREATE ")
	if ix.Unique {
		b.WriteString("UNIQUE ")
	}
	if ix.NullFiltered {
		b.WriteString("NULL_FILTERED ")
	}
	fmt.Fprintf(&b, "INDEX %s ON %s (", ix.Name, ix.Table.Name)
	keyPartList(&b, ix.KeyParts)
	b.WriteString(")")
	if len(ix.StoredColumns) > 0 {
		fmt.Fprintf(&b, " STORING (%s)", strings.Join(ix.StoredColumns, ", "))
	}
	if ix.Interleave != nil {
		fmt.Fprintf(&b, ", INTERLEAVE IN %s", ix.Interleave.Name)
	}
	b.WriteString(";\n")
	return b.String()
}
