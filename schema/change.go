// Copyright 2026 The ddlcore Authors. All rights reserved.
// This source code is licensed under the Apache 2.0 license found
// in the LICENSE file in the root directory of this source tree.

package schema

// This file defines the schema-change description: the discriminated
// record the parser (component B) produces and the editor (component D)
// consumes, per spec §3 and §6. The marker-interface-per-variant pattern
// mirrors the teacher's schema.Change/change() convention in its own
// migrate.go, generalized from a SQL-diffing output to a parser output.

// ColumnDef describes a column as written in DDL text, before it becomes
// a graph Column node.
type ColumnDef struct {
	Name              string
	Type              Type
	MaxLength         *Length
	Nullable          bool
	Options           map[string]OptionValue
	Expression        string
	IsStoredGenerated bool
	HasDefault        bool
}

// ConstraintDef is the discriminated union of table-level constraints as
// written in DDL text (spec §3).
type ConstraintDef interface{ constraintDef() }

// PrimaryKeyDef describes a PRIMARY KEY(...) clause.
type PrimaryKeyDef struct{ KeyParts []KeyPart }

// InterleaveDef describes an INTERLEAVE IN PARENT clause.
type InterleaveDef struct {
	Parent   string
	OnDelete OnDeleteAction
}

// ForeignKeyDef describes a FOREIGN KEY(...) REFERENCES(...) clause.
type ForeignKeyDef struct {
	ConstraintName     string
	ReferencingColumns []string
	ReferencedTable    string
	ReferencedColumns  []string
}

// CheckDef describes a CHECK(...) clause.
type CheckDef struct {
	ConstraintName string
	SQLText        string
}

func (PrimaryKeyDef) constraintDef() {}
func (InterleaveDef) constraintDef() {}
func (ForeignKeyDef) constraintDef() {}
func (CheckDef) constraintDef()      {}

// RowDeletionPolicyDef describes a ROW DELETION POLICY(OLDER_THAN(...)) clause.
type RowDeletionPolicyDef struct {
	Column       string
	IntervalDays int64
}

// Change is the discriminated schema-change description produced by the
// parser and consumed by the graph editor.
type Change interface{ change() }

// CreateDatabase describes a CREATE DATABASE statement.
type CreateDatabase struct{ Name string }

// CreateTable describes a CREATE TABLE statement.
type CreateTable struct {
	Name              string
	Columns           []ColumnDef
	Constraints       []ConstraintDef
	RowDeletionPolicy *RowDeletionPolicyDef
}

// CreateIndex describes a CREATE [UNIQUE] [NULL_FILTERED] INDEX statement.
type CreateIndex struct {
	Name             string
	Table            string
	NullFiltered     bool
	Unique           bool
	KeyParts         []KeyPart
	StoredColumns    []string
	InterleaveParent string // "" if not interleaved
}

// DropTable describes a DROP TABLE statement.
type DropTable struct{ Name string }

// DropIndex describes a DROP INDEX statement.
type DropIndex struct{ Name string }

// Analyze describes an ANALYZE statement.
type Analyze struct{}

// AlterAction is the discriminated union of ALTER TABLE actions.
type AlterAction interface{ alterAction() }

// AlterTable describes an ALTER TABLE statement.
type AlterTable struct {
	Table  string
	Action AlterAction
}

// AddColumnAction describes ALTER TABLE ... ADD COLUMN.
type AddColumnAction struct{ Column ColumnDef }

// DropColumnAction describes ALTER TABLE ... DROP COLUMN.
type DropColumnAction struct{ Name string }

// AlterColumnAction describes ALTER TABLE ... ALTER COLUMN <name> <type>...
type AlterColumnAction struct{ Column ColumnDef }

// SetColumnOptionsAction describes ALTER TABLE ... ALTER COLUMN ... SET OPTIONS(...).
type SetColumnOptionsAction struct {
	Name    string
	Options map[string]OptionValue
}

// SetColumnDefaultAction describes ALTER TABLE ... ALTER COLUMN ... SET DEFAULT(...).
type SetColumnDefaultAction struct {
	Name       string
	Expression string
}

// DropColumnDefaultAction describes ALTER TABLE ... ALTER COLUMN ... DROP DEFAULT.
type DropColumnDefaultAction struct{ Name string }

// AddConstraintAction describes ALTER TABLE ... ADD [CONSTRAINT ...] (FOREIGN KEY | CHECK).
type AddConstraintAction struct{ Constraint ConstraintDef }

// DropConstraintAction describes ALTER TABLE ... DROP CONSTRAINT.
type DropConstraintAction struct{ Name string }

// AlterInterleaveOnDeleteAction describes ALTER TABLE ... SET ON DELETE.
type AlterInterleaveOnDeleteAction struct{ OnDelete OnDeleteAction }

// AddRowDeletionPolicyAction describes ALTER TABLE ... ADD ROW DELETION POLICY.
type AddRowDeletionPolicyAction struct{ Policy RowDeletionPolicyDef }

// ReplaceRowDeletionPolicyAction describes ALTER TABLE ... REPLACE ROW DELETION POLICY.
type ReplaceRowDeletionPolicyAction struct{ Policy RowDeletionPolicyDef }

// DropRowDeletionPolicyAction describes ALTER TABLE ... DROP ROW DELETION POLICY.
type DropRowDeletionPolicyAction struct{}

func (CreateDatabase) change() {}
func (CreateTable) change()    {}
func (CreateIndex) change()    {}
func (AlterTable) change()     {}
func (DropTable) change()      {}
func (DropIndex) change()      {}
func (Analyze) change()        {}

func (AddColumnAction) alterAction()               {}
func (DropColumnAction) alterAction()              {}
func (AlterColumnAction) alterAction()             {}
func (SetColumnOptionsAction) alterAction()        {}
func (SetColumnDefaultAction) alterAction()        {}
func (DropColumnDefaultAction) alterAction()       {}
func (AddConstraintAction) alterAction()           {}
func (DropConstraintAction) alterAction()          {}
func (AlterInterleaveOnDeleteAction) alterAction() {}
func (AddRowDeletionPolicyAction) alterAction()    {}
func (ReplaceRowDeletionPolicyAction) alterAction() {}
func (DropRowDeletionPolicyAction) alterAction()   {}
