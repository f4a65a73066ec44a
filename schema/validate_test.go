// Copyright 2026 The ddlcore Authors. All rights reserved.
// This source code is licensed under the Apache 2.0 license found
// in the LICENSE file in the root directory of this source tree.

package schema_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"ddlcore.dev/ddlcore/schema"
)

func TestApply_RejectsMissingPrimaryKey(t *testing.T) {
	db := &schema.Database{Name: "mydb"}
	_, err := schema.Apply(db, schema.CreateTable{
		Name:    "Users",
		Columns: []schema.ColumnDef{int64Col("UserId", false)},
	})
	require.Error(t, err)
}

func TestApply_RejectsNullablePrimaryKeyColumn(t *testing.T) {
	db := &schema.Database{Name: "mydb"}
	_, err := schema.Apply(db, schema.CreateTable{
		Name:    "Users",
		Columns: []schema.ColumnDef{int64Col("UserId", true)},
		Constraints: []schema.ConstraintDef{
			schema.PrimaryKeyDef{KeyParts: []schema.KeyPart{{Column: "UserId"}}},
		},
	})
	require.Error(t, err)
}

func TestApply_RejectsLengthOnNonStringType(t *testing.T) {
	db := &schema.Database{Name: "mydb"}
	_, err := schema.Apply(db, schema.CreateTable{
		Name: "Users",
		Columns: []schema.ColumnDef{
			{Name: "UserId", Type: schema.Type{Scalar: schema.Int64}, MaxLength: &schema.Length{Value: 10}},
		},
		Constraints: []schema.ConstraintDef{
			schema.PrimaryKeyDef{KeyParts: []schema.KeyPart{{Column: "UserId"}}},
		},
	})
	require.Error(t, err)
}

func TestApply_RejectsForeignKeyColumnCountMismatch(t *testing.T) {
	db := &schema.Database{Name: "mydb"}
	db, err := schema.Apply(db, createUsers())
	require.NoError(t, err)
	_, err = schema.Apply(db, schema.CreateTable{
		Name: "Orders",
		Columns: []schema.ColumnDef{
			int64Col("OrderId", false),
			int64Col("UserId", false),
		},
		Constraints: []schema.ConstraintDef{
			schema.PrimaryKeyDef{KeyParts: []schema.KeyPart{{Column: "OrderId"}}},
			schema.ForeignKeyDef{
				ReferencingColumns: []string{"UserId"},
				ReferencedTable:    "Users",
				ReferencedColumns:  []string{"UserId", "Name"},
			},
		},
	})
	require.Error(t, err)
}

func TestApply_RejectsForeignKeyTypeMismatch(t *testing.T) {
	db := &schema.Database{Name: "mydb"}
	db, err := schema.Apply(db, createUsers())
	require.NoError(t, err)
	_, err = schema.Apply(db, schema.CreateTable{
		Name: "Orders",
		Columns: []schema.ColumnDef{
			int64Col("OrderId", false),
			stringCol("UserId", 50, false),
		},
		Constraints: []schema.ConstraintDef{
			schema.PrimaryKeyDef{KeyParts: []schema.KeyPart{{Column: "OrderId"}}},
			schema.ForeignKeyDef{
				ReferencingColumns: []string{"UserId"},
				ReferencedTable:    "Users",
				ReferencedColumns:  []string{"UserId"},
			},
		},
	})
	require.Error(t, err)
}

func TestApply_RejectsInterleaveKeyPrefixMismatch(t *testing.T) {
	db := &schema.Database{Name: "mydb"}
	db, err := schema.Apply(db, createUsers())
	require.NoError(t, err)
	_, err = schema.Apply(db, schema.CreateTable{
		Name: "Orders",
		Columns: []schema.ColumnDef{
			int64Col("OrderId", false),
		},
		Constraints: []schema.ConstraintDef{
			schema.PrimaryKeyDef{KeyParts: []schema.KeyPart{{Column: "OrderId"}}},
			schema.InterleaveDef{Parent: "Users"},
		},
	})
	require.Error(t, err)
}

func TestApply_AcceptsInterleaveKeyPrefixMatch(t *testing.T) {
	db := &schema.Database{Name: "mydb"}
	db, err := schema.Apply(db, createUsers())
	require.NoError(t, err)
	next, err := schema.Apply(db, schema.CreateTable{
		Name: "Orders",
		Columns: []schema.ColumnDef{
			int64Col("UserId", false),
			int64Col("OrderId", false),
		},
		Constraints: []schema.ConstraintDef{
			schema.PrimaryKeyDef{KeyParts: []schema.KeyPart{{Column: "UserId"}, {Column: "OrderId"}}},
			schema.InterleaveDef{Parent: "Users"},
		},
	})
	require.NoError(t, err)
	orders, _ := next.Table("Orders")
	require.Same(t, orders.InterleaveParent, mustTable(t, next, "Users"))
}

func TestApply_RejectsRowDeletionPolicyOnNonTimestampColumn(t *testing.T) {
	db := &schema.Database{Name: "mydb"}
	_, err := schema.Apply(db, schema.CreateTable{
		Name: "Events",
		Columns: []schema.ColumnDef{
			int64Col("EventId", false),
		},
		Constraints: []schema.ConstraintDef{
			schema.PrimaryKeyDef{KeyParts: []schema.KeyPart{{Column: "EventId"}}},
		},
		RowDeletionPolicy: &schema.RowDeletionPolicyDef{Column: "EventId", IntervalDays: 7},
	})
	require.Error(t, err)
}

func TestApply_AcceptsRowDeletionPolicyOnTimestampColumn(t *testing.T) {
	db := &schema.Database{Name: "mydb"}
	next, err := schema.Apply(db, schema.CreateTable{
		Name: "Events",
		Columns: []schema.ColumnDef{
			int64Col("EventId", false),
			{Name: "CreatedAt", Type: schema.Type{Scalar: schema.Timestamp}, Nullable: false},
		},
		Constraints: []schema.ConstraintDef{
			schema.PrimaryKeyDef{KeyParts: []schema.KeyPart{{Column: "EventId"}}},
		},
		RowDeletionPolicy: &schema.RowDeletionPolicyDef{Column: "CreatedAt", IntervalDays: 7},
	})
	require.NoError(t, err)
	events, _ := next.Table("Events")
	require.NotNil(t, events.RowDeletionPolicy)
}

func TestApply_RejectsDuplicateGlobalName(t *testing.T) {
	db := &schema.Database{Name: "mydb"}
	db, err := schema.Apply(db, createUsers())
	require.NoError(t, err)
	db, err = schema.Apply(db, schema.CreateIndex{
		Name:     "ByName",
		Table:    "Users",
		KeyParts: []schema.KeyPart{{Column: "Name"}},
	})
	require.NoError(t, err)
	db, err = schema.Apply(db, schema.CreateTable{
		Name: "Other",
		Columns: []schema.ColumnDef{
			int64Col("Id", false),
		},
		Constraints: []schema.ConstraintDef{
			schema.PrimaryKeyDef{KeyParts: []schema.KeyPart{{Column: "Id"}}},
		},
	})
	require.NoError(t, err)
	_, err = schema.Apply(db, schema.CreateIndex{
		Name:     "ByName",
		Table:    "Other",
		KeyParts: []schema.KeyPart{{Column: "Id"}},
	})
	require.Error(t, err)
}

func TestApply_RejectsPrimaryKeyColumnTypeChange(t *testing.T) {
	db := &schema.Database{Name: "mydb"}
	db, err := schema.Apply(db, createUsers())
	require.NoError(t, err)
	_, err = schema.Apply(db, schema.AlterTable{
		Table:  "Users",
		Action: schema.AlterColumnAction{Column: stringCol("UserId", 50, false)},
	})
	require.Error(t, err)
}

func TestApply_RejectsPrimaryKeyColumnNotNullRelaxation(t *testing.T) {
	db := &schema.Database{Name: "mydb"}
	db, err := schema.Apply(db, createUsers())
	require.NoError(t, err)
	_, err = schema.Apply(db, schema.AlterTable{
		Table:  "Users",
		Action: schema.AlterColumnAction{Column: int64Col("UserId", true)},
	})
	require.Error(t, err)
}

func TestApply_AcceptsNonKeyColumnTypeChange(t *testing.T) {
	db := &schema.Database{Name: "mydb"}
	db, err := schema.Apply(db, createUsers())
	require.NoError(t, err)
	next, err := schema.Apply(db, schema.AlterTable{
		Table:  "Users",
		Action: schema.AlterColumnAction{Column: stringCol("Name", 200, true)},
	})
	require.NoError(t, err)
	users, _ := next.Table("Users")
	col, ok := users.Column("Name")
	require.True(t, ok)
	require.Equal(t, int64(200), col.MaxLength.Value)
}

func mustTable(t *testing.T, db *schema.Database, name string) *schema.Table {
	t.Helper()
	tbl, ok := db.Table(name)
	require.True(t, ok)
	return tbl
}
