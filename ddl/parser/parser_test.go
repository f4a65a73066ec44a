// Copyright 2026 The ddlcore Authors. All rights reserved.
// This source code is licensed under the Apache 2.0 license found
// in the LICENSE file in the root directory of this source tree.

package parser_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"ddlcore.dev/ddlcore/ddl/parser"
	"ddlcore.dev/ddlcore/schema"
)

var allGates = parser.Gates{
	EnableStoredGeneratedColumns: true,
	EnableColumnDefaultValues:    true,
	EnableCheckConstraint:        true,
}

func TestParse_CreateDatabase(t *testing.T) {
	c, err := parser.Parse("CREATE DATABASE mydb", parser.Gates{})
	require.NoError(t, err)
	require.Equal(t, schema.CreateDatabase{Name: "mydb"}, c)
}

func TestParse_CreateTableBasic(t *testing.T) {
	c, err := parser.Parse(`
		CREATE TABLE Singers (
		  SingerId INT64 NOT NULL,
		  FirstName STRING(1024),
		) PRIMARY KEY (SingerId)`, parser.Gates{})
	require.NoError(t, err)
	ct, ok := c.(schema.CreateTable)
	require.True(t, ok)
	require.Equal(t, "Singers", ct.Name)
	require.Len(t, ct.Columns, 2)
	require.Equal(t, "SingerId", ct.Columns[0].Name)
	require.False(t, ct.Columns[0].Nullable)
	require.Equal(t, schema.StringType, ct.Columns[1].Type.Scalar)
	require.Equal(t, int64(1024), ct.Columns[1].MaxLength.Value)
	require.True(t, ct.Columns[1].Nullable)
	require.Len(t, ct.Constraints, 1)
	pk, ok := ct.Constraints[0].(schema.PrimaryKeyDef)
	require.True(t, ok)
	require.Equal(t, []schema.KeyPart{{Column: "SingerId"}}, pk.KeyParts)
}

func TestParse_CreateTableWithForeignKeyAndCheck(t *testing.T) {
	c, err := parser.Parse(`
		CREATE TABLE Albums (
		  AlbumId INT64 NOT NULL,
		  SingerId INT64 NOT NULL,
		  Copies INT64,
		  CONSTRAINT FK_Singer FOREIGN KEY (SingerId) REFERENCES Singers (SingerId),
		  CONSTRAINT CK_Copies CHECK (Copies >= 0)
		) PRIMARY KEY (AlbumId)`, allGates)
	require.NoError(t, err)
	ct := c.(schema.CreateTable)
	require.Len(t, ct.Constraints, 3)
	fk, ok := ct.Constraints[1].(schema.ForeignKeyDef)
	require.True(t, ok)
	require.Equal(t, "FK_Singer", fk.ConstraintName)
	require.Equal(t, []string{"SingerId"}, fk.ReferencingColumns)
	require.Equal(t, "Singers", fk.ReferencedTable)
	ck, ok := ct.Constraints[2].(schema.CheckDef)
	require.True(t, ok)
	require.Equal(t, "Copies >= 0", ck.SQLText)
}

func TestParse_CheckConstraintRequiresGate(t *testing.T) {
	_, err := parser.Parse(`
		CREATE TABLE T (
		  X INT64,
		  CHECK (X > 0)
		) PRIMARY KEY (X)`, parser.Gates{})
	require.Error(t, err)
}

func TestParse_CreateTableWithInterleaveAndOnDelete(t *testing.T) {
	c, err := parser.Parse(`
		CREATE TABLE Orders (
		  UserId INT64 NOT NULL,
		  OrderId INT64 NOT NULL,
		) PRIMARY KEY (UserId, OrderId),
		  INTERLEAVE IN PARENT Users ON DELETE CASCADE`, parser.Gates{})
	require.NoError(t, err)
	ct := c.(schema.CreateTable)
	var interleave schema.InterleaveDef
	found := false
	for _, cons := range ct.Constraints {
		if id, ok := cons.(schema.InterleaveDef); ok {
			interleave = id
			found = true
		}
	}
	require.True(t, found)
	require.Equal(t, "Users", interleave.Parent)
	require.Equal(t, schema.Cascade, interleave.OnDelete)
}

func TestParse_CreateTableWithRowDeletionPolicy(t *testing.T) {
	c, err := parser.Parse(`
		CREATE TABLE Events (
		  EventId INT64 NOT NULL,
		  CreatedAt TIMESTAMP NOT NULL,
		) PRIMARY KEY (EventId),
		  ROW DELETION POLICY (OLDER_THAN(CreatedAt, INTERVAL 30 DAY))`, parser.Gates{})
	require.NoError(t, err)
	ct := c.(schema.CreateTable)
	require.NotNil(t, ct.RowDeletionPolicy)
	require.Equal(t, "CreatedAt", ct.RowDeletionPolicy.Column)
	require.Equal(t, int64(30), ct.RowDeletionPolicy.IntervalDays)
}

func TestParse_StoredGeneratedColumnRequiresGate(t *testing.T) {
	_, err := parser.Parse(`
		CREATE TABLE T (
		  X INT64,
		  Y INT64 AS (X * 2) STORED,
		) PRIMARY KEY (X)`, parser.Gates{})
	require.Error(t, err)
}

func TestParse_StoredGeneratedColumnCapturesExpression(t *testing.T) {
	c, err := parser.Parse(`
		CREATE TABLE T (
		  X INT64,
		  Y INT64 AS (X * (2 + 1)) STORED,
		) PRIMARY KEY (X)`, allGates)
	require.NoError(t, err)
	ct := c.(schema.CreateTable)
	require.Equal(t, "X * (2 + 1)", ct.Columns[1].Expression)
	require.True(t, ct.Columns[1].IsStoredGenerated)
}

func TestParse_ColumnDefaultRequiresGate(t *testing.T) {
	_, err := parser.Parse(`
		CREATE TABLE T (
		  X INT64 DEFAULT (0),
		) PRIMARY KEY (X)`, parser.Gates{})
	require.Error(t, err)
}

func TestParse_ColumnDefaultExpressionWithParenInString(t *testing.T) {
	c, err := parser.Parse(`
		CREATE TABLE T (
		  X STRING(10) DEFAULT ("a)b"),
		) PRIMARY KEY (X)`, allGates)
	require.NoError(t, err)
	ct := c.(schema.CreateTable)
	require.Equal(t, `"a)b"`, ct.Columns[0].Expression)
	require.True(t, ct.Columns[0].HasDefault)
}

func TestParse_ColumnOptions(t *testing.T) {
	c, err := parser.Parse(`
		CREATE TABLE T (
		  X INT64 OPTIONS (allow_commit_timestamp=true),
		) PRIMARY KEY (X)`, parser.Gates{})
	require.NoError(t, err)
	ct := c.(schema.CreateTable)
	require.Equal(t, schema.OptionValue{Bool: true}, ct.Columns[0].Options["allow_commit_timestamp"])
}

func TestParse_CreateIndex(t *testing.T) {
	c, err := parser.Parse("CREATE UNIQUE NULL_FILTERED INDEX ByName ON Singers (LastName, FirstName DESC) STORING (SingerId)", parser.Gates{})
	require.NoError(t, err)
	ix := c.(schema.CreateIndex)
	require.True(t, ix.Unique)
	require.True(t, ix.NullFiltered)
	require.Equal(t, []schema.KeyPart{{Column: "LastName"}, {Column: "FirstName", Order: schema.Desc}}, ix.KeyParts)
	require.Equal(t, []string{"SingerId"}, ix.StoredColumns)
}

func TestParse_DropTableAndIndex(t *testing.T) {
	c, err := parser.Parse("DROP TABLE Singers", parser.Gates{})
	require.NoError(t, err)
	require.Equal(t, schema.DropTable{Name: "Singers"}, c)

	c, err = parser.Parse("DROP INDEX ByName", parser.Gates{})
	require.NoError(t, err)
	require.Equal(t, schema.DropIndex{Name: "ByName"}, c)
}

func TestParse_Analyze(t *testing.T) {
	c, err := parser.Parse("ANALYZE", parser.Gates{})
	require.NoError(t, err)
	require.Equal(t, schema.Analyze{}, c)
}

func TestParse_AlterTableAddColumn(t *testing.T) {
	c, err := parser.Parse("ALTER TABLE Singers ADD COLUMN MiddleName STRING(MAX)", parser.Gates{})
	require.NoError(t, err)
	at := c.(schema.AlterTable)
	add, ok := at.Action.(schema.AddColumnAction)
	require.True(t, ok)
	require.Equal(t, "MiddleName", add.Column.Name)
	require.True(t, add.Column.MaxLength.Max)
}

func TestParse_AlterTableDropColumn(t *testing.T) {
	c, err := parser.Parse("ALTER TABLE Singers DROP COLUMN MiddleName", parser.Gates{})
	require.NoError(t, err)
	at := c.(schema.AlterTable)
	require.Equal(t, schema.DropColumnAction{Name: "MiddleName"}, at.Action)
}

func TestParse_AlterTableAlterColumnType(t *testing.T) {
	c, err := parser.Parse("ALTER TABLE Singers ALTER COLUMN FirstName STRING(512) NOT NULL", parser.Gates{})
	require.NoError(t, err)
	at := c.(schema.AlterTable)
	alt, ok := at.Action.(schema.AlterColumnAction)
	require.True(t, ok)
	require.Equal(t, int64(512), alt.Column.MaxLength.Value)
	require.False(t, alt.Column.Nullable)
}

func TestParse_AlterTableSetColumnOptions(t *testing.T) {
	c, err := parser.Parse("ALTER TABLE Singers ALTER COLUMN FirstName SET OPTIONS (allow_commit_timestamp=null)", parser.Gates{})
	require.NoError(t, err)
	at := c.(schema.AlterTable)
	set, ok := at.Action.(schema.SetColumnOptionsAction)
	require.True(t, ok)
	require.Equal(t, schema.OptionValue{Null: true}, set.Options["allow_commit_timestamp"])
}

func TestParse_AlterTableSetAndDropDefault(t *testing.T) {
	c, err := parser.Parse("ALTER TABLE Singers ALTER COLUMN Rank SET DEFAULT (1)", allGates)
	require.NoError(t, err)
	at := c.(schema.AlterTable)
	def, ok := at.Action.(schema.SetColumnDefaultAction)
	require.True(t, ok)
	require.Equal(t, "1", def.Expression)

	c, err = parser.Parse("ALTER TABLE Singers ALTER COLUMN Rank DROP DEFAULT", parser.Gates{})
	require.NoError(t, err)
	at = c.(schema.AlterTable)
	require.Equal(t, schema.DropColumnDefaultAction{Name: "Rank"}, at.Action)
}

func TestParse_AlterTableAddAndDropConstraint(t *testing.T) {
	c, err := parser.Parse("ALTER TABLE Albums ADD CONSTRAINT FK_S FOREIGN KEY (SingerId) REFERENCES Singers (SingerId)", parser.Gates{})
	require.NoError(t, err)
	at := c.(schema.AlterTable)
	add, ok := at.Action.(schema.AddConstraintAction)
	require.True(t, ok)
	_, ok = add.Constraint.(schema.ForeignKeyDef)
	require.True(t, ok)

	c, err = parser.Parse("ALTER TABLE Albums DROP CONSTRAINT FK_S", parser.Gates{})
	require.NoError(t, err)
	at = c.(schema.AlterTable)
	require.Equal(t, schema.DropConstraintAction{Name: "FK_S"}, at.Action)
}

func TestParse_AlterTableSetOnDelete(t *testing.T) {
	c, err := parser.Parse("ALTER TABLE Orders SET ON DELETE NO ACTION", parser.Gates{})
	require.NoError(t, err)
	at := c.(schema.AlterTable)
	require.Equal(t, schema.AlterInterleaveOnDeleteAction{OnDelete: schema.NoAction}, at.Action)
}

func TestParse_AlterTableRowDeletionPolicyLifecycle(t *testing.T) {
	c, err := parser.Parse("ALTER TABLE Events ADD ROW DELETION POLICY (OLDER_THAN(CreatedAt, INTERVAL 7 DAY))", parser.Gates{})
	require.NoError(t, err)
	at := c.(schema.AlterTable)
	add, ok := at.Action.(schema.AddRowDeletionPolicyAction)
	require.True(t, ok)
	require.Equal(t, int64(7), add.Policy.IntervalDays)

	c, err = parser.Parse("ALTER TABLE Events REPLACE ROW DELETION POLICY (OLDER_THAN(CreatedAt, INTERVAL 14 DAY))", parser.Gates{})
	require.NoError(t, err)
	at = c.(schema.AlterTable)
	rep, ok := at.Action.(schema.ReplaceRowDeletionPolicyAction)
	require.True(t, ok)
	require.Equal(t, int64(14), rep.Policy.IntervalDays)

	c, err = parser.Parse("ALTER TABLE Events DROP ROW DELETION POLICY", parser.Gates{})
	require.NoError(t, err)
	at = c.(schema.AlterTable)
	require.Equal(t, schema.DropRowDeletionPolicyAction{}, at.Action)
}

func TestParse_ArrayType(t *testing.T) {
	c, err := parser.Parse(`
		CREATE TABLE T (
		  Tags ARRAY<STRING(MAX)>,
		  X INT64,
		) PRIMARY KEY (X)`, parser.Gates{})
	require.NoError(t, err)
	ct := c.(schema.CreateTable)
	require.True(t, ct.Columns[0].Type.IsArray)
	require.Equal(t, schema.StringType, ct.Columns[0].Type.Scalar)
}

func TestParse_QuotedIdentifierAllowsReservedWord(t *testing.T) {
	c, err := parser.Parse("CREATE TABLE `select` (X INT64,) PRIMARY KEY (X)", parser.Gates{})
	require.NoError(t, err)
	require.Equal(t, "select", c.(schema.CreateTable).Name)
}

func TestParse_TrailingGarbageIsError(t *testing.T) {
	_, err := parser.Parse("DROP TABLE Singers EXTRA", parser.Gates{})
	require.Error(t, err)
}

func TestParse_SyntaxErrorReportsPosition(t *testing.T) {
	_, err := parser.Parse("CREATE TABLE (X INT64) PRIMARY KEY (X)", parser.Gates{})
	require.Error(t, err)
	require.Contains(t, err.Error(), "Syntax error on line 1, column")
}

func TestParse_HexLengthClauseDecodesAsBase16(t *testing.T) {
	c, err := parser.Parse(`
		CREATE TABLE T (
		  X STRING(0x42),
		) PRIMARY KEY (X)`, parser.Gates{})
	require.NoError(t, err)
	ct := c.(schema.CreateTable)
	require.Equal(t, int64(66), ct.Columns[0].MaxLength.Value)
}

func TestParse_RowDeletionPolicyRejectsNonOlderThanPredicate(t *testing.T) {
	_, err := parser.Parse(`
		CREATE TABLE T (
		  CreatedAt TIMESTAMP NOT NULL,
		) PRIMARY KEY (CreatedAt),
		  ROW DELETION POLICY (YOUNGER_THAN(CreatedAt, INTERVAL 30 DAY))`, parser.Gates{})
	require.Error(t, err)
	require.Contains(t, err.Error(), "Only OLDER_THAN is supported.")
}

func TestParse_MissingPrimaryKeyReportsEOF(t *testing.T) {
	_, err := parser.Parse("CREATE TABLE T (X INT64,)", parser.Gates{})
	require.Error(t, err)
	require.Contains(t, err.Error(), "Expecting 'PRIMARY' but found 'EOF'")
}

func TestParse_TrailingGarbageReportsEOFExpected(t *testing.T) {
	_, err := parser.Parse("DROP TABLE Singers (", parser.Gates{})
	require.Error(t, err)
	require.Contains(t, err.Error(), "Expecting 'EOF' but found '('")
}

func TestParse_ColumnNamedColumnIsAccepted(t *testing.T) {
	c, err := parser.Parse(`
		ALTER TABLE T ADD COLUMN COLUMN INT64`, parser.Gates{})
	require.NoError(t, err)
	at := c.(schema.AlterTable)
	add, ok := at.Action.(schema.AddColumnAction)
	require.True(t, ok)
	require.Equal(t, "COLUMN", add.Column.Name)
}
