// Copyright 2026 The ddlcore Authors. All rights reserved.
// This source code is licensed under the Apache 2.0 license found
// in the LICENSE file in the root directory of this source tree.

// Package schema implements components C, D and E of the DDL core: the
// schema-node object graph (tables, columns, indexes, foreign keys, check
// constraints, row-deletion policies), the graph editor that rewrites a
// committed schema into a candidate under a proposed change, and the
// validator that accepts or rejects the candidate.
//
// Every node type exposes the capability set named in the governing
// design notes: a display name, a schema-name descriptor, create/update
// validation, a shallow-clone constructor, and a deep-clone hook invoked
// by the Editor. Node is the common interface; dispatch over the tagged
// variant happens through ordinary Go interface method calls rather than
// an explicit switch, since the struct types already carry the tag.
package schema

// ScalarType enumerates the dialect's scalar column types.
type ScalarType int

// Recognized scalar types.
const (
	Int64 ScalarType = iota
	StringType
	BytesType
	Bool
	Float64
	Timestamp
	Date
	Numeric
	JSON
)

func (s ScalarType) String() string {
	switch s {
	case Int64:
		return "INT64"
	case StringType:
		return "STRING"
	case BytesType:
		return "BYTES"
	case Bool:
		return "BOOL"
	case Float64:
		return "FLOAT64"
	case Timestamp:
		return "TIMESTAMP"
	case Date:
		return "DATE"
	case Numeric:
		return "NUMERIC"
	case JSON:
		return "JSON"
	default:
		return "UNKNOWN"
	}
}

// HasLength reports whether s accepts a length specifier.
func (s ScalarType) HasLength() bool { return s == StringType || s == BytesType }

// Type is a column type: a scalar, or an array of a scalar.
type Type struct {
	Scalar  ScalarType
	IsArray bool
}

func (t Type) String() string {
	if t.IsArray {
		return "ARRAY<" + t.Scalar.String() + ">"
	}
	return t.Scalar.String()
}

// Length describes a STRING/BYTES column length: either a positive byte
// count or the MAX sentinel.
type Length struct {
	Max   bool
	Value int64
}

// OptionValue is a recognized column option's value: a bool, or an
// explicit SQL NULL (spec §3: "Setting a key to NULL records a
// null-valued option").
type OptionValue struct {
	Null bool
	Bool bool
}

// OnDeleteAction is the action taken for an interleaved child row when its
// parent row is deleted.
type OnDeleteAction int

const (
	NoAction OnDeleteAction = iota
	Cascade
)

func (a OnDeleteAction) String() string {
	if a == Cascade {
		return "CASCADE"
	}
	return "NO ACTION"
}

// SortOrder is a key part's sort direction.
type SortOrder int

const (
	Asc SortOrder = iota
	Desc
)

// KeyPart names a column participating in a primary key or index key,
// together with its sort order.
type KeyPart struct {
	Column string
	Order  SortOrder
}

// SchemaNameInfo describes a node's position in the naming namespace, per
// the Node capability set.
type SchemaNameInfo struct {
	Kind   string
	Global bool
}

// NodeKind tags the concrete type of a Node.
type NodeKind int

const (
	TableNode NodeKind = iota
	ColumnNode
	IndexNode
	ForeignKeyNode
	CheckConstraintNode
	RowDeletionPolicyNode
)

// Node is the common capability set shared by every schema-graph node
// type, per Design Notes §9 ("Polymorphism over schema nodes").
type Node interface {
	NodeKind() NodeKind
	DisplayName() string
	SchemaNameInfo() SchemaNameInfo
	// validateCreate checks the receiver's own structural invariants
	// against the rest of the candidate database, independent of whether
	// the receiver is freshly created or survived an edit unchanged.
	validateCreate(d *Database) error
	// validateUpdate checks invariants that bind only across an in-place
	// alteration: the receiver is the post-edit candidate, original its
	// pre-edit counterpart in the committed schema. Most node kinds have
	// no such invariant and return nil unconditionally.
	validateUpdate(original Node) error
	// shallowClone returns a bitwise copy of the node's plain attributes
	// with back-references still pointing into the old graph.
	shallowClone() Node
	// deepClone rewrites the receiver's back-references (the receiver is
	// always the freshly shallow-cloned node) by resolving original's
	// pointers through the editor's old-to-new image map.
	deepClone(e *Editor, original Node) error
}

// Database is the root of a committed or candidate schema: the set of
// tables that make up one administrative database.
type Database struct {
	Name   string
	Tables []*Table
}

// Table returns the table with the given name, if any.
func (d *Database) Table(name string) (*Table, bool) {
	for _, t := range d.Tables {
		if t.Name == name {
			return t, true
		}
	}
	return nil, false
}

// Index returns the index with the given name across all tables, if any.
func (d *Database) Index(name string) (*Index, bool) {
	for _, t := range d.Tables {
		for _, ix := range t.Indexes {
			if ix.Name == name {
				return ix, true
			}
		}
	}
	return nil, false
}

// Table models a user table: columns, primary key, constraints, indexes,
// optional interleave parent, and optional row-deletion policy.
type Table struct {
	Name       string
	Columns    []*Column
	PrimaryKey []KeyPart

	Indexes     []*Index // owned, includes editor-managed backing indexes
	ForeignKeys []*ForeignKey
	Checks      []*CheckConstraint

	InterleaveParent   *Table // non-owning back-reference; nil if not interleaved
	InterleaveOnDelete OnDeleteAction

	RowDeletionPolicy *RowDeletionPolicy // owned, nil if absent
}

func (t *Table) NodeKind() NodeKind { return TableNode }
func (t *Table) DisplayName() string { return t.Name }
func (t *Table) SchemaNameInfo() SchemaNameInfo {
	return SchemaNameInfo{Kind: "table", Global: true}
}

// Column returns the column with the given name, if any.
func (t *Table) Column(name string) (*Column, bool) {
	for _, c := range t.Columns {
		if c.Name == name {
			return c, true
		}
	}
	return nil, false
}

// Index returns the index with the given name, if any.
func (t *Table) Index(name string) (*Index, bool) {
	for _, ix := range t.Indexes {
		if ix.Name == name {
			return ix, true
		}
	}
	return nil, false
}

// ForeignKey returns the foreign key with the given constraint name, if any.
func (t *Table) ForeignKey(name string) (*ForeignKey, bool) {
	for _, f := range t.ForeignKeys {
		if f.Name == name {
			return f, true
		}
	}
	return nil, false
}

// Check returns the check constraint with the given name, if any.
func (t *Table) Check(name string) (*CheckConstraint, bool) {
	for _, c := range t.Checks {
		if c.Name == name {
			return c, true
		}
	}
	return nil, false
}

// IsPrimaryKeyColumn reports whether name participates in t's primary key.
func (t *Table) IsPrimaryKeyColumn(name string) bool {
	for _, kp := range t.PrimaryKey {
		if kp.Column == name {
			return true
		}
	}
	return false
}

func (t *Table) shallowClone() Node {
	cp := *t
	cp.Columns = append([]*Column(nil), t.Columns...)
	cp.PrimaryKey = append([]KeyPart(nil), t.PrimaryKey...)
	cp.Indexes = append([]*Index(nil), t.Indexes...)
	cp.ForeignKeys = append([]*ForeignKey(nil), t.ForeignKeys...)
	cp.Checks = append([]*CheckConstraint(nil), t.Checks...)
	return &cp
}

// Column models a single column definition.
type Column struct {
	Name       string
	Type       Type
	MaxLength  *Length // non-nil only for STRING/BYTES
	Nullable   bool
	Options    map[string]OptionValue
	Expression string // verbatim captured body of AS(...) or DEFAULT(...)
	IsStoredGenerated bool
	HasDefault        bool

	Table *Table // owning back-reference
}

func (c *Column) NodeKind() NodeKind   { return ColumnNode }
func (c *Column) DisplayName() string  { return c.Name }
func (c *Column) SchemaNameInfo() SchemaNameInfo {
	return SchemaNameInfo{Kind: "column", Global: false}
}

func (c *Column) shallowClone() Node {
	cp := *c
	if c.MaxLength != nil {
		l := *c.MaxLength
		cp.MaxLength = &l
	}
	if c.Options != nil {
		cp.Options = make(map[string]OptionValue, len(c.Options))
		for k, v := range c.Options {
			cp.Options[k] = v
		}
	}
	return &cp
}

// Index models a secondary index (or the implicit backing structure for a
// foreign key). Table is the indexed user table, a non-owning back
// reference; the Table that owns this Index is whichever *Table has it in
// its Indexes slice.
type Index struct {
	Name          string
	Table         *Table // indexed user table (back-reference)
	Unique        bool
	NullFiltered  bool
	KeyParts      []KeyPart
	StoredColumns []string
	Interleave    *Table // optional interleave parent table for this index
	Managed       bool   // true if created by the editor to back a foreign key
}

func (ix *Index) NodeKind() NodeKind  { return IndexNode }
func (ix *Index) DisplayName() string { return ix.Name }
func (ix *Index) SchemaNameInfo() SchemaNameInfo {
	return SchemaNameInfo{Kind: "index", Global: true}
}

func (ix *Index) shallowClone() Node {
	cp := *ix
	cp.KeyParts = append([]KeyPart(nil), ix.KeyParts...)
	cp.StoredColumns = append([]string(nil), ix.StoredColumns...)
	return &cp
}

// ForeignKey models a FOREIGN KEY constraint, referencing both endpoints
// and the managed backing indexes the editor materialized for it, if any.
type ForeignKey struct {
	Name               string // constraint name; user-supplied or generated
	NameIsGenerated    bool
	Table              *Table // referencing (child) table, owner
	ReferencingColumns []*Column
	ReferencedTable    *Table
	ReferencedColumns  []*Column

	ReferencingIndex *Index // managed backing index on the referencing side, if needed
	ReferencedIndex  *Index // managed backing index on the referenced side, if needed
}

func (f *ForeignKey) NodeKind() NodeKind  { return ForeignKeyNode }
func (f *ForeignKey) DisplayName() string { return f.Name }
func (f *ForeignKey) SchemaNameInfo() SchemaNameInfo {
	return SchemaNameInfo{Kind: "foreign_key", Global: true}
}

func (f *ForeignKey) shallowClone() Node {
	cp := *f
	cp.ReferencingColumns = append([]*Column(nil), f.ReferencingColumns...)
	cp.ReferencedColumns = append([]*Column(nil), f.ReferencedColumns...)
	return &cp
}

// CheckConstraint models a table-level CHECK constraint.
type CheckConstraint struct {
	Name    string
	Table   *Table
	SQLText string
}

func (c *CheckConstraint) NodeKind() NodeKind  { return CheckConstraintNode }
func (c *CheckConstraint) DisplayName() string { return c.Name }
func (c *CheckConstraint) SchemaNameInfo() SchemaNameInfo {
	return SchemaNameInfo{Kind: "check_constraint", Global: true}
}

func (c *CheckConstraint) shallowClone() Node {
	cp := *c
	return &cp
}

// RowDeletionPolicy models a table's OLDER_THAN row-deletion policy.
type RowDeletionPolicy struct {
	Table        *Table
	Column       *Column
	IntervalDays int64
}

func (r *RowDeletionPolicy) NodeKind() NodeKind  { return RowDeletionPolicyNode }
func (r *RowDeletionPolicy) DisplayName() string { return "row_deletion_policy" }
func (r *RowDeletionPolicy) SchemaNameInfo() SchemaNameInfo {
	return SchemaNameInfo{Kind: "row_deletion_policy", Global: false}
}

func (r *RowDeletionPolicy) shallowClone() Node {
	cp := *r
	return &cp
}
