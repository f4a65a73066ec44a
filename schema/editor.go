// Copyright 2026 The ddlcore Authors. All rights reserved.
// This source code is licensed under the Apache 2.0 license found
// in the LICENSE file in the root directory of this source tree.

package schema

import (
	"fmt"

	"ddlcore.dev/ddlcore/internal/errcode"
)

// Editor implements component D: given a committed schema and a single
// schema-change description, it builds a candidate schema in three
// phases (spec §4.D): transcribe every live node, rewrite back-references
// through an old-to-new image map, then apply the change description by
// mutating the candidate only.
type Editor struct {
	images          map[Node]Node
	managedIndexSeq int
}

func newEditor() *Editor { return &Editor{images: map[Node]Node{}} }

func (e *Editor) imageTable(t *Table) (*Table, error) {
	if t == nil {
		return nil, nil
	}
	img, ok := e.images[t]
	if !ok {
		return nil, errcode.New(errcode.InvalidArgument, "internal: missing candidate image for table %q", t.Name)
	}
	return img.(*Table), nil
}

func (e *Editor) imageColumn(c *Column) (*Column, error) {
	if c == nil {
		return nil, nil
	}
	img, ok := e.images[c]
	if !ok {
		return nil, errcode.New(errcode.InvalidArgument, "internal: missing candidate image for column %q", c.Name)
	}
	return img.(*Column), nil
}

func (e *Editor) imageIndex(ix *Index) (*Index, error) {
	if ix == nil {
		return nil, nil
	}
	img, ok := e.images[ix]
	if !ok {
		return nil, errcode.New(errcode.InvalidArgument, "internal: missing candidate image for index %q", ix.Name)
	}
	return img.(*Index), nil
}

// transcribe shallow-clones every live node of old into a fresh Database,
// recording old-to-new images as it goes.
func (e *Editor) transcribe(old *Database) *Database {
	cand := &Database{Name: old.Name}
	for _, t := range old.Tables {
		nt := t.shallowClone().(*Table)
		e.images[t] = nt

		nt.Columns = make([]*Column, len(t.Columns))
		for i, c := range t.Columns {
			nc := c.shallowClone().(*Column)
			e.images[c] = nc
			nt.Columns[i] = nc
		}
		nt.Indexes = make([]*Index, len(t.Indexes))
		for i, ix := range t.Indexes {
			nix := ix.shallowClone().(*Index)
			e.images[ix] = nix
			nt.Indexes[i] = nix
		}
		nt.ForeignKeys = make([]*ForeignKey, len(t.ForeignKeys))
		for i, f := range t.ForeignKeys {
			nf := f.shallowClone().(*ForeignKey)
			e.images[f] = nf
			nt.ForeignKeys[i] = nf
		}
		nt.Checks = make([]*CheckConstraint, len(t.Checks))
		for i, c := range t.Checks {
			nc := c.shallowClone().(*CheckConstraint)
			e.images[c] = nc
			nt.Checks[i] = nc
		}
		if t.RowDeletionPolicy != nil {
			nr := t.RowDeletionPolicy.shallowClone().(*RowDeletionPolicy)
			e.images[t.RowDeletionPolicy] = nr
			nt.RowDeletionPolicy = nr
		}
		cand.Tables = append(cand.Tables, nt)
	}
	return cand
}

// rewrite fixes up every cross-node back-reference in the candidate by
// dispatching to each node's deepClone hook, which resolves the original
// node's pointers through the editor's old-to-new image map (spec §4.C,
// §4.D, §9 "Polymorphism over schema nodes").
func (e *Editor) rewrite(old, cand *Database) error {
	for i, t := range old.Tables {
		nt := cand.Tables[i]
		if err := nt.deepClone(e, t); err != nil {
			return err
		}
		for j, c := range t.Columns {
			if err := nt.Columns[j].deepClone(e, c); err != nil {
				return err
			}
		}
		for j, ix := range t.Indexes {
			if err := nt.Indexes[j].deepClone(e, ix); err != nil {
				return err
			}
		}
		for j, f := range t.ForeignKeys {
			if err := nt.ForeignKeys[j].deepClone(e, f); err != nil {
				return err
			}
		}
		for j, c := range t.Checks {
			if err := nt.Checks[j].deepClone(e, c); err != nil {
				return err
			}
		}
		if t.RowDeletionPolicy != nil {
			if err := nt.RowDeletionPolicy.deepClone(e, t.RowDeletionPolicy); err != nil {
				return err
			}
		}
	}
	return nil
}

// deepClone implementations. Each receiver is the freshly shallow-cloned
// node; original is its counterpart in the old (committed) graph, whose
// pointer fields are resolved through the editor's image map to find the
// corresponding node in the candidate graph.

func (t *Table) deepClone(e *Editor, original Node) error {
	ot := original.(*Table)
	if ot.InterleaveParent != nil {
		p, err := e.imageTable(ot.InterleaveParent)
		if err != nil {
			return err
		}
		t.InterleaveParent = p
	}
	return nil
}

func (c *Column) deepClone(e *Editor, original Node) error {
	oc := original.(*Column)
	tbl, err := e.imageTable(oc.Table)
	if err != nil {
		return err
	}
	c.Table = tbl
	return nil
}

func (ix *Index) deepClone(e *Editor, original Node) error {
	oix := original.(*Index)
	tbl, err := e.imageTable(oix.Table)
	if err != nil {
		return err
	}
	ix.Table = tbl
	if oix.Interleave != nil {
		p, err := e.imageTable(oix.Interleave)
		if err != nil {
			return err
		}
		ix.Interleave = p
	}
	return nil
}

func (f *ForeignKey) deepClone(e *Editor, original Node) error {
	of := original.(*ForeignKey)
	owner, err := e.imageTable(of.Table)
	if err != nil {
		return err
	}
	ref, err := e.imageTable(of.ReferencedTable)
	if err != nil {
		return err
	}
	f.Table = owner
	f.ReferencedTable = ref
	f.ReferencingColumns = make([]*Column, len(of.ReferencingColumns))
	for i, c := range of.ReferencingColumns {
		nc, err := e.imageColumn(c)
		if err != nil {
			return err
		}
		f.ReferencingColumns[i] = nc
	}
	f.ReferencedColumns = make([]*Column, len(of.ReferencedColumns))
	for i, c := range of.ReferencedColumns {
		nc, err := e.imageColumn(c)
		if err != nil {
			return err
		}
		f.ReferencedColumns[i] = nc
	}
	if of.ReferencingIndex != nil {
		ri, err := e.imageIndex(of.ReferencingIndex)
		if err != nil {
			return err
		}
		f.ReferencingIndex = ri
	}
	if of.ReferencedIndex != nil {
		ri, err := e.imageIndex(of.ReferencedIndex)
		if err != nil {
			return err
		}
		f.ReferencedIndex = ri
	}
	return nil
}

func (c *CheckConstraint) deepClone(e *Editor, original Node) error {
	oc := original.(*CheckConstraint)
	owner, err := e.imageTable(oc.Table)
	if err != nil {
		return err
	}
	c.Table = owner
	return nil
}

func (r *RowDeletionPolicy) deepClone(e *Editor, original Node) error {
	or := original.(*RowDeletionPolicy)
	owner, err := e.imageTable(or.Table)
	if err != nil {
		return err
	}
	col, err := e.imageColumn(or.Column)
	if err != nil {
		return err
	}
	r.Table = owner
	r.Column = col
	return nil
}

// Apply builds a candidate schema reflecting change applied on top of
// current, validates it, and returns it. current is never mutated: on any
// failure the caller's existing schema remains the schema of record
// (spec §4.D, §4.E).
func Apply(current *Database, change Change) (*Database, error) {
	e := newEditor()
	cand := e.transcribe(current)
	if err := e.rewrite(current, cand); err != nil {
		return nil, err
	}
	if err := e.applyChange(cand, change); err != nil {
		return nil, err
	}
	if err := Validate(cand); err != nil {
		return nil, err
	}
	return cand, nil
}

func (e *Editor) applyChange(cand *Database, change Change) error {
	switch c := change.(type) {
	case CreateDatabase:
		return errcode.New(errcode.InvalidArgument, "CREATE DATABASE cannot be applied to an existing database")
	case CreateTable:
		return e.createTable(cand, c)
	case CreateIndex:
		return e.createIndex(cand, c)
	case AlterTable:
		return e.alterTable(cand, c)
	case DropTable:
		return e.dropTable(cand, c)
	case DropIndex:
		return e.dropIndex(cand, c)
	case Analyze:
		return nil
	default:
		return errcode.New(errcode.InvalidArgument, "unsupported change %T", change)
	}
}

func (e *Editor) createTable(cand *Database, c CreateTable) error {
	if _, ok := cand.Table(c.Name); ok {
		return errcode.New(errcode.FailedPrecondition, "Duplicate name in schema: %s", c.Name)
	}
	t := &Table{Name: c.Name}
	for _, cd := range c.Columns {
		t.Columns = append(t.Columns, columnFromDef(cd, t))
	}
	// The table is registered before its constraints are processed so a
	// self-referencing foreign key can resolve its own table by name.
	cand.Tables = append(cand.Tables, t)
	for _, cons := range c.Constraints {
		switch k := cons.(type) {
		case PrimaryKeyDef:
			t.PrimaryKey = append(t.PrimaryKey, k.KeyParts...)
		case InterleaveDef:
			parent, ok := cand.Table(k.Parent)
			if !ok {
				return errcode.New(errcode.InvalidArgument, "Parent table not found: %s", k.Parent)
			}
			t.InterleaveParent = parent
			t.InterleaveOnDelete = k.OnDelete
		case ForeignKeyDef:
			if err := e.addForeignKey(cand, t, k); err != nil {
				return err
			}
		case CheckDef:
			e.addCheck(t, k)
		}
	}
	if c.RowDeletionPolicy != nil {
		if err := e.addRowDeletionPolicy(t, *c.RowDeletionPolicy); err != nil {
			return err
		}
	}
	return nil
}

func columnFromDef(cd ColumnDef, owner *Table) *Column {
	return &Column{
		Name:              cd.Name,
		Type:              cd.Type,
		MaxLength:         cd.MaxLength,
		Nullable:          cd.Nullable,
		Options:           cd.Options,
		Expression:        cd.Expression,
		IsStoredGenerated: cd.IsStoredGenerated,
		HasDefault:        cd.HasDefault,
		Table:             owner,
	}
}

func (e *Editor) createIndex(cand *Database, c CreateIndex) error {
	t, ok := cand.Table(c.Table)
	if !ok {
		return errcode.New(errcode.InvalidArgument, "Table not found: %s", c.Table)
	}
	if _, ok := cand.Index(c.Name); ok {
		return errcode.New(errcode.FailedPrecondition, "Duplicate name in schema: %s", c.Name)
	}
	ix := &Index{
		Name:          c.Name,
		Table:         t,
		Unique:        c.Unique,
		NullFiltered:  c.NullFiltered,
		KeyParts:      c.KeyParts,
		StoredColumns: c.StoredColumns,
	}
	if c.InterleaveParent != "" {
		p, ok := cand.Table(c.InterleaveParent)
		if !ok {
			return errcode.New(errcode.InvalidArgument, "Interleave parent table not found: %s", c.InterleaveParent)
		}
		ix.Interleave = p
	}
	t.Indexes = append(t.Indexes, ix)
	return nil
}

func (e *Editor) dropTable(cand *Database, c DropTable) error {
	for i, t := range cand.Tables {
		if t.Name == c.Name {
			cand.Tables = append(cand.Tables[:i], cand.Tables[i+1:]...)
			return nil
		}
	}
	return errcode.New(errcode.InvalidArgument, "Table not found: %s", c.Name)
}

func (e *Editor) dropIndex(cand *Database, c DropIndex) error {
	for _, t := range cand.Tables {
		for i, ix := range t.Indexes {
			if ix.Name == c.Name {
				t.Indexes = append(t.Indexes[:i], t.Indexes[i+1:]...)
				return nil
			}
		}
	}
	return errcode.New(errcode.InvalidArgument, "Index not found: %s", c.Name)
}

func (e *Editor) alterTable(cand *Database, c AlterTable) error {
	t, ok := cand.Table(c.Table)
	if !ok {
		return errcode.New(errcode.InvalidArgument, "Table not found: %s", c.Table)
	}
	switch a := c.Action.(type) {
	case AddColumnAction:
		if _, ok := t.Column(a.Column.Name); ok {
			return errcode.New(errcode.FailedPrecondition, "Duplicate column name %s", a.Column.Name)
		}
		t.Columns = append(t.Columns, columnFromDef(a.Column, t))
		return nil
	case DropColumnAction:
		for i, c := range t.Columns {
			if c.Name == a.Name {
				t.Columns = append(t.Columns[:i], t.Columns[i+1:]...)
				return nil
			}
		}
		return errcode.New(errcode.InvalidArgument, "Column not found: %s", a.Name)
	case AlterColumnAction:
		col, ok := t.Column(a.Column.Name)
		if !ok {
			return errcode.New(errcode.InvalidArgument, "Column not found: %s", a.Column.Name)
		}
		original := *col
		col.Type = a.Column.Type
		col.MaxLength = a.Column.MaxLength
		col.Nullable = a.Column.Nullable
		if a.Column.Expression != "" {
			col.Expression = a.Column.Expression
			col.IsStoredGenerated = a.Column.IsStoredGenerated
			col.HasDefault = a.Column.HasDefault
		}
		return col.validateUpdate(&original)
	case SetColumnOptionsAction:
		col, ok := t.Column(a.Name)
		if !ok {
			return errcode.New(errcode.InvalidArgument, "Column not found: %s", a.Name)
		}
		if col.Options == nil {
			col.Options = map[string]OptionValue{}
		}
		for k, v := range a.Options {
			col.Options[k] = v
		}
		return nil
	case SetColumnDefaultAction:
		col, ok := t.Column(a.Name)
		if !ok {
			return errcode.New(errcode.InvalidArgument, "Column not found: %s", a.Name)
		}
		col.Expression = a.Expression
		col.HasDefault = true
		col.IsStoredGenerated = false
		return nil
	case DropColumnDefaultAction:
		col, ok := t.Column(a.Name)
		if !ok {
			return errcode.New(errcode.InvalidArgument, "Column not found: %s", a.Name)
		}
		col.HasDefault = false
		col.Expression = ""
		return nil
	case AddConstraintAction:
		switch k := a.Constraint.(type) {
		case ForeignKeyDef:
			return e.addForeignKey(cand, t, k)
		case CheckDef:
			e.addCheck(t, k)
			return nil
		default:
			return errcode.New(errcode.InvalidArgument, "unsupported constraint in ADD CONSTRAINT")
		}
	case DropConstraintAction:
		for i, f := range t.ForeignKeys {
			if f.Name == a.Name {
				t.ForeignKeys = append(t.ForeignKeys[:i], t.ForeignKeys[i+1:]...)
				return nil
			}
		}
		for i, c := range t.Checks {
			if c.Name == a.Name {
				t.Checks = append(t.Checks[:i], t.Checks[i+1:]...)
				return nil
			}
		}
		return errcode.New(errcode.InvalidArgument, "Constraint not found: %s", a.Name)
	case AlterInterleaveOnDeleteAction:
		if t.InterleaveParent == nil {
			return errcode.New(errcode.InvalidArgument, "Table %s is not interleaved", t.Name)
		}
		t.InterleaveOnDelete = a.OnDelete
		return nil
	case AddRowDeletionPolicyAction:
		if t.RowDeletionPolicy != nil {
			return errcode.New(errcode.FailedPrecondition, "Table %s already has a row deletion policy", t.Name)
		}
		return e.addRowDeletionPolicy(t, a.Policy)
	case ReplaceRowDeletionPolicyAction:
		t.RowDeletionPolicy = nil
		return e.addRowDeletionPolicy(t, a.Policy)
	case DropRowDeletionPolicyAction:
		t.RowDeletionPolicy = nil
		return nil
	default:
		return errcode.New(errcode.InvalidArgument, "unsupported alter action %T", c.Action)
	}
}

func (e *Editor) addCheck(t *Table, k CheckDef) {
	name := k.ConstraintName
	if name == "" {
		e.managedIndexSeq++
		name = fmt.Sprintf("CK_%s_%d", t.Name, e.managedIndexSeq)
	}
	t.Checks = append(t.Checks, &CheckConstraint{Name: name, Table: t, SQLText: k.SQLText})
}

func (e *Editor) addRowDeletionPolicy(t *Table, k RowDeletionPolicyDef) error {
	col, ok := t.Column(k.Column)
	if !ok {
		return errcode.New(errcode.InvalidArgument, "Row deletion policy column not found: %s", k.Column)
	}
	t.RowDeletionPolicy = &RowDeletionPolicy{Table: t, Column: col, IntervalDays: k.IntervalDays}
	return nil
}

// addForeignKey constructs a ForeignKey node, generating a constraint name
// if none was supplied, and materializing managed backing indexes for
// either endpoint when no existing index already covers it (spec §4.D
// "Managed index policy").
func (e *Editor) addForeignKey(cand *Database, t *Table, k ForeignKeyDef) error {
	refTable, ok := cand.Table(k.ReferencedTable)
	if !ok {
		return errcode.New(errcode.InvalidArgument, "Referenced table not found: %s", k.ReferencedTable)
	}
	referencing := make([]*Column, len(k.ReferencingColumns))
	for i, n := range k.ReferencingColumns {
		c, ok := t.Column(n)
		if !ok {
			return errcode.New(errcode.InvalidArgument, "Referencing column not found: %s", n)
		}
		referencing[i] = c
	}
	referenced := make([]*Column, len(k.ReferencedColumns))
	for i, n := range k.ReferencedColumns {
		c, ok := refTable.Column(n)
		if !ok {
			return errcode.New(errcode.InvalidArgument, "Referenced column not found: %s", n)
		}
		referenced[i] = c
	}
	name := k.ConstraintName
	generated := false
	if name == "" {
		e.managedIndexSeq++
		name = fmt.Sprintf("FK_%s_%s_%d", t.Name, refTable.Name, e.managedIndexSeq)
		generated = true
	}
	fk := &ForeignKey{
		Name:               name,
		NameIsGenerated:    generated,
		Table:              t,
		ReferencingColumns: referencing,
		ReferencedTable:    refTable,
		ReferencedColumns:  referenced,
	}
	if !coveredByIndex(t, referencing, false) {
		fk.ReferencingIndex = e.managedIndex(t, name+"_referencing", referencing)
	}
	if !coveredByIndex(refTable, referenced, true) {
		fk.ReferencedIndex = e.managedIndex(refTable, name+"_referenced", referenced)
	}
	t.ForeignKeys = append(t.ForeignKeys, fk)
	return nil
}

// coveredByIndex reports whether table already has a primary key or index
// whose key-part column prefix matches cols in order; requireUnique also
// demands the covering index (or primary key) be unique.
func coveredByIndex(table *Table, cols []*Column, requireUnique bool) bool {
	if prefixMatches(pkAsNames(table), colNames(cols)) {
		return true
	}
	for _, ix := range table.Indexes {
		if requireUnique && !ix.Unique {
			continue
		}
		if prefixMatches(keyPartNames(ix.KeyParts), colNames(cols)) {
			return true
		}
	}
	return false
}

func pkAsNames(t *Table) []string { return keyPartNames(t.PrimaryKey) }

func keyPartNames(kp []KeyPart) []string {
	out := make([]string, len(kp))
	for i, p := range kp {
		out[i] = p.Column
	}
	return out
}

func colNames(cols []*Column) []string {
	out := make([]string, len(cols))
	for i, c := range cols {
		out[i] = c.Name
	}
	return out
}

func prefixMatches(indexCols, want []string) bool {
	if len(want) > len(indexCols) {
		return false
	}
	for i, w := range want {
		if indexCols[i] != w {
			return false
		}
	}
	return true
}

func (e *Editor) managedIndex(t *Table, name string, cols []*Column) *Index {
	kp := make([]KeyPart, len(cols))
	for i, c := range cols {
		kp[i] = KeyPart{Column: c.Name, Order: Asc}
	}
	ix := &Index{Name: name, Table: t, Unique: true, KeyParts: kp, Managed: true}
	t.Indexes = append(t.Indexes, ix)
	return ix
}
