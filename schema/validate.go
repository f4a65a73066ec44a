// Copyright 2026 The ddlcore Authors. All rights reserved.
// This source code is licensed under the Apache 2.0 license found
// in the LICENSE file in the root directory of this source tree.

package schema

import (
	"ddlcore.dev/ddlcore/internal/errcode"
)

// Validate checks every structural invariant named in spec §3 and §4.E
// against a full candidate schema, after the editor has applied a change.
// It dispatches the per-node checks to each node's validateCreate method
// (Design Notes §9, "Polymorphism over schema nodes") and fails fast on
// the first violation found, in a fixed enumeration order, so error
// messages are deterministic across runs.
func Validate(d *Database) error {
	if err := validateNames(d); err != nil {
		return err
	}
	for _, t := range d.Tables {
		if err := t.validateCreate(d); err != nil {
			return err
		}
		for _, c := range t.Columns {
			if err := c.validateCreate(d); err != nil {
				return err
			}
		}
		for _, ix := range t.Indexes {
			if err := ix.validateCreate(d); err != nil {
				return err
			}
		}
		for _, f := range t.ForeignKeys {
			if err := f.validateCreate(d); err != nil {
				return err
			}
		}
		for _, c := range t.Checks {
			if err := c.validateCreate(d); err != nil {
				return err
			}
		}
		if t.RowDeletionPolicy != nil {
			if err := t.RowDeletionPolicy.validateCreate(d); err != nil {
				return err
			}
		}
	}
	if err := validateInterleaveForest(d); err != nil {
		return err
	}
	return nil
}

func validateNames(d *Database) error {
	tables := map[string]bool{}
	globals := map[string]string{}
	for _, t := range d.Tables {
		if tables[t.Name] {
			return errcode.New(errcode.FailedPrecondition, "Duplicate name in schema: %s", t.Name)
		}
		tables[t.Name] = true
		for _, name := range globalNames(t) {
			if owner, ok := globals[name]; ok {
				return errcode.New(errcode.FailedPrecondition, "Duplicate name in schema: %s (also used by %s)", name, owner)
			}
			globals[name] = t.Name
		}
		cols := map[string]bool{}
		for _, c := range t.Columns {
			if cols[c.Name] {
				return errcode.New(errcode.FailedPrecondition, "Duplicate column name %s in table %s", c.Name, t.Name)
			}
			cols[c.Name] = true
		}
	}
	return nil
}

func globalNames(t *Table) []string {
	var out []string
	for _, ix := range t.Indexes {
		out = append(out, ix.Name)
	}
	for _, f := range t.ForeignKeys {
		out = append(out, f.Name)
	}
	for _, c := range t.Checks {
		out = append(out, c.Name)
	}
	return out
}

// validateCreate checks that t has a primary key, that every primary key
// column exists and is non-nullable, and (if interleaved) that its
// primary key begins with its parent's.
func (t *Table) validateCreate(d *Database) error {
	if len(t.PrimaryKey) == 0 {
		return errcode.New(errcode.InvalidArgument, "Table %s has no primary key", t.Name)
	}
	for _, kp := range t.PrimaryKey {
		col, ok := t.Column(kp.Column)
		if !ok {
			return errcode.New(errcode.InvalidArgument, "Primary key column not found: %s", kp.Column)
		}
		if col.Nullable {
			return errcode.New(errcode.InvalidArgument, "Primary key column %s must not be NULL", kp.Column)
		}
	}
	if t.InterleaveParent != nil {
		if err := validateInterleaveKeyPrefix(t); err != nil {
			return err
		}
	}
	return nil
}

// validateUpdate has no table-level invariant of its own: a table's
// identity survives every alter action untouched, so there is nothing to
// compare against its pre-edit counterpart.
func (t *Table) validateUpdate(original Node) error { return nil }

func (c *Column) validateCreate(d *Database) error {
	t := c.Table
	if !c.Type.Scalar.HasLength() && c.MaxLength != nil {
		return errcode.New(errcode.InvalidArgument, "Column %s.%s of type %s cannot take a length", t.Name, c.Name, c.Type)
	}
	if c.MaxLength != nil && !c.MaxLength.Max && c.MaxLength.Value <= 0 {
		return errcode.New(errcode.InvalidArgument, "Column %s.%s has a non-positive length", t.Name, c.Name)
	}
	if c.IsStoredGenerated && c.HasDefault && c.Expression == "" {
		return errcode.New(errcode.InvalidArgument, "Column %s.%s is marked generated but captured no expression", t.Name, c.Name)
	}
	return nil
}

// validateUpdate rejects the two column alterations spec §4.E calls out
// by name: a primary key column cannot change type, and NOT NULL cannot
// be relaxed on a primary key column. Non-key columns have no such
// restriction.
func (c *Column) validateUpdate(original Node) error {
	oc := original.(*Column)
	if !c.Table.IsPrimaryKeyColumn(c.Name) {
		return nil
	}
	if c.Type != oc.Type {
		return errcode.New(errcode.InvalidArgument, "Primary key column %s.%s cannot change type", c.Table.Name, c.Name)
	}
	if c.Nullable && !oc.Nullable {
		return errcode.New(errcode.InvalidArgument, "Primary key column %s.%s cannot relax NOT NULL", c.Table.Name, c.Name)
	}
	return nil
}

func (ix *Index) validateCreate(d *Database) error {
	if len(ix.KeyParts) == 0 {
		return errcode.New(errcode.InvalidArgument, "Index %s has no key parts", ix.Name)
	}
	seen := map[string]bool{}
	for _, kp := range ix.KeyParts {
		if _, ok := ix.Table.Column(kp.Column); !ok {
			return errcode.New(errcode.InvalidArgument, "Index %s references unknown column %s", ix.Name, kp.Column)
		}
		if seen[kp.Column] {
			return errcode.New(errcode.InvalidArgument, "Index %s repeats key column %s", ix.Name, kp.Column)
		}
		seen[kp.Column] = true
	}
	for _, name := range ix.StoredColumns {
		if _, ok := ix.Table.Column(name); !ok {
			return errcode.New(errcode.InvalidArgument, "Index %s STORING clause references unknown column %s", ix.Name, name)
		}
		if seen[name] {
			return errcode.New(errcode.InvalidArgument, "Index %s STORING column %s already a key part", ix.Name, name)
		}
	}
	return nil
}

func (ix *Index) validateUpdate(original Node) error { return nil }

func (f *ForeignKey) validateCreate(d *Database) error {
	if len(f.ReferencingColumns) == 0 {
		return errcode.New(errcode.InvalidArgument, "Foreign key %s has no referencing columns", f.Name)
	}
	if len(f.ReferencingColumns) != len(f.ReferencedColumns) {
		return errcode.New(errcode.InvalidArgument, "Foreign key %s: referencing and referenced column counts differ", f.Name)
	}
	for i, rc := range f.ReferencingColumns {
		fc := f.ReferencedColumns[i]
		if rc.Type.Scalar != fc.Type.Scalar || rc.Type.IsArray != fc.Type.IsArray {
			return errcode.New(errcode.InvalidArgument, "Foreign key %s: column %s type %s does not match referenced column %s type %s",
				f.Name, rc.Name, rc.Type, fc.Name, fc.Type)
		}
	}
	return nil
}

func (f *ForeignKey) validateUpdate(original Node) error { return nil }

func (c *CheckConstraint) validateCreate(d *Database) error {
	if c.SQLText == "" {
		return errcode.New(errcode.InvalidArgument, "Check constraint %s has an empty expression", c.Name)
	}
	return nil
}

func (c *CheckConstraint) validateUpdate(original Node) error { return nil }

func (r *RowDeletionPolicy) validateCreate(d *Database) error {
	if r.Column.Type.Scalar != Timestamp {
		return errcode.New(errcode.InvalidArgument, "Row deletion policy column %s must be TIMESTAMP", r.Column.Name)
	}
	if r.IntervalDays < 0 {
		return errcode.New(errcode.InvalidArgument, "Row deletion policy interval must not be negative")
	}
	return nil
}

func (r *RowDeletionPolicy) validateUpdate(original Node) error { return nil }

// validateInterleaveKeyPrefix enforces that an interleaved table's primary
// key begins with its parent's primary key columns, in order.
func validateInterleaveKeyPrefix(t *Table) error {
	parent := t.InterleaveParent
	if len(parent.PrimaryKey) > len(t.PrimaryKey) {
		return errcode.New(errcode.InvalidArgument, "Table %s primary key does not begin with parent %s's primary key", t.Name, parent.Name)
	}
	for i, kp := range parent.PrimaryKey {
		if t.PrimaryKey[i].Column != kp.Column {
			return errcode.New(errcode.InvalidArgument, "Table %s primary key does not begin with parent %s's primary key", t.Name, parent.Name)
		}
	}
	return nil
}

// validateInterleaveForest walks every interleave parent chain and rejects
// cycles, so the interleave relation always forms a forest (spec §3).
func validateInterleaveForest(d *Database) error {
	state := map[*Table]int{} // 0 unvisited, 1 in-progress, 2 done
	var walk func(t *Table) error
	walk = func(t *Table) error {
		switch state[t] {
		case 2:
			return nil
		case 1:
			return errcode.New(errcode.InvalidArgument, "Interleave hierarchy has a cycle at table %s", t.Name)
		}
		state[t] = 1
		if t.InterleaveParent != nil {
			if err := walk(t.InterleaveParent); err != nil {
				return err
			}
		}
		state[t] = 2
		return nil
	}
	for _, t := range d.Tables {
		if err := walk(t); err != nil {
			return err
		}
	}
	return nil
}
