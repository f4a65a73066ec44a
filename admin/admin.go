// Copyright 2026 The ddlcore Authors. All rights reserved.
// This source code is licensed under the Apache 2.0 license found
// in the LICENSE file in the root directory of this source tree.

// Package admin concretizes the external interfaces named in spec §6: a
// parse entry point, a parse-only CREATE DATABASE helper, and a Database
// type bundling a committed schema with its operation tracker so that
// admin mutations can be applied and later queried through the standard
// long-running-operations contract.
package admin

import (
	"context"
	"strconv"
	"time"

	"github.com/google/uuid"

	"ddlcore.dev/ddlcore/ddl/lexer"
	"ddlcore.dev/ddlcore/ddl/parser"
	"ddlcore.dev/ddlcore/ddl/token"
	"ddlcore.dev/ddlcore/internal/errcode"
	"ddlcore.dev/ddlcore/operation"
	"ddlcore.dev/ddlcore/schema"
)

// Parse parses a single DDL statement into a schema.Change under the
// given feature gates.
func Parse(text string, gates parser.Gates) (schema.Change, error) {
	return parser.Parse(text, gates)
}

// ParseCreateDatabase extracts just the database name from a CREATE
// DATABASE statement. It scans for the CREATE DATABASE keywords with the
// ordinary DDL lexer and returns the identifier token that follows
// (unquoted or backtick-quoted); the text after that token, such as an
// options clause, is not examined. An unquoted name ends at the first
// character outside the identifier grammar.
func ParseCreateDatabase(text string) (string, error) {
	l := lexer.New(text)
	for _, want := range []token.Kind{token.CREATE, token.DATABASE} {
		t, err := l.Next()
		if err != nil {
			return "", err
		}
		if t.Kind != want {
			return "", errcode.At(errcode.InvalidArgument, t.Pos.Line, t.Pos.Column, "Expecting CREATE DATABASE but found %q", t.Text)
		}
	}
	t, err := l.Next()
	if err != nil {
		return "", err
	}
	if t.Kind != token.IDENT {
		return "", errcode.At(errcode.InvalidArgument, t.Pos.Line, t.Pos.Column, "Expecting a database name but found %q", t.Text)
	}
	return t.Text, nil
}

// Database bundles a committed schema with the operation tracker that
// records mutations against it.
type Database struct {
	URI     string
	Schema  *schema.Database
	Tracker *operation.Tracker
}

// NewDatabase returns an empty Database rooted at uri (e.g.
// "projects/p/instances/i/databases/d"), with name as its schema name.
func NewDatabase(uri, name string) *Database {
	return &Database{
		URI:     uri,
		Schema:  &schema.Database{Name: name},
		Tracker: operation.NewTracker(),
	}
}

// Apply applies a single change to the database's current schema,
// committing it only if the resulting candidate validates successfully.
// It returns the new schema. It applies exactly one change and reports no
// applied count or commit timestamp; UpdateDDL applies a list of
// statements in order and records both on the operation it creates.
func (d *Database) Apply(change schema.Change) (*schema.Database, error) {
	next, err := schema.Apply(d.Schema, change)
	if err != nil {
		return nil, err
	}
	d.Schema = next
	return d.Schema, nil
}

// UpdateResult reports how an UpdateDDL call was resolved.
type UpdateResult struct {
	AppliedCount int
	Err          error
}

// UpdateDDL applies statements to the database best-effort-sequentially:
// statements are applied one at a time and in order; the first failure
// stops application, and everything before it remains committed (spec §7,
// "fail-fast-per-statement, best-effort-sequential-per-multi-statement
// request"). The outcome is recorded on the operation tracker under
// operationID (or a generated id, if empty) and also returned directly to
// the caller so a synchronous caller need not re-query the tracker.
func (d *Database) UpdateDDL(ctx context.Context, statements []string, gates parser.Gates, operationID string) (*operation.Handle, UpdateResult, error) {
	if operationID == "" {
		operationID = operation.AutoOperationID
	}
	traceID := uuid.New().String()
	h, err := d.Tracker.Create(d.URI, operationID, map[string]string{
		"trace_id":        traceID,
		"statement_count": strconv.Itoa(len(statements)),
	})
	if err != nil {
		return nil, UpdateResult{}, err
	}

	result := d.applyStatements(ctx, statements, gates)

	commitTime := syntheticCommitTimestamp()
	response := map[string]any{
		"applied_count":    result.AppliedCount,
		"commit_timestamp": commitTime,
	}
	if cerr := d.Tracker.Complete(h.URI, response, result.Err); cerr != nil {
		return nil, UpdateResult{}, cerr
	}
	final, err := d.Tracker.Get(h.URI)
	if err != nil {
		return nil, UpdateResult{}, err
	}
	return final, result, nil
}

// applyStatements applies statements to d in order, stopping at the first
// failure (parse or apply). Everything applied before that failure stays
// committed on d.Schema. Administrative operations are not cancellable
// (spec §5): ctx is accepted for call-shape consistency with the rest of
// the package, but a canceled context has no effect on how many
// statements get applied.
func (d *Database) applyStatements(ctx context.Context, statements []string, gates parser.Gates) UpdateResult {
	var result UpdateResult
	for _, stmt := range statements {
		change, err := parser.Parse(stmt, gates)
		if err != nil {
			result.Err = err
			return result
		}
		if _, err := d.Apply(change); err != nil {
			result.Err = err
			return result
		}
		result.AppliedCount++
	}
	return result
}

// syntheticCommitTimestamp stands in for the real wall-clock commit
// timestamp a served database would assign; callers only need a
// monotonically sensible value to thread through operation metadata,
// since real transaction timestamps are an external-collaborator concern
// out of scope for this module.
func syntheticCommitTimestamp() time.Time {
	return time.Now().UTC()
}

