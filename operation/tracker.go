// Copyright 2026 The ddlcore Authors. All rights reserved.
// This source code is licensed under the Apache 2.0 license found
// in the LICENSE file in the root directory of this source tree.

// Package operation implements component F: a tracker for admin mutations,
// queryable through the long-running-operation contract named in spec §6.
// Every mutating admin call records a Handle. Create registers a Handle
// that is not yet done; Complete marks it done. Since this module performs
// no real async execution (spec Non-goals), admin callers complete each
// Handle within the same call that creates it, and the Handle still
// carries the full get/list/delete surface a caller driving the standard
// long-running-operations protocol expects.
package operation

import (
	"fmt"
	"regexp"
	"sort"
	"strings"
	"sync"

	"ddlcore.dev/ddlcore/internal/errcode"
)

// AutoOperationID is the sentinel passed to Create to request a
// system-generated "_auto<N>" id. It deliberately does not match the
// unquoted-identifier grammar (it doesn't start with a letter or
// underscore), so it can never be confused with a real, if malformed,
// user-supplied id — including an explicitly empty string, which Create
// now rejects outright instead of silently treating as "generate one".
const AutoOperationID = "-"

var identGrammar = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// Handle is a single tracked operation.
type Handle struct {
	URI      string
	Metadata any
	Done     bool
	Response any
	Err      error
}

// Tracker is a process-wide, mutex-guarded registry of operations keyed by
// resource URI, matching the concurrency model of spec §5: the tracker is
// the only component in this module that must coordinate concurrent
// callers, since parsing and editing are synchronous, single-threaded, and
// cheap enough not to warrant finer-grained locking.
type Tracker struct {
	mu      sync.Mutex
	ops     map[string]*Handle
	counter int
}

// NewTracker returns an empty operation tracker.
func NewTracker() *Tracker {
	return &Tracker{ops: map[string]*Handle{}}
}

// Create registers a new operation under parentURI. If operationID is
// AutoOperationID, an id of the form "_auto<N>" is generated from a
// monotonic counter scoped to this tracker, starting at 0 (spec Design
// Notes §9, "operation-id sentinel"). Otherwise operationID is validated
// against the unquoted-identifier grammar and rejected with
// InvalidArgument if malformed or if it uses the reserved "_auto" prefix.
// Create fails with AlreadyExists if the resulting URI is already
// registered.
func (t *Tracker) Create(parentURI, operationID string, metadata any) (*Handle, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	switch {
	case operationID == AutoOperationID:
		operationID = fmt.Sprintf("_auto%d", t.counter)
		t.counter++
	case !identGrammar.MatchString(operationID):
		return nil, errcode.New(errcode.InvalidArgument, "Invalid operation id: %q", operationID)
	case strings.HasPrefix(operationID, "_auto"):
		return nil, errcode.New(errcode.InvalidArgument, "Operation id %q uses the reserved _auto prefix", operationID)
	}
	uri := parentURI + "/operations/" + operationID
	if _, ok := t.ops[uri]; ok {
		return nil, errcode.New(errcode.AlreadyExists, "Operation already exists: %s", uri)
	}
	h := &Handle{URI: uri, Metadata: metadata}
	t.ops[uri] = h
	return h, nil
}

// Complete marks an in-flight operation done, with either a successful
// response or a failure. Since this module applies admin mutations
// synchronously, every operation is completed in the same call that
// creates it (spec §5, "admin execution is synchronous").
func (t *Tracker) Complete(uri string, response any, opErr error) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	h, ok := t.ops[uri]
	if !ok {
		return errcode.New(errcode.NotFound, "Operation not found: %s", uri)
	}
	h.Done = true
	h.Response = response
	h.Err = opErr
	return nil
}

// Get returns the handle registered at uri.
func (t *Tracker) Get(uri string) (*Handle, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	h, ok := t.ops[uri]
	if !ok {
		return nil, errcode.New(errcode.NotFound, "Operation not found: %s", uri)
	}
	cp := *h
	return &cp, nil
}

// Delete removes the handle registered at uri. Delete is idempotent: it
// does not fail if the operation is already absent.
func (t *Tracker) Delete(uri string) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	delete(t.ops, uri)
	return nil
}

// List returns every handle whose URI is a direct "<parentURI>/operations/*"
// child of parentURI, in lexicographic URI order.
func (t *Tracker) List(parentURI string) []*Handle {
	t.mu.Lock()
	defer t.mu.Unlock()

	prefix := parentURI + "/operations/"
	var out []*Handle
	for uri, h := range t.ops {
		if strings.HasPrefix(uri, prefix) {
			cp := *h
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].URI < out[j].URI })
	return out
}
