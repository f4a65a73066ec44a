// Copyright 2026 The ddlcore Authors. All rights reserved.
// This source code is licensed under the Apache 2.0 license found
// in the LICENSE file in the root directory of this source tree.

// Package errcode defines the small set of error kinds surfaced by the
// DDL core (spec §7) and binds them to gRPC status codes, since callers
// embedding this core into a served admin surface expect to forward a
// *status.Status without a translation layer of their own.
package errcode

import (
	"fmt"

	"google.golang.org/genproto/googleapis/rpc/status"
	"google.golang.org/grpc/codes"
	gstatus "google.golang.org/grpc/status"
)

// Kind is one of the five error kinds the core can surface.
type Kind int

const (
	// InvalidArgument covers lexical, grammatical, and structural failures.
	InvalidArgument Kind = iota
	// Unimplemented covers a feature-gated construct that is disabled.
	Unimplemented
	// AlreadyExists covers a duplicate operation id.
	AlreadyExists
	// NotFound covers an operation lookup miss.
	NotFound
	// FailedPrecondition covers schema-validation rejection.
	FailedPrecondition
)

func (k Kind) code() codes.Code {
	switch k {
	case InvalidArgument:
		return codes.InvalidArgument
	case Unimplemented:
		return codes.Unimplemented
	case AlreadyExists:
		return codes.AlreadyExists
	case NotFound:
		return codes.NotFound
	case FailedPrecondition:
		return codes.FailedPrecondition
	default:
		return codes.Unknown
	}
}

func (k Kind) String() string {
	switch k {
	case InvalidArgument:
		return "InvalidArgument"
	case Unimplemented:
		return "Unimplemented"
	case AlreadyExists:
		return "AlreadyExists"
	case NotFound:
		return "NotFound"
	case FailedPrecondition:
		return "FailedPrecondition"
	default:
		return "Unknown"
	}
}

// Error is the structured error value returned by the failure paths of
// the core packages (lexer, parser, schema, operation); admin/config
// reports its own errors as plain errors and HCL diagnostics. It carries enough information for a parse error to
// render "Syntax error on line L, column C: ..." per spec §7, and enough
// for an administrative caller to recover the original gRPC code.
type Error struct {
	Kind    Kind
	Message string
	// Line and Column are 1-based and only meaningful when Line > 0.
	Line, Column int
	// Cause is an optional wrapped error for errors.Is/As chains.
	Cause error
}

// New builds an *Error with no position information.
func New(k Kind, format string, args ...any) *Error {
	return &Error{Kind: k, Message: fmt.Sprintf(format, args...)}
}

// At builds an *Error carrying a 1-based source position.
func At(k Kind, line, column int, format string, args ...any) *Error {
	return &Error{Kind: k, Line: line, Column: column, Message: fmt.Sprintf(format, args...)}
}

// Wrap builds an *Error that chains to cause via Unwrap.
func Wrap(k Kind, cause error, format string, args ...any) *Error {
	return &Error{Kind: k, Message: fmt.Sprintf(format, args...), Cause: cause}
}

func (e *Error) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("Syntax error on line %d, column %d: %s", e.Line, e.Column, e.Message)
	}
	return e.Message
}

// Unwrap supports errors.Is/errors.As chaining to Cause.
func (e *Error) Unwrap() error { return e.Cause }

// Is reports whether err is an *Error of the given kind.
func Is(err error, k Kind) bool {
	var e *Error
	if !asError(err, &e) {
		return false
	}
	return e.Kind == k
}

func asError(err error, target **Error) bool {
	for err != nil {
		if e, ok := err.(*Error); ok {
			*target = e
			return true
		}
		u, ok := err.(interface{ Unwrap() error })
		if !ok {
			return false
		}
		err = u.Unwrap()
	}
	return false
}

// GRPCStatus implements the interface github.com/grpc-ecosystem tooling
// and google.golang.org/grpc's status.FromError look for, so an *Error
// returned across an admin boundary converts without a shim.
func (e *Error) GRPCStatus() *gstatus.Status {
	return gstatus.New(e.Kind.code(), e.Error())
}

// RPCStatus renders e as a google.rpc.Status value, the wire shape used by
// the service's published administrative schema for an operation's
// terminal error field (spec §4.F, §6).
func (e *Error) RPCStatus() *status.Status {
	return &status.Status{
		Code:    int32(e.Kind.code()),
		Message: e.Error(),
	}
}
