// Copyright 2026 The ddlcore Authors. All rights reserved.
// This source code is licensed under the Apache 2.0 license found
// in the LICENSE file in the root directory of this source tree.

package errcode_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
	"google.golang.org/grpc/codes"
	gstatus "google.golang.org/grpc/status"

	"ddlcore.dev/ddlcore/internal/errcode"
)

func TestNew_NoPosition(t *testing.T) {
	err := errcode.New(errcode.NotFound, "missing %s", "thing")
	require.Equal(t, "missing thing", err.Error())
}

func TestAt_RendersPosition(t *testing.T) {
	err := errcode.At(errcode.InvalidArgument, 3, 7, "bad token %q", "x")
	require.Equal(t, `Syntax error on line 3, column 7: bad token "x"`, err.Error())
}

func TestWrap_UnwrapsToCause(t *testing.T) {
	cause := errors.New("underlying")
	err := errcode.Wrap(errcode.FailedPrecondition, cause, "wrapped")
	require.ErrorIs(t, err, cause)
}

func TestIs_MatchesKindThroughWrapping(t *testing.T) {
	err := errcode.New(errcode.AlreadyExists, "dup")
	wrapped := fmt.Errorf("context: %w", err)
	require.True(t, errcode.Is(wrapped, errcode.AlreadyExists))
	require.False(t, errcode.Is(wrapped, errcode.NotFound))
}

func TestGRPCStatus_RoundTripsCode(t *testing.T) {
	err := errcode.New(errcode.Unimplemented, "nope")
	st, ok := gstatus.FromError(err)
	require.True(t, ok)
	require.Equal(t, codes.Unimplemented, st.Code())
}

func TestRPCStatus_Code(t *testing.T) {
	err := errcode.New(errcode.NotFound, "gone")
	rpc := err.RPCStatus()
	require.Equal(t, int32(codes.NotFound), rpc.Code)
	require.Equal(t, "gone", rpc.Message)
}
