package infra

import (
	"encoding/json"
	"fmt"
	"runtime"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

var initPC = caller()

func caller() Frame {
	var PCs [3]uintptr
	n := runtime.Callers(2, PCs[:])
	frames := runtime.CallersFrames(PCs[:n])
	frame, _ := frames.Next()
	return Frame(frame.PC)
}

func TestFrameFormat(t *testing.T) {
	testcases := []struct {
		Frame
		format string
		want   string
	}{
		{
			initPC,
			"%s",
			"err_stack_test.go",
		},
		{
			initPC,
			"%n",
			"init",
		},
		{
			Frame(0),
			"%s",
			"unknownFile",
		},
		{
			Frame(0),
			"%n",
			"unknownFunc",
		},
		{
			Frame(0),
			"%d",
			"0",
		},
	}

	for _, tc := range testcases {
		frameRes := fmt.Sprintf(tc.format, tc.Frame)
		require.Equal(t, tc.want, frameRes)
	}
}

func TestFrameFormatVerbose(t *testing.T) {
	plain := fmt.Sprintf("%v", initPC)
	require.True(t, strings.HasPrefix(plain, "err_stack_test.go:"))

	verbose := fmt.Sprintf("%+v", initPC)
	require.True(t, strings.Contains(verbose, "infra.init"))
	require.True(t, strings.Contains(verbose, "err_stack_test.go"))
}

func TestFrameMarshalText(t *testing.T) {
	_bytes, err := initPC.MarshalText()
	require.NoError(t, err)
	require.Greater(t, len(_bytes), 0)
	require.True(t, strings.Contains(string(_bytes), "infra.init"))

	zero, err := Frame(0).MarshalText()
	require.NoError(t, err)
	require.Equal(t, "unknownFrame", string(zero))
}

func TestFrameMarshalJSON(t *testing.T) {
	_bytes, err := json.Marshal(initPC)
	require.NoError(t, err)
	require.True(t, strings.Contains(string(_bytes), "\"func\":"))

	zero, err := json.Marshal(Frame(0))
	require.NoError(t, err)
	require.Equal(t, "{\"frame\":\"unknownFrame\"}", string(zero))
}

func TestWrapErrorStack(t *testing.T) {
	wrapped := WrapErrorStack(nil)
	require.Nil(t, wrapped)

	base := fmt.Errorf("boom")
	wrapped = WrapErrorStack(base)
	require.Error(t, wrapped)
	require.Equal(t, "boom", wrapped.Error())

	again := WrapErrorStack(wrapped)
	require.Same(t, wrapped, again)
}

func TestWrapErrorStackWithMessage(t *testing.T) {
	wrapped := WrapErrorStackWithMessage(nil, "context")
	require.Error(t, wrapped)
	require.Equal(t, "context", wrapped.Error())

	base := fmt.Errorf("boom")
	wrapped = WrapErrorStackWithMessage(base, "while doing work")
	require.Equal(t, "while doing work: boom", wrapped.Error())
}
