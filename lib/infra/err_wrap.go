package infra

import (
	"errors"
	"fmt"
	"runtime"

	"go.uber.org/zap/zapcore"
)

// References:
// https://github.com/pkg/errors/blob/master/errors.go

// ErrorStack is the interface implemented by an error that carries a
// captured call stack. zap.Inline(es) relies on it implementing
// zapcore.ObjectMarshaler.
type ErrorStack interface {
	error
	StackTrace() []Frame
	Unwrap() error
	zapcore.ObjectMarshaler
}

type errWithStack struct {
	msg   string
	cause error
	stack []Frame
}

func callers(skip int) []Frame {
	var pcs [32]uintptr
	n := runtime.Callers(skip, pcs[:])
	frames := make([]Frame, n)
	for i := 0; i < n; i++ {
		frames[i] = Frame(pcs[i])
	}
	return frames
}

func (e *errWithStack) Error() string {
	if e.msg == "" {
		if e.cause != nil {
			return e.cause.Error()
		}
		return "unknown error"
	}
	if e.cause != nil {
		return e.msg + ": " + e.cause.Error()
	}
	return e.msg
}

func (e *errWithStack) Unwrap() error {
	return e.cause
}

func (e *errWithStack) StackTrace() []Frame {
	return e.stack
}

// MarshalLogObject implements zapcore.ObjectMarshaler so that callers can
// pass an ErrorStack directly to zap.Inline.
func (e *errWithStack) MarshalLogObject(enc zapcore.ObjectEncoder) error {
	if e.msg != "" {
		enc.AddString("message", e.msg)
	}
	if e.cause != nil {
		enc.AddString("cause", e.cause.Error())
	}
	for i, f := range e.stack {
		enc.AddString(fmt.Sprintf("frame.%d", i), fmt.Sprintf("%+v", f))
	}
	return nil
}

// NewErrorStack builds a fresh error carrying the call stack at the
// point of invocation.
func NewErrorStack(msg string) error {
	return &errWithStack{
		msg:   msg,
		stack: callers(3),
	}
}

// WrapErrorStack wraps err with a captured call stack, unless err
// already carries one, in which case it is returned unchanged.
func WrapErrorStack(err error) error {
	if err == nil {
		return nil
	}
	var es ErrorStack
	if errors.As(err, &es) {
		return err
	}
	return &errWithStack{
		cause: err,
		stack: callers(3),
	}
}

// WrapErrorStackWithMessage wraps err with a captured call stack and an
// additional message prefix.
func WrapErrorStackWithMessage(err error, msg string) error {
	if err == nil {
		return &errWithStack{
			msg:   msg,
			stack: callers(3),
		}
	}
	return &errWithStack{
		msg:   msg,
		cause: err,
		stack: callers(3),
	}
}
