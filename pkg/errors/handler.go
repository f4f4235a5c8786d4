package errors

import (
	"fmt"
	"runtime"
	"strings"
	"sync/atomic"
	"time"
)

type handlerSlot struct{ h ErrorHandler }

var installed atomic.Pointer[handlerSlot]

// SetHandler installs the process-wide error handler. Pass nil to restore
// the default, a [LogHandler] writing to the package logger.
func SetHandler(h ErrorHandler) {
	if h == nil {
		installed.Store(nil)
		return
	}
	installed.Store(&handlerSlot{h: h})
}

// Handler returns the installed error handler.
func Handler() ErrorHandler {
	if s := installed.Load(); s != nil {
		return s.h
	}
	return &LogHandler{}
}

func stamp(ts *time.Time) {
	if ts.IsZero() {
		*ts = time.Now()
	}
}

// Report sends a node error to the installed handler, stamping it with the
// current time if it has none.
func Report(err *NodeError) {
	if err == nil {
		return
	}
	stamp(&err.Timestamp)
	Handler().HandleError(err)
}

// ReportPanic sends a recovered panic to the installed handler.
func ReportPanic(err *PanicError) {
	if err == nil {
		return
	}
	stamp(&err.Timestamp)
	Handler().HandlePanic(err)
}

// RecoverError converts a panic in the calling function into a *PanicError
// stored in *errp. It must be deferred directly:
//
//	defer errors.RecoverError("builder.Build", kind, &err)
//
// The panic is not reported; the caller decides what to do with the error.
func RecoverError(op, kindName string, errp *error) {
	r := recover()
	if r == nil {
		return
	}
	*errp = &PanicError{
		Op:         op,
		KindName:   kindName,
		Value:      r,
		StackTrace: CaptureStack(),
		Timestamp:  time.Now(),
	}
}

// CaptureStack formats the goroutine's stack, starting at the caller of
// the function that called CaptureStack.
func CaptureStack() string {
	var pcs [32]uintptr
	n := runtime.Callers(3, pcs[:])
	frames := runtime.CallersFrames(pcs[:n])
	var sb strings.Builder
	for n > 0 {
		f, more := frames.Next()
		fmt.Fprintf(&sb, "%s\n\t%s:%d\n", f.Function, f.File, f.Line)
		if !more {
			break
		}
	}
	return sb.String()
}
