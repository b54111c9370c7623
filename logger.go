package lasgo

import "fmt"

// Logger is the diagnostic sink a Dataset's NewDataset and WriteLAS calls
// report warnings to; the mutation methods take their own warn callback
// (spec §7: "Warnings ... are emitted via a diagnostic callback but do not
// abort the operation"). The shape mirrors hashicorp/go-hclog's Logger so a
// caller already using hclog can adapt it in one line; lasgo does not
// vendor hclog itself, since the core has no opinion on log sinks.
type Logger interface {
	Warnf(format string, args ...any)
}

// nopLogger discards every warning. It is the default when no Logger is
// configured via WithLogger.
type nopLogger struct{}

func (nopLogger) Warnf(string, ...any) {}

// warnFunc adapts a Logger into the plain func(string) every mutation
// helper in this package threads through (Header.SetPointFormat, Dataset's
// operations).
func warnFunc(l Logger) func(string) {
	if l == nil {
		l = nopLogger{}
	}
	return func(msg string) { l.Warnf("%s", msg) }
}

// PrintfLogger adapts any printf-style function (fmt.Printf, log.Printf,
// a *log.Logger's Printf) into a Logger.
type PrintfLogger func(format string, args ...any)

func (f PrintfLogger) Warnf(format string, args ...any) { f(format, args...) }

// callbackLogger adapts a single formatted-message callback, useful when a
// caller just wants a slice of warning strings rather than a full printf sink.
type callbackLogger struct {
	fn func(msg string)
}

func (c callbackLogger) Warnf(format string, args ...any) {
	c.fn(fmt.Sprintf(format, args...))
}

// NewCallbackLogger builds a Logger that forwards every formatted warning
// message to fn, e.g. to collect them into a slice for a test assertion.
func NewCallbackLogger(fn func(msg string)) Logger {
	return callbackLogger{fn: fn}
}
