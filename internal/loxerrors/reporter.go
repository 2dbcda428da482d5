package loxerrors

import (
	"fmt"
	"io"
)

type ErrReporter interface {
	ReportPanic(err error)
	ReportError(err error)
}

type errReporter struct {
	w io.Writer
}

func NewErrReporter(w io.Writer) *errReporter {
	return &errReporter{w: w}
}

// ReportPanic implements ErrReporter.
func (e *errReporter) ReportPanic(err error) {
	DefaultReportPanic(e.w, err)
}

// ReportError implements ErrReporter.
func (e *errReporter) ReportError(err error) {
	DefaultReportError(e.w, err)
}

// DefaultReportPanic is the default implementation of ErrReporter.ReportPanic.
func DefaultReportPanic(w io.Writer, err error) {
	fmt.Fprintf(w, "FATAL %v\n", err)
}

// DefaultReportError is the default implementation of ErrReporter.ReportError.
//
// Klox's error format is specified down to the byte (scan/parse/static errors
// read "[line N] Error<where>: <message>", runtime errors read
// "[line N] <message>"), so, unlike ReportPanic, this writes the error
// verbatim with no added prefix.
func DefaultReportError(w io.Writer, err error) {
	fmt.Fprintf(w, "%v\n", err)
}

var _ ErrReporter = (*errReporter)(nil)
