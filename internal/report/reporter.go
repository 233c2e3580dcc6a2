// Package report renders a solved placement.Mapping for a human or for a
// machine. Both renderers mirror the teacher's report.Reporter /
// NewReporter(format, w) dispatch; TextReporter's layout is grounded on
// model/solution.py's __str__.
package report

import (
	"fmt"
	"io"

	"github.com/arnegilmore/microplace/internal/placement"
	"github.com/arnegilmore/microplace/internal/scenario"
)

// Reporter formats and writes a solved placement to an output destination.
type Reporter interface {
	Report(s *scenario.Scenario, mp *placement.Mapping, cost float64) error
}

// NewReporter creates a Reporter for the given format writing to w. An
// unrecognized format falls back to the text renderer, matching the
// teacher's NewReporter default case.
func NewReporter(format string, w io.Writer) Reporter {
	switch format {
	case "json":
		return &JSONReporter{w: w}
	default:
		return &TextReporter{w: w}
	}
}

// errWriter lets a sequence of Fprintf calls ignore intermediate errors and
// check once at the end, the pattern the teacher's table renderer used.
type errWriter struct {
	w   io.Writer
	err error
}

func (ew *errWriter) printf(format string, args ...any) {
	if ew.err != nil {
		return
	}
	_, ew.err = fmt.Fprintf(ew.w, format, args...)
}
