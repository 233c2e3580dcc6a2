package cmd

import (
	"errors"

	"github.com/arnegilmore/microplace/internal/errs"
)

// exitCodeFor maps a command error to the process exit code spec §6.2
// defines: 1 distinguishes infeasibility from 2's configuration/usage
// errors, so scripts can tell the two apart.
func exitCodeFor(err error) int {
	if err == nil {
		return 0
	}
	var noSolution *errs.NoSolution
	if errors.As(err, &noSolution) {
		return 1
	}
	return 2
}
