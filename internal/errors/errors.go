// Package errors formats command failures for the terminal.
package errors

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/julianstephens/lunite/internal/logger"
)

// exit is swapped in tests.
var exit = os.Exit

// Format prefixes err with "Error: ". A nil error formats as "".
func Format(err error) string {
	if err == nil {
		return ""
	}
	return fmt.Sprintf("Error: %v", err)
}

func Formatf(format string, args ...any) string {
	return fmt.Sprintf("Error: "+format, args...)
}

// Report logs err and writes its formatted form to w. It reports whether
// there was an error to print.
func Report(w io.Writer, err error) bool {
	if err == nil {
		return false
	}
	logger.Error("command failed", "error", err)
	fmt.Fprintln(w, Format(err))
	return true
}

// Fatal reports err on stderr and exits with status 1. It does nothing for a nil error.
func Fatal(err error) {
	if Report(os.Stderr, err) {
		exit(1)
	}
}

func Fatalf(format string, args ...any) {
	Fatal(fmt.Errorf(format, args...))
}

// Is and As re-export the standard helpers so callers need a single errors import.
func Is(err, target error) bool { return errors.Is(err, target) }

func As(err error, target any) bool { return errors.As(err, target) }
