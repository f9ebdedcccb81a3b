package errors

import (
	"bytes"
	"errors"
	"fmt"
	"testing"
)

func TestFormat(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"nil", nil, ""},
		{"plain", errors.New("boom"), "Error: boom"},
		{"wrapped", fmt.Errorf("saving planner: %w", errors.New("disk full")), "Error: saving planner: disk full"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Format(tt.err); got != tt.want {
				t.Errorf("Format() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestFormatf(t *testing.T) {
	if got := Formatf("day %d out of range", 9); got != "Error: day 9 out of range" {
		t.Errorf("Formatf() = %q", got)
	}
}

func TestReport(t *testing.T) {
	var buf bytes.Buffer
	if Report(&buf, nil) {
		t.Error("Report(nil) should return false")
	}
	if buf.Len() != 0 {
		t.Errorf("Report(nil) wrote %q", buf.String())
	}

	if !Report(&buf, errors.New("locked")) {
		t.Error("Report should return true for an error")
	}
	if buf.String() != "Error: locked\n" {
		t.Errorf("Report wrote %q", buf.String())
	}
}

func TestFatal(t *testing.T) {
	code := -1
	orig := exit
	exit = func(c int) { code = c }
	t.Cleanup(func() { exit = orig })

	Fatal(nil)
	if code != -1 {
		t.Errorf("Fatal(nil) exited with %d", code)
	}
	Fatalf("cannot open %s", "store")
	if code != 1 {
		t.Errorf("Fatalf exit code = %d, want 1", code)
	}
}

func TestIs(t *testing.T) {
	sentinel := errors.New("sentinel")
	if !Is(fmt.Errorf("wrap: %w", sentinel), sentinel) {
		t.Error("Is should unwrap")
	}
}
