package snowlog

import (
	"fmt"
	"regexp"
	"testing"
	"time"
)

// lineRe is the shape every formatted record must have.
var lineRe = regexp.MustCompile(`^[IWEF]\d{8} \d{2}:\d{2}:\d{2}\.\d{6} \d+ [^/\\]+:\d+\] .*$`)

func TestFormatLineGolden(t *testing.T) {
	ts := time.Date(2026, 1, 14, 22, 41, 3, 504512000, time.UTC)

	got := FormatLine(SeverityInfo, "/src/robot/robot.go", 42, ts, 18, "Starting robot controller")
	want := "I20260114 22:41:03.504512 18 robot.go:42] Starting robot controller"
	if got != want {
		t.Errorf("FormatLine mismatch:\n got: %q\nwant: %q", got, want)
	}
}

func TestFormatLineZeroPadding(t *testing.T) {
	ts := time.Date(2026, 2, 3, 4, 5, 6, 7000, time.UTC)

	got := FormatLine(SeverityError, "main.go", 7, ts, 1, "boom")
	want := "E20260203 04:05:06.000007 1 main.go:7] boom"
	if got != want {
		t.Errorf("FormatLine mismatch:\n got: %q\nwant: %q", got, want)
	}
}

func TestFormatLineShape(t *testing.T) {
	ts := time.Now()
	for _, sev := range []Severity{SeverityInfo, SeverityWarning, SeverityError, SeverityFatal} {
		for i, file := range []string{"a.go", "/deep/path/b.go", `C:\win\c.go`} {
			line := FormatLine(sev, file, 10+i, ts, goroutineID(), fmt.Sprintf("message %d", i))
			if !lineRe.MatchString(line) {
				t.Errorf("line does not match format: %q", line)
			}
		}
	}
}

func TestBaseName(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"/a/b/c.go", "c.go"},
		{"c.go", "c.go"},
		{`C:\src\win.go`, "win.go"},
		{"dir/", "dir/"},
		{"", ""},
		{"/", "/"},
	}

	for _, tc := range tests {
		if got := baseName(tc.input); got != tc.expected {
			t.Errorf("baseName(%q) = %q, want %q", tc.input, got, tc.expected)
		}
	}
}

func TestGoroutineID(t *testing.T) {
	id := goroutineID()
	if id == 0 {
		t.Fatal("goroutineID returned 0")
	}

	// Stable within one goroutine.
	if again := goroutineID(); again != id {
		t.Errorf("goroutineID changed within one goroutine: %d then %d", id, again)
	}

	// Distinct for a different goroutine.
	ch := make(chan uint64, 1)
	go func() { ch <- goroutineID() }()
	if other := <-ch; other == id {
		t.Errorf("expected a different id for a different goroutine, both were %d", id)
	}
}
