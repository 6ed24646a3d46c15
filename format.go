package snowlog

import (
	"bytes"
	"fmt"
	"runtime"
	"strconv"
	"strings"
	"time"
)

// FormatLine renders a record in the fixed textual layout:
//
//	<LevelChar><YYYYMMDD> <HH:MM:SS.ffffff> <GoroutineID> <File>:<Line>] <Message>
//
// for example:
//
//	I20260114 22:41:03.504512 18 robot.go:42] Starting robot controller
//
// The function is pure: identical inputs produce identical bytes. The
// timestamp renders in the local time of t; the file path is reduced to
// its base name. This layout is the package's wire contract and is what
// the viewer parses.
func FormatLine(sev Severity, file string, line int, t time.Time, gid uint64, msg string) string {
	year, month, day := t.Date()
	hour, minute, sec := t.Clock()
	micros := t.Nanosecond() / 1000

	return fmt.Sprintf("%c%04d%02d%02d %02d:%02d:%02d.%06d %d %s:%d] %s",
		sev.Char(), year, int(month), day, hour, minute, sec, micros,
		gid, baseName(file), line, msg)
}

// baseName trims a source path to its final element. If the path has no
// separator, or nothing follows the last one, the input is returned
// unmodified. Both slash styles are handled since call sites may pass
// externally supplied locations.
func baseName(path string) string {
	i := strings.LastIndexAny(path, `/\`)
	if i < 0 || i+1 >= len(path) {
		return path
	}
	return path[i+1:]
}

// goroutineID reports the numeric id of the calling goroutine, parsed
// from the runtime.Stack header ("goroutine 123 [running]:"). Ids are
// unique among live goroutines; the runtime reuses them after exit,
// which is acceptable for a diagnostic field.
func goroutineID() uint64 {
	var buf [64]byte
	n := runtime.Stack(buf[:], false)
	s := bytes.TrimPrefix(buf[:n], []byte("goroutine "))
	if i := bytes.IndexByte(s, ' '); i > 0 {
		s = s[:i]
	}
	id, err := strconv.ParseUint(string(s), 10, 64)
	if err != nil {
		return 0
	}
	return id
}
