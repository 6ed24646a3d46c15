// Package snowlog is a severity-leveled logging facade with a fixed,
// parseable text format, composable sinks, and a process-wide logger
// lifecycle.
//
// Every record renders as one line:
//
//	I20260114 22:41:03.504512 18 robot.go:42] Starting robot controller
//
// that is, level character, date, wall-clock time with microseconds,
// goroutine id, source location, and message. The format is identical
// on console and file, which makes logs greppable and machine-parseable
// (see internal/view and the snowtail command).
//
// Typical use:
//
//	cfg := snowlog.DefaultConfig()
//	cfg.FilePath = "robot.log"
//	snowlog.Init(cfg)
//	defer snowlog.Shutdown()
//
//	snowlog.Info().Str("motors online: ").Int(4).Send()
//	snowlog.Warning().Msgf("battery at %d%%", 12)
//	snowlog.ErrorIf(err != nil).Err(err).Send()
//
// Records admit against the logger's minimum severity when created;
// severities at or above the flush threshold (WARNING by default)
// flush every sink synchronously. Finalizing a FATAL record flushes
// and terminates the process, however logging is configured. Before
// Init and after Shutdown all logging is a silent no-op, except that
// fatal records still terminate.
//
// The facade is safe for concurrent use: sinks see whole lines only.
package snowlog
