package cli

import (
	"log"
	"os"
)

// stdLogger writes pipeline log lines to stderr with timestamps. It backs
// both the serve and stats commands.
type stdLogger struct {
	debug *log.Logger
	err   *log.Logger
	quiet bool
}

func newStdLogger(quiet bool) *stdLogger {
	return &stdLogger{
		debug: log.New(os.Stderr, "DEBUG ", log.LstdFlags),
		err:   log.New(os.Stderr, "ERROR ", log.LstdFlags),
		quiet: quiet,
	}
}

func (l *stdLogger) Debug(msg string) {
	if l.quiet {
		return
	}
	l.debug.Println(msg)
}

func (l *stdLogger) Error(msg string) {
	l.err.Println(msg)
}
