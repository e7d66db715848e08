package output

import (
	"fmt"
	"io"
	"os"
)

// Logger writes leveled, emoji-prefixed progress messages to a terminal.
// A nil *Logger discards everything, so callers never need to guard it.
type Logger struct {
	w       io.Writer
	verbose bool
}

// NewLogger returns a Logger writing to w. Debug lines are only emitted
// when verbose is set.
func NewLogger(w io.Writer, verbose bool) *Logger {
	if w == nil {
		w = os.Stdout
	}
	return &Logger{w: w, verbose: verbose}
}

// Infof writes an informational line.
func (l *Logger) Infof(format string, args ...any) {
	if l == nil {
		return
	}
	fmt.Fprintf(l.w, format+"\n", args...)
}

// Warnf writes a warning line.
func (l *Logger) Warnf(format string, args ...any) {
	if l == nil {
		return
	}
	fmt.Fprintln(l.w, StyleWarning.Render("⚠️  "+fmt.Sprintf(format, args...)))
}

// Debugf writes a debug line when verbose output is enabled.
func (l *Logger) Debugf(format string, args ...any) {
	if l == nil || !l.verbose {
		return
	}
	fmt.Fprintln(l.w, StyleMuted.Render("   Debug: "+fmt.Sprintf(format, args...)))
}

// Errorf writes a fatal error line in the form "❌ Error: <message>".
func Errorf(w io.Writer, err error) {
	fmt.Fprintln(w, StyleError.Render("❌ Error: "+err.Error()))
}
