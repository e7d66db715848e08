package watcher

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"runtime"
	"strings"
)

// Notifier delivers alerts as desktop notifications.
type Notifier struct {
	// GOOS selects the notification backend.
	GOOS string

	// Run executes an external notifier. Nil means os/exec.
	Run func(ctx context.Context, name string, args ...string) error

	// LookPath reports whether a binary is installed. Nil means exec.LookPath.
	LookPath func(name string) (string, error)

	// Fallback receives alerts no backend could deliver.
	Fallback io.Writer
}

// NewNotifier returns a Notifier for the running platform.
func NewNotifier() *Notifier {
	return &Notifier{GOOS: runtime.GOOS, Fallback: os.Stderr}
}

// Send delivers alert through osascript on macOS or notify-send on Linux,
// writing a plain line to Fallback when neither works.
func (n *Notifier) Send(ctx context.Context, alert Alert) error {
	name, args := n.command(alert)
	if name == "" {
		return n.fallback(alert)
	}
	if _, err := n.lookPath(name); err != nil {
		return n.fallback(alert)
	}
	if err := n.run(ctx, name, args...); err != nil {
		return n.fallback(alert)
	}
	return nil
}

func (n *Notifier) command(alert Alert) (string, []string) {
	title := "platovue"
	if alert.Level == "critical" {
		title = "platovue ⚠"
	}
	switch n.GOOS {
	case "darwin":
		script := fmt.Sprintf(`display notification %q with title %q subtitle %q`,
			alert.Message, title, alert.Title)
		return "osascript", []string{"-e", script}
	case "linux":
		args := []string{title + ": " + alert.Title, alert.Message}
		if alert.Level == "critical" {
			args = append([]string{"--urgency=critical"}, args...)
		}
		return "notify-send", args
	}
	return "", nil
}

func (n *Notifier) run(ctx context.Context, name string, args ...string) error {
	if n.Run != nil {
		return n.Run(ctx, name, args...)
	}
	return exec.CommandContext(ctx, name, args...).Run()
}

func (n *Notifier) lookPath(name string) (string, error) {
	if n.LookPath != nil {
		return n.LookPath(name)
	}
	return exec.LookPath(name)
}

func (n *Notifier) fallback(alert Alert) error {
	w := n.Fallback
	if w == nil {
		w = os.Stderr
	}
	level := strings.ToUpper(alert.Level)
	if level == "" {
		level = "INFO"
	}
	_, err := fmt.Fprintf(w, "[%s] %s: %s\n", level, alert.Title, alert.Message)
	return err
}
