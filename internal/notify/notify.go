// Package notify shows desktop notifications through the platform's
// notification command.
package notify

import (
	"fmt"
	"os/exec"
	"runtime"
	"strings"
)

// Desktop sends notifications with notify-send on Linux and osascript on
// macOS.
type Desktop struct {
	// run executes the command; replaced in tests.
	run func(name string, args ...string) error
}

// NewDesktop returns a notifier for the current platform.
func NewDesktop() *Desktop {
	return &Desktop{run: func(name string, args ...string) error {
		return exec.Command(name, args...).Run()
	}}
}

// Notify implements reconcile.Notifier.
func (d *Desktop) Notify(title, message string) error {
	name, args, err := command(runtime.GOOS, title, message)
	if err != nil {
		return err
	}
	if err := d.run(name, args...); err != nil {
		return fmt.Errorf("running %s: %w", name, err)
	}
	return nil
}

func command(goos, title, message string) (string, []string, error) {
	switch goos {
	case "darwin":
		script := fmt.Sprintf("display notification %s with title %s", appleScriptString(message), appleScriptString(title))
		return "osascript", []string{"-e", script}, nil
	case "linux", "freebsd", "openbsd", "netbsd":
		return "notify-send", []string{"--app-name=aha", title, message}, nil
	}
	return "", nil, fmt.Errorf("desktop notifications are not supported on %s", goos)
}

func appleScriptString(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	return `"` + strings.ReplaceAll(s, `"`, `\"`) + `"`
}
