package launch

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

// waitForFile polls until path has content or the deadline passes.
func waitForFile(t *testing.T, path string) string {
	t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		data, err := os.ReadFile(path)
		if err == nil && len(data) > 0 {
			return strings.TrimSpace(string(data))
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatalf("%s was never written", path)
	return ""
}

func TestSpawnSetsEnvironment(t *testing.T) {
	dir := t.TempDir()
	out := filepath.Join(dir, "env")
	l := New(":7", "abc-123", nil)

	if err := l.Spawn(`echo "$DISPLAY $` + SessionEnv + `" > ` + out); err != nil {
		t.Fatalf("Spawn: %v", err)
	}
	if got := waitForFile(t, out); got != ":7 abc-123" {
		t.Errorf("child saw %q, want %q", got, ":7 abc-123")
	}
	l.reapAll()
}

func TestSpawnEmptyCommand(t *testing.T) {
	l := New("", "", nil)
	for _, cmd := range []string{"", "   ", "\t\n"} {
		if err := l.Spawn(cmd); !errors.Is(err, ErrEmptyCommand) {
			t.Errorf("Spawn(%q) = %v, want ErrEmptyCommand", cmd, err)
		}
	}
}

func TestAutostartContinuesPastFailures(t *testing.T) {
	dir := t.TempDir()
	first := filepath.Join(dir, "first")
	last := filepath.Join(dir, "last")
	l := New("", "", nil)

	err := l.Autostart([]string{
		"echo one > " + first,
		"",
		"echo two > " + last,
	})
	if !errors.Is(err, ErrEmptyCommand) {
		t.Errorf("Autostart error = %v, want ErrEmptyCommand", err)
	}
	if got := waitForFile(t, first); got != "one" {
		t.Errorf("first = %q", got)
	}
	if got := waitForFile(t, last); got != "two" {
		t.Errorf("last = %q", got)
	}
	l.reapAll()
}

func TestReapAllCollectsExitedChildren(t *testing.T) {
	dir := t.TempDir()
	done := filepath.Join(dir, "done")
	l := New("", "", nil)

	if err := l.Spawn("touch " + done + "; echo x > " + done); err != nil {
		t.Fatalf("Spawn: %v", err)
	}
	waitForFile(t, done)

	deadline := time.Now().Add(5 * time.Second)
	reaped := 0
	for reaped == 0 && time.Now().Before(deadline) {
		reaped += l.reapAll()
		time.Sleep(10 * time.Millisecond)
	}
	if reaped == 0 {
		t.Error("exited child was not reaped")
	}
}
