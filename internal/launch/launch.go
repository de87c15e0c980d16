// Package launch starts the programs bound to spawn keys and listed under
// [autostart], and reaps them when they exit.
package launch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"os/signal"
	"strings"
	"syscall"

	"github.com/charmbracelet/log"
	"golang.org/x/sys/unix"
)

// SessionEnv is set in every child's environment to the session id.
const SessionEnv = "XROAGWEM_SESSION"

// ErrEmptyCommand is returned for a blank command line.
var ErrEmptyCommand = errors.New("empty command")

// Launcher runs shell command lines detached from the window manager.
type Launcher struct {
	display string
	session string
	shell   string
	logger  *log.Logger
}

// New returns a launcher whose children see display as DISPLAY. An empty
// display keeps the inherited value.
func New(display, session string, logger *log.Logger) *Launcher {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Launcher{
		display: display,
		session: session,
		shell:   "/bin/sh",
		logger:  logger,
	}
}

// Spawn starts command with the shell and returns without waiting for it.
func (l *Launcher) Spawn(command string) error {
	command = strings.TrimSpace(command)
	if command == "" {
		return ErrEmptyCommand
	}

	// #nosec G204 - command lines come from the user's config
	cmd := exec.Command(l.shell, "-c", command)
	cmd.Env = l.env()
	cmd.SysProcAttr = &syscall.SysProcAttr{Setsid: true}

	if err := cmd.Start(); err != nil {
		return fmt.Errorf("failed to spawn %q: %w", command, err)
	}
	l.logger.Debug("spawned", "cmd", command, "pid", cmd.Process.Pid)
	// The reaper collects the exit status.
	_ = cmd.Process.Release()
	return nil
}

func (l *Launcher) env() []string {
	env := os.Environ()
	if l.display != "" {
		env = append(env, "DISPLAY="+l.display)
	}
	if l.session != "" {
		env = append(env, SessionEnv+"="+l.session)
	}
	return env
}

// SpawnLogged is Spawn for callers that cannot handle the error.
func (l *Launcher) SpawnLogged(command string) {
	if err := l.Spawn(command); err != nil {
		l.logger.Warn("spawn failed", "err", err)
	}
}

// Autostart spawns every command in order. A failing command does not stop
// the others; their errors are joined.
func (l *Launcher) Autostart(commands []string) error {
	var errs []error
	for _, c := range commands {
		if err := l.Spawn(c); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Reap collects exited children on SIGCHLD until ctx is done.
func (l *Launcher) Reap(ctx context.Context) {
	sig := make(chan os.Signal, 1)
	signal.Notify(sig, unix.SIGCHLD)
	defer signal.Stop(sig)

	// Children may have exited before Notify.
	l.reapAll()
	for {
		select {
		case <-ctx.Done():
			return
		case <-sig:
			l.reapAll()
		}
	}
}

// reapAll waits for every exited child without blocking and returns how
// many were collected.
func (l *Launcher) reapAll() int {
	n := 0
	for {
		var status unix.WaitStatus
		pid, err := unix.Wait4(-1, &status, unix.WNOHANG, nil)
		if err == unix.EINTR {
			continue
		}
		if err != nil || pid <= 0 {
			return n
		}
		n++
		l.logger.Debug("child exited", "pid", pid, "status", status.ExitStatus())
	}
}
