package menu

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"

	"github.com/jellypick-cli/jellypick/key"
	"github.com/jellypick-cli/jellypick/log"
	"github.com/kballard/go-shellquote"
	"github.com/spf13/viper"
)

// wellKnown lists the selector commands probed, in order, when none is
// configured.
var wellKnown = [][]string{
	{"rofi", "-dmenu", "-i"},
	{"wofi", "--dmenu", "-i"},
	{"dmenu", "-i"},
}

// ErrNoSelector is returned when no selector command is configured and none
// of the well-known ones is installed.
var ErrNoSelector = errors.New("no dmenu-compatible selector found")

// ErrCancelled is returned when the selector exits without a choice.
// This is a normal outcome, not a failure.
var ErrCancelled = errors.New("selection cancelled")

// Selector runs an external dmenu-protocol process: display lines go to its
// stdin, the chosen line comes back on its stdout.
type Selector struct {
	command []string
}

// NewSelector resolves the selector command: config menu.command first, then
// the DMENU environment variable, then the well-known candidates on PATH.
func NewSelector() (*Selector, error) {
	raw := viper.GetString(key.MenuCommand)
	if raw == "" {
		raw = os.Getenv("DMENU")
	}
	if raw != "" {
		command, err := shellquote.Split(raw)
		if err != nil {
			return nil, fmt.Errorf("parse menu command: %w", err)
		}
		if len(command) == 0 {
			return nil, ErrNoSelector
		}
		if _, err := exec.LookPath(command[0]); err != nil {
			return nil, fmt.Errorf("selector %q not found: %w", command[0], err)
		}
		return &Selector{command: command}, nil
	}

	for _, candidate := range wellKnown {
		if _, err := exec.LookPath(candidate[0]); err == nil {
			return &Selector{command: candidate}, nil
		}
	}
	return nil, ErrNoSelector
}

// Ask presents the lines and returns the user's answer verbatim.
// Cancellation (non-zero exit or empty output) yields ErrCancelled.
func (s *Selector) Ask(prompt string, lines []string) (string, error) {
	args := append(s.command[1:], "-p", prompt)
	cmd := exec.Command(s.command[0], args...)
	cmd.Stdin = strings.NewReader(strings.Join(lines, "\n"))

	var out bytes.Buffer
	cmd.Stdout = &out

	log.Debugf("selector: %s", strings.Join(s.command, " "))

	if err := cmd.Run(); err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return "", ErrCancelled
		}
		return "", fmt.Errorf("run selector: %w", err)
	}

	answer := strings.TrimRight(out.String(), "\n")
	if answer == "" {
		return "", ErrCancelled
	}
	return answer, nil
}
