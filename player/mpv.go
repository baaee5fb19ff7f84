package player

import (
	"crypto/rand"
	"fmt"
	"net"
	"net/url"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/jellypick-cli/jellypick/log"
)

const (
	socketWaitRetries = 10
	socketWaitDelay   = 300 * time.Millisecond
)

// MPV implements the Player interface using mpv's JSON-IPC protocol.
// Any binary that speaks the same protocol (e.g. a wrapper) works too.
type MPV struct {
	binary     string
	extraArgs  []string
	socketPath string
	cmd        *exec.Cmd
	exited     chan struct{} // closed when the player process exits
	mu         sync.Mutex    // protects socket writes
}

// NewMPV creates a player instance driving the given binary
// (does not start playback). extraArgs are appended to the command line
// before the media target.
func NewMPV(binary string, extraArgs ...string) *MPV {
	if binary == "" {
		binary = "mpv"
	}
	return &MPV{
		binary:    binary,
		extraArgs: extraArgs,
		exited:    make(chan struct{}),
	}
}

// Play launches the player against the URL, seeking to start before playback
// begins. The session transitions out of its starting state once the IPC
// socket accepts connections.
func (m *MPV) Play(rawURL string, title string, start time.Duration) error {
	safeURL, err := sanitizeMediaTarget(rawURL)
	if err != nil {
		return &LaunchError{Player: m.binary, Err: fmt.Errorf("invalid media target: %w", err)}
	}

	safeTitle := sanitizeTitle(title)

	// Random socket path under os.TempDir() for cross-platform support
	// (macOS $TMPDIR is /var/folders/... not /tmp/).
	if m.socketPath == "" {
		randomBytes := make([]byte, 4)
		if _, err := rand.Read(randomBytes); err != nil {
			return &LaunchError{Player: m.binary, Err: fmt.Errorf("generate socket name: %w", err)}
		}
		m.socketPath = filepath.Join(os.TempDir(), fmt.Sprintf("jellypick-%x.sock", randomBytes))
	}

	// Pass only the socket, title, start offset and URL; the user's own
	// mpv.conf governs everything else (vo, hwdec, profiles).
	args := []string{
		"--no-terminal",
		"--really-quiet",
		fmt.Sprintf("--input-ipc-server=%s", m.socketPath),
		fmt.Sprintf("--force-media-title=%s", safeTitle),
		fmt.Sprintf("--title=%s", safeTitle),
	}

	if start > 0 {
		args = append(args, fmt.Sprintf("--start=%d", int(start.Seconds())))
	}

	args = append(args, m.extraArgs...)
	args = append(args, "--", safeURL)

	m.cmd = exec.Command(m.binary, args...)

	// Detach from the parent process group so terminal signals reach the
	// controller, not the player.
	m.cmd.SysProcAttr = sysProcAttr()

	m.cmd.Stdout = nil
	m.cmd.Stderr = nil
	m.cmd.Stdin = nil

	if err := m.cmd.Start(); err != nil {
		return &LaunchError{Player: m.binary, Err: err}
	}

	// Reap the process in the background to prevent zombies.
	m.exited = make(chan struct{})
	go func() {
		_ = m.cmd.Wait()
		close(m.exited)
	}()

	if err := m.waitForSocket(); err != nil {
		// The socket never became ready; kill the orphaned process.
		select {
		case <-m.exited:
		default:
			log.Warnf("killing %s: socket never became ready", m.binary)
			_ = m.cmd.Process.Kill()
		}
		return &LaunchError{Player: m.binary, Err: err}
	}

	return nil
}

// Wait returns a channel that is closed when the player process exits.
func (m *MPV) Wait() <-chan struct{} {
	return m.exited
}

// waitForSocket polls until the IPC socket is accepting connections.
func (m *MPV) waitForSocket() error {
	for i := 0; i < socketWaitRetries; i++ {
		time.Sleep(socketWaitDelay)

		select {
		case <-m.exited:
			return fmt.Errorf("%s exited before socket was ready", m.binary)
		default:
		}

		conn, err := net.Dial("unix", m.socketPath)
		if err == nil {
			conn.Close()
			return nil
		}
	}
	return fmt.Errorf("socket %s not ready after %d attempts", m.socketPath, socketWaitRetries)
}

// GetTimePos returns the current playback position.
func (m *MPV) GetTimePos() (time.Duration, error) {
	secs, err := m.getFloatProperty("time-pos")
	if err != nil {
		return 0, err
	}
	return time.Duration(secs * float64(time.Second)), nil
}

// GetDuration returns the total duration of the current media.
func (m *MPV) GetDuration() (time.Duration, error) {
	secs, err := m.getFloatProperty("duration")
	if err != nil {
		return 0, err
	}
	return time.Duration(secs * float64(time.Second)), nil
}

// GetPausedStatus returns whether playback is currently paused.
func (m *MPV) GetPausedStatus() (bool, error) {
	data, err := m.sendCommand([]interface{}{"get_property", "pause"})
	if err != nil {
		return false, err
	}
	paused, ok := data.(bool)
	if !ok {
		return false, nil
	}
	return paused, nil
}

// IsRunning reports whether the player is responding to IPC commands.
func (m *MPV) IsRunning() bool {
	if m.socketPath == "" {
		return false
	}

	select {
	case <-m.exited:
		return false
	default:
	}

	_, err := m.sendCommand([]interface{}{"get_property", "pid"})
	return err == nil
}

// Close shuts down the player process and cleans up resources.
func (m *MPV) Close() error {
	if m.socketPath == "" {
		return nil
	}

	// Try graceful quit via IPC first.
	_, _ = m.sendCommand([]interface{}{"quit"})

	select {
	case <-m.exited:
	case <-time.After(3 * time.Second):
		_ = killProcess(m.cmd)
	}

	_ = os.Remove(m.socketPath)

	return nil
}

// Socket returns the IPC socket path.
func (m *MPV) Socket() string {
	return m.socketPath
}

// getFloatProperty is a helper to retrieve a float64 property via IPC.
func (m *MPV) getFloatProperty(name string) (float64, error) {
	data, err := m.sendCommand([]interface{}{"get_property", name})
	if err != nil {
		return 0, err
	}

	if data == nil {
		return 0, fmt.Errorf("property %s: nil response", name)
	}

	val, ok := data.(float64)
	if !ok {
		return 0, fmt.Errorf("property %s: expected float64, got %T", name, data)
	}

	return val, nil
}

// sanitizeMediaTarget validates that a URL is safe to pass to the player.
// Prevents flag injection through crafted item paths.
func sanitizeMediaTarget(link string) (string, error) {
	l := strings.TrimSpace(link)
	if l == "" {
		return "", fmt.Errorf("empty URL")
	}

	if strings.ContainsAny(l, "\x00\n\r") {
		return "", fmt.Errorf("invalid control characters in URL")
	}

	if strings.HasPrefix(l, "-") {
		return "", fmt.Errorf("url must not start with '-' (looks like a flag)")
	}

	if strings.Contains(l, "://") {
		u, err := url.Parse(l)
		if err != nil {
			return "", fmt.Errorf("invalid URL: %w", err)
		}
		switch strings.ToLower(u.Scheme) {
		case "http", "https":
			return l, nil
		default:
			return "", fmt.Errorf("unsupported URL scheme: %s", u.Scheme)
		}
	}

	// Treat as local file path
	return filepath.Clean(l), nil
}

// sanitizeTitle cleans up the title before it crosses the process boundary.
func sanitizeTitle(title string) string {
	t := strings.ReplaceAll(title, "\n", " ")
	t = strings.ReplaceAll(t, "\r", " ")
	t = strings.ReplaceAll(t, "\t", " ")
	t = strings.ReplaceAll(t, "\x00", "")
	return strings.TrimSpace(t)
}
