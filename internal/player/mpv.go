package player

import (
	"bufio"
	"encoding/json"
	"fmt"
	"net"
	"os"
	"os/exec"
	"path/filepath"
	"sync"
	"time"

	"go.uber.org/zap"
)

// MPVEngine drives an mpv process over its JSON IPC socket. One engine owns
// at most one mpv process at a time; Load hands off sequentially.
type MPVEngine struct {
	mu         sync.Mutex
	socketPath string
	cmd        *exec.Cmd
	done       chan struct{}
	log        *zap.Logger
}

// NewMPVEngine creates an engine with a per-process socket path.
func NewMPVEngine(log *zap.Logger) *MPVEngine {
	if log == nil {
		log = zap.NewNop()
	}
	return &MPVEngine{
		socketPath: filepath.Join(os.TempDir(), fmt.Sprintf("etui-mpv-%d.sock", os.Getpid())),
		log:        log,
	}
}

// Load spawns mpv on the stream URL with JSON IPC enabled, stopping any
// previous process first.
func (e *MPVEngine) Load(url string, startSeconds float64) error {
	if err := e.Stop(); err != nil {
		return err
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	args := []string{
		"--input-ipc-server=" + e.socketPath,
		"--title=etui-player",
		"--force-window=yes",
	}
	if startSeconds > 0 {
		args = append(args, fmt.Sprintf("--start=%.2f", startSeconds))
	}
	args = append(args, url)

	cmd := exec.Command("mpv", args...)
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("failed to start mpv: %w", err)
	}

	done := make(chan struct{})
	e.cmd = cmd
	e.done = done
	go func() {
		cmd.Wait() // nolint:errcheck // exit status is not actionable
		close(done)
	}()

	// Wait briefly for the IPC socket to come up so transport controls work
	// immediately after Load returns.
	for i := 0; i < 20; i++ {
		if conn, err := net.Dial("unix", e.socketPath); err == nil {
			conn.Close()
			return nil
		}
		select {
		case <-done:
			return fmt.Errorf("mpv exited during startup")
		case <-time.After(250 * time.Millisecond):
		}
	}

	e.log.Warn("mpv IPC socket did not appear in time", zap.String("socket", e.socketPath))
	return nil
}

// Running reports whether the mpv process is alive.
func (e *MPVEngine) Running() bool {
	e.mu.Lock()
	done := e.done
	e.mu.Unlock()

	if done == nil {
		return false
	}
	select {
	case <-done:
		return false
	default:
		return true
	}
}

// Stop quits mpv, escalating to a kill when the quit command is not honored.
func (e *MPVEngine) Stop() error {
	e.mu.Lock()
	cmd, done := e.cmd, e.done
	e.cmd = nil
	e.done = nil
	e.mu.Unlock()

	if cmd == nil {
		return nil
	}

	e.command("quit") // nolint:errcheck // socket may already be gone

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		if cmd.Process != nil {
			cmd.Process.Kill() // nolint:errcheck
		}
		<-done
	}

	os.Remove(e.socketPath) // nolint:errcheck
	return nil
}

func (e *MPVEngine) Position() (float64, error) {
	return e.getFloat("time-pos")
}

func (e *MPVEngine) Duration() (float64, error) {
	return e.getFloat("duration")
}

func (e *MPVEngine) Seek(seconds float64) error {
	_, err := e.command("seek", seconds, "absolute")
	return err
}

func (e *MPVEngine) SetPause(paused bool) error {
	_, err := e.command("set_property", "pause", paused)
	return err
}

func (e *MPVEngine) SetVolume(percent int) error {
	_, err := e.command("set_property", "volume", percent)
	return err
}

func (e *MPVEngine) SetMute(muted bool) error {
	_, err := e.command("set_property", "mute", muted)
	return err
}

func (e *MPVEngine) SetSubtitleTrack(index int) error {
	if index < 0 {
		_, err := e.command("set_property", "sid", "no")
		return err
	}
	_, err := e.command("set_property", "sid", index)
	return err
}

func (e *MPVEngine) getFloat(property string) (float64, error) {
	data, err := e.command("get_property", property)
	if err != nil {
		return 0, err
	}
	value, ok := data.(float64)
	if !ok {
		return 0, fmt.Errorf("property %s is not a number", property)
	}
	return value, nil
}

type mpvResponse struct {
	Error string `json:"error"`
	Data  any    `json:"data"`
}

// command sends one IPC command and reads its response line.
func (e *MPVEngine) command(parts ...any) (any, error) {
	conn, err := net.Dial("unix", e.socketPath)
	if err != nil {
		return nil, fmt.Errorf("mpv is not running: %w", err)
	}
	defer conn.Close()

	conn.SetDeadline(time.Now().Add(2 * time.Second)) // nolint:errcheck

	payload, err := json.Marshal(map[string]any{"command": parts})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal command: %w", err)
	}
	if _, err := conn.Write(append(payload, '\n')); err != nil {
		return nil, fmt.Errorf("failed to send command: %w", err)
	}

	scanner := bufio.NewScanner(conn)
	for scanner.Scan() {
		var resp mpvResponse
		if err := json.Unmarshal(scanner.Bytes(), &resp); err != nil {
			continue // skip event lines
		}
		if resp.Error == "" {
			continue
		}
		if resp.Error != "success" {
			return nil, fmt.Errorf("mpv returned %q", resp.Error)
		}
		return resp.Data, nil
	}

	return nil, fmt.Errorf("no response from mpv")
}
