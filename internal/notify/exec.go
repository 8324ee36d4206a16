package notify

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"runtime"
)

// ExecPlayer plays audio files through the first available player
// binary on the host.
type ExecPlayer struct{}

// Play runs the platform player against the file.
func (ExecPlayer) Play(ctx context.Context, path string) error {
	bin, args, err := playerCommand()
	if err != nil {
		return err
	}
	return exec.CommandContext(ctx, bin, append(args, path)...).Run()
}

func playerCommand() (string, []string, error) {
	if runtime.GOOS == "darwin" {
		if bin, err := exec.LookPath("afplay"); err == nil {
			return bin, nil, nil
		}
	}
	for _, candidate := range []struct {
		bin  string
		args []string
	}{
		{"paplay", nil},
		{"aplay", []string{"-q"}},
		{"ffplay", []string{"-nodisp", "-autoexit", "-loglevel", "quiet"}},
	} {
		if bin, err := exec.LookPath(candidate.bin); err == nil {
			return bin, candidate.args, nil
		}
	}
	return "", nil, errors.New("no audio player available")
}

// ExecNotifier sends desktop notifications through notify-send (or
// osascript on macOS).
type ExecNotifier struct{}

// Send shows a notification.
func (ExecNotifier) Send(ctx context.Context, title, body string) error {
	if runtime.GOOS == "darwin" {
		script := fmt.Sprintf("display notification %q with title %q", body, title)
		return exec.CommandContext(ctx, "osascript", "-e", script).Run()
	}
	bin, err := exec.LookPath("notify-send")
	if err != nil {
		return err
	}
	return exec.CommandContext(ctx, bin, title, body).Run()
}

// Request reports whether a notification mechanism exists. The exec
// transports have no OS-level permission prompt, so availability is the
// grant.
func (ExecNotifier) Request(ctx context.Context) (bool, error) {
	if runtime.GOOS == "darwin" {
		_, err := exec.LookPath("osascript")
		return err == nil, nil
	}
	_, err := exec.LookPath("notify-send")
	return err == nil, nil
}
