package audio

import (
	"context"
	"fmt"
	"math"
	"os"
	"os/exec"
	"regexp"
	"strconv"
)

// Runner executes an external program.
type Runner func(ctx context.Context, name string, args ...string) error

func execRunner(ctx context.Context, name string, args ...string) error {
	out, err := exec.CommandContext(ctx, name, args...).CombinedOutput()
	if err != nil {
		return fmt.Errorf("%s: %w: %s", name, err, out)
	}
	return nil
}

// Command synthesizes speech by running an espeak-ng compatible binary
// that writes WAV output to a file.
type Command struct {
	Binary  string
	Voice   string
	WPM     int
	TempDir string
	Run     Runner
}

// NewCommand returns a Command running binary with the given voice and base
// words-per-minute.
func NewCommand(binary, voice string, wpm int) *Command {
	return &Command{Binary: binary, Voice: voice, WPM: wpm, Run: execRunner}
}

var unsafeLabel = regexp.MustCompile(`[^A-Za-z0-9_-]+`)

// Synthesize implements Synthesizer.
func (c *Command) Synthesize(ctx context.Context, req Request) (string, error) {
	f, err := os.CreateTemp(c.TempDir, "vocabuild-"+unsafeLabel.ReplaceAllString(req.Label, "_")+"-*.wav")
	if err != nil {
		return "", err
	}
	path := f.Name()
	if err := f.Close(); err != nil {
		_ = os.Remove(path)
		return "", err
	}

	args := []string{"-s", strconv.Itoa(c.rate(req)), "-w", path}
	if c.Voice != "" {
		args = append([]string{"-v", c.Voice}, args...)
	}
	args = append(args, "--", req.Text)

	run := c.Run
	if run == nil {
		run = execRunner
	}
	if err := run(ctx, c.Binary, args...); err != nil {
		_ = os.Remove(path)
		return "", err
	}
	return path, nil
}

// Cleanup implements Synthesizer. Removing a file that is already gone is
// not an error.
func (c *Command) Cleanup(path string) error {
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

func (c *Command) rate(req Request) int {
	wpm := c.WPM
	if wpm <= 0 {
		wpm = 175
	}
	return int(math.Round(float64(wpm) * req.Speed.Rate()))
}
