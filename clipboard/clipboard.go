// Package clipboard copies text to the system clipboard.
//
// The first available clipboard command wins (wl-copy, xclip, xsel, pbcopy,
// clip.exe). When none works the text is sent to the terminal as an OSC 52
// escape sequence, which most modern terminal emulators forward to the
// clipboard, including over SSH.
package clipboard

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"os/exec"
	"strings"
)

// Method identifies how text reached the clipboard.
type Method string

// MethodOSC52 is reported when the terminal escape fallback was used.
const MethodOSC52 Method = "osc52"

// Command is a clipboard program that reads text on stdin.
type Command struct {
	Name string
	Args []string
}

// DefaultCommands are tried in order.
var DefaultCommands = []Command{
	{Name: "wl-copy"},
	{Name: "xclip", Args: []string{"-selection", "clipboard"}},
	{Name: "xsel", Args: []string{"--clipboard", "--input"}},
	{Name: "pbcopy"},
	{Name: "clip.exe"},
}

// ErrUnavailable is returned when no command succeeded and there is no
// terminal to fall back to.
var ErrUnavailable = errors.New("no clipboard available")

// Writer copies text with a list of commands and an optional terminal
// fallback.
type Writer struct {
	Commands []Command
	// Terminal receives the OSC 52 sequence. Nil disables the fallback.
	Terminal io.Writer

	lookPath func(string) (string, error)
	run      func(ctx context.Context, path string, args []string, stdin string) error
}

// New returns a Writer using DefaultCommands with term as OSC 52 fallback.
func New(term io.Writer) *Writer {
	return &Writer{
		Commands: DefaultCommands,
		Terminal: term,
		lookPath: exec.LookPath,
		run:      runCommand,
	}
}

// Write copies text using the package defaults.
func Write(ctx context.Context, text string, term io.Writer) (Method, error) {
	return New(term).Write(ctx, text)
}

// Write copies text and reports which method succeeded.
func (w *Writer) Write(ctx context.Context, text string) (Method, error) {
	var errs []error
	for _, c := range w.Commands {
		path, err := w.lookPath(c.Name)
		if err != nil {
			continue
		}
		if err := w.run(ctx, path, c.Args, text); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", c.Name, err))
			continue
		}
		return Method(c.Name), nil
	}

	if w.Terminal != nil {
		if _, err := io.WriteString(w.Terminal, OSC52(text)); err != nil {
			errs = append(errs, fmt.Errorf("osc52: %w", err))
		} else {
			return MethodOSC52, nil
		}
	}

	if len(errs) == 0 {
		return "", ErrUnavailable
	}
	return "", fmt.Errorf("%w: %w", ErrUnavailable, errors.Join(errs...))
}

// OSC52 returns the escape sequence that sets the clipboard to text.
func OSC52(text string) string {
	return "\x1b]52;c;" + base64.StdEncoding.EncodeToString([]byte(text)) + "\a"
}

func runCommand(ctx context.Context, path string, args []string, stdin string) error {
	cmd := exec.CommandContext(ctx, path, args...)
	cmd.Stdin = strings.NewReader(stdin)
	var stderrBuf strings.Builder
	cmd.Stderr = &stderrBuf

	if err := cmd.Run(); err != nil {
		if msg := strings.TrimSpace(stderrBuf.String()); msg != "" {
			return fmt.Errorf("%w: %s", err, msg)
		}
		return err
	}
	return nil
}
