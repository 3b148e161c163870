package clipboard

import (
	"bytes"
	"context"
	"errors"
	"os/exec"
	"testing"
)

func fakeWriter(available map[string]bool, failing map[string]bool, term *bytes.Buffer) (*Writer, *[]string) {
	var ran []string
	w := &Writer{
		Commands: DefaultCommands,
		lookPath: func(name string) (string, error) {
			if available[name] {
				return "/usr/bin/" + name, nil
			}
			return "", exec.ErrNotFound
		},
		run: func(_ context.Context, path string, _ []string, stdin string) error {
			ran = append(ran, path+":"+stdin)
			if failing[path] {
				return errors.New("exit status 1")
			}
			return nil
		},
	}
	if term != nil {
		w.Terminal = term
	}
	return w, &ran
}

func TestWriteUsesFirstAvailableCommand(t *testing.T) {
	w, ran := fakeWriter(map[string]bool{"xsel": true, "pbcopy": true}, nil, nil)

	m, err := w.Write(context.Background(), "hello")
	if err != nil {
		t.Fatalf("Write error: %v", err)
	}
	if m != "xsel" {
		t.Fatalf("method = %q, want xsel", m)
	}
	if len(*ran) != 1 || (*ran)[0] != "/usr/bin/xsel:hello" {
		t.Fatalf("ran = %v", *ran)
	}
}

func TestWriteSkipsFailingCommand(t *testing.T) {
	w, ran := fakeWriter(
		map[string]bool{"wl-copy": true, "xclip": true},
		map[string]bool{"/usr/bin/wl-copy": true},
		nil,
	)

	m, err := w.Write(context.Background(), "x")
	if err != nil {
		t.Fatalf("Write error: %v", err)
	}
	if m != "xclip" {
		t.Fatalf("method = %q, want xclip", m)
	}
	if len(*ran) != 2 {
		t.Fatalf("ran = %v, want two attempts", *ran)
	}
}

func TestWriteFallsBackToOSC52(t *testing.T) {
	var term bytes.Buffer
	w, _ := fakeWriter(
		map[string]bool{"xclip": true},
		map[string]bool{"/usr/bin/xclip": true},
		&term,
	)

	m, err := w.Write(context.Background(), "hi")
	if err != nil {
		t.Fatalf("Write error: %v", err)
	}
	if m != MethodOSC52 {
		t.Fatalf("method = %q, want osc52", m)
	}
	if got, want := term.String(), "\x1b]52;c;aGk=\a"; got != want {
		t.Fatalf("terminal got %q, want %q", got, want)
	}
}

func TestWriteUnavailable(t *testing.T) {
	w, _ := fakeWriter(nil, nil, nil)
	if _, err := w.Write(context.Background(), "x"); !errors.Is(err, ErrUnavailable) {
		t.Fatalf("err = %v, want ErrUnavailable", err)
	}

	w, _ = fakeWriter(map[string]bool{"pbcopy": true}, map[string]bool{"/usr/bin/pbcopy": true}, nil)
	_, err := w.Write(context.Background(), "x")
	if !errors.Is(err, ErrUnavailable) {
		t.Fatalf("err = %v, want ErrUnavailable", err)
	}
	if !bytes.Contains([]byte(err.Error()), []byte("pbcopy")) {
		t.Fatalf("err %q should name the failing command", err)
	}
}
