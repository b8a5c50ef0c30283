package clipboard

import (
	"context"

	sysclip "github.com/atotto/clipboard"
)

// SystemWriter writes to the OS clipboard: wl-copy, xclip or xsel on Linux,
// pbcopy on macOS and the Win32 clipboard API on Windows.
type SystemWriter struct {
	unsupported bool
	writeAll    func(string) error
}

// NewSystemWriter returns a writer backed by the platform clipboard.
func NewSystemWriter() *SystemWriter {
	return &SystemWriter{
		unsupported: sysclip.Unsupported,
		writeAll:    sysclip.WriteAll,
	}
}

// WriteText returns ErrUnavailable when the platform has no clipboard tool.
// A write still running when ctx is done is abandoned and ctx.Err returned.
func (w *SystemWriter) WriteText(ctx context.Context, text string) error {
	if w.unsupported {
		return ErrUnavailable
	}
	done := make(chan error, 1)
	go func() {
		done <- w.writeAll(text)
	}()
	select {
	case err := <-done:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}
