package clipboard

import (
	"errors"
	"io"
	"os"
	"strings"

	"github.com/aymanbagabas/go-osc52/v2"
	"golang.org/x/term"
)

var (
	errNotSelected = errors.New("region text is not selected")
	errRemoved     = errors.New("region already removed")
	errNotTerminal = errors.New("output is not a terminal")
)

// OSC52Surface asks the terminal to set the clipboard through an OSC 52
// escape sequence. Terminals without OSC 52 support ignore it silently.
type OSC52Surface struct {
	out    io.Writer
	getenv func(string) string
}

// NewOSC52Surface writes sequences to out, or to stderr when out is nil.
func NewOSC52Surface(out io.Writer) *OSC52Surface {
	if out == nil {
		out = os.Stderr
	}
	return &OSC52Surface{out: out, getenv: os.Getenv}
}

// Insert prepares a sequence for text, wrapped for tmux or screen when the
// session runs inside one.
func (s *OSC52Surface) Insert(text string) (Region, error) {
	if f, ok := s.out.(*os.File); ok && !term.IsTerminal(int(f.Fd())) {
		return nil, errNotTerminal
	}
	seq := osc52.New(text)
	switch {
	case s.getenv("TMUX") != "":
		seq = seq.Tmux()
	case strings.HasPrefix(s.getenv("TERM"), "screen"):
		seq = seq.Screen()
	}
	return &osc52Region{out: s.out, seq: seq}, nil
}

type osc52Region struct {
	out      io.Writer
	seq      osc52.Sequence
	focused  bool
	selected bool
	removed  bool
}

func (r *osc52Region) Focus() { r.focused = true }

func (r *osc52Region) SelectAll() { r.selected = r.focused }

func (r *osc52Region) ExecCopy() error {
	if r.removed {
		return errRemoved
	}
	if !r.selected {
		return errNotSelected
	}
	_, err := r.seq.WriteTo(r.out)
	return err
}

func (r *osc52Region) Remove() {
	r.removed = true
	r.selected = false
	r.seq = osc52.Sequence{}
}
