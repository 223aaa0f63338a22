package ui

import (
	"io"

	"github.com/charmbracelet/x/term"
	"github.com/mattn/go-isatty"
)

// DefaultTermWidth is used when out is not a terminal or its size is unknown.
const DefaultTermWidth = 100

// DisplayContext describes where command output goes.
type DisplayContext struct {
	TermWidth int
	IsTTY     bool
}

// fdWriter is satisfied by *os.File.
type fdWriter interface {
	io.Writer
	Fd() uintptr
}

// NewDisplayContext inspects out. Writers other than a terminal get the
// default width and no styling hints.
func NewDisplayContext(out io.Writer) *DisplayContext {
	d := &DisplayContext{TermWidth: DefaultTermWidth}

	f, ok := out.(fdWriter)
	if !ok {
		return d
	}
	fd := f.Fd()
	d.IsTTY = isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
	if d.IsTTY {
		if w, _, err := term.GetSize(fd); err == nil && w > 0 {
			d.TermWidth = w
		}
	}
	return d
}

// AvailableWidth is the width left after leftMargin, never negative.
func (d *DisplayContext) AvailableWidth(leftMargin int) int {
	if w := d.TermWidth - leftMargin; w > 0 {
		return w
	}
	return 0
}
