package tui

import (
	"os"

	"github.com/mattn/go-isatty"
)

// Interactive reports whether f is attached to a terminal a user can answer on.
func Interactive(f *os.File) bool {
	fd := f.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}
