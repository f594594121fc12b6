// This file is part of Gopher86.
//
// Gopher86 is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// Gopher86 is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with Gopher86.  If not, see <https://www.gnu.org/licenses/>.

package easyterm

import (
	"fmt"
	"io"
	"os"

	"github.com/pkg/term"
	xterm "golang.org/x/term"
)

// the device opened by Initialise()
const controllingTerminal = "/dev/tty"

// IsTerminal returns true if the file is connected to a terminal.
func IsTerminal(f *os.File) bool {
	return xterm.IsTerminal(int(f.Fd()))
}

// Terminal is the main container for posix terminals.
type Terminal struct {
	tty    *term.Term
	output io.Writer
}

// Initialise opens the controlling terminal. Output is written to the
// io.Writer.
func Initialise(output io.Writer) (*Terminal, error) {
	if output == nil {
		return nil, fmt.Errorf("easyterm Terminal requires an output")
	}

	tty, err := term.Open(controllingTerminal)
	if err != nil {
		return nil, fmt.Errorf("easyterm: %w", err)
	}

	return &Terminal{
		tty:    tty,
		output: output,
	}, nil
}

// CleanUp restores the terminal mode and closes the terminal.
func (pt *Terminal) CleanUp() error {
	if err := pt.tty.Restore(); err != nil {
		return err
	}
	return pt.tty.Close()
}

// Print writes the formatted string to the output.
func (pt *Terminal) Print(s string, a ...any) {
	fmt.Fprintf(pt.output, s, a...)
}

// Width returns the number of columns of the output terminal. Returns zero if
// the width cannot be determined.
func (pt *Terminal) Width() int {
	f, ok := pt.output.(*os.File)
	if !ok {
		return 0
	}
	w, _, err := xterm.GetSize(int(f.Fd()))
	if err != nil {
		return 0
	}
	return w
}

// CanonicalMode puts terminal into normal, everyday canonical mode.
func (pt *Terminal) CanonicalMode() error {
	return pt.tty.Restore()
}

// CBreakMode puts terminal into cbreak mode. Keys are available without
// waiting for the return key and signals are still generated.
func (pt *Terminal) CBreakMode() error {
	return pt.tty.SetCbreak()
}

// ReadKey waits for and returns a single key press. Keys that generate more
// than one byte are returned one byte at a time.
func (pt *Terminal) ReadKey() (uint8, error) {
	var b [1]uint8
	for {
		n, err := pt.tty.Read(b[:])
		if err != nil {
			return 0, err
		}
		if n == 1 {
			return b[0], nil
		}
	}
}
