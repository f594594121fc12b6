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

package disassembly

import (
	"bytes"
	"io"
	"strings"
)

// GrepScope limits the scope of the search.
type GrepScope int

// List of available scopes.
const (
	GrepMnemonic GrepScope = iota
	GrepOperand
	GrepAll
)

// Grep searches the disassembly for the specified search string. Matching
// entries are written to io.Writer in the same format as the Write()
// function. Returns the number of matches.
func (dsm *Disassembly) Grep(output io.Writer, scope GrepScope, search string, caseSensitive bool) (int, error) {
	var s string
	var matches int

	if !caseSensitive {
		search = strings.ToUpper(search)
	}

	for _, e := range dsm.Entries {
		// line representation of the entry. printed in case of a match
		line := &bytes.Buffer{}
		if err := dsm.WriteLine(line, WriteAttr{ByteCode: true}, e); err != nil {
			return matches, err
		}

		// limit scope of grep to the correct field
		switch scope {
		case GrepMnemonic:
			s = e.Mnemonic
		case GrepOperand:
			s = e.Operands
		case GrepAll:
			s = line.String()
		}

		if !caseSensitive {
			s = strings.ToUpper(s)
		}

		if strings.Contains(s, search) {
			matches++
			if _, err := output.Write(line.Bytes()); err != nil {
				return matches, err
			}
		}
	}

	return matches, nil
}
