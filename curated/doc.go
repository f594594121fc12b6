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

// Package curated is a helper package for the plain Go language error type.
// Curated errors implement the error interface and are used throughout
// Gopher86 for host-side errors: bad command line input, unreadable files and
// misuse of the machine harness. Guest-visible faults raised by the CPU are
// not curated errors. They are values of the exceptions.Exception type.
//
// Curated errors are created with the Errorf() function. This is similar to
// the Errorf() function in the fmt package. It takes a formatting pattern,
// placeholder values and returns an error. The pattern is kept and used to
// differentiate errors. For example:
//
//	e := curated.Errorf("cpu: unsupported model (%s)", m)
//
//	if curated.Is(e, "cpu: unsupported model (%s)") {
//		fmt.Println("true")
//	}
//
// The Has() function is similar but checks whether the pattern occurs anywhere
// in the chain of wrapped curated errors.
//
// The Error() function normalises the message so that adjacent duplicate
// parts of the chain, separated by ": ", are removed. Wrapping an error with
// the same leading part it already has does not repeat that part:
//
//	curated.Errorf("cpu: %v", curated.Errorf("cpu: halted"))
//
// produces the message "cpu: halted".
//
// Uncurated errors given as placeholder values are reachable through the
// standard errors.Is() and errors.As() functions.
package curated
