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

// Package test bundles the helper functions used by the package tests of
// Gopher86. The helpers exist to remove the boilerplate of comparing values
// and reporting the mismatch in a consistent way.
//
// The Expect functions report a failure with t.Errorf() and let the test
// continue. The Demand functions call t.Fatalf() and should be used when the
// value being tested is required by later parts of the test. For example, when
// testing that a decoder has produced an instruction before inspecting the
// fields of that instruction.
//
// It is worth describing how the success and failure functions handle the nil
// type because it is not obvious. The nil type is considered a success and
// consequently ExpectFailure(nil) will fail and ExpectSuccess(nil) will pass.
// This is because of how errors usually work in Go, with nil indicating that
// no error has occurred.
//
// Each function accepts an optional list of tags. Tags are printed at the
// start of any failure message and are useful for identifying which entry of
// a table driven test has failed.
//
// The CompareWriter type implements the io.Writer interface and should be used
// to capture output. The Compare() function can then be used to test for
// equality with an expected string.
package test
