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

// Package flags implements the x86 status flags. The Zero, Sign and ParityOdd
// flags are stored as the raw value that implies them and are only converted
// to a boolean when the flag is queried. The remaining flags are stored as a
// non-zero value for set and zero for clear, except for the Direction flag
// which is stored as the step applied to index registers by the string
// instructions.
package flags
