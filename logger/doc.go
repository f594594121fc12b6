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

// Package logger is the central log of Gopher86. Log entries are tagged
// strings and the log is bounded, with the oldest entries discarded first.
//
// Every request to log is accompanied by a Permission. The Allow value can be
// used when the entry should always be made. Other implementations can be used
// to suppress logging, for example while the CPU is being driven through a
// test corpus where unmapped port accesses are expected.
package logger
