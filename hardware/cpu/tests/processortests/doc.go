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

// Package processortests runs the 8088 single-step tests maintained by the
// SingleStepTests project.
//
// https://github.com/SingleStepTests/8088
//
// The tests are large and are not included in the repository. Copy the gzipped
// JSON files and the metadata.json file from the v2 directory on Github to the
// 8088/v2 directory in this package. The test is skipped if the directory is
// missing.
package processortests
