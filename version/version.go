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

// Package version reports the version of the application. The version number
// is set by the linker when building a release. Otherwise the version is
// derived from the build information embedded in the binary.
package version

import (
	"fmt"
	"runtime/debug"
)

// The name to use when referring to the application
const ApplicationName = "Gopher86"

// if number is empty then the project was not built with a version number.
// set with:
//
//	go build -ldflags "-X github.com/jetsetilly/gopher86/version.number=v0.1.0"
var number string

// the vcs revision. suffixed with "+dirty" if the source has been modified but
// not committed
var revision string

// version is "unreleased" if there is no version number but there is vcs
// information. it is "local" if there is neither, which happens when running
// with "go run ."
var version string

// Version returns the version string, the revision string and whether this is a
// numbered "release" version.
func Version() (string, string, bool) {
	return version, revision, version == number
}

// String returns the application name and version in a form suitable for
// printing.
func String() string {
	v, r, release := Version()
	if release {
		return fmt.Sprintf("%s %s", ApplicationName, v)
	}
	return fmt.Sprintf("%s %s (%s)", ApplicationName, v, r)
}

func init() {
	vcs, vcsRevision, vcsModified := buildInfo()

	revision = "no revision information"
	if vcsRevision != "" {
		revision = vcsRevision
		if vcsModified {
			revision = fmt.Sprintf("%s+dirty", revision)
		}
	}

	switch {
	case number != "":
		version = number
	case vcs:
		version = "unreleased"
	default:
		version = "local"
	}
}

func buildInfo() (vcs bool, vcsRevision string, vcsModified bool) {
	info, ok := debug.ReadBuildInfo()
	if !ok {
		return
	}
	for _, v := range info.Settings {
		switch v.Key {
		case "vcs":
			vcs = true
		case "vcs.revision":
			vcsRevision = v.Value
		case "vcs.modified":
			vcsModified = v.Value == "true"
		}
	}
	return
}
