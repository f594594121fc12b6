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

package exceptions_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jetsetilly/gopher86/hardware/cpu/exceptions"
	"github.com/jetsetilly/gopher86/test"
)

func TestException(t *testing.T) {
	e := exceptions.New(exceptions.DivideError)
	test.ExpectEquality(t, e.Error(), "exception: divide error")
	test.ExpectEquality(t, e.Vector(), uint8(0))

	g := exceptions.WithCode(exceptions.GeneralProtectionFault, 0)
	test.ExpectEquality(t, g.Error(), "exception: general protection fault (code 0000)")

	var err error = g
	test.ExpectSuccess(t, errors.Is(err, exceptions.New(exceptions.GeneralProtectionFault)))
	test.ExpectFailure(t, errors.Is(err, exceptions.New(exceptions.DivideError)))

	// exceptions survive wrapping
	w := fmt.Errorf("cpu: %w", err)
	x, ok := exceptions.As(w)
	test.ExpectSuccess(t, ok)
	test.ExpectEquality(t, x.Cause, exceptions.GeneralProtectionFault)

	_, ok = exceptions.As(errors.New("not an exception"))
	test.ExpectFailure(t, ok)
}
