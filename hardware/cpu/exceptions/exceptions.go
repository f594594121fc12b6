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

// Package exceptions defines the faults that can be raised during the
// execution of an instruction. On models before the 80286 a fault is
// delivered as an interrupt through the interrupt vector table. On the 80286
// and later the fault is returned to the surrounding machine as an Exception.
package exceptions

import (
	"errors"
	"fmt"
)

// Cause is the interrupt vector of the fault.
type Cause uint8

// List of valid Cause values.
const (
	DivideError               Cause = 0
	SingleStep                Cause = 1
	NMI                       Cause = 2
	Breakpoint                Cause = 3
	Overflow                  Cause = 4
	BoundRangeExceeded        Cause = 5
	InvalidOpcode             Cause = 6
	DeviceNotAvailable        Cause = 7
	DoubleFault               Cause = 8
	CoprocessorSegmentOverrun Cause = 9
	InvalidTSS                Cause = 10
	SegmentNotPresent         Cause = 11
	StackSegmentFault         Cause = 12
	GeneralProtectionFault    Cause = 13
	PageFault                 Cause = 14
	FloatingPointException    Cause = 16
	AlignmentCheck            Cause = 17
)

func (c Cause) String() string {
	switch c {
	case DivideError:
		return "divide error"
	case SingleStep:
		return "single step"
	case NMI:
		return "nmi"
	case Breakpoint:
		return "breakpoint"
	case Overflow:
		return "overflow"
	case BoundRangeExceeded:
		return "bound range exceeded"
	case InvalidOpcode:
		return "invalid opcode"
	case DeviceNotAvailable:
		return "device not available"
	case DoubleFault:
		return "double fault"
	case CoprocessorSegmentOverrun:
		return "coprocessor segment overrun"
	case InvalidTSS:
		return "invalid tss"
	case SegmentNotPresent:
		return "segment not present"
	case StackSegmentFault:
		return "stack segment fault"
	case GeneralProtectionFault:
		return "general protection fault"
	case PageFault:
		return "page fault"
	case FloatingPointException:
		return "floating point exception"
	case AlignmentCheck:
		return "alignment check"
	}
	return fmt.Sprintf("interrupt %d", uint8(c))
}

// Exception is a fault raised during the execution of an instruction. Some
// causes are accompanied by an error code.
type Exception struct {
	Cause   Cause
	Code    uint16
	HasCode bool
}

// New returns an Exception with no error code.
func New(cause Cause) Exception {
	return Exception{Cause: cause}
}

// WithCode returns an Exception with an error code.
func WithCode(cause Cause, code uint16) Exception {
	return Exception{Cause: cause, Code: code, HasCode: true}
}

// Error implements the error interface.
func (e Exception) Error() string {
	if e.HasCode {
		return fmt.Sprintf("exception: %s (code %04x)", e.Cause, e.Code)
	}
	return fmt.Sprintf("exception: %s", e.Cause)
}

// Is returns true if target is an Exception with the same cause. The error
// code is not compared.
func (e Exception) Is(target error) bool {
	var t Exception
	if errors.As(target, &t) {
		return t.Cause == e.Cause
	}
	return false
}

// Vector returns the interrupt vector through which the exception is
// delivered.
func (e Exception) Vector() uint8 {
	return uint8(e.Cause)
}

// As returns the Exception contained in err. The second return value is false
// if err is not an Exception.
func As(err error) (Exception, bool) {
	var e Exception
	if errors.As(err, &e) {
		return e, true
	}
	return Exception{}, false
}
