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

package execution

import (
	"github.com/jetsetilly/gopher86/hardware/cpu/exceptions"
	"github.com/jetsetilly/gopher86/hardware/cpu/instructions"
	"github.com/jetsetilly/gopher86/hardware/cpu/numeric"
	"github.com/jetsetilly/gopher86/hardware/cpu/registers"
)

func invalidOpcode() error {
	return exceptions.New(exceptions.InvalidOpcode)
}

// system performs the operations that act on the CPU control state. Protected
// mode is not emulated and the operations that are only meaningful in
// protected mode raise an invalid opcode exception, as they do in real mode.
func system[E instructions.Extension, W numeric.Width](ctx *Context, ins *instructions.Instruction[E]) error {
	op := ins.Operation()

	switch op {
	case instructions.ARPL, instructions.LAR, instructions.LSL, instructions.VERR, instructions.VERW,
		instructions.LLDT, instructions.LTR, instructions.SLDT, instructions.STR, instructions.LOADALL:
		return invalidOpcode()
	}

	if ctx.Control == nil {
		return invalidOpcode()
	}

	switch op {
	case instructions.SMSW:
		return write(ctx, ins, ins.Destination(), W(ctx.Control.MachineStatus()))

	case instructions.LMSW:
		v, err := read[E, W](ctx, ins, ins.Source())
		if err != nil {
			return err
		}
		ctx.Control.SetMachineStatus(uint16(v))

	case instructions.CLTS:
		ctx.Control.ClearTaskSwitched()

	case instructions.LGDT, instructions.LIDT:
		address := EffectiveAddress(ctx, ins, ins.Source())
		limit, err := readAt[uint16](ctx, ins.Segment(), address)
		if err != nil {
			return err
		}
		base, err := readAt[uint32](ctx, ins.Segment(), (address+2)&ins.AddressSize().Mask())
		if err != nil {
			return err
		}

		// with a 16-bit operand only 24 bits of the base are used
		if numeric.Bytes[W]() != 4 {
			base &= 0x00ffffff
		}

		table := registers.GlobalDescriptorTable
		if op == instructions.LIDT {
			table = registers.InterruptDescriptorTable
		}
		ctx.Control.SetDescriptorTable(table, registers.DescriptorTableRegister{Base: base, Limit: limit})

	case instructions.SGDT, instructions.SIDT:
		table := registers.GlobalDescriptorTable
		if op == instructions.SIDT {
			table = registers.InterruptDescriptorTable
		}
		r := ctx.Control.DescriptorTable(table)

		// the 80286 stores the unused top byte of the base as all ones
		base := r.Base
		if ctx.Model == instructions.I80286 {
			base |= 0xff000000
		}

		address := EffectiveAddress(ctx, ins, ins.Destination())
		if err := ctx.Memory.PreauthoriseWrite(ins.Segment(), address, 6); err != nil {
			return err
		}
		if err := writeAt(ctx, ins.Segment(), address, r.Limit); err != nil {
			return err
		}
		return writeAt(ctx, ins.Segment(), (address+2)&ins.AddressSize().Mask(), base)

	case instructions.MOVfromCr, instructions.MOVfromDr, instructions.MOVfromTr:
		n := uint8(ins.Operand())
		var v uint32
		var ok bool
		switch op {
		case instructions.MOVfromCr:
			v, ok = ctx.Control.ControlRegister(n)
		case instructions.MOVfromDr:
			v, ok = ctx.Control.DebugRegister(n)
		case instructions.MOVfromTr:
			v, ok = ctx.Control.TestRegister(n)
		}
		if !ok {
			return invalidOpcode()
		}
		ctx.Registers.Write(ins.Destination().Source, v)

	case instructions.MOVtoCr, instructions.MOVtoDr, instructions.MOVtoTr:
		n := uint8(ins.Operand())
		v := ctx.Registers.Read(ins.Source().Source)
		var ok bool
		switch op {
		case instructions.MOVtoCr:
			ok = ctx.Control.SetControlRegister(n, v)
		case instructions.MOVtoDr:
			ok = ctx.Control.SetDebugRegister(n, v)
		case instructions.MOVtoTr:
			ok = ctx.Control.SetTestRegister(n, v)
		}
		if !ok {
			return invalidOpcode()
		}

	default:
		return invalidOpcode()
	}

	return nil
}
