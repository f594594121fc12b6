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
	"github.com/jetsetilly/gopher86/hardware/cpu/flags"
	"github.com/jetsetilly/gopher86/hardware/cpu/instructions"
	"github.com/jetsetilly/gopher86/hardware/cpu/numeric"
	"github.com/jetsetilly/gopher86/hardware/memory/cpubus"
)

// Perform executes the instruction. The instruction pointer must already have
// been advanced past the instruction.
//
// On models before the 80286 any fault raised by the instruction is delivered
// as an interrupt and the function returns nil. On later models the fault is
// returned as an exceptions.Exception and nothing is delivered.
func Perform[E instructions.Extension](ins *instructions.Instruction[E], ctx *Context) error {
	ctx.Quirk = NoQuirk

	var err error
	switch ins.OperationSize() {
	case instructions.Byte:
		err = perform[E, uint8](ctx, ins)
	case instructions.DWord:
		err = perform[E, uint32](ctx, ins)
	default:
		err = perform[E, uint16](ctx, ins)
	}

	if err == nil || ctx.Model.HasExceptions() {
		return err
	}

	if e, ok := exceptions.As(err); ok {
		return Interrupt(ctx, e.Vector())
	}
	return err
}

// perform is instantiated for each operand width
func perform[E instructions.Extension, W numeric.Width](ctx *Context, ins *instructions.Instruction[E]) error {
	f := ctx.Flags
	op := ins.Operation()

	switch {
	case op.IsConditionalJump():
		if f.ConditionCode(op.ConditionCode()) {
			jumpRelative[E, W](ctx, ins)
		}
		return nil
	case op.IsSet():
		var v W
		if f.ConditionCode(op.ConditionCode()) {
			v = 1
		}
		return write(ctx, ins, ins.Destination(), v)
	case op.IsStringOperation():
		return stringOperation[E, W](ctx, ins)
	}

	switch op {
	case instructions.Invalid:
		if ctx.Model == instructions.I8086 {
			ctx.Quirk = InvalidAsNOP
			return nil
		}
		return exceptions.New(exceptions.InvalidOpcode)

	case instructions.NOP:
		return nil

	case instructions.ESC:
		// there is no coprocessor but the memory operand is still read
		if dp, ok := ins.MemoryOperand(); ok {
			_, err := read[E, W](ctx, ins, dp)
			return err
		}
		return nil

	// arithmetic and logic
	case instructions.ADD, instructions.ADC, instructions.SUB, instructions.SBB,
		instructions.CMP, instructions.AND, instructions.OR, instructions.XOR:
		return binary[E, W](ctx, ins)

	case instructions.TEST:
		lhs, err := read[E, W](ctx, ins, ins.Destination())
		if err != nil {
			return err
		}
		rhs, err := read[E, W](ctx, ins, ins.Source())
		if err != nil {
			return err
		}
		test(f, lhs, rhs)

	case instructions.INC, instructions.DEC, instructions.NEG, instructions.NOT:
		dst, err := Access[E, W](ctx, ins, ins.Destination(), cpubus.ReadModifyWrite)
		if err != nil {
			return err
		}
		switch op {
		case instructions.INC:
			increment(f, dst.Pointer())
		case instructions.DEC:
			decrement(f, dst.Pointer())
		case instructions.NEG:
			negate(f, dst.Pointer())
		case instructions.NOT:
			*dst.Pointer() = ^dst.Value()
		}
		dst.WriteBack()

	case instructions.MUL, instructions.IMUL_1, instructions.DIV, instructions.IDIV, instructions.IDIV_REP:
		src, err := read[E, W](ctx, ins, ins.Source())
		if err != nil {
			return err
		}
		switch op {
		case instructions.MUL:
			mul(ctx, src)
		case instructions.IMUL_1:
			imulAccumulator(ctx, src)
		case instructions.DIV:
			return div(ctx, src)
		case instructions.IDIV:
			return idiv(ctx, src, false)
		case instructions.IDIV_REP:
			ctx.Quirk = RepeatedIDIV
			return idiv(ctx, src, true)
		}

	case instructions.IMUL_2:
		src, err := read[E, W](ctx, ins, ins.Source())
		if err != nil {
			return err
		}
		dst, err := Access[E, W](ctx, ins, ins.Destination(), cpubus.ReadModifyWrite)
		if err != nil {
			return err
		}
		*dst.Pointer() = imul(f, dst.Value(), src)
		dst.WriteBack()

	case instructions.IMUL_3:
		src, err := read[E, W](ctx, ins, ins.Source())
		if err != nil {
			return err
		}
		return write(ctx, ins, ins.Destination(), imul(f, src, W(ins.Operand())))

	// decimal and accumulator adjustment
	case instructions.AAA:
		aaa(ctx)
	case instructions.AAS:
		aas(ctx)
	case instructions.DAA:
		daa(ctx)
	case instructions.DAS:
		das(ctx)
	case instructions.AAM:
		return aam(ctx, uint8(ins.Operand()))
	case instructions.AAD:
		aad(ctx, uint8(ins.Operand()))
	case instructions.SALC:
		if f.Flag(flags.Carry) {
			ctx.Registers.SetAL(0xff)
		} else {
			ctx.Registers.SetAL(0x00)
		}
	case instructions.CBW:
		if numeric.Bytes[W]() == 4 {
			ctx.Registers.SetEAX(uint32(int32(int16(ctx.Registers.AX()))))
		} else {
			ctx.Registers.SetAX(uint16(int16(int8(ctx.Registers.AL()))))
		}
	case instructions.CWD:
		lo, hi := accumulators[W]()
		var v W
		if topBit(W(ctx.Registers.Read(lo))) != 0 {
			v = numeric.Max[W]()
		}
		ctx.Registers.Write(hi, uint32(v))

	// shifts and rotates
	case instructions.ROL, instructions.ROR, instructions.RCL, instructions.RCR,
		instructions.SAL, instructions.SHR, instructions.SAR,
		instructions.SETMO, instructions.SETMOC:
		return shift[E, W](ctx, ins)

	case instructions.SHLDimm, instructions.SHLDCL, instructions.SHRDimm, instructions.SHRDCL:
		count := uint8(ins.Operand())
		if op == instructions.SHLDCL || op == instructions.SHRDCL {
			count = ctx.Registers.CL()
		}
		count &= 0x1f
		src := W(ctx.Registers.Read(ins.Source().Source))
		dst, err := Access[E, W](ctx, ins, ins.Destination(), cpubus.ReadModifyWrite)
		if err != nil {
			return err
		}
		if op == instructions.SHLDimm || op == instructions.SHLDCL {
			shld(f, dst.Pointer(), src, count)
		} else {
			shrd(f, dst.Pointer(), src, count)
		}
		dst.WriteBack()

	// bit operations
	case instructions.BT, instructions.BTS, instructions.BTR, instructions.BTC:
		return bitTest[E, W](ctx, ins)

	case instructions.BSF, instructions.BSR:
		src, err := read[E, W](ctx, ins, ins.Source())
		if err != nil {
			return err
		}
		if v, ok := bitScan(f, src, op == instructions.BSR); ok {
			return write(ctx, ins, ins.Destination(), v)
		}

	// data movement
	case instructions.MOV:
		src, err := read[E, W](ctx, ins, ins.Source())
		if err != nil {
			return err
		}
		return write(ctx, ins, ins.Destination(), src)

	case instructions.MOVZX, instructions.MOVSX:
		src, err := read[E, W](ctx, ins, ins.Source())
		if err != nil {
			return err
		}
		v := uint32(src)
		if op == instructions.MOVSX {
			v = uint32(numeric.SignExtend(src))
		}
		ctx.Registers.Write(ins.Destination().Source, v)

	case instructions.XCHG:
		a, err := Access[E, W](ctx, ins, ins.Destination(), cpubus.ReadModifyWrite)
		if err != nil {
			return err
		}
		b, err := Access[E, W](ctx, ins, ins.Source(), cpubus.ReadModifyWrite)
		if err != nil {
			return err
		}
		va, vb := a.Value(), b.Value()
		*a.Pointer() = vb
		*b.Pointer() = va
		a.WriteBack()
		b.WriteBack()

	case instructions.LEA:
		ctx.Registers.Write(ins.Destination().Source, uint32(W(EffectiveAddress(ctx, ins, ins.Source()))))

	case instructions.LDS, instructions.LES, instructions.LSS, instructions.LFS, instructions.LGS:
		return loadFarPointer[E, W](ctx, ins)

	case instructions.XLAT:
		base := instructions.BX
		if ins.AddressSize() == instructions.Address32 {
			base = instructions.EBX
		}
		address := (ctx.Registers.Read(base) + uint32(ctx.Registers.AL())) & ins.AddressSize().Mask()
		v, err := readAt[uint8](ctx, ins.Segment(), address)
		if err != nil {
			return err
		}
		ctx.Registers.SetAL(v)

	case instructions.LAHF:
		ctx.Registers.SetAH(uint8(f.Value()))
	case instructions.SAHF:
		f.FromValue(f.Value()&0xff00 | uint16(ctx.Registers.AH()))

	// stack
	case instructions.PUSH:
		v, err := read[E, W](ctx, ins, ins.Source())
		if err != nil {
			return err
		}
		if ins.Source().Source == instructions.SP && ctx.Model < instructions.I80286 {
			ctx.Quirk = PushDecrementedSP
			v -= 2
		}
		return push(ctx, v)

	case instructions.POP:
		v, err := pop[W](ctx)
		if err != nil {
			return err
		}
		if err := write(ctx, ins, ins.Destination(), v); err != nil {
			ctx.Registers.SetSP(ctx.Registers.SP() - uint16(numeric.Bytes[W]()))
			return err
		}

	case instructions.PUSHF:
		return push(ctx, W(pushFlags(ctx)))
	case instructions.POPF:
		v, err := pop[W](ctx)
		if err != nil {
			return err
		}
		f.FromValue(uint16(v))

	case instructions.PUSHA, instructions.POPA, instructions.ENTER, instructions.LEAVE:
		if numeric.Bytes[W]() == 4 {
			return frame[E, uint32](ctx, ins)
		}
		return frame[E, uint16](ctx, ins)

	// flow control
	case instructions.JMPrel:
		jumpRelative[E, W](ctx, ins)
	case instructions.CALLrel:
		if err := push(ctx, W(ctx.Registers.EIP())); err != nil {
			return err
		}
		jumpRelative[E, W](ctx, ins)
	case instructions.JMPabs:
		target, err := read[E, W](ctx, ins, ins.Source())
		if err != nil {
			return err
		}
		jump(ctx, target)
	case instructions.CALLabs:
		target, err := read[E, W](ctx, ins, ins.Source())
		if err != nil {
			return err
		}
		if err := push(ctx, W(ctx.Registers.EIP())); err != nil {
			return err
		}
		jump(ctx, target)
	case instructions.JMPfar:
		segment, offset, err := farPointer[E, W](ctx, ins)
		if err != nil {
			return err
		}
		ctx.Flow.JumpFar(segment, offset)
	case instructions.CALLfar:
		segment, offset, err := farPointer[E, W](ctx, ins)
		if err != nil {
			return err
		}
		return callFar[W](ctx, segment, offset)
	case instructions.RETnear:
		return returnNear[W](ctx, release(ins))
	case instructions.RETfar:
		return returnFar[W](ctx, release(ins), false)
	case instructions.IRET:
		return returnFar[W](ctx, 0, true)
	case instructions.JCXZ:
		if ctx.Registers.Read(counter(ins))&ins.AddressSize().Mask() == 0 {
			jumpRelative[E, W](ctx, ins)
		}
	case instructions.LOOP, instructions.LOOPE, instructions.LOOPNE:
		loop[E, W](ctx, ins)
	case instructions.INT:
		return Interrupt(ctx, uint8(ins.Operand()))
	case instructions.INTO:
		if f.Flag(flags.Overflow) {
			return Interrupt(ctx, uint8(exceptions.Overflow))
		}
	case instructions.BOUND:
		return bound[E, W](ctx, ins)
	case instructions.HLT:
		ctx.Flow.Halt()
	case instructions.WAIT:
		ctx.Flow.Wait()

	// flags
	case instructions.CLC:
		f.SetFlag(flags.Carry, false)
	case instructions.STC:
		f.SetFlag(flags.Carry, true)
	case instructions.CMC:
		f.SetFlag(flags.Carry, !f.Flag(flags.Carry))
	case instructions.CLD:
		f.SetFlag(flags.Direction, false)
	case instructions.STD:
		f.SetFlag(flags.Direction, true)
	case instructions.CLI:
		f.SetFlag(flags.Interrupt, false)
	case instructions.STI:
		f.SetFlag(flags.Interrupt, true)

	// ports
	case instructions.IN:
		v := cpubus.In[W](ctx.IO, port(ctx, ins, ins.Source()))
		ctx.Registers.Write(ins.Destination().Source, uint32(v))
	case instructions.OUT:
		cpubus.Out(ctx.IO, port(ctx, ins, ins.Destination()), W(ctx.Registers.Read(ins.Source().Source)))

	default:
		return system[E, W](ctx, ins)
	}

	return nil
}

// binary performs the two operand arithmetic and logical operations
func binary[E instructions.Extension, W numeric.Width](ctx *Context, ins *instructions.Instruction[E]) error {
	op := ins.Operation()

	src, err := read[E, W](ctx, ins, ins.Source())
	if err != nil {
		return err
	}

	intent := cpubus.ReadModifyWrite
	if op == instructions.CMP {
		intent = cpubus.Read
	}
	dst, err := Access[E, W](ctx, ins, ins.Destination(), intent)
	if err != nil {
		return err
	}

	f := ctx.Flags
	switch op {
	case instructions.ADD:
		add(f, dst.Pointer(), src, false)
	case instructions.ADC:
		add(f, dst.Pointer(), src, true)
	case instructions.SUB:
		sub(f, dst.Pointer(), src, false, true)
	case instructions.SBB:
		sub(f, dst.Pointer(), src, true, true)
	case instructions.CMP:
		sub(f, dst.Pointer(), src, false, false)
		return nil
	case instructions.AND:
		and(f, dst.Pointer(), src)
	case instructions.OR:
		or(f, dst.Pointer(), src)
	case instructions.XOR:
		xor(f, dst.Pointer(), src)
	}

	dst.WriteBack()
	return nil
}

// shift performs the shift and rotate group. The count is taken from CL or
// from the instruction. The 80186 and later use only the low five bits of the
// count
func shift[E instructions.Extension, W numeric.Width](ctx *Context, ins *instructions.Instruction[E]) error {
	count := uint8(ins.Operand())
	if ins.Source().Source == instructions.CL {
		count = ctx.Registers.CL()
	}
	if ctx.Model >= instructions.I80186 {
		count &= 0x1f
	}

	dst, err := Access[E, W](ctx, ins, ins.Destination(), cpubus.ReadModifyWrite)
	if err != nil {
		return err
	}

	f := ctx.Flags
	switch ins.Operation() {
	case instructions.ROL:
		rol(f, dst.Pointer(), count)
	case instructions.ROR:
		ror(f, dst.Pointer(), count)
	case instructions.RCL:
		rcl(f, dst.Pointer(), count)
	case instructions.RCR:
		rcr(f, dst.Pointer(), count)
	case instructions.SAL:
		shl(f, dst.Pointer(), count)
	case instructions.SHR:
		shr(f, dst.Pointer(), count)
	case instructions.SAR:
		sar(f, dst.Pointer(), count)
	case instructions.SETMO, instructions.SETMOC:
		ctx.Quirk = UndocumentedSETMO
		setmo(f, dst.Pointer(), count)
	}

	dst.WriteBack()
	return nil
}

// frame dispatches the operations that push or pop more than one value
func frame[E instructions.Extension, W uint16 | uint32](ctx *Context, ins *instructions.Instruction[E]) error {
	switch ins.Operation() {
	case instructions.PUSHA:
		return pushAll[W](ctx)
	case instructions.POPA:
		return popAll[W](ctx)
	case instructions.ENTER:
		return enter[W](ctx, uint16(ins.Displacement()), uint8(ins.Operand()))
	case instructions.LEAVE:
		return leave[W](ctx)
	}
	return nil
}

// loadFarPointer loads a register and a segment register from the offset and
// segment held in memory
func loadFarPointer[E instructions.Extension, W numeric.Width](ctx *Context, ins *instructions.Instruction[E]) error {
	address := EffectiveAddress(ctx, ins, ins.Source())
	offset, err := readAt[W](ctx, ins.Segment(), address)
	if err != nil {
		return err
	}
	segment, err := readAt[uint16](ctx, ins.Segment(), (address+uint32(numeric.Bytes[W]()))&ins.AddressSize().Mask())
	if err != nil {
		return err
	}

	var s instructions.Source
	switch ins.Operation() {
	case instructions.LDS:
		s = instructions.DS
	case instructions.LES:
		s = instructions.ES
	case instructions.LSS:
		s = instructions.SS
	case instructions.LFS:
		s = instructions.FS
	case instructions.LGS:
		s = instructions.GS
	}

	ctx.Registers.Write(ins.Destination().Source, uint32(offset))
	ctx.Registers.Write(s, uint32(segment))
	return nil
}

// release returns the number of bytes to discard from the stack on return
func release[E instructions.Extension](ins *instructions.Instruction[E]) uint16 {
	if ins.Source().Source == instructions.Immediate {
		return uint16(ins.Operand())
	}
	return 0
}

// port returns the port number of an IN or OUT instruction
func port[E instructions.Extension](ctx *Context, ins *instructions.Instruction[E], dp instructions.DataPointer) uint16 {
	if dp.Source == instructions.Immediate {
		return uint16(ins.Operand())
	}
	return ctx.Registers.DX()
}
