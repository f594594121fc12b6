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
	"github.com/jetsetilly/gopher86/hardware/cpu/flags"
	"github.com/jetsetilly/gopher86/hardware/cpu/instructions"
	"github.com/jetsetilly/gopher86/hardware/cpu/numeric"
	"github.com/jetsetilly/gopher86/hardware/memory/cpubus"
)

// indexRegisters returns the source and destination index registers for the
// address size of the instruction
func indexRegisters[E instructions.Extension](ins *instructions.Instruction[E]) (instructions.Source, instructions.Source) {
	if ins.AddressSize() == instructions.Address32 {
		return instructions.ESI, instructions.EDI
	}
	return instructions.SI, instructions.DI
}

// stringIteration performs one element of a string operation. The index
// registers are not changed
func stringIteration[E instructions.Extension, W numeric.Width](ctx *Context, ins *instructions.Instruction[E]) error {
	si, di := indexRegisters(ins)
	source := ctx.Registers.Read(si)
	destination := ctx.Registers.Read(di)
	accumulator := instructions.Register(0, ins.OperationSize())

	switch ins.Operation() {
	case instructions.MOVS, instructions.MOVS_REP:
		v, err := readAt[W](ctx, ins.Segment(), source)
		if err != nil {
			return err
		}
		return writeAt(ctx, instructions.ES, destination, v)

	case instructions.CMPS, instructions.CMPS_REPE, instructions.CMPS_REPNE:
		lhs, err := readAt[W](ctx, ins.Segment(), source)
		if err != nil {
			return err
		}
		rhs, err := readAt[W](ctx, instructions.ES, destination)
		if err != nil {
			return err
		}
		sub(ctx.Flags, &lhs, rhs, false, false)

	case instructions.SCAS, instructions.SCAS_REPE, instructions.SCAS_REPNE:
		rhs, err := readAt[W](ctx, instructions.ES, destination)
		if err != nil {
			return err
		}
		lhs := W(ctx.Registers.Read(accumulator))
		sub(ctx.Flags, &lhs, rhs, false, false)

	case instructions.LODS, instructions.LODS_REP:
		v, err := readAt[W](ctx, ins.Segment(), source)
		if err != nil {
			return err
		}
		ctx.Registers.Write(accumulator, uint32(v))

	case instructions.STOS, instructions.STOS_REP:
		return writeAt(ctx, instructions.ES, destination, W(ctx.Registers.Read(accumulator)))

	case instructions.INS, instructions.INS_REP:
		v := cpubus.In[W](ctx.IO, ctx.Registers.DX())
		return writeAt(ctx, instructions.ES, destination, v)

	case instructions.OUTS, instructions.OUTS_REP:
		v, err := readAt[W](ctx, ins.Segment(), source)
		if err != nil {
			return err
		}
		cpubus.Out(ctx.IO, ctx.Registers.DX(), v)
	}

	return nil
}

// advanceIndexes moves the index registers used by the string operation on
// to the next element
func advanceIndexes[E instructions.Extension, W numeric.Width](ctx *Context, ins *instructions.Instruction[E]) {
	si, di := indexRegisters(ins)
	step := uint32(ctx.Flags.DirectionStep(numeric.Bytes[W]()))

	op := ins.Operation()
	if op.UsesSourceIndex() {
		ctx.Registers.Write(si, ctx.Registers.Read(si)+step)
	}
	switch op {
	case instructions.LODS, instructions.LODS_REP, instructions.OUTS, instructions.OUTS_REP:
	default:
		ctx.Registers.Write(di, ctx.Registers.Read(di)+step)
	}
}

// stringOperation performs one element of a string operation. A repeated
// operation does nothing if the counter is zero. Otherwise the counter is
// decremented and, if the repetition is to continue, the flow controller is
// asked to perform the instruction again.
//
// Models up to the 80286 advance the index registers and decrement the counter
// for an element that faults. The 80386 leaves them unchanged.
func stringOperation[E instructions.Extension, W numeric.Width](ctx *Context, ins *instructions.Instruction[E]) error {
	op := ins.Operation()
	repeated := op.RepetitionPrefix() != ""
	c := counter(ins)
	mask := ins.AddressSize().Mask()

	if repeated && ctx.Registers.Read(c)&mask == 0 {
		return nil
	}

	err := stringIteration[E, W](ctx, ins)
	if err != nil {
		if ctx.Model > instructions.I80286 {
			return err
		}
		ctx.Quirk = StringFaultAdvance
	}

	advanceIndexes[E, W](ctx, ins)

	if !repeated {
		return err
	}

	count := ctx.Registers.Read(c) - 1
	ctx.Registers.Write(c, count)
	if err != nil || count&mask == 0 {
		return err
	}

	switch op {
	case instructions.CMPS_REPE, instructions.SCAS_REPE:
		if !ctx.Flags.Flag(flags.Zero) {
			return nil
		}
	case instructions.CMPS_REPNE, instructions.SCAS_REPNE:
		if ctx.Flags.Flag(flags.Zero) {
			return nil
		}
	}

	ctx.Flow.RepeatLast()
	return nil
}
