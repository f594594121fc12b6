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
	"fmt"

	"github.com/jetsetilly/gopher86/hardware/cpu/instructions"
	"github.com/jetsetilly/gopher86/hardware/cpu/numeric"
	"github.com/jetsetilly/gopher86/hardware/cpu/registers"
	"github.com/jetsetilly/gopher86/hardware/memory/cpubus"
)

// EffectiveAddress returns the offset within its segment of the memory
// operand described by the DataPointer. Each part of the address is masked to
// the address size of the instruction before the parts are added together.
//
// Panics if the DataPointer does not refer to memory.
func EffectiveAddress[E instructions.Extension](ctx *Context, ins *instructions.Instruction[E], dp instructions.DataPointer) uint32 {
	size := ins.AddressSize()
	mask := size.Mask()
	displacement := uint32(ins.Displacement()) & mask

	switch dp.Source {
	case instructions.DirectAddress:
		return displacement
	case instructions.Indirect, instructions.IndirectNoBase:
	default:
		panic(fmt.Sprintf("execution: effective address of a non-memory operand (%s)", dp.Source))
	}

	var address uint32
	if dp.Source == instructions.Indirect {
		address = ctx.Registers.Read(instructions.Register(dp.SIB.Base(), size.DataSize())) & mask
	}
	if dp.SIB.HasIndex() {
		index := ctx.Registers.Read(instructions.Register(dp.SIB.Index(), size.DataSize()))
		address += (index << dp.SIB.Scale()) & mask
	}

	return (address + displacement) & mask
}

// Accessor is a resolved operand. The operand is either a register, memory or
// an immediate value. Primitive operations work on the value pointed to by
// Pointer() and the result is committed with WriteBack().
type Accessor[W numeric.Width] struct {
	// a pointer provided by memory. nil if the operand is not in memory
	memory *W
	mem    cpubus.Memory

	// shadow of a register or the immediate value
	value    W
	register instructions.Source
	regs     *registers.Registers
	writable bool
}

// Pointer returns a pointer to the value of the operand. For a Write access
// the value pointed to is undefined until it is written.
func (a *Accessor[W]) Pointer() *W {
	if a.memory != nil {
		return a.memory
	}
	return &a.value
}

// Value returns the value of the operand.
func (a *Accessor[W]) Value() W {
	return *a.Pointer()
}

// WriteBack commits the value of the operand to the register or to memory.
func (a *Accessor[W]) WriteBack() {
	if a.memory != nil {
		a.mem.WriteBack()
		return
	}
	if a.writable {
		a.regs.Write(a.register, uint32(a.value))
	}
}

// IsMemory returns true if the operand is in memory.
func (a *Accessor[W]) IsMemory() bool {
	return a.memory != nil
}

// Access resolves the DataPointer of an instruction for the specified intent.
// A register can be written through the Accessor only if the intent is a
// write. An immediate value can never be written.
//
// Panics if the DataPointer does not name an operand.
func Access[E instructions.Extension, W numeric.Width](ctx *Context, ins *instructions.Instruction[E],
	dp instructions.DataPointer, intent cpubus.AccessIntent) (Accessor[W], error) {

	switch {
	case dp.Source.IsRegister():
		a := Accessor[W]{
			register: dp.Source,
			regs:     ctx.Registers,
			writable: intent.IsWrite(),
		}
		if intent != cpubus.Write {
			a.value = W(ctx.Registers.Read(dp.Source))
		}
		return a, nil

	case dp.Source == instructions.Immediate:
		return Accessor[W]{value: W(ins.Operand())}, nil

	case dp.Source.IsMemory():
		p, err := cpubus.Access[W](ctx.Memory, ins.Segment(), EffectiveAddress(ctx, ins, dp), intent)
		if err != nil {
			return Accessor[W]{}, err
		}
		return Accessor[W]{memory: p, mem: ctx.Memory}, nil
	}

	panic(fmt.Sprintf("execution: access of an operand that does not exist (%s)", dp.Source))
}

// read is a convenience function that returns the value of an operand
func read[E instructions.Extension, W numeric.Width](ctx *Context, ins *instructions.Instruction[E], dp instructions.DataPointer) (W, error) {
	a, err := Access[E, W](ctx, ins, dp, cpubus.Read)
	if err != nil {
		return 0, err
	}
	return a.Value(), nil
}

// write is a convenience function that stores a value to an operand
func write[E instructions.Extension, W numeric.Width](ctx *Context, ins *instructions.Instruction[E], dp instructions.DataPointer, v W) error {
	a, err := Access[E, W](ctx, ins, dp, cpubus.Write)
	if err != nil {
		return err
	}
	*a.Pointer() = v
	a.WriteBack()
	return nil
}

// readAt reads a value from a segment and offset. Used for instructions with
// more than one value at a memory operand
func readAt[W numeric.Width](ctx *Context, segment instructions.Source, offset uint32) (W, error) {
	p, err := cpubus.Access[W](ctx.Memory, segment, offset, cpubus.Read)
	if err != nil {
		return 0, err
	}
	return *p, nil
}

// readPreauthorisedAt reads a value from an address that has been checked by
// one of the Preauthorise functions of Memory
func readPreauthorisedAt[W numeric.Width](ctx *Context, segment instructions.Source, offset uint32) (W, error) {
	p, err := cpubus.Access[W](ctx.Memory, segment, offset, cpubus.PreauthorisedRead)
	if err != nil {
		return 0, err
	}
	return *p, nil
}

// writeAt stores a value to a segment and offset
func writeAt[W numeric.Width](ctx *Context, segment instructions.Source, offset uint32, v W) error {
	p, err := cpubus.Access[W](ctx.Memory, segment, offset, cpubus.Write)
	if err != nil {
		return err
	}
	*p = v
	ctx.Memory.WriteBack()
	return nil
}
