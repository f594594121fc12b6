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

package decoder_test

import (
	"math/rand"
	"testing"

	"github.com/jetsetilly/gopher86/hardware/cpu/decoder"
	"github.com/jetsetilly/gopher86/hardware/cpu/instructions"
	"github.com/jetsetilly/gopher86/test"
)

// decode16 decodes a complete instruction in a single call
func decode16(t *testing.T, model instructions.Model, b ...uint8) (int, instructions.Instruction16) {
	t.Helper()
	d := decoder.NewDecoder16(model)
	return d.Decode(b)
}

func decode32(t *testing.T, b ...uint8) (int, instructions.Instruction32) {
	t.Helper()
	d := decoder.NewDecoder32(instructions.I80386)
	return d.Decode(b)
}

func TestMovImmediate(t *testing.T) {
	n, ins := decode16(t, instructions.I8086, 0xb8, 0x34, 0x12)
	test.ExpectEquality(t, n, 3)
	test.ExpectEquality(t, ins.Operation(), instructions.MOV)
	test.ExpectEquality(t, ins.Destination().Source, instructions.AX)
	test.ExpectEquality(t, ins.Source().Source, instructions.Immediate)
	test.ExpectEquality(t, ins.Operand(), uint16(0x1234))
	test.ExpectEquality(t, ins.OperationSize(), instructions.Word)
	test.ExpectEquality(t, ins.String(), "mov ax, 0x1234")
}

func TestDivide(t *testing.T) {
	n, ins := decode16(t, instructions.I8086, 0xf7, 0xf3)
	test.ExpectEquality(t, n, 2)
	test.ExpectEquality(t, ins.Operation(), instructions.DIV)
	test.ExpectEquality(t, ins.Source().Source, instructions.BX)
	test.ExpectEquality(t, ins.Destination().Source, instructions.None)
	test.ExpectEquality(t, ins.String(), "div bx")
}

func TestConditionalJump(t *testing.T) {
	n, ins := decode16(t, instructions.I8086, 0x74, 0xfe)
	test.ExpectEquality(t, n, 2)
	test.ExpectEquality(t, ins.Operation(), instructions.JZ)
	test.ExpectEquality(t, ins.SignedDisplacement(), int32(-2))
	test.ExpectEquality(t, ins.String(), "jz -0x2")
}

func TestResumption(t *testing.T) {
	d := decoder.NewDecoder16(instructions.I8086)

	n, _ := d.Decode([]uint8{0xb8})
	test.ExpectEquality(t, n, -2)
	n, _ = d.Decode([]uint8{0x34})
	test.ExpectEquality(t, n, -1)
	n, ins := d.Decode([]uint8{0x12})
	test.ExpectEquality(t, n, 3)
	test.ExpectEquality(t, ins.Operand(), uint16(0x1234))

	// prefixes and the ModRegRM byte give no hint beyond a single byte
	n, _ = d.Decode([]uint8{0x26})
	test.ExpectEquality(t, n, -1)
	n, _ = d.Decode([]uint8{0x8b})
	test.ExpectEquality(t, n, -1)
	n, _ = d.Decode([]uint8{0x47})
	test.ExpectEquality(t, n, -1)
	n, ins = d.Decode([]uint8{0x10})
	test.ExpectEquality(t, n, 4)
	test.ExpectEquality(t, ins.String(), "mov ax, word [es:bx+0x10]")

	// an empty buffer changes nothing
	n, _ = d.Decode(nil)
	test.ExpectEquality(t, n, -1)
}

func TestOverlong(t *testing.T) {
	// the 8086 abandons an instruction after 65536 bytes as a no-op
	prefixes := make([]uint8, 65537)
	for i := range prefixes {
		prefixes[i] = 0x26
	}
	n, ins := decode16(t, instructions.I8086, prefixes...)
	test.ExpectEquality(t, n, 65536)
	test.ExpectEquality(t, ins.Operation(), instructions.NOP)

	// the 80286 raises an invalid instruction after ten bytes
	n, ins = decode16(t, instructions.I80286, prefixes[:11]...)
	test.ExpectEquality(t, n, 10)
	test.ExpectEquality(t, ins.Operation(), instructions.Invalid)

	// an instruction that completes on the last permitted byte is fine
	b := append([]uint8{}, prefixes[:9]...)
	b = append(b, 0x90)
	n, ins = decode16(t, instructions.I80286, b...)
	test.ExpectEquality(t, n, 10)
	test.ExpectEquality(t, ins.Operation(), instructions.NOP)

	// the 80386 limit is fifteen bytes
	n32, ins32 := decode32(t, prefixes[:16]...)
	test.ExpectEquality(t, n32, 15)
	test.ExpectEquality(t, ins32.Operation(), instructions.Invalid)

	// the instruction is posted by the last permitted byte. no further byte is
	// needed to discover that it is too long
	d := decoder.NewDecoder16(instructions.I80286)
	for i := range 9 {
		n, _ = d.Decode(prefixes[i : i+1])
		test.DemandSuccess(t, n <= 0)
	}
	n, ins = d.Decode(prefixes[9:10])
	test.ExpectEquality(t, n, 10)
	test.ExpectEquality(t, ins.Operation(), instructions.Invalid)
}

func TestInvalidModRegRM(t *testing.T) {
	// LEA with a register operand
	n, ins := decode16(t, instructions.I80286, 0x8d, 0xc0)
	test.ExpectEquality(t, n, 2)
	test.ExpectEquality(t, ins.Operation(), instructions.Invalid)

	// a far jump through a register
	n, ins = decode16(t, instructions.I8086, 0xff, 0xe8)
	test.ExpectEquality(t, n, 2)
	test.ExpectEquality(t, ins.Operation(), instructions.Invalid)

	// POP r/m requires a reg field of zero
	n, ins = decode16(t, instructions.I80286, 0x8f, 0x06, 0x00, 0x02)
	test.ExpectEquality(t, n, 4)
	test.ExpectEquality(t, ins.String(), "pop word [0x200]")
	for _, b := range []uint8{0xc8, 0xd0, 0xf8} {
		n, ins = decode16(t, instructions.I80286, 0x8f, b)
		test.ExpectEquality(t, n, 2)
		test.ExpectEquality(t, ins.Operation(), instructions.Invalid, b)
	}
}

func TestModelDifferences(t *testing.T) {
	// 0x60 to 0x6f are conditional jumps on the 8086
	_, ins := decode16(t, instructions.I8086, 0x60, 0x02)
	test.ExpectEquality(t, ins.Operation(), instructions.JO)
	_, ins = decode16(t, instructions.I80186, 0x60)
	test.ExpectEquality(t, ins.Operation(), instructions.PUSHA)

	// 0xc0 is a return on the 8086 and a shift on the 80186
	n, ins := decode16(t, instructions.I8086, 0xc0, 0x10, 0x00)
	test.ExpectEquality(t, n, 3)
	test.ExpectEquality(t, ins.String(), "ret 0x10")
	n, ins = decode16(t, instructions.I80186, 0xc0, 0xe0, 0x04)
	test.ExpectEquality(t, n, 3)
	test.ExpectEquality(t, ins.String(), "shl al, 4")

	// 0x0f is POP CS until the 80286
	_, ins = decode16(t, instructions.I8086, 0x0f)
	test.ExpectEquality(t, ins.Operation(), instructions.POP)
	test.ExpectEquality(t, ins.Destination().Source, instructions.CS)
	n, ins = decode16(t, instructions.I80286, 0x0f, 0x06)
	test.ExpectEquality(t, n, 2)
	test.ExpectEquality(t, ins.Operation(), instructions.CLTS)

	// the undocumented shift of the 8086
	_, ins = decode16(t, instructions.I8086, 0xd2, 0xf0)
	test.ExpectEquality(t, ins.Operation(), instructions.SETMOC)
	_, ins = decode16(t, instructions.I8086, 0xd0, 0xf0)
	test.ExpectEquality(t, ins.Operation(), instructions.SETMO)

	// IDIV is repeated by a prefix only on the 8086
	_, ins = decode16(t, instructions.I8086, 0xf3, 0xf7, 0xfb)
	test.ExpectEquality(t, ins.Operation(), instructions.IDIV_REP)
	_, ins = decode16(t, instructions.I80186, 0xf3, 0xf7, 0xfb)
	test.ExpectEquality(t, ins.Operation(), instructions.IDIV)

	// the 80386 prefixes are invalid on earlier models
	n, ins = decode16(t, instructions.I80286, 0x66, 0x90)
	test.ExpectEquality(t, n, 1)
	test.ExpectEquality(t, ins.Operation(), instructions.Invalid)
}

func TestPrefixes(t *testing.T) {
	_, ins := decode16(t, instructions.I8086, 0xf3, 0xa5)
	test.ExpectEquality(t, ins.Operation(), instructions.MOVS_REP)
	test.ExpectEquality(t, ins.String(), "rep movsw")

	_, ins = decode16(t, instructions.I8086, 0xf2, 0xa6)
	test.ExpectEquality(t, ins.Operation(), instructions.CMPS_REPNE)

	_, ins = decode16(t, instructions.I8086, 0x2e, 0xac)
	test.ExpectEquality(t, ins.Segment(), instructions.CS)
	test.ExpectEquality(t, ins.String(), "cs lodsb")

	_, ins = decode16(t, instructions.I8086, 0xf0, 0x01, 0x07)
	test.ExpectSuccess(t, ins.Lock())
	test.ExpectEquality(t, ins.String(), "lock add word [bx], ax")

	// a repetition prefix on something other than a string operation is
	// ignored
	_, ins = decode16(t, instructions.I80186, 0xf3, 0x90)
	test.ExpectEquality(t, ins.Operation(), instructions.NOP)
}

func TestDefaultSegment(t *testing.T) {
	_, ins := decode16(t, instructions.I8086, 0x8b, 0x46, 0x02)
	test.ExpectEquality(t, ins.Segment(), instructions.SS)
	test.ExpectEquality(t, ins.String(), "mov ax, word [bp+0x2]")

	_, ins = decode16(t, instructions.I8086, 0x3e, 0x8b, 0x46, 0x02)
	test.ExpectEquality(t, ins.Segment(), instructions.DS)
	test.ExpectEquality(t, ins.String(), "mov ax, word [ds:bp+0x2]")

	n, ins := decode16(t, instructions.I8086, 0x8b, 0x06, 0x00, 0x01)
	test.ExpectEquality(t, n, 4)
	test.ExpectEquality(t, ins.Source().Source, instructions.DirectAddress)
	test.ExpectEquality(t, ins.Displacement(), uint16(0x100))
}

func TestOperandForms(t *testing.T) {
	tests := []struct {
		model    instructions.Model
		bytes    []uint8
		length   int
		expected string
	}{
		{instructions.I8086, []uint8{0x83, 0xc0, 0xff}, 3, "add ax, 0xffff"},
		{instructions.I8086, []uint8{0x80, 0x3f, 0x05}, 3, "cmp byte [bx], 5"},
		{instructions.I8086, []uint8{0xc7, 0x06, 0x00, 0x02, 0x34, 0x12}, 6, "mov word [0x200], 0x1234"},
		{instructions.I8086, []uint8{0xa0, 0x10, 0x00}, 3, "mov al, byte [0x10]"},
		{instructions.I8086, []uint8{0xea, 0x78, 0x56, 0x34, 0x12}, 5, "jmp 0x1234:0x5678"},
		{instructions.I8086, []uint8{0xcd, 0x21}, 2, "int 0x21"},
		{instructions.I8086, []uint8{0xcc}, 1, "int 3"},
		{instructions.I8086, []uint8{0xd4, 0x0a}, 2, "aam"},
		{instructions.I8086, []uint8{0xd1, 0xe0}, 2, "shl ax, 1"},
		{instructions.I8086, []uint8{0xd3, 0xf8}, 2, "sar ax, cl"},
		{instructions.I8086, []uint8{0xe6, 0x40}, 2, "out 0x40, al"},
		{instructions.I8086, []uint8{0xec}, 1, "in al, dx"},
		{instructions.I8086, []uint8{0x8c, 0xd8}, 2, "mov ax, ds"},
		{instructions.I8086, []uint8{0xc4, 0x1e, 0x00, 0x01}, 4, "les bx, [0x100]"},
		{instructions.I8086, []uint8{0xe8, 0x00, 0x10}, 3, "call +0x1000"},
		{instructions.I8086, []uint8{0xff, 0x1f}, 2, "call far [bx]"},
		{instructions.I80186, []uint8{0xc8, 0x10, 0x00, 0x00}, 4, "enter 0x10, 0"},
		{instructions.I80186, []uint8{0x6b, 0xc3, 0xfe}, 3, "imul ax, bx, 0xfffe"},
		{instructions.I80186, []uint8{0x6a, 0x05}, 2, "push 5"},
		{instructions.I80286, []uint8{0x0f, 0x01, 0xe0}, 3, "smsw ax"},
	}

	for _, tt := range tests {
		n, ins := decode16(t, tt.model, tt.bytes...)
		test.ExpectEquality(t, n, tt.length, tt.expected)
		test.ExpectEquality(t, ins.String(), tt.expected)
	}
}

func TestThirtyTwoBit(t *testing.T) {
	n, ins := decode32(t, 0x66, 0xb8, 0x78, 0x56, 0x34, 0x12)
	test.ExpectEquality(t, n, 6)
	test.ExpectEquality(t, ins.Operand(), uint32(0x12345678))
	test.ExpectEquality(t, ins.String(), "mov eax, 0x12345678")

	// SIB addressing
	n, ins = decode32(t, 0x66, 0x67, 0x8b, 0x04, 0x88)
	test.ExpectEquality(t, n, 5)
	test.ExpectEquality(t, ins.String(), "mov eax, dword [eax+ecx*4]")

	// no base register
	n, ins = decode32(t, 0x66, 0x67, 0x8b, 0x04, 0x8d, 0x78, 0x56, 0x34, 0x12)
	test.ExpectEquality(t, n, 9)
	test.ExpectEquality(t, ins.Source().Source, instructions.IndirectNoBase)
	test.ExpectEquality(t, ins.String(), "mov eax, dword [ecx*4+0x12345678]")

	// a base of ESP uses the stack segment
	_, ins = decode32(t, 0x67, 0x8b, 0x04, 0x24)
	test.ExpectEquality(t, ins.Segment(), instructions.SS)

	// the default size can be set to 32 bits
	d := decoder.NewDecoder32(instructions.I80386)
	d.SetDefaultSize(instructions.Address32)
	n, ins = d.Decode([]uint8{0xb8, 0x78, 0x56, 0x34, 0x12})
	test.ExpectEquality(t, n, 5)
	test.ExpectEquality(t, ins.OperationSize(), instructions.DWord)
	n, ins = d.Decode([]uint8{0x66, 0xb8, 0x34, 0x12})
	test.ExpectEquality(t, n, 4)
	test.ExpectEquality(t, ins.OperationSize(), instructions.Word)

	// two-byte opcodes
	tests := []struct {
		bytes    []uint8
		length   int
		expected string
	}{
		{[]uint8{0x0f, 0x84, 0xfc, 0xff}, 4, "jz -0x4"},
		{[]uint8{0x0f, 0x94, 0xc0}, 3, "setz al"},
		{[]uint8{0x0f, 0xb6, 0xc3}, 3, "movzx ax, bl"},
		{[]uint8{0x0f, 0xbf, 0x07}, 3, "movsx ax, word [bx]"},
		{[]uint8{0x0f, 0xa4, 0xd8, 0x04}, 4, "shld ax, bx, 4"},
		{[]uint8{0x0f, 0xad, 0xd8}, 3, "shrd ax, bx, cl"},
		{[]uint8{0x0f, 0xba, 0xe0, 0x03}, 4, "bt ax, 3"},
		{[]uint8{0x0f, 0x20, 0xc0}, 3, "mov eax, cr0"},
		{[]uint8{0x0f, 0x23, 0xf8}, 3, "mov dr7, eax"},
		{[]uint8{0x0f, 0xa0}, 2, "push fs"},
		{[]uint8{0x64, 0x8b, 0x07}, 3, "mov ax, word [fs:bx]"},
	}

	for _, tt := range tests {
		n, ins := decode32(t, tt.bytes...)
		test.ExpectEquality(t, n, tt.length, tt.expected)
		test.ExpectEquality(t, ins.String(), tt.expected)
	}

	// two-byte opcodes of the 80386 are invalid on the 80286
	_, ins16 := decode16(t, instructions.I80286, 0x0f, 0x94, 0xc0)
	test.ExpectEquality(t, ins16.Operation(), instructions.Invalid)
}

// decodeAll decodes every instruction in data by supplying chunks of the
// specified size
func decodeAll(d *decoder.Decoder[uint32], data []uint8, chunk int) ([]int, []instructions.Instruction32) {
	var lengths []int
	var decoded []instructions.Instruction32

	// bytes of the current instruction supplied by earlier calls
	var pending int

	for len(data) > 0 {
		c := min(chunk, len(data))
		n, ins := d.Decode(data[:c])
		if n > 0 {
			lengths = append(lengths, n)
			decoded = append(decoded, ins)
			data = data[n-pending:]
			pending = 0
		} else {
			data = data[c:]
			pending += c
		}
	}

	return lengths, decoded
}

func TestTotality(t *testing.T) {
	rng := rand.New(rand.NewSource(86))

	for _, model := range []instructions.Model{instructions.I8086, instructions.I80186, instructions.I80286, instructions.I80386} {
		data := make([]uint8, 4096)
		rng.Read(data)

		// whole buffer and byte at a time produce the same instructions
		wholeLengths, whole := decodeAll(decoder.NewDecoder32(model), data, len(data))
		byteLengths, single := decodeAll(decoder.NewDecoder32(model), data, 1)
		test.DemandEquality(t, len(whole), len(single))

		total := 0
		for i := range whole {
			test.ExpectEquality(t, wholeLengths[i], byteLengths[i], model)
			test.ExpectEquality(t, whole[i], single[i], model)
			test.ExpectSuccess(t, wholeLengths[i] <= model.MaxInstructionLength(), model)
			total += wholeLengths[i]

			// every instruction can be written out
			test.ExpectInequality(t, whole[i].String(), "", model)
		}
		test.ExpectSuccess(t, total <= len(data), model)
	}
}

func TestIdempotence(t *testing.T) {
	d := decoder.NewDecoder16(instructions.I80186)
	b := []uint8{0x26, 0xc7, 0x87, 0x34, 0x12, 0x78, 0x56}
	n1, ins1 := d.Decode(b)
	n2, ins2 := d.Decode(b)
	test.ExpectEquality(t, n1, 7)
	test.ExpectEquality(t, n1, n2)
	test.ExpectEquality(t, ins1, ins2)
	test.ExpectEquality(t, ins1.String(), "mov word [es:bx+0x1234], 0x5678")
}

func TestSizeRestrictions(t *testing.T) {
	defer func() {
		test.ExpectInequality(t, recover(), nil)
	}()
	d := decoder.NewDecoder32(instructions.I80286)
	d.SetDefaultSize(instructions.Address32)
}
