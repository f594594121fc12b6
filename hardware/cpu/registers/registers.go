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

package registers

import (
	"fmt"
	"strings"

	"github.com/jetsetilly/gopher86/hardware/cpu/instructions"
)

// Registers is the register file of the x86. The general purpose registers
// are stored at their widest and the narrower registers are views of them.
type Registers struct {
	general  [8]uint32
	segments [6]uint16
	ip       uint32
}

// NewRegisters is the preferred method of initialisation for the Registers
// type.
func NewRegisters() *Registers {
	r := &Registers{}
	r.Reset()
	return r
}

// Reset sets every register to zero except for CS, which is set to 0xffff.
// This is the reset state of the 8086.
func (r *Registers) Reset() {
	r.general = [8]uint32{}
	r.segments = [6]uint16{}
	r.segments[instructions.CS.RegisterNumber()] = 0xffff
	r.ip = 0
}

// AL returns the value of the AL register.
func (r *Registers) AL() uint8 {
	return uint8(r.general[0])
}

// SetAL sets the value of the AL register.
func (r *Registers) SetAL(v uint8) {
	r.general[0] = (r.general[0] & 0xffffff00) | uint32(v)
}

// CL returns the value of the CL register.
func (r *Registers) CL() uint8 {
	return uint8(r.general[1])
}

// SetCL sets the value of the CL register.
func (r *Registers) SetCL(v uint8) {
	r.general[1] = (r.general[1] & 0xffffff00) | uint32(v)
}

// DL returns the value of the DL register.
func (r *Registers) DL() uint8 {
	return uint8(r.general[2])
}

// SetDL sets the value of the DL register.
func (r *Registers) SetDL(v uint8) {
	r.general[2] = (r.general[2] & 0xffffff00) | uint32(v)
}

// BL returns the value of the BL register.
func (r *Registers) BL() uint8 {
	return uint8(r.general[3])
}

// SetBL sets the value of the BL register.
func (r *Registers) SetBL(v uint8) {
	r.general[3] = (r.general[3] & 0xffffff00) | uint32(v)
}

// AH returns the value of the AH register.
func (r *Registers) AH() uint8 {
	return uint8(r.general[0] >> 8)
}

// SetAH sets the value of the AH register.
func (r *Registers) SetAH(v uint8) {
	r.general[0] = (r.general[0] & 0xffff00ff) | uint32(v)<<8
}

// CH returns the value of the CH register.
func (r *Registers) CH() uint8 {
	return uint8(r.general[1] >> 8)
}

// SetCH sets the value of the CH register.
func (r *Registers) SetCH(v uint8) {
	r.general[1] = (r.general[1] & 0xffff00ff) | uint32(v)<<8
}

// DH returns the value of the DH register.
func (r *Registers) DH() uint8 {
	return uint8(r.general[2] >> 8)
}

// SetDH sets the value of the DH register.
func (r *Registers) SetDH(v uint8) {
	r.general[2] = (r.general[2] & 0xffff00ff) | uint32(v)<<8
}

// BH returns the value of the BH register.
func (r *Registers) BH() uint8 {
	return uint8(r.general[3] >> 8)
}

// SetBH sets the value of the BH register.
func (r *Registers) SetBH(v uint8) {
	r.general[3] = (r.general[3] & 0xffff00ff) | uint32(v)<<8
}

// AX returns the value of the AX register.
func (r *Registers) AX() uint16 {
	return uint16(r.general[0])
}

// SetAX sets the value of the AX register.
func (r *Registers) SetAX(v uint16) {
	r.general[0] = (r.general[0] & 0xffff0000) | uint32(v)
}

// CX returns the value of the CX register.
func (r *Registers) CX() uint16 {
	return uint16(r.general[1])
}

// SetCX sets the value of the CX register.
func (r *Registers) SetCX(v uint16) {
	r.general[1] = (r.general[1] & 0xffff0000) | uint32(v)
}

// DX returns the value of the DX register.
func (r *Registers) DX() uint16 {
	return uint16(r.general[2])
}

// SetDX sets the value of the DX register.
func (r *Registers) SetDX(v uint16) {
	r.general[2] = (r.general[2] & 0xffff0000) | uint32(v)
}

// BX returns the value of the BX register.
func (r *Registers) BX() uint16 {
	return uint16(r.general[3])
}

// SetBX sets the value of the BX register.
func (r *Registers) SetBX(v uint16) {
	r.general[3] = (r.general[3] & 0xffff0000) | uint32(v)
}

// SP returns the value of the SP register.
func (r *Registers) SP() uint16 {
	return uint16(r.general[4])
}

// SetSP sets the value of the SP register.
func (r *Registers) SetSP(v uint16) {
	r.general[4] = (r.general[4] & 0xffff0000) | uint32(v)
}

// BP returns the value of the BP register.
func (r *Registers) BP() uint16 {
	return uint16(r.general[5])
}

// SetBP sets the value of the BP register.
func (r *Registers) SetBP(v uint16) {
	r.general[5] = (r.general[5] & 0xffff0000) | uint32(v)
}

// SI returns the value of the SI register.
func (r *Registers) SI() uint16 {
	return uint16(r.general[6])
}

// SetSI sets the value of the SI register.
func (r *Registers) SetSI(v uint16) {
	r.general[6] = (r.general[6] & 0xffff0000) | uint32(v)
}

// DI returns the value of the DI register.
func (r *Registers) DI() uint16 {
	return uint16(r.general[7])
}

// SetDI sets the value of the DI register.
func (r *Registers) SetDI(v uint16) {
	r.general[7] = (r.general[7] & 0xffff0000) | uint32(v)
}

// EAX returns the value of the EAX register.
func (r *Registers) EAX() uint32 {
	return r.general[0]
}

// SetEAX sets the value of the EAX register.
func (r *Registers) SetEAX(v uint32) {
	r.general[0] = v
}

// ECX returns the value of the ECX register.
func (r *Registers) ECX() uint32 {
	return r.general[1]
}

// SetECX sets the value of the ECX register.
func (r *Registers) SetECX(v uint32) {
	r.general[1] = v
}

// EDX returns the value of the EDX register.
func (r *Registers) EDX() uint32 {
	return r.general[2]
}

// SetEDX sets the value of the EDX register.
func (r *Registers) SetEDX(v uint32) {
	r.general[2] = v
}

// EBX returns the value of the EBX register.
func (r *Registers) EBX() uint32 {
	return r.general[3]
}

// SetEBX sets the value of the EBX register.
func (r *Registers) SetEBX(v uint32) {
	r.general[3] = v
}

// ESP returns the value of the ESP register.
func (r *Registers) ESP() uint32 {
	return r.general[4]
}

// SetESP sets the value of the ESP register.
func (r *Registers) SetESP(v uint32) {
	r.general[4] = v
}

// EBP returns the value of the EBP register.
func (r *Registers) EBP() uint32 {
	return r.general[5]
}

// SetEBP sets the value of the EBP register.
func (r *Registers) SetEBP(v uint32) {
	r.general[5] = v
}

// ESI returns the value of the ESI register.
func (r *Registers) ESI() uint32 {
	return r.general[6]
}

// SetESI sets the value of the ESI register.
func (r *Registers) SetESI(v uint32) {
	r.general[6] = v
}

// EDI returns the value of the EDI register.
func (r *Registers) EDI() uint32 {
	return r.general[7]
}

// SetEDI sets the value of the EDI register.
func (r *Registers) SetEDI(v uint32) {
	r.general[7] = v
}

// ES returns the value of the ES segment register.
func (r *Registers) ES() uint16 {
	return r.segments[0]
}

// SetES sets the value of the ES segment register.
func (r *Registers) SetES(v uint16) {
	r.segments[0] = v
}

// CS returns the value of the CS segment register.
func (r *Registers) CS() uint16 {
	return r.segments[1]
}

// SetCS sets the value of the CS segment register.
func (r *Registers) SetCS(v uint16) {
	r.segments[1] = v
}

// SS returns the value of the SS segment register.
func (r *Registers) SS() uint16 {
	return r.segments[2]
}

// SetSS sets the value of the SS segment register.
func (r *Registers) SetSS(v uint16) {
	r.segments[2] = v
}

// DS returns the value of the DS segment register.
func (r *Registers) DS() uint16 {
	return r.segments[3]
}

// SetDS sets the value of the DS segment register.
func (r *Registers) SetDS(v uint16) {
	r.segments[3] = v
}

// FS returns the value of the FS segment register.
func (r *Registers) FS() uint16 {
	return r.segments[4]
}

// SetFS sets the value of the FS segment register.
func (r *Registers) SetFS(v uint16) {
	r.segments[4] = v
}

// GS returns the value of the GS segment register.
func (r *Registers) GS() uint16 {
	return r.segments[5]
}

// SetGS sets the value of the GS segment register.
func (r *Registers) SetGS(v uint16) {
	r.segments[5] = v
}

// IP returns the 16-bit instruction pointer.
func (r *Registers) IP() uint16 {
	return uint16(r.ip)
}

// SetIP sets the 16-bit instruction pointer. The upper half of EIP is
// cleared.
func (r *Registers) SetIP(v uint16) {
	r.ip = uint32(v)
}

// EIP returns the 32-bit instruction pointer.
func (r *Registers) EIP() uint32 {
	return r.ip
}

// SetEIP sets the 32-bit instruction pointer.
func (r *Registers) SetEIP(v uint32) {
	r.ip = v
}

// Read returns the value of the register named by the Source. Panics if the
// Source does not name a register.
func (r *Registers) Read(s instructions.Source) uint32 {
	switch {
	case s <= instructions.BL:
		return r.general[s-instructions.AL] & 0xff
	case s <= instructions.BH:
		return (r.general[s-instructions.AH] >> 8) & 0xff
	case s <= instructions.DI:
		return r.general[s-instructions.AX] & 0xffff
	case s <= instructions.EDI:
		return r.general[s-instructions.EAX]
	case s <= instructions.GS:
		return uint32(r.segments[s-instructions.ES])
	}
	panic(fmt.Sprintf("registers: not a register (%s)", s))
}

// Write sets the value of the register named by the Source. Only the bits of
// the register are taken from the value. Panics if the Source does not name a
// register.
func (r *Registers) Write(s instructions.Source, v uint32) {
	switch {
	case s <= instructions.BL:
		i := s - instructions.AL
		r.general[i] = (r.general[i] & 0xffffff00) | (v & 0xff)
	case s <= instructions.BH:
		i := s - instructions.AH
		r.general[i] = (r.general[i] & 0xffff00ff) | (v&0xff)<<8
	case s <= instructions.DI:
		i := s - instructions.AX
		r.general[i] = (r.general[i] & 0xffff0000) | (v & 0xffff)
	case s <= instructions.EDI:
		r.general[s-instructions.EAX] = v
	case s <= instructions.GS:
		r.segments[s-instructions.ES] = uint16(v)
	default:
		panic(fmt.Sprintf("registers: not a register (%s)", s))
	}
}

// Segment returns the value of a segment register.
func (r *Registers) Segment(s instructions.Source) uint16 {
	if !s.IsSegment() {
		panic(fmt.Sprintf("registers: not a segment register (%s)", s))
	}
	return r.segments[s-instructions.ES]
}

func (r *Registers) String() string {
	s := strings.Builder{}
	for i := instructions.AX; i <= instructions.DI; i++ {
		s.WriteString(fmt.Sprintf("%s=%04x ", i, r.Read(i)))
	}
	s.WriteString(fmt.Sprintf("ip=%04x\n", r.IP()))
	for i := instructions.ES; i <= instructions.DS; i++ {
		s.WriteString(fmt.Sprintf("%s=%04x ", i, r.Read(i)))
	}
	return strings.TrimSpace(s.String())
}
