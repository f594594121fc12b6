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

package instructions

// Operation is the operation performed by an instruction. Operations that can
// be repeated with a REP prefix have a distinct Operation for each form of
// repetition.
type Operation uint8

// List of valid Operation values.
const (
	Invalid Operation = iota

	// 8086 and 80186
	AAA
	AAD
	AAM
	AAS
	DAA
	DAS

	CBW
	CWD

	ESC
	HLT
	WAIT

	ADC
	ADD
	SBB
	SUB
	MUL
	IMUL_1
	DIV
	IDIV
	IDIV_REP

	INC
	DEC

	IN
	OUT

	// the conditional jumps are in the order of their encoding
	JO
	JNO
	JB
	JNB
	JZ
	JNZ
	JBE
	JNBE
	JS
	JNS
	JP
	JNP
	JL
	JNL
	JLE
	JNLE

	CALLrel
	CALLabs
	CALLfar
	IRET
	RETfar
	RETnear
	JMPrel
	JMPabs
	JMPfar
	JCXZ
	INT
	INTO

	LAHF
	SAHF
	LDS
	LES
	LEA

	CMPS
	CMPS_REPE
	CMPS_REPNE
	SCAS
	SCAS_REPE
	SCAS_REPNE
	LODS
	LODS_REP
	MOVS
	MOVS_REP
	STOS
	STOS_REP

	LOOP
	LOOPE
	LOOPNE

	MOV
	NEG
	NOT
	AND
	OR
	XOR
	NOP
	POP
	POPF
	PUSH
	PUSHF

	RCL
	RCR
	ROL
	ROR
	SAL
	SAR
	SHR

	CLC
	CLD
	CLI
	STC
	STD
	STI
	CMC

	CMP
	TEST
	XCHG
	XLAT

	// undocumented 8086 operations
	SALC
	SETMO
	SETMOC

	// 80186
	BOUND
	ENTER
	LEAVE
	PUSHA
	POPA
	IMUL_3
	INS
	INS_REP
	OUTS
	OUTS_REP

	// 80286
	ARPL
	CLTS
	LAR
	LGDT
	LIDT
	LLDT
	LMSW
	LSL
	LTR
	SGDT
	SIDT
	SLDT
	SMSW
	STR
	VERR
	VERW
	LOADALL

	// 80386
	LFS
	LGS
	LSS
	MOVZX
	MOVSX
	MOVtoCr
	MOVfromCr
	MOVtoDr
	MOVfromDr
	MOVtoTr
	MOVfromTr
	IMUL_2
	BT
	BTS
	BTR
	BTC
	BSF
	BSR
	SHLDimm
	SHLDCL
	SHRDimm
	SHRDCL

	// the SETcc operations are in the order of their encoding
	SETO
	SETNO
	SETB
	SETNB
	SETZ
	SETNZ
	SETBE
	SETNBE
	SETS
	SETNS
	SETP
	SETNP
	SETL
	SETNL
	SETLE
	SETNLE

	numOperations
)

var mnemonics = [numOperations]string{
	Invalid: "invalid",

	AAA: "aaa", AAD: "aad", AAM: "aam", AAS: "aas", DAA: "daa", DAS: "das",
	CBW: "cbw", CWD: "cwd",
	ESC: "esc", HLT: "hlt", WAIT: "wait",

	ADC: "adc", ADD: "add", SBB: "sbb", SUB: "sub",
	MUL: "mul", IMUL_1: "imul", DIV: "div", IDIV: "idiv", IDIV_REP: "idiv",
	INC: "inc", DEC: "dec",
	IN: "in", OUT: "out",

	JO: "jo", JNO: "jno", JB: "jb", JNB: "jnb", JZ: "jz", JNZ: "jnz", JBE: "jbe", JNBE: "jnbe",
	JS: "js", JNS: "jns", JP: "jp", JNP: "jnp", JL: "jl", JNL: "jnl", JLE: "jle", JNLE: "jnle",

	CALLrel: "call", CALLabs: "call", CALLfar: "call",
	IRET: "iret", RETfar: "retf", RETnear: "ret",
	JMPrel: "jmp", JMPabs: "jmp", JMPfar: "jmp",
	JCXZ: "jcxz", INT: "int", INTO: "into",

	LAHF: "lahf", SAHF: "sahf", LDS: "lds", LES: "les", LEA: "lea",

	CMPS: "cmps", CMPS_REPE: "cmps", CMPS_REPNE: "cmps",
	SCAS: "scas", SCAS_REPE: "scas", SCAS_REPNE: "scas",
	LODS: "lods", LODS_REP: "lods",
	MOVS: "movs", MOVS_REP: "movs",
	STOS: "stos", STOS_REP: "stos",

	LOOP: "loop", LOOPE: "loope", LOOPNE: "loopne",

	MOV: "mov", NEG: "neg", NOT: "not", AND: "and", OR: "or", XOR: "xor",
	NOP: "nop", POP: "pop", POPF: "popf", PUSH: "push", PUSHF: "pushf",

	RCL: "rcl", RCR: "rcr", ROL: "rol", ROR: "ror", SAL: "shl", SAR: "sar", SHR: "shr",

	CLC: "clc", CLD: "cld", CLI: "cli", STC: "stc", STD: "std", STI: "sti", CMC: "cmc",

	CMP: "cmp", TEST: "test", XCHG: "xchg", XLAT: "xlat",

	SALC: "salc", SETMO: "setmo", SETMOC: "setmoc",

	BOUND: "bound", ENTER: "enter", LEAVE: "leave", PUSHA: "pusha", POPA: "popa",
	IMUL_3: "imul",
	INS: "ins", INS_REP: "ins", OUTS: "outs", OUTS_REP: "outs",

	ARPL: "arpl", CLTS: "clts", LAR: "lar", LGDT: "lgdt", LIDT: "lidt", LLDT: "lldt",
	LMSW: "lmsw", LSL: "lsl", LTR: "ltr", SGDT: "sgdt", SIDT: "sidt", SLDT: "sldt",
	SMSW: "smsw", STR: "str", VERR: "verr", VERW: "verw", LOADALL: "loadall",

	LFS: "lfs", LGS: "lgs", LSS: "lss", MOVZX: "movzx", MOVSX: "movsx",
	MOVtoCr: "mov", MOVfromCr: "mov", MOVtoDr: "mov", MOVfromDr: "mov", MOVtoTr: "mov", MOVfromTr: "mov",
	IMUL_2: "imul",
	BT: "bt", BTS: "bts", BTR: "btr", BTC: "btc", BSF: "bsf", BSR: "bsr",
	SHLDimm: "shld", SHLDCL: "shld", SHRDimm: "shrd", SHRDCL: "shrd",

	SETO: "seto", SETNO: "setno", SETB: "setb", SETNB: "setnb", SETZ: "setz", SETNZ: "setnz",
	SETBE: "setbe", SETNBE: "setnbe", SETS: "sets", SETNS: "setns", SETP: "setp", SETNP: "setnp",
	SETL: "setl", SETNL: "setnl", SETLE: "setle", SETNLE: "setnle",
}

// String returns the mnemonic of the operation. Operations that differ only
// in the repetition prefix or the form of their operands share a mnemonic.
func (op Operation) String() string {
	if op >= numOperations {
		return "unknown operation"
	}
	return mnemonics[op]
}

// IsConditionalJump returns true for the Jcc operations.
func (op Operation) IsConditionalJump() bool {
	return op >= JO && op <= JNLE
}

// IsSet returns true for the SETcc operations.
func (op Operation) IsSet() bool {
	return op >= SETO && op <= SETNLE
}

// ConditionCode returns the condition code of a Jcc or SETcc operation. The
// result is undefined for other operations.
func (op Operation) ConditionCode() uint8 {
	if op.IsSet() {
		return uint8(op - SETO)
	}
	return uint8(op - JO)
}

// RepetitionPrefix returns the prefix text for a repeated string operation.
// Returns the empty string for operations that do not repeat.
func (op Operation) RepetitionPrefix() string {
	switch op {
	case CMPS_REPE, SCAS_REPE:
		return "repe"
	case CMPS_REPNE, SCAS_REPNE:
		return "repne"
	case LODS_REP, MOVS_REP, STOS_REP, INS_REP, OUTS_REP:
		return "rep"
	}
	return ""
}

// IsStringOperation returns true for the string operations in all their
// repeated and unrepeated forms.
func (op Operation) IsStringOperation() bool {
	switch op {
	case CMPS, CMPS_REPE, CMPS_REPNE, SCAS, SCAS_REPE, SCAS_REPNE,
		LODS, LODS_REP, MOVS, MOVS_REP, STOS, STOS_REP,
		INS, INS_REP, OUTS, OUTS_REP:
		return true
	}
	return false
}

// IsRelativeFlow returns true for operations whose operand is a displacement
// from the instruction pointer.
func (op Operation) IsRelativeFlow() bool {
	switch op {
	case JMPrel, CALLrel, JCXZ, LOOP, LOOPE, LOOPNE:
		return true
	}
	return op.IsConditionalJump()
}

// UsesSourceIndex returns true for the string operations that read from the
// address in the source index register. Only this address is subject to a
// segment override.
func (op Operation) UsesSourceIndex() bool {
	switch op {
	case CMPS, CMPS_REPE, CMPS_REPNE, LODS, LODS_REP, MOVS, MOVS_REP, OUTS, OUTS_REP:
		return true
	}
	return false
}
