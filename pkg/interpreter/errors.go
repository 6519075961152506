package interpreter

import (
	"errors"
	"fmt"

	"intvm/pkg/opcode"
	"intvm/pkg/script"
)

var (
	ErrDataStackUnderflow   = errors.New("data stack underflow")
	ErrReturnStackUnderflow = errors.New("return stack underflow")
	ErrWrongReturnEntry     = errors.New("unexpected return stack entry")
	ErrArgCountMismatch     = errors.New("argument count mismatch")
	ErrTypeMismatch         = errors.New("operand type mismatch")
	ErrBadVariable          = errors.New("variable slot out of range")
	ErrMaxStepsExceeded     = errors.New("maximum steps exceeded")

	ErrProcedureNotFound = script.ErrProcedureNotFound
)

// UnimplementedOpcodeError describes a graceful stop on an opcode outside the
// instruction set. Step and Run never return it; Call does, since the stopped
// procedure produced no result. The listing logged for the stop begins at PC,
// so the offending word is its first line.
type UnimplementedOpcodeError struct {
	Opcode opcode.Opcode
	PC     int
	Script string
}

func (e *UnimplementedOpcodeError) Error() string {
	return fmt.Sprintf("unimplemented opcode 0x%04x (pc=0x%x) in %s", uint16(e.Opcode), e.PC, e.Script)
}
