package disasm

import (
	"fmt"
	"strconv"
	"strings"

	"intvm/pkg/color"
	"intvm/pkg/opcode"
	"intvm/pkg/script"
	"intvm/pkg/stream"
)

// Lister renders instruction listings. The zero value is ready to use.
type Lister struct {
	// Limit caps the number of instructions listed (0 = until end of code)
	Limit int
}

// Disassemble lists s from the cursor's current position to the end of the
// code. The cursor is left wherever listing stopped; callers that care save
// and restore it.
func (l Lister) Disassemble(s *script.Script, c *stream.Cursor) (string, error) {
	var sb strings.Builder
	n := 0
	for c.Offset() < c.Len() {
		if l.Limit > 0 && n >= l.Limit {
			break
		}
		line, err := Instruction(s, c)
		if err != nil {
			fmt.Fprintf(&sb, "%s  %s\n", color.CyanText(fmt.Sprintf("%04x", c.Offset())), color.RedText("<truncated>"))
			break
		}
		sb.WriteString(line)
		sb.WriteByte('\n')
		n++
	}

	return sb.String(), nil
}

// Instruction disassembles the instruction at the cursor and advances past it.
func Instruction(s *script.Script, c *stream.Cursor) (string, error) {
	pos := c.Offset()
	raw, err := c.Read16()
	if err != nil {
		return "", err
	}
	op := opcode.Opcode(raw)
	addr := color.CyanText(fmt.Sprintf("%04x", pos))

	info, ok := opcode.Lookup(op)
	if !ok {
		return fmt.Sprintf("%s  %s %s", addr, color.RedText(".word"), fmt.Sprintf("0x%04x", raw)), nil
	}
	if info.OperandBytes == 0 {
		return fmt.Sprintf("%s  %s", addr, color.YellowText(info.Name)), nil
	}

	v, err := c.Read32()
	if err != nil {
		return "", err
	}
	operand := color.BlueText(strconv.FormatUint(uint64(v), 10))

	if op == opcode.PushStringOrID && s != nil {
		if next, err := c.Peek16(); err == nil && opcode.ConsumesIdentifier(opcode.Opcode(next)) {
			if name, err := s.Identifier(v); err == nil {
				operand += color.GrayText(" ; ident " + name)
			}
		} else if str, err := s.StringLiteral(v); err == nil {
			operand += color.GrayText(" ; " + strconv.Quote(str))
		}
	}

	return fmt.Sprintf("%s  %s %s", addr, color.YellowText(info.Name), operand), nil
}

// Procedures renders the procedure table
func Procedures(s *script.Script) string {
	var sb strings.Builder
	for _, p := range s.Procedures() {
		fmt.Fprintf(&sb, "%3d  %-24s @%04x  args=%d\n", p.Index, p.Name, p.Offset, p.ArgCount)
	}
	return sb.String()
}
