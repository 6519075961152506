package asm

import (
	"bufio"
	"fmt"
	"strconv"
	"strings"

	"intvm/pkg/opcode"
)

// Program is assembled bytecode plus its label offsets.
type Program struct {
	Code   []byte
	Labels map[string]int
}

// Assemble translates a text listing into bytecode.
//
// One instruction per line: `mnemonic [operand]`. A line may start with
// `label:`. Operands are decimal, 0x-hex or `@label`; negative numbers are
// stored as 32-bit two's complement. `.word N` emits a raw 16-bit value.
// Everything after `;` is a comment.
func Assemble(src string) (*Program, error) {
	b := NewBuilder()

	sc := bufio.NewScanner(strings.NewReader(src))
	line := 0
	for sc.Scan() {
		line++
		text := sc.Text()
		if i := strings.IndexByte(text, ';'); i >= 0 {
			text = text[:i]
		}
		text = strings.TrimSpace(text)

		if i := strings.IndexByte(text, ':'); i >= 0 {
			label := strings.TrimSpace(text[:i])
			if label == "" || strings.ContainsAny(label, " \t") {
				return nil, fmt.Errorf("bad label %q at Line: %d", text[:i], line)
			}
			b.Mark(label)
			text = strings.TrimSpace(text[i+1:])
		}
		if text == "" {
			continue
		}

		if err := assembleLine(b, strings.Fields(text)); err != nil {
			return nil, fmt.Errorf("%w at Line: %d", err, line)
		}
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}

	code, err := b.Bytes()
	if err != nil {
		return nil, err
	}

	return &Program{Code: code, Labels: b.Labels()}, nil
}

func assembleLine(b *Builder, fields []string) error {
	mnemonic := fields[0]
	args := fields[1:]

	if mnemonic == ".word" {
		if len(args) != 1 {
			return fmt.Errorf(".word takes one operand")
		}
		n, err := strconv.ParseUint(args[0], 0, 16)
		if err != nil {
			return fmt.Errorf("bad .word operand %q", args[0])
		}
		b.Word(uint16(n))
		return nil
	}

	op, ok := opcode.ByName(mnemonic)
	if !ok {
		return fmt.Errorf("unknown mnemonic %q", mnemonic)
	}
	info, _ := opcode.Lookup(op)

	if info.OperandBytes == 0 {
		if len(args) != 0 {
			return fmt.Errorf("%s takes no operand", info.Name)
		}
		b.Emit(op)
		return nil
	}

	if len(args) != 1 {
		return fmt.Errorf("%s takes one operand", info.Name)
	}

	if strings.HasPrefix(args[0], "@") {
		if op != opcode.PushD {
			return fmt.Errorf("label operand only valid for push_d")
		}
		b.PushLabel(args[0][1:])
		return nil
	}

	v, err := parseOperand(args[0])
	if err != nil {
		return err
	}
	b.Emit(op).dword(v)
	return nil
}

func parseOperand(s string) (uint32, error) {
	if strings.HasPrefix(s, "-") {
		n, err := strconv.ParseInt(s, 0, 32)
		if err != nil {
			return 0, fmt.Errorf("bad operand %q", s)
		}
		return uint32(int32(n)), nil
	}

	n, err := strconv.ParseUint(s, 0, 32)
	if err != nil {
		return 0, fmt.Errorf("bad operand %q", s)
	}
	return uint32(n), nil
}
