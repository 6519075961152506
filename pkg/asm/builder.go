package asm

import (
	"encoding/binary"
	"fmt"

	"intvm/pkg/opcode"
)

type fixup struct {
	at    int // offset of the 32-bit operand to patch
	label string
}

// Builder emits big-endian bytecode and resolves label references.
type Builder struct {
	buf    []byte
	labels map[string]int
	fixups []fixup
	errs   []error
}

// NewBuilder creates an empty builder
func NewBuilder() *Builder {
	return &Builder{
		buf:    make([]byte, 0, 64),
		labels: make(map[string]int),
	}
}

// Len returns the current offset, i.e. where the next instruction lands
func (b *Builder) Len() int {
	return len(b.buf)
}

// Word appends a raw 16-bit value. Used for opcodes the VM does not know.
func (b *Builder) Word(w uint16) *Builder {
	b.buf = binary.BigEndian.AppendUint16(b.buf, w)
	return b
}

func (b *Builder) dword(v uint32) *Builder {
	b.buf = binary.BigEndian.AppendUint32(b.buf, v)
	return b
}

// Emit appends an operand-less instruction
func (b *Builder) Emit(ops ...opcode.Opcode) *Builder {
	for _, op := range ops {
		b.Word(uint16(op))
	}
	return b
}

// PushD appends push_d with an immediate
func (b *Builder) PushD(v uint32) *Builder {
	return b.Emit(opcode.PushD).dword(v)
}

// PushInt appends push_d with a signed value stored in two's complement
func (b *Builder) PushInt(v int32) *Builder {
	return b.PushD(uint32(v))
}

// PushS appends the string-or-identifier push with a table index
func (b *Builder) PushS(index uint32) *Builder {
	return b.Emit(opcode.PushStringOrID).dword(index)
}

// PushLabel appends push_d whose operand is the offset of label, resolved in Bytes
func (b *Builder) PushLabel(label string) *Builder {
	b.Emit(opcode.PushD)
	b.fixups = append(b.fixups, fixup{at: len(b.buf), label: label})
	return b.dword(0)
}

// Mark binds label to the current offset
func (b *Builder) Mark(label string) *Builder {
	if _, ok := b.labels[label]; ok {
		b.errs = append(b.errs, fmt.Errorf("duplicate label %q", label))
		return b
	}
	b.labels[label] = len(b.buf)
	return b
}

// Labels returns the label -> offset table
func (b *Builder) Labels() map[string]int {
	out := make(map[string]int, len(b.labels))
	for k, v := range b.labels {
		out[k] = v
	}
	return out
}

// Bytes patches label references and returns the finished code
func (b *Builder) Bytes() ([]byte, error) {
	if len(b.errs) > 0 {
		return nil, b.errs[0]
	}

	out := append([]byte(nil), b.buf...)
	for _, f := range b.fixups {
		off, ok := b.labels[f.label]
		if !ok {
			return nil, fmt.Errorf("undefined label %q", f.label)
		}
		binary.BigEndian.PutUint32(out[f.at:], uint32(off))
	}

	return out, nil
}

// MustBytes is Bytes for code known to be well formed, such as test fixtures
func (b *Builder) MustBytes() []byte {
	code, err := b.Bytes()
	if err != nil {
		panic(err)
	}
	return code
}
