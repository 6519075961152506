package asm_test

import (
	"testing"

	"intvm/pkg/asm"
	"intvm/pkg/opcode"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAssemble(t *testing.T) {
	src := `
start:              ; entry point
    push_d 7
    push_d 0x10
    add
    push_d @done
    jmp
done: exit_prog
    .word 0xdead
`
	p, err := asm.Assemble(src)
	require.NoError(t, err)

	want := asm.NewBuilder().
		PushD(7).
		PushD(16).
		Emit(opcode.Add).
		PushD(22).
		Emit(opcode.Jmp).
		Emit(opcode.ExitProg).
		Word(0xdead).
		MustBytes()

	assert.Equal(t, want, p.Code)
	assert.Equal(t, map[string]int{"start": 0, "done": 22}, p.Labels)
}

func TestAssembleNegativeOperand(t *testing.T) {
	p, err := asm.Assemble("push_d -1")
	require.NoError(t, err)
	assert.Equal(t, []byte{0xC0, 0x01, 0xFF, 0xFF, 0xFF, 0xFF}, p.Code)
}

func TestAssembleErrors(t *testing.T) {
	tests := []struct {
		name string
		src  string
	}{
		{"unknown mnemonic", "frob"},
		{"missing operand", "push_d"},
		{"extra operand", "add 3"},
		{"bad number", "push_d zz"},
		{"undefined label", "push_d @nowhere"},
		{"duplicate label", "a:\na:"},
		{"label on push_s", "x:\npush_s @x"},
		{"bad word", ".word 0x10000"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := asm.Assemble(tt.src)
			assert.Error(t, err)
		})
	}
}

func TestBuilderForwardLabel(t *testing.T) {
	b := asm.NewBuilder().PushLabel("end").Emit(opcode.Jmp).Mark("end").Emit(opcode.ExitProg)
	code, err := b.Bytes()
	require.NoError(t, err)
	assert.Equal(t, []byte{0xC0, 0x01, 0, 0, 0, 8, 0x80, 0x04, 0x80, 0x10}, code)
}
