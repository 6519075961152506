package opcode_test

import (
	"testing"

	"intvm/pkg/opcode"

	"github.com/stretchr/testify/assert"
)

func TestByName(t *testing.T) {
	tests := []struct {
		input    string
		expected opcode.Opcode
	}{
		{"push_d", opcode.PushD},
		{"op_push_base", opcode.PushBase},
		{"OP_ADD", opcode.Add},
		{"push_s", opcode.PushStringOrID},
		{"fetch_external", opcode.FetchExternal},
	}

	for _, tt := range tests {
		op, ok := opcode.ByName(tt.input)
		assert.True(t, ok, tt.input)
		assert.Equal(t, tt.expected, op, tt.input)
	}

	_, ok := opcode.ByName("frobnicate")
	assert.False(t, ok)
}

func TestConsumesIdentifier(t *testing.T) {
	assert.True(t, opcode.ConsumesIdentifier(opcode.FetchExternal))
	assert.True(t, opcode.ConsumesIdentifier(opcode.StoreExternal))
	assert.True(t, opcode.ConsumesIdentifier(opcode.ExportVar))
	assert.False(t, opcode.ConsumesIdentifier(opcode.ExportProc))
	assert.False(t, opcode.ConsumesIdentifier(opcode.Call))
	assert.False(t, opcode.ConsumesIdentifier(opcode.Add))
}

func TestNames(t *testing.T) {
	assert.Equal(t, "push_d", opcode.PushD.String())
	assert.Equal(t, "unknown_dead", opcode.Opcode(0xDEAD).String())

	info, ok := opcode.Lookup(opcode.PushD)
	assert.True(t, ok)
	assert.Equal(t, 4, info.OperandBytes)
	assert.True(t, info.Executable)

	info, ok = opcode.Lookup(opcode.ExportVar)
	assert.True(t, ok)
	assert.False(t, info.Executable)
}
