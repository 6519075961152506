package script_test

import (
	"os"
	"path/filepath"
	"testing"

	"intvm/pkg/script"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const demo = `
name = "demo.int"
entry = "start"
strings = ["hello", "world"]
identifiers = ["self_obj"]
code = """
start:
    push_d 1
    exit_prog
add:
    push_base
    exit_prog
"""

[[procedure]]
name = "start"

[[procedure]]
name = "add2"
label = "add"
args = 2

[[procedure]]
name = "raw"
offset = 0
`

func TestParse(t *testing.T) {
	l, err := script.Parse([]byte(demo))
	require.NoError(t, err)

	assert.Equal(t, "demo.int", l.Name)
	assert.Len(t, l.Code, 12)

	p, err := l.Procedure("add2")
	require.NoError(t, err)
	assert.Equal(t, script.ProcedureInfo{Name: "add2", Index: 1, Offset: 8, ArgCount: 2}, *p)

	byIdx, err := l.ProcedureAt(1)
	require.NoError(t, err)
	assert.Equal(t, p, byIdx)

	raw, err := l.Procedure("raw")
	require.NoError(t, err)
	assert.Equal(t, 0, raw.Offset)
	assert.Equal(t, 2, raw.Index)

	s, err := l.StringLiteral(1)
	require.NoError(t, err)
	assert.Equal(t, "world", s)

	id, err := l.Identifier(0)
	require.NoError(t, err)
	assert.Equal(t, "self_obj", id)

	off, err := l.EntryOffset()
	require.NoError(t, err)
	assert.Equal(t, 0, off)

	names := []string{}
	for _, p := range l.Procedures() {
		names = append(names, p.Name)
	}
	assert.Equal(t, []string{"start", "add2", "raw"}, names)
}

func TestLookupFailures(t *testing.T) {
	l, err := script.Parse([]byte(demo))
	require.NoError(t, err)

	_, err = l.Procedure("missing")
	assert.ErrorIs(t, err, script.ErrProcedureNotFound)

	_, err = l.ProcedureAt(3)
	assert.ErrorIs(t, err, script.ErrUnknownIndex)

	_, err = l.StringLiteral(2)
	assert.ErrorIs(t, err, script.ErrUnknownIndex)

	_, err = l.Identifier(1)
	assert.ErrorIs(t, err, script.ErrUnknownIndex)
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name string
		src  string
	}{
		{"bad toml", `name = `},
		{"bad code", `code = "frob"`},
		{"undefined label", "code = \"exit_prog\"\n[[procedure]]\nname = \"p\"\nlabel = \"nope\""},
		{"no label or offset", "code = \"exit_prog\"\n[[procedure]]\nname = \"p\""},
		{"duplicate procedure", "code = \"exit_prog\"\n[[procedure]]\nname = \"p\"\noffset = 0\n[[procedure]]\nname = \"p\"\noffset = 0"},
		{"offset outside code", "code = \"exit_prog\"\n[[procedure]]\nname = \"p\"\noffset = 10"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := script.Parse([]byte(tt.src))
			assert.Error(t, err)
		})
	}
}

func TestLoadFileDefaultsName(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "guard.toml")
	require.NoError(t, os.WriteFile(path, []byte("code = \"exit_prog\""), 0o644))

	l, err := script.LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "guard.toml", l.Name)

	_, err = script.LoadFile(filepath.Join(dir, "missing.toml"))
	assert.Error(t, err)
}
