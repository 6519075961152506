package interpreter

import (
	"bytes"
	"io"
	"testing"

	"intvm/pkg/asm"
	"intvm/pkg/color"
	"intvm/pkg/script"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/require"
)

// epilogue returns the value on top of the data stack to the caller.
const epilogue = `
    d_to_a
    swapa
    pop_to_base
    pop_base
    a_to_d
    pop_return
`

type proc struct {
	name  string
	label string
	args  int
}

type fixture struct {
	strings     map[uint32]string
	identifiers map[uint32]string
}

// load assembles src into a script whose procedures start at the named labels.
func load(t *testing.T, src string, procs []proc, fx fixture) *script.Script {
	t.Helper()

	p, err := asm.Assemble(src)
	require.NoError(t, err)

	infos := make([]script.ProcedureInfo, 0, len(procs))
	for _, pr := range procs {
		label := pr.label
		if label == "" {
			label = pr.name
		}
		off, ok := p.Labels[label]
		require.True(t, ok, "label %q", label)
		infos = append(infos, script.ProcedureInfo{Name: pr.name, Offset: off, ArgCount: pr.args})
	}

	s, err := script.New("test.int", p.Code, infos, fx.strings, fx.identifiers)
	require.NoError(t, err)
	return s
}

func quietLogger() *log.Logger {
	return log.New(io.Discard)
}

func bufferLogger() (*log.Logger, *bytes.Buffer) {
	color.EnableColor(false)
	buf := &bytes.Buffer{}
	return log.New(buf), buf
}

func newTestVM(t *testing.T, src string, procs ...proc) *Interpreter {
	t.Helper()
	return NewInterpreter(load(t, src, procs, fixture{}), WithLogger(quietLogger()))
}
