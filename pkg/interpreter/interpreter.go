package interpreter

import (
	"fmt"

	"intvm/pkg/disasm"
	"intvm/pkg/opcode"
	"intvm/pkg/script"
	"intvm/pkg/stack"
	"intvm/pkg/stream"

	"github.com/charmbracelet/log"
)

// Disassembler produces a listing of s starting at the cursor position.
type Disassembler interface {
	Disassemble(s *script.Script, c *stream.Cursor) (string, error)
}

// Interpreter executes one compiled script. It is not safe for concurrent
// use; run one Interpreter per script-bearing object.
type Interpreter struct {
	script *script.Script
	cursor *stream.Cursor

	pc     int                 // absolute byte offset of the next instruction
	data   *stack.Stack[Value] // operands, globals and locals
	ret    *stack.Stack[ReturnEntry]
	global int // data stack index of global variable 0
	local  int // data stack index of local variable 0
	halted bool

	stop *UnimplementedOpcodeError // set when the last Step hit an unknown opcode

	logger           *log.Logger
	disassembler     Disassembler
	disasmOnUnimplOp bool

	maxSteps int // maximum steps per Run (0 = unlimited)
	steps    int // steps executed in the current Run
}

type Option func(*Interpreter)

// WithLogger sets the logger used for tracing and diagnostics
func WithLogger(l *log.Logger) Option {
	return func(i *Interpreter) { i.logger = l }
}

// WithMaxSteps bounds the number of instructions a single Run may execute
func WithMaxSteps(n int) Option {
	return func(i *Interpreter) { i.maxSteps = n }
}

// WithDisassembler replaces the default listing used for diagnostics
func WithDisassembler(d Disassembler) Option {
	return func(i *Interpreter) { i.disassembler = d }
}

// WithDisasmOnUnimplemented logs a listing of the remaining code when an
// unknown opcode stops execution
func WithDisasmOnUnimplemented(enable bool) Option {
	return func(i *Interpreter) { i.disasmOnUnimplOp = enable }
}

// NewInterpreter creates an interpreter over s with the program counter at 0
func NewInterpreter(s *script.Script, opts ...Option) *Interpreter {
	it := &Interpreter{
		script:           s,
		cursor:           stream.NewCursor(s.Code),
		data:             stack.NewStack[Value](),
		ret:              stack.NewStack[ReturnEntry](),
		disassembler:     disasm.Lister{},
		disasmOnUnimplOp: true,
	}

	for _, o := range opts {
		o(it)
	}

	if it.logger == nil {
		it.logger = log.Default()
	}

	return it
}

// Script returns the script being executed
func (i *Interpreter) Script() *script.Script {
	return i.script
}

// PC returns the program counter
func (i *Interpreter) PC() int {
	return i.pc
}

// SetPC moves the program counter, e.g. to start running at an entry label
func (i *Interpreter) SetPC(pc int) {
	i.pc = pc
}

func (i *Interpreter) Halted() bool {
	return i.halted
}

// Unimplemented returns the stop recorded by the last Step, if it hit an
// opcode outside the instruction set
func (i *Interpreter) Unimplemented() (*UnimplementedOpcodeError, bool) {
	return i.stop, i.stop != nil
}

// DataStack returns a copy of the data stack, bottom first
func (i *Interpreter) DataStack() []Value {
	return i.data.Array()
}

// ReturnStack returns a copy of the return stack, bottom first
func (i *Interpreter) ReturnStack() []ReturnEntry {
	return i.ret.Array()
}

func (i *Interpreter) GlobalBase() int {
	return i.global
}

func (i *Interpreter) LocalBase() int {
	return i.local
}

// Push places a value on the data stack, for hosts seeding globals or arguments
func (i *Interpreter) Push(v Value) {
	i.data.Push(v)
}

// Step executes a single instruction. It reports false without an error when
// the interpreter is halted or the instruction is not in the instruction set;
// check Halted and Unimplemented to tell the two apart.
func (i *Interpreter) Step() (bool, error) {
	i.stop = nil
	if i.halted {
		return false, nil
	}

	if i.maxSteps > 0 && i.steps >= i.maxSteps {
		return false, ErrMaxStepsExceeded
	}

	pc := i.pc
	if err := i.cursor.Seek(pc); err != nil {
		return false, err
	}
	raw, err := i.cursor.Read16()
	if err != nil {
		return false, err
	}
	op := opcode.Opcode(raw)

	if i.logger.GetLevel() <= log.DebugLevel {
		i.logger.Debug("step", "pc", fmt.Sprintf("0x%04x", pc), "op", op, "depth", i.data.Size())
	}

	known, err := i.exec(op)
	if err != nil {
		return false, fmt.Errorf("%s at pc=0x%x in %s: %w", op, pc, i.script.Name, err)
	}
	if !known {
		i.stop = &UnimplementedOpcodeError{Opcode: op, PC: pc, Script: i.script.Name}
		i.reportUnimplemented()
		return false, nil
	}

	// operations that did not redirect control continue after their operands
	if i.pc == pc {
		i.pc = i.cursor.Offset()
	}
	i.steps++

	return true, nil
}

// Run executes until halt, an unknown opcode or error
func (i *Interpreter) Run() error {
	i.halted = false
	i.steps = 0

	for {
		progressed, err := i.Step()
		if err != nil {
			return err
		}

		if !progressed {
			return nil
		}
	}
}

// Call invokes a named procedure from outside the script and returns the value
// it leaves on the data stack. Arguments are pushed last-first, followed by
// their count, with the halt sentinel as return address.
func (i *Interpreter) Call(name string, args ...Value) (Value, error) {
	proc, err := i.script.Procedure(name)
	if err != nil {
		return Value{}, err
	}

	for k := len(args) - 1; k >= 0; k-- {
		i.data.Push(args[k])
	}
	i.data.Push(NewInt(int64(len(args))))
	i.ret.Push(haltEntry)

	i.pc = proc.Offset
	if err := i.Run(); err != nil {
		return Value{}, err
	}
	if i.stop != nil {
		return Value{}, i.stop
	}

	return i.pop()
}

// Disassemble lists the script from the cursor's current position. The
// cursor and program counter are left untouched.
func (i *Interpreter) Disassemble() (string, error) {
	offset := i.cursor.Offset()
	defer func() { _ = i.cursor.Seek(offset) }()

	return i.disassembler.Disassemble(i.script, i.cursor)
}

func (i *Interpreter) reportUnimplemented() {
	i.logger.Warn("unimplemented opcode",
		"opcode", fmt.Sprintf("0x%04x", uint16(i.stop.Opcode)),
		"pc", fmt.Sprintf("0x%x", i.stop.PC),
		"script", i.stop.Script)

	if !i.disasmOnUnimplOp || i.disassembler == nil {
		return
	}

	offset := i.cursor.Offset()
	defer func() { _ = i.cursor.Seek(offset) }()

	if err := i.cursor.Seek(i.stop.PC); err != nil {
		return
	}
	listing, err := i.disassembler.Disassemble(i.script, i.cursor)
	if err != nil {
		i.logger.Error("disassembly failed", "error", err)
		return
	}
	i.logger.Warn("disassembly", "listing", listing)
}
