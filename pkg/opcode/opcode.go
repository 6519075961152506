package opcode

import (
	"fmt"
	"strings"
)

type Opcode uint16

// List of VM opcodes
const (
	CriticalStart  Opcode = 0x8002
	CriticalDone   Opcode = 0x8003
	Jmp            Opcode = 0x8004
	Call           Opcode = 0x8005
	AToD           Opcode = 0x800C
	DToA           Opcode = 0x800D
	ExitProg       Opcode = 0x8010
	FetchGlobal    Opcode = 0x8012
	StoreGlobal    Opcode = 0x8013
	FetchExternal  Opcode = 0x8014
	StoreExternal  Opcode = 0x8015
	ExportVar      Opcode = 0x8016
	ExportProc     Opcode = 0x8017
	SwapA          Opcode = 0x8019
	Pop            Opcode = 0x801A
	Dup            Opcode = 0x801B
	PopReturn      Opcode = 0x801C
	CheckArgCount  Opcode = 0x8027
	LookupProc     Opcode = 0x8028
	PopBase        Opcode = 0x8029
	PopToBase      Opcode = 0x802A
	PushBase       Opcode = 0x802B
	SetGlobal      Opcode = 0x802C
	If             Opcode = 0x802F
	While          Opcode = 0x8030
	Store          Opcode = 0x8031
	Fetch          Opcode = 0x8032
	Eq             Opcode = 0x8033
	Ne             Opcode = 0x8034
	Le             Opcode = 0x8035
	Ge             Opcode = 0x8036
	Lt             Opcode = 0x8037
	Gt             Opcode = 0x8038
	Add            Opcode = 0x8039
	Sub            Opcode = 0x803A
	Mul            Opcode = 0x803B
	Div            Opcode = 0x803C
	Mod            Opcode = 0x803D
	And            Opcode = 0x803E
	Or             Opcode = 0x803F
	BwAnd          Opcode = 0x8040
	BwOr           Opcode = 0x8041
	Floor          Opcode = 0x8044
	Not            Opcode = 0x8045
	Negate         Opcode = 0x8046
	PushStringOrID Opcode = 0x9001
	PushD          Opcode = 0xC001
)

// Info describes how an opcode is encoded.
type Info struct {
	Name         string
	OperandBytes int  // inline operand bytes following the opcode
	Executable   bool // false for opcodes known only by name (lookahead targets)
}

var table = map[Opcode]Info{
	CriticalStart:  {"critical_start", 0, true},
	CriticalDone:   {"critical_done", 0, true},
	Jmp:            {"jmp", 0, true},
	Call:           {"call", 0, true},
	AToD:           {"a_to_d", 0, true},
	DToA:           {"d_to_a", 0, true},
	ExitProg:       {"exit_prog", 0, true},
	FetchGlobal:    {"fetch_global", 0, true},
	StoreGlobal:    {"store_global", 0, true},
	FetchExternal:  {"fetch_external", 0, false},
	StoreExternal:  {"store_external", 0, false},
	ExportVar:      {"export_var", 0, false},
	ExportProc:     {"export_proc", 0, false},
	SwapA:          {"swapa", 0, true},
	Pop:            {"pop", 0, true},
	Dup:            {"dup", 0, true},
	PopReturn:      {"pop_return", 0, true},
	CheckArgCount:  {"check_arg_count", 0, true},
	LookupProc:     {"lookup_string_proc", 0, true},
	PopBase:        {"pop_base", 0, true},
	PopToBase:      {"pop_to_base", 0, true},
	PushBase:       {"push_base", 0, true},
	SetGlobal:      {"set_global", 0, true},
	If:             {"if", 0, true},
	While:          {"while", 0, true},
	Store:          {"store", 0, true},
	Fetch:          {"fetch", 0, true},
	Eq:             {"equal", 0, true},
	Ne:             {"not_equal", 0, true},
	Le:             {"less_equal", 0, true},
	Ge:             {"greater_equal", 0, true},
	Lt:             {"less", 0, true},
	Gt:             {"greater", 0, true},
	Add:            {"add", 0, true},
	Sub:            {"sub", 0, true},
	Mul:            {"mul", 0, true},
	Div:            {"div", 0, true},
	Mod:            {"mod", 0, true},
	And:            {"and", 0, true},
	Or:             {"or", 0, true},
	BwAnd:          {"bwand", 0, true},
	BwOr:           {"bwor", 0, true},
	Floor:          {"floor", 0, true},
	Not:            {"not", 0, true},
	Negate:         {"negate", 0, true},
	PushStringOrID: {"push_s", 4, true},
	PushD:          {"push_d", 4, true},
}

var byName = func() map[string]Opcode {
	m := make(map[string]Opcode, len(table))
	for op, info := range table {
		m[info.Name] = op
	}
	return m
}()

// identifierConsumers are the opcodes whose preceding 0x9001 operand names an
// identifier rather than a string literal.
var identifierConsumers = map[Opcode]bool{
	FetchExternal: true,
	StoreExternal: true,
	ExportVar:     true,
}

// Lookup returns the encoding info for op
func Lookup(op Opcode) (Info, bool) {
	info, ok := table[op]
	return info, ok
}

// ByName resolves a mnemonic (case-insensitive, optional "op_" prefix)
func ByName(name string) (Opcode, bool) {
	name = strings.TrimPrefix(strings.ToLower(name), "op_")
	op, ok := byName[name]
	return op, ok
}

// ConsumesIdentifier reports whether op reads its operand from the identifier table
func ConsumesIdentifier(op Opcode) bool {
	return identifierConsumers[op]
}

func (op Opcode) Name() string {
	if info, ok := table[op]; ok {
		return info.Name
	}
	return fmt.Sprintf("unknown_%04x", uint16(op))
}

func (op Opcode) String() string {
	return op.Name()
}
