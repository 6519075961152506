package interpreter

import (
	"fmt"
	"math"

	"intvm/pkg/opcode"
)

// exec performs one operation. It returns false, leaving all state untouched,
// when op is not part of the instruction set.
func (i *Interpreter) exec(op opcode.Opcode) (bool, error) {
	switch op {
	case opcode.CriticalStart, opcode.CriticalDone:
		return true, nil

	case opcode.PushD:
		v, err := i.cursor.Read32()
		if err != nil {
			return true, err
		}
		i.data.Push(NewInt(int64(v)))
		return true, nil

	case opcode.PushStringOrID:
		return true, i.pushStringOrIdentifier()

	case opcode.Pop:
		_, err := i.pop()
		return true, err

	case opcode.Dup:
		v, err := i.data.Peek()
		if err != nil {
			return true, ErrDataStackUnderflow
		}
		i.data.Push(v)
		return true, nil

	case opcode.DToA:
		v, err := i.pop()
		if err != nil {
			return true, err
		}
		i.ret.Push(addressEntry(v))
		return true, nil

	case opcode.AToD:
		e, err := i.popReturn(ReturnAddress)
		if err != nil {
			return true, err
		}
		i.data.Push(e.Value)
		return true, nil

	case opcode.SwapA:
		a, err := i.popReturnAny()
		if err != nil {
			return true, err
		}
		b, err := i.popReturnAny()
		if err != nil {
			return true, err
		}
		i.ret.Push(a)
		i.ret.Push(b)
		return true, nil

	case opcode.Jmp:
		target, err := i.popInt()
		if err != nil {
			return true, err
		}
		i.pc = int(target)
		return true, nil

	case opcode.Call:
		idx, err := i.popInt()
		if err != nil {
			return true, err
		}
		proc, err := i.script.ProcedureAt(int(idx))
		if err != nil {
			return true, err
		}
		i.pc = proc.Offset
		return true, nil

	case opcode.PopReturn:
		e, err := i.popReturn(ReturnAddress)
		if err != nil {
			return true, err
		}
		addr, err := e.Value.AsInt64()
		if err != nil {
			return true, err
		}
		if addr == HaltSentinel {
			i.halted = true
		} else {
			i.pc = int(addr)
		}
		return true, nil

	case opcode.ExitProg:
		i.halted = true
		return true, nil

	case opcode.PushBase:
		argc, err := i.popInt()
		if err != nil {
			return true, err
		}
		base := i.data.Size() - int(argc)
		if argc < 0 || base < 0 {
			return true, fmt.Errorf("push_base with %d args over %d values: %w", argc, i.data.Size(), ErrDataStackUnderflow)
		}
		i.ret.Push(baseEntry(i.local))
		i.local = base
		return true, nil

	case opcode.PopToBase:
		i.data.Truncate(i.local)
		return true, nil

	case opcode.PopBase:
		e, err := i.popReturn(SavedBase)
		if err != nil {
			return true, err
		}
		i.local = int(e.Value.I64)
		return true, nil

	case opcode.SetGlobal:
		i.global = i.data.Size()
		return true, nil

	case opcode.StoreGlobal:
		return true, i.storeVar(i.global)

	case opcode.FetchGlobal:
		return true, i.fetchVar(i.global)

	case opcode.Store:
		return true, i.storeVar(i.local)

	case opcode.Fetch:
		return true, i.fetchVar(i.local)

	case opcode.If:
		cond, err := i.pop()
		if err != nil {
			return true, err
		}
		target, err := i.popInt()
		if err != nil {
			return true, err
		}
		if !cond.Truthy() {
			i.pc = int(target)
		}
		return true, nil

	case opcode.While:
		cond, err := i.pop()
		if err != nil {
			return true, err
		}
		if !cond.Truthy() {
			target, err := i.popInt()
			if err != nil {
				return true, err
			}
			i.pc = int(target)
		}
		return true, nil

	case opcode.LookupProc:
		v, err := i.pop()
		if err != nil {
			return true, err
		}
		if v.Kind != KindString {
			return true, fmt.Errorf("procedure name is %v: %w", v.Kind, ErrTypeMismatch)
		}
		proc, err := i.script.Procedure(v.Str)
		if err != nil {
			return true, err
		}
		i.data.Push(NewInt(int64(proc.Index)))
		return true, nil

	case opcode.CheckArgCount:
		argc, err := i.popInt()
		if err != nil {
			return true, err
		}
		idx, err := i.popInt()
		if err != nil {
			return true, err
		}
		proc, err := i.script.ProcedureAt(int(idx))
		if err != nil {
			return true, err
		}
		if int(argc) != proc.ArgCount {
			return true, fmt.Errorf("expected %d args, got %d args when calling %s: %w", proc.ArgCount, argc, proc.Name, ErrArgCountMismatch)
		}
		return true, nil

	case opcode.Negate:
		v, err := i.pop()
		if err != nil {
			return true, err
		}
		res, err := negate(v)
		if err != nil {
			return true, err
		}
		i.data.Push(res)
		return true, nil

	case opcode.Floor:
		v, err := i.pop()
		if err != nil {
			return true, err
		}
		res, err := floor(v)
		if err != nil {
			return true, err
		}
		i.data.Push(res)
		return true, nil

	case opcode.Not:
		v, err := i.pop()
		if err != nil {
			return true, err
		}
		i.data.Push(NewBool(!v.Truthy()))
		return true, nil

	case opcode.Eq, opcode.Ne, opcode.Le, opcode.Ge, opcode.Lt, opcode.Gt,
		opcode.And, opcode.Or, opcode.BwAnd, opcode.BwOr,
		opcode.Add, opcode.Sub, opcode.Mul, opcode.Div, opcode.Mod:
		rhs, err := i.pop()
		if err != nil {
			return true, err
		}
		lhs, err := i.pop()
		if err != nil {
			return true, err
		}
		res, err := evalBinary(op, lhs, rhs)
		if err != nil {
			return true, err
		}
		i.data.Push(res)
		return true, nil

	default:
		return false, nil
	}
}

// pushStringOrIdentifier reads a table index and resolves it against the
// identifier table when the next opcode consumes an identifier, and against
// the string table otherwise.
func (i *Interpreter) pushStringOrIdentifier() error {
	num, err := i.cursor.Read32()
	if err != nil {
		return err
	}
	next, err := i.cursor.Peek16()
	if err != nil {
		return err
	}

	var s string
	if opcode.ConsumesIdentifier(opcode.Opcode(next)) {
		s, err = i.script.Identifier(num)
	} else {
		s, err = i.script.StringLiteral(num)
	}
	if err != nil {
		return err
	}

	i.data.Push(NewString(s))
	return nil
}

func (i *Interpreter) pop() (Value, error) {
	v, err := i.data.Pop()
	if err != nil {
		return Value{}, ErrDataStackUnderflow
	}
	return v, nil
}

func (i *Interpreter) popInt() (int64, error) {
	v, err := i.pop()
	if err != nil {
		return 0, err
	}
	return v.AsInt64()
}

func (i *Interpreter) popReturnAny() (ReturnEntry, error) {
	e, err := i.ret.Pop()
	if err != nil {
		return ReturnEntry{}, ErrReturnStackUnderflow
	}
	return e, nil
}

// popReturn pops a return stack entry that must be of the given kind
func (i *Interpreter) popReturn(kind EntryKind) (ReturnEntry, error) {
	e, err := i.ret.Peek()
	if err != nil {
		return ReturnEntry{}, ErrReturnStackUnderflow
	}
	if e.Kind != kind {
		return ReturnEntry{}, fmt.Errorf("want %s, found %s: %w", kind, e, ErrWrongReturnEntry)
	}
	return i.popReturnAny()
}

// storeVar pops a slot number and a value and writes the value at base+slot
func (i *Interpreter) storeVar(base int) error {
	num, err := i.popInt()
	if err != nil {
		return err
	}
	v, err := i.pop()
	if err != nil {
		return err
	}
	if err := i.data.Set(base+int(num), v); err != nil {
		return fmt.Errorf("store to slot %d (base %d): %w", num, base, ErrBadVariable)
	}
	return nil
}

// fetchVar pops a slot number and pushes the value at base+slot
func (i *Interpreter) fetchVar(base int) error {
	num, err := i.popInt()
	if err != nil {
		return err
	}
	v, err := i.data.Get(base + int(num))
	if err != nil {
		return fmt.Errorf("fetch from slot %d (base %d): %w", num, base, ErrBadVariable)
	}
	i.data.Push(v)
	return nil
}

func negate(v Value) (Value, error) {
	switch v.Kind {
	case KindInt:
		return NewInt(-v.I64), nil
	case KindFloat:
		return NewFloat(-v.F64), nil
	case KindBool:
		n, _ := v.AsInt64()
		return NewInt(-n), nil
	default:
		return Value{}, fmt.Errorf("cannot negate %v: %w", v.Kind, ErrTypeMismatch)
	}
}

func floor(v Value) (Value, error) {
	switch v.Kind {
	case KindInt:
		return v, nil
	case KindBool:
		n, _ := v.AsInt64()
		return NewInt(n), nil
	case KindFloat:
		f := math.Floor(v.F64)
		if math.IsInf(f, 0) || math.IsNaN(f) {
			return NewFloat(f), nil
		}
		return NewInt(int64(f)), nil
	default:
		return Value{}, fmt.Errorf("cannot floor %v: %w", v.Kind, ErrTypeMismatch)
	}
}

// evalBinary evaluates a binary operator on the left and right operands
func evalBinary(op opcode.Opcode, a, b Value) (Value, error) {
	switch op {
	case opcode.Eq:
		return NewBool(equal(a, b)), nil
	case opcode.Ne:
		return NewBool(!equal(a, b)), nil

	case opcode.And:
		if !a.Truthy() {
			return a, nil
		}
		return b, nil
	case opcode.Or:
		if a.Truthy() {
			return a, nil
		}
		return b, nil

	case opcode.Le, opcode.Ge, opcode.Lt, opcode.Gt:
		ok, err := ordered(op, a, b)
		if err != nil {
			return Value{}, err
		}
		return NewBool(ok), nil
	}

	if op == opcode.Add && (a.Kind == KindString || b.Kind == KindString) {
		return NewString(a.String() + b.String()), nil
	}

	if !a.numeric() || !b.numeric() {
		return Value{}, fmt.Errorf("%s on %v and %v: %w", op, a.Kind, b.Kind, ErrTypeMismatch)
	}

	if op == opcode.BwAnd || op == opcode.BwOr {
		ai, _ := a.AsInt64()
		bi, _ := b.AsInt64()
		if op == opcode.BwAnd {
			return NewInt(ai & bi), nil
		}
		return NewInt(ai | bi), nil
	}

	if a.Kind == KindFloat || b.Kind == KindFloat {
		af, _ := a.AsFloat64()
		bf, _ := b.AsFloat64()
		switch op {
		case opcode.Add:
			return NewFloat(af + bf), nil
		case opcode.Sub:
			return NewFloat(af - bf), nil
		case opcode.Mul:
			return NewFloat(af * bf), nil
		case opcode.Div:
			return NewInt(toInt32(af / bf)), nil
		case opcode.Mod:
			return NewFloat(math.Mod(af, bf)), nil
		}
	} else {
		ai, _ := a.AsInt64()
		bi, _ := b.AsInt64()
		switch op {
		case opcode.Add:
			return NewInt(ai + bi), nil
		case opcode.Sub:
			return NewInt(ai - bi), nil
		case opcode.Mul:
			return NewInt(ai * bi), nil
		case opcode.Div:
			if bi == 0 {
				return NewInt(0), nil
			}
			return NewInt(int64(int32(ai / bi))), nil
		case opcode.Mod:
			if bi == 0 {
				return NewFloat(math.NaN()), nil
			}
			return NewInt(ai % bi), nil
		}
	}

	return Value{}, fmt.Errorf("unsupported binary op: %s", op)
}

// ordered evaluates <, <=, > and >= on two numbers or two strings
func ordered(op opcode.Opcode, a, b Value) (bool, error) {
	switch {
	case a.Kind == KindString && b.Kind == KindString:
		switch op {
		case opcode.Lt:
			return a.Str < b.Str, nil
		case opcode.Le:
			return a.Str <= b.Str, nil
		case opcode.Gt:
			return a.Str > b.Str, nil
		default:
			return a.Str >= b.Str, nil
		}

	case a.numeric() && b.numeric():
		af, _ := a.AsFloat64()
		bf, _ := b.AsFloat64()
		if a.Kind != KindFloat && b.Kind != KindFloat {
			ai, _ := a.AsInt64()
			bi, _ := b.AsInt64()
			switch op {
			case opcode.Lt:
				return ai < bi, nil
			case opcode.Le:
				return ai <= bi, nil
			case opcode.Gt:
				return ai > bi, nil
			default:
				return ai >= bi, nil
			}
		}
		switch op {
		case opcode.Lt:
			return af < bf, nil
		case opcode.Le:
			return af <= bf, nil
		case opcode.Gt:
			return af > bf, nil
		default:
			return af >= bf, nil
		}

	default:
		return false, fmt.Errorf("cannot order %v and %v: %w", a.Kind, b.Kind, ErrTypeMismatch)
	}
}

// toInt32 truncates a quotient toward zero and wraps it to 32 bits. A zero
// divisor (NaN or infinite quotient) yields 0.
func toInt32(f float64) int64 {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}
	t := math.Mod(math.Trunc(f), 1<<32)
	return int64(int32(uint32(int64(t))))
}
