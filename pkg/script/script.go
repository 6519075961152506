package script

import (
	"errors"
	"fmt"
)

var (
	ErrProcedureNotFound = errors.New("procedure not found")
	ErrUnknownIndex      = errors.New("table index not present")
)

// ProcedureInfo describes one entry of the procedure table.
type ProcedureInfo struct {
	Name     string
	Index    int // position in the procedure table
	Offset   int // absolute byte offset of the first instruction
	ArgCount int
}

// Script is a loaded compiled script. It is never mutated after construction
// and may back any number of VMs.
type Script struct {
	Name string
	Code []byte

	procedures      map[string]*ProcedureInfo
	proceduresTable []*ProcedureInfo
	strings         map[uint32]string
	identifiers     map[uint32]string
}

// New builds a Script from its tables. Procedures are indexed in the order given.
func New(name string, code []byte, procs []ProcedureInfo, strs, idents map[uint32]string) (*Script, error) {
	s := &Script{
		Name:            name,
		Code:            code,
		procedures:      make(map[string]*ProcedureInfo, len(procs)),
		proceduresTable: make([]*ProcedureInfo, 0, len(procs)),
		strings:         make(map[uint32]string, len(strs)),
		identifiers:     make(map[uint32]string, len(idents)),
	}

	for i, p := range procs {
		if _, dup := s.procedures[p.Name]; dup {
			return nil, fmt.Errorf("duplicate procedure %q", p.Name)
		}
		if p.Offset < 0 || p.Offset > len(code) {
			return nil, fmt.Errorf("procedure %q offset %d outside code (len %d)", p.Name, p.Offset, len(code))
		}
		info := p
		info.Index = i
		s.procedures[p.Name] = &info
		s.proceduresTable = append(s.proceduresTable, &info)
	}
	for k, v := range strs {
		s.strings[k] = v
	}
	for k, v := range idents {
		s.identifiers[k] = v
	}

	return s, nil
}

// Procedure looks a procedure up by name
func (s *Script) Procedure(name string) (*ProcedureInfo, error) {
	p, ok := s.procedures[name]
	if !ok {
		return nil, fmt.Errorf("%q in %s: %w", name, s.Name, ErrProcedureNotFound)
	}
	return p, nil
}

// ProcedureAt looks a procedure up by table index
func (s *Script) ProcedureAt(index int) (*ProcedureInfo, error) {
	if index < 0 || index >= len(s.proceduresTable) {
		return nil, fmt.Errorf("procedure index %d in %s: %w", index, s.Name, ErrUnknownIndex)
	}
	return s.proceduresTable[index], nil
}

// Procedures returns the procedure table in index order
func (s *Script) Procedures() []ProcedureInfo {
	out := make([]ProcedureInfo, len(s.proceduresTable))
	for i, p := range s.proceduresTable {
		out[i] = *p
	}
	return out
}

// StringLiteral returns the string literal stored at index
func (s *Script) StringLiteral(index uint32) (string, error) {
	v, ok := s.strings[index]
	if !ok {
		return "", fmt.Errorf("string %d in %s: %w", index, s.Name, ErrUnknownIndex)
	}
	return v, nil
}

// Identifier returns the identifier name stored at index
func (s *Script) Identifier(index uint32) (string, error) {
	v, ok := s.identifiers[index]
	if !ok {
		return "", fmt.Errorf("identifier %d in %s: %w", index, s.Name, ErrUnknownIndex)
	}
	return v, nil
}
