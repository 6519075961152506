package script

import (
	"fmt"
	"os"
	"path/filepath"

	"intvm/pkg/asm"

	"github.com/BurntSushi/toml"
)

// file is the TOML host format for scripts written by hand.
type file struct {
	Name        string          `toml:"name"`
	Entry       string          `toml:"entry"`
	Code        string          `toml:"code"`
	Strings     []string        `toml:"strings"`
	Identifiers []string        `toml:"identifiers"`
	Procedures  []procedureDecl `toml:"procedure"`
}

type procedureDecl struct {
	Name   string `toml:"name"`
	Label  string `toml:"label"`
	Offset *int   `toml:"offset"`
	Args   int    `toml:"args"`
}

// Loaded is a parsed script file together with its assembler labels.
type Loaded struct {
	*Script
	Labels map[string]int
	Entry  string
}

// EntryOffset resolves the file's entry to a code offset. The entry may name a
// label or a procedure; an empty entry means offset 0.
func (l *Loaded) EntryOffset() (int, error) {
	if l.Entry == "" {
		return 0, nil
	}
	if off, ok := l.Labels[l.Entry]; ok {
		return off, nil
	}
	p, err := l.Procedure(l.Entry)
	if err != nil {
		return 0, fmt.Errorf("entry %q is neither a label nor a procedure: %w", l.Entry, err)
	}
	return p.Offset, nil
}

// LoadFile reads and assembles a script file
func LoadFile(path string) (*Loaded, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("cannot read %s: %w", path, err)
	}

	l, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("parse error in %s: %w", path, err)
	}
	if l.Name == "" {
		l.Name = filepath.Base(path)
	}

	return l, nil
}

// Parse decodes a script from TOML text
func Parse(data []byte) (*Loaded, error) {
	var f file
	if err := toml.Unmarshal(data, &f); err != nil {
		return nil, err
	}

	prog, err := asm.Assemble(f.Code)
	if err != nil {
		return nil, err
	}

	procs := make([]ProcedureInfo, 0, len(f.Procedures))
	for _, d := range f.Procedures {
		if d.Name == "" {
			return nil, fmt.Errorf("procedure without a name")
		}
		info := ProcedureInfo{Name: d.Name, ArgCount: d.Args}
		switch {
		case d.Offset != nil:
			info.Offset = *d.Offset
		case d.Label != "":
			off, ok := prog.Labels[d.Label]
			if !ok {
				return nil, fmt.Errorf("procedure %q: undefined label %q", d.Name, d.Label)
			}
			info.Offset = off
		default:
			off, ok := prog.Labels[d.Name]
			if !ok {
				return nil, fmt.Errorf("procedure %q: no label or offset", d.Name)
			}
			info.Offset = off
		}
		procs = append(procs, info)
	}

	s, err := New(f.Name, prog.Code, procs, indexed(f.Strings), indexed(f.Identifiers))
	if err != nil {
		return nil, err
	}

	return &Loaded{Script: s, Labels: prog.Labels, Entry: f.Entry}, nil
}

func indexed(list []string) map[uint32]string {
	m := make(map[uint32]string, len(list))
	for i, v := range list {
		m[uint32(i)] = v
	}
	return m
}
