// Copyright 2026 The Embedded Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package regmap

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/embeddedgo/bitreg/bitfield"
)

// Path addresses a peripheral, a register or a field:
//
//	PERIPH
//	PERIPH.REG[i]
//	PERIPH.REG[i].FIELD[j]
//
// The indices are optional. A missing index is stored as -1.
type Path struct {
	Periph   string
	Reg      string
	RegIdx   int
	Field    string
	FieldIdx int
}

// ParsePath parses the textual form of a path.
func ParsePath(s string) (Path, error) {
	p := Path{RegIdx: -1, FieldIdx: -1}
	parts := strings.Split(s, ".")
	if len(parts) > 3 || parts[0] == "" {
		return p, fmt.Errorf("bad path %q", s)
	}
	p.Periph = parts[0]
	var err error
	if len(parts) > 1 {
		if p.Reg, p.RegIdx, err = nameIndex(parts[1]); err != nil {
			return p, fmt.Errorf("bad path %q: %v", s, err)
		}
	}
	if len(parts) > 2 {
		if p.Field, p.FieldIdx, err = nameIndex(parts[2]); err != nil {
			return p, fmt.Errorf("bad path %q: %v", s, err)
		}
	}
	return p, nil
}

func nameIndex(s string) (name string, idx int, err error) {
	name, is, ok := strings.Cut(s, "[")
	if name == "" {
		return "", -1, fmt.Errorf("empty name")
	}
	if !ok {
		return name, -1, nil
	}
	is, ok = strings.CutSuffix(is, "]")
	if !ok {
		return "", -1, fmt.Errorf("missing ] after %s", name)
	}
	idx, err = strconv.Atoi(is)
	if err != nil || idx < 0 {
		return "", -1, fmt.Errorf("bad index %q", is)
	}
	return name, idx, nil
}

func (p Path) String() string {
	var sb strings.Builder
	sb.WriteString(p.Periph)
	add := func(name string, idx int) {
		if name == "" {
			return
		}
		sb.WriteByte('.')
		sb.WriteString(name)
		if idx >= 0 {
			fmt.Fprintf(&sb, "[%d]", idx)
		}
	}
	add(p.Reg, p.RegIdx)
	add(p.Field, p.FieldIdx)
	return sb.String()
}

// Target is a path resolved in a device. Reg and Field are nil if the path
// does not name them.
type Target struct {
	Path   Path
	Periph *Peripheral
	Reg    *Register
	Field  *Field
}

// Lookup resolves path in d. It fails with ErrNotFound for unknown names
// and with bitfield.ErrIndex for indices outside the register or the field.
func (d *Device) Lookup(path string) (*Target, error) {
	p, err := ParsePath(path)
	if err != nil {
		return nil, err
	}
	t := &Target{Path: p}
	if t.Periph, err = d.Peripheral(p.Periph); err != nil {
		return nil, err
	}
	if p.Reg == "" {
		return t, nil
	}
	if t.Reg, err = t.Periph.Register(p.Reg); err != nil {
		return nil, err
	}
	if p.RegIdx >= t.Reg.Len() {
		return nil, fmt.Errorf(
			"%s: %w: %d not in [0,%d)", path, bitfield.ErrIndex, p.RegIdx, t.Reg.Len(),
		)
	}
	if p.Field == "" {
		return t, nil
	}
	if t.Field, err = t.Reg.Field(p.Field); err != nil {
		return nil, err
	}
	if p.FieldIdx >= t.Field.N() {
		return nil, fmt.Errorf(
			"%s: %w: %d not in [0,%d)", path, bitfield.ErrIndex, p.FieldIdx, t.Field.N(),
		)
	}
	return t, nil
}
