// Copyright 2026 The Embedded Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package regmap describes the register layout of a device as read from its
// CMSIS-SVD description and binds it to memory at run time.
package regmap

import (
	"errors"
	"fmt"
	"math/bits"
	"sort"

	"github.com/embeddedgo/bitreg/bitfield"
)

var ErrNotFound = errors.New("regmap: not found")

type Device struct {
	Name        string
	Width       uint // default register width
	Peripherals []*Peripheral
}

type Peripheral struct {
	Name      string
	Descr     string
	Group     string
	Base      uint64
	Registers []*Register
}

// Register is a storage word or, if Dim > 1, an array of Dim identical
// storage words placed every Stride bytes.
type Register struct {
	Name   string
	Descr  string
	Offset uint64
	Width  uint
	Dim    int
	Stride uint64
	Access bitfield.Access
	Reset  uint64
	Fields []*Field
}

// Field is a bit range or, if Dim > 1, an array of Dim bit groups placed
// every Step bits, all in one storage word.
type Field struct {
	Name   string
	Descr  string
	Pos    uint
	Len    uint
	Dim    int
	Step   uint
	Access bitfield.Access
	Values []*Value
}

// Value is an enumerated value of a field.
type Value struct {
	Name  string
	Descr string
	Value uint64
}

func notFound(what, name string) error {
	return fmt.Errorf("%w: %s %s", ErrNotFound, what, name)
}

// Peripheral returns the peripheral with the given name.
func (d *Device) Peripheral(name string) (*Peripheral, error) {
	for _, p := range d.Peripherals {
		if p.Name == name {
			return p, nil
		}
	}
	return nil, notFound("peripheral", name)
}

// Register returns the register with the given name.
func (p *Peripheral) Register(name string) (*Register, error) {
	for _, r := range p.Registers {
		if r.Name == name {
			return r, nil
		}
	}
	return nil, notFound("register", p.Name+"."+name)
}

// Size returns the number of bytes spanned by the registers of p.
func (p *Peripheral) Size() uint64 {
	var end uint64
	for _, r := range p.Registers {
		if e := r.End(); e > end {
			end = e
		}
	}
	return end
}

// Field returns the field with the given name.
func (r *Register) Field(name string) (*Field, error) {
	for _, f := range r.Fields {
		if f.Name == name {
			return f, nil
		}
	}
	return nil, notFound("field", r.Name+"."+name)
}

// Len returns the number of storage words of the register.
func (r *Register) Len() int { return max(r.Dim, 1) }

// End returns the offset of the first byte after the register.
func (r *Register) End() uint64 {
	return r.Offset + uint64(r.Len()-1)*r.Stride + uint64(r.Width/8)
}

// N returns the number of elements of the field.
func (f *Field) N() int { return max(f.Dim, 1) }

func (f *Field) step() uint {
	if f.Step == 0 {
		return f.Len
	}
	return f.Step
}

// Layout returns the field as a bitfield array layout. A plain field is an
// array of one element.
func (f *Field) Layout() bitfield.ArrayLayout {
	return bitfield.ArrayLayout{
		Pos0: f.Pos, Len: f.Len, Step: f.step(), N: uint(f.N()),
	}
}

// Mask returns the bits of the storage word occupied by the field.
func (f *Field) Mask() uint64 {
	var m uint64
	for i := range f.N() {
		pos := f.Pos + uint(i)*f.step()
		if pos >= 64 {
			break
		}
		m |= (1<<f.Len - 1) << pos
	}
	return m
}

// Validate checks that every field fits in the register word and that no two
// fields overlap.
func (r *Register) Validate() error {
	switch r.Width {
	case 8, 16, 32, 64:
	default:
		return fmt.Errorf("%s: unsupported register width %d", r.Name, r.Width)
	}
	if r.Dim > 1 && r.Stride < uint64(r.Width/8) {
		return fmt.Errorf(
			"%s: stride %d shorter than %d-bit register", r.Name, r.Stride, r.Width,
		)
	}
	var used uint64
	fields := append([]*Field(nil), r.Fields...)
	sort.Slice(fields, func(i, k int) bool { return fields[i].Pos < fields[k].Pos })
	for _, f := range fields {
		l := f.Layout()
		switch {
		case l.Len == 0:
			return fmt.Errorf("%s.%s: %w: zero length", r.Name, f.Name, bitfield.ErrLayout)
		case l.Step < l.Len:
			return fmt.Errorf(
				"%s.%s: %w: step %d shorter than length %d",
				r.Name, f.Name, bitfield.ErrLayout, l.Step, l.Len,
			)
		}
		last := l.Pos0 + (l.N-1)*l.Step + l.Len
		if last > r.Width {
			return fmt.Errorf(
				"%s.%s: %w: bits %d..%d exceed %d-bit register",
				r.Name, f.Name, bitfield.ErrLayout, l.Pos0, last-1, r.Width,
			)
		}
		m := f.Mask()
		if o := used & m; o != 0 {
			return fmt.Errorf(
				"%s.%s: %w: overlaps another field at bit %d",
				r.Name, f.Name, bitfield.ErrLayout, bits.TrailingZeros64(o),
			)
		}
		used |= m
	}
	return nil
}

// Validate validates all registers of all peripherals.
func (d *Device) Validate() error {
	var errs []error
	for _, p := range d.Peripherals {
		for _, r := range p.Registers {
			if err := r.Validate(); err != nil {
				errs = append(errs, fmt.Errorf("%s.%w", p.Name, err))
			}
		}
	}
	return errors.Join(errs...)
}
