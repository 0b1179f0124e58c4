// Copyright 2026 The Embedded Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package regmap

import (
	"fmt"

	"github.com/embeddedgo/bitreg/bitfield"
	"github.com/embeddedgo/bitreg/mmio"
)

// Bound is a peripheral bound to the memory window that holds its registers.
// Offset 0 of the window corresponds to the peripheral base address.
type Bound struct {
	w *mmio.Window
	p *Peripheral
}

// Bind binds p to w. The window must cover all registers of p.
func Bind(w *mmio.Window, p *Peripheral) (*Bound, error) {
	if need := p.Size(); uint64(w.Size()) < need {
		return nil, fmt.Errorf(
			"%w: %s needs %d bytes, window has %d",
			mmio.ErrBounds, p.Name, need, w.Size(),
		)
	}
	return &Bound{w, p}, nil
}

func (b *Bound) Peripheral() *Peripheral { return b.p }

func (b *Bound) word(reg string, ri int) (*Register, word, error) {
	r, err := b.p.Register(reg)
	if err != nil {
		return nil, nil, err
	}
	if ri < 0 || ri >= r.Len() {
		return nil, nil, fmt.Errorf(
			"%s.%s: %w: %d not in [0,%d)", b.p.Name, r.Name, bitfield.ErrIndex, ri, r.Len(),
		)
	}
	off := r.Offset + uint64(ri)*r.Stride
	wd, err := newWord(b.w, r.Width, uintptr(off))
	if err != nil {
		return nil, nil, fmt.Errorf("%s.%s: %w", b.p.Name, r.Name, err)
	}
	return r, wd, nil
}

// Raw returns the content of the element ri of register reg.
func (b *Bound) Raw(reg string, ri int) (uint64, error) {
	_, wd, err := b.word(reg, ri)
	if err != nil {
		return 0, err
	}
	return wd.load(), nil
}

// SetRaw writes v to the element ri of register reg, ignoring the fields and
// their access modes.
func (b *Bound) SetRaw(reg string, ri int, v uint64) error {
	_, wd, err := b.word(reg, ri)
	if err != nil {
		return err
	}
	return wd.store(v)
}

// Field returns the field of the element ri of register reg.
func (b *Bound) Field(reg string, ri int, field string) (*BoundField, error) {
	r, wd, err := b.word(reg, ri)
	if err != nil {
		return nil, err
	}
	f, err := r.Field(field)
	if err != nil {
		return nil, err
	}
	v, err := wd.field(f)
	if err != nil {
		return nil, fmt.Errorf("%s.%s.%s: %w", b.p.Name, r.Name, f.Name, err)
	}
	return &BoundField{Reg: r, Field: f, v: v}, nil
}

// BoundField is a field of a bound register. Its elements are addressed by
// index, a field without dim has the single element 0. Every operation is
// checked against the access mode of the field.
type BoundField struct {
	Reg   *Register
	Field *Field
	v     dynValue
}

func (f *BoundField) Len() int { return f.Field.N() }

func (f *BoundField) index(i int) (uint, error) {
	if i < 0 {
		return 0, fmt.Errorf("%w: %d not in [0,%d)", bitfield.ErrIndex, i, f.Len())
	}
	return uint(i), nil
}

func (f *BoundField) Load(i int) (uint64, error) {
	k, err := f.index(i)
	if err != nil {
		return 0, err
	}
	return f.v.load(k)
}

func (f *BoundField) Store(i int, v uint64) error {
	k, err := f.index(i)
	if err != nil {
		return err
	}
	return f.v.store(k, v)
}

func (f *BoundField) bit(i int) (dynBit, error) {
	k, err := f.index(i)
	if err != nil {
		return nil, err
	}
	return f.v.elem(k)
}

// Set writes 1 to the single-bit element i.
func (f *BoundField) Set(i int) error {
	b, err := f.bit(i)
	if err != nil {
		return err
	}
	return b.Set()
}

// Clear writes 0 to the single-bit element i.
func (f *BoundField) Clear(i int) error {
	b, err := f.bit(i)
	if err != nil {
		return err
	}
	return b.Clear()
}

// Flip inverts the single-bit element i.
func (f *BoundField) Flip(i int) error {
	b, err := f.bit(i)
	if err != nil {
		return err
	}
	return b.Flip()
}

// The register width is known only at run time so the storage word and the
// fields over it are reached through width independent interfaces.

type word interface {
	load() uint64
	store(v uint64) error
	field(f *Field) (dynValue, error)
}

type dynValue interface {
	load(i uint) (uint64, error)
	store(i uint, v uint64) error
	elem(i uint) (dynBit, error)
}

type dynBit interface {
	Set() error
	Clear() error
	Flip() error
}

func newWord(w *mmio.Window, width uint, off uintptr) (word, error) {
	switch width {
	case 8:
		return newRegWord[uint8](w, off)
	case 16:
		return newRegWord[uint16](w, off)
	case 32:
		return newRegWord[uint32](w, off)
	case 64:
		return newRegWord[uint64](w, off)
	}
	return nil, fmt.Errorf("unsupported register width %d", width)
}

type regWord[W mmio.Word] struct {
	regs []mmio.Reg[W]
}

func newRegWord[W mmio.Word](w *mmio.Window, off uintptr) (word, error) {
	regs, err := mmio.RegsAt[W](w, off, 1)
	if err != nil {
		return nil, err
	}
	return regWord[W]{regs}, nil
}

func narrow[W mmio.Word](v uint64) (W, error) {
	if uint64(W(v)) != v {
		return 0, fmt.Errorf(
			"%w: %#x wider than %d bits", bitfield.ErrRange, v, bitfield.Width[W](),
		)
	}
	return W(v), nil
}

func (r regWord[W]) load() uint64 { return uint64(r.regs[0].Load()) }

func (r regWord[W]) store(v uint64) error {
	x, err := narrow[W](v)
	if err != nil {
		return err
	}
	r.regs[0].Store(x)
	return nil
}

func (r regWord[W]) field(f *Field) (dynValue, error) {
	a, err := bitfield.NewDynArray(r.regs, f.Layout(), f.Access)
	if err != nil {
		return nil, err
	}
	return dynArray[W]{a}, nil
}

type dynArray[W mmio.Word] struct {
	a bitfield.DynArray[W]
}

func (d dynArray[W]) load(i uint) (uint64, error) {
	v, err := d.a.Load(i)
	return uint64(v), err
}

func (d dynArray[W]) store(i uint, v uint64) error {
	x, err := narrow[W](v)
	if err != nil {
		return err
	}
	return d.a.Store(i, x)
}

func (d dynArray[W]) elem(i uint) (dynBit, error) {
	e, err := d.a.Elem(i)
	if err != nil {
		return nil, err
	}
	return e, nil
}
