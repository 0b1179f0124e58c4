// Copyright 2026 The Embedded Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package bitfield provides typed access to bits and groups of bits of
// memory-mapped storage words.
//
// A field binds a bit range to one mmio.Reg. It holds no state besides the
// register pointer and the layout: every call reads or writes the live word.
// The access mode of a field is part of its type. A read-only field has no
// Store method and a single-bit field declared clear-on-write-1 has Set but no
// Clear, so a forbidden operation does not compile. Fields whose mode is
// known only at run time use Dyn and DynArray instead.
//
// Layouts are validated when a field is constructed. The New* constructors
// return ErrLayout, the Make* variants panic and are meant for package-level
// register maps, which are then checked during program initialization.
// The regvet command reports invalid constant layouts before the program is
// built.
//
// Store is a read-modify-write of the whole word and is not atomic. If the
// word can be modified concurrently (another goroutine, an interrupt handler
// or the hardware itself) the caller must serialize the accesses.
package bitfield

import (
	"github.com/embeddedgo/bitreg/mmio"
)

type field[W mmio.Word] struct {
	r   *mmio.Reg[W]
	pos uint
	n   uint
}

func newField[W mmio.Word](r *mmio.Reg[W], pos, n uint) (field[W], error) {
	if r == nil {
		return field[W]{}, errNilReg
	}
	if err := checkField[W](pos, n); err != nil {
		return field[W]{}, err
	}
	return field[W]{r, pos, n}, nil
}

func newValueField[W mmio.Word, V Value](r *mmio.Reg[W], pos, n uint) (field[W], error) {
	f, err := newField(r, pos, n)
	if err != nil {
		return f, err
	}
	if err := checkValueType[V](n); err != nil {
		return field[W]{}, err
	}
	return f, nil
}

// Pos returns the position of the least significant bit of the field.
func (f field[W]) Pos() uint { return f.pos }

// Len returns the number of bits in the field.
func (f field[W]) Len() uint { return f.n }

// Mask returns the bits occupied by the field.
func (f field[W]) Mask() W { return Mask[W](f.pos, f.n) }

// Raw returns the whole storage word.
func (f field[W]) Raw() W { return f.r.Load() }

func (f field[W]) load() W {
	return (f.r.Load() & f.Mask()) >> f.pos
}

// store writes v without checking its width. Excess bits are masked off so
// the neighbouring fields are never touched.
func (f field[W]) store(v W) {
	m := f.Mask()
	f.r.Store(f.r.Load()&^m | (v<<f.pos)&m)
}

// Field is a read-write bit range of a storage word read as V.
type Field[W mmio.Word, V Value] struct {
	field[W]
}

// NewField returns the n-bit field at pos of r.
func NewField[W mmio.Word, V Value](r *mmio.Reg[W], pos, n uint) (Field[W, V], error) {
	f, err := newValueField[W, V](r, pos, n)
	return Field[W, V]{f}, err
}

// MakeField is like NewField but panics if the layout is invalid.
func MakeField[W mmio.Word, V Value](r *mmio.Reg[W], pos, n uint) Field[W, V] {
	return must(NewField[W, V](r, pos, n))
}

// Load returns the current value of the field.
func (f Field[W, V]) Load() V { return V(f.load()) }

// Store writes v to the field. It returns ErrRange and leaves the word
// unmodified if v does not fit in the field.
func (f Field[W, V]) Store(v V) error {
	if err := checkValue(v, f.n); err != nil {
		return err
	}
	f.store(W(v))
	return nil
}

// StoreUnchecked writes v to the field without checking its width. The
// caller guarantees that v fits; the excess bits are dropped.
func (f Field[W, V]) StoreUnchecked(v V) { f.store(W(v)) }

// Equal reports whether the field currently holds v.
func (f Field[W, V]) Equal(v V) bool { return f.Load() == v }

// RField is a read-only bit range.
type RField[W mmio.Word, V Value] struct {
	field[W]
}

func NewRField[W mmio.Word, V Value](r *mmio.Reg[W], pos, n uint) (RField[W, V], error) {
	f, err := newValueField[W, V](r, pos, n)
	return RField[W, V]{f}, err
}

func MakeRField[W mmio.Word, V Value](r *mmio.Reg[W], pos, n uint) RField[W, V] {
	return must(NewRField[W, V](r, pos, n))
}

func (f RField[W, V]) Load() V        { return V(f.load()) }
func (f RField[W, V]) Equal(v V) bool { return f.Load() == v }

// WField is a write-only bit range. Load is still provided: it returns what
// the hardware shows at the field position, which is useful for debugging
// but is not the last written value on most devices.
type WField[W mmio.Word, V Value] struct {
	field[W]
}

func NewWField[W mmio.Word, V Value](r *mmio.Reg[W], pos, n uint) (WField[W, V], error) {
	f, err := newValueField[W, V](r, pos, n)
	return WField[W, V]{f}, err
}

func MakeWField[W mmio.Word, V Value](r *mmio.Reg[W], pos, n uint) WField[W, V] {
	return must(NewWField[W, V](r, pos, n))
}

func (f WField[W, V]) Load() V        { return V(f.load()) }
func (f WField[W, V]) Equal(v V) bool { return f.Load() == v }

func (f WField[W, V]) Store(v V) error {
	if err := checkValue(v, f.n); err != nil {
		return err
	}
	f.store(W(v))
	return nil
}

func (f WField[W, V]) StoreUnchecked(v V) { f.store(W(v)) }
