// Copyright 2026 The Embedded Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package bitfield

import "github.com/embeddedgo/bitreg/mmio"

func newBit[W mmio.Word](r *mmio.Reg[W], pos uint) (field[W], error) {
	return newField(r, pos, 1)
}

func (f field[W]) bit() bool { return f.load() != 0 }

func (f field[W]) storeBit(b bool) {
	var v W
	if b {
		v = 1
	}
	f.store(v)
}

// Bit is a read-write single-bit field.
type Bit[W mmio.Word] struct {
	field[W]
}

// NewBit returns the bit at pos of r.
func NewBit[W mmio.Word](r *mmio.Reg[W], pos uint) (Bit[W], error) {
	f, err := newBit(r, pos)
	return Bit[W]{f}, err
}

// MakeBit is like NewBit but panics if pos is outside the word.
func MakeBit[W mmio.Word](r *mmio.Reg[W], pos uint) Bit[W] {
	return must(NewBit(r, pos))
}

func (b Bit[W]) Load() bool        { return b.bit() }
func (b Bit[W]) Store(v bool)      { b.storeBit(v) }
func (b Bit[W]) Set()              { b.storeBit(true) }
func (b Bit[W]) Clear()            { b.storeBit(false) }
func (b Bit[W]) Flip()             { b.storeBit(!b.bit()) }
func (b Bit[W]) Equal(v bool) bool { return b.bit() == v }

// RBit is a read-only single-bit field.
type RBit[W mmio.Word] struct {
	field[W]
}

func NewRBit[W mmio.Word](r *mmio.Reg[W], pos uint) (RBit[W], error) {
	f, err := newBit(r, pos)
	return RBit[W]{f}, err
}

func MakeRBit[W mmio.Word](r *mmio.Reg[W], pos uint) RBit[W] {
	return must(NewRBit(r, pos))
}

func (b RBit[W]) Load() bool        { return b.bit() }
func (b RBit[W]) Equal(v bool) bool { return b.bit() == v }

// WBit is a write-only single-bit field. Load returns what the hardware
// shows at the bit position.
type WBit[W mmio.Word] struct {
	field[W]
}

func NewWBit[W mmio.Word](r *mmio.Reg[W], pos uint) (WBit[W], error) {
	f, err := newBit(r, pos)
	return WBit[W]{f}, err
}

func MakeWBit[W mmio.Word](r *mmio.Reg[W], pos uint) WBit[W] {
	return must(NewWBit(r, pos))
}

func (b WBit[W]) Load() bool   { return b.bit() }
func (b WBit[W]) Store(v bool) { b.storeBit(v) }
func (b WBit[W]) Set()         { b.storeBit(true) }
func (b WBit[W]) Clear()       { b.storeBit(false) }
func (b WBit[W]) Flip()        { b.storeBit(!b.bit()) }

// RC0Bit is a status bit cleared by writing 0 to it.
type RC0Bit[W mmio.Word] struct {
	field[W]
}

func NewRC0Bit[W mmio.Word](r *mmio.Reg[W], pos uint) (RC0Bit[W], error) {
	f, err := newBit(r, pos)
	return RC0Bit[W]{f}, err
}

func MakeRC0Bit[W mmio.Word](r *mmio.Reg[W], pos uint) RC0Bit[W] {
	return must(NewRC0Bit(r, pos))
}

func (b RC0Bit[W]) Load() bool { return b.bit() }

// Clear writes 0 to the bit. The other bits of the word are written back
// with the values just read.
func (b RC0Bit[W]) Clear() { b.storeBit(false) }

// RC1Bit is a status bit cleared by writing 1 to it.
type RC1Bit[W mmio.Word] struct {
	field[W]
}

func NewRC1Bit[W mmio.Word](r *mmio.Reg[W], pos uint) (RC1Bit[W], error) {
	f, err := newBit(r, pos)
	return RC1Bit[W]{f}, err
}

func MakeRC1Bit[W mmio.Word](r *mmio.Reg[W], pos uint) RC1Bit[W] {
	return must(NewRC1Bit(r, pos))
}

func (b RC1Bit[W]) Load() bool { return b.bit() }

// Set writes 1 to the bit. The other bits of the word are written back with
// the values just read, so any other clear-on-write-1 bit that reads as 1 is
// cleared too.
func (b RC1Bit[W]) Set() { b.storeBit(true) }
