// Copyright 2026 The Embedded Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package bitfield

import (
	"fmt"

	"github.com/embeddedgo/bitreg/mmio"
)

func capErr(op string, a Access) error {
	return fmt.Errorf("%w: %s on %s field", ErrCapability, op, a)
}

// Dyn is a field whose layout and access mode are known only at run time,
// e.g. read from a device description. Operations the mode does not allow
// return ErrCapability.
type Dyn[W mmio.Word] struct {
	field[W]
	mode Access
}

// NewDyn returns the n-bit field at pos of r with access mode a.
func NewDyn[W mmio.Word](r *mmio.Reg[W], pos, n uint, a Access) (Dyn[W], error) {
	f, err := newField(r, pos, n)
	return Dyn[W]{f, a}, err
}

// Access returns the access mode of the field.
func (d Dyn[W]) Access() Access { return d.mode }

// Load returns the current value of the field. It is allowed in every mode.
func (d Dyn[W]) Load() W { return d.load() }

// Store writes v to the field.
func (d Dyn[W]) Store(v W) error {
	if !CanWrite(d.mode) {
		return capErr("store", d.mode)
	}
	if err := CheckWidth(v, d.n); err != nil {
		return err
	}
	d.store(v)
	return nil
}

func (d Dyn[W]) checkBit(op string, allowed func(Access) bool) error {
	if d.n != 1 {
		return fmt.Errorf("%w: %s on %d-bit field", ErrCapability, op, d.n)
	}
	if !allowed(d.mode) {
		return capErr(op, d.mode)
	}
	return nil
}

// Set writes 1 to a single-bit field.
func (d Dyn[W]) Set() error {
	if err := d.checkBit("set", CanSet); err != nil {
		return err
	}
	d.storeBit(true)
	return nil
}

// Clear writes 0 to a single-bit field.
func (d Dyn[W]) Clear() error {
	if err := d.checkBit("clear", CanReset); err != nil {
		return err
	}
	d.storeBit(false)
	return nil
}

// Flip inverts a single-bit field.
func (d Dyn[W]) Flip() error {
	if err := d.checkBit("flip", CanWrite); err != nil {
		return err
	}
	d.storeBit(!d.bit())
	return nil
}

// DynArray is an array whose layout and access mode are known only at run
// time.
type DynArray[W mmio.Word] struct {
	array[W]
	mode Access
}

func NewDynArray[W mmio.Word](regs []mmio.Reg[W], l ArrayLayout, a Access) (DynArray[W], error) {
	arr, err := newArray(regs, l)
	return DynArray[W]{arr, a}, err
}

func (d DynArray[W]) Access() Access { return d.mode }

// Load returns element i.
func (d DynArray[W]) Load(i uint) (W, error) {
	k, err := index(i, d.l.N)
	if err != nil {
		return 0, err
	}
	return d.element(k).load(), nil
}

// Store writes v to element i.
func (d DynArray[W]) Store(i uint, v W) error {
	k, err := index(i, d.l.N)
	if err != nil {
		return err
	}
	if !CanWrite(d.mode) {
		return capErr("store", d.mode)
	}
	if err := CheckWidth(v, d.l.Len); err != nil {
		return err
	}
	d.element(k).store(v)
	return nil
}

// Elem returns element i as a Dyn field.
func (d DynArray[W]) Elem(i uint) (Dyn[W], error) {
	k, err := index(i, d.l.N)
	if err != nil {
		return Dyn[W]{}, err
	}
	return Dyn[W]{d.element(k), d.mode}, nil
}
