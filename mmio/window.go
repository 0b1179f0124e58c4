// Copyright 2026 The Embedded Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package mmio

import (
	"errors"
	"fmt"
	"unsafe"
)

var (
	ErrBounds = errors.New("mmio: access outside window")
	ErrAlign  = errors.New("mmio: misaligned register")
)

// Window is a bounds-checked handle on a region of memory. All registers
// obtained from a window lie entirely inside it.
type Window struct {
	base unsafe.Pointer
	size uintptr
	ram  []uint64 // keeps the host memory of NewRAM windows alive
}

// Map returns a window on size bytes of memory at the raw address addr.
//
// Map is the only place where an integer becomes a pointer. The caller
// guarantees that the whole region is mapped for the lifetime of the program
// and is not managed by the Go garbage collector (peripheral registers,
// a /dev/mem mapping).
func Map(addr, size uintptr) *Window {
	return &Window{base: unsafe.Pointer(addr), size: size}
}

// NewRAM allocates a zeroed window of size bytes in host memory. The window
// is aligned to 8 bytes so every Word type can be placed at any offset that
// is a multiple of its size.
func NewRAM(size uintptr) *Window {
	ram := make([]uint64, (size+7)/8)
	w := &Window{size: size, ram: ram}
	if len(ram) != 0 {
		w.base = unsafe.Pointer(unsafe.SliceData(ram))
	}
	return w
}

// Addr returns the address of the first byte of the window.
func (w *Window) Addr() uintptr { return uintptr(w.base) }

// Size returns the size of the window in bytes.
func (w *Window) Size() uintptr { return w.size }

func (w *Window) check(off, size uintptr) error {
	if off > w.size || w.size-off < size {
		return fmt.Errorf(
			"%w: %#x+%d, window size %d", ErrBounds, off, size, w.size,
		)
	}
	return nil
}

// Sub returns the part of w that starts at off and has size bytes.
func (w *Window) Sub(off, size uintptr) (*Window, error) {
	if err := w.check(off, size); err != nil {
		return nil, err
	}
	return &Window{base: unsafe.Add(w.base, off), size: size, ram: w.ram}, nil
}

// Bytes returns the window content as a byte slice. Use it on RAM windows
// only: byte accesses to peripheral registers are not always allowed.
func (w *Window) Bytes() []byte {
	if w.size == 0 {
		return nil
	}
	return unsafe.Slice((*byte)(w.base), w.size)
}

// RegAt returns the storage word at offset off in w.
func RegAt[W Word](w *Window, off uintptr) (*Reg[W], error) {
	regs, err := RegsAt[W](w, off, 1)
	if err != nil {
		return nil, err
	}
	return &regs[0], nil
}

// RegsAt returns n consecutive storage words starting at offset off in w.
func RegsAt[W Word](w *Window, off uintptr, n int) ([]Reg[W], error) {
	var r Reg[W]
	siz := unsafe.Sizeof(r)
	if n < 0 || uintptr(n) > w.size/siz {
		return nil, fmt.Errorf("%w: %d words of %d bytes", ErrBounds, n, siz)
	}
	if err := w.check(off, uintptr(n)*siz); err != nil {
		return nil, err
	}
	if (uintptr(w.base)+off)%siz != 0 {
		return nil, fmt.Errorf(
			"%w: %#x for %d-bit word", ErrAlign, uintptr(w.base)+off, siz*8,
		)
	}
	if n == 0 {
		return nil, nil
	}
	return unsafe.Slice((*Reg[W])(unsafe.Add(w.base, off)), n), nil
}
