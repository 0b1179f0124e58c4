// Copyright 2026 The Embedded Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package mmio provides access to memory-mapped storage words.
//
// A storage word may be changed at any time by the hardware that backs it so
// every Load and Store is performed as written: it is never cached, merged
// with a neighbour access or removed by the compiler. The package provides no
// locking. A read-modify-write sequence built from Load and Store is not
// atomic and the caller must serialize it if the word is shared with another
// goroutine, an interrupt handler or the device itself.
package mmio

import (
	"sync/atomic"
	"unsafe"
)

// Word is the set of types that can be used as a storage word.
type Word interface {
	~uint8 | ~uint16 | ~uint32 | ~uint64
}

// Reg is a storage word laid over memory. Use RegAt or RegsAt to obtain a
// pointer to a Reg inside a Window. The zero value is an ordinary host word,
// useful in tests.
type Reg[W Word] struct {
	v W
}

// Load reads the word.
func (r *Reg[W]) Load() W {
	p := unsafe.Pointer(&r.v)
	switch unsafe.Sizeof(r.v) {
	case 1:
		return W(load8((*uint8)(p)))
	case 2:
		return W(load16((*uint16)(p)))
	case 4:
		return W(atomic.LoadUint32((*uint32)(p)))
	}
	return W(atomic.LoadUint64((*uint64)(p)))
}

// Store writes v to the word.
func (r *Reg[W]) Store(v W) {
	p := unsafe.Pointer(&r.v)
	switch unsafe.Sizeof(r.v) {
	case 1:
		store8((*uint8)(p), uint8(v))
	case 2:
		store16((*uint16)(p), uint16(v))
	case 4:
		atomic.StoreUint32((*uint32)(p), uint32(v))
	default:
		atomic.StoreUint64((*uint64)(p), uint64(v))
	}
}

// Addr returns the address of the word.
func (r *Reg[W]) Addr() uintptr {
	return uintptr(unsafe.Pointer(&r.v))
}

// There is no 8 and 16-bit variant of sync/atomic. A call that cannot be
// inlined is a real memory access at every call site.

//go:noinline
func load8(p *uint8) uint8 { return *p }

//go:noinline
func load16(p *uint16) uint16 { return *p }

//go:noinline
func store8(p *uint8, v uint8) { *p = v }

//go:noinline
func store16(p *uint16, v uint16) { *p = v }
