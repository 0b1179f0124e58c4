// Copyright 2026 The Embedded Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package mmio

import (
	"fmt"
	"io"

	"github.com/marcinbor85/gohex"
)

// DumpHex writes the content of w to out in the Intel HEX format. The first
// byte of the window is placed at the load address base.
func (w *Window) DumpHex(out io.Writer, base uint32) error {
	if uint64(base)+uint64(w.size) > 1<<32 {
		return fmt.Errorf("%w: %d bytes at %#x", ErrBounds, w.size, base)
	}
	data := make([]byte, w.size)
	copy(data, w.Bytes())
	mem := gohex.NewMemory()
	if err := mem.AddBinary(base, data); err != nil {
		return err
	}
	return mem.DumpIntelHex(out, 16)
}

// LoadHex reads an Intel HEX image from in and copies the data that falls
// into w, assuming the first byte of the window has the load address base.
// Data outside the window is ignored and the bytes not covered by the image
// are left unchanged.
func (w *Window) LoadHex(in io.Reader, base uint32) error {
	mem := gohex.NewMemory()
	if err := mem.ParseIntelHex(in); err != nil {
		return err
	}
	b := w.Bytes()
	start := uint64(base)
	end := start + uint64(len(b))
	for _, seg := range mem.GetDataSegments() {
		s := uint64(seg.Address)
		e := s + uint64(len(seg.Data))
		if e <= start || s >= end {
			continue
		}
		data := seg.Data
		if s < start {
			data = data[start-s:]
			s = start
		}
		copy(b[s-start:], data)
	}
	return nil
}
