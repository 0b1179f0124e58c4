// Copyright 2025 The Embedded Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package util

import (
	"bytes"
	"fmt"
	"os"

	"github.com/embeddedgo/bitreg/mmio"
	"github.com/embeddedgo/bitreg/regmap"
)

func Warn(f string, args ...any) {
	fmt.Fprintf(os.Stderr, f+"\n", args...)
}

func Fatal(f string, args ...any) {
	fmt.Fprintf(os.Stderr, f+"\n", args...)
	os.Exit(1)
}

// FatalErr prints an error description and exits the program if the
// err != nil.
func FatalErr(what string, err error) {
	if err == nil {
		return
	}
	s := err.Error() + "\n"
	if what != "" {
		s = what + ": " + s
	}
	os.Stderr.WriteString(s)
	os.Exit(1)
}

// ReadSVD reads the register map of the device described by the SVD file
// name. The parts of the description that cannot be represented are
// returned as warnings.
func ReadSVD(name string) (*regmap.Device, []string, error) {
	f, err := os.Open(name)
	if err != nil {
		return nil, nil, err
	}
	defer f.Close()
	d, warns, err := regmap.Load(f)
	if err != nil {
		return nil, nil, fmt.Errorf("%s: %w", name, err)
	}
	return d, warns, nil
}

// LoadSVD works like ReadSVD but prints the warnings and exits on error.
func LoadSVD(name string) *regmap.Device {
	d, warns, err := ReadSVD(name)
	FatalErr("", err)
	for _, w := range warns {
		Warn("%s: %s", name, w)
	}
	return d
}

// Window returns a RAM window large enough for all registers of p. If hex is
// not nil the window is filled with the bytes of the Intel HEX image that
// fall into the address range of p. Bytes missing in the image are zero.
func Window(p *regmap.Peripheral, hex []byte) (*mmio.Window, error) {
	size := p.Size()
	if p.Base+size > 1<<32 {
		return nil, fmt.Errorf(
			"%s: %w: %d bytes at %#x", p.Name, mmio.ErrBounds, size, p.Base,
		)
	}
	w := mmio.NewRAM(uintptr(size))
	if hex != nil {
		if err := w.LoadHex(bytes.NewReader(hex), uint32(p.Base)); err != nil {
			return nil, err
		}
	}
	return w, nil
}

// Index returns the index that the path selects in an n-element register or
// field. The index can be omitted if n == 1.
func Index(what string, idx, n int) (int, error) {
	if idx >= 0 {
		return idx, nil
	}
	if n > 1 {
		return 0, fmt.Errorf("%s: index required, array of %d", what, n)
	}
	return 0, nil
}
