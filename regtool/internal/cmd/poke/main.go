// Copyright 2025 The Embedded Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package poke

import (
	"bytes"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/marcinbor85/gohex"

	"github.com/embeddedgo/bitreg/mmio"
	"github.com/embeddedgo/bitreg/regmap"
	"github.com/embeddedgo/bitreg/regtool/internal/util"
	"github.com/embeddedgo/bitreg/svd"
)

const Descr = "modify the registers saved in an Intel HEX file"

func Main(cmd string, args []string) {
	fs := flag.NewFlagSet(cmd, flag.ExitOnError)
	fs.Usage = func() {
		fmt.Fprintf(
			os.Stderr,
			"Usage:\n  %s [OPTIONS] SVD HEX PERIPH.REG[.FIELD]=VALUE...\n"+
				"VALUE is a number, an enumerated value name or, for bits,\n"+
				"one of: set, clear, flip.\nOptions:\n",
			cmd,
		)
		fs.PrintDefaults()
	}
	outFile := fs.String("o", "", "output `file` (default: overwrite HEX)")
	fs.Parse(args)
	if fs.NArg() < 3 {
		fs.Usage()
		os.Exit(1)
	}
	d := util.LoadSVD(fs.Arg(0))
	hexFile := fs.Arg(1)
	hex, err := os.ReadFile(hexFile)
	util.FatalErr("", err)
	var buf bytes.Buffer
	util.FatalErr("", poke(&buf, d, hex, fs.Args()[2:]))
	if *outFile == "" {
		*outFile = hexFile
	}
	util.FatalErr("", os.WriteFile(*outFile, buf.Bytes(), 0o644))
}

type periph struct {
	w *mmio.Window
	b *regmap.Bound
}

// poke applies the PATH=VALUE assignments to the registers saved in the hex
// image and writes the modified image to out. The data outside the modified
// peripherals is preserved.
func poke(out io.Writer, d *regmap.Device, hex []byte, assigns []string) error {
	bound := make(map[*regmap.Peripheral]*periph)
	var order []*regmap.Peripheral
	for _, a := range assigns {
		path, val, ok := strings.Cut(a, "=")
		if !ok {
			return fmt.Errorf("%s: missing =VALUE", a)
		}
		t, err := d.Lookup(path)
		if err != nil {
			return err
		}
		if t.Reg == nil {
			return fmt.Errorf("%s: register not specified", path)
		}
		p := bound[t.Periph]
		if p == nil {
			w, err := util.Window(t.Periph, hex)
			if err != nil {
				return err
			}
			b, err := regmap.Bind(w, t.Periph)
			if err != nil {
				return err
			}
			p = &periph{w, b}
			bound[t.Periph] = p
			order = append(order, t.Periph)
		}
		if err := assign(p.b, t, strings.TrimSpace(val)); err != nil {
			return fmt.Errorf("%s: %w", a, err)
		}
	}
	mem := gohex.NewMemory()
	if err := mem.ParseIntelHex(bytes.NewReader(hex)); err != nil {
		return err
	}
	for _, tp := range order {
		var err error
		mem, err = splice(mem, uint32(tp.Base), bound[tp].w.Bytes())
		if err != nil {
			return err
		}
	}
	return mem.DumpIntelHex(out, 16)
}

func assign(b *regmap.Bound, t *regmap.Target, val string) error {
	path := t.Path.String()
	ri, err := util.Index(path, t.Path.RegIdx, t.Reg.Len())
	if err != nil {
		return err
	}
	if t.Field == nil {
		v, err := svd.ParseUint(val)
		if err != nil {
			return err
		}
		return b.SetRaw(t.Reg.Name, ri, v)
	}
	bf, err := b.Field(t.Reg.Name, ri, t.Field.Name)
	if err != nil {
		return err
	}
	fi, err := util.Index(path, t.Path.FieldIdx, bf.Len())
	if err != nil {
		return err
	}
	switch val {
	case "set":
		return bf.Set(fi)
	case "clear":
		return bf.Clear(fi)
	case "flip":
		return bf.Flip(fi)
	}
	v, err := fieldValue(t.Field, val)
	if err != nil {
		return err
	}
	return bf.Store(fi, v)
}

func fieldValue(f *regmap.Field, val string) (uint64, error) {
	for _, ev := range f.Values {
		if strings.EqualFold(ev.Name, val) {
			return ev.Value, nil
		}
	}
	return svd.ParseUint(val)
}

// splice returns a copy of mem with the bytes from base to base+len(data)
// replaced by data.
func splice(mem *gohex.Memory, base uint32, data []byte) (*gohex.Memory, error) {
	start := uint64(base)
	end := start + uint64(len(data))
	out := gohex.NewMemory()
	for _, seg := range mem.GetDataSegments() {
		s := uint64(seg.Address)
		e := s + uint64(len(seg.Data))
		if s < start {
			if err := out.AddBinary(seg.Address, seg.Data[:min(e, start)-s]); err != nil {
				return nil, err
			}
		}
		if e > end {
			k := max(s, end)
			if err := out.AddBinary(uint32(k), seg.Data[k-s:]); err != nil {
				return nil, err
			}
		}
	}
	if err := out.AddBinary(base, data); err != nil {
		return nil, err
	}
	return out, nil
}
