// Copyright 2025 The Embedded Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package show

import (
	"flag"
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/embeddedgo/bitreg/regmap"
	"github.com/embeddedgo/bitreg/regtool/internal/util"
)

const Descr = "print the registers of a peripheral saved in an Intel HEX file"

func Main(cmd string, args []string) {
	fs := flag.NewFlagSet(cmd, flag.ExitOnError)
	fs.Usage = func() {
		fmt.Fprintf(
			os.Stderr,
			"Usage:\n  %s [OPTIONS] SVD HEX PERIPH[.REG[.FIELD]]\nOptions:\n",
			cmd,
		)
		fs.PrintDefaults()
	}
	raw := fs.Bool("raw", false, "print only the register values")
	fs.Parse(args)
	if fs.NArg() != 3 {
		fs.Usage()
		os.Exit(1)
	}
	d := util.LoadSVD(fs.Arg(0))
	t, err := d.Lookup(fs.Arg(2))
	util.FatalErr("", err)
	hex, err := os.ReadFile(fs.Arg(1))
	util.FatalErr("", err)
	w, err := util.Window(t.Periph, hex)
	util.FatalErr(fs.Arg(1), err)
	b, err := regmap.Bind(w, t.Periph)
	util.FatalErr("", err)
	util.FatalErr("", show(os.Stdout, b, t, *raw))
}

// show prints the part of b selected by t. All elements are printed if the
// path omits the register or field index.
func show(out io.Writer, b *regmap.Bound, t *regmap.Target, raw bool) error {
	p := t.Periph
	tw := tabwriter.NewWriter(out, 0, 8, 2, ' ', 0)
	fmt.Fprintf(tw, "%s\t0x%08X\t\t\n", p.Name, p.Base)
	regs := p.Registers
	if t.Reg != nil {
		regs = []*regmap.Register{t.Reg}
	}
	for _, r := range regs {
		first, last := 0, r.Len()-1
		if r == t.Reg && t.Path.RegIdx >= 0 {
			first, last = t.Path.RegIdx, t.Path.RegIdx
		}
		for ri := first; ri <= last; ri++ {
			if err := showReg(tw, b, t, r, ri, raw); err != nil {
				return err
			}
		}
	}
	return tw.Flush()
}

func elemName(name string, dim, i int) string {
	if dim > 1 {
		return fmt.Sprintf("%s[%d]", name, i)
	}
	return name
}

func showReg(tw io.Writer, b *regmap.Bound, t *regmap.Target, r *regmap.Register, ri int, raw bool) error {
	v, err := b.Raw(r.Name, ri)
	if err != nil {
		return err
	}
	off := r.Offset + uint64(ri)*r.Stride
	fmt.Fprintf(
		tw, "  %s\t0x%03X\t0x%0*X\t%s\n",
		elemName(r.Name, r.Dim, ri), off, int(r.Width/4), v, r.Access,
	)
	if raw {
		return nil
	}
	fields := r.Fields
	if t.Field != nil {
		fields = []*regmap.Field{t.Field}
	}
	for _, f := range fields {
		bf, err := b.Field(r.Name, ri, f.Name)
		if err != nil {
			return err
		}
		first, last := 0, bf.Len()-1
		if f == t.Field && t.Path.FieldIdx >= 0 {
			first, last = t.Path.FieldIdx, t.Path.FieldIdx
		}
		for i := first; i <= last; i++ {
			fv, err := bf.Load(i)
			if err != nil {
				return err
			}
			fmt.Fprintf(
				tw, "    %s\t%d\t0x%X\t%s\n",
				elemName(f.Name, f.Dim, i), fv, fv, valueName(f, fv),
			)
		}
	}
	return nil
}

func valueName(f *regmap.Field, v uint64) string {
	for _, ev := range f.Values {
		if ev.Value == v {
			return ev.Name
		}
	}
	return ""
}
