// Copyright 2025 The Embedded Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package reset

import (
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/embeddedgo/bitreg/regmap"
	"github.com/embeddedgo/bitreg/regtool/internal/util"
)

const Descr = "write the reset state of a peripheral to an Intel HEX file"

func Main(cmd string, args []string) {
	fs := flag.NewFlagSet(cmd, flag.ExitOnError)
	fs.Usage = func() {
		fmt.Fprintf(
			os.Stderr,
			"Usage:\n  %s [OPTIONS] SVD PERIPH\nOptions:\n", cmd,
		)
		fs.PrintDefaults()
	}
	outFile := fs.String("o", "", "output `file` (default: standard output)")
	fs.Parse(args)
	if fs.NArg() != 2 {
		fs.Usage()
		os.Exit(1)
	}
	d := util.LoadSVD(fs.Arg(0))
	p, err := d.Peripheral(fs.Arg(1))
	util.FatalErr("", err)
	out := os.Stdout
	if *outFile != "" {
		out, err = os.Create(*outFile)
		util.FatalErr("", err)
	}
	util.FatalErr("", reset(out, p))
	util.FatalErr("", out.Close())
}

// reset writes the reset values of all registers of p to out. The gaps
// between registers are filled with zeros.
func reset(out io.Writer, p *regmap.Peripheral) error {
	w, err := util.Window(p, nil)
	if err != nil {
		return err
	}
	b, err := regmap.Bind(w, p)
	if err != nil {
		return err
	}
	for _, r := range p.Registers {
		for i := range r.Len() {
			if err := b.SetRaw(r.Name, i, r.Reset); err != nil {
				return fmt.Errorf("%s.%s: %w", p.Name, r.Name, err)
			}
		}
	}
	return w.DumpHex(out, uint32(p.Base))
}
