// Copyright 2025 The Embedded Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package check

import (
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/embeddedgo/bitreg/regtool/internal/util"
)

const Descr = "check that SVD files describe valid register layouts"

func Main(cmd string, args []string) {
	fs := flag.NewFlagSet(cmd, flag.ExitOnError)
	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage:\n  %s [OPTIONS] SVD...\nOptions:\n", cmd)
		fs.PrintDefaults()
	}
	strict := fs.Bool("strict", false, "treat warnings as errors")
	fs.Parse(args)
	if fs.NArg() == 0 {
		fs.Usage()
		os.Exit(1)
	}
	failed := false
	for _, name := range fs.Args() {
		if !check(os.Stderr, name, *strict) {
			failed = true
		}
	}
	if failed {
		os.Exit(1)
	}
}

// check reports the problems found in the SVD file name to out. It returns
// false if the file describes a register layout that cannot be used.
func check(out io.Writer, name string, strict bool) bool {
	d, warns, err := util.ReadSVD(name)
	if err != nil {
		fmt.Fprintln(out, err)
		return false
	}
	for _, w := range warns {
		fmt.Fprintf(out, "%s: %s\n", name, w)
	}
	ok := !strict || len(warns) == 0
	if err := d.Validate(); err != nil {
		if errs, ok := err.(interface{ Unwrap() []error }); ok {
			for _, e := range errs.Unwrap() {
				fmt.Fprintf(out, "%s: %v\n", name, e)
			}
		} else {
			fmt.Fprintf(out, "%s: %v\n", name, err)
		}
		ok = false
	}
	return ok
}
