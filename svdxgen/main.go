// Copyright 2019 Michal Derkacz. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Svdxgen generates typed register maps from CMSIS-SVD files.
//
// For every SVD file it writes the mmap/MCU.go file with the base addresses
// of all peripherals and the PKG/MCU.go file for every peripheral that
// describes its own registers. Derived peripherals become additional
// instances of their base. MCU is the lowercase name of the SVD file without
// extension and is also used as the build constraint of the generated files.
package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/embeddedgo/bitreg/regmap"
)

var (
	outDir     string
	importRoot string
)

func mcuName(file string) string {
	mcu := filepath.Base(file)
	if i := strings.LastIndexByte(mcu, '.'); i >= 0 {
		mcu = mcu[:i]
	}
	return strings.ToLower(mcu)
}

func svdxgen(file string) error {
	f, err := os.Open(file)
	if err != nil {
		return err
	}
	d, warns, err := regmap.Load(f)
	f.Close()
	if err != nil {
		return fmt.Errorf("%s: %w", file, err)
	}
	for _, w := range warns {
		warn(file+":", w)
	}
	mcu := mcuName(file)
	pkgs, errs := packages(d, mcu)
	for _, err := range errs {
		warn(file+":", err)
	}
	var g errgroup.Group
	g.Go(func() error {
		src, err := genMmap(d, mcu)
		if err != nil {
			return fmt.Errorf("%s: mmap: %w", file, err)
		}
		return save(filepath.Join(outDir, "mmap"), mcu, src)
	})
	for _, pkg := range pkgs {
		g.Go(func() error {
			src, err := pkg.generate()
			if err != nil {
				return fmt.Errorf("%s: %s: %w", file, pkg.Pkg, err)
			}
			return save(filepath.Join(outDir, pkg.Pkg), mcu, src)
		})
	}
	return g.Wait()
}

func main() {
	flag.StringVar(&outDir, "o", ".", "output directory")
	flag.StringVar(
		&importRoot, "pkg", "",
		"import path of the output directory (default: derived from go.mod)",
	)
	flag.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage:\n  svdxgen [OPTIONS] SVD_FILE...\nOptions:")
		flag.PrintDefaults()
		os.Exit(1)
	}
	flag.Parse()
	if flag.NArg() == 0 {
		flag.Usage()
	}
	if importRoot == "" {
		var err error
		importRoot, err = modulePath(outDir)
		dieErr(err)
	}
	var g errgroup.Group
	for _, file := range flag.Args() {
		g.Go(func() error { return svdxgen(file) })
	}
	dieErr(g.Wait())
}
