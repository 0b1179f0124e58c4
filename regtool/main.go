// Copyright 2025 The Embedded Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Regtool inspects and modifies register snapshots stored in Intel HEX files
// using the register maps described by CMSIS-SVD files.
package main

import (
	"fmt"
	"maps"
	"os"
	"slices"

	"github.com/embeddedgo/bitreg/regtool/internal/cmd/check"
	"github.com/embeddedgo/bitreg/regtool/internal/cmd/poke"
	"github.com/embeddedgo/bitreg/regtool/internal/cmd/reset"
	"github.com/embeddedgo/bitreg/regtool/internal/cmd/show"
)

type tool struct {
	descr string
	main  func(cmd string, args []string)
}

var tools = map[string]tool{
	"check": {check.Descr, check.Main},
	"poke":  {poke.Descr, poke.Main},
	"reset": {reset.Descr, reset.Main},
	"show":  {show.Descr, show.Main},
}

func printToolList() {
	names := slices.Sorted(maps.Keys(tools))
	maxLen := 0
	for _, k := range names {
		if maxLen < len(k) {
			maxLen = len(k)
		}
	}
	uw := os.Stderr
	uw.WriteString("Usage:\n  regtool COMMAND [ARGUMENTS]\n\n")
	uw.WriteString("Available commands:\n")
	for _, name := range names {
		fmt.Fprintf(uw, "  %*s  %s\n", maxLen, name, tools[name].descr)
	}
}

func main() {
	if len(os.Args) < 2 || os.Args[1] == "-h" {
		printToolList()
		return
	}
	tool, ok := tools[os.Args[1]]
	if !ok {
		printToolList()
		os.Exit(1)
	}
	tool.main(os.Args[1], os.Args[2:])
}
