// Copyright 2026 The Embedded Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Regvet reports bitfield layouts that are invalid at compile time.
//
// Usage:
//
//	regvet [flags] PACKAGES
//
// It can also be used as a vet tool:
//
//	go vet -vettool=$(which regvet) ./...
package main

import (
	"golang.org/x/tools/go/analysis/singlechecker"

	"github.com/embeddedgo/bitreg/layoutcheck"
)

func main() { singlechecker.Main(layoutcheck.Analyzer) }
