// Copyright 2019 Michal Derkacz. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"bytes"
	"fmt"
	"io"
	"sort"

	"github.com/embeddedgo/bitreg/regmap"
)

type MemGroup struct {
	Descr string
	Bases []*MemBase
}

func (g *MemGroup) WriteTo(w io.Writer) {
	fmt.Fprintln(w)
	if g.Descr != "" {
		fmt.Fprintln(w, "//", g.Descr)
	}
	fmt.Fprintln(w, "const (")
	for _, b := range g.Bases {
		fmt.Fprintf(w, "\t%s_BASE uintptr = 0x%08X", b.Name, b.Addr)
		if b.Descr != "" {
			fmt.Fprintln(w, " //", b.Descr)
		} else {
			fmt.Fprintln(w)
		}
	}
	fmt.Fprintln(w, ")")
}

type MemBase struct {
	Name  string
	Addr  uint64
	Descr string
}

func genMmap(d *regmap.Device, mcu string) ([]byte, error) {
	gmap := make(map[string]*MemGroup)
	for _, p := range d.Peripherals {
		g := gmap[p.Group]
		if g == nil {
			g = &MemGroup{Descr: p.Group}
			gmap[p.Group] = g
		}
		g.Bases = append(g.Bases, &MemBase{
			Name:  ident(p.Name),
			Addr:  p.Base,
			Descr: p.Descr,
		})
	}
	gsli := make([]*MemGroup, 0, len(gmap))
	for _, g := range gmap {
		sort.Slice(g.Bases, func(i, j int) bool {
			return pnameLess(g.Bases[i].Name, g.Bases[j].Name)
		})
		gsli = append(gsli, g)
	}
	sort.Slice(gsli, func(i, j int) bool { return gsli[i].Descr < gsli[j].Descr })

	w := new(bytes.Buffer)
	donotedit(w, mcu)
	fmt.Fprintln(
		w, "// Package mmap provides base memory addresses for all peripherals.",
	)
	fmt.Fprintln(w, "package mmap")
	for _, g := range gsli {
		g.WriteTo(w)
	}
	return format("mmap.go", w.Bytes())
}
