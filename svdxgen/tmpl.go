// Copyright 2026 The Embedded Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

const periphTmpl = `{{.Doc}}package {{.Pkg}}

import (
	"fmt"

	"github.com/embeddedgo/bitreg/bitfield"
	"github.com/embeddedgo/bitreg/mmio"
	"{{.ImportRoot}}/mmap"
)

// Size is the number of bytes occupied by the registers.
const Size = {{printf "%#x" .Size}}

type Periph struct {
{{- range .Regs}}
	{{.Name}} {{.MemberType}}{{with .Descr}} // {{.}}{{end}}
{{- end}}
}

// NewPeriph returns the registers placed at the beginning of w.
func NewPeriph(w *mmio.Window) (*Periph, error) {
	p := new(Periph)
	var (
		sw  *mmio.Window
		err error
	)
{{- range .Regs}}
	if sw, err = w.Sub({{printf "0x%03X" .Offset}}, {{.Span}}); err == nil {
{{- if .Array}}
		p.{{.Name}}, err = bitfield.NewRegArray(sw, {{.Dim}}, {{.Stride}}, new{{.Type}})
{{- else}}
		p.{{.Name}}, err = new{{.Type}}(sw)
{{- end}}
	}
	if err != nil {
		return nil, fmt.Errorf("{{.Name}}: %w", err)
	}
{{- end}}
	return p, nil
}
{{range .Insts}}
// {{.Name}} returns the registers of the {{.Name}} instance.
func {{.Name}}() (*Periph, error) {
	return NewPeriph(mmio.Map(mmap.{{.Name}}_BASE, Size))
}
{{end}}
{{- range .Regs}}
{{- $r := .}}
type {{.Type}} struct {
	Reg *mmio.Reg[{{.Word}}]
{{- range .Fields}}
	{{.Name}} {{.Type}}{{with .Descr}} // {{.}}{{end}}
{{- end}}
}
{{range .Fields}}
{{- if .Values}}
{{- $f := .}}
type {{.VType}} {{$r.Word}}

const (
{{- range .Values}}
	{{.Name}} {{$f.VType}} = {{printf "%#x" .Value}}{{with .Descr}} // {{.}}{{end}}
{{- end}}
)
{{end}}
{{- end}}
func new{{.Type}}(w *mmio.Window) (r {{.Type}}, err error) {
	regs, err := mmio.RegsAt[{{.Word}}](w, 0, 1)
	if err != nil {
		return r, err
	}
	r.Reg = &regs[0]
{{- range .Fields}}
	if r.{{.Name}}, err = {{.Ctor}}; err != nil {
		return r, fmt.Errorf("{{.Name}}: %w", err)
	}
{{- end}}
	return r, nil
}
{{end}}`
