// Copyright 2019 Michal Derkacz. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"bytes"
	"fmt"
	"strings"
	"text/tabwriter"
	"text/template"

	"github.com/embeddedgo/bitreg/bitfield"
	"github.com/embeddedgo/bitreg/regmap"
)

type Value struct {
	Name  string
	Descr string
	Value uint64
}

type Field struct {
	Name   string
	Descr  string
	Type   string // bitfield type
	Ctor   string // constructor call
	VType  string // value type, if the field has enumerated values
	Values []*Value
}

type Reg struct {
	Name   string
	Type   string
	Descr  string
	Word   string
	Offset uint64
	Size   uint64
	Dim    int
	Stride uint64
	Fields []*Field
}

func (r *Reg) Array() bool { return r.Dim > 1 }

// Span returns the number of bytes the register occupies in the peripheral.
func (r *Reg) Span() uint64 {
	if r.Array() {
		return uint64(r.Dim) * r.Stride
	}
	return r.Size
}

func (r *Reg) MemberType() string {
	if r.Array() {
		return "*bitfield.RegArray[" + r.Type + "]"
	}
	return r.Type
}

type Instance struct {
	Name  string
	Base  uint64
	Descr string
}

type Package struct {
	Pkg        string
	Orig       string
	MCU        string
	ImportRoot string
	Doc        string
	Size       uint64
	Insts      []*Instance
	Regs       []*Reg
}

// packages groups the peripherals that share registers (a base peripheral
// and the peripherals derived from it) into one package each.
func packages(d *regmap.Device, mcu string) (pkgs []*Package, errs []error) {
	byRegs := make(map[*regmap.Register]*Package)
	used := make(map[string]bool)
	for _, p := range d.Peripherals {
		if len(p.Registers) == 0 {
			errs = append(errs, fmt.Errorf("%s: no registers, skipped", p.Name))
			continue
		}
		inst := &Instance{Name: ident(p.Name), Base: p.Base, Descr: p.Descr}
		if pkg := byRegs[p.Registers[0]]; pkg != nil {
			pkg.Insts = append(pkg.Insts, inst)
			continue
		}
		pkg := &Package{
			Orig:       p.Name,
			MCU:        mcu,
			ImportRoot: importRoot,
			Size:       p.Size(),
			Insts:      []*Instance{inst},
		}
		pkg.Pkg = pkgName(p, used)
		for _, r := range p.Registers {
			if err := r.Validate(); err != nil {
				errs = append(errs, fmt.Errorf("%s.%w, skipped", p.Name, err))
				continue
			}
			pkg.Regs = append(pkg.Regs, newReg(r))
		}
		byRegs[p.Registers[0]] = pkg
		pkgs = append(pkgs, pkg)
	}
	for _, pkg := range pkgs {
		reserved := map[string]bool{"Periph": true, "NewPeriph": true, "Size": true}
		for _, inst := range pkg.Insts {
			reserved[inst.Name] = true
		}
		for _, r := range pkg.Regs {
			if reserved[r.Type] {
				r.Type += "_"
			}
		}
		pkg.Doc = pkg.doc()
	}
	return pkgs, errs
}

func pkgName(p *regmap.Peripheral, used map[string]bool) string {
	name := p.Group
	if name == "" {
		name = dropDigits(p.Name)
	}
	name = strings.ToLower(ident(name))
	if used[name] {
		name = strings.ToLower(ident(p.Name))
	}
	for used[name] {
		name += "_"
	}
	used[name] = true
	return name
}

func wordType(width uint) string {
	return fmt.Sprintf("uint%d", width)
}

func newReg(r *regmap.Register) *Reg {
	name := ident(r.Name)
	reg := &Reg{
		Name:   name,
		Type:   name,
		Descr:  r.Descr,
		Word:   wordType(r.Width),
		Offset: r.Offset,
		Size:   uint64(r.Width / 8),
		Dim:    r.Dim,
		Stride: r.Stride,
	}
	for _, f := range r.Fields {
		reg.Fields = append(reg.Fields, newField(reg, f))
	}
	return reg
}

// newField chooses the bitfield type of f by its access mode and shape. Only
// the operations the access mode allows are available in the chosen type.
func newField(r *Reg, f *regmap.Field) *Field {
	fd := &Field{Name: ident(f.Name), Descr: f.Descr}
	if fd.Name == "Reg" {
		fd.Name = "Reg_"
	}
	vtype := r.Word
	if len(f.Values) > 0 && (f.Len > 1 || f.N() > 1) {
		fd.VType = r.Type + "_" + fd.Name
		vtype = fd.VType
		for _, v := range f.Values {
			fd.Values = append(fd.Values, &Value{
				Name:  fd.VType + "_" + ident(v.Name),
				Descr: v.Descr,
				Value: v.Value,
			})
		}
	}
	w := r.Word
	switch {
	case f.N() > 1:
		kind := "Array"
		if !bitfield.CanWrite(f.Access) {
			kind = "RArray"
		}
		l := f.Layout()
		fd.Type = fmt.Sprintf("bitfield.%s[%s, int, %s]", kind, w, vtype)
		fd.Ctor = fmt.Sprintf(
			"bitfield.New%s[%s, int, %s](regs, bitfield.ArrayLayout{Pos0: %d, Len: %d, Step: %d, N: %d})",
			kind, w, vtype, l.Pos0, l.Len, l.Step, l.N,
		)
	case f.Len == 1:
		kind := map[bitfield.Access]string{
			bitfield.Read:        "RBit",
			bitfield.Write:       "WBit",
			bitfield.ReadWrite:   "Bit",
			bitfield.ReadClearW0: "RC0Bit",
			bitfield.ReadClearW1: "RC1Bit",
		}[f.Access]
		fd.Type = fmt.Sprintf("bitfield.%s[%s]", kind, w)
		fd.Ctor = fmt.Sprintf("bitfield.New%s(r.Reg, %d)", kind, f.Pos)
	default:
		kind := "RField"
		switch f.Access {
		case bitfield.ReadWrite:
			kind = "Field"
		case bitfield.Write:
			kind = "WField"
		}
		fd.Type = fmt.Sprintf("bitfield.%s[%s, %s]", kind, w, vtype)
		fd.Ctor = fmt.Sprintf(
			"bitfield.New%s[%s, %s](r.Reg, %d, %d)", kind, w, vtype, f.Pos, f.Len,
		)
	}
	return fd
}

func (pkg *Package) doc() string {
	w := new(bytes.Buffer)
	fmt.Fprintln(
		w, "// Package", pkg.Pkg, "provides access to the registers of the",
		pkg.Orig, "peripheral.",
	)
	fmt.Fprintln(w, "//")
	fmt.Fprintln(w, "// Instances:")
	tw := new(tabwriter.Writer)
	tw.Init(w, 0, 0, 1, ' ', 0)
	for _, inst := range pkg.Insts {
		fmt.Fprintf(tw, "//  %s\t 0x%08X\t", inst.Name, inst.Base)
		if inst.Descr != "" {
			fmt.Fprintf(tw, " %s\n", inst.Descr)
		} else {
			fmt.Fprintln(tw)
		}
	}
	tw.Flush()
	fmt.Fprintln(w, "// Registers:")
	for _, r := range pkg.Regs {
		fmt.Fprintf(tw, "//  0x%03X\t%2d\t ", r.Offset, r.Size*8)
		if r.Array() {
			fmt.Fprintf(tw, "%s[%d]\t", r.Name, r.Dim)
		} else {
			fmt.Fprintf(tw, "%s\t", r.Name)
		}
		if r.Descr != "" {
			fmt.Fprintf(tw, " %s\n", r.Descr)
		} else {
			fmt.Fprintln(tw)
		}
	}
	tw.Flush()
	fmt.Fprintln(w, "// Import:")
	fmt.Fprintln(w, "// ", pkg.ImportRoot+"/mmap")
	return w.String()
}

var tmpl = template.Must(template.New("periph").Parse(periphTmpl))

func (pkg *Package) generate() ([]byte, error) {
	w := new(bytes.Buffer)
	donotedit(w, pkg.MCU)
	if err := tmpl.Execute(w, pkg); err != nil {
		return nil, err
	}
	return format(pkg.Pkg+".go", w.Bytes())
}
