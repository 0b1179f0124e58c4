// Copyright 2026 The Embedded Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package regmap

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/embeddedgo/bitreg/bitfield"
	"github.com/embeddedgo/bitreg/svd"
)

// Load decodes an SVD document and builds its register map.
func Load(r io.Reader) (d *Device, warnings []string, err error) {
	sd, err := svd.Decode(r)
	if err != nil {
		return nil, nil, err
	}
	return FromSVD(sd)
}

type builder struct {
	warns []string
	regs  []*Register
}

func (b *builder) warn(f string, args ...any) {
	b.warns = append(b.warns, fmt.Sprintf(f, args...))
}

func str(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// FromSVD builds the register map of an SVD device. Derived peripherals share
// the registers of their base, clusters are flattened into registers named
// CLUSTER_REG and dim lists (NAME%s) are expanded into separate registers.
// Dim arrays (NAME[%s]) become registers with Dim and Stride set. The parts
// of the description that cannot be represented are skipped and reported
// in warnings.
func FromSVD(sd *svd.Device) (d *Device, warnings []string, err error) {
	d = &Device{Name: sd.Name, Width: uint(sd.Width)}
	if sd.Size != nil {
		d.Width = uint(*sd.Size)
	}
	if d.Width == 0 {
		d.Width = 32
	}
	var b builder
	byName := make(map[string]*svd.Peripheral, len(sd.Peripherals))
	built := make(map[string]*Peripheral, len(sd.Peripherals))
	for _, sp := range sd.Peripherals {
		byName[sp.Name] = sp
	}
	for _, sp := range sd.Peripherals {
		p := &Peripheral{
			Name:  sp.Name,
			Descr: fixSpaces(str(sp.Description)),
			Group: str(sp.GroupName),
			Base:  uint64(sp.BaseAddress),
		}
		d.Peripherals = append(d.Peripherals, p)
		built[sp.Name] = p
		if sp.DerivedFrom != nil {
			continue
		}
		props := sp.RegisterPropertiesGroup
		props.Inherit(sd.RegisterPropertiesGroup)
		b.regs = nil
		for _, sr := range sp.Registers {
			if err := b.register(props, "", 0, sr, 1, 0); err != nil {
				return nil, nil, fmt.Errorf("%s.%w", sp.Name, err)
			}
		}
		for _, sc := range sp.Clusters {
			if err := b.cluster(props, "", 0, sc, 1, 0); err != nil {
				return nil, nil, fmt.Errorf("%s.%w", sp.Name, err)
			}
		}
		sort.SliceStable(b.regs, func(i, k int) bool {
			return b.regs[i].Offset < b.regs[k].Offset
		})
		p.Registers = b.regs
	}
	for _, sp := range sd.Peripherals {
		if sp.DerivedFrom == nil {
			continue
		}
		base := built[*sp.DerivedFrom]
		if base == nil || byName[*sp.DerivedFrom].DerivedFrom != nil {
			return nil, nil, fmt.Errorf(
				"%s: %w: base peripheral %s", sp.Name, ErrNotFound, *sp.DerivedFrom,
			)
		}
		p := built[sp.Name]
		p.Registers = base.Registers
		if p.Descr == "" {
			p.Descr = base.Descr
		}
		if p.Group == "" {
			p.Group = base.Group
		}
	}
	return d, b.warns, nil
}

func (b *builder) cluster(props svd.RegisterPropertiesGroup, prefix string, off uint64, sc *svd.Cluster, dim int, stride uint64) error {
	if sc.DerivedFrom != nil {
		b.warn("%s%s: derived clusters not supported", prefix, sc.Name)
		return nil
	}
	cp := sc.RegisterPropertiesGroup
	cp.Inherit(props)
	off += uint64(sc.AddressOffset)
	names := []string{sc.Name}
	incr := uint64(0)
	if sc.Dim > 1 {
		if svd.IsArray(sc.Name) {
			if dim > 1 {
				b.warn("%s%s: nested arrays not supported", prefix, sc.Name)
				return nil
			}
			dim, stride = int(sc.Dim), uint64(sc.DimIncrement)
			names = []string{svd.BaseName(sc.Name)}
		} else {
			idx, err := sc.Indices()
			if err != nil {
				return fmt.Errorf("%s: %v", sc.Name, err)
			}
			names = names[:0]
			for _, s := range idx {
				names = append(names, strings.ReplaceAll(sc.Name, "%s", s))
			}
			incr = uint64(sc.DimIncrement)
		}
	}
	for i, name := range names {
		cprefix := prefix + name + "_"
		coff := off + uint64(i)*incr
		for _, sr := range sc.Registers {
			if err := b.register(cp, cprefix, coff, sr, dim, stride); err != nil {
				return err
			}
		}
		for _, ssc := range sc.Clusters {
			if err := b.cluster(cp, cprefix, coff, ssc, dim, stride); err != nil {
				return err
			}
		}
	}
	return nil
}

func (b *builder) register(props svd.RegisterPropertiesGroup, prefix string, off uint64, sr *svd.Register, dim int, stride uint64) error {
	if sr.DerivedFrom != nil {
		b.warn("%s%s: derived registers not supported", prefix, sr.Name)
		return nil
	}
	rp := sr.RegisterPropertiesGroup
	rp.Inherit(props)
	proto := &Register{
		Name:   prefix + sr.Name,
		Descr:  fixSpaces(str(sr.Description)),
		Offset: off + uint64(sr.AddressOffset),
		Width:  32,
		Dim:    dim,
		Stride: stride,
	}
	if rp.Size != nil {
		proto.Width = uint(*rp.Size)
	}
	if rp.ResetValue != nil {
		proto.Reset = uint64(*rp.ResetValue)
	}
	mwv := str(sr.ModifiedWriteValues)
	a, err := bitfield.AccessFromSVD(str(rp.Access), mwv)
	if err != nil {
		return fmt.Errorf("%s: %v", proto.Name, err)
	}
	proto.Access = a
	for _, sf := range sr.Fields {
		f, err := b.field(proto, str(rp.Access), mwv, sf)
		if err != nil {
			return err
		}
		if f != nil {
			proto.Fields = append(proto.Fields, f)
		}
	}
	sort.Slice(proto.Fields, func(i, k int) bool {
		return proto.Fields[i].Pos < proto.Fields[k].Pos
	})
	if sr.Dim <= 1 {
		b.regs = append(b.regs, proto)
		return nil
	}
	if svd.IsArray(sr.Name) {
		if dim > 1 {
			b.warn("%s: nested arrays not supported", proto.Name)
			return nil
		}
		proto.Name = prefix + svd.BaseName(sr.Name)
		proto.Dim = int(sr.Dim)
		proto.Stride = uint64(sr.DimIncrement)
		b.regs = append(b.regs, proto)
		return nil
	}
	idx, err := sr.Indices()
	if err != nil {
		return fmt.Errorf("%s: %v", proto.Name, err)
	}
	for i, s := range idx {
		r := *proto
		r.Name = prefix + strings.ReplaceAll(sr.Name, "%s", s)
		r.Offset += uint64(i) * uint64(sr.DimIncrement)
		b.regs = append(b.regs, &r)
	}
	return nil
}

func (b *builder) field(r *Register, racc, mwv string, sf *svd.Field) (*Field, error) {
	if sf.DerivedFrom != nil {
		b.warn("%s.%s: derived fields not supported", r.Name, sf.Name)
		return nil, nil
	}
	pos, n, err := sf.Bits()
	if err != nil {
		return nil, fmt.Errorf("%s.%v", r.Name, err)
	}
	f := &Field{
		Name:   sf.Name,
		Descr:  fixSpaces(str(sf.Description)),
		Pos:    pos,
		Len:    n,
		Access: r.Access,
	}
	if sf.ModifiedWriteValues != nil {
		mwv = *sf.ModifiedWriteValues
	}
	if sf.Access != nil || sf.ModifiedWriteValues != nil {
		acc := racc
		if sf.Access != nil {
			acc = *sf.Access
		}
		if f.Access, err = bitfield.AccessFromSVD(acc, mwv); err != nil {
			return nil, fmt.Errorf("%s.%s: %v", r.Name, sf.Name, err)
		}
	}
	if sf.Dim > 1 {
		f.Name = svd.BaseName(sf.Name)
		f.Dim = int(sf.Dim)
		f.Step = uint(sf.DimIncrement)
	}
	for _, sevs := range sf.EnumeratedValues {
		if u := str(sevs.Usage); u == "write" && bitfield.CanRead(f.Access) {
			continue // keep the values read back
		}
		for _, sev := range sevs.EnumeratedValue {
			if sev.Name == nil || sev.Value == nil {
				continue
			}
			v, err := sev.Val()
			if err != nil {
				b.warn("%s.%s.%s: %v", r.Name, f.Name, *sev.Name, err)
				continue
			}
			f.Values = append(f.Values, &Value{
				Name:  *sev.Name,
				Descr: fixSpaces(str(sev.Description)),
				Value: v,
			})
		}
	}
	sort.Slice(f.Values, func(i, k int) bool {
		return f.Values[i].Value < f.Values[k].Value
	})
	return f, nil
}

func fixSpaces(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
