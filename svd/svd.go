// Copyright 2019 Michal Derkacz. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package svd decodes the parts of CMSIS-SVD device descriptions that
// describe the register layout: peripherals, clusters, registers, fields and
// their access modes.
package svd

import (
	"encoding/xml"
	"errors"
	"io"
	"strconv"
	"strings"
)

// Uint is an SVD scaledNonNegativeInteger: decimal, 0x hexadecimal or
// #binary.
type Uint uint64

func (u *Uint) UnmarshalXML(d *xml.Decoder, start xml.StartElement) error {
	var s string
	if err := d.DecodeElement(&s, &start); err != nil {
		return err
	}
	v, err := ParseUint(s)
	*u = Uint(v)
	return err
}

// ParseUint parses an SVD integer. The binary form may contain x as
// "do not care" digits; they are read as 0.
func ParseUint(s string) (uint64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, ErrNilValue
	}
	if s[0] == '#' {
		s = "0b" + strings.ReplaceAll(s[1:], "x", "0")
	}
	return strconv.ParseUint(s, 0, 64)
}

type Device struct {
	Name            string `xml:"name"`
	Version         string `xml:"version"`
	Description     string `xml:"description"`
	AddressUnitBits Uint   `xml:"addressUnitBits"`
	Width           Uint   `xml:"width"`
	RegisterPropertiesGroup
	Peripherals []*Peripheral `xml:"peripherals>peripheral"`
}

// RegisterPropertiesGroup holds the properties inherited from the device by
// peripherals, from peripherals by clusters and registers and so on.
type RegisterPropertiesGroup struct {
	Size       *Uint   `xml:"size"`
	Access     *string `xml:"access"`
	ResetValue *Uint   `xml:"resetValue"`
	ResetMask  *Uint   `xml:"resetMask"`
}

// Inherit fills the properties missing in g from parent.
func (g *RegisterPropertiesGroup) Inherit(parent RegisterPropertiesGroup) {
	if g.Size == nil {
		g.Size = parent.Size
	}
	if g.Access == nil {
		g.Access = parent.Access
	}
	if g.ResetValue == nil {
		g.ResetValue = parent.ResetValue
	}
	if g.ResetMask == nil {
		g.ResetMask = parent.ResetMask
	}
}

type DimElementGroup struct {
	Dim          Uint    `xml:"dim"`
	DimIncrement Uint    `xml:"dimIncrement"`
	DimIndex     *string `xml:"dimIndex"`
}

type Peripheral struct {
	DerivedFrom *string `xml:"derivedFrom,attr"`
	Name        string  `xml:"name"`
	Description *string `xml:"description"`
	GroupName   *string `xml:"groupName"`
	BaseAddress Uint    `xml:"baseAddress"`
	RegisterPropertiesGroup
	AddressBlock []*AddressBlock `xml:"addressBlock"`
	Registers    []*Register     `xml:"registers>register"`
	Clusters     []*Cluster      `xml:"registers>cluster"`
}

type AddressBlock struct {
	Offset Uint   `xml:"offset"`
	Size   Uint   `xml:"size"`
	Usage  string `xml:"usage"`
}

type Cluster struct {
	DerivedFrom *string `xml:"derivedFrom,attr"`
	DimElementGroup
	Name          string  `xml:"name"`
	Description   *string `xml:"description"`
	AddressOffset Uint    `xml:"addressOffset"`
	RegisterPropertiesGroup
	Registers []*Register `xml:"register"`
	Clusters  []*Cluster  `xml:"cluster"`
}

type Register struct {
	DerivedFrom *string `xml:"derivedFrom,attr"`
	DimElementGroup
	Name          string  `xml:"name"`
	Description   *string `xml:"description"`
	AddressOffset Uint    `xml:"addressOffset"`
	RegisterPropertiesGroup
	ModifiedWriteValues *string  `xml:"modifiedWriteValues"`
	Fields              []*Field `xml:"fields>field"`
}

type Field struct {
	DerivedFrom *string `xml:"derivedFrom,attr"`
	DimElementGroup
	Name        string  `xml:"name"`
	Description *string `xml:"description"`
	BitOffset   *Uint   `xml:"bitOffset"`
	BitWidth    *Uint   `xml:"bitWidth"`
	LSB         *Uint   `xml:"lsb"`
	MSB         *Uint   `xml:"msb"`
	BitRange    *string `xml:"bitRange"`
	Access      *string `xml:"access"`

	ModifiedWriteValues *string             `xml:"modifiedWriteValues"`
	EnumeratedValues    []*EnumeratedValues `xml:"enumeratedValues"`
}

type EnumeratedValues struct {
	Name            *string            `xml:"name"`
	Usage           *string            `xml:"usage"`
	EnumeratedValue []*EnumeratedValue `xml:"enumeratedValue"`
}

type EnumeratedValue struct {
	Name        *string `xml:"name"`
	Description *string `xml:"description"`
	Value       *string `xml:"value"`
	IsDefault   *bool   `xml:"isDefault"`
}

var ErrNilValue = errors.New("nil value")

func (ev *EnumeratedValue) Val() (uint64, error) {
	if ev.Value == nil {
		return 0, ErrNilValue
	}
	return ParseUint(*ev.Value)
}

// Decode reads an SVD document.
func Decode(r io.Reader) (*Device, error) {
	dev := new(Device)
	if err := xml.NewDecoder(r).Decode(dev); err != nil {
		return nil, err
	}
	return dev, nil
}
