// Copyright 2026 The Embedded Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package svd

import (
	"fmt"
	"strconv"
	"strings"
)

// Bits returns the position of the least significant bit of the field and
// its width. All three SVD bit-range forms are accepted: bitOffset/bitWidth,
// lsb/msb and [msb:lsb].
func (f *Field) Bits() (pos, n uint, err error) {
	switch {
	case f.BitOffset != nil:
		n = 1
		if f.BitWidth != nil {
			n = uint(*f.BitWidth)
		}
		return uint(*f.BitOffset), n, nil
	case f.LSB != nil && f.MSB != nil:
		return bitRange(f.Name, uint64(*f.MSB), uint64(*f.LSB))
	case f.BitRange != nil:
		s := strings.TrimSpace(*f.BitRange)
		if len(s) < 5 || s[0] != '[' || s[len(s)-1] != ']' {
			return 0, 0, fmt.Errorf("%s: bad bit range %q", f.Name, s)
		}
		msbs, lsbs, ok := strings.Cut(s[1:len(s)-1], ":")
		if !ok {
			return 0, 0, fmt.Errorf("%s: bad bit range %q", f.Name, s)
		}
		msb, err := strconv.ParseUint(msbs, 10, 8)
		if err != nil {
			return 0, 0, fmt.Errorf("%s: bad bit range %q: %v", f.Name, s, err)
		}
		lsb, err := strconv.ParseUint(lsbs, 10, 8)
		if err != nil {
			return 0, 0, fmt.Errorf("%s: bad bit range %q: %v", f.Name, s, err)
		}
		return bitRange(f.Name, msb, lsb)
	}
	return 0, 0, fmt.Errorf("%s: bit range not specified", f.Name)
}

func bitRange(name string, msb, lsb uint64) (pos, n uint, err error) {
	if msb < lsb {
		return 0, 0, fmt.Errorf("%s: msb %d below lsb %d", name, msb, lsb)
	}
	return uint(lsb), uint(msb - lsb + 1), nil
}

// IsArray reports whether name describes an array of elements (NAME[%s])
// rather than a list of separately named ones (NAME%s).
func IsArray(name string) bool {
	return strings.HasSuffix(name, "[%s]")
}

// BaseName returns name without the dim placeholder.
func BaseName(name string) string {
	name = strings.TrimSuffix(name, "[%s]")
	return strings.ReplaceAll(name, "%s", "")
}

const maxDim = 1 << 16

// Indices returns the dimIndex substitutions of the element: the explicit
// list (A,B,C), a range (0-7 or A-D) or 0..dim-1 if dimIndex is absent.
func (g *DimElementGroup) Indices() ([]string, error) {
	if g.Dim > maxDim {
		return nil, fmt.Errorf("dim %d exceeds %d", g.Dim, maxDim)
	}
	dim := int(g.Dim)
	if dim == 0 {
		return nil, nil
	}
	if g.DimIndex == nil {
		idx := make([]string, dim)
		for i := range idx {
			idx[i] = strconv.Itoa(i)
		}
		return idx, nil
	}
	s := strings.TrimSpace(*g.DimIndex)
	var idx []string
	if strings.Contains(s, ",") {
		for _, e := range strings.Split(s, ",") {
			idx = append(idx, strings.TrimSpace(e))
		}
	} else if a, b, ok := strings.Cut(s, "-"); ok {
		var x, y int
		var format func(i int) string
		if n, err := strconv.Atoi(a); err == nil {
			m, err := strconv.Atoi(b)
			if err != nil {
				return nil, fmt.Errorf("bad dimIndex %q", s)
			}
			x, y, format = n, m, strconv.Itoa
		} else if len(a) == 1 && len(b) == 1 && isLetter(a[0]) && isLetter(b[0]) {
			x, y = int(a[0]), int(b[0])
			format = func(i int) string { return string(rune(i)) }
		} else {
			return nil, fmt.Errorf("bad dimIndex %q", s)
		}
		if x > y || y-x+1 != dim {
			return nil, fmt.Errorf("dimIndex %q does not give %d entries", s, dim)
		}
		for i := x; i <= y; i++ {
			idx = append(idx, format(i))
		}
	} else {
		idx = []string{s}
	}
	if len(idx) != dim {
		return nil, fmt.Errorf("dimIndex %q has %d entries, dim is %d", s, len(idx), dim)
	}
	return idx, nil
}

func isLetter(c byte) bool {
	return 'A' <= c && c <= 'Z' || 'a' <= c && c <= 'z'
}
