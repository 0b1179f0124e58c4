// Copyright 2026 The Embedded Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package bitfield

import (
	"fmt"
	"strings"
)

// Access is the access mode of a field. It describes capabilities, not
// states: see CanRead, CanWrite, CanSet and CanReset.
type Access uint8

const (
	Read        Access = iota // read only
	Write                     // write only
	ReadWrite                 // read and write
	ReadClearW0               // read, cleared by writing 0
	ReadClearW1               // read, cleared by writing 1
)

var accessNames = [...]string{
	Read:        "r",
	Write:       "w",
	ReadWrite:   "rw",
	ReadClearW0: "rc_w0",
	ReadClearW1: "rc_w1",
}

func (a Access) String() string {
	if int(a) < len(accessNames) {
		return accessNames[a]
	}
	return fmt.Sprintf("Access(%d)", uint8(a))
}

// CanRead reports whether the mode declares the field readable.
func CanRead(a Access) bool {
	return a == Read || a == ReadWrite || a == ReadClearW0
}

// CanWrite reports whether an arbitrary value can be written to the field.
func CanWrite(a Access) bool {
	return a == Write || a == ReadWrite
}

// CanSet reports whether a single-bit field can be written with 1.
func CanSet(a Access) bool {
	return CanWrite(a) || a == ReadClearW1
}

// CanReset reports whether a single-bit field can be written with 0.
func CanReset(a Access) bool {
	return CanWrite(a) || a == ReadClearW0
}

// ParseAccess parses the short name of an access mode (r, w, rw, rc_w0,
// rc_w1) or one of the CMSIS-SVD access names.
func ParseAccess(s string) (Access, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "r", "read", "read-only":
		return Read, nil
	case "w", "write", "write-only", "writeonce":
		return Write, nil
	case "rw", "read-write", "read-writeonce", "":
		return ReadWrite, nil
	case "rc_w0":
		return ReadClearW0, nil
	case "rc_w1":
		return ReadClearW1, nil
	}
	return 0, fmt.Errorf("bitfield: unknown access mode %q", s)
}

// AccessFromSVD combines the access and modifiedWriteValues properties of
// a CMSIS-SVD register or field into an access mode. Only read-write fields
// can become clear-on-write ones.
func AccessFromSVD(access, modifiedWriteValues string) (Access, error) {
	a, err := ParseAccess(access)
	if err != nil || a != ReadWrite {
		return a, err
	}
	switch modifiedWriteValues {
	case "zeroToClear":
		return ReadClearW0, nil
	case "oneToClear":
		return ReadClearW1, nil
	}
	return a, nil
}
