// Copyright 2026 The Embedded Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strconv"
	"strings"
	"unicode"

	"golang.org/x/mod/modfile"
	"golang.org/x/tools/imports"
)

func warn(args ...any) {
	fmt.Fprintln(os.Stderr, args...)
}

func dieErr(err error) {
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func donotedit(w io.Writer, mcu string) {
	fmt.Fprintln(w, "// DO NOT EDIT THIS FILE. GENERATED BY svdxgen.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "//go:build", mcu)
	fmt.Fprintln(w)
}

// format formats the generated source and fixes its imports.
func format(name string, src []byte) ([]byte, error) {
	out, err := imports.Process(name, src, &imports.Options{
		Comments:  true,
		TabIndent: true,
		TabWidth:  8,
	})
	if err != nil {
		return nil, fmt.Errorf("%v\n%s", err, src)
	}
	return out, nil
}

func save(dir, mcu string, src []byte) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(dir, mcu+".go"), src, 0o644)
}

// ident turns s into a valid exported Go identifier.
func ident(s string) string {
	var sb strings.Builder
	for i, r := range s {
		switch {
		case r == '_' || unicode.IsLetter(r):
		case unicode.IsDigit(r):
			if i == 0 {
				sb.WriteByte('X')
			}
		default:
			r = '_'
		}
		sb.WriteRune(r)
	}
	id := sb.String()
	if id == "" {
		return "X"
	}
	if r := rune(id[0]); !unicode.IsUpper(r) {
		if unicode.IsLower(r) {
			return strings.ToUpper(id[:1]) + id[1:]
		}
		return "X" + id
	}
	return id
}

func dropDigits(s string) string {
	return strings.TrimRightFunc(s, unicode.IsDigit)
}

// pnameLess compares peripheral names taking the numeric suffixes into
// account (TIM2 < TIM10).
func pnameLess(a, b string) bool {
	an, bn := dropDigits(a), dropDigits(b)
	if an != bn {
		return a < b
	}
	ai, _ := strconv.Atoi(a[len(an):])
	bi, _ := strconv.Atoi(b[len(bn):])
	if ai != bi {
		return ai < bi
	}
	return a < b
}

// modulePath returns the import path of dir inferred from the closest go.mod
// file found in dir or any of its parents.
func modulePath(dir string) (string, error) {
	dir, err := filepath.Abs(dir)
	if err != nil {
		return "", err
	}
	for root := dir; ; {
		data, err := os.ReadFile(filepath.Join(root, "go.mod"))
		if err == nil {
			mod := modfile.ModulePath(data)
			if mod == "" {
				return "", fmt.Errorf("no module directive in %s", filepath.Join(root, "go.mod"))
			}
			rel, err := filepath.Rel(root, dir)
			if err != nil {
				return "", err
			}
			return path.Join(mod, filepath.ToSlash(rel)), nil
		}
		if !errors.Is(err, os.ErrNotExist) {
			return "", err
		}
		parent := filepath.Dir(root)
		if parent == root {
			return "", errors.New(
				"go.mod file not found in the output directory or any parent directory, use -pkg",
			)
		}
		root = parent
	}
}
