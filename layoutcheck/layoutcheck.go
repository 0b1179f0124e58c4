// Copyright 2026 The Embedded Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package layoutcheck defines an Analyzer that reports bitfield layouts that
// are known at compile time to be invalid.
//
// The bitfield constructors validate their layout when called: New* return
// ErrLayout, Make* panic. If the position, length or array layout passed to
// a constructor are constants the same checks can be done by vet:
//
//	f := bitfield.MakeField[uint32, int](&r, 30, 4) // bits 30..33 exceed 32-bit word
package layoutcheck

import (
	"go/ast"
	"go/constant"
	"go/types"
	"strings"

	"golang.org/x/tools/go/analysis"
	"golang.org/x/tools/go/analysis/passes/inspect"
	"golang.org/x/tools/go/ast/inspector"
)

const Doc = `report invalid constant bitfield layouts

The layoutcheck analyzer checks the calls of the bitfield package
constructors whose layout arguments are constants. It reports zero length
fields, fields and bits that do not fit in the storage word and array
layouts with an element step shorter than the element length.`

const bitfieldPath = "github.com/embeddedgo/bitreg/bitfield"

var Analyzer = &analysis.Analyzer{
	Name:     "layoutcheck",
	Doc:      Doc,
	Requires: []*analysis.Analyzer{inspect.Analyzer},
	Run:      run,
}

type ctorKind int

const (
	fieldCtor ctorKind = iota // (r, pos, n)
	bitCtor                   // (r, pos)
	arrayCtor                 // (regs, layout)
)

func classify(name string) (ctorKind, bool) {
	base, ok := strings.CutPrefix(name, "New")
	if !ok {
		if base, ok = strings.CutPrefix(name, "Make"); !ok {
			return 0, false
		}
	}
	switch base {
	case "Field", "RField", "WField", "Dyn":
		return fieldCtor, true
	case "Bit", "RBit", "WBit", "RC0Bit", "RC1Bit":
		return bitCtor, true
	case "Array", "RArray", "DynArray":
		return arrayCtor, true
	}
	return 0, false
}

func run(pass *analysis.Pass) (any, error) {
	insp := pass.ResultOf[inspect.Analyzer].(*inspector.Inspector)
	insp.Preorder([]ast.Node{(*ast.CallExpr)(nil)}, func(n ast.Node) {
		call := n.(*ast.CallExpr)
		id := funIdent(call.Fun)
		if id == nil {
			return
		}
		fn, ok := pass.TypesInfo.Uses[id].(*types.Func)
		if !ok || fn.Pkg() == nil || fn.Pkg().Path() != bitfieldPath {
			return
		}
		kind, ok := classify(fn.Name())
		if !ok {
			return
		}
		width := wordWidth(pass, id)
		if width == 0 {
			return
		}
		switch kind {
		case fieldCtor:
			if len(call.Args) < 3 {
				return
			}
			pos, pok := constArg(pass, call.Args[1])
			n, nok := constArg(pass, call.Args[2])
			checkField(pass, call, fn.Name(), pos, pok, n, nok, width)
		case bitCtor:
			if len(call.Args) < 2 {
				return
			}
			if pos, ok := constArg(pass, call.Args[1]); ok && pos >= width {
				pass.Reportf(
					call.Args[1].Pos(), "%s: bit %d exceeds %d-bit word",
					fn.Name(), pos, width,
				)
			}
		case arrayCtor:
			if len(call.Args) < 2 {
				return
			}
			if lit, ok := ast.Unparen(call.Args[1]).(*ast.CompositeLit); ok {
				checkLayout(pass, fn.Name(), lit, width)
			}
		}
	})
	return nil, nil
}

func checkField(pass *analysis.Pass, call *ast.CallExpr, name string, pos uint64, pok bool, n uint64, nok bool, width uint64) {
	switch {
	case nok && n == 0:
		pass.Reportf(call.Args[2].Pos(), "%s: zero length field", name)
	case nok && n > width:
		pass.Reportf(
			call.Args[2].Pos(), "%s: length %d exceeds %d-bit word", name, n, width,
		)
	case pok && pos >= width:
		pass.Reportf(
			call.Args[1].Pos(), "%s: position %d exceeds %d-bit word", name, pos, width,
		)
	case pok && nok && n > width-pos:
		pass.Reportf(
			call.Pos(), "%s: bits %d..%d exceed %d-bit word", name, pos, pos+n-1, width,
		)
	}
}

// checkLayout checks an ArrayLayout literal. Fields that are not constant
// are not checked.
func checkLayout(pass *analysis.Pass, name string, lit *ast.CompositeLit, width uint64) {
	tv, ok := pass.TypesInfo.Types[lit]
	if !ok || !isArrayLayout(tv.Type) {
		return
	}
	vals := make(map[string]uint64)
	known := make(map[string]bool)
	order := [...]string{"Pos0", "Len", "Step", "N"}
	for i, e := range lit.Elts {
		key := ""
		if kv, ok := e.(*ast.KeyValueExpr); ok {
			if k, ok := kv.Key.(*ast.Ident); ok {
				key = k.Name
			}
			e = kv.Value
		} else if i < len(order) {
			key = order[i]
		}
		if key == "" {
			continue
		}
		vals[key], known[key] = constArg(pass, e)
	}
	for _, k := range order {
		if _, ok := vals[k]; !ok {
			vals[k], known[k] = 0, true // omitted
		}
	}
	pos0, l, step := vals["Pos0"], vals["Len"], vals["Step"]
	switch {
	case known["Len"] && l == 0:
		pass.Reportf(lit.Pos(), "%s: zero length element", name)
	case known["Len"] && known["Step"] && step != 0 && step < l:
		pass.Reportf(
			lit.Pos(), "%s: step %d shorter than element length %d", name, step, l,
		)
	case known["Pos0"] && known["Len"] && (pos0 >= width || l > width-pos0):
		pass.Reportf(
			lit.Pos(), "%s: first element at %d..%d exceeds %d-bit word",
			name, pos0, pos0+l-1, width,
		)
	}
}

func isArrayLayout(t types.Type) bool {
	n, ok := types.Unalias(t).(*types.Named)
	if !ok {
		return false
	}
	obj := n.Obj()
	return obj.Name() == "ArrayLayout" && obj.Pkg() != nil && obj.Pkg().Path() == bitfieldPath
}

// funIdent returns the identifier naming the called function, looking
// through selectors and explicit instantiation.
func funIdent(e ast.Expr) *ast.Ident {
	for {
		switch x := ast.Unparen(e).(type) {
		case *ast.Ident:
			return x
		case *ast.SelectorExpr:
			return x.Sel
		case *ast.IndexExpr:
			e = x.X
		case *ast.IndexListExpr:
			e = x.X
		default:
			return nil
		}
	}
}

// wordWidth returns the bit size of the storage word type argument of an
// instantiated constructor or 0 if it cannot be determined.
func wordWidth(pass *analysis.Pass, id *ast.Ident) uint64 {
	inst, ok := pass.TypesInfo.Instances[id]
	if !ok || inst.TypeArgs.Len() == 0 {
		return 0
	}
	b, ok := inst.TypeArgs.At(0).Underlying().(*types.Basic)
	if !ok || b.Info()&types.IsUnsigned == 0 || b.Kind() == types.Uintptr {
		return 0
	}
	return uint64(pass.TypesSizes.Sizeof(b)) * 8
}

func constArg(pass *analysis.Pass, e ast.Expr) (uint64, bool) {
	tv, ok := pass.TypesInfo.Types[e]
	if !ok || tv.Value == nil {
		return 0, false
	}
	v := constant.ToInt(tv.Value)
	if v.Kind() != constant.Int {
		return 0, false
	}
	return constant.Uint64Val(v)
}
