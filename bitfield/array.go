// Copyright 2026 The Embedded Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package bitfield

import (
	"fmt"

	"github.com/embeddedgo/bitreg/mmio"
)

// ArrayLayout describes a sequence of equal bit groups.
//
// The first element starts at bit Pos0 of the first word and the next ones
// follow every Step bits. An element never straddles two words: when the
// next element does not fit in the current word it starts at bit 0 of the
// following word. Pos0 applies to the first word only.
type ArrayLayout struct {
	Pos0 uint // position of element 0 in the first word
	Len  uint // bits per element
	Step uint // distance between the elements, Len if zero
	N    uint // number of elements, all that fit in the storage if zero
}

func (l ArrayLayout) String() string {
	return fmt.Sprintf("pos0=%d len=%d step=%d n=%d", l.Pos0, l.Len, l.Step, l.N)
}

type array[W mmio.Word] struct {
	regs []mmio.Reg[W]
	l    ArrayLayout
	n0   uint // elements in the first word
	nw   uint // elements in each of the following words
}

// Capacity returns the number of elements of layout l that fit in words
// storage words of type W. It returns 0 for an invalid layout.
func Capacity[W mmio.Word](l ArrayLayout, words int) uint {
	a, err := layoutArray[W](l)
	if err != nil || words <= 0 {
		return 0
	}
	return a.capacity(words)
}

func layoutArray[W mmio.Word](l ArrayLayout) (array[W], error) {
	w := Width[W]()
	if l.Step == 0 {
		l.Step = l.Len
	}
	switch {
	case l.Len == 0:
		return array[W]{}, fmt.Errorf("%w: zero length element", ErrLayout)
	case l.Step < l.Len:
		return array[W]{}, fmt.Errorf(
			"%w: step %d shorter than element length %d", ErrLayout, l.Step, l.Len,
		)
	case l.Pos0 >= w || l.Len > w-l.Pos0:
		return array[W]{}, fmt.Errorf(
			"%w: first element at %d..%d exceeds %d-bit word",
			ErrLayout, l.Pos0, l.Pos0+l.Len-1, w,
		)
	}
	return array[W]{
		l:  l,
		n0: (w - l.Pos0 + l.Step - l.Len) / l.Step,
		nw: (w + l.Step - l.Len) / l.Step,
	}, nil
}

func (a array[W]) capacity(words int) uint {
	return a.n0 + uint(words-1)*a.nw
}

func newArray[W mmio.Word](regs []mmio.Reg[W], l ArrayLayout) (array[W], error) {
	a, err := layoutArray[W](l)
	if err != nil {
		return a, err
	}
	if len(regs) == 0 {
		return array[W]{}, fmt.Errorf("%w: no storage words", ErrLayout)
	}
	c := a.capacity(len(regs))
	switch {
	case a.l.N == 0:
		a.l.N = c
	case a.l.N > c:
		return array[W]{}, fmt.Errorf(
			"%w: %d elements do not fit in %d words (max %d)",
			ErrLayout, a.l.N, len(regs), c,
		)
	}
	a.regs = regs
	return a, nil
}

func newValueArray[W mmio.Word, V Value](regs []mmio.Reg[W], l ArrayLayout) (array[W], error) {
	a, err := newArray(regs, l)
	if err != nil {
		return a, err
	}
	if err := checkValueType[V](a.l.Len); err != nil {
		return array[W]{}, err
	}
	return a, nil
}

// locate returns the word and the bit offset of element i.
func (a array[W]) locate(i uint) (word, bit uint) {
	if i < a.n0 {
		return 0, a.l.Pos0 + i*a.l.Step
	}
	i -= a.n0
	return 1 + i/a.nw, i % a.nw * a.l.Step
}

func (a array[W]) element(i uint) field[W] {
	m, b := a.locate(i)
	return field[W]{&a.regs[m], b, a.l.Len}
}

func index[I Index](i I, n uint) (uint, error) {
	if i < 0 || uint64(i) >= uint64(n) {
		return 0, fmt.Errorf("%w: %d not in [0,%d)", ErrIndex, i, n)
	}
	return uint(i), nil
}

// Len returns the number of elements.
func (a array[W]) Len() int { return int(a.l.N) }

// Layout returns the layout with Step and N resolved.
func (a array[W]) Layout() ArrayLayout { return a.l }

// Words returns the number of storage words the array is bound to.
func (a array[W]) Words() int { return len(a.regs) }

// Raw returns the first storage word.
func (a array[W]) Raw() W { return a.regs[0].Load() }

// Array is a read-write array of bit groups indexed by I and read as V.
type Array[W mmio.Word, I Index, V Value] struct {
	array[W]
}

// NewArray returns the array described by l over the storage words regs.
func NewArray[W mmio.Word, I Index, V Value](regs []mmio.Reg[W], l ArrayLayout) (Array[W, I, V], error) {
	a, err := newValueArray[W, V](regs, l)
	return Array[W, I, V]{a}, err
}

// MakeArray is like NewArray but panics if the layout is invalid.
func MakeArray[W mmio.Word, I Index, V Value](regs []mmio.Reg[W], l ArrayLayout) Array[W, I, V] {
	return must(NewArray[W, I, V](regs, l))
}

// Load returns the value of element i or ErrIndex if there is no such
// element. Memory is not accessed in the latter case.
func (a Array[W, I, V]) Load(i I) (V, error) {
	k, err := index(i, a.l.N)
	if err != nil {
		return 0, err
	}
	return V(a.element(k).load()), nil
}

// Store writes v to element i. It returns ErrIndex or ErrRange without
// accessing memory if i or v is invalid.
func (a Array[W, I, V]) Store(i I, v V) error {
	k, err := index(i, a.l.N)
	if err != nil {
		return err
	}
	if err := checkValue(v, a.l.Len); err != nil {
		return err
	}
	a.element(k).store(W(v))
	return nil
}

// LoadUnchecked is Load without the index check. An index past the bound
// storage panics.
func (a Array[W, I, V]) LoadUnchecked(i I) V {
	return V(a.element(uint(i)).load())
}

// StoreUnchecked is Store without the index and width checks. The excess
// bits of v are dropped.
func (a Array[W, I, V]) StoreUnchecked(i I, v V) {
	a.element(uint(i)).store(W(v))
}

// At returns the element i as a value that can be read and assigned.
func (a Array[W, I, V]) At(i I) (Elem[W, I, V], error) {
	if _, err := index(i, a.l.N); err != nil {
		return Elem[W, I, V]{}, err
	}
	return Elem[W, I, V]{a, i}, nil
}

// Loader is anything that can be read as V: fields, array elements.
type Loader[V Value] interface {
	Load() V
}

// Elem is an element of an Array.
type Elem[W mmio.Word, I Index, V Value] struct {
	a Array[W, I, V]
	i I
}

// Index returns the index of the element.
func (e Elem[W, I, V]) Index() I { return e.i }

// Load returns the current value of the element.
func (e Elem[W, I, V]) Load() V { return e.a.LoadUnchecked(e.i) }

// Store writes v to the element. See Array.Store.
func (e Elem[W, I, V]) Store(v V) error { return e.a.Store(e.i, v) }

func (e Elem[W, I, V]) Equal(v V) bool { return e.Load() == v }

// Assign copies the current value of src to e. The source can belong to any
// array or be any field: no layout compatibility is checked, only the width
// of the copied value.
func (e Elem[W, I, V]) Assign(src Loader[V]) error {
	return e.Store(src.Load())
}

// RArray is a read-only array of bit groups.
type RArray[W mmio.Word, I Index, V Value] struct {
	array[W]
}

func NewRArray[W mmio.Word, I Index, V Value](regs []mmio.Reg[W], l ArrayLayout) (RArray[W, I, V], error) {
	a, err := newValueArray[W, V](regs, l)
	return RArray[W, I, V]{a}, err
}

func MakeRArray[W mmio.Word, I Index, V Value](regs []mmio.Reg[W], l ArrayLayout) RArray[W, I, V] {
	return must(NewRArray[W, I, V](regs, l))
}

func (a RArray[W, I, V]) Load(i I) (V, error) {
	k, err := index(i, a.l.N)
	if err != nil {
		return 0, err
	}
	return V(a.element(k).load()), nil
}

func (a RArray[W, I, V]) LoadUnchecked(i I) V {
	return V(a.element(uint(i)).load())
}
