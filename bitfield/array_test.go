package bitfield_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/embeddedgo/bitreg/bitfield"
	"github.com/embeddedgo/bitreg/mmio"
)

type pin uint8

const (
	pin0 pin = iota
	pin1
	pin2
	_
	_
	pin5
)

// cr mimics a port configuration register: four bits per pin, a 2-bit mode
// followed by a 2-bit configuration.
type cr struct {
	Mode bitfield.Array[uint32, int, uint32]
	Cnf  bitfield.Array[uint32, int, uint32]
}

func newCR(w *mmio.Window) (cr, error) {
	regs, err := mmio.RegsAt[uint32](w, 0, 1)
	if err != nil {
		return cr{}, err
	}
	mode, err := bitfield.NewArray[uint32, int, uint32](regs, bitfield.ArrayLayout{Len: 2, Step: 4})
	if err != nil {
		return cr{}, err
	}
	cnf, err := bitfield.NewArray[uint32, int, uint32](regs, bitfield.ArrayLayout{Pos0: 2, Len: 2, Step: 4})
	if err != nil {
		return cr{}, err
	}
	return cr{mode, cnf}, nil
}

var _ = Describe("Array", func() {
	vals := []uint16{0b00, 0b01, 0b10, 0b11, 0b00}

	It("should derive the capacity of one word", func() {
		regs := make([]mmio.Reg[uint16], 1)
		a := bitfield.MakeArray[uint16, int, uint16](regs, bitfield.ArrayLayout{Len: 2})
		Expect(a.Len()).To(Equal(8))
		Expect(a.Layout().Step).To(Equal(uint(2)))
		Expect(a.Words()).To(Equal(1))

		whole := bitfield.MakeArray[uint16, int, uint16](regs, bitfield.ArrayLayout{Len: 16})
		Expect(whole.Len()).To(Equal(1))
	})

	It("should store and load every index without cross-talk", func() {
		regs := make([]mmio.Reg[uint16], 1)
		a := bitfield.MakeArray[uint16, int, uint16](regs, bitfield.ArrayLayout{Len: 2, Step: 2})
		for i := 0; i < 8; i++ {
			Expect(a.Store(i, vals[i%4])).To(Succeed())
		}
		for i := 0; i < 8; i++ {
			Expect(a.Load(i)).To(Equal(vals[i%4]))
		}
		Expect(a.Raw()).To(Equal(uint16(0b11100100_11100100)))

		for _, v := range vals {
			for i := 0; i < 8; i++ {
				e, err := a.At(i)
				Expect(err).NotTo(HaveOccurred())
				Expect(e.Store(v)).To(Succeed())
				Expect(e.Load()).To(Equal(v))
				Expect(e.Equal(v)).To(BeTrue())
				Expect(e.Index()).To(Equal(i))
			}
		}
	})

	It("should keep interleaved arrays independent", func() {
		w := mmio.NewRAM(4)
		c, err := newCR(w)
		Expect(err).NotTo(HaveOccurred())
		Expect(c.Mode.Len()).To(Equal(8))
		Expect(c.Cnf.Len()).To(Equal(8))
		for _, v := range vals {
			for i := 0; i < 8; i++ {
				prevCnf, _ := c.Cnf.Load(i)
				Expect(c.Mode.Store(i, uint32(v))).To(Succeed())
				Expect(c.Mode.Load(i)).To(Equal(uint32(v)))
				Expect(c.Cnf.Load(i)).To(Equal(prevCnf))

				prevMode, _ := c.Mode.Load(i)
				Expect(c.Cnf.Store(i, uint32(v))).To(Succeed())
				Expect(c.Cnf.Load(i)).To(Equal(uint32(v)))
				Expect(c.Mode.Load(i)).To(Equal(prevMode))
			}
		}
	})

	It("should reject bad indices and values without touching memory", func() {
		regs := make([]mmio.Reg[uint16], 1)
		regs[0].Store(0x1234)
		a := bitfield.MakeArray[uint16, int, uint16](regs, bitfield.ArrayLayout{Len: 2, Step: 2})
		Expect(a.Store(0, 0b100)).To(MatchError(bitfield.ErrRange))
		Expect(a.Store(8, 0)).To(MatchError(bitfield.ErrIndex))
		Expect(a.Store(-1, 0)).To(MatchError(bitfield.ErrIndex))
		_, err := a.Load(8)
		Expect(err).To(MatchError(bitfield.ErrIndex))
		_, err = a.At(100)
		Expect(err).To(MatchError(bitfield.ErrIndex))
		Expect(regs[0].Load()).To(Equal(uint16(0x1234)))
	})

	It("should continue in the following words", func() {
		regs := make([]mmio.Reg[uint16], 2)
		a := bitfield.MakeArray[uint16, int, uint16](regs, bitfield.ArrayLayout{Len: 2})
		Expect(a.Len()).To(Equal(16))
		Expect(a.Store(8, 0b11)).To(Succeed())
		Expect(regs[0].Load()).To(BeZero())
		Expect(regs[1].Load()).To(Equal(uint16(0b11)))
		Expect(a.Store(15, 0b10)).To(Succeed())
		Expect(regs[1].Load()).To(Equal(uint16(0b10<<14 | 0b11)))
	})

	It("should apply the initial offset to the first word only", func() {
		regs := make([]mmio.Reg[uint16], 2)
		a := bitfield.MakeArray[uint16, int, uint16](regs, bitfield.ArrayLayout{Pos0: 3, Len: 3})
		// 4 elements at bits 3..14 of word 0, 5 at bits 0..14 of word 1.
		Expect(a.Len()).To(Equal(9))
		Expect(bitfield.Capacity[uint16](bitfield.ArrayLayout{Pos0: 3, Len: 3}, 2)).
			To(Equal(uint(9)))

		Expect(a.Store(0, 0b111)).To(Succeed())
		Expect(regs[0].Load()).To(Equal(uint16(0b111 << 3)))
		Expect(a.Store(3, 0b101)).To(Succeed())
		Expect(regs[0].Load()).To(Equal(uint16(0b101<<12 | 0b111<<3)))
		Expect(a.Store(4, 0b011)).To(Succeed())
		Expect(regs[1].Load()).To(Equal(uint16(0b011)))
		Expect(a.Store(8, 0b110)).To(Succeed())
		Expect(regs[1].Load()).To(Equal(uint16(0b110<<12 | 0b011)))
	})

	It("should honour an explicit element count", func() {
		regs := make([]mmio.Reg[uint32], 1)
		a := bitfield.MakeArray[uint32, int, uint8](regs, bitfield.ArrayLayout{Len: 3, Step: 3, N: 10})
		Expect(a.Len()).To(Equal(10))
		Expect(a.Store(9, 7)).To(Succeed())
		Expect(regs[0].Load()).To(Equal(uint32(7 << 27)))
		Expect(a.Store(10, 7)).To(MatchError(bitfield.ErrIndex))
	})

	DescribeTable("invalid layouts",
		func(l bitfield.ArrayLayout, words int) {
			regs := make([]mmio.Reg[uint16], words)
			_, err := bitfield.NewArray[uint16, int, uint16](regs, l)
			Expect(err).To(MatchError(bitfield.ErrLayout))
			Expect(bitfield.Capacity[uint16](l, 0)).To(BeZero())
		},
		Entry("zero length", bitfield.ArrayLayout{Len: 0, Step: 1}, 1),
		Entry("step shorter than length", bitfield.ArrayLayout{Len: 2, Step: 1}, 1),
		Entry("element longer than word", bitfield.ArrayLayout{Len: 17}, 1),
		Entry("first element outside word", bitfield.ArrayLayout{Pos0: 15, Len: 2}, 1),
		Entry("too many elements", bitfield.ArrayLayout{Len: 2, N: 9}, 1),
		Entry("no storage", bitfield.ArrayLayout{Len: 2}, 0),
	)

	DescribeTable("value types too narrow for the element",
		func(mk func(regs []mmio.Reg[uint32]) error) {
			Expect(mk(make([]mmio.Reg[uint32], 1))).To(MatchError(bitfield.ErrLayout))
		},
		Entry("uint8 for 12 bits", func(regs []mmio.Reg[uint32]) error {
			_, err := bitfield.NewArray[uint32, int, uint8](regs, bitfield.ArrayLayout{Len: 12})
			return err
		}),
		Entry("int8 for 8 bits", func(regs []mmio.Reg[uint32]) error {
			_, err := bitfield.NewArray[uint32, int, int8](regs, bitfield.ArrayLayout{Len: 8})
			return err
		}),
		Entry("read-only int16 for 16 bits", func(regs []mmio.Reg[uint32]) error {
			_, err := bitfield.NewRArray[uint32, int, int16](regs, bitfield.ArrayLayout{Len: 16})
			return err
		}),
	)

	It("should be indexed by enumerated labels", func() {
		regs := make([]mmio.Reg[uint32], 1)
		a := bitfield.MakeArray[uint32, pin, uint8](regs, bitfield.ArrayLayout{Len: 1})
		Expect(a.Len()).To(Equal(32))

		one, err := a.At(pin1)
		Expect(err).NotTo(HaveOccurred())
		Expect(one.Store(0)).To(Succeed())
		Expect(one.Equal(0)).To(BeTrue())
		Expect(one.Store(1)).To(Succeed())
		Expect(a.Load(pin1)).To(Equal(uint8(1)))

		five, _ := a.At(pin5)
		two, _ := a.At(pin2)
		Expect(five.Store(1)).To(Succeed())
		Expect(two.Assign(five)).To(Succeed())
		Expect(regs[0].Load()).To(Equal(uint32(1<<5 | 1<<2 | 1<<1)))
		Expect(a.LoadUnchecked(pin0)).To(BeZero())
	})

	It("should assign elements of different arrays without a layout check", func() {
		src := bitfield.MakeArray[uint16, int, uint16](make([]mmio.Reg[uint16], 1), bitfield.ArrayLayout{Len: 4})
		dst := bitfield.MakeArray[uint16, int, uint16](make([]mmio.Reg[uint16], 1), bitfield.ArrayLayout{Len: 2, Pos0: 1, Step: 3})
		s, _ := src.At(1)
		d, _ := dst.At(2)

		Expect(s.Store(0b11)).To(Succeed())
		Expect(d.Assign(s)).To(Succeed())
		Expect(d.Load()).To(Equal(uint16(0b11)))

		Expect(s.Store(0b1111)).To(Succeed())
		Expect(d.Assign(s)).To(MatchError(bitfield.ErrRange))
		Expect(d.Load()).To(Equal(uint16(0b11)))

		f := bitfield.MakeField[uint16, uint16](new(mmio.Reg[uint16]), 0, 1)
		Expect(d.Assign(f)).To(Succeed())
		Expect(d.Load()).To(BeZero())
	})

	It("should store unchecked values masked to the element", func() {
		regs := make([]mmio.Reg[uint16], 1)
		a := bitfield.MakeArray[uint16, int, uint16](regs, bitfield.ArrayLayout{Len: 2})
		a.StoreUnchecked(1, 0xFF)
		Expect(regs[0].Load()).To(Equal(uint16(0b1100)))
		Expect(a.LoadUnchecked(1)).To(Equal(uint16(0b11)))
	})

	It("should expose read-only arrays without stores", func() {
		regs := make([]mmio.Reg[uint8], 1)
		regs[0].Store(0b10_01_11_00)
		a := bitfield.MakeRArray[uint8, int, uint8](regs, bitfield.ArrayLayout{Len: 2})
		Expect(hasMethod(a, "Store")).To(BeFalse())
		Expect(a.Load(1)).To(Equal(uint8(0b11)))
		Expect(a.LoadUnchecked(3)).To(Equal(uint8(0b10)))
		_, err := a.Load(4)
		Expect(err).To(MatchError(bitfield.ErrIndex))
	})
})
