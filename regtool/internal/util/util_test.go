package util_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/embeddedgo/bitreg/mmio"
	"github.com/embeddedgo/bitreg/regmap"
	"github.com/embeddedgo/bitreg/regtool/internal/util"
)

var _ = Describe("Window", func() {
	It("should cover all registers of the peripheral", func() {
		p := &regmap.Peripheral{
			Name: "P",
			Base: 0x1000,
			Registers: []*regmap.Register{
				{Name: "A", Offset: 0, Width: 32},
				{Name: "B", Offset: 0x10, Width: 16, Dim: 4, Stride: 4},
			},
		}
		w, err := util.Window(p, nil)
		Expect(err).NotTo(HaveOccurred())
		Expect(w.Size()).To(Equal(uintptr(0x1E)))
	})

	It("should reject peripherals above 4 GiB", func() {
		p := &regmap.Peripheral{
			Name:      "P",
			Base:      0xFFFF_FFFC,
			Registers: []*regmap.Register{{Name: "A", Offset: 4, Width: 32}},
		}
		_, err := util.Window(p, nil)
		Expect(err).To(MatchError(mmio.ErrBounds))
	})
})

var _ = Describe("Index", func() {
	It("should default to 0 for scalars", func() {
		Expect(util.Index("X", -1, 1)).To(Equal(0))
		Expect(util.Index("X", 3, 8)).To(Equal(3))
	})

	It("should require an index for arrays", func() {
		_, err := util.Index("X", -1, 2)
		Expect(err).To(MatchError(ContainSubstring("index required")))
	})
})
