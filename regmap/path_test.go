package regmap_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/embeddedgo/bitreg/bitfield"
	"github.com/embeddedgo/bitreg/regmap"
)

var _ = Describe("Path", func() {
	DescribeTable("should parse",
		func(s string, want regmap.Path) {
			p, err := regmap.ParsePath(s)
			Expect(err).NotTo(HaveOccurred())
			Expect(p).To(Equal(want))
			Expect(p.String()).To(Equal(s))
		},
		Entry(nil, "GPIOA", regmap.Path{Periph: "GPIOA", RegIdx: -1, FieldIdx: -1}),
		Entry(nil, "GPIOA.CRL",
			regmap.Path{Periph: "GPIOA", Reg: "CRL", RegIdx: -1, FieldIdx: -1}),
		Entry(nil, "GPIOA.CRL.MODE[3]",
			regmap.Path{Periph: "GPIOA", Reg: "CRL", RegIdx: -1, Field: "MODE", FieldIdx: 3}),
		Entry(nil, "DMA1.CH_NDTR[6].NDT",
			regmap.Path{Periph: "DMA1", Reg: "CH_NDTR", RegIdx: 6, Field: "NDT", FieldIdx: -1}),
	)

	DescribeTable("should reject",
		func(s string) {
			_, err := regmap.ParsePath(s)
			Expect(err).To(HaveOccurred())
		},
		Entry(nil, ""),
		Entry(nil, ".CRL"),
		Entry(nil, "A.B.C.D"),
		Entry(nil, "A.B[1"),
		Entry(nil, "A.B[x]"),
		Entry(nil, "A.B[-1]"),
		Entry(nil, "A.[1]"),
	)

	It("should resolve paths in a device", func() {
		d, _ := loadMini()
		t, err := d.Lookup("DMA1.CH_CR[2].PL")
		Expect(err).NotTo(HaveOccurred())
		Expect(t.Periph.Name).To(Equal("DMA1"))
		Expect(t.Reg.Name).To(Equal("CH_CR"))
		Expect(t.Field.Pos).To(Equal(uint(12)))
		Expect(t.Path.RegIdx).To(Equal(2))

		t, err = d.Lookup("USART1")
		Expect(err).NotTo(HaveOccurred())
		Expect(t.Reg).To(BeNil())

		_, err = d.Lookup("DMA1.CH_CR[7]")
		Expect(err).To(MatchError(bitfield.ErrIndex))
		_, err = d.Lookup("GPIOA.CRL.MODE[8]")
		Expect(err).To(MatchError(bitfield.ErrIndex))
		_, err = d.Lookup("GPIOA.CRX")
		Expect(err).To(MatchError(regmap.ErrNotFound))
		_, err = d.Lookup("GPIOA..X")
		Expect(err).To(HaveOccurred())
	})
})
