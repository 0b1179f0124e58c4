package show

import (
	"bytes"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/embeddedgo/bitreg/regmap"
	"github.com/embeddedgo/bitreg/regtool/internal/util"
)

var _ = Describe("show", func() {
	var d *regmap.Device

	BeforeEach(func() {
		var err error
		d, _, err = util.ReadSVD(svdFile)
		Expect(err).NotTo(HaveOccurred())
	})

	bind := func(path string) (*regmap.Bound, *regmap.Target) {
		GinkgoHelper()
		t, err := d.Lookup(path)
		Expect(err).NotTo(HaveOccurred())
		w, err := util.Window(t.Periph, nil)
		Expect(err).NotTo(HaveOccurred())
		b, err := regmap.Bind(w, t.Periph)
		Expect(err).NotTo(HaveOccurred())
		return b, t
	}

	It("should decode the fields of a register", func() {
		b, t := bind("GPIOA.CRL")
		Expect(b.SetRaw("CRL", 0, 0x44444474)).To(Succeed())
		var buf bytes.Buffer
		Expect(show(&buf, b, t, false)).To(Succeed())
		out := buf.String()
		Expect(out).To(MatchRegexp(`GPIOA\s+0x40010800`))
		Expect(out).To(MatchRegexp(`CRL\s+0x000\s+0x44444474\s+rw`))
		Expect(out).To(MatchRegexp(`MODE\[0\]\s+0\s+0x0\s+Input`))
		Expect(out).To(MatchRegexp(`MODE\[1\]\s+3\s+0x3\s+Out50MHz`))
		Expect(out).To(MatchRegexp(`CNF\[1\]\s+1\s+0x1`))
		Expect(out).To(MatchRegexp(`CNF\[7\]\s+1\s+0x1`))
		Expect(out).NotTo(ContainSubstring("ODR"))
	})

	It("should print only the selected field element", func() {
		b, t := bind("GPIOA.CRL.MODE[1]")
		Expect(b.SetRaw("CRL", 0, 0x10)).To(Succeed())
		var buf bytes.Buffer
		Expect(show(&buf, b, t, false)).To(Succeed())
		Expect(buf.String()).To(MatchRegexp(`MODE\[1\]\s+1\s+0x1\s+Out10MHz`))
		Expect(buf.String()).NotTo(ContainSubstring("MODE[0]"))
		Expect(buf.String()).NotTo(ContainSubstring("CNF"))
	})

	It("should print all registers of a peripheral", func() {
		b, t := bind("DMA1")
		Expect(b.SetRaw("CH_NDTR", 6, 0xABCD)).To(Succeed())
		var buf bytes.Buffer
		Expect(show(&buf, b, t, true)).To(Succeed())
		out := buf.String()
		Expect(out).To(MatchRegexp(`ISR\s+0x000`))
		Expect(out).To(MatchRegexp(`CH_CR\[0\]\s+0x008`))
		Expect(out).To(MatchRegexp(`CH_NDTR\[6\]\s+0x084\s+0x0000ABCD`))
		Expect(out).NotTo(ContainSubstring("NDT "))
	})

	It("should print 16-bit registers with four digits", func() {
		b, t := bind("TIM2.DMAR")
		Expect(b.SetRaw("DMAR", 0, 0x1234)).To(Succeed())
		var buf bytes.Buffer
		Expect(show(&buf, b, t, true)).To(Succeed())
		Expect(buf.String()).To(MatchRegexp(`DMAR\s+0x04C\s+0x1234\s`))
	})
})
