package reset

import (
	"bytes"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/embeddedgo/bitreg/regmap"
	"github.com/embeddedgo/bitreg/regtool/internal/util"
)

var _ = Describe("reset", func() {
	var d *regmap.Device

	BeforeEach(func() {
		var err error
		d, _, err = util.ReadSVD(svdFile)
		Expect(err).NotTo(HaveOccurred())
	})

	load := func(name string) (*regmap.Bound, []byte) {
		GinkgoHelper()
		p, err := d.Peripheral(name)
		Expect(err).NotTo(HaveOccurred())
		var buf bytes.Buffer
		Expect(reset(&buf, p)).To(Succeed())
		w, err := util.Window(p, buf.Bytes())
		Expect(err).NotTo(HaveOccurred())
		b, err := regmap.Bind(w, p)
		Expect(err).NotTo(HaveOccurred())
		return b, buf.Bytes()
	}

	It("should write the reset values of all registers", func() {
		b, hex := load("GPIOA")
		Expect(string(hex)).To(HavePrefix(":"))
		Expect(b.Raw("CRL", 0)).To(Equal(uint64(0x44444444)))
		Expect(b.Raw("ODR", 0)).To(BeZero())
		Expect(b.Raw("BSRR", 0)).To(BeZero())

		b, _ = load("USART1")
		Expect(b.Raw("SR", 0)).To(Equal(uint64(0xC0)))
	})

	It("should reset every element of register arrays", func() {
		b, _ := load("DMA1")
		for i := range 7 {
			Expect(b.Raw("CH_CR", i)).To(BeZero())
		}
		b, _ = load("TIM2")
		Expect(b.Raw("DMAR", 0)).To(BeZero())
		Expect(b.Raw("BUF", 3)).To(BeZero())
	})

	It("should place the image at the peripheral base", func() {
		b, hex := load("GPIOB")
		Expect(b.Raw("CRL", 0)).To(Equal(uint64(0x44444444)))

		gpioa, err := d.Peripheral("GPIOA")
		Expect(err).NotTo(HaveOccurred())
		w, err := util.Window(gpioa, hex)
		Expect(err).NotTo(HaveOccurred())
		Expect(w.Bytes()).To(Equal(make([]byte, gpioa.Size())))
	})
})
