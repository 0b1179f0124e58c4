package regmap_test

import (
	"encoding/binary"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/embeddedgo/bitreg/bitfield"
	"github.com/embeddedgo/bitreg/mmio"
	"github.com/embeddedgo/bitreg/regmap"
)

var _ = Describe("Bind", func() {
	var (
		d   *regmap.Device
		w   *mmio.Window
		mem []byte
	)

	BeforeEach(func() {
		d, _ = loadMini()
		w = mmio.NewRAM(0x100)
		mem = w.Bytes()
	})

	bind := func(name string) *regmap.Bound {
		GinkgoHelper()
		p, err := d.Peripheral(name)
		Expect(err).NotTo(HaveOccurred())
		b, err := regmap.Bind(w, p)
		Expect(err).NotTo(HaveOccurred())
		Expect(b.Peripheral()).To(BeIdenticalTo(p))
		return b
	}

	It("should refuse too small windows", func() {
		p, _ := d.Peripheral("TIM2")
		_, err := regmap.Bind(mmio.NewRAM(0x40), p)
		Expect(err).To(MatchError(mmio.ErrBounds))
	})

	It("should read and write array field elements", func() {
		b := bind("GPIOA")
		Expect(b.SetRaw("CRL", 0, 0x44444444)).To(Succeed())
		mode, err := b.Field("CRL", 0, "MODE")
		Expect(err).NotTo(HaveOccurred())
		Expect(mode.Len()).To(Equal(8))
		Expect(mode.Store(1, 3)).To(Succeed())
		Expect(mode.Store(7, 1)).To(Succeed())
		Expect(b.Raw("CRL", 0)).To(Equal(uint64(0x54444474)))
		Expect(mode.Load(1)).To(Equal(uint64(3)))
		Expect(binary.NativeEndian.Uint32(mem)).To(Equal(uint32(0x54444474)))

		Expect(mode.Store(0, 4)).To(MatchError(bitfield.ErrRange))
		Expect(mode.Store(8, 0)).To(MatchError(bitfield.ErrIndex))
		_, err = mode.Load(-1)
		Expect(err).To(MatchError(bitfield.ErrIndex))
	})

	It("should gate operations by access mode", func() {
		b := bind("USART1")
		Expect(b.SetRaw("SR", 0, 0x2E1)).To(Succeed())

		pe, _ := b.Field("SR", 0, "PE")
		Expect(pe.Load(0)).To(Equal(uint64(1)))
		Expect(pe.Store(0, 0)).To(MatchError(bitfield.ErrCapability))
		Expect(pe.Clear(0)).To(MatchError(bitfield.ErrCapability))

		rxne, _ := b.Field("SR", 0, "RXNE")
		Expect(rxne.Set(0)).To(MatchError(bitfield.ErrCapability))
		Expect(rxne.Flip(0)).To(MatchError(bitfield.ErrCapability))
		Expect(rxne.Clear(0)).To(Succeed())

		cts, _ := b.Field("SR", 0, "CTS")
		Expect(cts.Clear(0)).To(MatchError(bitfield.ErrCapability))
		Expect(cts.Set(0)).To(Succeed())

		Expect(b.Raw("SR", 0)).To(Equal(uint64(0x2C1)))

		brr, _ := b.Field("BRR", 0, "DIV_Mantissa")
		Expect(brr.Store(0, 0x271)).To(Succeed())
		Expect(brr.Set(0)).To(MatchError(bitfield.ErrCapability))
		Expect(b.Raw("BRR", 0)).To(Equal(uint64(0x2710)))
	})

	It("should address register arrays", func() {
		b := bind("DMA1")
		ndt, err := b.Field("CH_NDTR", 6, "NDT")
		Expect(err).NotTo(HaveOccurred())
		Expect(ndt.Store(0, 0xBEEF)).To(Succeed())
		Expect(binary.NativeEndian.Uint32(mem[0xC+6*0x14:])).To(Equal(uint32(0xBEEF)))
		Expect(b.Raw("CH_NDTR", 0)).To(BeZero())

		_, err = b.Field("CH_NDTR", 7, "NDT")
		Expect(err).To(MatchError(bitfield.ErrIndex))
		_, err = b.Field("CH_NDTR", 0, "XX")
		Expect(err).To(MatchError(regmap.ErrNotFound))
		_, err = b.Raw("CH_XX", 0)
		Expect(err).To(MatchError(regmap.ErrNotFound))

		ifcr, _ := b.Field("IFCR", 0, "CGIF")
		Expect(ifcr.Set(6)).To(Succeed())
		Expect(b.Raw("IFCR", 0)).To(Equal(uint64(1 << 24)))
	})

	It("should use the register width", func() {
		b := bind("TIM2")
		dmab, _ := b.Field("DMAR", 0, "DMAB")
		Expect(dmab.Store(0, 0xFFFF)).To(Succeed())
		Expect(dmab.Store(0, 0x10000)).To(MatchError(bitfield.ErrRange))
		Expect(b.SetRaw("DMAR", 0, 0x1FFFF)).To(MatchError(bitfield.ErrRange))
		Expect(binary.NativeEndian.Uint16(mem[0x4C:])).To(Equal(uint16(0xFFFF)))

		hi, _ := b.Field("BUF", 3, "HI")
		Expect(hi.Store(0, 0xA5)).To(Succeed())
		Expect(b.Raw("BUF", 3)).To(Equal(uint64(0xA500)))
	})
})
