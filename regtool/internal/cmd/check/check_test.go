package check

import (
	"bytes"
	"os"
	"path/filepath"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

const overlapSVD = `<?xml version="1.0" encoding="utf-8"?>
<device>
  <name>BAD</name>
  <width>32</width>
  <size>32</size>
  <access>read-write</access>
  <peripherals>
    <peripheral>
      <name>P</name>
      <baseAddress>0x1000</baseAddress>
      <registers>
        <register>
          <name>R</name>
          <addressOffset>0x0</addressOffset>
          <fields>
            <field><name>A</name><bitOffset>0</bitOffset><bitWidth>4</bitWidth></field>
            <field><name>B</name><bitOffset>2</bitOffset><bitWidth>4</bitWidth></field>
          </fields>
        </register>
      </registers>
    </peripheral>
  </peripherals>
</device>
`

var _ = Describe("check", func() {
	It("should accept a valid file with warnings", func() {
		var out bytes.Buffer
		Expect(check(&out, svdFile, false)).To(BeTrue())
		Expect(out.String()).To(ContainSubstring("EVCR2"))
	})

	It("should fail on warnings in strict mode", func() {
		var out bytes.Buffer
		Expect(check(&out, svdFile, true)).To(BeFalse())
	})

	It("should report overlapping fields", func() {
		name := filepath.Join(GinkgoT().TempDir(), "bad.svd")
		Expect(os.WriteFile(name, []byte(overlapSVD), 0o644)).To(Succeed())
		var out bytes.Buffer
		Expect(check(&out, name, false)).To(BeFalse())
		Expect(out.String()).To(ContainSubstring("P.R.B"))
		Expect(out.String()).To(ContainSubstring("overlaps"))
	})

	It("should report unreadable files", func() {
		var out bytes.Buffer
		Expect(check(&out, "testdata/none.svd", false)).To(BeFalse())
		Expect(out.String()).NotTo(BeEmpty())
	})
})
