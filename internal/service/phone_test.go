package service

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("NormalizePhone", func() {
	DescribeTable("strips everything but digits",
		func(input, expected string) {
			Expect(NormalizePhone(input)).To(Equal(expected))
		},
		Entry("plus and country code", "+1 (303) 555-1234", "13035551234"),
		Entry("dashes", "303-555-1234", "3035551234"),
		Entry("already clean", "3035551234", "3035551234"),
		Entry("letters mixed in", "call 303x555x1234", "3035551234"),
		Entry("empty", "", ""),
		Entry("no digits at all", "+-() ", ""),
	)
})

var _ = Describe("PhoneVariants", func() {
	It("expands a bare 10-digit number into US-prefixed forms", func() {
		Expect(PhoneVariants("3035551234")).To(Equal([]string{
			"3035551234",
			"13035551234",
			"+3035551234",
			"+13035551234",
		}))
	})

	It("adds the last-10 form for an 11-digit number", func() {
		Expect(PhoneVariants("+13035551234")).To(Equal([]string{
			"13035551234",
			"3035551234",
			"+13035551234",
		}))
	})

	It("deduplicates while preserving order", func() {
		variants := PhoneVariants("13035551234")
		seen := map[string]int{}
		for _, v := range variants {
			seen[v]++
		}
		for v, n := range seen {
			Expect(n).To(Equal(1), "variant %q appeared %d times", v, n)
		}
	})

	It("returns nil for input with no digits", func() {
		Expect(PhoneVariants("n/a")).To(BeNil())
	})
})

var _ = Describe("trailingDigits", func() {
	It("takes the last n digits ignoring the plus prefix", func() {
		Expect(trailingDigits("+13035551234", 8)).To(Equal("35551234"))
	})

	It("returns all digits when shorter than n", func() {
		Expect(trailingDigits("1234", 8)).To(Equal("1234"))
	})
})
