package parser

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("CostcoParser", func() {
	var (
		lines []string
		items []ParsedItem
	)

	JustBeforeEach(func() {
		items = CostcoParser{}.Parse(lines)
	})

	When("an item carries the E prefix", func() {
		BeforeEach(func() {
			lines = []string{"E 179571    COKEDEMEXICO    35.49 Y"}
		})

		It("marks it not taxable", func() {
			Expect(items).To(HaveLen(1))
			Expect(items[0].Name).To(Equal("COKEDEMEXICO"))
			Expect(items[0].Price.StringFixed(2)).To(Equal("35.49"))
			Expect(items[0].Taxable).NotTo(BeNil())
			Expect(*items[0].Taxable).To(BeFalse())
		})
	})

	When("the E prefix sits on its own line", func() {
		BeforeEach(func() {
			lines = []string{"E", "179571    COKEDEMEXICO    35.49 Y"}
		})

		It("still marks the item not taxable", func() {
			Expect(items).To(HaveLen(1))
			Expect(items[0].IsTaxable(true)).To(BeFalse())
		})
	})

	When("an item has no prefix", func() {
		BeforeEach(func() {
			lines = []string{"179571    COKEDEMEXICO    35.49 Y"}
		})

		It("marks it taxable", func() {
			Expect(items).To(HaveLen(1))
			Expect(items[0].IsTaxable(false)).To(BeTrue())
		})
	})

	When("a discount line references an earlier item", func() {
		BeforeEach(func() {
			lines = []string{
				"Costco Wholesale",
				"Member 111222333",
				"1489812    KS WATER    17.99 Y",
				"179571    COKEDEMEXICO    35.49 Y",
				"366226    / 1489812    4.00-",
				"SUBTOTAL    49.48",
				"TAX    3.46",
				"**** TOTAL    52.94",
			}
		})

		It("reduces the referenced item in place", func() {
			Expect(names(items)).To(Equal([]string{"KS WATER", "COKEDEMEXICO"}))
			Expect(prices(items)).To(Equal([]string{"13.99", "35.49"}))
		})
	})

	When("the discount exceeds the price", func() {
		BeforeEach(func() {
			lines = []string{"111 CHEAP THING 1.00 Y", "222 / 111 5.00-"}
		})

		It("floors the price at zero", func() {
			Expect(prices(items)).To(Equal([]string{"0.00"}))
		})
	})

	When("the discount references an unknown item", func() {
		BeforeEach(func() {
			lines = []string{"111 CHEAP THING 1.00 Y", "222 / 999 0.50-"}
		})

		It("ignores it", func() {
			Expect(prices(items)).To(Equal([]string{"1.00"}))
		})
	})

	When("names are decorated", func() {
		BeforeEach(func() {
			lines = []string{"512345 **KS PAPER TOWEL** 22.99 Y"}
		})

		It("strips the wrapper", func() {
			Expect(names(items)).To(Equal([]string{"KS PAPER TOWEL"}))
		})
	})
})
