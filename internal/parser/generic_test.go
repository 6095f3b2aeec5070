package parser

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("GenericParser", func() {
	var (
		lines []string
		items []ParsedItem
	)

	JustBeforeEach(func() {
		items = GenericParser{}.Parse(lines)
	})

	When("each line carries a name and a price", func() {
		BeforeEach(func() {
			lines = []string{"Milk $3.99", "Bread   $2.50", "Thank you for shopping"}
		})

		It("emits one item per priced line", func() {
			Expect(names(items)).To(Equal([]string{"Milk", "Bread"}))
			Expect(prices(items)).To(Equal([]string{"3.99", "2.50"}))
		})

		It("leaves taxable unset", func() {
			for _, item := range items {
				Expect(item.Taxable).To(BeNil())
			}
		})
	})

	When("a line has several amounts", func() {
		BeforeEach(func() {
			lines = []string{"Soda 2 for $5.00 $2.50"}
		})

		It("takes the last amount as the price", func() {
			Expect(items).To(HaveLen(1))
			Expect(items[0].Name).To(Equal("Soda 2 for $5.00"))
			Expect(items[0].Price.StringFixed(2)).To(Equal("2.50"))
		})
	})

	When("no line matches", func() {
		BeforeEach(func() {
			lines = []string{"$3.99", "Receipt", "Total 12.00"}
		})

		It("returns an empty non-nil slice", func() {
			Expect(items).NotTo(BeNil())
			Expect(items).To(BeEmpty())
		})
	})
})
