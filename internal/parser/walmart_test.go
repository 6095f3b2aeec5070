package parser

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("WalmartParser", func() {
	var (
		lines []string
		items []ParsedItem
	)

	JustBeforeEach(func() {
		items = WalmartParser{}.Parse(lines)
	})

	When("a name is followed by a bare price", func() {
		BeforeEach(func() {
			lines = []string{"Milk", "$3.99"}
		})

		It("emits the pair", func() {
			Expect(names(items)).To(Equal([]string{"Milk"}))
			Expect(prices(items)).To(Equal([]string{"3.99"}))
		})
	})

	When("a discount is shown with the original price", func() {
		BeforeEach(func() {
			lines = []string{"Yogurt", "Discount price $2.50", "Was $3.00", "$2.50"}
		})

		It("emits the discounted price once", func() {
			Expect(names(items)).To(Equal([]string{"Yogurt"}))
			Expect(prices(items)).To(Equal([]string{"2.50"}))
		})
	})

	When("price shares a line with a quantity or a was price", func() {
		BeforeEach(func() {
			lines = []string{
				"Frozen Pizza",
				"Qty 2 $8.28",
				"Hand Soap",
				"$2.00 Was $3.00",
			}
		})

		It("takes the first amount on the line", func() {
			Expect(names(items)).To(Equal([]string{"Frozen Pizza", "Hand Soap"}))
			Expect(prices(items)).To(Equal([]string{"8.28", "2.00"}))
		})
	})

	When("the name never gets a price", func() {
		BeforeEach(func() {
			lines = []string{"Milk", "$3.99", "Orphan", "Add to cart"}
		})

		It("drops the trailing candidate", func() {
			Expect(names(items)).To(Equal([]string{"Milk"}))
		})
	})

	When("parsing an order page", func() {
		BeforeEach(func() {
			lines = Lines(`
Shopped
Goldfish Pretzel Crackers, 12 oz Bag
Qty 1
$3.52
Add to cart
Review item
Approved substitution
Fresh Banana, Each
50.0¢/lb
Qty 4
$0.12 from savings
$0.68
Was $0.80
$0.80
Add to cart
Sunbelt Bakery Chocolate Chip Chewy Granola Bars, 10 Bars, 11.26 oz
28.1¢/oz
Qty 2
Walmart Cash Logo
Walmart Cash added
$6.36
$3.18 ea
Rubbermaid TakeAlongs 5.2 Cup Food Storage Containers
Count: 4
Actual Color: Red
Qty 1
$4.74
Red Baron Four Cheese Deep Dish Personal Frozen Pizza, 11.2 oz 2 Pack
37.0¢/oz
Qty 2
$8.28
$4.14 ea
3
Review item
`)
		})

		It("pairs each product with its line total", func() {
			Expect(names(items)).To(Equal([]string{
				"Goldfish Pretzel Crackers, 12 oz Bag",
				"Fresh Banana, Each",
				"Sunbelt Bakery Chocolate Chip Chewy Granola Bars, 10 Bars, 11.26 oz",
				"Rubbermaid TakeAlongs 5.2 Cup Food Storage Containers",
				"Red Baron Four Cheese Deep Dish Personal Frozen Pizza, 11.2 oz 2 Pack",
			}))
			Expect(prices(items)).To(Equal([]string{"3.52", "0.68", "6.36", "4.74", "8.28"}))
		})

		It("leaves taxable unset", func() {
			for _, item := range items {
				Expect(item.Taxable).To(BeNil())
			}
		})
	})
})
