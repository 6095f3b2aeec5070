package services

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/shopspring/decimal"

	"github.com/foxxcyber/receipt-feed/internal/models"
)

var _ = Describe("TotalsCalculator", func() {
	line := func(price string, taxable bool, category string) models.ReceiptLine {
		l := models.ReceiptLine{Price: decimal.RequireFromString(price), Taxable: taxable}
		if category != "" {
			l.CategoryName = &category
		}
		return l
	}

	var calc *TotalsCalculator

	BeforeEach(func() {
		calc = NewTotalsCalculator(decimal.RequireFromString("0.07"))
	})

	It("taxes only taxable lines", func() {
		totals := calc.Compute([]models.ReceiptLine{
			line("10.00", true, "Household"),
			line("5.00", false, "Produce"),
		})

		Expect(totals.Subtotal.StringFixed(2)).To(Equal("15.00"))
		Expect(totals.Tax.StringFixed(2)).To(Equal("0.70"))
		Expect(totals.Total.StringFixed(2)).To(Equal("15.70"))
	})

	It("groups lines by category in first-seen order", func() {
		totals := calc.Compute([]models.ReceiptLine{
			line("3.00", false, "Produce"),
			line("2.00", true, ""),
			line("1.50", false, "Produce"),
		})

		Expect(totals.Categories).To(HaveLen(2))

		produce := totals.Categories[0]
		Expect(produce.Category).To(Equal("Produce"))
		Expect(produce.Count).To(Equal(2))
		Expect(produce.Total.StringFixed(2)).To(Equal("4.50"))
		Expect(produce.Tax.StringFixed(2)).To(Equal("0.00"))

		other := totals.Categories[1]
		Expect(other.Category).To(Equal(UncategorizedBucket))
		Expect(other.Tax.StringFixed(2)).To(Equal("0.14"))
		Expect(other.TotalWithTax.StringFixed(2)).To(Equal("2.14"))
	})

	It("rounds accumulated tax once", func() {
		// 3 x 0.35 (0.0245 tax each) = 0.0735, not 3 x 0.02
		totals := calc.Compute([]models.ReceiptLine{
			line("0.35", true, ""),
			line("0.35", true, ""),
			line("0.35", true, ""),
		})
		Expect(totals.Tax.StringFixed(2)).To(Equal("0.07"))
	})

	It("handles an empty receipt", func() {
		totals := calc.Compute(nil)
		Expect(totals.Total.StringFixed(2)).To(Equal("0.00"))
		Expect(totals.Categories).To(BeEmpty())
	})
})
