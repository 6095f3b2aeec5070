package services

import (
	"context"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/foxxcyber/receipt-feed/internal/models"
	"github.com/foxxcyber/receipt-feed/internal/parser"
)

const costcoText = `E 179571 COKEDEMEXICO 35.49 Y
1489812 KS WATER 17.99 Y
366226 / 1489812 4.00-
SUBTOTAL 49.48`

var _ = Describe("ReceiptService", func() {
	var (
		ctx     context.Context
		store   *mockStore
		archive *mockArchive
		service *ReceiptService
	)

	BeforeEach(func() {
		ctx = context.Background()
		store = newMockStore()
		archive = newMockArchive()
	})

	JustBeforeEach(func() {
		service = NewReceiptService(store, archive, nil, nil)
	})

	Describe("Import", func() {
		It("rejects empty text and source", func() {
			_, err := service.Import(ctx, 1, "  \n", "costco")
			Expect(err).To(MatchError(ErrEmptyText))

			_, err = service.Import(ctx, 1, costcoText, "")
			Expect(err).To(MatchError(ErrEmptySource))
		})

		It("refuses text that yields no items", func() {
			_, err := service.Import(ctx, 1, "Thank you for shopping", "kroger")
			Expect(err).To(MatchError(ErrNoItems))
			Expect(store.imported).To(BeEmpty())
		})

		It("stores the parsed items with the raw text", func() {
			response, err := service.Import(ctx, 7, costcoText, "costco")
			Expect(err).NotTo(HaveOccurred())

			Expect(store.imported).To(HaveLen(1))
			req := store.imported[0]
			Expect(req.UserID).To(Equal(7))
			Expect(req.RawText).To(Equal(costcoText))
			Expect(req.Items).To(HaveLen(2))
			Expect(req.Items[1].Price.StringFixed(2)).To(Equal("13.99"))

			Expect(response.Source).To(Equal(parser.SourceCostco))
			Expect(response.TotalItems).To(Equal(2))
			Expect(response.Items[0].Taxable).To(BeFalse())
			Expect(response.Items[1].Taxable).To(BeTrue())
			Expect(response.UncategorizedItems).To(HaveLen(2))
		})

		It("archives the raw text and records the key", func() {
			response, err := service.Import(ctx, 7, costcoText, "costco")
			Expect(err).NotTo(HaveOccurred())

			key := ReceiptObjectKey(7, response.ReceiptID, "txt")
			Expect(archive.uploads).To(HaveKeyWithValue(key, costcoText))
			Expect(store.archiveKeys).To(HaveKeyWithValue(response.ReceiptID, key))
		})

		When("archiving fails", func() {
			BeforeEach(func() {
				archive.uploadErr = errBoom
			})

			It("still imports the receipt", func() {
				response, err := service.Import(ctx, 7, costcoText, "costco")
				Expect(err).NotTo(HaveOccurred())
				Expect(response.ReceiptID).To(Equal(1))
				Expect(store.archiveKeys).To(BeEmpty())
			})
		})

		When("the store fails", func() {
			BeforeEach(func() {
				store.importErr = errBoom
			})

			It("returns the wrapped error", func() {
				_, err := service.Import(ctx, 7, costcoText, "costco")
				Expect(err).To(MatchError(errBoom))
			})
		})

		When("some items already have a category", func() {
			BeforeEach(func() {
				store.categories["KS WATER"] = 4
			})

			It("lists only the uncategorized ones", func() {
				response, err := service.Import(ctx, 7, costcoText, "costco")
				Expect(err).NotTo(HaveOccurred())
				Expect(response.UncategorizedItems).To(HaveLen(1))
				Expect(response.UncategorizedItems[0].Name).To(Equal("COKEDEMEXICO"))
			})
		})
	})

	Describe("Import with a matcher", func() {
		It("attaches category suggestions", func() {
			categoryID := 3
			drinks := "Drinks"
			finder := &mockFinder{matches: map[string][]models.MatchResult{
				"cokedemexico": {{ItemID: 9, Name: "Coke", CategoryID: &categoryID, CategoryName: &drinks, Confidence: 0.75}},
			}}
			service = NewReceiptService(store, nil, NewItemMatcher(finder), nil)

			response, err := service.Import(ctx, 7, costcoText, "costco")
			Expect(err).NotTo(HaveOccurred())
			Expect(response.Suggestions).To(HaveKey("COKEDEMEXICO"))
			Expect(response.Suggestions).NotTo(HaveKey("KS WATER"))
		})
	})

	Describe("Preview", func() {
		It("parses without saving", func() {
			preview, err := service.Preview(costcoText, "costco")
			Expect(err).NotTo(HaveOccurred())
			Expect(preview.TotalItems).To(Equal(2))
			Expect(preview.Total.StringFixed(2)).To(Equal("49.48"))
			Expect(store.imported).To(BeEmpty())
		})

		It("reports unknown sources as generic", func() {
			preview, err := service.Preview("Milk $3.99", "target")
			Expect(err).NotTo(HaveOccurred())
			Expect(preview.Source).To(Equal(parser.SourceGeneric))
		})
	})

	Describe("Scan", func() {
		It("is unavailable without OCR", func() {
			_, err := service.Scan(ctx, 7, []byte("img"), "image/png", "costco")
			Expect(err).To(MatchError(ErrOCRDisabled))
		})

		It("imports the recognized text and archives the image", func() {
			service = NewReceiptService(store, archive, nil, &mockOCR{text: costcoText})
			Expect(service.ScanEnabled()).To(BeTrue())

			response, err := service.Scan(ctx, 7, []byte("png-bytes"), "image/png", "costco")
			Expect(err).NotTo(HaveOccurred())
			Expect(response.TotalItems).To(Equal(2))
			Expect(archive.uploads).To(HaveKeyWithValue(ReceiptObjectKey(7, response.ReceiptID, "png"), "png-bytes"))
		})

		It("records both archive keys so the photo can be found and deleted", func() {
			service = NewReceiptService(store, archive, nil, &mockOCR{text: costcoText})

			response, err := service.Scan(ctx, 7, []byte("png-bytes"), "image/png", "costco")
			Expect(err).NotTo(HaveOccurred())
			Expect(store.archiveKeys).To(HaveKeyWithValue(response.ReceiptID, ReceiptObjectKey(7, response.ReceiptID, "txt")))
			Expect(store.imageKeys).To(HaveKeyWithValue(response.ReceiptID, ReceiptObjectKey(7, response.ReceiptID, "png")))
		})

		It("leaves the image key unset when the photo upload fails", func() {
			archive.uploadErr = errBoom
			service = NewReceiptService(store, archive, nil, &mockOCR{text: costcoText})

			_, err := service.Scan(ctx, 7, []byte("png-bytes"), "image/png", "costco")
			Expect(err).NotTo(HaveOccurred())
			Expect(store.imageKeys).To(BeEmpty())
		})

		It("surfaces OCR failures", func() {
			service = NewReceiptService(store, archive, nil, &mockOCR{err: errBoom})
			_, err := service.Scan(ctx, 7, []byte("img"), "image/jpeg", "costco")
			Expect(err).To(MatchError(errBoom))
		})
	})

	Describe("ParseBatch", func() {
		It("keeps results aligned with requests", func() {
			results, err := service.ParseBatch(ctx, []models.ParseRequest{
				{Text: costcoText, Source: "costco"},
				{Text: "Milk $3.99\nBread $2.50", Source: "generic"},
				{Text: "Milk\n$3.99", Source: "walmart"},
			})
			Expect(err).NotTo(HaveOccurred())
			Expect(results).To(HaveLen(3))
			Expect(results[0]).To(HaveLen(2))
			Expect(results[1]).To(HaveLen(2))
			Expect(results[2]).To(HaveLen(1))
		})

		It("reports every run to the observer", func() {
			observer := &mockObserver{items: make(map[parser.Source]int)}
			service.WithObserver(observer)

			_, err := service.ParseBatch(ctx, []models.ParseRequest{
				{Text: costcoText, Source: "costco"},
				{Text: "Milk $3.99", Source: "target"},
				{Text: "nothing here", Source: "walmart"},
			})
			Expect(err).NotTo(HaveOccurred())
			Expect(observer.runs).To(Equal(3))
			Expect(observer.items).To(Equal(map[parser.Source]int{
				parser.SourceCostco:  2,
				parser.SourceGeneric: 1,
				parser.SourceWalmart: 0,
			}))
		})

		It("fails on an invalid request", func() {
			_, err := service.ParseBatch(ctx, []models.ParseRequest{
				{Text: costcoText, Source: "costco"},
				{Text: "", Source: "costco"},
			})
			Expect(err).To(MatchError(ErrEmptyText))
		})
	})
})
