package database

import (
	"context"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/pashagolub/pgxmock/v3"
	"github.com/shopspring/decimal"

	"github.com/foxxcyber/receipt-feed/internal/models"
)

var _ = Describe("Item repository", func() {
	var (
		ctx  context.Context
		db   *DB
		mock pgxmock.PgxPoolIface
	)

	BeforeEach(func() {
		ctx = context.Background()
		db, mock = newMockDB()
	})

	Describe("ListItems", func() {
		It("combines the search and uncategorized filters", func() {
			var noCategory *int
			var noCategoryName *string
			now := time.Now()

			mock.ExpectQuery(`(?s)FROM items i LEFT JOIN categories c.*LIKE LOWER\(\$2\).*i\.category_id IS NULL.*LIMIT 500 OFFSET 0`).
				WithArgs(7, "%milk%").
				WillReturnRows(mock.NewRows([]string{"id", "user_id", "name", "price", "source", "category_id", "category_name", "taxable", "created_at", "updated_at"}).
					AddRow(1, 7, "Milk", decimal.RequireFromString("3.99"), "walmart", noCategory, noCategoryName, false, now, now))

			items, err := db.ListItems(ctx, &models.ItemListParams{UserID: 7, Search: "milk", Uncategorized: true})
			Expect(err).NotTo(HaveOccurred())
			Expect(items).To(HaveLen(1))
			Expect(items[0].CategoryID).To(BeNil())
		})

		It("caps the page size", func() {
			mock.ExpectQuery(`LIMIT 500 OFFSET 20`).
				WithArgs(7).
				WillReturnRows(mock.NewRows([]string{"id", "user_id", "name", "price", "source", "category_id", "category_name", "taxable", "created_at", "updated_at"}))

			items, err := db.ListItems(ctx, &models.ItemListParams{UserID: 7, Limit: 5000, Offset: 20})
			Expect(err).NotTo(HaveOccurred())
			Expect(items).To(BeEmpty())
		})
	})

	Describe("SetItemTaxable", func() {
		It("updates the item and its receipt lines together", func() {
			mock.ExpectBegin()
			mock.ExpectExec("UPDATE items SET taxable").
				WithArgs(true, 4, 7).
				WillReturnResult(pgxmock.NewResult("UPDATE", 1))
			mock.ExpectExec("UPDATE receipt_items SET taxable").
				WithArgs(true, 4).
				WillReturnResult(pgxmock.NewResult("UPDATE", 3))
			mock.ExpectCommit()

			Expect(db.SetItemTaxable(ctx, 7, 4, true)).To(Succeed())
		})

		It("rolls back when the item does not exist", func() {
			mock.ExpectBegin()
			mock.ExpectExec("UPDATE items SET taxable").
				WithArgs(false, 4, 7).
				WillReturnResult(pgxmock.NewResult("UPDATE", 0))
			mock.ExpectRollback()

			Expect(db.SetItemTaxable(ctx, 7, 4, false)).To(MatchError(ErrItemNotFound))
		})
	})

	It("skips the bulk update for an empty id list", func() {
		n, err := db.SetItemsCategory(ctx, 7, nil, nil)
		Expect(err).NotTo(HaveOccurred())
		Expect(n).To(BeZero())
	})

	It("reports a missing item when categorizing", func() {
		categoryID := 3
		mock.ExpectExec("UPDATE items SET category_id").
			WithArgs(&categoryID, 4, 7).
			WillReturnResult(pgxmock.NewResult("UPDATE", 0))

		Expect(db.SetItemCategory(ctx, 7, 4, &categoryID)).To(MatchError(ErrItemNotFound))
	})

	It("suggests categorized items by similarity", func() {
		categoryID := 2
		category := "Dairy"
		mock.ExpectQuery("similarity").
			WithArgs(7, "whole milk", 3).
			WillReturnRows(mock.NewRows([]string{"id", "name", "category_id", "name", "confidence"}).
				AddRow(9, "Kroger Whole Milk", &categoryID, &category, 0.62))

		matches, err := db.FindSimilarItems(ctx, 7, "whole milk", 3)
		Expect(err).NotTo(HaveOccurred())
		Expect(matches).To(HaveLen(1))
		Expect(*matches[0].CategoryName).To(Equal("Dairy"))
		Expect(matches[0].MatchType).To(Equal("fuzzy"))
	})
})
