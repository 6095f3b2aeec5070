package handlers

import (
	"net/http"
	"time"

	"github.com/jackc/pgx/v5"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/shopspring/decimal"

	"github.com/foxxcyber/receipt-feed/internal/models"
)

var _ = Describe("Receipt handlers", func() {
	var s *testServer

	BeforeEach(func() {
		s = newTestServer()
	})

	It("rejects a non-numeric id", func() {
		status, env := s.do(http.MethodGet, "/api/receipts/abc", nil, true)
		Expect(status).To(Equal(http.StatusBadRequest))
		Expect(env.Error).To(Equal("invalid receipt ID"))
	})

	It("returns 404 for another user's receipt", func() {
		s.mock.ExpectQuery("FROM receipts").
			WithArgs(5, testUserID).
			WillReturnError(pgx.ErrNoRows)

		status, env := s.do(http.MethodGet, "/api/receipts/5", nil, true)
		Expect(status).To(Equal(http.StatusNotFound))
		Expect(env.Error).To(Equal("receipt not found"))
	})

	It("returns the receipt with per-category totals", func() {
		now := time.Now()
		var noKey *string
		var noCategory *int
		var noCategoryName *string
		produce := "Produce"
		produceID := 2

		s.mock.ExpectQuery("FROM receipts").
			WithArgs(5, testUserID).
			WillReturnRows(s.mock.NewRows([]string{"id", "user_id", "source", "s3_key", "date", "created_at"}).
				AddRow(5, testUserID, "kroger", noKey, now, now))
		s.mock.ExpectQuery("FROM receipt_items").
			WithArgs(5).
			WillReturnRows(s.mock.NewRows([]string{"id", "receipt_id", "item_id", "position", "name", "price", "taxable", "category_id", "category_name"}).
				AddRow(1, 5, 100, 1, "Bananas", decimal.RequireFromString("0.63"), false, &produceID, &produce).
				AddRow(2, 5, 101, 2, "Soap", decimal.RequireFromString("3.99"), true, noCategory, noCategoryName))

		status, env := s.do(http.MethodGet, "/api/receipts/5", nil, true)
		Expect(status).To(Equal(http.StatusOK))

		var receipt models.ReceiptDetail
		decodeData(env, &receipt)
		Expect(receipt.Items).To(HaveLen(2))
		Expect(receipt.Totals).NotTo(BeNil())
		Expect(receipt.Totals.Subtotal.StringFixed(2)).To(Equal("4.62"))
		Expect(receipt.Totals.Tax.StringFixed(2)).To(Equal("0.28"))
		Expect(receipt.Totals.Total.StringFixed(2)).To(Equal("4.90"))
		Expect(receipt.Totals.Categories).To(HaveLen(2))
		Expect(receipt.Totals.Categories[0].Category).To(Equal("Produce"))
		Expect(receipt.Totals.Categories[1].Category).To(Equal("Uncategorized"))
	})

	It("returns the stored raw text", func() {
		raw := "Widget $2.50"
		var noKey *string

		s.mock.ExpectQuery("SELECT raw_text, s3_key, image_key FROM receipts").
			WithArgs(5, testUserID).
			WillReturnRows(s.mock.NewRows([]string{"raw_text", "s3_key", "image_key"}).AddRow(&raw, noKey, noKey))

		status, env := s.do(http.MethodGet, "/api/receipts/5/raw", nil, true)
		Expect(status).To(Equal(http.StatusOK))

		var body map[string]string
		decodeData(env, &body)
		Expect(body["text"]).To(Equal(raw))
		Expect(body).NotTo(HaveKey("url"))
		Expect(body).NotTo(HaveKey("image_url"))
	})

	It("deletes a receipt", func() {
		var noKey *string
		s.mock.ExpectQuery("DELETE FROM receipts").
			WithArgs(5, testUserID).
			WillReturnRows(s.mock.NewRows([]string{"s3_key", "image_key"}).AddRow(noKey, noKey))

		status, _ := s.do(http.MethodDelete, "/api/receipts/5", nil, true)
		Expect(status).To(Equal(http.StatusNoContent))
	})

	It("lists receipts", func() {
		var noKey *string
		now := time.Now()
		s.mock.ExpectQuery("FROM receipts r").
			WithArgs(testUserID).
			WillReturnRows(s.mock.NewRows([]string{"id", "user_id", "source", "s3_key", "date", "created_at", "item_count", "total"}).
				AddRow(5, testUserID, "costco", noKey, now, now, 2, decimal.RequireFromString("49.48")))

		status, env := s.do(http.MethodGet, "/api/receipts", nil, true)
		Expect(status).To(Equal(http.StatusOK))

		var receipts []models.ReceiptSummary
		decodeData(env, &receipts)
		Expect(receipts).To(HaveLen(1))
		Expect(receipts[0].ItemCount).To(Equal(2))
	})
})
