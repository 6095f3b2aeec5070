//go:build windows

package services

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("OCRService on Windows", func() {
	It("reports scanning as disabled", func() {
		_, err := NewOCRService()
		Expect(err).To(MatchError(ErrOCRDisabled))

		_, err = (&OCRService{}).ProcessImage([]byte("png-bytes"))
		Expect(err).To(MatchError(ErrOCRDisabled))
	})
})
