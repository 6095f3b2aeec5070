package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("parse command", func() {
	run := func(stdin string, args ...string) ([]parsedFile, error) {
		var out bytes.Buffer
		cmd := rootCmd()
		cmd.SetIn(strings.NewReader(stdin))
		cmd.SetOut(&out)
		cmd.SetErr(&bytes.Buffer{})
		cmd.SetArgs(append([]string{"--log-level", "disabled"}, args...))

		if err := cmd.Execute(); err != nil {
			return nil, err
		}

		var parsed []parsedFile
		Expect(json.Unmarshal(out.Bytes(), &parsed)).To(Succeed())
		return parsed, nil
	}

	It("parses stdin when no files are given", func() {
		parsed, err := run("E 179571 COKEDEMEXICO 35.49 N\n1234 KS WATER 13.99 Y\n", "parse", "--source", "costco")
		Expect(err).NotTo(HaveOccurred())
		Expect(parsed).To(HaveLen(1))
		Expect(parsed[0].File).To(Equal("-"))
		Expect(parsed[0].Source).To(BeEquivalentTo("costco"))
		Expect(parsed[0].Items).To(HaveLen(2))
		Expect(parsed[0].Total.StringFixed(2)).To(Equal("49.48"))
	})

	It("keeps the file order", func() {
		dir := GinkgoT().TempDir()
		first := filepath.Join(dir, "a.txt")
		second := filepath.Join(dir, "b.txt")
		Expect(os.WriteFile(first, []byte("Widget $2.50\n"), 0o600)).To(Succeed())
		Expect(os.WriteFile(second, []byte("Gadget $1.00\nGizmo $4.00\n"), 0o600)).To(Succeed())

		parsed, err := run("", "parse", "--source", "target", first, second)
		Expect(err).NotTo(HaveOccurred())
		Expect(parsed).To(HaveLen(2))
		Expect(parsed[0].File).To(Equal(first))
		Expect(parsed[0].Items).To(HaveLen(1))
		Expect(parsed[1].Items).To(HaveLen(2))
		Expect(parsed[1].Source).To(BeEquivalentTo("generic"))
	})

	It("fails on empty input", func() {
		_, err := run("   ", "parse", "--source", "costco")
		Expect(err).To(MatchError(ContainSubstring("text is required")))
	})

	It("requires a source", func() {
		_, err := run("Widget $2.50", "parse")
		Expect(err).To(HaveOccurred())
	})
})
