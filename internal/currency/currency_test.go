package currency_test

import (
	"testing"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"budgetbot/internal/currency"
)

func TestCurrency(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Currency Suite")
}

var _ = Describe("Normalize", func() {
	DescribeTable("resolving synonyms to canonical codes",
		func(token, expected string) {
			code, ok := currency.Normalize(token)
			Expect(ok).To(BeTrue())
			Expect(code).To(Equal(expected))
		},
		Entry("russian plural rub", "рублей", currency.RUB),
		Entry("rub symbol", "₽", currency.RUB),
		Entry("short r", "р", currency.RUB),
		Entry("dollar word", "долларов", currency.USD),
		Entry("dollar sign", "$", currency.USD),
		Entry("slang dollars", "баксов", currency.USD),
		Entry("euro word", "евро", currency.EUR),
		Entry("euro sign", "€", currency.EUR),
		Entry("yuan genitive", "юаней", currency.CNY),
		Entry("yuan latin", "yuan", currency.CNY),
		Entry("yen word", "йен", currency.JPY),
		Entry("iso lowercase", "cny", currency.CNY),
		Entry("iso uppercase", "USD", currency.USD),
		Entry("mixed case", "Eur", currency.EUR),
	)

	It("strips surrounding punctuation before matching", func() {
		code, ok := currency.Normalize("юаней.")
		Expect(ok).To(BeTrue())
		Expect(code).To(Equal(currency.CNY))

		code, ok = currency.Normalize("(usd)")
		Expect(ok).To(BeTrue())
		Expect(code).To(Equal(currency.USD))
	})

	It("returns no match for unknown tokens without erroring", func() {
		_, ok := currency.Normalize("сувенир")
		Expect(ok).To(BeFalse())

		_, ok = currency.Normalize("")
		Expect(ok).To(BeFalse())

		_, ok = currency.Normalize("   ")
		Expect(ok).To(BeFalse())
	})

	It("is idempotent on canonical codes", func() {
		for _, code := range currency.Codes() {
			normalized, ok := currency.Normalize(code)
			Expect(ok).To(BeTrue(), "code %s should be a synonym of itself", code)
			Expect(normalized).To(Equal(code))

			again, ok := currency.Normalize(normalized)
			Expect(ok).To(BeTrue())
			Expect(again).To(Equal(code))
		}
	})
})

var _ = Describe("Supported", func() {
	It("accepts canonical codes regardless of case", func() {
		Expect(currency.Supported("rub")).To(BeTrue())
		Expect(currency.Supported("JPY")).To(BeTrue())
	})

	It("rejects codes outside the conversion set", func() {
		Expect(currency.Supported("GBP")).To(BeFalse())
		Expect(currency.Supported("")).To(BeFalse())
	})
})
