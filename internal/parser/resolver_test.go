package parser_test

import (
	"context"
	"errors"
	"log/slog"
	"os"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/shopspring/decimal"

	"budgetbot/internal"
	"budgetbot/internal/currency"
	"budgetbot/internal/parser"
)

type mockSemanticParser struct {
	draft  *parser.Draft
	err    error
	called bool
}

func (m *mockSemanticParser) Parse(ctx context.Context, text string) (*parser.Draft, error) {
	m.called = true
	return m.draft, m.err
}

var _ = Describe("Resolver", func() {
	var (
		resolver *parser.Resolver
		semantic *mockSemanticParser
		logger   *slog.Logger
	)

	BeforeEach(func() {
		semantic = &mockSemanticParser{}
		logger = slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
		resolver = parser.NewResolver(parser.New(), semantic, logger)
	})

	Context("when the deterministic parser finds an amount", func() {
		It("does not consult the semantic parser", func() {
			draft, err := resolver.Resolve(context.Background(), "отели 65000")
			Expect(err).ToNot(HaveOccurred())
			Expect(draft.Amount).To(Equal(decimal.NewFromInt(65000)))
			Expect(semantic.called).To(BeFalse())
		})
	})

	Context("when the deterministic parser fails", func() {
		It("adopts the semantic parser's draft", func() {
			semantic.draft = &parser.Draft{
				Amount:     decimal.NewFromInt(1200),
				Currency:   currency.USD,
				Category:   "еда",
				Confidence: 0.8,
			}

			draft, err := resolver.Resolve(context.Background(), "вчерашний ужин вышел в десять долларов с чем-то")
			Expect(err).ToNot(HaveOccurred())
			Expect(semantic.called).To(BeTrue())
			Expect(draft.Currency).To(Equal(currency.USD))
			Expect(draft.Category).To(Equal("еда"))
		})

		It("defaults description and category on the adopted draft", func() {
			semantic.draft = &parser.Draft{Amount: decimal.NewFromInt(7)}

			draft, err := resolver.Resolve(context.Background(), "семь каких-то мелочей")
			Expect(err).ToNot(HaveOccurred())
			Expect(draft.Description).To(Equal("семь каких-то мелочей"))
			Expect(draft.Category).To(Equal(parser.DefaultCategory))
		})

		It("reports a parse failure when the semantic parser returns nothing", func() {
			semantic.draft = nil

			_, err := resolver.Resolve(context.Background(), "обед в ресторане")
			Expect(errors.Is(err, internal.ErrParseFailure)).To(BeTrue())
		})

		It("treats an unavailable semantic parser like an empty result", func() {
			semantic.err = internal.ErrSemanticParserUnavailable

			_, err := resolver.Resolve(context.Background(), "обед в ресторане")
			Expect(errors.Is(err, internal.ErrParseFailure)).To(BeTrue())
		})

		It("treats a semantic parser error like an empty result", func() {
			semantic.err = errors.New("connection reset")

			_, err := resolver.Resolve(context.Background(), "обед в ресторане")
			Expect(errors.Is(err, internal.ErrParseFailure)).To(BeTrue())
		})
	})

	Context("with no semantic parser wired", func() {
		It("fails with a parse failure", func() {
			resolver = parser.NewResolver(parser.New(), nil, logger)

			_, err := resolver.Resolve(context.Background(), "обед в ресторане")
			Expect(errors.Is(err, internal.ErrParseFailure)).To(BeTrue())
		})
	})
})
