// Package currency maps free-text currency tokens (synonyms, symbols, ISO
// codes, Russian morphological variants) onto canonical ISO-4217 codes.
package currency

import "strings"

const (
	RUB = "RUB"
	USD = "USD"
	EUR = "EUR"
	CNY = "CNY"
	JPY = "JPY"
)

// synonyms lists every token that resolves to a code. Codes are valid
// synonyms of themselves, which keeps Normalize idempotent.
var synonyms = map[string][]string{
	RUB: {"rub", "руб", "рубль", "рубля", "рублей", "рубли", "₽", "р"},
	USD: {"usd", "доллар", "доллара", "долларов", "бакс", "бакса", "баксов", "$", "дол", "долл"},
	EUR: {"eur", "евро", "€"},
	CNY: {"cny", "юань", "юаня", "юаней", "юани", "юан", "yuan"},
	JPY: {"jpy", "йена", "йены", "йен", "иена", "иены", "иен", "yen", "¥"},
}

var byToken = func() map[string]string {
	m := make(map[string]string)
	for code, variants := range synonyms {
		m[strings.ToLower(code)] = code
		for _, v := range variants {
			m[v] = code
		}
	}
	return m
}()

const punctuation = ".,;:!?()[]{}«»\"'"

// Normalize resolves a free-text token like "юаней", "usd" or "$" to its
// canonical code. Absence of a match is a normal outcome, not an error.
func Normalize(token string) (string, bool) {
	t := strings.ToLower(strings.TrimSpace(token))
	t = strings.Trim(t, punctuation)
	if t == "" {
		return "", false
	}
	code, ok := byToken[t]
	return code, ok
}

// Supported reports whether code is one of the canonical codes the bot
// converts between.
func Supported(code string) bool {
	_, ok := synonyms[strings.ToUpper(code)]
	return ok
}

// Codes returns the canonical codes in a stable order.
func Codes() []string {
	return []string{RUB, USD, EUR, CNY, JPY}
}
