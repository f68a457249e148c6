package format

import (
	"math"
	"strings"

	"golang.org/x/text/currency"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

// CurrencyConfig controls how Price renders an amount.
type CurrencyConfig struct {
	Locale            string // BCP 47 tag, e.g. "en-US" or "cs-CZ"
	CurrencyCode      string // ISO 4217, e.g. "CZK"
	MinFractionDigits int
	MaxFractionDigits int
}

// StandardCurrency renders code with its standard number of fraction digits
// (2 for USD/EUR/CZK, 0 for JPY). Unknown codes use 2.
func StandardCurrency(locale, code string) CurrencyConfig {
	digits := 2
	if unit, err := currency.ParseISO(strings.TrimSpace(code)); err == nil {
		digits, _ = currency.Standard.Rounding(unit)
	}
	return CurrencyConfig{
		Locale:            locale,
		CurrencyCode:      code,
		MinFractionDigits: digits,
		MaxFractionDigits: digits,
	}
}

// WholeUnits renders code without fraction digits.
func WholeUnits(locale, code string) CurrencyConfig {
	return CurrencyConfig{Locale: locale, CurrencyCode: code}
}

// Price formats amount for display using cfg. The result depends only on
// (amount, cfg).
// Example: Price(1234.5, StandardCurrency("en-US", "USD")) => "$1,234.50"
func Price(amount float64, cfg CurrencyConfig) string {
	if math.IsNaN(amount) || math.IsInf(amount, 0) {
		amount = 0
	}
	neg := amount < 0
	if neg {
		amount = -amount
	}
	tag := parseLocale(cfg.Locale)
	minDigits, maxDigits := fractionDigits(cfg.MinFractionDigits, cfg.MaxFractionDigits)
	// number rounds ties to even; prices round half away from zero.
	scale := math.Pow10(maxDigits)
	amount = math.Round(amount*scale) / scale

	p := message.NewPrinter(tag)
	digits := p.Sprintf("%v", number.Decimal(amount,
		number.MinFractionDigits(minDigits),
		number.MaxFractionDigits(maxDigits),
	))

	out := withSymbol(p, digits, cfg.CurrencyCode, tag)
	if neg {
		return "-" + out
	}
	return out
}

// withSymbol places the locale's narrow currency symbol next to digits.
// Codes without a symbol are written out.
func withSymbol(p *message.Printer, digits, code string, tag language.Tag) string {
	code = strings.ToUpper(strings.TrimSpace(code))
	if code == "" {
		return digits
	}
	sym, known := code, false
	if unit, err := currency.ParseISO(code); err == nil {
		code = unit.String()
		sym = p.Sprint(currency.NarrowSymbol(unit))
		known = sym != "" && sym != code
		if !known {
			sym = code
		}
	}
	if symbolLeads(tag) {
		if !known {
			return sym + " " + digits
		}
		return sym + digits
	}
	return digits + " " + sym
}

// symbolLeads reports whether the locale writes the currency before the
// number. x/text carries symbols but not currency patterns.
func symbolLeads(tag language.Tag) bool {
	base, _ := tag.Base()
	return base.String() == "en"
}

func parseLocale(locale string) language.Tag {
	locale = strings.TrimSpace(locale)
	if locale == "" {
		return language.English
	}
	tag, err := language.Parse(locale)
	if err != nil {
		return language.English
	}
	return tag
}

func fractionDigits(minDigits, maxDigits int) (int, int) {
	if minDigits < 0 {
		minDigits = 0
	}
	if maxDigits < minDigits {
		maxDigits = minDigits
	}
	return minDigits, maxDigits
}
