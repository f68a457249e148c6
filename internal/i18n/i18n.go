package i18n

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
)

// Language is one of the UI languages the site is published in.
type Language uint8

const (
	English Language = iota
	Ukrainian
	Czech
	languageCount
)

// Default is the language every localized lookup falls back to.
const Default = English

var codes = [languageCount]string{"en", "uk", "cs"}

var nativeNames = [languageCount]string{"English", "Українська", "Čeština"}

// Languages returns the supported languages in switcher order.
func Languages() []Language {
	return []Language{English, Ukrainian, Czech}
}

// Code returns the ISO 639-1 code used in field suffixes and URLs.
func (l Language) Code() string {
	if l >= languageCount {
		return codes[Default]
	}
	return codes[l]
}

func (l Language) String() string { return l.Code() }

// NativeName returns the language name written in that language.
func (l Language) NativeName() string {
	if l >= languageCount {
		return nativeNames[Default]
	}
	return nativeNames[l]
}

// ParseLanguage maps a code such as "uk" or "cs-CZ" to a Language.
// Unknown values report false and return Default.
func ParseLanguage(s string) (Language, bool) {
	s = strings.ToLower(strings.TrimSpace(s))
	if i := strings.IndexAny(s, "-_"); i != -1 {
		s = s[:i]
	}
	for i, c := range codes {
		if c == s {
			return Language(i), true
		}
	}
	return Default, false
}

// Bundle holds UI strings for every supported language.
type Bundle struct {
	dict     [languageCount]map[string]string
	fallback Language
}

// Load reads <dir>/<code>.json for each supported language. Only the
// fallback language file is mandatory.
func Load(dir string, fallback Language) (*Bundle, error) {
	if fallback >= languageCount {
		fallback = Default
	}
	b := &Bundle{fallback: fallback}
	for _, l := range Languages() {
		path := filepath.Join(dir, l.Code()+".json")
		raw, err := os.ReadFile(path)
		if err != nil {
			if l == fallback {
				return nil, fmt.Errorf("load locale %s: %w", l, err)
			}
			continue
		}
		var m map[string]string
		if err := json.Unmarshal(raw, &m); err != nil {
			return nil, fmt.Errorf("unmarshal %s: %w", l, err)
		}
		b.dict[l] = m
	}
	return b, nil
}

// Fallback returns the configured fallback language.
func (b *Bundle) Fallback() Language { return b.fallback }

// T returns translation for key in lang, falling back to default and finally key.
func (b *Bundle) T(lang Language, key string) string {
	if b == nil {
		return key
	}
	if lang < languageCount {
		if v, ok := b.dict[lang][key]; ok {
			return v
		}
	}
	if v, ok := b.dict[b.fallback][key]; ok {
		return v
	}
	return key
}

// Has reports whether key exists in lang or the fallback dictionary.
func (b *Bundle) Has(lang Language, key string) bool {
	return b.T(lang, key) != key
}

// Resolve chooses best language from Accept-Language header.
func (b *Bundle) Resolve(acceptLang string) Language {
	type langPref struct {
		base string
		q    float64
		pos  int
	}
	prefs := make([]langPref, 0, 8)
	parts := strings.Split(acceptLang, ",")
	for i, raw := range parts {
		p := strings.TrimSpace(raw)
		if p == "" {
			continue
		}
		q := 1.0
		if sc := strings.IndexByte(p, ';'); sc != -1 {
			params := strings.TrimSpace(p[sc+1:])
			p = strings.TrimSpace(p[:sc])
			if strings.HasPrefix(params, "q=") {
				if v, err := parseQValue(strings.TrimPrefix(params, "q=")); err == nil {
					q = v
				}
			}
		}
		prefs = append(prefs, langPref{base: p, q: q, pos: i})
	}
	// sort by q desc then by original order
	sort.SliceStable(prefs, func(i, j int) bool {
		if prefs[i].q == prefs[j].q {
			return prefs[i].pos < prefs[j].pos
		}
		return prefs[i].q > prefs[j].q
	})
	for _, lp := range prefs {
		if lp.q == 0 {
			continue
		}
		if l, ok := ParseLanguage(lp.base); ok {
			return l
		}
	}
	return b.fallback
}

// parseQValue parses a qvalue per RFC 7231 (0.0 to 1.0).
func parseQValue(s string) (float64, error) {
	s = strings.TrimSpace(s)
	switch s {
	case "1", "1.0", "1.00":
		return 1.0, nil
	case "0", "0.0", "0.00":
		return 0.0, nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, err
	}
	if v < 0 {
		v = 0
	} else if v > 1 {
		v = 1
	}
	return v, nil
}
