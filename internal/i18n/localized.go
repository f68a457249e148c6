package i18n

import "strings"

// Localized holds one value per supported language, indexed by Language.
type Localized [languageCount]string

// Text builds a Localized from literal values.
func Text(en, uk, cs string) Localized {
	var l Localized
	l[English] = en
	l[Ukrainian] = uk
	l[Czech] = cs
	return l
}

// In returns the value for lang. Missing or blank values fall back to
// English, and to "" when English is blank too.
func (l Localized) In(lang Language) string {
	if lang < languageCount {
		if v := l[lang]; strings.TrimSpace(v) != "" {
			return v
		}
	}
	if v := l[Default]; strings.TrimSpace(v) != "" {
		return v
	}
	return ""
}

// IsZero reports whether no language carries a value.
func (l Localized) IsZero() bool {
	for _, v := range l {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}

// Collect gathers the prefix_<code> fields of a decoded record, e.g.
// name_en, name_uk and name_cs for prefix "name". Non-string values are
// treated as absent.
func Collect(record map[string]any, prefix string) Localized {
	var l Localized
	for _, lang := range Languages() {
		if s, ok := record[prefix+"_"+lang.Code()].(string); ok {
			l[lang] = s
		}
	}
	return l
}

// Resolve returns record[prefix_lang], falling back to record[prefix_en],
// then to "".
func Resolve(record map[string]any, lang Language, prefix string) string {
	return Collect(record, prefix).In(lang)
}
