package i18n

import "testing"

func TestResolveHonorsQValues(t *testing.T) {
	b, err := Load("../../locales", English)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	got := b.Resolve("en;q=0.8, uk-UA;q=0.9")
	if got != Ukrainian {
		t.Fatalf("expected uk, got %s", got)
	}
}

func TestResolveFallsBackForUnsupported(t *testing.T) {
	b, err := Load("../../locales", English)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if got := b.Resolve("de-DE, fr;q=0.5"); got != English {
		t.Fatalf("expected fallback en, got %s", got)
	}
	if got := b.Resolve("cs;q=0, de"); got != English {
		t.Fatalf("q=0 must exclude cs, got %s", got)
	}
}

func TestTranslateFallsBackToDefaultThenKey(t *testing.T) {
	b := &Bundle{fallback: English}
	b.dict[English] = map[string]string{"nav.home": "Home", "only.en": "Only"}
	b.dict[Czech] = map[string]string{"nav.home": "Domů"}

	if got := b.T(Czech, "nav.home"); got != "Domů" {
		t.Fatalf("expected Czech label, got %q", got)
	}
	if got := b.T(Czech, "only.en"); got != "Only" {
		t.Fatalf("expected English fallback, got %q", got)
	}
	if got := b.T(Ukrainian, "missing.key"); got != "missing.key" {
		t.Fatalf("expected key echo, got %q", got)
	}
}

func TestParseLanguage(t *testing.T) {
	cases := map[string]Language{"uk": Ukrainian, "cs-CZ": Czech, " EN ": English, "uk_UA": Ukrainian}
	for in, want := range cases {
		got, ok := ParseLanguage(in)
		if !ok || got != want {
			t.Fatalf("ParseLanguage(%q) = %v, %v; want %v", in, got, ok, want)
		}
	}
	if got, ok := ParseLanguage("de"); ok || got != Default {
		t.Fatalf("expected unsupported de to report false, got %v %v", got, ok)
	}
}
