package middleware

import (
	"context"
	"net/http"
	"time"

	"luxesalon.cz/salon-web/internal/i18n"
)

const langCookieName = "hl"

// Locale resolves and stores the preferred language in the session and cookie `hl`.
// ?hl= is the only setter; otherwise the session, the cookie, then
// Accept-Language decide.
func Locale(bundle *i18n.Bundle, secure bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			// make fallback available to request context for helpers
			ctx := context.WithValue(r.Context(), ctxKeyLocaleFB, bundle.Fallback())
			r = r.WithContext(ctx)
			s := GetSession(r)
			if q, ok := i18n.ParseLanguage(r.URL.Query().Get("hl")); ok {
				if s.Locale != q.Code() {
					s.Locale = q.Code()
					s.MarkDirty()
				}
				http.SetCookie(w, &http.Cookie{
					Name:     langCookieName,
					Value:    q.Code(),
					Path:     "/",
					Secure:   secure,
					SameSite: http.SameSiteLaxMode,
					Expires:  time.Now().Add(365 * 24 * time.Hour),
				})
			} else if !isLanguage(s.Locale) {
				lang := bundle.Resolve(r.Header.Get("Accept-Language"))
				if c, err := r.Cookie(langCookieName); err == nil {
					if fromCookie, ok := i18n.ParseLanguage(c.Value); ok {
						lang = fromCookie
					}
				}
				s.Locale = lang.Code()
				s.MarkDirty()
			}
			w.Header().Set("Content-Language", s.Locale)
			next.ServeHTTP(w, r)
		})
	}
}

func isLanguage(code string) bool {
	_, ok := i18n.ParseLanguage(code)
	return ok
}

// Lang returns the current language from the session, or the bundle fallback.
func Lang(r *http.Request) i18n.Language {
	if lang, ok := i18n.ParseLanguage(GetSession(r).Locale); ok {
		return lang
	}
	if fb, ok := r.Context().Value(ctxKeyLocaleFB).(i18n.Language); ok {
		return fb
	}
	return i18n.Default
}
