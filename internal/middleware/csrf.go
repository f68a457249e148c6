package middleware

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/hex"
	"errors"
	"mime"
	"net/http"
	"time"
)

const (
	csrfCookieName = "csrf_token"
	csrfHeaderName = "X-CSRF-Token"
	csrfFieldName  = "csrf_token"
)

// CSRF issues a CSRF cookie tied to the session and verifies that unsafe
// requests echo it, either in the X-CSRF-Token header or in the csrf_token
// form field. Forms are parsed with bodies capped at maxFormBytes; a body
// over the cap is handed to onTooLarge, which must not act on the request.
// A nil onTooLarge answers 413.
func CSRF(secure bool, maxFormBytes int64, onTooLarge http.Handler) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			s := GetSession(r)
			token := s.CSRFToken
			if token == "" {
				token = newCSRFToken()
				s.CSRFToken = token
				s.MarkDirty()
			}

			// double submit cookie
			if c, err := r.Cookie(csrfCookieName); err != nil || c.Value != token {
				http.SetCookie(w, &http.Cookie{
					Name:     csrfCookieName,
					Value:    token,
					Path:     "/",
					HttpOnly: false,
					Secure:   secure,
					SameSite: http.SameSiteLaxMode,
					Expires:  time.Now().Add(24 * time.Hour),
				})
			}

			if !isSafeMethod(r.Method) {
				got := r.Header.Get(csrfHeaderName)
				if got == "" {
					v, err := formToken(w, r, maxFormBytes)
					if err != nil {
						var tooLarge *http.MaxBytesError
						if errors.As(err, &tooLarge) {
							if onTooLarge != nil {
								onTooLarge.ServeHTTP(w, r)
								return
							}
							writeError(w, r, http.StatusRequestEntityTooLarge, "request too large")
							return
						}
						writeError(w, r, http.StatusBadRequest, "invalid form")
						return
					}
					got = v
				}
				if !equalToken(got, token) {
					writeError(w, r, http.StatusForbidden, "invalid CSRF token")
					return
				}
				if c, err := r.Cookie(csrfCookieName); err != nil || !equalToken(c.Value, token) {
					writeError(w, r, http.StatusForbidden, "invalid CSRF token")
					return
				}
			}

			next.ServeHTTP(w, r)
		})
	}
}

// CSRFToken returns the token templates embed in forms.
func CSRFToken(r *http.Request) string {
	return GetSession(r).CSRFToken
}

func formToken(w http.ResponseWriter, r *http.Request, maxFormBytes int64) (string, error) {
	if maxFormBytes > 0 {
		r.Body = http.MaxBytesReader(w, r.Body, maxFormBytes)
	}
	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	var err error
	if mediaType == "multipart/form-data" {
		err = r.ParseMultipartForm(1 << 20)
	} else {
		err = r.ParseForm()
	}
	if err != nil {
		return "", err
	}
	return r.PostFormValue(csrfFieldName), nil
}

func equalToken(a, b string) bool {
	return a != "" && subtle.ConstantTimeCompare([]byte(a), []byte(b)) == 1
}

func newCSRFToken() string {
	b := make([]byte, 16)
	_, _ = rand.Read(b)
	return hex.EncodeToString(b)
}

func isSafeMethod(m string) bool {
	switch m {
	case http.MethodGet, http.MethodHead, http.MethodOptions, http.MethodTrace:
		return true
	default:
		return false
	}
}
