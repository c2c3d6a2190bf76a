package pkgrouter

import (
	"net/http"

	"github.com/unrolled/secure"
)

// SecureHeaders sets the standard hardening response headers. HSTS is only
// sent outside development.
func SecureHeaders(development bool) Middleware {
	s := secure.New(secure.Options{
		FrameDeny:            true,
		ContentTypeNosniff:   true,
		BrowserXssFilter:     true,
		ReferrerPolicy:       "no-referrer",
		STSSeconds:           15552000,
		STSIncludeSubdomains: true,
		IsDevelopment:        development,
	})

	return func(next http.Handler) http.Handler {
		return s.Handler(next)
	}
}
