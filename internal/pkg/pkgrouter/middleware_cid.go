package pkgrouter

import (
	"net/http"
	"strings"

	"github.com/stepski011/DevStore/internal/pkg/pkglog"
)

// Generator produces request correlation ids.
type Generator interface {
	Generate() string
}

const (
	HeaderCorrelationID = "X-Correlation-ID"
	HeaderRequestID     = "X-Request-ID"

	maxCIDLength = 128
)

// inboundCID returns the first usable id a client or proxy supplied.
func inboundCID(h http.Header) string {
	for _, name := range []string{HeaderCorrelationID, HeaderRequestID} {
		if v := normalizeCID(h.Get(name)); v != "" {
			return v
		}
	}
	return ""
}

// normalizeCID trims v and rejects anything that is not printable ASCII,
// so the id is safe to echo back as a header and to write into logs.
func normalizeCID(v string) string {
	v = strings.TrimSpace(v)
	if strings.IndexFunc(v, func(r rune) bool { return r < 0x20 || r > 0x7e }) != -1 {
		return ""
	}
	if len(v) > maxCIDLength {
		v = v[:maxCIDLength]
	}
	return v
}

func middlewareCorrelationID(gen Generator) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			cid := inboundCID(r.Header)
			if cid == "" && gen != nil {
				cid = gen.Generate()
			}
			if cid == "" {
				next.ServeHTTP(w, r)
				return
			}

			w.Header().Set(HeaderCorrelationID, cid)
			next.ServeHTTP(w, r.WithContext(pkglog.SetCorrelationID(r.Context(), cid)))
		})
	}
}
