package pkgrouter

import "net/http"

// ParameterPollution keeps only the last value of a repeated query parameter,
// except for the keys in allow which may legitimately repeat.
func ParameterPollution(allow ...string) Middleware {
	allowed := make(map[string]struct{}, len(allow))
	for _, k := range allow {
		allowed[k] = struct{}{}
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			q := r.URL.Query()
			polluted := false
			for key, values := range q {
				if _, ok := allowed[key]; ok || len(values) < 2 {
					continue
				}
				q[key] = values[len(values)-1:]
				polluted = true
			}
			if polluted {
				r.URL.RawQuery = q.Encode()
			}

			next.ServeHTTP(w, r)
		})
	}
}
