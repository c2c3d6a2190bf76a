package pkgrouter

import (
	"bytes"
	"encoding/json"
	"io"
	"mime"
	"net/http"
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

// Sanitize cleans request input before it reaches a handler.
//
// JSON body keys starting with "$" or containing "." are dropped, query keys
// starting with "$" are dropped, and markup is stripped from every string
// value. Dotted query keys stay because list filters address nested fields.
func Sanitize() Middleware {
	policy := bluemonday.StrictPolicy()

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			q := r.URL.Query()
			for key, values := range q {
				if strings.HasPrefix(key, "$") {
					q.Del(key)
					continue
				}
				for i, v := range values {
					values[i] = cleanString(policy, v)
				}
			}
			r.URL.RawQuery = q.Encode()

			if r.Body != nil && isJSON(r.Header.Get("Content-Type")) {
				raw, err := io.ReadAll(r.Body)
				if err == nil {
					r.Body = io.NopCloser(bytes.NewReader(sanitizeJSON(policy, raw)))
				} else {
					r.Body = io.NopCloser(bytes.NewReader(raw))
				}
			}

			next.ServeHTTP(w, r)
		})
	}
}

func isJSON(contentType string) bool {
	mt, _, err := mime.ParseMediaType(contentType)
	return err == nil && mt == "application/json"
}

// sanitizeJSON returns raw unchanged when it is not valid JSON so the handler
// reports the decode failure itself.
func sanitizeJSON(policy *bluemonday.Policy, raw []byte) []byte {
	var v any
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	if err := dec.Decode(&v); err != nil {
		return raw
	}

	out, err := json.Marshal(sanitizeValue(policy, v))
	if err != nil {
		return raw
	}
	return out
}

func sanitizeValue(policy *bluemonday.Policy, v any) any {
	switch val := v.(type) {
	case map[string]any:
		clean := make(map[string]any, len(val))
		for k, v2 := range val {
			if strings.HasPrefix(k, "$") || strings.Contains(k, ".") {
				continue
			}
			clean[k] = sanitizeValue(policy, v2)
		}
		return clean
	case []any:
		for i, v2 := range val {
			val[i] = sanitizeValue(policy, v2)
		}
		return val
	case string:
		return cleanString(policy, val)
	default:
		return v
	}
}

func cleanString(policy *bluemonday.Policy, s string) string {
	if !strings.Contains(s, "<") {
		return s
	}
	return policy.Sanitize(s)
}
