package pkgrouter

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"
	"unicode/utf8"
)

const maxLoggedBodyBytes = 16 * 1024

const (
	omittedMultipart = "<multipart body omitted>"
	omittedBinary    = "<binary body omitted>"
)

// Keys compared lower-cased against JSON fields, form fields and headers.
//
//nolint:gochecknoglobals // lookup table
var sensitiveKeys = map[string]struct{}{
	"password":           {},
	"currentpassword":    {},
	"newpassword":        {},
	"token":              {},
	"resetpasswordtoken": {},
	"authorization":      {},
	"cookie":             {},
	"set-cookie":         {},
}

func isSensitive(key string) bool {
	_, found := sensitiveKeys[strings.ToLower(key)]
	return found
}

func maskHeaders(headers http.Header) http.Header {
	result := headers.Clone()
	for key := range result {
		if isSensitive(key) {
			result.Set(key, "***")
		}
	}
	return result
}

func maskData(v any) any {
	switch val := v.(type) {
	case map[string]any:
		masked := make(map[string]any, len(val))
		for k, item := range val {
			if isSensitive(k) {
				masked[k] = "***"
				continue
			}
			masked[k] = maskData(item)
		}
		return masked
	case []any:
		res := make([]any, len(val))
		for i, item := range val {
			res[i] = maskData(item)
		}
		return res
	default:
		return v
	}
}

func isMultipart(contentType string) bool {
	return strings.HasPrefix(strings.ToLower(contentType), "multipart/")
}

// describeBody renders a captured body for the log, masking credentials.
func describeBody(contentType string, body []byte, truncated bool) any {
	if len(body) == 0 {
		return nil
	}

	var decoded any
	if !truncated && json.Unmarshal(body, &decoded) == nil {
		return maskData(decoded)
	}

	if strings.HasPrefix(strings.ToLower(contentType), "application/x-www-form-urlencoded") {
		if values, err := url.ParseQuery(string(body)); err == nil {
			form := make(map[string]any, len(values))
			for k, v := range values {
				if len(v) == 1 {
					form[k] = v[0]
				} else {
					form[k] = v
				}
			}
			return maskData(form)
		}
	}

	if !utf8.Valid(body) {
		return omittedBinary
	}
	if truncated {
		return string(body) + "...(truncated)"
	}
	return string(body)
}

// readRequestBody captures the request body for logging and puts it back
// for the handler. Multipart uploads are never buffered here.
func readRequestBody(r *http.Request) any {
	ct := r.Header.Get("Content-Type")
	if r.Body == nil || r.Body == http.NoBody {
		return nil
	}
	if isMultipart(ct) {
		return omittedMultipart
	}

	//nolint:errcheck // logging only
	raw, _ := io.ReadAll(r.Body)
	r.Body = io.NopCloser(bytes.NewReader(raw))

	truncated := len(raw) > maxLoggedBodyBytes
	if truncated {
		raw = raw[:maxLoggedBodyBytes]
	}
	return describeBody(ct, raw, truncated)
}

type statusRecorder struct {
	http.ResponseWriter
	status int
	bytes  int
	body   bytes.Buffer
	capped bool
}

func (w *statusRecorder) WriteHeader(code int) {
	w.status = code
	w.ResponseWriter.WriteHeader(code)
}

func (w *statusRecorder) Write(p []byte) (int, error) {
	if w.status == 0 {
		w.status = http.StatusOK
	}

	if room := maxLoggedBodyBytes - w.body.Len(); room < len(p) {
		w.body.Write(p[:max(room, 0)])
		w.capped = true
	} else {
		w.body.Write(p)
	}

	n, err := w.ResponseWriter.Write(p)
	w.bytes += n
	return n, err
}

func (w *statusRecorder) Flush() {
	if f, ok := w.ResponseWriter.(http.Flusher); ok {
		f.Flush()
	}
}

//nolint:err113 // it use dynamic error
func (w *statusRecorder) Hijack() (net.Conn, *bufio.ReadWriter, error) {
	h, ok := w.ResponseWriter.(http.Hijacker)
	if !ok {
		return nil, nil, errors.New("hijack not supported")
	}
	return h.Hijack()
}

func (w *statusRecorder) statusCode() int {
	if w.status == 0 {
		return http.StatusOK
	}
	return w.status
}

// levelFor maps a response status to the level it is logged at.
func levelFor(status int) slog.Level {
	switch {
	case status >= http.StatusInternalServerError:
		return slog.LevelError
	case status >= http.StatusBadRequest:
		return slog.LevelWarn
	default:
		return slog.LevelInfo
	}
}

func middlewareLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		route := RoutePath(r.Context())
		if route == "" {
			route = r.URL.Path
		}

		slog.InfoContext(r.Context(), "request received",
			"method", r.Method,
			"route", route,
			"path", r.URL.Path,
			"query", r.URL.RawQuery,
			"headers", maskHeaders(r.Header),
			"body", readRequestBody(r),
		)

		rec := &statusRecorder{ResponseWriter: w}
		next.ServeHTTP(rec, r)

		status := rec.statusCode()
		attrs := []any{
			"method", r.Method,
			"route", route,
			"status", status,
			"bytes", rec.bytes,
			"latency_ms", time.Since(start).Milliseconds(),
		}
		// Static files (photos) are not worth echoing.
		if !strings.HasPrefix(rec.Header().Get("Content-Type"), "image/") {
			attrs = append(attrs, "body", describeBody(rec.Header().Get("Content-Type"), rec.body.Bytes(), rec.capped))
		}

		slog.Log(context.WithoutCancel(r.Context()), levelFor(status), "response sent", attrs...)
	})
}
