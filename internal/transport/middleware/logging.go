package middleware

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/middleware"
)

const (
	maxLoggedBody = 4 << 10
	redacted      = "[FILTERED]"
)

// redactedKeys are matched as substrings of lower-cased header names and
// JSON keys.
var redactedKeys = []string{
	"password",
	"token",
	"authorization",
	"secret",
	"cookie",
	"credential",
}

func LoggingMiddleware(lg *slog.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			reqID := middleware.GetReqID(r.Context())

			// event streams stay open; only the connection is logged
			if strings.Contains(r.Header.Get("Accept"), "text/event-stream") {
				lg.Info("stream opened", "request_id", reqID, "path", r.URL.Path)
				next.ServeHTTP(w, r)
				lg.Info("stream closed", "request_id", reqID, "path", r.URL.Path, "duration_ms", time.Since(start).Milliseconds())
				return
			}

			lg.Info("incoming request",
				"request_id", reqID,
				"method", r.Method,
				"path", r.URL.Path,
				"query", r.URL.RawQuery,
				"remote_addr", r.RemoteAddr,
				"user_agent", r.UserAgent(),
				"headers", redactHeaders(r.Header),
				"body", redactBody(peekBody(r)),
			)

			captured := &cappedBuffer{limit: maxLoggedBody}
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			ww.Tee(captured)

			next.ServeHTTP(ww, r)

			status := ww.Status()
			if status == 0 {
				status = http.StatusOK
			}
			lg.Log(r.Context(), levelFor(status), "response",
				"request_id", reqID,
				"method", r.Method,
				"path", r.URL.Path,
				"status_code", status,
				"duration_ms", time.Since(start).Milliseconds(),
				"response_size", ww.BytesWritten(),
				"body", redactBody(captured.Bytes()),
			)
		})
	}
}

func levelFor(status int) slog.Level {
	switch {
	case status >= http.StatusInternalServerError:
		return slog.LevelError
	case status >= http.StatusBadRequest:
		return slog.LevelWarn
	}
	return slog.LevelInfo
}

// peekBody reads at most maxLoggedBody bytes and puts the full body back.
func peekBody(r *http.Request) []byte {
	if r.Body == nil || r.Body == http.NoBody {
		return nil
	}
	head, _ := io.ReadAll(io.LimitReader(r.Body, maxLoggedBody))
	r.Body = struct {
		io.Reader
		io.Closer
	}{io.MultiReader(bytes.NewReader(head), r.Body), r.Body}
	return head
}

type cappedBuffer struct {
	bytes.Buffer
	limit int
}

func (b *cappedBuffer) Write(p []byte) (int, error) {
	if room := b.limit - b.Len(); room > 0 {
		if len(p) > room {
			b.Buffer.Write(p[:room])
		} else {
			b.Buffer.Write(p)
		}
	}
	return len(p), nil
}

func isRedacted(name string) bool {
	name = strings.ToLower(name)
	for _, key := range redactedKeys {
		if strings.Contains(name, key) {
			return true
		}
	}
	return false
}

func redactHeaders(headers http.Header) map[string]string {
	out := make(map[string]string, len(headers))
	for name, values := range headers {
		if isRedacted(name) {
			out[name] = redacted
			continue
		}
		out[name] = strings.Join(values, ", ")
	}
	return out
}

// redactBody masks sensitive JSON keys at any depth. Bodies that are not
// JSON are dropped when they mention a sensitive key.
func redactBody(body []byte) string {
	if len(body) == 0 {
		return ""
	}

	var doc interface{}
	if err := json.Unmarshal(body, &doc); err != nil {
		if isRedacted(string(body)) {
			return redacted
		}
		return string(body)
	}

	masked, err := json.Marshal(redactValue(doc))
	if err != nil {
		return redacted
	}
	return string(masked)
}

func redactValue(v interface{}) interface{} {
	switch v := v.(type) {
	case map[string]interface{}:
		for key, value := range v {
			if isRedacted(key) {
				v[key] = redacted
			} else {
				v[key] = redactValue(value)
			}
		}
		return v
	case []interface{}:
		for i, item := range v {
			v[i] = redactValue(item)
		}
		return v
	}
	return v
}
