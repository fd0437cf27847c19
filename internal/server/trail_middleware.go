package server

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
)

const maxTrailBody = 4096

func (s *Server) trailMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		holder := &trailUsername{}
		r = r.WithContext(context.WithValue(r.Context(), trailUser, holder))

		entry := TrailEntry{
			Timestamp: time.Now().UTC(),
			Method:    r.Method,
			Path:      r.URL.Path,
			ReturnID:  returnIDFromPath(r.URL.Path),
		}

		var requestBody []byte
		if r.Body != nil && r.URL.Path != "/api/login" {
			requestBody, _ = io.ReadAll(io.LimitReader(r.Body, maxTrailBody))
			r.Body = io.NopCloser(io.MultiReader(bytes.NewReader(requestBody), r.Body))
			entry.Request = string(requestBody)
		}

		wrw := newResponseWriterWrapper(w)

		next.ServeHTTP(wrw, r)

		entry.Username = holder.value
		entry.StatusCode = wrw.GetStatusCode()
		entry.Response = string(wrw.GetBody())

		s.Trail.LogEntry(r.Context(), entry)
	})
}

// returnIDFromPath extracts the request id from /api/returns/{id}/...
// paths; the fixed segments "my" and "all" do not count.
func returnIDFromPath(path string) string {
	parts := strings.Split(strings.Trim(path, "/"), "/")
	for i, part := range parts {
		if part == "returns" && i+1 < len(parts) {
			candidate := parts[i+1]
			if _, err := uuid.Parse(candidate); err == nil {
				return candidate
			}
			return ""
		}
	}
	return ""
}
