package http

import (
	"net/http"
	"strings"

	"github.com/google/uuid"
)

// sessionHeader carries the storefront session ID. Browsers get one
// assigned on first contact and echo it back.
const sessionHeader = "X-Session-ID"

// SessionID ensures every request carries a session ID, generating one
// when absent and echoing it in the response so the client can persist it.
func SessionID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(sessionHeader)
		if id == "" {
			id = uuid.New().String()
			r.Header.Set(sessionHeader, id)
		}
		w.Header().Set(sessionHeader, id)
		next.ServeHTTP(w, r)
	})
}

// ContentTypeJSON rejects mutating requests whose body is not JSON.
func ContentTypeJSON(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost || r.Method == http.MethodPut {
			ct := r.Header.Get("Content-Type")
			if ct != "" && !strings.HasPrefix(ct, "application/json") {
				http.Error(w, "Content-Type must be application/json", http.StatusUnsupportedMediaType)
				return
			}
		}
		next.ServeHTTP(w, r)
	})
}

func sessionID(r *http.Request) string {
	return r.Header.Get(sessionHeader)
}
