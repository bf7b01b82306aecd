package router

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"net"
	"net/http"
	"sync"
)

var (
	// ErrEmptyBody is returned by Bind when the request carries no body.
	ErrEmptyBody = errors.New("request body is empty")
	// ErrUnsupportedContentType is returned by Bind for non-JSON bodies.
	ErrUnsupportedContentType = errors.New("unsupported content type")
)

// Chain wraps h with route middleware, then global middleware, so global
// middleware runs first.
func Chain(h HandlerFunc, global, route []MiddlewareFunc) HandlerFunc {
	for i := len(route) - 1; i >= 0; i-- {
		h = route[i](h)
	}
	for i := len(global) - 1; i >= 0; i-- {
		h = global[i](h)
	}
	return h
}

// DecodeJSON decodes a JSON request body into v.
func DecodeJSON(r *http.Request, v interface{}) error {
	if r.Body == nil || r.Body == http.NoBody {
		return ErrEmptyBody
	}
	defer r.Body.Close()

	mediaType, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if err != nil || mediaType != "application/json" {
		return fmt.Errorf("%w: %q", ErrUnsupportedContentType, r.Header.Get("Content-Type"))
	}

	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		if errors.Is(err, io.EOF) {
			return ErrEmptyBody
		}
		return fmt.Errorf("invalid JSON body: %w", err)
	}
	return nil
}

// WriteJSON writes v as a JSON response.
func WriteJSON(w ResponseWriter, code int, v interface{}) error {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(code)
	if code == http.StatusNoContent {
		return nil
	}
	return json.NewEncoder(w).Encode(v)
}

// WriteString writes a plain text response.
func WriteString(w ResponseWriter, code int, s string) error {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(code)
	_, err := io.WriteString(w, s)
	return err
}

// NewResponseWriter wraps w so the status and written state can be observed.
func NewResponseWriter(w http.ResponseWriter) ResponseWriter {
	return &statusWriter{ResponseWriter: w}
}

type statusWriter struct {
	http.ResponseWriter
	mu      sync.RWMutex
	status  int
	written bool
}

func (w *statusWriter) WriteHeader(code int) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.written {
		return
	}
	w.status = code
	w.written = true
	w.ResponseWriter.WriteHeader(code)
}

func (w *statusWriter) Write(b []byte) (int, error) {
	if !w.Written() {
		w.WriteHeader(http.StatusOK)
	}
	return w.ResponseWriter.Write(b)
}

func (w *statusWriter) Status() int {
	w.mu.RLock()
	defer w.mu.RUnlock()
	if w.status == 0 {
		return http.StatusOK
	}
	return w.status
}

func (w *statusWriter) Written() bool {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.written
}

func (w *statusWriter) Flush() {
	if flusher, ok := w.ResponseWriter.(http.Flusher); ok {
		flusher.Flush()
	}
}

func (w *statusWriter) Hijack() (net.Conn, *bufio.ReadWriter, error) {
	hijacker, ok := w.ResponseWriter.(http.Hijacker)
	if !ok {
		return nil, nil, fmt.Errorf("response writer does not support hijacking")
	}
	return hijacker.Hijack()
}

// Unwrap lets http.ResponseController reach the underlying writer.
func (w *statusWriter) Unwrap() http.ResponseWriter {
	return w.ResponseWriter
}
