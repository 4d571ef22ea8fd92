package internal

import (
	"net/http"
	"sync"
)

// ResponseWriter records the status and body size of a response and
// whether anything was written yet.
type ResponseWriter struct {
	http.ResponseWriter
	mu      sync.Mutex
	status  int
	size    int64
	written bool
}

// NewResponseWriter wraps w. The status defaults to 200.
func NewResponseWriter(w http.ResponseWriter) *ResponseWriter {
	return &ResponseWriter{ResponseWriter: w, status: http.StatusOK}
}

// WriteHeader sends the status once; later calls are ignored.
func (w *ResponseWriter) WriteHeader(code int) {
	w.mu.Lock()
	if w.written {
		w.mu.Unlock()
		return
	}
	w.written = true
	w.status = code
	w.mu.Unlock()

	w.ResponseWriter.WriteHeader(code)
}

func (w *ResponseWriter) Write(b []byte) (int, error) {
	w.mu.Lock()
	w.written = true
	w.mu.Unlock()

	n, err := w.ResponseWriter.Write(b)

	w.mu.Lock()
	w.size += int64(n)
	w.mu.Unlock()
	return n, err
}

func (w *ResponseWriter) Status() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.status
}

func (w *ResponseWriter) Size() int64 {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.size
}

func (w *ResponseWriter) Written() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.written
}

// Flush implements http.Flusher.
func (w *ResponseWriter) Flush() {
	if f, ok := w.ResponseWriter.(http.Flusher); ok {
		f.Flush()
	}
}

// Unwrap lets http.ResponseController reach the underlying writer.
func (w *ResponseWriter) Unwrap() http.ResponseWriter {
	return w.ResponseWriter
}
