package httphandler

import (
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/andybalholm/brotli"
	"github.com/google/uuid"
)

const (
	RequestIDHeader = "X-Request-ID"
)

type RequestObserver interface {
	Request(handler string, code int)
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	if r.status == 0 {
		r.status = status
	}

	r.ResponseWriter.WriteHeader(status)
}

func (r *statusRecorder) Write(p []byte) (int, error) {
	if r.status == 0 {
		r.status = http.StatusOK
	}

	return r.ResponseWriter.Write(p)
}

func (r *statusRecorder) Unwrap() http.ResponseWriter {
	return r.ResponseWriter
}

// Instrument logs every request under a request id and counts it by handler name and status.
func Instrument(name string, next http.Handler, obs RequestObserver, log *slog.Logger) http.Handler {
	log = log.With(slog.String("handler", name))

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(RequestIDHeader)
		if _, err := uuid.Parse(id); err != nil {
			id = uuid.NewString()
		}
		w.Header().Set(RequestIDHeader, id)

		rec := &statusRecorder{ResponseWriter: w}
		start := time.Now()

		next.ServeHTTP(rec, r)

		if rec.status == 0 {
			rec.status = http.StatusOK
		}

		obs.Request(name, rec.status)

		log.Debug("Request",
			slog.String("request_id", id),
			slog.String("method", r.Method),
			slog.String("path", r.URL.Path),
			slog.String("range", r.Header.Get("Range")),
			slog.Int("status", rec.status),
			slog.Duration("duration", time.Since(start)),
		)
	})
}

type compressWriter struct {
	http.ResponseWriter
	bw          *brotli.Writer
	wroteHeader bool
}

func (c *compressWriter) WriteHeader(status int) {
	if c.wroteHeader {
		return
	}
	c.wroteHeader = true

	if status != http.StatusNotModified && status != http.StatusNoContent {
		h := c.Header()
		h.Set("Content-Encoding", "br")
		h.Del("Content-Length")
	}

	c.ResponseWriter.WriteHeader(status)
}

func (c *compressWriter) Write(p []byte) (int, error) {
	if !c.wroteHeader {
		c.WriteHeader(http.StatusOK)
	}

	if c.bw == nil {
		c.bw = brotli.NewWriterLevel(c.ResponseWriter, brotli.DefaultCompression)
	}

	return c.bw.Write(p)
}

func (c *compressWriter) Close() error {
	if c.bw == nil {
		return nil
	}

	return c.bw.Close()
}

func (c *compressWriter) Unwrap() http.ResponseWriter {
	return c.ResponseWriter
}

// Compress encodes response bodies with brotli for clients that accept it.
// Streams and file downloads must not be wrapped: compression breaks byte ranges.
func Compress(next http.Handler, log *slog.Logger) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Add("Vary", "Accept-Encoding")

		if r.Method == http.MethodHead || !acceptsBrotli(r.Header.Get("Accept-Encoding")) {
			next.ServeHTTP(w, r)

			return
		}

		cw := &compressWriter{ResponseWriter: w}
		defer func() {
			if err := cw.Close(); err != nil {
				log.Debug("Cannot finish compressed response", slog.String("path", r.URL.Path), slog.Any("error", err))
			}
		}()

		next.ServeHTTP(cw, r)
	})
}

func acceptsBrotli(header string) bool {
	for _, part := range strings.Split(header, ",") {
		coding, params, _ := strings.Cut(strings.TrimSpace(part), ";")
		if !strings.EqualFold(strings.TrimSpace(coding), "br") {
			continue
		}

		q := strings.ReplaceAll(strings.TrimSpace(params), " ", "")

		return q != "q=0" && q != "q=0.0" && q != "q=0.00" && q != "q=0.000"
	}

	return false
}
