package httphandler

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/andybalholm/brotli"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

type countingObserver struct {
	calls map[string]int
}

func (o *countingObserver) Request(handler string, code int) {
	if o.calls == nil {
		o.calls = make(map[string]int)
	}

	o.calls[handler+"/"+http.StatusText(code)]++
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{}))
}

func TestInstrument(t *testing.T) {
	obs := &countingObserver{}
	h := Instrument("teapot", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	}), obs, discardLogger())

	t.Run("new request id", func(t *testing.T) {
		w := httptest.NewRecorder()
		h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))

		_, err := uuid.Parse(w.Header().Get(RequestIDHeader))
		require.NoError(t, err)
		require.Equal(t, http.StatusTeapot, w.Code)
	})

	t.Run("keeps client request id", func(t *testing.T) {
		id := uuid.NewString()
		r := httptest.NewRequest(http.MethodGet, "/", nil)
		r.Header.Set(RequestIDHeader, id)
		w := httptest.NewRecorder()
		h.ServeHTTP(w, r)

		require.Equal(t, id, w.Header().Get(RequestIDHeader))
	})

	t.Run("replaces garbage request id", func(t *testing.T) {
		r := httptest.NewRequest(http.MethodGet, "/", nil)
		r.Header.Set(RequestIDHeader, "<script>")
		w := httptest.NewRecorder()
		h.ServeHTTP(w, r)

		require.NotEqual(t, "<script>", w.Header().Get(RequestIDHeader))
	})

	require.Equal(t, 3, obs.calls["teapot/"+http.StatusText(http.StatusTeapot)])
}

func TestCompress(t *testing.T) {
	body := strings.Repeat("Лекция по информатике. ", 100)
	etag := `"abc"`

	h := Compress(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("ETag", etag)
		if r.Header.Get("If-None-Match") == etag {
			w.WriteHeader(http.StatusNotModified)

			return
		}

		w.Header().Set("Content-Type", contentTypeHTML)
		w.Write([]byte(body))
	}), discardLogger())

	t.Run("brotli", func(t *testing.T) {
		r := httptest.NewRequest(http.MethodGet, "/lectures/1", nil)
		r.Header.Set("Accept-Encoding", "gzip, deflate, br")
		w := httptest.NewRecorder()
		h.ServeHTTP(w, r)

		require.Equal(t, http.StatusOK, w.Code)
		require.Equal(t, "br", w.Header().Get("Content-Encoding"))
		require.Equal(t, "Accept-Encoding", w.Header().Get("Vary"))
		require.Less(t, w.Body.Len(), len(body))

		data, err := io.ReadAll(brotli.NewReader(w.Body))
		require.NoError(t, err)
		require.Equal(t, body, string(data))
	})

	t.Run("identity", func(t *testing.T) {
		r := httptest.NewRequest(http.MethodGet, "/lectures/1", nil)
		r.Header.Set("Accept-Encoding", "gzip")
		w := httptest.NewRecorder()
		h.ServeHTTP(w, r)

		require.Empty(t, w.Header().Get("Content-Encoding"))
		require.Equal(t, body, w.Body.String())
	})

	t.Run("not modified has no body", func(t *testing.T) {
		r := httptest.NewRequest(http.MethodGet, "/lectures/1", nil)
		r.Header.Set("Accept-Encoding", "br")
		r.Header.Set("If-None-Match", etag)
		w := httptest.NewRecorder()
		h.ServeHTTP(w, r)

		require.Equal(t, http.StatusNotModified, w.Code)
		require.Empty(t, w.Header().Get("Content-Encoding"))
		require.Zero(t, w.Body.Len())
	})
}

func TestAcceptsBrotli(t *testing.T) {
	testCases := []struct {
		header   string
		expected bool
	}{
		{header: "", expected: false},
		{header: "br", expected: true},
		{header: "gzip, br;q=0.8", expected: true},
		{header: "BR", expected: true},
		{header: "br;q=0", expected: false},
		{header: "gzip, deflate", expected: false},
		{header: "brotli", expected: false},
	}

	for _, tc := range testCases {
		t.Run(tc.header, func(t *testing.T) {
			require.Equal(t, tc.expected, acceptsBrotli(tc.header))
		})
	}
}
