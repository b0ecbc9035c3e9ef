package stream

import (
	"errors"
	"fmt"
	"io"
	"iter"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/jgivc/philportal/internal/common"
	"github.com/jgivc/philportal/internal/entity"
	"github.com/spf13/afero"
	"golang.org/x/time/rate"
)

const (
	bufSize = 64 * 1024

	rangeErrorMalformed     = "malformed"
	rangeErrorUnsatisfiable = "unsatisfiable"
)

type Observer interface {
	StreamedBytes(contentType string, n int)
	RangeError(reason string)
}

type NopObserver struct{}

func (NopObserver) StreamedBytes(string, int) {}
func (NopObserver) RangeError(string)         {}

// Source describes a file to be streamed.
type Source struct {
	Path        string
	Size        int64
	ContentType string
}

type responder struct {
	fs    afero.Fs
	obs   Observer
	limit rate.Limit
	log   *slog.Logger
}

func NewResponder(fs afero.Fs, obs Observer, log *slog.Logger) *responder {
	if obs == nil {
		obs = NopObserver{}
	}

	return &responder{
		fs:  fs,
		obs: obs,
		log: log.With(slog.String("item", "StreamResponder")),
	}
}

// WithRateLimit caps every stream at bytesPerSec. Zero or less disables the limit.
func (s *responder) WithRateLimit(bytesPerSec int) *responder {
	s.limit = 0
	if bytesPerSec > 0 {
		s.limit = rate.Limit(bytesPerSec)
	}

	return s
}

// newLimiter returns nil when streams are not limited.
func (s *responder) newLimiter() *rate.Limiter {
	if s.limit == 0 {
		return nil
	}

	return rate.NewLimiter(s.limit, max(int(s.limit), bufSize))
}

// Stat builds a Source for path. The returned error wraps the afero/os error,
// so os.IsNotExist style checks keep working.
func (s *responder) Stat(path, contentType string) (*Source, error) {
	fi, err := s.fs.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("cannot stat %s: %w", path, err)
	}

	if fi.IsDir() {
		return nil, fmt.Errorf("%s is a directory", path)
	}

	return &Source{Path: path, Size: fi.Size(), ContentType: contentType}, nil
}

/*
Respond writes src to w honoring the request Range header:
  - no Range: 200 with the whole file;
  - valid Range: 206 with the requested bytes;
  - malformed or unsatisfiable Range: 416, the file is not opened.

If the file cannot be opened before anything is written, the client gets 404.
*/
func (s *responder) Respond(w http.ResponseWriter, r *http.Request, src *Source) {
	log := s.log.With(slog.String("path", src.Path))

	status := http.StatusOK
	br := entity.ByteRange{Start: 0, End: src.Size - 1}

	if header := r.Header.Get("Range"); header != "" {
		var err error

		br, err = ParseRange(header, src.Size)
		if err != nil {
			reason := rangeErrorMalformed
			if errors.Is(err, common.ErrUnsatisfiableRange) {
				reason = rangeErrorUnsatisfiable
			}

			log.Info("Bad range", slog.String("range", header), slog.Any("error", err))
			s.obs.RangeError(reason)

			w.Header().Set("Content-Range", fmt.Sprintf("bytes */%d", src.Size))
			http.Error(w, fmt.Sprintf("Range not satisfiable: %s", reason), http.StatusRequestedRangeNotSatisfiable)

			return
		}

		status = http.StatusPartialContent
	}

	writeHeader := func() {
		h := w.Header()
		h.Set("Content-Type", src.ContentType)
		h.Set("Accept-Ranges", "bytes")
		h.Set("Content-Length", strconv.FormatInt(max(br.Length(), 0), 10))
		if status == http.StatusPartialContent {
			h.Set("Content-Range", fmt.Sprintf("bytes %d-%d/%d", br.Start, br.End, src.Size))
		}

		w.WriteHeader(status)
	}

	if r.Method == http.MethodHead || br.Length() <= 0 {
		writeHeader()

		return
	}

	var (
		started bool
		written int64
		limiter = s.newLimiter()
	)

	defer func() {
		s.obs.StreamedBytes(src.ContentType, int(written))
	}()

	for chunk, err := range Chunks(s.fs, src.Path, br) {
		if err != nil {
			if !started {
				log.Error("Cannot open file", slog.Any("error", err))
				http.Error(w, "File not found", http.StatusNotFound)

				return
			}

			log.Error("Stream interrupted", slog.Int64("written", written), slog.Any("error", err))

			return
		}

		if !started {
			writeHeader()
			started = true
		}

		if limiter != nil {
			if err := limiter.WaitN(r.Context(), len(chunk)); err != nil {
				log.Debug("Request canceled", slog.Int64("written", written), slog.Any("error", err))

				return
			}
		}

		n, err := w.Write(chunk)
		written += int64(n)
		if err != nil {
			log.Debug("Client gone", slog.Int64("written", written), slog.Any("error", err))

			return
		}

		if err := r.Context().Err(); err != nil {
			log.Debug("Request canceled", slog.Int64("written", written), slog.Any("error", err))

			return
		}
	}
}

// Chunks returns a lazy sequence of the bytes [br.Start, br.End] of the file.
// The file is opened when iteration starts and closed when it ends, fails or
// the consumer stops early. The yielded slice is reused between iterations.
func Chunks(fs afero.Fs, path string, br entity.ByteRange) iter.Seq2[[]byte, error] {
	return func(yield func([]byte, error) bool) {
		f, err := fs.Open(path)
		if err != nil {
			yield(nil, fmt.Errorf("cannot open %s: %w", path, err))

			return
		}
		defer f.Close()

		if _, err := f.Seek(br.Start, io.SeekStart); err != nil {
			yield(nil, fmt.Errorf("cannot seek %s to %d: %w", path, br.Start, err))

			return
		}

		if br.Length() <= 0 {
			return
		}

		buf := make([]byte, min(int64(bufSize), br.Length()))
		remaining := br.Length()

		for remaining > 0 {
			n, err := io.ReadFull(f, buf[:min(int64(len(buf)), remaining)])
			if n > 0 {
				remaining -= int64(n)
				if !yield(buf[:n], nil) {
					return
				}
			}

			if err != nil {
				if errors.Is(err, io.EOF) {
					err = io.ErrUnexpectedEOF
				}

				yield(nil, fmt.Errorf("cannot read %s: %w", path, err))

				return
			}
		}
	}
}
