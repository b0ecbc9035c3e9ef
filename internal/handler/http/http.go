package httphandler

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"mime"
	"net/http"
	"net/url"
	"path"
	"strconv"

	"github.com/jgivc/philportal/internal/common"
	"github.com/jgivc/philportal/internal/entity"
	"github.com/jgivc/philportal/internal/service/document"
	"github.com/jgivc/philportal/internal/stream"
)

const (
	contentTypeJSON = "application/json; charset=utf-8"
	contentTypeHTML = "text/html; charset=utf-8"

	dispositionInline     = "inline"
	dispositionAttachment = "attachment"
)

type MediaService interface {
	List(ctx context.Context, kind entity.Kind) ([]*entity.MediaRecord, error)
	Resolve(ctx context.Context, kind entity.Kind, slug string) (*entity.MediaRecord, error)
}

type Responder interface {
	Stat(path, contentType string) (*stream.Source, error)
	Respond(w http.ResponseWriter, r *http.Request, src *stream.Source)
}

type DocumentService interface {
	Syllabus(ctx context.Context) (*document.Document, error)
	Practice(ctx context.Context, n int) (*document.Document, error)
}

type PageService interface {
	GetLecture(ctx context.Context, lang string, n int) (*entity.Lecture, error)
}

type LangResolver interface {
	Lang(lang string) string
}

type message struct {
	Message string `json:"message"`
}

func NewMediaListHandler(srv MediaService, log *slog.Logger) http.HandlerFunc {
	log = log.With(slog.String("handler", "MediaListHandler"))

	return func(w http.ResponseWriter, r *http.Request) {
		kind, err := entity.ParseKind(r.PathValue("kind"))
		if err != nil {
			writeJSON(w, http.StatusNotFound, &message{Message: "Unknown media kind"}, log)

			return
		}

		records, err := srv.List(r.Context(), kind)
		if err != nil {
			log.Error("Cannot list media", slog.String("kind", kind.String()), slog.Any("error", err))
			records = []*entity.MediaRecord{}
		}

		writeJSON(w, http.StatusOK, records, log)
	}
}

func NewMediaDownloadHandler(staticPrefix string, srv MediaService, resp Responder, langs LangResolver, log *slog.Logger) http.HandlerFunc {
	log = log.With(slog.String("handler", "MediaDownloadHandler"))

	return func(w http.ResponseWriter, r *http.Request) {
		kind, err := entity.ParseKind(r.PathValue("kind"))
		if err != nil {
			writeJSON(w, http.StatusNotFound, &message{Message: "Unknown media kind"}, log)

			return
		}

		record, err := srv.Resolve(r.Context(), kind, r.PathValue("slug"))
		if err != nil {
			writeNotFound(w, err, "Media not found", log)

			return
		}

		lang := langs.Lang(r.URL.Query().Get("lang"))

		if kind == entity.KindVideos {
			target := path.Join(staticPrefix, kind.String()) + "/" + url.PathEscape(record.Filename) + "?lang=" + url.QueryEscape(lang)
			http.Redirect(w, r, target, http.StatusTemporaryRedirect)

			return
		}

		src, err := resp.Stat(record.Path, stream.ContentType(kind, record.Filename))
		if err != nil {
			log.Error("Cannot stat resolved file", slog.String("path", record.Path), slog.Any("error", err))
			writeJSON(w, http.StatusNotFound, &message{Message: "Media not found"}, log)

			return
		}

		setDisposition(w, dispositionAttachment, record.Filename)
		resp.Respond(w, r, src)
	}
}

func NewStreamHandler(srv MediaService, resp Responder, log *slog.Logger) http.HandlerFunc {
	log = log.With(slog.String("handler", "StreamHandler"))

	return func(w http.ResponseWriter, r *http.Request) {
		record, err := srv.Resolve(r.Context(), entity.KindVideos, r.PathValue("slug"))
		if err != nil {
			writeNotFound(w, err, "Video not found", log)

			return
		}

		src, err := resp.Stat(record.Path, stream.ContentType(entity.KindVideos, record.Filename))
		if err != nil {
			log.Error("Cannot stat resolved file", slog.String("path", record.Path), slog.Any("error", err))
			writeJSON(w, http.StatusNotFound, &message{Message: "Video not found"}, log)

			return
		}

		resp.Respond(w, r, src)
	}
}

func NewSyllabusHandler(srv DocumentService, resp Responder, log *slog.Logger) http.HandlerFunc {
	log = log.With(slog.String("handler", "SyllabusHandler"))

	return func(w http.ResponseWriter, r *http.Request) {
		doc, err := srv.Syllabus(r.Context())
		serveDocument(w, r, doc, err, resp, log)
	}
}

func NewPracticeHandler(srv DocumentService, resp Responder, log *slog.Logger) http.HandlerFunc {
	log = log.With(slog.String("handler", "PracticeHandler"))

	return func(w http.ResponseWriter, r *http.Request) {
		n, err := parseNumber(r.PathValue("n"))
		if err != nil {
			http.Error(w, "Bad request", http.StatusBadRequest)

			return
		}

		doc, err := srv.Practice(r.Context(), n)
		serveDocument(w, r, doc, err, resp, log)
	}
}

func NewLectureHandler(srv PageService, langs LangResolver, log *slog.Logger) http.HandlerFunc {
	log = log.With(slog.String("handler", "LectureHandler"))

	return func(w http.ResponseWriter, r *http.Request) {
		n, err := parseNumber(r.PathValue("n"))
		if err != nil {
			http.Error(w, "Bad request", http.StatusBadRequest)

			return
		}

		lecture, err := srv.GetLecture(r.Context(), langs.Lang(r.URL.Query().Get("lang")), n)
		if err != nil {
			switch {
			case errors.Is(err, common.ErrNotFound):
				http.Error(w, "Cannot find lecture", http.StatusNotFound)
			case errors.Is(err, common.ErrInvalidInput):
				http.Error(w, "Bad request", http.StatusBadRequest)
			default:
				http.Error(w, "Cannot get lecture", http.StatusInternalServerError)
			}

			return
		}

		etag := strconv.Quote(lecture.PageHash)
		w.Header().Set("ETag", etag)

		if r.Header.Get("If-None-Match") == etag {
			w.WriteHeader(http.StatusNotModified)

			return
		}

		w.Header().Set("Content-Type", contentTypeHTML)
		w.Write([]byte(lecture.PageContent))
	}
}

func NewHealthHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	}
}

func serveDocument(w http.ResponseWriter, r *http.Request, doc *document.Document, err error, resp Responder, log *slog.Logger) {
	if err != nil {
		switch {
		case errors.Is(err, common.ErrNotFound):
			http.Error(w, "Cannot find file", http.StatusNotFound)
		case errors.Is(err, common.ErrInvalidInput):
			http.Error(w, "Bad request", http.StatusBadRequest)
		default:
			log.Error("Cannot get document", slog.Any("error", err))
			http.Error(w, "Cannot find file", http.StatusNotFound)
		}

		return
	}

	setDisposition(w, dispositionInline, doc.Name)
	resp.Respond(w, r, &stream.Source{Path: doc.Path, Size: doc.Size, ContentType: stream.MimeTypePDF})
}

// parseNumber accepts positive decimal integers only.
func parseNumber(s string) (int, error) {
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("%w: %w", common.ErrInvalidInput, err)
	}

	if n < 1 || strconv.Itoa(n) != s {
		return 0, fmt.Errorf("%w: %q is not a positive integer", common.ErrInvalidInput, s)
	}

	return n, nil
}

// setDisposition sets Content-Disposition; non-ASCII names are sent as
// RFC 2231 filename*=utf-8''<percent-encoded>.
func setDisposition(w http.ResponseWriter, disposition, filename string) {
	w.Header().Set("Content-Disposition", mime.FormatMediaType(disposition, map[string]string{"filename": filename}))
}

func writeNotFound(w http.ResponseWriter, err error, msg string, log *slog.Logger) {
	if !errors.Is(err, common.ErrNotFound) {
		log.Error("Cannot resolve media", slog.Any("error", err))
	}

	writeJSON(w, http.StatusNotFound, &message{Message: msg}, log)
}

func writeJSON(w http.ResponseWriter, status int, v any, log *slog.Logger) {
	w.Header().Set("Content-Type", contentTypeJSON)
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error("Cannot encode response", slog.Any("error", err))
	}
}
