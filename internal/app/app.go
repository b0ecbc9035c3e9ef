package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path"
	"time"

	"github.com/jgivc/philportal/internal/adapter/fsadapter"
	"github.com/jgivc/philportal/internal/config"
	"github.com/jgivc/philportal/internal/entity"
	httphandler "github.com/jgivc/philportal/internal/handler/http"
	"github.com/jgivc/philportal/internal/metrics"
	"github.com/jgivc/philportal/internal/service/document"
	"github.com/jgivc/philportal/internal/service/media"
	"github.com/jgivc/philportal/internal/service/page"
	"github.com/jgivc/philportal/internal/storage/library"
	"github.com/jgivc/philportal/internal/stream"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/spf13/afero"
)

const (
	indexTimeout    = 5 * time.Second
	shutdownTimeout = 5 * time.Second
)

type MediaService interface {
	List(ctx context.Context, kind entity.Kind) ([]*entity.MediaRecord, error)
}

type App struct {
	cfgPath string
	cfg     *config.Config
	srv     *http.Server
	media   MediaService
	log     *slog.Logger
}

func New(cfgPath string) *App {
	return &App{
		cfgPath: cfgPath,
	}
}

func (a *App) Start() {
	a.cfg = config.MustLoad(a.cfgPath)

	lo := &slog.HandlerOptions{}
	switch a.cfg.LogLevel {
	case config.LogLevelInfo:
		lo.Level = slog.LevelInfo
	case config.LogLevelWarn:
		lo.Level = slog.LevelWarn
	case config.LogLevelError:
		lo.Level = slog.LevelError
	case config.LogLevelDebug:
		lo.Level = slog.LevelDebug
	default:
		panic("unknown log level")
	}
	log := slog.New(slog.NewTextHandler(os.Stderr, lo))
	a.log = log

	handler, err := a.Handler(afero.NewOsFs(), metrics.New())
	if err != nil {
		panic(err)
	}

	a.srv = &http.Server{
		Addr:              a.cfg.Listen,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Info("Start listen", slog.String("addr", a.cfg.Listen), slog.String("url", a.cfg.URL))

		if err := a.srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("Could not serve", slog.String("listen_addr", a.cfg.Listen), slog.Any("error", err))
			os.Exit(2)
		}
	}()
}

// Handler wires services on top of fs and returns the application router.
// Start must have set cfg and log.
func (a *App) Handler(fs afero.Fs, m *metrics.Metrics) (http.Handler, error) {
	log := a.log
	cc := a.cfg.Content

	store := library.NewLibraryStorageWithFS(fs, map[entity.Kind]string{
		entity.KindVideos:        cc.VideosDir,
		entity.KindPresentations: cc.PresentationsDir,
	}, log)
	mediaSrv := media.NewMediaService(store, log)
	a.media = mediaSrv

	resp := stream.NewResponder(fs, m, log).WithRateLimit(a.cfg.HTTP.StreamRateLimit)
	docSrv := document.NewDocumentService(fs, cc.SyllabusFile, cc.PracticeDir, cc.PracticePattern, log)

	lectures, err := fsadapter.NewFSAdapterWithFS(fs, cc.LecturesDir, mediaSrv, log)
	if err != nil {
		return nil, fmt.Errorf("cannot create lecture adapter: %w", err)
	}
	pageSrv := page.NewPageService(lectures, log)

	mux := http.NewServeMux()
	handle := func(pattern, name string, h http.Handler) {
		mux.Handle(pattern, httphandler.Instrument(name, h, m, log))
	}
	compress := func(h http.Handler) http.Handler {
		if !a.cfg.HTTP.Compress {
			return h
		}

		return httphandler.Compress(h, log)
	}

	handle("GET /media/{kind}", "media_list", compress(httphandler.NewMediaListHandler(mediaSrv, log)))
	handle("GET /media/{kind}/download/{slug}", "media_download", httphandler.NewMediaDownloadHandler(cc.StaticPrefix, mediaSrv, resp, a.cfg, log))
	handle("GET /media/videos/stream/{slug}", "media_stream", httphandler.NewStreamHandler(mediaSrv, resp, log))
	handle("GET /syllabus", "syllabus", httphandler.NewSyllabusHandler(docSrv, resp, log))
	handle("GET /practice/{n}", "practice", httphandler.NewPracticeHandler(docSrv, resp, log))
	handle("GET /lectures/{n}", "lecture", compress(httphandler.NewLectureHandler(pageSrv, a.cfg, log)))

	httpFs := afero.NewHttpFs(fs)
	for kind, dir := range map[entity.Kind]string{
		entity.KindVideos:        cc.VideosDir,
		entity.KindPresentations: cc.PresentationsDir,
	} {
		prefix := path.Join(cc.StaticPrefix, kind.String()) + "/"
		handle("GET "+prefix, "static_"+kind.String(), http.StripPrefix(prefix, http.FileServer(httpFs.Dir(dir))))
	}

	mux.Handle("GET /healthz", httphandler.NewHealthHandler())

	if a.cfg.Metrics.Enabled {
		mux.Handle("GET "+a.cfg.Metrics.Path, m.Handler())
	}

	return mux, nil
}

// Index prints the current media library, the operator view of what the portal serves.
func (a *App) Index(w io.Writer) {
	ctx, cancel := context.WithTimeout(context.Background(), indexTimeout)
	defer cancel()

	for _, kind := range []entity.Kind{entity.KindVideos, entity.KindPresentations} {
		records, err := a.media.List(ctx, kind)
		if err != nil {
			fmt.Fprintf(w, "Cannot list %s: %s\n", kind, err)

			continue
		}

		tw := table.NewWriter()
		tw.SetStyle(table.StyleRounded)
		tw.SetTitle(fmt.Sprintf("%s: %d", kind, len(records)))
		tw.AppendHeader(table.Row{"#", "Title", "Slug", "URL"})
		for i, r := range records {
			tw.AppendRow(table.Row{i + 1, r.Title, r.Slug, a.cfg.URL + r.Href})
		}
		tw.SetColumnConfigs([]table.ColumnConfig{
			{Number: 1, Align: text.AlignRight, AlignHeader: text.AlignLeft},
		})

		fmt.Fprintln(w, tw.Render())
	}
}

func (a *App) Stop() {
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := a.srv.Shutdown(ctx); err != nil {
		a.log.Error("Cannot shutdown server", slog.Any("error", err))
	}
}
