package fsadapter

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	_ "embed"

	"github.com/jgivc/philportal/internal/adapter/mdadapter"
	"github.com/jgivc/philportal/internal/common"
	"github.com/jgivc/philportal/internal/entity"
	"github.com/jgivc/philportal/internal/util"
	"github.com/spf13/afero"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer/html"
	"go.abhg.dev/goldmark/frontmatter"
)

const (
	lectureExt = ".md"
)

var (
	//go:embed templates/lecture.html
	defaultLectureContent string

	defaultTitles = map[string]string{
		"ru": "Лекция %d",
		"uz": "Ma'ruza %d",
	}
)

type PageContext struct {
	*entity.Lecture
	ContentHTML template.HTML
}

type Frontmatter struct {
	Title   string `yaml:"title"`
	Enabled *bool  `yaml:"enabled"`
	Author  string `yaml:"author"`
}

type MediaService interface {
	Resolve(ctx context.Context, kind entity.Kind, slug string) (*entity.MediaRecord, error)
}

// mediaResolver binds the request context to MediaService for the markdown parser.
type mediaResolver struct {
	ctx context.Context
	srv MediaService
}

func (r *mediaResolver) Resolve(kind entity.Kind, slug string) (*entity.MediaRecord, error) {
	return r.srv.Resolve(r.ctx, kind, slug)
}

type fsAdapter struct {
	fs    afero.Fs
	dir   string
	media MediaService
	md    goldmark.Markdown
	tmpl  *template.Template

	log *slog.Logger
}

func NewFSAdapter(dir string, media MediaService, log *slog.Logger) (*fsAdapter, error) {
	return NewFSAdapterWithFS(afero.NewOsFs(), dir, media, log)
}

func NewFSAdapterWithFS(fs afero.Fs, dir string, media MediaService, log *slog.Logger) (*fsAdapter, error) {
	tmpl, err := template.New("lecture").Parse(defaultLectureContent)
	if err != nil {
		return nil, fmt.Errorf("cannot parse lecture template: %w", err)
	}

	md := goldmark.New(
		goldmark.WithExtensions(
			extension.GFM,
			&frontmatter.Extender{},
			mdadapter.NewMediaExtension(),
		),
		goldmark.WithRendererOptions(
			html.WithHardWraps(),
			html.WithXHTML(),
		),
	)

	return &fsAdapter{
		fs:    fs,
		dir:   dir,
		media: media,
		md:    md,
		tmpl:  tmpl,
		log:   log.With(slog.String("item", "LectureAdapter")),
	}, nil
}

/*
ToLecture renders <dir>/<lang>/<n>.md into a full HTML page.
The markdown may start with a frontmatter block:

	---
	title: Введение
	author: ...
	enabled: true
	---
*/
func (a *fsAdapter) ToLecture(ctx context.Context, lang string, n int) (*entity.Lecture, error) {
	if n < 1 || lang == "" || strings.Contains(lang, "..") || strings.ContainsRune(lang, filepath.Separator) {
		return nil, fmt.Errorf("%w: lecture %s/%d", common.ErrInvalidInput, lang, n)
	}

	path := filepath.Join(a.dir, lang, strconv.Itoa(n)+lectureExt)

	data, err := afero.ReadFile(a.fs, path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("lecture %s: %w", path, common.ErrNotFound)
		}

		return nil, fmt.Errorf("cannot read lecture %s: %w", path, err)
	}

	a.log.Debug("Render lecture", slog.String("path", path))

	pc := parser.NewContext()
	pc.Set(mdadapter.MediaResolverKey, &mediaResolver{ctx: ctx, srv: a.media})

	var buf bytes.Buffer
	if err := a.md.Convert(data, &buf, parser.WithContext(pc)); err != nil {
		return nil, fmt.Errorf("cannot convert markdown %s: %w", path, err)
	}

	lecture := &entity.Lecture{
		Number:     n,
		Lang:       lang,
		Title:      defaultTitle(lang, n),
		Enabled:    true,
		SourcePath: path,
	}

	if fm := frontmatter.Get(pc); fm != nil {
		var meta Frontmatter
		if err := fm.Decode(&meta); err != nil {
			return nil, fmt.Errorf("cannot decode frontmatter %s: %w", path, err)
		}

		if meta.Title != "" {
			lecture.Title = meta.Title
		}

		if meta.Enabled != nil {
			lecture.Enabled = *meta.Enabled
		}

		lecture.Author = meta.Author
	}

	var page bytes.Buffer
	if err := a.tmpl.Execute(&page, &PageContext{Lecture: lecture, ContentHTML: template.HTML(buf.String())}); err != nil {
		return nil, fmt.Errorf("cannot build page: %w", err)
	}

	lecture.PageContent = page.String()
	lecture.PageHash = util.GetIDFromString(&lecture.PageContent)

	return lecture, nil
}

func defaultTitle(lang string, n int) string {
	if f, ok := defaultTitles[lang]; ok {
		return fmt.Sprintf(f, n)
	}

	return strconv.Itoa(n)
}
