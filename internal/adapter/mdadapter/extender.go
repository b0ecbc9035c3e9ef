package mdadapter

import (
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer"
	"github.com/yuin/goldmark/util"
)

// MediaExtension - расширение goldmark для ссылок на видео и презентации.
// Резолвер передается через parser.Context по ключу MediaResolverKey.
type MediaExtension struct{}

func NewMediaExtension() goldmark.Extender {
	return &MediaExtension{}
}

func (e *MediaExtension) Extend(m goldmark.Markdown) {
	m.Parser().AddOptions(
		parser.WithInlineParsers(
			util.Prioritized(NewMediaDirectiveParser(), 199),
		),
	)
	m.Renderer().AddOptions(
		renderer.WithNodeRenderers(
			util.Prioritized(NewMediaDirectiveRenderer(), 199),
		),
	)
}
