package mdadapter

import (
	"regexp"
	"strings"

	"github.com/jgivc/philportal/internal/entity"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/text"
)

var (
	MediaResolverKey = parser.NewContextKey()

	startSeq = []byte{'[', '['}

	directiveRegexp = regexp.MustCompile(`^\[\[\s*(video|presentation)\s*:\s*([a-z0-9-]+)\s*(?:\|([^\]]*))?\]\]`)

	directiveKinds = map[string]entity.Kind{
		"video":        entity.KindVideos,
		"presentation": entity.KindPresentations,
	}
)

type MediaResolver interface {
	Resolve(kind entity.Kind, slug string) (*entity.MediaRecord, error)
}

/*
 * [[video:lekciya-1]]
 * [[presentation:lekciya-1|Slides]]
 */
type MediaDirectiveParser struct{}

func NewMediaDirectiveParser() parser.InlineParser {
	return &MediaDirectiveParser{}
}

func (s *MediaDirectiveParser) Trigger() []byte {
	return startSeq
}

func (s *MediaDirectiveParser) Parse(parent ast.Node, block text.Reader, pc parser.Context) ast.Node {
	line, _ := block.PeekLine()

	m := directiveRegexp.FindSubmatch(line)
	if m == nil {
		return nil
	}

	block.Advance(len(m[0]))

	node := &MediaDirective{
		MediaKind: directiveKinds[string(m[1])],
		Slug:      string(m[2]),
		Caption:   strings.TrimSpace(string(m[3])),
	}

	if r, ok := pc.Get(MediaResolverKey).(MediaResolver); ok {
		if record, err := r.Resolve(node.MediaKind, node.Slug); err == nil {
			node.Record = record
		}
	}

	return node
}
