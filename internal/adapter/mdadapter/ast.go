package mdadapter

import (
	"github.com/jgivc/philportal/internal/entity"
	"github.com/yuin/goldmark/ast"
)

var KindMediaDirective = ast.NewNodeKind("MediaDirective")

// MediaDirective is an inline reference to a video or presentation by slug.
// Record is nil when the slug could not be resolved.
type MediaDirective struct {
	ast.BaseInline
	MediaKind entity.Kind
	Slug      string
	Caption   string
	Record    *entity.MediaRecord
}

func (n *MediaDirective) Kind() ast.NodeKind {
	return KindMediaDirective
}

func (n *MediaDirective) Dump(source []byte, level int) {
	ast.DumpHelper(n, source, level, map[string]string{
		"MediaKind": n.MediaKind.String(),
		"Slug":      n.Slug,
		"Caption":   n.Caption,
	}, nil)
}
