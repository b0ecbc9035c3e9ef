package mdadapter

import (
	"fmt"
	"html"

	"github.com/jgivc/philportal/internal/entity"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/renderer"
	"github.com/yuin/goldmark/util"
)

type MediaDirectiveRenderer struct{}

func NewMediaDirectiveRenderer() renderer.NodeRenderer {
	return &MediaDirectiveRenderer{}
}

func (r *MediaDirectiveRenderer) RegisterFuncs(reg renderer.NodeRendererFuncRegisterer) {
	reg.Register(KindMediaDirective, r.renderMediaDirective)
}

func (r *MediaDirectiveRenderer) renderMediaDirective(w util.BufWriter, source []byte, n ast.Node, entering bool) (ast.WalkStatus, error) {
	if !entering {
		return ast.WalkContinue, nil
	}

	node, ok := n.(*MediaDirective)
	if !ok {
		return ast.WalkStop, fmt.Errorf("unexpected node %T, expected *MediaDirective", n)
	}

	caption := node.Caption

	if node.Record == nil {
		if caption == "" {
			caption = node.Slug
		}

		fmt.Fprintf(w, `<span class="missing">%s</span>`, html.EscapeString(caption))

		return ast.WalkContinue, nil
	}

	if caption == "" {
		caption = node.Record.Title
	}

	href := html.EscapeString(node.Record.Href)
	caption = html.EscapeString(caption)

	switch node.MediaKind {
	case entity.KindVideos:
		fmt.Fprintf(w, `<figure class="video"><video controls preload="metadata" src="%s"></video><figcaption>%s</figcaption></figure>`, href, caption)
	default:
		fmt.Fprintf(w, `<a class="presentation" href="%s">%s</a>`, href, caption)
	}

	return ast.WalkContinue, nil
}
