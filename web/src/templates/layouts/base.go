package layouts

import (
	"github.com/nfrund/propmgr/internal/view"
	"github.com/nfrund/propmgr/web/src/templates/components"
	cmp "maragu.dev/gomponents"
	g "maragu.dev/gomponents/html"
)

const htmxSrc = "https://unpkg.com/htmx.org@2.0.4"

// Base wraps page content in the document shell with the flash messages on top.
func Base(title string, flashes view.FlashData, content cmp.Node, scripts ...cmp.Node) cmp.Node {
	return g.Doctype(
		g.HTML(
			g.Lang("en"),
			g.Head(
				g.Meta(g.Charset("utf-8")),
				g.Meta(g.Name("viewport"), g.Content("width=device-width, initial-scale=1")),
				g.TitleEl(cmp.Text(CalculateTitle(title))),
				g.Link(g.Rel("stylesheet"), g.Href("/static/css/app.css")),
				g.Script(g.Src(htmxSrc), g.Defer()),
				cmp.Group(scripts),
			),
			g.Body(
				g.Class("min-h-screen bg-slate-50 text-slate-900"),
				g.Main(
					g.Class("container mx-auto p-6"),
					components.Flashes(flashes),
					content,
				),
			),
		),
	)
}
