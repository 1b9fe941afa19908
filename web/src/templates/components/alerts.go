package components

import (
	"github.com/nfrund/propmgr/internal/view"
	cmp "maragu.dev/gomponents"
	g "maragu.dev/gomponents/html"
)

// Alert is a titled error shown on the auth screen.
type Alert struct {
	Title   string
	Message string
}

// AlertsRegionID is the element the auth form swaps alerts into.
const AlertsRegionID = "auth-alerts"

// Alerts renders the alert list. It renders nothing but the empty region
// when there are no alerts, so it can also clear earlier ones.
func Alerts(alerts []Alert) cmp.Node {
	return cmp.Map(alerts, func(a Alert) cmp.Node {
		return g.Div(
			g.Class("alert alert-error rounded-md border border-red-300 bg-red-50 p-3 mb-3"),
			cmp.Attr("role", "alert"),
			g.Strong(g.Class("block font-semibold"), cmp.Text(a.Title)),
			g.Span(cmp.Text(a.Message)),
		)
	})
}

// Flashes renders one-shot success and error messages.
func Flashes(f view.FlashData) cmp.Node {
	if f.Empty() {
		return nil
	}
	return g.Div(
		g.ID("flashes"),
		cmp.Map(f.Success, func(msg string) cmp.Node {
			return g.Div(g.Class("flash flash-success rounded-md bg-green-50 p-3 mb-3"), cmp.Text(msg))
		}),
		cmp.Map(f.Error, func(msg string) cmp.Node {
			return g.Div(g.Class("flash flash-error rounded-md bg-red-50 p-3 mb-3"), cmp.Text(msg))
		}),
	)
}
