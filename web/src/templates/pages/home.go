package pages

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	cmp "maragu.dev/gomponents"
	g "maragu.dev/gomponents/html"
)

// LogoutPath ends the session.
const LogoutPath = "/auth/logout"

// HomeData is the view model of the signed-in landing page.
type HomeData struct {
	DisplayName string
	Email       string
}

// Home renders the landing page of a signed-in user.
func Home(d HomeData) cmp.Node {
	return g.Div(
		g.Class("mx-auto max-w-2xl rounded-xl bg-white p-8 shadow-xl"),
		g.H1(
			g.Class("text-3xl font-bold"),
			cmp.Textf("Welcome back, %s", GreetingName(d.DisplayName)),
		),
		g.P(g.Class("mt-2 text-slate-600"), cmp.Text("Signed in as "+d.Email)),
		g.Form(
			g.Method("post"),
			g.Action(LogoutPath),
			g.Class("mt-6"),
			g.Button(g.Type("submit"), g.Class("rounded-md border p-2"), cmp.Text("Logout")),
		),
	)
}

// GreetingName title-cases a name typed in lower case. Email addresses and
// names that already carry capitals are left alone.
func GreetingName(name string) string {
	name = strings.TrimSpace(name)
	if name == "" || strings.Contains(name, "@") || name != strings.ToLower(name) {
		return name
	}
	return cases.Title(language.English).String(name)
}
