package components

import (
	cmp "maragu.dev/gomponents"
	g "maragu.dev/gomponents/html"
)

// WelcomeEmail is the body of the email sent after registration.
func WelcomeEmail(name, appURL string) cmp.Node {
	return g.Div(
		g.P(cmp.Textf("Hi %s,", name)),
		g.P(cmp.Text("Your Property Manager account is ready.")),
		g.P(g.A(g.Href(appURL), cmp.Text("Open Property Manager"))),
	)
}
