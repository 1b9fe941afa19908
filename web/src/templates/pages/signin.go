package pages

import (
	"github.com/nfrund/propmgr/internal/authscreen"
	"github.com/nfrund/propmgr/web/src/templates/components"
	cmp "maragu.dev/gomponents"
	hx "maragu.dev/gomponents-htmx"
	g "maragu.dev/gomponents/html"
)

// Sign-in routes referenced by the form.
const (
	SignInPath     = "/auth/sign-in"
	SignInModePath = "/auth/sign-in/mode"
	GoogleAuthPath = "/auth/google"
	SessionWSPath  = "/auth/session/ws"
)

// SignInData is the view model of the sign-in screen. It never carries the
// password: the password input is rendered empty and left alone by mode
// swaps.
type SignInData struct {
	Mode          authscreen.Mode
	Name          string
	Email         string
	Alerts        []components.Alert
	GoogleEnabled bool
}

// SignIn renders the sign-in card.
func SignIn(d SignInData) cmp.Node {
	c := authscreen.CopyFor(d.Mode)
	return g.Div(
		g.Class("mx-auto max-w-md rounded-xl bg-white p-8 shadow-xl"),
		modeHead(d, false),
		g.Div(g.ID(components.AlertsRegionID), components.Alerts(d.Alerts)),
		g.Form(
			g.ID("auth-form"),
			g.Method("post"),
			g.Action(SignInPath),
			hx.Post(SignInPath),
			hx.Target("#"+components.AlertsRegionID),
			hx.Swap("innerHTML"),
			g.Class("space-y-4"),
			modeInput(d, false),
			nameField(d, false),
			g.Input(
				g.Type("email"),
				g.Name("email"),
				g.ID("auth-email"),
				g.Value(d.Email),
				g.Placeholder(c.EmailPlaceholder),
				cmp.Attr("autocomplete", "email"),
				g.Class("w-full rounded-md border p-2"),
			),
			g.Input(
				g.Type("password"),
				g.Name("password"),
				g.ID("auth-password"),
				g.Placeholder(c.PasswordPlaceholder),
				cmp.Attr("autocomplete", "current-password"),
				g.Class("w-full rounded-md border p-2"),
			),
			modeActions(d, false),
		),
		cmp.If(d.GoogleEnabled,
			g.A(
				g.Href(GoogleAuthPath),
				g.ID("auth-google"),
				g.Class("mt-4 block w-full rounded-md border p-2 text-center"),
				cmp.Text(c.GoogleLabel),
			),
		),
	)
}

// ModeSwap renders the regions that depend on the mode as out-of-band
// swaps. Email and password inputs are not part of it.
func ModeSwap(d SignInData) cmp.Node {
	return cmp.Group([]cmp.Node{
		modeHead(d, true),
		modeInput(d, true),
		nameField(d, true),
		modeActions(d, true),
	})
}

// SignInScripts returns the script that listens for the session becoming
// authenticated in another window.
func SignInScripts() cmp.Node {
	return g.Script(g.Src("/static/js/session.js"), g.Defer(), cmp.Attr("data-ws", SessionWSPath))
}

func oob(on bool) cmp.Node {
	return cmp.If(on, hx.SwapOOB("true"))
}

func modeHead(d SignInData, swap bool) cmp.Node {
	c := authscreen.CopyFor(d.Mode)
	return g.Div(
		g.ID("auth-mode-head"),
		oob(swap),
		g.H1(
			g.Class("text-3xl font-bold"),
			cmp.Text(c.Title+" "),
			g.Span(g.Class("text-indigo-700"), cmp.Text(c.Brand)),
		),
		g.P(g.Class("mb-6 text-slate-600"), cmp.Text(c.Subtitle)),
	)
}

func modeInput(d SignInData, swap bool) cmp.Node {
	return g.Input(
		g.Type("hidden"),
		g.ID("auth-mode"),
		g.Name("mode"),
		g.Value(d.Mode.String()),
		oob(swap),
	)
}

// nameField keeps the typed name as a hidden value in login mode so that
// toggling back restores it.
func nameField(d SignInData, swap bool) cmp.Node {
	c := authscreen.CopyFor(d.Mode)
	if !c.ShowName {
		return g.Div(
			g.ID("auth-name-field"),
			oob(swap),
			g.Input(g.Type("hidden"), g.Name("name"), g.Value(d.Name)),
		)
	}
	return g.Div(
		g.ID("auth-name-field"),
		oob(swap),
		g.Input(
			g.Type("text"),
			g.Name("name"),
			g.ID("auth-name"),
			g.Value(d.Name),
			g.Placeholder(c.NamePlaceholder),
			cmp.Attr("autocomplete", "name"),
			g.Class("w-full rounded-md border p-2"),
		),
	)
}

func modeActions(d SignInData, swap bool) cmp.Node {
	c := authscreen.CopyFor(d.Mode)
	return g.Div(
		g.ID("auth-mode-actions"),
		oob(swap),
		g.Class("space-y-2"),
		g.Button(
			g.Type("submit"),
			g.ID("auth-submit"),
			g.Class("w-full rounded-md bg-indigo-700 p-2 text-white"),
			cmp.Text(c.SubmitLabel),
		),
		g.Button(
			g.Type("submit"),
			g.ID("auth-toggle"),
			cmp.Attr("formaction", SignInModePath),
			cmp.Attr("formnovalidate"),
			hx.Post(SignInModePath),
			hx.Include("#auth-form"),
			hx.Swap("none"),
			g.Class("w-full text-sm text-indigo-700"),
			cmp.Text(c.ToggleLabel),
		),
	)
}
