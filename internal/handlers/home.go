package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/nfrund/propmgr/internal/middleware"
	"github.com/nfrund/propmgr/internal/rendering"
	"github.com/nfrund/propmgr/internal/view"
	"github.com/nfrund/propmgr/web/src/templates/layouts"
	"github.com/nfrund/propmgr/web/src/templates/pages"
)

// HomeHandler handles requests for the home page.
type HomeHandler struct {
	renderer rendering.Renderer
}

// NewHomeHandler creates a new HomeHandler.
func NewHomeHandler(renderer rendering.Renderer) *HomeHandler {
	return &HomeHandler{renderer: renderer}
}

// HomeGet renders the landing page of a signed-in user. It runs behind the
// Auth middleware.
func (h *HomeHandler) HomeGet(c echo.Context) error {
	user := middleware.CurrentUser(c)
	if user == nil {
		return middleware.Redirect(c, pages.SignInPath)
	}

	content := pages.Home(pages.HomeData{DisplayName: user.DisplayName(), Email: user.Email})
	return h.renderer.RenderPage(c, http.StatusOK, layouts.Base("Home", view.GetFlashData(c), content))
}
