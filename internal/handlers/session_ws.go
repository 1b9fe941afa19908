package handlers

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"
	"github.com/labstack/echo/v4"
	"github.com/nfrund/propmgr/internal/authsession"
	"github.com/nfrund/propmgr/internal/middleware"
	"github.com/nfrund/propmgr/internal/pubsub"
)

// SessionNotification is pushed to a waiting sign-in screen.
type SessionNotification struct {
	Redirect string `json:"redirect"`
}

// SessionSocketHandler lets a sign-in screen learn that its browser session
// was established elsewhere, typically by an OAuth callback in another tab.
type SessionSocketHandler struct {
	subscriber pubsub.Subscriber
	// maxWait bounds how long a socket stays open.
	maxWait time.Duration
}

// NewSessionSocketHandler creates a SessionSocketHandler.
func NewSessionSocketHandler(subscriber pubsub.Subscriber) *SessionSocketHandler {
	return &SessionSocketHandler{subscriber: subscriber, maxWait: 15 * time.Minute}
}

// Serve handles GET /auth/session/ws.
func (h *SessionSocketHandler) Serve(c echo.Context) error {
	logger := middleware.FromContext(c.Request().Context())

	browserID, err := authsession.BrowserID(c)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "no browser session").SetInternal(err)
	}

	conn, err := websocket.Accept(c.Response(), c.Request(), nil)
	if err != nil {
		logger.Error("Failed to accept websocket", "error", err)
		return nil
	}
	defer conn.CloseNow()

	// The request context is not reliable after hijacking.
	ctx, cancel := context.WithTimeout(context.Background(), h.maxWait)
	defer cancel()
	ctx = conn.CloseRead(ctx)

	established := make(chan struct{}, 1)
	err = pubsub.Subscribe(ctx, h.subscriber, pubsub.SessionEstablishedEvent,
		func(_ context.Context, ev pubsub.SessionEstablished) error {
			if ev.BrowserID != browserID {
				return nil
			}
			select {
			case established <- struct{}{}:
			default:
			}
			return nil
		})
	if err != nil {
		logger.Error("Failed to subscribe to session events", "error", err)
		conn.Close(websocket.StatusInternalError, "subscription failed")
		return nil
	}

	select {
	case <-established:
		if err := wsjson.Write(ctx, conn, SessionNotification{Redirect: "/"}); err != nil {
			logger.Warn("Failed to notify sign-in screen", "error", err)
			return nil
		}
		conn.Close(websocket.StatusNormalClosure, "session established")
	case <-ctx.Done():
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			conn.Close(websocket.StatusNormalClosure, "timeout")
		}
	}
	return nil
}
