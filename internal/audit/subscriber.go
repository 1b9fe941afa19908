// Package audit reacts to established sessions: it keeps an audit trail of
// sign-ins and welcomes new accounts by email.
package audit

import (
	"context"
	"log/slog"

	"github.com/nfrund/propmgr/internal/domain"
	"github.com/nfrund/propmgr/internal/pubsub"
	"github.com/nfrund/propmgr/internal/rendering"
	"github.com/nfrund/propmgr/web/src/templates/components"
)

const welcomeSubject = "Welcome to Property Manager"

// Subscriber listens for SessionEstablished events.
type Subscriber struct {
	subscriber pubsub.Subscriber
	events     domain.AuthEventRepository
	emailer    domain.EmailSender
	renderer   rendering.Renderer
	baseURL    string
	logger     *slog.Logger
}

// NewSubscriber creates a Subscriber. emailer may be nil to skip welcome
// emails.
func NewSubscriber(sub pubsub.Subscriber, events domain.AuthEventRepository, emailer domain.EmailSender, renderer rendering.Renderer, baseURL string) *Subscriber {
	return &Subscriber{
		subscriber: sub,
		events:     events,
		emailer:    emailer,
		renderer:   renderer,
		baseURL:    baseURL,
		logger:     slog.Default().With("component", "audit"),
	}
}

// Start subscribes in the background until ctx is canceled.
func (s *Subscriber) Start(ctx context.Context) error {
	s.logger.Info("Starting auth audit subscriber")
	return pubsub.Subscribe(ctx, s.subscriber, pubsub.SessionEstablishedEvent, s.handle)
}

func (s *Subscriber) handle(ctx context.Context, ev pubsub.SessionEstablished) error {
	err := s.events.RecordAuthEvent(ctx, domain.AuthEvent{
		UserID:    ev.UserID,
		Email:     ev.Email,
		Method:    ev.Method,
		IP:        ev.IP,
		CreatedAt: ev.At,
	})
	if err != nil {
		s.logger.Error("Failed to record auth event", "user_id", ev.UserID, "error", err)
	}

	if ev.NewAccount && s.emailer != nil {
		s.welcome(ctx, ev)
	}
	return err
}

func (s *Subscriber) welcome(ctx context.Context, ev pubsub.SessionEstablished) {
	name := ev.Name
	if name == "" {
		name = ev.Email
	}
	body, err := s.renderer.RenderComponent(ctx, components.WelcomeEmail(name, s.baseURL+"/"))
	if err != nil {
		s.logger.Error("Failed to render welcome email", "error", err)
		return
	}
	if err := s.emailer.Send(ev.Email, welcomeSubject, string(body)); err != nil {
		s.logger.Error("Failed to send welcome email", "user_id", ev.UserID, "error", err)
	}
}
