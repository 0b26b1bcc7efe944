package events

import (
	"context"

	"github.com/abhisheknirogi/Pharmacy-ai/internal/auth/repository"
	"github.com/abhisheknirogi/Pharmacy-ai/pkg/logger"
	"github.com/abhisheknirogi/Pharmacy-ai/pkg/messaging"
)

// Publisher is the transport registration events are sent through
type Publisher interface {
	Publish(ctx context.Context, eventType string, data interface{}) error
}

// UserEventPublisher publishes auth-related events.
// A nil transport disables publishing without touching call sites.
type UserEventPublisher struct {
	publisher Publisher
	logger    *logger.Logger
}

// NewUserEventPublisher creates a new user event publisher
func NewUserEventPublisher(pub Publisher, log *logger.Logger) *UserEventPublisher {
	return &UserEventPublisher{
		publisher: pub,
		logger:    log,
	}
}

// PublishUserRegistered publishes a user registered event
func (p *UserEventPublisher) PublishUserRegistered(ctx context.Context, user *repository.User) {
	if p.publisher == nil {
		return
	}

	data := messaging.UserRegisteredEvent{
		UserID:   user.ID,
		Email:    user.Email,
		FullName: user.FullName,
		Role:     user.Role,
	}

	if err := p.publisher.Publish(ctx, messaging.EventUserRegistered, data); err != nil {
		p.logger.Error().Err(err).Str("user_id", user.ID).Msg("failed to publish user registered event")
	}
}
