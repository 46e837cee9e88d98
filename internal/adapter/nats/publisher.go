package nats

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/Abdurahmanit/GroupProject/content-service/internal/config"
	"github.com/Abdurahmanit/GroupProject/content-service/internal/entity"
	"github.com/Abdurahmanit/GroupProject/content-service/internal/port/events"
	"github.com/nats-io/nats.go"
	"go.uber.org/zap"
)

const (
	ContentCreatedSubject   = "content.created"
	FeaturesUpdatedSubject  = "content.features.updated"
	FeaturesMigratedSubject = "content.features.migrated"
	BookmarkAddedSubject    = "bookmark.added"
	BookmarkRemovedSubject  = "bookmark.removed"
	UserRegisteredSubject   = "user.registered"
)

// Conn is the part of *nats.Conn the publisher needs.
type Conn interface {
	Publish(subject string, data []byte) error
}

type Publisher struct {
	nc     Conn
	raw    *nats.Conn
	logger *zap.Logger
}

var _ events.Publisher = (*Publisher)(nil)

func NewNATSPublisher(cfg *config.NATSConfig, logger *zap.Logger) (*Publisher, error) {
	opts := []nats.Option{
		nats.Timeout(cfg.ConnectTimeout),
		nats.ErrorHandler(func(nc *nats.Conn, sub *nats.Subscription, err error) {
			subject := ""
			if sub != nil {
				subject = sub.Subject
			}
			logger.Error("NATS error", zap.String("subject", subject), zap.Error(err))
		}),
		nats.ClosedHandler(func(nc *nats.Conn) {
			logger.Info("NATS connection closed")
		}),
		nats.ReconnectHandler(func(nc *nats.Conn) {
			logger.Info("NATS reconnected", zap.String("url", nc.ConnectedUrl()))
		}),
		nats.DisconnectErrHandler(func(nc *nats.Conn, err error) {
			logger.Warn("NATS disconnected", zap.Error(err))
		}),
	}

	nc, err := nats.Connect(cfg.URL, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to NATS: %w", err)
	}
	logger.Info("Successfully connected to NATS", zap.String("url", nc.ConnectedUrl()))

	return &Publisher{nc: nc, raw: nc, logger: logger}, nil
}

// NewPublisherWithConn wraps an existing connection.
func NewPublisherWithConn(conn Conn, logger *zap.Logger) *Publisher {
	p := &Publisher{nc: conn, logger: logger}
	if raw, ok := conn.(*nats.Conn); ok {
		p.raw = raw
	}
	return p
}

func (p *Publisher) publish(subject string, payload interface{}, fields ...zap.Field) error {
	data, err := json.Marshal(payload)
	if err != nil {
		p.logger.Error("Failed to marshal NATS payload", append(fields, zap.String("subject", subject), zap.Error(err))...)
		return fmt.Errorf("failed to marshal payload for %s: %w", subject, err)
	}

	if err := p.nc.Publish(subject, data); err != nil {
		p.logger.Error("Failed to publish NATS message", append(fields, zap.String("subject", subject), zap.Error(err))...)
		return fmt.Errorf("failed to publish NATS message for %s: %w", subject, err)
	}
	p.logger.Debug("Published NATS message", append(fields, zap.String("subject", subject))...)
	return nil
}

func (p *Publisher) PublishContentCreated(ctx context.Context, evt events.ContentCreated) error {
	return p.publish(ContentCreatedSubject, evt, zap.String("content_id", evt.ID))
}

func (p *Publisher) PublishFeaturesUpdated(ctx context.Context, evt events.FeaturesUpdated) error {
	return p.publish(FeaturesUpdatedSubject, evt, zap.Int("updated", evt.Updated))
}

func (p *Publisher) PublishFeaturesMigrated(ctx context.Context, evt events.FeaturesMigrated) error {
	return p.publish(FeaturesMigratedSubject, evt, zap.Int("migrated", evt.Migrated))
}

func (p *Publisher) PublishBookmarkAdded(ctx context.Context, evt events.BookmarkChanged) error {
	return p.publish(BookmarkAddedSubject, evt, zap.String("content_id", evt.ContentID))
}

func (p *Publisher) PublishBookmarkRemoved(ctx context.Context, evt events.BookmarkChanged) error {
	return p.publish(BookmarkRemovedSubject, evt, zap.String("content_id", evt.ContentID))
}

func (p *Publisher) PublishUserRegistered(ctx context.Context, user *entity.User) error {
	evt := events.UserRegistered{ID: user.ID, Email: user.Email}
	return p.publish(UserRegisteredSubject, evt, zap.String("user_id", user.ID))
}

func (p *Publisher) Close() {
	if p.raw != nil && !p.raw.IsClosed() {
		if err := p.raw.Drain(); err != nil {
			p.logger.Error("Error draining NATS connection", zap.Error(err))
		}
		p.raw.Close()
		p.logger.Info("NATS publisher connection closed")
	}
}
