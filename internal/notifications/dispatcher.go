package notifications

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/balarco/balarco-backend/pkg/config"
	"github.com/balarco/balarco-backend/pkg/db/models"
	"github.com/balarco/balarco-backend/pkg/logger"
	"github.com/balarco/balarco-backend/pkg/metrics"
	"github.com/google/uuid"
	"go.uber.org/multierr"
	"gorm.io/gorm"
)

// Message is the payload delivered on a user's live channel.
type Message struct {
	ID   uuid.UUID `json:"id"`
	Text string    `json:"text"`
}

// Pusher delivers a message to a live-update channel.
type Pusher interface {
	Push(ctx context.Context, channel string, msg Message) error
}

// Dispatcher stages notification rows inside a mutation transaction and
// pushes them once the transaction has committed.
type Dispatcher struct {
	repo    Repository
	pusher  Pusher
	prefix  string
	metrics *metrics.NotificationMetrics
	logg    *logger.Logger
	now     func() time.Time
}

// NewDispatcher builds a dispatcher. A nil pusher disables live delivery.
func NewDispatcher(repo Repository, pusher Pusher, cfg config.NotificationsConfig, m *metrics.NotificationMetrics, logg *logger.Logger) (*Dispatcher, error) {
	if repo == nil {
		return nil, fmt.Errorf("notifications repository required")
	}
	prefix := cfg.ChannelPrefix
	if prefix == "" {
		prefix = "user"
	}
	return &Dispatcher{
		repo:    repo,
		pusher:  pusher,
		prefix:  prefix,
		metrics: m,
		logg:    logg,
		now:     func() time.Time { return time.Now().UTC() },
	}, nil
}

// Channel returns the live channel of userID.
func (d *Dispatcher) Channel(userID uuid.UUID) string {
	return fmt.Sprintf("%s-%s", d.prefix, userID)
}

// Stage persists one unseen notification per distinct recipient using tx.
func (d *Dispatcher) Stage(ctx context.Context, tx *gorm.DB, workID uuid.UUID, recipients []uuid.UUID, text string) ([]models.Notification, error) {
	now := d.now()
	seen := make(map[uuid.UUID]struct{}, len(recipients))
	rows := make([]models.Notification, 0, len(recipients))
	for _, userID := range recipients {
		if userID == uuid.Nil {
			continue
		}
		if _, dup := seen[userID]; dup {
			continue
		}
		seen[userID] = struct{}{}
		rows = append(rows, models.Notification{
			ID:       uuid.New(),
			WorkID:   workID,
			UserID:   userID,
			Date:     now,
			Text:     text,
			Seen:     false,
			IsActive: true,
		})
	}
	if err := d.repo.WithTx(tx).CreateMany(ctx, rows); err != nil {
		return nil, err
	}
	return rows, nil
}

// Push sends every staged notification to its recipient. Failures are
// logged and counted, never returned.
func (d *Dispatcher) Push(ctx context.Context, staged []models.Notification) {
	if d == nil || d.pusher == nil || len(staged) == 0 {
		return
	}

	var errs error
	for _, n := range staged {
		err := d.pusher.Push(ctx, d.Channel(n.UserID), Message{ID: n.ID, Text: n.Text})
		if err != nil {
			d.metrics.ObservePush(metrics.ResultError)
			errs = multierr.Append(errs, fmt.Errorf("push %s: %w", n.UserID, err))
			continue
		}
		d.metrics.ObservePush(metrics.ResultOK)
	}
	if errs != nil && d.logg != nil {
		ctx = d.logg.WithField(ctx, "failed", len(multierr.Errors(errs)))
		d.logg.Warn(d.logg.WithField(ctx, "error", errs.Error()), "notification push failed")
	}
}

type publisher interface {
	Publish(ctx context.Context, channel string, message any) (int64, error)
}

// RedisPusher publishes messages as JSON on a Redis channel.
type RedisPusher struct {
	client publisher
}

func NewRedisPusher(client publisher) *RedisPusher {
	return &RedisPusher{client: client}
}

func (p *RedisPusher) Push(ctx context.Context, channel string, msg Message) error {
	payload, err := json.Marshal(msg)
	if err != nil {
		return err
	}
	_, err = p.client.Publish(ctx, channel, payload)
	return err
}
