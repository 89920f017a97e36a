package notifications

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/balarco/balarco-backend/pkg/config"
	"github.com/balarco/balarco-backend/pkg/metrics"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
)

type recordingPusher struct {
	channels []string
	messages []Message
	failFor  map[string]bool
}

func (p *recordingPusher) Push(_ context.Context, channel string, msg Message) error {
	if p.failFor[channel] {
		return errors.New("channel layer unavailable")
	}
	p.channels = append(p.channels, channel)
	p.messages = append(p.messages, msg)
	return nil
}

func TestDispatcherStageDeduplicatesRecipients(t *testing.T) {
	repo := &fakeRepository{}
	d, err := NewDispatcher(repo, nil, config.NotificationsConfig{}, nil, nil)
	if err != nil {
		t.Fatalf("new dispatcher: %v", err)
	}

	exec, designer := uuid.New(), uuid.New()
	workID := uuid.New()
	rows, err := d.Stage(context.Background(), nil, workID, []uuid.UUID{exec, designer, exec, uuid.Nil}, "hola")
	if err != nil {
		t.Fatalf("stage: %v", err)
	}
	if len(rows) != 2 || len(repo.created) != 2 {
		t.Fatalf("expected 2 notifications, got %d staged / %d stored", len(rows), len(repo.created))
	}
	for _, row := range rows {
		if row.Seen || !row.IsActive || row.WorkID != workID || row.Text != "hola" {
			t.Fatalf("unexpected staged row %+v", row)
		}
	}
}

func TestDispatcherStagePropagatesStoreErrors(t *testing.T) {
	repo := &fakeRepository{createErr: errors.New("insert failed")}
	d, _ := NewDispatcher(repo, nil, config.NotificationsConfig{}, nil, nil)
	if _, err := d.Stage(context.Background(), nil, uuid.New(), []uuid.UUID{uuid.New()}, "x"); err == nil {
		t.Fatal("expected stage error")
	}
}

func TestDispatcherPushSwallowsFailures(t *testing.T) {
	repo := &fakeRepository{}
	pusher := &recordingPusher{failFor: map[string]bool{}}
	reg := prometheus.NewRegistry()
	d, _ := NewDispatcher(repo, pusher, config.NotificationsConfig{ChannelPrefix: "user"}, metrics.NewNotificationMetrics(reg), nil)

	ok, broken := uuid.New(), uuid.New()
	pusher.failFor["user-"+broken.String()] = true

	rows, err := d.Stage(context.Background(), nil, uuid.New(), []uuid.UUID{ok, broken}, "El trabajo 'Logo' cambió a estado Diseño.")
	if err != nil {
		t.Fatalf("stage: %v", err)
	}
	d.Push(context.Background(), rows)

	if len(pusher.channels) != 1 || pusher.channels[0] != "user-"+ok.String() {
		t.Fatalf("unexpected delivered channels %v", pusher.channels)
	}
	if pusher.messages[0].ID != rows[0].ID {
		t.Fatalf("expected notification id in payload")
	}
	if got := pushCount(t, reg, metrics.ResultError); got != 1 {
		t.Fatalf("expected one failed push, got %f", got)
	}
}

type fakePublisher struct {
	channel string
	payload []byte
	err     error
}

func (f *fakePublisher) Publish(_ context.Context, channel string, message any) (int64, error) {
	f.channel = channel
	f.payload, _ = message.([]byte)
	return 1, f.err
}

func TestRedisPusherPublishesJSON(t *testing.T) {
	pub := &fakePublisher{}
	id := uuid.New()
	if err := NewRedisPusher(pub).Push(context.Background(), "user-1", Message{ID: id, Text: "hola"}); err != nil {
		t.Fatalf("push: %v", err)
	}
	if pub.channel != "user-1" {
		t.Fatalf("unexpected channel %q", pub.channel)
	}
	var decoded map[string]string
	if err := json.Unmarshal(pub.payload, &decoded); err != nil {
		t.Fatalf("payload is not json: %v", err)
	}
	if decoded["id"] != id.String() || decoded["text"] != "hola" {
		t.Fatalf("unexpected payload %v", decoded)
	}
}

func pushCount(t *testing.T, reg *prometheus.Registry, result string) float64 {
	t.Helper()
	mfs, err := reg.Gather()
	if err != nil {
		t.Fatalf("gather: %v", err)
	}
	for _, mf := range mfs {
		if mf.GetName() != "balarco_notification_push_total" {
			continue
		}
		for _, m := range mf.GetMetric() {
			for _, l := range m.GetLabel() {
				if l.GetName() == "result" && l.GetValue() == result {
					return m.GetCounter().GetValue()
				}
			}
		}
	}
	return 0
}
