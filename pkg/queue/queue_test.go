package queue_test

import (
	"testing"
	"time"

	"github.com/ThreeDotsLabs/watermill/message"

	"github.com/yeisme/resultvault/pkg/queue"
)

// capturePublisher 捕获发布的消息，便于断言主题与内容.
type capturePublisher struct {
	topics []string
	msgs   []*message.Message
}

func (p *capturePublisher) Publish(topic string, msgs ...*message.Message) error {
	for range msgs {
		p.topics = append(p.topics, topic)
	}

	p.msgs = append(p.msgs, msgs...)

	return nil
}

func (p *capturePublisher) Close() error { return nil }

// TestNewEventHeader 测试事件头默认值与选项注入.
func TestNewEventHeader(t *testing.T) {
	before := time.Now().UTC()
	hdr := queue.NewEventHeader(queue.TopicResultStarted,
		queue.WithTraceID("trace-abc"),
		queue.WithProducer("resultvault"),
	)

	if hdr.Topic != queue.TopicResultStarted {
		t.Errorf("Topic = %q, want %q", hdr.Topic, queue.TopicResultStarted)
	}

	if hdr.Version != queue.PayloadVersionV1 {
		t.Errorf("Version = %q, want %q", hdr.Version, queue.PayloadVersionV1)
	}

	if hdr.TraceID != "trace-abc" {
		t.Errorf("TraceID = %q, want %q", hdr.TraceID, "trace-abc")
	}

	if hdr.Producer != "resultvault" {
		t.Errorf("Producer = %q, want %q", hdr.Producer, "resultvault")
	}

	if hdr.OccurredAt.Before(before) {
		t.Errorf("OccurredAt %v earlier than construction time %v", hdr.OccurredAt, before)
	}

	if hdr.OccurredAt.Location() != time.UTC {
		t.Errorf("OccurredAt location = %v, want UTC", hdr.OccurredAt.Location())
	}
}

// TestPublishArtifactStored 测试发布制品事件时的主题、元数据与负载往返.
func TestPublishArtifactStored(t *testing.T) {
	pub := &capturePublisher{}

	payload := queue.ArtifactStoredPayload{
		Result: queue.ResultRef{
			UserID:   "alice@example.com",
			ResultID: "01JGWX5Y8KZT2Q4R6S8V0A1B2C",
		},
		Artifact: queue.ArtifactRef{
			Name:        "monthly.png",
			URI:         "s3://resultvault/alice@example.com/01JGWX5Y8KZT2Q4R6S8V0A1B2C/monthly.png",
			ContentType: "image/png",
			Size:        4096,
		},
		Source: "api",
	}

	err := queue.PublishArtifactStored(pub, payload,
		queue.WithProducer("resultvault"),
		queue.WithTraceID("trace-xyz"),
	)
	if err != nil {
		t.Fatalf("PublishArtifactStored failed: %v", err)
	}

	if len(pub.msgs) != 1 {
		t.Fatalf("Expected 1 captured message, got %d", len(pub.msgs))
	}

	if pub.topics[0] != queue.TopicResultStored {
		t.Errorf("Published topic = %q, want %q", pub.topics[0], queue.TopicResultStored)
	}

	msg := pub.msgs[0]
	if msg.UUID == "" {
		t.Error("Message UUID should not be empty")
	}

	// 元数据与信封头部保持一致
	if got := msg.Metadata.Get("topic"); got != queue.TopicResultStored {
		t.Errorf("Metadata topic = %q, want %q", got, queue.TopicResultStored)
	}

	if got := msg.Metadata.Get("producer"); got != "resultvault" {
		t.Errorf("Metadata producer = %q, want %q", got, "resultvault")
	}

	if got := msg.Metadata.Get("trace_id"); got != "trace-xyz" {
		t.Errorf("Metadata trace_id = %q, want %q", got, "trace-xyz")
	}

	if got := msg.Metadata.Get("version"); got != queue.PayloadVersionV1 {
		t.Errorf("Metadata version = %q, want %q", got, queue.PayloadVersionV1)
	}

	if got := msg.Metadata.Get("occurred_at"); got == "" {
		t.Error("Metadata occurred_at should not be empty")
	} else if _, parseErr := time.Parse(time.RFC3339Nano, got); parseErr != nil {
		t.Errorf("Metadata occurred_at %q is not RFC3339Nano: %v", got, parseErr)
	}

	env, err := queue.ParseArtifactStored(msg)
	if err != nil {
		t.Fatalf("ParseArtifactStored failed: %v", err)
	}

	if env.Header.Topic != queue.TopicResultStored {
		t.Errorf("Header.Topic = %q, want %q", env.Header.Topic, queue.TopicResultStored)
	}

	if env.Header.Producer != "resultvault" {
		t.Errorf("Header.Producer = %q, want %q", env.Header.Producer, "resultvault")
	}

	if env.Payload.Result.UserID != payload.Result.UserID {
		t.Errorf("Payload UserID = %q, want %q", env.Payload.Result.UserID, payload.Result.UserID)
	}

	if env.Payload.Result.ResultID != payload.Result.ResultID {
		t.Errorf("Payload ResultID = %q, want %q", env.Payload.Result.ResultID, payload.Result.ResultID)
	}

	if env.Payload.Artifact.Name != payload.Artifact.Name {
		t.Errorf("Payload artifact name = %q, want %q", env.Payload.Artifact.Name, payload.Artifact.Name)
	}

	if env.Payload.Artifact.URI != payload.Artifact.URI {
		t.Errorf("Payload artifact URI = %q, want %q", env.Payload.Artifact.URI, payload.Artifact.URI)
	}

	if env.Payload.Artifact.Size != payload.Artifact.Size {
		t.Errorf("Payload artifact size = %d, want %d", env.Payload.Artifact.Size, payload.Artifact.Size)
	}

	if env.Payload.Source != "api" {
		t.Errorf("Payload source = %q, want %q", env.Payload.Source, "api")
	}
}

// TestPublishResultDeleted 测试删除事件携带原因与释放字节数.
func TestPublishResultDeleted(t *testing.T) {
	pub := &capturePublisher{}

	payload := queue.ResultDeletedPayload{
		Result: queue.ResultRef{
			UserID:   "bob@example.com",
			ResultID: "01JGWX5Y8KZT2Q4R6S8V0A1B2D",
		},
		Reason:     queue.ReasonRetention,
		BytesFreed: 2048,
	}

	if err := queue.PublishResultDeleted(pub, payload); err != nil {
		t.Fatalf("PublishResultDeleted failed: %v", err)
	}

	if pub.topics[0] != queue.TopicResultDeleted {
		t.Errorf("Published topic = %q, want %q", pub.topics[0], queue.TopicResultDeleted)
	}

	env, err := queue.ParseResultDeleted(pub.msgs[0])
	if err != nil {
		t.Fatalf("ParseResultDeleted failed: %v", err)
	}

	if env.Payload.Reason != queue.ReasonRetention {
		t.Errorf("Reason = %q, want %q", env.Payload.Reason, queue.ReasonRetention)
	}

	if env.Payload.BytesFreed != 2048 {
		t.Errorf("BytesFreed = %d, want 2048", env.Payload.BytesFreed)
	}
}

// TestPublishRetentionEnforced 测试保留执行事件的删除清单顺序保持.
func TestPublishRetentionEnforced(t *testing.T) {
	pub := &capturePublisher{}

	payload := queue.RetentionEnforcedPayload{
		UserID:   "carol@example.com",
		Examined: 12,
		Deleted: []string{
			"01JGWX5Y8KZT2Q4R6S8V0A1B20",
			"01JGWX5Y8KZT2Q4R6S8V0A1B21",
			"01JGWX5Y8KZT2Q4R6S8V0A1B22",
		},
		BytesFreed: 1 << 20,
		Orphans:    1,
	}

	if err := queue.PublishRetentionEnforced(pub, payload, queue.WithProducer("resultvault")); err != nil {
		t.Fatalf("PublishRetentionEnforced failed: %v", err)
	}

	if pub.topics[0] != queue.TopicRetentionEnforced {
		t.Errorf("Published topic = %q, want %q", pub.topics[0], queue.TopicRetentionEnforced)
	}

	env, err := queue.ParseRetentionEnforced(pub.msgs[0])
	if err != nil {
		t.Fatalf("ParseRetentionEnforced failed: %v", err)
	}

	if env.Payload.Examined != 12 {
		t.Errorf("Examined = %d, want 12", env.Payload.Examined)
	}

	if len(env.Payload.Deleted) != 3 {
		t.Fatalf("Deleted count = %d, want 3", len(env.Payload.Deleted))
	}

	for i, id := range payload.Deleted {
		if env.Payload.Deleted[i] != id {
			t.Errorf("Deleted[%d] = %q, want %q", i, env.Payload.Deleted[i], id)
		}
	}

	if env.Payload.Orphans != 1 {
		t.Errorf("Orphans = %d, want 1", env.Payload.Orphans)
	}
}

// TestParseWatermillMessage_BadPayload 测试非法负载解析失败.
func TestParseWatermillMessage_BadPayload(t *testing.T) {
	msg := message.NewMessage("bad", []byte("not json"))

	if _, err := queue.ParseArtifactStored(msg); err == nil {
		t.Error("Expected parse error for non-JSON payload")
	}
}
