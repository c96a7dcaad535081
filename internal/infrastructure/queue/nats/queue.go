package nats

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/nats-io/nats.go"

	"github.com/seykim2025/kgoverment-proj/internal/infrastructure/resilience"
)

// DefaultSubject carries the id of every freshly uploaded notice.
const DefaultSubject = "notices.ingested"

const (
	workerQueueGroup  = "workers"
	publishedAtHeader = "Grantcheck-Published-At"
	drainTimeout      = 5 * time.Second
)

// Queue publishes and consumes notice-ingested events over core NATS.
// Delivery is at most once: a worker that fails a notice marks it failed in
// the database instead of asking for redelivery.
type Queue struct {
	conn       *nats.Conn
	subject    string
	executor   *resilience.Executor
	observeLag func(time.Duration)
}

// Options tunes the connection. Zero values pick the defaults below.
type Options struct {
	ClientName           string
	ConnectTimeout       time.Duration
	ReconnectWait        time.Duration
	MaxReconnects        int
	RetryOnFailedConnect *bool
	ResilienceExecutor   *resilience.Executor
}

func (o Options) natsOptions() []nats.Option {
	name := o.ClientName
	if name == "" {
		name = "grantcheck"
	}
	retry := true
	if o.RetryOnFailedConnect != nil {
		retry = *o.RetryOnFailedConnect
	}
	return []nats.Option{
		nats.Name(name),
		nats.Timeout(positiveOr(o.ConnectTimeout, 2*time.Second)),
		nats.ReconnectWait(positiveOr(o.ReconnectWait, 2*time.Second)),
		nats.MaxReconnects(positiveOr(o.MaxReconnects, 60)),
		nats.RetryOnFailedConnect(retry),
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			slog.Warn("nats_disconnected", "error", err)
		}),
		nats.ReconnectHandler(func(nc *nats.Conn) {
			slog.Info("nats_reconnected", "url", nc.ConnectedUrl())
		}),
	}
}

func positiveOr[T int | time.Duration](v, def T) T {
	if v <= 0 {
		return def
	}
	return v
}

func New(url, subject string) (*Queue, error) {
	return NewWithOptions(url, subject, Options{})
}

func NewWithOptions(url, subject string, options Options) (*Queue, error) {
	conn, err := nats.Connect(url, options.natsOptions()...)
	if err != nil {
		return nil, fmt.Errorf("connect nats: %w", err)
	}
	return newQueue(conn, subject, options.ResilienceExecutor), nil
}

func newQueue(conn *nats.Conn, subject string, executor *resilience.Executor) *Queue {
	if strings.TrimSpace(subject) == "" {
		subject = DefaultSubject
	}
	if executor == nil {
		executor = resilience.NewExecutor(resilience.PublishConfig())
	}
	return &Queue{conn: conn, subject: subject, executor: executor}
}

func (q *Queue) Close() {
	if q.conn != nil {
		q.conn.Close()
	}
}

func (q *Queue) Subject() string {
	return q.subject
}

// SetLagObserver receives the publish-to-delivery delay of each event.
// Call it before SubscribeNoticeIngested.
func (q *Queue) SetLagObserver(fn func(time.Duration)) {
	q.observeLag = fn
}

func (q *Queue) PublishNoticeIngested(ctx context.Context, noticeID string) error {
	msg := nats.NewMsg(q.subject)
	msg.Data = []byte(noticeID)
	err := q.executor.Execute(ctx, "notice.publish", func(context.Context) error {
		msg.Header.Set(publishedAtHeader, time.Now().UTC().Format(time.RFC3339Nano))
		if err := q.conn.PublishMsg(msg); err != nil {
			return fmt.Errorf("nats publish: %w", err)
		}
		return nil
	}, classifyPublishError)
	return publishError(err)
}

// SubscribeNoticeIngested blocks until ctx is cancelled, handing each notice
// id to handler. On shutdown the subscription drains so in-flight notices
// finish.
func (q *Queue) SubscribeNoticeIngested(ctx context.Context, handler func(context.Context, string) error) error {
	sub, err := q.conn.QueueSubscribe(q.subject, workerQueueGroup, func(msg *nats.Msg) {
		q.deliver(ctx, msg, handler)
	})
	if err != nil {
		return fmt.Errorf("nats subscribe: %w", err)
	}
	if err := q.conn.Flush(); err != nil {
		return fmt.Errorf("nats flush: %w", err)
	}

	<-ctx.Done()
	if err := sub.Drain(); err != nil {
		return fmt.Errorf("nats drain subscription: %w", err)
	}
	if err := q.conn.FlushTimeout(drainTimeout); err != nil {
		return fmt.Errorf("nats flush after drain: %w", err)
	}
	return nil
}

func (q *Queue) deliver(ctx context.Context, msg *nats.Msg, handler func(context.Context, string) error) {
	if ctx.Err() != nil {
		return
	}
	if q.observeLag != nil {
		if lag, ok := deliveryLag(msg, time.Now()); ok {
			q.observeLag(lag)
		}
	}

	noticeID := strings.TrimSpace(string(msg.Data))
	if noticeID == "" {
		slog.Warn("notice_event_empty", "subject", msg.Subject)
		return
	}
	if err := handler(ctx, noticeID); err != nil {
		slog.Error("notice_event_failed", "notice_id", noticeID, "error", err)
	}
}

// deliveryLag reads the publish stamp. Clock skew between hosts can put the
// stamp in the future; that counts as zero lag.
func deliveryLag(msg *nats.Msg, now time.Time) (time.Duration, bool) {
	if msg.Header == nil {
		return 0, false
	}
	published, err := time.Parse(time.RFC3339Nano, msg.Header.Get(publishedAtHeader))
	if err != nil {
		return 0, false
	}
	return max(now.Sub(published), 0), true
}
