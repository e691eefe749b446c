package queue

// The consumer listens to the movie.activity queue and appends one line per
// event to the activity log file.

import (
    "context"
    "encoding/json"
    "errors"
    "fmt"
    "os"
    "path/filepath"
    "time"

    amqp "github.com/rabbitmq/amqp091-go"
    "github.com/sirupsen/logrus"
)

// Consumer drains the activity queue into a log file.
type Consumer struct {
    URL     string
    LogPath string
    Log     logrus.FieldLogger
}

// Run connects to RabbitMQ, declares the activity queue (durable) and
// consumes messages until ctx is cancelled. Broker failures trigger a
// reconnect with exponential backoff; bad messages are rejected without
// requeue so the loop keeps going.
func (c *Consumer) Run(ctx context.Context) error {
    log := c.Log
    if log == nil {
        log = logrus.StandardLogger()
    }
    log = log.WithField("component", "activity-consumer")

    backoff := time.Second
    for {
        if ctx.Err() != nil {
            return ctx.Err()
        }
        conn, err := amqp.Dial(c.URL)
        if err != nil {
            log.WithError(err).Warnf("failed to dial broker; retrying in %s", backoff)
            if !sleep(ctx, backoff) {
                return ctx.Err()
            }
            if backoff < 30*time.Second {
                backoff *= 2
            }
            continue
        }
        backoff = time.Second // reset after successful connect

        err = c.consumeLoop(ctx, conn, log)
        _ = conn.Close()
        if ctx.Err() != nil {
            return ctx.Err()
        }
        log.WithError(err).Warn("consume loop ended; reconnecting")
        if !sleep(ctx, 2*time.Second) {
            return ctx.Err()
        }
    }
}

func (c *Consumer) consumeLoop(ctx context.Context, conn *amqp.Connection, log logrus.FieldLogger) error {
    ch, err := conn.Channel()
    if err != nil {
        return fmt.Errorf("channel open: %w", err)
    }
    defer func() { _ = ch.Close() }()

    if err := ch.Qos(50, 0, false); err != nil {
        log.WithError(err).Warn("set QoS failed")
    }

    if _, err := ch.QueueDeclare(ActivityQueueName, true, false, false, false, nil); err != nil {
        return fmt.Errorf("queue declare: %w", err)
    }

    msgs, err := ch.Consume(ActivityQueueName, "", false, false, false, false, nil)
    if err != nil {
        return fmt.Errorf("queue consume: %w", err)
    }

    for {
        select {
        case <-ctx.Done():
            return ctx.Err()
        case d, ok := <-msgs:
            if !ok {
                return errors.New("deliveries channel closed")
            }
            if err := AppendActivity(c.LogPath, d.Body); err != nil {
                log.WithError(err).Error("handle message failed")
                _ = d.Nack(false, false) // reject, do not requeue to avoid tight loops
                continue
            }
            _ = d.Ack(false)
        }
    }
}

// AppendActivity decodes a MovieEvent and appends its line to path,
// creating the parent directory when needed.
func AppendActivity(path string, body []byte) error {
    var ev MovieEvent
    if err := json.Unmarshal(body, &ev); err != nil {
        return fmt.Errorf("unmarshal: %w", err)
    }
    if ev.Event == "" || ev.MovieID == 0 {
        return errors.New("event kind and movie id are required")
    }
    if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
        return fmt.Errorf("mkdir logs: %w", err)
    }
    f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
    if err != nil {
        return fmt.Errorf("open log file: %w", err)
    }
    defer f.Close()

    if _, err := f.WriteString(FormatActivity(ev)); err != nil {
        return fmt.Errorf("write log: %w", err)
    }
    return nil
}

// FormatActivity renders one newline-terminated log line for ev.
func FormatActivity(ev MovieEvent) string {
    user := "anonymous"
    if ev.UserID != 0 {
        user = fmt.Sprintf("%d", ev.UserID)
    }
    return fmt.Sprintf("[%s] %s | movie_id=%d | user=%s | title=%q | event_id=%s\n",
        ev.At, ev.Event, ev.MovieID, user, ev.Title, ev.ID)
}

func sleep(ctx context.Context, d time.Duration) bool {
    t := time.NewTimer(d)
    defer t.Stop()
    select {
    case <-ctx.Done():
        return false
    case <-t.C:
        return true
    }
}
