// Package service provides publishing of domain events to RabbitMQ.
// Errors are logged and returned to allow callers to ignore failures without
// interrupting the main request flow.
package service

import (
    "context"
    "encoding/json"
    "time"

    amqp "github.com/rabbitmq/amqp091-go"
    "github.com/sirupsen/logrus"

    q "github.com/iliyamo/movielog/internal/queue"
)

// ActivityPublisher sends movie events to whoever keeps the activity log.
type ActivityPublisher interface {
    Publish(ctx context.Context, ev q.MovieEvent) error
}

// NewActivityPublisher returns an AMQP publisher, or a no-op one when url
// is empty.
func NewActivityPublisher(url string, log logrus.FieldLogger) ActivityPublisher {
    if url == "" {
        return NopPublisher{}
    }
    if log == nil {
        log = logrus.StandardLogger()
    }
    return &AMQPPublisher{URL: url, Log: log.WithField("component", "rabbitmq")}
}

// NopPublisher drops every event.
type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, q.MovieEvent) error { return nil }

// AMQPPublisher dials the broker per publish. Activity volume is a handful
// of messages per user action, so no connection is held open.
type AMQPPublisher struct {
    URL string
    Log logrus.FieldLogger
}

// Publish sends ev to the movie.activity queue as a persistent message.
func (p *AMQPPublisher) Publish(ctx context.Context, ev q.MovieEvent) error {
    conn, err := amqp.Dial(p.URL)
    if err != nil {
        p.Log.WithError(err).Warn("dial failed")
        return err
    }
    defer func() { _ = conn.Close() }()

    ch, err := conn.Channel()
    if err != nil {
        p.Log.WithError(err).Warn("channel open failed")
        return err
    }
    defer func() { _ = ch.Close() }()

    // Ensure the queue exists (idempotent). Durable so messages survive broker restarts.
    if _, err := ch.QueueDeclare(
        q.ActivityQueueName, // name
        true,                // durable
        false,               // autoDelete
        false,               // exclusive
        false,               // noWait
        nil,                 // args
    ); err != nil {
        p.Log.WithError(err).Warn("queue declare failed")
        return err
    }

    body, err := json.Marshal(ev)
    if err != nil {
        return err
    }

    pub := amqp.Publishing{
        ContentType:  "application/json",
        DeliveryMode: amqp.Persistent, // store on disk
        MessageId:    ev.ID,
        Type:         ev.Event,
        Timestamp:    time.Now().UTC(),
        Body:         body,
    }

    if err := ch.PublishWithContext(ctx, "", q.ActivityQueueName, false, false, pub); err != nil {
        p.Log.WithError(err).Warn("publish failed")
        return err
    }
    return nil
}

// PublishAsync fires ev in the background with its own timeout so a slow
// broker never delays the response.
func PublishAsync(p ActivityPublisher, ev q.MovieEvent) {
    if p == nil {
        return
    }
    if _, ok := p.(NopPublisher); ok {
        return
    }
    go func() {
        ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
        defer cancel()
        _ = p.Publish(ctx, ev)
    }()
}
