// Package events mengirim event attempt ke collaborator (notifikasi, rekap nilai)
// lewat RabbitMQ. Kalau RABBITMQ_URL kosong dipakai NoopPublisher.
package events

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/bytedance/sonic"
	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"
)

const (
	AttemptExchange = "quiz.events"

	AttemptStartedRoutingKey   = "quiz.attempt.started"
	AttemptSubmittedRoutingKey = "quiz.attempt.submitted"
)

type AttemptEvent struct {
	RoutingKey string    `json:"-"`
	AttemptID  uuid.UUID `json:"attempt_id"`
	QuizID     uuid.UUID `json:"quiz_id"`
	SchoolID   uuid.UUID `json:"school_id"`
	StudentID  uuid.UUID `json:"student_id"`
	AttemptNo  int       `json:"attempt_no"`

	MustSubmitBy time.Time `json:"must_submit_by"`
	// hanya untuk submitted
	Score      *int     `json:"score,omitempty"`
	TotalMarks *int     `json:"total_marks,omitempty"`
	Percentage *float64 `json:"percentage,omitempty"`
	IsLate     bool     `json:"is_late,omitempty"`

	OccurredAt time.Time `json:"occurred_at"`
}

type Publisher interface {
	Publish(ctx context.Context, ev AttemptEvent) error
	Close() error
}

/* =========================================================
   NOOP
========================================================= */

type NoopPublisher struct{}

func (NoopPublisher) Publish(context.Context, AttemptEvent) error { return nil }
func (NoopPublisher) Close() error                                { return nil }

/* =========================================================
   RABBITMQ
========================================================= */

type RabbitPublisher struct {
	mu       sync.Mutex // amqp.Channel tidak aman untuk publish paralel
	conn     *amqp.Connection
	ch       *amqp.Channel
	exchange string
}

func NewRabbitPublisher(url string) (*RabbitPublisher, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("rabbitmq dial: %w", err)
	}
	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("rabbitmq channel: %w", err)
	}
	if err := ch.ExchangeDeclare(
		AttemptExchange, // name
		"topic",         // kind
		true,            // durable
		false,           // autoDelete
		false,           // internal
		false,           // noWait
		nil,
	); err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return nil, fmt.Errorf("rabbitmq exchange declare: %w", err)
	}

	log.Printf("[RabbitPublisher] connected, exchange=%s", AttemptExchange)
	return &RabbitPublisher{conn: conn, ch: ch, exchange: AttemptExchange}, nil
}

func (p *RabbitPublisher) Publish(ctx context.Context, ev AttemptEvent) error {
	body, err := sonic.Marshal(ev)
	if err != nil {
		return err
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	return p.ch.PublishWithContext(ctx,
		p.exchange,
		ev.RoutingKey,
		false, // mandatory
		false, // immediate
		amqp.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp.Persistent,
			MessageId:    uuid.NewString(),
			Timestamp:    ev.OccurredAt,
			Body:         body,
		},
	)
}

func (p *RabbitPublisher) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if err := p.ch.Close(); err != nil {
		log.Printf("[RabbitPublisher] close channel: %v", err)
	}
	return p.conn.Close()
}
