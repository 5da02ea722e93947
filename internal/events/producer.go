package events

import (
	"context"
	"encoding/json"
	"log"
	"strings"
	"time"

	"github.com/segmentio/kafka-go"

	"github.com/graalonline/support-service/internal/model"
)

const (
	TicketCreated = "ticket.created"
	TicketUpdated = "ticket.updated"
)

// TicketEventProducer publishes ticket lifecycle events (mockable in tests).
type TicketEventProducer interface {
	PublishAsync(event string, t *model.Ticket)
}

type ticketEvent struct {
	Event         string  `json:"event"`
	TicketID      string  `json:"ticket_id"`
	Email         string  `json:"email"`
	GraalID       string  `json:"graalid"`
	Status        string  `json:"status"`
	AssignedAdmin *string `json:"assigned_admin,omitempty"`
	At            int64   `json:"at"`
}

// Producer writes ticket events to a Kafka topic (best-effort, never blocks
// the API). With no brokers or topic configured every call is a no-op.
type Producer struct {
	writer *kafka.Writer
	topic  string
}

func NewProducer(brokers []string, topic string) *Producer {
	if len(brokers) == 0 || topic == "" {
		return &Producer{}
	}
	return &Producer{
		topic: topic,
		writer: &kafka.Writer{
			Addr:         kafka.TCP(brokers...),
			Topic:        topic,
			Balancer:     &kafka.LeastBytes{},
			BatchTimeout: 10 * time.Millisecond,
		},
	}
}

func (p *Producer) publish(ctx context.Context, event string, t *model.Ticket) {
	msg := ticketEvent{
		Event:         event,
		TicketID:      t.ID,
		Email:         t.Email,
		GraalID:       t.GraalID,
		Status:        string(t.Status),
		AssignedAdmin: t.AssignedAdmin,
		At:            time.Now().Unix(),
	}
	body, err := json.Marshal(msg)
	if err != nil {
		log.Printf("events: marshal ticket event: %v", err)
		return
	}
	if err := p.writer.WriteMessages(ctx, kafka.Message{Key: []byte(t.ID), Value: body}); err != nil {
		log.Printf("events: write ticket event: %v", err)
	}
}

// PublishAsync emits the event in a goroutine with its own timeout.
func (p *Producer) PublishAsync(event string, t *model.Ticket) {
	if p.writer == nil {
		return
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		p.publish(ctx, event, t)
	}()
}

// Close flushes and closes the underlying writer.
func (p *Producer) Close() error {
	if p.writer == nil {
		return nil
	}
	return p.writer.Close()
}

// ParseBrokers splits "host1:9092,host2:9092" into a broker slice.
func ParseBrokers(s string) []string {
	var out []string
	for _, t := range strings.Split(s, ",") {
		if t = strings.TrimSpace(t); t != "" {
			out = append(out, t)
		}
	}
	return out
}
