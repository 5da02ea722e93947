package events

import (
	"reflect"
	"testing"

	"github.com/graalonline/support-service/internal/model"
)

func TestParseBrokers(t *testing.T) {
	cases := map[string][]string{
		"":                            nil,
		"localhost:9092":              {"localhost:9092"},
		"a:9092, b:9092 , ,c:9092":    {"a:9092", "b:9092", "c:9092"},
		" kafka-1:9092,kafka-2:29092": {"kafka-1:9092", "kafka-2:29092"},
	}
	for in, want := range cases {
		if got := ParseBrokers(in); !reflect.DeepEqual(got, want) {
			t.Fatalf("ParseBrokers(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestUnconfiguredProducerIsNoOp(t *testing.T) {
	for _, p := range []*Producer{
		NewProducer(nil, "tickets"),
		NewProducer([]string{"localhost:9092"}, ""),
	} {
		p.PublishAsync(TicketCreated, &model.Ticket{ID: "t-1"})
		if err := p.Close(); err != nil {
			t.Fatalf("close: %v", err)
		}
	}
}
