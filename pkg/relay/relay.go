// Package relay bridges messages received over a client transport into
// Kafka, so downstream workers consume the stream without speaking the
// polling protocol themselves. It decorates a Connection: wrap the logical
// connection before handing it to the transport and every delivered message
// is republished as a JSON record.
package relay

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"

	log "github.com/Goden-Gun/longpoll-lib/pkg/logger"
	"github.com/Goden-Gun/longpoll-lib/pkg/transport"
)

// Publisher sends a record onward. *kafka.Producer satisfies it.
type Publisher interface {
	Publish(ctx context.Context, topic string, key, value []byte) error
}

// Record is the JSON envelope published for every relayed message.
type Record struct {
	ID           string          `json:"id"`
	ConnectionID string          `json:"connection_id"`
	ReceivedAt   time.Time       `json:"received_at"`
	Payload      json.RawMessage `json:"payload"`
}

// Relay decorates a Connection and republishes delivered messages. Publish
// failures are logged, never surfaced to the transport: the connection's
// message flow must not stall on the broker.
type Relay struct {
	transport.Connection

	publisher    Publisher
	topic        string
	connectionID string
	timeout      time.Duration
}

// Wrap returns conn decorated with relaying. connectionID keys the Kafka
// records so one partition carries one connection's stream in order.
func Wrap(conn transport.Connection, pub Publisher, topic, connectionID string) *Relay {
	return &Relay{
		Connection:   conn,
		publisher:    pub,
		topic:        topic,
		connectionID: connectionID,
		timeout:      5 * time.Second,
	}
}

// OnMessage republishes the payload, then delivers it to the wrapped
// connection.
func (r *Relay) OnMessage(data []byte) {
	rec := Record{
		ID:           uuid.NewString(),
		ConnectionID: r.connectionID,
		ReceivedAt:   time.Now().UTC(),
		Payload:      json.RawMessage(data),
	}
	value, err := json.Marshal(rec)
	if err != nil {
		log.WithError(err).Warn("relay: marshal record failed")
	} else {
		ctx, cancel := context.WithTimeout(context.Background(), r.timeout)
		if err := r.publisher.Publish(ctx, r.topic, []byte(r.connectionID), value); err != nil {
			log.WithError(err).WithField("topic", r.topic).Warn("relay: publish failed")
		}
		cancel()
	}

	r.Connection.OnMessage(data)
}
