// Package events announces successful mutations to other consumers of the
// fleet data.
package events

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	log "github.com/sirupsen/logrus"
)

// Op is the kind of mutation an event reports.
type Op string

const (
	Created Op = "created"
	Updated Op = "updated"
	Deleted Op = "deleted"
)

// Event describes one confirmed change to a collection.
type Event struct {
	Collection string      `json:"collection"`
	Op         Op          `json:"op"`
	ID         string      `json:"id"`
	At         time.Time   `json:"at"`
	Record     interface{} `json:"record,omitempty"`
}

// Publisher delivers events. Publishing is best effort: a failure never
// undoes the mutation it reports.
type Publisher interface {
	Publish(ctx context.Context, e Event) error
	Close()
}

// Nop discards every event.
type Nop struct{}

func (Nop) Publish(context.Context, Event) error { return nil }
func (Nop) Close()                               {}

// MQTTPublisher publishes events to <prefix>/<collection>/<op>.
type MQTTPublisher struct {
	client  mqtt.Client
	prefix  string
	qos     byte
	timeout time.Duration
	logger  *log.Entry
}

// Connect dials broker and returns a publisher over the new connection.
func Connect(broker, clientID, prefix string, timeout time.Duration, logger *log.Entry) (*MQTTPublisher, error) {
	opts := mqtt.NewClientOptions().
		AddBroker(broker).
		SetClientID(clientID).
		SetAutoReconnect(true).
		SetConnectTimeout(timeout).
		SetConnectionLostHandler(func(_ mqtt.Client, err error) {
			logger.WithError(err).Warn("mqtt connection lost")
		})

	client := mqtt.NewClient(opts)
	token := client.Connect()
	if !token.WaitTimeout(timeout) {
		return nil, fmt.Errorf("mqtt connect to %s: timed out after %s", broker, timeout)
	}
	if err := token.Error(); err != nil {
		return nil, fmt.Errorf("mqtt connect to %s: %w", broker, err)
	}
	return NewMQTTPublisher(client, prefix, timeout, logger), nil
}

// NewMQTTPublisher wraps an already connected client.
func NewMQTTPublisher(client mqtt.Client, prefix string, timeout time.Duration, logger *log.Entry) *MQTTPublisher {
	if logger == nil {
		logger = log.NewEntry(log.StandardLogger())
	}
	return &MQTTPublisher{client: client, prefix: prefix, qos: 1, timeout: timeout, logger: logger}
}

// Topic returns the topic e is published on.
func (p *MQTTPublisher) Topic(e Event) string {
	return fmt.Sprintf("%s/%s/%s", p.prefix, e.Collection, e.Op)
}

// Publish sends e and waits for the broker to acknowledge it.
func (p *MQTTPublisher) Publish(ctx context.Context, e Event) error {
	payload, err := json.Marshal(e)
	if err != nil {
		return fmt.Errorf("encode event: %w", err)
	}
	topic := p.Topic(e)
	token := p.client.Publish(topic, p.qos, false, payload)

	select {
	case <-token.Done():
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(p.timeout):
		return errors.New("mqtt publish to " + topic + " timed out")
	}
	if err := token.Error(); err != nil {
		return fmt.Errorf("mqtt publish to %s: %w", topic, err)
	}
	p.logger.WithFields(log.Fields{"topic": topic, "id": e.ID}).Debug("event published")
	return nil
}

// Close disconnects from the broker.
func (p *MQTTPublisher) Close() {
	p.client.Disconnect(250)
}
