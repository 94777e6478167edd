// Package publish sends compiled shaders to an MQTT broker so running
// renderers can hot-reload them.
package publish

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"sync"
	"time"

	paho "github.com/eclipse/paho.mqtt.golang"
	"github.com/go-logr/logr"
)

// DefaultPrefix is the topic prefix used when none is configured.
const DefaultPrefix = "shadergraph"

// connectTimeout bounds the initial broker connection.
const connectTimeout = 10 * time.Second

// Message is the JSON payload of a published shader.
type Message struct {
	Name   string `json:"name"`
	Target string `json:"target"`
	Stage  string `json:"stage"`
	Hash   string `json:"hash"`
	Source string `json:"source"`
}

// client is the part of paho.Client the publisher uses.
type client interface {
	Connect() paho.Token
	Publish(topic string, qos byte, retained bool, payload interface{}) paho.Token
	IsConnected() bool
	Disconnect(quiesce uint)
}

// Publisher publishes shaders as retained QoS 1 messages.
type Publisher struct {
	client client
	prefix string
	log    logr.Logger
	mu     sync.Mutex
}

// BrokerURL returns the MQTT broker URL from env or default.
func BrokerURL() string {
	if url := os.Getenv("MQTT_URL"); url != "" {
		return url
	}
	return "tcp://localhost:1883"
}

// New creates a publisher but does not connect. An empty brokerURL uses
// BrokerURL and an empty prefix uses DefaultPrefix.
func New(brokerURL, clientID, prefix string, log logr.Logger) *Publisher {
	if brokerURL == "" {
		brokerURL = BrokerURL()
	}
	opts := paho.NewClientOptions().
		AddBroker(brokerURL).
		SetClientID(clientID).
		SetAutoReconnect(true).
		SetConnectRetry(true).
		SetConnectRetryInterval(5 * time.Second).
		SetKeepAlive(30 * time.Second)

	return newPublisher(paho.NewClient(opts), prefix, log)
}

func newPublisher(c client, prefix string, log logr.Logger) *Publisher {
	if prefix == "" {
		prefix = DefaultPrefix
	}
	return &Publisher{client: c, prefix: strings.TrimSuffix(prefix, "/"), log: log}
}

// Connect connects to the broker.
func (p *Publisher) Connect(ctx context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	ctx, cancel := context.WithTimeout(ctx, connectTimeout)
	defer cancel()
	if err := wait(ctx, p.client.Connect()); err != nil {
		return fmt.Errorf("mqtt connect: %w", err)
	}
	p.log.V(1).Info("connected to broker")
	return nil
}

// Topic returns the topic a shader is published to.
func (p *Publisher) Topic(name, target string) string {
	return p.prefix + "/" + topicLevel(name) + "/" + topicLevel(target)
}

// topicLevel replaces characters with meaning in MQTT topics.
func topicLevel(s string) string {
	if s == "" {
		return "_"
	}
	return strings.NewReplacer("/", "_", "+", "_", "#", "_").Replace(s)
}

// Publish sends msg and waits for the broker to acknowledge it.
func (p *Publisher) Publish(ctx context.Context, msg Message) error {
	payload, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("failed to marshal message: %w", err)
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	topic := p.Topic(msg.Name, msg.Target)
	if err := wait(ctx, p.client.Publish(topic, 1, true, payload)); err != nil {
		return fmt.Errorf("mqtt publish %s: %w", topic, err)
	}
	p.log.V(1).Info("published shader", "topic", topic, "hash", msg.Hash, "bytes", len(msg.Source))
	return nil
}

// Close disconnects from the broker.
func (p *Publisher) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.client.IsConnected() {
		p.client.Disconnect(1000)
	}
}

// wait blocks until token completes or ctx is done.
func wait(ctx context.Context, token paho.Token) error {
	select {
	case <-token.Done():
		return token.Error()
	case <-ctx.Done():
		return ctx.Err()
	}
}
