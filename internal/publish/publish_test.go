package publish

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	paho "github.com/eclipse/paho.mqtt.golang"
	"github.com/go-logr/logr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type published struct {
	topic    string
	qos      byte
	retained bool
	payload  []byte
}

// mockClient records publishes instead of talking to a broker.
type mockClient struct {
	mu           sync.Mutex
	connected    bool
	messages     []published
	err          error
	block        bool
	disconnected bool
}

func (m *mockClient) Connect() paho.Token {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.connected = m.err == nil
	return &mockToken{err: m.err}
}

func (m *mockClient) Publish(topic string, qos byte, retained bool, payload interface{}) paho.Token {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.messages = append(m.messages, published{topic, qos, retained, payload.([]byte)})
	return &mockToken{err: m.err, block: m.block}
}

func (m *mockClient) IsConnected() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.connected
}

func (m *mockClient) Disconnect(uint) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.connected = false
	m.disconnected = true
}

type mockToken struct {
	err   error
	block bool
}

func (t *mockToken) Wait() bool                       { return !t.block }
func (t *mockToken) WaitTimeout(_ time.Duration) bool { return !t.block }
func (t *mockToken) Done() <-chan struct{} {
	ch := make(chan struct{})
	if !t.block {
		close(ch)
	}
	return ch
}
func (t *mockToken) Error() error { return t.err }

func TestPublish(t *testing.T) {
	mock := &mockClient{}
	p := newPublisher(mock, "studio/shaders/", logr.Discard())
	ctx := context.Background()
	require.NoError(t, p.Connect(ctx))

	msg := Message{Name: "tinted", Target: "wgsl", Stage: "fragment", Hash: "abc", Source: "fn fs_main() {}"}
	require.NoError(t, p.Publish(ctx, msg))

	require.Len(t, mock.messages, 1)
	got := mock.messages[0]
	assert.Equal(t, "studio/shaders/tinted/wgsl", got.topic)
	assert.Equal(t, byte(1), got.qos)
	assert.True(t, got.retained)

	var decoded map[string]string
	require.NoError(t, json.Unmarshal(got.payload, &decoded))
	assert.Equal(t, map[string]string{
		"name": "tinted", "target": "wgsl", "stage": "fragment", "hash": "abc", "source": "fn fs_main() {}",
	}, decoded)

	p.Close()
	assert.True(t, mock.disconnected)
}

func TestTopic(t *testing.T) {
	p := newPublisher(&mockClient{}, "", logr.Discard())
	assert.Equal(t, "shadergraph/a_b_c_d/glsl", p.Topic("a/b+c#d", "glsl"))
	assert.Equal(t, "shadergraph/_/msl", p.Topic("", "msl"))
}

func TestPublish_Errors(t *testing.T) {
	t.Run("broker error", func(t *testing.T) {
		boom := errors.New("not authorized")
		p := newPublisher(&mockClient{err: boom}, "", logr.Discard())
		assert.ErrorIs(t, p.Connect(context.Background()), boom)
		err := p.Publish(context.Background(), Message{Name: "x", Target: "glsl"})
		assert.ErrorIs(t, err, boom)
		assert.Contains(t, err.Error(), "shadergraph/x/glsl")
	})

	t.Run("context canceled while waiting", func(t *testing.T) {
		p := newPublisher(&mockClient{block: true}, "", logr.Discard())
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
		defer cancel()
		assert.ErrorIs(t, p.Publish(ctx, Message{Name: "x", Target: "glsl"}), context.DeadlineExceeded)
	})
}

func TestBrokerURL(t *testing.T) {
	t.Setenv("MQTT_URL", "")
	assert.Equal(t, "tcp://localhost:1883", BrokerURL())
	t.Setenv("MQTT_URL", "tcp://broker:1883")
	assert.Equal(t, "tcp://broker:1883", BrokerURL())
}
