package mqtt

import (
	"strings"
	"testing"

	"github.com/castellan-io/castellan-core/internal/infrastructure/config"
)

func TestTopics(t *testing.T) {
	topics := Topics{}

	tests := []struct {
		name string
		got  string
		want string
	}{
		{"ownership state", topics.OwnershipState(), "castellan/ownership/state"},
		{"ownership events", topics.OwnershipEvents(), "castellan/ownership/events"},
		{"system status", topics.SystemStatus(), "castellan/system/status"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.got != tt.want {
				t.Errorf("topic = %q, want %q", tt.got, tt.want)
			}
		})
	}
}

func TestBuildClientOptions(t *testing.T) {
	cfg := config.MQTTConfig{
		Broker: config.MQTTBrokerConfig{
			Host:     "broker.local",
			Port:     1883,
			ClientID: "castellan-test",
		},
		Auth: config.MQTTAuthConfig{
			Username: "user",
			Password: "pass",
		},
		QoS: 1,
		Reconnect: config.MQTTReconnectConfig{
			InitialDelay: 1,
			MaxDelay:     60,
		},
	}

	opts := buildClientOptions(cfg)

	if len(opts.Servers) != 1 {
		t.Fatalf("expected 1 broker, got %d", len(opts.Servers))
	}
	if got := opts.Servers[0].String(); got != "tcp://broker.local:1883" {
		t.Errorf("broker URL = %q, want tcp://broker.local:1883", got)
	}
	if opts.ClientID != "castellan-test" {
		t.Errorf("client ID = %q, want castellan-test", opts.ClientID)
	}
	if opts.Username != "user" {
		t.Errorf("username = %q, want user", opts.Username)
	}
	if !opts.AutoReconnect {
		t.Error("auto-reconnect should be enabled")
	}
}

func TestBuildClientOptions_TLS(t *testing.T) {
	cfg := config.MQTTConfig{
		Broker: config.MQTTBrokerConfig{
			Host:     "broker.local",
			Port:     8883,
			TLS:      true,
			ClientID: "castellan-test",
		},
	}

	opts := buildClientOptions(cfg)

	if got := opts.Servers[0].Scheme; got != "ssl" {
		t.Errorf("scheme = %q, want ssl", got)
	}
	if opts.TLSConfig == nil {
		t.Fatal("TLS config should be set")
	}
	if opts.TLSConfig.MinVersion != tlsMinVersion {
		t.Errorf("TLS min version = %d, want %d", opts.TLSConfig.MinVersion, tlsMinVersion)
	}
}

func TestStatusPayloads(t *testing.T) {
	online := buildOnlinePayload("castellan-test")
	if !strings.Contains(online, `"status":"online"`) || !strings.Contains(online, "castellan-test") {
		t.Errorf("online payload missing fields: %s", online)
	}

	offline := buildOfflinePayload("castellan-test")
	if !strings.Contains(offline, `"status":"offline"`) || !strings.Contains(offline, "graceful_shutdown") {
		t.Errorf("offline payload missing fields: %s", offline)
	}
}

func TestPublish_Validation(t *testing.T) {
	// A zero-value client is never connected; validation errors fire before
	// the connection check where applicable.
	c := &Client{}

	if err := c.Publish("", []byte("x"), 1, false); err != ErrInvalidTopic {
		t.Errorf("Publish(empty topic) error = %v, want ErrInvalidTopic", err)
	}
	if err := c.Publish("castellan/ownership/events", []byte("x"), 3, false); err != ErrInvalidQoS {
		t.Errorf("Publish(qos 3) error = %v, want ErrInvalidQoS", err)
	}

	big := make([]byte, maxPayloadSize+1)
	if err := c.Publish("castellan/ownership/events", big, 1, false); err == nil {
		t.Error("Publish(oversized payload) should fail")
	}
}
