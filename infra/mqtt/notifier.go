// Package mqtt publishes coordination notifications to an MQTT broker so
// ops dashboards can follow assignments and conflict scans without polling
// the HTTP API.
package mqtt

import (
	"encoding/json"
	"fmt"
	"time"

	paho "github.com/eclipse/paho.mqtt.golang"

	"github.com/droneops/coordinator/core/events"
	"github.com/droneops/coordinator/infra/logger"
)

// Config defines the connection parameters for the Paho MQTT notifier.
type Config struct {
	Enabled     bool   `json:"enabled"`
	Broker      string `json:"broker"`
	ClientID    string `json:"client_id"`
	Username    string `json:"username"`
	Password    string `json:"password"`
	TopicPrefix string `json:"topic_prefix"`
	QoS         byte   `json:"qos"`
}

// SetDefaults fills in the topic prefix.
func (c *Config) SetDefaults() {
	if c.TopicPrefix == "" {
		c.TopicPrefix = "droneops"
	}
}

// Notifier publishes coordination events.
type Notifier interface {
	AssignmentCommitted(ev events.AssignmentEvent) error
	ScanCompleted(ev events.ScanEvent) error
	Close() error
}

// NopNotifier discards notifications.
type NopNotifier struct{}

func (NopNotifier) AssignmentCommitted(events.AssignmentEvent) error { return nil }
func (NopNotifier) ScanCompleted(events.ScanEvent) error             { return nil }
func (NopNotifier) Close() error                                     { return nil }

type pahoClient interface {
	IsConnected() bool
	Connect() paho.Token
	Disconnect(quiesce uint)
	Publish(topic string, qos byte, retained bool, payload interface{}) paho.Token
}

var newMQTTClient = func(opts *paho.ClientOptions) pahoClient {
	return paho.NewClient(opts)
}

// PahoNotifier implements Notifier over Eclipse Paho.
type PahoNotifier struct {
	cli    pahoClient
	prefix string
	qos    byte
	log    logger.Logger
}

// NewPahoNotifier connects to the broker and returns a ready notifier.
func NewPahoNotifier(cfg Config) (*PahoNotifier, error) {
	cfg.SetDefaults()
	opts := paho.NewClientOptions().
		AddBroker(cfg.Broker).
		SetClientID(cfg.ClientID).
		SetUsername(cfg.Username).
		SetPassword(cfg.Password).
		SetConnectTimeout(5 * time.Second)
	cli := newMQTTClient(opts)
	tok := cli.Connect()
	if !tok.WaitTimeout(5*time.Second) || tok.Error() != nil {
		return nil, fmt.Errorf("mqtt connect: %w", tok.Error())
	}
	return &PahoNotifier{cli: cli, prefix: cfg.TopicPrefix, qos: cfg.QoS, log: logger.New("mqtt-notifier")}, nil
}

func (n *PahoNotifier) publish(topic string, v any) error {
	payload, err := json.Marshal(v)
	if err != nil {
		return err
	}
	tok := n.cli.Publish(n.prefix+"/"+topic, n.qos, false, payload)
	if !tok.WaitTimeout(5*time.Second) || tok.Error() != nil {
		return fmt.Errorf("publish %s: %w", topic, tok.Error())
	}
	return nil
}

// AssignmentCommitted publishes the assignment outcome to <prefix>/assignments.
func (n *PahoNotifier) AssignmentCommitted(ev events.AssignmentEvent) error {
	body := map[string]any{
		"audit_id":   ev.AuditID,
		"entity":     ev.Entity,
		"entity_key": ev.EntityKey,
		"mission_id": ev.MissionID,
		"succeeded":  ev.Err == nil,
		"time":       ev.Time,
	}
	if ev.Err != nil {
		body["error"] = ev.Err.Error()
	}
	return n.publish("assignments", body)
}

// ScanCompleted publishes a conflict scan summary to <prefix>/conflicts.
func (n *PahoNotifier) ScanCompleted(ev events.ScanEvent) error {
	counts := map[string]int{}
	for _, c := range ev.Conflicts {
		counts[string(c.Kind)]++
	}
	return n.publish("conflicts", map[string]any{
		"total":       len(ev.Conflicts),
		"by_kind":     counts,
		"duration_ms": ev.Duration.Milliseconds(),
		"time":        ev.Time,
	})
}

// Close disconnects from the broker.
func (n *PahoNotifier) Close() error {
	n.cli.Disconnect(250)
	return nil
}
