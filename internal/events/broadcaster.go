package events

import (
	"context"
	"fmt"
	"time"

	"github.com/castellan-io/castellan-core/internal/audit"
	"github.com/castellan-io/castellan-core/internal/infrastructure/logging"
	"github.com/castellan-io/castellan-core/internal/infrastructure/mqtt"
	"github.com/castellan-io/castellan-core/internal/ownership"
)

// publisher is the slice of the MQTT client the broadcaster needs.
type publisher interface {
	PublishJSON(topic string, v any, retained bool) error
}

// transitionWriter is the slice of the InfluxDB client the broadcaster needs.
type transitionWriter interface {
	WriteTransition(action, previousOwner, newOwner, caller string, at time.Time) error
}

// Event is the payload published for each ownership transition.
type Event struct {
	Action        string    `json:"action"`
	PreviousOwner string    `json:"previous_owner,omitempty"`
	NewOwner      string    `json:"new_owner,omitempty"`
	Timestamp     time.Time `json:"timestamp"`
}

// State is the retained payload describing the current owner. New MQTT
// subscribers receive it immediately on subscribe.
type State struct {
	Owner     string    `json:"owner,omitempty"`
	Renounced bool      `json:"renounced"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Broadcaster fans ownership transitions out to every configured consumer.
//
// The audit trail is the system of record: a failed audit write fails the
// whole notification. MQTT and InfluxDB are best-effort observers; their
// failures are logged and swallowed so a flaky broker cannot block an
// ownership change that has already been committed.
//
// Broadcaster implements ownership.Sink.
type Broadcaster struct {
	audit  audit.Repository
	logger *logging.Logger

	mqtt   publisher
	influx transitionWriter
	topics mqtt.Topics
}

// New creates a Broadcaster writing to the given audit repository. MQTT and
// InfluxDB consumers are attached separately since both are optional.
func New(auditRepo audit.Repository, logger *logging.Logger) *Broadcaster {
	return &Broadcaster{
		audit:  auditRepo,
		logger: logger.With("component", "events"),
	}
}

// AttachMQTT adds an MQTT consumer. Call before the broadcaster is in use.
func (b *Broadcaster) AttachMQTT(client publisher) {
	b.mqtt = client
}

// AttachInfluxDB adds an InfluxDB consumer. Call before the broadcaster is in use.
func (b *Broadcaster) AttachInfluxDB(client transitionWriter) {
	b.influx = client
}

// OwnershipTransferred records a transition in the audit trail and notifies
// the optional consumers.
func (b *Broadcaster) OwnershipTransferred(ctx context.Context, transfer ownership.Transfer) error {
	now := time.Now().UTC()
	action := classify(transfer)

	entry := &audit.Entry{
		Action:        action,
		PreviousOwner: string(transfer.Previous),
		NewOwner:      string(transfer.New),
		Caller:        string(transfer.Previous),
		Source:        sourceFor(action),
		CreatedAt:     now,
	}
	if err := b.audit.Create(ctx, entry); err != nil {
		return fmt.Errorf("recording audit entry: %w", err)
	}

	b.logger.Info("ownership transition",
		"action", action,
		"previous_owner", string(transfer.Previous),
		"new_owner", string(transfer.New),
	)

	if b.mqtt != nil {
		event := Event{
			Action:        action,
			PreviousOwner: string(transfer.Previous),
			NewOwner:      string(transfer.New),
			Timestamp:     now,
		}
		if err := b.mqtt.PublishJSON(b.topics.OwnershipEvents(), event, false); err != nil {
			b.logger.Warn("publishing ownership event failed", "error", err)
		}

		state := State{
			Owner:     string(transfer.New),
			Renounced: action == audit.ActionRenounce,
			UpdatedAt: now,
		}
		if err := b.mqtt.PublishJSON(b.topics.OwnershipState(), state, true); err != nil {
			b.logger.Warn("publishing ownership state failed", "error", err)
		}
	}

	if b.influx != nil {
		err := b.influx.WriteTransition(action, string(transfer.Previous), string(transfer.New), string(transfer.Previous), now)
		if err != nil {
			b.logger.Warn("writing ownership transition point failed", "error", err)
		}
	}

	return nil
}

// classify derives the audit action from the shape of the transition:
// no previous owner means first initialization, no new owner means
// renouncement, anything else is a transfer.
func classify(transfer ownership.Transfer) string {
	switch {
	case transfer.Previous.IsZero():
		return audit.ActionInitialize
	case transfer.New.IsZero():
		return audit.ActionRenounce
	default:
		return audit.ActionTransfer
	}
}

// sourceFor maps the action to where the call originated. Initialization
// only ever happens during bootstrap; transfers and renouncements only
// arrive through the API.
func sourceFor(action string) string {
	if action == audit.ActionInitialize {
		return "bootstrap"
	}
	return "api"
}
