// Package events fans domain changes out to websocket clients and the message broker.
package events

import (
	"context"
	"encoding/json"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"
)

// Event types.
const (
	CustomerCreated  = "customer_created"
	CustomerUpdated  = "customer_updated"
	OrderCreated     = "order_created"
	UserCreated      = "user_created"
	UserUpdated      = "user_updated"
	UserStatusUpdate = "user_status_update"
	SyncCompleted    = "sync_completed"
)

// Event is the envelope written to websocket clients and the broker.
type Event struct {
	Type string    `json:"type"`
	Data any       `json:"data"`
	At   time.Time `json:"at"`
}

// Notifier is what services use to announce a change.
type Notifier interface {
	Notify(eventType string, data any)
}

// Broadcaster delivers raw messages to connected clients.
type Broadcaster interface {
	Send(msg []byte)
}

// Publisher delivers JSON payloads to a broker exchange.
type Publisher interface {
	PublishJSON(ctx context.Context, exchange, routingKey string, payload any) error
}

// Dispatcher implements Notifier. Delivery happens in the background; a
// failed publish is logged and dropped.
type Dispatcher struct {
	hub      Broadcaster
	pub      Publisher
	exchange string
	log      *zap.Logger
	wg       sync.WaitGroup
}

// NewDispatcher wires a dispatcher. hub and pub may be nil.
func NewDispatcher(hub Broadcaster, pub Publisher, exchange string, log *zap.Logger) *Dispatcher {
	return &Dispatcher{hub: hub, pub: pub, exchange: exchange, log: log}
}

func (d *Dispatcher) Notify(eventType string, data any) {
	evt := Event{Type: eventType, Data: data, At: time.Now()}

	d.wg.Add(1)
	go func() {
		defer d.wg.Done()

		if d.hub != nil {
			msg, err := json.Marshal(evt)
			if err != nil {
				d.log.Warn("marshal event", zap.String("type", eventType), zap.Error(err))
				return
			}
			d.hub.Send(msg)
		}

		if d.pub != nil {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := d.pub.PublishJSON(ctx, d.exchange, RoutingKey(eventType), evt); err != nil {
				d.log.Warn("publish event", zap.String("type", eventType), zap.Error(err))
			}
		}
	}()
}

// Wait blocks until every pending delivery finished.
func (d *Dispatcher) Wait() {
	d.wg.Wait()
}

// RoutingKey turns order_created into order.created.
func RoutingKey(eventType string) string {
	return strings.ReplaceAll(eventType, "_", ".")
}

// Nop discards every event.
type Nop struct{}

func (Nop) Notify(string, any) {}
