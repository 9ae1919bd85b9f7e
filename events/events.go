// events/events.go
package events

import (
	"encoding/json"
	"time"

	log "github.com/sirupsen/logrus"
)

// Event types emitted over the real-time channel.
const (
	TypeDashboardUpdate      = "dashboard:update"
	TypeApprovalUpdate       = "approval:update"
	TypeAdminDashboardUpdate = "admin:dashboardUpdate"
)

// AdminRoom receives admin:dashboardUpdate events for every company.
const AdminRoom = "admin"

func UserRoom(userID string) string {
	return "user:" + userID
}

func InvestorRoom(investorID string) string {
	return "investor:" + investorID
}

// Event is one outbound real-time notification.
type Event struct {
	Room string      `json:"-"`
	Type string      `json:"type"`
	Data interface{} `json:"data,omitempty"`
	At   time.Time   `json:"timestamp"`
}

// Notifier is the transport the dispatcher hands marshalled events to.
// The websocket hub implements it.
type Notifier interface {
	Notify(room string, message []byte)
}

// Bus decouples writers from the real-time transport: handlers publish,
// a single dispatcher goroutine forwards to the Notifier. Publish never
// blocks and never fails the caller; delivery is best effort.
type Bus struct {
	ch chan Event
}

func NewBus(buffer int) *Bus {
	if buffer <= 0 {
		buffer = 256
	}
	return &Bus{ch: make(chan Event, buffer)}
}

// Publish enqueues an event, dropping it with a warning when the buffer is
// full. A failed or dropped notification must never fail the write that
// produced it.
func (b *Bus) Publish(e Event) {
	if e.At.IsZero() {
		e.At = time.Now().UTC()
	}
	select {
	case b.ch <- e:
	default:
		log.Warnf("event bus full, dropping %s for room %s", e.Type, e.Room)
	}
}

// Start runs the dispatcher until Close is called.
func (b *Bus) Start(n Notifier) {
	go func() {
		for e := range b.ch {
			data, err := json.Marshal(e)
			if err != nil {
				log.Warnf("failed to marshal %s event: %v", e.Type, err)
				continue
			}
			n.Notify(e.Room, data)
		}
	}()
}

func (b *Bus) Close() {
	close(b.ch)
}
