package sse

import (
	"strings"
	"sync"

	"github.com/cmlabs-hris/hris-ledger/internal/domain/leave"
)

const subscriberBuffer = 16

// Event is one server-sent event addressed to a single employee.
type Event struct {
	EmployeeID string
	Event      string
	Data       any
}

// Hub fans events out to every open stream of an employee. Slow readers
// lose events instead of blocking publishers.
type Hub struct {
	mu          sync.RWMutex
	subscribers map[string]map[chan Event]struct{}
}

func NewHub() *Hub {
	return &Hub{
		subscribers: make(map[string]map[chan Event]struct{}),
	}
}

// Subscribe registers a stream for employeeID. Calling cleanup closes the
// returned channel.
func (h *Hub) Subscribe(employeeID string) (<-chan Event, func()) {
	h.mu.Lock()
	defer h.mu.Unlock()

	ch := make(chan Event, subscriberBuffer)
	if h.subscribers[employeeID] == nil {
		h.subscribers[employeeID] = make(map[chan Event]struct{})
	}
	h.subscribers[employeeID][ch] = struct{}{}

	var once sync.Once
	cleanup := func() {
		once.Do(func() {
			h.mu.Lock()
			defer h.mu.Unlock()
			delete(h.subscribers[employeeID], ch)
			close(ch)
			if len(h.subscribers[employeeID]) == 0 {
				delete(h.subscribers, employeeID)
			}
		})
	}

	return ch, cleanup
}

// Publish delivers event to the streams of event.EmployeeID.
func (h *Hub) Publish(event Event) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for ch := range h.subscribers[event.EmployeeID] {
		select {
		case ch <- event:
		default:
		}
	}
}

func (h *Hub) SubscriberCount(employeeID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subscribers[employeeID])
}

// RequestChanged implements leave.Notifier. The requester hears about every
// change to their own request, named like "leave_request.approved".
func (h *Hub) RequestChanged(req leave.Request) {
	h.Publish(Event{
		EmployeeID: req.EmployeeID,
		Event:      "leave_request." + strings.ToLower(string(req.Status)),
		Data:       leave.NewLeaveRequestResponse(req),
	})
}
