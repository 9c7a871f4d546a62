package handlers

import (
	"bufio"
	"encoding/json"
	"fmt"
	"log"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/valyala/fasthttp"

	"github.com/subhrajit77/DoDeck-The-Task-manager/middleware"
)

// eventSession is one open SSE stream belonging to a user.
type eventSession struct {
	owner  int64
	notify chan string
}

// EventHub tracks open change streams and pushes a "tasks-changed"
// event to the owner's sessions after every task mutation, so other
// open clients know to refresh their list.
type EventHub struct {
	mu       sync.Mutex
	sessions []*eventSession
}

func NewEventHub() *EventHub {
	return &EventHub{}
}

func (h *EventHub) addSession(s *eventSession) {
	h.mu.Lock()
	h.sessions = append(h.sessions, s)
	h.mu.Unlock()
}

func (h *EventHub) removeSession(s *eventSession) {
	h.mu.Lock()
	idx := slices.Index(h.sessions, s)
	if idx != -1 {
		h.sessions[idx] = nil
		h.sessions = slices.Delete(h.sessions, idx, idx+1)
	}
	h.mu.Unlock()
}

// NotifyTasksChanged wakes every open stream of the given owner. Safe
// to call on a nil hub; slow consumers are skipped rather than blocked
// on.
func (h *EventHub) NotifyTasksChanged(owner int64) {
	if h == nil {
		return
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	for _, s := range h.sessions {
		if s.owner != owner {
			continue
		}
		select {
		case s.notify <- "tasks-changed":
		default:
		}
	}
}

func formatSSEMessage(eventType string, data any) (string, error) {
	payload, err := json.Marshal(map[string]any{"data": data})
	if err != nil {
		return "", err
	}

	sb := strings.Builder{}
	sb.WriteString(fmt.Sprintf("event: %s\n", eventType))
	sb.WriteString(fmt.Sprintf("retry: %d\n", 15000))
	sb.WriteString(fmt.Sprintf("data: %s\n\n", payload))
	return sb.String(), nil
}

// Stream serves the authenticated SSE endpoint. The stream stays open
// until the client disconnects, with a keep-alive comment every 15s.
func (h *EventHub) Stream(c *fiber.Ctx) error {
	c.Set("Content-Type", "text/event-stream")
	c.Set("Cache-Control", "no-cache")
	c.Set("Connection", "keep-alive")
	c.Set("Transfer-Encoding", "chunked")

	s := &eventSession{
		owner:  middleware.Identity(c).ID,
		notify: make(chan string, 4),
	}
	h.addSession(s)

	done := c.Context().Done()

	c.Context().SetBodyStreamWriter(fasthttp.StreamWriter(func(w *bufio.Writer) {
		h.stream(w, s, done)
	}))

	return nil
}

// stream pumps events to one open connection until the client
// disconnects or a write fails. Selecting on done here (not just in a
// side goroutine) is what lets an idle stream's writer exit instead of
// waiting forever on a notify that can no longer come.
func (h *EventHub) stream(w *bufio.Writer, s *eventSession, done <-chan struct{}) {
	keepAlive := time.NewTicker(15 * time.Second)
	defer keepAlive.Stop()
	defer h.removeSession(s)

	for {
		select {
		case <-done:
			return
		case ev := <-s.notify:
			msg, err := formatSSEMessage(ev, time.Now().Unix())
			if err != nil {
				log.Printf("error formatting sse message: %v", err)
				continue
			}
			if _, err := fmt.Fprint(w, msg); err != nil {
				continue
			}
			if err := w.Flush(); err != nil {
				return
			}
		case <-keepAlive.C:
			fmt.Fprint(w, ":keepalive\n\n")
			if err := w.Flush(); err != nil {
				return
			}
		}
	}
}
