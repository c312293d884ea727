package http

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/attendance"
	"github.com/cmlabs-hris/hris-attendance-go/internal/handler/http/middleware"
	"github.com/cmlabs-hris/hris-attendance-go/internal/handler/http/response"
	"github.com/cmlabs-hris/hris-attendance-go/internal/pkg/sse"
)

const eventsKeepalive = 30 * time.Second

type EventsHandler interface {
	// Stream pushes attendance changes visible to the caller as server-sent events
	Stream(w http.ResponseWriter, r *http.Request)
}

type eventsHandlerImpl struct {
	hub *sse.Hub
}

func NewEventsHandler(hub *sse.Hub) EventsHandler {
	return &eventsHandlerImpl{hub: hub}
}

// Stream handles GET /events. Browsers authenticate with the jwt cookie
// since EventSource cannot set headers.
func (h *eventsHandlerImpl) Stream(w http.ResponseWriter, r *http.Request) {
	actor, err := middleware.GetActor(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	rc := http.NewResponseController(w)
	// The server write timeout would otherwise cut the stream.
	_ = rc.SetWriteDeadline(time.Time{})

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no")

	events, cleanup := h.hub.Subscribe(attendance.SubscriberTopics(actor)...)
	defer cleanup()

	fmt.Fprintf(w, "event: connected\ndata: {\"userId\":%q}\n\n", actor.UserID)
	if err := rc.Flush(); err != nil {
		return
	}

	keepalive := time.NewTicker(eventsKeepalive)
	defer keepalive.Stop()

	for {
		select {
		case event, ok := <-events:
			if !ok {
				return
			}
			data, err := json.Marshal(event.Data)
			if err != nil {
				continue
			}
			fmt.Fprintf(w, "event: %s\ndata: %s\n\n", event.Event, data)
			if err := rc.Flush(); err != nil {
				return
			}

		case <-keepalive.C:
			fmt.Fprintf(w, ": ping %d\n\n", time.Now().Unix())
			if err := rc.Flush(); err != nil {
				return
			}

		case <-r.Context().Done():
			return
		}
	}
}
