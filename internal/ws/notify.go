package ws

import (
	"context"
	"encoding/json"
	"time"
)

const (
	EventSessionState = "session_state"
	EventJobsState    = "jobs_state"
)

type StateEvent struct {
	Type      string `json:"type"`
	State     any    `json:"state"`
	Timestamp string `json:"timestamp"`
}

// Forward broadcasts every snapshot received on updates as an event of kind
// until updates closes or ctx is done.
func Forward[S any](ctx context.Context, h *Hub, kind string, updates <-chan S) {
	for {
		select {
		case <-ctx.Done():
			return
		case st, ok := <-updates:
			if !ok {
				return
			}
			b, err := json.Marshal(StateEvent{
				Type:      kind,
				State:     st,
				Timestamp: time.Now().UTC().Format(time.RFC3339),
			})
			if err != nil {
				h.logger.WithError(err).WithField("type", kind).Error("[WS] encode event failed")
				continue
			}
			h.Broadcast(kind, b)
		}
	}
}
