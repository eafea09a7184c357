package ws

import (
	"encoding/json"
	"sync"

	"sessionhub/pkg/logger"
	"sessionhub/pkg/session"
)

// Frame is the wire envelope in both directions.
type Frame struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// Hub tracks connected peers and implements session.Broadcaster. Payloads
// are marshaled synchronously inside each call, honoring the engine's
// contract that it may mutate the payload after the call returns; actual
// delivery is queued per peer and never awaited.
type Hub struct {
	mu    sync.RWMutex
	peers map[session.ParticipantID]*peer
}

func NewHub() *Hub {
	return &Hub{peers: make(map[session.ParticipantID]*peer)}
}

func (h *Hub) add(p *peer) {
	h.mu.Lock()
	h.peers[p.id] = p
	h.mu.Unlock()
}

func (h *Hub) remove(id session.ParticipantID) {
	h.mu.Lock()
	delete(h.peers, id)
	h.mu.Unlock()
}

// BroadcastAll queues the event for every connected peer.
func (h *Hub) BroadcastAll(event string, payload any) {
	b, ok := marshalFrame(event, payload)
	if !ok {
		return
	}
	h.mu.RLock()
	defer h.mu.RUnlock()
	for _, p := range h.peers {
		p.send(b)
	}
}

// SendTo queues the event for a single peer; unknown ids are dropped.
func (h *Hub) SendTo(id session.ParticipantID, event string, payload any) {
	b, ok := marshalFrame(event, payload)
	if !ok {
		return
	}
	h.mu.RLock()
	p := h.peers[id]
	h.mu.RUnlock()
	if p != nil {
		p.send(b)
	}
}

// CloseConnection tears the peer's transport down asynchronously so the
// engine never blocks on (or re-enters through) a closing connection.
func (h *Hub) CloseConnection(id session.ParticipantID) {
	h.mu.RLock()
	p := h.peers[id]
	h.mu.RUnlock()
	if p != nil {
		go p.close()
	}
}

func marshalFrame(event string, payload any) ([]byte, bool) {
	var raw json.RawMessage
	if payload != nil {
		b, err := json.Marshal(payload)
		if err != nil {
			logger.Error("frame_marshal_failed", "event", event, "error", err)
			return nil, false
		}
		raw = b
	}
	b, err := json.Marshal(Frame{Type: event, Payload: raw})
	if err != nil {
		logger.Error("frame_marshal_failed", "event", event, "error", err)
		return nil, false
	}
	return b, true
}
