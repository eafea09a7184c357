package ws

import (
	"sync"

	"golang.org/x/net/websocket"

	"sessionhub/pkg/session"
)

// sendBuffer bounds the per-peer outbound queue. Delivery is best-effort:
// a peer that cannot drain its queue loses frames rather than stalling the
// engine or other peers.
const sendBuffer = 64

type peer struct {
	id   session.ParticipantID
	conn *websocket.Conn

	mu     sync.Mutex
	sendCh chan []byte
	closed bool
}

func newPeer(id session.ParticipantID, conn *websocket.Conn) *peer {
	return &peer{
		id:     id,
		conn:   conn,
		sendCh: make(chan []byte, sendBuffer),
	}
}

// run drains the send queue onto the connection until close. It owns all
// writes, so frames from concurrent broadcasts never interleave.
func (p *peer) run() {
	for b := range p.sendCh {
		if err := websocket.Message.Send(p.conn, string(b)); err != nil {
			p.close()
			return
		}
	}
}

// send queues a frame without blocking; full queues drop the frame.
func (p *peer) send(b []byte) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return
	}
	select {
	case p.sendCh <- b:
	default:
	}
}

// close shuts the queue and the underlying connection. Safe to call more
// than once and from any goroutine.
func (p *peer) close() {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return
	}
	p.closed = true
	close(p.sendCh)
	p.mu.Unlock()
	_ = p.conn.Close()
}
