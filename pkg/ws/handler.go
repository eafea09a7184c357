package ws

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"golang.org/x/net/websocket"

	"sessionhub/pkg/auth"
	"sessionhub/pkg/logger"
	"sessionhub/pkg/session"
)

const (
	maxFramePayloadBytes   = 16 * 1024
	maxDecodeErrorsPerConn = 3
)

// Inbound frame payloads. Voter and author identities are client-declared
// display names; the engine sanitizes them before use.
type regionPayload struct {
	Region string `json:"region"`
}

type chatPayload struct {
	Author string `json:"author"`
	Text   string `json:"text"`
	Region string `json:"region"`
}

type chatReactPayload struct {
	ID    string `json:"id"`
	Emoji string `json:"emoji"`
	Voter string `json:"voter"`
}

type chatFlagPayload struct {
	ID    string `json:"id"`
	Voter string `json:"voter"`
}

type replyPayload struct {
	ThreadID string `json:"threadId"`
	Author   string `json:"author"`
	Text     string `json:"text"`
}

type threadReactPayload struct {
	ThreadID string `json:"threadId"`
	Emoji    string `json:"emoji"`
	Voter    string `json:"voter"`
}

type replyReactPayload struct {
	ThreadID string `json:"threadId"`
	ReplyID  string `json:"replyId"`
	Emoji    string `json:"emoji"`
	Voter    string `json:"voter"`
}

type threadFlagPayload struct {
	ThreadID string `json:"threadId"`
	Voter    string `json:"voter"`
}

type replyFlagPayload struct {
	ThreadID string `json:"threadId"`
	ReplyID  string `json:"replyId"`
	Voter    string `json:"voter"`
}

type killPayload struct {
	Credential string `json:"credential"`
}

// Handler returns the /ws endpoint. Each connection becomes one
// participant for its lifetime; the engine is the single owner of all
// shared state and this layer only translates frames to engine calls.
func Handler(eng *session.Engine, hub *Hub, limits *auth.LimiterPool) http.Handler {
	return websocket.Handler(func(conn *websocket.Conn) {
		serve(conn, eng, hub, limits)
	})
}

func serve(conn *websocket.Conn, eng *session.Engine, hub *Hub, limits *auth.LimiterPool) {
	id := session.NewParticipantID()
	p := newPeer(id, conn)
	hub.add(p)
	go p.run()
	defer func() {
		hub.remove(id)
		eng.Disconnect(id)
		limits.Forget(string(id))
		p.close()
	}()

	eng.Connect(id)

	decoder := json.NewDecoder(conn)
	decodeErrors := 0
	for {
		var frame Frame
		if err := decoder.Decode(&frame); err != nil {
			if errors.Is(err, io.EOF) {
				return
			}
			decodeErrors++
			if decodeErrors >= maxDecodeErrorsPerConn {
				return
			}
			continue
		}
		decodeErrors = 0

		// Malformed, oversized and over-rate frames are dropped without
		// any reply; a single participant's bad input never surfaces to
		// the shared session.
		if len(frame.Payload) > maxFramePayloadBytes {
			continue
		}
		if !limits.Allow(string(id)) {
			logger.Debug("frame_rate_limited", "id", string(id), "type", frame.Type)
			continue
		}
		dispatch(eng, id, frame)
	}
}

func dispatch(eng *session.Engine, id session.ParticipantID, frame Frame) {
	switch frame.Type {
	case "region":
		var p regionPayload
		if decode(frame.Payload, &p) {
			eng.ReportRegion(id, p.Region)
		}
	case "toggle_viewing":
		eng.ToggleViewing(id)
	case "chat":
		var p chatPayload
		if decode(frame.Payload, &p) {
			eng.PostChat(id, p.Author, p.Text, p.Region)
		}
	case "chat_react":
		var p chatReactPayload
		if decode(frame.Payload, &p) {
			eng.ReactChat(p.ID, p.Emoji, p.Voter)
		}
	case "chat_flag":
		var p chatFlagPayload
		if decode(frame.Payload, &p) {
			eng.FlagChat(p.ID, p.Voter)
		}
	case "qa_ask":
		var p chatPayload
		if decode(frame.Payload, &p) {
			eng.PostThread(id, p.Author, p.Text, p.Region)
		}
	case "qa_reply":
		var p replyPayload
		if decode(frame.Payload, &p) {
			eng.PostReply(p.ThreadID, p.Author, p.Text)
		}
	case "qa_react":
		var p threadReactPayload
		if decode(frame.Payload, &p) {
			eng.ReactThread(p.ThreadID, p.Emoji, p.Voter)
		}
	case "reply_react":
		var p replyReactPayload
		if decode(frame.Payload, &p) {
			eng.ReactReply(p.ThreadID, p.ReplyID, p.Emoji, p.Voter)
		}
	case "qa_flag":
		var p threadFlagPayload
		if decode(frame.Payload, &p) {
			eng.FlagThread(p.ThreadID, p.Voter)
		}
	case "reply_flag":
		var p replyFlagPayload
		if decode(frame.Payload, &p) {
			eng.FlagReply(p.ThreadID, p.ReplyID, p.Voter)
		}
	case "kill":
		var p killPayload
		if decode(frame.Payload, &p) {
			eng.Kill(p.Credential)
		}
	default:
		logger.Debug("frame_unknown_type", "type", frame.Type)
	}
}

func decode(raw json.RawMessage, v any) bool {
	if len(raw) == 0 {
		return false
	}
	return json.Unmarshal(raw, v) == nil
}
