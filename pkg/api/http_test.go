package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"sessionhub/pkg/models"
	"sessionhub/pkg/session"
	"sessionhub/pkg/validation"
)

type nopBroadcaster struct{}

func (nopBroadcaster) BroadcastAll(string, any)                  {}
func (nopBroadcaster) SendTo(session.ParticipantID, string, any) {}
func (nopBroadcaster) CloseConnection(session.ParticipantID)     {}

func setup(t *testing.T) (*session.Engine, *httptest.Server) {
	t.Helper()
	validation.SetRules(validation.Rules{MaxTextLen: 500, Emojis: []string{"💡"}})
	eng := session.New(nopBroadcaster{}, session.Options{})
	srv := httptest.NewServer(Handler(eng))
	t.Cleanup(srv.Close)
	return eng, srv
}

func TestReadEndpoints(t *testing.T) {
	eng, srv := setup(t)
	id := session.NewParticipantID()
	eng.Connect(id)
	eng.ReportRegion(id, "Europe")
	if out := eng.PostChat(id, "alice", "hello", "Europe"); !out.Accepted {
		t.Fatalf("post rejected: %s", out.Reason)
	}

	res, err := http.Get(srv.URL + "/v1/chat")
	if err != nil {
		t.Fatalf("get chat: %v", err)
	}
	defer res.Body.Close()
	if res.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", res.StatusCode)
	}
	var chat struct {
		Messages []*models.Message `json:"messages"`
	}
	if err := json.NewDecoder(res.Body).Decode(&chat); err != nil {
		t.Fatalf("decode chat: %v", err)
	}
	if len(chat.Messages) != 1 || chat.Messages[0].Author != "alice" {
		t.Fatalf("unexpected chat: %+v", chat.Messages)
	}

	res2, err := http.Get(srv.URL + "/v1/regions")
	if err != nil {
		t.Fatalf("get regions: %v", err)
	}
	defer res2.Body.Close()
	var regions struct {
		Regions map[string]int `json:"regions"`
	}
	if err := json.NewDecoder(res2.Body).Decode(&regions); err != nil {
		t.Fatalf("decode regions: %v", err)
	}
	if regions.Regions["Europe"] != 1 {
		t.Fatalf("unexpected regions: %v", regions.Regions)
	}

	res3, err := http.Get(srv.URL + "/v1/stats")
	if err != nil {
		t.Fatalf("get stats: %v", err)
	}
	defer res3.Body.Close()
	var stats struct {
		Total    int  `json:"total"`
		Killed   bool `json:"killed"`
		Messages int  `json:"messages"`
		Threads  int  `json:"threads"`
	}
	if err := json.NewDecoder(res3.Body).Decode(&stats); err != nil {
		t.Fatalf("decode stats: %v", err)
	}
	if stats.Total != 1 || stats.Killed || stats.Messages != 1 || stats.Threads != 0 {
		t.Fatalf("unexpected stats: %+v", stats)
	}
}

func TestQAEndpoint(t *testing.T) {
	eng, srv := setup(t)
	if out := eng.PostAutomatedThread("🤖 Session Facilitator", "What about empathy?"); !out.Accepted {
		t.Fatalf("prompt rejected: %s", out.Reason)
	}

	res, err := http.Get(srv.URL + "/v1/qa")
	if err != nil {
		t.Fatalf("get qa: %v", err)
	}
	defer res.Body.Close()
	var qa struct {
		Threads []*models.Thread `json:"threads"`
	}
	if err := json.NewDecoder(res.Body).Decode(&qa); err != nil {
		t.Fatalf("decode qa: %v", err)
	}
	if len(qa.Threads) != 1 || !qa.Threads[0].Automated {
		t.Fatalf("unexpected threads: %+v", qa.Threads)
	}
}

func TestMutationsNotExposed(t *testing.T) {
	_, srv := setup(t)
	res, err := http.Post(srv.URL+"/v1/chat", "application/json", nil)
	if err != nil {
		t.Fatalf("post chat: %v", err)
	}
	defer res.Body.Close()
	if res.StatusCode != http.StatusMethodNotAllowed {
		t.Fatalf("expected 405, got %d", res.StatusCode)
	}
	var body struct {
		Error string `json:"error"`
	}
	if err := json.NewDecoder(res.Body).Decode(&body); err != nil {
		t.Fatalf("decode error body: %v", err)
	}
	if body.Error == "" {
		t.Fatal("expected a JSON error envelope")
	}
}

func TestUnknownPathGetsJSONError(t *testing.T) {
	_, srv := setup(t)
	res, err := http.Get(srv.URL + "/v1/nope")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	defer res.Body.Close()
	if res.StatusCode != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", res.StatusCode)
	}
	if ct := res.Header.Get("Content-Type"); ct != "application/json" {
		t.Fatalf("expected JSON content type, got %q", ct)
	}
	var body struct {
		Error string `json:"error"`
	}
	if err := json.NewDecoder(res.Body).Decode(&body); err != nil {
		t.Fatalf("decode error body: %v", err)
	}
	if body.Error != "not found" {
		t.Fatalf("unexpected error message: %q", body.Error)
	}
}
