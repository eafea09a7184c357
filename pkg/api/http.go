package api

import (
	"net/http"

	"github.com/gorilla/mux"

	"sessionhub/pkg/models"
	"sessionhub/pkg/session"
	"sessionhub/pkg/utils"
)

// Handler returns the read-only REST surface. All mutation happens over
// the websocket protocol; these endpoints expose the same snapshots for
// operators, dashboards and tests:
// - GET /v1/chat:    current chat history
// - GET /v1/qa:      current Q&A threads with replies
// - GET /v1/regions: region tally
// - GET /v1/stats:   totals, kill state, history sizes
func Handler(eng *session.Engine) http.Handler {
	r := mux.NewRouter()
	RegisterRoutes(r, eng)
	return r
}

// RegisterRoutes registers the v1 read endpoints on the given router.
// Misses and wrong methods get the same JSON error envelope as every other
// response on this surface.
func RegisterRoutes(r *mux.Router, eng *session.Engine) {
	r.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		utils.JSONError(w, http.StatusNotFound, "not found")
	})
	r.MethodNotAllowedHandler = http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		utils.JSONError(w, http.StatusMethodNotAllowed, "method not allowed")
	})
	v1 := r.PathPrefix("/v1").Subrouter()
	v1.HandleFunc("/chat", getChat(eng)).Methods(http.MethodGet)
	v1.HandleFunc("/qa", getQA(eng)).Methods(http.MethodGet)
	v1.HandleFunc("/regions", getRegions(eng)).Methods(http.MethodGet)
	v1.HandleFunc("/stats", getStats(eng)).Methods(http.MethodGet)
}

func getChat(eng *session.Engine) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s := eng.Snapshot()
		_ = utils.JSONWrite(w, http.StatusOK, struct {
			Messages []*models.Message `json:"messages"`
		}{Messages: s.Chat})
	}
}

func getQA(eng *session.Engine) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s := eng.Snapshot()
		_ = utils.JSONWrite(w, http.StatusOK, struct {
			Threads []*models.Thread `json:"threads"`
		}{Threads: s.QA})
	}
}

func getRegions(eng *session.Engine) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		_ = utils.JSONWrite(w, http.StatusOK, struct {
			Regions map[string]int `json:"regions"`
		}{Regions: eng.RegionTally()})
	}
}

func getStats(eng *session.Engine) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s := eng.Snapshot()
		_ = utils.JSONWrite(w, http.StatusOK, struct {
			Total    int            `json:"total"`
			Regions  map[string]int `json:"regions"`
			Killed   bool           `json:"killed"`
			Messages int            `json:"messages"`
			Threads  int            `json:"threads"`
		}{
			Total:    s.Total,
			Regions:  s.Regions,
			Killed:   s.Killed,
			Messages: len(s.Chat),
			Threads:  len(s.QA),
		})
	}
}
