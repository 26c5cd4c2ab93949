package handlers

import (
	"encoding/json"
	"log"
	"net/http"
	"sync"

	"soberPathAPI/internal/tracker"
	"soberPathAPI/internal/types/sobriety"
	"soberPathAPI/services"

	clerkjwt "github.com/clerk/clerk-sdk-go/v2/jwt"
	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

type StreamHandler struct {
	sobrietyService *services.SobrietyService
}

func NewStreamHandler(sobrietyService *services.SobrietyService) *StreamHandler {
	return &StreamHandler{
		sobrietyService: sobrietyService,
	}
}

// clientMessage is what the client sends: "refresh" forces a
// recomputation from cached data (e.g. after the app returns to the
// foreground), a targetUserId switches the tracked user.
type clientMessage struct {
	Action       string `json:"action"`
	TargetUserID string `json:"targetUserId"`
}

// StreamDaysSober upgrades to a websocket and pushes a fresh
// DaysSoberResult frame on every recomputation: on connect, whenever
// the client switches target user or requests a refresh, and at every
// local midnight. The
// tracker is stopped when the connection closes, so no timer outlives
// the socket. Auth comes from a ?token= query parameter because
// websocket clients cannot always set headers.
func (h *StreamHandler) StreamDaysSober(w http.ResponseWriter, r *http.Request) {
	token := r.URL.Query().Get("token")
	if token == "" {
		respondWithError(w, http.StatusUnauthorized, "Query parameter 'token' is required")
		return
	}

	claims, err := clerkjwt.Verify(r.Context(), &clerkjwt.VerifyParams{Token: token})
	if err != nil {
		log.Printf("StreamDaysSober: token verification failed: %v", err)
		respondWithError(w, http.StatusUnauthorized, "Invalid token")
		return
	}
	clerkID := claims.Subject

	ws, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("StreamDaysSober: could not upgrade connection: %v", err)
		return
	}
	defer ws.Close()

	var writeMu sync.Mutex
	push := func(result sobriety.DaysSoberResult) {
		frame, err := json.Marshal(result)
		if err != nil {
			return
		}
		writeMu.Lock()
		defer writeMu.Unlock()
		if err := ws.WriteMessage(websocket.TextMessage, frame); err != nil {
			log.Printf("StreamDaysSober: write to %s failed: %v", clerkID, err)
		}
	}

	t := tracker.New(h.sobrietyService, nil, "", clerkID, push)
	defer t.Stop()

	t.SetTargetUser(r.Context(), r.URL.Query().Get("targetUserId"))
	t.Start()

	for {
		_, data, err := ws.ReadMessage()
		if err != nil {
			return
		}
		var msg clientMessage
		if err := json.Unmarshal(data, &msg); err != nil {
			continue
		}
		if msg.Action == "refresh" {
			t.Refresh()
			continue
		}
		t.SetTargetUser(r.Context(), msg.TargetUserID)
	}
}
