package live

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/url"

	"github.com/coder/websocket"
	"github.com/gorilla/mux"

	"github.com/inamate/rig/internal/skeleton"
)

var ErrNotFound = errors.New("skeleton not found")

// Loader returns the decoded skeleton for id, or an error wrapping
// ErrNotFound.
type Loader func(ctx context.Context, id string) (*skeleton.SkeletonData, error)

// Handler upgrades GET /ws/skeletons/{id} to a websocket in that
// skeleton's room.
type Handler struct {
	hub            *Hub
	load           Loader
	originPatterns []string
}

func NewHandler(hub *Hub, load Loader, origins []string) *Handler {
	return &Handler{hub: hub, load: load, originPatterns: OriginPatterns(origins)}
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	skeletonID := mux.Vars(r)["id"]

	sd, err := h.load(r.Context(), skeletonID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			http.Error(w, "skeleton not found", http.StatusNotFound)
			return
		}
		slog.Error("load skeleton", "error", err, "skeleton", skeletonID)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		OriginPatterns: h.originPatterns,
	})
	if err != nil {
		slog.Error("websocket accept", "error", err)
		return
	}

	displayName := r.URL.Query().Get("name")
	if displayName == "" {
		displayName = "Anonymous"
	}
	client := NewClient(h.hub, conn, skeletonID, displayName, sd)

	if !h.hub.Register(client) {
		conn.Close(websocket.StatusGoingAway, "server shutting down")
		return
	}

	ctx := r.Context()
	go client.WritePump(ctx)
	client.ReadPump(ctx)
}

// OriginPatterns turns allowed origins such as "http://localhost:5173"
// into the host patterns websocket.Accept matches against.
func OriginPatterns(origins []string) []string {
	patterns := make([]string, 0, len(origins))
	for _, o := range origins {
		if u, err := url.Parse(o); err == nil && u.Host != "" {
			patterns = append(patterns, u.Host)
			continue
		}
		patterns = append(patterns, o)
	}
	return patterns
}
